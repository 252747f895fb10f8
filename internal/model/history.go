package model

import "time"

// AttemptStatus tracks the lifecycle of a recorded verification attempt.
type AttemptStatus string

// Attempt statuses.
const (
	AttemptPending AttemptStatus = "pending"
	AttemptSuccess AttemptStatus = "success"
	AttemptFailed  AttemptStatus = "failed"
)

// HistoryEntry is one recorded verification attempt. Entries are append-only
// and updated in place by ID when the attempt resolves.
type HistoryEntry struct {
	CreatedAt     time.Time
	Bank          Bank
	TransactionID string
	AccountNumber string
	Status        AttemptStatus
	ErrorKind     ErrorKind
	ID            int64
}
