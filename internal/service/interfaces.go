// Package service defines the interfaces shared between the gateway, the
// storage layer, and the UIs.
package service

import (
	"context"
	"io"

	"github.com/abenezerh/birr/internal/classify"
	"github.com/abenezerh/birr/internal/model"
)

// FilePart is one file attached to a multipart request.
type FilePart struct {
	Reader    io.Reader
	FieldName string
	Filename  string
}

// Transport is the HTTP collaborator the gateway talks to. Implementations
// must return either a decoded response or a *classify.RawError; no other
// error shapes cross this boundary.
type Transport interface {
	PostJSON(ctx context.Context, path string, payload map[string]string) (*classify.RawResponse, error)
	PostMultipart(ctx context.Context, path string, fields map[string]string, file FilePart) (*classify.RawResponse, error)
	Get(ctx context.Context, path string) (*classify.RawResponse, error)
}

// HistoryStore records verification attempts per bank, most recent first,
// capped at 50 entries per bank. It exists to feed autocomplete and the
// history command; write failures never affect verification outcomes.
type HistoryStore interface {
	Append(ctx context.Context, entry model.HistoryEntry) (int64, error)
	List(ctx context.Context, bank model.Bank) ([]model.HistoryEntry, error)
	UpdateStatus(ctx context.Context, bank model.Bank, id int64, status model.AttemptStatus, errorKind model.ErrorKind) error
	RecentValues(ctx context.Context, bank model.Bank, field string, limit int) ([]string, error)
	Clear(ctx context.Context, bank model.Bank) error
	Close() error
}

// History field names accepted by RecentValues.
const (
	FieldTransactionID = "transaction_id"
	FieldAccountNumber = "account_number"
)
