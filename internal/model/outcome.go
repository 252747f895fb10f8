package model

// ErrorKind labels a failed verification attempt and drives retryability.
type ErrorKind string

// Error kinds.
const (
	ErrorNetwork            ErrorKind = "network"
	ErrorTimeout            ErrorKind = "timeout"
	ErrorInvalidTransaction ErrorKind = "invalid_transaction"
	ErrorValidation         ErrorKind = "validation"
	ErrorUnknown            ErrorKind = "unknown"
)

// Retryable reports whether an error of this kind is worth retrying with the
// same inputs. The mapping is fixed; callers must not recompute it.
func (k ErrorKind) Retryable() bool {
	switch k {
	case ErrorNetwork, ErrorTimeout, ErrorUnknown:
		return true
	case ErrorInvalidTransaction, ErrorValidation:
		return false
	default:
		return true
	}
}

// ErrorState is a classified transport or backend failure.
type ErrorState struct {
	Kind      ErrorKind
	Message   string
	Details   string
	Retryable bool
}

// NewErrorState builds an ErrorState with the retryable flag derived from the
// kind.
func NewErrorState(kind ErrorKind, message, details string) ErrorState {
	return ErrorState{
		Kind:      kind,
		Message:   message,
		Details:   details,
		Retryable: kind.Retryable(),
	}
}

// OutcomeKind discriminates the Outcome variants.
type OutcomeKind string

// Outcome variants.
const (
	OutcomeSuccess            OutcomeKind = "success"
	OutcomeManualVerification OutcomeKind = "manual_verification_required"
	OutcomeValidationError    OutcomeKind = "validation_error"
	OutcomeFailure            OutcomeKind = "failure"
)

// Outcome is the single classified result of one verification attempt.
// Exactly one variant is active; use the constructors below.
type Outcome struct {
	Data    *ExtractedData
	Error   *ErrorState
	Kind    OutcomeKind
	Message string
}

// SuccessOutcome wraps a fully-extracted transaction record.
func SuccessOutcome(data ExtractedData, message string) Outcome {
	return Outcome{Kind: OutcomeSuccess, Data: &data, Message: message}
}

// ManualVerificationOutcome signals that the backend could not extract a
// transaction ID from an image and text entry is needed. Partial data may be
// nil; its TransactionID is always left unset.
func ManualVerificationOutcome(message string, partial *ExtractedData) Outcome {
	if partial != nil {
		p := *partial
		p.TransactionID = ""
		partial = &p
	}
	return Outcome{Kind: OutcomeManualVerification, Data: partial, Message: message}
}

// ValidationErrorOutcome reports a caller-side missing-field error that never
// reached the backend.
func ValidationErrorOutcome(message string) Outcome {
	return Outcome{Kind: OutcomeValidationError, Message: message}
}

// FailureOutcome wraps a classified transport or backend error.
func FailureOutcome(state ErrorState) Outcome {
	return Outcome{Kind: OutcomeFailure, Error: &state, Message: state.Message}
}
