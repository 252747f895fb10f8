// Package present maps classified outcomes onto the four result views. It is
// pure selection logic; rendering lives in the cli and tui packages.
package present

import "github.com/abenezerh/birr/internal/model"

// ViewKind identifies which result view to show.
type ViewKind string

// The four result views.
const (
	ViewSuccess            ViewKind = "success"
	ViewError              ViewKind = "error"
	ViewManualVerification ViewKind = "manual_verification"
	ViewValidationError    ViewKind = "validation_error"
)

// View carries everything a result view needs to render.
type View struct {
	Data                 *model.ExtractedData
	Kind                 ViewKind
	Title                string
	Message              string
	PrefillTransactionID string
	Retryable            bool
}

// Select picks the view for an outcome. suppressManual reroutes a
// manual-verification outcome to the error view, for callers already on the
// manual-entry path.
func Select(outcome model.Outcome, suppressManual bool) View {
	switch outcome.Kind {
	case model.OutcomeSuccess:
		return View{
			Kind:    ViewSuccess,
			Title:   "Payment Verified",
			Message: outcome.Message,
			Data:    outcome.Data,
		}

	case model.OutcomeManualVerification:
		if suppressManual {
			return View{
				Kind:    ViewError,
				Title:   "Verification Failed",
				Message: outcome.Message,
			}
		}
		view := View{
			Kind:    ViewManualVerification,
			Title:   "Manual Entry Required",
			Message: outcome.Message,
			Data:    outcome.Data,
		}
		if outcome.Data != nil {
			view.PrefillTransactionID = outcome.Data.TransactionID
		}
		return view

	case model.OutcomeValidationError:
		return View{
			Kind:    ViewValidationError,
			Title:   "Missing Information",
			Message: outcome.Message,
		}

	default:
		view := View{
			Kind:    ViewError,
			Title:   "Verification Failed",
			Message: outcome.Message,
		}
		if outcome.Error != nil {
			view.Title = errorTitle(outcome.Error.Kind)
			view.Message = outcome.Error.Message
			view.Retryable = outcome.Error.Retryable
		}
		return view
	}
}

func errorTitle(kind model.ErrorKind) string {
	switch kind {
	case model.ErrorNetwork:
		return "Connection Error"
	case model.ErrorTimeout:
		return "Request Timeout"
	case model.ErrorInvalidTransaction:
		return "Invalid Transaction ID"
	case model.ErrorValidation:
		return "Missing Information"
	default:
		return "Verification Failed"
	}
}
