package classify

import (
	"strings"

	"github.com/abenezerh/birr/internal/model"
)

// User-facing failure messages. Kept bank-agnostic so every gateway shares
// them.
const (
	msgNetwork            = "Unable to connect to the server. Please check your internet connection."
	msgTimeout            = "Request timed out. Please try again."
	msgInvalidTransaction = "Sorry, your transaction ID is invalid. Please enter the correct ID and retry."
	msgInvalidRequest     = "Invalid request. Please check your input."
	msgServerError        = "Server error occurred. Please try again later."
	msgUnexpected         = "An unexpected error occurred. Please try again."
	msgServiceUnavailable = "The verification service is temporarily unavailable. Please try again later."
)

var networkSignals = []string{
	"Network Error",
	"Unable to connect",
	"connection refused",
	"connection timed out",
}

// Classify converts a parsed transport failure into an ErrorState. The match
// order is significant: backend messages are free text and can satisfy more
// than one pattern, so the first match wins.
func Classify(raw *RawError) model.ErrorState {
	if raw == nil {
		return model.NewErrorState(model.ErrorUnknown, msgUnexpected, "")
	}

	// No HTTP response at all. Connection-level failures default to Network
	// unless a timeout signal is present without one.
	if raw.Status == 0 {
		for _, signal := range networkSignals {
			if strings.Contains(raw.Message, signal) {
				return model.NewErrorState(model.ErrorNetwork, msgNetwork, raw.Details)
			}
		}
		if raw.Timeout || strings.Contains(raw.Message, "timeout") {
			return model.NewErrorState(model.ErrorTimeout, msgTimeout, raw.Details)
		}
		if raw.Message != "" {
			return model.NewErrorState(model.ErrorNetwork, msgNetwork, raw.Details)
		}
		return model.NewErrorState(model.ErrorUnknown, msgUnexpected, raw.Details)
	}

	message := raw.Message
	if raw.Body != nil && raw.Body.Message != "" {
		message = raw.Body.Message
	}

	if raw.Status == 408 || strings.Contains(message, "timeout") {
		return model.NewErrorState(model.ErrorTimeout, msgTimeout, raw.Details)
	}

	if strings.Contains(message, "Invalid Transaction ID") || strings.Contains(message, "Transaction not found") {
		return model.NewErrorState(model.ErrorInvalidTransaction, msgInvalidTransaction, message)
	}

	if raw.Status >= 400 && raw.Status < 500 {
		userMessage := message
		if userMessage == "" {
			userMessage = msgInvalidRequest
		}
		return model.NewErrorState(model.ErrorValidation, userMessage, raw.Details)
	}

	if raw.Status >= 500 {
		return model.NewErrorState(model.ErrorUnknown, msgServerError, message)
	}

	// A response was received but nothing matched; surface the backend's own
	// message when it has one.
	userMessage := message
	if userMessage == "" {
		userMessage = msgUnexpected
	}
	return model.NewErrorState(model.ErrorUnknown, userMessage, raw.Details)
}
