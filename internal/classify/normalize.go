package classify

import (
	"strings"

	"github.com/abenezerh/birr/internal/model"
)

const msgManualEntry = "Unable to extract transaction ID from image. Please enter it manually."

// Statuses some integrations nest under data.status to request manual entry.
var manualStatuses = []string{"Manual Entry Required", "Manual Verification Required"}

// Normalize classifies a 2xx backend body into an Outcome. It is pure: the
// same body always yields the same Outcome.
func Normalize(bank model.Bank, resp *RawResponse) model.Outcome {
	if resp == nil {
		return model.FailureOutcome(model.NewErrorState(model.ErrorUnknown, msgUnexpected, "empty response body"))
	}
	resp = remapLegacy(resp)

	if manualVerificationSignal(resp, resp.Message) {
		return manualOutcome(resp, resp.Message)
	}

	data := extract(selectData(resp))

	if resp.Status == "success" && data.Complete() && !placeholderData(data, resp.DebugInfo) {
		return model.SuccessOutcome(data, resp.Message)
	}

	// Terminal failure signals. Service Unavailable gets its own message so
	// the user is not told their transaction ID is wrong.
	if data.RawStatus == "Service Unavailable" {
		return model.FailureOutcome(model.NewErrorState(model.ErrorUnknown, msgServiceUnavailable, resp.Message))
	}
	if resp.Status == "failed" || data.RawStatus == "Failed" {
		return model.FailureOutcome(model.NewErrorState(model.ErrorInvalidTransaction, msgInvalidTransaction, resp.Message))
	}

	// Marked success but incomplete, or an unrecognized status: classify from
	// the response message.
	return model.FailureOutcome(Classify(&RawError{Status: 200, Message: resp.Message, Body: resp}))
}

// NormalizeError classifies a transport failure into an Outcome. Manual
// verification is intercepted here too, because some integrations deliver
// that signal on non-2xx responses.
func NormalizeError(bank model.Bank, raw *RawError) model.Outcome {
	if raw == nil {
		return model.FailureOutcome(model.NewErrorState(model.ErrorUnknown, msgUnexpected, ""))
	}
	body := remapLegacy(raw.Body)

	message := raw.Message
	if body != nil && body.Message != "" {
		message = body.Message
	}
	if manualVerificationSignal(body, message) {
		return manualOutcome(body, message)
	}

	return model.FailureOutcome(Classify(raw))
}

// manualVerificationSignal detects every known way the backends ask for
// manual entry: a top-level status, a nested data.status, the exact message
// pair, or the broad keyword fallback the integrations rely on.
func manualVerificationSignal(resp *RawResponse, message string) bool {
	if resp != nil {
		if resp.Status == "Manual_Verification_Required" {
			return true
		}
		nested := mapString(resp.Data, "status")
		for _, s := range manualStatuses {
			if nested == s {
				return true
			}
		}
		if message == "" {
			message = resp.Message
		}
	}
	if strings.Contains(message, "Unable to extract transaction ID from image") &&
		strings.Contains(message, "Please enter it manually") {
		return true
	}
	if containsFold(message, "manual") &&
		(containsFold(message, "enter") || containsFold(message, "extract") || containsFold(message, "transaction id")) {
		return true
	}
	return false
}

func manualOutcome(resp *RawResponse, message string) model.Outcome {
	if message == "" {
		message = msgManualEntry
	}
	var partial *model.ExtractedData
	if resp != nil {
		if source := selectData(resp); source != nil {
			data := extract(source)
			partial = &data
		} else if resp.Data != nil {
			data := extract(resp.Data)
			partial = &data
		}
	}
	return model.ManualVerificationOutcome(message, partial)
}

// selectData picks the first non-empty of the three extracted-data maps the
// backends use. Selection is all-or-nothing; fields are never merged across
// maps.
func selectData(resp *RawResponse) map[string]any {
	for _, m := range []map[string]any{resp.VerifiedData, resp.CBEExtractedData, resp.ExtractedData} {
		if len(m) > 0 {
			return m
		}
	}
	return nil
}

func extract(m map[string]any) model.ExtractedData {
	return model.ExtractedData{
		TransactionID:    mapString(m, "transaction_id", "possible_transaction_id"),
		SenderName:       mapString(m, "sender_name"),
		SenderBankName:   mapString(m, "sender_bank_name"),
		ReceiverName:     mapString(m, "receiver_name"),
		ReceiverBankName: mapString(m, "receiver_bank_name"),
		TransactionDate:  mapString(m, "transaction_date", "date"),
		TransactionTime:  mapString(m, "transaction_time"),
		RawStatus:        mapString(m, "status", "transaction_status"),
		DebugInfo:        mapString(m, "debug_info"),
		Amount:           mapFloat(m, "amount"),
		AccountMatch:     mapBool(m, "account_match"),
	}
}

// placeholderData guards against backend test fixtures leaking into
// production responses.
func placeholderData(d model.ExtractedData, debugInfo string) bool {
	debug := d.DebugInfo + " " + debugInfo
	if strings.Contains(debug, "Test data") || strings.Contains(debug, "temporarily unavailable") {
		return true
	}
	return d.SenderName == "Test User" && d.ReceiverName == "Test Recipient" && d.Amount == 100
}

// remapLegacy rewrites the alternate {success, data: {...}} shape into the
// canonical {status, verified_data} shape before any other logic runs.
func remapLegacy(resp *RawResponse) *RawResponse {
	if resp == nil || resp.Success == nil || resp.Status != "" {
		return resp
	}
	out := *resp
	if *resp.Success {
		out.Status = "success"
	} else {
		out.Status = "failed"
	}
	if len(resp.Data) > 0 && len(resp.VerifiedData) == 0 {
		out.VerifiedData = map[string]any{
			"transaction_id":     resp.Data["transaction_id"],
			"sender_name":        resp.Data["sender_name"],
			"sender_bank_name":   resp.Data["sender_bank_name"],
			"receiver_name":      resp.Data["receiver_name"],
			"receiver_bank_name": resp.Data["receiver_bank_name"],
			"transaction_status": resp.Data["status"],
			"transaction_date":   resp.Data["date"],
			"date":               resp.Data["date"],
			"amount":             resp.Data["amount"],
			"debug_info":         resp.Data["debug_info"],
		}
	}
	return &out
}
