// Package classify turns raw backend responses and transport failures into
// deterministic verification outcomes. All shape-sniffing happens once, at
// the transport boundary, by decoding into RawResponse/RawError; everything
// downstream is pure matching over those types.
package classify

import (
	"encoding/json"
	"strconv"
	"strings"
)

// RawResponse is the tolerant envelope for every body the backends are known
// to return, success or error. Unknown fields are ignored; the three data
// maps stay untyped because their contents vary per integration.
type RawResponse struct {
	Data             map[string]any `json:"data"`
	VerifiedData     map[string]any `json:"verified_data"`
	CBEExtractedData map[string]any `json:"cbe_extracted_data"`
	ExtractedData    map[string]any `json:"extracted_data"`
	Success          *bool          `json:"success"`
	Status           string         `json:"status"`
	Message          string         `json:"message"`
	DebugInfo        string         `json:"debug_info"`
}

// DecodeResponse parses a response body. A body that is not valid JSON
// yields a nil response and the decode error; callers treat that as an
// unclassifiable payload.
func DecodeResponse(body []byte) (*RawResponse, error) {
	var resp RawResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// RawError is the single parsed form of every transport-level failure.
// Status is zero when no HTTP response was received at all. Body is non-nil
// only when an error response carried a decodable JSON payload.
type RawError struct {
	Body    *RawResponse
	Message string
	Details string
	Status  int
	Timeout bool
}

func (e *RawError) Error() string {
	if e.Status > 0 {
		return "backend error " + strconv.Itoa(e.Status) + ": " + e.Message
	}
	return e.Message
}

// AsRawError coerces any error into a RawError so classification never has
// to sniff error shapes downstream.
func AsRawError(err error) *RawError {
	if raw, ok := err.(*RawError); ok {
		return raw
	}
	return &RawError{Message: err.Error()}
}

// mapString returns the first non-empty string value among keys. Numeric
// values are formatted, matching backends that send IDs as numbers.
func mapString(m map[string]any, keys ...string) string {
	for _, k := range keys {
		switch v := m[k].(type) {
		case string:
			if v != "" {
				return v
			}
		case float64:
			return strconv.FormatFloat(v, 'f', -1, 64)
		}
	}
	return ""
}

// mapFloat returns the first numeric value among keys, accepting numbers
// sent as strings.
func mapFloat(m map[string]any, keys ...string) float64 {
	for _, k := range keys {
		switch v := m[k].(type) {
		case float64:
			if v != 0 {
				return v
			}
		case string:
			if f, err := strconv.ParseFloat(strings.TrimSpace(v), 64); err == nil && f != 0 {
				return f
			}
		}
	}
	return 0
}

func mapBool(m map[string]any, key string) bool {
	b, _ := m[key].(bool)
	return b
}

func containsFold(s, substr string) bool {
	return strings.Contains(strings.ToLower(s), strings.ToLower(substr))
}
