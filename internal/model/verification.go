package model

// VerificationMode selects how the payment is identified.
type VerificationMode string

// Verification modes.
const (
	ModeText  VerificationMode = "text"
	ModeImage VerificationMode = "image"
)

// ImageAttachment is a receipt image loaded into memory, either from disk or
// from a camera capture.
type ImageAttachment struct {
	Filename string
	Data     []byte
}

// VerificationRequest carries everything needed for one verification attempt.
// TransactionID is required in text mode and an optional hint in image mode.
// AccountNumber is required for CBE and BOA and ignored for Telebirr.
type VerificationRequest struct {
	Image         *ImageAttachment
	Bank          Bank
	Mode          VerificationMode
	TransactionID string
	AccountNumber string
}

// ExtractedData is the canonical transaction record normalized from any of
// the backend response shapes. Amounts are in ETB. A zero value means the
// field was absent from the response.
type ExtractedData struct {
	TransactionID    string
	SenderName       string
	SenderBankName   string
	ReceiverName     string
	ReceiverBankName string
	TransactionDate  string
	TransactionTime  string
	RawStatus        string
	DebugInfo        string
	Amount           float64
	AccountMatch     bool
}

// Complete reports whether every field required for a Success outcome is
// present.
func (d ExtractedData) Complete() bool {
	return d.TransactionID != "" &&
		d.SenderName != "" &&
		d.ReceiverName != "" &&
		d.Amount != 0 &&
		d.TransactionDate != ""
}
