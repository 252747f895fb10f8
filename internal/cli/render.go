package cli

import (
	"fmt"
	"strings"

	"github.com/abenezerh/birr/internal/present"
)

// RenderView renders one of the four result views for plain terminal output.
func RenderView(view present.View) string {
	switch view.Kind {
	case present.ViewSuccess:
		return renderSuccess(view)
	case present.ViewManualVerification:
		return renderManual(view)
	case present.ViewValidationError:
		return BoxStyle.Render(
			WarningStyle.Bold(true).Render(view.Title) + "\n\n" + view.Message)
	default:
		return renderError(view)
	}
}

func renderSuccess(view present.View) string {
	var b strings.Builder
	b.WriteString(SuccessStyle.Bold(true).Render("✓ " + view.Title))
	b.WriteString("\n\n")

	data := view.Data
	rows := []struct {
		label string
		value string
	}{
		{"Transaction ID", data.TransactionID},
		{"Sender", data.SenderName},
		{"Sender Bank", orNA(data.SenderBankName)},
		{"Receiver", data.ReceiverName},
		{"Receiver Bank", orNA(data.ReceiverBankName)},
		{"Amount", fmt.Sprintf("ETB %.2f", data.Amount)},
		{"Date", orNA(data.TransactionDate)},
	}
	for _, row := range rows {
		b.WriteString(fmt.Sprintf("%s %s\n",
			SubtleStyle.Render(fmt.Sprintf("%-15s", row.label)),
			BoldStyle.Render(row.value)))
	}
	return BoxStyle.Render(strings.TrimRight(b.String(), "\n"))
}

func renderManual(view present.View) string {
	var b strings.Builder
	b.WriteString(WarningStyle.Bold(true).Render("! " + view.Title))
	b.WriteString("\n\n")
	b.WriteString(view.Message)
	b.WriteString("\n\n")
	b.WriteString(SubtleStyle.Render("Re-run with --transaction-id to verify by transaction ID."))
	if view.PrefillTransactionID != "" {
		b.WriteString("\n")
		b.WriteString(SubtleStyle.Render("Possible transaction ID: ") + BoldStyle.Render(view.PrefillTransactionID))
	}
	return BoxStyle.Render(b.String())
}

func renderError(view present.View) string {
	var b strings.Builder
	b.WriteString(ErrorStyle.Bold(true).Render("✗ " + view.Title))
	b.WriteString("\n\n")
	b.WriteString(view.Message)
	if view.Retryable {
		b.WriteString("\n\n")
		b.WriteString(SubtleStyle.Render("This error may be temporary; try the same command again."))
	}
	return BoxStyle.Render(b.String())
}

func orNA(s string) string {
	if s == "" {
		return "N/A"
	}
	return s
}
