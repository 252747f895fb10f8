// Package gateway validates verification requests, shapes the bank-specific
// outbound payloads, invokes the transport, and funnels every result through
// the classification pipeline.
package gateway

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/abenezerh/birr/internal/classify"
	"github.com/abenezerh/birr/internal/common"
	"github.com/abenezerh/birr/internal/model"
	"github.com/abenezerh/birr/internal/service"
)

// Gateway runs the validate → shape → send → classify pipeline. One Gateway
// serves all three banks; the field-name differences live in shapeText and
// shapeImage.
type Gateway struct {
	transport service.Transport
	history   service.HistoryStore
}

// New creates a Gateway. The history store may be nil; attempts are then not
// recorded.
func New(transport service.Transport, history service.HistoryStore) *Gateway {
	return &Gateway{transport: transport, history: history}
}

// Verify runs one verification attempt end to end and always returns a
// classified Outcome, never an error: every failure mode is an Outcome
// variant.
func (g *Gateway) Verify(ctx context.Context, req model.VerificationRequest) model.Outcome {
	if missing := missingFields(req); len(missing) > 0 {
		msg := fmt.Sprintf("Please enter %s to continue with verification.", joinAnd(missing))
		return model.ValidationErrorOutcome(msg)
	}

	attemptID := g.recordPending(ctx, req)

	var (
		resp *classify.RawResponse
		err  error
	)
	if req.Mode == model.ModeImage {
		path, fields := shapeImage(req)
		file := service.FilePart{
			FieldName: "image",
			Filename:  req.Image.Filename,
			Reader:    bytes.NewReader(req.Image.Data),
		}
		resp, err = g.transport.PostMultipart(ctx, path, fields, file)
	} else {
		path, payload := shapeText(req)
		resp, err = g.transport.PostJSON(ctx, path, payload)
	}

	var outcome model.Outcome
	if err != nil {
		outcome = classify.NormalizeError(req.Bank, classify.AsRawError(err))
	} else {
		outcome = classify.Normalize(req.Bank, resp)
	}

	g.recordResolved(ctx, req.Bank, attemptID, outcome)
	return outcome
}

// Health probes the backend root endpoint.
func (g *Gateway) Health(ctx context.Context) error {
	if _, err := g.transport.Get(ctx, "/"); err != nil {
		return fmt.Errorf("%w: %v", common.ErrBackendUnreachable, err)
	}
	return nil
}

// missingFields enumerates every locally-required field that is absent, in a
// stable order, so one validation message can name them all.
func missingFields(req model.VerificationRequest) []string {
	var missing []string
	if req.Mode == model.ModeImage {
		if req.Image == nil || len(req.Image.Data) == 0 {
			missing = append(missing, "an image file")
		}
	} else {
		if strings.TrimSpace(req.TransactionID) == "" {
			missing = append(missing, "a transaction ID")
		}
	}
	if req.Bank.RequiresAccount() && strings.TrimSpace(req.AccountNumber) == "" {
		missing = append(missing, "an account number")
	}
	return missing
}

func joinAnd(items []string) string {
	switch len(items) {
	case 0:
		return ""
	case 1:
		return items[0]
	default:
		return strings.Join(items[:len(items)-1], ", ") + " and " + items[len(items)-1]
	}
}

// shapeText builds the text-mode endpoint path and JSON payload. BOA wants
// only the last five digits of the sender account; Telebirr wants no account
// at all.
func shapeText(req model.VerificationRequest) (string, map[string]string) {
	path := fmt.Sprintf("/%s/verify", req.Bank)
	switch req.Bank {
	case model.BankBOA:
		return path, map[string]string{
			"transaction_id":               req.TransactionID,
			"sender_account_last_5_digits": lastN(req.AccountNumber, 5),
		}
	case model.BankTelebirr:
		return path, map[string]string{
			"transaction_id": req.TransactionID,
		}
	default:
		return path, map[string]string{
			"transaction_id": req.TransactionID,
			"account_number": req.AccountNumber,
		}
	}
}

// shapeImage builds the image-mode endpoint path and multipart fields. The
// transaction ID is an optional hint in this mode.
func shapeImage(req model.VerificationRequest) (string, map[string]string) {
	path := fmt.Sprintf("/image/%s/verify", req.Bank)
	fields := make(map[string]string)
	if req.TransactionID != "" {
		fields["transaction_id"] = req.TransactionID
	}
	switch req.Bank {
	case model.BankBOA:
		if req.AccountNumber != "" {
			fields["sender_account"] = req.AccountNumber
		}
	default:
		if req.AccountNumber != "" {
			fields["account_number"] = req.AccountNumber
		}
	}
	return path, fields
}

func lastN(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[len(s)-n:]
}

// recordPending logs the attempt before the network call. Store failures are
// logged and swallowed; they must never mask the Outcome.
func (g *Gateway) recordPending(ctx context.Context, req model.VerificationRequest) int64 {
	if g.history == nil {
		return 0
	}
	id, err := g.history.Append(ctx, model.HistoryEntry{
		Bank:          req.Bank,
		TransactionID: req.TransactionID,
		AccountNumber: req.AccountNumber,
		Status:        model.AttemptPending,
	})
	if err != nil {
		slog.Warn("failed to record verification attempt", "bank", req.Bank, "error", err)
		return 0
	}
	return id
}

func (g *Gateway) recordResolved(ctx context.Context, bank model.Bank, id int64, outcome model.Outcome) {
	if g.history == nil || id == 0 {
		return
	}
	status := model.AttemptFailed
	var kind model.ErrorKind
	if outcome.Kind == model.OutcomeSuccess {
		status = model.AttemptSuccess
	} else if outcome.Error != nil {
		kind = outcome.Error.Kind
	}
	if err := g.history.UpdateStatus(ctx, bank, id, status, kind); err != nil {
		slog.Warn("failed to update verification attempt", "bank", bank, "id", id, "error", err)
	}
}
