package gateway

import (
	"context"
	"errors"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abenezerh/birr/internal/classify"
	"github.com/abenezerh/birr/internal/model"
	"github.com/abenezerh/birr/internal/service"
)

// mockTransport records the last request and plays back a canned result.
type mockTransport struct {
	resp       *classify.RawResponse
	err        error
	lastPath   string
	lastFields map[string]string
	lastFile   []byte
	calls      int
}

func (m *mockTransport) PostJSON(_ context.Context, path string, payload map[string]string) (*classify.RawResponse, error) {
	m.calls++
	m.lastPath = path
	m.lastFields = payload
	return m.resp, m.err
}

func (m *mockTransport) PostMultipart(_ context.Context, path string, fields map[string]string, file service.FilePart) (*classify.RawResponse, error) {
	m.calls++
	m.lastPath = path
	m.lastFields = fields
	m.lastFile, _ = io.ReadAll(file.Reader)
	return m.resp, m.err
}

func (m *mockTransport) Get(_ context.Context, path string) (*classify.RawResponse, error) {
	m.calls++
	m.lastPath = path
	return m.resp, m.err
}

// mockHistory records appends and updates, optionally failing.
type mockHistory struct {
	appendErr error
	updateErr error
	appended  []model.HistoryEntry
	updated   []model.HistoryEntry
	nextID    int64
}

func (m *mockHistory) Append(_ context.Context, entry model.HistoryEntry) (int64, error) {
	if m.appendErr != nil {
		return 0, m.appendErr
	}
	m.nextID++
	entry.ID = m.nextID
	m.appended = append(m.appended, entry)
	return m.nextID, nil
}

func (m *mockHistory) UpdateStatus(_ context.Context, bank model.Bank, id int64, status model.AttemptStatus, errorKind model.ErrorKind) error {
	if m.updateErr != nil {
		return m.updateErr
	}
	m.updated = append(m.updated, model.HistoryEntry{Bank: bank, ID: id, Status: status, ErrorKind: errorKind})
	return nil
}

func (m *mockHistory) List(_ context.Context, _ model.Bank) ([]model.HistoryEntry, error) {
	return nil, nil
}

func (m *mockHistory) RecentValues(_ context.Context, _ model.Bank, _ string, _ int) ([]string, error) {
	return nil, nil
}

func (m *mockHistory) Clear(_ context.Context, _ model.Bank) error { return nil }

func (m *mockHistory) Close() error { return nil }

func successResponse() *classify.RawResponse {
	return &classify.RawResponse{
		Status:  "success",
		Message: "ok",
		VerifiedData: map[string]any{
			"transaction_id":   "TXN123",
			"sender_name":      "Abebe",
			"receiver_name":    "Kebede",
			"amount":           500.00,
			"transaction_date": "2024-01-01",
		},
	}
}

func TestVerify_ValidationShortCircuits(t *testing.T) {
	tests := []struct {
		name        string
		req         model.VerificationRequest
		wantMention []string
	}{
		{
			name: "boa text mode without transaction id",
			req: model.VerificationRequest{
				Bank:          model.BankBOA,
				Mode:          model.ModeText,
				AccountNumber: "12345",
			},
			wantMention: []string{"transaction ID"},
		},
		{
			name: "cbe text mode missing everything",
			req: model.VerificationRequest{
				Bank: model.BankCBE,
				Mode: model.ModeText,
			},
			wantMention: []string{"transaction ID", "account number"},
		},
		{
			name: "cbe image mode without image",
			req: model.VerificationRequest{
				Bank:          model.BankCBE,
				Mode:          model.ModeImage,
				AccountNumber: "100200300",
			},
			wantMention: []string{"image"},
		},
		{
			name: "telebirr text mode needs no account",
			req: model.VerificationRequest{
				Bank: model.BankTelebirr,
				Mode: model.ModeText,
			},
			wantMention: []string{"transaction ID"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			transport := &mockTransport{}
			history := &mockHistory{}
			gw := New(transport, history)

			outcome := gw.Verify(context.Background(), tt.req)

			require.Equal(t, model.OutcomeValidationError, outcome.Kind)
			for _, mention := range tt.wantMention {
				assert.Contains(t, outcome.Message, mention)
			}
			assert.Zero(t, transport.calls, "validation errors must never reach the backend")
			assert.Empty(t, history.appended, "validation errors are not recorded")
		})
	}
}

func TestVerify_TelebirrAccountOptional(t *testing.T) {
	transport := &mockTransport{resp: successResponse()}
	gw := New(transport, nil)

	outcome := gw.Verify(context.Background(), model.VerificationRequest{
		Bank:          model.BankTelebirr,
		Mode:          model.ModeText,
		TransactionID: "TXN123",
	})

	assert.Equal(t, model.OutcomeSuccess, outcome.Kind)
	assert.Equal(t, "/telebirr/verify", transport.lastPath)
	assert.Equal(t, map[string]string{"transaction_id": "TXN123"}, transport.lastFields)
}

func TestVerify_CBETextShaping(t *testing.T) {
	transport := &mockTransport{resp: successResponse()}
	gw := New(transport, nil)

	outcome := gw.Verify(context.Background(), model.VerificationRequest{
		Bank:          model.BankCBE,
		Mode:          model.ModeText,
		TransactionID: "TXN123",
		AccountNumber: "100200300",
	})

	require.Equal(t, model.OutcomeSuccess, outcome.Kind)
	assert.Equal(t, "/cbe/verify", transport.lastPath)
	assert.Equal(t, map[string]string{
		"transaction_id": "TXN123",
		"account_number": "100200300",
	}, transport.lastFields)
}

func TestVerify_BOATextSendsLastFiveDigits(t *testing.T) {
	transport := &mockTransport{resp: successResponse()}
	gw := New(transport, nil)

	gw.Verify(context.Background(), model.VerificationRequest{
		Bank:          model.BankBOA,
		Mode:          model.ModeText,
		TransactionID: "TXN123",
		AccountNumber: "1002003004",
	})

	assert.Equal(t, "/boa/verify", transport.lastPath)
	assert.Equal(t, map[string]string{
		"transaction_id":               "TXN123",
		"sender_account_last_5_digits": "03004",
	}, transport.lastFields)
}

func TestVerify_ImageShaping(t *testing.T) {
	tests := []struct {
		wantFields map[string]string
		name       string
		wantPath   string
		bank       model.Bank
	}{
		{
			name:     "cbe uses account_number",
			bank:     model.BankCBE,
			wantPath: "/image/cbe/verify",
			wantFields: map[string]string{
				"account_number": "100200300",
				"transaction_id": "HINT1",
			},
		},
		{
			name:     "boa uses sender_account",
			bank:     model.BankBOA,
			wantPath: "/image/boa/verify",
			wantFields: map[string]string{
				"sender_account": "100200300",
				"transaction_id": "HINT1",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			transport := &mockTransport{resp: successResponse()}
			gw := New(transport, nil)

			gw.Verify(context.Background(), model.VerificationRequest{
				Bank:          tt.bank,
				Mode:          model.ModeImage,
				TransactionID: "HINT1",
				AccountNumber: "100200300",
				Image:         &model.ImageAttachment{Filename: "receipt.jpg", Data: []byte("jpegbytes")},
			})

			assert.Equal(t, tt.wantPath, transport.lastPath)
			assert.Equal(t, tt.wantFields, transport.lastFields)
			assert.Equal(t, []byte("jpegbytes"), transport.lastFile)
		})
	}
}

func TestVerify_RecordsHistoryLifecycle(t *testing.T) {
	transport := &mockTransport{resp: successResponse()}
	history := &mockHistory{}
	gw := New(transport, history)

	gw.Verify(context.Background(), model.VerificationRequest{
		Bank:          model.BankCBE,
		Mode:          model.ModeText,
		TransactionID: "TXN123",
		AccountNumber: "100200300",
	})

	require.Len(t, history.appended, 1)
	assert.Equal(t, model.AttemptPending, history.appended[0].Status)
	assert.Equal(t, "TXN123", history.appended[0].TransactionID)

	require.Len(t, history.updated, 1)
	assert.Equal(t, model.AttemptSuccess, history.updated[0].Status)
}

func TestVerify_RecordsFailureKind(t *testing.T) {
	transport := &mockTransport{err: &classify.RawError{Message: "Network Error: Unable to connect to server"}}
	history := &mockHistory{}
	gw := New(transport, history)

	outcome := gw.Verify(context.Background(), model.VerificationRequest{
		Bank:          model.BankTelebirr,
		Mode:          model.ModeText,
		TransactionID: "TXN123",
	})

	require.Equal(t, model.OutcomeFailure, outcome.Kind)
	require.Len(t, history.updated, 1)
	assert.Equal(t, model.AttemptFailed, history.updated[0].Status)
	assert.Equal(t, model.ErrorNetwork, history.updated[0].ErrorKind)
}

func TestVerify_HistoryFailuresAreSwallowed(t *testing.T) {
	transport := &mockTransport{resp: successResponse()}
	history := &mockHistory{appendErr: errors.New("disk full")}
	gw := New(transport, history)

	outcome := gw.Verify(context.Background(), model.VerificationRequest{
		Bank:          model.BankCBE,
		Mode:          model.ModeText,
		TransactionID: "TXN123",
		AccountNumber: "100200300",
	})

	assert.Equal(t, model.OutcomeSuccess, outcome.Kind, "history errors must never mask the outcome")
}

func TestVerify_NonRawErrorIsCoerced(t *testing.T) {
	transport := &mockTransport{err: errors.New("Network Error: socket closed")}
	gw := New(transport, nil)

	outcome := gw.Verify(context.Background(), model.VerificationRequest{
		Bank:          model.BankTelebirr,
		Mode:          model.ModeText,
		TransactionID: "TXN123",
	})

	require.Equal(t, model.OutcomeFailure, outcome.Kind)
	assert.Equal(t, model.ErrorNetwork, outcome.Error.Kind)
}

func TestHealth(t *testing.T) {
	transport := &mockTransport{resp: &classify.RawResponse{Status: "success"}}
	gw := New(transport, nil)
	require.NoError(t, gw.Health(context.Background()))
	assert.Equal(t, "/", transport.lastPath)

	down := New(&mockTransport{err: &classify.RawError{Message: "Network Error"}}, nil)
	assert.Error(t, down.Health(context.Background()))
}
