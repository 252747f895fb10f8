package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/abenezerh/birr/internal/classify"
	"github.com/abenezerh/birr/internal/service"
)

// HTTPTransport implements service.Transport against the verification
// backend. Every failure is parsed exactly once into a *classify.RawError
// here; nothing downstream re-inspects HTTP details.
type HTTPTransport struct {
	client  *http.Client
	baseURL string
}

// NewHTTPTransport creates a transport rooted at baseURL.
func NewHTTPTransport(baseURL string, timeout time.Duration) *HTTPTransport {
	return &HTTPTransport{
		baseURL: strings.TrimRight(baseURL, "/"),
		client: &http.Client{
			Timeout: timeout,
		},
	}
}

// PostJSON sends a JSON payload and decodes the response.
func (t *HTTPTransport) PostJSON(ctx context.Context, path string, payload map[string]string) (*classify.RawResponse, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, &classify.RawError{Message: "failed to encode request", Details: err.Error()}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, t.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return nil, &classify.RawError{Message: "failed to build request", Details: err.Error()}
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	return t.do(req)
}

// PostMultipart sends a multipart form with one file part plus string fields.
func (t *HTTPTransport) PostMultipart(ctx context.Context, path string, fields map[string]string, file service.FilePart) (*classify.RawResponse, error) {
	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)

	part, err := writer.CreateFormFile(file.FieldName, file.Filename)
	if err != nil {
		return nil, &classify.RawError{Message: "failed to build upload", Details: err.Error()}
	}
	if _, err = io.Copy(part, file.Reader); err != nil {
		return nil, &classify.RawError{Message: "failed to read image", Details: err.Error()}
	}
	for name, value := range fields {
		if err = writer.WriteField(name, value); err != nil {
			return nil, &classify.RawError{Message: "failed to build upload", Details: err.Error()}
		}
	}
	if err = writer.Close(); err != nil {
		return nil, &classify.RawError{Message: "failed to build upload", Details: err.Error()}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, t.baseURL+path, &buf)
	if err != nil {
		return nil, &classify.RawError{Message: "failed to build request", Details: err.Error()}
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())
	req.Header.Set("Accept", "application/json")

	return t.do(req)
}

// Get fetches a path, used for the health probe.
func (t *HTTPTransport) Get(ctx context.Context, path string) (*classify.RawResponse, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, t.baseURL+path, nil)
	if err != nil {
		return nil, &classify.RawError{Message: "failed to build request", Details: err.Error()}
	}
	req.Header.Set("Accept", "application/json")
	return t.do(req)
}

func (t *HTTPTransport) do(req *http.Request) (*classify.RawResponse, error) {
	slog.Debug("calling verification backend", "method", req.Method, "url", req.URL.String())

	resp, err := t.client.Do(req)
	if err != nil {
		return nil, connectionError(err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &classify.RawError{
			Status:  resp.StatusCode,
			Message: "failed to read response body",
			Details: err.Error(),
		}
	}

	decoded, decodeErr := classify.DecodeResponse(body)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		raw := &classify.RawError{
			Status:  resp.StatusCode,
			Message: fmt.Sprintf("Server Error: %d", resp.StatusCode),
			Body:    decoded,
		}
		if decoded != nil && decoded.Message != "" {
			raw.Message = decoded.Message
		}
		return nil, raw
	}

	if decodeErr != nil {
		return nil, &classify.RawError{
			Status:  resp.StatusCode,
			Message: "invalid response from server",
			Details: decodeErr.Error(),
		}
	}
	return decoded, nil
}

// connectionError maps a client-side failure (no HTTP response received)
// into the RawError shape the taxonomy expects.
func connectionError(err error) *classify.RawError {
	var netErr net.Error
	timeout := errors.Is(err, context.DeadlineExceeded) ||
		(errors.As(err, &netErr) && netErr.Timeout())
	if timeout {
		return &classify.RawError{
			Message: "request timeout exceeded",
			Details: err.Error(),
			Timeout: true,
		}
	}
	return &classify.RawError{
		Message: "Network Error: Unable to connect to server",
		Details: err.Error(),
	}
}
