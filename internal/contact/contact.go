package contact

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ResetAfter is how long a success or error status stays on screen before
// the form returns to idle.
const ResetAfter = 5 * time.Second

const defaultTimeout = 15 * time.Second

// ErrNoEndpoint means no form endpoint is configured.
var ErrNoEndpoint = errors.New("contact form endpoint not configured")

// Status is the submission state shown next to the form.
type Status int

const (
	StatusIdle Status = iota
	StatusSubmitting
	StatusSuccess
	StatusError
)

func (s Status) String() string {
	switch s {
	case StatusSubmitting:
		return "submitting"
	case StatusSuccess:
		return "success"
	case StatusError:
		return "error"
	default:
		return "idle"
	}
}

// Form is the payload posted to the form endpoint.
type Form struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Subject string `json:"subject"`
	Message string `json:"message"`
}

// Validate reports the first missing or malformed field.
func (f Form) Validate() error {
	fields := []struct {
		name  string
		value string
	}{
		{"name", f.Name},
		{"email", f.Email},
		{"subject", f.Subject},
		{"message", f.Message},
	}
	for _, field := range fields {
		if strings.TrimSpace(field.value) == "" {
			return fmt.Errorf("%s is required", field.name)
		}
	}
	at := strings.LastIndex(f.Email, "@")
	if at <= 0 || !strings.Contains(f.Email[at+1:], ".") || strings.HasSuffix(f.Email, ".") {
		return fmt.Errorf("email %q looks invalid", f.Email)
	}
	return nil
}

// SubmitError is returned when the endpoint answers with a non-2xx status.
type SubmitError struct {
	StatusCode int
	Body       string
}

func (e *SubmitError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("form endpoint returned %d", e.StatusCode)
	}
	return fmt.Sprintf("form endpoint returned %d: %s", e.StatusCode, e.Body)
}

// Client posts contact forms to a formspree-style endpoint.
type Client struct {
	endpoint string
	http     *http.Client
	logger   *zap.Logger
}

func NewClient(endpoint string, timeout time.Duration, logger *zap.Logger) *Client {
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Client{
		endpoint: strings.TrimSpace(endpoint),
		http:     &http.Client{Timeout: timeout},
		logger:   logger,
	}
}

// WithHTTPClient returns a copy of c that sends through client.
func (c *Client) WithHTTPClient(client *http.Client) *Client {
	clone := *c
	clone.http = client
	return &clone
}

func (c *Client) Endpoint() string {
	return c.endpoint
}

// Submit validates the form and posts it once. No retries are attempted.
func (c *Client) Submit(ctx context.Context, form Form) error {
	if c == nil || c.endpoint == "" {
		return ErrNoEndpoint
	}
	if err := form.Validate(); err != nil {
		return err
	}
	buf, err := json.Marshal(form)
	if err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(buf))
	if err != nil {
		return fmt.Errorf("building request: %w", err)
	}
	requestID := uuid.NewString()
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Request-ID", requestID)

	started := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		c.logger.Warn("contact submit failed", zap.String("request_id", requestID), zap.Error(err))
		return fmt.Errorf("posting form: %w", err)
	}
	defer resp.Body.Close()

	c.logger.Info("contact submitted",
		zap.String("request_id", requestID),
		zap.Int("status", resp.StatusCode),
		zap.Duration("duration", time.Since(started)))
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return &SubmitError{StatusCode: resp.StatusCode, Body: strings.TrimSpace(string(body))}
	}
	_, _ = io.Copy(io.Discard, resp.Body)
	return nil
}
