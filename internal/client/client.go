package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/noah-isme/bioscizone-api/internal/session"
)

var (
	// ErrSessionExpired is returned when the server rejects the stored token.
	// The token has already been cleared when this is returned.
	ErrSessionExpired = errors.New("session expired")
	// ErrAccessRequired wraps the server's role-requirement message on 403.
	ErrAccessRequired = errors.New("access required")
	// ErrNoChanges is returned by partial updates the server treated as empty.
	ErrNoChanges = errors.New("no changes provided")
)

// APIError carries any other non-2xx response.
type APIError struct {
	Status int
	Detail string
}

// Error returns the server detail verbatim so it can be shown in a form banner.
func (e *APIError) Error() string {
	return e.Detail
}

// Option customises a client.
type Option func(*transport)

// WithHTTPClient replaces the default http.Client.
func WithHTTPClient(client *http.Client) Option {
	return func(t *transport) {
		if client != nil {
			t.http = client
		}
	}
}

// WithLogger attaches a logger for request tracing.
func WithLogger(logger zerolog.Logger) Option {
	return func(t *transport) {
		t.logger = logger.With().Str("component", "api_client").Logger()
	}
}

type transport struct {
	baseURL string
	http    *http.Client
	session *session.Session
	logger  zerolog.Logger
}

func newTransport(baseURL string, sess *session.Session, opts []Option) *transport {
	t := &transport{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{},
		session: sess,
		logger:  zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

type request struct {
	method      string
	path        string
	query       url.Values
	body        io.Reader
	contentType string
	auth        bool
}

func jsonBody(payload interface{}) (io.Reader, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("encode request: %w", err)
	}
	return bytes.NewReader(data), nil
}

// do issues one call and decodes a 2xx body into out. No retries.
func (t *transport) do(ctx context.Context, r request, out interface{}) error {
	target := t.baseURL + r.path
	if len(r.query) > 0 {
		target += "?" + r.query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, r.method, target, r.body)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if r.contentType != "" {
		req.Header.Set("Content-Type", r.contentType)
	}
	if r.auth {
		token := ""
		if t.session != nil {
			token = t.session.Token()
		}
		if token == "" {
			return ErrSessionExpired
		}
		req.Header.Set("Authorization", "Bearer "+token)
	}

	started := time.Now()
	resp, err := t.http.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", r.method, r.path, err)
	}
	defer resp.Body.Close()

	t.logger.Debug().
		Str("method", r.method).
		Str("path", r.path).
		Int("status", resp.StatusCode).
		Dur("latency", time.Since(started)).
		Msg("api call")

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("%s %s: read body: %w", r.method, r.path, err)
	}

	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		if out == nil || len(bytes.TrimSpace(body)) == 0 {
			return nil
		}
		if err := json.Unmarshal(body, out); err != nil {
			return fmt.Errorf("%s %s: decode response: %w", r.method, r.path, err)
		}
		return nil
	}

	detail := errorDetail(resp.StatusCode, body)
	switch {
	case resp.StatusCode == http.StatusUnauthorized && r.auth:
		if t.session != nil {
			if err := t.session.RemoveToken(); err != nil {
				t.logger.Warn().Err(err).Msg("failed to clear expired token")
			}
		}
		return ErrSessionExpired
	case resp.StatusCode == http.StatusForbidden:
		return fmt.Errorf("%w: %s", ErrAccessRequired, detail)
	default:
		return &APIError{Status: resp.StatusCode, Detail: detail}
	}
}

// errorDetail extracts {"detail": "..."}; non-string details are returned as raw JSON.
func errorDetail(status int, body []byte) string {
	var payload struct {
		Detail json.RawMessage `json:"detail"`
	}
	if err := json.Unmarshal(body, &payload); err == nil && len(payload.Detail) > 0 {
		var text string
		if err := json.Unmarshal(payload.Detail, &text); err == nil {
			return text
		}
		return string(payload.Detail)
	}
	if text := strings.TrimSpace(string(body)); text != "" && len(text) < 512 {
		return text
	}
	return http.StatusText(status)
}

type messageBody struct {
	Message string `json:"message"`
}
