// Package api is the HTTP client for the registration backend. The
// backend is a black box with three operations: save a draft, fetch a
// draft by email, and submit a finalized registration.
//
// Every operation returns an error instead of panicking; network and
// server failures are normalized into ServerError, and a missing draft is
// the distinguished NotFoundError rather than a generic failure.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	otelcodes "go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"regwiz/internal/cache"
	"regwiz/internal/draft"
	"regwiz/internal/log"
	"regwiz/internal/registration"
)

const (
	defaultTimeout = 30 * time.Second

	// draftCacheTTL bounds how long a fetched remote draft is reused
	// before the backend is asked again.
	draftCacheTTL = time.Minute
)

// Config configures the backend client.
type Config struct {
	// BaseURL is the API root, e.g. "https://example.org/api".
	BaseURL string
	// APIKey, when set, is sent as the X-API-Key header.
	APIKey string
	// Timeout bounds each request. Zero means 30s.
	Timeout time.Duration
	// Tracer records a span per request. Nil uses the global provider.
	Tracer trace.Tracer
}

// Client talks to the registration backend.
type Client struct {
	baseURL string
	apiKey  string
	httpc   *http.Client
	tracer  trace.Tracer
	drafts  *cache.ReadThrough[string, registration.FormData]
}

// New creates a backend client.
func New(cfg Config) *Client {
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = defaultTimeout
	}
	tracer := cfg.Tracer
	if tracer == nil {
		tracer = otel.Tracer("regwiz/api")
	}

	c := &Client{
		baseURL: cfg.BaseURL,
		apiKey:  cfg.APIKey,
		httpc:   &http.Client{Timeout: timeout},
		tracer:  tracer,
	}
	c.drafts = cache.NewReadThrough(
		cache.NewInMemory[string, registration.FormData]("remote-draft", cache.DefaultExpiration, cache.DefaultCleanupInterval),
		c.fetchDraft,
	)
	return c
}

// NotFoundError reports that no draft exists for the given email.
// It is a normal outcome of a lookup, not a fault.
type NotFoundError struct {
	Email string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("no draft found for %s", e.Email)
}

// ServerError carries a non-2xx response. Message is the server-provided
// message when the body had one, otherwise a generic fallback.
type ServerError struct {
	StatusCode int
	Message    string
}

func (e *ServerError) Error() string {
	return e.Message
}

// apiResponse is the backend's response envelope.
type apiResponse struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Message string          `json:"message"`
}

// SaveDraft posts the current form state to the draft endpoint.
func (c *Client) SaveDraft(ctx context.Context, f registration.FormData) error {
	payload, err := draft.Encode(f, true, time.Now().UTC())
	if err != nil {
		return err
	}
	_, err = c.postMultipart(ctx, "/registration/draft", "api.save_draft", payload, f.Payment.Receipt, "failed to save draft")
	if err != nil {
		return err
	}
	// The backend now has a fresher draft than anything cached.
	c.drafts.Invalidate(ctx, f.PersonalInfo.Email)
	log.Info(log.CatAPI, "Draft saved remotely", "email", f.PersonalInfo.Email)
	return nil
}

// FetchDraft retrieves the draft saved under email. Lookups are served
// from a short-lived cache so repeated modal openings don't hammer the
// backend. A 404 surfaces as *NotFoundError.
func (c *Client) FetchDraft(ctx context.Context, email string) (registration.FormData, error) {
	return c.drafts.Get(ctx, email, draftCacheTTL)
}

func (c *Client) fetchDraft(ctx context.Context, email string) (registration.FormData, error) {
	ctx, span := c.tracer.Start(ctx, "api.fetch_draft", trace.WithSpanKind(trace.SpanKindClient))
	defer span.End()

	endpoint := c.baseURL + "/registration/draft?email=" + url.QueryEscape(email)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return registration.FormData{}, fmt.Errorf("building draft request: %w", err)
	}
	c.setHeaders(req)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpc.Do(req)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(otelcodes.Error, "request failed")
		log.ErrorErr(log.CatAPI, "Draft fetch failed", err, "email", email)
		return registration.FormData{}, fmt.Errorf("fetching draft: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()
	span.SetAttributes(attribute.Int("http.status_code", resp.StatusCode))

	if resp.StatusCode == http.StatusNotFound {
		log.Info(log.CatAPI, "No remote draft", "email", email)
		return registration.FormData{}, &NotFoundError{Email: email}
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		serr := c.serverError(resp, "failed to get draft")
		span.SetStatus(otelcodes.Error, serr.Message)
		return registration.FormData{}, serr
	}

	var envelope apiResponse
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		return registration.FormData{}, fmt.Errorf("decoding draft response: %w", err)
	}
	f, err := draft.Decode(envelope.Data)
	if err != nil {
		return registration.FormData{}, err
	}
	log.Info(log.CatAPI, "Draft fetched remotely", "email", email)
	return f, nil
}

// Submit posts the finalized registration.
func (c *Client) Submit(ctx context.Context, f registration.FormData) error {
	payload, err := draft.Encode(f, false, time.Now().UTC())
	if err != nil {
		return err
	}
	_, err = c.postMultipart(ctx, "/registration", "api.submit", payload, f.Payment.Receipt, "failed to submit registration")
	if err != nil {
		return err
	}
	log.Info(log.CatAPI, "Registration submitted", "email", f.PersonalInfo.Email)
	return nil
}

// postMultipart sends the payload as the "data" part plus the receipt (if
// any) as a separate "receiptImage" binary part.
func (c *Client) postMultipart(ctx context.Context, path, spanName string, payload []byte, receipt *registration.Receipt, fallback string) (*apiResponse, error) {
	ctx, span := c.tracer.Start(ctx, spanName, trace.WithSpanKind(trace.SpanKindClient))
	defer span.End()

	var body bytes.Buffer
	writer := multipart.NewWriter(&body)
	if err := writer.WriteField("data", string(payload)); err != nil {
		return nil, fmt.Errorf("writing data part: %w", err)
	}
	if receipt != nil {
		part, err := writer.CreateFormFile("receiptImage", receipt.FileName)
		if err != nil {
			return nil, fmt.Errorf("creating receipt part: %w", err)
		}
		src, err := receipt.Open()
		if err != nil {
			return nil, err
		}
		_, err = io.Copy(part, src)
		_ = src.Close()
		if err != nil {
			return nil, fmt.Errorf("copying receipt: %w", err)
		}
	}
	if err := writer.Close(); err != nil {
		return nil, fmt.Errorf("finishing multipart body: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, &body)
	if err != nil {
		return nil, fmt.Errorf("building request: %w", err)
	}
	c.setHeaders(req)
	req.Header.Set("Content-Type", writer.FormDataContentType())

	resp, err := c.httpc.Do(req)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(otelcodes.Error, "request failed")
		log.ErrorErr(log.CatAPI, "Request failed", err, "path", path)
		return nil, fmt.Errorf("%s: %w", fallback, err)
	}
	defer func() { _ = resp.Body.Close() }()
	span.SetAttributes(attribute.Int("http.status_code", resp.StatusCode))

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		serr := c.serverError(resp, fallback)
		span.SetStatus(otelcodes.Error, serr.Message)
		return nil, serr
	}

	var envelope apiResponse
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		// A 2xx with an unreadable body still succeeded.
		return &apiResponse{Success: true}, nil
	}
	return &envelope, nil
}

// serverError extracts the server-provided message, falling back to the
// operation's generic message.
func (c *Client) serverError(resp *http.Response, fallback string) *ServerError {
	message := fallback
	var envelope apiResponse
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err == nil && envelope.Message != "" {
		message = envelope.Message
	}
	log.Error(log.CatAPI, "Server error", "status", resp.StatusCode, "message", message)
	return &ServerError{StatusCode: resp.StatusCode, Message: message}
}

func (c *Client) setHeaders(req *http.Request) {
	if c.apiKey != "" {
		req.Header.Set("X-API-Key", c.apiKey)
	}
	req.Header.Set("X-Request-ID", uuid.NewString())
}
