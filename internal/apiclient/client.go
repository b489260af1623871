// Package apiclient is the HTTP boundary to the admin REST API.
//
// Every call carries the session's bearer token, is bounded by one
// client-wide timeout, and fails with an *Error whose Kind tells the caller
// what went wrong. A 401 from any endpoint clears the session and invokes the
// unauthorized hook with LoginPath.
package apiclient

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

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/investdesk/desk/internal/buildinfo"
	"github.com/investdesk/desk/internal/session"
)

const (
	// DefaultTimeout bounds every request made by a Client.
	DefaultTimeout = 10 * time.Second
	// LoginPath is where the operator is sent after a 401.
	LoginPath = "/login"
	// RequestIDHeader carries a per-call id the backend can log.
	RequestIDHeader = "X-Request-ID"

	maxBodyBytes = 10 << 20
	tracerName   = "github.com/investdesk/desk/internal/apiclient"
)

// Client calls the admin API on behalf of the current session.
type Client struct {
	baseURL        *url.URL
	http           *http.Client
	session        session.Store
	logger         zerolog.Logger
	tracer         trace.Tracer
	userAgent      string
	onUnauthorized func(loginPath string)
}

// Option configures a Client.
type Option func(*Client)

// WithTimeout replaces the client-wide timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) { c.http.Timeout = d }
}

// WithHTTPClient uses h for transport. Its Timeout is overridden only by WithTimeout.
func WithHTTPClient(h *http.Client) Option {
	return func(c *Client) { c.http = h }
}

// WithLogger sets the request logger.
func WithLogger(l zerolog.Logger) Option {
	return func(c *Client) { c.logger = l }
}

// WithTracer sets the tracer used for client spans.
func WithTracer(t trace.Tracer) Option {
	return func(c *Client) { c.tracer = t }
}

// OnUnauthorized registers the hook run after a 401 has cleared the session.
func OnUnauthorized(fn func(loginPath string)) Option {
	return func(c *Client) { c.onUnauthorized = fn }
}

// New creates a Client for baseURL that reads credentials from store.
func New(baseURL string, store session.Store, opts ...Option) (*Client, error) {
	u, err := url.Parse(strings.TrimRight(baseURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("parsing base URL: %w", err)
	}
	if u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("base URL %q must be absolute", baseURL)
	}
	if store == nil {
		return nil, errors.New("session store is required")
	}

	c := &Client{
		baseURL:   u,
		http:      &http.Client{Timeout: DefaultTimeout},
		session:   store,
		logger:    zerolog.Nop(),
		tracer:    otel.Tracer(tracerName),
		userAgent: buildinfo.UserAgent(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// Session returns the store the client authenticates with.
func (c *Client) Session() session.Store {
	return c.session
}

// Request describes one API call.
type Request struct {
	Method string
	Path   string
	Query  url.Values
	// Body is encoded as JSON. Ignored when Form is set.
	Body any
	Form *Multipart
	// Raw decodes the whole response body into out instead of its data field.
	Raw bool
}

// Do performs req and decodes the response into out (which may be nil).
func (c *Client) Do(ctx context.Context, req Request, out any) error {
	reqID := uuid.NewString()
	ctx, span := c.tracer.Start(ctx, req.Method+" "+req.Path,
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(
			attribute.String("http.request.method", req.Method),
			attribute.String("url.path", req.Path),
			attribute.String("desk.request_id", reqID),
		),
	)
	defer span.End()

	start := time.Now()
	status, err := c.do(ctx, req, reqID, out)

	span.SetAttributes(attribute.Int("http.response.status_code", status))
	ev := c.logger.Debug()
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		ev = c.logger.Warn().Err(err)
	}
	ev.Str("method", req.Method).
		Str("path", req.Path).
		Int("status", status).
		Dur("elapsed", time.Since(start)).
		Str("request_id", reqID).
		Msg("api call")
	return err
}

func (c *Client) do(ctx context.Context, req Request, reqID string, out any) (int, error) {
	fail := func(kind Kind, status int, msg string, err error) (int, error) {
		return status, &Error{Kind: kind, Method: req.Method, Path: req.Path, Status: status, Message: msg, Err: err}
	}

	httpReq, err := c.newRequest(ctx, req, reqID)
	if err != nil {
		return fail(KindNetwork, 0, "", err)
	}

	resp, err := c.http.Do(httpReq)
	if err != nil {
		if ctx.Err() != nil {
			return fail(KindCanceled, 0, "", ctx.Err())
		}
		return fail(KindNetwork, 0, "", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		if ctx.Err() != nil {
			return fail(KindCanceled, resp.StatusCode, "", ctx.Err())
		}
		return fail(KindNetwork, resp.StatusCode, "", fmt.Errorf("reading response: %w", err))
	}
	env, isEnvelope := parseEnvelope(body)

	switch {
	case resp.StatusCode == http.StatusUnauthorized:
		c.signOut()
		return fail(KindUnauthorized, resp.StatusCode, env.message(), nil)
	case resp.StatusCode < 200 || resp.StatusCode > 299:
		return fail(KindHTTP, resp.StatusCode, env.message(), nil)
	case isEnvelope && env.rejected():
		return fail(KindRejected, resp.StatusCode, env.message(), nil)
	}

	if out == nil {
		return resp.StatusCode, nil
	}
	payload := body
	if !req.Raw && isEnvelope && len(env.Data) > 0 {
		payload = env.Data
	}
	if err := json.Unmarshal(payload, out); err != nil {
		return fail(KindDecode, resp.StatusCode, "", fmt.Errorf("decoding response: %w", err))
	}
	return resp.StatusCode, nil
}

func (c *Client) newRequest(ctx context.Context, req Request, reqID string) (*http.Request, error) {
	u := c.baseURL.JoinPath(req.Path)
	if len(req.Query) > 0 {
		u.RawQuery = req.Query.Encode()
	}

	var body io.Reader
	contentType := ""
	switch {
	case req.Form != nil:
		buf, ct, err := req.Form.encode()
		if err != nil {
			return nil, err
		}
		body, contentType = buf, ct
	case req.Body != nil:
		data, err := json.Marshal(req.Body)
		if err != nil {
			return nil, fmt.Errorf("encoding request body: %w", err)
		}
		body, contentType = bytes.NewReader(data), "application/json"
	}

	httpReq, err := http.NewRequestWithContext(ctx, req.Method, u.String(), body)
	if err != nil {
		return nil, fmt.Errorf("building request: %w", err)
	}
	httpReq.Header.Set("Accept", "application/json")
	httpReq.Header.Set("User-Agent", c.userAgent)
	httpReq.Header.Set(RequestIDHeader, reqID)
	if contentType != "" {
		httpReq.Header.Set("Content-Type", contentType)
	}

	s, err := c.session.Get()
	if err != nil {
		return nil, fmt.Errorf("loading session: %w", err)
	}
	if s.AccessToken != "" {
		httpReq.Header.Set("Authorization", "Bearer "+s.AccessToken)
	}
	return httpReq, nil
}

// signOut clears stored credentials and hands control to the login hook.
func (c *Client) signOut() {
	if err := c.session.Clear(); err != nil {
		c.logger.Warn().Err(err).Msg("clearing session after 401")
	}
	if c.onUnauthorized != nil {
		c.onUnauthorized(LoginPath)
	}
}

// Get issues a GET with optional query parameters.
func (c *Client) Get(ctx context.Context, path string, query url.Values, out any) error {
	return c.Do(ctx, Request{Method: http.MethodGet, Path: path, Query: query}, out)
}

// Post issues a POST with a JSON body.
func (c *Client) Post(ctx context.Context, path string, body, out any) error {
	return c.Do(ctx, Request{Method: http.MethodPost, Path: path, Body: body}, out)
}

// Put issues a PUT with a JSON body.
func (c *Client) Put(ctx context.Context, path string, body, out any) error {
	return c.Do(ctx, Request{Method: http.MethodPut, Path: path, Body: body}, out)
}

// Delete issues a DELETE.
func (c *Client) Delete(ctx context.Context, path string, out any) error {
	return c.Do(ctx, Request{Method: http.MethodDelete, Path: path}, out)
}
