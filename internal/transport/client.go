// Package transport is the single exit point for requests to the carpooling API.
package transport

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/newrelic/go-agent/v3/newrelic"

	"carpool/internal/session"
)

const (
	requestIDHeader   = "X-Request-ID"
	idempotencyHeader = "Idempotency-Key"

	// LandingPath is where an expired session is sent.
	LandingPath = "/"
)

// authPaths are the endpoints whose 401s are reported without redirecting,
// since the user is already on an auth screen.
var authPaths = map[string]struct{}{
	"/auth/login":    {},
	"/auth/register": {},
	"/auth/logout":   {},
}

// Redirector performs a full-page navigation.
type Redirector interface {
	Redirect(path string)
}

// Config holds the transport settings.
type Config struct {
	BaseURL    string
	CSRFCookie string
	CSRFHeader string
	Timeout    time.Duration
}

// Request describes one outbound call.
type Request struct {
	Method string
	Path   string
	Body   any
	Query  url.Values
}

// Client sends requests to the API and normalizes their failures.
type Client struct {
	cfg        Config
	base       *url.URL
	http       *http.Client
	publisher  session.Publisher
	redirector Redirector
	newID      func() string
	now        func() time.Time
	nrApp      *newrelic.Application
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying http.Client. The client is copied,
// and the copy gets a cookie jar if it has none.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.http = hc }
}

// WithPublisher sets where session invalidation is announced.
func WithPublisher(p session.Publisher) Option {
	return func(c *Client) { c.publisher = p }
}

// WithRedirector sets how full-page redirects are performed.
func WithRedirector(r Redirector) Option {
	return func(c *Client) { c.redirector = r }
}

// WithNewRelic records outbound calls as external segments of the
// transaction found in each request's context.
func WithNewRelic(app *newrelic.Application) Option {
	return func(c *Client) { c.nrApp = app }
}

// New creates a Client for cfg.BaseURL.
func New(cfg Config, opts ...Option) (*Client, error) {
	base, err := url.Parse(cfg.BaseURL)
	if err != nil {
		return nil, fmt.Errorf("invalid api base url: %w", err)
	}
	if base.Scheme == "" || base.Host == "" {
		return nil, fmt.Errorf("invalid api base url %q: scheme and host are required", cfg.BaseURL)
	}

	c := &Client{
		cfg:   cfg,
		base:  base,
		http:  &http.Client{Timeout: cfg.Timeout},
		newID: uuid.NewString,
		now:   time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}

	hc := *c.http
	c.http = &hc
	if c.nrApp != nil {
		c.http.Transport = newrelic.NewRoundTripper(c.http.Transport)
	}
	if c.http.Jar == nil {
		jar, err := cookiejar.New(nil)
		if err != nil {
			return nil, fmt.Errorf("failed to create cookie jar: %w", err)
		}
		c.http.Jar = jar
	}

	return c, nil
}

// Get is shorthand for a GET request.
func (c *Client) Get(ctx context.Context, path string, query url.Values) ([]byte, error) {
	return c.Do(ctx, Request{Method: http.MethodGet, Path: path, Query: query})
}

// Post is shorthand for a POST request.
func (c *Client) Post(ctx context.Context, path string, body any) ([]byte, error) {
	return c.Do(ctx, Request{Method: http.MethodPost, Path: path, Body: body})
}

// Do sends req and returns the response body unchanged on success.
// Every failure is returned as *Error.
func (c *Client) Do(ctx context.Context, req Request) ([]byte, error) {
	resp, err := c.send(ctx, req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, c.networkError(req, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, c.classify(req, resp.StatusCode, body)
	}
	return body, nil
}

// DoJSON sends req and decodes a successful JSON body into out.
func (c *Client) DoJSON(ctx context.Context, req Request, out any) error {
	body, err := c.Do(ctx, req)
	if err != nil {
		return err
	}
	if out == nil || len(bytes.TrimSpace(body)) == 0 {
		return nil
	}
	if err := json.Unmarshal(body, out); err != nil {
		return &Error{
			Kind:    KindUnknown,
			Code:    "decode_error",
			Message: MessageFallback,
			cause:   fmt.Errorf("%s %s: decode response: %w", req.Method, req.Path, err),
		}
	}
	return nil
}

// Download issues a GET for an opaque byte stream. The caller must close the
// returned reader.
func (c *Client) Download(ctx context.Context, path string) (io.ReadCloser, string, error) {
	req := Request{Method: http.MethodGet, Path: path}
	resp, err := c.send(ctx, req)
	if err != nil {
		return nil, "", err
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		defer resp.Body.Close()
		body, _ := io.ReadAll(resp.Body)
		return nil, "", c.classify(req, resp.StatusCode, body)
	}
	return resp.Body, resp.Header.Get("Content-Type"), nil
}

// CSRFToken returns the anti-forgery token from the cookie jar, or "".
func (c *Client) CSRFToken() string {
	if c.cfg.CSRFCookie == "" {
		return ""
	}
	for _, cookie := range c.http.Jar.Cookies(c.base) {
		if cookie.Name == c.cfg.CSRFCookie {
			return cookie.Value
		}
	}
	return ""
}

func (c *Client) send(ctx context.Context, req Request) (*http.Response, error) {
	u := c.base.JoinPath(req.Path)
	if len(req.Query) > 0 {
		u.RawQuery = req.Query.Encode()
	}

	var body io.Reader
	if req.Body != nil {
		b, err := json.Marshal(req.Body)
		if err != nil {
			return nil, &Error{
				Kind:    KindUnknown,
				Code:    "encode_error",
				Message: MessageFallback,
				cause:   fmt.Errorf("%s %s: encode request: %w", req.Method, req.Path, err),
			}
		}
		body = bytes.NewReader(b)
	}

	httpReq, err := http.NewRequestWithContext(ctx, req.Method, u.String(), body)
	if err != nil {
		return nil, &Error{
			Kind:    KindUnknown,
			Code:    "request_error",
			Message: MessageFallback,
			cause:   err,
		}
	}

	httpReq.Header.Set("Accept", "application/json")
	httpReq.Header.Set(requestIDHeader, c.newID())
	if body != nil {
		httpReq.Header.Set("Content-Type", "application/json")
	}
	if isStateChanging(req.Method) {
		if token := c.CSRFToken(); token != "" && c.cfg.CSRFHeader != "" {
			httpReq.Header.Set(c.cfg.CSRFHeader, token)
		}
		httpReq.Header.Set(idempotencyHeader, c.newID())
	}

	resp, err := c.http.Do(httpReq)
	if err != nil {
		return nil, c.networkError(req, err)
	}
	return resp, nil
}

func (c *Client) networkError(req Request, err error) *Error {
	log.Printf("[TRANSPORT] %s %s failed: kind=%s err=%v", req.Method, req.Path, KindNetwork, err)
	return &Error{
		Kind:    KindNetwork,
		Code:    "network_error",
		Message: MessageNetwork,
		cause:   err,
	}
}

func (c *Client) classify(req Request, status int, body []byte) *Error {
	payload := parseErrorPayload(body)
	cause := fmt.Errorf("%s %s: status %d", req.Method, req.Path, status)

	if status == http.StatusUnauthorized {
		e := &Error{
			Kind:    KindUnauthorized,
			Code:    payload.Code,
			Message: payload.Message,
			Details: payload.Details,
			Status:  status,
			cause:   cause,
		}
		if e.Message == "" {
			e.Message = MessageUnauthorized
		}
		log.Printf("[TRANSPORT] %s %s failed: kind=%s status=%d", req.Method, req.Path, e.Kind, status)
		c.invalidate(req, status)
		return e
	}

	e := &Error{
		Kind:    kindForCode(payload.Code, status),
		Code:    payload.Code,
		Message: payload.Message,
		Details: payload.Details,
		Status:  status,
		cause:   cause,
	}
	if e.Message == "" {
		e.Message = MessageFallback
	}
	log.Printf("[TRANSPORT] %s %s failed: kind=%s code=%s status=%d", req.Method, req.Path, e.Kind, e.Code, status)
	return e
}

// invalidate announces the lost session and, outside the auth endpoints,
// sends the user back to the landing page.
func (c *Client) invalidate(req Request, status int) {
	if c.publisher != nil {
		c.publisher.PublishInvalidated(session.Invalidation{
			Method: req.Method,
			Path:   req.Path,
			Status: status,
			At:     c.now(),
		})
	}
	if IsAuthPath(req.Path) || c.redirector == nil {
		return
	}
	c.redirector.Redirect(LandingPath)
}

// IsAuthPath reports whether path is one of the login, register or logout endpoints.
func IsAuthPath(path string) bool {
	if i := strings.IndexAny(path, "?#"); i >= 0 {
		path = path[:i]
	}
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	if len(path) > 1 {
		path = strings.TrimRight(path, "/")
	}
	_, ok := authPaths[path]
	return ok
}

func isStateChanging(method string) bool {
	switch strings.ToUpper(method) {
	case http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete:
		return true
	default:
		return false
	}
}
