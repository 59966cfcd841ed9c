// Package httpclient is the single outbound path to the document API. It
// attaches bearer tokens, enforces per-request timeouts, parses responses by
// content type and classifies failures.
package httpclient

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.uber.org/zap"

	"docportal/internal/logger"
)

// DefaultTimeout bounds a request when neither the client nor the call
// configures one.
const DefaultTimeout = 15 * time.Second

// RequestIDHeader carries the correlation id on every outbound request.
const RequestIDHeader = "X-Request-ID"

// TokenSource yields the bearer token to attach, if a valid one exists.
type TokenSource interface {
	AccessToken(ctx context.Context) (string, bool)
}

// Refresher renews the tokens behind a TokenSource after a 401.
type Refresher interface {
	Refresh(ctx context.Context) error
}

// Config configures a Client.
type Config struct {
	BaseURL string
	Timeout time.Duration
	// Transport defaults to http.DefaultTransport. It is always wrapped
	// with otelhttp.
	Transport http.RoundTripper
	// Registerer defaults to prometheus.DefaultRegisterer.
	Registerer prometheus.Registerer
}

// Options tune a single call. The zero value is an authenticated GET
// using the client timeout.
type Options struct {
	Method string
	// Body is sent verbatim when it is []byte, string or io.Reader and
	// JSON-encoded otherwise.
	Body   any
	Header http.Header
	Query  url.Values
	// NoAuth suppresses the Authorization header.
	NoAuth  bool
	Timeout time.Duration
}

// Client is safe for concurrent use by multiple goroutines.
type Client struct {
	baseURL string
	timeout time.Duration
	hc      *http.Client
	metrics *metrics

	mu        sync.RWMutex
	tokens    TokenSource
	refresher Refresher
}

// New creates a Client.
func New(cfg Config) (*Client, error) {
	base := strings.TrimRight(cfg.BaseURL, "/")
	if base != "" {
		u, err := url.Parse(base)
		if err != nil || u.Scheme == "" || u.Host == "" {
			return nil, fmt.Errorf("invalid base url %q", cfg.BaseURL)
		}
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	rt := cfg.Transport
	if rt == nil {
		rt = http.DefaultTransport
	}
	reg := cfg.Registerer
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	m, err := newMetrics(reg)
	if err != nil {
		return nil, fmt.Errorf("register client metrics: %w", err)
	}

	return &Client{
		baseURL: base,
		timeout: timeout,
		hc:      &http.Client{Transport: otelhttp.NewTransport(rt)},
		metrics: m,
	}, nil
}

// SetTokenSource installs the bearer token provider.
func (c *Client) SetTokenSource(ts TokenSource) {
	c.mu.Lock()
	c.tokens = ts
	c.mu.Unlock()
}

// SetRefresher installs the hook used to renew tokens after a 401.
func (c *Client) SetRefresher(r Refresher) {
	c.mu.Lock()
	c.refresher = r
	c.mu.Unlock()
}

func (c *Client) auth() (TokenSource, Refresher) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.tokens, c.refresher
}

// Get issues an authenticated GET.
func (c *Client) Get(ctx context.Context, path string, query url.Values) (*Response, error) {
	return c.Do(ctx, path, Options{Method: http.MethodGet, Query: query})
}

// Post issues an authenticated POST with a JSON body.
func (c *Client) Post(ctx context.Context, path string, body any) (*Response, error) {
	return c.Do(ctx, path, Options{Method: http.MethodPost, Body: body})
}

// Put issues an authenticated PUT with a JSON body.
func (c *Client) Put(ctx context.Context, path string, body any) (*Response, error) {
	return c.Do(ctx, path, Options{Method: http.MethodPut, Body: body})
}

// Delete issues an authenticated DELETE.
func (c *Client) Delete(ctx context.Context, path string) (*Response, error) {
	return c.Do(ctx, path, Options{Method: http.MethodDelete})
}

// PostMultipart uploads content as a single multipart file field.
func (c *Client) PostMultipart(ctx context.Context, path string, query url.Values, field, fileName string, content []byte) (*Response, error) {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	part, err := w.CreateFormFile(field, fileName)
	if err != nil {
		return nil, fmt.Errorf("create form file: %w", err)
	}
	if _, err := part.Write(content); err != nil {
		return nil, fmt.Errorf("write form file: %w", err)
	}
	if err := w.Close(); err != nil {
		return nil, fmt.Errorf("close multipart writer: %w", err)
	}

	h := http.Header{}
	h.Set("Content-Type", w.FormDataContentType())
	return c.Do(ctx, path, Options{Method: http.MethodPost, Body: buf.Bytes(), Header: h, Query: query})
}

// Do performs a request against path, which is resolved against the base
// URL unless it is already absolute. A 401 on an authenticated request is
// followed by at most one token refresh and one replay.
func (c *Client) Do(ctx context.Context, path string, opt Options) (*Response, error) {
	method := opt.Method
	if method == "" {
		method = http.MethodGet
	}
	target, err := c.resolve(path, opt.Query)
	if err != nil {
		return nil, err
	}
	body, contentType, err := encodeBody(opt.Body)
	if err != nil {
		return nil, err
	}
	timeout := opt.Timeout
	if timeout <= 0 {
		timeout = c.timeout
	}

	tokens, refresher := c.auth()
	resp, authed, err := c.send(ctx, method, target, body, contentType, opt, tokens, timeout)
	if err == nil || !authed || refresher == nil || StatusOf(err) != http.StatusUnauthorized {
		return resp, err
	}

	if rerr := refresher.Refresh(ctx); rerr != nil {
		logger.Log.Debug("token_refresh_failed", zap.String("url", target), zap.Error(rerr))
		return nil, err
	}
	resp, _, err = c.send(ctx, method, target, body, contentType, opt, tokens, timeout)
	return resp, err
}

func (c *Client) send(ctx context.Context, method, target string, body []byte, contentType string, opt Options, tokens TokenSource, timeout time.Duration) (*Response, bool, error) {
	reqCtx, cancel := context.WithTimeoutCause(ctx, timeout, ErrTimeout)
	defer cancel()

	var rdr io.Reader
	if body != nil {
		rdr = bytes.NewReader(body)
	}
	req, err := http.NewRequestWithContext(reqCtx, method, target, rdr)
	if err != nil {
		return nil, false, fmt.Errorf("build request: %w", err)
	}
	for k, vs := range opt.Header {
		for _, v := range vs {
			req.Header.Add(k, v)
		}
	}
	if contentType != "" && req.Header.Get("Content-Type") == "" {
		req.Header.Set("Content-Type", contentType)
	}
	if req.Header.Get("Accept") == "" {
		req.Header.Set("Accept", "application/json, text/plain, */*")
	}
	rid := RequestIDFromContext(ctx)
	if rid == "" {
		rid = uuid.NewString()
	}
	req.Header.Set(RequestIDHeader, rid)

	authed := false
	if !opt.NoAuth && tokens != nil {
		if tok, ok := tokens.AccessToken(ctx); ok {
			req.Header.Set("Authorization", "Bearer "+tok)
			authed = true
		}
	}

	start := time.Now()
	res, err := c.hc.Do(req)
	if err != nil {
		outcome, kind := classify(reqCtx)
		c.metrics.observe(method, outcome)
		logger.Log.Debug("upstream_request_failed",
			zap.String("request_id", rid),
			zap.String("method", method),
			zap.String("url", target),
			zap.String("outcome", outcome),
			zap.Error(err),
		)
		return nil, authed, &RequestError{Method: method, URL: target, Kind: kind, Err: err}
	}
	defer res.Body.Close()

	data, err := io.ReadAll(res.Body)
	if err != nil {
		outcome, kind := classify(reqCtx)
		c.metrics.observe(method, outcome)
		return nil, authed, &RequestError{Method: method, URL: target, Kind: kind, Err: err}
	}

	logger.Log.Debug("upstream_request",
		zap.String("request_id", rid),
		zap.String("method", method),
		zap.String("url", target),
		zap.Int("status", res.StatusCode),
		zap.Float64("latency", float64(time.Since(start).Milliseconds())),
	)

	if res.StatusCode < 200 || res.StatusCode > 299 {
		c.metrics.observe(method, outcomeHTTPError)
		return nil, authed, &HTTPError{
			Status: res.StatusCode,
			Body:   errorBody(res.Header.Get("Content-Type"), data),
		}
	}

	c.metrics.observe(method, outcomeSuccess)
	return newResponse(res.StatusCode, res.Header, data), authed, nil
}

// classify maps a failed attempt to its error kind using the request
// context's cancellation cause.
func classify(reqCtx context.Context) (string, error) {
	if reqCtx.Err() == nil {
		return outcomeNetwork, ErrNetwork
	}
	cause := context.Cause(reqCtx)
	if errors.Is(cause, ErrTimeout) || errors.Is(cause, context.DeadlineExceeded) {
		return outcomeTimeout, ErrTimeout
	}
	return outcomeAborted, ErrAborted
}

func (c *Client) resolve(path string, query url.Values) (string, error) {
	raw := path
	if !strings.HasPrefix(path, "http://") && !strings.HasPrefix(path, "https://") {
		if !strings.HasPrefix(path, "/") {
			path = "/" + path
		}
		raw = c.baseURL + path
	}
	u, err := url.Parse(raw)
	if err != nil {
		return "", fmt.Errorf("parse url %q: %w", raw, err)
	}
	if len(query) > 0 {
		q := u.Query()
		for k, vs := range query {
			for _, v := range vs {
				q.Add(k, v)
			}
		}
		u.RawQuery = q.Encode()
	}
	return u.String(), nil
}

func encodeBody(body any) ([]byte, string, error) {
	switch b := body.(type) {
	case nil:
		return nil, "", nil
	case []byte:
		return b, "", nil
	case string:
		return []byte(b), "text/plain; charset=utf-8", nil
	case io.Reader:
		data, err := io.ReadAll(b)
		if err != nil {
			return nil, "", fmt.Errorf("read request body: %w", err)
		}
		return data, "", nil
	default:
		data, err := json.Marshal(b)
		if err != nil {
			return nil, "", fmt.Errorf("encode request body: %w", err)
		}
		return data, "application/json", nil
	}
}

type requestIDKey struct{}

// WithRequestID makes outbound requests made with ctx reuse id.
func WithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, requestIDKey{}, id)
}

// RequestIDFromContext returns the id set by WithRequestID.
func RequestIDFromContext(ctx context.Context) string {
	id, _ := ctx.Value(requestIDKey{}).(string)
	return id
}
