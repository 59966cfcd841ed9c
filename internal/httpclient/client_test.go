package httpclient

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync/atomic"
	"testing"
	"time"
	"unicode/utf8"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type staticTokens struct {
	token string
	ok    bool
}

func (s *staticTokens) AccessToken(context.Context) (string, bool) { return s.token, s.ok }

type refreshFunc func(ctx context.Context) error

func (f refreshFunc) Refresh(ctx context.Context) error { return f(ctx) }

func newTestClient(t *testing.T, srv *httptest.Server, timeout time.Duration) *Client {
	t.Helper()
	c, err := New(Config{BaseURL: srv.URL, Timeout: timeout, Registerer: prometheus.NewRegistry()})
	require.NoError(t, err)
	return c
}

func TestClient_BearerHeader(t *testing.T) {
	var got atomic.Value
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got.Store(r.Header.Get("Authorization"))
		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()

	c := newTestClient(t, srv, time.Second)
	ctx := context.Background()

	t.Run("valid token attaches header", func(t *testing.T) {
		c.SetTokenSource(&staticTokens{token: "abc", ok: true})
		_, err := c.Get(ctx, "/ping", nil)
		require.NoError(t, err)
		assert.Equal(t, "Bearer abc", got.Load())
	})

	t.Run("no valid token omits header", func(t *testing.T) {
		c.SetTokenSource(&staticTokens{ok: false})
		_, err := c.Get(ctx, "/ping", nil)
		require.NoError(t, err)
		assert.Equal(t, "", got.Load())
	})

	t.Run("NoAuth omits header", func(t *testing.T) {
		c.SetTokenSource(&staticTokens{token: "abc", ok: true})
		_, err := c.Do(ctx, "/ping", Options{NoAuth: true})
		require.NoError(t, err)
		assert.Equal(t, "", got.Load())
	})
}

func TestClient_Timeout(t *testing.T) {
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
		w.WriteHeader(http.StatusOK)
	}))
	t.Cleanup(srv.Close)
	t.Cleanup(func() { close(release) })

	reg := prometheus.NewRegistry()
	c, err := New(Config{BaseURL: srv.URL, Timeout: time.Minute, Registerer: reg})
	require.NoError(t, err)

	start := time.Now()
	_, err = c.Do(context.Background(), "/slow", Options{Timeout: 50 * time.Millisecond})
	elapsed := time.Since(start)

	require.Error(t, err)
	assert.ErrorIs(t, err, ErrTimeout)
	assert.ErrorIs(t, err, ErrAborted)
	assert.False(t, errors.Is(err, ErrNetwork))
	assert.Less(t, elapsed, 5*time.Second)

	var reqErr *RequestError
	require.ErrorAs(t, err, &reqErr)
	assert.Equal(t, http.MethodGet, reqErr.Method)
	assert.Equal(t, float64(1), testutil.ToFloat64(c.metrics.requests.WithLabelValues("GET", outcomeTimeout)))
}

func TestClient_CallerCancel(t *testing.T) {
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	t.Cleanup(srv.Close)
	t.Cleanup(func() { close(release) })

	c := newTestClient(t, srv, time.Minute)
	ctx, cancel := context.WithCancel(context.Background())
	time.AfterFunc(20*time.Millisecond, cancel)

	_, err := c.Get(ctx, "/slow", nil)
	assert.ErrorIs(t, err, ErrAborted)
	assert.False(t, errors.Is(err, ErrTimeout))
}

func TestClient_NetworkError(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	c := newTestClient(t, srv, time.Second)
	srv.Close()

	_, err := c.Get(context.Background(), "/gone", nil)
	assert.ErrorIs(t, err, ErrNetwork)
	assert.False(t, errors.Is(err, ErrAborted))
}

func TestClient_ResponseParsing(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/json":
			w.Header().Set("Content-Type", "application/json; charset=utf-8")
			_, _ = w.Write([]byte(`{"data":{"documents":[{"documentId":"1"}]}}`))
		case "/problem":
			w.Header().Set("Content-Type", "application/problem+json")
			_, _ = w.Write([]byte(`{"title":"x"}`))
		default:
			w.Header().Set("Content-Type", "text/plain")
			_, _ = w.Write([]byte("pong"))
		}
	}))
	defer srv.Close()

	c := newTestClient(t, srv, time.Second)
	ctx := context.Background()

	res, err := c.Get(ctx, "/json", nil)
	require.NoError(t, err)
	assert.True(t, res.IsJSON())
	assert.Equal(t, "1", res.Result().Get("data.documents.0.documentId").String())

	var decoded map[string]any
	require.NoError(t, res.Decode(&decoded))
	assert.Contains(t, decoded, "data")

	res, err = c.Get(ctx, "/problem", nil)
	require.NoError(t, err)
	assert.True(t, res.IsJSON())

	res, err = c.Get(ctx, "/text", nil)
	require.NoError(t, err)
	assert.False(t, res.IsJSON())
	assert.Equal(t, "pong", res.Text())
	assert.False(t, res.Result().Exists())
	assert.ErrorIs(t, res.Decode(&decoded), ErrNotJSON)
}

func TestClient_HTTPError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/json":
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusBadRequest)
			_, _ = w.Write([]byte(`{"code":400,"message":"name is required"}`))
		default:
			w.WriteHeader(http.StatusBadGateway)
			_, _ = w.Write([]byte("upstream down\n"))
		}
	}))
	defer srv.Close()

	c := newTestClient(t, srv, time.Second)

	_, err := c.Post(context.Background(), "/json", map[string]string{})
	var he *HTTPError
	require.ErrorAs(t, err, &he)
	assert.Equal(t, http.StatusBadRequest, he.Status)
	assert.Equal(t, "HTTP 400: name is required", err.Error())

	_, err = c.Get(context.Background(), "/text", nil)
	assert.Equal(t, "HTTP 502: upstream down", err.Error())
	assert.Equal(t, http.StatusBadGateway, StatusOf(err))
}

func TestErrorBody_TruncatesOnRuneBoundary(t *testing.T) {
	// 511 ASCII bytes followed by a 3-byte rune straddling the limit.
	body := strings.Repeat("a", maxErrorBody-1) + "€tail"
	got := errorBody("text/plain", []byte(body))
	assert.True(t, utf8.ValidString(got))
	assert.Equal(t, strings.Repeat("a", maxErrorBody-1), got)

	short := "ünïcödé"
	assert.Equal(t, short, errorBody("text/plain", []byte(short)))

	long := strings.Repeat("é", maxErrorBody)
	got = errorBody("text/plain", []byte(long))
	assert.True(t, utf8.ValidString(got))
	assert.Len(t, got, maxErrorBody)
}

func TestClient_RequestShape(t *testing.T) {
	type captured struct {
		method, path, query, contentType, requestID string
		body                                        []byte
	}
	ch := make(chan captured, 1)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		b, _ := io.ReadAll(r.Body)
		ch <- captured{r.Method, r.URL.Path, r.URL.RawQuery, r.Header.Get("Content-Type"), r.Header.Get(RequestIDHeader), b}
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	c := newTestClient(t, srv, time.Second)
	ctx := WithRequestID(context.Background(), "rid-1")

	_, err := c.Do(ctx, "api/v1/documents/share?documentId=7", Options{
		Method: http.MethodPost,
		Body:   []string{"a", "b"},
		Query:  url.Values{"expirationMinutes": {"30"}},
	})
	require.NoError(t, err)

	got := <-ch
	assert.Equal(t, http.MethodPost, got.method)
	assert.Equal(t, "/api/v1/documents/share", got.path)
	assert.Equal(t, "documentId=7&expirationMinutes=30", got.query)
	assert.Equal(t, "application/json", got.contentType)
	assert.Equal(t, "rid-1", got.requestID)

	var sent []string
	require.NoError(t, json.Unmarshal(got.body, &sent))
	assert.Equal(t, []string{"a", "b"}, sent)
}

func TestClient_AbsoluteURLPassesThrough(t *testing.T) {
	hit := make(chan string, 1)
	other := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hit <- r.Header.Get("Authorization")
	}))
	defer other.Close()

	c, err := New(Config{BaseURL: "http://127.0.0.1:1", Registerer: prometheus.NewRegistry()})
	require.NoError(t, err)
	c.SetTokenSource(&staticTokens{token: "abc", ok: true})

	_, err = c.Do(context.Background(), other.URL+"/presigned", Options{NoAuth: true})
	require.NoError(t, err)
	assert.Equal(t, "", <-hit)
}

func TestClient_RefreshOn401(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		if r.Header.Get("Authorization") != "Bearer fresh" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	c := newTestClient(t, srv, time.Second)
	tokens := &staticTokens{token: "stale", ok: true}
	c.SetTokenSource(tokens)

	var refreshes int
	c.SetRefresher(refreshFunc(func(context.Context) error {
		refreshes++
		tokens.token = "fresh"
		return nil
	}))

	_, err := c.Get(context.Background(), "/docs", nil)
	require.NoError(t, err)
	assert.Equal(t, 1, refreshes)
	assert.Equal(t, int32(2), calls.Load())
}

func TestClient_RefreshOnlyOnce(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer srv.Close()

	c := newTestClient(t, srv, time.Second)
	c.SetTokenSource(&staticTokens{token: "stale", ok: true})
	var refreshes int
	c.SetRefresher(refreshFunc(func(context.Context) error { refreshes++; return nil }))

	_, err := c.Get(context.Background(), "/docs", nil)
	assert.Equal(t, http.StatusUnauthorized, StatusOf(err))
	assert.Equal(t, 1, refreshes)
	assert.Equal(t, int32(2), calls.Load())
}

func TestClient_NoRefreshWithoutAuth(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer srv.Close()

	c := newTestClient(t, srv, time.Second)
	c.SetRefresher(refreshFunc(func(context.Context) error {
		t.Fatal("refresh must not run for unauthenticated requests")
		return nil
	}))

	_, err := c.Get(context.Background(), "/docs", nil)
	assert.Equal(t, http.StatusUnauthorized, StatusOf(err))
}

func TestClient_PostMultipart(t *testing.T) {
	type upload struct {
		fileName, content, query string
	}
	ch := make(chan upload, 1)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		f, fh, err := r.FormFile("file")
		if err != nil {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		b, _ := io.ReadAll(f)
		ch <- upload{fh.Filename, string(b), r.URL.RawQuery}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"success":true}`))
	}))
	defer srv.Close()

	c := newTestClient(t, srv, time.Second)
	res, err := c.PostMultipart(context.Background(), "/upload", url.Values{"fileName": {"a.txt"}}, "file", "a.txt", []byte("hello"))
	require.NoError(t, err)
	assert.True(t, res.Result().Get("success").Bool())

	got := <-ch
	assert.Equal(t, "a.txt", got.fileName)
	assert.Equal(t, "hello", got.content)
	assert.Equal(t, "fileName=a.txt", got.query)
}

func TestNew_InvalidBaseURL(t *testing.T) {
	_, err := New(Config{BaseURL: "not a url", Registerer: prometheus.NewRegistry()})
	assert.Error(t, err)
}

func TestNewMetrics_ReusesRegistered(t *testing.T) {
	reg := prometheus.NewRegistry()
	m1, err := newMetrics(reg)
	require.NoError(t, err)
	m2, err := newMetrics(reg)
	require.NoError(t, err)
	assert.Same(t, m1.requests, m2.requests)
}
