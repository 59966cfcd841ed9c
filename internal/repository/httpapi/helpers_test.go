package httpapi

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/require"

	"docportal/internal/httpclient"
)

type staticToken string

func (s staticToken) AccessToken(context.Context) (string, bool) {
	return string(s), s != ""
}

// newBackend starts a server running h and returns a client bound to it
// with a bearer token installed.
func newBackend(t *testing.T, h http.HandlerFunc) *httpclient.Client {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)

	c, err := httpclient.New(httpclient.Config{BaseURL: srv.URL, Registerer: prometheus.NewRegistry()})
	require.NoError(t, err)
	c.SetTokenSource(staticToken("tok"))
	return c
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func decodeBody(t *testing.T, r *http.Request) map[string]any {
	t.Helper()
	var m map[string]any
	require.NoError(t, json.NewDecoder(r.Body).Decode(&m))
	return m
}
