package middleware

import (
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func gatewayApp(t *testing.T) (*fiber.App, *PrometheusMiddleware, *prometheus.Registry) {
	t.Helper()
	reg := prometheus.NewRegistry()
	m, err := NewPrometheusMiddleware(reg)
	require.NoError(t, err)

	app := fiber.New()
	app.Use(m.Handler())
	app.Get("/metrics", func(c *fiber.Ctx) error { return c.SendStatus(fiber.StatusOK) })
	app.Get("/documents/:id/share", func(c *fiber.Ctx) error { return c.JSON(fiber.Map{"url": "x"}) })
	app.Delete("/teams/:id/members/:memberId", func(c *fiber.Ctx) error { return c.SendStatus(fiber.StatusOK) })
	app.Get("/teams/:id", func(c *fiber.Ctx) error {
		return fmt.Errorf("fetch team %s: %w", c.Params("id"), fiber.NewError(fiber.StatusBadGateway, "upstream"))
	})
	app.Post("/auth/refresh", func(c *fiber.Ctx) error { return errors.New("token store down") })
	return app, m, reg
}

func TestPrometheusMiddleware_GatewayRoutes(t *testing.T) {
	app, m, _ := gatewayApp(t)

	tests := []struct {
		name   string
		method string
		target string
		route  string
		status string
	}{
		{"share link labelled by pattern", http.MethodGet, "/documents/42/share?expirationMinutes=5", "/documents/:id/share", "200"},
		{"member removal", http.MethodDelete, "/teams/t1/members/m9", "/teams/:id/members/:memberId", "200"},
		{"wrapped fiber error keeps its code", http.MethodGet, "/teams/t1", "/teams/:id", "502"},
		{"plain error counts as 500", http.MethodPost, "/auth/refresh", "/auth/refresh", "500"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := app.Test(httptest.NewRequest(tt.method, tt.target, nil))
			require.NoError(t, err)
			assert.Equal(t, 1.0, testutil.ToFloat64(m.requestCount.WithLabelValues(tt.method, tt.route, tt.status)))
		})
	}

	// One latency series per method and route pattern.
	assert.Equal(t, 4, testutil.CollectAndCount(m.requestDuration))
}

func TestPrometheusMiddleware_RepeatedIDsShareASeries(t *testing.T) {
	app, m, _ := gatewayApp(t)

	for _, id := range []string{"1", "2", "3"} {
		_, err := app.Test(httptest.NewRequest(http.MethodGet, "/documents/"+id+"/share", nil))
		require.NoError(t, err)
	}

	assert.Equal(t, 3.0, testutil.ToFloat64(m.requestCount.WithLabelValues(http.MethodGet, "/documents/:id/share", "200")))
	assert.Equal(t, 1, testutil.CollectAndCount(m.requestCount))
}

func TestPrometheusMiddleware_ScrapeNotCounted(t *testing.T) {
	app, _, reg := gatewayApp(t)

	_, err := app.Test(httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.NoError(t, err)

	n, err := testutil.GatherAndCount(reg, "portal_http_requests_total", "portal_http_request_duration_seconds")
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestPrometheusMiddleware_DuplicateRegistration(t *testing.T) {
	reg := prometheus.NewRegistry()
	_, err := NewPrometheusMiddleware(reg)
	require.NoError(t, err)

	_, err = NewPrometheusMiddleware(reg)
	var already prometheus.AlreadyRegisteredError
	assert.ErrorAs(t, err, &already)
}
