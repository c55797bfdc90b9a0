package middleware

import (
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func newPromApp(t *testing.T) (*fiber.App, *PrometheusMiddleware, *prometheus.Registry) {
	t.Helper()
	reg := prometheus.NewRegistry()
	pm, err := NewPrometheusMiddleware(reg)
	if err != nil {
		t.Fatalf("failed to create middleware: %v", err)
	}
	app := fiber.New()
	app.Use(pm.Handler())
	return app, pm, reg
}

func TestPrometheusMiddleware_CountsByRoute(t *testing.T) {
	app, pm, _ := newPromApp(t)

	app.Post("/inbound/email", func(c *fiber.Ctx) error {
		return c.SendStatus(fiber.StatusOK)
	})
	app.Get("/documents/:id", func(c *fiber.Ctx) error {
		return c.SendStatus(fiber.StatusOK)
	})
	app.Get("/error", func(c *fiber.Ctx) error {
		return fiber.NewError(fiber.StatusBadRequest, "bad request")
	})

	app.Test(httptest.NewRequest("POST", "/inbound/email", nil))
	app.Test(httptest.NewRequest("GET", "/documents/123", nil))
	app.Test(httptest.NewRequest("GET", "/documents/456", nil))
	app.Test(httptest.NewRequest("GET", "/error", nil))

	if got := testutil.ToFloat64(pm.requestCount.WithLabelValues("POST", "/inbound/email", "200")); got != 1 {
		t.Errorf("expected 1 inbound request, got %f", got)
	}
	if got := testutil.ToFloat64(pm.requestCount.WithLabelValues("GET", "/documents/:id", "200")); got != 2 {
		t.Errorf("expected 2 requests on the route pattern, got %f", got)
	}
	if got := testutil.ToFloat64(pm.requestCount.WithLabelValues("GET", "/error", "400")); got != 1 {
		t.Errorf("expected 1 error request, got %f", got)
	}
	if got := testutil.CollectAndCount(pm.requestDuration); got != 3 {
		t.Errorf("expected 3 histogram series, got %d", got)
	}
}

func TestPrometheusMiddleware_ExcludeMetrics(t *testing.T) {
	app, _, reg := newPromApp(t)

	app.Get("/metrics", func(c *fiber.Ctx) error {
		return c.SendStatus(fiber.StatusOK)
	})

	app.Test(httptest.NewRequest("GET", "/metrics", nil))

	mfs, err := reg.Gather()
	if err != nil {
		t.Fatalf("failed to gather metrics: %v", err)
	}
	for _, mf := range mfs {
		if len(mf.GetMetric()) > 0 {
			t.Errorf("expected no samples for %s, got %d", mf.GetName(), len(mf.GetMetric()))
		}
	}
}

func TestNewPrometheusMiddleware_DuplicateRegistration(t *testing.T) {
	reg := prometheus.NewRegistry()
	if _, err := NewPrometheusMiddleware(reg); err != nil {
		t.Fatalf("first registration failed: %v", err)
	}
	if _, err := NewPrometheusMiddleware(reg); err == nil {
		t.Fatal("expected duplicate registration to fail")
	}
}
