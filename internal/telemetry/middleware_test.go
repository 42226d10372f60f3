package telemetry

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/mansoorceksport/tenantpanel/internal/domain"
	"github.com/mansoorceksport/tenantpanel/internal/middleware"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
)

func newTracedApp(t *testing.T) (*fiber.App, *tracetest.SpanRecorder) {
	t.Helper()
	recorder := tracetest.NewSpanRecorder()
	provider := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(recorder))
	t.Cleanup(func() { _ = provider.Shutdown(t.Context()) })

	app := fiber.New()
	app.Use(middleware.RequestID())
	app.Use(newFiberMiddleware(provider))
	app.Get("/icons/:name", func(c *fiber.Ctx) error {
		return c.SendString(c.Params("name"))
	})
	app.Get("/dashboard", func(c *fiber.Ctx) error {
		c.Locals(middleware.AuthDataKey, domain.AuthCookieData{TenantID: "t1"})
		AddSpanEvent(c, "rendered")
		return c.SendStatus(fiber.StatusOK)
	})
	app.Get("/broken", func(c *fiber.Ctx) error {
		return fiber.NewError(fiber.StatusInternalServerError, "boom")
	})
	return app, recorder
}

func attrs(span sdktrace.ReadOnlySpan) map[attribute.Key]attribute.Value {
	out := make(map[attribute.Key]attribute.Value)
	for _, kv := range span.Attributes() {
		out[kv.Key] = kv.Value
	}
	return out
}

func TestFiberMiddleware_NamesSpanByRoute(t *testing.T) {
	app, recorder := newTracedApp(t)

	req := httptest.NewRequest(http.MethodGet, "/icons/sql", nil)
	req.Header.Set("X-Request-ID", "req-1")
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	spans := recorder.Ended()
	require.Len(t, spans, 1)
	assert.Equal(t, "GET /icons/:name", spans[0].Name())

	a := attrs(spans[0])
	assert.Equal(t, "req-1", a["request.id"].AsString())
	assert.Equal(t, "/icons/:name", a["http.route"].AsString())
	assert.Equal(t, int64(200), a["http.status_code"].AsInt64())
	_, hasTenant := a["tenant.id"]
	assert.False(t, hasTenant)
}

func TestFiberMiddleware_RecordsTenantAndEvents(t *testing.T) {
	app, recorder := newTracedApp(t)

	_, err := app.Test(httptest.NewRequest(http.MethodGet, "/dashboard", nil))
	require.NoError(t, err)

	spans := recorder.Ended()
	require.Len(t, spans, 1)
	assert.Equal(t, "t1", attrs(spans[0])["tenant.id"].AsString())
	require.Len(t, spans[0].Events(), 1)
	assert.Equal(t, "rendered", spans[0].Events()[0].Name)
}

func TestFiberMiddleware_MarksErrors(t *testing.T) {
	app, recorder := newTracedApp(t)

	_, err := app.Test(httptest.NewRequest(http.MethodGet, "/broken", nil))
	require.NoError(t, err)

	spans := recorder.Ended()
	require.Len(t, spans, 1)
	assert.Equal(t, codes.Error, spans[0].Status().Code)
	assert.Equal(t, "HTTP 500", spans[0].Status().Description)
	assert.Equal(t, int64(500), attrs(spans[0])["http.status_code"].AsInt64())
	require.Len(t, spans[0].Events(), 1)
	assert.Equal(t, "exception", spans[0].Events()[0].Name)
}
