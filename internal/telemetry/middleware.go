package telemetry

import (
	"errors"
	"fmt"

	"github.com/gofiber/fiber/v2"
	"github.com/mansoorceksport/tenantpanel/internal/middleware"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/trace"
)

const tracerName = "tenantpanel-http"

// FiberMiddleware traces each request with the global tracer provider.
// It must run after middleware.RequestID so the span carries the request id.
func FiberMiddleware() fiber.Handler {
	return newFiberMiddleware(otel.GetTracerProvider())
}

func newFiberMiddleware(provider trace.TracerProvider) fiber.Handler {
	tracer := provider.Tracer(tracerName)
	propagator := otel.GetTextMapPropagator()

	return func(c *fiber.Ctx) error {
		ctx := propagator.Extract(c.UserContext(), propagation.HeaderCarrier(c.GetReqHeaders()))

		// Named by method until routing resolves the path template
		ctx, span := tracer.Start(ctx, c.Method(),
			trace.WithSpanKind(trace.SpanKindServer),
			trace.WithAttributes(
				attribute.String("http.method", c.Method()),
				attribute.String("http.target", c.Path()),
				attribute.String("http.user_agent", c.Get(fiber.HeaderUserAgent)),
				attribute.String("request.id", middleware.GetRequestID(c)),
			),
		)
		defer span.End()

		c.SetUserContext(ctx)
		if span.SpanContext().HasTraceID() {
			c.Set("X-Trace-ID", span.SpanContext().TraceID().String())
		}

		err := c.Next()

		// Handler errors are turned into responses later by the app's error handler
		status := c.Response().StatusCode()
		var fe *fiber.Error
		if errors.As(err, &fe) {
			status = fe.Code
		} else if err != nil {
			status = fiber.StatusInternalServerError
		}

		route := c.Route().Path
		span.SetName(fmt.Sprintf("%s %s", c.Method(), route))
		span.SetAttributes(
			attribute.String("http.route", route),
			attribute.Int("http.status_code", status),
		)

		// Set by SessionReader on page routes and by the SSO handler after sign-in
		if auth := middleware.GetAuthData(c); auth.TenantID != "" {
			span.SetAttributes(attribute.String("tenant.id", auth.TenantID))
		}

		if status >= fiber.StatusInternalServerError {
			span.SetStatus(codes.Error, fmt.Sprintf("HTTP %d", status))
		}
		if err != nil {
			span.RecordError(err)
		}

		return err
	}
}

// AddSpanEvent adds an event to the request span
func AddSpanEvent(c *fiber.Ctx, name string, attrs ...attribute.KeyValue) {
	trace.SpanFromContext(c.UserContext()).AddEvent(name, trace.WithAttributes(attrs...))
}
