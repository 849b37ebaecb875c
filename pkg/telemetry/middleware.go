package telemetry

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// TraceIDHeader is the response header carrying the trace id
const TraceIDHeader = "X-Trace-ID"

// EventIDAttribute tags spans with the event a request addresses
const EventIDAttribute = "apertif.event_id"

// TracingConfig configures TracingMiddleware
type TracingConfig struct {
	ServiceName string
	// SkipPaths are served without a span
	SkipPaths []string
	// TracerProvider defaults to the global provider
	TracerProvider trace.TracerProvider
}

// TracingMiddleware starts a server span for every request not in SkipPaths
func TracingMiddleware(cfg TracingConfig) gin.HandlerFunc {
	skip := make(map[string]struct{}, len(cfg.SkipPaths))
	for _, p := range cfg.SkipPaths {
		skip[p] = struct{}{}
	}

	opts := []otelgin.Option{
		otelgin.WithFilter(func(r *http.Request) bool {
			_, skipped := skip[r.URL.Path]
			return !skipped
		}),
	}
	if cfg.TracerProvider != nil {
		opts = append(opts, otelgin.WithTracerProvider(cfg.TracerProvider))
	}
	return otelgin.Middleware(cfg.ServiceName, opts...)
}

// TraceHeaderMiddleware runs after TracingMiddleware. It returns the trace id
// to the caller, tags the span with the :id route parameter and marks 5xx
// responses as errors.
func TraceHeaderMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		span := trace.SpanFromContext(c.Request.Context())
		if !span.SpanContext().HasTraceID() {
			c.Next()
			return
		}

		c.Header(TraceIDHeader, span.SpanContext().TraceID().String())
		if id := c.Param("id"); id != "" {
			span.SetAttributes(attribute.String(EventIDAttribute, id))
		}

		c.Next()

		if status := c.Writer.Status(); status >= http.StatusInternalServerError {
			span.SetStatus(codes.Error, http.StatusText(status))
		}
	}
}
