package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/erp/checkout/internal/infrastructure/logger"
)

// Tracing starts a server span per request with otelgin and copies the
// request id onto the span and the request context
func Tracing(serviceName string, enabled bool) gin.HandlerFunc {
	if !enabled {
		return func(c *gin.Context) {
			if id := GetRequestID(c); id != "" {
				c.Request = c.Request.WithContext(logger.WithRequestID(c.Request.Context(), id))
			}
			c.Next()
		}
	}

	base := otelgin.Middleware(serviceName)
	return func(c *gin.Context) {
		if id := GetRequestID(c); id != "" {
			c.Request = c.Request.WithContext(logger.WithRequestID(c.Request.Context(), id))
		}
		base(c)
	}
}

// SpanAttributes adds the authenticated tenant to the span. It runs after
// Auth and marks 4xx and 5xx responses as errors.
func SpanAttributes() gin.HandlerFunc {
	return func(c *gin.Context) {
		span := trace.SpanFromContext(c.Request.Context())
		if span.IsRecording() {
			if id := GetRequestID(c); id != "" {
				span.SetAttributes(attribute.String("request_id", id))
			}
			if tenant := GetTenantID(c); tenant != "" {
				span.SetAttributes(attribute.String("tenant_id", tenant))
			}
		}

		c.Next()

		if status := c.Writer.Status(); status >= http.StatusBadRequest && span.IsRecording() {
			span.SetStatus(codes.Error, http.StatusText(status))
		}
	}
}
