package middleware

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/otel/metric"

	"github.com/erp/checkout/internal/infrastructure/telemetry"
)

type httpMetrics struct {
	requests *telemetry.Counter
	duration *telemetry.Histogram
}

// HTTPMetrics counts requests and records their latency by method, route
// and status. A nil meter disables collection.
func HTTPMetrics(meter metric.Meter) (gin.HandlerFunc, error) {
	if meter == nil {
		return func(c *gin.Context) { c.Next() }, nil
	}

	requests, err := telemetry.NewCounter(meter, "http_server_request_total", "Total number of HTTP requests", "{request}")
	if err != nil {
		return nil, err
	}
	duration, err := telemetry.NewHistogram(meter, telemetry.HistogramOpts{
		Name:        "http_server_request_duration_seconds",
		Description: "HTTP request latency distribution in seconds",
		Unit:        "s",
		Boundaries:  telemetry.HTTPDurationBuckets,
	})
	if err != nil {
		return nil, err
	}
	m := &httpMetrics{requests: requests, duration: duration}

	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		ctx := c.Request.Context()
		method := telemetry.AttrHTTPMethod.String(c.Request.Method)
		path := telemetry.AttrHTTPRoute.String(route)
		m.requests.Inc(ctx, method, path, telemetry.AttrHTTPStatusCode.String(strconv.Itoa(c.Writer.Status())))
		m.duration.RecordDuration(ctx, time.Since(start), method, path)
	}, nil
}
