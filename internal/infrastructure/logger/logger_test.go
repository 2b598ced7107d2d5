package logger

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
	gormlogger "gorm.io/gorm/logger"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func TestParseLevel(t *testing.T) {
	assert.Equal(t, zapcore.DebugLevel, ParseLevel(" DEBUG "))
	assert.Equal(t, zapcore.WarnLevel, ParseLevel("warning"))
	assert.Equal(t, zapcore.InfoLevel, ParseLevel("verbose"))
}

func TestNew_TeesExtraCores(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	l := New(Config{Level: "error", Format: "json", Output: "stderr"}, core)
	l.Info("to the bridge")
	assert.Equal(t, 1, logs.Len())
}

func TestCtx_Enrichment(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	tp := sdktrace.NewTracerProvider()
	ctx, span := tp.Tracer("t").Start(context.Background(), "op")
	defer span.End()

	ctx = WithContext(ctx, zap.New(core))
	ctx = WithRequestID(ctx, "req-1")
	ctx = WithOrderID(ctx, "ord-9")
	Ctx(ctx).Info("hello")

	require.Equal(t, 1, logs.Len())
	fields := logs.All()[0].ContextMap()
	assert.Equal(t, "req-1", fields["request_id"])
	assert.Equal(t, "ord-9", fields["order_id"])
	assert.Equal(t, span.SpanContext().TraceID().String(), fields["trace_id"])
}

func TestFromContext_Default(t *testing.T) {
	assert.NotNil(t, FromContext(context.Background()))
	assert.Empty(t, GetOrderID(context.Background()))
}

func TestGinMiddleware(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	r := gin.New()
	r.Use(func(c *gin.Context) { c.Set("request_id", "req-7"); c.Next() })
	r.Use(GinMiddleware(zap.New(core)))
	r.GET("/ok", func(c *gin.Context) {
		assert.Equal(t, "req-7", GetRequestID(c.Request.Context()))
		FromGin(c).Debug("inside")
		c.Status(http.StatusNoContent)
	})
	r.GET("/missing", func(c *gin.Context) { c.Status(http.StatusNotFound) })

	for _, path := range []string{"/ok", "/missing"} {
		r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, path, nil))
	}

	entries := logs.All()
	require.Len(t, entries, 3)
	assert.Equal(t, "inside", entries[0].Message)
	assert.Equal(t, "req-7", entries[0].ContextMap()["request_id"])
	assert.Equal(t, zapcore.InfoLevel, entries[1].Level)
	assert.Equal(t, zapcore.WarnLevel, entries[2].Level)
	assert.Equal(t, int64(404), entries[2].ContextMap()["status"])
}

func TestRecovery(t *testing.T) {
	core, logs := observer.New(zapcore.ErrorLevel)
	r := gin.New()
	r.Use(Recovery(zap.New(core)))
	r.GET("/boom", func(*gin.Context) { panic("boom") })

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/boom", nil))
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Equal(t, 1, logs.FilterMessage("Panic recovered").Len())
}

func TestGormLogger_Trace(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	gl := NewGormLogger(zap.New(core), gormlogger.Warn, 10*time.Millisecond)
	fc := func() (string, int64) { return "SELECT 1", 1 }

	gl.Trace(context.Background(), time.Now(), fc, gormlogger.ErrRecordNotFound)
	gl.Trace(context.Background(), time.Now(), fc, errors.New("conn reset"))
	gl.Trace(context.Background(), time.Now().Add(-time.Second), fc, nil)
	gl.Trace(context.Background(), time.Now(), fc, nil)
	gl.LogMode(gormlogger.Silent).Trace(context.Background(), time.Now(), fc, errors.New("x"))

	entries := logs.All()
	require.Len(t, entries, 2)
	assert.Equal(t, "SQL error", entries[0].Message)
	assert.Equal(t, "Slow SQL", entries[1].Message)
}

func TestGormLevel(t *testing.T) {
	assert.Equal(t, gormlogger.Silent, GormLevel("silent"))
	assert.Equal(t, gormlogger.Info, GormLevel("debug"))
	assert.Equal(t, gormlogger.Warn, GormLevel(""))
}
