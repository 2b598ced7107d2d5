// Package telemetry wires OpenTelemetry tracing, metrics and the zap log
// bridge for the checkout service.
package telemetry

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.opentelemetry.io/contrib/bridges/otelzap"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/otlp/otlplog/otlploggrpc"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetricgrpc"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracegrpc"
	"go.opentelemetry.io/otel/log/global"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/propagation"
	sdklog "go.opentelemetry.io/otel/sdk/log"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.37.0"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Config holds telemetry configuration.
type Config struct {
	Enabled           bool
	CollectorEndpoint string
	SamplingRatio     float64
	ServiceName       string
	ServiceVersion    string
	Insecure          bool
	MetricsEnabled    bool
	MetricsInterval   time.Duration // Default: 60s
	LogsEnabled       bool
}

// Providers owns the SDK tracer, meter and logger providers. Any of them may
// be nil when the matching signal is disabled; callers then fall back to the
// global no-op implementations.
type Providers struct {
	config Config
	logger *zap.Logger

	tracer *sdktrace.TracerProvider
	meter  *sdkmetric.MeterProvider
	logs   *sdklog.LoggerProvider
}

// NewProviders builds the enabled providers and installs them globally.
func NewProviders(ctx context.Context, cfg Config, logger *zap.Logger) (*Providers, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	p := &Providers{config: cfg, logger: logger}
	if !cfg.Enabled {
		logger.Info("Telemetry disabled, using no-op providers")
		return p, nil
	}

	res, err := p.resource()
	if err != nil {
		return nil, err
	}

	if err := p.startTracing(ctx, res); err != nil {
		return nil, err
	}
	if cfg.MetricsEnabled {
		if err := p.startMetrics(ctx, res); err != nil {
			_ = p.Shutdown(ctx)
			return nil, err
		}
	}
	if cfg.LogsEnabled {
		if err := p.startLogs(ctx, res); err != nil {
			_ = p.Shutdown(ctx)
			return nil, err
		}
	}

	logger.Info("OpenTelemetry initialized",
		zap.String("collector_endpoint", cfg.CollectorEndpoint),
		zap.String("service_name", cfg.ServiceName),
		zap.Float64("sampling_ratio", cfg.SamplingRatio),
		zap.Bool("metrics", p.meter != nil),
		zap.Bool("logs", p.logs != nil),
	)
	return p, nil
}

func (p *Providers) resource() (*resource.Resource, error) {
	version := p.config.ServiceVersion
	if version == "" {
		version = "1.0.0"
	}
	res, err := resource.Merge(
		resource.Default(),
		resource.NewWithAttributes(
			semconv.SchemaURL,
			semconv.ServiceName(p.config.ServiceName),
			semconv.ServiceVersion(version),
		),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create resource: %w", err)
	}
	return res, nil
}

func (p *Providers) startTracing(ctx context.Context, res *resource.Resource) error {
	opts := []otlptracegrpc.Option{otlptracegrpc.WithEndpoint(p.config.CollectorEndpoint)}
	if p.config.Insecure {
		opts = append(opts, otlptracegrpc.WithInsecure())
	}
	exporter, err := otlptracegrpc.New(ctx, opts...)
	if err != nil {
		return fmt.Errorf("failed to create OTLP trace exporter: %w", err)
	}

	p.tracer = sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(exporter),
		sdktrace.WithResource(res),
		sdktrace.WithSampler(samplerFor(p.config.SamplingRatio)),
	)
	otel.SetTracerProvider(p.tracer)
	otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator(
		propagation.TraceContext{},
		propagation.Baggage{},
	))
	return nil
}

func samplerFor(ratio float64) sdktrace.Sampler {
	switch {
	case ratio >= 1:
		return sdktrace.ParentBased(sdktrace.AlwaysSample())
	case ratio <= 0:
		return sdktrace.NeverSample()
	default:
		return sdktrace.ParentBased(sdktrace.TraceIDRatioBased(ratio))
	}
}

func (p *Providers) startMetrics(ctx context.Context, res *resource.Resource) error {
	interval := p.config.MetricsInterval
	if interval <= 0 {
		interval = 60 * time.Second
	}
	opts := []otlpmetricgrpc.Option{otlpmetricgrpc.WithEndpoint(p.config.CollectorEndpoint)}
	if p.config.Insecure {
		opts = append(opts, otlpmetricgrpc.WithInsecure())
	}
	exporter, err := otlpmetricgrpc.New(ctx, opts...)
	if err != nil {
		return fmt.Errorf("failed to create OTLP metrics exporter: %w", err)
	}

	p.meter = sdkmetric.NewMeterProvider(
		sdkmetric.WithResource(res),
		sdkmetric.WithReader(sdkmetric.NewPeriodicReader(exporter, sdkmetric.WithInterval(interval))),
	)
	otel.SetMeterProvider(p.meter)
	return nil
}

func (p *Providers) startLogs(ctx context.Context, res *resource.Resource) error {
	opts := []otlploggrpc.Option{otlploggrpc.WithEndpoint(p.config.CollectorEndpoint)}
	if p.config.Insecure {
		opts = append(opts, otlploggrpc.WithInsecure())
	}
	exporter, err := otlploggrpc.New(ctx, opts...)
	if err != nil {
		return fmt.Errorf("failed to create OTLP logs exporter: %w", err)
	}

	p.logs = sdklog.NewLoggerProvider(
		sdklog.WithResource(res),
		sdklog.WithProcessor(sdklog.NewBatchProcessor(exporter)),
	)
	global.SetLoggerProvider(p.logs)
	return nil
}

// Meter returns a named meter, the global one when metrics export is off.
func (p *Providers) Meter(name string, opts ...metric.MeterOption) metric.Meter {
	if p.meter == nil {
		return otel.GetMeterProvider().Meter(name, opts...)
	}
	return p.meter.Meter(name, opts...)
}

// TracingEnabled reports whether spans are exported.
func (p *Providers) TracingEnabled() bool {
	return p.tracer != nil
}

// ZapCore returns a core that forwards zap entries at or above level to the
// OTEL log pipeline. It is a no-op core when log export is off.
func (p *Providers) ZapCore(level zapcore.Level) zapcore.Core {
	if p.logs == nil {
		return zapcore.NewNopCore()
	}
	core := otelzap.NewCore(p.config.ServiceName, otelzap.WithLoggerProvider(p.logs))
	return &levelFilterCore{Core: core, minLevel: level}
}

// Shutdown flushes and stops every started provider.
func (p *Providers) Shutdown(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	var errs []error
	if p.tracer != nil {
		if err := p.tracer.Shutdown(ctx); err != nil {
			errs = append(errs, fmt.Errorf("tracer provider: %w", err))
		}
	}
	if p.meter != nil {
		if err := p.meter.Shutdown(ctx); err != nil {
			errs = append(errs, fmt.Errorf("meter provider: %w", err))
		}
	}
	if p.logs != nil {
		if err := p.logs.Shutdown(ctx); err != nil {
			errs = append(errs, fmt.Errorf("logger provider: %w", err))
		}
	}
	if err := errors.Join(errs...); err != nil {
		p.logger.Error("Error shutting down telemetry", zap.Error(err))
		return err
	}
	return nil
}

// levelFilterCore drops entries below minLevel; the otelzap core has no
// level of its own.
type levelFilterCore struct {
	zapcore.Core
	minLevel zapcore.Level
}

func (c *levelFilterCore) Enabled(lvl zapcore.Level) bool {
	return lvl >= c.minLevel && c.Core.Enabled(lvl)
}

func (c *levelFilterCore) Check(entry zapcore.Entry, ce *zapcore.CheckedEntry) *zapcore.CheckedEntry {
	if !c.Enabled(entry.Level) {
		return ce
	}
	return c.Core.Check(entry, ce)
}

func (c *levelFilterCore) With(fields []zapcore.Field) zapcore.Core {
	return &levelFilterCore{Core: c.Core.With(fields), minLevel: c.minLevel}
}
