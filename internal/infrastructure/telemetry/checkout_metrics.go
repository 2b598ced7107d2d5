package telemetry

import (
	"context"

	"go.opentelemetry.io/otel/metric"
	"go.uber.org/zap"
)

// CheckoutMetrics counts hosted checkout activity: sessions opened, webhook
// deliveries, status checks and subscription provisioning, each labelled by
// outcome.
type CheckoutMetrics struct {
	meter  metric.Meter
	logger *zap.Logger

	sessionsTotal     *Counter
	webhooksTotal     *Counter
	statusChecksTotal *Counter
	provisioningTotal *Counter
}

// CheckoutMetricsConfig holds configuration for checkout metrics.
type CheckoutMetricsConfig struct {
	Meter  metric.Meter
	Logger *zap.Logger
}

// NewCheckoutMetrics creates the checkout counters on the given meter.
func NewCheckoutMetrics(cfg CheckoutMetricsConfig) (*CheckoutMetrics, error) {
	if cfg.Meter == nil {
		return nil, ErrMeterNil
	}
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	cm := &CheckoutMetrics{meter: cfg.Meter, logger: logger}

	var err error
	if cm.sessionsTotal, err = NewCounter(cfg.Meter,
		"checkout_sessions_total",
		"Hosted checkout sessions requested, by gateway and outcome",
		"{sessions}",
	); err != nil {
		return nil, err
	}
	if cm.webhooksTotal, err = NewCounter(cfg.Meter,
		"checkout_webhooks_total",
		"Payment webhook deliveries, by provider and outcome",
		"{deliveries}",
	); err != nil {
		return nil, err
	}
	if cm.statusChecksTotal, err = NewCounter(cfg.Meter,
		"checkout_status_checks_total",
		"Payment status checks, by answer source and normalized status",
		"{checks}",
	); err != nil {
		return nil, err
	}
	if cm.provisioningTotal, err = NewCounter(cfg.Meter,
		"checkout_provisioning_total",
		"Subscription provisioning attempts, by outcome",
		"{attempts}",
	); err != nil {
		return nil, err
	}
	return cm, nil
}

// RecordSessionCreated counts a create-session call
func (cm *CheckoutMetrics) RecordSessionCreated(ctx context.Context, gateway, outcome string) {
	cm.sessionsTotal.Inc(ctx, AttrGateway.String(gateway), AttrOutcome.String(outcome))
}

// RecordWebhook counts a webhook delivery
func (cm *CheckoutMetrics) RecordWebhook(ctx context.Context, provider, outcome string) {
	cm.webhooksTotal.Inc(ctx, AttrProvider.String(provider), AttrOutcome.String(outcome))
}

// RecordStatusCheck counts a status check answered from source ("local" or "provider")
func (cm *CheckoutMetrics) RecordStatusCheck(ctx context.Context, source, status string) {
	cm.statusChecksTotal.Inc(ctx, AttrSource.String(source), AttrPaymentStatus.String(status))
}

// RecordProvisioning counts a provisioning attempt
func (cm *CheckoutMetrics) RecordProvisioning(ctx context.Context, outcome string) {
	cm.provisioningTotal.Inc(ctx, AttrOutcome.String(outcome))
}

// ErrMeterNil is returned when meter is nil.
var ErrMeterNil = &MetricsError{Op: "NewCheckoutMetrics", Err: "meter cannot be nil"}

// MetricsError represents a metrics-related error.
type MetricsError struct {
	Op  string
	Err string
}

func (e *MetricsError) Error() string {
	return e.Op + ": " + e.Err
}
