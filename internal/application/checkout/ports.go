// Package checkout orchestrates hosted checkout sessions: opening them on a
// payment gateway, reconciling provider webhooks and status polls, and
// provisioning subscriptions once a payment succeeds.
package checkout

import (
	"context"
	"time"
)

// PollThrottle limits how often the provider is polled for one order.
// Allow reports whether a poll may go out now.
type PollThrottle interface {
	Allow(ctx context.Context, orderID string) (bool, error)
}

// PayloadArchive keeps full raw webhook bodies outside the capped audit trail.
// orderID is blank when the delivery could not be correlated.
type PayloadArchive interface {
	Store(ctx context.Context, orderID string, receivedAt time.Time, body []byte) error
}

// Metrics records checkout outcomes
type Metrics interface {
	RecordSessionCreated(ctx context.Context, gateway, outcome string)
	RecordWebhook(ctx context.Context, provider, outcome string)
	RecordStatusCheck(ctx context.Context, source, status string)
	RecordProvisioning(ctx context.Context, outcome string)
}

// Metric outcomes
const (
	OutcomeOK       = "ok"
	OutcomeError    = "error"
	OutcomeRejected = "rejected"
	OutcomeSkipped  = "skipped"
)

type allowAll struct{}

func (allowAll) Allow(context.Context, string) (bool, error) { return true, nil }

type noopArchive struct{}

func (noopArchive) Store(context.Context, string, time.Time, []byte) error { return nil }

type noopMetrics struct{}

func (noopMetrics) RecordSessionCreated(context.Context, string, string) {}
func (noopMetrics) RecordWebhook(context.Context, string, string)        {}
func (noopMetrics) RecordStatusCheck(context.Context, string, string)    {}
func (noopMetrics) RecordProvisioning(context.Context, string)           {}
