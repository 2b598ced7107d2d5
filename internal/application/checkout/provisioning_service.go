package checkout

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/erp/checkout/internal/domain/billing"
	"github.com/erp/checkout/internal/domain/checkout"
	"github.com/erp/checkout/internal/domain/plan"
	"github.com/erp/checkout/internal/domain/shared"
	"github.com/erp/checkout/internal/infrastructure/telemetry"
	"github.com/samber/lo"
	"go.uber.org/zap"
)

// Provisioner turns a paid checkout into a subscription
type Provisioner interface {
	ActivateFromSuccessfulCheckout(ctx context.Context, hc *checkout.HostedCheckout) error
}

var errAlreadyProvisioned = errors.New("activation order already provisioned")

// ProvisioningService activates subscriptions for completed checkouts
type ProvisioningService struct {
	billingEntities billing.BillingEntityRepository
	subscriptions   billing.SubscriptionRepository
	featureUsages   billing.FeatureUsageRepository
	plans           plan.Repository
	tx              shared.TxManager
	now             func() time.Time
	metrics         Metrics
	logger          *zap.Logger
}

// ProvisioningServiceConfig contains dependencies for ProvisioningService
type ProvisioningServiceConfig struct {
	BillingEntities billing.BillingEntityRepository
	Subscriptions   billing.SubscriptionRepository
	FeatureUsages   billing.FeatureUsageRepository
	Plans           plan.Repository
	Tx              shared.TxManager
	// Clock defaults to time.Now
	Clock   func() time.Time
	Metrics Metrics
	Logger  *zap.Logger
}

// NewProvisioningService creates a new ProvisioningService
func NewProvisioningService(cfg ProvisioningServiceConfig) *ProvisioningService {
	s := &ProvisioningService{
		billingEntities: cfg.BillingEntities,
		subscriptions:   cfg.Subscriptions,
		featureUsages:   cfg.FeatureUsages,
		plans:           cfg.Plans,
		tx:              cfg.Tx,
		now:             cfg.Clock,
		metrics:         cfg.Metrics,
		logger:          cfg.Logger,
	}
	if s.now == nil {
		s.now = time.Now
	}
	if s.metrics == nil {
		s.metrics = noopMetrics{}
	}
	if s.logger == nil {
		s.logger = zap.NewNop()
	}
	return s
}

// ActivateFromSuccessfulCheckout creates the ACTIVE subscription bought by a
// COMPLETED checkout. It is idempotent per order id: a second call only
// enriches the billing profile. Any other status is a no-op.
func (s *ProvisioningService) ActivateFromSuccessfulCheckout(ctx context.Context, hc *checkout.HostedCheckout) error {
	if hc == nil || hc.Status != checkout.SessionStatusCompleted {
		return nil
	}

	ctx, span := telemetry.StartServiceSpan(ctx, "subscription_provisioning", "activate",
		telemetry.WithAttribute("order_id", hc.OrderID))
	defer span.End()

	log := s.logger.With(
		zap.String("order_id", hc.OrderID),
		zap.String("tenant_id", hc.TenantID),
		zap.String("billing_id", hc.BillingID),
		zap.String("plan_code", hc.PlanCode),
	)

	var created *billing.Subscription
	err := s.tx.WithTx(ctx, func(ctx context.Context) error {
		sub, err := s.activate(ctx, hc, log)
		created = sub
		return err
	})

	switch {
	case errors.Is(err, errAlreadyProvisioned):
		log.Info("Activation order already provisioned by a concurrent delivery")
		s.metrics.RecordProvisioning(ctx, OutcomeSkipped)
		telemetry.SetOK(span)
		return nil
	case err != nil:
		telemetry.RecordError(span, err)
		s.metrics.RecordProvisioning(ctx, OutcomeError)
		return err
	case created == nil:
		s.metrics.RecordProvisioning(ctx, OutcomeSkipped)
	default:
		log.Info("Subscription activated",
			zap.String("subscription_id", created.ID.String()),
			zap.Timep("end_date", created.EndDate))
		s.metrics.RecordProvisioning(ctx, OutcomeOK)
	}
	telemetry.SetOK(span)
	return nil
}

// activate runs inside the transaction. It returns nil, nil when the order
// was already provisioned.
func (s *ProvisioningService) activate(ctx context.Context, hc *checkout.HostedCheckout, log *zap.Logger) (*billing.Subscription, error) {
	be, err := s.billingEntities.FindByTenantAndBillingForUpdate(ctx, hc.TenantID, hc.BillingID)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, fmt.Errorf("%w: billing entity not found for tenant=%s, billingId=%s",
				billing.ErrProvisioningPreconditions, hc.TenantID, hc.BillingID)
		}
		return nil, fmt.Errorf("failed to lock billing entity: %w", err)
	}

	if err := s.enrich(ctx, be, hc); err != nil {
		return nil, err
	}

	if _, err := s.subscriptions.FindByActivationOrderID(ctx, hc.OrderID); err == nil {
		log.Debug("Subscription already provisioned for order")
		return nil, nil
	} else if !errors.Is(err, shared.ErrNotFound) {
		return nil, fmt.Errorf("failed to check activation order: %w", err)
	}

	p, err := s.plans.FindByCode(ctx, hc.PlanCode)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, fmt.Errorf("%w: plan not found: %s", billing.ErrProvisioningPreconditions, hc.PlanCode)
		}
		return nil, fmt.Errorf("failed to find plan: %w", err)
	}
	price, err := s.plans.FindPrice(ctx, p.ID, hc.Currency)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, fmt.Errorf("%w: plan price not found for plan=%s, currency=%s",
				billing.ErrProvisioningPreconditions, hc.PlanCode, hc.Currency)
		}
		return nil, fmt.Errorf("failed to find plan price: %w", err)
	}

	now := s.now()
	previous, err := s.subscriptions.FindActiveByBillingEntityAndPlan(ctx, be.ID, p.ID)
	switch {
	case err == nil:
		previous.Cancel(now)
		if err := s.subscriptions.Save(ctx, previous); err != nil {
			return nil, fmt.Errorf("failed to cancel previous subscription: %w", err)
		}
		log.Info("Cancelled previous subscription on same plan",
			zap.String("subscription_id", previous.ID.String()))
	case !errors.Is(err, shared.ErrNotFound):
		return nil, fmt.Errorf("failed to find active subscription: %w", err)
	}

	start := now.Truncate(time.Second)
	sub, err := billing.NewPaidSubscription(billing.PaidSubscriptionParams{
		BillingEntityID:    be.ID,
		PlanID:             p.ID,
		PlanCode:           p.ExternalPlanCode,
		Start:              start,
		End:                p.TermEnd(start),
		TrialEnd:           p.TrialEnd(start),
		Currency:           price.Currency,
		Amount:             price.Amount,
		ZohoSubscriptionID: hc.ZohoSubscriptionID,
		ActivationOrderID:  hc.OrderID,
	})
	if err != nil {
		return nil, err
	}
	if err := s.subscriptions.Create(ctx, sub); err != nil {
		if errors.Is(err, shared.ErrAlreadyExists) {
			return nil, errAlreadyProvisioned
		}
		return nil, fmt.Errorf("failed to create subscription: %w", err)
	}

	features := p.SortedFeatures()
	if len(features) == 0 {
		log.Warn("Plan has no features; no usage counters seeded")
		return sub, nil
	}
	usages := lo.Map(features, func(f plan.Feature, _ int) *billing.FeatureUsage {
		return billing.NewFeatureUsage(sub.ID, f.Key, f.Limit)
	})
	if err := s.featureUsages.CreateBatch(ctx, usages); err != nil {
		return nil, fmt.Errorf("failed to seed feature usage: %w", err)
	}
	return sub, nil
}

func (s *ProvisioningService) enrich(ctx context.Context, be *billing.BillingEntity, hc *checkout.HostedCheckout) error {
	if !be.Enrich(hintsFromPayload(hc.RequestPayloadJSON, hc.PricebookID)) {
		return nil
	}
	if err := s.billingEntities.Save(ctx, be); err != nil {
		return fmt.Errorf("failed to save billing entity: %w", err)
	}
	return nil
}
