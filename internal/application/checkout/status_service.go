package checkout

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/erp/checkout/internal/domain/billing"
	"github.com/erp/checkout/internal/domain/checkout"
	"github.com/erp/checkout/internal/domain/plan"
	"github.com/erp/checkout/internal/domain/shared"
	"github.com/erp/checkout/internal/infrastructure/telemetry"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

// Status check messages
const (
	MsgResolvedLocal       = "Resolved from local record"
	MsgResolvedLocalNoLive = "Resolved from local record (no live provider check)"
	MsgHostedPageMissing   = "Hosted page not yet created"
	MsgFetchedFromProvider = "Fetched from provider"
	MsgAwaitingProvider    = "Pending payment or awaiting provider confirmation"
)

// Metric sources for status checks
const (
	statusSourceLocal    = "local"
	statusSourceProvider = "provider"
)

// StatusService answers payment status checks, optionally polling the provider
type StatusService struct {
	checkouts     checkout.Repository
	subscriptions billing.SubscriptionRepository
	plans         plan.Repository
	gateways      *checkout.GatewayRegistry
	provisioner   Provisioner
	throttle      PollThrottle
	tx            shared.TxManager
	metrics       Metrics
	logger        *zap.Logger
	polls         singleflight.Group
}

// StatusServiceConfig contains dependencies for StatusService
type StatusServiceConfig struct {
	Checkouts     checkout.Repository
	Subscriptions billing.SubscriptionRepository
	Plans         plan.Repository
	Gateways      *checkout.GatewayRegistry
	Provisioner   Provisioner
	// Throttle defaults to allowing every poll
	Throttle PollThrottle
	Tx       shared.TxManager
	Metrics  Metrics
	Logger   *zap.Logger
}

// NewStatusService creates a new StatusService
func NewStatusService(cfg StatusServiceConfig) *StatusService {
	s := &StatusService{
		checkouts:     cfg.Checkouts,
		subscriptions: cfg.Subscriptions,
		plans:         cfg.Plans,
		gateways:      cfg.Gateways,
		provisioner:   cfg.Provisioner,
		throttle:      cfg.Throttle,
		tx:            cfg.Tx,
		metrics:       cfg.Metrics,
		logger:        cfg.Logger,
	}
	if s.throttle == nil {
		s.throttle = allowAll{}
	}
	if s.metrics == nil {
		s.metrics = noopMetrics{}
	}
	if s.logger == nil {
		s.logger = zap.NewNop()
	}
	return s
}

// liveOutcome is the shared result of one provider poll
type liveOutcome struct {
	session *checkout.HostedCheckout
	status  checkout.PaymentStatus
	raw     *checkout.HostedPageStatusResult
}

// CheckStatus resolves the payment status of an order. Terminal sessions are
// answered from the local record; otherwise a live check polls the provider
// at most once per throttle window and concurrent polls share one call.
func (s *StatusService) CheckStatus(ctx context.Context, req StatusCheckRequest) (*StatusCheckResult, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "checkout_status", "check")
	defer span.End()

	orderID := strings.TrimSpace(req.OrderID)
	if orderID == "" {
		return nil, shared.NewInvalidInputError("orderId is required")
	}

	hc, err := s.checkouts.FindByOrderID(ctx, orderID)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, shared.NewNotFoundError("Unknown orderId")
		}
		return nil, fmt.Errorf("failed to find hosted checkout: %w", err)
	}
	if !hc.GatewayMatches(req.Gateway) {
		return nil, checkout.ErrGatewayMismatch
	}

	log := s.logger.With(zap.String("order_id", hc.OrderID), zap.String("gateway", hc.Gateway))

	if hc.IsTerminal() {
		if hc.LocalStatus() == checkout.PaymentStatusSuccess {
			s.provision(ctx, hc, log)
		}
		msg := MsgResolvedLocalNoLive
		if req.Live {
			msg = MsgResolvedLocal
		}
		return s.localResult(ctx, hc, msg), nil
	}

	if !req.Live {
		return s.localResult(ctx, hc, MsgAwaitingProvider), nil
	}

	if hc.ProviderHostedPageID == "" {
		res := s.baseResult(ctx, hc)
		res.Status = checkout.PaymentStatusUnknown
		res.Message = MsgHostedPageMissing
		s.metrics.RecordStatusCheck(ctx, statusSourceLocal, res.Status.String())
		return res, nil
	}

	allowed, err := s.throttle.Allow(ctx, hc.OrderID)
	if err != nil {
		log.Warn("Poll throttle unavailable; polling anyway", zap.Error(err))
		allowed = true
	}
	if !allowed {
		log.Debug("Provider poll throttled; answering from local record")
		return s.localResult(ctx, hc, MsgAwaitingProvider), nil
	}

	v, err, joined := s.polls.Do(hc.OrderID, func() (any, error) {
		return s.pollProvider(ctx, hc, log)
	})
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}
	out := v.(*liveOutcome)
	if joined {
		log.Debug("Joined in-flight provider poll")
	}

	res := s.baseResult(ctx, out.session)
	res.Status = out.status
	res.ProviderStatusRaw = out.raw.Status
	res.HostedURL = out.raw.URL
	res.ExpiringTime = out.raw.ExpiringTime
	res.Message = MsgFetchedFromProvider
	s.metrics.RecordStatusCheck(ctx, statusSourceProvider, res.Status.String())
	telemetry.SetOK(span)
	return res, nil
}

// pollProvider asks the gateway and records the answer under the session
// row lock. A session settled meanwhile keeps its terminal status.
func (s *StatusService) pollProvider(ctx context.Context, hc *checkout.HostedCheckout, log *zap.Logger) (*liveOutcome, error) {
	gw, err := s.gateways.Resolve(hc.Gateway)
	if err != nil {
		return nil, err
	}
	raw, err := gw.GetHostedPageStatus(ctx, hc.ProviderHostedPageID)
	if err != nil {
		log.Error("Provider status poll failed", zap.Error(err))
		return nil, fmt.Errorf("poll hosted page via %s: %w", gw.Name(), err)
	}

	out := &liveOutcome{raw: raw}
	err = s.tx.WithTx(ctx, func(ctx context.Context) error {
		locked, err := s.checkouts.FindByOrderIDForUpdate(ctx, hc.OrderID)
		if err != nil {
			return err
		}
		out.status = locked.ApplyLiveStatus(raw)
		out.session = locked
		return s.checkouts.Save(ctx, locked)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to record provider status: %w", err)
	}

	log.Info("Recorded provider status",
		zap.String("provider_status", raw.Status),
		zap.String("status", out.status.String()))

	if out.session.Status == checkout.SessionStatusCompleted {
		s.provision(ctx, out.session, log)
	}
	return out, nil
}

func (s *StatusService) provision(ctx context.Context, hc *checkout.HostedCheckout, log *zap.Logger) {
	if s.provisioner == nil {
		return
	}
	if err := s.provisioner.ActivateFromSuccessfulCheckout(ctx, hc); err != nil {
		log.Error("Provisioning failed", zap.Error(err))
	}
}

// localResult answers from the stored session. UNKNOWN stays UNKNOWN; any
// other non-terminal status is PENDING.
func (s *StatusService) localResult(ctx context.Context, hc *checkout.HostedCheckout, msg string) *StatusCheckResult {
	res := s.baseResult(ctx, hc)
	res.Status = hc.LocalStatus()
	if !res.Status.IsTerminal() && res.Status != checkout.PaymentStatusUnknown {
		res.Status = checkout.PaymentStatusPending
	}
	res.ProviderStatusRaw = hc.ProviderStatus
	res.HostedURL = hc.HostedURL
	if hc.ExpiringTime != nil {
		res.ExpiringTime = hc.ExpiringTime.Format(time.RFC3339)
	}
	res.Message = msg
	s.metrics.RecordStatusCheck(ctx, statusSourceLocal, res.Status.String())
	return res
}

// baseResult fills the order, plan and subscription parts of a result
func (s *StatusService) baseResult(ctx context.Context, hc *checkout.HostedCheckout) *StatusCheckResult {
	res := &StatusCheckResult{
		OrderID:            hc.OrderID,
		Gateway:            hc.Gateway,
		ZohoSubscriptionID: hc.ZohoSubscriptionID,
	}

	var p *plan.Plan
	sub, err := s.subscriptions.FindByActivationOrderID(ctx, hc.OrderID)
	if err == nil {
		id := sub.ID
		paid := sub.IsPaidPlan
		start, purchase := sub.StartDate, sub.PurchaseDate
		res.SubscriptionID = &id
		res.SubscriptionStatus = sub.Status.String()
		res.StartDate = &start
		res.EndDate = sub.EndDate
		res.PurchaseDate = &purchase
		res.PaidPlan = &paid
		if sub.ZohoSubscriptionID != "" {
			res.ZohoSubscriptionID = sub.ZohoSubscriptionID
		}
		p, err = s.plans.FindByID(ctx, sub.PlanID)
		if err != nil && !errors.Is(err, shared.ErrNotFound) {
			s.logger.Warn("Failed to load subscribed plan", zap.String("order_id", hc.OrderID), zap.Error(err))
		}
	} else if !errors.Is(err, shared.ErrNotFound) {
		s.logger.Warn("Failed to load subscription for order", zap.String("order_id", hc.OrderID), zap.Error(err))
	}

	if p == nil {
		p, err = s.plans.FindActiveByCode(ctx, hc.PlanCode)
		if err != nil && !errors.Is(err, shared.ErrNotFound) {
			s.logger.Warn("Failed to load plan", zap.String("plan_code", hc.PlanCode), zap.Error(err))
		}
	}
	res.Plan = NewPlanView(p)
	return res
}
