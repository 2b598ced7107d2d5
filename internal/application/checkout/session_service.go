package checkout

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/erp/checkout/internal/domain/billing"
	"github.com/erp/checkout/internal/domain/checkout"
	"github.com/erp/checkout/internal/domain/plan"
	"github.com/erp/checkout/internal/domain/shared"
	"github.com/erp/checkout/internal/infrastructure/telemetry"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// SessionService opens hosted checkout sessions on a payment gateway
type SessionService struct {
	checkouts       checkout.Repository
	billingEntities billing.BillingEntityRepository
	subscriptions   billing.SubscriptionRepository
	plans           plan.Repository
	pricebooks      plan.PricebookRepository
	gateways        *checkout.GatewayRegistry
	tx              shared.TxManager
	defaultGateway  string
	metrics         Metrics
	logger          *zap.Logger
}

// SessionServiceConfig contains dependencies for SessionService
type SessionServiceConfig struct {
	Checkouts       checkout.Repository
	BillingEntities billing.BillingEntityRepository
	Subscriptions   billing.SubscriptionRepository
	Plans           plan.Repository
	Pricebooks      plan.PricebookRepository
	Gateways        *checkout.GatewayRegistry
	Tx              shared.TxManager
	// DefaultGateway is used when a request names none; ZOHOBILLING if blank
	DefaultGateway string
	Metrics        Metrics
	Logger         *zap.Logger
}

// NewSessionService creates a new SessionService
func NewSessionService(cfg SessionServiceConfig) *SessionService {
	s := &SessionService{
		checkouts:       cfg.Checkouts,
		billingEntities: cfg.BillingEntities,
		subscriptions:   cfg.Subscriptions,
		plans:           cfg.Plans,
		pricebooks:      cfg.Pricebooks,
		gateways:        cfg.Gateways,
		tx:              cfg.Tx,
		defaultGateway:  strings.TrimSpace(cfg.DefaultGateway),
		metrics:         cfg.Metrics,
		logger:          cfg.Logger,
	}
	if s.defaultGateway == "" {
		s.defaultGateway = checkout.DefaultProvider
	}
	if s.metrics == nil {
		s.metrics = noopMetrics{}
	}
	if s.logger == nil {
		s.logger = zap.NewNop()
	}
	return s
}

// CreateSession validates the request, makes sure the tenant has a billing
// profile, persists a CREATED session and asks the gateway for a hosted page.
// A gateway failure leaves the session CREATED and is returned to the caller.
func (s *SessionService) CreateSession(ctx context.Context, req CreateSessionRequest) (*CreateSessionResult, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "checkout_session", "create")
	defer span.End()

	req = normalizeRequest(req, s.defaultGateway)
	if req.TenantID == "" || req.BillingID == "" || req.PlanCode == "" || req.Currency == "" {
		return nil, shared.NewInvalidInputError("tenantId, billingId, planCode and currency are required")
	}

	log := s.logger.With(
		zap.String("tenant_id", req.TenantID),
		zap.String("billing_id", req.BillingID),
		zap.String("plan_code", req.PlanCode),
		zap.String("gateway", req.Gateway),
	)

	result, err := s.createSession(ctx, req, log)
	if err != nil {
		telemetry.RecordError(span, err)
		s.metrics.RecordSessionCreated(ctx, req.Gateway, OutcomeError)
		return nil, err
	}
	telemetry.SetOK(span)
	s.metrics.RecordSessionCreated(ctx, req.Gateway, OutcomeOK)
	return result, nil
}

func (s *SessionService) createSession(ctx context.Context, req CreateSessionRequest, log *zap.Logger) (*CreateSessionResult, error) {
	pb, err := s.pricebooks.FindByCurrency(ctx, req.Currency)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, shared.NewInvalidStateError("No pricebook configured for currency=" + req.Currency)
		}
		return nil, fmt.Errorf("failed to resolve pricebook: %w", err)
	}

	existing, err := s.billingEntities.FindByTenantAndBilling(ctx, req.TenantID, req.BillingID)
	if err != nil && !errors.Is(err, shared.ErrNotFound) {
		return nil, fmt.Errorf("failed to find billing entity: %w", err)
	}

	p, err := s.plans.FindByCode(ctx, req.PlanCode)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, shared.NewInvalidInputError("Unknown planCode: " + req.PlanCode)
		}
		return nil, fmt.Errorf("failed to find plan: %w", err)
	}
	if !p.IsActive {
		return nil, shared.NewInvalidStateError(fmt.Sprintf("Plan %s is not active", req.PlanCode))
	}

	// a tenant without a billing profile has no subscriptions yet
	if existing != nil {
		if _, err := s.subscriptions.FindActiveByBillingEntityAndPlan(ctx, existing.ID, p.ID); err == nil {
			log.Info("Rejected checkout for plan already active")
			return nil, shared.NewInvalidStateError(fmt.Sprintf(
				"An ACTIVE subscription already exists for this tenant/billing on plan %s. Hosted checkout is not allowed.",
				req.PlanCode))
		} else if !errors.Is(err, shared.ErrNotFound) {
			return nil, fmt.Errorf("failed to check active subscription: %w", err)
		}
	}

	if _, err := s.plans.FindPrice(ctx, p.ID, req.Currency); err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, shared.NewInvalidStateError(fmt.Sprintf(
				"No plan price for planCode=%s currency=%s", req.PlanCode, req.Currency))
		}
		return nil, fmt.Errorf("failed to find plan price: %w", err)
	}

	gw, err := s.gateways.Resolve(req.Gateway)
	if err != nil {
		log.Error("Gateway not configured", zap.Error(err))
		return nil, err
	}

	// nothing is written until every check has passed
	if _, err := s.upsertBillingEntity(ctx, req, pb.PricebookID, existing); err != nil {
		return nil, err
	}

	orderID := uuid.NewString()
	payload := buildHostedPagePayload(req, orderID, pb.PricebookID)
	requestJSON, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to encode hosted page payload: %w", err)
	}

	hc, err := checkout.NewHostedCheckout(checkout.NewHostedCheckoutParams{
		OrderID:            orderID,
		Gateway:            gw.Name(),
		TenantID:           req.TenantID,
		BillingID:          req.BillingID,
		PlanCode:           req.PlanCode,
		Currency:           req.Currency,
		PricebookID:        pb.PricebookID,
		RedirectURL:        req.RedirectURL,
		RequestPayloadJSON: string(requestJSON),
	})
	if err != nil {
		return nil, err
	}
	if err := s.checkouts.Create(ctx, hc); err != nil {
		return nil, fmt.Errorf("failed to persist hosted checkout: %w", err)
	}
	log = log.With(zap.String("order_id", orderID))

	res, err := gw.CreateHostedPage(ctx, payload)
	if err != nil {
		log.Error("Hosted page creation failed", zap.Error(err))
		return nil, fmt.Errorf("create hosted page via %s: %w", gw.Name(), err)
	}

	// a webhook may already have settled the session while the gateway answered
	err = s.tx.WithTx(ctx, func(ctx context.Context) error {
		locked, err := s.checkouts.FindByOrderIDForUpdate(ctx, orderID)
		if err != nil {
			return err
		}
		locked.MarkHostedPageCreated(res)
		return s.checkouts.Save(ctx, locked)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to record hosted page: %w", err)
	}

	log.Info("Hosted checkout created",
		zap.String("hosted_page_id", res.HostedPageID),
		zap.String("status", res.Status))

	return &CreateSessionResult{
		OrderID:      orderID,
		Gateway:      gw.Name(),
		HostedPageID: res.HostedPageID,
		URL:          res.URL,
		Status:       res.Status,
		ExpiringTime: res.ExpiringTime,
	}, nil
}

// upsertBillingEntity returns the tenant's billing profile, creating a
// minimal one on first checkout. A concurrent creator wins the unique key
// and the profile is re-read.
// existing is the profile read earlier, or nil.
func (s *SessionService) upsertBillingEntity(ctx context.Context, req CreateSessionRequest, pricebookID string, existing *billing.BillingEntity) (*billing.BillingEntity, error) {
	if existing != nil {
		if existing.SetPricebookIfMissing(pricebookID) {
			if err := s.billingEntities.Save(ctx, existing); err != nil {
				return nil, fmt.Errorf("failed to save billing entity: %w", err)
			}
		}
		return existing, nil
	}

	be, err := billing.NewBillingEntity(req.TenantID, req.BillingID, hintsFromRequest(req, pricebookID))
	if err != nil {
		return nil, err
	}
	err = s.billingEntities.Create(ctx, be)
	if err == nil {
		s.logger.Info("Billing entity created",
			zap.String("tenant_id", req.TenantID),
			zap.String("billing_id", req.BillingID))
		return be, nil
	}
	if !errors.Is(err, shared.ErrAlreadyExists) {
		return nil, fmt.Errorf("failed to create billing entity: %w", err)
	}

	winner, err := s.billingEntities.FindByTenantAndBilling(ctx, req.TenantID, req.BillingID)
	if err != nil {
		return nil, shared.NewInvalidStateError("BillingEntity upsert race failed; please retry")
	}
	return winner, nil
}

// GetSession returns the session for an order id
func (s *SessionService) GetSession(ctx context.Context, orderID string) (*checkout.HostedCheckout, error) {
	orderID = strings.TrimSpace(orderID)
	if orderID == "" {
		return nil, shared.NewInvalidInputError("orderId is required")
	}
	return s.checkouts.FindByOrderID(ctx, orderID)
}

func normalizeRequest(req CreateSessionRequest, defaultGateway string) CreateSessionRequest {
	req.TenantID = strings.TrimSpace(req.TenantID)
	req.BillingID = strings.TrimSpace(req.BillingID)
	req.PlanCode = strings.TrimSpace(req.PlanCode)
	req.Currency = strings.ToUpper(strings.TrimSpace(req.Currency))
	req.RedirectURL = strings.TrimSpace(req.RedirectURL)
	req.Gateway = strings.TrimSpace(req.Gateway)
	if req.Gateway == "" {
		req.Gateway = defaultGateway
	}
	return req
}
