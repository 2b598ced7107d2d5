package payment

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/stripe/stripe-go/v81"
	"github.com/stripe/stripe-go/v81/client"
	"go.uber.org/zap"

	"github.com/erp/checkout/internal/domain/checkout"
)

// GatewayStripe is the registry name of the Stripe Checkout adapter
const GatewayStripe = "STRIPE"

// Raw statuses reported for Stripe sessions, in the provider vocabulary the
// status normalizer understands
const (
	stripeStatusPaid    = "paid"
	stripeStatusExpired = "expired"
	stripeStatusPending = "pending"
)

// StripeCheckoutGateway implements checkout.PaymentGateway with Stripe
// Checkout Sessions in subscription mode. The session id serves as both
// hosted page ids.
type StripeCheckoutGateway struct {
	config *StripeConfig
	api    *client.API
	logger *zap.Logger
}

// NewStripeCheckoutGateway creates a new Stripe adapter. A nil backends value
// uses the default Stripe API backends.
func NewStripeCheckoutGateway(config *StripeConfig, backends *stripe.Backends, logger *zap.Logger) (*StripeCheckoutGateway, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &StripeCheckoutGateway{
		config: config,
		api:    client.New(config.SecretKey, backends),
		logger: logger,
	}, nil
}

// Name returns the registry name
func (g *StripeCheckoutGateway) Name() string {
	return GatewayStripe
}

// CreateHostedPage opens a Checkout Session for the plan in the payload.
// reference_id becomes client_reference_id so webhooks correlate by order id.
func (g *StripeCheckoutGateway) CreateHostedPage(ctx context.Context, payload map[string]any) (*checkout.HostedPageResult, error) {
	orderID := textAt(payload, "reference_id")
	planCode := textAt(payload, "plan", "plan_code")
	priceID, err := g.config.PriceID(planCode)
	if err != nil {
		return nil, fmt.Errorf("%v: %w", err, checkout.ErrGatewayRequestFailed)
	}

	successURL := textAt(payload, "redirect_url")
	if successURL == "" {
		successURL = g.config.SuccessURL
	}
	params := &stripe.CheckoutSessionParams{
		Mode:              stripe.String(string(stripe.CheckoutSessionModeSubscription)),
		ClientReferenceID: stripe.String(orderID),
		SuccessURL:        stripe.String(successURL),
		LineItems: []*stripe.CheckoutSessionLineItemParams{
			{Price: stripe.String(priceID), Quantity: stripe.Int64(1)},
		},
	}
	if g.config.CancelURL != "" {
		params.CancelURL = stripe.String(g.config.CancelURL)
	}
	if email := textAt(payload, "customer", "email"); email != "" {
		params.CustomerEmail = stripe.String(email)
	}
	params.Context = ctx
	params.AddMetadata("order_id", orderID)
	params.AddMetadata("plan_code", planCode)

	sess, err := g.api.CheckoutSessions.New(params)
	if err != nil {
		g.logger.Error("Failed to create Stripe checkout session",
			zap.String("order_id", orderID),
			zap.Error(err))
		return nil, classifyStripeError("create checkout session", err)
	}

	g.logger.Info("Created Stripe checkout session",
		zap.String("order_id", orderID),
		zap.String("session_id", sess.ID))

	return &checkout.HostedPageResult{
		HostedPageID:          sess.ID,
		DecryptedHostedPageID: sess.ID,
		Status:                stripeSessionStatus(sess),
		URL:                   sess.URL,
		ExpiringTime:          stripeExpiry(sess.ExpiresAt),
		RawJSON:               stripeRawJSON(sess),
	}, nil
}

// GetHostedPageStatus retrieves a Checkout Session
func (g *StripeCheckoutGateway) GetHostedPageStatus(ctx context.Context, hostedPageID string) (*checkout.HostedPageStatusResult, error) {
	id := strings.TrimSpace(hostedPageID)
	if id == "" {
		return nil, fmt.Errorf("stripe: session id is required: %w", checkout.ErrGatewayRequestFailed)
	}
	params := &stripe.CheckoutSessionParams{}
	params.Context = ctx

	sess, err := g.api.CheckoutSessions.Get(id, params)
	if err != nil {
		return nil, classifyStripeError("get checkout session", err)
	}
	return &checkout.HostedPageStatusResult{
		Status:       stripeSessionStatus(sess),
		URL:          sess.URL,
		ExpiringTime: stripeExpiry(sess.ExpiresAt),
		RawJSON:      stripeRawJSON(sess),
	}, nil
}

// stripeSessionStatus maps a session onto a provider status string
func stripeSessionStatus(sess *stripe.CheckoutSession) string {
	switch sess.Status {
	case stripe.CheckoutSessionStatusComplete:
		if sess.PaymentStatus == stripe.CheckoutSessionPaymentStatusPaid ||
			sess.PaymentStatus == stripe.CheckoutSessionPaymentStatusNoPaymentRequired {
			return stripeStatusPaid
		}
		// async payment methods settle later
		return stripeStatusPending
	case stripe.CheckoutSessionStatusExpired:
		return stripeStatusExpired
	case stripe.CheckoutSessionStatusOpen:
		return stripeStatusPending
	default:
		return string(sess.Status)
	}
}

func stripeExpiry(expiresAt int64) string {
	if expiresAt == 0 {
		return ""
	}
	return time.Unix(expiresAt, 0).UTC().Format(time.RFC3339)
}

func stripeRawJSON(sess *stripe.CheckoutSession) string {
	if sess.LastResponse != nil && len(sess.LastResponse.RawJSON) > 0 {
		return string(sess.LastResponse.RawJSON)
	}
	b, err := json.Marshal(sess)
	if err != nil {
		return ""
	}
	return string(b)
}

// classifyStripeError marks 5xx, 429 and transport failures as unavailable
// and everything else Stripe rejects as a request failure
func classifyStripeError(op string, err error) error {
	var se *stripe.Error
	if errors.As(err, &se) {
		if se.HTTPStatusCode >= http.StatusInternalServerError || se.HTTPStatusCode == http.StatusTooManyRequests {
			return fmt.Errorf("stripe: %s: %v: %w", op, err, checkout.ErrGatewayUnavailable)
		}
		return fmt.Errorf("stripe: %s: %v: %w", op, err, checkout.ErrGatewayRequestFailed)
	}
	return fmt.Errorf("stripe: %s: %v: %w", op, err, checkout.ErrGatewayUnavailable)
}

// textAt walks nested maps and returns the trimmed string at the path
func textAt(m map[string]any, path ...string) string {
	var cur any = m
	for _, key := range path {
		obj, ok := cur.(map[string]any)
		if !ok {
			return ""
		}
		cur = obj[key]
	}
	s, _ := cur.(string)
	return strings.TrimSpace(s)
}
