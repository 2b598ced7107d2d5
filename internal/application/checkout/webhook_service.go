package checkout

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"net/http"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/erp/checkout/internal/domain/checkout"
	"github.com/erp/checkout/internal/domain/shared"
	"github.com/erp/checkout/internal/infrastructure/telemetry"
	"go.uber.org/zap"
)

// Webhook headers
const (
	DefaultSignatureHeader = "X-Zoho-Webhook-Signature"
	ProviderHeader         = "X-Provider"
)

// Webhook result messages
const (
	MsgOK               = "ok"
	MsgInvalidSignature = "invalid signature"
	MsgInvalidJSON      = "invalid json"
	MsgMissingOrderID   = "missing orderId"
	MsgCheckoutNotFound = "hosted checkout not found"
	MsgAlreadyTerminal  = "already terminal"
	MsgProcessingFailed = "processing failed"
)

const redactLimit = 4000

// WebhookService reconciles provider webhook deliveries with hosted checkouts
type WebhookService struct {
	checkouts       checkout.Repository
	provisioner     Provisioner
	archive         PayloadArchive
	tx              shared.TxManager
	secret          []byte
	signatureHeader string
	now             func() time.Time
	metrics         Metrics
	logger          *zap.Logger
}

// WebhookServiceConfig contains dependencies for WebhookService
type WebhookServiceConfig struct {
	Checkouts   checkout.Repository
	Provisioner Provisioner
	// Archive stores raw bodies; optional
	Archive PayloadArchive
	Tx      shared.TxManager
	// Secret enables HMAC-SHA256 verification when non-empty
	Secret          string
	SignatureHeader string
	Clock           func() time.Time
	Metrics         Metrics
	Logger          *zap.Logger
}

// NewWebhookService creates a new WebhookService
func NewWebhookService(cfg WebhookServiceConfig) *WebhookService {
	s := &WebhookService{
		checkouts:       cfg.Checkouts,
		provisioner:     cfg.Provisioner,
		archive:         cfg.Archive,
		tx:              cfg.Tx,
		secret:          []byte(cfg.Secret),
		signatureHeader: strings.TrimSpace(cfg.SignatureHeader),
		now:             cfg.Clock,
		metrics:         cfg.Metrics,
		logger:          cfg.Logger,
	}
	if s.archive == nil {
		s.archive = noopArchive{}
	}
	if s.signatureHeader == "" {
		s.signatureHeader = DefaultSignatureHeader
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
	if len(s.secret) == 0 {
		s.logger.Warn("Webhook secret not configured; deliveries are accepted unsigned")
	}
	return s
}

// ApplyWebhook processes one delivery. It never fails: problems are reported
// through an unaccepted result. The session row is locked for the whole
// update so concurrent deliveries for one order apply one at a time.
func (s *WebhookService) ApplyWebhook(ctx context.Context, headers http.Header, body []byte) *WebhookResult {
	ctx, span := telemetry.StartServiceSpan(ctx, "checkout_webhook", "apply")
	defer span.End()

	receivedAt := s.now()
	doc, parseErr := checkout.ParseDocument(body)
	provider := detectProvider(headers, doc)
	result := &WebhookResult{Provider: provider}
	log := s.logger.With(zap.String("provider", provider))

	finish := func(outcome string) *WebhookResult {
		s.metrics.RecordWebhook(ctx, provider, outcome)
		telemetry.SetAttribute(span, "webhook.outcome", outcome)
		return result
	}

	if !s.verifySignature(headers.Get(s.signatureHeader), body) {
		log.Warn("Rejected webhook with invalid signature")
		result.Message = MsgInvalidSignature
		return finish(OutcomeRejected)
	}
	if parseErr != nil {
		log.Warn("Rejected webhook with invalid json", zap.Error(parseErr))
		result.Message = MsgInvalidJSON
		return finish(OutcomeRejected)
	}

	orderID, err := s.correlate(ctx, doc)
	if err != nil {
		log.Error("Failed to correlate webhook", zap.Error(err))
		result.Message = MsgProcessingFailed
		return finish(OutcomeError)
	}
	s.store(ctx, orderID, receivedAt, body, log)
	if orderID == "" {
		log.Warn("Webhook without orderId", zap.String("payload", redact(string(body))))
		result.Message = MsgMissingOrderID
		return finish(OutcomeRejected)
	}
	result.OrderID = orderID
	log = log.With(zap.String("order_id", orderID))

	var settled *checkout.HostedCheckout
	err = s.tx.WithTx(ctx, func(ctx context.Context) error {
		hc, err := s.checkouts.FindByOrderIDForUpdate(ctx, orderID)
		if err != nil {
			return err
		}

		if hc.IsTerminal() {
			hc.AppendAudit(string(body))
			result.Message = MsgAlreadyTerminal
			result.NormalizedStatus = hc.LocalStatus()
		} else {
			normalized := checkout.NormalizeProvider(doc.ProviderStatus())
			if normalized == checkout.PaymentStatusUnknown {
				log.Warn("Unrecognized provider status, keeping session pending",
					zap.String("provider_status", doc.ProviderStatus()))
				normalized = checkout.PaymentStatusPending
			}
			if hc.ObserveHostedPageID(doc.HostedPageID()) {
				log.Warn("Hosted page id differs from recorded one",
					zap.String("recorded", hc.ProviderDecryptedHostedPageID),
					zap.String("observed", doc.HostedPageID()))
			}
			hc.ApplyProviderStatus(doc.ProviderStatus())
			hc.SetZohoSubscriptionID(doc.SubscriptionID())
			hc.AppendAudit(string(body))
			result.Message = MsgOK
			result.NormalizedStatus = normalized
		}
		if err := s.checkouts.Save(ctx, hc); err != nil {
			return err
		}
		if hc.Status == checkout.SessionStatusCompleted {
			settled = hc
		}
		return nil
	})
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			log.Warn("Webhook for unknown hosted checkout")
			result.Message = MsgCheckoutNotFound
			return finish(OutcomeRejected)
		}
		log.Error("Failed to apply webhook", zap.Error(err))
		telemetry.RecordError(span, err)
		result.Message = MsgProcessingFailed
		result.NormalizedStatus = ""
		return finish(OutcomeError)
	}
	result.Accepted = true

	log.Info("Webhook applied",
		zap.String("status", result.NormalizedStatus.String()),
		zap.String("message", result.Message))

	if settled != nil && s.provisioner != nil {
		if err := s.provisioner.ActivateFromSuccessfulCheckout(ctx, settled); err != nil {
			log.Error("Provisioning failed", zap.Error(err))
		}
	}
	return finish(OutcomeOK)
}

// correlate finds the order id carried by the payload. Payment payloads
// carry only the hosted page id, which is looked up by its decrypted form
// first and the raw provider id second.
func (s *WebhookService) correlate(ctx context.Context, doc checkout.Document) (string, error) {
	if id := strings.TrimSpace(doc.OrderID()); id != "" {
		return id, nil
	}
	hostedPageID := strings.TrimSpace(doc.PaymentHostedPageID())
	if hostedPageID == "" {
		return "", nil
	}
	lookups := []func(context.Context, string) (*checkout.HostedCheckout, error){
		s.checkouts.FindByDecryptedHostedPageID,
		s.checkouts.FindByProviderHostedPageID,
	}
	for _, find := range lookups {
		hc, err := find(ctx, hostedPageID)
		if err == nil {
			return hc.OrderID, nil
		}
		if !errors.Is(err, shared.ErrNotFound) {
			return "", err
		}
	}
	return "", nil
}

func (s *WebhookService) store(ctx context.Context, orderID string, receivedAt time.Time, body []byte, log *zap.Logger) {
	if err := s.archive.Store(ctx, orderID, receivedAt, body); err != nil {
		log.Warn("Failed to archive webhook payload", zap.Error(err))
	}
}

// verifySignature compares the hex HMAC-SHA256 of the raw body with the
// header value, ignoring case. Without a secret every delivery passes.
func (s *WebhookService) verifySignature(header string, body []byte) bool {
	if len(s.secret) == 0 {
		return true
	}
	provided := strings.ToLower(strings.TrimSpace(header))
	if provided == "" {
		return false
	}
	expected := Sign(string(s.secret), body)
	return hmac.Equal([]byte(expected), []byte(provided))
}

// detectProvider prefers the explicit header, then the gateway named in a
// payment payload.
func detectProvider(headers http.Header, doc checkout.Document) string {
	if p := strings.TrimSpace(headers.Get(ProviderHeader)); p != "" {
		return p
	}
	if doc != nil {
		if p := strings.TrimSpace(doc.PaymentProvider()); p != "" {
			return p
		}
	}
	return checkout.DefaultProvider
}

func redact(s string) string {
	if utf8.RuneCountInString(s) <= redactLimit {
		return s
	}
	return string([]rune(s)[:redactLimit]) + "...(truncated)"
}

// Sign returns the hex HMAC-SHA256 signature of body, as expected in the
// signature header
func Sign(secret string, body []byte) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(body)
	return hex.EncodeToString(mac.Sum(nil))
}
