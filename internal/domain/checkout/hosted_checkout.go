package checkout

import (
	"strings"
	"time"

	"github.com/erp/checkout/internal/domain/shared"
	"github.com/google/uuid"
)

const (
	// AuditDelimiter separates payloads appended to the audit trail
	AuditDelimiter = "\n\n---\n\n"
	// MaxAuditTrailLength caps the audit trail in characters; older data is dropped first
	MaxAuditTrailLength = 200000
)

// HostedCheckout is one attempt by a tenant to pay for a plan on a provider
// hosted page. OrderID is the external correlator and never changes.
type HostedCheckout struct {
	shared.BaseEntity
	OrderID     string
	Gateway     string
	TenantID    string
	BillingID   string
	PlanCode    string
	Currency    string
	PricebookID string
	Status      SessionStatus

	ProviderHostedPageID          string
	ProviderDecryptedHostedPageID string
	ProviderStatus                string
	HostedURL                     string
	RedirectURL                   string
	ExpiringTime                  *time.Time
	ZohoSubscriptionID            string

	RequestPayloadJSON  string
	ResponsePayloadJSON string
}

// NewHostedCheckoutParams holds the values fixed when a session is opened
type NewHostedCheckoutParams struct {
	OrderID            string
	Gateway            string
	TenantID           string
	BillingID          string
	PlanCode           string
	Currency           string
	PricebookID        string
	RedirectURL        string
	RequestPayloadJSON string
}

// NewHostedCheckout opens a session in CREATED. A blank OrderID gets a fresh UUID.
func NewHostedCheckout(p NewHostedCheckoutParams) (*HostedCheckout, error) {
	if strings.TrimSpace(p.TenantID) == "" || strings.TrimSpace(p.BillingID) == "" {
		return nil, shared.NewInvalidInputError("tenantId and billingId are required")
	}
	if strings.TrimSpace(p.PlanCode) == "" || strings.TrimSpace(p.Currency) == "" {
		return nil, shared.NewInvalidInputError("planCode and currency are required")
	}
	orderID := strings.TrimSpace(p.OrderID)
	if orderID == "" {
		orderID = uuid.NewString()
	}
	gateway := strings.TrimSpace(p.Gateway)
	if gateway == "" {
		gateway = DefaultProvider
	}

	return &HostedCheckout{
		BaseEntity:         shared.NewBaseEntity(),
		OrderID:            orderID,
		Gateway:            gateway,
		TenantID:           p.TenantID,
		BillingID:          p.BillingID,
		PlanCode:           p.PlanCode,
		Currency:           p.Currency,
		PricebookID:        p.PricebookID,
		Status:             SessionStatusCreated,
		RedirectURL:        p.RedirectURL,
		RequestPayloadJSON: p.RequestPayloadJSON,
	}, nil
}

// IsTerminal reports whether the session reached COMPLETED, FAILED or EXPIRED
func (h *HostedCheckout) IsTerminal() bool {
	return h.Status.IsTerminal()
}

// LocalStatus returns the session status in the PaymentStatus vocabulary
func (h *HostedCheckout) LocalStatus() PaymentStatus {
	return NormalizeLocal(string(h.Status))
}

// GatewayMatches compares gateway names case-insensitively. A blank name matches.
func (h *HostedCheckout) GatewayMatches(gateway string) bool {
	gateway = strings.TrimSpace(gateway)
	if gateway == "" || h.Gateway == "" {
		return true
	}
	return strings.EqualFold(h.Gateway, gateway)
}

// MarkHostedPageCreated records the gateway response and moves CREATED to PENDING.
// A webhook that already settled the session wins: ids are merged but the
// status is left alone.
func (h *HostedCheckout) MarkHostedPageCreated(res *HostedPageResult) {
	if res == nil {
		return
	}
	if h.ProviderHostedPageID == "" {
		h.ProviderHostedPageID = res.HostedPageID
	}
	if h.ProviderDecryptedHostedPageID == "" {
		h.ProviderDecryptedHostedPageID = res.DecryptedHostedPageID
	}
	if res.URL != "" {
		h.HostedURL = res.URL
	}
	if t := ParseProviderTime(res.ExpiringTime); t != nil {
		h.ExpiringTime = t
	}
	if !h.IsTerminal() {
		h.ProviderStatus = res.Status
		h.Status = SessionStatusPending
	}
	h.AppendAudit(res.RawJSON)
	h.Touch()
}

// ObserveHostedPageID merges a hosted page id seen in a provider payload.
// The first observed value wins; a later differing value is reported as a
// mismatch and not stored.
func (h *HostedCheckout) ObserveHostedPageID(id string) (mismatch bool) {
	id = strings.TrimSpace(id)
	if id == "" {
		return false
	}
	switch {
	case h.ProviderDecryptedHostedPageID == "":
		h.ProviderDecryptedHostedPageID = id
	case h.ProviderDecryptedHostedPageID != id:
		mismatch = true
	}
	if h.ProviderHostedPageID == "" {
		h.ProviderHostedPageID = id
	}
	return mismatch
}

// ApplyProviderStatus normalizes a provider status and moves the session.
// Terminal sessions are not changed; their local status is returned instead.
func (h *HostedCheckout) ApplyProviderStatus(raw string) PaymentStatus {
	if h.IsTerminal() {
		return h.LocalStatus()
	}
	normalized := NormalizeProvider(raw)
	if raw != "" {
		h.ProviderStatus = raw
	}
	h.Status = normalized.SessionStatus()
	h.Touch()
	return normalized
}

// ApplyLiveStatus records a provider status poll
func (h *HostedCheckout) ApplyLiveStatus(res *HostedPageStatusResult) PaymentStatus {
	if res == nil {
		return h.LocalStatus()
	}
	if res.URL != "" {
		h.HostedURL = res.URL
	}
	if t := ParseProviderTime(res.ExpiringTime); t != nil {
		h.ExpiringTime = t
	}
	h.AppendAudit(res.RawJSON)
	return h.ApplyProviderStatus(res.Status)
}

// SetZohoSubscriptionID stores the provider subscription id when one is observed
func (h *HostedCheckout) SetZohoSubscriptionID(id string) {
	id = strings.TrimSpace(id)
	if id == "" || h.ZohoSubscriptionID == id {
		return
	}
	h.ZohoSubscriptionID = id
	h.Touch()
}

// AppendAudit appends a raw provider payload to the audit trail
func (h *HostedCheckout) AppendAudit(raw string) {
	if raw == "" {
		return
	}
	h.ResponsePayloadJSON = AppendAuditTrail(h.ResponsePayloadJSON, raw)
	h.Touch()
}

// AppendAuditTrail joins raw onto prev and keeps only the newest
// MaxAuditTrailLength characters.
func AppendAuditTrail(prev, raw string) string {
	combined := raw
	if prev != "" {
		combined = prev + AuditDelimiter + raw
	}
	// byte length bounds rune length, so short trails skip the conversion
	if len(combined) <= MaxAuditTrailLength {
		return combined
	}
	runes := []rune(combined)
	if len(runes) <= MaxAuditTrailLength {
		return combined
	}
	return string(runes[len(runes)-MaxAuditTrailLength:])
}

// ParseProviderTime parses provider timestamps, accepting both the compact
// "-0700" offset and the RFC 3339 form. Unparsable input yields nil.
func ParseProviderTime(s string) *time.Time {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	for _, layout := range []string{"2006-01-02T15:04:05-0700", time.RFC3339, time.RFC3339Nano} {
		if t, err := time.Parse(layout, s); err == nil {
			return &t
		}
	}
	return nil
}
