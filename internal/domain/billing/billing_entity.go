package billing

import (
	"strings"

	"github.com/erp/checkout/internal/domain/shared"
	"github.com/samber/lo"
)

// BillingEntity is the billing profile of one (tenant, billing id) pair
type BillingEntity struct {
	shared.BaseEntity
	TenantID  string
	BillingID string

	Name           string
	FName          string
	LName          string
	Email          string
	Mobile         string
	BillingAddress string
	City           string
	Country        string
	StateName      string
	StateCode      string
	GSTNumber      string
	GSTStateCode   string
	GSTIN          string
	OrgID          string
	AdminName      string
	AdminEmail     string

	ZohoCustomerID            string
	IsZohoLinked              bool
	PricebookID               string
	HasCompleteBillingProfile bool
}

// ProfileHints are candidate profile values observed outside the profile
// itself, e.g. on a checkout request. Blank hints are ignored.
type ProfileHints struct {
	Name           string
	FName          string
	LName          string
	Email          string
	Mobile         string
	BillingAddress string
	StateName      string
	StateCode      string
	GSTNumber      string
	GSTStateCode   string
	PricebookID    string
	// PlaceOfSupply fills GSTStateCode and, failing a state code, StateCode
	PlaceOfSupply string
}

// NewBillingEntity creates a minimal profile for a tenant billing id.
// The name falls back to "Tenant <tenantID>" when no hint provides one.
func NewBillingEntity(tenantID, billingID string, hints ProfileHints) (*BillingEntity, error) {
	tenantID = strings.TrimSpace(tenantID)
	billingID = strings.TrimSpace(billingID)
	if tenantID == "" || billingID == "" {
		return nil, shared.NewInvalidInputError("tenantId and billingId are required")
	}

	be := &BillingEntity{
		BaseEntity: shared.NewBaseEntity(),
		TenantID:   tenantID,
		BillingID:  billingID,
	}
	if strings.TrimSpace(hints.Name) == "" {
		hints.Name = "Tenant " + tenantID
	}
	be.Enrich(hints)
	// a fresh profile is only complete once provisioning confirms it
	be.HasCompleteBillingProfile = false
	return be, nil
}

// Enrich fills blank profile fields from hints and recomputes completeness.
// Populated fields are never overwritten. Returns true if anything changed.
func (b *BillingEntity) Enrich(h ProfileHints) bool {
	changed := false
	fill := func(dst *string, v string) {
		v = strings.TrimSpace(v)
		if strings.TrimSpace(*dst) == "" && v != "" {
			*dst = v
			changed = true
		}
	}

	fill(&b.PricebookID, h.PricebookID)
	fill(&b.Name, h.Name)
	fill(&b.FName, h.FName)
	fill(&b.LName, h.LName)
	fill(&b.Email, h.Email)
	fill(&b.Mobile, h.Mobile)
	fill(&b.BillingAddress, h.BillingAddress)
	fill(&b.StateName, h.StateName)
	fill(&b.StateCode, h.StateCode)
	fill(&b.GSTNumber, h.GSTNumber)
	fill(&b.GSTStateCode, h.GSTStateCode)
	fill(&b.GSTStateCode, h.PlaceOfSupply)
	fill(&b.StateCode, h.PlaceOfSupply)

	if !b.HasCompleteBillingProfile && b.IsProfileComplete() {
		b.HasCompleteBillingProfile = true
		changed = true
	}
	if changed {
		b.Touch()
	}
	return changed
}

// IsProfileComplete reports whether name, a contact, an address and a state
// code are all present
func (b *BillingEntity) IsProfileComplete() bool {
	return hasText(b.Name) &&
		(hasText(b.Email) || hasText(b.Mobile)) &&
		hasText(b.BillingAddress) &&
		hasText(b.StateCode)
}

// SetPricebookIfMissing records a pricebook id on a profile that has none
func (b *BillingEntity) SetPricebookIfMissing(pricebookID string) bool {
	if hasText(b.PricebookID) || !hasText(pricebookID) {
		return false
	}
	b.PricebookID = strings.TrimSpace(pricebookID)
	b.Touch()
	return true
}

// JoinNonEmpty joins the non-blank trimmed parts with sep
func JoinNonEmpty(sep string, parts ...string) string {
	trimmed := lo.Map(parts, func(p string, _ int) string { return strings.TrimSpace(p) })
	return strings.Join(lo.Compact(trimmed), sep)
}

func hasText(s string) bool {
	return strings.TrimSpace(s) != ""
}
