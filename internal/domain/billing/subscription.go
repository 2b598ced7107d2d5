package billing

import (
	"strings"
	"time"

	"github.com/erp/checkout/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// SubscriptionStatus is the lifecycle status of a billing entity subscription
type SubscriptionStatus string

const (
	SubscriptionStatusActive    SubscriptionStatus = "ACTIVE"
	SubscriptionStatusCancelled SubscriptionStatus = "CANCELLED"
	SubscriptionStatusExpired   SubscriptionStatus = "EXPIRED"
	SubscriptionStatusTrial     SubscriptionStatus = "TRIAL"
	SubscriptionStatusSuspended SubscriptionStatus = "SUSPENDED"
)

// String returns the string representation of SubscriptionStatus
func (s SubscriptionStatus) String() string {
	return string(s)
}

// Subscription binds a billing entity to a plan for a term. At most one
// ACTIVE subscription exists per (billing entity, plan), and at most one
// subscription is created per activation order.
type Subscription struct {
	shared.BaseEntity
	BillingEntityID    uuid.UUID
	PlanID             uuid.UUID
	PlanCode           string
	Status             SubscriptionStatus
	IsPaidPlan         bool
	IsZohoLinked       bool
	AutoRenew          bool
	StartDate          time.Time
	PurchaseDate       time.Time
	EndDate            *time.Time
	TrialEndDate       *time.Time
	Currency           string
	Amount             decimal.Decimal
	ZohoSubscriptionID string
	ActivationOrderID  string
}

// PaidSubscriptionParams describes a subscription bought through checkout
type PaidSubscriptionParams struct {
	BillingEntityID    uuid.UUID
	PlanID             uuid.UUID
	PlanCode           string
	Start              time.Time
	End                *time.Time
	TrialEnd           *time.Time
	Currency           string
	Amount             decimal.Decimal
	ZohoSubscriptionID string
	ActivationOrderID  string
}

// NewPaidSubscription creates an ACTIVE, paid, provider-linked subscription
// that does not renew automatically
func NewPaidSubscription(p PaidSubscriptionParams) (*Subscription, error) {
	if p.BillingEntityID == uuid.Nil || p.PlanID == uuid.Nil {
		return nil, shared.NewInvalidInputError("billing entity and plan are required")
	}
	if strings.TrimSpace(p.ActivationOrderID) == "" {
		return nil, shared.NewInvalidInputError("activation order id is required")
	}

	return &Subscription{
		BaseEntity:         shared.NewBaseEntity(),
		BillingEntityID:    p.BillingEntityID,
		PlanID:             p.PlanID,
		PlanCode:           p.PlanCode,
		Status:             SubscriptionStatusActive,
		IsPaidPlan:         true,
		IsZohoLinked:       true,
		AutoRenew:          false,
		StartDate:          p.Start,
		PurchaseDate:       p.Start,
		EndDate:            p.End,
		TrialEndDate:       p.TrialEnd,
		Currency:           p.Currency,
		Amount:             p.Amount,
		ZohoSubscriptionID: p.ZohoSubscriptionID,
		ActivationOrderID:  p.ActivationOrderID,
	}, nil
}

// IsActive returns true when the subscription is ACTIVE
func (s *Subscription) IsActive() bool {
	return s.Status == SubscriptionStatusActive
}

// Cancel closes the subscription at now
func (s *Subscription) Cancel(now time.Time) {
	s.Status = SubscriptionStatusCancelled
	s.EndDate = &now
	s.UpdatedAt = now
}
