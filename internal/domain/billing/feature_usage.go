package billing

import (
	"github.com/erp/checkout/internal/domain/shared"
	"github.com/google/uuid"
)

// FeatureUsage tracks consumption of one plan feature under a subscription
type FeatureUsage struct {
	shared.BaseEntity
	SubscriptionID uuid.UUID
	FeatureKey     string
	LimitCount     *int // nil = unlimited
	UsedCount      int
	IsExhausted    bool
}

// NewFeatureUsage seeds an unused counter for a feature
func NewFeatureUsage(subscriptionID uuid.UUID, featureKey string, limit *int) *FeatureUsage {
	return &FeatureUsage{
		BaseEntity:     shared.NewBaseEntity(),
		SubscriptionID: subscriptionID,
		FeatureKey:     featureKey,
		LimitCount:     limit,
	}
}
