package billing

import (
	"context"

	"github.com/google/uuid"
)

// BillingEntityRepository persists billing profiles
type BillingEntityRepository interface {
	FindByTenantAndBilling(ctx context.Context, tenantID, billingID string) (*BillingEntity, error)
	// FindByTenantAndBillingForUpdate locks the profile row until the transaction ends
	FindByTenantAndBillingForUpdate(ctx context.Context, tenantID, billingID string) (*BillingEntity, error)
	// Create returns shared.ErrAlreadyExists when (tenant, billing) is taken
	Create(ctx context.Context, be *BillingEntity) error
	Save(ctx context.Context, be *BillingEntity) error
}

// SubscriptionRepository persists billing entity subscriptions
type SubscriptionRepository interface {
	FindByActivationOrderID(ctx context.Context, orderID string) (*Subscription, error)
	FindActiveByBillingEntityAndPlan(ctx context.Context, billingEntityID, planID uuid.UUID) (*Subscription, error)
	// Create returns shared.ErrAlreadyExists when the activation order is already used
	Create(ctx context.Context, sub *Subscription) error
	Save(ctx context.Context, sub *Subscription) error
}

// FeatureUsageRepository persists feature usage counters
type FeatureUsageRepository interface {
	CreateBatch(ctx context.Context, usages []*FeatureUsage) error
	FindBySubscription(ctx context.Context, subscriptionID uuid.UUID) ([]FeatureUsage, error)
}
