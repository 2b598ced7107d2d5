package persistence

import (
	"context"

	"github.com/erp/checkout/internal/domain/billing"
	"github.com/erp/checkout/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormBillingEntityRepository implements billing.BillingEntityRepository using GORM
type GormBillingEntityRepository struct {
	db *gorm.DB
}

// NewGormBillingEntityRepository creates a new GormBillingEntityRepository
func NewGormBillingEntityRepository(db *gorm.DB) *GormBillingEntityRepository {
	return &GormBillingEntityRepository{db: db}
}

// FindByTenantAndBilling finds the profile of a tenant billing id
func (r *GormBillingEntityRepository) FindByTenantAndBilling(ctx context.Context, tenantID, billingID string) (*billing.BillingEntity, error) {
	return r.find(conn(ctx, r.db), tenantID, billingID)
}

// FindByTenantAndBillingForUpdate finds and locks the profile row
func (r *GormBillingEntityRepository) FindByTenantAndBillingForUpdate(ctx context.Context, tenantID, billingID string) (*billing.BillingEntity, error) {
	return r.find(conn(ctx, r.db).Clauses(clause.Locking{Strength: "UPDATE"}), tenantID, billingID)
}

func (r *GormBillingEntityRepository) find(db *gorm.DB, tenantID, billingID string) (*billing.BillingEntity, error) {
	var model models.BillingEntityModel
	if err := db.Where("tenant_id = ? AND billing_id = ?", tenantID, billingID).First(&model).Error; err != nil {
		return nil, translateNotFound(err)
	}
	return model.ToDomain(), nil
}

// Create inserts a new billing profile
func (r *GormBillingEntityRepository) Create(ctx context.Context, be *billing.BillingEntity) error {
	return translateWriteError(conn(ctx, r.db).Create(models.BillingEntityModelFromDomain(be)).Error)
}

// Save updates all columns of an existing billing profile
func (r *GormBillingEntityRepository) Save(ctx context.Context, be *billing.BillingEntity) error {
	return translateWriteError(conn(ctx, r.db).Save(models.BillingEntityModelFromDomain(be)).Error)
}

// GormSubscriptionRepository implements billing.SubscriptionRepository using GORM
type GormSubscriptionRepository struct {
	db *gorm.DB
}

// NewGormSubscriptionRepository creates a new GormSubscriptionRepository
func NewGormSubscriptionRepository(db *gorm.DB) *GormSubscriptionRepository {
	return &GormSubscriptionRepository{db: db}
}

// FindByActivationOrderID finds the subscription created by a checkout order
func (r *GormSubscriptionRepository) FindByActivationOrderID(ctx context.Context, orderID string) (*billing.Subscription, error) {
	var model models.SubscriptionModel
	if err := conn(ctx, r.db).Where("activation_order_id = ?", orderID).First(&model).Error; err != nil {
		return nil, translateNotFound(err)
	}
	return model.ToDomain(), nil
}

// FindActiveByBillingEntityAndPlan finds the ACTIVE subscription of a billing entity on a plan
func (r *GormSubscriptionRepository) FindActiveByBillingEntityAndPlan(ctx context.Context, billingEntityID, planID uuid.UUID) (*billing.Subscription, error) {
	var model models.SubscriptionModel
	if err := conn(ctx, r.db).
		Where("billing_entity_id = ? AND plan_id = ? AND status = ?", billingEntityID, planID, string(billing.SubscriptionStatusActive)).
		Order("start_date DESC").
		First(&model).Error; err != nil {
		return nil, translateNotFound(err)
	}
	return model.ToDomain(), nil
}

// Create inserts a new subscription
func (r *GormSubscriptionRepository) Create(ctx context.Context, sub *billing.Subscription) error {
	return translateWriteError(conn(ctx, r.db).Create(models.SubscriptionModelFromDomain(sub)).Error)
}

// Save updates all columns of an existing subscription
func (r *GormSubscriptionRepository) Save(ctx context.Context, sub *billing.Subscription) error {
	return translateWriteError(conn(ctx, r.db).Save(models.SubscriptionModelFromDomain(sub)).Error)
}

// GormFeatureUsageRepository implements billing.FeatureUsageRepository using GORM
type GormFeatureUsageRepository struct {
	db *gorm.DB
}

// NewGormFeatureUsageRepository creates a new GormFeatureUsageRepository
func NewGormFeatureUsageRepository(db *gorm.DB) *GormFeatureUsageRepository {
	return &GormFeatureUsageRepository{db: db}
}

// CreateBatch inserts usage counters in one statement
func (r *GormFeatureUsageRepository) CreateBatch(ctx context.Context, usages []*billing.FeatureUsage) error {
	if len(usages) == 0 {
		return nil
	}
	rows := make([]*models.FeatureUsageModel, len(usages))
	for i, u := range usages {
		rows[i] = models.FeatureUsageModelFromDomain(u)
	}
	return translateWriteError(conn(ctx, r.db).Create(&rows).Error)
}

// FindBySubscription lists the usage counters of a subscription ordered by feature key
func (r *GormFeatureUsageRepository) FindBySubscription(ctx context.Context, subscriptionID uuid.UUID) ([]billing.FeatureUsage, error) {
	var rows []models.FeatureUsageModel
	if err := conn(ctx, r.db).
		Where("subscription_id = ?", subscriptionID).
		Order("feature_key ASC").
		Find(&rows).Error; err != nil {
		return nil, err
	}
	usages := make([]billing.FeatureUsage, len(rows))
	for i := range rows {
		usages[i] = *rows[i].ToDomain()
	}
	return usages, nil
}
