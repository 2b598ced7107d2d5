package persistence

import (
	"context"
	"strings"

	"github.com/erp/checkout/internal/domain/plan"
	"github.com/erp/checkout/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormPlanRepository implements plan.Repository using GORM
type GormPlanRepository struct {
	db *gorm.DB
}

// NewGormPlanRepository creates a new GormPlanRepository
func NewGormPlanRepository(db *gorm.DB) *GormPlanRepository {
	return &GormPlanRepository{db: db}
}

func (r *GormPlanRepository) withCatalog(ctx context.Context) *gorm.DB {
	return conn(ctx, r.db).
		Preload("Features", func(db *gorm.DB) *gorm.DB {
			return db.Order("sort_order ASC, feature_key ASC")
		}).
		Preload("Prices")
}

// FindByID finds a plan by its ID
func (r *GormPlanRepository) FindByID(ctx context.Context, id uuid.UUID) (*plan.Plan, error) {
	var model models.PlanModel
	if err := r.withCatalog(ctx).First(&model, "id = ?", id).Error; err != nil {
		return nil, translateNotFound(err)
	}
	return model.ToDomain(), nil
}

// FindByCode finds a plan by its external plan code, active or not
func (r *GormPlanRepository) FindByCode(ctx context.Context, code string) (*plan.Plan, error) {
	var model models.PlanModel
	if err := r.withCatalog(ctx).
		Where("external_plan_code = ?", strings.TrimSpace(code)).
		First(&model).Error; err != nil {
		return nil, translateNotFound(err)
	}
	return model.ToDomain(), nil
}

// FindActiveByCode finds an active plan by its external plan code
func (r *GormPlanRepository) FindActiveByCode(ctx context.Context, code string) (*plan.Plan, error) {
	var model models.PlanModel
	if err := r.withCatalog(ctx).
		Where("external_plan_code = ? AND is_active = ?", strings.TrimSpace(code), true).
		First(&model).Error; err != nil {
		return nil, translateNotFound(err)
	}
	return model.ToDomain(), nil
}

// FindPrice finds the price of a plan in a currency, case-insensitively
func (r *GormPlanRepository) FindPrice(ctx context.Context, planID uuid.UUID, currency string) (*plan.Price, error) {
	var model models.PlanPriceModel
	if err := conn(ctx, r.db).
		Where("plan_id = ? AND UPPER(currency) = ?", planID, strings.ToUpper(strings.TrimSpace(currency))).
		First(&model).Error; err != nil {
		return nil, translateNotFound(err)
	}
	price := model.ToDomain()
	return &price, nil
}

// GormPricebookRepository implements plan.PricebookRepository using GORM
type GormPricebookRepository struct {
	db *gorm.DB
}

// NewGormPricebookRepository creates a new GormPricebookRepository
func NewGormPricebookRepository(db *gorm.DB) *GormPricebookRepository {
	return &GormPricebookRepository{db: db}
}

// FindByCurrency finds the active pricebook for a currency
func (r *GormPricebookRepository) FindByCurrency(ctx context.Context, currency string) (*plan.Pricebook, error) {
	var model models.PricebookModel
	if err := conn(ctx, r.db).
		Where("UPPER(currency) = ? AND is_active = ?", strings.ToUpper(strings.TrimSpace(currency)), true).
		First(&model).Error; err != nil {
		return nil, translateNotFound(err)
	}
	return model.ToDomain(), nil
}
