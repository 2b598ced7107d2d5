package models

import (
	"github.com/erp/checkout/internal/domain/plan"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// PlanModel is the persistence model for the Plan catalog entry
type PlanModel struct {
	BaseModel
	ExternalPlanCode string             `gorm:"column:external_plan_code;type:varchar(100);not null;uniqueIndex"`
	Name             string             `gorm:"type:varchar(200);not null"`
	Description      string             `gorm:"type:text"`
	Category         string             `gorm:"type:varchar(100)"`
	IsActive         bool               `gorm:"column:is_active;not null;default:true"`
	IntervalUnit     string             `gorm:"column:interval_unit;type:varchar(20)"`
	TrialPeriodDays  int                `gorm:"column:trial_period_days;not null;default:0"`
	LicenseLimit     *int               `gorm:"column:license_limit"`
	Features         []PlanFeatureModel `gorm:"foreignKey:PlanID"`
	Prices           []PlanPriceModel   `gorm:"foreignKey:PlanID"`
}

// TableName returns the table name for GORM
func (PlanModel) TableName() string {
	return "plans"
}

// ToDomain converts the persistence model, with any preloaded features and
// prices, to a domain Plan
func (m *PlanModel) ToDomain() *plan.Plan {
	p := &plan.Plan{
		BaseEntity:       m.BaseModel.ToDomain(),
		ExternalPlanCode: m.ExternalPlanCode,
		Name:             m.Name,
		Description:      m.Description,
		Category:         m.Category,
		IsActive:         m.IsActive,
		IntervalUnit:     m.IntervalUnit,
		TrialPeriodDays:  m.TrialPeriodDays,
		LicenseLimit:     m.LicenseLimit,
		Features:         make([]plan.Feature, len(m.Features)),
		Prices:           make([]plan.Price, len(m.Prices)),
	}
	for i := range m.Features {
		p.Features[i] = m.Features[i].ToDomain()
	}
	for i := range m.Prices {
		p.Prices[i] = m.Prices[i].ToDomain()
	}
	return p
}

// PlanFeatureModel is the persistence model for a feature granted by a plan
type PlanFeatureModel struct {
	ID        uuid.UUID `gorm:"type:uuid;primary_key"`
	PlanID    uuid.UUID `gorm:"column:plan_id;type:uuid;not null;uniqueIndex:idx_plan_feature_key,priority:1"`
	Key       string    `gorm:"column:feature_key;type:varchar(100);not null;uniqueIndex:idx_plan_feature_key,priority:2"`
	Name      string    `gorm:"type:varchar(200)"`
	Limit     *int      `gorm:"column:feature_limit"`
	SortOrder int       `gorm:"column:sort_order;not null;default:0"`
}

// TableName returns the table name for GORM
func (PlanFeatureModel) TableName() string {
	return "plan_features"
}

// ToDomain converts the persistence model to a domain Feature
func (m *PlanFeatureModel) ToDomain() plan.Feature {
	return plan.Feature{
		ID:        m.ID,
		PlanID:    m.PlanID,
		Key:       m.Key,
		Name:      m.Name,
		Limit:     m.Limit,
		SortOrder: m.SortOrder,
	}
}

// PlanPriceModel is the persistence model for a plan price in one currency
type PlanPriceModel struct {
	ID       uuid.UUID       `gorm:"type:uuid;primary_key"`
	PlanID   uuid.UUID       `gorm:"column:plan_id;type:uuid;not null;uniqueIndex:idx_plan_price_currency,priority:1"`
	Currency string          `gorm:"type:varchar(10);not null;uniqueIndex:idx_plan_price_currency,priority:2"`
	Amount   decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
}

// TableName returns the table name for GORM
func (PlanPriceModel) TableName() string {
	return "plan_prices"
}

// ToDomain converts the persistence model to a domain Price
func (m *PlanPriceModel) ToDomain() plan.Price {
	return plan.Price{
		ID:       m.ID,
		PlanID:   m.PlanID,
		Currency: m.Currency,
		Amount:   m.Amount,
	}
}

// PricebookModel is the persistence model for a currency pricebook
type PricebookModel struct {
	ID          uuid.UUID `gorm:"type:uuid;primary_key"`
	PricebookID string    `gorm:"column:pricebook_id;type:varchar(100);not null"`
	Currency    string    `gorm:"type:varchar(10);not null;index"`
	IsActive    bool      `gorm:"column:is_active;not null;default:true"`
}

// TableName returns the table name for GORM
func (PricebookModel) TableName() string {
	return "pricebooks"
}

// ToDomain converts the persistence model to a domain Pricebook
func (m *PricebookModel) ToDomain() *plan.Pricebook {
	return &plan.Pricebook{
		ID:          m.ID,
		PricebookID: m.PricebookID,
		Currency:    m.Currency,
		IsActive:    m.IsActive,
	}
}
