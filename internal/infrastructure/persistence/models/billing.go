package models

import (
	"time"

	"github.com/erp/checkout/internal/domain/billing"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// BillingEntityModel is the persistence model for the BillingEntity entity
type BillingEntityModel struct {
	BaseModel
	TenantID  string `gorm:"column:tenant_id;type:varchar(100);not null;uniqueIndex:idx_billing_entity_tenant_billing,priority:1"`
	BillingID string `gorm:"column:billing_id;type:varchar(100);not null;uniqueIndex:idx_billing_entity_tenant_billing,priority:2"`

	Name           string `gorm:"type:varchar(200)"`
	FName          string `gorm:"column:f_name;type:varchar(100)"`
	LName          string `gorm:"column:l_name;type:varchar(100)"`
	Email          string `gorm:"type:varchar(200)"`
	Mobile         string `gorm:"type:varchar(50)"`
	BillingAddress string `gorm:"column:billing_address;type:text"`
	City           string `gorm:"type:varchar(100)"`
	Country        string `gorm:"type:varchar(100)"`
	StateName      string `gorm:"column:state_name;type:varchar(100)"`
	StateCode      string `gorm:"column:state_code;type:varchar(20)"`
	GSTNumber      string `gorm:"column:gst_number;type:varchar(50)"`
	GSTStateCode   string `gorm:"column:gst_state_code;type:varchar(20)"`
	GSTIN          string `gorm:"column:gstin;type:varchar(50)"`
	OrgID          string `gorm:"column:org_id;type:varchar(100)"`
	AdminName      string `gorm:"column:admin_name;type:varchar(200)"`
	AdminEmail     string `gorm:"column:admin_email;type:varchar(200)"`

	ZohoCustomerID            string `gorm:"column:zoho_customer_id;type:varchar(100)"`
	IsZohoLinked              bool   `gorm:"column:is_zoho_linked;not null;default:false"`
	PricebookID               string `gorm:"column:pricebook_id;type:varchar(100)"`
	HasCompleteBillingProfile bool   `gorm:"column:has_complete_billing_profile;not null;default:false"`
}

// TableName returns the table name for GORM
func (BillingEntityModel) TableName() string {
	return "billing_entities"
}

// ToDomain converts the persistence model to a domain BillingEntity
func (m *BillingEntityModel) ToDomain() *billing.BillingEntity {
	return &billing.BillingEntity{
		BaseEntity:                m.BaseModel.ToDomain(),
		TenantID:                  m.TenantID,
		BillingID:                 m.BillingID,
		Name:                      m.Name,
		FName:                     m.FName,
		LName:                     m.LName,
		Email:                     m.Email,
		Mobile:                    m.Mobile,
		BillingAddress:            m.BillingAddress,
		City:                      m.City,
		Country:                   m.Country,
		StateName:                 m.StateName,
		StateCode:                 m.StateCode,
		GSTNumber:                 m.GSTNumber,
		GSTStateCode:              m.GSTStateCode,
		GSTIN:                     m.GSTIN,
		OrgID:                     m.OrgID,
		AdminName:                 m.AdminName,
		AdminEmail:                m.AdminEmail,
		ZohoCustomerID:            m.ZohoCustomerID,
		IsZohoLinked:              m.IsZohoLinked,
		PricebookID:               m.PricebookID,
		HasCompleteBillingProfile: m.HasCompleteBillingProfile,
	}
}

// FromDomain populates the persistence model from a domain BillingEntity
func (m *BillingEntityModel) FromDomain(be *billing.BillingEntity) {
	m.FromDomainBaseEntity(be.BaseEntity)
	m.TenantID = be.TenantID
	m.BillingID = be.BillingID
	m.Name = be.Name
	m.FName = be.FName
	m.LName = be.LName
	m.Email = be.Email
	m.Mobile = be.Mobile
	m.BillingAddress = be.BillingAddress
	m.City = be.City
	m.Country = be.Country
	m.StateName = be.StateName
	m.StateCode = be.StateCode
	m.GSTNumber = be.GSTNumber
	m.GSTStateCode = be.GSTStateCode
	m.GSTIN = be.GSTIN
	m.OrgID = be.OrgID
	m.AdminName = be.AdminName
	m.AdminEmail = be.AdminEmail
	m.ZohoCustomerID = be.ZohoCustomerID
	m.IsZohoLinked = be.IsZohoLinked
	m.PricebookID = be.PricebookID
	m.HasCompleteBillingProfile = be.HasCompleteBillingProfile
}

// BillingEntityModelFromDomain creates a new persistence model from a domain BillingEntity
func BillingEntityModelFromDomain(be *billing.BillingEntity) *BillingEntityModel {
	m := &BillingEntityModel{}
	m.FromDomain(be)
	return m
}

// SubscriptionModel is the persistence model for the Subscription entity.
// activation_order_id carries a partial unique index (non-null values only)
// created by migration.
type SubscriptionModel struct {
	BaseModel
	BillingEntityID    uuid.UUID       `gorm:"column:billing_entity_id;type:uuid;not null;index"`
	PlanID             uuid.UUID       `gorm:"column:plan_id;type:uuid;not null;index"`
	PlanCode           string          `gorm:"column:plan_code;type:varchar(100)"`
	Status             string          `gorm:"type:varchar(20);not null;index"`
	IsPaidPlan         bool            `gorm:"column:is_paid_plan;not null;default:false"`
	IsZohoLinked       bool            `gorm:"column:is_zoho_linked;not null;default:false"`
	AutoRenew          bool            `gorm:"column:auto_renew;not null;default:false"`
	StartDate          time.Time       `gorm:"column:start_date;not null"`
	PurchaseDate       time.Time       `gorm:"column:purchase_date;not null"`
	EndDate            *time.Time      `gorm:"column:end_date"`
	TrialEndDate       *time.Time      `gorm:"column:trial_end_date"`
	Currency           string          `gorm:"type:varchar(10)"`
	Amount             decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	ZohoSubscriptionID string          `gorm:"column:zoho_subscription_id;type:varchar(100)"`
	ActivationOrderID  *string         `gorm:"column:activation_order_id;type:varchar(100)"`
}

// TableName returns the table name for GORM
func (SubscriptionModel) TableName() string {
	return "subscriptions"
}

// ToDomain converts the persistence model to a domain Subscription
func (m *SubscriptionModel) ToDomain() *billing.Subscription {
	sub := &billing.Subscription{
		BaseEntity:         m.BaseModel.ToDomain(),
		BillingEntityID:    m.BillingEntityID,
		PlanID:             m.PlanID,
		PlanCode:           m.PlanCode,
		Status:             billing.SubscriptionStatus(m.Status),
		IsPaidPlan:         m.IsPaidPlan,
		IsZohoLinked:       m.IsZohoLinked,
		AutoRenew:          m.AutoRenew,
		StartDate:          m.StartDate,
		PurchaseDate:       m.PurchaseDate,
		EndDate:            m.EndDate,
		TrialEndDate:       m.TrialEndDate,
		Currency:           m.Currency,
		Amount:             m.Amount,
		ZohoSubscriptionID: m.ZohoSubscriptionID,
	}
	if m.ActivationOrderID != nil {
		sub.ActivationOrderID = *m.ActivationOrderID
	}
	return sub
}

// FromDomain populates the persistence model from a domain Subscription
func (m *SubscriptionModel) FromDomain(s *billing.Subscription) {
	m.FromDomainBaseEntity(s.BaseEntity)
	m.BillingEntityID = s.BillingEntityID
	m.PlanID = s.PlanID
	m.PlanCode = s.PlanCode
	m.Status = string(s.Status)
	m.IsPaidPlan = s.IsPaidPlan
	m.IsZohoLinked = s.IsZohoLinked
	m.AutoRenew = s.AutoRenew
	m.StartDate = s.StartDate
	m.PurchaseDate = s.PurchaseDate
	m.EndDate = s.EndDate
	m.TrialEndDate = s.TrialEndDate
	m.Currency = s.Currency
	m.Amount = s.Amount
	m.ZohoSubscriptionID = s.ZohoSubscriptionID
	m.ActivationOrderID = nil
	if s.ActivationOrderID != "" {
		id := s.ActivationOrderID
		m.ActivationOrderID = &id
	}
}

// SubscriptionModelFromDomain creates a new persistence model from a domain Subscription
func SubscriptionModelFromDomain(s *billing.Subscription) *SubscriptionModel {
	m := &SubscriptionModel{}
	m.FromDomain(s)
	return m
}

// FeatureUsageModel is the persistence model for the FeatureUsage entity
type FeatureUsageModel struct {
	BaseModel
	SubscriptionID uuid.UUID `gorm:"column:subscription_id;type:uuid;not null;uniqueIndex:idx_feature_usage_subscription_key,priority:1"`
	FeatureKey     string    `gorm:"column:feature_key;type:varchar(100);not null;uniqueIndex:idx_feature_usage_subscription_key,priority:2"`
	LimitCount     *int      `gorm:"column:limit_count"`
	UsedCount      int       `gorm:"column:used_count;not null;default:0"`
	IsExhausted    bool      `gorm:"column:is_exhausted;not null;default:false"`
}

// TableName returns the table name for GORM
func (FeatureUsageModel) TableName() string {
	return "feature_usages"
}

// ToDomain converts the persistence model to a domain FeatureUsage
func (m *FeatureUsageModel) ToDomain() *billing.FeatureUsage {
	return &billing.FeatureUsage{
		BaseEntity:     m.BaseModel.ToDomain(),
		SubscriptionID: m.SubscriptionID,
		FeatureKey:     m.FeatureKey,
		LimitCount:     m.LimitCount,
		UsedCount:      m.UsedCount,
		IsExhausted:    m.IsExhausted,
	}
}

// FeatureUsageModelFromDomain creates a new persistence model from a domain FeatureUsage
func FeatureUsageModelFromDomain(u *billing.FeatureUsage) *FeatureUsageModel {
	m := &FeatureUsageModel{
		SubscriptionID: u.SubscriptionID,
		FeatureKey:     u.FeatureKey,
		LimitCount:     u.LimitCount,
		UsedCount:      u.UsedCount,
		IsExhausted:    u.IsExhausted,
	}
	m.FromDomainBaseEntity(u.BaseEntity)
	return m
}
