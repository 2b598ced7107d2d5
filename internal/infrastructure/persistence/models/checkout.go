package models

import (
	"time"

	"github.com/erp/checkout/internal/domain/checkout"
)

// HostedCheckoutModel is the persistence model for the HostedCheckout entity
type HostedCheckoutModel struct {
	BaseModel
	OrderID     string `gorm:"column:order_id;type:varchar(100);not null;uniqueIndex"`
	Gateway     string `gorm:"type:varchar(50);not null"`
	TenantID    string `gorm:"column:tenant_id;type:varchar(100);not null;index:idx_hosted_checkout_billing,priority:1"`
	BillingID   string `gorm:"column:billing_id;type:varchar(100);not null;index:idx_hosted_checkout_billing,priority:2"`
	PlanCode    string `gorm:"column:plan_code;type:varchar(100);not null"`
	Currency    string `gorm:"type:varchar(10);not null"`
	PricebookID string `gorm:"column:pricebook_id;type:varchar(100)"`
	Status      string `gorm:"type:varchar(20);not null;index"`

	ProviderHostedPageID          string     `gorm:"column:provider_hosted_page_id;type:varchar(200);index"`
	ProviderDecryptedHostedPageID string     `gorm:"column:provider_decrypted_hosted_page_id;type:varchar(200);index"`
	ProviderStatus                string     `gorm:"column:provider_status;type:varchar(50)"`
	HostedURL                     string     `gorm:"column:hosted_url;type:text"`
	RedirectURL                   string     `gorm:"column:redirect_url;type:text"`
	ExpiringTime                  *time.Time `gorm:"column:expiring_time"`
	ZohoSubscriptionID            string     `gorm:"column:zoho_subscription_id;type:varchar(100)"`

	RequestPayloadJSON  string `gorm:"column:request_payload_json;type:text"`
	ResponsePayloadJSON string `gorm:"column:response_payload_json;type:text"`
}

// TableName returns the table name for GORM
func (HostedCheckoutModel) TableName() string {
	return "hosted_checkouts"
}

// ToDomain converts the persistence model to a domain HostedCheckout
func (m *HostedCheckoutModel) ToDomain() *checkout.HostedCheckout {
	return &checkout.HostedCheckout{
		BaseEntity:                    m.BaseModel.ToDomain(),
		OrderID:                       m.OrderID,
		Gateway:                       m.Gateway,
		TenantID:                      m.TenantID,
		BillingID:                     m.BillingID,
		PlanCode:                      m.PlanCode,
		Currency:                      m.Currency,
		PricebookID:                   m.PricebookID,
		Status:                        checkout.SessionStatus(m.Status),
		ProviderHostedPageID:          m.ProviderHostedPageID,
		ProviderDecryptedHostedPageID: m.ProviderDecryptedHostedPageID,
		ProviderStatus:                m.ProviderStatus,
		HostedURL:                     m.HostedURL,
		RedirectURL:                   m.RedirectURL,
		ExpiringTime:                  m.ExpiringTime,
		ZohoSubscriptionID:            m.ZohoSubscriptionID,
		RequestPayloadJSON:            m.RequestPayloadJSON,
		ResponsePayloadJSON:           m.ResponsePayloadJSON,
	}
}

// FromDomain populates the persistence model from a domain HostedCheckout
func (m *HostedCheckoutModel) FromDomain(hc *checkout.HostedCheckout) {
	m.FromDomainBaseEntity(hc.BaseEntity)
	m.OrderID = hc.OrderID
	m.Gateway = hc.Gateway
	m.TenantID = hc.TenantID
	m.BillingID = hc.BillingID
	m.PlanCode = hc.PlanCode
	m.Currency = hc.Currency
	m.PricebookID = hc.PricebookID
	m.Status = string(hc.Status)
	m.ProviderHostedPageID = hc.ProviderHostedPageID
	m.ProviderDecryptedHostedPageID = hc.ProviderDecryptedHostedPageID
	m.ProviderStatus = hc.ProviderStatus
	m.HostedURL = hc.HostedURL
	m.RedirectURL = hc.RedirectURL
	m.ExpiringTime = hc.ExpiringTime
	m.ZohoSubscriptionID = hc.ZohoSubscriptionID
	m.RequestPayloadJSON = hc.RequestPayloadJSON
	m.ResponsePayloadJSON = hc.ResponsePayloadJSON
}

// HostedCheckoutModelFromDomain creates a new persistence model from a domain HostedCheckout
func HostedCheckoutModelFromDomain(hc *checkout.HostedCheckout) *HostedCheckoutModel {
	m := &HostedCheckoutModel{}
	m.FromDomain(hc)
	return m
}
