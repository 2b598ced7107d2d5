package handler

import (
	"time"

	"github.com/samber/lo"
	"github.com/shopspring/decimal"

	checkoutapp "github.com/erp/checkout/internal/application/checkout"
	"github.com/erp/checkout/internal/domain/checkout"
)

// AddressRequest is a postal address on a checkout request
type AddressRequest struct {
	Attention string `json:"attention"`
	Street    string `json:"street"`
	City      string `json:"city"`
	State     string `json:"state"`
	StateCode string `json:"stateCode"`
	Zip       string `json:"zip"`
	Country   string `json:"country"`
	Fax       string `json:"fax"`
}

func (a AddressRequest) toApp() checkoutapp.Address {
	return checkoutapp.Address(a)
}

// CreateHostedPageRequest opens a hosted checkout
//
//	@Description	Hosted checkout request for one plan in one currency
type CreateHostedPageRequest struct {
	TenantID    string `json:"tenantId" binding:"required" example:"tenant-42"`
	BillingID   string `json:"billingId" binding:"required" example:"billing-7"`
	PlanCode    string `json:"planCode" binding:"required" example:"PRO-M"`
	Currency    string `json:"currency" binding:"required,currency" example:"USD"`
	Gateway     string `json:"gateway" example:"ZOHOBILLING"`
	RedirectURL string `json:"redirectUrl" binding:"omitempty,url"`

	IsZohoLinked   bool   `json:"isZohoLinked"`
	ZohoCustomerID string `json:"zohoCustomerId"`

	DisplayName string `json:"displayName"`
	FirstName   string `json:"firstName"`
	LastName    string `json:"lastName"`
	Email       string `json:"email" binding:"omitempty,email"`
	Phone       string `json:"phone"`
	Mobile      string `json:"mobile"`
	CompanyName string `json:"companyName"`
	Website     string `json:"website"`

	BillingAddress  AddressRequest `json:"billingAddress"`
	ShippingAddress AddressRequest `json:"shippingAddress"`

	GSTNo        string `json:"gstNo"`
	GSTStateCode string `json:"gstStateCode"`
}

func (r CreateHostedPageRequest) toApp() checkoutapp.CreateSessionRequest {
	return checkoutapp.CreateSessionRequest{
		TenantID:        r.TenantID,
		BillingID:       r.BillingID,
		PlanCode:        r.PlanCode,
		Currency:        r.Currency,
		Gateway:         r.Gateway,
		RedirectURL:     r.RedirectURL,
		IsZohoLinked:    r.IsZohoLinked,
		ZohoCustomerID:  r.ZohoCustomerID,
		DisplayName:     r.DisplayName,
		FirstName:       r.FirstName,
		LastName:        r.LastName,
		Email:           r.Email,
		Phone:           r.Phone,
		Mobile:          r.Mobile,
		CompanyName:     r.CompanyName,
		Website:         r.Website,
		BillingAddress:  r.BillingAddress.toApp(),
		ShippingAddress: r.ShippingAddress.toApp(),
		GSTNo:           r.GSTNo,
		GSTStateCode:    r.GSTStateCode,
	}
}

// HostedPageResponse is the opened hosted checkout
type HostedPageResponse struct {
	OrderID      string `json:"orderId"`
	Gateway      string `json:"gateway"`
	HostedPageID string `json:"hostedpageId"`
	URL          string `json:"url"`
	Status       string `json:"status" example:"PENDING"`
	ExpiringTime string `json:"expiringTime,omitempty"`
}

func newHostedPageResponse(r *checkoutapp.CreateSessionResult) HostedPageResponse {
	return HostedPageResponse(*r)
}

// SessionResponse is a stored hosted checkout without its payload history
type SessionResponse struct {
	OrderID            string     `json:"orderId"`
	Gateway            string     `json:"gateway"`
	TenantID           string     `json:"tenantId"`
	BillingID          string     `json:"billingId"`
	PlanCode           string     `json:"planCode"`
	Currency           string     `json:"currency"`
	Status             string     `json:"status" example:"COMPLETED"`
	ProviderStatus     string     `json:"providerStatus,omitempty"`
	HostedPageID       string     `json:"hostedpageId,omitempty"`
	HostedURL          string     `json:"hostedUrl,omitempty"`
	ExpiringTime       *time.Time `json:"expiringTime,omitempty"`
	ZohoSubscriptionID string     `json:"zohoSubscriptionId,omitempty"`
	CreatedAt          time.Time  `json:"createdAt"`
	UpdatedAt          time.Time  `json:"updatedAt"`
}

func newSessionResponse(hc *checkout.HostedCheckout) SessionResponse {
	return SessionResponse{
		OrderID:            hc.OrderID,
		Gateway:            hc.Gateway,
		TenantID:           hc.TenantID,
		BillingID:          hc.BillingID,
		PlanCode:           hc.PlanCode,
		Currency:           hc.Currency,
		Status:             string(hc.Status),
		ProviderStatus:     hc.ProviderStatus,
		HostedPageID:       lo.CoalesceOrEmpty(hc.ProviderDecryptedHostedPageID, hc.ProviderHostedPageID),
		HostedURL:          hc.HostedURL,
		ExpiringTime:       hc.ExpiringTime,
		ZohoSubscriptionID: hc.ZohoSubscriptionID,
		CreatedAt:          hc.CreatedAt,
		UpdatedAt:          hc.UpdatedAt,
	}
}

// StatusRequest asks for the payment status of an order
type StatusRequest struct {
	OrderID string `json:"orderId" binding:"required"`
	Gateway string `json:"gateway"`
}

// PlanFeatureResponse is one plan feature. A null limit is unlimited.
type PlanFeatureResponse struct {
	Key       string `json:"key"`
	Name      string `json:"name"`
	Limit     *int   `json:"limit"`
	SortOrder int    `json:"sortOrder"`
}

// PlanPriceResponse is the plan price in one currency
type PlanPriceResponse struct {
	Currency string          `json:"currency"`
	Amount   decimal.Decimal `json:"amount"`
}

// PlanResponse is the plan an order pays for
type PlanResponse struct {
	PlanID          string                `json:"planId"`
	PlanCode        string                `json:"planCode"`
	Name            string                `json:"name"`
	Description     string                `json:"description,omitempty"`
	Category        string                `json:"category,omitempty"`
	IntervalUnit    string                `json:"intervalUnit,omitempty"`
	TrialPeriodDays int                   `json:"trialPeriodDays"`
	LicenseLimit    *int                  `json:"licenseLimit,omitempty"`
	IsActive        bool                  `json:"isActive"`
	Features        []PlanFeatureResponse `json:"features"`
	Prices          []PlanPriceResponse   `json:"prices"`
}

func newPlanResponse(p *checkoutapp.PlanView) *PlanResponse {
	if p == nil {
		return nil
	}
	return &PlanResponse{
		PlanID:          p.PlanID.String(),
		PlanCode:        p.PlanCode,
		Name:            p.Name,
		Description:     p.Description,
		Category:        p.Category,
		IntervalUnit:    p.IntervalUnit,
		TrialPeriodDays: p.TrialPeriodDays,
		LicenseLimit:    p.LicenseLimit,
		IsActive:        p.IsActive,
		Features: lo.Map(p.Features, func(f checkoutapp.PlanFeatureView, _ int) PlanFeatureResponse {
			return PlanFeatureResponse(f)
		}),
		Prices: lo.Map(p.Prices, func(pr checkoutapp.PlanPriceView, _ int) PlanPriceResponse {
			return PlanPriceResponse(pr)
		}),
	}
}

// StatusResponse is the normalized payment status of an order plus the plan
// and subscription it resolved to
//
//	@Description	Payment status with plan and subscription details
type StatusResponse struct {
	OrderID           string        `json:"orderId"`
	Gateway           string        `json:"gateway"`
	Status            string        `json:"status" example:"SUCCESS"`
	ProviderStatusRaw string        `json:"providerStatusRaw,omitempty"`
	HostedURL         string        `json:"hostedUrl,omitempty"`
	ExpiringTime      string        `json:"expiringTime,omitempty"`
	Message           string        `json:"message,omitempty"`
	Plan              *PlanResponse `json:"plan,omitempty"`

	SubscriptionID     string     `json:"subscriptionId,omitempty"`
	SubscriptionStatus string     `json:"subscriptionStatus,omitempty"`
	StartDate          *time.Time `json:"startDate,omitempty"`
	EndDate            *time.Time `json:"endDate,omitempty"`
	PurchaseDate       *time.Time `json:"purchaseDate,omitempty"`
	PaidPlan           *bool      `json:"paidPlan,omitempty"`
	ZohoSubscriptionID string     `json:"zohoSubscriptionId,omitempty"`
}

func newStatusResponse(r *checkoutapp.StatusCheckResult) StatusResponse {
	resp := StatusResponse{
		OrderID:            r.OrderID,
		Gateway:            r.Gateway,
		Status:             string(r.Status),
		ProviderStatusRaw:  r.ProviderStatusRaw,
		HostedURL:          r.HostedURL,
		ExpiringTime:       r.ExpiringTime,
		Message:            r.Message,
		Plan:               newPlanResponse(r.Plan),
		SubscriptionStatus: r.SubscriptionStatus,
		StartDate:          r.StartDate,
		EndDate:            r.EndDate,
		PurchaseDate:       r.PurchaseDate,
		PaidPlan:           r.PaidPlan,
		ZohoSubscriptionID: r.ZohoSubscriptionID,
	}
	if r.SubscriptionID != nil {
		resp.SubscriptionID = r.SubscriptionID.String()
	}
	return resp
}
