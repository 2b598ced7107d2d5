package checkout

import (
	"time"

	"github.com/erp/checkout/internal/domain/checkout"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Address is a postal address as sent to the payment provider
type Address struct {
	Attention string
	Street    string
	City      string
	State     string
	StateCode string
	Zip       string
	Country   string
	Fax       string
}

// CreateSessionRequest opens a hosted checkout for a tenant billing id
type CreateSessionRequest struct {
	TenantID    string
	BillingID   string
	PlanCode    string
	Currency    string
	Gateway     string
	RedirectURL string

	// IsZohoLinked with a ZohoCustomerID sends the existing provider customer
	// instead of a customer block
	IsZohoLinked   bool
	ZohoCustomerID string

	DisplayName string
	FirstName   string
	LastName    string
	Email       string
	Phone       string
	Mobile      string
	CompanyName string
	Website     string

	BillingAddress  Address
	ShippingAddress Address

	GSTNo        string
	GSTStateCode string
}

// CreateSessionResult is returned once the provider hosted page exists
type CreateSessionResult struct {
	OrderID      string
	Gateway      string
	HostedPageID string
	URL          string
	Status       string
	ExpiringTime string
}

// StatusCheckRequest asks for the payment status of an order.
// Live asks the provider when the local record is not terminal.
type StatusCheckRequest struct {
	OrderID string
	Gateway string
	Live    bool
}

// StatusCheckResult is the normalized payment status of an order plus the
// plan and subscription it resolved to
type StatusCheckResult struct {
	OrderID           string
	Gateway           string
	Status            checkout.PaymentStatus
	ProviderStatusRaw string
	HostedURL         string
	ExpiringTime      string
	Message           string
	Plan              *PlanView

	SubscriptionID     *uuid.UUID
	SubscriptionStatus string
	StartDate          *time.Time
	EndDate            *time.Time
	PurchaseDate       *time.Time
	PaidPlan           *bool
	ZohoSubscriptionID string
}

// WebhookResult is the outcome of one provider delivery
type WebhookResult struct {
	Accepted         bool                   `json:"accepted"`
	Message          string                 `json:"message"`
	OrderID          string                 `json:"orderId,omitempty"`
	Provider         string                 `json:"provider,omitempty"`
	NormalizedStatus checkout.PaymentStatus `json:"normalizedStatus,omitempty"`
}

// TransactionQuery selects one page of settled checkouts. Page is 0-based.
type TransactionQuery struct {
	TenantID  string
	BillingID string
	Page      int
	Size      int
}

// TransactionView is one settled checkout as shown in payment history
type TransactionView struct {
	OrderID       string
	Gateway       string
	PlanCode      string
	PlanCategory  string
	IntervalUnit  string
	Status        checkout.PaymentStatus
	PurchaseDate  string
	InvoiceID     string
	Amount        *decimal.Decimal
	Currency      string
	ExpiringTime  *time.Time
	Email         string
	PaymentMethod string
	CreatedAt     time.Time
}
