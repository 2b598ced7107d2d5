package handler

import (
	"context"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/samber/lo"
	"github.com/shopspring/decimal"

	billingapp "github.com/erp/checkout/internal/application/billing"
	checkoutapp "github.com/erp/checkout/internal/application/checkout"
	"github.com/erp/checkout/internal/domain/billing"
	"github.com/erp/checkout/internal/domain/shared"
)

// BillingDetailsReader reports billing profile completeness
type BillingDetailsReader interface {
	GetBillingDetails(ctx context.Context, tenantID, billingID string) (*billingapp.BillingDetails, error)
}

// TransactionLister pages through settled checkouts
type TransactionLister interface {
	ListTransactions(ctx context.Context, q checkoutapp.TransactionQuery) (shared.Paginated[checkoutapp.TransactionView], error)
}

// BillingHandler serves billing profile and payment history endpoints
type BillingHandler struct {
	BaseHandler
	details      BillingDetailsReader
	transactions TransactionLister
}

// NewBillingHandler creates a new BillingHandler
func NewBillingHandler(details BillingDetailsReader, transactions TransactionLister) *BillingHandler {
	return &BillingHandler{details: details, transactions: transactions}
}

// BillingProfileResponse is the stored billing profile
type BillingProfileResponse struct {
	TenantID       string `json:"tenantId"`
	BillingID      string `json:"billingId"`
	Name           string `json:"name"`
	FirstName      string `json:"fname,omitempty"`
	LastName       string `json:"lname,omitempty"`
	Email          string `json:"email,omitempty"`
	Mobile         string `json:"mobile,omitempty"`
	BillingAddress string `json:"billingAddress,omitempty"`
	City           string `json:"city,omitempty"`
	Country        string `json:"country,omitempty"`
	StateName      string `json:"stateName,omitempty"`
	StateCode      string `json:"stateCode,omitempty"`
	GSTNumber      string `json:"gstNumber,omitempty"`
	GSTStateCode   string `json:"gstStateCode,omitempty"`
	GSTIN          string `json:"gstin,omitempty"`
	OrgID          string `json:"orgId,omitempty"`
	AdminName      string `json:"adminName,omitempty"`
	AdminEmail     string `json:"adminEmail,omitempty"`
	ZohoCustomerID string `json:"zohoCustomerId,omitempty"`
	IsZohoLinked   bool   `json:"isZohoLinked"`
	PricebookID    string `json:"pricebookId,omitempty"`
}

// BillingDetailsResponse says whether a tenant billing id can check out
type BillingDetailsResponse struct {
	State   string                  `json:"state" example:"INCOMPLETE_PROFILE"`
	Exists  bool                    `json:"exists"`
	Info    *BillingProfileResponse `json:"info,omitempty"`
	Message string                  `json:"message"`
}

func newBillingProfileResponse(be *billing.BillingEntity) *BillingProfileResponse {
	if be == nil {
		return nil
	}
	return &BillingProfileResponse{
		TenantID:       be.TenantID,
		BillingID:      be.BillingID,
		Name:           be.Name,
		FirstName:      be.FName,
		LastName:       be.LName,
		Email:          be.Email,
		Mobile:         be.Mobile,
		BillingAddress: be.BillingAddress,
		City:           be.City,
		Country:        be.Country,
		StateName:      be.StateName,
		StateCode:      be.StateCode,
		GSTNumber:      be.GSTNumber,
		GSTStateCode:   be.GSTStateCode,
		GSTIN:          be.GSTIN,
		OrgID:          be.OrgID,
		AdminName:      be.AdminName,
		AdminEmail:     be.AdminEmail,
		ZohoCustomerID: be.ZohoCustomerID,
		IsZohoLinked:   be.IsZohoLinked,
		PricebookID:    be.PricebookID,
	}
}

// TransactionResponse is one settled checkout in payment history
type TransactionResponse struct {
	OrderID       string           `json:"orderId"`
	Gateway       string           `json:"gateway"`
	PlanCode      string           `json:"planCode"`
	PlanCategory  string           `json:"planCategory,omitempty"`
	IntervalUnit  string           `json:"intervalUnit,omitempty"`
	Status        string           `json:"status" example:"SUCCESS"`
	PurchaseDate  string           `json:"purchaseDate,omitempty"`
	InvoiceID     string           `json:"invoiceId,omitempty"`
	Amount        *decimal.Decimal `json:"amount,omitempty"`
	Currency      string           `json:"currency,omitempty"`
	ExpiringTime  *time.Time       `json:"expiringTime,omitempty"`
	Email         string           `json:"email,omitempty"`
	PaymentMethod string           `json:"paymentMethod,omitempty"`
	CreatedAt     time.Time        `json:"createdAt"`
}

// GetBillingDetails godoc
//
//	@ID				getBillingDetails
//	@Summary		Get billing profile state
//	@Description	Reports whether the tenant billing profile exists and is complete. A missing profile is not an error.
//	@Tags			billing
//	@Produce		json
//	@Param			tenantId	query		string	true	"Tenant id"
//	@Param			billingId	query		string	true	"Billing id"
//	@Success		200			{object}	APIResponse[BillingDetailsResponse]
//	@Failure		400			{object}	ErrorResponse
//	@Failure		403			{object}	ErrorResponse
//	@Security		BearerAuth
//	@Router			/billing/details [get]
func (h *BillingHandler) GetBillingDetails(c *gin.Context) {
	tenantID := c.Query("tenantId")
	if !h.requireTenant(c, tenantID) {
		return
	}

	details, err := h.details.GetBillingDetails(c.Request.Context(), tenantID, c.Query("billingId"))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, BillingDetailsResponse{
		State:   string(details.State),
		Exists:  details.Exists,
		Info:    newBillingProfileResponse(details.Info),
		Message: details.Message,
	})
}

// ListTransactions godoc
//
//	@ID				listBillingTransactions
//	@Summary		List payment history
//	@Description	Completed and failed checkouts for a tenant billing id, newest first. Pages are 0-based.
//	@Tags			billing
//	@Produce		json
//	@Param			tenantId	query		string	true	"Tenant id"
//	@Param			billingId	query		string	true	"Billing id"
//	@Param			page		query		int		false	"Page (0-based)"	default(0)
//	@Param			size		query		int		false	"Page size"		default(20)
//	@Success		200			{object}	APIResponse[[]TransactionResponse]
//	@Failure		403			{object}	ErrorResponse
//	@Security		BearerAuth
//	@Router			/billing/transactions [get]
func (h *BillingHandler) ListTransactions(c *gin.Context) {
	tenantID := c.Query("tenantId")
	if !h.requireTenant(c, tenantID) {
		return
	}
	page, err := queryInt(c, "page")
	if err != nil {
		h.BadRequest(c, "page must be an integer")
		return
	}
	size, err := queryInt(c, "size")
	if err != nil {
		h.BadRequest(c, "size must be an integer")
		return
	}

	result, err := h.transactions.ListTransactions(c.Request.Context(), checkoutapp.TransactionQuery{
		TenantID:  tenantID,
		BillingID: c.Query("billingId"),
		Page:      page,
		Size:      size,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}

	SuccessPage(c, shared.Paginated[TransactionResponse]{
		Items: lo.Map(result.Items, func(v checkoutapp.TransactionView, _ int) TransactionResponse {
			return TransactionResponse{
				OrderID:       v.OrderID,
				Gateway:       v.Gateway,
				PlanCode:      v.PlanCode,
				PlanCategory:  v.PlanCategory,
				IntervalUnit:  v.IntervalUnit,
				Status:        string(v.Status),
				PurchaseDate:  v.PurchaseDate,
				InvoiceID:     v.InvoiceID,
				Amount:        v.Amount,
				Currency:      v.Currency,
				ExpiringTime:  v.ExpiringTime,
				Email:         v.Email,
				PaymentMethod: v.PaymentMethod,
				CreatedAt:     v.CreatedAt,
			}
		}),
		Total:      result.Total,
		Page:       result.Page,
		PageSize:   result.PageSize,
		TotalPages: result.TotalPages,
	})
}

func queryInt(c *gin.Context, key string) (int, error) {
	raw := c.Query(key)
	if raw == "" {
		return 0, nil
	}
	return strconv.Atoi(raw)
}
