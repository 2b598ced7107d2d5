package handler

import (
	"context"
	"strings"

	"github.com/gin-gonic/gin"

	checkoutapp "github.com/erp/checkout/internal/application/checkout"
	"github.com/erp/checkout/internal/domain/checkout"
	"github.com/erp/checkout/internal/interfaces/http/middleware"
)

// SessionManager opens and reads hosted checkouts
type SessionManager interface {
	CreateSession(ctx context.Context, req checkoutapp.CreateSessionRequest) (*checkoutapp.CreateSessionResult, error)
	GetSession(ctx context.Context, orderID string) (*checkout.HostedCheckout, error)
}

// StatusChecker resolves the payment status of an order
type StatusChecker interface {
	CheckStatus(ctx context.Context, req checkoutapp.StatusCheckRequest) (*checkoutapp.StatusCheckResult, error)
}

// CheckoutHandler serves the hosted checkout endpoints
type CheckoutHandler struct {
	BaseHandler
	sessions SessionManager
	status   StatusChecker
}

// NewCheckoutHandler creates a new CheckoutHandler
func NewCheckoutHandler(sessions SessionManager, status StatusChecker) *CheckoutHandler {
	return &CheckoutHandler{sessions: sessions, status: status}
}

// CreateHostedPage godoc
//
//	@ID				createHostedPage
//	@Summary		Open a hosted checkout
//	@Description	Persists a checkout session and asks the payment gateway for a hosted payment page
//	@Tags			checkout
//	@Accept			json
//	@Produce		json
//	@Param			request	body		CreateHostedPageRequest	true	"Checkout request"
//	@Success		201		{object}	APIResponse[HostedPageResponse]
//	@Failure		400		{object}	ErrorResponse
//	@Failure		403		{object}	ErrorResponse
//	@Failure		422		{object}	ErrorResponse
//	@Failure		502		{object}	ErrorResponse
//	@Security		BearerAuth
//	@Router			/checkout/hosted-pages [post]
func (h *CheckoutHandler) CreateHostedPage(c *gin.Context) {
	var req CreateHostedPageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.HandleValidationError(c, err)
		return
	}
	if !h.requireTenant(c, req.TenantID) {
		return
	}

	result, err := h.sessions.CreateSession(c.Request.Context(), req.toApp())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, newHostedPageResponse(result))
}

// GetSession godoc
//
//	@ID				getCheckoutSession
//	@Summary		Get a checkout session
//	@Tags			checkout
//	@Produce		json
//	@Param			orderId	path		string	true	"Order id"
//	@Success		200		{object}	APIResponse[SessionResponse]
//	@Failure		403		{object}	ErrorResponse
//	@Failure		404		{object}	ErrorResponse
//	@Security		BearerAuth
//	@Router			/checkout/sessions/{orderId} [get]
func (h *CheckoutHandler) GetSession(c *gin.Context) {
	hc, err := h.sessions.GetSession(c.Request.Context(), strings.TrimSpace(c.Param("orderId")))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	if !h.requireTenant(c, hc.TenantID) {
		return
	}
	h.Success(c, newSessionResponse(hc))
}

// CheckStatus godoc
//
//	@ID				checkPaymentStatus
//	@Summary		Check payment status
//	@Description	Returns the stored status, asking the gateway when the order is not yet terminal. A successful payment provisions the subscription.
//	@Tags			checkout
//	@Accept			json
//	@Produce		json
//	@Param			request	body		StatusRequest	true	"Order"
//	@Success		200		{object}	APIResponse[StatusResponse]
//	@Failure		404		{object}	ErrorResponse
//	@Failure		422		{object}	ErrorResponse
//	@Security		BearerAuth
//	@Router			/checkout/status [post]
func (h *CheckoutHandler) CheckStatus(c *gin.Context) {
	h.checkStatus(c, true)
}

// CheckLocalStatus godoc
//
//	@ID				checkLocalPaymentStatus
//	@Summary		Check stored payment status
//	@Description	Returns the stored status without contacting the gateway
//	@Tags			checkout
//	@Accept			json
//	@Produce		json
//	@Param			request	body		StatusRequest	true	"Order"
//	@Success		200		{object}	APIResponse[StatusResponse]
//	@Failure		404		{object}	ErrorResponse
//	@Security		BearerAuth
//	@Router			/checkout/status/local [post]
func (h *CheckoutHandler) CheckLocalStatus(c *gin.Context) {
	h.checkStatus(c, false)
}

func (h *CheckoutHandler) checkStatus(c *gin.Context, live bool) {
	var req StatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.HandleValidationError(c, err)
		return
	}

	ctx := c.Request.Context()
	if middleware.GetTenantID(c) != "" {
		hc, err := h.sessions.GetSession(ctx, strings.TrimSpace(req.OrderID))
		if err != nil {
			h.HandleError(c, err)
			return
		}
		if !h.requireTenant(c, hc.TenantID) {
			return
		}
	}

	result, err := h.status.CheckStatus(ctx, checkoutapp.StatusCheckRequest{
		OrderID: req.OrderID,
		Gateway: req.Gateway,
		Live:    live,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, newStatusResponse(result))
}
