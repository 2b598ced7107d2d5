// Package handler holds the gin handlers of the checkout API.
package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/erp/checkout/internal/domain/checkout"
	"github.com/erp/checkout/internal/domain/shared"
	"github.com/erp/checkout/internal/infrastructure/logger"
	"github.com/erp/checkout/internal/interfaces/http/dto"
	"github.com/erp/checkout/internal/interfaces/http/middleware"
)

// BaseHandler provides common handler utilities
type BaseHandler struct{}

// Success sends a 200 response
func (h *BaseHandler) Success(c *gin.Context, data any) {
	c.JSON(http.StatusOK, dto.NewSuccessResponse(data))
}

// Created sends a 201 response
func (h *BaseHandler) Created(c *gin.Context, data any) {
	c.JSON(http.StatusCreated, dto.NewSuccessResponse(data))
}

// SuccessPage sends one page of items with pagination meta
func SuccessPage[T any](c *gin.Context, page shared.Paginated[T]) {
	items := page.Items
	if items == nil {
		items = []T{}
	}
	c.JSON(http.StatusOK, dto.NewSuccessResponseWithMeta(items, page.Total, page.Page, page.PageSize, page.TotalPages))
}

// Error sends an error response
func (h *BaseHandler) Error(c *gin.Context, statusCode int, code, message string) {
	c.JSON(statusCode, dto.NewErrorResponse(code, message, middleware.GetRequestID(c)))
}

// BadRequest sends a 400 response
func (h *BaseHandler) BadRequest(c *gin.Context, message string) {
	h.Error(c, http.StatusBadRequest, dto.ErrCodeBadRequest, message)
}

// Forbidden sends a 403 response
func (h *BaseHandler) Forbidden(c *gin.Context, message string) {
	h.Error(c, http.StatusForbidden, dto.ErrCodeForbidden, message)
}

// HandleError converts service errors to HTTP responses. Domain errors keep
// their message; gateway failures map to 502/503; anything else is a 500
// with a generic message.
func (h *BaseHandler) HandleError(c *gin.Context, err error) {
	if err == nil {
		return
	}

	var domainErr *shared.DomainError
	if errors.As(err, &domainErr) {
		code := dto.NormalizeErrorCode(domainErr.Code)
		h.Error(c, dto.GetHTTPStatus(code), code, domainErr.Message)
		return
	}

	log := logger.FromGin(c)
	switch {
	case errors.Is(err, checkout.ErrGatewayNotRegistered):
		log.Error("Payment gateway not configured", zap.Error(err))
		h.Error(c, http.StatusInternalServerError, dto.ErrCodeGatewayNotConfigured, "Payment gateway is not configured")
	case errors.Is(err, checkout.ErrGatewayUnavailable):
		log.Warn("Payment gateway unavailable", zap.Error(err))
		h.Error(c, http.StatusServiceUnavailable, dto.ErrCodeGatewayUnavailable, "Payment gateway is unavailable, please retry")
	case errors.Is(err, checkout.ErrGatewayRequestFailed):
		log.Warn("Payment gateway rejected request", zap.Error(err))
		h.Error(c, http.StatusBadGateway, dto.ErrCodeGatewayFailed, "Payment gateway rejected the request")
	default:
		log.Error("Request failed", zap.Error(err))
		h.Error(c, http.StatusInternalServerError, dto.ErrCodeInternal, "An unexpected error occurred")
	}
}

// requireTenant rejects requests for a tenant other than the authenticated one
func (h *BaseHandler) requireTenant(c *gin.Context, tenantID string) bool {
	if middleware.TenantAllowed(c, tenantID) {
		return true
	}
	h.Forbidden(c, "Token is not valid for this tenant")
	return false
}
