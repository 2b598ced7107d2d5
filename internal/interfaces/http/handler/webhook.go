package handler

import (
	"context"
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	checkoutapp "github.com/erp/checkout/internal/application/checkout"
	"github.com/erp/checkout/internal/infrastructure/logger"
)

// WebhookApplier reconciles one provider delivery
type WebhookApplier interface {
	ApplyWebhook(ctx context.Context, headers http.Header, body []byte) *checkoutapp.WebhookResult
}

// WebhookHandler receives payment provider webhooks. Providers retry on
// non-2xx responses, so every delivery is answered with 200 and the outcome.
type WebhookHandler struct {
	webhooks   WebhookApplier
	maxPayload int64
}

// NewWebhookHandler creates a new WebhookHandler. Bodies over maxPayload
// bytes are refused; zero or less means no limit.
func NewWebhookHandler(webhooks WebhookApplier, maxPayload int64) *WebhookHandler {
	return &WebhookHandler{webhooks: webhooks, maxPayload: maxPayload}
}

// HandlePayment godoc
//
//	@ID				handlePaymentWebhook
//	@Summary		Receive a payment webhook
//	@Description	Verifies, correlates and applies a payment provider notification. Always answers 200.
//	@Tags			webhooks
//	@Accept			json
//	@Produce		json
//	@Param			X-Provider					header		string	false	"Provider name"
//	@Param			X-Zoho-Webhook-Signature	header		string	false	"Hex HMAC-SHA256 of the body"
//	@Success		200							{object}	checkout.WebhookResult
//	@Router			/webhooks/payments [post]
func (h *WebhookHandler) HandlePayment(c *gin.Context) {
	reader := c.Request.Body
	if h.maxPayload > 0 {
		reader = http.MaxBytesReader(c.Writer, reader, h.maxPayload)
	}
	body, err := io.ReadAll(reader)
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			logger.FromGin(c).Warn("Webhook payload too large", zap.Int64("limit", tooLarge.Limit))
			c.JSON(http.StatusOK, &checkoutapp.WebhookResult{Accepted: false, Message: "payload too large"})
			return
		}
		logger.FromGin(c).Warn("Webhook body unreadable", zap.Error(err))
		c.JSON(http.StatusOK, &checkoutapp.WebhookResult{Accepted: false, Message: "unreadable body"})
		return
	}
	c.JSON(http.StatusOK, h.webhooks.ApplyWebhook(c.Request.Context(), c.Request.Header, body))
}
