package payment

import (
	"fmt"
	"strings"
)

// StripeConfig holds configuration for Stripe Checkout hosted pages
type StripeConfig struct {
	// SecretKey is the Stripe secret API key (sk_test_xxx or sk_live_xxx)
	SecretKey string `json:"secret_key" mapstructure:"secret_key"`

	// PriceIDs maps external plan codes to Stripe Price IDs
	PriceIDs map[string]string `json:"price_ids" mapstructure:"price_ids"`

	// SuccessURL is used when the checkout request carries no redirect URL
	SuccessURL string `json:"success_url" mapstructure:"success_url"`

	// CancelURL is the URL to return to when the payer abandons checkout
	CancelURL string `json:"cancel_url" mapstructure:"cancel_url"`
}

// Validate validates the Stripe configuration
func (c *StripeConfig) Validate() error {
	if c.SecretKey == "" {
		return fmt.Errorf("stripe: secret key is required")
	}
	if !strings.HasPrefix(c.SecretKey, "sk_") && !strings.HasPrefix(c.SecretKey, "rk_") {
		return fmt.Errorf("stripe: secret key must be a secret or restricted key")
	}
	if c.SuccessURL == "" {
		return fmt.Errorf("stripe: success url is required")
	}
	return nil
}

// PriceID returns the Stripe Price ID for a plan code, matched case-insensitively
func (c *StripeConfig) PriceID(planCode string) (string, error) {
	if id, ok := c.PriceIDs[planCode]; ok && id != "" {
		return id, nil
	}
	for code, id := range c.PriceIDs {
		if strings.EqualFold(code, planCode) && id != "" {
			return id, nil
		}
	}
	return "", fmt.Errorf("stripe: no price ID configured for plan: %s", planCode)
}
