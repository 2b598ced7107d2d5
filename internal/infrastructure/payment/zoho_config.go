package payment

import (
	"errors"
	"strings"
	"time"
)

const (
	defaultZohoAPIBaseURL  = "https://www.zohoapis.com/billing/v1"
	defaultZohoAccountsURL = "https://accounts.zoho.com"
	defaultZohoTimeout     = 30 * time.Second
	defaultZohoRetryMax    = 3
)

// ZohoConfig contains configuration for the Zoho Billing hosted page API
type ZohoConfig struct {
	// APIBaseURL is the billing API root, e.g. https://www.zohoapis.in/billing/v1
	APIBaseURL string
	// AccountsURL is the OAuth server root used for token refresh
	AccountsURL string
	// OrganizationID is sent on every call as X-com-zoho-subscriptions-organizationid
	OrganizationID string
	ClientID       string
	ClientSecret   string
	// RefreshToken is a long-lived grant exchanged for access tokens
	RefreshToken string
	Timeout      time.Duration
	// RetryMax bounds retries of 5xx and 429 answers
	RetryMax int
}

// Errors for configuration validation
var (
	ErrZohoMissingOrganizationID = errors.New("zoho: missing organization ID")
	ErrZohoMissingClientID       = errors.New("zoho: missing client ID")
	ErrZohoMissingClientSecret   = errors.New("zoho: missing client secret")
	ErrZohoMissingRefreshToken   = errors.New("zoho: missing refresh token")
)

// Validate validates the configuration
func (c *ZohoConfig) Validate() error {
	if c.OrganizationID == "" {
		return ErrZohoMissingOrganizationID
	}
	if c.ClientID == "" {
		return ErrZohoMissingClientID
	}
	if c.ClientSecret == "" {
		return ErrZohoMissingClientSecret
	}
	if c.RefreshToken == "" {
		return ErrZohoMissingRefreshToken
	}
	return nil
}

func (c *ZohoConfig) applyDefaults() {
	if c.APIBaseURL == "" {
		c.APIBaseURL = defaultZohoAPIBaseURL
	}
	if c.AccountsURL == "" {
		c.AccountsURL = defaultZohoAccountsURL
	}
	c.APIBaseURL = strings.TrimRight(c.APIBaseURL, "/")
	c.AccountsURL = strings.TrimRight(c.AccountsURL, "/")
	if c.Timeout <= 0 {
		c.Timeout = defaultZohoTimeout
	}
	if c.RetryMax < 0 {
		c.RetryMax = 0
	}
}
