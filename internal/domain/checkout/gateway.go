package checkout

import (
	"context"
	"errors"

	"github.com/erp/checkout/internal/domain/shared"
)

var (
	// ErrGatewayNotRegistered is returned when no adapter is registered under a gateway name
	ErrGatewayNotRegistered = errors.New("payment gateway not registered")
	// ErrGatewayRequestFailed wraps a provider-side failure (non-success response)
	ErrGatewayRequestFailed = errors.New("payment gateway request failed")
	// ErrGatewayUnavailable wraps a transport failure talking to the provider
	ErrGatewayUnavailable = errors.New("payment gateway unavailable")
	// ErrGatewayMismatch is returned when a caller names a gateway other than the session's
	ErrGatewayMismatch = shared.NewDomainError("GATEWAY_MISMATCH", "Gateway mismatch for this orderId")
)

// HostedPageResult is the provider's answer to a hosted page creation
type HostedPageResult struct {
	HostedPageID          string
	DecryptedHostedPageID string
	Status                string
	URL                   string
	ExpiringTime          string
	RawJSON               string
}

// HostedPageStatusResult is the provider's answer to a hosted page status poll
type HostedPageStatusResult struct {
	Status       string
	URL          string
	ExpiringTime string
	RawJSON      string
}

// PaymentGateway is implemented by each hosted page provider adapter
type PaymentGateway interface {
	// Name is the registry key, e.g. "ZOHOBILLING"
	Name() string
	CreateHostedPage(ctx context.Context, payload map[string]any) (*HostedPageResult, error)
	GetHostedPageStatus(ctx context.Context, hostedPageID string) (*HostedPageStatusResult, error)
}
