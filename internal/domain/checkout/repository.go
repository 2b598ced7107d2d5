package checkout

import (
	"context"
)

// Repository persists hosted checkout sessions. Find methods return
// shared.ErrNotFound when nothing matches.
type Repository interface {
	FindByOrderID(ctx context.Context, orderID string) (*HostedCheckout, error)
	// FindByOrderIDForUpdate reads the row with an exclusive lock held until the
	// surrounding transaction ends
	FindByOrderIDForUpdate(ctx context.Context, orderID string) (*HostedCheckout, error)
	FindByDecryptedHostedPageID(ctx context.Context, hostedPageID string) (*HostedCheckout, error)
	FindByProviderHostedPageID(ctx context.Context, hostedPageID string) (*HostedCheckout, error)
	// FindSettledByBilling lists COMPLETED and FAILED sessions, newest first
	FindSettledByBilling(ctx context.Context, tenantID, billingID string, page, size int) ([]HostedCheckout, int64, error)
	Create(ctx context.Context, hc *HostedCheckout) error
	Save(ctx context.Context, hc *HostedCheckout) error
}
