package billing

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/erp/checkout/internal/domain/billing"
	"github.com/erp/checkout/internal/domain/shared"
	"go.uber.org/zap"
)

// ProfileState classifies a tenant's billing profile
type ProfileState string

const (
	ProfileStateNotFound   ProfileState = "NOT_FOUND"
	ProfileStateIncomplete ProfileState = "INCOMPLETE_PROFILE"
	ProfileStateComplete   ProfileState = "COMPLETE"
)

// Billing details messages
const (
	MsgProfileNotFound   = "No billing profile found for tenantId and billingId."
	MsgProfileIncomplete = "Billing profile is incomplete. Please provide remaining details."
	MsgProfileComplete   = "Billing profile is complete."
)

// BillingDetails describes the billing profile of a tenant billing id
type BillingDetails struct {
	State   ProfileState
	Exists  bool
	Info    *billing.BillingEntity
	Message string
}

// BillingDetailsService reports billing profile completeness
type BillingDetailsService struct {
	billingEntities billing.BillingEntityRepository
	logger          *zap.Logger
}

// BillingDetailsServiceConfig contains dependencies for BillingDetailsService
type BillingDetailsServiceConfig struct {
	BillingEntities billing.BillingEntityRepository
	Logger          *zap.Logger
}

// NewBillingDetailsService creates a new BillingDetailsService
func NewBillingDetailsService(cfg BillingDetailsServiceConfig) *BillingDetailsService {
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &BillingDetailsService{billingEntities: cfg.BillingEntities, logger: logger}
}

// GetBillingDetails returns the profile and whether it is complete enough to
// check out. A missing profile is a NOT_FOUND state, not an error.
func (s *BillingDetailsService) GetBillingDetails(ctx context.Context, tenantID, billingID string) (*BillingDetails, error) {
	tenantID = strings.TrimSpace(tenantID)
	billingID = strings.TrimSpace(billingID)
	if tenantID == "" || billingID == "" {
		return nil, shared.NewInvalidInputError("tenantId and billingId are required")
	}

	be, err := s.billingEntities.FindByTenantAndBilling(ctx, tenantID, billingID)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return &BillingDetails{State: ProfileStateNotFound, Message: MsgProfileNotFound}, nil
		}
		return nil, fmt.Errorf("failed to find billing entity: %w", err)
	}

	if !be.HasCompleteBillingProfile {
		return &BillingDetails{
			State:   ProfileStateIncomplete,
			Exists:  true,
			Info:    be,
			Message: MsgProfileIncomplete,
		}, nil
	}
	return &BillingDetails{
		State:   ProfileStateComplete,
		Exists:  true,
		Info:    be,
		Message: MsgProfileComplete,
	}, nil
}
