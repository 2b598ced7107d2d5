package plan

import (
	"context"

	"github.com/google/uuid"
)

// Repository reads the plan catalog. Plans are returned with their
// features and prices loaded. Missing rows yield shared.ErrNotFound.
type Repository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Plan, error)
	FindByCode(ctx context.Context, code string) (*Plan, error)
	FindActiveByCode(ctx context.Context, code string) (*Plan, error)
	FindPrice(ctx context.Context, planID uuid.UUID, currency string) (*Price, error)
}

// PricebookRepository resolves pricebooks by currency
type PricebookRepository interface {
	// FindByCurrency matches the currency case-insensitively among active pricebooks
	FindByCurrency(ctx context.Context, currency string) (*Pricebook, error)
}
