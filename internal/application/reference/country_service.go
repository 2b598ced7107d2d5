// Package reference serves reference data used by billing forms.
package reference

import (
	"context"
	"errors"
	"strings"

	"github.com/erp/checkout/internal/domain/reference"
	"github.com/erp/checkout/internal/domain/shared"
)

// CountryService reads enabled billing countries
type CountryService struct {
	countries reference.CountryRepository
}

// NewCountryService creates a new CountryService
func NewCountryService(countries reference.CountryRepository) *CountryService {
	return &CountryService{countries: countries}
}

// ListEnabled returns enabled countries ordered by name
func (s *CountryService) ListEnabled(ctx context.Context) ([]reference.Country, error) {
	return s.countries.ListEnabled(ctx)
}

// GetByISOCode finds an enabled country, ignoring case
func (s *CountryService) GetByISOCode(ctx context.Context, isoCode string) (*reference.Country, error) {
	code := strings.TrimSpace(isoCode)
	if code == "" {
		return nil, shared.NewInvalidInputError("isoCode is required")
	}
	c, err := s.countries.FindEnabledByISOCode(ctx, code)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, shared.NewNotFoundError("Country not found or disabled: " + code)
		}
		return nil, err
	}
	return c, nil
}
