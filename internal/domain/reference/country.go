// Package reference holds read-mostly reference data used by billing forms.
package reference

import "context"

// Country is a selectable billing country
type Country struct {
	ID       int64
	ISOCode  string
	Name     string
	Currency string
	Enabled  bool
}

// CountryRepository reads countries
type CountryRepository interface {
	// ListEnabled returns enabled countries ordered by name
	ListEnabled(ctx context.Context) ([]Country, error)
	// FindEnabledByISOCode matches the ISO code case-insensitively.
	// Disabled or missing countries yield shared.ErrNotFound.
	FindEnabledByISOCode(ctx context.Context, isoCode string) (*Country, error)
}
