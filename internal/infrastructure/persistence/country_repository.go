package persistence

import (
	"context"
	"strings"

	"github.com/erp/checkout/internal/domain/reference"
	"github.com/erp/checkout/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
)

// GormCountryRepository implements reference.CountryRepository using GORM
type GormCountryRepository struct {
	db *gorm.DB
}

// NewGormCountryRepository creates a new GormCountryRepository
func NewGormCountryRepository(db *gorm.DB) *GormCountryRepository {
	return &GormCountryRepository{db: db}
}

// ListEnabled lists enabled countries ordered by name
func (r *GormCountryRepository) ListEnabled(ctx context.Context) ([]reference.Country, error) {
	var rows []models.CountryModel
	if err := conn(ctx, r.db).
		Where("enabled = ?", true).
		Order("name ASC").
		Find(&rows).Error; err != nil {
		return nil, err
	}
	countries := make([]reference.Country, len(rows))
	for i := range rows {
		countries[i] = rows[i].ToDomain()
	}
	return countries, nil
}

// FindEnabledByISOCode finds an enabled country by ISO code
func (r *GormCountryRepository) FindEnabledByISOCode(ctx context.Context, isoCode string) (*reference.Country, error) {
	var model models.CountryModel
	if err := conn(ctx, r.db).
		Where("UPPER(iso_code) = ? AND enabled = ?", strings.ToUpper(strings.TrimSpace(isoCode)), true).
		First(&model).Error; err != nil {
		return nil, translateNotFound(err)
	}
	country := model.ToDomain()
	return &country, nil
}
