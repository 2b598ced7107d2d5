package models

import "github.com/erp/checkout/internal/domain/reference"

// CountryModel is the persistence model for a billing country
type CountryModel struct {
	ID       int64  `gorm:"primaryKey;autoIncrement"`
	ISOCode  string `gorm:"column:iso_code;type:varchar(3);not null;uniqueIndex"`
	Name     string `gorm:"type:varchar(100);not null"`
	Currency string `gorm:"type:varchar(10)"`
	Enabled  bool   `gorm:"not null;default:true"`
}

// TableName returns the table name for GORM
func (CountryModel) TableName() string {
	return "countries"
}

// ToDomain converts the persistence model to a domain Country
func (m *CountryModel) ToDomain() reference.Country {
	return reference.Country{
		ID:       m.ID,
		ISOCode:  m.ISOCode,
		Name:     m.Name,
		Currency: m.Currency,
		Enabled:  m.Enabled,
	}
}
