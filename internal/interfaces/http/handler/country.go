package handler

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/samber/lo"

	"github.com/erp/checkout/internal/domain/reference"
	"github.com/erp/checkout/internal/interfaces/http/middleware"
)

// CountryReader reads enabled countries
type CountryReader interface {
	ListEnabled(ctx context.Context) ([]reference.Country, error)
	GetByISOCode(ctx context.Context, isoCode string) (*reference.Country, error)
}

// CountryHandler serves the country lookup used by billing forms
type CountryHandler struct {
	BaseHandler
	countries CountryReader
}

// NewCountryHandler creates a new CountryHandler
func NewCountryHandler(countries CountryReader) *CountryHandler {
	return &CountryHandler{countries: countries}
}

// CountryResponse is an enabled country
type CountryResponse struct {
	ISOCode  string `json:"isoCode" example:"IN"`
	Name     string `json:"name" example:"India"`
	Currency string `json:"currency" example:"INR"`
}

type countryURI struct {
	ISOCode string `uri:"isoCode" binding:"required,iso2"`
}

func newCountryResponse(c reference.Country) CountryResponse {
	return CountryResponse{ISOCode: c.ISOCode, Name: c.Name, Currency: c.Currency}
}

// ListCountries godoc
//
//	@ID				listCountries
//	@Summary		List enabled countries
//	@Tags			reference
//	@Produce		json
//	@Success		200	{object}	APIResponse[[]CountryResponse]
//	@Router			/countries [get]
func (h *CountryHandler) ListCountries(c *gin.Context) {
	countries, err := h.countries.ListEnabled(c.Request.Context())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, lo.Map(countries, func(ct reference.Country, _ int) CountryResponse {
		return newCountryResponse(ct)
	}))
}

// GetCountry godoc
//
//	@ID				getCountry
//	@Summary		Get an enabled country by ISO code
//	@Tags			reference
//	@Produce		json
//	@Param			isoCode	path		string	true	"ISO 3166 code"
//	@Success		200		{object}	APIResponse[CountryResponse]
//	@Failure		400		{object}	ErrorResponse
//	@Failure		404		{object}	ErrorResponse
//	@Router			/countries/{isoCode} [get]
func (h *CountryHandler) GetCountry(c *gin.Context) {
	var uri countryURI
	if err := c.ShouldBindUri(&uri); err != nil {
		middleware.HandleValidationError(c, err)
		return
	}
	country, err := h.countries.GetByISOCode(c.Request.Context(), uri.ISOCode)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, newCountryResponse(*country))
}
