package checkout

import (
	"sort"
	"strings"

	"github.com/erp/checkout/internal/domain/plan"
	"github.com/google/uuid"
	"github.com/samber/lo"
	"github.com/shopspring/decimal"
)

// PlanView is the read model of a plan shown next to a checkout
type PlanView struct {
	PlanID          uuid.UUID
	PlanCode        string
	Name            string
	Description     string
	Category        string
	IntervalUnit    string
	TrialPeriodDays int
	LicenseLimit    *int
	IsActive        bool
	Features        []PlanFeatureView
	Prices          []PlanPriceView
}

// PlanFeatureView is one plan feature. A nil Limit is unlimited.
type PlanFeatureView struct {
	Key       string
	Name      string
	Limit     *int
	SortOrder int
}

// PlanPriceView is the plan price in one currency
type PlanPriceView struct {
	Currency string
	Amount   decimal.Decimal
}

// NewPlanView builds the read model; features keep catalog order and
// prices are sorted by currency
func NewPlanView(p *plan.Plan) *PlanView {
	if p == nil {
		return nil
	}
	prices := lo.Map(p.Prices, func(pr plan.Price, _ int) PlanPriceView {
		return PlanPriceView{Currency: strings.ToUpper(pr.Currency), Amount: pr.Amount}
	})
	sort.SliceStable(prices, func(i, j int) bool { return prices[i].Currency < prices[j].Currency })

	return &PlanView{
		PlanID:          p.ID,
		PlanCode:        p.ExternalPlanCode,
		Name:            p.Name,
		Description:     p.Description,
		Category:        p.Category,
		IntervalUnit:    p.NormalizedInterval(),
		TrialPeriodDays: p.TrialPeriodDays,
		LicenseLimit:    p.LicenseLimit,
		IsActive:        p.IsActive,
		Features: lo.Map(p.SortedFeatures(), func(f plan.Feature, _ int) PlanFeatureView {
			return PlanFeatureView{Key: f.Key, Name: f.Name, Limit: f.Limit, SortOrder: f.SortOrder}
		}),
		Prices: prices,
	}
}
