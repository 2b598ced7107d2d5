// Package plan holds the subscription plan catalog: plans, their features,
// per-currency prices and the pricebooks that group prices by currency.
package plan

import (
	"sort"
	"strings"
	"time"

	"github.com/erp/checkout/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Normalized interval units
const (
	IntervalMonth = "MONTH"
	IntervalYear  = "YEAR"
	IntervalWeek  = "WEEK"
	IntervalDay   = "DAY"
	IntervalNone  = "NONE"
)

// Plan is a purchasable subscription plan. ExternalPlanCode is the code
// shared with the payment provider.
type Plan struct {
	shared.BaseEntity
	ExternalPlanCode string
	Name             string
	Description      string
	Category         string
	IsActive         bool
	IntervalUnit     string
	TrialPeriodDays  int
	LicenseLimit     *int
	Features         []Feature
	Prices           []Price
}

// Feature is a quota-bearing capability granted by a plan. A nil Limit is unlimited.
type Feature struct {
	ID        uuid.UUID
	PlanID    uuid.UUID
	Key       string
	Name      string
	Limit     *int
	SortOrder int
}

// Price is the amount charged for a plan in one currency
type Price struct {
	ID       uuid.UUID
	PlanID   uuid.UUID
	Currency string
	Amount   decimal.Decimal
}

// Pricebook maps a currency to the provider pricebook id
type Pricebook struct {
	ID          uuid.UUID
	PricebookID string
	Currency    string
	IsActive    bool
}

// PriceFor returns the price for a currency (case-insensitive)
func (p *Plan) PriceFor(currency string) (Price, bool) {
	for _, pr := range p.Prices {
		if strings.EqualFold(pr.Currency, currency) {
			return pr, true
		}
	}
	return Price{}, false
}

// SortedFeatures returns features ordered by sort order, then key
func (p *Plan) SortedFeatures() []Feature {
	out := append([]Feature(nil), p.Features...)
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].SortOrder != out[j].SortOrder {
			return out[i].SortOrder < out[j].SortOrder
		}
		return out[i].Key < out[j].Key
	})
	return out
}

// NormalizedInterval returns MONTH, YEAR, WEEK, DAY or NONE, or the
// upper-cased raw unit when it is not recognized
func (p *Plan) NormalizedInterval() string {
	return NormalizeIntervalUnit(p.IntervalUnit)
}

// TermEnd computes the end of the first billing term starting at start.
// Unrecognized units yield nil, an open-ended term.
func (p *Plan) TermEnd(start time.Time) *time.Time {
	var end time.Time
	switch NormalizeIntervalUnit(p.IntervalUnit) {
	case IntervalMonth:
		end = addMonths(start, 1)
	case IntervalYear:
		end = addMonths(start, 12)
	case IntervalWeek:
		end = start.AddDate(0, 0, 7)
	case IntervalDay:
		end = start.AddDate(0, 0, 1)
	default:
		return nil
	}
	return &end
}

// addMonths moves start forward by n calendar months, clamping the day to the
// last day of the target month (Jan 31 + 1 month is Feb 28 or 29).
func addMonths(start time.Time, n int) time.Time {
	y, m, d := start.Date()
	first := time.Date(y, m+time.Month(n), 1, 0, 0, 0, 0, start.Location())
	if last := first.AddDate(0, 1, -1).Day(); d > last {
		d = last
	}
	hh, mm, ss := start.Clock()
	return time.Date(first.Year(), first.Month(), d, hh, mm, ss, start.Nanosecond(), start.Location())
}

// TrialEnd returns start plus the trial period, or nil when the plan has no trial
func (p *Plan) TrialEnd(start time.Time) *time.Time {
	if p.TrialPeriodDays <= 0 {
		return nil
	}
	end := start.AddDate(0, 0, p.TrialPeriodDays)
	return &end
}

// NormalizeIntervalUnit maps free-form interval units by prefix:
// "mon" is MONTH, "y" or "ann" is YEAR, "week" is WEEK, "day" is DAY.
func NormalizeIntervalUnit(raw string) string {
	v := strings.ToLower(strings.TrimSpace(raw))
	switch {
	case v == "":
		return IntervalNone
	case strings.HasPrefix(v, "mon"):
		return IntervalMonth
	case strings.HasPrefix(v, "y"), strings.HasPrefix(v, "ann"):
		return IntervalYear
	case strings.HasPrefix(v, "week"):
		return IntervalWeek
	case strings.HasPrefix(v, "day"):
		return IntervalDay
	case strings.HasPrefix(v, "none"):
		return IntervalNone
	}
	return strings.ToUpper(strings.TrimSpace(raw))
}
