package entities

import "time"

// PricingRule is a priced date interval attached to a car or a car category.
// Intervals are calendar days, both ends inclusive. Rules are read-only here;
// the dashboard owns their lifecycle.
type PricingRule struct {
	ID                     int
	OrgID                  int
	CarID                  *int
	CategoryID             *int
	StartDate              time.Time
	EndDate                time.Time
	PricePerDay            float64
	Priority               int
	WeeklyDiscountPercent  *float64
	MonthlyDiscountPercent *float64
}

// Contains reports whether the rule's interval covers the given calendar day.
func (r PricingRule) Contains(day time.Time) bool {
	return !day.Before(r.StartDate) && !day.After(r.EndDate)
}

// PriceResult is the pricing engine's output: the discounted base price and
// the representative daily rate (the rate applied to the last rental day).
type PriceResult struct {
	BasePrice   float64 `json:"base_price"`
	PricePerDay float64 `json:"price_per_day"`
	RentalDays  int     `json:"rental_days"`
}

// PriceQuote is the full customer-facing breakdown. Computed fresh per
// request, never mutated after construction.
type PriceQuote struct {
	BasePrice      float64 `json:"base_price"`
	DailyRate      float64 `json:"daily_rate"`
	RentalDays     int     `json:"rental_days"`
	LocationFees   float64 `json:"location_fees"`
	ExtrasPrice    float64 `json:"extras_price"`
	InsurancePrice float64 `json:"insurance_price"`
	Subtotal       float64 `json:"subtotal"`
	VAT            float64 `json:"vat"`
	Total          float64 `json:"total"`
}
