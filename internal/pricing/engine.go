package pricing

import (
	"context"
	"fmt"
	"time"

	"rentiva/internal/entities"
)

const (
	// DefaultDailyRate is quoted when no pricing rule covers the request.
	// Missing pricing degrades to a flat fallback instead of blocking a booking.
	DefaultDailyRate = 50.0

	weeklyThresholdDays  = 7
	monthlyThresholdDays = 30
)

// RuleSource supplies the pricing rules whose intervals overlap a rental
// period, for a car or its category. Rules must come back ordered by priority
// descending and, on equal priority, by id ascending so day resolution stays
// deterministic.
type RuleSource interface {
	PricingRules(ctx context.Context, orgID, carID, categoryID int, start, end time.Time) ([]entities.PricingRule, error)
}

// Engine resolves the day-by-day rate for a rental interval and applies
// length-of-stay discounts. It is availability-agnostic and purely
// read-then-compute.
type Engine struct {
	rules RuleSource
}

func NewEngine(rules RuleSource) *Engine {
	return &Engine{rules: rules}
}

// RentalDays counts whole calendar days between pickup (inclusive) and
// dropoff (exclusive), rounding partial days up. Returns 0 for inverted or
// empty intervals.
func RentalDays(pickup, dropoff time.Time) int {
	d := dropoff.Sub(pickup)
	if d <= 0 {
		return 0
	}
	days := int(d / (24 * time.Hour))
	if d%(24*time.Hour) != 0 {
		days++
	}
	return days
}

// ComputePrice quotes the base price for one car (or its category) over
// [start, end). Callers must reject inverted or malformed ranges beforehand.
// A rule-fetch failure returns a nil result: pricing unavailable.
func (e *Engine) ComputePrice(ctx context.Context, orgID, carID, categoryID int, start, end time.Time) (*entities.PriceResult, error) {
	days := RentalDays(start, end)

	rules, err := e.rules.PricingRules(ctx, orgID, carID, categoryID, start, end)
	if err != nil {
		return nil, fmt.Errorf("fetching pricing rules: %w", err)
	}

	if len(rules) == 0 {
		return &entities.PriceResult{
			BasePrice:   DefaultDailyRate * float64(days),
			PricePerDay: DefaultDailyRate,
			RentalDays:  days,
		}, nil
	}

	// The highest-priority rule prices any day no more specific rule covers.
	defaultRule := rules[0]

	var total float64
	rate := defaultRule.PricePerDay
	for i := 0; i < days; i++ {
		day := start.AddDate(0, 0, i)
		rate = defaultRule.PricePerDay
		for _, r := range rules {
			if r.Contains(day) {
				rate = r.PricePerDay
				break
			}
		}
		total += rate
	}

	total = applyStayDiscount(total, days, defaultRule)

	return &entities.PriceResult{
		BasePrice:   total,
		PricePerDay: rate,
		RentalDays:  days,
	}, nil
}

// applyStayDiscount applies at most one discount tier, longer threshold first.
func applyStayDiscount(total float64, days int, rule entities.PricingRule) float64 {
	switch {
	case days >= monthlyThresholdDays && rule.MonthlyDiscountPercent != nil:
		return total - total*(*rule.MonthlyDiscountPercent)/100
	case days >= weeklyThresholdDays && rule.WeeklyDiscountPercent != nil:
		return total - total*(*rule.WeeklyDiscountPercent)/100
	}
	return total
}
