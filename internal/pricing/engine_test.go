package pricing

import (
	"context"
	"errors"
	"testing"
	"time"

	"rentiva/internal/entities"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubRules struct {
	rules []entities.PricingRule
	err   error
}

func (s *stubRules) PricingRules(ctx context.Context, orgID, carID, categoryID int, start, end time.Time) ([]entities.PricingRule, error) {
	return s.rules, s.err
}

func day(n int) time.Time {
	return time.Date(2026, time.June, n, 0, 0, 0, 0, time.UTC)
}

func pct(v float64) *float64 { return &v }

func TestRentalDays(t *testing.T) {
	tests := []struct {
		name     string
		pickup   time.Time
		dropoff  time.Time
		expected int
	}{
		{"three whole days", day(3), day(6), 3},
		{"single day", day(1), day(2), 1},
		{"partial day rounds up", day(1), day(2).Add(6 * time.Hour), 2},
		{"zero interval", day(5), day(5), 0},
		{"inverted interval", day(6), day(3), 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, RentalDays(tt.pickup, tt.dropoff))
		})
	}
}

func TestComputePrice_NoRulesFallsBackToDefaultRate(t *testing.T) {
	engine := NewEngine(&stubRules{})

	res, err := engine.ComputePrice(context.Background(), 1, 7, 0, day(1), day(4))
	require.NoError(t, err)
	assert.Equal(t, 150.0, res.BasePrice)
	assert.Equal(t, 50.0, res.PricePerDay)
	assert.Equal(t, 3, res.RentalDays)
}

func TestComputePrice_SingleRuleCoversRange(t *testing.T) {
	engine := NewEngine(&stubRules{rules: []entities.PricingRule{
		{ID: 1, PricePerDay: 40, Priority: 1, StartDate: day(1), EndDate: day(10)},
	}})

	res, err := engine.ComputePrice(context.Background(), 1, 7, 0, day(3), day(6))
	require.NoError(t, err)
	assert.Equal(t, 120.0, res.BasePrice)
	assert.Equal(t, 40.0, res.PricePerDay)
	assert.Equal(t, 3, res.RentalDays)
}

func TestComputePrice_WeeklyDiscount(t *testing.T) {
	engine := NewEngine(&stubRules{rules: []entities.PricingRule{
		{ID: 1, PricePerDay: 40, Priority: 1, StartDate: day(1), EndDate: day(10), WeeklyDiscountPercent: pct(10)},
	}})

	res, err := engine.ComputePrice(context.Background(), 1, 7, 0, day(1), day(8))
	require.NoError(t, err)
	assert.Equal(t, 7, res.RentalDays)
	assert.Equal(t, 252.0, res.BasePrice) // 280 minus 10%
}

func TestComputePrice_MonthlyDiscountWinsOverWeekly(t *testing.T) {
	engine := NewEngine(&stubRules{rules: []entities.PricingRule{
		{
			ID: 1, PricePerDay: 10, Priority: 1,
			StartDate: day(1), EndDate: day(1).AddDate(0, 0, 40),
			WeeklyDiscountPercent:  pct(10),
			MonthlyDiscountPercent: pct(20),
		},
	}})

	res, err := engine.ComputePrice(context.Background(), 1, 7, 0, day(1), day(1).AddDate(0, 0, 30))
	require.NoError(t, err)
	assert.Equal(t, 30, res.RentalDays)
	// 300 minus the monthly 20% only; the weekly tier must not stack.
	assert.Equal(t, 240.0, res.BasePrice)
}

func TestComputePrice_BelowWeeklyThresholdNoDiscount(t *testing.T) {
	engine := NewEngine(&stubRules{rules: []entities.PricingRule{
		{ID: 1, PricePerDay: 40, Priority: 1, StartDate: day(1), EndDate: day(10), WeeklyDiscountPercent: pct(10)},
	}})

	res, err := engine.ComputePrice(context.Background(), 1, 7, 0, day(1), day(7))
	require.NoError(t, err)
	assert.Equal(t, 6, res.RentalDays)
	assert.Equal(t, 240.0, res.BasePrice)
}

func TestComputePrice_HigherPriorityRuleWinsEveryDay(t *testing.T) {
	engine := NewEngine(&stubRules{rules: []entities.PricingRule{
		{ID: 2, PricePerDay: 45, Priority: 2, StartDate: day(1), EndDate: day(10)},
		{ID: 1, PricePerDay: 30, Priority: 1, StartDate: day(1), EndDate: day(10)},
	}})

	res, err := engine.ComputePrice(context.Background(), 1, 7, 0, day(2), day(6))
	require.NoError(t, err)
	assert.Equal(t, 180.0, res.BasePrice)
	assert.Equal(t, 45.0, res.PricePerDay)
}

func TestComputePrice_PriorityTieBreaksOnSmallestID(t *testing.T) {
	// Equal priority: the repository orders by id ascending, and the first
	// containing rule wins, so rule 3 prices every day.
	engine := NewEngine(&stubRules{rules: []entities.PricingRule{
		{ID: 3, PricePerDay: 35, Priority: 1, StartDate: day(1), EndDate: day(10)},
		{ID: 9, PricePerDay: 80, Priority: 1, StartDate: day(1), EndDate: day(10)},
	}})

	res, err := engine.ComputePrice(context.Background(), 1, 7, 0, day(1), day(4))
	require.NoError(t, err)
	assert.Equal(t, 105.0, res.BasePrice)
}

func TestComputePrice_DefaultRuleFillsUncoveredDays(t *testing.T) {
	// The high-priority rule only covers the first two days; the third day has
	// no containing rule and falls back to the default (highest-priority) rate.
	engine := NewEngine(&stubRules{rules: []entities.PricingRule{
		{ID: 2, PricePerDay: 60, Priority: 2, StartDate: day(1), EndDate: day(2)},
	}})

	res, err := engine.ComputePrice(context.Background(), 1, 7, 0, day(1), day(4))
	require.NoError(t, err)
	assert.Equal(t, 180.0, res.BasePrice)
	assert.Equal(t, 60.0, res.PricePerDay)
}

func TestComputePrice_MixedRulesAcrossRange(t *testing.T) {
	// Days 1-2 hit the priority-2 weekend rate, days 3-4 fall through to the
	// priority-1 season rule. The representative rate is the final day's.
	engine := NewEngine(&stubRules{rules: []entities.PricingRule{
		{ID: 2, PricePerDay: 60, Priority: 2, StartDate: day(1), EndDate: day(2)},
		{ID: 1, PricePerDay: 40, Priority: 1, StartDate: day(1), EndDate: day(10)},
	}})

	res, err := engine.ComputePrice(context.Background(), 1, 7, 0, day(1), day(5))
	require.NoError(t, err)
	assert.Equal(t, 200.0, res.BasePrice)
	assert.Equal(t, 40.0, res.PricePerDay)
}

func TestComputePrice_Idempotent(t *testing.T) {
	engine := NewEngine(&stubRules{rules: []entities.PricingRule{
		{ID: 1, PricePerDay: 40, Priority: 1, StartDate: day(1), EndDate: day(10), WeeklyDiscountPercent: pct(10)},
	}})

	first, err := engine.ComputePrice(context.Background(), 1, 7, 0, day(1), day(9))
	require.NoError(t, err)
	second, err := engine.ComputePrice(context.Background(), 1, 7, 0, day(1), day(9))
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestComputePrice_RuleFetchFailure(t *testing.T) {
	engine := NewEngine(&stubRules{err: errors.New("connection refused")})

	res, err := engine.ComputePrice(context.Background(), 1, 7, 0, day(1), day(4))
	assert.Error(t, err)
	assert.Nil(t, res)
}
