package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"rentiva/internal/entities"
)

// PricingRepository reads pricing rules and location surcharges. Everything
// here is read-only; the dashboard owns writes.
type PricingRepository struct {
	DB *sql.DB
}

func NewPricingRepository(db *sql.DB) *PricingRepository {
	return &PricingRepository{DB: db}
}

// PricingRules returns the rules overlapping [start, end) for the car or its
// category, ordered by priority descending then id ascending. The id ordering
// is the tie-break for equal-priority rules covering the same day.
func (r *PricingRepository) PricingRules(ctx context.Context, orgID, carID, categoryID int, start, end time.Time) ([]entities.PricingRule, error) {
	query := `
		SELECT id, org_id, car_id, category_id, start_date, end_date,
		       price_per_day, priority, weekly_discount_percent, monthly_discount_percent
		FROM car_pricing
		WHERE org_id = $1
		  AND (car_id = $2 OR category_id = $3)
		  AND start_date <= $5
		  AND end_date >= $4
		ORDER BY priority DESC, id ASC`

	rows, err := r.DB.QueryContext(ctx, query, orgID, carID, categoryID, start, end)
	if err != nil {
		return nil, fmt.Errorf("error querying pricing rules: %w", err)
	}
	defer rows.Close()

	var rules []entities.PricingRule
	for rows.Next() {
		var (
			rule       entities.PricingRule
			carRef     sql.NullInt64
			catRef     sql.NullInt64
			weeklyPct  sql.NullFloat64
			monthlyPct sql.NullFloat64
		)
		if err := rows.Scan(
			&rule.ID, &rule.OrgID, &carRef, &catRef, &rule.StartDate, &rule.EndDate,
			&rule.PricePerDay, &rule.Priority, &weeklyPct, &monthlyPct,
		); err != nil {
			return nil, fmt.Errorf("error scanning pricing rule: %w", err)
		}
		if carRef.Valid {
			v := int(carRef.Int64)
			rule.CarID = &v
		}
		if catRef.Valid {
			v := int(catRef.Int64)
			rule.CategoryID = &v
		}
		if weeklyPct.Valid {
			rule.WeeklyDiscountPercent = &weeklyPct.Float64
		}
		if monthlyPct.Valid {
			rule.MonthlyDiscountPercent = &monthlyPct.Float64
		}
		rules = append(rules, rule)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error after iterating pricing rules: %w", err)
	}
	return rules, nil
}

// PickupFee returns the pickup surcharge for a location, 0 when the location
// does not exist.
func (r *PricingRepository) PickupFee(ctx context.Context, locationID int) (float64, error) {
	return r.locationFee(ctx, locationID, "extra_pickup_fee")
}

// DeliveryFee returns the dropoff surcharge for a location, 0 when the
// location does not exist.
func (r *PricingRepository) DeliveryFee(ctx context.Context, locationID int) (float64, error) {
	return r.locationFee(ctx, locationID, "extra_delivery_fee")
}

func (r *PricingRepository) locationFee(ctx context.Context, locationID int, column string) (float64, error) {
	var fee float64
	query := fmt.Sprintf("SELECT %s FROM locations WHERE id = $1", column)
	err := r.DB.QueryRowContext(ctx, query, locationID).Scan(&fee)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, nil
		}
		return 0, fmt.Errorf("error querying location fee: %w", err)
	}
	return fee, nil
}
