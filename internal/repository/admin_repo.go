package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strconv"
	"time"

	"rentiva/internal/db"
	"rentiva/internal/entities"
)

// AdminRepository backs the dashboard API: pricing-rule CRUD, location fees
// and booking listings.
type AdminRepository struct {
	DB *sql.DB
}

func NewAdminRepository(database *sql.DB) *AdminRepository {
	return &AdminRepository{DB: database}
}

func (r *AdminRepository) ListPricingRules(ctx context.Context, orgID int) ([]entities.PricingRule, error) {
	query := `
		SELECT id, org_id, car_id, category_id, start_date, end_date,
		       price_per_day, priority, weekly_discount_percent, monthly_discount_percent
		FROM car_pricing
		WHERE org_id = $1
		ORDER BY start_date, priority DESC, id`
	rows, err := r.DB.QueryContext(ctx, query, orgID)
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
	return rules, rows.Err()
}

func (r *AdminRepository) CreatePricingRule(ctx context.Context, rule *entities.PricingRule) error {
	query := `
		INSERT INTO car_pricing
		(org_id, car_id, category_id, start_date, end_date, price_per_day, priority,
		 weekly_discount_percent, monthly_discount_percent)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING id`
	return r.DB.QueryRowContext(ctx, query,
		rule.OrgID, nullableInt(rule.CarID), nullableInt(rule.CategoryID),
		rule.StartDate, rule.EndDate, rule.PricePerDay, rule.Priority,
		nullableFloat(rule.WeeklyDiscountPercent), nullableFloat(rule.MonthlyDiscountPercent),
	).Scan(&rule.ID)
}

func (r *AdminRepository) UpdatePricingRule(ctx context.Context, rule *entities.PricingRule) error {
	query := `
		UPDATE car_pricing
		SET car_id = $1, category_id = $2, start_date = $3, end_date = $4,
		    price_per_day = $5, priority = $6,
		    weekly_discount_percent = $7, monthly_discount_percent = $8
		WHERE id = $9 AND org_id = $10`
	res, err := r.DB.ExecContext(ctx, query,
		nullableInt(rule.CarID), nullableInt(rule.CategoryID),
		rule.StartDate, rule.EndDate, rule.PricePerDay, rule.Priority,
		nullableFloat(rule.WeeklyDiscountPercent), nullableFloat(rule.MonthlyDiscountPercent),
		rule.ID, rule.OrgID,
	)
	if err != nil {
		return fmt.Errorf("error updating pricing rule: %w", err)
	}
	n, err := res.RowsAffected()
	if err == nil && n == 0 {
		return sql.ErrNoRows
	}
	return nil
}

func (r *AdminRepository) DeletePricingRule(ctx context.Context, orgID, ruleID int) error {
	res, err := r.DB.ExecContext(ctx, `DELETE FROM car_pricing WHERE id = $1 AND org_id = $2`, ruleID, orgID)
	if err != nil {
		return fmt.Errorf("error deleting pricing rule: %w", err)
	}
	n, err := res.RowsAffected()
	if err == nil && n == 0 {
		return sql.ErrNoRows
	}
	return nil
}

func (r *AdminRepository) UpdateLocationFees(ctx context.Context, orgID, locationID int, pickupFee, deliveryFee float64) error {
	res, err := r.DB.ExecContext(ctx, `
		UPDATE locations
		SET extra_pickup_fee = $1, extra_delivery_fee = $2
		WHERE id = $3 AND org_id = $4`,
		pickupFee, deliveryFee, locationID, orgID,
	)
	if err != nil {
		return fmt.Errorf("error updating location fees: %w", err)
	}
	n, err := res.RowsAffected()
	if err == nil && n == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// ListBookings filters the organization's bookings by pickup date and status.
func (r *AdminRepository) ListBookings(ctx context.Context, orgID int, date time.Time, status string) ([]db.Booking, error) {
	query := `SELECT ` + bookingColumns + ` FROM bookings WHERE org_id = $1`
	args := []interface{}{orgID}
	idx := 2

	if !date.IsZero() {
		query += " AND DATE(pickup_date) = $" + strconv.Itoa(idx)
		args = append(args, date)
		idx++
	}
	if status != "" {
		query += " AND status = $" + strconv.Itoa(idx)
		args = append(args, status)
		idx++
	}
	query += " ORDER BY pickup_date DESC"

	rows, err := r.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("error querying bookings: %w", err)
	}
	defer rows.Close()

	var bookings []db.Booking
	for rows.Next() {
		var b db.Booking
		if err := rows.Scan(
			&b.ID, &b.Code, &b.OrgID, &b.CarID, &b.CustomerName, &b.CustomerEmail, &b.CustomerPhone,
			&b.PickupDate, &b.DropoffDate, &b.PickupLocationID, &b.DropoffLocationID,
			&b.TotalPrice, &b.Status, &b.PaymentStatus, &b.StripeSessionID, &b.StripePaymentID,
			&b.CreatedAt, &b.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("error scanning booking: %w", err)
		}
		bookings = append(bookings, b)
	}
	return bookings, rows.Err()
}

func nullableInt(v *int) sql.NullInt64 {
	if v == nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: int64(*v), Valid: true}
}

func nullableFloat(v *float64) sql.NullFloat64 {
	if v == nil {
		return sql.NullFloat64{}
	}
	return sql.NullFloat64{Float64: *v, Valid: true}
}
