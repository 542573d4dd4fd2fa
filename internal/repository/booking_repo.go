package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"rentiva/internal/db"
)

type BookingRepository struct {
	DB *sql.DB
}

func NewBookingRepository(database *sql.DB) *BookingRepository {
	return &BookingRepository{DB: database}
}

const bookingColumns = `id, code, org_id, car_id, customer_name, customer_email, customer_phone,
	pickup_date, dropoff_date, pickup_location_id, dropoff_location_id,
	total_price, status, payment_status, stripe_session_id, stripe_payment_id, created_at, updated_at`

func (r *BookingRepository) Create(ctx context.Context, b *db.Booking) error {
	query := `
		INSERT INTO bookings
		(code, org_id, car_id, customer_name, customer_email, customer_phone,
		 pickup_date, dropoff_date, pickup_location_id, dropoff_location_id,
		 total_price, status, payment_status, stripe_session_id, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)
		RETURNING id, created_at, updated_at`
	return r.DB.QueryRowContext(ctx, query,
		b.Code, b.OrgID, b.CarID, b.CustomerName, b.CustomerEmail, b.CustomerPhone,
		b.PickupDate, b.DropoffDate, b.PickupLocationID, b.DropoffLocationID,
		b.TotalPrice, b.Status, b.PaymentStatus, b.StripeSessionID, b.CreatedAt, b.UpdatedAt,
	).Scan(&b.ID, &b.CreatedAt, &b.UpdatedAt)
}

// GetByCode returns the booking only when code and customer email both match.
func (r *BookingRepository) GetByCode(ctx context.Context, code, email string) (*db.Booking, error) {
	query := `SELECT ` + bookingColumns + ` FROM bookings WHERE code = $1 AND customer_email = $2`
	return r.scanOne(r.DB.QueryRowContext(ctx, query, code, email))
}

func (r *BookingRepository) GetByCodeOnly(ctx context.Context, code string) (*db.Booking, error) {
	query := `SELECT ` + bookingColumns + ` FROM bookings WHERE code = $1`
	return r.scanOne(r.DB.QueryRowContext(ctx, query, code))
}

func (r *BookingRepository) GetByStripeSessionID(ctx context.Context, sessionID string) (*db.Booking, error) {
	query := `SELECT ` + bookingColumns + ` FROM bookings WHERE stripe_session_id = $1`
	return r.scanOne(r.DB.QueryRowContext(ctx, query, sessionID))
}

func (r *BookingRepository) scanOne(row *sql.Row) (*db.Booking, error) {
	var b db.Booking
	err := row.Scan(
		&b.ID, &b.Code, &b.OrgID, &b.CarID, &b.CustomerName, &b.CustomerEmail, &b.CustomerPhone,
		&b.PickupDate, &b.DropoffDate, &b.PickupLocationID, &b.DropoffLocationID,
		&b.TotalPrice, &b.Status, &b.PaymentStatus, &b.StripeSessionID, &b.StripePaymentID,
		&b.CreatedAt, &b.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("error scanning booking: %w", err)
	}
	return &b, nil
}

func (r *BookingRepository) Cancel(ctx context.Context, code string) error {
	query := `UPDATE bookings SET status = 'canceled', updated_at = NOW() WHERE code = $1`
	res, err := r.DB.ExecContext(ctx, query, code)
	if err != nil {
		return fmt.Errorf("error canceling booking: %w", err)
	}
	n, err := res.RowsAffected()
	if err == nil && n == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// UpdateStatusAndPayment transitions a booking; paymentID may be empty when
// the payment reference is unchanged.
func (r *BookingRepository) UpdateStatusAndPayment(ctx context.Context, id int, status, paymentStatus, paymentID string) error {
	query := `
		UPDATE bookings
		SET status = $1, payment_status = $2,
		    stripe_payment_id = COALESCE(NULLIF($3, ''), stripe_payment_id),
		    updated_at = NOW()
		WHERE id = $4`
	_, err := r.DB.ExecContext(ctx, query, status, paymentStatus, paymentID, id)
	if err != nil {
		return fmt.Errorf("error updating booking status: %w", err)
	}
	return nil
}
