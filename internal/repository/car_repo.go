package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"rentiva/internal/db"
)

type CarRepository struct {
	DB *sql.DB
}

func NewCarRepository(database *sql.DB) *CarRepository {
	return &CarRepository{DB: database}
}

// ListBookableCars returns the organization's active, bookable fleet in a
// stable order. vehicleType optionally narrows by category name.
func (r *CarRepository) ListBookableCars(ctx context.Context, orgID int, vehicleType string) ([]db.Car, error) {
	query := `
		SELECT c.id, c.org_id, c.category_id, cat.name, c.make, c.model, c.year,
		       c.transmission, c.fuel_type, c.seats, COALESCE(c.image_url, '')
		FROM cars c
		JOIN car_categories cat ON cat.id = c.category_id
		WHERE c.org_id = $1 AND c.active = TRUE AND c.bookable = TRUE`
	args := []interface{}{orgID}
	if vehicleType != "" {
		query += " AND cat.name = $2"
		args = append(args, vehicleType)
	}
	query += " ORDER BY c.id"

	rows, err := r.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("error querying bookable cars: %w", err)
	}
	defer rows.Close()

	var cars []db.Car
	for rows.Next() {
		var c db.Car
		if err := rows.Scan(
			&c.ID, &c.OrgID, &c.CategoryID, &c.CategoryName, &c.Make, &c.Model,
			&c.Year, &c.Transmission, &c.FuelType, &c.Seats, &c.ImageURL,
		); err != nil {
			return nil, fmt.Errorf("error scanning car: %w", err)
		}
		cars = append(cars, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error after iterating cars: %w", err)
	}
	return cars, nil
}

// GetCar returns one car from the organization's fleet. sql.ErrNoRows
// propagates for the caller to map to a 404.
func (r *CarRepository) GetCar(ctx context.Context, orgID, carID int) (*db.Car, error) {
	var c db.Car
	query := `
		SELECT c.id, c.org_id, c.category_id, cat.name, c.make, c.model, c.year,
		       c.transmission, c.fuel_type, c.seats, COALESCE(c.image_url, '')
		FROM cars c
		JOIN car_categories cat ON cat.id = c.category_id
		WHERE c.org_id = $1 AND c.id = $2 AND c.active = TRUE`
	err := r.DB.QueryRowContext(ctx, query, orgID, carID).Scan(
		&c.ID, &c.OrgID, &c.CategoryID, &c.CategoryName, &c.Make, &c.Model,
		&c.Year, &c.Transmission, &c.FuelType, &c.Seats, &c.ImageURL,
	)
	if err != nil {
		return nil, err
	}
	return &c, nil
}

// IsCarAvailable invokes the database-side availability predicate. Overlap
// resolution against existing bookings lives in the stored procedure, not here.
func (r *CarRepository) IsCarAvailable(ctx context.Context, carID int, start, end time.Time) (bool, error) {
	var available bool
	err := r.DB.QueryRowContext(ctx, `SELECT is_car_available($1, $2, $3)`, carID, start, end).Scan(&available)
	if err != nil {
		return false, fmt.Errorf("error checking car availability: %w", err)
	}
	return available, nil
}
