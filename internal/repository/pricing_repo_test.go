package repository

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPricingRulesScansNullableColumns(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewPricingRepository(db)
	start := time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC)
	end := start.AddDate(0, 0, 3)

	rows := sqlmock.NewRows([]string{
		"id", "org_id", "car_id", "category_id", "start_date", "end_date",
		"price_per_day", "priority", "weekly_discount_percent", "monthly_discount_percent",
	}).
		AddRow(7, 1, 42, nil, start, end, 80.0, 10, nil, nil).
		AddRow(3, 1, nil, 5, start, end, 60.0, 0, 10.0, 20.0)

	mock.ExpectQuery("SELECT (.+) FROM car_pricing").
		WithArgs(1, 42, 5, start, end).
		WillReturnRows(rows)

	rules, err := repo.PricingRules(context.Background(), 1, 42, 5, start, end)
	require.NoError(t, err)
	require.Len(t, rules, 2)

	assert.Equal(t, 7, rules[0].ID)
	require.NotNil(t, rules[0].CarID)
	assert.Equal(t, 42, *rules[0].CarID)
	assert.Nil(t, rules[0].CategoryID)
	assert.Nil(t, rules[0].WeeklyDiscountPercent)
	assert.Nil(t, rules[0].MonthlyDiscountPercent)

	require.NotNil(t, rules[1].CategoryID)
	assert.Equal(t, 5, *rules[1].CategoryID)
	require.NotNil(t, rules[1].WeeklyDiscountPercent)
	assert.Equal(t, 10.0, *rules[1].WeeklyDiscountPercent)
	require.NotNil(t, rules[1].MonthlyDiscountPercent)
	assert.Equal(t, 20.0, *rules[1].MonthlyDiscountPercent)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPricingRulesQueryErrorPropagates(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewPricingRepository(db)
	start := time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC)

	mock.ExpectQuery("SELECT (.+) FROM car_pricing").
		WillReturnError(errors.New("connection reset"))

	_, err = repo.PricingRules(context.Background(), 1, 42, 5, start, start.AddDate(0, 0, 1))
	assert.Error(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPickupFeeMissingLocationIsZero(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewPricingRepository(db)

	mock.ExpectQuery("SELECT extra_pickup_fee FROM locations").
		WithArgs(99).
		WillReturnError(sql.ErrNoRows)

	fee, err := repo.PickupFee(context.Background(), 99)
	require.NoError(t, err)
	assert.Zero(t, fee)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDeliveryFeeReadsSurcharge(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewPricingRepository(db)

	mock.ExpectQuery("SELECT extra_delivery_fee FROM locations").
		WithArgs(3).
		WillReturnRows(sqlmock.NewRows([]string{"extra_delivery_fee"}).AddRow(15.5))

	fee, err := repo.DeliveryFee(context.Background(), 3)
	require.NoError(t, err)
	assert.Equal(t, 15.5, fee)
	assert.NoError(t, mock.ExpectationsWereMet())
}
