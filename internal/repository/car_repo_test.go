package repository

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func carColumns() []string {
	return []string{"id", "org_id", "category_id", "name", "make", "model", "year",
		"transmission", "fuel_type", "seats", "image_url"}
}

func TestListBookableCarsFiltersByCategoryName(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewCarRepository(db)

	rows := sqlmock.NewRows(carColumns()).
		AddRow(1, 1, 2, "suv", "Toyota", "RAV4", 2023, "automatic", "hybrid", 5, "").
		AddRow(4, 1, 2, "suv", "Kia", "Sportage", 2022, "manual", "petrol", 5, "https://cdn/img.jpg")

	mock.ExpectQuery("SELECT (.+) FROM cars c").
		WithArgs(1, "suv").
		WillReturnRows(rows)

	cars, err := repo.ListBookableCars(context.Background(), 1, "suv")
	require.NoError(t, err)
	require.Len(t, cars, 2)
	assert.Equal(t, 1, cars[0].ID)
	assert.Equal(t, "RAV4", cars[0].Model)
	assert.Equal(t, 4, cars[1].ID)
	assert.Equal(t, "suv", cars[1].CategoryName)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetCarNotFound(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewCarRepository(db)

	mock.ExpectQuery("SELECT (.+) FROM cars c").
		WithArgs(1, 999).
		WillReturnError(sql.ErrNoRows)

	_, err = repo.GetCar(context.Background(), 1, 999)
	assert.ErrorIs(t, err, sql.ErrNoRows)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestIsCarAvailable(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewCarRepository(db)
	start := time.Date(2026, 7, 1, 10, 0, 0, 0, time.UTC)
	end := start.AddDate(0, 0, 4)

	mock.ExpectQuery("SELECT is_car_available").
		WithArgs(42, start, end).
		WillReturnRows(sqlmock.NewRows([]string{"is_car_available"}).AddRow(false))

	available, err := repo.IsCarAvailable(context.Background(), 42, start, end)
	require.NoError(t, err)
	assert.False(t, available)
	assert.NoError(t, mock.ExpectationsWereMet())
}
