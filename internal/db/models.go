package db

import "time"

type Organization struct {
	ID        int       `json:"id"`
	Slug      string    `json:"slug"`
	Name      string    `json:"name"`
	Currency  string    `json:"currency"`
	CreatedAt time.Time `json:"created_at"`
}

type Car struct {
	ID           int     `json:"id"`
	OrgID        int     `json:"org_id"`
	CategoryID   int     `json:"category_id"`
	CategoryName string  `json:"category_name"`
	Make         string  `json:"make"`
	Model        string  `json:"model"`
	Year         int     `json:"year"`
	Transmission string  `json:"transmission"`
	FuelType     string  `json:"fuel_type"`
	Seats        int     `json:"seats"`
	ImageURL     string  `json:"image_url,omitempty"`
	Active       bool    `json:"-"`
	Bookable     bool    `json:"-"`
}

type Location struct {
	ID               int     `json:"id"`
	OrgID            int     `json:"org_id"`
	Name             string  `json:"name"`
	ExtraPickupFee   float64 `json:"extra_pickup_fee"`
	ExtraDeliveryFee float64 `json:"extra_delivery_fee"`
}

type Extra struct {
	ID       int     `json:"id"`
	OrgID    int     `json:"org_id"`
	Name     string  `json:"name"`
	Price    float64 `json:"price"`
	PerDay   bool    `json:"per_day"`
}

type InsuranceType struct {
	ID          int     `json:"id"`
	OrgID       int     `json:"org_id"`
	Name        string  `json:"name"`
	PricePerDay float64 `json:"price_per_day"`
	Description string  `json:"description,omitempty"`
}

type Booking struct {
	ID                int       `json:"id"`
	Code              string    `json:"code"`
	OrgID             int       `json:"org_id"`
	CarID             int       `json:"car_id"`
	CustomerName      string    `json:"customer_name"`
	CustomerEmail     string    `json:"customer_email"`
	CustomerPhone     string    `json:"customer_phone"`
	PickupDate        time.Time `json:"pickup_date"`
	DropoffDate       time.Time `json:"dropoff_date"`
	PickupLocationID  int       `json:"pickup_location_id"`
	DropoffLocationID int       `json:"dropoff_location_id"`
	TotalPrice        float64   `json:"total_price"`
	Status            string    `json:"status"`
	PaymentStatus     string    `json:"payment_status"`
	StripeSessionID   string    `json:"-"`
	StripePaymentID   string    `json:"-"`
	CreatedAt         time.Time `json:"created_at"`
	UpdatedAt         time.Time `json:"updated_at"`
}

type Admin struct {
	ID           int
	Email        string
	PasswordHash string
}
