package entities

import "time"

// BookingResponse is the customer-facing view of a booking.
type BookingResponse struct {
	Code              string    `json:"code"`
	CustomerName      string    `json:"customer_name"`
	CustomerEmail     string    `json:"customer_email"`
	CustomerPhone     string    `json:"customer_phone"`
	CarID             int       `json:"car_id"`
	CarLabel          string    `json:"car_label"`
	PickupDate        time.Time `json:"pickup_date"`
	DropoffDate       time.Time `json:"dropoff_date"`
	PickupLocationID  int       `json:"pickup_location_id"`
	DropoffLocationID int       `json:"dropoff_location_id"`
	TotalPrice        float64   `json:"total_price"`
	Status            string    `json:"status"`
	PaymentStatus     string    `json:"payment_status"`
	CreatedAt         time.Time `json:"created_at"`
	UpdatedAt         time.Time `json:"updated_at"`
}

// StripeSessionResponse is returned when a booking is created: the customer
// finishes payment on the hosted checkout page.
type StripeSessionResponse struct {
	Code      string `json:"code"`
	URL       string `json:"url"`
	SessionID string `json:"session_id"`
}

type BookingEmailData struct {
	CustomerName     string
	BookingCode      string
	CarLabel         string
	PickupFormatted  string
	DropoffFormatted string
	Total            float64
	Status           string
	CurrentYear      int
}
