package entities

import (
	"time"

	"rentiva/internal/db"
)

// SearchParams is the parsed, validated customer request echoed back in the
// search response. Pickup is inclusive, dropoff exclusive for day counting.
type SearchParams struct {
	PickupDate        time.Time `json:"pickup_date"`
	DropoffDate       time.Time `json:"dropoff_date"`
	PickupLocationID  int       `json:"pickup_location_id"`
	DropoffLocationID int       `json:"dropoff_location_id"`
	VehicleType       string    `json:"vehicle_type,omitempty"`
}

// CarResult is one car in a search listing together with its quote.
type CarResult struct {
	Car   db.Car     `json:"car"`
	Quote PriceQuote `json:"pricing"`
}

type SearchResponse struct {
	Cars         []CarResult  `json:"cars"`
	SearchParams SearchParams `json:"search_params"`
}

// QuoteResponse is the single-car detail quote.
type QuoteResponse struct {
	Car            db.Car             `json:"car"`
	Extras         []db.Extra         `json:"extras"`
	InsuranceTypes []db.InsuranceType `json:"insurance_types"`
	Breakdown      PriceQuote         `json:"pricing_breakdown"`
}
