package api

import (
	"fmt"
	"time"

	"rentiva/internal/entities"
)

// SearchRequest is the public search body. Times are optional; dates alone
// drive day counting.
type SearchRequest struct {
	PickupDate        string `json:"pickup_date" validate:"required,datetime=2006-01-02"`
	PickupTime        string `json:"pickup_time" validate:"omitempty,datetime=15:04"`
	PickupLocationID  int    `json:"pickup_location_id" validate:"required,gt=0"`
	DropoffDate       string `json:"dropoff_date" validate:"required,datetime=2006-01-02"`
	DropoffTime       string `json:"dropoff_time" validate:"omitempty,datetime=15:04"`
	DropoffLocationID int    `json:"dropoff_location_id" validate:"required,gt=0"`
	VehicleType       string `json:"vehicle_type"`
}

// ToParams parses and checks the requested interval.
func (r SearchRequest) ToParams() (entities.SearchParams, error) {
	pickup, err := parseDateTime(r.PickupDate, r.PickupTime)
	if err != nil {
		return entities.SearchParams{}, fmt.Errorf("invalid pickup date: %w", err)
	}
	dropoff, err := parseDateTime(r.DropoffDate, r.DropoffTime)
	if err != nil {
		return entities.SearchParams{}, fmt.Errorf("invalid dropoff date: %w", err)
	}
	if !dropoff.After(pickup) {
		return entities.SearchParams{}, fmt.Errorf("dropoff must be after pickup")
	}
	return entities.SearchParams{
		PickupDate:        pickup,
		DropoffDate:       dropoff,
		PickupLocationID:  r.PickupLocationID,
		DropoffLocationID: r.DropoffLocationID,
		VehicleType:       r.VehicleType,
	}, nil
}

type CreateBookingRequest struct {
	CarID             int    `json:"car_id" validate:"required,gt=0"`
	CustomerName      string `json:"customer_name" validate:"required"`
	CustomerEmail     string `json:"customer_email" validate:"required,email"`
	CustomerPhone     string `json:"customer_phone" validate:"required"`
	PickupDate        string `json:"pickup_date" validate:"required,datetime=2006-01-02"`
	PickupTime        string `json:"pickup_time" validate:"omitempty,datetime=15:04"`
	PickupLocationID  int    `json:"pickup_location_id" validate:"required,gt=0"`
	DropoffDate       string `json:"dropoff_date" validate:"required,datetime=2006-01-02"`
	DropoffTime       string `json:"dropoff_time" validate:"omitempty,datetime=15:04"`
	DropoffLocationID int    `json:"dropoff_location_id" validate:"required,gt=0"`
	ExtraIDs          []int  `json:"extra_ids"`
	InsuranceTypeID   int    `json:"insurance_type_id"`
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type LoginResponse struct {
	Token string `json:"token"`
}

// PricingRuleRequest is the dashboard's rule payload. Exactly one of car_id
// and category_id should be set; both empty makes the rule unreachable.
type PricingRuleRequest struct {
	CarID                  *int     `json:"car_id"`
	CategoryID             *int     `json:"category_id"`
	StartDate              string   `json:"start_date" validate:"required,datetime=2006-01-02"`
	EndDate                string   `json:"end_date" validate:"required,datetime=2006-01-02"`
	PricePerDay            float64  `json:"price_per_day" validate:"required,gt=0"`
	Priority               int      `json:"priority" validate:"gte=0"`
	WeeklyDiscountPercent  *float64 `json:"weekly_discount_percent" validate:"omitempty,gte=0,lte=100"`
	MonthlyDiscountPercent *float64 `json:"monthly_discount_percent" validate:"omitempty,gte=0,lte=100"`
}

func (r PricingRuleRequest) ToRule(orgID int) (entities.PricingRule, error) {
	start, err := time.Parse("2006-01-02", r.StartDate)
	if err != nil {
		return entities.PricingRule{}, fmt.Errorf("invalid start date: %w", err)
	}
	end, err := time.Parse("2006-01-02", r.EndDate)
	if err != nil {
		return entities.PricingRule{}, fmt.Errorf("invalid end date: %w", err)
	}
	if end.Before(start) {
		return entities.PricingRule{}, fmt.Errorf("end date must not precede start date")
	}
	return entities.PricingRule{
		OrgID:                  orgID,
		CarID:                  r.CarID,
		CategoryID:             r.CategoryID,
		StartDate:              start,
		EndDate:                end,
		PricePerDay:            r.PricePerDay,
		Priority:               r.Priority,
		WeeklyDiscountPercent:  r.WeeklyDiscountPercent,
		MonthlyDiscountPercent: r.MonthlyDiscountPercent,
	}, nil
}

type LocationFeesRequest struct {
	ExtraPickupFee   float64 `json:"extra_pickup_fee" validate:"gte=0"`
	ExtraDeliveryFee float64 `json:"extra_delivery_fee" validate:"gte=0"`
}

func parseDateTime(date, clock string) (time.Time, error) {
	if clock != "" {
		return time.Parse("2006-01-02 15:04", date+" "+clock)
	}
	return time.Parse("2006-01-02", date)
}
