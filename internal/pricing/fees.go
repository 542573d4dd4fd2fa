package pricing

import (
	"context"
	"fmt"
	"math"

	"rentiva/internal/entities"
)

// VATRate is fixed for every organization for now.
const VATRate = 0.24

// FeeSource looks up per-location surcharges. Implementations return 0 for
// unknown locations, never an error.
type FeeSource interface {
	PickupFee(ctx context.Context, locationID int) (float64, error)
	DeliveryFee(ctx context.Context, locationID int) (float64, error)
}

// Composer turns an engine price into the customer-facing quote by adding
// location surcharges, optional add-ons and VAT.
type Composer struct {
	fees FeeSource
}

func NewComposer(fees FeeSource) *Composer {
	return &Composer{fees: fees}
}

// ComposeQuote builds the full breakdown. The two fee lookups are independent
// of each other; a zero location id skips the lookup entirely.
func (c *Composer) ComposeQuote(ctx context.Context, base *entities.PriceResult, pickupLocID, dropoffLocID int, extrasPrice, insurancePrice float64) (*entities.PriceQuote, error) {
	var pickupFee, deliveryFee float64
	var err error

	if pickupLocID != 0 {
		pickupFee, err = c.fees.PickupFee(ctx, pickupLocID)
		if err != nil {
			return nil, fmt.Errorf("fetching pickup fee for location %d: %w", pickupLocID, err)
		}
	}
	if dropoffLocID != 0 {
		deliveryFee, err = c.fees.DeliveryFee(ctx, dropoffLocID)
		if err != nil {
			return nil, fmt.Errorf("fetching delivery fee for location %d: %w", dropoffLocID, err)
		}
	}

	q := &entities.PriceQuote{
		BasePrice:      base.BasePrice,
		DailyRate:      base.PricePerDay,
		RentalDays:     base.RentalDays,
		LocationFees:   pickupFee + deliveryFee,
		ExtrasPrice:    extrasPrice,
		InsurancePrice: insurancePrice,
	}
	q.Subtotal = q.BasePrice + q.LocationFees + q.ExtrasPrice + q.InsurancePrice
	q.VAT = round2(q.Subtotal * VATRate)
	q.Total = round2(q.Subtotal + q.VAT)
	return q, nil
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
