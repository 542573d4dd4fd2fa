package service

import (
	"context"
	"database/sql"
	"errors"
	"sync"
	"time"

	"rentiva/internal/cache"
	"rentiva/internal/db"
	"rentiva/internal/entities"
	httperr "rentiva/internal/errors"
	"rentiva/internal/logger"
	"rentiva/internal/pricing"
)

// OrgSource resolves tenants.
type OrgSource interface {
	GetBySlug(ctx context.Context, slug string) (*db.Organization, error)
	GetByID(ctx context.Context, id int) (*db.Organization, error)
}

// FleetSource reads the bookable fleet and the database-side availability
// predicate.
type FleetSource interface {
	ListBookableCars(ctx context.Context, orgID int, vehicleType string) ([]db.Car, error)
	GetCar(ctx context.Context, orgID, carID int) (*db.Car, error)
	IsCarAvailable(ctx context.Context, carID int, start, end time.Time) (bool, error)
}

// ExtrasSource reads the add-on catalog used by detail quotes.
type ExtrasSource interface {
	ListExtras(ctx context.Context, orgID int) ([]db.Extra, error)
	GetExtrasByIDs(ctx context.Context, orgID int, ids []int) ([]db.Extra, error)
	ListInsuranceTypes(ctx context.Context, orgID int) ([]db.InsuranceType, error)
	GetInsuranceType(ctx context.Context, orgID, id int) (*db.InsuranceType, error)
}

// SearchService runs the availability -> pricing -> fees pipeline over a
// fleet. Per-car failures exclude that car only; request-level failures
// (org, fleet) abort the search.
type SearchService struct {
	orgs        OrgSource
	fleet       FleetSource
	extras      ExtrasSource
	engine      *pricing.Engine
	composer    *pricing.Composer
	quotes      *cache.QuoteCache
	limit       int
	callTimeout time.Duration
}

func NewSearchService(orgs OrgSource, fleet FleetSource, extras ExtrasSource, engine *pricing.Engine, composer *pricing.Composer, quotes *cache.QuoteCache, limit int, callTimeout time.Duration) *SearchService {
	if limit <= 0 {
		limit = 1
	}
	return &SearchService{
		orgs:        orgs,
		fleet:       fleet,
		extras:      extras,
		engine:      engine,
		composer:    composer,
		quotes:      quotes,
		limit:       limit,
		callTimeout: callTimeout,
	}
}

// Search quotes every available car in the organization's fleet. Cars are
// priced concurrently but results keep the fleet's original order.
func (s *SearchService) Search(ctx context.Context, orgSlug string, params entities.SearchParams) (*entities.SearchResponse, error) {
	org, err := s.orgs.GetBySlug(ctx, orgSlug)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, httperr.NotFound("organization not found")
		}
		return nil, httperr.Wrap(500, "failed to load organization", err)
	}

	key := s.quotes.Key(orgSlug, params)
	if resp, ok := s.quotes.Get(ctx, key); ok {
		return resp, nil
	}

	cars, err := s.fleet.ListBookableCars(ctx, org.ID, params.VehicleType)
	if err != nil {
		return nil, httperr.Wrap(500, "failed to load fleet", err)
	}

	results := make([]*entities.CarResult, len(cars))
	sem := make(chan struct{}, s.limit)
	var wg sync.WaitGroup
	for i, car := range cars {
		wg.Add(1)
		sem <- struct{}{}
		go func(i int, car db.Car) {
			defer wg.Done()
			defer func() { <-sem }()
			results[i] = s.quoteCar(ctx, org.ID, car, params)
		}(i, car)
	}
	wg.Wait()

	resp := &entities.SearchResponse{
		Cars:         make([]entities.CarResult, 0, len(cars)),
		SearchParams: params,
	}
	for _, r := range results {
		if r != nil {
			resp.Cars = append(resp.Cars, *r)
		}
	}

	s.quotes.Set(ctx, key, resp)
	return resp, nil
}

// quoteCar runs one car through the pipeline. Any failure, including a
// timeout, excludes the car rather than failing the search.
func (s *SearchService) quoteCar(ctx context.Context, orgID int, car db.Car, params entities.SearchParams) *entities.CarResult {
	cctx, cancel := context.WithTimeout(ctx, s.callTimeout)
	defer cancel()

	available, err := s.fleet.IsCarAvailable(cctx, car.ID, params.PickupDate, params.DropoffDate)
	if err != nil {
		logger.Warn("availability check failed, excluding car", "car_id", car.ID, "error", err)
		return nil
	}
	if !available {
		return nil
	}

	price, err := s.engine.ComputePrice(cctx, orgID, car.ID, car.CategoryID, params.PickupDate, params.DropoffDate)
	if err != nil {
		logger.Warn("pricing unavailable, excluding car", "car_id", car.ID, "error", err)
		return nil
	}

	quote, err := s.composer.ComposeQuote(cctx, price, params.PickupLocationID, params.DropoffLocationID, 0, 0)
	if err != nil {
		logger.Warn("fee composition failed, excluding car", "car_id", car.ID, "error", err)
		return nil
	}

	return &entities.CarResult{Car: car, Quote: *quote}
}

// Quote builds the single-car detail quote. Unlike search, a pricing failure
// here is a hard error: the caller asked about this specific car.
func (s *SearchService) Quote(ctx context.Context, orgSlug string, carID int, params entities.SearchParams, extraIDs []int, insuranceTypeID int) (*entities.QuoteResponse, error) {
	org, err := s.orgs.GetBySlug(ctx, orgSlug)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, httperr.NotFound("organization not found")
		}
		return nil, httperr.Wrap(500, "failed to load organization", err)
	}

	car, err := s.fleet.GetCar(ctx, org.ID, carID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, httperr.NotFound("car not found")
		}
		return nil, httperr.Wrap(500, "failed to load car", err)
	}

	price, err := s.engine.ComputePrice(ctx, org.ID, car.ID, car.CategoryID, params.PickupDate, params.DropoffDate)
	if err != nil {
		return nil, httperr.Wrap(500, "pricing unavailable", err)
	}

	extras, err := s.extras.ListExtras(ctx, org.ID)
	if err != nil {
		return nil, httperr.Wrap(500, "failed to load extras", err)
	}
	insuranceTypes, err := s.extras.ListInsuranceTypes(ctx, org.ID)
	if err != nil {
		return nil, httperr.Wrap(500, "failed to load insurance types", err)
	}

	extrasPrice, insurancePrice, err := addOnPrices(ctx, s.extras, org.ID, extraIDs, insuranceTypeID, price.RentalDays)
	if err != nil {
		return nil, httperr.Wrap(500, "failed to price add-ons", err)
	}

	quote, err := s.composer.ComposeQuote(ctx, price, params.PickupLocationID, params.DropoffLocationID, extrasPrice, insurancePrice)
	if err != nil {
		return nil, httperr.Wrap(500, "failed to compose quote", err)
	}

	return &entities.QuoteResponse{
		Car:            *car,
		Extras:         extras,
		InsuranceTypes: insuranceTypes,
		Breakdown:      *quote,
	}, nil
}

// addOnPrices totals the selected extras and insurance for a rental length.
// Unknown ids are ignored: add-ons never block a quote.
func addOnPrices(ctx context.Context, extras ExtrasSource, orgID int, extraIDs []int, insuranceTypeID, rentalDays int) (float64, float64, error) {
	var extrasPrice float64
	if len(extraIDs) > 0 {
		selected, err := extras.GetExtrasByIDs(ctx, orgID, extraIDs)
		if err != nil {
			return 0, 0, err
		}
		for _, e := range selected {
			if e.PerDay {
				extrasPrice += e.Price * float64(rentalDays)
			} else {
				extrasPrice += e.Price
			}
		}
	}

	var insurancePrice float64
	if insuranceTypeID != 0 {
		it, err := extras.GetInsuranceType(ctx, orgID, insuranceTypeID)
		if err != nil {
			return 0, 0, err
		}
		if it != nil {
			insurancePrice = it.PricePerDay * float64(rentalDays)
		}
	}

	return extrasPrice, insurancePrice, nil
}
