package service

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"rentiva/internal/db"
	"rentiva/internal/entities"
	httperr "rentiva/internal/errors"
	"rentiva/internal/pricing"
)

type fakeOrgs struct {
	orgs map[string]*db.Organization
}

func (f *fakeOrgs) GetBySlug(_ context.Context, slug string) (*db.Organization, error) {
	if org, ok := f.orgs[slug]; ok {
		return org, nil
	}
	return nil, sql.ErrNoRows
}

func (f *fakeOrgs) GetByID(_ context.Context, id int) (*db.Organization, error) {
	for _, org := range f.orgs {
		if org.ID == id {
			return org, nil
		}
	}
	return nil, sql.ErrNoRows
}

type fakeFleet struct {
	cars        []db.Car
	unavailable map[int]bool
	availErr    map[int]error
}

func (f *fakeFleet) ListBookableCars(_ context.Context, _ int, vehicleType string) ([]db.Car, error) {
	if vehicleType == "" {
		return f.cars, nil
	}
	var filtered []db.Car
	for _, c := range f.cars {
		if c.CategoryName == vehicleType {
			filtered = append(filtered, c)
		}
	}
	return filtered, nil
}

func (f *fakeFleet) GetCar(_ context.Context, _, carID int) (*db.Car, error) {
	for i := range f.cars {
		if f.cars[i].ID == carID {
			return &f.cars[i], nil
		}
	}
	return nil, sql.ErrNoRows
}

func (f *fakeFleet) IsCarAvailable(_ context.Context, carID int, _, _ time.Time) (bool, error) {
	if err := f.availErr[carID]; err != nil {
		return false, err
	}
	return !f.unavailable[carID], nil
}

type fakeExtras struct {
	extras    []db.Extra
	insurance []db.InsuranceType
}

func (f *fakeExtras) ListExtras(_ context.Context, _ int) ([]db.Extra, error) {
	return f.extras, nil
}

func (f *fakeExtras) GetExtrasByIDs(_ context.Context, _ int, ids []int) ([]db.Extra, error) {
	var selected []db.Extra
	for _, e := range f.extras {
		for _, id := range ids {
			if e.ID == id {
				selected = append(selected, e)
			}
		}
	}
	return selected, nil
}

func (f *fakeExtras) ListInsuranceTypes(_ context.Context, _ int) ([]db.InsuranceType, error) {
	return f.insurance, nil
}

func (f *fakeExtras) GetInsuranceType(_ context.Context, _, id int) (*db.InsuranceType, error) {
	for i := range f.insurance {
		if f.insurance[i].ID == id {
			return &f.insurance[i], nil
		}
	}
	return nil, nil
}

// failingRules errors per car id; otherwise there are no rules and the
// default daily rate applies.
type failingRules struct {
	failFor map[int]bool
}

func (f *failingRules) PricingRules(_ context.Context, _, carID, _ int, _, _ time.Time) ([]entities.PricingRule, error) {
	if f.failFor[carID] {
		return nil, errors.New("pricing store down")
	}
	return nil, nil
}

type zeroFees struct{}

func (zeroFees) PickupFee(_ context.Context, _ int) (float64, error)   { return 0, nil }
func (zeroFees) DeliveryFee(_ context.Context, _ int) (float64, error) { return 0, nil }

func fleetOf(ids ...int) []db.Car {
	cars := make([]db.Car, 0, len(ids))
	for _, id := range ids {
		cars = append(cars, db.Car{ID: id, OrgID: 1, CategoryID: 2, CategoryName: "suv", Make: "Toyota", Model: "RAV4", Year: 2023})
	}
	return cars
}

func newTestSearchService(fleet *fakeFleet, rules *failingRules) *SearchService {
	orgs := &fakeOrgs{orgs: map[string]*db.Organization{
		"athens-rides": {ID: 1, Slug: "athens-rides", Name: "Athens Rides", Currency: "EUR"},
	}}
	engine := pricing.NewEngine(rules)
	composer := pricing.NewComposer(zeroFees{})
	return NewSearchService(orgs, fleet, &fakeExtras{}, engine, composer, nil, 2, time.Second)
}

func searchParams() entities.SearchParams {
	pickup := time.Date(2026, 7, 1, 0, 0, 0, 0, time.UTC)
	return entities.SearchParams{
		PickupDate:        pickup,
		DropoffDate:       pickup.AddDate(0, 0, 2),
		PickupLocationID:  1,
		DropoffLocationID: 1,
	}
}

func TestSearchExcludesUnavailableCars(t *testing.T) {
	fleet := &fakeFleet{cars: fleetOf(1, 2, 3), unavailable: map[int]bool{2: true}}
	svc := newTestSearchService(fleet, &failingRules{})

	resp, err := svc.Search(context.Background(), "athens-rides", searchParams())
	require.NoError(t, err)
	require.Len(t, resp.Cars, 2)
	assert.Equal(t, 1, resp.Cars[0].Car.ID)
	assert.Equal(t, 3, resp.Cars[1].Car.ID)
}

func TestSearchExcludesCarOnPricingFailure(t *testing.T) {
	fleet := &fakeFleet{cars: fleetOf(1, 2, 3)}
	svc := newTestSearchService(fleet, &failingRules{failFor: map[int]bool{2: true}})

	resp, err := svc.Search(context.Background(), "athens-rides", searchParams())
	require.NoError(t, err)
	require.Len(t, resp.Cars, 2)
	assert.Equal(t, 1, resp.Cars[0].Car.ID)
	assert.Equal(t, 3, resp.Cars[1].Car.ID)
}

func TestSearchExcludesCarOnAvailabilityError(t *testing.T) {
	fleet := &fakeFleet{
		cars:     fleetOf(1, 2),
		availErr: map[int]error{1: errors.New("predicate timed out")},
	}
	svc := newTestSearchService(fleet, &failingRules{})

	resp, err := svc.Search(context.Background(), "athens-rides", searchParams())
	require.NoError(t, err)
	require.Len(t, resp.Cars, 1)
	assert.Equal(t, 2, resp.Cars[0].Car.ID)
}

func TestSearchPreservesFleetOrder(t *testing.T) {
	fleet := &fakeFleet{cars: fleetOf(5, 9, 1, 7, 3, 8)}
	svc := newTestSearchService(fleet, &failingRules{})

	resp, err := svc.Search(context.Background(), "athens-rides", searchParams())
	require.NoError(t, err)
	require.Len(t, resp.Cars, 6)

	got := make([]int, 0, len(resp.Cars))
	for _, r := range resp.Cars {
		got = append(got, r.Car.ID)
	}
	assert.Equal(t, []int{5, 9, 1, 7, 3, 8}, got)
}

func TestSearchUsesDefaultRateWithoutRules(t *testing.T) {
	fleet := &fakeFleet{cars: fleetOf(1)}
	svc := newTestSearchService(fleet, &failingRules{})

	resp, err := svc.Search(context.Background(), "athens-rides", searchParams())
	require.NoError(t, err)
	require.Len(t, resp.Cars, 1)
	assert.Equal(t, 100.0, resp.Cars[0].Quote.BasePrice)
	assert.Equal(t, pricing.DefaultDailyRate, resp.Cars[0].Quote.DailyRate)
	assert.Equal(t, 2, resp.Cars[0].Quote.RentalDays)
}

func TestSearchUnknownOrgReturnsNotFound(t *testing.T) {
	fleet := &fakeFleet{cars: fleetOf(1)}
	svc := newTestSearchService(fleet, &failingRules{})

	_, err := svc.Search(context.Background(), "no-such-org", searchParams())
	require.Error(t, err)

	var httpErr *httperr.HTTPError
	require.ErrorAs(t, err, &httpErr)
	assert.Equal(t, 404, httpErr.Code)
}

func TestQuotePricingFailureIsHardError(t *testing.T) {
	fleet := &fakeFleet{cars: fleetOf(1)}
	svc := newTestSearchService(fleet, &failingRules{failFor: map[int]bool{1: true}})

	_, err := svc.Quote(context.Background(), "athens-rides", 1, searchParams(), nil, 0)
	require.Error(t, err)

	var httpErr *httperr.HTTPError
	require.ErrorAs(t, err, &httpErr)
	assert.Equal(t, 500, httpErr.Code)
}

func TestQuoteUnknownCarReturnsNotFound(t *testing.T) {
	fleet := &fakeFleet{cars: fleetOf(1)}
	svc := newTestSearchService(fleet, &failingRules{})

	_, err := svc.Quote(context.Background(), "athens-rides", 999, searchParams(), nil, 0)
	require.Error(t, err)

	var httpErr *httperr.HTTPError
	require.ErrorAs(t, err, &httpErr)
	assert.Equal(t, 404, httpErr.Code)
}

func TestQuoteAddsExtrasAndInsurance(t *testing.T) {
	orgs := &fakeOrgs{orgs: map[string]*db.Organization{
		"athens-rides": {ID: 1, Slug: "athens-rides", Name: "Athens Rides", Currency: "EUR"},
	}}
	extras := &fakeExtras{
		extras: []db.Extra{
			{ID: 1, Name: "Child seat", Price: 5, PerDay: true},
			{ID: 2, Name: "GPS", Price: 20, PerDay: false},
		},
		insurance: []db.InsuranceType{
			{ID: 3, Name: "Full coverage", PricePerDay: 8},
		},
	}
	fleet := &fakeFleet{cars: fleetOf(1)}
	engine := pricing.NewEngine(&failingRules{})
	composer := pricing.NewComposer(zeroFees{})
	svc := NewSearchService(orgs, fleet, extras, engine, composer, nil, 2, time.Second)

	resp, err := svc.Quote(context.Background(), "athens-rides", 1, searchParams(), []int{1, 2}, 3)
	require.NoError(t, err)

	// 2 days at the default rate plus 2*5 + 20 in extras and 2*8 insurance.
	assert.Equal(t, 100.0, resp.Breakdown.BasePrice)
	assert.Equal(t, 30.0, resp.Breakdown.ExtrasPrice)
	assert.Equal(t, 16.0, resp.Breakdown.InsurancePrice)
	assert.Equal(t, 146.0, resp.Breakdown.Subtotal)
	assert.InDelta(t, 35.04, resp.Breakdown.VAT, 0.001)
	assert.InDelta(t, 181.04, resp.Breakdown.Total, 0.001)
	assert.Len(t, resp.Extras, 2)
	assert.Len(t, resp.InsuranceTypes, 1)
}
