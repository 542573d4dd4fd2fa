package api

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSearchRejectsInvalidBody(t *testing.T) {
	h := NewSearchHandler(nil)

	req := httptest.NewRequest(http.MethodPost, "/api/orgs/acme/search", strings.NewReader("{not json"))
	rr := httptest.NewRecorder()
	h.Search(rr, req)

	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Contains(t, rr.Body.String(), "invalid request body")
}

func TestSearchRejectsInvertedDates(t *testing.T) {
	h := NewSearchHandler(nil)

	body := `{
		"pickup_date": "2026-07-10",
		"pickup_location_id": 1,
		"dropoff_date": "2026-07-05",
		"dropoff_location_id": 1
	}`
	req := httptest.NewRequest(http.MethodPost, "/api/orgs/acme/search", strings.NewReader(body))
	rr := httptest.NewRecorder()
	h.Search(rr, req)

	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Contains(t, rr.Body.String(), "dropoff must be after pickup")
}

func TestSearchRejectsMissingLocations(t *testing.T) {
	h := NewSearchHandler(nil)

	body := `{"pickup_date": "2026-07-05", "dropoff_date": "2026-07-10"}`
	req := httptest.NewRequest(http.MethodPost, "/api/orgs/acme/search", strings.NewReader(body))
	rr := httptest.NewRecorder()
	h.Search(rr, req)

	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Contains(t, rr.Body.String(), "validation failed")
}

func TestQuoteRequiresDates(t *testing.T) {
	h := NewSearchHandler(nil)
	r := mux.NewRouter()
	r.HandleFunc("/api/orgs/{slug}/cars/{id}/quote", h.GetCarQuote).Methods("GET")

	req := httptest.NewRequest(http.MethodGet, "/api/orgs/acme/cars/42/quote", nil)
	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, req)

	require.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Contains(t, rr.Body.String(), "pickup_date and dropoff_date are required")
}

func TestQuoteRejectsBadCarID(t *testing.T) {
	h := NewSearchHandler(nil)
	r := mux.NewRouter()
	r.HandleFunc("/api/orgs/{slug}/cars/{id}/quote", h.GetCarQuote).Methods("GET")

	req := httptest.NewRequest(http.MethodGet, "/api/orgs/acme/cars/abc/quote?pickup_date=2026-07-05&dropoff_date=2026-07-10", nil)
	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Contains(t, rr.Body.String(), "invalid car id")
}

func TestCreateBookingRejectsMissingEmail(t *testing.T) {
	h := NewBookingHandler(nil)

	body := `{
		"car_id": 42,
		"customer_name": "Maria Pappas",
		"customer_phone": "+301234567",
		"pickup_date": "2026-07-05",
		"pickup_location_id": 1,
		"dropoff_date": "2026-07-10",
		"dropoff_location_id": 1
	}`
	req := httptest.NewRequest(http.MethodPost, "/api/orgs/acme/bookings", strings.NewReader(body))
	rr := httptest.NewRecorder()
	h.CreateBooking(rr, req)

	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Contains(t, rr.Body.String(), "validation failed")
}

func TestGetBookingRequiresEmail(t *testing.T) {
	h := NewBookingHandler(nil)
	r := mux.NewRouter()
	r.HandleFunc("/api/bookings/{code}", h.GetBooking).Methods("GET")

	req := httptest.NewRequest(http.MethodGet, "/api/bookings/A1B2C3D4", nil)
	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Contains(t, rr.Body.String(), "email is required")
}

func TestWebhookRejectsBadSignature(t *testing.T) {
	h := NewStripeWebhookHandler("whsec_test", nil)

	req := httptest.NewRequest(http.MethodPost, "/api/stripe/webhook", strings.NewReader(`{}`))
	req.Header.Set("Stripe-Signature", "t=1,v1=bogus")
	rr := httptest.NewRecorder()
	h.HandleWebhook(rr, req)

	assert.Equal(t, http.StatusBadRequest, rr.Code)
}
