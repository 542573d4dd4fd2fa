package api

import (
	"net/http"

	"github.com/gorilla/mux"

	httperr "rentiva/internal/errors"
	"rentiva/internal/service"
)

type BookingHandler struct {
	Service *service.BookingService
}

func NewBookingHandler(svc *service.BookingService) *BookingHandler {
	return &BookingHandler{Service: svc}
}

// CreateBooking handles POST /api/orgs/{slug}/bookings. The response carries
// the Stripe Checkout URL the customer is redirected to.
func (h *BookingHandler) CreateBooking(w http.ResponseWriter, r *http.Request) {
	slug := mux.Vars(r)["slug"]

	var req CreateBookingRequest
	if err := decodeAndValidate(r, &req); err != nil {
		respondError(w, err)
		return
	}

	pickup, err := parseDateTime(req.PickupDate, req.PickupTime)
	if err != nil {
		respondError(w, httperr.BadRequest("invalid pickup date"))
		return
	}
	dropoff, err := parseDateTime(req.DropoffDate, req.DropoffTime)
	if err != nil {
		respondError(w, httperr.BadRequest("invalid dropoff date"))
		return
	}
	if !dropoff.After(pickup) {
		respondError(w, httperr.BadRequest("dropoff must be after pickup"))
		return
	}

	input := service.BookingInput{
		CarID:             req.CarID,
		CustomerName:      req.CustomerName,
		CustomerEmail:     req.CustomerEmail,
		CustomerPhone:     req.CustomerPhone,
		PickupDate:        pickup,
		DropoffDate:       dropoff,
		PickupLocationID:  req.PickupLocationID,
		DropoffLocationID: req.DropoffLocationID,
		ExtraIDs:          req.ExtraIDs,
		InsuranceTypeID:   req.InsuranceTypeID,
	}

	resp, err := h.Service.CreateBooking(r.Context(), slug, input)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, resp)
}

// GetBooking handles GET /api/bookings/{code}?email=... — the email works as
// a shared secret for anonymous lookups.
func (h *BookingHandler) GetBooking(w http.ResponseWriter, r *http.Request) {
	code := mux.Vars(r)["code"]
	email := r.URL.Query().Get("email")
	if email == "" {
		respondError(w, httperr.BadRequest("email is required"))
		return
	}

	resp, err := h.Service.GetBooking(r.Context(), code, email)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, resp)
}

// GetBookingBySessionID handles GET /api/bookings/by-session?session_id=...
// for the post-checkout confirmation page.
func (h *BookingHandler) GetBookingBySessionID(w http.ResponseWriter, r *http.Request) {
	sessionID := r.URL.Query().Get("session_id")
	if sessionID == "" {
		respondError(w, httperr.BadRequest("session_id is required"))
		return
	}

	resp, err := h.Service.GetBySessionID(r.Context(), sessionID)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, resp)
}

// CancelBooking handles DELETE /api/bookings/{code}.
func (h *BookingHandler) CancelBooking(w http.ResponseWriter, r *http.Request) {
	code := mux.Vars(r)["code"]

	if err := h.Service.CancelBooking(r.Context(), code); err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"message": "booking canceled"})
}
