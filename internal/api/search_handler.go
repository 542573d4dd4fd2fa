package api

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gorilla/mux"

	"rentiva/internal/entities"
	httperr "rentiva/internal/errors"
	"rentiva/internal/service"
)

type SearchHandler struct {
	Service *service.SearchService
}

func NewSearchHandler(svc *service.SearchService) *SearchHandler {
	return &SearchHandler{Service: svc}
}

// Search handles POST /api/orgs/{slug}/search.
func (h *SearchHandler) Search(w http.ResponseWriter, r *http.Request) {
	slug := mux.Vars(r)["slug"]

	var req SearchRequest
	if err := decodeAndValidate(r, &req); err != nil {
		respondError(w, err)
		return
	}

	params, err := req.ToParams()
	if err != nil {
		respondError(w, httperr.BadRequest(err.Error()))
		return
	}

	resp, err := h.Service.Search(r.Context(), slug, params)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, resp)
}

// GetCarQuote handles GET /api/orgs/{slug}/cars/{id}/quote. Dates come as
// query parameters; location ids are optional and extras is a comma-separated
// id list.
func (h *SearchHandler) GetCarQuote(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	slug := vars["slug"]
	carID, err := strconv.Atoi(vars["id"])
	if err != nil {
		respondError(w, httperr.BadRequest("invalid car id"))
		return
	}

	q := r.URL.Query()
	if q.Get("pickup_date") == "" || q.Get("dropoff_date") == "" {
		respondError(w, httperr.BadRequest("pickup_date and dropoff_date are required"))
		return
	}

	pickup, err := parseDateTime(q.Get("pickup_date"), q.Get("pickup_time"))
	if err != nil {
		respondError(w, httperr.BadRequest("invalid pickup date"))
		return
	}
	dropoff, err := parseDateTime(q.Get("dropoff_date"), q.Get("dropoff_time"))
	if err != nil {
		respondError(w, httperr.BadRequest("invalid dropoff date"))
		return
	}
	if !dropoff.After(pickup) {
		respondError(w, httperr.BadRequest("dropoff must be after pickup"))
		return
	}

	params := entities.SearchParams{PickupDate: pickup, DropoffDate: dropoff}
	if params.PickupLocationID, err = optionalIntParam(q.Get("pickup_location_id")); err != nil {
		respondError(w, httperr.BadRequest("invalid pickup_location_id"))
		return
	}
	if params.DropoffLocationID, err = optionalIntParam(q.Get("dropoff_location_id")); err != nil {
		respondError(w, httperr.BadRequest("invalid dropoff_location_id"))
		return
	}

	var extraIDs []int
	if v := q.Get("extras"); v != "" {
		for _, part := range strings.Split(v, ",") {
			id, perr := strconv.Atoi(strings.TrimSpace(part))
			if perr != nil {
				respondError(w, httperr.BadRequest("invalid extras list"))
				return
			}
			extraIDs = append(extraIDs, id)
		}
	}

	insuranceTypeID, err := optionalIntParam(q.Get("insurance_type_id"))
	if err != nil {
		respondError(w, httperr.BadRequest("invalid insurance_type_id"))
		return
	}

	resp, err := h.Service.Quote(r.Context(), slug, carID, params, extraIDs, insuranceTypeID)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, resp)
}

func optionalIntParam(v string) (int, error) {
	if v == "" {
		return 0, nil
	}
	return strconv.Atoi(v)
}
