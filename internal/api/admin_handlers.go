package api

import (
	"database/sql"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"

	"rentiva/internal/db"
	httperr "rentiva/internal/errors"
	"rentiva/internal/repository"
	"rentiva/internal/service"
)

// AdminHandler serves the dashboard API. Every route is scoped to an
// organization slug and sits behind the JWT middleware.
type AdminHandler struct {
	Orgs service.OrgSource
	Repo *repository.AdminRepository
}

func NewAdminHandler(orgs service.OrgSource, repo *repository.AdminRepository) *AdminHandler {
	return &AdminHandler{Orgs: orgs, Repo: repo}
}

func (h *AdminHandler) resolveOrg(r *http.Request) (*db.Organization, error) {
	slug := mux.Vars(r)["slug"]
	org, err := h.Orgs.GetBySlug(r.Context(), slug)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, httperr.NotFound("organization not found")
		}
		return nil, httperr.Wrap(500, "failed to load organization", err)
	}
	return org, nil
}

// ListPricingRules handles GET /api/admin/orgs/{slug}/pricing-rules.
func (h *AdminHandler) ListPricingRules(w http.ResponseWriter, r *http.Request) {
	org, err := h.resolveOrg(r)
	if err != nil {
		respondError(w, err)
		return
	}

	rules, err := h.Repo.ListPricingRules(r.Context(), org.ID)
	if err != nil {
		respondError(w, httperr.Wrap(500, "failed to list pricing rules", err))
		return
	}
	respondJSON(w, http.StatusOK, rules)
}

// CreatePricingRule handles POST /api/admin/orgs/{slug}/pricing-rules.
func (h *AdminHandler) CreatePricingRule(w http.ResponseWriter, r *http.Request) {
	org, err := h.resolveOrg(r)
	if err != nil {
		respondError(w, err)
		return
	}

	var req PricingRuleRequest
	if err := decodeAndValidate(r, &req); err != nil {
		respondError(w, err)
		return
	}

	rule, err := req.ToRule(org.ID)
	if err != nil {
		respondError(w, httperr.BadRequest(err.Error()))
		return
	}

	if err := h.Repo.CreatePricingRule(r.Context(), &rule); err != nil {
		respondError(w, httperr.Wrap(500, "failed to create pricing rule", err))
		return
	}
	respondJSON(w, http.StatusCreated, rule)
}

// UpdatePricingRule handles PUT /api/admin/orgs/{slug}/pricing-rules/{id}.
func (h *AdminHandler) UpdatePricingRule(w http.ResponseWriter, r *http.Request) {
	org, err := h.resolveOrg(r)
	if err != nil {
		respondError(w, err)
		return
	}

	ruleID, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		respondError(w, httperr.BadRequest("invalid rule id"))
		return
	}

	var req PricingRuleRequest
	if err := decodeAndValidate(r, &req); err != nil {
		respondError(w, err)
		return
	}

	rule, err := req.ToRule(org.ID)
	if err != nil {
		respondError(w, httperr.BadRequest(err.Error()))
		return
	}
	rule.ID = ruleID

	if err := h.Repo.UpdatePricingRule(r.Context(), &rule); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			respondError(w, httperr.NotFound("pricing rule not found"))
			return
		}
		respondError(w, httperr.Wrap(500, "failed to update pricing rule", err))
		return
	}
	respondJSON(w, http.StatusOK, rule)
}

// DeletePricingRule handles DELETE /api/admin/orgs/{slug}/pricing-rules/{id}.
func (h *AdminHandler) DeletePricingRule(w http.ResponseWriter, r *http.Request) {
	org, err := h.resolveOrg(r)
	if err != nil {
		respondError(w, err)
		return
	}

	ruleID, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		respondError(w, httperr.BadRequest("invalid rule id"))
		return
	}

	if err := h.Repo.DeletePricingRule(r.Context(), org.ID, ruleID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			respondError(w, httperr.NotFound("pricing rule not found"))
			return
		}
		respondError(w, httperr.Wrap(500, "failed to delete pricing rule", err))
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"message": "pricing rule deleted"})
}

// UpdateLocationFees handles PUT /api/admin/orgs/{slug}/locations/{id}/fees.
func (h *AdminHandler) UpdateLocationFees(w http.ResponseWriter, r *http.Request) {
	org, err := h.resolveOrg(r)
	if err != nil {
		respondError(w, err)
		return
	}

	locationID, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		respondError(w, httperr.BadRequest("invalid location id"))
		return
	}

	var req LocationFeesRequest
	if err := decodeAndValidate(r, &req); err != nil {
		respondError(w, err)
		return
	}

	if err := h.Repo.UpdateLocationFees(r.Context(), org.ID, locationID, req.ExtraPickupFee, req.ExtraDeliveryFee); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			respondError(w, httperr.NotFound("location not found"))
			return
		}
		respondError(w, httperr.Wrap(500, "failed to update location fees", err))
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"message": "location fees updated"})
}

// ListBookings handles GET /api/admin/orgs/{slug}/bookings?date=...&status=...
func (h *AdminHandler) ListBookings(w http.ResponseWriter, r *http.Request) {
	org, err := h.resolveOrg(r)
	if err != nil {
		respondError(w, err)
		return
	}

	var date time.Time
	if v := r.URL.Query().Get("date"); v != "" {
		if date, err = time.Parse("2006-01-02", v); err != nil {
			respondError(w, httperr.BadRequest("invalid date, expected YYYY-MM-DD"))
			return
		}
	}
	status := r.URL.Query().Get("status")

	bookings, err := h.Repo.ListBookings(r.Context(), org.ID, date, status)
	if err != nil {
		respondError(w, httperr.Wrap(500, "failed to list bookings", err))
		return
	}
	respondJSON(w, http.StatusOK, bookings)
}
