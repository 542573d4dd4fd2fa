package api

import (
	"net/http"

	httperr "rentiva/internal/errors"
	"rentiva/internal/service"
)

type AdminAuthHandler struct {
	Service service.AdminAuthService
}

func NewAdminAuthHandler(svc service.AdminAuthService) *AdminAuthHandler {
	return &AdminAuthHandler{Service: svc}
}

// Login handles POST /api/admin/login.
func (h *AdminAuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := decodeAndValidate(r, &req); err != nil {
		respondError(w, err)
		return
	}

	token, err := h.Service.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		respondError(w, httperr.Unauthorized("invalid credentials"))
		return
	}
	respondJSON(w, http.StatusOK, LoginResponse{Token: token})
}

// CreateAdmin handles POST /api/admin/users. The route sits behind the auth
// middleware: only an existing admin can add another.
func (h *AdminAuthHandler) CreateAdmin(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := decodeAndValidate(r, &req); err != nil {
		respondError(w, err)
		return
	}

	if err := h.Service.CreateAdmin(r.Context(), req.Email, req.Password); err != nil {
		respondError(w, httperr.Wrap(500, "failed to create admin", err))
		return
	}
	respondJSON(w, http.StatusCreated, map[string]string{"message": "admin created"})
}
