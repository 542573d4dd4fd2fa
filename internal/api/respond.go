package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/go-playground/validator/v10"

	httperr "rentiva/internal/errors"
	"rentiva/internal/logger"
)

var validate = validator.New()

func respondJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if v != nil {
		if err := json.NewEncoder(w).Encode(v); err != nil {
			logger.Error("failed to encode response", "error", err)
		}
	}
}

// respondError maps service errors to status codes. Anything that is not an
// HTTPError is a 500 with a generic body; the cause goes to the log only.
func respondError(w http.ResponseWriter, err error) {
	var httpErr *httperr.HTTPError
	if errors.As(err, &httpErr) {
		if httpErr.Code >= http.StatusInternalServerError {
			logger.Error("request failed", "status", httpErr.Code, "error", err, "cause", httpErr.Err)
		}
		respondJSON(w, httpErr.Code, map[string]string{"error": httpErr.Message})
		return
	}
	logger.Error("request failed", "error", err)
	respondJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
}

// decodeAndValidate decodes a JSON body into v and runs struct validation.
func decodeAndValidate(r *http.Request, v interface{}) error {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return httperr.BadRequest("invalid request body")
	}
	if err := validate.Struct(v); err != nil {
		return httperr.BadRequest(fmt.Sprintf("validation failed: %v", err))
	}
	return nil
}
