package response

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/staylink/staylink-backend/internal/domain"
)

func JSON(w http.ResponseWriter, statusCode int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(data)
}

func Error(w http.ResponseWriter, statusCode int, message, code string) {
	JSON(w, statusCode, map[string]string{
		"error": message,
		"code":  code,
	})
}

// FromError maps a service error to an HTTP response by its error kind.
// Unrecognized errors become a generic 500 so internals never leak.
func FromError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, domain.ErrBadRequest):
		Error(w, http.StatusBadRequest, err.Error(), "INVALID_INPUT")
	case errors.Is(err, domain.ErrUnauthorized):
		Error(w, http.StatusUnauthorized, "Invalid credentials", "UNAUTHORIZED")
	case errors.Is(err, domain.ErrForbidden):
		Error(w, http.StatusForbidden, err.Error(), "FORBIDDEN")
	case errors.Is(err, domain.ErrNotFound):
		Error(w, http.StatusNotFound, err.Error(), "NOT_FOUND")
	case errors.Is(err, domain.ErrConflict):
		Error(w, http.StatusConflict, err.Error(), "CONFLICT")
	case errors.Is(err, domain.ErrInvalidState):
		Error(w, http.StatusUnprocessableEntity, err.Error(), "INVALID_STATE")
	default:
		Error(w, http.StatusInternalServerError, "Internal server error", "INTERNAL_ERROR")
	}
}
