package httputil

import (
	"encoding/json"
	"net/http"

	"github.com/kolobyte/account-auth/internal/domain"
)

// JSON writes v as a JSON response with the given status.
func JSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// Error writes a JSON error response.
func Error(w http.ResponseWriter, status int, message string) {
	JSON(w, status, map[string]string{"error": message})
}

// StatusForKind maps a domain error kind to an HTTP status code.
func StatusForKind(kind domain.ErrorKind) int {
	switch kind {
	case domain.KindConflict:
		return http.StatusConflict
	case domain.KindInvalidCredentials:
		return http.StatusUnauthorized
	case domain.KindForbidden:
		return http.StatusForbidden
	case domain.KindNotFound:
		return http.StatusNotFound
	case domain.KindTokenExpired:
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

// DomainError writes err using its kind's status. Untyped errors become a
// generic 500 so internal detail never reaches the client.
func DomainError(w http.ResponseWriter, err error) {
	kind := domain.KindOf(err)
	if kind == domain.KindInternal {
		Error(w, http.StatusInternalServerError, "something went wrong")
		return
	}
	Error(w, StatusForKind(kind), err.Error())
}
