// Package httpx holds the JSON response helpers shared by the service
// HTTP layers: a common error envelope and the mapping from the error
// taxonomy to HTTP status codes.
package httpx

import (
	"encoding/json"
	"net/http"

	"github.com/acmeshop/storefront/internal/pkg/apperr"
)

// ErrorResponse is the JSON error envelope returned by every service.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}

// WriteJSON writes v as a JSON body with the given status code.
func WriteJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// WriteError writes the error envelope with the given status code.
func WriteError(w http.ResponseWriter, status int, code, msg string) {
	WriteJSON(w, status, ErrorResponse{Error: code, Message: msg})
}

// WriteAppError maps err's kind to a status code and writes the envelope.
func WriteAppError(w http.ResponseWriter, err error) {
	kind := apperr.KindOf(err)
	WriteError(w, StatusFromKind(kind), kind.String(), err.Error())
}

// StatusFromKind maps an error kind to its HTTP status code.
// Unknown kinds are treated as internal errors.
func StatusFromKind(kind apperr.Kind) int {
	switch kind {
	case apperr.KindNotFound:
		return http.StatusNotFound
	case apperr.KindInvalidArgument:
		return http.StatusBadRequest
	case apperr.KindUnauthenticated:
		return http.StatusUnauthorized
	case apperr.KindUnavailable:
		return http.StatusBadGateway
	case apperr.KindConflict:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}
