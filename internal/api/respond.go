package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/example/litebay/internal/checkout"
	"github.com/example/litebay/internal/domain/cart"
	"github.com/example/litebay/internal/domain/collection"
	"github.com/example/litebay/internal/domain/product"
	"github.com/example/litebay/internal/domain/user"
	"github.com/example/litebay/internal/logger"
	"github.com/example/litebay/internal/validation"
)

var errNotFound = errors.New("not found")

// ErrorResponse is the body of every failed request
type ErrorResponse struct {
	Error  string            `json:"error"`
	Fields map[string]string `json:"fields,omitempty"`
}

func respondJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

func respondJSONError(w http.ResponseWriter, message string, status int) {
	respondJSON(w, status, ErrorResponse{Error: message})
}

// respondErr maps domain errors onto status codes
func respondErr(w http.ResponseWriter, r *http.Request, err error) {
	var fields validation.Errors
	switch {
	case errors.As(err, &fields):
		respondJSON(w, http.StatusBadRequest, ErrorResponse{Error: "validation failed", Fields: fields})
	case errors.Is(err, user.ErrInvalidCredentials):
		respondJSONError(w, err.Error(), http.StatusUnauthorized)
	case errors.Is(err, user.ErrEmailInUse),
		errors.Is(err, product.ErrDuplicateID):
		respondJSONError(w, err.Error(), http.StatusConflict)
	case errors.Is(err, errNotFound):
		respondJSONError(w, err.Error(), http.StatusNotFound)
	case errors.Is(err, checkout.ErrEmptyCart),
		errors.Is(err, collection.ErrInvalidID),
		errors.Is(err, cart.ErrInvalidProduct),
		errors.Is(err, product.ErrInvalidName),
		errors.Is(err, product.ErrInvalidPrice):
		respondJSONError(w, err.Error(), http.StatusBadRequest)
	default:
		log := logger.Component("api")
		log.Error().Err(err).
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Msg("request failed")
		respondJSONError(w, "internal server error", http.StatusInternalServerError)
	}
}

func decodeJSON(r *http.Request, v any) error {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return validation.Errors{"body": "invalid request body"}
	}
	return nil
}

// pathID parses the {id} route variable
func pathID(r *http.Request) (int64, error) {
	return collection.ParseID(mux.Vars(r)["id"])
}
