package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-playground/validator/v10"

	"qpathAPI/services"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// Helper functions
func respondWithJSON(w http.ResponseWriter, code int, payload interface{}) {
	response, err := json.Marshal(payload)
	if err != nil {
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte(`{"error": "Internal server error"}`))
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	w.Write(response)
}

func respondWithError(w http.ResponseWriter, code int, message string) {
	respondWithJSON(w, code, map[string]string{"error": message})
}

// decodeBody parses the JSON body without tag validation. Used for payloads
// like slices where validator struct tags do not apply.
func decodeBody(r *http.Request, dst interface{}) error {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		return errors.New("invalid request body")
	}
	return nil
}

// decodeAndValidate parses the JSON body into dst and runs the validate tags.
func decodeAndValidate(r *http.Request, dst interface{}) error {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		return errors.New("invalid request body")
	}
	if err := validate.Struct(dst); err != nil {
		return err
	}
	return nil
}

// respondWithServiceError maps service sentinels to HTTP statuses. Unknown
// errors become opaque 500s so internals never leak to clients.
func respondWithServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, services.ErrNotFound):
		respondWithError(w, http.StatusNotFound, "Resource not found")
	case errors.Is(err, services.ErrForbidden):
		respondWithError(w, http.StatusForbidden, "Operation not allowed")
	case errors.Is(err, services.ErrEmailTaken):
		respondWithError(w, http.StatusBadRequest, "Email already registered")
	case errors.Is(err, services.ErrUsernameTaken):
		respondWithError(w, http.StatusBadRequest, "Username already taken")
	case errors.Is(err, services.ErrInvalidCredentials):
		respondWithError(w, http.StatusUnauthorized, "Invalid credentials")
	case errors.Is(err, services.ErrInactiveAccount):
		respondWithError(w, http.StatusForbidden, "Account is deactivated")
	default:
		respondWithError(w, http.StatusInternalServerError, "Internal server error")
	}
}
