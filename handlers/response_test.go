package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"qpathAPI/internal/user"
	"qpathAPI/services"
)

func TestRespondWithServiceError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"not found", services.ErrNotFound, http.StatusNotFound},
		{"wrapped not found", fmt.Errorf("failed to get submission: %w", services.ErrNotFound), http.StatusNotFound},
		{"forbidden", services.ErrForbidden, http.StatusForbidden},
		{"email taken", services.ErrEmailTaken, http.StatusBadRequest},
		{"username taken", services.ErrUsernameTaken, http.StatusBadRequest},
		{"invalid credentials", services.ErrInvalidCredentials, http.StatusUnauthorized},
		{"inactive account", services.ErrInactiveAccount, http.StatusForbidden},
		{"unknown error stays opaque", errors.New("pq: connection refused"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			respondWithServiceError(rec, tt.err)
			assert.Equal(t, tt.want, rec.Code)
			assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
			if tt.want == http.StatusInternalServerError {
				assert.NotContains(t, rec.Body.String(), "connection refused")
			}
		})
	}
}

func TestDecodeAndValidate(t *testing.T) {
	t.Run("valid payload", func(t *testing.T) {
		body := `{"email": "ana@example.com", "password": "s3cretpass"}`
		req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/login", strings.NewReader(body))

		var login user.LoginRequest
		assert.NoError(t, decodeAndValidate(req, &login))
		assert.Equal(t, "ana@example.com", login.Email)
	})

	t.Run("malformed JSON", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/login", strings.NewReader("{not json"))

		var login user.LoginRequest
		assert.Error(t, decodeAndValidate(req, &login))
	})

	t.Run("missing required field", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/login", strings.NewReader(`{"email": "ana@example.com"}`))

		var login user.LoginRequest
		assert.Error(t, decodeAndValidate(req, &login))
	})

	t.Run("bad email format", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/forgot-password", strings.NewReader(`{"email": "not-an-email"}`))

		var forgot user.ForgotPasswordRequest
		assert.Error(t, decodeAndValidate(req, &forgot))
	})
}

func TestDecodeBody(t *testing.T) {
	req := httptest.NewRequest(http.MethodPut, "/api/v1/gamification/tasks", strings.NewReader(`[{"title": "Revisar qubits"}]`))

	var tasks []map[string]any
	assert.NoError(t, decodeBody(req, &tasks))
	assert.Len(t, tasks, 1)
}
