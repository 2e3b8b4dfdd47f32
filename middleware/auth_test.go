package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"qpathAPI/internal/auth"
	"qpathAPI/internal/user"
)

func TestAuthMiddleware(t *testing.T) {
	authService := auth.NewService("test-secret", 30*time.Minute, time.Hour)
	userID := uuid.New()

	var gotID uuid.UUID
	var gotRole user.Role
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotID, _ = GetUserID(r.Context())
		gotRole, _ = GetUserRole(r.Context())
		w.WriteHeader(http.StatusOK)
	})
	handler := AuthMiddleware(authService)(next)

	t.Run("valid token passes identity through", func(t *testing.T) {
		token, err := authService.IssueAccessToken(userID, "moderator")
		require.NoError(t, err)

		req := httptest.NewRequest(http.MethodGet, "/api/v1/users/me", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		rec := httptest.NewRecorder()

		handler.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, userID, gotID)
		assert.Equal(t, user.RoleModerator, gotRole)
	})

	t.Run("missing header rejected", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/v1/users/me", nil)
		rec := httptest.NewRecorder()

		handler.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("non bearer scheme rejected", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/v1/users/me", nil)
		req.Header.Set("Authorization", "Basic abc123")
		rec := httptest.NewRecorder()

		handler.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("refresh token rejected on access routes", func(t *testing.T) {
		token, err := authService.IssueRefreshToken(userID, "user")
		require.NoError(t, err)

		req := httptest.NewRequest(http.MethodGet, "/api/v1/users/me", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		rec := httptest.NewRecorder()

		handler.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("garbage token rejected", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/v1/users/me", nil)
		req.Header.Set("Authorization", "Bearer not-a-jwt")
		rec := httptest.NewRecorder()

		handler.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})
}

func TestRequireRole(t *testing.T) {
	authService := auth.NewService("test-secret", 30*time.Minute, time.Hour)

	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	chain := AuthMiddleware(authService)(RequireRole(user.RoleModerator, user.RoleAdmin)(next))

	request := func(t *testing.T, role string) *httptest.ResponseRecorder {
		t.Helper()
		token, err := authService.IssueAccessToken(uuid.New(), role)
		require.NoError(t, err)

		req := httptest.NewRequest(http.MethodGet, "/api/v1/projects/all-submissions", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		rec := httptest.NewRecorder()
		chain.ServeHTTP(rec, req)
		return rec
	}

	t.Run("moderator allowed", func(t *testing.T) {
		assert.Equal(t, http.StatusOK, request(t, "moderator").Code)
	})

	t.Run("admin allowed", func(t *testing.T) {
		assert.Equal(t, http.StatusOK, request(t, "admin").Code)
	})

	t.Run("regular user forbidden", func(t *testing.T) {
		assert.Equal(t, http.StatusForbidden, request(t, "user").Code)
	})

	t.Run("unauthenticated request rejected", func(t *testing.T) {
		gated := RequireRole(user.RoleAdmin)(next)
		req := httptest.NewRequest(http.MethodGet, "/api/v1/users", nil)
		rec := httptest.NewRecorder()

		gated.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})
}
