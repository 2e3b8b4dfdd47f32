package handlers

import (
	"context"
	"log"
	"net/http"
	"strings"
	"time"

	"qpathAPI/internal/auth"
	"qpathAPI/internal/gamification"
	"qpathAPI/internal/user"
	"qpathAPI/middleware"
	"qpathAPI/services"
)

type AuthHandler struct {
	userService         *services.UserService
	gamificationService *services.GamificationService
	authService         *auth.Service
}

func NewAuthHandler(userService *services.UserService, gamificationService *services.GamificationService, authService *auth.Service) *AuthHandler {
	return &AuthHandler{
		userService:         userService,
		gamificationService: gamificationService,
		authService:         authService,
	}
}

// Login authenticates a user, advances the daily streak, and awards the
// login XP before returning a fresh token pair.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	var req user.LoginRequest
	if err := decodeAndValidate(r, &req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Email and password are required")
		return
	}

	u, err := h.userService.Authenticate(ctx, strings.ToLower(strings.TrimSpace(req.Email)), req.Password)
	if err != nil {
		log.Printf("Failed login attempt for email: %s", req.Email)
		respondWithServiceError(w, err)
		return
	}

	if err := h.userService.RecordLogin(ctx, u.ID); err != nil {
		log.Printf("Failed to record login for %s: %v", u.ID, err)
	}
	if _, err := h.gamificationService.UpdateStreak(ctx, u.ID); err != nil {
		log.Printf("Failed to update streak for %s: %v", u.ID, err)
	}
	_, err = h.gamificationService.AddXP(ctx, u.ID, 5, gamification.ActivityLogin, "Login realizado",
		map[string]any{"login_time": time.Now().UTC().Format(time.RFC3339)})
	if err != nil {
		log.Printf("Failed to award login XP for %s: %v", u.ID, err)
	} else {
		middleware.RecordXPAward(string(gamification.ActivityLogin))
	}

	tokens, err := h.issueTokens(u)
	if err != nil {
		respondWithError(w, http.StatusInternalServerError, "Failed to issue tokens")
		return
	}

	log.Printf("User %s logged in successfully", u.Email)
	respondWithJSON(w, http.StatusOK, tokens)
}

// Refresh rotates the token pair from a valid refresh token.
func (h *AuthHandler) Refresh(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	var req user.TokenRefreshRequest
	if err := decodeAndValidate(r, &req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Refresh token is required")
		return
	}

	claims, err := h.authService.Verify(req.RefreshToken, auth.TokenRefresh)
	if err != nil {
		respondWithError(w, http.StatusUnauthorized, "Could not validate credentials")
		return
	}

	u, err := h.userService.GetUserByID(ctx, claims.UserID)
	if err != nil || !u.IsActive {
		respondWithError(w, http.StatusUnauthorized, "Could not validate credentials")
		return
	}

	tokens, err := h.issueTokens(u)
	if err != nil {
		respondWithError(w, http.StatusInternalServerError, "Failed to issue tokens")
		return
	}

	respondWithJSON(w, http.StatusOK, tokens)
}

// Logout is stateless: tokens are not tracked server-side, the client
// discards them.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	respondWithJSON(w, http.StatusOK, map[string]string{"message": "Successfully logged out"})
}

// ForgotPassword always answers the same message so the endpoint cannot be
// used to probe registered emails. The token is logged instead of mailed.
func (h *AuthHandler) ForgotPassword(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	var req user.ForgotPasswordRequest
	if err := decodeAndValidate(r, &req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Email is required")
		return
	}

	u, err := h.userService.GetUserByEmail(ctx, strings.ToLower(strings.TrimSpace(req.Email)))
	if err == nil && u.IsActive {
		token, err := h.authService.IssueResetToken(u.ID)
		if err == nil {
			if err := h.userService.StoreResetToken(ctx, u.ID, token); err == nil {
				log.Printf("Password reset token for %s: %s", u.Email, token)
			}
		}
	}

	respondWithJSON(w, http.StatusOK, map[string]string{"message": "If the email exists, a password reset link has been sent"})
}

func (h *AuthHandler) ResetPassword(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	var req user.ResetPasswordRequest
	if err := decodeAndValidate(r, &req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Token and new password are required")
		return
	}

	claims, err := h.authService.Verify(req.Token, auth.TokenReset)
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid or expired token")
		return
	}

	if err := h.userService.ResetPassword(ctx, claims.UserID, req.Token, req.NewPassword); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid or expired token")
		return
	}

	respondWithJSON(w, http.StatusOK, map[string]string{"message": "Password reset successful"})
}

func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	userID, ok := middleware.GetUserID(ctx)
	if !ok {
		respondWithError(w, http.StatusUnauthorized, "User not authenticated")
		return
	}

	u, err := h.userService.GetUserByID(ctx, userID)
	if err != nil {
		respondWithServiceError(w, err)
		return
	}

	respondWithJSON(w, http.StatusOK, u)
}

func (h *AuthHandler) issueTokens(u *user.User) (*user.TokenResponse, error) {
	accessToken, err := h.authService.IssueAccessToken(u.ID, string(u.Role))
	if err != nil {
		return nil, err
	}
	refreshToken, err := h.authService.IssueRefreshToken(u.ID, string(u.Role))
	if err != nil {
		return nil, err
	}

	return &user.TokenResponse{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		TokenType:    "bearer",
	}, nil
}
