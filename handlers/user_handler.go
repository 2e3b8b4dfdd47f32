package handlers

import (
	"context"
	"log"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"

	"qpathAPI/internal/gamification"
	"qpathAPI/internal/user"
	"qpathAPI/middleware"
	"qpathAPI/services"
)

type UserHandler struct {
	userService         *services.UserService
	gamificationService *services.GamificationService
}

func NewUserHandler(userService *services.UserService, gamificationService *services.GamificationService) *UserHandler {
	return &UserHandler{
		userService:         userService,
		gamificationService: gamificationService,
	}
}

// Register creates an account together with its gamification profile and
// grants the welcome bonus. The registration log entry carries no XP; the
// bonus goes through the XP path so the level stays consistent.
func (h *UserHandler) Register(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	var req user.RegisterRequest
	if err := decodeAndValidate(r, &req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid registration data")
		return
	}
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	req.Username = strings.ToLower(strings.TrimSpace(req.Username))

	u, err := h.userService.CreateUser(ctx, &req)
	if err != nil {
		respondWithServiceError(w, err)
		return
	}

	err = h.gamificationService.LogActivity(ctx, u.ID, gamification.ActivityLogin,
		"Bem-vindo ao Q-Path! Conta criada com sucesso.", map[string]any{"registration": true})
	if err != nil {
		log.Printf("Failed to log registration for %s: %v", u.ID, err)
	}
	_, err = h.gamificationService.AddXP(ctx, u.ID, 50, gamification.ActivityLogin,
		"Bem-vindo ao Q-Path! Bônus de boas-vindas.", map[string]any{"welcome_bonus": true})
	if err != nil {
		log.Printf("Failed to award welcome bonus for %s: %v", u.ID, err)
	} else {
		middleware.RecordXPAward(string(gamification.ActivityLogin))
	}

	log.Printf("User %s registered", u.Email)
	respondWithJSON(w, http.StatusCreated, u)
}

func (h *UserHandler) GetMe(w http.ResponseWriter, r *http.Request) {
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

func (h *UserHandler) UpdateMe(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	userID, ok := middleware.GetUserID(ctx)
	if !ok {
		respondWithError(w, http.StatusUnauthorized, "User not authenticated")
		return
	}

	var req user.UpdateProfileRequest
	if err := decodeAndValidate(r, &req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	u, err := h.userService.UpdateProfile(ctx, userID, &req)
	if err != nil {
		respondWithServiceError(w, err)
		return
	}

	respondWithJSON(w, http.StatusOK, u)
}

// GetUser returns another user's account. Regular users may only read their
// own; moderators and admins may read anyone.
func (h *UserHandler) GetUser(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	requesterID, ok := middleware.GetUserID(ctx)
	if !ok {
		respondWithError(w, http.StatusUnauthorized, "User not authenticated")
		return
	}

	targetID, err := uuid.Parse(mux.Vars(r)["id"])
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid user ID")
		return
	}

	if targetID != requesterID {
		role, _ := middleware.GetUserRole(ctx)
		if role != user.RoleModerator && role != user.RoleAdmin {
			respondWithError(w, http.StatusForbidden, "Not authorized to view this user")
			return
		}
	}

	u, err := h.userService.GetUserByID(ctx, targetID)
	if err != nil {
		respondWithServiceError(w, err)
		return
	}

	respondWithJSON(w, http.StatusOK, u)
}

// UpdateUser lets an admin modify any account, including deactivation.
func (h *UserHandler) UpdateUser(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	targetID, err := uuid.Parse(mux.Vars(r)["id"])
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid user ID")
		return
	}

	var req user.UpdateProfileRequest
	if err := decodeAndValidate(r, &req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if req.IsActive != nil {
		if err := h.userService.SetActive(ctx, targetID, *req.IsActive); err != nil {
			respondWithServiceError(w, err)
			return
		}
	}

	u, err := h.userService.UpdateProfile(ctx, targetID, &req)
	if err != nil {
		respondWithServiceError(w, err)
		return
	}

	respondWithJSON(w, http.StatusOK, u)
}

func (h *UserHandler) ListUsers(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	offset, _ := strconv.Atoi(r.URL.Query().Get("skip"))

	users, err := h.userService.ListUsers(ctx, limit, offset)
	if err != nil {
		respondWithError(w, http.StatusInternalServerError, "Failed to list users")
		return
	}

	respondWithJSON(w, http.StatusOK, users)
}
