package handlers

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"

	"qpathAPI/internal/gamification"
	"qpathAPI/internal/reward"
	"qpathAPI/internal/task"
	"qpathAPI/internal/user"
	"qpathAPI/middleware"
	"qpathAPI/services"
)

type GamificationHandler struct {
	gamificationService *services.GamificationService
}

func NewGamificationHandler(gamificationService *services.GamificationService) *GamificationHandler {
	return &GamificationHandler{gamificationService: gamificationService}
}

func (h *GamificationHandler) GetProfile(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	userID, ok := middleware.GetUserID(ctx)
	if !ok {
		respondWithError(w, http.StatusUnauthorized, "User not authenticated")
		return
	}

	if err := h.gamificationService.EnsureProfile(ctx, userID); err != nil {
		respondWithError(w, http.StatusInternalServerError, "Failed to load profile")
		return
	}

	profile, err := h.gamificationService.GetProfile(ctx, userID)
	if err != nil {
		respondWithServiceError(w, err)
		return
	}

	respondWithJSON(w, http.StatusOK, profile)
}

// GetProfileByUserID reads another user's profile. Moderator surface.
func (h *GamificationHandler) GetProfileByUserID(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	targetID, err := uuid.Parse(mux.Vars(r)["user_id"])
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid user ID")
		return
	}

	requesterID, ok := middleware.GetUserID(ctx)
	if !ok {
		respondWithError(w, http.StatusUnauthorized, "User not authenticated")
		return
	}
	if targetID != requesterID {
		role, _ := middleware.GetUserRole(ctx)
		if role != user.RoleModerator && role != user.RoleAdmin {
			respondWithError(w, http.StatusForbidden, "Not authorized to view this profile")
			return
		}
	}

	profile, err := h.gamificationService.GetProfile(ctx, targetID)
	if err != nil {
		respondWithServiceError(w, err)
		return
	}

	respondWithJSON(w, http.StatusOK, profile)
}

func (h *GamificationHandler) GetDashboard(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	userID, ok := middleware.GetUserID(ctx)
	if !ok {
		respondWithError(w, http.StatusUnauthorized, "User not authenticated")
		return
	}

	dashboard, err := h.gamificationService.GetDashboard(ctx, userID)
	if err != nil {
		respondWithError(w, http.StatusInternalServerError, "Failed to load dashboard")
		return
	}

	respondWithJSON(w, http.StatusOK, dashboard)
}

// ReplaceTasks swaps the whole task list with the submitted one.
func (h *GamificationHandler) ReplaceTasks(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	userID, ok := middleware.GetUserID(ctx)
	if !ok {
		respondWithError(w, http.StatusUnauthorized, "User not authenticated")
		return
	}

	var inputs []task.StudyTaskInput
	if err := decodeBody(r, &inputs); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	tasks, err := h.gamificationService.ReplaceTasks(ctx, userID, inputs)
	if err != nil {
		respondWithError(w, http.StatusInternalServerError, "Failed to replace tasks")
		return
	}

	respondWithJSON(w, http.StatusOK, tasks)
}

func (h *GamificationHandler) UpdateTaskCompletion(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	userID, ok := middleware.GetUserID(ctx)
	if !ok {
		respondWithError(w, http.StatusUnauthorized, "User not authenticated")
		return
	}

	taskID, err := uuid.Parse(mux.Vars(r)["id"])
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid task ID")
		return
	}

	var req task.CompletionUpdate
	if err := decodeBody(r, &req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	t, err := h.gamificationService.UpdateTaskCompletion(ctx, userID, taskID, req.Completed)
	if err != nil {
		respondWithServiceError(w, err)
		return
	}

	respondWithJSON(w, http.StatusOK, t)
}

func (h *GamificationHandler) GetRewards(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	userID, ok := middleware.GetUserID(ctx)
	if !ok {
		respondWithError(w, http.StatusUnauthorized, "User not authenticated")
		return
	}

	rewards, err := h.gamificationService.GetRewards(ctx, userID)
	if err != nil {
		respondWithError(w, http.StatusInternalServerError, "Failed to load rewards")
		return
	}

	respondWithJSON(w, http.StatusOK, rewards)
}

func (h *GamificationHandler) CreateReward(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	userID, ok := middleware.GetUserID(ctx)
	if !ok {
		respondWithError(w, http.StatusUnauthorized, "User not authenticated")
		return
	}

	var req reward.CreateRequest
	if err := decodeAndValidate(r, &req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Condition and reward are required")
		return
	}

	created, err := h.gamificationService.CreateReward(ctx, userID, &req)
	if err != nil {
		respondWithError(w, http.StatusInternalServerError, "Failed to create reward")
		return
	}

	respondWithJSON(w, http.StatusCreated, created)
}

func (h *GamificationHandler) UpdateReward(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	userID, ok := middleware.GetUserID(ctx)
	if !ok {
		respondWithError(w, http.StatusUnauthorized, "User not authenticated")
		return
	}

	rewardID, err := uuid.Parse(mux.Vars(r)["id"])
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid reward ID")
		return
	}

	var req reward.UpdateRequest
	if err := decodeAndValidate(r, &req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	updated, err := h.gamificationService.UpdateReward(ctx, userID, rewardID, &req)
	if err != nil {
		respondWithServiceError(w, err)
		return
	}

	respondWithJSON(w, http.StatusOK, updated)
}

func (h *GamificationHandler) GetProfileDetails(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	userID, ok := middleware.GetUserID(ctx)
	if !ok {
		respondWithError(w, http.StatusUnauthorized, "User not authenticated")
		return
	}

	if err := h.gamificationService.EnsureProfile(ctx, userID); err != nil {
		respondWithError(w, http.StatusInternalServerError, "Failed to load profile")
		return
	}

	details, err := h.gamificationService.GetProfileDetails(ctx, userID)
	if err != nil {
		respondWithServiceError(w, err)
		return
	}

	respondWithJSON(w, http.StatusOK, details)
}

func (h *GamificationHandler) CompleteTrilha(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	userID, ok := middleware.GetUserID(ctx)
	if !ok {
		respondWithError(w, http.StatusUnauthorized, "User not authenticated")
		return
	}

	var req gamification.CompleteTrilhaRequest
	if err := decodeAndValidate(r, &req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid trilha completion data")
		return
	}

	// Absent xp_earned defaults to the standard reward. An explicit 0 is kept.
	xpEarned := 100
	if req.XPEarned != nil {
		xpEarned = *req.XPEarned
	}

	profile, err := h.gamificationService.CompleteTrilha(ctx, userID, req.TrilhaName, xpEarned)
	if err != nil {
		respondWithServiceError(w, err)
		return
	}

	middleware.RecordXPAward(string(gamification.ActivityTrilhaCompletion))
	respondWithJSON(w, http.StatusOK, profile)
}

func (h *GamificationHandler) LogPomodoroSession(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	userID, ok := middleware.GetUserID(ctx)
	if !ok {
		respondWithError(w, http.StatusUnauthorized, "User not authenticated")
		return
	}

	var req gamification.PomodoroSessionRequest
	if err := decodeAndValidate(r, &req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Duration must be between 1 and 240 minutes")
		return
	}

	profile, err := h.gamificationService.LogPomodoroSession(ctx, userID, req.DurationMinutes)
	if err != nil {
		respondWithServiceError(w, err)
		return
	}

	middleware.RecordXPAward(string(gamification.ActivityPomodoroSession))
	respondWithJSON(w, http.StatusOK, profile)
}

// AddXP is the direct XP endpoint used by trusted clients.
func (h *GamificationHandler) AddXP(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	userID, ok := middleware.GetUserID(ctx)
	if !ok {
		respondWithError(w, http.StatusUnauthorized, "User not authenticated")
		return
	}

	var req gamification.AddXPRequest
	if err := decodeAndValidate(r, &req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid XP data")
		return
	}

	profile, err := h.gamificationService.AddXP(ctx, userID, req.XPAmount, req.ActivityType, req.Description, nil)
	if err != nil {
		respondWithServiceError(w, err)
		return
	}

	middleware.RecordXPAward(string(req.ActivityType))
	respondWithJSON(w, http.StatusOK, profile)
}

func (h *GamificationHandler) GetActivityLogs(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	userID, ok := middleware.GetUserID(ctx)
	if !ok {
		respondWithError(w, http.StatusUnauthorized, "User not authenticated")
		return
	}

	skip, _ := strconv.Atoi(r.URL.Query().Get("skip"))
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))

	logs, err := h.gamificationService.GetActivityLogs(ctx, userID, skip, limit)
	if err != nil {
		respondWithError(w, http.StatusInternalServerError, "Failed to load activity logs")
		return
	}

	respondWithJSON(w, http.StatusOK, logs)
}

func (h *GamificationHandler) GetLeaderboard(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))

	leaderboard, err := h.gamificationService.GetLeaderboard(ctx, limit)
	if err != nil {
		respondWithError(w, http.StatusInternalServerError, "Failed to load leaderboard")
		return
	}

	respondWithJSON(w, http.StatusOK, leaderboard)
}
