package handlers

import (
	"context"
	"log"
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"qpathAPI/internal/gamification"
	"qpathAPI/internal/qmentor"
	"qpathAPI/middleware"
	"qpathAPI/services"
)

// QMentorHandler fronts the AI mentor. Model calls get a longer timeout than
// the database endpoints.
type QMentorHandler struct {
	qmentorService      *services.QMentorService
	gamificationService *services.GamificationService
}

func NewQMentorHandler(qmentorService *services.QMentorService, gamificationService *services.GamificationService) *QMentorHandler {
	return &QMentorHandler{
		qmentorService:      qmentorService,
		gamificationService: gamificationService,
	}
}

func (h *QMentorHandler) GetGuidance(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 35*time.Second)
	defer cancel()

	userID, ok := middleware.GetUserID(ctx)
	if !ok {
		respondWithError(w, http.StatusUnauthorized, "User not authenticated")
		return
	}

	var req qmentor.GuidanceRequest
	if err := decodeAndValidate(r, &req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Query is required")
		return
	}

	result := h.qmentorService.GetCareerGuidance(ctx, &req)

	if result.Status == "success" {
		err := h.gamificationService.LogActivity(ctx, userID, gamification.ActivityQMentorInteraction,
			"Consulta ao Q-Mentor", map[string]any{"kind": "guidance"})
		if err != nil {
			log.Printf("Failed to log qmentor interaction for %s: %v", userID, err)
		}
	}

	respondWithJSON(w, http.StatusOK, result)
}

func (h *QMentorHandler) GetQuantumRecommendations(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 35*time.Second)
	defer cancel()

	userID, ok := middleware.GetUserID(ctx)
	if !ok {
		respondWithError(w, http.StatusUnauthorized, "User not authenticated")
		return
	}

	var req qmentor.RecommendationRequest
	if err := decodeAndValidate(r, &req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Career area is required")
		return
	}

	result := h.qmentorService.GetQuantumRecommendations(ctx, &req)

	if result.Status == "success" {
		err := h.gamificationService.LogActivity(ctx, userID, gamification.ActivityQMentorInteraction,
			"Recomendações quântico-seguras geradas", map[string]any{"kind": "recommendations", "career_area": req.CareerArea})
		if err != nil {
			log.Printf("Failed to log qmentor interaction for %s: %v", userID, err)
		}
	}

	respondWithJSON(w, http.StatusOK, result)
}

func (h *QMentorHandler) AnalyzeLearningPath(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 35*time.Second)
	defer cancel()

	userID, ok := middleware.GetUserID(ctx)
	if !ok {
		respondWithError(w, http.StatusUnauthorized, "User not authenticated")
		return
	}

	var req qmentor.LearningPathRequest
	if err := decodeAndValidate(r, &req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Current skills and target role are required")
		return
	}

	result := h.qmentorService.AnalyzeLearningPath(ctx, &req)

	if result.Status == "success" {
		err := h.gamificationService.LogActivity(ctx, userID, gamification.ActivityQMentorInteraction,
			"Análise de trilha de aprendizado", map[string]any{"kind": "learning_path", "target_role": req.TargetRole})
		if err != nil {
			log.Printf("Failed to log qmentor interaction for %s: %v", userID, err)
		}
	}

	respondWithJSON(w, http.StatusOK, result)
}

func (h *QMentorHandler) GetQuickTips(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 35*time.Second)
	defer cancel()

	careerArea := mux.Vars(r)["career_area"]
	if careerArea == "" {
		respondWithError(w, http.StatusBadRequest, "Career area is required")
		return
	}

	result := h.qmentorService.GetQuickTips(ctx, careerArea)
	respondWithJSON(w, http.StatusOK, result)
}

func (h *QMentorHandler) Health(w http.ResponseWriter, r *http.Request) {
	respondWithJSON(w, http.StatusOK, h.qmentorService.Health())
}
