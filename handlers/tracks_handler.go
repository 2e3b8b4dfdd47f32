package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"

	"qpathAPI/internal/track"
	"qpathAPI/middleware"
	"qpathAPI/services"
)

type TracksHandler struct {
	trackService *services.TrackService
}

func NewTracksHandler(trackService *services.TrackService) *TracksHandler {
	return &TracksHandler{trackService: trackService}
}

func (h *TracksHandler) GetTracks(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	userID, ok := middleware.GetUserID(ctx)
	if !ok {
		respondWithError(w, http.StatusUnauthorized, "User not authenticated")
		return
	}

	tracks, err := h.trackService.GetTracksWithProgress(ctx, userID)
	if err != nil {
		respondWithError(w, http.StatusInternalServerError, "Failed to load tracks")
		return
	}

	respondWithJSON(w, http.StatusOK, tracks)
}

func (h *TracksHandler) GetTrackSummary(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	userID, ok := middleware.GetUserID(ctx)
	if !ok {
		respondWithError(w, http.StatusUnauthorized, "User not authenticated")
		return
	}

	summary, err := h.trackService.GetTrackSummary(ctx, userID)
	if err != nil {
		respondWithError(w, http.StatusInternalServerError, "Failed to load track summary")
		return
	}

	respondWithJSON(w, http.StatusOK, summary)
}

func (h *TracksHandler) UpdateLessonCompletion(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	userID, ok := middleware.GetUserID(ctx)
	if !ok {
		respondWithError(w, http.StatusUnauthorized, "User not authenticated")
		return
	}

	lessonID, err := uuid.Parse(mux.Vars(r)["lesson_id"])
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid lesson ID")
		return
	}

	var req track.LessonCompletionUpdate
	if err := decodeBody(r, &req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if err := h.trackService.SetLessonCompletion(ctx, userID, lessonID, req.Completed); err != nil {
		respondWithServiceError(w, err)
		return
	}

	respondWithJSON(w, http.StatusOK, map[string]bool{"completed": req.Completed})
}
