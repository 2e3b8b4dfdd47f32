package handlers

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"

	"qpathAPI/internal/gamification"
	"qpathAPI/internal/project"
	"qpathAPI/internal/user"
	"qpathAPI/middleware"
	"qpathAPI/services"
)

type ProjectsHandler struct {
	projectService *services.ProjectService
}

func NewProjectsHandler(projectService *services.ProjectService) *ProjectsHandler {
	return &ProjectsHandler{projectService: projectService}
}

func (h *ProjectsHandler) Submit(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	userID, ok := middleware.GetUserID(ctx)
	if !ok {
		respondWithError(w, http.StatusUnauthorized, "User not authenticated")
		return
	}

	var req project.SubmitRequest
	if err := decodeAndValidate(r, &req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid submission data")
		return
	}

	sub, err := h.projectService.CreateSubmission(ctx, userID, &req)
	if err != nil {
		respondWithServiceError(w, err)
		return
	}

	middleware.RecordXPAward(string(gamification.ActivityProjetoSubmission))
	respondWithJSON(w, http.StatusCreated, sub)
}

func (h *ProjectsHandler) GetMySubmissions(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	userID, ok := middleware.GetUserID(ctx)
	if !ok {
		respondWithError(w, http.StatusUnauthorized, "User not authenticated")
		return
	}

	skip, _ := strconv.Atoi(r.URL.Query().Get("skip"))
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))

	subs, err := h.projectService.GetUserSubmissions(ctx, userID, skip, limit)
	if err != nil {
		respondWithError(w, http.StatusInternalServerError, "Failed to load submissions")
		return
	}

	respondWithJSON(w, http.StatusOK, subs)
}

// GetSubmission returns one submission. Owners see their own; moderators and
// admins see any.
func (h *ProjectsHandler) GetSubmission(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	requesterID, ok := middleware.GetUserID(ctx)
	if !ok {
		respondWithError(w, http.StatusUnauthorized, "User not authenticated")
		return
	}

	submissionID, err := uuid.Parse(mux.Vars(r)["id"])
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid submission ID")
		return
	}

	sub, err := h.projectService.GetSubmission(ctx, submissionID)
	if err != nil {
		respondWithServiceError(w, err)
		return
	}

	if sub.UserID != requesterID {
		role, _ := middleware.GetUserRole(ctx)
		if role != user.RoleModerator && role != user.RoleAdmin {
			respondWithError(w, http.StatusForbidden, "Not authorized to view this submission")
			return
		}
	}

	respondWithJSON(w, http.StatusOK, sub)
}

// Update lets the owner revise a submission that has not entered review.
func (h *ProjectsHandler) Update(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	userID, ok := middleware.GetUserID(ctx)
	if !ok {
		respondWithError(w, http.StatusUnauthorized, "User not authenticated")
		return
	}

	submissionID, err := uuid.Parse(mux.Vars(r)["id"])
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid submission ID")
		return
	}

	var req project.SubmitRequest
	if err := decodeAndValidate(r, &req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid submission data")
		return
	}

	sub, err := h.projectService.UpdateSubmission(ctx, submissionID, userID, &req)
	if err != nil {
		respondWithServiceError(w, err)
		return
	}

	respondWithJSON(w, http.StatusOK, sub)
}

// GetAllSubmissions is the moderation queue, optionally filtered by status.
func (h *ProjectsHandler) GetAllSubmissions(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	skip, _ := strconv.Atoi(r.URL.Query().Get("skip"))
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))

	var statusFilter *project.Status
	if raw := r.URL.Query().Get("status"); raw != "" {
		status := project.Status(raw)
		statusFilter = &status
	}

	subs, err := h.projectService.GetAllSubmissions(ctx, skip, limit, statusFilter)
	if err != nil {
		respondWithError(w, http.StatusInternalServerError, "Failed to load submissions")
		return
	}

	respondWithJSON(w, http.StatusOK, subs)
}

func (h *ProjectsHandler) GetUserSubmissions(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	targetID, err := uuid.Parse(mux.Vars(r)["id"])
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid user ID")
		return
	}

	skip, _ := strconv.Atoi(r.URL.Query().Get("skip"))
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))

	subs, err := h.projectService.GetUserSubmissions(ctx, targetID, skip, limit)
	if err != nil {
		respondWithError(w, http.StatusInternalServerError, "Failed to load submissions")
		return
	}

	respondWithJSON(w, http.StatusOK, subs)
}

func (h *ProjectsHandler) Review(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	reviewerID, ok := middleware.GetUserID(ctx)
	if !ok {
		respondWithError(w, http.StatusUnauthorized, "User not authenticated")
		return
	}

	submissionID, err := uuid.Parse(mux.Vars(r)["id"])
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid submission ID")
		return
	}

	var req project.ReviewRequest
	if err := decodeAndValidate(r, &req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid review data")
		return
	}

	sub, err := h.projectService.ReviewSubmission(ctx, submissionID, reviewerID, &req)
	if err != nil {
		respondWithServiceError(w, err)
		return
	}

	respondWithJSON(w, http.StatusOK, sub)
}

// GetPublicSubmission is the unauthenticated showcase endpoint. Only
// approved submissions are visible here.
func (h *ProjectsHandler) GetPublicSubmission(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	submissionID, err := uuid.Parse(mux.Vars(r)["id"])
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid submission ID")
		return
	}

	sub, err := h.projectService.GetPublicSubmission(ctx, submissionID)
	if err != nil {
		respondWithServiceError(w, err)
		return
	}

	respondWithJSON(w, http.StatusOK, sub)
}
