package project

import (
	"time"

	"github.com/google/uuid"
)

type Type string

const (
	TypeResearch Type = "research"
	TypeStartup  Type = "startup"
)

type Status string

const (
	StatusDraft       Status = "draft"
	StatusSubmitted   Status = "submitted"
	StatusUnderReview Status = "under_review"
	StatusApproved    Status = "approved"
	StatusRejected    Status = "rejected"
)

type Submission struct {
	ID             uuid.UUID  `json:"id" db:"id"`
	UserID         uuid.UUID  `json:"user_id" db:"user_id"`
	Title          string     `json:"title" db:"title"`
	Description    string     `json:"description" db:"description"`
	ProjectType    Type       `json:"project_type" db:"project_type"`
	RepositoryURL  *string    `json:"repository_url" db:"repository_url"`
	DemoURL        *string    `json:"demo_url" db:"demo_url"`
	Status         Status     `json:"status" db:"status"`
	ReviewerNotes  *string    `json:"reviewer_notes" db:"reviewer_notes"`
	ReviewedBy     *uuid.UUID `json:"reviewed_by" db:"reviewed_by"`
	ReviewedAt     *time.Time `json:"reviewed_at" db:"reviewed_at"`
	SubmittedAt    time.Time  `json:"submitted_at" db:"submitted_at"`
	UpdatedAt      time.Time  `json:"updated_at" db:"updated_at"`
	AuthorUsername string     `json:"author_username,omitempty" db:"-"`
}

type SubmitRequest struct {
	Title         string  `json:"title" validate:"required,min=3,max=200"`
	Description   string  `json:"description" validate:"required,min=10,max=5000"`
	ProjectType   Type    `json:"project_type" validate:"required,oneof=research startup"`
	RepositoryURL *string `json:"repository_url,omitempty" validate:"omitempty,url,max=500"`
	DemoURL       *string `json:"demo_url,omitempty" validate:"omitempty,url,max=500"`
}

// ReviewRequest is a moderator action. Status transitions other than the
// listed ones are rejected before reaching storage.
type ReviewRequest struct {
	Status        Status  `json:"status" validate:"required,oneof=under_review approved rejected"`
	ReviewerNotes *string `json:"reviewer_notes,omitempty" validate:"omitempty,max=2000"`
}

// PublicSubmission omits reviewer fields for unauthenticated reads.
type PublicSubmission struct {
	ID             uuid.UUID `json:"id"`
	Title          string    `json:"title"`
	Description    string    `json:"description"`
	ProjectType    Type      `json:"project_type"`
	RepositoryURL  *string   `json:"repository_url"`
	DemoURL        *string   `json:"demo_url"`
	Status         Status    `json:"status"`
	SubmittedAt    time.Time `json:"submitted_at"`
	AuthorUsername string    `json:"author_username"`
}

func (s Submission) Public() PublicSubmission {
	return PublicSubmission{
		ID:             s.ID,
		Title:          s.Title,
		Description:    s.Description,
		ProjectType:    s.ProjectType,
		RepositoryURL:  s.RepositoryURL,
		DemoURL:        s.DemoURL,
		Status:         s.Status,
		SubmittedAt:    s.SubmittedAt,
		AuthorUsername: s.AuthorUsername,
	}
}
