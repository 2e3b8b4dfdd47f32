package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"qpathAPI/internal/project"
)

type ProjectService struct {
	db           *pgxpool.Pool
	gamification *GamificationService
}

func NewProjectService(db *pgxpool.Pool, gamification *GamificationService) *ProjectService {
	return &ProjectService{db: db, gamification: gamification}
}

const submissionColumns = `s.id, s.user_id, s.title, s.description, s.project_type, s.repository_url, s.demo_url, s.status, s.reviewer_notes, s.reviewed_by, s.reviewed_at, s.submitted_at, s.updated_at, u.username`

func scanSubmission(row pgx.Row) (*project.Submission, error) {
	sub := &project.Submission{}
	err := row.Scan(
		&sub.ID,
		&sub.UserID,
		&sub.Title,
		&sub.Description,
		&sub.ProjectType,
		&sub.RepositoryURL,
		&sub.DemoURL,
		&sub.Status,
		&sub.ReviewerNotes,
		&sub.ReviewedBy,
		&sub.ReviewedAt,
		&sub.SubmittedAt,
		&sub.UpdatedAt,
		&sub.AuthorUsername,
	)
	if err != nil {
		return nil, err
	}
	return sub, nil
}

// CreateSubmission stores a new submission and awards the submission XP.
func (s *ProjectService) CreateSubmission(ctx context.Context, userID uuid.UUID, req *project.SubmitRequest) (*project.Submission, error) {
	id := uuid.New()
	_, err := s.db.Exec(ctx, `
	INSERT INTO project_submissions (id, user_id, title, description, project_type, repository_url, demo_url, status)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		id, userID, req.Title, req.Description, req.ProjectType, req.RepositoryURL, req.DemoURL, project.StatusSubmitted)
	if err != nil {
		return nil, fmt.Errorf("failed to create submission: %w", err)
	}

	err = s.gamification.CompleteProjectSubmission(ctx, userID, req.Title, string(req.ProjectType), id)
	if err != nil {
		return nil, err
	}

	return s.GetSubmission(ctx, id)
}

func (s *ProjectService) GetSubmission(ctx context.Context, submissionID uuid.UUID) (*project.Submission, error) {
	sub, err := scanSubmission(s.db.QueryRow(ctx, `
	SELECT `+submissionColumns+`
	FROM project_submissions s
	JOIN users u ON u.id = s.user_id
	WHERE s.id = $1`, submissionID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get submission: %w", err)
	}
	return sub, nil
}

func (s *ProjectService) GetUserSubmissions(ctx context.Context, userID uuid.UUID, skip, limit int) ([]project.Submission, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	if skip < 0 {
		skip = 0
	}

	rows, err := s.db.Query(ctx, `
	SELECT `+submissionColumns+`
	FROM project_submissions s
	JOIN users u ON u.id = s.user_id
	WHERE s.user_id = $1
	ORDER BY s.submitted_at DESC, s.id
	LIMIT $2 OFFSET $3`, userID, limit, skip)
	if err != nil {
		return nil, fmt.Errorf("failed to get submissions: %w", err)
	}
	defer rows.Close()

	return collectSubmissions(rows)
}

// GetAllSubmissions lists every submission, optionally filtered by status.
// Moderator surface.
func (s *ProjectService) GetAllSubmissions(ctx context.Context, skip, limit int, statusFilter *project.Status) ([]project.Submission, error) {
	if limit <= 0 || limit > 100 {
		limit = 50
	}
	if skip < 0 {
		skip = 0
	}

	query := `
	SELECT ` + submissionColumns + `
	FROM project_submissions s
	JOIN users u ON u.id = s.user_id`
	args := []any{limit, skip}
	if statusFilter != nil {
		query += ` WHERE s.status = $3`
		args = append(args, *statusFilter)
	}
	query += ` ORDER BY s.submitted_at DESC, s.id LIMIT $1 OFFSET $2`

	rows, err := s.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list submissions: %w", err)
	}
	defer rows.Close()

	return collectSubmissions(rows)
}

// UpdateSubmission lets the owner rework a submission before moderation
// picks it up. Anything already under review or decided is locked.
func (s *ProjectService) UpdateSubmission(ctx context.Context, submissionID, userID uuid.UUID, req *project.SubmitRequest) (*project.Submission, error) {
	sub, err := s.GetSubmission(ctx, submissionID)
	if err != nil {
		return nil, err
	}
	if sub.UserID != userID {
		return nil, ErrForbidden
	}
	if sub.Status != project.StatusDraft && sub.Status != project.StatusSubmitted {
		return nil, ErrForbidden
	}

	_, err = s.db.Exec(ctx, `
	UPDATE project_submissions
	SET title = $1, description = $2, project_type = $3, repository_url = $4, demo_url = $5, updated_at = NOW()
	WHERE id = $6`, req.Title, req.Description, req.ProjectType, req.RepositoryURL, req.DemoURL, submissionID)
	if err != nil {
		return nil, fmt.Errorf("failed to update submission: %w", err)
	}

	return s.GetSubmission(ctx, submissionID)
}

// ReviewSubmission applies a moderation decision and stamps the reviewer.
func (s *ProjectService) ReviewSubmission(ctx context.Context, submissionID, reviewerID uuid.UUID, req *project.ReviewRequest) (*project.Submission, error) {
	tag, err := s.db.Exec(ctx, `
	UPDATE project_submissions
	SET status = $1, reviewer_notes = $2, reviewed_by = $3, reviewed_at = NOW(), updated_at = NOW()
	WHERE id = $4`, req.Status, req.ReviewerNotes, reviewerID, submissionID)
	if err != nil {
		return nil, fmt.Errorf("failed to review submission: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return nil, ErrNotFound
	}

	return s.GetSubmission(ctx, submissionID)
}

// GetPublicSubmission exposes a submission without reviewer fields. Only
// approved work is visible to unauthenticated readers.
func (s *ProjectService) GetPublicSubmission(ctx context.Context, submissionID uuid.UUID) (*project.PublicSubmission, error) {
	sub, err := s.GetSubmission(ctx, submissionID)
	if err != nil {
		return nil, err
	}
	if sub.Status != project.StatusApproved {
		return nil, ErrNotFound
	}

	public := sub.Public()
	return &public, nil
}

func collectSubmissions(rows pgx.Rows) ([]project.Submission, error) {
	submissions := make([]project.Submission, 0)
	for rows.Next() {
		sub, err := scanSubmission(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan submission: %w", err)
		}
		submissions = append(submissions, *sub)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read submissions: %w", err)
	}
	return submissions, nil
}
