package services

import (
	"context"
	"errors"
	"fmt"
	"log"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"qpathAPI/internal/auth"
	"qpathAPI/internal/user"
)

type UserService struct {
	db *pgxpool.Pool
}

func NewUserService(db *pgxpool.Pool) *UserService {
	return &UserService{db: db}
}

const userColumns = `id, email, username, full_name, hashed_password, role, is_active, is_verified, password_reset_token, last_login, created_at, updated_at`

func scanUser(row pgx.Row) (*user.User, error) {
	u := &user.User{}
	err := row.Scan(
		&u.ID,
		&u.Email,
		&u.Username,
		&u.FullName,
		&u.HashedPassword,
		&u.Role,
		&u.IsActive,
		&u.IsVerified,
		&u.PasswordResetToken,
		&u.LastLogin,
		&u.CreatedAt,
		&u.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return u, nil
}

// CreateUser registers a new account together with its zeroed gamification
// profile in one transaction. Email and username collisions are checked up
// front so the caller gets a specific error instead of a raw unique-violation.
func (s *UserService) CreateUser(ctx context.Context, req *user.RegisterRequest) (*user.User, error) {
	var exists bool
	err := s.db.QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM users WHERE email = $1)`, req.Email).Scan(&exists)
	if err != nil {
		return nil, fmt.Errorf("failed to check email: %w", err)
	}
	if exists {
		return nil, ErrEmailTaken
	}

	err = s.db.QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM users WHERE username = $1)`, req.Username).Scan(&exists)
	if err != nil {
		return nil, fmt.Errorf("failed to check username: %w", err)
	}
	if exists {
		return nil, ErrUsernameTaken
	}

	hashed, err := auth.HashPassword(req.Password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	tx, err := s.db.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	query := `
	INSERT INTO users (id, email, username, full_name, hashed_password, role)
	VALUES ($1, $2, $3, $4, $5, $6)
	RETURNING ` + userColumns

	u, err := scanUser(tx.QueryRow(ctx, query, uuid.New(), req.Email, req.Username, req.FullName, hashed, user.RoleUser))
	if err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	_, err = tx.Exec(ctx, `
	INSERT INTO gamification_profiles (id, user_id)
	VALUES ($1, $2)`, uuid.New(), u.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to create profile: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	return u, nil
}

func (s *UserService) GetUserByID(ctx context.Context, id uuid.UUID) (*user.User, error) {
	u, err := scanUser(s.db.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	return u, nil
}

func (s *UserService) GetUserByEmail(ctx context.Context, email string) (*user.User, error) {
	u, err := scanUser(s.db.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE email = $1`, email))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	return u, nil
}

// Authenticate verifies credentials for login. A missing user and a wrong
// password produce the same error so callers cannot probe registered emails.
func (s *UserService) Authenticate(ctx context.Context, email, password string) (*user.User, error) {
	u, err := s.GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	if !auth.CheckPassword(u.HashedPassword, password) {
		return nil, ErrInvalidCredentials
	}
	if !u.IsActive {
		return nil, ErrInactiveAccount
	}

	return u, nil
}

func (s *UserService) RecordLogin(ctx context.Context, userID uuid.UUID) error {
	_, err := s.db.Exec(ctx, `UPDATE users SET last_login = NOW(), updated_at = NOW() WHERE id = $1`, userID)
	if err != nil {
		return fmt.Errorf("failed to record login: %w", err)
	}
	return nil
}

// UpdateProfile applies the non-nil fields of req. Username and email
// changes recheck uniqueness first.
func (s *UserService) UpdateProfile(ctx context.Context, userID uuid.UUID, req *user.UpdateProfileRequest) (*user.User, error) {
	current, err := s.GetUserByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	if req.Username != nil && *req.Username != current.Username {
		var exists bool
		err := s.db.QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM users WHERE username = $1 AND id != $2)`, *req.Username, userID).Scan(&exists)
		if err != nil {
			return nil, fmt.Errorf("failed to check username: %w", err)
		}
		if exists {
			return nil, ErrUsernameTaken
		}
		current.Username = *req.Username
	}
	if req.Email != nil && *req.Email != current.Email {
		var exists bool
		err := s.db.QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM users WHERE email = $1 AND id != $2)`, *req.Email, userID).Scan(&exists)
		if err != nil {
			return nil, fmt.Errorf("failed to check email: %w", err)
		}
		if exists {
			return nil, ErrEmailTaken
		}
		current.Email = *req.Email
	}
	if req.FullName != nil {
		current.FullName = *req.FullName
	}

	query := `
	UPDATE users SET username = $1, email = $2, full_name = $3, updated_at = NOW()
	WHERE id = $4
	RETURNING ` + userColumns

	u, err := scanUser(s.db.QueryRow(ctx, query, current.Username, current.Email, current.FullName, userID))
	if err != nil {
		return nil, fmt.Errorf("failed to update user: %w", err)
	}

	return u, nil
}

func (s *UserService) ListUsers(ctx context.Context, limit, offset int) ([]user.User, error) {
	if limit <= 0 || limit > 100 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}

	rows, err := s.db.Query(ctx, `SELECT `+userColumns+` FROM users ORDER BY created_at DESC, id LIMIT $1 OFFSET $2`, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	defer rows.Close()

	users := make([]user.User, 0)
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan user: %w", err)
		}
		users = append(users, *u)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read users: %w", err)
	}

	return users, nil
}

// SetActive toggles the account without deleting data. Moderation history
// and XP stay intact.
func (s *UserService) SetActive(ctx context.Context, userID uuid.UUID, active bool) error {
	tag, err := s.db.Exec(ctx, `UPDATE users SET is_active = $1, updated_at = NOW() WHERE id = $2`, active, userID)
	if err != nil {
		return fmt.Errorf("failed to update account state: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// StoreResetToken saves the active password-reset token. Issuing a new token
// invalidates any previous one because only the stored value is accepted.
func (s *UserService) StoreResetToken(ctx context.Context, userID uuid.UUID, token string) error {
	_, err := s.db.Exec(ctx, `UPDATE users SET password_reset_token = $1, updated_at = NOW() WHERE id = $2`, token, userID)
	if err != nil {
		return fmt.Errorf("failed to store reset token: %w", err)
	}
	return nil
}

// ResetPassword validates the stored token matches and swaps the password.
func (s *UserService) ResetPassword(ctx context.Context, userID uuid.UUID, token, newPassword string) error {
	var stored *string
	err := s.db.QueryRow(ctx, `SELECT password_reset_token FROM users WHERE id = $1`, userID).Scan(&stored)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return ErrNotFound
		}
		return fmt.Errorf("failed to load reset token: %w", err)
	}
	if stored == nil || *stored != token {
		return ErrInvalidCredentials
	}

	hashed, err := auth.HashPassword(newPassword)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}

	_, err = s.db.Exec(ctx, `
	UPDATE users SET hashed_password = $1, password_reset_token = NULL, updated_at = NOW()
	WHERE id = $2`, hashed, userID)
	if err != nil {
		return fmt.Errorf("failed to reset password: %w", err)
	}

	log.Printf("Password reset completed for user %s", userID)
	return nil
}
