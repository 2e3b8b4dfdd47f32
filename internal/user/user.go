package user

import (
	"time"

	"github.com/google/uuid"
)

type Role string

const (
	RoleUser      Role = "user"
	RoleModerator Role = "moderator"
	RoleAdmin     Role = "admin"
)

type User struct {
	ID                 uuid.UUID  `json:"id" db:"id"`
	Email              string     `json:"email" db:"email"`
	Username           string     `json:"username" db:"username"`
	FullName           string     `json:"full_name" db:"full_name"`
	Role               Role       `json:"role" db:"role"`
	IsActive           bool       `json:"is_active" db:"is_active"`
	IsVerified         bool       `json:"is_verified" db:"is_verified"`
	HashedPassword     string     `json:"-" db:"hashed_password"`
	PasswordResetToken *string    `json:"-" db:"password_reset_token"`
	LastLogin          *time.Time `json:"last_login,omitempty" db:"last_login"`
	CreatedAt          time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt          time.Time  `json:"updated_at" db:"updated_at"`
}
