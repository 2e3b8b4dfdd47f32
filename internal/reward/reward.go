package reward

import (
	"time"

	"github.com/google/uuid"
)

// UserReward is a user-defined condition → reward pair. AchievedAt is set and
// cleared in lockstep with the Achieved flag.
type UserReward struct {
	ID         uuid.UUID  `json:"id" db:"id"`
	UserID     uuid.UUID  `json:"user_id" db:"user_id"`
	Condition  string     `json:"condition" db:"condition"`
	Reward     string     `json:"reward" db:"reward"`
	Achieved   bool       `json:"achieved" db:"achieved"`
	AchievedAt *time.Time `json:"achieved_at" db:"achieved_at"`
	CreatedAt  time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt  time.Time  `json:"updated_at" db:"updated_at"`
}

type CreateRequest struct {
	Condition string `json:"condition" validate:"required,max=255"`
	Reward    string `json:"reward" validate:"required,max=255"`
}

type UpdateRequest struct {
	Condition *string `json:"condition,omitempty" validate:"omitempty,max=255"`
	Reward    *string `json:"reward,omitempty" validate:"omitempty,max=255"`
	Achieved  *bool   `json:"achieved,omitempty"`
}
