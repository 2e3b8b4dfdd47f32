package task

import (
	"time"

	"github.com/google/uuid"
)

type StudyTask struct {
	ID        uuid.UUID `json:"id" db:"id"`
	UserID    uuid.UUID `json:"user_id" db:"user_id"`
	Title     string    `json:"title" db:"title"`
	DueDate   *string   `json:"due_date" db:"due_date"`
	Completed bool      `json:"completed" db:"completed"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

type StudyTaskInput struct {
	Title     string  `json:"title"`
	DueDate   *string `json:"due_date,omitempty"`
	Completed bool    `json:"completed"`
}

type CompletionUpdate struct {
	Completed bool `json:"completed"`
}
