package track

import (
	"time"

	"github.com/google/uuid"
)

type LearningTrack struct {
	ID          uuid.UUID `json:"id" db:"id"`
	Slug        string    `json:"slug" db:"slug"`
	Name        string    `json:"name" db:"name"`
	Description *string   `json:"description" db:"description"`
	Color       string    `json:"color" db:"color"`
	CreatedAt   time.Time `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time `json:"updated_at" db:"updated_at"`
}

type TrackModule struct {
	ID          uuid.UUID `json:"id" db:"id"`
	TrackID     uuid.UUID `json:"track_id" db:"track_id"`
	Slug        string    `json:"slug" db:"slug"`
	Title       string    `json:"title" db:"title"`
	Description *string   `json:"description" db:"description"`
	Order       int       `json:"order" db:"display_order"`
	CreatedAt   time.Time `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time `json:"updated_at" db:"updated_at"`
}

type TrackLesson struct {
	ID        uuid.UUID `json:"id" db:"id"`
	ModuleID  uuid.UUID `json:"module_id" db:"module_id"`
	Slug      string    `json:"slug" db:"slug"`
	Title     string    `json:"title" db:"title"`
	Order     int       `json:"order" db:"display_order"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

// UserLessonProgress is unique on (user_id, lesson_id); absence of a row
// means "not completed".
type UserLessonProgress struct {
	ID          uuid.UUID  `json:"id" db:"id"`
	UserID      uuid.UUID  `json:"user_id" db:"user_id"`
	LessonID    uuid.UUID  `json:"lesson_id" db:"lesson_id"`
	Completed   bool       `json:"completed" db:"completed"`
	CompletedAt *time.Time `json:"completed_at" db:"completed_at"`
}

type LessonCompletionUpdate struct {
	Completed bool `json:"completed"`
}

type LessonResponse struct {
	ID        uuid.UUID `json:"id"`
	Slug      string    `json:"slug"`
	Title     string    `json:"title"`
	Order     int       `json:"order"`
	Completed bool      `json:"completed"`
}

type ModuleResponse struct {
	ID          uuid.UUID        `json:"id"`
	Slug        string           `json:"slug"`
	Title       string           `json:"title"`
	Description *string          `json:"description"`
	Order       int              `json:"order"`
	Progress    float64          `json:"progress"`
	Lessons     []LessonResponse `json:"lessons"`
}

type TrackResponse struct {
	ID          uuid.UUID        `json:"id"`
	Slug        string           `json:"slug"`
	Name        string           `json:"name"`
	Description *string          `json:"description"`
	Color       string           `json:"color"`
	Progress    float64          `json:"progress"`
	Modules     []ModuleResponse `json:"modules"`
}

type SummaryItem struct {
	TrackID  uuid.UUID `json:"track_id"`
	Slug     string    `json:"slug"`
	Name     string    `json:"name"`
	Color    string    `json:"color"`
	Progress float64   `json:"progress"`
}
