package studysession

import (
	"time"

	"github.com/google/uuid"
)

// StudySession is an immutable record of a completed focus session. It is
// the source of truth for weekly-hours and the session-based streak figure.
type StudySession struct {
	ID              uuid.UUID `json:"id" db:"id"`
	UserID          uuid.UUID `json:"user_id" db:"user_id"`
	DurationMinutes int       `json:"duration_minutes" db:"duration_minutes"`
	SessionDate     time.Time `json:"session_date" db:"session_date"`
	CreatedAt       time.Time `json:"created_at" db:"created_at"`
}

type WeekProgressDay struct {
	Day   string  `json:"day"`
	Hours float64 `json:"hours"`
}

// WeekProgress carries the session-derived streak, which is computed
// independently from the profile's current_streak and may diverge from it.
type WeekProgress struct {
	Streak     int               `json:"streak"`
	TotalHours float64           `json:"total_hours"`
	Week       []WeekProgressDay `json:"week"`
}
