package gamification

import (
	"time"

	"github.com/google/uuid"
)

type Level string

const (
	LevelIniciante       Level = "iniciante"        // 0-999 XP
	LevelExplorador      Level = "explorador"       // 1000-2999 XP
	LevelEspecialista    Level = "especialista"     // 3000-6999 XP
	LevelMestre          Level = "mestre"           // 7000-14999 XP
	LevelQuantumGuardian Level = "quantum_guardian" // 15000+ XP
)

type ActivityType string

const (
	ActivityLogin              ActivityType = "login"
	ActivityTrilhaCompletion   ActivityType = "trilha_completion"
	ActivityProjetoSubmission  ActivityType = "projeto_submission"
	ActivityQMentorInteraction ActivityType = "qmentor_interaction"
	ActivityPomodoroSession    ActivityType = "pomodoro_session"
	ActivityStreakAchievement  ActivityType = "streak_achievement"
	ActivityLevelUp            ActivityType = "level_up"
)

type Profile struct {
	ID                uuid.UUID  `json:"id" db:"id"`
	UserID            uuid.UUID  `json:"user_id" db:"user_id"`
	TotalXP           int        `json:"total_xp" db:"total_xp"`
	CurrentLevel      Level      `json:"current_level" db:"current_level"`
	CurrentStreak     int        `json:"current_streak" db:"current_streak"`
	LongestStreak     int        `json:"longest_streak" db:"longest_streak"`
	CompletedTrilhas  int        `json:"completed_trilhas" db:"completed_trilhas"`
	CompletedProjects int        `json:"completed_projects" db:"completed_projects"`
	PomodoroSessions  int        `json:"pomodoro_sessions" db:"pomodoro_sessions"`
	LastActivityDate  *time.Time `json:"last_activity_date" db:"last_activity_date"`
	CreatedAt         time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt         time.Time  `json:"updated_at" db:"updated_at"`
}

// ActivityLog rows are append-only: one row per XP-affecting or milestone
// event, never updated or deleted.
type ActivityLog struct {
	ID           uuid.UUID    `json:"id" db:"id"`
	UserID       uuid.UUID    `json:"user_id" db:"user_id"`
	ActivityType ActivityType `json:"activity_type" db:"activity_type"`
	Description  string       `json:"description" db:"description"`
	XPEarned     int          `json:"xp_earned" db:"xp_earned"`
	Metadata     *string      `json:"metadata" db:"metadata"`
	CreatedAt    time.Time    `json:"created_at" db:"created_at"`
}

type LeaderboardEntry struct {
	Rank             int    `json:"rank"`
	Username         string `json:"username"`
	TotalXP          int    `json:"total_xp"`
	Level            Level  `json:"level"`
	CompletedTrilhas int    `json:"completed_trilhas"`
}

type AddXPRequest struct {
	XPAmount     int          `json:"xp_amount" validate:"required,min=1,max=1000"`
	ActivityType ActivityType `json:"activity_type" validate:"required"`
	Description  string       `json:"description" validate:"required,min=3,max=500"`
}

type CompleteTrilhaRequest struct {
	TrilhaName string `json:"trilha_name" validate:"required,min=3,max=100"`
	XPEarned   *int   `json:"xp_earned" validate:"omitempty,min=0,max=1000"`
}

type PomodoroSessionRequest struct {
	DurationMinutes int `json:"duration_minutes" validate:"required,min=1,max=240"`
}

type AchievementResponse struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Unlocked    bool   `json:"unlocked"`
}

type ProfileStats struct {
	TotalXP          int     `json:"total_xp"`
	CurrentLevel     Level   `json:"current_level"`
	TotalHours       float64 `json:"total_hours"`
	CompletedLessons int     `json:"completed_lessons"`
	TotalLessons     int     `json:"total_lessons"`
	PomodoroSessions int     `json:"pomodoro_sessions"`
}
