package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"qpathAPI/internal/gamification"
	"qpathAPI/internal/reward"
	"qpathAPI/internal/studysession"
	"qpathAPI/internal/task"
	"qpathAPI/utils"
)

type GamificationService struct {
	db           *pgxpool.Pool
	trackService *TrackService
}

func NewGamificationService(db *pgxpool.Pool, trackService *TrackService) *GamificationService {
	return &GamificationService{db: db, trackService: trackService}
}

const profileColumns = `id, user_id, total_xp, current_level, current_streak, longest_streak, completed_trilhas, completed_projects, pomodoro_sessions, last_activity_date, created_at, updated_at`

func scanProfile(row pgx.Row) (*gamification.Profile, error) {
	p := &gamification.Profile{}
	err := row.Scan(
		&p.ID,
		&p.UserID,
		&p.TotalXP,
		&p.CurrentLevel,
		&p.CurrentStreak,
		&p.LongestStreak,
		&p.CompletedTrilhas,
		&p.CompletedProjects,
		&p.PomodoroSessions,
		&p.LastActivityDate,
		&p.CreatedAt,
		&p.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return p, nil
}

// EnsureProfile creates the gamification profile if it does not exist yet.
// Safe to call repeatedly.
func (s *GamificationService) EnsureProfile(ctx context.Context, userID uuid.UUID) error {
	_, err := s.db.Exec(ctx, `
	INSERT INTO gamification_profiles (id, user_id)
	VALUES ($1, $2)
	ON CONFLICT (user_id) DO NOTHING`, uuid.New(), userID)
	if err != nil {
		return fmt.Errorf("failed to ensure profile: %w", err)
	}
	return nil
}

func (s *GamificationService) GetProfile(ctx context.Context, userID uuid.UUID) (*gamification.Profile, error) {
	p, err := scanProfile(s.db.QueryRow(ctx, `SELECT `+profileColumns+` FROM gamification_profiles WHERE user_id = $1`, userID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get profile: %w", err)
	}
	return p, nil
}

func (s *GamificationService) logActivityTx(ctx context.Context, tx pgx.Tx, userID uuid.UUID, activityType gamification.ActivityType, description string, xpEarned int, metadata map[string]any) error {
	var metadataJSON *string
	if metadata != nil {
		raw, err := json.Marshal(metadata)
		if err != nil {
			return fmt.Errorf("failed to encode metadata: %w", err)
		}
		str := string(raw)
		metadataJSON = &str
	}

	_, err := tx.Exec(ctx, `
	INSERT INTO activity_logs (id, user_id, activity_type, description, xp_earned, metadata)
	VALUES ($1, $2, $3, $4, $5, $6)`, uuid.New(), userID, activityType, description, xpEarned, metadataJSON)
	if err != nil {
		return fmt.Errorf("failed to log activity: %w", err)
	}
	return nil
}

// addXPTx increments XP atomically, recomputes the level, and writes the
// activity log rows. A level change is logged before the triggering activity
// so the log reads bottom-up in chronological order.
func (s *GamificationService) addXPTx(ctx context.Context, tx pgx.Tx, userID uuid.UUID, xpAmount int, activityType gamification.ActivityType, description string, metadata map[string]any) error {
	var totalXP int
	var oldLevel gamification.Level
	err := tx.QueryRow(ctx, `
	UPDATE gamification_profiles
	SET total_xp = total_xp + $1, last_activity_date = NOW(), updated_at = NOW()
	WHERE user_id = $2
	RETURNING total_xp, current_level`, xpAmount, userID).Scan(&totalXP, &oldLevel)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return ErrNotFound
		}
		return fmt.Errorf("failed to add xp: %w", err)
	}

	newLevel := gamification.LevelForXP(totalXP)
	if newLevel != oldLevel {
		_, err := tx.Exec(ctx, `UPDATE gamification_profiles SET current_level = $1 WHERE user_id = $2`, newLevel, userID)
		if err != nil {
			return fmt.Errorf("failed to update level: %w", err)
		}
		err = s.logActivityTx(ctx, tx, userID, gamification.ActivityLevelUp,
			fmt.Sprintf("Subiu para o nível %s!", newLevel), 0,
			map[string]any{"old_level": string(oldLevel), "new_level": string(newLevel)})
		if err != nil {
			return err
		}
	}

	if err := s.logActivityTx(ctx, tx, userID, activityType, description, xpAmount, metadata); err != nil {
		return err
	}

	log.Printf("Added %d XP to user %s. Total: %d", xpAmount, userID, totalXP)
	return nil
}

// LogActivity appends a log entry without touching XP. Used for zero-XP
// events like registration.
func (s *GamificationService) LogActivity(ctx context.Context, userID uuid.UUID, activityType gamification.ActivityType, description string, metadata map[string]any) error {
	tx, err := s.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	if err := s.logActivityTx(ctx, tx, userID, activityType, description, 0, metadata); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// AddXP awards XP and returns the refreshed profile.
func (s *GamificationService) AddXP(ctx context.Context, userID uuid.UUID, xpAmount int, activityType gamification.ActivityType, description string, metadata map[string]any) (*gamification.Profile, error) {
	if err := s.EnsureProfile(ctx, userID); err != nil {
		return nil, err
	}

	tx, err := s.db.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	if err := s.addXPTx(ctx, tx, userID, xpAmount, activityType, description, metadata); err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	return s.GetProfile(ctx, userID)
}

// UpdateStreak advances the daily streak for today's first activity. Calling
// it again on the same day is a no-op. Weekly milestones award bonus XP
// through the regular XP path so level recomputation applies.
func (s *GamificationService) UpdateStreak(ctx context.Context, userID uuid.UUID) (*gamification.Profile, error) {
	if err := s.EnsureProfile(ctx, userID); err != nil {
		return nil, err
	}

	tx, err := s.db.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	var currentStreak, longestStreak int
	var lastActivity *time.Time
	err = tx.QueryRow(ctx, `
	SELECT current_streak, longest_streak, last_activity_date
	FROM gamification_profiles WHERE user_id = $1
	FOR UPDATE`, userID).Scan(&currentStreak, &longestStreak, &lastActivity)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to load streak: %w", err)
	}

	now := time.Now().UTC()
	if lastActivity != nil && utils.SameDay(*lastActivity, now) {
		if err := tx.Commit(ctx); err != nil {
			return nil, fmt.Errorf("failed to commit transaction: %w", err)
		}
		return s.GetProfile(ctx, userID)
	}

	newStreak := utils.NextStreak(lastActivity, now, currentStreak)
	if newStreak > longestStreak {
		longestStreak = newStreak
	}

	_, err = tx.Exec(ctx, `
	UPDATE gamification_profiles
	SET current_streak = $1, longest_streak = $2, last_activity_date = NOW(), updated_at = NOW()
	WHERE user_id = $3`, newStreak, longestStreak, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to update streak: %w", err)
	}

	if newStreak%7 == 0 {
		err := s.addXPTx(ctx, tx, userID, newStreak*5, gamification.ActivityStreakAchievement,
			fmt.Sprintf("Sequência de %d dias!", newStreak),
			map[string]any{"streak_days": newStreak})
		if err != nil {
			return nil, err
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	return s.GetProfile(ctx, userID)
}

// CompleteTrilha marks one learning track finished and awards its XP. An
// explicit zero award still writes the activity log entry.
func (s *GamificationService) CompleteTrilha(ctx context.Context, userID uuid.UUID, trilhaName string, xpEarned int) (*gamification.Profile, error) {
	if err := s.EnsureProfile(ctx, userID); err != nil {
		return nil, err
	}

	tx, err := s.db.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	_, err = tx.Exec(ctx, `
	UPDATE gamification_profiles
	SET completed_trilhas = completed_trilhas + 1, updated_at = NOW()
	WHERE user_id = $1`, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to increment trilhas: %w", err)
	}

	err = s.addXPTx(ctx, tx, userID, xpEarned, gamification.ActivityTrilhaCompletion,
		fmt.Sprintf("Trilha '%s' completada!", trilhaName),
		map[string]any{"trilha_name": trilhaName, "xp_earned": xpEarned})
	if err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	return s.GetProfile(ctx, userID)
}

// LogPomodoroSession records a focus session and awards one XP per minute,
// capped at 60.
func (s *GamificationService) LogPomodoroSession(ctx context.Context, userID uuid.UUID, durationMinutes int) (*gamification.Profile, error) {
	if err := s.EnsureProfile(ctx, userID); err != nil {
		return nil, err
	}

	xpAmount := durationMinutes
	if xpAmount > 60 {
		xpAmount = 60
	}

	tx, err := s.db.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	_, err = tx.Exec(ctx, `
	INSERT INTO study_sessions (id, user_id, duration_minutes, session_date)
	VALUES ($1, $2, $3, NOW())`, uuid.New(), userID, durationMinutes)
	if err != nil {
		return nil, fmt.Errorf("failed to log study session: %w", err)
	}

	_, err = tx.Exec(ctx, `
	UPDATE gamification_profiles
	SET pomodoro_sessions = pomodoro_sessions + 1, updated_at = NOW()
	WHERE user_id = $1`, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to increment sessions: %w", err)
	}

	err = s.addXPTx(ctx, tx, userID, xpAmount, gamification.ActivityPomodoroSession,
		fmt.Sprintf("Sessão Pomodoro de %d minutos concluída!", durationMinutes),
		map[string]any{"duration_minutes": durationMinutes, "xp_earned": xpAmount})
	if err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	return s.GetProfile(ctx, userID)
}

// CompleteProjectSubmission bumps the project counter and awards the fixed
// submission XP. Called by the project service inside its submit flow.
func (s *GamificationService) CompleteProjectSubmission(ctx context.Context, userID uuid.UUID, title, projectType string, submissionID uuid.UUID) error {
	if err := s.EnsureProfile(ctx, userID); err != nil {
		return err
	}

	tx, err := s.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	_, err = tx.Exec(ctx, `
	UPDATE gamification_profiles
	SET completed_projects = completed_projects + 1, updated_at = NOW()
	WHERE user_id = $1`, userID)
	if err != nil {
		return fmt.Errorf("failed to increment projects: %w", err)
	}

	err = s.addXPTx(ctx, tx, userID, 150, gamification.ActivityProjetoSubmission,
		fmt.Sprintf("Projeto '%s' submetido!", title),
		map[string]any{"project_title": title, "project_type": projectType, "submission_id": submissionID.String()})
	if err != nil {
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

func (s *GamificationService) GetActivityLogs(ctx context.Context, userID uuid.UUID, skip, limit int) ([]gamification.ActivityLog, error) {
	if limit <= 0 || limit > 100 {
		limit = 50
	}
	if skip < 0 {
		skip = 0
	}

	rows, err := s.db.Query(ctx, `
	SELECT id, user_id, activity_type, description, xp_earned, metadata, created_at
	FROM activity_logs
	WHERE user_id = $1
	ORDER BY created_at DESC, id
	LIMIT $2 OFFSET $3`, userID, limit, skip)
	if err != nil {
		return nil, fmt.Errorf("failed to get activity logs: %w", err)
	}
	defer rows.Close()

	logs := make([]gamification.ActivityLog, 0)
	for rows.Next() {
		var l gamification.ActivityLog
		err := rows.Scan(&l.ID, &l.UserID, &l.ActivityType, &l.Description, &l.XPEarned, &l.Metadata, &l.CreatedAt)
		if err != nil {
			return nil, fmt.Errorf("failed to scan activity log: %w", err)
		}
		logs = append(logs, l)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read activity logs: %w", err)
	}

	return logs, nil
}

// GetLeaderboard ranks profiles by XP. Ties share neither rank nor order
// ambiguity: id breaks them deterministically.
func (s *GamificationService) GetLeaderboard(ctx context.Context, limit int) ([]gamification.LeaderboardEntry, error) {
	if limit <= 0 || limit > 100 {
		limit = 10
	}

	rows, err := s.db.Query(ctx, `
	SELECT u.username, p.total_xp, p.current_level, p.completed_trilhas
	FROM gamification_profiles p
	JOIN users u ON u.id = p.user_id
	ORDER BY p.total_xp DESC, p.id
	LIMIT $1`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to get leaderboard: %w", err)
	}
	defer rows.Close()

	entries := make([]gamification.LeaderboardEntry, 0, limit)
	rank := 0
	for rows.Next() {
		rank++
		e := gamification.LeaderboardEntry{Rank: rank}
		if err := rows.Scan(&e.Username, &e.TotalXP, &e.Level, &e.CompletedTrilhas); err != nil {
			return nil, fmt.Errorf("failed to scan leaderboard entry: %w", err)
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read leaderboard: %w", err)
	}

	return entries, nil
}

// Tasks ----------------------------------------------------------------------

var defaultTasks = []task.StudyTaskInput{
	{Title: "Estudar Cambridge C1 - Writing Module", DueDate: strPtr("2025-12-15")},
	{Title: "Completar módulo de Vetores - Quantum", DueDate: strPtr("2025-12-18")},
	{Title: "Revisar conceitos de RSA - Cybersecurity", DueDate: strPtr("2025-12-20")},
}

var defaultRewards = []reward.CreateRequest{
	{Condition: "Nível 10", Reward: "Comprar um livro novo"},
	{Condition: "Completar módulo Quantum", Reward: "Uma tarde livre de estudos"},
}

func strPtr(s string) *string { return &s }

// GetTasks returns the user's task list, seeding the starter tasks on first
// access so new dashboards are not empty.
func (s *GamificationService) GetTasks(ctx context.Context, userID uuid.UUID) ([]task.StudyTask, error) {
	tasks, err := s.queryTasks(ctx, userID)
	if err != nil {
		return nil, err
	}
	if len(tasks) > 0 {
		return tasks, nil
	}

	for i, input := range defaultTasks {
		_, err := s.db.Exec(ctx, `
		INSERT INTO study_tasks (id, user_id, title, due_date, completed, position)
		VALUES ($1, $2, $3, $4, $5, $6)`, uuid.New(), userID, input.Title, input.DueDate, false, i)
		if err != nil {
			return nil, fmt.Errorf("failed to seed tasks: %w", err)
		}
	}
	return s.queryTasks(ctx, userID)
}

func (s *GamificationService) queryTasks(ctx context.Context, userID uuid.UUID) ([]task.StudyTask, error) {
	rows, err := s.db.Query(ctx, `
	SELECT id, user_id, title, due_date, completed, created_at, updated_at
	FROM study_tasks
	WHERE user_id = $1
	ORDER BY position, id`, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get tasks: %w", err)
	}
	defer rows.Close()

	tasks := make([]task.StudyTask, 0)
	for rows.Next() {
		var t task.StudyTask
		err := rows.Scan(&t.ID, &t.UserID, &t.Title, &t.DueDate, &t.Completed, &t.CreatedAt, &t.UpdatedAt)
		if err != nil {
			return nil, fmt.Errorf("failed to scan task: %w", err)
		}
		tasks = append(tasks, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read tasks: %w", err)
	}

	return tasks, nil
}

// ReplaceTasks swaps the user's whole task list in one transaction, keeping
// the payload order. An empty payload is a no-op, not a clear-all.
func (s *GamificationService) ReplaceTasks(ctx context.Context, userID uuid.UUID, inputs []task.StudyTaskInput) ([]task.StudyTask, error) {
	if len(inputs) == 0 {
		return s.queryTasks(ctx, userID)
	}

	tx, err := s.db.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, `DELETE FROM study_tasks WHERE user_id = $1`, userID); err != nil {
		return nil, fmt.Errorf("failed to clear tasks: %w", err)
	}

	position := 0
	for _, input := range inputs {
		title := strings.TrimSpace(input.Title)
		if title == "" {
			continue
		}
		_, err := tx.Exec(ctx, `
		INSERT INTO study_tasks (id, user_id, title, due_date, completed, position)
		VALUES ($1, $2, $3, $4, $5, $6)`, uuid.New(), userID, title, input.DueDate, input.Completed, position)
		if err != nil {
			return nil, fmt.Errorf("failed to insert task: %w", err)
		}
		position++
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	return s.queryTasks(ctx, userID)
}

func (s *GamificationService) UpdateTaskCompletion(ctx context.Context, userID, taskID uuid.UUID, completed bool) (*task.StudyTask, error) {
	t := &task.StudyTask{}
	err := s.db.QueryRow(ctx, `
	UPDATE study_tasks
	SET completed = $1, updated_at = NOW()
	WHERE id = $2 AND user_id = $3
	RETURNING id, user_id, title, due_date, completed, created_at, updated_at`,
		completed, taskID, userID).Scan(&t.ID, &t.UserID, &t.Title, &t.DueDate, &t.Completed, &t.CreatedAt, &t.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to update task: %w", err)
	}
	return t, nil
}

// Rewards ---------------------------------------------------------------------

// GetRewards returns the user's rewards, seeding the starter pair when the
// list is empty.
func (s *GamificationService) GetRewards(ctx context.Context, userID uuid.UUID) ([]reward.UserReward, error) {
	rewards, err := s.queryRewards(ctx, userID)
	if err != nil {
		return nil, err
	}
	if len(rewards) > 0 {
		return rewards, nil
	}

	for _, tmpl := range defaultRewards {
		_, err := s.db.Exec(ctx, `
		INSERT INTO user_rewards (id, user_id, condition, reward)
		VALUES ($1, $2, $3, $4)`, uuid.New(), userID, tmpl.Condition, tmpl.Reward)
		if err != nil {
			return nil, fmt.Errorf("failed to seed rewards: %w", err)
		}
	}
	return s.queryRewards(ctx, userID)
}

func (s *GamificationService) queryRewards(ctx context.Context, userID uuid.UUID) ([]reward.UserReward, error) {
	rows, err := s.db.Query(ctx, `
	SELECT id, user_id, condition, reward, achieved, achieved_at, created_at, updated_at
	FROM user_rewards
	WHERE user_id = $1
	ORDER BY created_at, id`, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get rewards: %w", err)
	}
	defer rows.Close()

	rewards := make([]reward.UserReward, 0)
	for rows.Next() {
		var r reward.UserReward
		err := rows.Scan(&r.ID, &r.UserID, &r.Condition, &r.Reward, &r.Achieved, &r.AchievedAt, &r.CreatedAt, &r.UpdatedAt)
		if err != nil {
			return nil, fmt.Errorf("failed to scan reward: %w", err)
		}
		rewards = append(rewards, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read rewards: %w", err)
	}

	return rewards, nil
}

func (s *GamificationService) CreateReward(ctx context.Context, userID uuid.UUID, req *reward.CreateRequest) (*reward.UserReward, error) {
	r := &reward.UserReward{}
	err := s.db.QueryRow(ctx, `
	INSERT INTO user_rewards (id, user_id, condition, reward)
	VALUES ($1, $2, $3, $4)
	RETURNING id, user_id, condition, reward, achieved, achieved_at, created_at, updated_at`,
		uuid.New(), userID, strings.TrimSpace(req.Condition), strings.TrimSpace(req.Reward)).Scan(&r.ID, &r.UserID, &r.Condition, &r.Reward, &r.Achieved, &r.AchievedAt, &r.CreatedAt, &r.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to create reward: %w", err)
	}
	return r, nil
}

// UpdateReward applies the non-nil fields. Toggling Achieved sets or clears
// AchievedAt in the same statement.
func (s *GamificationService) UpdateReward(ctx context.Context, userID, rewardID uuid.UUID, req *reward.UpdateRequest) (*reward.UserReward, error) {
	current := &reward.UserReward{}
	err := s.db.QueryRow(ctx, `
	SELECT id, user_id, condition, reward, achieved, achieved_at, created_at, updated_at
	FROM user_rewards WHERE id = $1 AND user_id = $2`, rewardID, userID).
		Scan(&current.ID, &current.UserID, &current.Condition, &current.Reward, &current.Achieved, &current.AchievedAt, &current.CreatedAt, &current.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to load reward: %w", err)
	}

	if req.Condition != nil {
		current.Condition = *req.Condition
	}
	if req.Reward != nil {
		current.Reward = *req.Reward
	}
	if req.Achieved != nil && *req.Achieved != current.Achieved {
		current.Achieved = *req.Achieved
		if current.Achieved {
			now := time.Now().UTC()
			current.AchievedAt = &now
		} else {
			current.AchievedAt = nil
		}
	}

	err = s.db.QueryRow(ctx, `
	UPDATE user_rewards
	SET condition = $1, reward = $2, achieved = $3, achieved_at = $4, updated_at = NOW()
	WHERE id = $5 AND user_id = $6
	RETURNING id, user_id, condition, reward, achieved, achieved_at, created_at, updated_at`,
		current.Condition, current.Reward, current.Achieved, current.AchievedAt, rewardID, userID).
		Scan(&current.ID, &current.UserID, &current.Condition, &current.Reward, &current.Achieved, &current.AchievedAt, &current.CreatedAt, &current.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to update reward: %w", err)
	}

	return current, nil
}

// Study sessions ---------------------------------------------------------------

// GetWeekProgress builds the Mon-Sun hour buckets plus the session-derived
// streak. The streak here counts consecutive days with at least one session,
// looking back over the last 30 days, and may differ from the profile streak.
func (s *GamificationService) GetWeekProgress(ctx context.Context, userID uuid.UUID) (*studysession.WeekProgress, error) {
	now := time.Now().UTC()
	since := now.AddDate(0, 0, -30)

	rows, err := s.db.Query(ctx, `
	SELECT id, user_id, duration_minutes, session_date, created_at
	FROM study_sessions
	WHERE user_id = $1 AND session_date >= $2
	ORDER BY session_date`, userID, since)
	if err != nil {
		return nil, fmt.Errorf("failed to get study sessions: %w", err)
	}
	defer rows.Close()

	sessions := make([]studysession.StudySession, 0)
	days := make(map[string]struct{})
	for rows.Next() {
		var sess studysession.StudySession
		err := rows.Scan(&sess.ID, &sess.UserID, &sess.DurationMinutes, &sess.SessionDate, &sess.CreatedAt)
		if err != nil {
			return nil, fmt.Errorf("failed to scan study session: %w", err)
		}
		sessions = append(sessions, sess)
		days[sess.SessionDate.UTC().Format("2006-01-02")] = struct{}{}
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read study sessions: %w", err)
	}

	streak := utils.CountConsecutiveDays(days, now)
	progress := studysession.BuildWeekProgress(sessions, now, streak)
	return &progress, nil
}

func (s *GamificationService) GetTotalHours(ctx context.Context, userID uuid.UUID) (float64, error) {
	var totalMinutes int
	err := s.db.QueryRow(ctx, `
	SELECT COALESCE(SUM(duration_minutes), 0) FROM study_sessions WHERE user_id = $1`, userID).Scan(&totalMinutes)
	if err != nil {
		return 0, fmt.Errorf("failed to sum study minutes: %w", err)
	}
	return float64(totalMinutes) / 60.0, nil
}

// Aggregates -------------------------------------------------------------------

func (s *GamificationService) GetDashboard(ctx context.Context, userID uuid.UUID) (*gamification.Dashboard, error) {
	tasks, err := s.GetTasks(ctx, userID)
	if err != nil {
		return nil, err
	}
	weekProgress, err := s.GetWeekProgress(ctx, userID)
	if err != nil {
		return nil, err
	}
	trackSummary, err := s.trackService.GetTrackSummary(ctx, userID)
	if err != nil {
		return nil, err
	}

	return &gamification.Dashboard{
		Tasks:        tasks,
		WeekProgress: *weekProgress,
		TrackSummary: trackSummary,
	}, nil
}

func (s *GamificationService) GetProfileDetails(ctx context.Context, userID uuid.UUID) (*gamification.ProfileDetails, error) {
	profile, err := s.GetProfile(ctx, userID)
	if err != nil {
		return nil, err
	}

	rewards, err := s.GetRewards(ctx, userID)
	if err != nil {
		return nil, err
	}
	tracks, err := s.trackService.GetTracksWithProgress(ctx, userID)
	if err != nil {
		return nil, err
	}
	weekProgress, err := s.GetWeekProgress(ctx, userID)
	if err != nil {
		return nil, err
	}
	totalHours, err := s.GetTotalHours(ctx, userID)
	if err != nil {
		return nil, err
	}

	completedLessons := 0
	totalLessons := 0
	for _, t := range tracks {
		for _, m := range t.Modules {
			for _, l := range m.Lessons {
				totalLessons++
				if l.Completed {
					completedLessons++
				}
			}
		}
	}

	slugs, err := s.trackService.GetCompletedModuleSlugs(ctx, userID)
	if err != nil {
		return nil, err
	}
	completedModules := make(map[string]struct{}, len(slugs))
	for _, slug := range slugs {
		completedModules[slug] = struct{}{}
	}

	achievements := gamification.BuildAchievements(profile, totalHours, weekProgress.Streak, completedModules, completedLessons)

	return &gamification.ProfileDetails{
		Profile:      *profile,
		Achievements: achievements,
		Rewards:      rewards,
		Stats: gamification.ProfileStats{
			TotalXP:          profile.TotalXP,
			CurrentLevel:     profile.CurrentLevel,
			TotalHours:       totalHours,
			CompletedLessons: completedLessons,
			TotalLessons:     totalLessons,
			PomodoroSessions: profile.PomodoroSessions,
		},
		WeekProgress: *weekProgress,
		Tracks:       tracks,
	}, nil
}
