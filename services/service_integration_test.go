package services

import (
	"context"
	"fmt"
	"os"
	"testing"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"qpathAPI/internal/database"
	"qpathAPI/internal/gamification"
	"qpathAPI/internal/reward"
	"qpathAPI/internal/task"
	"qpathAPI/internal/user"
)

// newTestServices connects to TEST_DATABASE_URL and applies the schema.
// Tests are skipped entirely when the variable is unset.
func newTestServices(t *testing.T) (*pgxpool.Pool, *UserService, *GamificationService, *TrackService) {
	t.Helper()
	_ = godotenv.Load("../.env")

	dbURL := os.Getenv("TEST_DATABASE_URL")
	if dbURL == "" {
		t.Skip("TEST_DATABASE_URL not set, skipping database tests")
	}

	ctx := context.Background()
	pool, err := database.NewPool(ctx, dbURL)
	require.NoError(t, err)
	t.Cleanup(pool.Close)

	require.NoError(t, database.Migrate(ctx, pool))

	trackService := NewTrackService(pool)
	return pool, NewUserService(pool), NewGamificationService(pool, trackService), trackService
}

func createTestUser(t *testing.T, users *UserService) *user.User {
	t.Helper()
	suffix := uuid.NewString()[:8]
	u, err := users.CreateUser(context.Background(), &user.RegisterRequest{
		Email:    fmt.Sprintf("test-%s@example.com", suffix),
		Username: "tester_" + suffix,
		FullName: "Test User",
		Password: "s3cretpassword",
	})
	require.NoError(t, err)
	return u
}

func TestCreateUserRejectsDuplicates(t *testing.T) {
	_, users, _, _ := newTestServices(t)
	ctx := context.Background()

	u := createTestUser(t, users)

	_, err := users.CreateUser(ctx, &user.RegisterRequest{
		Email:    u.Email,
		Username: "other_" + uuid.NewString()[:8],
		FullName: "Someone Else",
		Password: "s3cretpassword",
	})
	assert.ErrorIs(t, err, ErrEmailTaken)

	_, err = users.CreateUser(ctx, &user.RegisterRequest{
		Email:    fmt.Sprintf("other-%s@example.com", uuid.NewString()[:8]),
		Username: u.Username,
		FullName: "Someone Else",
		Password: "s3cretpassword",
	})
	assert.ErrorIs(t, err, ErrUsernameTaken)
}

func TestCreateUserCreatesProfile(t *testing.T) {
	_, users, gam, _ := newTestServices(t)
	ctx := context.Background()

	u := createTestUser(t, users)

	profile, err := gam.GetProfile(ctx, u.ID)
	require.NoError(t, err, "profile exists right after registration")
	assert.Equal(t, 0, profile.TotalXP)
	assert.Equal(t, 0, profile.CurrentStreak)
	assert.Equal(t, gamification.LevelIniciante, profile.CurrentLevel)
}

func TestAddXPAccumulatesAndLevels(t *testing.T) {
	_, users, gam, _ := newTestServices(t)
	ctx := context.Background()

	u := createTestUser(t, users)
	require.NoError(t, gam.EnsureProfile(ctx, u.ID))

	profile, err := gam.AddXP(ctx, u.ID, 600, gamification.ActivityPomodoroSession, "Sessão de teste", nil)
	require.NoError(t, err)
	assert.Equal(t, 600, profile.TotalXP)
	assert.Equal(t, gamification.LevelIniciante, profile.CurrentLevel)

	profile, err = gam.AddXP(ctx, u.ID, 500, gamification.ActivityPomodoroSession, "Sessão de teste", nil)
	require.NoError(t, err)
	assert.Equal(t, 1100, profile.TotalXP)
	assert.Equal(t, gamification.LevelExplorador, profile.CurrentLevel)

	logs, err := gam.GetActivityLogs(ctx, u.ID, 0, 50)
	require.NoError(t, err)

	var levelUps int
	for _, l := range logs {
		if l.ActivityType == gamification.ActivityLevelUp {
			levelUps++
			assert.Equal(t, 0, l.XPEarned)
		}
	}
	assert.Equal(t, 1, levelUps, "exactly one level-up entry for crossing one threshold")
}

func TestUpdateStreakIdempotentSameDay(t *testing.T) {
	_, users, gam, _ := newTestServices(t)
	ctx := context.Background()

	u := createTestUser(t, users)

	profile, err := gam.UpdateStreak(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, profile.CurrentStreak)

	profile, err = gam.UpdateStreak(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, profile.CurrentStreak)
	assert.GreaterOrEqual(t, profile.LongestStreak, profile.CurrentStreak)
}

func TestUpdateStreakWeeklyMilestoneAwardsBonus(t *testing.T) {
	pool, users, gam, _ := newTestServices(t)
	ctx := context.Background()

	u := createTestUser(t, users)
	_, err := pool.Exec(ctx, `
	UPDATE gamification_profiles
	SET current_streak = 6, longest_streak = 6, last_activity_date = NOW() - INTERVAL '1 day'
	WHERE user_id = $1`, u.ID)
	require.NoError(t, err)

	profile, err := gam.UpdateStreak(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, 7, profile.CurrentStreak)
	assert.Equal(t, 7, profile.LongestStreak)
	assert.Equal(t, 35, profile.TotalXP, "seven-day milestone pays streak*5")

	logs, err := gam.GetActivityLogs(ctx, u.ID, 0, 50)
	require.NoError(t, err)

	var milestones int
	for _, l := range logs {
		if l.ActivityType == gamification.ActivityStreakAchievement {
			milestones++
			assert.Equal(t, 35, l.XPEarned)
		}
	}
	assert.Equal(t, 1, milestones, "exactly one milestone entry at day seven")
}

func TestCompleteTrilhaKeepsExplicitZeroXP(t *testing.T) {
	_, users, gam, _ := newTestServices(t)
	ctx := context.Background()

	u := createTestUser(t, users)

	profile, err := gam.CompleteTrilha(ctx, u.ID, "Trilha de Inglês", 0)
	require.NoError(t, err)
	assert.Equal(t, 0, profile.TotalXP, "an explicit zero award adds no XP")
	assert.Equal(t, 1, profile.CompletedTrilhas)

	logs, err := gam.GetActivityLogs(ctx, u.ID, 0, 50)
	require.NoError(t, err)
	require.Len(t, logs, 1, "zero-XP completion still logs")
	assert.Equal(t, gamification.ActivityTrilhaCompletion, logs[0].ActivityType)
	assert.Equal(t, 0, logs[0].XPEarned)

	profile, err = gam.CompleteTrilha(ctx, u.ID, "Trilha de Software", 100)
	require.NoError(t, err)
	assert.Equal(t, 100, profile.TotalXP)
	assert.Equal(t, 2, profile.CompletedTrilhas)
}

func TestReplaceTasks(t *testing.T) {
	_, users, gam, _ := newTestServices(t)
	ctx := context.Background()

	u := createTestUser(t, users)

	seeded, err := gam.GetTasks(ctx, u.ID)
	require.NoError(t, err)
	assert.Len(t, seeded, 3, "first read seeds the default tasks")

	tasks, err := gam.ReplaceTasks(ctx, u.ID, []task.StudyTaskInput{
		{Title: "Revisar qubits"},
		{Title: "   "},
	})
	require.NoError(t, err)
	require.Len(t, tasks, 1, "blank titles are dropped")
	assert.Equal(t, "Revisar qubits", tasks[0].Title)

	tasks, err = gam.ReplaceTasks(ctx, u.ID, nil)
	require.NoError(t, err)
	assert.Len(t, tasks, 1, "empty payload keeps the existing list")
}

func TestRewardAchievedAtLockstep(t *testing.T) {
	_, users, gam, _ := newTestServices(t)
	ctx := context.Background()

	u := createTestUser(t, users)

	created, err := gam.CreateReward(ctx, u.ID, &reward.CreateRequest{
		Condition: "Nível 5",
		Reward:    "Café especial",
	})
	require.NoError(t, err)
	assert.False(t, created.Achieved)
	assert.Nil(t, created.AchievedAt)

	achieved := true
	updated, err := gam.UpdateReward(ctx, u.ID, created.ID, &reward.UpdateRequest{Achieved: &achieved})
	require.NoError(t, err)
	assert.True(t, updated.Achieved)
	require.NotNil(t, updated.AchievedAt)

	achieved = false
	updated, err = gam.UpdateReward(ctx, u.ID, created.ID, &reward.UpdateRequest{Achieved: &achieved})
	require.NoError(t, err)
	assert.False(t, updated.Achieved)
	assert.Nil(t, updated.AchievedAt)
}

func TestCatalogSeedingIdempotent(t *testing.T) {
	_, users, _, tracks := newTestServices(t)
	ctx := context.Background()

	require.NoError(t, tracks.EnsureDefaults(ctx))
	require.NoError(t, tracks.EnsureDefaults(ctx))

	u := createTestUser(t, users)
	catalog, err := tracks.GetTracksWithProgress(ctx, u.ID)
	require.NoError(t, err)

	slugs := make(map[string]int)
	for _, tr := range catalog {
		slugs[tr.Slug]++
	}
	for slug, n := range slugs {
		assert.Equal(t, 1, n, "track %s duplicated", slug)
	}
}

func TestSetLessonCompletionUnknownLesson(t *testing.T) {
	_, users, _, tracks := newTestServices(t)
	ctx := context.Background()

	u := createTestUser(t, users)
	err := tracks.SetLessonCompletion(ctx, u.ID, uuid.New(), true)
	assert.ErrorIs(t, err, ErrNotFound)
}
