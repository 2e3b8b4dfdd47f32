package gamification

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLevelForXP(t *testing.T) {
	tests := []struct {
		name    string
		totalXP int
		want    Level
	}{
		{"zero", 0, LevelIniciante},
		{"just below explorador", 999, LevelIniciante},
		{"explorador threshold", 1000, LevelExplorador},
		{"mid explorador", 2999, LevelExplorador},
		{"especialista threshold", 3000, LevelEspecialista},
		{"just below mestre", 6999, LevelEspecialista},
		{"mestre threshold", 7000, LevelMestre},
		{"just below guardian", 14999, LevelMestre},
		{"guardian threshold", 15000, LevelQuantumGuardian},
		{"far beyond guardian", 1000000, LevelQuantumGuardian},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, LevelForXP(tt.totalXP))
		})
	}
}

func TestBuildAchievements(t *testing.T) {
	profile := &Profile{PomodoroSessions: 0}

	t.Run("nothing unlocked for fresh profile", func(t *testing.T) {
		achievements := BuildAchievements(profile, 0, 0, map[string]struct{}{}, 0)
		assert.Len(t, achievements, 5)
		for _, a := range achievements {
			assert.False(t, a.Unlocked, a.ID)
		}
	})

	t.Run("first pomodoro unlocks on session count", func(t *testing.T) {
		p := &Profile{PomodoroSessions: 1}
		achievements := BuildAchievements(p, 0, 0, map[string]struct{}{}, 0)
		assert.True(t, findAchievement(t, achievements, "first_pomodoro").Unlocked)
	})

	t.Run("first pomodoro unlocks on hours alone", func(t *testing.T) {
		achievements := BuildAchievements(profile, 0.5, 0, map[string]struct{}{}, 0)
		assert.True(t, findAchievement(t, achievements, "first_pomodoro").Unlocked)
	})

	t.Run("crypto master requires the s1 module", func(t *testing.T) {
		achievements := BuildAchievements(profile, 0, 0, map[string]struct{}{"q1": {}}, 0)
		assert.False(t, findAchievement(t, achievements, "crypto_master").Unlocked)

		achievements = BuildAchievements(profile, 0, 0, map[string]struct{}{"s1": {}}, 0)
		assert.True(t, findAchievement(t, achievements, "crypto_master").Unlocked)
	})

	t.Run("hundred hours at exactly 100", func(t *testing.T) {
		achievements := BuildAchievements(profile, 100, 0, map[string]struct{}{}, 0)
		assert.True(t, findAchievement(t, achievements, "hundred_hours").Unlocked)

		achievements = BuildAchievements(profile, 99.99, 0, map[string]struct{}{}, 0)
		assert.False(t, findAchievement(t, achievements, "hundred_hours").Unlocked)
	})

	t.Run("weekly master at a 7 day streak", func(t *testing.T) {
		achievements := BuildAchievements(profile, 0, 7, map[string]struct{}{}, 0)
		assert.True(t, findAchievement(t, achievements, "weekly_master").Unlocked)

		achievements = BuildAchievements(profile, 0, 6, map[string]struct{}{}, 0)
		assert.False(t, findAchievement(t, achievements, "weekly_master").Unlocked)
	})

	t.Run("lesson hunter at 20 lessons", func(t *testing.T) {
		achievements := BuildAchievements(profile, 0, 0, map[string]struct{}{}, 20)
		assert.True(t, findAchievement(t, achievements, "lesson_hunter").Unlocked)

		achievements = BuildAchievements(profile, 0, 0, map[string]struct{}{}, 19)
		assert.False(t, findAchievement(t, achievements, "lesson_hunter").Unlocked)
	})
}

func findAchievement(t *testing.T, achievements []AchievementResponse, id string) AchievementResponse {
	t.Helper()
	for _, a := range achievements {
		if a.ID == id {
			return a
		}
	}
	t.Fatalf("achievement %s not found", id)
	return AchievementResponse{}
}
