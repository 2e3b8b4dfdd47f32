package studysession

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestWeekStart(t *testing.T) {
	tests := []struct {
		name      string
		reference time.Time
		want      time.Time
	}{
		{
			"wednesday maps back to monday",
			time.Date(2026, 3, 11, 15, 30, 0, 0, time.UTC),
			time.Date(2026, 3, 9, 0, 0, 0, 0, time.UTC),
		},
		{
			"monday maps to itself at midnight",
			time.Date(2026, 3, 9, 23, 59, 0, 0, time.UTC),
			time.Date(2026, 3, 9, 0, 0, 0, 0, time.UTC),
		},
		{
			"sunday belongs to the preceding monday",
			time.Date(2026, 3, 15, 2, 0, 0, 0, time.UTC),
			time.Date(2026, 3, 9, 0, 0, 0, 0, time.UTC),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, WeekStart(tt.reference))
		})
	}
}

func TestBuildWeekProgress(t *testing.T) {
	reference := time.Date(2026, 3, 11, 12, 0, 0, 0, time.UTC) // Wednesday

	sessions := []StudySession{
		{DurationMinutes: 25, SessionDate: time.Date(2026, 3, 9, 9, 0, 0, 0, time.UTC)},   // Monday
		{DurationMinutes: 50, SessionDate: time.Date(2026, 3, 9, 18, 0, 0, 0, time.UTC)},  // Monday again
		{DurationMinutes: 90, SessionDate: time.Date(2026, 3, 11, 8, 0, 0, 0, time.UTC)},  // Wednesday
		{DurationMinutes: 60, SessionDate: time.Date(2026, 3, 15, 20, 0, 0, 0, time.UTC)}, // Sunday
		{DurationMinutes: 60, SessionDate: time.Date(2026, 3, 8, 12, 0, 0, 0, time.UTC)},  // previous week
		{DurationMinutes: 60, SessionDate: time.Date(2026, 3, 16, 0, 0, 0, 0, time.UTC)},  // next week
	}

	progress := BuildWeekProgress(sessions, reference, 3)

	assert.Equal(t, 3, progress.Streak)
	assert.Len(t, progress.Week, 7)

	labels := make([]string, 0, 7)
	for _, d := range progress.Week {
		labels = append(labels, d.Day)
	}
	assert.Equal(t, []string{"Seg", "Ter", "Qua", "Qui", "Sex", "Sáb", "Dom"}, labels)

	assert.Equal(t, 1.25, progress.Week[0].Hours) // 25 + 50 minutes
	assert.Equal(t, 0.0, progress.Week[1].Hours)
	assert.Equal(t, 1.5, progress.Week[2].Hours)
	assert.Equal(t, 1.0, progress.Week[6].Hours)
	assert.Equal(t, 3.75, progress.TotalHours)
}

func TestBuildWeekProgressRounding(t *testing.T) {
	reference := time.Date(2026, 3, 9, 12, 0, 0, 0, time.UTC)
	sessions := []StudySession{
		{DurationMinutes: 25, SessionDate: reference}, // 0.41666... hours
	}

	progress := BuildWeekProgress(sessions, reference, 0)
	assert.Equal(t, 0.42, progress.Week[0].Hours)
	assert.Equal(t, 0.42, progress.TotalHours)
}

func TestBuildWeekProgressEmpty(t *testing.T) {
	progress := BuildWeekProgress(nil, time.Date(2026, 3, 9, 0, 0, 0, 0, time.UTC), 0)
	assert.Equal(t, 0.0, progress.TotalHours)
	assert.Len(t, progress.Week, 7)
	for _, d := range progress.Week {
		assert.Equal(t, 0.0, d.Hours)
	}
}
