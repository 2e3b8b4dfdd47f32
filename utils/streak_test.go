package utils

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestSameDay(t *testing.T) {
	morning := time.Date(2026, 3, 10, 1, 0, 0, 0, time.UTC)
	evening := time.Date(2026, 3, 10, 23, 59, 0, 0, time.UTC)
	nextDay := time.Date(2026, 3, 11, 0, 0, 1, 0, time.UTC)

	assert.True(t, SameDay(morning, evening))
	assert.False(t, SameDay(evening, nextDay))
}

func TestNextStreak(t *testing.T) {
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)

	t.Run("first ever activity starts at one", func(t *testing.T) {
		assert.Equal(t, 1, NextStreak(nil, now, 0))
	})

	t.Run("same day keeps current value", func(t *testing.T) {
		last := time.Date(2026, 3, 10, 8, 0, 0, 0, time.UTC)
		assert.Equal(t, 4, NextStreak(&last, now, 4))
	})

	t.Run("yesterday extends the streak", func(t *testing.T) {
		last := time.Date(2026, 3, 9, 23, 0, 0, 0, time.UTC)
		assert.Equal(t, 5, NextStreak(&last, now, 4))
	})

	t.Run("gap resets to one", func(t *testing.T) {
		last := time.Date(2026, 3, 8, 12, 0, 0, 0, time.UTC)
		assert.Equal(t, 1, NextStreak(&last, now, 9))
	})
}

func TestCountConsecutiveDays(t *testing.T) {
	reference := time.Date(2026, 3, 10, 20, 0, 0, 0, time.UTC)

	t.Run("empty set", func(t *testing.T) {
		assert.Equal(t, 0, CountConsecutiveDays(map[string]struct{}{}, reference))
	})

	t.Run("run of three days", func(t *testing.T) {
		days := map[string]struct{}{
			"2026-03-10": {},
			"2026-03-09": {},
			"2026-03-08": {},
			"2026-03-05": {}, // outside the run
		}
		assert.Equal(t, 3, CountConsecutiveDays(days, reference))
	})

	t.Run("no session today breaks the streak", func(t *testing.T) {
		days := map[string]struct{}{
			"2026-03-09": {},
			"2026-03-08": {},
		}
		assert.Equal(t, 0, CountConsecutiveDays(days, reference))
	})
}
