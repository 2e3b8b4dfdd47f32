package studysession

import (
	"math"
	"time"
)

var dayLabels = [7]string{"Seg", "Ter", "Qua", "Qui", "Sex", "Sáb", "Dom"}

// WeekStart returns the Monday of the calendar week containing reference,
// truncated to midnight UTC.
func WeekStart(reference time.Time) time.Time {
	ref := reference.UTC()
	weekday := int(ref.Weekday()+6) % 7 // Monday = 0
	day := time.Date(ref.Year(), ref.Month(), ref.Day(), 0, 0, 0, 0, time.UTC)
	return day.AddDate(0, 0, -weekday)
}

// BuildWeekProgress buckets session minutes into Mon-Sun hour totals for the
// week containing reference. Sessions outside the week are ignored, so the
// caller may pass an unfiltered slice.
func BuildWeekProgress(sessions []StudySession, reference time.Time, streak int) WeekProgress {
	start := WeekStart(reference)
	end := start.AddDate(0, 0, 7)

	var hoursPerDay [7]float64
	for _, s := range sessions {
		date := s.SessionDate.UTC()
		if date.Before(start) || !date.Before(end) {
			continue
		}
		idx := int(date.Weekday()+6) % 7
		hoursPerDay[idx] += float64(s.DurationMinutes) / 60.0
	}

	week := make([]WeekProgressDay, 7)
	total := 0.0
	for i := 0; i < 7; i++ {
		total += hoursPerDay[i]
		week[i] = WeekProgressDay{Day: dayLabels[i], Hours: round2(hoursPerDay[i])}
	}

	return WeekProgress{
		Streak:     streak,
		TotalHours: round2(total),
		Week:       week,
	}
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
