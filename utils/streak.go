package utils

import "time"

// SameDay reports whether a and b fall on the same UTC calendar day.
func SameDay(a, b time.Time) bool {
	ay, am, ad := a.UTC().Date()
	by, bm, bd := b.UTC().Date()
	return ay == by && am == bm && ad == bd
}

// NextStreak computes the streak value after an activity at now, given the
// previous activity timestamp. Same-day activity keeps the streak untouched,
// yesterday extends it, anything older resets it to 1.
func NextStreak(last *time.Time, now time.Time, current int) int {
	if last == nil {
		return 1
	}
	if SameDay(*last, now) {
		return current
	}
	if SameDay(*last, now.AddDate(0, 0, -1)) {
		return current + 1
	}
	return 1
}

// CountConsecutiveDays walks backwards from reference's calendar day and
// counts how many consecutive days appear in the set. Keys use the
// "2006-01-02" layout in UTC.
func CountConsecutiveDays(days map[string]struct{}, reference time.Time) int {
	day := reference.UTC()
	count := 0
	for {
		key := day.Format("2006-01-02")
		if _, ok := days[key]; !ok {
			break
		}
		count++
		day = day.AddDate(0, 0, -1)
	}
	return count
}
