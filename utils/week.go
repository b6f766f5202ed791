package utils

import "time"

const weekKeyLayout = "02-01-2006"

// WeekStart returns Monday 00:00 of the ISO week containing t, in t's location.
func WeekStart(t time.Time) time.Time {
	weekday := int(t.Weekday())
	if weekday == 0 {
		weekday = 7 // Sunday belongs to the week started the previous Monday
	}
	monday := t.AddDate(0, 0, -(weekday - 1))
	return time.Date(monday.Year(), monday.Month(), monday.Day(), 0, 0, 0, 0, t.Location())
}

// WeeklyCollection derives the leaderboard collection name for the ISO week
// containing t. Any two timestamps in the same week map to the same name.
func WeeklyCollection(t time.Time) string {
	return WeekStart(t).Format(weekKeyLayout) + "-leaderboard"
}

// DaysInMonth returns the number of calendar days of the month containing t.
func DaysInMonth(t time.Time) int {
	firstOfMonth := time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, t.Location())
	return firstOfMonth.AddDate(0, 1, 0).Add(-time.Nanosecond).Day()
}
