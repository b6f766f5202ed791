package utils

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestWeekStart(t *testing.T) {
	monday := time.Date(2024, time.March, 4, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name string
		in   time.Time
	}{
		{"monday midnight", monday},
		{"monday evening", monday.Add(23 * time.Hour)},
		{"wednesday", time.Date(2024, time.March, 6, 12, 30, 0, 0, time.UTC)},
		{"sunday night", time.Date(2024, time.March, 10, 23, 59, 59, 0, time.UTC)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, monday, WeekStart(tt.in))
		})
	}
}

func TestWeekStartNextWeekExclusive(t *testing.T) {
	nextMonday := time.Date(2024, time.March, 11, 0, 0, 0, 0, time.UTC)
	assert.Equal(t, nextMonday, WeekStart(nextMonday))
}

func TestWeekStartAcrossMonthBoundary(t *testing.T) {
	// Friday March 1 2024 belongs to the week started Monday February 26
	in := time.Date(2024, time.March, 1, 8, 0, 0, 0, time.UTC)
	assert.Equal(t, time.Date(2024, time.February, 26, 0, 0, 0, 0, time.UTC), WeekStart(in))
}

func TestWeeklyCollection(t *testing.T) {
	wednesday := time.Date(2024, time.March, 6, 12, 0, 0, 0, time.UTC)
	sunday := time.Date(2024, time.March, 10, 23, 0, 0, 0, time.UTC)

	assert.Equal(t, "04-03-2024-leaderboard", WeeklyCollection(wednesday))
	assert.Equal(t, WeeklyCollection(wednesday), WeeklyCollection(sunday),
		"every timestamp in a week maps to the same collection")

	nextWeek := time.Date(2024, time.March, 11, 0, 0, 0, 0, time.UTC)
	assert.Equal(t, "11-03-2024-leaderboard", WeeklyCollection(nextWeek))
}

func TestDaysInMonth(t *testing.T) {
	tests := []struct {
		in   time.Time
		want int
	}{
		{time.Date(2024, time.January, 15, 0, 0, 0, 0, time.UTC), 31},
		{time.Date(2024, time.February, 1, 0, 0, 0, 0, time.UTC), 29},
		{time.Date(2023, time.February, 28, 0, 0, 0, 0, time.UTC), 28},
		{time.Date(2024, time.April, 30, 12, 0, 0, 0, time.UTC), 30},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, DaysInMonth(tt.in), "%s", tt.in.Format("Jan 2006"))
	}
}
