package calendar

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestLastFriday(t *testing.T) {
	tests := []struct {
		name string
		now  time.Time
		want time.Time
	}{
		{"from a Monday", date(2025, time.March, 17), date(2025, time.March, 14)},
		{"from a Thursday", date(2025, time.March, 20), date(2025, time.March, 14)},
		{"from a Friday goes a full week back", date(2025, time.March, 21), date(2025, time.March, 14)},
		{"from a Saturday", date(2025, time.March, 22), date(2025, time.March, 21)},
		{"from a Sunday", date(2025, time.March, 23), date(2025, time.March, 21)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := LastFriday(tt.now)
			assert.Equal(t, tt.want.Format("2006-01-02"), got.Format("2006-01-02"))
		})
	}
}

func TestLastWeek(t *testing.T) {
	// Wednesday 2025-03-19: last complete week is Mon 10th to Fri 14th.
	w := LastWeek(date(2025, time.March, 19))

	assert.Equal(t, "2025-03-10", w.Start.Format("2006-01-02"))
	assert.Equal(t, "2025-03-14", w.End.Format("2006-01-02"))
	assert.Equal(t, 0, w.Start.Hour())
	assert.Equal(t, 23, w.End.Hour())
	assert.Equal(t, "14/03", w.EndLabel())
}

func TestCurrentWeek_BeforeFriday(t *testing.T) {
	// Wednesday: week runs Monday through the upcoming Friday.
	w := CurrentWeek(date(2025, time.March, 19))

	assert.Equal(t, "2025-03-17", w.Start.Format("2006-01-02"))
	assert.Equal(t, "2025-03-21", w.End.Format("2006-01-02"))
}

func TestCurrentWeek_OnSaturday_CappedAtToday(t *testing.T) {
	w := CurrentWeek(date(2025, time.March, 22))

	assert.Equal(t, "2025-03-17", w.Start.Format("2006-01-02"))
	assert.Equal(t, "2025-03-22", w.End.Format("2006-01-02"))
}

func TestWeekEnding(t *testing.T) {
	w := WeekEnding(date(2025, time.March, 14))

	assert.Equal(t, "2025-03-10", w.Start.Format("2006-01-02"))
	assert.Equal(t, "2025-03-14", w.End.Format("2006-01-02"))
	assert.Equal(t, 23, w.End.Hour())
}

func TestWeeksOfYear_PastYear(t *testing.T) {
	now := date(2025, time.June, 1)
	weeks := WeeksOfYear(2024, now)
	require.NotEmpty(t, weeks)

	// First Friday of 2024 was January 5th; last Friday was December 27th.
	first := weeks[0]
	last := weeks[len(weeks)-1]
	assert.Equal(t, "2024-01-05", first.End.Format("2006-01-02"))
	assert.Equal(t, "2024-01-01", first.Start.Format("2006-01-02"))
	assert.Equal(t, "2024-12-27", last.End.Format("2006-01-02"))

	for _, w := range weeks {
		assert.Equal(t, time.Friday, w.End.Weekday())
		assert.Equal(t, time.Monday, w.Start.Weekday())
	}
}

func TestWeeksOfYear_CurrentYear_StopsAtNow(t *testing.T) {
	now := date(2025, time.February, 10) // a Monday
	weeks := WeeksOfYear(2025, now)
	require.NotEmpty(t, weeks)

	// Fridays of 2025 up to Feb 10: Jan 3, 10, 17, 24, 31, Feb 7.
	assert.Len(t, weeks, 6)
	assert.Equal(t, "2025-02-07", weeks[len(weeks)-1].End.Format("2006-01-02"))
}

func TestWeeksOfYear_FutureYear_Empty(t *testing.T) {
	weeks := WeeksOfYear(2026, date(2025, time.June, 1))
	assert.Empty(t, weeks)
}
