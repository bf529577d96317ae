// Package calendar computes the Monday-to-Friday work-week ranges that
// drive report generation. All functions take an explicit reference time so
// callers (and tests) control "now".
package calendar

import "time"

// WeekRange is one work week: Start is Monday 00:00:00, End is Friday
// 23:59:59 (or the reference day for an in-progress week).
type WeekRange struct {
	Start time.Time
	End   time.Time
}

// EndLabel returns the zero-padded DD/MM label of the week-ending date.
func (w WeekRange) EndLabel() string {
	return w.End.Format("02/01")
}

// pyWeekday maps a time.Weekday onto Monday=0 .. Sunday=6.
func pyWeekday(d time.Weekday) int {
	return (int(d) + 6) % 7
}

// startOfDay truncates t to midnight in its location.
func startOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// endOfDay moves t to the last nanosecond of its day.
func endOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 23, 59, 59, 999999999, t.Location())
}

// LastFriday returns the most recent Friday strictly before now's day when
// now falls on a Friday, otherwise the nearest preceding Friday.
func LastFriday(now time.Time) time.Time {
	delta := (pyWeekday(now.Weekday()) + 3) % 7
	if delta == 0 {
		// On a Friday the "last" Friday is a week back.
		delta = 7
	}
	return now.AddDate(0, 0, -delta)
}

// LastWeek returns the most recent complete Monday-to-Friday week.
func LastWeek(now time.Time) WeekRange {
	friday := endOfDay(LastFriday(now))
	monday := startOfDay(friday.AddDate(0, 0, -4))
	return WeekRange{Start: monday, End: friday}
}

// CurrentWeek returns the in-progress work week: Monday of this week through
// the upcoming Friday, capped at today once Friday has passed.
func CurrentWeek(now time.Time) WeekRange {
	wd := pyWeekday(now.Weekday())
	monday := startOfDay(now.AddDate(0, 0, -wd))

	end := now
	if wd < 4 {
		end = now.AddDate(0, 0, 4-wd)
	}
	return WeekRange{Start: monday, End: endOfDay(end)}
}

// WeekEnding builds the work week that ends on the given day.
func WeekEnding(end time.Time) WeekRange {
	e := endOfDay(end)
	return WeekRange{Start: startOfDay(e.AddDate(0, 0, -4)), End: e}
}

// WeeksOfYear returns every Friday-ended work week of the given year, oldest
// first. For past years the list runs from the first Friday of January to the
// last Friday of December; for the current year it stops at now. A future
// year yields no weeks.
func WeeksOfYear(year int, now time.Time) []WeekRange {
	today := startOfDay(now)

	// First Friday of the year.
	cursor := time.Date(year, time.January, 1, 0, 0, 0, 0, now.Location())
	cursor = cursor.AddDate(0, 0, (4-pyWeekday(cursor.Weekday())+7)%7)

	end := today
	if year < now.Year() {
		lastDay := time.Date(year, time.December, 31, 0, 0, 0, 0, now.Location())
		end = lastDay.AddDate(0, 0, -((pyWeekday(lastDay.Weekday()) - 4 + 7) % 7))
	}

	var weeks []WeekRange
	for !cursor.After(end) {
		weeks = append(weeks, WeekRange{
			Start: startOfDay(cursor.AddDate(0, 0, -4)),
			End:   endOfDay(cursor),
		})
		cursor = cursor.AddDate(0, 0, 7)
	}
	return weeks
}
