// Package isoweek converts between calendar dates and ISO-8601 weeks.
package isoweek

import (
	"errors"
	"time"
)

const (
	MinYear = 2020
	MaxYear = 2030
)

// ErrOutOfRange is returned for a year or week outside the supported range.
var ErrOutOfRange = errors.New("year or week out of range")

// Week returns the ISO year and week of t.
func Week(t time.Time) (year, week int) {
	return t.ISOWeek()
}

// WeeksInYear returns 52 or 53. December 28th always falls in the last ISO
// week of its year.
func WeeksInYear(year int) int {
	_, w := time.Date(year, time.December, 28, 0, 0, 0, 0, time.UTC).ISOWeek()
	return w
}

// Start returns Monday 00:00 of the given ISO week in loc.
func Start(year, week int, loc *time.Location) time.Time {
	if loc == nil {
		loc = time.Local
	}
	// January 4th is always in week 1.
	jan4 := time.Date(year, time.January, 4, 0, 0, 0, 0, loc)
	offset := (int(jan4.Weekday()) + 6) % 7
	monday := jan4.AddDate(0, 0, -offset)
	return monday.AddDate(0, 0, (week-1)*7)
}

// Range returns the half-open interval [Monday, next Monday) of a week.
func Range(year, week int, loc *time.Location) (time.Time, time.Time) {
	start := Start(year, week, loc)
	return start, start.AddDate(0, 0, 7)
}

// Days returns the seven dates of a week, Monday first.
func Days(year, week int, loc *time.Location) []time.Time {
	start := Start(year, week, loc)
	days := make([]time.Time, 7)
	for i := range days {
		days[i] = start.AddDate(0, 0, i)
	}
	return days
}

// Prev returns the week before (year, week).
func Prev(year, week int) (int, int) {
	if week > 1 {
		return year, week - 1
	}
	return year - 1, WeeksInYear(year - 1)
}

// Next returns the week after (year, week).
func Next(year, week int) (int, int) {
	if week < WeeksInYear(year) {
		return year, week + 1
	}
	return year + 1, 1
}

// Validate checks that the week exists and lies in the supported years.
func Validate(year, week int) error {
	if year < MinYear || year > MaxYear {
		return ErrOutOfRange
	}
	if week < 1 || week > WeeksInYear(year) {
		return ErrOutOfRange
	}
	return nil
}

// MonthRange returns the half-open interval covering a calendar month.
func MonthRange(year, month int, loc *time.Location) (time.Time, time.Time, error) {
	if year < MinYear || year > MaxYear || month < 1 || month > 12 {
		return time.Time{}, time.Time{}, ErrOutOfRange
	}
	if loc == nil {
		loc = time.Local
	}
	start := time.Date(year, time.Month(month), 1, 0, 0, 0, 0, loc)
	return start, start.AddDate(0, 1, 0), nil
}
