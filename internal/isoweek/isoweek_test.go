package isoweek

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestWeeksInYear(t *testing.T) {
	require.Equal(t, 53, WeeksInYear(2020))
	require.Equal(t, 52, WeeksInYear(2021))
	require.Equal(t, 52, WeeksInYear(2024))
	require.Equal(t, 53, WeeksInYear(2026))
}

func TestStart(t *testing.T) {
	start := Start(2025, 1, time.UTC)
	require.Equal(t, time.Date(2024, time.December, 30, 0, 0, 0, 0, time.UTC), start)
	require.Equal(t, time.Monday, start.Weekday())

	start = Start(2024, 10, time.UTC)
	require.Equal(t, time.Date(2024, time.March, 4, 0, 0, 0, 0, time.UTC), start)

	y, w := Week(start.AddDate(0, 0, 6))
	require.Equal(t, 2024, y)
	require.Equal(t, 10, w)
}

func TestDays(t *testing.T) {
	days := Days(2024, 10, time.UTC)
	require.Len(t, days, 7)
	require.Equal(t, time.Monday, days[0].Weekday())
	require.Equal(t, time.Sunday, days[6].Weekday())
}

func TestPrevNext(t *testing.T) {
	y, w := Prev(2021, 1)
	require.Equal(t, 2020, y)
	require.Equal(t, 53, w)

	y, w = Next(2020, 53)
	require.Equal(t, 2021, y)
	require.Equal(t, 1, w)

	y, w = Next(2024, 10)
	require.Equal(t, 2024, y)
	require.Equal(t, 11, w)
}

func TestValidate(t *testing.T) {
	require.NoError(t, Validate(2020, 53))
	require.ErrorIs(t, Validate(2021, 53), ErrOutOfRange)
	require.ErrorIs(t, Validate(2019, 10), ErrOutOfRange)
	require.ErrorIs(t, Validate(2031, 1), ErrOutOfRange)
	require.ErrorIs(t, Validate(2024, 0), ErrOutOfRange)
}

func TestMonthRange(t *testing.T) {
	from, to, err := MonthRange(2024, 12, time.UTC)
	require.NoError(t, err)
	require.Equal(t, time.Date(2024, time.December, 1, 0, 0, 0, 0, time.UTC), from)
	require.Equal(t, time.Date(2025, time.January, 1, 0, 0, 0, 0, time.UTC), to)

	_, _, err = MonthRange(2024, 13, time.UTC)
	require.ErrorIs(t, err, ErrOutOfRange)
}
