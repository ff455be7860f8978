package event

import (
	"regexp"
	"strings"
	"time"

	"github.com/rpggio/zisseki/internal/domain/activitycode"
)

var clockPattern = regexp.MustCompile(`^([01][0-9]|2[0-3]):[0-5][0-9]$`)

// ValidateTimes checks the block boundaries.
func ValidateTimes(start, end time.Time) error {
	if start.IsZero() || end.IsZero() {
		return ErrInvalidInput
	}
	if !end.After(start) {
		return ErrInvalidTimeRange
	}
	return nil
}

// ValidateEvent validates an event about to be stored.
func ValidateEvent(ev *Event) error {
	if ev == nil || strings.TrimSpace(ev.Title) == "" {
		return ErrInvalidInput
	}
	if err := ValidateTimes(ev.Start, ev.End); err != nil {
		return err
	}
	if ev.ActivityCode != "" && !activitycode.Valid(ev.ActivityCode) {
		return ErrInvalidActivityCode
	}
	return nil
}

// ValidateWorkTime validates a day's work window.
func ValidateWorkTime(wt WorkTime) error {
	if _, err := time.Parse(dateLayout, wt.Date); err != nil {
		return ErrInvalidInput
	}
	if wt.StartTime != "" && !clockPattern.MatchString(wt.StartTime) {
		return ErrInvalidInput
	}
	if wt.EndTime != "" && !clockPattern.MatchString(wt.EndTime) {
		return ErrInvalidInput
	}
	if wt.StartTime != "" && wt.EndTime != "" && wt.EndTime <= wt.StartTime {
		return ErrInvalidTimeRange
	}
	return nil
}
