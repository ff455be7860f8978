package event

import "errors"

var (
	// ErrEventNotFound indicates the event doesn't exist or was deleted.
	ErrEventNotFound = errors.New("event not found")
	// ErrInvalidInput indicates invalid event input.
	ErrInvalidInput = errors.New("invalid event input")
	// ErrInvalidTimeRange indicates an end time not after the start time.
	ErrInvalidTimeRange = errors.New("end must be after start")
	// ErrInvalidWeek indicates a year/week outside the supported range.
	ErrInvalidWeek = errors.New("invalid year or week")
	// ErrOutsideWeek indicates an event that does not start in the saved week.
	ErrOutsideWeek = errors.New("event outside of week")
	// ErrEventConflict indicates an event id already taken, possibly by another employee.
	ErrEventConflict = errors.New("event id conflict")
	// ErrInvalidActivityCode indicates a malformed or unknown activity code.
	ErrInvalidActivityCode = errors.New("invalid activity code")
)
