package mcp

import (
	"errors"
	"fmt"

	"github.com/rpggio/zisseki/internal/domain/event"
	"github.com/rpggio/zisseki/internal/domain/project"
)

// ErrMissingEmployee is returned when no employee could be resolved.
var ErrMissingEmployee = errors.New("missing employee number")

// APIError represents an MCP tool error.
type APIError struct {
	Code         string `json:"code"`
	Message      string `json:"message"`
	RecoveryHint string `json:"recovery_hint,omitempty"`
}

func (e *APIError) Error() string {
	if e.RecoveryHint != "" {
		return fmt.Sprintf("%s: %s (%s)", e.Code, e.Message, e.RecoveryHint)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// MapError maps domain errors to tool error codes.
func MapError(err error) *APIError {
	if err == nil {
		return nil
	}
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr
	}
	switch {
	case errors.Is(err, ErrMissingEmployee):
		return &APIError{Code: "MISSING_EMPLOYEE", Message: err.Error(), RecoveryHint: "Send the X-Employee-Number header or _meta.employee_number"}
	case errors.Is(err, event.ErrEventNotFound):
		return &APIError{Code: "EVENT_NOT_FOUND", Message: "event not found", RecoveryHint: "Check the id with get_week"}
	case errors.Is(err, event.ErrEventConflict):
		return &APIError{Code: "EVENT_CONFLICT", Message: err.Error(), RecoveryHint: "Omit id to create a new event"}
	case errors.Is(err, event.ErrInvalidWeek):
		return &APIError{Code: "INVALID_WEEK", Message: err.Error(), RecoveryHint: "Use an ISO week between 1 and 53"}
	case errors.Is(err, event.ErrOutsideWeek):
		return &APIError{Code: "OUTSIDE_WEEK", Message: err.Error(), RecoveryHint: "Every event must start inside the saved week"}
	case errors.Is(err, event.ErrInvalidTimeRange):
		return &APIError{Code: "INVALID_TIME_RANGE", Message: err.Error()}
	case errors.Is(err, event.ErrInvalidActivityCode):
		return &APIError{Code: "INVALID_ACTIVITY_CODE", Message: err.Error(), RecoveryHint: "Read zisseki://docs/activity-codes"}
	case errors.Is(err, event.ErrInvalidInput), errors.Is(err, project.ErrInvalidInput):
		return &APIError{Code: "INVALID_INPUT", Message: err.Error()}
	case errors.Is(err, project.ErrProjectNotFound):
		return &APIError{Code: "PROJECT_NOT_FOUND", Message: "project not found", RecoveryHint: "Call list_projects"}
	default:
		return &APIError{Code: "INTERNAL", Message: err.Error()}
	}
}
