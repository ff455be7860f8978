package transport

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/rpggio/zisseki/internal/domain/changelog"
	"github.com/rpggio/zisseki/internal/domain/event"
	"github.com/rpggio/zisseki/internal/domain/project"
)

const maxBodyBytes = 4 << 20

// errBadRequest marks malformed request bodies and parameters.
var errBadRequest = errors.New("bad request")

// APIError is the JSON error body of every failed request.
type APIError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func (e *APIError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

type errorResponse struct {
	Error *APIError `json:"error"`
}

func badRequest(format string, args ...any) error {
	return fmt.Errorf("%w: %s", errBadRequest, fmt.Sprintf(format, args...))
}

// decodeJSON decodes a request body into dst, rejecting unknown fields.
func decodeJSON(r *http.Request, dst any) error {
	dec := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		return badRequest("invalid JSON body: %v", err)
	}
	return nil
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeAPIError(w http.ResponseWriter, status int, apiErr *APIError) {
	writeJSON(w, status, errorResponse{Error: apiErr})
}

// statusFor maps domain errors to an HTTP status and error code.
func statusFor(err error) (int, string) {
	switch {
	case errors.Is(err, event.ErrEventNotFound):
		return http.StatusNotFound, "EVENT_NOT_FOUND"
	case errors.Is(err, project.ErrProjectNotFound):
		return http.StatusNotFound, "PROJECT_NOT_FOUND"
	case errors.Is(err, event.ErrEventConflict):
		return http.StatusConflict, "EVENT_CONFLICT"
	case errors.Is(err, project.ErrDuplicateProject):
		return http.StatusConflict, "PROJECT_EXISTS"
	case errors.Is(err, event.ErrInvalidWeek):
		return http.StatusBadRequest, "INVALID_WEEK"
	case errors.Is(err, event.ErrOutsideWeek):
		return http.StatusBadRequest, "OUTSIDE_WEEK"
	case errors.Is(err, event.ErrInvalidTimeRange):
		return http.StatusBadRequest, "INVALID_TIME_RANGE"
	case errors.Is(err, event.ErrInvalidActivityCode):
		return http.StatusBadRequest, "INVALID_ACTIVITY_CODE"
	case errors.Is(err, event.ErrInvalidInput),
		errors.Is(err, project.ErrInvalidInput),
		errors.Is(err, changelog.ErrInvalidInput),
		errors.Is(err, errBadRequest):
		return http.StatusBadRequest, "INVALID_INPUT"
	default:
		return http.StatusInternalServerError, "INTERNAL"
	}
}
