package changelog

import "time"

// Type classifies a change log entry.
type Type string

const (
	TypeEventCreated    Type = "event_created"
	TypeEventUpdated    Type = "event_updated"
	TypeEventDeleted    Type = "event_deleted"
	TypeEventClassified Type = "event_classified"
	TypeWeekSaved       Type = "week_saved"
)

// Entry records one mutation of an employee's time records.
type Entry struct {
	ID             int64     `json:"id"`
	EmployeeNumber string    `json:"employee_number"`
	EventID        *string   `json:"event_id,omitempty"`
	Type           Type      `json:"type"`
	Summary        string    `json:"summary"`
	Details        string    `json:"details,omitempty"` // JSON string
	CreatedAt      time.Time `json:"created_at"`
}
