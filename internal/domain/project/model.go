package project

import "time"

// Kind separates billable projects from the indirect pseudo-projects.
type Kind string

const (
	KindProject  Kind = "project"
	KindIndirect Kind = "indirect"
)

// Project is a work target that time blocks are booked against.
type Project struct {
	Code        string    `json:"code"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	Kind        Kind      `json:"kind"`
	CreatedAt   time.Time `json:"created_at"`
}
