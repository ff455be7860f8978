package event

import (
	"context"
	"time"
)

// Repository provides persistence for events.
type Repository interface {
	Create(ctx context.Context, ev *Event) error
	Get(ctx context.Context, employee, id string) (*Event, error)
	Update(ctx context.Context, ev *Event) error
	SoftDelete(ctx context.Context, employee, id string, at time.Time) error
	List(ctx context.Context, employee string, opts ListOptions) ([]Event, error)
	// ReplaceRange removes every event starting in [from, to) and stores events.
	ReplaceRange(ctx context.Context, employee string, from, to time.Time, events []Event) error
}

// WorkTimeRepository provides persistence for daily work windows.
type WorkTimeRepository interface {
	ListWorkTimes(ctx context.Context, employee, fromDate, toDate string) ([]WorkTime, error)
	ReplaceWorkTimes(ctx context.Context, employee, fromDate, toDate string, wts []WorkTime) error
}

// Notifier is told about writes so derived views can be invalidated.
type Notifier interface {
	EventsChanged(ctx context.Context, employee string, times ...time.Time)
}
