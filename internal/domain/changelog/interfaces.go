package changelog

import "context"

// Repository provides persistence operations for change log entries.
type Repository interface {
	Log(ctx context.Context, employee string, entry *Entry) error
	List(ctx context.Context, employee string, opts ListOptions) ([]Entry, error)
}
