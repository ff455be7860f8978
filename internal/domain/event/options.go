package event

import (
	"time"

	"go.uber.org/zap"
)

// ListOptions provides filtering options for listing events.
type ListOptions struct {
	From           time.Time
	To             time.Time
	ProjectCode    string
	IncludeDeleted bool
	Limit          int
	Offset         int
}

// Option customizes a Service.
type Option func(*Service)

// WithNotifier registers a write notifier.
func WithNotifier(n Notifier) Option {
	return func(s *Service) { s.notifier = n }
}

// WithLocation sets the time zone that weeks and months are cut in.
func WithLocation(loc *time.Location) Option {
	return func(s *Service) {
		if loc != nil {
			s.loc = loc
		}
	}
}

// WithClock replaces time.Now.
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

// WithLogger sets the service logger.
func WithLogger(logger *zap.Logger) Option {
	return func(s *Service) {
		if logger != nil {
			s.logger = logger
		}
	}
}
