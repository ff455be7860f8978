// Package memstore is the in-memory event store. State changes only through
// Dispatch, which runs a pure reducer over the previous state.
package memstore

import (
	"fmt"
	"time"

	"github.com/rpggio/zisseki/internal/domain/changelog"
	"github.com/rpggio/zisseki/internal/domain/event"
	"github.com/rpggio/zisseki/internal/domain/project"
	"github.com/rpggio/zisseki/internal/repository"
)

// State is the whole store content. A State returned by reduce shares no
// mutable maps with its input.
type State struct {
	Events     map[string]event.Event
	WorkTimes  map[string]event.WorkTime
	Projects   map[string]project.Project
	Changes    []changelog.Entry
	SelectedID string
	Version    int64
}

// NewState returns an empty state.
func NewState() State {
	return State{
		Events:    map[string]event.Event{},
		WorkTimes: map[string]event.WorkTime{},
		Projects:  map[string]project.Project{},
	}
}

// Action is a state transition request.
type Action interface {
	actionName() string
}

// SetEvents replaces an employee's events starting in [From, To).
type SetEvents struct {
	Employee string
	From, To time.Time
	Events   []event.Event
}

// AddEvent stores a new event.
type AddEvent struct {
	Event event.Event
}

// UpdateEvent replaces a live event.
type UpdateEvent struct {
	Event event.Event
}

// DeleteEvent soft-deletes an event.
type DeleteEvent struct {
	Employee string
	ID       string
	At       time.Time
}

// SelectEvent marks the event the editor has open. An empty ID clears it.
type SelectEvent struct {
	ID string
}

// SetWorkTimes replaces an employee's work windows dated From..To.
type SetWorkTimes struct {
	Employee  string
	From, To  string
	WorkTimes []event.WorkTime
}

// AddProject registers a project.
type AddProject struct {
	Project project.Project
}

// LogChange appends a change log entry.
type LogChange struct {
	Entry changelog.Entry
}

func (SetEvents) actionName() string    { return "set_events" }
func (AddEvent) actionName() string     { return "add_event" }
func (UpdateEvent) actionName() string  { return "update_event" }
func (DeleteEvent) actionName() string  { return "delete_event" }
func (SelectEvent) actionName() string  { return "select_event" }
func (SetWorkTimes) actionName() string { return "set_work_times" }
func (AddProject) actionName() string   { return "add_project" }
func (LogChange) actionName() string    { return "log_change" }

func workTimeKey(employee, date string) string {
	return employee + "|" + date
}

// reduce applies a to s. It never mutates s.
func reduce(s State, a Action) (State, error) {
	switch a := a.(type) {
	case SetEvents:
		for _, ev := range a.Events {
			if cur, ok := s.Events[ev.ID]; ok && cur.EmployeeNumber != a.Employee {
				return s, repository.ErrConflict
			}
		}
		next := s
		next.Events = make(map[string]event.Event, len(s.Events)+len(a.Events))
		from, to := a.From.UnixMilli(), a.To.UnixMilli()
		for id, ev := range s.Events {
			start := ev.Start.UnixMilli()
			if ev.EmployeeNumber == a.Employee && start >= from && start < to {
				continue
			}
			next.Events[id] = ev
		}
		for _, ev := range a.Events {
			next.Events[ev.ID] = ev
		}
		if _, ok := next.Events[next.SelectedID]; !ok {
			next.SelectedID = ""
		}
		next.Version++
		return next, nil

	case AddEvent:
		if _, exists := s.Events[a.Event.ID]; exists {
			return s, repository.ErrConflict
		}
		next := s
		next.Events = copyEvents(s.Events)
		next.Events[a.Event.ID] = a.Event
		next.Version++
		return next, nil

	case UpdateEvent:
		cur, ok := s.Events[a.Event.ID]
		if !ok || cur.DeletedAt != nil || cur.EmployeeNumber != a.Event.EmployeeNumber {
			return s, repository.ErrNotFound
		}
		next := s
		next.Events = copyEvents(s.Events)
		ev := a.Event
		ev.CreatedAt = cur.CreatedAt
		next.Events[ev.ID] = ev
		next.Version++
		return next, nil

	case DeleteEvent:
		cur, ok := s.Events[a.ID]
		if !ok || cur.DeletedAt != nil || cur.EmployeeNumber != a.Employee {
			return s, repository.ErrNotFound
		}
		next := s
		next.Events = copyEvents(s.Events)
		at := a.At
		cur.DeletedAt = &at
		cur.UpdatedAt = at
		next.Events[a.ID] = cur
		if next.SelectedID == a.ID {
			next.SelectedID = ""
		}
		next.Version++
		return next, nil

	case SelectEvent:
		if a.ID != "" {
			if _, ok := s.Events[a.ID]; !ok {
				return s, repository.ErrNotFound
			}
		}
		next := s
		next.SelectedID = a.ID
		next.Version++
		return next, nil

	case SetWorkTimes:
		next := s
		next.WorkTimes = make(map[string]event.WorkTime, len(s.WorkTimes)+len(a.WorkTimes))
		for key, wt := range s.WorkTimes {
			if wt.EmployeeNumber == a.Employee && wt.Date >= a.From && wt.Date <= a.To {
				continue
			}
			next.WorkTimes[key] = wt
		}
		for _, wt := range a.WorkTimes {
			wt.EmployeeNumber = a.Employee
			next.WorkTimes[workTimeKey(a.Employee, wt.Date)] = wt
		}
		next.Version++
		return next, nil

	case AddProject:
		if _, exists := s.Projects[a.Project.Code]; exists {
			return s, repository.ErrConflict
		}
		next := s
		next.Projects = make(map[string]project.Project, len(s.Projects)+1)
		for code, p := range s.Projects {
			next.Projects[code] = p
		}
		next.Projects[a.Project.Code] = a.Project
		next.Version++
		return next, nil

	case LogChange:
		next := s
		next.Changes = make([]changelog.Entry, len(s.Changes), len(s.Changes)+1)
		copy(next.Changes, s.Changes)
		next.Changes = append(next.Changes, a.Entry)
		next.Version++
		return next, nil

	default:
		return s, fmt.Errorf("%w: unknown action %T", repository.ErrInvalidInput, a)
	}
}

func copyEvents(in map[string]event.Event) map[string]event.Event {
	out := make(map[string]event.Event, len(in)+1)
	for id, ev := range in {
		out[id] = ev
	}
	return out
}
