package memstore

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/rpggio/zisseki/internal/domain/changelog"
	"github.com/rpggio/zisseki/internal/domain/event"
	"github.com/rpggio/zisseki/internal/domain/project"
	"github.com/rpggio/zisseki/internal/repository"
	"go.uber.org/zap"
)

// Options configures a Store.
type Options struct {
	// Path of the JSON snapshot. Empty disables persistence.
	Path string
	// Autosave writes the snapshot after every successful dispatch.
	Autosave bool
	// FlushInterval, when positive, writes pending changes in the background.
	FlushInterval time.Duration
	Logger        *zap.Logger
}

// Store is a mutex-guarded state container. It implements
// event.Repository and event.WorkTimeRepository.
type Store struct {
	mu    sync.RWMutex
	state State
	opts  Options

	writeMu      sync.Mutex
	savedVersion int64

	stop chan struct{}
	done chan struct{}

	logger *zap.Logger
}

// New returns an empty store without persistence.
func New() *Store {
	s, _ := Open(Options{})
	return s
}

// Open creates a store, loading the snapshot at opts.Path when present.
// A corrupt snapshot is logged and ignored.
func Open(opts Options) (*Store, error) {
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &Store{
		state:  NewState(),
		opts:   opts,
		logger: logger,
	}

	if opts.Path != "" {
		state, err := loadSnapshot(opts.Path)
		switch {
		case err == nil:
			s.state = state
		case isNotExist(err):
		default:
			logger.Warn("ignoring unreadable snapshot",
				zap.String("path", opts.Path),
				zap.Error(err))
		}
		s.savedVersion = s.state.Version
	}

	if opts.Path != "" && opts.FlushInterval > 0 {
		s.stop = make(chan struct{})
		s.done = make(chan struct{})
		go s.flushLoop(opts.FlushInterval)
	}
	return s, nil
}

// Dispatch applies an action.
func (s *Store) Dispatch(a Action) error {
	s.mu.Lock()
	err := s.dispatchLocked(a)
	s.mu.Unlock()
	if err != nil {
		return err
	}
	if s.opts.Autosave && s.opts.Path != "" {
		if err := s.Flush(); err != nil {
			s.logger.Warn("autosave failed", zap.String("action", a.actionName()), zap.Error(err))
		}
	}
	return nil
}

func (s *Store) dispatchLocked(a Action) error {
	next, err := reduce(s.state, a)
	if err != nil {
		return err
	}
	s.state = next
	return nil
}

// State returns the current state. Callers must not mutate its maps.
func (s *Store) State() State {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state
}

// Selected returns the event the editor has open, if any.
func (s *Store) Selected() (*event.Event, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	ev, ok := s.state.Events[s.state.SelectedID]
	if !ok {
		return nil, false
	}
	return &ev, true
}

// Flush writes the snapshot if anything changed since the last write.
func (s *Store) Flush() error {
	if s.opts.Path == "" {
		return nil
	}
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	state := s.State()
	if state.Version == s.savedVersion {
		return nil
	}
	if err := writeSnapshot(s.opts.Path, state, time.Now()); err != nil {
		return err
	}
	s.savedVersion = state.Version
	return nil
}

// Close stops the background flusher and writes pending changes.
func (s *Store) Close() error {
	if s.stop != nil {
		close(s.stop)
		<-s.done
		s.stop = nil
	}
	return s.Flush()
}

func (s *Store) flushLoop(interval time.Duration) {
	defer close(s.done)
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-s.stop:
			return
		case <-ticker.C:
			if err := s.Flush(); err != nil {
				s.logger.Warn("background flush failed", zap.Error(err))
			}
		}
	}
}

// Create inserts a new event.
func (s *Store) Create(_ context.Context, ev *event.Event) error {
	return s.Dispatch(AddEvent{Event: *ev})
}

// Get returns an event, including soft-deleted ones.
func (s *Store) Get(_ context.Context, employee, id string) (*event.Event, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	ev, ok := s.state.Events[id]
	if !ok || ev.EmployeeNumber != employee {
		return nil, repository.ErrNotFound
	}
	return &ev, nil
}

// Update replaces a live event.
func (s *Store) Update(_ context.Context, ev *event.Event) error {
	return s.Dispatch(UpdateEvent{Event: *ev})
}

// SoftDelete marks an event deleted.
func (s *Store) SoftDelete(_ context.Context, employee, id string, at time.Time) error {
	return s.Dispatch(DeleteEvent{Employee: employee, ID: id, At: at})
}

// List returns matching events ordered by start.
func (s *Store) List(_ context.Context, employee string, opts event.ListOptions) ([]event.Event, error) {
	s.mu.RLock()
	var out []event.Event
	for _, ev := range s.state.Events {
		if ev.EmployeeNumber != employee {
			continue
		}
		if !opts.IncludeDeleted && ev.DeletedAt != nil {
			continue
		}
		if !opts.From.IsZero() && ev.Start.Before(opts.From) {
			continue
		}
		if !opts.To.IsZero() && !ev.Start.Before(opts.To) {
			continue
		}
		if opts.ProjectCode != "" && ev.ProjectCode != opts.ProjectCode {
			continue
		}
		out = append(out, ev)
	}
	s.mu.RUnlock()

	sortEvents(out)
	return paginate(out, opts.Offset, opts.Limit), nil
}

// ReplaceRange swaps the events starting in [from, to) for events.
func (s *Store) ReplaceRange(_ context.Context, employee string, from, to time.Time, events []event.Event) error {
	return s.Dispatch(SetEvents{Employee: employee, From: from, To: to, Events: events})
}

// ListWorkTimes returns work windows dated fromDate..toDate.
func (s *Store) ListWorkTimes(_ context.Context, employee, fromDate, toDate string) ([]event.WorkTime, error) {
	s.mu.RLock()
	var out []event.WorkTime
	for _, wt := range s.state.WorkTimes {
		if wt.EmployeeNumber == employee && wt.Date >= fromDate && wt.Date <= toDate {
			out = append(out, wt)
		}
	}
	s.mu.RUnlock()

	sort.Slice(out, func(i, j int) bool { return out[i].Date < out[j].Date })
	return out, nil
}

// ReplaceWorkTimes swaps the work windows dated fromDate..toDate for wts.
func (s *Store) ReplaceWorkTimes(_ context.Context, employee, fromDate, toDate string, wts []event.WorkTime) error {
	return s.Dispatch(SetWorkTimes{Employee: employee, From: fromDate, To: toDate, WorkTimes: wts})
}

// Projects returns a project.Repository view of the store.
func (s *Store) Projects() *ProjectRepository {
	return &ProjectRepository{store: s}
}

// Changes returns a changelog.Repository view of the store.
func (s *Store) Changes() *ChangeLogRepository {
	return &ChangeLogRepository{store: s}
}

// ProjectRepository implements project.Repository over a Store.
type ProjectRepository struct {
	store *Store
}

// Create registers a project.
func (r *ProjectRepository) Create(_ context.Context, proj *project.Project) error {
	return r.store.Dispatch(AddProject{Project: *proj})
}

// Get returns a project by code.
func (r *ProjectRepository) Get(_ context.Context, code string) (*project.Project, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	p, ok := r.store.state.Projects[code]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &p, nil
}

// List returns projects ordered by code.
func (r *ProjectRepository) List(_ context.Context, kind project.Kind) ([]project.Project, error) {
	r.store.mu.RLock()
	var out []project.Project
	for _, p := range r.store.state.Projects {
		if kind == "" || p.Kind == kind {
			out = append(out, p)
		}
	}
	r.store.mu.RUnlock()

	sort.Slice(out, func(i, j int) bool { return out[i].Code < out[j].Code })
	return out, nil
}

// ChangeLogRepository implements changelog.Repository over a Store.
type ChangeLogRepository struct {
	store *Store
}

// Log appends an entry and assigns its ID.
func (r *ChangeLogRepository) Log(_ context.Context, employee string, entry *changelog.Entry) error {
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = time.Now()
	}
	entry.EmployeeNumber = employee

	r.store.mu.Lock()
	entry.ID = int64(len(r.store.state.Changes) + 1)
	err := r.store.dispatchLocked(LogChange{Entry: *entry})
	r.store.mu.Unlock()
	if err != nil {
		return err
	}
	if r.store.opts.Autosave {
		return r.store.Flush()
	}
	return nil
}

// List returns matching entries, newest first.
func (r *ChangeLogRepository) List(_ context.Context, employee string, opts changelog.ListOptions) ([]changelog.Entry, error) {
	r.store.mu.RLock()
	var out []changelog.Entry
	for i := len(r.store.state.Changes) - 1; i >= 0; i-- {
		e := r.store.state.Changes[i]
		if e.EmployeeNumber != employee {
			continue
		}
		if opts.EventID != nil && (e.EventID == nil || *e.EventID != *opts.EventID) {
			continue
		}
		if opts.Type != nil && e.Type != *opts.Type {
			continue
		}
		out = append(out, e)
	}
	r.store.mu.RUnlock()
	return paginate(out, opts.Offset, opts.Limit), nil
}

func sortEvents(events []event.Event) {
	sort.Slice(events, func(i, j int) bool {
		if !events[i].Start.Equal(events[j].Start) {
			return events[i].Start.Before(events[j].Start)
		}
		return events[i].ID < events[j].ID
	})
}

func paginate[T any](items []T, offset, limit int) []T {
	if offset > 0 {
		if offset >= len(items) {
			return nil
		}
		items = items[offset:]
	}
	if limit > 0 && limit < len(items) {
		items = items[:limit]
	}
	return items
}
