package event

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rpggio/zisseki/internal/domain/activitycode"
	"github.com/rpggio/zisseki/internal/domain/changelog"
	"github.com/rpggio/zisseki/internal/isoweek"
	"github.com/rpggio/zisseki/internal/metrics"
	"github.com/rpggio/zisseki/internal/repository"
	"go.uber.org/zap"
)

// CreateRequest contains parameters for creating an event.
type CreateRequest struct {
	Title           string                  `json:"title"`
	Description     string                  `json:"description,omitempty"`
	ProjectCode     string                  `json:"project_code,omitempty"`
	Start           time.Time               `json:"start"`
	End             time.Time               `json:"end"`
	ActivityCode    string                  `json:"activity_code,omitempty"`
	Color           string                  `json:"color,omitempty"`
	Status          string                  `json:"status,omitempty"`
	Category        string                  `json:"category,omitempty"`
	Selection       *activitycode.Selection `json:"selection,omitempty"`
	SubTypes        SubTypes                `json:"sub_types"`
	EquipmentNumber string                  `json:"equipment_number,omitempty"`
	EquipmentName   string                  `json:"equipment_name,omitempty"`
	ItemName        string                  `json:"item_name,omitempty"`
	PurposeProject  string                  `json:"purpose_project,omitempty"`
	DepartmentCode  string                  `json:"department_code,omitempty"`
}

// UpdateRequest is a partial patch; nil fields are left unchanged.
type UpdateRequest struct {
	ID              string                  `json:"id"`
	Title           *string                 `json:"title,omitempty"`
	Description     *string                 `json:"description,omitempty"`
	ProjectCode     *string                 `json:"project_code,omitempty"`
	Start           *time.Time              `json:"start,omitempty"`
	End             *time.Time              `json:"end,omitempty"`
	ActivityCode    *string                 `json:"activity_code,omitempty"`
	Color           *string                 `json:"color,omitempty"`
	Status          *string                 `json:"status,omitempty"`
	Category        *string                 `json:"category,omitempty"`
	Selection       *activitycode.Selection `json:"selection,omitempty"`
	SubTypes        *SubTypes               `json:"sub_types,omitempty"`
	EquipmentNumber *string                 `json:"equipment_number,omitempty"`
	EquipmentName   *string                 `json:"equipment_name,omitempty"`
	ItemName        *string                 `json:"item_name,omitempty"`
	PurposeProject  *string                 `json:"purpose_project,omitempty"`
	DepartmentCode  *string                 `json:"department_code,omitempty"`
}

// SaveWeekRequest carries a full replacement of one week.
type SaveWeekRequest struct {
	Events    []Event    `json:"events"`
	WorkTimes []WorkTime `json:"work_times"`
}

// Service handles event business logic.
type Service struct {
	events    Repository
	workTimes WorkTimeRepository
	changes   changelog.Repository
	notifier  Notifier
	loc       *time.Location
	now       func() time.Time
	logger    *zap.Logger
}

// NewService creates a new event service. changes may be nil.
func NewService(events Repository, workTimes WorkTimeRepository, changes changelog.Repository, opts ...Option) *Service {
	s := &Service{
		events:    events,
		workTimes: workTimes,
		changes:   changes,
		loc:       time.Local,
		now:       time.Now,
		logger:    zap.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Location returns the zone weeks and months are cut in.
func (s *Service) Location() *time.Location {
	return s.loc
}

// Create creates a new event.
func (s *Service) Create(ctx context.Context, employee string, req CreateRequest) (*Event, error) {
	if strings.TrimSpace(employee) == "" {
		return nil, ErrInvalidInput
	}
	now := s.now()
	ev := &Event{
		ID:              uuid.New().String(),
		EmployeeNumber:  employee,
		Title:           strings.TrimSpace(req.Title),
		Description:     req.Description,
		ProjectCode:     req.ProjectCode,
		Start:           req.Start,
		End:             req.End,
		ActivityCode:    req.ActivityCode,
		Color:           req.Color,
		Status:          req.Status,
		Category:        req.Category,
		SubTypes:        req.SubTypes,
		EquipmentNumber: req.EquipmentNumber,
		EquipmentName:   req.EquipmentName,
		ItemName:        req.ItemName,
		PurposeProject:  req.PurposeProject,
		DepartmentCode:  req.DepartmentCode,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	if req.Selection != nil {
		ev.Selection = selectionFromPath(*req.Selection)
		if ev.ActivityCode == "" {
			ev.ActivityCode = generate(*req.Selection)
		}
	} else if ev.ActivityCode != "" {
		if p, ok := activitycode.InferSubTab(ev.ActivityCode); ok {
			ev.Selection = selectionFromParsed(p)
		}
	}
	s.normalize(ev)

	if err := ValidateEvent(ev); err != nil {
		return nil, err
	}
	if err := s.events.Create(ctx, ev); err != nil {
		if errors.Is(err, repository.ErrConflict) {
			return nil, fmt.Errorf("%w: %w", ErrEventConflict, err)
		}
		return nil, fmt.Errorf("creating event: %w", err)
	}

	metrics.RecordEventsSaved("create", 1)
	s.logChange(ctx, employee, &ev.ID, changelog.TypeEventCreated, "Created event: "+ev.Title, ev)
	s.notify(ctx, employee, ev.Start)
	return ev, nil
}

// Get retrieves a live event.
func (s *Service) Get(ctx context.Context, employee, id string) (*Event, error) {
	ev, err := s.events.Get(ctx, employee, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrEventNotFound
		}
		return nil, fmt.Errorf("getting event: %w", err)
	}
	if ev.DeletedAt != nil {
		return nil, ErrEventNotFound
	}
	return ev, nil
}

// Update applies a partial patch.
func (s *Service) Update(ctx context.Context, employee string, req UpdateRequest) (*Event, error) {
	ev, err := s.Get(ctx, employee, req.ID)
	if err != nil {
		return nil, err
	}
	previousStart := ev.Start

	if req.Title != nil {
		ev.Title = strings.TrimSpace(*req.Title)
	}
	setString(&ev.Description, req.Description)
	setString(&ev.ProjectCode, req.ProjectCode)
	setString(&ev.Color, req.Color)
	setString(&ev.Status, req.Status)
	setString(&ev.Category, req.Category)
	setString(&ev.EquipmentNumber, req.EquipmentNumber)
	setString(&ev.EquipmentName, req.EquipmentName)
	setString(&ev.ItemName, req.ItemName)
	setString(&ev.PurposeProject, req.PurposeProject)
	setString(&ev.DepartmentCode, req.DepartmentCode)
	if req.SubTypes != nil {
		ev.SubTypes = *req.SubTypes
	}

	timesChanged := false
	if req.Start != nil {
		ev.Start = *req.Start
		timesChanged = true
	}
	if req.End != nil {
		ev.End = *req.End
		timesChanged = true
	}
	if timesChanged {
		if err := ValidateTimes(ev.Start, ev.End); err != nil {
			return nil, err
		}
		applyLayout(ev, s.loc)
	}

	switch {
	case req.Selection != nil:
		ev.Selection = selectionFromPath(*req.Selection)
		ev.ActivityCode = generate(*req.Selection)
		ev.SubTypes = SubTypes{}
	case req.ActivityCode != nil:
		if err := s.applyCode(ev, *req.ActivityCode); err != nil {
			return nil, err
		}
	}

	ev.UpdatedAt = s.now()
	if err := ValidateEvent(ev); err != nil {
		return nil, err
	}
	if err := s.save(ctx, ev); err != nil {
		return nil, err
	}

	metrics.RecordEventsSaved("update", 1)
	s.logChange(ctx, employee, &ev.ID, changelog.TypeEventUpdated, "Updated event: "+ev.Title, req)
	s.notify(ctx, employee, previousStart, ev.Start)
	return ev, nil
}

// Delete soft-deletes an event.
func (s *Service) Delete(ctx context.Context, employee, id string) error {
	ev, err := s.Get(ctx, employee, id)
	if err != nil {
		return err
	}
	if err := s.events.SoftDelete(ctx, employee, id, s.now()); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrEventNotFound
		}
		return fmt.Errorf("deleting event: %w", err)
	}

	metrics.RecordEventsSaved("delete", 1)
	s.logChange(ctx, employee, &ev.ID, changelog.TypeEventDeleted, "Deleted event: "+ev.Title, nil)
	s.notify(ctx, employee, ev.Start)
	return nil
}

// Classify applies a tab path to an event: the code is regenerated and the
// sub-type fields are cleared.
func (s *Service) Classify(ctx context.Context, employee, id string, sel activitycode.Selection) (*Event, error) {
	ev, err := s.Get(ctx, employee, id)
	if err != nil {
		return nil, err
	}
	ev.Selection = selectionFromPath(sel)
	ev.ActivityCode = generate(sel)
	ev.SubTypes = SubTypes{}
	ev.UpdatedAt = s.now()
	if err := s.save(ctx, ev); err != nil {
		return nil, err
	}

	metrics.RecordEventsSaved("classify", 1)
	s.logChange(ctx, employee, &ev.ID, changelog.TypeEventClassified, "Classified event as "+ev.ActivityCode, sel)
	s.notify(ctx, employee, ev.Start)
	return ev, nil
}

// SetActivityCode stores a typed code and moves the tab selection to match.
func (s *Service) SetActivityCode(ctx context.Context, employee, id, code string) (*Event, error) {
	ev, err := s.Get(ctx, employee, id)
	if err != nil {
		return nil, err
	}
	if err := s.applyCode(ev, code); err != nil {
		return nil, err
	}
	ev.UpdatedAt = s.now()
	if err := s.save(ctx, ev); err != nil {
		return nil, err
	}

	metrics.RecordEventsSaved("classify", 1)
	s.logChange(ctx, employee, &ev.ID, changelog.TypeEventClassified, "Set activity code "+ev.ActivityCode, map[string]string{"activity_code": code})
	s.notify(ctx, employee, ev.Start)
	return ev, nil
}

// GetWeek loads one ISO week.
func (s *Service) GetWeek(ctx context.Context, employee string, year, week int) (*WeekData, error) {
	if err := isoweek.Validate(year, week); err != nil {
		return nil, ErrInvalidWeek
	}
	from, to := isoweek.Range(year, week, s.loc)

	events, err := s.events.List(ctx, employee, ListOptions{From: from, To: to})
	if err != nil {
		return nil, fmt.Errorf("listing week events: %w", err)
	}
	sortByStart(events)

	days := dayStrings(year, week, s.loc)
	var workTimes []WorkTime
	if s.workTimes != nil {
		workTimes, err = s.workTimes.ListWorkTimes(ctx, employee, days[0], days[len(days)-1])
		if err != nil {
			return nil, fmt.Errorf("listing work times: %w", err)
		}
	}
	if events == nil {
		events = []Event{}
	}
	if workTimes == nil {
		workTimes = []WorkTime{}
	}

	data := &WeekData{
		Year:      year,
		Week:      week,
		Start:     from,
		Days:      days,
		Events:    events,
		WorkTimes: workTimes,
		Metadata:  WeekMeta{TotalEvents: len(events)},
	}
	for i := range events {
		if data.Metadata.LastModified == nil || events[i].UpdatedAt.After(*data.Metadata.LastModified) {
			t := events[i].UpdatedAt
			data.Metadata.LastModified = &t
		}
	}
	return data, nil
}

// SaveWeek replaces every event and work time of the week. The last write
// wins; there is no merge with concurrently stored blocks.
func (s *Service) SaveWeek(ctx context.Context, employee string, year, week int, req SaveWeekRequest) (int, error) {
	if strings.TrimSpace(employee) == "" {
		return 0, ErrInvalidInput
	}
	if err := isoweek.Validate(year, week); err != nil {
		return 0, ErrInvalidWeek
	}
	from, to := isoweek.Range(year, week, s.loc)
	now := s.now()

	events := make([]Event, len(req.Events))
	for i, in := range req.Events {
		ev := in
		ev.EmployeeNumber = employee
		if ev.ID == "" {
			ev.ID = uuid.New().String()
		}
		if ev.CreatedAt.IsZero() {
			ev.CreatedAt = now
		}
		ev.UpdatedAt = now
		ev.DeletedAt = nil
		if ev.ActivityCode == "" && ev.Selection.SubTab() != "" {
			ev.ActivityCode = generate(ev.Selection.ToSelection())
		}
		s.normalize(&ev)
		if err := ValidateEvent(&ev); err != nil {
			return 0, fmt.Errorf("event %d: %w", i, err)
		}
		if ev.Start.Before(from) || !ev.Start.Before(to) {
			return 0, fmt.Errorf("event %d: %w", i, ErrOutsideWeek)
		}
		events[i] = ev
	}

	days := dayStrings(year, week, s.loc)
	workTimes := make([]WorkTime, 0, len(req.WorkTimes))
	for _, wt := range req.WorkTimes {
		if err := ValidateWorkTime(wt); err != nil {
			return 0, fmt.Errorf("work time %s: %w", wt.Date, err)
		}
		if wt.Date < days[0] || wt.Date > days[len(days)-1] {
			return 0, fmt.Errorf("work time %s: %w", wt.Date, ErrOutsideWeek)
		}
		wt.EmployeeNumber = employee
		workTimes = append(workTimes, wt)
	}

	if err := s.events.ReplaceRange(ctx, employee, from, to, events); err != nil {
		if errors.Is(err, repository.ErrConflict) {
			return 0, fmt.Errorf("%w: %w", ErrEventConflict, err)
		}
		return 0, fmt.Errorf("replacing week events: %w", err)
	}
	if s.workTimes != nil {
		if err := s.workTimes.ReplaceWorkTimes(ctx, employee, days[0], days[len(days)-1], workTimes); err != nil {
			return 0, fmt.Errorf("replacing work times: %w", err)
		}
	}

	metrics.RecordEventsSaved("save_week", len(events))
	s.logChange(ctx, employee, nil, changelog.TypeWeekSaved,
		fmt.Sprintf("Saved %d-W%02d with %d events", year, week, len(events)), nil)
	s.notify(ctx, employee, from)
	s.logger.Debug("week saved",
		zap.String("employee", employee),
		zap.Int("year", year),
		zap.Int("week", week),
		zap.Int("events", len(events)))
	return len(events), nil
}

// ListMonth returns the live events starting in a calendar month, by start.
func (s *Service) ListMonth(ctx context.Context, employee string, year, month int) ([]Event, error) {
	from, to, err := isoweek.MonthRange(year, month, s.loc)
	if err != nil {
		return nil, ErrInvalidInput
	}
	events, err := s.events.List(ctx, employee, ListOptions{From: from, To: to})
	if err != nil {
		return nil, fmt.Errorf("listing month events: %w", err)
	}
	sortByStart(events)
	return events, nil
}

func (s *Service) applyCode(ev *Event, code string) error {
	code = strings.ToUpper(strings.TrimSpace(code))
	if !activitycode.Valid(code) {
		return ErrInvalidActivityCode
	}
	ev.ActivityCode = code
	if p, ok := activitycode.InferSubTab(code); ok {
		ev.Selection = selectionFromParsed(p)
	} else {
		ev.Selection = TabSelection{}
	}
	return nil
}

func (s *Service) normalize(ev *Event) {
	if ev.Color == "" {
		ev.Color = DefaultColor
	}
	if ev.Status == "" {
		ev.Status = DefaultStatus
	}
	if !ev.Start.IsZero() && ev.End.After(ev.Start) {
		applyLayout(ev, s.loc)
	}
}

func (s *Service) save(ctx context.Context, ev *Event) error {
	if err := s.events.Update(ctx, ev); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrEventNotFound
		}
		return fmt.Errorf("updating event: %w", err)
	}
	return nil
}

func (s *Service) logChange(ctx context.Context, employee string, eventID *string, typ changelog.Type, summary string, details any) {
	if s.changes == nil {
		return
	}
	entry := &changelog.Entry{
		EmployeeNumber: employee,
		EventID:        eventID,
		Type:           typ,
		Summary:        summary,
		CreatedAt:      s.now(),
	}
	if details != nil {
		if raw, err := json.Marshal(details); err == nil {
			entry.Details = string(raw)
		}
	}
	if err := s.changes.Log(ctx, employee, entry); err != nil {
		s.logger.Warn("change log write failed",
			zap.String("employee", employee),
			zap.String("type", string(typ)),
			zap.Error(err))
	}
}

func (s *Service) notify(ctx context.Context, employee string, times ...time.Time) {
	if s.notifier == nil {
		return
	}
	s.notifier.EventsChanged(ctx, employee, times...)
}

func generate(sel activitycode.Selection) string {
	code := activitycode.Generate(sel)
	domain := sel.Domain
	if domain == "" {
		domain, _ = activitycode.DomainOf(sel.SubTab)
	}
	metrics.RecordCodeGenerated(string(domain))
	return code
}

func selectionFromPath(sel activitycode.Selection) TabSelection {
	domain := sel.Domain
	if domain == "" {
		domain, _ = activitycode.DomainOf(sel.SubTab)
	}
	detail := sel.DetailTab
	if detail == "" {
		detail = activitycode.DefaultDetail(sel.SubTab)
	}
	out := TabSelection{Tab: domain, DetailTab: detail}
	if domain == activitycode.DomainIndirect {
		out.IndirectSubTab = sel.SubTab
	} else {
		out.ProjectSubTab = sel.SubTab
	}
	if sel.Item != nil {
		out.ItemCode = sel.Item.Code
	}
	return out
}

func selectionFromParsed(p activitycode.Parsed) TabSelection {
	sel := activitycode.Selection{Domain: p.Domain, SubTab: p.SubTab, DetailTab: p.DetailTab, Item: p.Item}
	return selectionFromPath(sel)
}

func dayStrings(year, week int, loc *time.Location) []string {
	days := isoweek.Days(year, week, loc)
	out := make([]string, len(days))
	for i, d := range days {
		out[i] = d.Format(dateLayout)
	}
	return out
}

func sortByStart(events []Event) {
	sort.SliceStable(events, func(i, j int) bool {
		return events[i].Start.Before(events[j].Start)
	})
}

func setString(dst *string, src *string) {
	if src != nil {
		*dst = *src
	}
}
