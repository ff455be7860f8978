package memstore

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/rpggio/zisseki/internal/domain/changelog"
	"github.com/rpggio/zisseki/internal/domain/event"
	"github.com/rpggio/zisseki/internal/domain/project"
)

// snapshot is the on-disk layout. The key names match what the browser demo
// kept in local storage so exported demo data loads unchanged.
type snapshot struct {
	Events      []event.Event     `json:"zisseki_demo_events"`
	WorkTimes   []event.WorkTime  `json:"zisseki_demo_work_times"`
	Projects    []project.Project `json:"zisseki_demo_projects,omitempty"`
	Changes     []changelog.Entry `json:"zisseki_demo_change_log,omitempty"`
	LastUpdated time.Time         `json:"zisseki_demo_last_updated"`
}

func isNotExist(err error) bool {
	return errors.Is(err, fs.ErrNotExist)
}

func loadSnapshot(path string) (State, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return State{}, err
	}
	var snap snapshot
	if err := json.Unmarshal(raw, &snap); err != nil {
		return State{}, fmt.Errorf("decoding snapshot: %w", err)
	}

	state := NewState()
	for _, ev := range snap.Events {
		if ev.ID == "" {
			continue
		}
		state.Events[ev.ID] = ev
	}
	for _, wt := range snap.WorkTimes {
		state.WorkTimes[workTimeKey(wt.EmployeeNumber, wt.Date)] = wt
	}
	for _, p := range snap.Projects {
		state.Projects[p.Code] = p
	}
	state.Changes = snap.Changes
	state.Version = 1
	return state, nil
}

func writeSnapshot(path string, state State, now time.Time) error {
	snap := snapshot{
		Events:      make([]event.Event, 0, len(state.Events)),
		WorkTimes:   make([]event.WorkTime, 0, len(state.WorkTimes)),
		Projects:    make([]project.Project, 0, len(state.Projects)),
		Changes:     state.Changes,
		LastUpdated: now,
	}
	for _, ev := range state.Events {
		snap.Events = append(snap.Events, ev)
	}
	sortEvents(snap.Events)
	for _, wt := range state.WorkTimes {
		snap.WorkTimes = append(snap.WorkTimes, wt)
	}
	sort.Slice(snap.WorkTimes, func(i, j int) bool {
		if snap.WorkTimes[i].EmployeeNumber != snap.WorkTimes[j].EmployeeNumber {
			return snap.WorkTimes[i].EmployeeNumber < snap.WorkTimes[j].EmployeeNumber
		}
		return snap.WorkTimes[i].Date < snap.WorkTimes[j].Date
	})
	for _, p := range state.Projects {
		snap.Projects = append(snap.Projects, p)
	}
	sort.Slice(snap.Projects, func(i, j int) bool { return snap.Projects[i].Code < snap.Projects[j].Code })

	raw, err := json.MarshalIndent(snap, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding snapshot: %w", err)
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating snapshot dir: %w", err)
	}
	tmp, err := os.CreateTemp(dir, ".snapshot-*.json")
	if err != nil {
		return fmt.Errorf("creating snapshot temp file: %w", err)
	}
	defer os.Remove(tmp.Name())
	if _, err := tmp.Write(raw); err != nil {
		tmp.Close()
		return fmt.Errorf("writing snapshot: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("closing snapshot: %w", err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("replacing snapshot: %w", err)
	}
	return nil
}
