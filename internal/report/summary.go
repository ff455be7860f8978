package report

import (
	"sort"
	"time"

	"github.com/rpggio/zisseki/internal/domain/activitycode"
	"github.com/rpggio/zisseki/internal/domain/event"
)

// Unclassified labels events without a project or activity code.
const Unclassified = "未分類"

// Entry is one aggregate bucket.
type Entry struct {
	Key   string  `json:"key"`
	Label string  `json:"label"`
	Count int     `json:"count"`
	Hours float64 `json:"hours"`
}

// Summary aggregates a month of events for the chart view.
type Summary struct {
	Year           int       `json:"year"`
	Month          int       `json:"month"`
	TotalEvents    int       `json:"total_events"`
	TotalHours     float64   `json:"total_hours"`
	ByProject      []Entry   `json:"by_project"`
	ByActivityCode []Entry   `json:"by_activity_code"`
	ByDay          []Entry   `json:"by_day"`
	GeneratedAt    time.Time `json:"generated_at"`
}

var weekdayNames = [...]string{"日", "月", "火", "水", "木", "金", "土"}

// Summarize buckets events by project, activity code, and start day in loc.
// projectNames supplies project labels; unknown codes label themselves.
func Summarize(events []event.Event, loc *time.Location, projectNames map[string]string) Summary {
	if loc == nil {
		loc = time.Local
	}
	byProject := map[string]*Entry{}
	byCode := map[string]*Entry{}
	byDay := map[string]*Entry{}

	var s Summary
	for _, ev := range events {
		hours := ev.Duration().Hours()
		s.TotalEvents++
		s.TotalHours += hours

		project := ev.ProjectCode
		if project == "" {
			project = Unclassified
		}
		add(byProject, project, hours, func() string {
			if name, ok := projectNames[project]; ok && name != "" {
				return name
			}
			return project
		})

		code := ev.ActivityCode
		if code == "" {
			code = Unclassified
		}
		add(byCode, code, hours, func() string {
			if code == Unclassified {
				return code
			}
			return activitycode.Describe(code)
		})

		start := ev.Start.In(loc)
		add(byDay, start.Format("2006-01-02"), hours, func() string {
			return start.Format("1/2") + "(" + weekdayNames[start.Weekday()] + ")"
		})
	}

	s.ByProject = sorted(byProject)
	s.ByActivityCode = sorted(byCode)
	s.ByDay = sorted(byDay)
	return s
}

func add(m map[string]*Entry, key string, hours float64, label func() string) {
	e, ok := m[key]
	if !ok {
		e = &Entry{Key: key, Label: label()}
		m[key] = e
	}
	e.Count++
	e.Hours += hours
}

func sorted(m map[string]*Entry) []Entry {
	out := make([]Entry, 0, len(m))
	for _, e := range m {
		out = append(out, *e)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Key < out[j].Key })
	return out
}
