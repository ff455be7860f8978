package report

import (
	"time"

	"github.com/rpggio/zisseki/internal/domain/event"
	"github.com/rpggio/zisseki/internal/isoweek"
)

// Block is one event placed on the weekly grid.
type Block struct {
	Event  event.Event `json:"event"`
	Day    int         `json:"day"` // 0 is Monday
	Top    float64     `json:"top"`
	Height float64     `json:"height"`
}

// Grid is the weekly time grid.
type Grid struct {
	Year       int      `json:"year"`
	Week       int      `json:"week"`
	Days       []string `json:"days"`
	HourHeight float64  `json:"hour_height"`
	Blocks     []Block  `json:"blocks"`
}

// Layout places each event that starts inside the week in its day column.
func Layout(events []event.Event, year, week int, loc *time.Location) (Grid, error) {
	if err := isoweek.Validate(year, week); err != nil {
		return Grid{}, err
	}
	if loc == nil {
		loc = time.Local
	}
	from, to := isoweek.Range(year, week, loc)

	grid := Grid{Year: year, Week: week, HourHeight: event.HourHeight, Blocks: []Block{}}
	for _, d := range isoweek.Days(year, week, loc) {
		grid.Days = append(grid.Days, d.Format("2006-01-02"))
	}
	for _, ev := range events {
		start := ev.Start.In(loc)
		if start.Before(from) || !start.Before(to) {
			continue
		}
		day := dayIndex(grid.Days, start.Format("2006-01-02"))
		grid.Blocks = append(grid.Blocks, Block{
			Event:  ev,
			Day:    day,
			Top:    event.GridTop(start),
			Height: event.GridHeight(ev.Duration()),
		})
	}
	return grid, nil
}

func dayIndex(days []string, date string) int {
	for i, d := range days {
		if d == date {
			return i
		}
	}
	return len(days) - 1
}
