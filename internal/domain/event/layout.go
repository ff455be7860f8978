package event

import "time"

// GridTop returns the vertical offset of t inside its day column.
func GridTop(t time.Time) float64 {
	return float64(t.Hour())*HourHeight + float64(t.Minute())/60*HourHeight
}

// GridHeight returns the block height for a duration, never less than
// MinBlockMinutes.
func GridHeight(d time.Duration) float64 {
	minutes := d.Minutes()
	if minutes < MinBlockMinutes {
		minutes = MinBlockMinutes
	}
	return minutes / 60 * HourHeight
}

// applyLayout derives grid placement from the event times as seen in loc.
func applyLayout(ev *Event, loc *time.Location) {
	ev.Top = GridTop(ev.Start.In(loc))
	ev.Height = GridHeight(ev.Duration())
}
