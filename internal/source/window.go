// internal/source/window.go
package source

import (
	"fmt"
	"time"
)

// Window is the (year, month) unit booking fetches are paged by.
type Window struct {
	Year  int
	Month time.Month
}

// WindowOf returns the window containing t.
func WindowOf(t time.Time) Window {
	return Window{Year: t.Year(), Month: t.Month()}
}

// String renders the window as "2024-03".
func (w Window) String() string {
	return fmt.Sprintf("%04d-%02d", w.Year, int(w.Month))
}

// Start returns midnight on the first day of the window in loc.
func (w Window) Start(loc *time.Location) time.Time {
	return time.Date(w.Year, w.Month, 1, 0, 0, 0, 0, loc)
}

// Next returns the following month's window.
func (w Window) Next() Window {
	return WindowOf(w.Start(time.UTC).AddDate(0, 1, 0))
}

// Prev returns the preceding month's window.
func (w Window) Prev() Window {
	return WindowOf(w.Start(time.UTC).AddDate(0, -1, 0))
}

// WindowsCovering returns the windows of every month touched by the
// inclusive [from, to] date range, in chronological order. Used to fetch all
// months a padded calendar grid spans.
func WindowsCovering(from, to time.Time) []Window {
	if to.Before(from) {
		from, to = to, from
	}
	var windows []Window
	w := WindowOf(from)
	last := WindowOf(to)
	for {
		windows = append(windows, w)
		if w == last {
			return windows
		}
		w = w.Next()
	}
}
