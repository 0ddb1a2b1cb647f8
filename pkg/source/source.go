// Package source defines where daygrid schedules come from.
//
// A Source loads events for a time window from some backing store: an ICS
// subscription feed, a local events JSON file, or a hand-maintained TOML
// manifest. Sources normalize everything into [schedule.Schedule] records
// so the rest of the pipeline never cares where events originated.
package source

import (
	"context"
	"time"

	"github.com/daygrid/daygrid/pkg/schedule"
)

// Source loads events from a backing store.
type Source interface {
	// Key returns a stable identifier for cache keys and logging,
	// e.g. "ics:team-u12" or "file:fixtures/season.json".
	Key() string

	// Load returns the events intersecting the given window, normalized
	// (IDs assigned, sorted). Implementations must not mutate previously
	// returned schedules.
	Load(ctx context.Context, window Window) (*schedule.Schedule, error)
}

// Window is the half-open time range a load covers.
type Window struct {
	Start    time.Time
	End      time.Time
	Location *time.Location
}

// DayWindow returns the window covering a single YYYY-MM-DD date in loc.
func DayWindow(date string, loc *time.Location) (Window, error) {
	if loc == nil {
		loc = time.Local
	}
	start, err := time.ParseInLocation("2006-01-02", date, loc)
	if err != nil {
		return Window{}, err
	}
	return Window{Start: start, End: start.AddDate(0, 0, 1), Location: loc}, nil
}

// WeekWindow returns the window covering the seven days starting at the
// week containing date. weekStart is "monday" or "sunday".
func WeekWindow(date string, weekStart string, loc *time.Location) (Window, error) {
	if loc == nil {
		loc = time.Local
	}
	day, err := time.ParseInLocation("2006-01-02", date, loc)
	if err != nil {
		return Window{}, err
	}

	anchor := time.Monday
	if weekStart == "sunday" {
		anchor = time.Sunday
	}
	for day.Weekday() != anchor {
		day = day.AddDate(0, 0, -1)
	}
	return Window{Start: day, End: day.AddDate(0, 0, 7), Location: loc}, nil
}

// Dates returns the YYYY-MM-DD dates covered by the window, in order.
func (w Window) Dates() []string {
	var out []string
	for d := w.Start; d.Before(w.End); d = d.AddDate(0, 0, 1) {
		out = append(out, d.Format("2006-01-02"))
	}
	return out
}

// Contains reports whether t falls inside the window.
func (w Window) Contains(t time.Time) bool {
	return !t.Before(w.Start) && t.Before(w.End)
}
