// Package local provides file-backed event sources: the round-trip events
// JSON format and a hand-maintained TOML schedule manifest.
package local

import (
	"context"
	"fmt"
	"os"

	"github.com/BurntSushi/toml"

	"github.com/daygrid/daygrid/pkg/schedule"
	"github.com/daygrid/daygrid/pkg/source"
)

// =============================================================================
// Events JSON File
// =============================================================================

// FileSource loads events from a schedule JSON file.
type FileSource struct {
	path string
}

// NewFileSource creates a source backed by the events file at path.
func NewFileSource(path string) *FileSource {
	return &FileSource{path: path}
}

// Key returns the cache identifier for this file.
func (s *FileSource) Key() string { return "file:" + s.path }

// Load reads the file and returns the events intersecting the window.
func (s *FileSource) Load(ctx context.Context, window source.Window) (*schedule.Schedule, error) {
	full, err := schedule.ReadScheduleFile(s.path)
	if err != nil {
		return nil, err
	}
	return filterWindow(full, window), nil
}

// =============================================================================
// TOML Schedule Manifest
// =============================================================================

// ManifestSource loads events from a TOML schedule manifest: the format for
// hand-maintained schedules that aren't worth a feed subscription.
//
// Example:
//
//	name = "u12-fall"
//
//	[[event]]
//	date  = "2026-09-01"
//	start = "17:30"
//	end   = "19:00"
//	title = "Practice"
type ManifestSource struct {
	path string
}

// NewManifestSource creates a source backed by the TOML manifest at path.
func NewManifestSource(path string) *ManifestSource {
	return &ManifestSource{path: path}
}

// Key returns the cache identifier for this manifest.
func (s *ManifestSource) Key() string { return "manifest:" + s.path }

type manifestFile struct {
	Name   string          `toml:"name"`
	Events []manifestEvent `toml:"event"`
}

type manifestEvent struct {
	ID       string `toml:"id"`
	Date     string `toml:"date"`
	Start    string `toml:"start"`
	End      string `toml:"end"`
	Title    string `toml:"title"`
	Location string `toml:"location"`
	AllDay   bool   `toml:"all_day"`
	Color    string `toml:"color"`
}

// Load parses the manifest and returns the events intersecting the window.
func (s *ManifestSource) Load(ctx context.Context, window source.Window) (*schedule.Schedule, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		return nil, err
	}

	var m manifestFile
	if err := toml.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("parse %s: %w", s.path, err)
	}

	out := &schedule.Schedule{}
	for _, me := range m.Events {
		out.Events = append(out.Events, schedule.Event{
			ID:       me.ID,
			Date:     me.Date,
			Start:    me.Start,
			End:      me.End,
			Title:    me.Title,
			Location: me.Location,
			Source:   m.Name,
			AllDay:   me.AllDay,
			Color:    me.Color,
		})
	}
	return filterWindow(out, window), nil
}

// =============================================================================
// Helpers
// =============================================================================

// filterWindow keeps events whose date falls inside the window and
// normalizes the result. Events with unparsable dates are kept: the engine
// policy is to render something rather than drop records, and a date that
// fails to parse can't be excluded with confidence.
func filterWindow(s *schedule.Schedule, window source.Window) *schedule.Schedule {
	dates := make(map[string]bool, 7)
	for _, d := range window.Dates() {
		dates[d] = true
	}

	out := &schedule.Schedule{}
	for _, ev := range s.Events {
		if dates[ev.Date] || !validDate(ev.Date) {
			out.Events = append(out.Events, ev)
		}
	}
	out.Normalize()
	return out
}

func validDate(date string) bool {
	if len(date) != 10 {
		return false
	}
	return date[4] == '-' && date[7] == '-'
}

// Ensure both sources implement source.Source.
var (
	_ source.Source = (*FileSource)(nil)
	_ source.Source = (*ManifestSource)(nil)
)
