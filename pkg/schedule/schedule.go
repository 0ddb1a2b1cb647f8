package schedule

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"slices"

	"github.com/google/uuid"
)

// =============================================================================
// Schedule Serialization API
// =============================================================================

// Schedule is the canonical serialization format for event lists.
// Used for API requests, storage, caching, and the CLI's events files.
//
// The format is human-readable and designed for round-trip fidelity:
// load → layout → export → re-load produces identical results.
type Schedule struct {
	Events []Event `json:"events" bson:"events"`
}

// MarshalSchedule converts a schedule to JSON bytes.
// Events are sorted by date then ID for deterministic output.
func MarshalSchedule(s *Schedule) ([]byte, error) {
	var buf bytes.Buffer
	if err := writeScheduleTo(s, &buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// WriteScheduleFile writes a schedule to a JSON file.
// The file is created with 0644 permissions.
func WriteScheduleFile(s *Schedule, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()
	return writeScheduleTo(s, f)
}

// WriteSchedule writes a schedule as JSON to an io.Writer.
func WriteSchedule(s *Schedule, w io.Writer) error {
	return writeScheduleTo(s, w)
}

// ReadScheduleFile reads a JSON file and returns the decoded schedule.
func ReadScheduleFile(path string) (*Schedule, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()
	return readScheduleFrom(f)
}

// ReadSchedule decodes a JSON schedule from an io.Reader.
func ReadSchedule(r io.Reader) (*Schedule, error) {
	return readScheduleFrom(r)
}

// =============================================================================
// Normalization & Queries
// =============================================================================

// Normalize assigns a UUID to every event without an ID so that layout
// output is always addressable, and sorts events by date, start time, and
// ID for deterministic serialization.
func (s *Schedule) Normalize() {
	for i := range s.Events {
		if s.Events[i].ID == "" {
			s.Events[i].ID = uuid.NewString()
		}
	}
	s.sort()
}

// Day returns the timed events occurring on the given YYYY-MM-DD date.
// All-day events are excluded: they render outside the timed grid.
func (s *Schedule) Day(date string) []Event {
	var out []Event
	for _, ev := range s.Events {
		if ev.Date == date && !ev.AllDay {
			out = append(out, ev)
		}
	}
	return out
}

// AllDay returns the all-day events for the given date.
func (s *Schedule) AllDay(date string) []Event {
	var out []Event
	for _, ev := range s.Events {
		if ev.Date == date && ev.AllDay {
			out = append(out, ev)
		}
	}
	return out
}

// Dates returns the distinct event dates in ascending order.
func (s *Schedule) Dates() []string {
	seen := make(map[string]bool)
	var out []string
	for _, ev := range s.Events {
		if !seen[ev.Date] {
			seen[ev.Date] = true
			out = append(out, ev.Date)
		}
	}
	slices.Sort(out)
	return out
}

func (s *Schedule) sort() {
	slices.SortStableFunc(s.Events, func(a, b Event) int {
		if a.Date != b.Date {
			if a.Date < b.Date {
				return -1
			}
			return 1
		}
		if d := ParseClock(a.Start) - ParseClock(b.Start); d != 0 {
			return d
		}
		if a.ID < b.ID {
			return -1
		}
		if a.ID > b.ID {
			return 1
		}
		return 0
	})
}

// =============================================================================
// Internal Implementation
// =============================================================================

func writeScheduleTo(s *Schedule, w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(s); err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	return nil
}

func readScheduleFrom(r io.Reader) (*Schedule, error) {
	var s Schedule
	if err := json.NewDecoder(r).Decode(&s); err != nil {
		return nil, fmt.Errorf("decode: %w", err)
	}
	return &s, nil
}
