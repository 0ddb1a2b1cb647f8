package layout

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/daygrid/daygrid/pkg/schedule"
)

// =============================================================================
// Layout Serialization
// =============================================================================

// Layout is the serializable envelope around a computed layout. Exactly one
// of Day or Week is set, matching View. Events carries the schedule the
// layout was computed from so cached layouts can be rendered without
// re-loading sources.
type Layout struct {
	View   string           `json:"view"`
	Day    *DayLayout       `json:"day,omitempty"`
	Week   *WeekLayout      `json:"week,omitempty"`
	Events []schedule.Event `json:"events,omitempty"`
}

// IsWeek reports whether this is a week-view layout.
func (l Layout) IsWeek() bool { return l.View == schedule.ViewWeek }

// Event returns the event with the given ID, for resolving block labels.
func (l Layout) Event(id string) (schedule.Event, bool) {
	for _, ev := range l.Events {
		if ev.ID == id {
			return ev, true
		}
	}
	return schedule.Event{}, false
}

// MarshalLayout serializes a layout envelope to JSON.
func MarshalLayout(l Layout) ([]byte, error) {
	return json.MarshalIndent(l, "", "  ")
}

// WriteLayoutFile writes a layout envelope to a JSON file.
func WriteLayoutFile(l Layout, path string) error {
	data, err := MarshalLayout(l)
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write layout %s: %w", path, err)
	}
	return nil
}

// ReadLayoutFile reads a layout envelope from a JSON file.
func ReadLayoutFile(path string) (Layout, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Layout{}, fmt.Errorf("read layout %s: %w", path, err)
	}
	return UnmarshalLayout(data)
}

// UnmarshalLayout deserializes a layout envelope from JSON.
func UnmarshalLayout(data []byte) (Layout, error) {
	var l Layout
	if err := json.Unmarshal(data, &l); err != nil {
		return Layout{}, fmt.Errorf("unmarshal layout: %w", err)
	}
	switch l.View {
	case schedule.ViewDay:
		if l.Day == nil {
			return Layout{}, fmt.Errorf("day layout missing day data")
		}
	case schedule.ViewWeek:
		if l.Week == nil {
			return Layout{}, fmt.Errorf("week layout missing week data")
		}
	default:
		return Layout{}, fmt.Errorf("unknown view: %q", l.View)
	}
	return l, nil
}
