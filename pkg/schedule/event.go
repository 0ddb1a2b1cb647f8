package schedule

import (
	"strconv"
	"strings"
)

// =============================================================================
// Constants - Single Source of Truth
// =============================================================================

// View types.
const (
	ViewDay  = "day"
	ViewWeek = "week"
)

// DefaultDurationMinutes is the assumed duration for events without an
// end time.
const DefaultDurationMinutes = 60

// MinutesPerDay is 24 hours * 60 minutes.
const MinutesPerDay = 1440

// =============================================================================
// Event - Unified Event Type
// =============================================================================

// Event is the unified event type for all serialization contexts.
// It mirrors the shape delivered by calendar backends: a date plus optional
// wall-clock time strings in 24-hour "H:mm"/"HH:mm" form.
//
// Time fields are deliberately kept as strings: the layout engine applies a
// permissive parse with silent defaults (see [ParseClock]) so that a feed
// with a malformed entry still renders instead of failing.
type Event struct {
	ID       string `json:"id" bson:"id"`
	Date     string `json:"event_date" bson:"event_date"` // YYYY-MM-DD
	Start    string `json:"start_time,omitempty" bson:"start_time,omitempty"`
	End      string `json:"end_time,omitempty" bson:"end_time,omitempty"`
	Title    string `json:"title,omitempty" bson:"title,omitempty"`
	Location string `json:"location,omitempty" bson:"location,omitempty"`
	Source   string `json:"source,omitempty" bson:"source,omitempty"` // feed/manifest ID
	AllDay   bool   `json:"all_day,omitempty" bson:"all_day,omitempty"`
	Color    string `json:"color,omitempty" bson:"color,omitempty"`
}

// DisplayTitle returns the title if set, otherwise the ID.
func (e *Event) DisplayTitle() string {
	if e.Title != "" {
		return e.Title
	}
	return e.ID
}

// Interval derives the half-open time range occupied by the event.
// A missing start time means midnight; a missing end time means the start
// plus [DefaultDurationMinutes]. Never fails: malformed clock strings
// resolve to 0 components.
func (e *Event) Interval() Interval {
	start := ParseClock(e.Start)
	end := start + DefaultDurationMinutes
	if e.End != "" {
		end = ParseClock(e.End)
	}
	return Interval{Start: start, End: end}
}

// Duration returns the event's duration in minutes.
func (e *Event) Duration() int {
	iv := e.Interval()
	return iv.End - iv.Start
}

// =============================================================================
// Interval - Derived Time Range
// =============================================================================

// Interval is a half-open range [Start, End) in minutes since midnight.
// Derived from an Event for overlap testing; never persisted.
type Interval struct {
	Start int
	End   int
}

// Overlaps reports whether two intervals share any time. The comparison is
// strict: intervals that merely touch at an endpoint (one ending at 14:00,
// the next starting at 14:00) do not overlap. Symmetric by construction.
func (iv Interval) Overlaps(other Interval) bool {
	return iv.Start < other.End && other.Start < iv.End
}

// =============================================================================
// Clock Parsing
// =============================================================================

// ParseClock converts an "H:mm"/"HH:mm" string into minutes since midnight.
// The parse is permissive: missing or unparsable components become 0, so
// "" and garbage both map to midnight. Events must always land somewhere on
// the grid rather than error out.
func ParseClock(s string) int {
	hour, minute := 0, 0
	parts := strings.Split(s, ":")
	if len(parts) > 0 {
		if h, err := strconv.Atoi(strings.TrimSpace(parts[0])); err == nil {
			hour = h
		}
	}
	if len(parts) > 1 {
		if m, err := strconv.Atoi(strings.TrimSpace(parts[1])); err == nil {
			minute = m
		}
	}
	return hour*60 + minute
}

// FormatClock renders minutes-since-midnight as a zero-padded "HH:mm"
// string, the inverse of [ParseClock] for well-formed values.
func FormatClock(minutes int) string {
	h := minutes / 60
	m := minutes % 60
	return pad2(h) + ":" + pad2(m)
}

func pad2(n int) string {
	if n < 0 {
		n = 0
	}
	if n < 10 {
		return "0" + strconv.Itoa(n)
	}
	return strconv.Itoa(n)
}
