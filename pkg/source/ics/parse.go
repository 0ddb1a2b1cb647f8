package ics

import (
	"bytes"
	"fmt"
	"strings"
	"time"

	ical "github.com/arran4/golang-ical"
)

// =============================================================================
// VEVENT PARSING
// =============================================================================

// ParsedEvent is the normalized form of a VEVENT before recurrence
// expansion. Times carry the location resolved from the feed's
// VTIMEZONE/TZID data by golang-ical.
type ParsedEvent struct {
	FeedID string

	UID      string
	Summary  string
	Location string

	Start  time.Time
	End    time.Time
	AllDay bool

	// RawRRule is the unexpanded RRULE value; empty for one-off events.
	RawRRule string
	ExDates  []time.Time

	// RecurrenceID marks this VEVENT as a replacement for one instance
	// of a recurring event with the same UID.
	RecurrenceID *time.Time
}

// Parse decodes an ICS payload into parsed events. Individual malformed
// VEVENTs are skipped; the payload as a whole must be valid iCalendar.
func Parse(feedID string, body []byte) ([]ParsedEvent, error) {
	if len(body) == 0 {
		return nil, fmt.Errorf("feed %s: empty body", feedID)
	}

	cal, err := ical.ParseCalendar(bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("feed %s: %w", feedID, err)
	}

	var out []ParsedEvent
	for _, ve := range cal.Events() {
		ev, ok := parseVEvent(feedID, ve)
		if !ok {
			continue
		}
		out = append(out, ev)
	}
	return out, nil
}

func parseVEvent(feedID string, ve *ical.VEvent) (ParsedEvent, bool) {
	var out ParsedEvent
	out.FeedID = feedID

	uid := ve.GetProperty(ical.ComponentPropertyUniqueId)
	if uid == nil || uid.Value == "" {
		return out, false
	}
	out.UID = uid.Value

	if p := ve.GetProperty(ical.ComponentPropertySummary); p != nil {
		out.Summary = p.Value
	}
	if p := ve.GetProperty(ical.ComponentPropertyLocation); p != nil {
		out.Location = p.Value
	}

	start, err := ve.GetStartAt()
	if err != nil {
		return out, false
	}
	out.Start = start
	if end, eerr := ve.GetEndAt(); eerr == nil {
		out.End = end
	}

	// All-day events carry VALUE=DATE or a bare YYYYMMDD value.
	if p := ve.GetProperty(ical.ComponentPropertyDtStart); p != nil {
		if vs, ok := p.ICalParameters["VALUE"]; ok && len(vs) > 0 && strings.EqualFold(vs[0], "DATE") {
			out.AllDay = true
		}
		if !strings.Contains(p.Value, "T") {
			out.AllDay = true
		}
	}

	if p := ve.GetProperty(ical.ComponentPropertyRrule); p != nil {
		out.RawRRule = p.Value
	}

	for _, p := range ve.GetProperties(ical.ComponentPropertyExdate) {
		for _, part := range strings.Split(p.Value, ",") {
			part = strings.TrimSpace(part)
			if part == "" {
				continue
			}
			if t, terr := parseICSTime(part, out.Start.Location()); terr == nil {
				out.ExDates = append(out.ExDates, t)
			}
		}
	}

	if p := ve.GetProperty("RECURRENCE-ID"); p != nil {
		if t, terr := parseICSTime(p.Value, out.Start.Location()); terr == nil {
			out.RecurrenceID = &t
		}
	}

	return out, true
}

// parseICSTime handles the three ICS time shapes that appear in EXDATE
// and RECURRENCE-ID values: UTC date-time, floating date-time, and
// date-only. Floating values take the event's own location.
func parseICSTime(v string, loc *time.Location) (time.Time, error) {
	v = strings.TrimSpace(v)
	if loc == nil {
		loc = time.Local
	}
	switch {
	case strings.HasSuffix(v, "Z"):
		return time.Parse("20060102T150405Z", v)
	case strings.Contains(v, "T"):
		return time.ParseInLocation("20060102T150405", v, loc)
	default:
		return time.ParseInLocation("20060102", v, loc)
	}
}
