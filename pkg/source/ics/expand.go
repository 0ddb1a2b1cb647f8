package ics

import (
	"fmt"
	"time"

	"github.com/teambition/rrule-go"

	"github.com/daygrid/daygrid/pkg/schedule"
	"github.com/daygrid/daygrid/pkg/source"
)

// =============================================================================
// RECURRENCE EXPANSION
// =============================================================================

// maxOccurrences caps per-event expansion so a pathological RRULE cannot
// flood the schedule.
const maxOccurrences = 1000

// Expand turns parsed events into a schedule for the window. Recurring
// events are expanded through their RRULE with EXDATE instances removed
// and RECURRENCE-ID overrides applied; every occurrence is converted to
// wall-clock strings in the window's location.
func Expand(events []ParsedEvent, window source.Window) *schedule.Schedule {
	loc := window.Location
	if loc == nil {
		loc = time.Local
	}

	overrides := make(map[string][]ParsedEvent)
	for _, ev := range events {
		if ev.RecurrenceID != nil {
			overrides[ev.UID] = append(overrides[ev.UID], ev)
		}
	}

	out := &schedule.Schedule{}
	for _, ev := range events {
		if ev.RecurrenceID != nil {
			continue
		}
		for _, occ := range occurrences(ev, window) {
			start, end := occ, occ.Add(duration(ev))
			src := ev
			if o, ok := overrideFor(overrides[ev.UID], occ); ok {
				src, start, end = o, o.Start, o.End
			}
			out.Events = append(out.Events, toEvent(src, start, end, loc))
		}
	}
	return out
}

// occurrences returns the start times of ev that fall inside the window.
func occurrences(ev ParsedEvent, window source.Window) []time.Time {
	if ev.RawRRule == "" {
		if ev.Start.Before(window.End) && window.Start.Before(eventEnd(ev)) {
			return []time.Time{ev.Start}
		}
		return nil
	}

	r, err := rrule.StrToRRule(ev.RawRRule)
	if err != nil {
		return nil
	}
	r.DTStart(ev.Start)

	var set rrule.Set
	set.RRule(r)
	for _, ex := range ev.ExDates {
		set.ExDate(ex.In(ev.Start.Location()))
	}

	times := set.Between(
		window.Start.In(ev.Start.Location()),
		window.End.In(ev.Start.Location()),
		true,
	)
	if len(times) > maxOccurrences {
		times = times[:maxOccurrences]
	}
	return times
}

func eventEnd(ev ParsedEvent) time.Time {
	if ev.End.After(ev.Start) {
		return ev.End
	}
	return ev.Start.Add(time.Hour)
}

func duration(ev ParsedEvent) time.Duration {
	if ev.AllDay {
		return 24 * time.Hour
	}
	return eventEnd(ev).Sub(ev.Start)
}

func overrideFor(overrides []ParsedEvent, start time.Time) (ParsedEvent, bool) {
	for _, o := range overrides {
		if o.RecurrenceID != nil && o.RecurrenceID.In(start.Location()).Equal(start) {
			return o, true
		}
	}
	return ParsedEvent{}, false
}

// toEvent converts one occurrence into a schedule event. The instance ID
// is derived from feed, UID, and start time so repeated loads produce
// identical IDs. An end past midnight clamps to 24:00 so the occurrence
// stays on its start date.
func toEvent(ev ParsedEvent, start, end time.Time, loc *time.Location) schedule.Event {
	start = start.In(loc)
	end = end.In(loc)

	out := schedule.Event{
		ID:       fmt.Sprintf("%s/%s/%s", ev.FeedID, ev.UID, start.Format(time.RFC3339)),
		Date:     start.Format("2006-01-02"),
		Title:    ev.Summary,
		Location: ev.Location,
		Source:   ev.FeedID,
		AllDay:   ev.AllDay,
	}
	if ev.AllDay {
		return out
	}

	out.Start = schedule.FormatClock(start.Hour()*60 + start.Minute())
	endMinutes := end.Hour()*60 + end.Minute()
	if !sameDate(start, end) {
		endMinutes = schedule.MinutesPerDay
	}
	out.End = schedule.FormatClock(endMinutes)
	return out
}

func sameDate(a, b time.Time) bool {
	return a.Year() == b.Year() && a.YearDay() == b.YearDay()
}
