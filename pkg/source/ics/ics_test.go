package ics

import (
	"testing"
	"time"

	"github.com/daygrid/daygrid/pkg/source"
)

const timedFeed = `BEGIN:VCALENDAR
VERSION:2.0
PRODID:-//test//test//EN
BEGIN:VEVENT
UID:practice-1
SUMMARY:Practice
LOCATION:Field 2
DTSTART:20260903T160000Z
DTEND:20260903T173000Z
END:VEVENT
END:VCALENDAR
`

const allDayFeed = `BEGIN:VCALENDAR
VERSION:2.0
PRODID:-//test//test//EN
BEGIN:VEVENT
UID:tournament-day
SUMMARY:Tournament
DTSTART;VALUE=DATE:20260903
DTEND;VALUE=DATE:20260904
END:VEVENT
END:VCALENDAR
`

const weeklyFeed = `BEGIN:VCALENDAR
VERSION:2.0
PRODID:-//test//test//EN
BEGIN:VEVENT
UID:weekly-practice
SUMMARY:Weekly Practice
DTSTART:20260901T170000Z
DTEND:20260901T180000Z
RRULE:FREQ=WEEKLY;COUNT=10
EXDATE:20260908T170000Z
END:VEVENT
END:VCALENDAR
`

func TestParseTimedEvent(t *testing.T) {
	events, err := Parse("team", []byte(timedFeed))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if len(events) != 1 {
		t.Fatalf("expected 1 event, got %d", len(events))
	}

	ev := events[0]
	if ev.UID != "practice-1" {
		t.Errorf("UID = %q", ev.UID)
	}
	if ev.Summary != "Practice" || ev.Location != "Field 2" {
		t.Errorf("summary/location = %q / %q", ev.Summary, ev.Location)
	}
	if ev.AllDay {
		t.Error("timed event flagged all-day")
	}
	want := time.Date(2026, 9, 3, 16, 0, 0, 0, time.UTC)
	if !ev.Start.Equal(want) {
		t.Errorf("Start = %v, want %v", ev.Start, want)
	}
}

func TestParseAllDayEvent(t *testing.T) {
	events, err := Parse("team", []byte(allDayFeed))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if len(events) != 1 {
		t.Fatalf("expected 1 event, got %d", len(events))
	}
	if !events[0].AllDay {
		t.Error("VALUE=DATE event not flagged all-day")
	}
}

func TestParseRecurrence(t *testing.T) {
	events, err := Parse("team", []byte(weeklyFeed))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	ev := events[0]
	if ev.RawRRule != "FREQ=WEEKLY;COUNT=10" {
		t.Errorf("RawRRule = %q", ev.RawRRule)
	}
	if len(ev.ExDates) != 1 {
		t.Fatalf("expected 1 EXDATE, got %d", len(ev.ExDates))
	}
	want := time.Date(2026, 9, 8, 17, 0, 0, 0, time.UTC)
	if !ev.ExDates[0].Equal(want) {
		t.Errorf("ExDate = %v, want %v", ev.ExDates[0], want)
	}
}

func TestParseEmptyBody(t *testing.T) {
	if _, err := Parse("team", nil); err == nil {
		t.Fatal("expected error for empty body")
	}
}

func TestExpandSingleEvent(t *testing.T) {
	events, err := Parse("team", []byte(timedFeed))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	window, err := source.DayWindow("2026-09-03", time.UTC)
	if err != nil {
		t.Fatalf("DayWindow: %v", err)
	}

	sched := Expand(events, window)
	if len(sched.Events) != 1 {
		t.Fatalf("expected 1 event, got %d", len(sched.Events))
	}

	got := sched.Events[0]
	if got.Date != "2026-09-03" {
		t.Errorf("Date = %q", got.Date)
	}
	if got.Start != "16:00" || got.End != "17:30" {
		t.Errorf("times = %q-%q, want 16:00-17:30", got.Start, got.End)
	}
	if got.Source != "team" {
		t.Errorf("Source = %q", got.Source)
	}
}

func TestExpandOutsideWindow(t *testing.T) {
	events, err := Parse("team", []byte(timedFeed))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	window, err := source.DayWindow("2026-09-10", time.UTC)
	if err != nil {
		t.Fatalf("DayWindow: %v", err)
	}
	if sched := Expand(events, window); len(sched.Events) != 0 {
		t.Fatalf("expected no events outside window, got %d", len(sched.Events))
	}
}

func TestExpandWeeklyWithExDate(t *testing.T) {
	events, err := Parse("team", []byte(weeklyFeed))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	window := source.Window{
		Start:    time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC),
		End:      time.Date(2026, 9, 16, 0, 0, 0, 0, time.UTC),
		Location: time.UTC,
	}

	sched := Expand(events, window)

	// Three Tuesdays fall in the window; the 8th is excluded by EXDATE.
	if len(sched.Events) != 2 {
		t.Fatalf("expected 2 occurrences, got %d", len(sched.Events))
	}
	dates := []string{sched.Events[0].Date, sched.Events[1].Date}
	if dates[0] != "2026-09-01" || dates[1] != "2026-09-15" {
		t.Errorf("occurrence dates = %v", dates)
	}
	for _, ev := range sched.Events {
		if ev.Start != "17:00" || ev.End != "18:00" {
			t.Errorf("occurrence %s times = %q-%q", ev.Date, ev.Start, ev.End)
		}
	}
}

func TestExpandDeterministicIDs(t *testing.T) {
	events, err := Parse("team", []byte(weeklyFeed))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	window := source.Window{
		Start:    time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC),
		End:      time.Date(2026, 9, 16, 0, 0, 0, 0, time.UTC),
		Location: time.UTC,
	}

	first := Expand(events, window)
	second := Expand(events, window)
	if len(first.Events) != len(second.Events) {
		t.Fatalf("expansion not stable: %d vs %d", len(first.Events), len(second.Events))
	}
	for i := range first.Events {
		if first.Events[i].ID == "" {
			t.Fatal("occurrence without ID")
		}
		if first.Events[i].ID != second.Events[i].ID {
			t.Errorf("occurrence %d ID differs: %q vs %q", i, first.Events[i].ID, second.Events[i].ID)
		}
	}
}

func TestExpandMidnightSpillClampsEnd(t *testing.T) {
	const feed = `BEGIN:VCALENDAR
VERSION:2.0
PRODID:-//test//test//EN
BEGIN:VEVENT
UID:late-game
SUMMARY:Night Game
DTSTART:20260903T230000Z
DTEND:20260904T010000Z
END:VEVENT
END:VCALENDAR
`
	events, err := Parse("team", []byte(feed))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	window, err := source.DayWindow("2026-09-03", time.UTC)
	if err != nil {
		t.Fatalf("DayWindow: %v", err)
	}

	sched := Expand(events, window)
	if len(sched.Events) != 1 {
		t.Fatalf("expected 1 event, got %d", len(sched.Events))
	}
	if got := sched.Events[0].End; got != "24:00" {
		t.Errorf("End = %q, want 24:00", got)
	}
}

func TestRedactURL(t *testing.T) {
	got := redactURL("https://cal.example.com/feed.ics?token=secret#frag")
	if got != "https://cal.example.com/feed.ics" {
		t.Errorf("redactURL = %q", got)
	}
}
