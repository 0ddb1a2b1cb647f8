package local

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/daygrid/daygrid/pkg/schedule"
	"github.com/daygrid/daygrid/pkg/source"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestFileSourceLoad(t *testing.T) {
	path := writeFile(t, "events.json", `{
		"events": [
			{"id": "a", "event_date": "2026-09-01", "start_time": "09:00", "end_time": "10:00"},
			{"id": "b", "event_date": "2026-09-02", "start_time": "09:00"}
		]
	}`)

	src := NewFileSource(path)
	window, _ := source.DayWindow("2026-09-01", time.UTC)

	s, err := src.Load(context.Background(), window)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(s.Events) != 1 || s.Events[0].ID != "a" {
		t.Errorf("Load = %+v, want only event a", s.Events)
	}
}

func TestFileSourceMissingFile(t *testing.T) {
	src := NewFileSource(filepath.Join(t.TempDir(), "nope.json"))
	window, _ := source.DayWindow("2026-09-01", time.UTC)
	if _, err := src.Load(context.Background(), window); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestManifestSourceLoad(t *testing.T) {
	path := writeFile(t, "schedule.toml", `
name = "u12-fall"

[[event]]
date  = "2026-09-01"
start = "17:30"
end   = "19:00"
title = "Practice"

[[event]]
id      = "match-1"
date    = "2026-09-01"
start   = "10:00"
title   = "Home match"
location = "Field 2"

[[event]]
date   = "2026-09-05"
title  = "Away day"
all_day = true
`)

	src := NewManifestSource(path)
	window, _ := source.DayWindow("2026-09-01", time.UTC)

	s, err := src.Load(context.Background(), window)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(s.Events) != 2 {
		t.Fatalf("got %d events, want 2 (all-day on 09-05 excluded by window)", len(s.Events))
	}

	// Normalized order: match at 10:00 before practice at 17:30.
	if s.Events[0].ID != "match-1" {
		t.Errorf("first event = %+v, want match-1", s.Events[0])
	}
	if s.Events[0].Source != "u12-fall" {
		t.Errorf("Source = %q, want manifest name", s.Events[0].Source)
	}
	if s.Events[1].ID == "" {
		t.Error("manifest event without id should get one during normalization")
	}
}

func TestManifestSourceBadTOML(t *testing.T) {
	path := writeFile(t, "bad.toml", `[[event]`)
	src := NewManifestSource(path)
	window, _ := source.DayWindow("2026-09-01", time.UTC)
	if _, err := src.Load(context.Background(), window); err == nil {
		t.Error("expected parse error")
	}
}

func TestFilterWindowKeepsUnparsableDates(t *testing.T) {
	s := &schedule.Schedule{Events: []schedule.Event{
		{ID: "good", Date: "2026-09-01"},
		{ID: "odd", Date: "someday"},
		{ID: "out", Date: "2026-10-01"},
	}}
	window, _ := source.DayWindow("2026-09-01", time.UTC)

	got := filterWindow(s, window)
	ids := make(map[string]bool)
	for _, ev := range got.Events {
		ids[ev.ID] = true
	}
	if !ids["good"] || !ids["odd"] || ids["out"] {
		t.Errorf("filterWindow kept %v; want good+odd, not out", ids)
	}
}
