package source

import (
	"testing"
	"time"
)

func TestDayWindow(t *testing.T) {
	w, err := DayWindow("2026-09-01", time.UTC)
	if err != nil {
		t.Fatalf("DayWindow: %v", err)
	}

	if got := w.End.Sub(w.Start); got != 24*time.Hour {
		t.Errorf("window span = %v, want 24h", got)
	}
	if dates := w.Dates(); len(dates) != 1 || dates[0] != "2026-09-01" {
		t.Errorf("Dates() = %v, want [2026-09-01]", dates)
	}
}

func TestDayWindowInvalidDate(t *testing.T) {
	if _, err := DayWindow("not-a-date", time.UTC); err == nil {
		t.Error("expected error for malformed date")
	}
}

func TestWeekWindowMonday(t *testing.T) {
	// 2026-09-03 is a Thursday; the monday-start week begins 2026-08-31.
	w, err := WeekWindow("2026-09-03", "monday", time.UTC)
	if err != nil {
		t.Fatalf("WeekWindow: %v", err)
	}

	dates := w.Dates()
	if len(dates) != 7 {
		t.Fatalf("week has %d dates, want 7", len(dates))
	}
	if dates[0] != "2026-08-31" || dates[6] != "2026-09-06" {
		t.Errorf("week = %v..%v, want 2026-08-31..2026-09-06", dates[0], dates[6])
	}
}

func TestWeekWindowSunday(t *testing.T) {
	w, err := WeekWindow("2026-09-03", "sunday", time.UTC)
	if err != nil {
		t.Fatalf("WeekWindow: %v", err)
	}
	if got := w.Dates()[0]; got != "2026-08-30" {
		t.Errorf("sunday-start week begins %v, want 2026-08-30", got)
	}
}

func TestWindowContains(t *testing.T) {
	w, _ := DayWindow("2026-09-01", time.UTC)

	inside := time.Date(2026, 9, 1, 12, 0, 0, 0, time.UTC)
	if !w.Contains(inside) {
		t.Error("noon should be inside the day window")
	}
	if !w.Contains(w.Start) {
		t.Error("window start is inclusive")
	}
	if w.Contains(w.End) {
		t.Error("window end is exclusive")
	}
}
