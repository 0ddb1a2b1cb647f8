package layout

import (
	"testing"

	"github.com/daygrid/daygrid/pkg/schedule"
)

func TestBuildWeekDayRows(t *testing.T) {
	day := BuildWeekDay("2026-09-01", []schedule.Event{
		timed("1", "09:00", "10:00"),
		timed("2", "09:30", "10:30"),
		timed("3", "11:00", "12:00"),
	})

	if len(day.Rows) != 2 {
		t.Fatalf("got %d rows, want 2", len(day.Rows))
	}

	shared := day.Rows[0]
	if len(shared.Cells) != 2 {
		t.Fatalf("first row has %d cells, want 2", len(shared.Cells))
	}
	for i, cell := range shared.Cells {
		if cell.TotalColumns != 2 {
			t.Errorf("cells[%d].TotalColumns = %d, want 2", i, cell.TotalColumns)
		}
		if !almostEqual(cell.FlexBasis, 0.5) {
			t.Errorf("cells[%d].FlexBasis = %v, want 0.5", i, cell.FlexBasis)
		}
	}

	solo := day.Rows[1]
	if len(solo.Cells) != 1 || !almostEqual(solo.Cells[0].FlexBasis, 1.0) {
		t.Errorf("singleton row = %+v, want one full-width cell", solo)
	}
}

func TestBuildWeek(t *testing.T) {
	s := &schedule.Schedule{Events: []schedule.Event{
		{ID: "mon", Date: "2026-08-31", Start: "09:00", End: "10:00"},
		{ID: "tue", Date: "2026-09-01", Start: "09:00", End: "10:00"},
		{ID: "hol", Date: "2026-09-01", AllDay: true},
	}}

	week := BuildWeek([]string{"2026-08-31", "2026-09-01", "2026-09-02"}, s)
	if len(week.Days) != 3 {
		t.Fatalf("got %d days, want 3", len(week.Days))
	}

	if len(week.Days[0].Rows) != 1 {
		t.Errorf("monday rows = %d, want 1", len(week.Days[0].Rows))
	}
	if len(week.Days[1].AllDay) != 1 || week.Days[1].AllDay[0] != "hol" {
		t.Errorf("tuesday all-day = %v, want [hol]", week.Days[1].AllDay)
	}
	if len(week.Days[2].Rows) != 0 {
		t.Errorf("empty wednesday produced %d rows", len(week.Days[2].Rows))
	}
}
