package layout

import (
	"math"
	"testing"

	"github.com/daygrid/daygrid/pkg/schedule"
)

func almostEqual(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

func TestBuildDayEmpty(t *testing.T) {
	day := BuildDay("2026-09-01", nil, DefaultFrame())
	if len(day.Blocks) != 0 {
		t.Errorf("empty day produced %d blocks", len(day.Blocks))
	}
	if len(day.Groups) != 0 {
		t.Errorf("empty day produced %d groups", len(day.Groups))
	}
}

func TestBuildDayVerticalGeometry(t *testing.T) {
	frame := Frame{Width: 800, HourHeight: 60, GridStart: 0, GridEnd: schedule.MinutesPerDay}

	day := BuildDay("2026-09-01", []schedule.Event{
		timed("a", "09:00", "10:30"),
	}, frame)

	if len(day.Blocks) != 1 {
		t.Fatalf("got %d blocks, want 1", len(day.Blocks))
	}
	b := day.Blocks[0]
	if !almostEqual(b.Top, 540) {
		t.Errorf("Top = %v, want 540 (09:00 at 60/hour)", b.Top)
	}
	if !almostEqual(b.Height(), 90) {
		t.Errorf("Height = %v, want 90 (90 minutes)", b.Height())
	}
	if b.ColumnIndex != 0 || b.TotalColumns != 1 {
		t.Errorf("singleton block slot = %d/%d, want 0/1", b.ColumnIndex, b.TotalColumns)
	}
	if !almostEqual(b.Width(), 800) {
		t.Errorf("singleton block width = %v, want full frame width", b.Width())
	}
}

func TestBuildDayGridStartOffset(t *testing.T) {
	// A grid that starts at 07:00 shifts everything up by seven hours.
	frame := Frame{Width: 800, HourHeight: 60, GridStart: 420, GridEnd: schedule.MinutesPerDay}

	day := BuildDay("2026-09-01", []schedule.Event{
		timed("a", "09:00", "10:00"),
	}, frame)

	if got := day.Blocks[0].Top; !almostEqual(got, 120) {
		t.Errorf("Top = %v, want 120", got)
	}
}

func TestBuildDayMinimumBlockHeight(t *testing.T) {
	day := BuildDay("2026-09-01", []schedule.Event{
		timed("blip", "09:00", "09:05"),
	}, DefaultFrame())

	if got := day.Blocks[0].Height(); !almostEqual(got, MinBlockHeight) {
		t.Errorf("five-minute event height = %v, want floor %v", got, MinBlockHeight)
	}
}

func TestBuildDayColumnSplit(t *testing.T) {
	frame := Frame{Width: 800, HourHeight: 60, GridStart: 0, GridEnd: schedule.MinutesPerDay}

	day := BuildDay("2026-09-01", []schedule.Event{
		timed("a", "09:00", "10:00"),
		timed("b", "09:30", "10:30"),
	}, frame)

	if len(day.Blocks) != 2 {
		t.Fatalf("got %d blocks, want 2", len(day.Blocks))
	}

	a, b := day.Blocks[0], day.Blocks[1]
	if a.TotalColumns != 2 || b.TotalColumns != 2 {
		t.Fatalf("total columns = %d/%d, want 2/2", a.TotalColumns, b.TotalColumns)
	}
	if !almostEqual(a.Left, 0) || !almostEqual(b.Left, 400) {
		t.Errorf("column lefts = %v, %v; want 0, 400", a.Left, b.Left)
	}
	// The non-final column gives up a gap fraction of its width.
	if !almostEqual(a.Right, 400-400*ColumnGapFraction) {
		t.Errorf("first column right = %v, want %v", a.Right, 400-400*ColumnGapFraction)
	}
	if !almostEqual(b.Right, 800) {
		t.Errorf("last column right = %v, want 800", b.Right)
	}
	if a.Right > b.Left {
		t.Error("adjacent columns visually collide")
	}
}

func TestBuildDayGroupsRecorded(t *testing.T) {
	day := BuildDay("2026-09-01", []schedule.Event{
		timed("1", "09:00", "10:00"),
		timed("2", "09:30", "10:30"),
		timed("3", "11:00", "12:00"),
	}, DefaultFrame())

	if len(day.Groups) != 2 {
		t.Fatalf("got %d groups, want 2", len(day.Groups))
	}
	if len(day.Groups[0]) != 2 || len(day.Groups[1]) != 1 {
		t.Errorf("group sizes = %d,%d; want 2,1", len(day.Groups[0]), len(day.Groups[1]))
	}
	if day.Groups[1][0] != "3" {
		t.Errorf("singleton group = %v, want [3]", day.Groups[1])
	}
}

func TestFrameNormalize(t *testing.T) {
	var f Frame
	f.Normalize()
	if f.Width != DefaultFrameWidth || f.HourHeight != DefaultHourHeight {
		t.Errorf("zero frame not defaulted: %+v", f)
	}
	if f.GridStart != 0 || f.GridEnd != schedule.MinutesPerDay {
		t.Errorf("zero frame grid bounds not defaulted: %+v", f)
	}
	if !almostEqual(f.GridHeight(), 24*DefaultHourHeight) {
		t.Errorf("GridHeight = %v, want %v", f.GridHeight(), 24*DefaultHourHeight)
	}
}
