package layout

import "github.com/daygrid/daygrid/pkg/schedule"

// =============================================================================
// Frame - Grid Geometry Parameters
// =============================================================================

// Default frame geometry.
const (
	// DefaultFrameWidth is the default grid width in user units.
	DefaultFrameWidth = 800.0

	// DefaultHourHeight is the default vertical span of one hour.
	DefaultHourHeight = 60.0

	// MinBlockHeight is the floor for block heights so very short events
	// remain tappable.
	MinBlockHeight = 40.0

	// ColumnGapFraction is the share of a column's width left as a gap
	// between adjacent columns.
	ColumnGapFraction = 0.05
)

// Frame describes the geometry of a day grid viewport.
type Frame struct {
	// Width is the horizontal space available for event columns.
	Width float64 `json:"width"`

	// HourHeight is the vertical span of one hour.
	HourHeight float64 `json:"hour_height"`

	// GridStart is the first rendered minute of the day (e.g. 420 for a
	// grid that starts at 07:00). Events before it render at negative Top.
	GridStart int `json:"grid_start"`

	// GridEnd is the last rendered minute of the day.
	GridEnd int `json:"grid_end"`
}

// DefaultFrame returns a full-day frame with default geometry.
func DefaultFrame() Frame {
	return Frame{
		Width:      DefaultFrameWidth,
		HourHeight: DefaultHourHeight,
		GridStart:  0,
		GridEnd:    schedule.MinutesPerDay,
	}
}

// Normalize fills zero values with defaults so partially specified frames
// behave correctly.
func (f *Frame) Normalize() {
	if f.Width <= 0 {
		f.Width = DefaultFrameWidth
	}
	if f.HourHeight <= 0 {
		f.HourHeight = DefaultHourHeight
	}
	if f.GridEnd <= f.GridStart {
		f.GridStart = 0
		f.GridEnd = schedule.MinutesPerDay
	}
}

// GridHeight returns the total vertical span of the frame.
func (f Frame) GridHeight() float64 {
	return float64(f.GridEnd-f.GridStart) / 60.0 * f.HourHeight
}

// =============================================================================
// Day Layout
// =============================================================================

// DayLayout is the absolute-position layout for a single day's timed events.
type DayLayout struct {
	Date   string  `json:"date"`
	Frame  Frame   `json:"frame"`
	Blocks []Block `json:"blocks"`

	// Groups records the event IDs of each overlap group in scan order,
	// for consumers that cluster styling per group.
	Groups [][]string `json:"groups,omitempty"`
}

// BuildDay computes the day-grid layout for the given events. Events are
// grouped by transitive overlap, assigned columns within their group, and
// mapped to rectangles:
//
//	top    = (start - frame.GridStart) / 60 * frame.HourHeight
//	height = max(duration / 60 * hourHeight, MinBlockHeight)
//
// Horizontal space is divided evenly across the group's columns with a
// small fixed gap between adjacent columns. Never fails: malformed time
// strings have already collapsed to defaults during interval extraction.
func BuildDay(date string, events []schedule.Event, frame Frame) DayLayout {
	frame.Normalize()
	out := DayLayout{Date: date, Frame: frame}

	for _, group := range GroupOverlapping(events) {
		ids := make([]string, 0, len(group))
		for _, col := range LayoutGroup(group) {
			ids = append(ids, col.Event.ID)
			out.Blocks = append(out.Blocks, placeBlock(col, frame))
		}
		out.Groups = append(out.Groups, ids)
	}
	return out
}

// placeBlock maps one column slot to grid geometry.
func placeBlock(col Column, frame Frame) Block {
	iv := col.Event.Interval()

	top := float64(iv.Start-frame.GridStart) / 60.0 * frame.HourHeight
	height := float64(iv.End-iv.Start) / 60.0 * frame.HourHeight
	if height < MinBlockHeight {
		height = MinBlockHeight
	}

	// TotalColumns is never 0: groups are never created empty.
	colWidth := frame.Width / float64(col.TotalColumns)
	gap := colWidth * ColumnGapFraction
	left := float64(col.ColumnIndex) * colWidth
	right := left + colWidth
	if col.ColumnIndex < col.TotalColumns-1 {
		right -= gap
	}

	return Block{
		EventID:      col.Event.ID,
		Left:         left,
		Right:        right,
		Top:          top,
		Bottom:       top + height,
		ColumnIndex:  col.ColumnIndex,
		TotalColumns: col.TotalColumns,
	}
}
