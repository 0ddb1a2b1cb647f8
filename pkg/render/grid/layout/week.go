package layout

import "github.com/daygrid/daygrid/pkg/schedule"

// =============================================================================
// Week Layout
// =============================================================================

// WeekRow is one overlap group rendered as a single horizontal row. Members
// share the row via equal flex shares rather than absolute positioning.
type WeekRow struct {
	Cells []WeekCell `json:"cells"`
}

// WeekCell is one event's share of a week row.
type WeekCell struct {
	Event        schedule.Event `json:"event"`
	ColumnIndex  int            `json:"column_index"`
	TotalColumns int            `json:"total_columns"`

	// FlexBasis is the fraction of the row width the cell occupies,
	// always 1/TotalColumns.
	FlexBasis float64 `json:"flex_basis"`
}

// WeekDay is the row-based layout for one day of the week view.
type WeekDay struct {
	Date   string    `json:"date"`
	Rows   []WeekRow `json:"rows"`
	AllDay []string  `json:"all_day,omitempty"` // all-day event IDs, rendered above the rows
}

// WeekLayout is the layout for a run of consecutive days.
type WeekLayout struct {
	Days []WeekDay `json:"days"`
}

// BuildWeekDay computes the row layout for a single day of the week view.
// Grouping semantics are identical to the day view; only the geometric
// mapping differs.
func BuildWeekDay(date string, events []schedule.Event) WeekDay {
	day := WeekDay{Date: date}
	for _, group := range GroupOverlapping(events) {
		row := WeekRow{Cells: make([]WeekCell, 0, len(group))}
		for _, col := range LayoutGroup(group) {
			row.Cells = append(row.Cells, WeekCell{
				Event:        col.Event,
				ColumnIndex:  col.ColumnIndex,
				TotalColumns: col.TotalColumns,
				FlexBasis:    1.0 / float64(col.TotalColumns),
			})
		}
		day.Rows = append(day.Rows, row)
	}
	return day
}

// BuildWeek computes row layouts for the given dates, in order. The
// schedule supplies each day's timed and all-day events.
func BuildWeek(dates []string, s *schedule.Schedule) WeekLayout {
	week := WeekLayout{Days: make([]WeekDay, 0, len(dates))}
	for _, date := range dates {
		day := BuildWeekDay(date, s.Day(date))
		for _, ev := range s.AllDay(date) {
			day.AllDay = append(day.AllDay, ev.ID)
		}
		week.Days = append(week.Days, day)
	}
	return week
}
