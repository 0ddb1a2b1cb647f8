package pipeline

import (
	"fmt"

	"github.com/daygrid/daygrid/pkg/render/grid/layout"
	"github.com/daygrid/daygrid/pkg/schedule"
)

// =============================================================================
// Layout Generation
// =============================================================================

// BuildLayout computes grid geometry for the loaded schedule. This is the
// unified entry point for both views; the resulting envelope carries the
// schedule's events so it can be rendered without re-loading.
func BuildLayout(s *schedule.Schedule, opts Options) (layout.Layout, error) {
	if err := opts.ValidateForLayout(); err != nil {
		return layout.Layout{}, err
	}
	if opts.IsWeek() {
		return buildWeekLayout(s, opts)
	}
	return buildDayLayout(s, opts)
}

// buildDayLayout computes the absolute-position day grid.
func buildDayLayout(s *schedule.Schedule, opts Options) (layout.Layout, error) {
	day := layout.BuildDay(opts.Date, s.Day(opts.Date), opts.frame())
	return layout.Layout{
		View:   schedule.ViewDay,
		Day:    &day,
		Events: s.Events,
	}, nil
}

// buildWeekLayout computes flex rows for each day of the week window.
func buildWeekLayout(s *schedule.Schedule, opts Options) (layout.Layout, error) {
	window, err := opts.Window()
	if err != nil {
		return layout.Layout{}, fmt.Errorf("week window: %w", err)
	}
	week := layout.BuildWeek(window.Dates(), s)
	return layout.Layout{
		View:   schedule.ViewWeek,
		Week:   &week,
		Events: s.Events,
	}, nil
}

// frame builds the day-grid frame from the layout options. Zero values
// fall back to defaults via Frame.Normalize.
func (o *Options) frame() layout.Frame {
	f := layout.Frame{
		Width:      o.Width,
		HourHeight: o.HourHeight,
		GridStart:  o.GridStart,
		GridEnd:    o.GridEnd,
	}
	f.Normalize()
	return f
}
