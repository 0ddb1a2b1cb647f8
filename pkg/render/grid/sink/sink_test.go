package sink

import (
	"strings"
	"testing"

	"github.com/daygrid/daygrid/pkg/render/grid/layout"
	"github.com/daygrid/daygrid/pkg/schedule"
)

func dayLayout() layout.Layout {
	events := []schedule.Event{
		{ID: "a", Date: "2026-09-03", Start: "09:00", End: "10:00", Title: "Practice"},
		{ID: "b", Date: "2026-09-03", Start: "09:30", End: "10:30", Title: "Game <U12>"},
	}
	day := layout.BuildDay("2026-09-03", events, layout.DefaultFrame())
	return layout.Layout{View: schedule.ViewDay, Day: &day, Events: events}
}

func weekLayout() layout.Layout {
	events := []schedule.Event{
		{ID: "a", Date: "2026-08-31", Start: "09:00", End: "10:00", Title: "Practice"},
		{ID: "b", Date: "2026-08-31", Start: "09:30", End: "10:30", Title: "Scrimmage"},
		{ID: "c", Date: "2026-09-01", Title: "Picture Day", AllDay: true},
	}
	s := &schedule.Schedule{Events: events}
	week := layout.BuildWeek([]string{"2026-08-31", "2026-09-01"}, s)
	return layout.Layout{View: schedule.ViewWeek, Week: &week, Events: events}
}

func TestRenderSVGDay(t *testing.T) {
	svg := string(RenderSVG(dayLayout()))

	if !strings.HasPrefix(svg, "<svg") {
		t.Fatal("output is not an SVG document")
	}
	if !strings.Contains(svg, "Practice") {
		t.Error("missing event title")
	}
	// Escaping
	if strings.Contains(svg, "<U12>") {
		t.Error("unescaped event title in output")
	}
	if !strings.Contains(svg, "Game &lt;U12&gt;") {
		t.Error("missing escaped event title")
	}
	// Two blocks, both rendered
	if got := strings.Count(svg, `rx="4"`); got != 2 {
		t.Errorf("expected 2 event rects, found %d", got)
	}
	// Hour labels
	if !strings.Contains(svg, "09:00") {
		t.Error("missing hour label")
	}
	// Date as default title
	if !strings.Contains(svg, "2026-09-03") {
		t.Error("missing date heading")
	}
}

func TestRenderSVGWeek(t *testing.T) {
	svg := string(RenderSVG(weekLayout()))

	for _, want := range []string{"2026-08-31", "2026-09-01", "Practice", "Scrimmage", "Picture Day"} {
		if !strings.Contains(svg, want) {
			t.Errorf("missing %q in week SVG", want)
		}
	}
}

func TestRenderSVGDarkStyle(t *testing.T) {
	svg := string(RenderSVG(dayLayout(), WithStyle(Dark())))
	if !strings.Contains(svg, Dark().Background) {
		t.Error("dark background not applied")
	}
}

func TestRenderSVGTitle(t *testing.T) {
	svg := string(RenderSVG(dayLayout(), WithTitle("Thursday Schedule")))
	if !strings.Contains(svg, "Thursday Schedule") {
		t.Error("custom title not rendered")
	}
}

func TestRenderHTMLDay(t *testing.T) {
	page := string(RenderHTML(dayLayout()))

	if !strings.HasPrefix(page, "<!DOCTYPE html>") {
		t.Fatal("output is not an HTML document")
	}
	if !strings.Contains(page, `class="block"`) {
		t.Error("missing event blocks")
	}
	if !strings.Contains(page, "Game &lt;U12&gt;") {
		t.Error("missing escaped event title")
	}
	// Overlapping events split the width: both blocks are 50% columns
	// minus the gap, so neither spans the full frame width.
	if strings.Contains(page, "width: 800.0px") {
		t.Error("overlapping block spans full width")
	}
}

func TestRenderHTMLWeekFlexBasis(t *testing.T) {
	page := string(RenderHTML(weekLayout()))

	// Two overlapping events share a row at 50% each.
	if !strings.Contains(page, "flex-basis: 50.0000%") {
		t.Error("missing 50% flex-basis for two-column row")
	}
	if !strings.Contains(page, `class="all-day"`) {
		t.Error("missing all-day section")
	}
}

func TestRenderEmptyLayout(t *testing.T) {
	empty := layout.Layout{View: schedule.ViewDay}
	if svg := RenderSVG(empty); len(svg) == 0 {
		t.Error("empty layout should still render a grid")
	}
	if page := RenderHTML(empty); len(page) == 0 {
		t.Error("empty layout should still render a page")
	}
}

func TestPaletteTintCycles(t *testing.T) {
	p := Light()
	if p.tint(0) == p.tint(1) {
		t.Error("adjacent groups should get different tints")
	}
	if p.tint(0) != p.tint(len(p.GroupTints)) {
		t.Error("tints should cycle")
	}
}
