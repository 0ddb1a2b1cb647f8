package sink

import (
	"bytes"
	"fmt"
	"html"

	"github.com/daygrid/daygrid/pkg/render/grid/layout"
	"github.com/daygrid/daygrid/pkg/schedule"
)

const (
	// gutterWidth is the space reserved on the left for hour labels.
	gutterWidth = 48.0

	// headerHeight is the space reserved above the grid for the title.
	headerHeight = 32.0

	// weekRowHeight is the vertical span of one overlap row in the week
	// view's SVG rendition.
	weekRowHeight = 30.0

	weekDayHeader = 24.0
)

// RenderSVG renders a layout as a standalone SVG document.
func RenderSVG(l layout.Layout, opts ...Option) []byte {
	r := newRenderer(opts...)
	if l.IsWeek() {
		return renderWeekSVG(l, r)
	}
	return renderDaySVG(l, r)
}

func renderDaySVG(l layout.Layout, r renderer) []byte {
	day := l.Day
	if day == nil {
		day = &layout.DayLayout{Frame: layout.DefaultFrame()}
	}
	f := day.Frame

	totalWidth := gutterWidth + f.Width
	totalHeight := headerHeight + f.GridHeight()

	var buf bytes.Buffer
	fmt.Fprintf(&buf, `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.1f %.1f" width="%.0f" height="%.0f">`+"\n",
		totalWidth, totalHeight, totalWidth, totalHeight)
	fmt.Fprintf(&buf, `<rect width="100%%" height="100%%" fill=%q/>`+"\n", r.palette.Background)

	title := r.title
	if title == "" {
		title = day.Date
	}
	fmt.Fprintf(&buf, `<text x="%.1f" y="20" font-family="sans-serif" font-size="14" font-weight="bold" fill=%q>%s</text>`+"\n",
		gutterWidth, r.palette.BlockText, html.EscapeString(title))

	renderHourLines(&buf, f, r.palette)
	groupOf := groupIndex(day.Groups)
	for _, b := range day.Blocks {
		renderBlock(&buf, l, b, groupOf[b.EventID], r.palette)
	}

	buf.WriteString("</svg>\n")
	return buf.Bytes()
}

// renderHourLines draws one horizontal rule and label per grid hour.
func renderHourLines(buf *bytes.Buffer, f layout.Frame, p Palette) {
	for minute := f.GridStart; minute <= f.GridEnd; minute += 60 {
		y := headerHeight + float64(minute-f.GridStart)/60.0*f.HourHeight
		fmt.Fprintf(buf, `<line x1="%.1f" y1="%.1f" x2="%.1f" y2="%.1f" stroke=%q stroke-width="1"/>`+"\n",
			gutterWidth, y, gutterWidth+f.Width, y, p.GridLine)
		fmt.Fprintf(buf, `<text x="%.1f" y="%.1f" font-family="sans-serif" font-size="10" fill=%q text-anchor="end">%s</text>`+"\n",
			gutterWidth-6, y+3, p.HourLabel, schedule.FormatClock(minute))
	}
}

func renderBlock(buf *bytes.Buffer, l layout.Layout, b layout.Block, group int, p Palette) {
	x := gutterWidth + b.Left
	y := headerHeight + b.Top

	fmt.Fprintf(buf, `<rect x="%.1f" y="%.1f" width="%.1f" height="%.1f" rx="4" fill=%q stroke=%q stroke-width="1.5"/>`+"\n",
		x, y, b.Width(), b.Height(), p.tint(group), p.BlockBorder)

	ev, ok := l.Event(b.EventID)
	if !ok {
		return
	}
	label := ev.Title
	if label == "" {
		label = ev.ID
	}
	fmt.Fprintf(buf, `<text x="%.1f" y="%.1f" font-family="sans-serif" font-size="11" font-weight="bold" fill=%q>%s</text>`+"\n",
		x+6, y+14, p.BlockText, html.EscapeString(clip(label, 28)))
	if ev.Start != "" {
		iv := ev.Interval()
		fmt.Fprintf(buf, `<text x="%.1f" y="%.1f" font-family="sans-serif" font-size="9" fill=%q>%s–%s</text>`+"\n",
			x+6, y+26, p.HourLabel, schedule.FormatClock(iv.Start), schedule.FormatClock(iv.End))
	}
}

func renderWeekSVG(l layout.Layout, r renderer) []byte {
	week := l.Week
	if week == nil {
		week = &layout.WeekLayout{}
	}

	totalWidth := layout.DefaultFrameWidth
	totalHeight := headerHeight
	for _, day := range week.Days {
		totalHeight += weekDayHeader + float64(len(day.Rows))*weekRowHeight
		if len(day.AllDay) > 0 {
			totalHeight += weekRowHeight
		}
	}

	var buf bytes.Buffer
	fmt.Fprintf(&buf, `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.1f %.1f" width="%.0f" height="%.0f">`+"\n",
		totalWidth, totalHeight, totalWidth, totalHeight)
	fmt.Fprintf(&buf, `<rect width="100%%" height="100%%" fill=%q/>`+"\n", r.palette.Background)

	if r.title != "" {
		fmt.Fprintf(&buf, `<text x="8" y="20" font-family="sans-serif" font-size="14" font-weight="bold" fill=%q>%s</text>`+"\n",
			r.palette.BlockText, html.EscapeString(r.title))
	}

	y := headerHeight
	for _, day := range week.Days {
		y = renderWeekDaySVG(&buf, l, day, y, totalWidth, r.palette)
	}

	buf.WriteString("</svg>\n")
	return buf.Bytes()
}

func renderWeekDaySVG(buf *bytes.Buffer, l layout.Layout, day layout.WeekDay, y, width float64, p Palette) float64 {
	fmt.Fprintf(buf, `<text x="8" y="%.1f" font-family="sans-serif" font-size="12" font-weight="bold" fill=%q>%s</text>`+"\n",
		y+16, p.BlockText, html.EscapeString(day.Date))
	y += weekDayHeader

	if len(day.AllDay) > 0 {
		for i, id := range day.AllDay {
			label := id
			if ev, ok := l.Event(id); ok && ev.Title != "" {
				label = ev.Title
			}
			x := 8 + float64(i)*(width-16)/float64(len(day.AllDay))
			fmt.Fprintf(buf, `<text x="%.1f" y="%.1f" font-family="sans-serif" font-size="10" font-style="italic" fill=%q>%s</text>`+"\n",
				x, y+14, p.HourLabel, html.EscapeString(clip(label, 32)))
		}
		y += weekRowHeight
	}

	for gi, row := range day.Rows {
		x := 8.0
		rowWidth := width - 16
		for _, cell := range row.Cells {
			cellWidth := rowWidth * cell.FlexBasis
			fmt.Fprintf(buf, `<rect x="%.1f" y="%.1f" width="%.1f" height="%.1f" rx="3" fill=%q stroke=%q stroke-width="1"/>`+"\n",
				x+1, y+2, cellWidth-2, weekRowHeight-4, p.tint(gi), p.BlockBorder)
			label := cell.Event.Title
			if label == "" {
				label = cell.Event.ID
			}
			fmt.Fprintf(buf, `<text x="%.1f" y="%.1f" font-family="sans-serif" font-size="10" fill=%q>%s</text>`+"\n",
				x+6, y+weekRowHeight/2+3, p.BlockText, html.EscapeString(clip(label, 24)))
			x += cellWidth
		}
		y += weekRowHeight
	}
	return y
}

// groupIndex maps event IDs to the index of their overlap group.
func groupIndex(groups [][]string) map[string]int {
	out := make(map[string]int)
	for i, group := range groups {
		for _, id := range group {
			out[id] = i
		}
	}
	return out
}

func clip(s string, max int) string {
	if len(s) <= max {
		return s
	}
	if max <= 1 {
		return s[:max]
	}
	return s[:max-1] + "…"
}
