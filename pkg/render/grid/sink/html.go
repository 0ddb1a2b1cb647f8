package sink

import (
	"bytes"
	"fmt"
	"html"

	"github.com/daygrid/daygrid/pkg/render/grid/layout"
	"github.com/daygrid/daygrid/pkg/schedule"
)

// RenderHTML renders a layout as a standalone HTML page. The day view uses
// absolutely positioned blocks; the week view uses flex rows where each
// cell's flex-basis is its computed share of the row. This rendition is
// also the input for PNG capture.
func RenderHTML(l layout.Layout, opts ...Option) []byte {
	r := newRenderer(opts...)

	var buf bytes.Buffer
	buf.WriteString("<!DOCTYPE html>\n<html>\n<head>\n<meta charset=\"utf-8\">\n")
	writeBaseCSS(&buf, r.palette)
	buf.WriteString("</head>\n<body>\n")

	if l.IsWeek() {
		renderWeekHTML(&buf, l, r)
	} else {
		renderDayHTML(&buf, l, r)
	}

	buf.WriteString("</body>\n</html>\n")
	return buf.Bytes()
}

func writeBaseCSS(buf *bytes.Buffer, p Palette) {
	fmt.Fprintf(buf, `<style>
  body { margin: 0; font-family: sans-serif; background: %s; color: %s; }
  h1 { font-size: 15px; margin: 8px 12px; }
  .grid { position: relative; margin-left: %.0fpx; }
  .hour-line { position: absolute; left: 0; right: 0; border-top: 1px solid %s; }
  .hour-label { position: absolute; width: %.0fpx; margin-left: -%.0fpx; text-align: right;
    padding-right: 6px; box-sizing: border-box; font-size: 10px; color: %s; transform: translateY(-50%%); }
  .block { position: absolute; box-sizing: border-box; border: 1.5px solid %s; border-radius: 4px;
    padding: 2px 6px; overflow: hidden; font-size: 11px; }
  .block .time { font-size: 9px; color: %s; }
  .day { margin: 0 12px 12px; }
  .day-header { font-size: 12px; font-weight: bold; margin: 6px 0 2px; }
  .all-day { font-size: 10px; font-style: italic; color: %s; margin: 2px 0; }
  .row { display: flex; margin: 2px 0; }
  .cell { flex-grow: 0; flex-shrink: 0; box-sizing: border-box; border: 1px solid %s;
    border-radius: 3px; padding: 3px 6px; margin-right: 2px; overflow: hidden;
    white-space: nowrap; text-overflow: ellipsis; font-size: 10px; }
</style>
`, p.Background, p.BlockText, gutterWidth, p.GridLine,
		gutterWidth, gutterWidth, p.HourLabel, p.BlockBorder, p.HourLabel,
		p.HourLabel, p.BlockBorder)
}

func renderDayHTML(buf *bytes.Buffer, l layout.Layout, r renderer) {
	day := l.Day
	if day == nil {
		day = &layout.DayLayout{Frame: layout.DefaultFrame()}
	}
	f := day.Frame

	title := r.title
	if title == "" {
		title = day.Date
	}
	fmt.Fprintf(buf, "<h1>%s</h1>\n", html.EscapeString(title))
	fmt.Fprintf(buf, `<div class="grid" style="width: %.0fpx; height: %.0fpx;">`+"\n", f.Width, f.GridHeight())

	for minute := f.GridStart; minute <= f.GridEnd; minute += 60 {
		top := float64(minute-f.GridStart) / 60.0 * f.HourHeight
		fmt.Fprintf(buf, `<div class="hour-line" style="top: %.1fpx;"></div>`+"\n", top)
		fmt.Fprintf(buf, `<div class="hour-label" style="top: %.1fpx;">%s</div>`+"\n", top, schedule.FormatClock(minute))
	}

	groupOf := groupIndex(day.Groups)
	for _, b := range day.Blocks {
		renderBlockHTML(buf, l, b, groupOf[b.EventID], r.palette)
	}

	buf.WriteString("</div>\n")
}

func renderBlockHTML(buf *bytes.Buffer, l layout.Layout, b layout.Block, group int, p Palette) {
	fmt.Fprintf(buf, `<div class="block" style="left: %.1fpx; top: %.1fpx; width: %.1fpx; height: %.1fpx; background: %s;">`,
		b.Left, b.Top, b.Width(), b.Height(), p.tint(group))

	ev, ok := l.Event(b.EventID)
	if ok {
		label := ev.Title
		if label == "" {
			label = ev.ID
		}
		fmt.Fprintf(buf, "<strong>%s</strong>", html.EscapeString(label))
		if ev.Start != "" {
			iv := ev.Interval()
			fmt.Fprintf(buf, `<div class="time">%s–%s</div>`,
				schedule.FormatClock(iv.Start), schedule.FormatClock(iv.End))
		}
	}
	buf.WriteString("</div>\n")
}

func renderWeekHTML(buf *bytes.Buffer, l layout.Layout, r renderer) {
	week := l.Week
	if week == nil {
		week = &layout.WeekLayout{}
	}

	if r.title != "" {
		fmt.Fprintf(buf, "<h1>%s</h1>\n", html.EscapeString(r.title))
	}

	for _, day := range week.Days {
		fmt.Fprintf(buf, `<div class="day">`+"\n")
		fmt.Fprintf(buf, `<div class="day-header">%s</div>`+"\n", html.EscapeString(day.Date))

		for _, id := range day.AllDay {
			label := id
			if ev, ok := l.Event(id); ok && ev.Title != "" {
				label = ev.Title
			}
			fmt.Fprintf(buf, `<div class="all-day">%s</div>`+"\n", html.EscapeString(label))
		}

		for gi, row := range day.Rows {
			buf.WriteString(`<div class="row">` + "\n")
			for _, cell := range row.Cells {
				label := cell.Event.Title
				if label == "" {
					label = cell.Event.ID
				}
				text := label
				if cell.Event.Start != "" {
					text = cell.Event.Start + " " + label
				}
				fmt.Fprintf(buf, `<div class="cell" style="flex-basis: %.4f%%; background: %s;">%s</div>`+"\n",
					cell.FlexBasis*100, r.palette.tint(gi), html.EscapeString(text))
			}
			buf.WriteString("</div>\n")
		}
		buf.WriteString("</div>\n")
	}
}
