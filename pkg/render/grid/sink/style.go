// Package sink renders computed grid layouts into output artifacts.
//
// Sinks are pure functions from layout to bytes. The day view renders as
// an absolutely positioned grid; the week view as stacked flex rows. Both
// renditions exist as SVG (standalone image) and HTML (embeddable page,
// also the input to PNG capture).
package sink

// Palette holds the colors for one visual style.
type Palette struct {
	Name        string
	Background  string
	GridLine    string
	HourLabel   string
	BlockFill   string
	BlockBorder string
	BlockText   string
	GroupTints  []string
}

// Light is the default palette.
func Light() Palette {
	return Palette{
		Name:        "light",
		Background:  "#ffffff",
		GridLine:    "#e5e7eb",
		HourLabel:   "#9ca3af",
		BlockFill:   "#dbeafe",
		BlockBorder: "#3b82f6",
		BlockText:   "#1e3a5f",
		GroupTints:  []string{"#dbeafe", "#dcfce7", "#fef3c7", "#fce7f3", "#ede9fe"},
	}
}

// Dark is the inverted palette for dark surroundings.
func Dark() Palette {
	return Palette{
		Name:        "dark",
		Background:  "#111827",
		GridLine:    "#374151",
		HourLabel:   "#6b7280",
		BlockFill:   "#1e3a5f",
		BlockBorder: "#60a5fa",
		BlockText:   "#dbeafe",
		GroupTints:  []string{"#1e3a5f", "#14532d", "#713f12", "#831843", "#4c1d95"},
	}
}

// tint returns the fill color for an overlap group, cycling the palette.
func (p Palette) tint(group int) string {
	if len(p.GroupTints) == 0 || group < 0 {
		return p.BlockFill
	}
	return p.GroupTints[group%len(p.GroupTints)]
}

// Option configures a sink renderer.
type Option func(*renderer)

type renderer struct {
	palette Palette
	title   string
}

// WithStyle sets the color palette.
func WithStyle(p Palette) Option { return func(r *renderer) { r.palette = p } }

// WithTitle sets a heading rendered above the grid.
func WithTitle(title string) Option { return func(r *renderer) { r.title = title } }

func newRenderer(opts ...Option) renderer {
	r := renderer{palette: Light()}
	for _, opt := range opts {
		opt(&r)
	}
	return r
}
