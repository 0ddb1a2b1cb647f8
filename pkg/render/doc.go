// Package render provides grid rendering for event schedules.
//
// # Overview
//
// This package contains the rendering stages that turn a schedule into
// visual outputs:
//
//   - Grid layout and output sinks (in [grid] subpackage)
//   - PNG rasterization via headless Chromium (in [capture] subpackage)
//
// # Grid Rendering
//
// The [grid/layout] subpackage computes the geometry of a day or week grid:
// overlapping events are grouped and share the available width as columns.
// The [grid/sink] subpackage turns a computed layout into SVG or HTML.
//
//	l, err := layout.BuildDay(date, events, frame)
//	svg := sink.RenderSVG(envelope, sink.WithStyle(sink.Dark()))
//
// # PNG Capture
//
// The [capture] subpackage rasterizes the HTML rendition with a headless
// browser. It is the only package that links the browser stack, and is
// injected into the pipeline through an interface so library consumers
// that never render PNGs carry no browser dependency.
//
// [grid]: github.com/daygrid/daygrid/pkg/render/grid
// [grid/layout]: github.com/daygrid/daygrid/pkg/render/grid/layout
// [grid/sink]: github.com/daygrid/daygrid/pkg/render/grid/sink
// [capture]: github.com/daygrid/daygrid/pkg/render/capture
package render
