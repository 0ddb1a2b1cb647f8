package pipeline

import (
	"context"
	"fmt"

	"github.com/daygrid/daygrid/pkg/render/grid/layout"
	"github.com/daygrid/daygrid/pkg/render/grid/sink"
)

// RenderFromLayout generates output artifacts in the requested formats.
// PNG output rasterizes the HTML rendition and requires opts.Capturer.
func RenderFromLayout(ctx context.Context, l layout.Layout, opts Options) (map[string][]byte, error) {
	if err := opts.ValidateForRender(); err != nil {
		return nil, err
	}

	sinkOpts := buildSinkOptions(opts)
	artifacts := make(map[string][]byte)

	for _, format := range opts.Formats {
		var data []byte
		var err error

		switch format {
		case FormatSVG:
			data = sink.RenderSVG(l, sinkOpts...)
		case FormatHTML:
			data = sink.RenderHTML(l, sinkOpts...)
		case FormatJSON:
			data, err = layout.MarshalLayout(l)
		case FormatPNG:
			data, err = renderPNG(ctx, l, sinkOpts, opts)
		default:
			return nil, fmt.Errorf("unsupported format: %s", format)
		}

		if err != nil {
			return nil, fmt.Errorf("render %s: %w", format, err)
		}
		artifacts[format] = data
	}

	return artifacts, nil
}

// RenderFromLayoutData renders output from serialized layout data.
// This is useful when the layout was computed elsewhere (e.g., cached).
func RenderFromLayoutData(ctx context.Context, layoutData []byte, opts Options) (map[string][]byte, error) {
	l, err := layout.UnmarshalLayout(layoutData)
	if err != nil {
		return nil, fmt.Errorf("parse layout: %w", err)
	}
	return RenderFromLayout(ctx, l, opts)
}

// renderPNG rasterizes the HTML rendition through the injected capturer.
func renderPNG(ctx context.Context, l layout.Layout, sinkOpts []sink.Option, opts Options) ([]byte, error) {
	if opts.Capturer == nil {
		return nil, fmt.Errorf("png output requires a capturer (headless browser not configured)")
	}

	html := sink.RenderHTML(l, sinkOpts...)
	width, height := captureBounds(l)
	return opts.Capturer.CapturePNG(ctx, html, width, height)
}

// captureBounds derives viewport dimensions from the layout.
func captureBounds(l layout.Layout) (int, int) {
	if !l.IsWeek() && l.Day != nil {
		f := l.Day.Frame
		return int(f.Width), int(f.GridHeight())
	}
	return int(layout.DefaultFrameWidth), int(layout.DefaultFrameWidth * 3 / 4)
}

// buildSinkOptions builds sink rendering options.
func buildSinkOptions(opts Options) []sink.Option {
	var sinkOpts []sink.Option
	if opts.Style == "dark" {
		sinkOpts = append(sinkOpts, sink.WithStyle(sink.Dark()))
	}
	return sinkOpts
}
