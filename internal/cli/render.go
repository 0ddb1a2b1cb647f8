package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/daygrid/daygrid/pkg/pipeline"
	"github.com/daygrid/daygrid/pkg/render/capture"
	"github.com/daygrid/daygrid/pkg/render/grid/layout"
)

// renderCommand creates the render command for generating output artifacts.
func (c *CLI) renderCommand() *cobra.Command {
	var (
		output  string
		formats string
		noCache bool
		refresh bool
		srcs    sourceFlags
	)
	opts := pipeline.Options{}

	cmd := &cobra.Command{
		Use:   "render [layout.json]",
		Short: "Render a grid layout to SVG, HTML, PNG, or JSON",
		Long: `Render a grid layout to SVG, HTML, PNG, or JSON.

With a layout.json argument (produced by 'layout'), the render command skips
loading and layout and renders the stored layout directly. Without an
argument it runs the full pipeline from a source (--feed, --schedule, or
--manifest) for the requested date.

PNG output rasterizes the HTML rendition through a headless Chromium.

Results are cached locally for faster subsequent runs.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.Formats = parseFormats(formats)
			if len(args) == 1 {
				return c.runRenderLayout(cmd.Context(), args[0], opts, output)
			}
			return c.runRenderPipeline(cmd.Context(), opts, srcs, output, noCache, refresh)
		},
	}

	srcs.register(cmd)
	registerGridFlags(cmd, &opts)
	cmd.Flags().StringVarP(&output, "output", "o", "", "output base path (default: grid-<date>)")
	cmd.Flags().StringVarP(&formats, "format", "f", pipeline.FormatSVG, "comma-separated formats: svg (default), html, png, json")
	cmd.Flags().StringVar(&opts.Style, "style", pipeline.DefaultStyle, "visual style: light (default), dark")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")
	cmd.Flags().BoolVar(&refresh, "refresh", false, "bypass the cache and fetch fresh data")

	return cmd
}

// runRenderLayout renders artifacts from a stored layout file.
func (c *CLI) runRenderLayout(ctx context.Context, input string, opts pipeline.Options, output string) error {
	l, err := layout.ReadLayoutFile(input)
	if err != nil {
		return fmt.Errorf("load layout %s: %w", input, err)
	}

	opts.Logger = c.Logger
	opts.View = l.View
	if needsCapturer(opts.Formats) {
		opts.Capturer = capture.NewChromium()
	}

	spinner := newSpinnerWithContext(ctx, "Rendering...")
	spinner.Start()

	artifacts, err := pipeline.RenderFromLayout(ctx, l, opts)
	if err != nil {
		spinner.StopWithError("Render failed")
		return fmt.Errorf("render: %w", err)
	}
	spinner.Stop()

	if ctx.Err() != nil {
		return ctx.Err()
	}

	base := output
	if base == "" {
		base = strings.TrimSuffix(input, ".layout.json")
		base = strings.TrimSuffix(base, filepath.Ext(base))
	}

	printSuccess("Render complete")
	return writeArtifacts(artifacts, base)
}

// runRenderPipeline runs the full load, layout, render pipeline.
func (c *CLI) runRenderPipeline(ctx context.Context, opts pipeline.Options, srcs sourceFlags, output string, noCache, refresh bool) error {
	runner, err := c.newRunner(noCache)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	opts.Source, err = srcs.resolve(c, runner)
	if err != nil {
		return err
	}
	opts.Logger = c.Logger
	opts.Refresh = refresh
	if needsCapturer(opts.Formats) {
		opts.Capturer = capture.NewChromium()
	}

	spinner := newSpinnerWithContext(ctx, "Rendering grid...")
	spinner.Start()

	result, err := runner.Execute(ctx, opts)
	if err != nil {
		spinner.StopWithError("Render failed")
		return fmt.Errorf("render: %w", err)
	}
	spinner.Stop()

	if ctx.Err() != nil {
		return ctx.Err()
	}

	base := output
	if base == "" {
		base = "grid-" + opts.Date
	}

	printSuccess("Render complete")
	if err := writeArtifacts(result.Artifacts, base); err != nil {
		return err
	}
	printStats(result.Stats.EventCount, result.Stats.GroupCount, result.CacheInfo.RenderHit)
	return nil
}

// writeArtifacts writes each rendered format next to the base path.
func writeArtifacts(artifacts map[string][]byte, base string) error {
	for format, data := range artifacts {
		path := base + "." + format
		if err := os.WriteFile(path, data, 0o644); err != nil {
			return fmt.Errorf("write output %s: %w", path, err)
		}
		printFile(path)
	}
	return nil
}

// needsCapturer reports whether any requested format requires a browser.
func needsCapturer(formats []string) bool {
	for _, f := range formats {
		if f == pipeline.FormatPNG {
			return true
		}
	}
	return false
}
