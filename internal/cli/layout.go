package cli

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/daygrid/daygrid/pkg/pipeline"
	"github.com/daygrid/daygrid/pkg/render/grid/layout"
	"github.com/daygrid/daygrid/pkg/schedule"
)

// layoutCommand creates the layout command for computing grid layouts.
func (c *CLI) layoutCommand() *cobra.Command {
	var (
		output  string
		noCache bool
	)
	opts := pipeline.Options{}

	cmd := &cobra.Command{
		Use:   "layout [schedule.json]",
		Short: "Compute a grid layout from a schedule",
		Long: `Compute a grid layout from a schedule.

The layout command takes a schedule.json file (produced by 'fetch') and
computes the overlap-aware grid layout for the requested date and view.
The output is a layout.json file that can be rendered to SVG/HTML/PNG
using the 'render' command.

Results are cached locally for faster subsequent runs.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runLayout(cmd.Context(), args[0], opts, output, noCache)
		},
	}

	registerGridFlags(cmd, &opts)
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default: <input>.layout.json)")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")

	return cmd
}

// runLayout loads the schedule, computes the layout, and writes output.
func (c *CLI) runLayout(ctx context.Context, input string, opts pipeline.Options, output string, noCache bool) error {
	sched, err := schedule.ReadScheduleFile(input)
	if err != nil {
		return fmt.Errorf("load schedule %s: %w", input, err)
	}

	runner, err := c.newRunner(noCache)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	opts.Logger = c.Logger

	spinner := newSpinnerWithContext(ctx, fmt.Sprintf("Computing %s layout...", opts.View))
	spinner.Start()

	l, cacheHit, err := runner.BuildLayoutWithCacheInfo(ctx, sched, opts)
	if err != nil {
		spinner.StopWithError("Layout failed")
		return fmt.Errorf("compute layout: %w", err)
	}
	spinner.Stop()

	if ctx.Err() != nil {
		return ctx.Err()
	}

	outputPath := output
	if outputPath == "" {
		base := strings.TrimSuffix(input, filepath.Ext(input))
		outputPath = base + ".layout.json"
	}

	if err := layout.WriteLayoutFile(l, outputPath); err != nil {
		return fmt.Errorf("write output %s: %w", outputPath, err)
	}

	printSuccess("Layout complete")
	printFile(outputPath)
	printStats(len(sched.Events), layoutGroupCount(l), cacheHit)
	printNewline()
	printNextStep("Render", "daygrid render "+outputPath)

	return nil
}

// layoutGroupCount counts overlap groups across the layout.
func layoutGroupCount(l layout.Layout) int {
	if l.Day != nil {
		return len(l.Day.Groups)
	}
	if l.Week != nil {
		n := 0
		for _, day := range l.Week.Days {
			n += len(day.Rows)
		}
		return n
	}
	return 0
}
