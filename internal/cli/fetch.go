package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/daygrid/daygrid/pkg/pipeline"
	"github.com/daygrid/daygrid/pkg/schedule"
)

// fetchCommand creates the fetch command for loading event schedules.
func (c *CLI) fetchCommand() *cobra.Command {
	var (
		output  string
		noCache bool
		refresh bool
		srcs    sourceFlags
	)
	opts := pipeline.Options{}

	cmd := &cobra.Command{
		Use:   "fetch",
		Short: "Load events from a source into a schedule file",
		Long: `Load events from a source into a schedule file.

The fetch command loads events from an ICS feed (--feed), a schedule JSON
file (--schedule), or a TOML manifest (--manifest), expands recurring events
inside the requested window, and writes a schedule.json file. The output can
be fed to the 'layout' command.

Feed responses are cached locally for faster subsequent runs.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runFetch(cmd.Context(), opts, srcs, output, noCache, refresh)
		},
	}

	srcs.register(cmd)
	registerGridFlags(cmd, &opts)
	cmd.Flags().StringVarP(&output, "output", "o", "schedule.json", "output file")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")
	cmd.Flags().BoolVar(&refresh, "refresh", false, "bypass the cache and fetch fresh data")

	return cmd
}

// runFetch loads the schedule and writes it to disk.
func (c *CLI) runFetch(ctx context.Context, opts pipeline.Options, srcs sourceFlags, output string, noCache, refresh bool) error {
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

	spinner := newSpinnerWithContext(ctx, "Loading events...")
	spinner.Start()

	sched, cacheHit, err := runner.LoadWithCacheInfo(ctx, opts)
	if err != nil {
		spinner.StopWithError("Load failed")
		return fmt.Errorf("load events: %w", err)
	}
	spinner.Stop()

	if ctx.Err() != nil {
		return ctx.Err()
	}

	if err := schedule.WriteScheduleFile(sched, output); err != nil {
		return fmt.Errorf("write output %s: %w", output, err)
	}

	printSuccess("Fetch complete")
	printFile(output)
	printStats(len(sched.Events), 0, cacheHit)
	printNewline()
	printNextStep("Compute layout", fmt.Sprintf("daygrid layout --schedule %s --date %s", output, opts.Date))

	return nil
}
