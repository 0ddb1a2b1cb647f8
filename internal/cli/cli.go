// Package cli implements the daygrid command-line interface.
package cli

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/daygrid/daygrid/pkg/buildinfo"
	"github.com/daygrid/daygrid/pkg/cache"
	"github.com/daygrid/daygrid/pkg/pipeline"
	"github.com/daygrid/daygrid/pkg/source"
	"github.com/daygrid/daygrid/pkg/source/ics"
	"github.com/daygrid/daygrid/pkg/source/local"
)

// =============================================================================
// Constants
// =============================================================================

// appName is the application name used for directories and display.
const appName = "daygrid"

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// =============================================================================
// CLI - Central CLI State
// =============================================================================

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger
}

// New creates a new CLI instance with a default logger.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{
		Logger: log.NewWithOptions(w, log.Options{
			ReportTimestamp: true,
			TimeFormat:      "15:04:05.00",
			Level:           level,
		}),
	}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:          "daygrid",
		Short:        "Daygrid lays out calendar events as overlap-aware grids",
		Long:         `Daygrid is a CLI tool for turning event schedules (ICS feeds, schedule files, TOML manifests) into day and week grid layouts where overlapping events share the width, and rendering them as SVG, HTML, or PNG.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
	}

	root.SetVersionTemplate(buildinfo.Template())

	// Register all subcommands
	root.AddCommand(c.fetchCommand())
	root.AddCommand(c.layoutCommand())
	root.AddCommand(c.renderCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.viewCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// =============================================================================
// Runner Factory
// =============================================================================

// newRunner creates a pipeline runner for CLI use.
func (c *CLI) newRunner(noCache bool) (*pipeline.Runner, error) {
	store, err := newCache(noCache)
	if err != nil {
		return nil, err
	}
	return pipeline.NewRunner(store, nil, c.Logger), nil
}

func newCache(noCache bool) (cache.Cache, error) {
	if noCache {
		return cache.NewNullCache(), nil
	}
	dir, err := cacheDir()
	if err != nil {
		return cache.NewNullCache(), nil
	}
	return cache.NewFileCache(dir)
}

// =============================================================================
// Paths
// =============================================================================

// cacheDir returns the cache directory using XDG standard (~/.cache/daygrid/).
func cacheDir() (string, error) {
	if cacheHome := os.Getenv("XDG_CACHE_HOME"); cacheHome != "" {
		return filepath.Join(cacheHome, appName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".cache", appName), nil
}

// =============================================================================
// Source Flags
// =============================================================================

// sourceFlags are the mutually exclusive event-source flags shared by the
// fetch, layout, render, and view commands.
type sourceFlags struct {
	feed     string // ICS feed URL
	schedule string // schedule JSON file
	manifest string // TOML manifest file
}

func (f *sourceFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.feed, "feed", "", "ICS feed URL")
	cmd.Flags().StringVar(&f.schedule, "schedule", "", "schedule JSON file")
	cmd.Flags().StringVar(&f.manifest, "manifest", "", "TOML manifest file")
}

// resolve builds the source, backed by the runner's cache for feeds.
func (f *sourceFlags) resolve(c *CLI, runner *pipeline.Runner) (source.Source, error) {
	set := 0
	for _, v := range []string{f.feed, f.schedule, f.manifest} {
		if v != "" {
			set++
		}
	}
	if set == 0 {
		return nil, fmt.Errorf("one of --feed, --schedule, or --manifest is required")
	}
	if set > 1 {
		return nil, fmt.Errorf("--feed, --schedule, and --manifest are mutually exclusive")
	}

	switch {
	case f.feed != "":
		fetcher := ics.NewFetcher(runner.Cache, c.Logger)
		return ics.NewFeedSource(ics.Feed{ID: feedID(f.feed), URL: f.feed}, fetcher), nil
	case f.schedule != "":
		return local.NewFileSource(f.schedule), nil
	default:
		return local.NewManifestSource(f.manifest), nil
	}
}

// feedID derives a short stable feed ID from a URL for ad-hoc CLI use.
func feedID(url string) string {
	return "cli-" + cache.Hash([]byte(url))[:8]
}

// =============================================================================
// Options Helpers
// =============================================================================

// parseFormats parses a comma-separated format string into a slice.
func parseFormats(s string) []string {
	if s == "" {
		return []string{pipeline.FormatSVG}
	}
	return strings.Split(s, ",")
}

// registerGridFlags adds the shared date/view/geometry flags.
func registerGridFlags(cmd *cobra.Command, opts *pipeline.Options) {
	cmd.Flags().StringVarP(&opts.Date, "date", "d", "", "grid date (YYYY-MM-DD, required)")
	cmd.Flags().StringVar(&opts.View, "view", pipeline.DefaultView, "grid view: day (default), week")
	cmd.Flags().StringVar(&opts.Timezone, "timezone", "", "IANA display timezone (default: local)")
	cmd.Flags().StringVar(&opts.WeekStart, "week-start", pipeline.DefaultWeekStart, "first day of week view: monday (default), sunday")
	cmd.Flags().Float64Var(&opts.Width, "width", 0, "grid width in pixels")
	cmd.Flags().Float64Var(&opts.HourHeight, "hour-height", 0, "vertical pixels per hour")
	cmd.Flags().IntVar(&opts.GridStart, "grid-start", 0, "first rendered minute of the day")
	cmd.Flags().IntVar(&opts.GridEnd, "grid-end", 0, "last rendered minute of the day")
}
