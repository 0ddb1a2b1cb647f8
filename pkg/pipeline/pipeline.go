// Package pipeline provides the core layout pipeline for daygrid.
//
// This package implements the complete load → layout → render pipeline
// that can be used by CLI, API, and worker components. By centralizing
// this logic, we ensure consistent behavior across all entry points.
//
// # Architecture
//
// The pipeline consists of three stages:
//
//  1. Load: Fetch events from a source (ICS feed, schedule file, manifest)
//  2. Layout: Group overlapping events and compute grid geometry
//  3. Render: Generate output in various formats (SVG, HTML, PNG, JSON)
//
// Each stage can be run independently or as part of the complete pipeline.
//
// # Usage
//
// Create a Runner and execute the pipeline:
//
//	runner := pipeline.NewRunner(cache, nil, logger)
//	opts := pipeline.Options{
//	    Source:  src,
//	    Date:    "2026-09-03",
//	    View:    "day",
//	    Formats: []string{"svg"},
//	}
//	result, err := runner.Execute(ctx, opts)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	svg := result.Artifacts["svg"]
//
// Run individual stages:
//
//	// Load only
//	sched, err := runner.Load(ctx, opts)
//
//	// Layout with an existing schedule
//	l, err := runner.BuildLayout(ctx, sched, opts)
//
//	// Render with an existing layout
//	artifacts, err := runner.Render(ctx, l, opts)
package pipeline

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/daygrid/daygrid/pkg/cache"
	"github.com/daygrid/daygrid/pkg/render/grid/layout"
	"github.com/daygrid/daygrid/pkg/schedule"
	"github.com/daygrid/daygrid/pkg/source"
)

// =============================================================================
// Default Values - Single Source of Truth for CLI, API, and Worker
// =============================================================================

const (
	// DefaultView is the default grid view.
	DefaultView = schedule.ViewDay

	// DefaultWeekStart is the default first day of week-view windows.
	DefaultWeekStart = "monday"

	// DefaultTimezone is the display timezone when none is configured.
	DefaultTimezone = "Local"
)

// Format constants for output formats.
const (
	FormatSVG  = "svg"
	FormatHTML = "html"
	FormatPNG  = "png"
	FormatJSON = "json"
)

// DefaultStyle is the default visual style.
const DefaultStyle = "light"

// ValidFormats is the set of supported output formats.
var ValidFormats = map[string]bool{
	FormatSVG:  true,
	FormatHTML: true,
	FormatPNG:  true,
	FormatJSON: true,
}

// ValidStyles is the set of supported visual styles.
var ValidStyles = map[string]bool{
	"light": true,
	"dark":  true,
}

// ValidViews is the set of supported grid views.
var ValidViews = map[string]bool{
	schedule.ViewDay:  true,
	schedule.ViewWeek: true,
}

// ValidWeekStarts is the set of supported week-start days.
var ValidWeekStarts = map[string]bool{
	"monday": true,
	"sunday": true,
}

// =============================================================================
// Capturer - PNG Rasterization
// =============================================================================

// Capturer rasterizes rendered HTML into a PNG. Implemented by
// render/capture with a headless browser; injected so the pipeline
// itself carries no browser dependency.
type Capturer interface {
	CapturePNG(ctx context.Context, html []byte, width, height int) ([]byte, error)
}

// =============================================================================
// Options - Pipeline Configuration
// =============================================================================

// Options contains all configuration for the layout pipeline.
// This struct supports JSON serialization for API requests.
type Options struct {
	// Load options
	Date      string `json:"date"`
	View      string `json:"view,omitempty"`
	Timezone  string `json:"timezone,omitempty"`
	WeekStart string `json:"week_start,omitempty"`
	Refresh   bool   `json:"refresh,omitempty"`

	// Layout options
	Width      float64 `json:"width,omitempty"`
	HourHeight float64 `json:"hour_height,omitempty"`
	GridStart  int     `json:"grid_start,omitempty"`
	GridEnd    int     `json:"grid_end,omitempty"`

	// Render options
	Formats []string `json:"formats,omitempty"`
	Style   string   `json:"style,omitempty"`

	// Runtime options (not serialized)
	Source   source.Source `json:"-"`
	Logger   *log.Logger   `json:"-"`
	Capturer Capturer      `json:"-"`

	// validated tracks whether ValidateAndSetDefaults has been called.
	validated bool `json:"-"`
}

// Result contains the outputs of a pipeline run.
type Result struct {
	// Schedule is the loaded event set.
	Schedule *schedule.Schedule

	// ScheduleHash is the content hash of the schedule.
	ScheduleHash string

	// Layout contains the computed grid geometry.
	Layout layout.Layout

	// Artifacts contains rendered outputs keyed by format.
	Artifacts map[string][]byte

	// Stats contains timing and size information.
	Stats Stats

	// CacheInfo tracks which stages hit the cache.
	CacheInfo CacheInfo
}

// Stats contains pipeline execution statistics.
type Stats struct {
	EventCount int
	GroupCount int
	LoadTime   time.Duration
	LayoutTime time.Duration
	RenderTime time.Duration
}

// CacheInfo tracks cache hits for each pipeline stage.
type CacheInfo struct {
	LoadHit   bool // Whether the schedule came from cache
	LayoutHit bool // Whether the layout came from cache
	RenderHit bool // Whether all artifacts came from cache
}

// =============================================================================
// Validation Functions
// =============================================================================

// ValidateFormat checks that a format is valid.
func ValidateFormat(format string) error {
	if !ValidFormats[format] {
		return fmt.Errorf("invalid format: %q (must be one of: svg, html, png, json)", format)
	}
	return nil
}

// ValidateFormats checks that all formats are valid.
func ValidateFormats(formats []string) error {
	for _, f := range formats {
		if err := ValidateFormat(f); err != nil {
			return err
		}
	}
	return nil
}

// ValidateStyle checks that a style is valid.
func ValidateStyle(style string) error {
	if !ValidStyles[style] {
		return fmt.Errorf("invalid style: %q (must be one of: light, dark)", style)
	}
	return nil
}

// ValidateView checks that a grid view is valid.
func ValidateView(view string) error {
	if !ValidViews[view] {
		return fmt.Errorf("invalid view: %q (must be one of: day, week)", view)
	}
	return nil
}

// =============================================================================
// Options Methods
// =============================================================================

// ValidateAndSetDefaults checks required fields and applies defaults for the
// full pipeline. This method is idempotent.
func (o *Options) ValidateAndSetDefaults() error {
	if o.validated {
		return nil
	}
	if err := o.ValidateForLoad(); err != nil {
		return err
	}
	o.SetLayoutDefaults()
	o.SetRenderDefaults()
	if err := ValidateView(o.View); err != nil {
		return err
	}
	if err := ValidateFormats(o.Formats); err != nil {
		return err
	}
	if err := ValidateStyle(o.Style); err != nil {
		return err
	}
	o.validated = true
	return nil
}

// ValidateForLoad checks required fields for loading.
func (o *Options) ValidateForLoad() error {
	if o.Source == nil {
		return fmt.Errorf("source is required")
	}
	if o.Date == "" {
		return fmt.Errorf("date is required")
	}

	// Load defaults
	if o.View == "" {
		o.View = DefaultView
	}
	if o.WeekStart == "" {
		o.WeekStart = DefaultWeekStart
	}
	if o.Timezone == "" {
		o.Timezone = DefaultTimezone
	}
	if !ValidWeekStarts[o.WeekStart] {
		return fmt.Errorf("invalid week_start: %q (must be monday or sunday)", o.WeekStart)
	}

	// Logger default
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}

	return nil
}

// SetLayoutDefaults sets default values for layout computation.
func (o *Options) SetLayoutDefaults() {
	if o.View == "" {
		o.View = DefaultView
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	// Width/HourHeight/GridStart/GridEnd zero values are filled by
	// Frame.Normalize during layout, so API requests can omit them.
}

// ValidateForLayout validates and sets defaults for layout computation.
// A date is required for both views: the day grid filters events by it and
// the week window is derived from it.
func (o *Options) ValidateForLayout() error {
	o.SetLayoutDefaults()
	if o.Date == "" {
		return fmt.Errorf("date is required")
	}
	return ValidateView(o.View)
}

// SetRenderDefaults sets default values for rendering.
func (o *Options) SetRenderDefaults() {
	if len(o.Formats) == 0 {
		o.Formats = []string{FormatSVG}
	}
	if o.Style == "" {
		o.Style = DefaultStyle
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
}

// ValidateForRender validates and sets defaults for rendering.
func (o *Options) ValidateForRender() error {
	o.SetRenderDefaults()
	if err := ValidateFormats(o.Formats); err != nil {
		return err
	}
	return ValidateStyle(o.Style)
}

// IsWeek returns true if this is a week view.
func (o *Options) IsWeek() bool {
	return o.View == schedule.ViewWeek
}

// Location resolves the configured timezone.
func (o *Options) Location() (*time.Location, error) {
	if o.Timezone == "" || o.Timezone == DefaultTimezone {
		return time.Local, nil
	}
	loc, err := time.LoadLocation(o.Timezone)
	if err != nil {
		return nil, fmt.Errorf("invalid timezone %q: %w", o.Timezone, err)
	}
	return loc, nil
}

// Window returns the load window for the configured date and view.
func (o *Options) Window() (source.Window, error) {
	loc, err := o.Location()
	if err != nil {
		return source.Window{}, err
	}
	if o.IsWeek() {
		return source.WeekWindow(o.Date, o.WeekStart, loc)
	}
	return source.DayWindow(o.Date, loc)
}

// ScheduleKeyOpts returns cache key options for schedule loading.
func (o *Options) ScheduleKeyOpts() cache.ScheduleKeyOpts {
	return cache.ScheduleKeyOpts{
		Date:     o.Date,
		Timezone: o.Timezone,
	}
}

// LayoutKeyOpts returns cache key options for layout computation.
func (o *Options) LayoutKeyOpts() cache.LayoutKeyOpts {
	return cache.LayoutKeyOpts{
		View:       o.View,
		Width:      o.Width,
		HourHeight: o.HourHeight,
		GridStart:  o.GridStart,
		GridEnd:    o.GridEnd,
	}
}

// ArtifactKeyOpts returns cache key options for artifact rendering.
func (o *Options) ArtifactKeyOpts(format string) cache.ArtifactKeyOpts {
	return cache.ArtifactKeyOpts{
		Format: format,
		Style:  o.Style,
	}
}
