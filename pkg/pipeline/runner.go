package pipeline

import (
	"bytes"
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/log"

	"github.com/daygrid/daygrid/pkg/cache"
	"github.com/daygrid/daygrid/pkg/observability"
	"github.com/daygrid/daygrid/pkg/render/grid/layout"
	"github.com/daygrid/daygrid/pkg/schedule"
)

// Runner encapsulates pipeline execution with caching.
// Both CLI and API can use this to avoid duplicating caching logic.
//
// The Runner is stateless except for the cache and logger - it doesn't
// store pipeline results. Multiple goroutines can safely use the same
// Runner with different options.
type Runner struct {
	Cache  cache.Cache
	Keyer  cache.Keyer
	Logger *log.Logger
}

// NewRunner creates a runner with the given cache and keyer.
// If keyer is nil, a DefaultKeyer is used.
// If cache is nil, a NullCache is used (caching disabled).
func NewRunner(c cache.Cache, keyer cache.Keyer, logger *log.Logger) *Runner {
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if c == nil {
		c = cache.NewNullCache()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{
		Cache:  c,
		Keyer:  keyer,
		Logger: logger,
	}
}

// Execute runs the complete load → layout → render pipeline with caching.
func (r *Runner) Execute(ctx context.Context, opts Options) (*Result, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, fmt.Errorf("invalid options: %w", err)
	}
	r.applyLogger(&opts)

	result := &Result{
		Artifacts: make(map[string][]byte),
	}

	// Stage 1: Load
	loadStart := time.Now()
	sched, loadHit, err := r.LoadWithCacheInfo(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("load: %w", err)
	}
	result.Schedule = sched
	result.Stats.LoadTime = time.Since(loadStart)
	result.Stats.EventCount = len(sched.Events)
	result.CacheInfo.LoadHit = loadHit

	// Compute schedule hash for cache keys and API responses
	if data, err := schedule.MarshalSchedule(sched); err == nil {
		result.ScheduleHash = cache.Hash(data)
	}

	r.Logger.Info("loaded events",
		"source", opts.Source.Key(),
		"events", len(sched.Events),
		"duration", result.Stats.LoadTime)

	// Stage 2: Layout
	layoutStart := time.Now()
	l, layoutHit, err := r.BuildLayoutWithCacheInfo(ctx, sched, opts)
	if err != nil {
		return nil, fmt.Errorf("layout: %w", err)
	}
	result.Layout = l
	result.Stats.LayoutTime = time.Since(layoutStart)
	result.Stats.GroupCount = groupCount(l)
	result.CacheInfo.LayoutHit = layoutHit

	r.Logger.Info("computed layout",
		"view", opts.View,
		"groups", result.Stats.GroupCount,
		"duration", result.Stats.LayoutTime)

	// Stage 3: Render
	renderStart := time.Now()
	artifacts, renderHit, err := r.RenderWithCacheInfo(ctx, l, opts)
	if err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	result.Artifacts = artifacts
	result.Stats.RenderTime = time.Since(renderStart)
	result.CacheInfo.RenderHit = renderHit

	r.Logger.Info("rendered outputs",
		"formats", opts.Formats,
		"duration", result.Stats.RenderTime)

	return result, nil
}

// LoadWithCacheInfo loads the schedule with caching and returns cache hit info.
func (r *Runner) LoadWithCacheInfo(ctx context.Context, opts Options) (*schedule.Schedule, bool, error) {
	if err := opts.ValidateForLoad(); err != nil {
		return nil, false, err
	}
	r.applyLogger(&opts)

	window, err := opts.Window()
	if err != nil {
		return nil, false, err
	}

	cacheKey := r.Keyer.ScheduleKey(opts.Source.Key(), opts.ScheduleKeyOpts())

	// Try cache first (unless refresh requested)
	if !opts.Refresh {
		if data, hit, cerr := r.Cache.Get(ctx, cacheKey); cerr == nil && hit {
			if s, serr := schedule.ReadSchedule(bytes.NewReader(data)); serr == nil {
				observability.Cache().OnCacheHit(ctx, "schedule")
				return s, true, nil // Cache hit
			}
		}
		observability.Cache().OnCacheMiss(ctx, "schedule")
	}

	// Load
	observability.Pipeline().OnLoadStart(ctx, opts.Source.Key(), opts.Date)
	loadStart := time.Now()
	s, err := opts.Source.Load(ctx, window)
	observability.Pipeline().OnLoadComplete(ctx, opts.Source.Key(), opts.Date,
		eventCount(s), time.Since(loadStart), err)
	if err != nil {
		return nil, false, err
	}

	// Cache the result
	if data, merr := schedule.MarshalSchedule(s); merr == nil {
		if serr := r.Cache.Set(ctx, cacheKey, data, cache.ScheduleTTL); serr == nil {
			observability.Cache().OnCacheSet(ctx, "schedule", len(data))
		}
	}

	return s, false, nil // Cache miss
}

// Load is a convenience wrapper that calls LoadWithCacheInfo and discards
// the cache hit info.
func (r *Runner) Load(ctx context.Context, opts Options) (*schedule.Schedule, error) {
	s, _, err := r.LoadWithCacheInfo(ctx, opts)
	return s, err
}

// BuildLayoutWithCacheInfo computes a layout with caching and returns cache hit info.
func (r *Runner) BuildLayoutWithCacheInfo(ctx context.Context, s *schedule.Schedule, opts Options) (layout.Layout, bool, error) {
	if err := opts.ValidateForLayout(); err != nil {
		return layout.Layout{}, false, err
	}
	r.applyLogger(&opts)

	// Compute cache key
	data, _ := schedule.MarshalSchedule(s)
	scheduleHash := cache.Hash(data)
	cacheKey := r.Keyer.LayoutKey(scheduleHash, opts.LayoutKeyOpts())

	// Try cache first
	if cached, hit, err := r.Cache.Get(ctx, cacheKey); err == nil && hit {
		if l, lerr := layout.UnmarshalLayout(cached); lerr == nil {
			observability.Cache().OnCacheHit(ctx, "layout")
			return l, true, nil // Cache hit
		}
		// If deserialization fails, fall through to recompute
	}
	observability.Cache().OnCacheMiss(ctx, "layout")

	// Build layout
	observability.Pipeline().OnLayoutStart(ctx, opts.View, len(s.Events))
	buildStart := time.Now()
	l, err := BuildLayout(s, opts)
	observability.Pipeline().OnLayoutComplete(ctx, opts.View, time.Since(buildStart), err)
	if err != nil {
		return layout.Layout{}, false, err
	}

	// Cache the result
	if encoded, merr := layout.MarshalLayout(l); merr == nil {
		if serr := r.Cache.Set(ctx, cacheKey, encoded, cache.LayoutTTL); serr == nil {
			observability.Cache().OnCacheSet(ctx, "layout", len(encoded))
		}
	}

	return l, false, nil // Cache miss
}

// BuildLayout is a convenience wrapper that calls BuildLayoutWithCacheInfo
// and discards the cache hit info.
func (r *Runner) BuildLayout(ctx context.Context, s *schedule.Schedule, opts Options) (layout.Layout, error) {
	l, _, err := r.BuildLayoutWithCacheInfo(ctx, s, opts)
	return l, err
}

// RenderWithCacheInfo generates artifacts with caching and returns cache hit info.
func (r *Runner) RenderWithCacheInfo(ctx context.Context, l layout.Layout, opts Options) (map[string][]byte, bool, error) {
	if err := opts.ValidateForRender(); err != nil {
		return nil, false, err
	}
	r.applyLogger(&opts)

	// Compute cache key from layout data
	layoutData, err := layout.MarshalLayout(l)
	if err != nil {
		return nil, false, fmt.Errorf("serialize layout for cache key: %w", err)
	}
	layoutHash := cache.Hash(layoutData)

	// Try to get all formats from cache
	allCached := true
	artifacts := make(map[string][]byte)

	for _, format := range opts.Formats {
		cacheKey := r.Keyer.ArtifactKey(layoutHash, opts.ArtifactKeyOpts(format))
		if data, hit, cerr := r.Cache.Get(ctx, cacheKey); cerr == nil && hit {
			artifacts[format] = data
		} else {
			allCached = false
			break
		}
	}

	if allCached && len(artifacts) == len(opts.Formats) {
		observability.Cache().OnCacheHit(ctx, "artifact")
		return artifacts, true, nil // All artifacts from cache
	}
	observability.Cache().OnCacheMiss(ctx, "artifact")

	// Render all formats
	observability.Pipeline().OnRenderStart(ctx, opts.Formats)
	renderStart := time.Now()
	rendered, err := RenderFromLayout(ctx, l, opts)
	observability.Pipeline().OnRenderComplete(ctx, opts.Formats, time.Since(renderStart), err)
	if err != nil {
		return nil, false, err
	}

	// Cache each format
	for format, data := range rendered {
		cacheKey := r.Keyer.ArtifactKey(layoutHash, opts.ArtifactKeyOpts(format))
		if serr := r.Cache.Set(ctx, cacheKey, data, cache.ArtifactTTL); serr == nil {
			observability.Cache().OnCacheSet(ctx, "artifact", len(data))
		}
	}

	return rendered, false, nil // Cache miss
}

// Render is a convenience wrapper that calls RenderWithCacheInfo and
// discards the cache hit info.
func (r *Runner) Render(ctx context.Context, l layout.Layout, opts Options) (map[string][]byte, error) {
	artifacts, _, err := r.RenderWithCacheInfo(ctx, l, opts)
	return artifacts, err
}

// Close releases resources held by the runner (primarily the cache).
func (r *Runner) Close() error {
	if r.Cache != nil {
		return r.Cache.Close()
	}
	return nil
}

// applyLogger sets the runner's logger on options if not already set.
func (r *Runner) applyLogger(opts *Options) {
	if opts.Logger == nil {
		opts.Logger = r.Logger
	}
}

func eventCount(s *schedule.Schedule) int {
	if s == nil {
		return 0
	}
	return len(s.Events)
}

func groupCount(l layout.Layout) int {
	if l.IsWeek() {
		if l.Week == nil {
			return 0
		}
		n := 0
		for _, day := range l.Week.Days {
			n += len(day.Rows)
		}
		return n
	}
	if l.Day == nil {
		return 0
	}
	return len(l.Day.Groups)
}
