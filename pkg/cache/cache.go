// Package cache provides caching for pipeline stages.
//
// Each stage of the load → layout → render pipeline can store its result
// keyed by a content hash of its input, so repeated runs against an
// unchanged feed skip straight to the artifacts. Backends: a file cache
// for CLI runs, Redis for serve mode, and a null cache for tests.
package cache

import (
	"context"
	"time"
)

// =============================================================================
// TTL Defaults
// =============================================================================

const (
	// FeedTTL bounds how long a raw ICS body (with its HTTP validators)
	// is kept. Conditional requests keep entries fresh well before this.
	FeedTTL = 15 * time.Minute

	// ScheduleTTL bounds loaded-schedule reuse; schedules change whenever
	// the upstream feed does, so this matches FeedTTL.
	ScheduleTTL = 15 * time.Minute

	// LayoutTTL bounds layout reuse. Layouts are keyed by schedule content
	// hash, so a stale entry can only be served for identical input.
	LayoutTTL = 24 * time.Hour

	// ArtifactTTL bounds rendered-output reuse, keyed by layout hash.
	ArtifactTTL = 24 * time.Hour
)

// =============================================================================
// Cache Interface
// =============================================================================

// Cache is the storage interface for pipeline results.
type Cache interface {
	// Get retrieves data by key. Returns (data, true, nil) on a hit and
	// (nil, false, nil) on a miss. An error means the backend failed.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores data with the given TTL.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes a key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases backend resources.
	Close() error
}

// =============================================================================
// Key Generation
// =============================================================================

// ScheduleKeyOpts are the options that affect a loaded schedule.
type ScheduleKeyOpts struct {
	Date     string
	Timezone string
}

// LayoutKeyOpts are the options that affect computed geometry.
type LayoutKeyOpts struct {
	View       string
	Width      float64
	HourHeight float64
	GridStart  int
	GridEnd    int
}

// ArtifactKeyOpts are the options that affect rendered output.
type ArtifactKeyOpts struct {
	Format string
	Style  string
}

// Keyer generates cache keys for each pipeline stage.
type Keyer interface {
	// FeedKey generates a key for a raw feed body keyed by URL.
	FeedKey(url string) string

	// ScheduleKey generates a key for a loaded schedule.
	ScheduleKey(sourceKey string, opts ScheduleKeyOpts) string

	// LayoutKey generates a key for computed geometry, keyed by the
	// content hash of the schedule it was computed from.
	LayoutKey(scheduleHash string, opts LayoutKeyOpts) string

	// ArtifactKey generates a key for rendered output, keyed by the
	// content hash of the layout it was rendered from.
	ArtifactKey(layoutHash string, opts ArtifactKeyOpts) string
}

// DefaultKeyer generates hash-based cache keys.
type DefaultKeyer struct{}

// NewDefaultKeyer creates the standard keyer.
func NewDefaultKeyer() Keyer {
	return &DefaultKeyer{}
}

// FeedKey generates a key for raw feed caching.
func (k *DefaultKeyer) FeedKey(url string) string {
	return hashKey("feed", url)
}

// ScheduleKey generates a key for loaded-schedule caching.
func (k *DefaultKeyer) ScheduleKey(sourceKey string, opts ScheduleKeyOpts) string {
	return hashKey("schedule", sourceKey, opts)
}

// LayoutKey generates a key for layout caching.
func (k *DefaultKeyer) LayoutKey(scheduleHash string, opts LayoutKeyOpts) string {
	return hashKey("layout", scheduleHash, opts)
}

// ArtifactKey generates a key for artifact caching.
func (k *DefaultKeyer) ArtifactKey(layoutHash string, opts ArtifactKeyOpts) string {
	return hashKey("artifact", layoutHash, opts)
}

// Ensure DefaultKeyer implements Keyer.
var _ Keyer = (*DefaultKeyer)(nil)
