package cache

// ScopedKeyer wraps a Keyer with a prefix for namespace isolation.
// The serve mode uses this to separate per-deployment cache entries when
// several daygrid instances share one Redis.
//
// Example usage:
//
//	keyer := cache.NewScopedKeyer(cache.NewDefaultKeyer(), "club-a:")
type ScopedKeyer struct {
	inner  Keyer
	prefix string
}

// NewScopedKeyer creates a keyer with a prefix.
// The prefix is prepended to all generated keys.
func NewScopedKeyer(inner Keyer, prefix string) Keyer {
	if inner == nil {
		inner = NewDefaultKeyer()
	}
	return &ScopedKeyer{inner: inner, prefix: prefix}
}

// FeedKey generates a prefixed key for raw feed caching.
func (k *ScopedKeyer) FeedKey(url string) string {
	return k.prefix + k.inner.FeedKey(url)
}

// ScheduleKey generates a prefixed key for loaded-schedule caching.
func (k *ScopedKeyer) ScheduleKey(sourceKey string, opts ScheduleKeyOpts) string {
	return k.prefix + k.inner.ScheduleKey(sourceKey, opts)
}

// LayoutKey generates a prefixed key for layout caching.
func (k *ScopedKeyer) LayoutKey(scheduleHash string, opts LayoutKeyOpts) string {
	return k.prefix + k.inner.LayoutKey(scheduleHash, opts)
}

// ArtifactKey generates a prefixed key for artifact caching.
func (k *ScopedKeyer) ArtifactKey(layoutHash string, opts ArtifactKeyOpts) string {
	return k.prefix + k.inner.ArtifactKey(layoutHash, opts)
}
