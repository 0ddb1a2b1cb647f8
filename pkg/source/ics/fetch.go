package ics

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/charmbracelet/log"

	"github.com/daygrid/daygrid/pkg/cache"
	"github.com/daygrid/daygrid/pkg/httputil"
	"github.com/daygrid/daygrid/pkg/observability"
)

// feedTimeout bounds a single feed request.
const feedTimeout = 15 * time.Second

// feedEntry is the cached body plus HTTP validators for one feed URL.
type feedEntry struct {
	Body       []byte              `json:"body"`
	Validators httputil.Validators `json:"validators"`
}

// Fetcher fetches ICS feeds with conditional requests. Bodies and their
// ETag/Last-Modified validators live in the pipeline cache, so a 304
// answer costs one round trip and no parsing input changes.
type Fetcher struct {
	client *http.Client
	cache  cache.Cache
	keyer  cache.Keyer
	logger *log.Logger
}

// NewFetcher creates a fetcher. A nil cache disables body reuse; a nil
// logger discards output.
func NewFetcher(c cache.Cache, logger *log.Logger) *Fetcher {
	if c == nil {
		c = cache.NewNullCache()
	}
	if logger == nil {
		logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	return &Fetcher{
		client: &http.Client{Timeout: feedTimeout},
		cache:  c,
		keyer:  cache.NewDefaultKeyer(),
		logger: logger,
	}
}

// Fetch returns the feed body, from the network or the cache.
func (f *Fetcher) Fetch(ctx context.Context, feed Feed) ([]byte, error) {
	if feed.URL == "" {
		return nil, errors.New("feed URL is empty")
	}

	key := f.keyer.FeedKey(feed.URL)
	prev := f.loadEntry(ctx, key)

	observability.Feed().OnFetch(ctx, feed.ID)
	start := time.Now()

	var res httputil.FetchResult
	err := httputil.RetryWithBackoff(ctx, func() error {
		var ferr error
		res, ferr = httputil.ConditionalGet(ctx, f.client, feed.URL, prev.Validators)
		return ferr
	})
	observability.Feed().OnFetchComplete(ctx, feed.ID, res.NotModified, time.Since(start), err)
	if err != nil {
		// A stale cached body beats no calendar at all.
		if len(prev.Body) > 0 {
			f.logger.Warn("feed fetch failed, using cached body",
				"id", feed.ID, "url", redactURL(feed.URL), "err", err)
			return prev.Body, nil
		}
		return nil, err
	}

	if res.NotModified {
		f.logger.Debug("feed not modified", "id", feed.ID, "url", redactURL(feed.URL))
		return prev.Body, nil
	}

	f.storeEntry(ctx, key, feedEntry{Body: res.Body, Validators: res.Validators})
	f.logger.Info("feed fetched", "id", feed.ID, "url", redactURL(feed.URL), "bytes", len(res.Body))
	return res.Body, nil
}

func (f *Fetcher) loadEntry(ctx context.Context, key string) feedEntry {
	var entry feedEntry
	data, hit, err := f.cache.Get(ctx, key)
	if err != nil || !hit {
		return entry
	}
	if err := json.Unmarshal(data, &entry); err != nil {
		return feedEntry{}
	}
	return entry
}

func (f *Fetcher) storeEntry(ctx context.Context, key string, entry feedEntry) {
	data, err := json.Marshal(entry)
	if err != nil {
		return
	}
	if err := f.cache.Set(ctx, key, data, cache.FeedTTL); err != nil {
		f.logger.Warn("feed cache write failed", "err", err)
	}
}
