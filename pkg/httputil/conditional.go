package httputil

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"
)

// maxBodyBytes bounds feed downloads. ICS feeds for a team calendar are
// kilobytes; anything past this is a misconfigured URL.
const maxBodyBytes = 8 << 20

// Validators carries the HTTP cache validators from a previous fetch.
type Validators struct {
	ETag         string    `json:"etag,omitempty"`
	LastModified string    `json:"last_modified,omitempty"`
	FetchedAt    time.Time `json:"fetched_at,omitempty"`
}

// FetchResult is the outcome of a conditional GET.
type FetchResult struct {
	Body        []byte
	NotModified bool // server answered 304; reuse the previous body
	Validators  Validators
}

// ConditionalGet fetches url with If-None-Match / If-Modified-Since headers
// derived from prev. A 304 response returns NotModified with no body.
// Timeouts and 5xx responses come back wrapped as [RetryableError] so
// callers can pass the operation to [Retry].
func ConditionalGet(ctx context.Context, client *http.Client, url string, prev Validators) (FetchResult, error) {
	if client == nil {
		client = http.DefaultClient
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return FetchResult{}, err
	}
	if prev.ETag != "" {
		req.Header.Set("If-None-Match", prev.ETag)
	}
	if prev.LastModified != "" {
		req.Header.Set("If-Modified-Since", prev.LastModified)
	}

	resp, err := client.Do(req)
	if err != nil {
		return FetchResult{}, Retryable(err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotModified:
		return FetchResult{NotModified: true, Validators: prev}, nil
	case resp.StatusCode >= 500:
		return FetchResult{}, Retryable(fmt.Errorf("GET %s: status %d", url, resp.StatusCode))
	case resp.StatusCode != http.StatusOK:
		return FetchResult{}, fmt.Errorf("GET %s: status %d", url, resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return FetchResult{}, Retryable(err)
	}

	return FetchResult{
		Body: body,
		Validators: Validators{
			ETag:         resp.Header.Get("ETag"),
			LastModified: resp.Header.Get("Last-Modified"),
			FetchedAt:    time.Now(),
		},
	}, nil
}
