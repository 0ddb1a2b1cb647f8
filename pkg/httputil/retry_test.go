package httputil

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestRetryStopsOnNonRetryable(t *testing.T) {
	calls := 0
	fatal := errors.New("fatal")

	err := Retry(context.Background(), 3, time.Millisecond, func() error {
		calls++
		return fatal
	})
	if !errors.Is(err, fatal) {
		t.Errorf("err = %v, want %v", err, fatal)
	}
	if calls != 1 {
		t.Errorf("non-retryable error retried %d times", calls)
	}
}

func TestRetryRetriesWrappedErrors(t *testing.T) {
	calls := 0
	err := Retry(context.Background(), 3, time.Millisecond, func() error {
		calls++
		if calls < 3 {
			return Retryable(errors.New("transient"))
		}
		return nil
	})
	if err != nil {
		t.Errorf("err = %v, want nil after recovery", err)
	}
	if calls != 3 {
		t.Errorf("calls = %d, want 3", calls)
	}
}

func TestRetryExhaustsAttempts(t *testing.T) {
	calls := 0
	err := Retry(context.Background(), 2, time.Millisecond, func() error {
		calls++
		return Retryable(errors.New("always"))
	})
	if err == nil {
		t.Error("expected error after exhausting attempts")
	}
	if calls != 2 {
		t.Errorf("calls = %d, want 2", calls)
	}
}

func TestRetryableNil(t *testing.T) {
	if Retryable(nil) != nil {
		t.Error("Retryable(nil) should be nil")
	}
}

func TestConditionalGetFreshBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("ETag", `"v1"`)
		w.Write([]byte("BEGIN:VCALENDAR"))
	}))
	defer srv.Close()

	res, err := ConditionalGet(context.Background(), srv.Client(), srv.URL, Validators{})
	if err != nil {
		t.Fatalf("ConditionalGet: %v", err)
	}
	if res.NotModified {
		t.Error("fresh fetch reported NotModified")
	}
	if string(res.Body) != "BEGIN:VCALENDAR" {
		t.Errorf("body = %q", res.Body)
	}
	if res.Validators.ETag != `"v1"` {
		t.Errorf("etag = %q, want %q", res.Validators.ETag, `"v1"`)
	}
}

func TestConditionalGetNotModified(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("If-None-Match") == `"v1"` {
			w.WriteHeader(http.StatusNotModified)
			return
		}
		w.Write([]byte("should not reach"))
	}))
	defer srv.Close()

	res, err := ConditionalGet(context.Background(), srv.Client(), srv.URL, Validators{ETag: `"v1"`})
	if err != nil {
		t.Fatalf("ConditionalGet: %v", err)
	}
	if !res.NotModified {
		t.Error("expected NotModified for matching ETag")
	}
	if len(res.Body) != 0 {
		t.Errorf("304 returned a body: %q", res.Body)
	}
}

func TestConditionalGetServerErrorIsRetryable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	_, err := ConditionalGet(context.Background(), srv.Client(), srv.URL, Validators{})
	if err == nil {
		t.Fatal("expected error for 502")
	}
	if !errors.As(err, new(*RetryableError)) {
		t.Errorf("5xx should be retryable, got %v", err)
	}
}

func TestConditionalGetClientErrorIsFatal(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	_, err := ConditionalGet(context.Background(), srv.Client(), srv.URL, Validators{})
	if err == nil {
		t.Fatal("expected error for 404")
	}
	if errors.As(err, new(*RetryableError)) {
		t.Errorf("4xx should not be retryable, got %v", err)
	}
}
