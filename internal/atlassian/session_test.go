package atlassian

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestGetRetriesRateLimited(t *testing.T) {
	var calls atomic.Int64
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) == 1 {
			w.Header().Set("Retry-After", "1")
			w.WriteHeader(http.StatusTooManyRequests)
			return
		}
		_, _ = w.Write([]byte(`{}`))
	}))
	defer srv.Close()

	s, err := NewSession(Config{BaseURL: srv.URL, RPS: 1000, MaxAttempts: 3, RetryAfterHint: true})
	require.NoError(t, err)

	start := time.Now()
	_, err = s.get(context.Background(), "/rest/api/2/search", nil)
	require.NoError(t, err)
	require.Equal(t, int64(2), calls.Load())
	// The 1s server hint was honored before the retry.
	require.GreaterOrEqual(t, time.Since(start), time.Second)
}

func TestGetIgnoresHintWhenDisabled(t *testing.T) {
	var calls atomic.Int64
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) == 1 {
			w.Header().Set("Retry-After", "30")
			w.WriteHeader(http.StatusTooManyRequests)
			return
		}
		_, _ = w.Write([]byte(`{}`))
	}))
	defer srv.Close()

	s, err := NewSession(Config{BaseURL: srv.URL, RPS: 1000, MaxAttempts: 3, RetryAfterHint: false})
	require.NoError(t, err)

	start := time.Now()
	_, err = s.get(context.Background(), "/rest/api/2/search", nil)
	require.NoError(t, err)
	// Exponential schedule only; nowhere near the 30s hint.
	require.Less(t, time.Since(start), 10*time.Second)
}

func TestGetExhaustsRetries(t *testing.T) {
	var calls atomic.Int64
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	s, err := NewSession(Config{BaseURL: srv.URL, RPS: 1000, MaxAttempts: 3})
	require.NoError(t, err)

	_, err = s.get(context.Background(), "/rest/api/2/search", nil)
	var fetchErr *FetchError
	require.True(t, errors.As(err, &fetchErr))
	require.Equal(t, http.StatusBadGateway, fetchErr.Status)
	require.Equal(t, int64(3), calls.Load())
}

func TestGetSingleAttemptNoRetry(t *testing.T) {
	var calls atomic.Int64
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	s, err := NewSession(Config{BaseURL: srv.URL, RPS: 1000, MaxAttempts: 1})
	require.NoError(t, err)

	start := time.Now()
	_, err = s.get(context.Background(), "/rest/api/2/search", nil)
	var fetchErr *FetchError
	require.True(t, errors.As(err, &fetchErr))
	require.Equal(t, int64(1), calls.Load())
	require.Less(t, time.Since(start), time.Second)
}

func TestGetUnexpectedStatusNoRetry(t *testing.T) {
	var calls atomic.Int64
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	s, err := NewSession(Config{BaseURL: srv.URL, RPS: 1000, MaxAttempts: 3})
	require.NoError(t, err)

	_, err = s.get(context.Background(), "/rest/api/2/search", nil)
	var fetchErr *FetchError
	require.True(t, errors.As(err, &fetchErr))
	require.Equal(t, http.StatusNotFound, fetchErr.Status)
	require.Equal(t, int64(1), calls.Load())
}

func TestGetCancellation(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	s, err := NewSession(Config{BaseURL: srv.URL, RPS: 1000, MaxAttempts: 10})
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()
	_, err = s.get(ctx, "/rest/api/2/search", nil)
	require.Error(t, err)
}

func TestAdaptLimits(t *testing.T) {
	s, err := NewSession(Config{BaseURL: "http://jira.example.com", RPS: 5})
	require.NoError(t, err)

	hdr := http.Header{}
	hdr.Set("X-RateLimit-Remaining", "900")
	hdr.Set("X-RateLimit-Reset", "9999999999")
	s.adaptLimits(hdr)
	// Remaining quota spread over a long window drops the rate well below
	// the initial 5 rps.
	require.Less(t, float64(s.limiter.limiter.Limit()), 5.0)
}

func TestHost(t *testing.T) {
	s, err := NewSession(Config{BaseURL: "https://wiki.corp.example:8443/"})
	require.NoError(t, err)
	require.Equal(t, "wiki.corp.example:8443", s.Host())
}
