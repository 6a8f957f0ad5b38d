package fetchutil

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/stretchr/testify/require"
)

func newTestFetcher(baseClient *resty.Client, opts Options) (*Fetcher, *[]time.Duration) {
	f := New(baseClient, opts)
	var slept []time.Duration
	f.sleep = func(d time.Duration) {
		slept = append(slept, d)
	}
	return f, &slept
}

func TestGetSuccess(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte("<html>ok</html>"))
	}))
	defer server.Close()

	f, slept := newTestFetcher(resty.New(), Options{})
	body, ok := f.Get(context.Background(), server.URL)
	require.True(t, ok)
	require.Equal(t, "<html>ok</html>", body)
	// the fixed inter-request interval applies to successes too
	require.Equal(t, []time.Duration{750 * time.Millisecond}, *slept)
}

func TestGetRetriesThenSucceeds(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		if calls.Add(1) < 3 {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		w.Write([]byte("eventually"))
	}))
	defer server.Close()

	f, slept := newTestFetcher(resty.New(), Options{MaxAttempts: 3})
	body, ok := f.Get(context.Background(), server.URL)
	require.True(t, ok)
	require.Equal(t, "eventually", body)
	require.Equal(t, int32(3), calls.Load())
	// 2^1, 2^2 backoffs, then the post-success interval
	require.Equal(t, []time.Duration{2 * time.Second, 4 * time.Second, 750 * time.Millisecond}, *slept)
}

func TestGetExhaustsRetries(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	f, _ := newTestFetcher(resty.New(), Options{MaxAttempts: 3})
	body, ok := f.Get(context.Background(), server.URL)
	require.False(t, ok)
	require.Empty(t, body)
	require.Equal(t, int32(3), calls.Load())
}

func TestGetNoSleepAfterFinalAttempt(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer server.Close()

	f, slept := newTestFetcher(resty.New(), Options{MaxAttempts: 3})
	_, ok := f.Get(context.Background(), server.URL)
	require.False(t, ok)
	require.Equal(t, int32(3), calls.Load())
	// backoffs between attempts only, nothing on the give-up path
	require.Len(t, *slept, 2)
}

func TestGetRateLimitJitter(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		if calls.Add(1) == 1 {
			w.WriteHeader(http.StatusTooManyRequests)
			return
		}
		w.Write([]byte("ok"))
	}))
	defer server.Close()

	f, slept := newTestFetcher(resty.New(), Options{MaxAttempts: 3})
	_, ok := f.Get(context.Background(), server.URL)
	require.True(t, ok)
	require.Len(t, *slept, 2)
	// base backoff plus up to a second of jitter
	wait := (*slept)[0]
	require.GreaterOrEqual(t, wait, 2*time.Second)
	require.Less(t, wait, 3*time.Second)
}
