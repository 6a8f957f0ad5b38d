package espn

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/stretchr/testify/require"
)

func TestFetchScoreboard(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"events": [
			{"date": "2026-01-24T23:00Z", "name": "UFC 324: Gaethje vs. Pimblett"},
			{"date": "", "name": "placeholder"},
			{"date": "not a timestamp", "name": "broken"},
			{"date": "2026-02-01T02:30:00Z", "name": "UFC Fight Night"}
		]}`))
	}))
	defer server.Close()

	times, err := FetchScoreboard(context.Background(), resty.New(), server.URL)
	require.NoError(t, err)
	require.Len(t, times, 2)

	require.Equal(t, "2026-01-24", times[0].Date)
	require.Equal(t, time.Date(2026, 1, 24, 23, 0, 0, 0, time.UTC), times[0].StartTime)

	require.Equal(t, "2026-02-01", times[1].Date)
	require.Equal(t, time.Date(2026, 2, 1, 2, 30, 0, 0, time.UTC), times[1].StartTime)
}

func TestFetchScoreboardServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer server.Close()

	_, err := FetchScoreboard(context.Background(), resty.New(), server.URL)
	require.Error(t, err)
}
