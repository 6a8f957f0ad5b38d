// Package espn reads UFC event start times from ESPN's public
// scoreboard API. It is the only upstream that publishes a real
// timestamp rather than just a date.
package espn

import (
	"context"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"
)

const ScoreboardURL = "https://site.api.espn.com/apis/site/v2/sports/mma/ufc/scoreboard"

// EventTime pairs an event's calendar date with its exact UTC start.
type EventTime struct {
	// "2006-01-02", for matching against stored event dates
	Date      string
	StartTime time.Time
}

type scoreboard struct {
	Events []struct {
		Date string `json:"date"`
		Name string `json:"name"`
	} `json:"events"`
}

// FetchScoreboard returns the start times of the events currently on
// the scoreboard. Events whose timestamp fails to parse are dropped,
// not fatal; a malformed entry from ESPN should not block the rest.
func FetchScoreboard(ctx context.Context, client *resty.Client, url string) ([]EventTime, error) {
	var board scoreboard
	res, err := client.R().SetContext(ctx).SetResult(&board).Get(url)
	if err != nil {
		return nil, fmt.Errorf("fetch scoreboard: %w", err)
	}
	if res.IsError() {
		return nil, fmt.Errorf("fetch scoreboard: status %d", res.StatusCode())
	}

	var times []EventTime
	for _, event := range board.Events {
		if event.Date == "" {
			continue
		}
		start, err := parseEventDate(event.Date)
		if err != nil {
			continue
		}
		times = append(times, EventTime{
			Date:      start.UTC().Format("2006-01-02"),
			StartTime: start,
		})
	}
	return times, nil
}

// ESPN emits minute-precision UTC stamps like "2026-01-24T23:00Z",
// which is not quite RFC 3339
func parseEventDate(s string) (time.Time, error) {
	if t, err := time.Parse("2006-01-02T15:04Z", s); err == nil {
		return t, nil
	}
	return time.Parse(time.RFC3339, s)
}
