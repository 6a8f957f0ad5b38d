// Package ufcstats extracts typed records out of ufcstats.com pages.
//
// Extractors take parsed documents rather than URLs so they stay pure
// over markup; fetching and retry policy live in fetchutil. A missing
// expected table is a typed error, a malformed row is skipped on its
// own without aborting the rest of the document.
package ufcstats

import (
	"errors"
)

const (
	CompletedEventsURL = "http://ufcstats.com/statistics/events/completed?page=all"
	UpcomingEventsURL  = "http://ufcstats.com/statistics/events/upcoming"
)

var (
	ErrNoEventsTable = errors.New("ufcstats: no events table in document")
	ErrNoFightTable  = errors.New("ufcstats: no fight table body in document")
	ErrNoFightDetail = errors.New("ufcstats: no fighter blocks in detail document")
	ErrNoStatTables  = errors.New("ufcstats: round stat tables missing or incomplete")
)
