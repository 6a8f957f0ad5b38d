// Package judgesync backfills judge scorecards from mmadecisions.com,
// walking the decisions-by-event index newest year first and stopping
// once it runs into a long enough streak of already-synced events.
package judgesync

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"sync/atomic"
	"time"

	"fightsync-backend/lib/fetchutil"
	"fightsync-backend/lib/htmlutil"
	"fightsync-backend/lib/scrapers/mmadecisions"
	"fightsync-backend/lib/textutil"
	"fightsync-backend/lib/workergroup"
	"fightsync-backend/services/judgesync/db"

	"github.com/PuerkitoBio/goquery"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/codes"
)

var tracer = otel.Tracer("services/judgesync")

// two stored bout names that differ only in accent or spelling
// variants still mean the same bout
const boutSimilarityThreshold = 0.93

// Getter retrieves one document, or reports that the unit of work
// wanting it should be skipped.
type Getter interface {
	Get(ctx context.Context, url string) (body string, ok bool)
}

type Options struct {
	// inclusive year bounds, defaulting to 2010 through the
	// current year
	StartYear int
	EndYear   int
	// concurrent bout-page fetches per event, default 5
	Workers int
	// consecutive fully-synced events before the scan stops
	// early, default 10. Negative disables the early exit and
	// scans the entire range.
	StopThreshold int
	// provisions a document source; called once for the event
	// walk and once per worker, since transport handles are not
	// shared across workers
	NewGetter func() Getter
}

type Report struct {
	EventsChecked  int
	BoutsProcessed int
	RowsUpserted   int
	Failed         int
	StoppedEarly   bool
}

type Service struct {
	db   *sql.DB
	qry  *db.Queries
	opts Options
}

func NewService(database *sql.DB, opts Options) Service {
	if opts.StartYear == 0 {
		opts.StartYear = 2010
	}
	if opts.EndYear == 0 {
		opts.EndYear = time.Now().Year()
	}
	if opts.Workers == 0 {
		opts.Workers = 5
	}
	if opts.StopThreshold == 0 {
		opts.StopThreshold = 10
	}
	if opts.NewGetter == nil {
		opts.NewGetter = func() Getter {
			return fetchutil.New(mmadecisions.NewClient(), fetchutil.Options{})
		}
	}
	return Service{
		db:   database,
		qry:  db.New(database),
		opts: opts,
	}
}

// Run scans years newest first within the configured bounds. For
// every UFC event it diffs the site's bout list against the stored
// bouts and fetches only the missing ones, fanning the fetches out
// over the worker budget.
func (s Service) Run(ctx context.Context) (Report, error) {
	ctx, span := tracer.Start(ctx, "Run")
	defer span.End()

	var report Report
	getter := s.opts.NewGetter()

	doc, ok := getDocument(ctx, getter, mmadecisions.DecisionsByEventURL)
	if !ok {
		return report, errors.New("decisions index unavailable")
	}
	var years []int
	for _, year := range mmadecisions.ExtractYears(doc) {
		if year >= s.opts.StartYear && year <= s.opts.EndYear {
			years = append(years, year)
		}
	}
	sort.Sort(sort.Reverse(sort.IntSlice(years)))

	converged := 0
	for _, year := range years {
		slog.InfoContext(ctx, "processing year", "year", year)
		yearDoc, ok := getDocument(ctx, getter, fmt.Sprintf("%s%d/", mmadecisions.DecisionsByEventURL, year))
		if !ok {
			report.Failed++
			continue
		}

		for _, event := range mmadecisions.ExtractEventLinks(yearDoc) {
			report.EventsChecked++

			listed, processed, upserted, err := s.syncEvent(ctx, getter, event)
			report.BoutsProcessed += processed
			report.RowsUpserted += upserted
			if err != nil {
				slog.WarnContext(ctx, "failed to sync event",
					"event", event.Name, "err", err)
				report.Failed++
				continue
			}

			// a long enough streak of events with nothing new
			// means the scan has reached already-synced
			// history. An event listing no decisions at all
			// proves nothing and leaves the streak untouched.
			if processed == 0 && listed > 0 {
				converged++
			} else if processed > 0 {
				converged = 0
			}
			if s.opts.StopThreshold > 0 && converged >= s.opts.StopThreshold {
				slog.InfoContext(ctx, "scan converged, stopping early",
					"consecutive", converged)
				report.StoppedEarly = true
				return report, nil
			}
		}
	}
	return report, nil
}

type worker struct {
	getter Getter
	conn   *sql.Conn
	qry    *db.Queries
}

func (s Service) syncEvent(ctx context.Context, getter Getter, event htmlutil.Anchor) (listed, processed, upserted int, err error) {
	ctx, span := tracer.Start(ctx, "syncEvent")
	defer span.End()

	known, err := s.qry.ListBoutsForEvent(ctx, event.Name)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return 0, 0, 0, err
	}

	eventDoc, ok := getDocument(ctx, getter, mmadecisions.BaseURL+strings.TrimSpace(event.Href))
	if !ok {
		return 0, 0, 0, errors.New("event page unavailable")
	}
	bouts := mmadecisions.ExtractBoutLinks(eventDoc)
	listed = len(bouts)

	var pending []htmlutil.Anchor
	for _, bout := range bouts {
		if isKnownBout(bout.Name, known) {
			continue
		}
		pending = append(pending, bout)
	}
	if len(pending) == 0 {
		return listed, 0, 0, nil
	}

	var rows atomic.Int64
	processed = workergroup.Run(ctx, s.opts.Workers, pending,
		func(ctx context.Context) (worker, func(), error) {
			conn, err := s.db.Conn(ctx)
			if err != nil {
				return worker{}, nil, err
			}
			return worker{
					getter: s.opts.NewGetter(),
					conn:   conn,
					qry:    db.New(conn),
				}, func() {
					conn.Close()
				}, nil
		},
		func(ctx context.Context, w worker, bout htmlutil.Anchor) (bool, error) {
			n, err := processBout(ctx, w, event.Name, bout)
			rows.Add(int64(n))
			return n > 0, err
		})
	return listed, processed, int(rows.Load()), nil
}

func processBout(ctx context.Context, w worker, eventName string, bout htmlutil.Anchor) (int, error) {
	fightURL := mmadecisions.BaseURL + strings.TrimSpace(bout.Href)
	doc, ok := getDocument(ctx, w.getter, fightURL)
	if !ok {
		return 0, nil
	}

	decision, err := mmadecisions.ExtractScorecards(doc, fightURL, bout.Name)
	if err != nil {
		return 0, fmt.Errorf("extract %q: %w", fightURL, err)
	}
	date, err := parseDecisionDate(decision.DateText)
	if err != nil {
		return 0, fmt.Errorf("parse date %q: %w", decision.DateText, err)
	}

	upserted := 0
	for _, score := range decision.Scores {
		err := w.qry.UpsertJudgeScore(ctx, db.UpsertJudgeScoreParams{
			EventName: eventName,
			Bout:      decision.Bout,
			Date:      date,
			Judge:     score.Judge,
			Fighter:   score.Fighter,
			Round:     int64(score.Round),
			Score:     int64(score.Score),
			Referee:   decision.Referee,
		})
		if err != nil {
			slog.WarnContext(ctx, "failed to upsert judge score",
				"bout", decision.Bout, "judge", score.Judge, "err", err)
			continue
		}
		upserted++
	}
	slog.InfoContext(ctx, "scorecards ingested",
		"bout", decision.Bout, "rows", upserted)
	return upserted, nil
}

// isKnownBout matches a site bout name against the stored bout names,
// accepting either fighter ordering and small spelling drift.
func isKnownBout(bout string, known []string) bool {
	for _, stored := range known {
		if stored == bout {
			return true
		}
		for _, ordering := range textutil.BoutOrderings(bout) {
			if textutil.Similarity(ordering, stored) >= boutSimilarityThreshold {
				return true
			}
		}
	}
	return false
}

// the site prints "November 16, 2024", occasionally abbreviated and
// dotted ("Nov. 16, 2024")
func parseDecisionDate(text string) (string, error) {
	text = strings.TrimSpace(strings.ReplaceAll(text, ".", ""))
	t, err := time.Parse("January 2, 2006", text)
	if err != nil {
		t, err = time.Parse("Jan 2, 2006", text)
	}
	if err != nil {
		return "", err
	}
	return t.Format("2006-01-02"), nil
}

func getDocument(ctx context.Context, getter Getter, url string) (*goquery.Document, bool) {
	body, ok := getter.Get(ctx, url)
	if !ok {
		return nil, false
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(body))
	if err != nil {
		slog.WarnContext(ctx, "failed to parse document", "url", url, "err", err)
		return nil, false
	}
	return doc, true
}
