// Package fightsync keeps the event, fight, fight-meta and
// round-stat tables converged with ufcstats.com, phase by phase. Each
// phase consumes the stored output of the one before it, so the
// ordering in Run is load-bearing.
package fightsync

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"strings"
	"time"

	"fightsync-backend/lib/fetchutil"
	"fightsync-backend/lib/scrapers/espn"
	"fightsync-backend/lib/scrapers/ufcstats"
	"fightsync-backend/lib/textutil"
	"fightsync-backend/services/fightsync/db"

	"github.com/PuerkitoBio/goquery"
	"github.com/go-resty/resty/v2"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/codes"
)

var tracer = otel.Tracer("services/fightsync")

// Getter retrieves one document, or reports that the unit of work
// wanting it should be skipped.
type Getter interface {
	Get(ctx context.Context, url string) (body string, ok bool)
}

// Report counts what a run changed. Failed counts per-unit errors
// that were logged and skipped, so a "quiet" run that is actually
// skipping everything is visible in the summary and not only in the
// logs.
type Report struct {
	NewEvents     int
	NewFights     int
	UpdatedFights int
	DeletedFights int
	NewMeta       int
	NewRoundRows  int
	UpdatedTimes  int
	Failed        int
}

func (r *Report) Merge(other Report) {
	r.NewEvents += other.NewEvents
	r.NewFights += other.NewFights
	r.UpdatedFights += other.UpdatedFights
	r.DeletedFights += other.DeletedFights
	r.NewMeta += other.NewMeta
	r.NewRoundRows += other.NewRoundRows
	r.UpdatedTimes += other.UpdatedTimes
	r.Failed += other.Failed
}

type Options struct {
	// document source for ufcstats.com pages, defaults to a
	// retrying fetcher
	Getter Getter
	// client for the ESPN scoreboard API
	Espn *resty.Client
	// defaults to espn.ScoreboardURL
	ScoreboardURL string
	// defaults to time.Now
	Now func() time.Time
}

type Service struct {
	db            *sql.DB
	qry           *db.Queries
	getter        Getter
	espn          *resty.Client
	scoreboardURL string
	now           func() time.Time
}

func NewService(database *sql.DB, opts Options) Service {
	if opts.Getter == nil {
		opts.Getter = fetchutil.New(nil, fetchutil.Options{})
	}
	if opts.Espn == nil {
		opts.Espn = fetchutil.NewClient()
	}
	if opts.ScoreboardURL == "" {
		opts.ScoreboardURL = espn.ScoreboardURL
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	return Service{
		db:            database,
		qry:           db.New(database),
		getter:        opts.Getter,
		espn:          opts.Espn,
		scoreboardURL: opts.ScoreboardURL,
		now:           opts.Now,
	}
}

// Run executes every phase in dependency order. A phase failing does
// not stop the ones after it; later phases just see less stored
// state to work from.
func (s Service) Run(ctx context.Context) Report {
	ctx, span := tracer.Start(ctx, "Run")
	defer span.End()

	var report Report
	phases := []struct {
		name string
		run  func(context.Context) (Report, error)
	}{
		{"upcoming events", s.SyncUpcomingEvents},
		{"upcoming fights", s.SyncUpcomingFights},
		{"completed events", s.SyncCompletedEvents},
		{"completed fights", s.SyncCompletedFights},
		{"fight meta", s.SyncFightMeta},
		{"round stats", s.SyncRoundStats},
		{"event times", s.SyncEventTimes},
	}
	for _, phase := range phases {
		partial, err := phase.run(ctx)
		report.Merge(partial)
		if err != nil {
			slog.ErrorContext(ctx, "sync phase failed", "phase", phase.name, "err", err)
			report.Failed++
		}
	}
	return report
}

// SyncUpcomingEvents records the next scheduled event if it is not
// stored yet. Only the first listed event is considered; everything
// further out gets picked up by a later run once it is next in line.
func (s Service) SyncUpcomingEvents(ctx context.Context) (Report, error) {
	ctx, span := tracer.Start(ctx, "SyncUpcomingEvents")
	defer span.End()

	var report Report
	doc, ok := s.getDocument(ctx, ufcstats.UpcomingEventsURL)
	if !ok {
		return report, errors.New("upcoming event listing unavailable")
	}
	events, err := ufcstats.ExtractUpcomingEvents(doc)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return report, err
	}
	if len(events) == 0 {
		return report, nil
	}

	next := events[0]
	_, err = s.qry.GetEventByURL(ctx, next.URL)
	if err == nil {
		return report, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return report, err
	}

	err = s.qry.CreateEvent(ctx, db.CreateEventParams{
		EventName:     next.Name,
		EventURL:      next.URL,
		EventDate:     parseEventDate(next.DateText),
		EventLocation: next.Location,
	})
	if err != nil {
		return report, err
	}
	slog.InfoContext(ctx, "new upcoming event", "name", next.Name)
	report.NewEvents++
	return report, nil
}

// SyncUpcomingFights fills in the fight card of the nearest future
// event, once. Events that already have any fights stored are left
// alone; the completed-fights phase owns them from then on.
func (s Service) SyncUpcomingFights(ctx context.Context) (Report, error) {
	ctx, span := tracer.Start(ctx, "SyncUpcomingFights")
	defer span.End()

	var report Report
	today := s.now().UTC().Format("2006-01-02")
	event, err := s.qry.GetNextEvent(ctx, today)
	if errors.Is(err, sql.ErrNoRows) {
		return report, nil
	}
	if err != nil {
		return report, err
	}

	count, err := s.qry.CountFightsForEvent(ctx, event.EventName)
	if err != nil {
		return report, err
	}
	if count > 0 {
		return report, nil
	}

	doc, ok := s.getDocument(ctx, event.EventURL)
	if !ok {
		return report, errors.New("event page unavailable")
	}
	rows, err := ufcstats.ExtractFixtureRows(doc)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return report, err
	}

	for _, row := range rows {
		err := s.qry.CreateFight(ctx, db.CreateFightParams{
			EventName: event.EventName,
			Bout:      row.Bout,
			FightURL:  nullString(row.DetailURL),
			Status:    "upcoming",
		})
		if isUniqueViolation(err) {
			continue
		}
		if err != nil {
			slog.WarnContext(ctx, "failed to insert upcoming fight",
				"event", event.EventName, "bout", row.Bout, "err", err)
			report.Failed++
			continue
		}
		report.NewFights++
	}
	return report, nil
}

// SyncCompletedEvents walks the completed listing newest first and
// inserts events until it reaches one that is already stored. The
// listing is chronological, so the first known URL means everything
// older is known too.
func (s Service) SyncCompletedEvents(ctx context.Context) (Report, error) {
	ctx, span := tracer.Start(ctx, "SyncCompletedEvents")
	defer span.End()

	var report Report
	doc, ok := s.getDocument(ctx, ufcstats.CompletedEventsURL)
	if !ok {
		return report, errors.New("completed event listing unavailable")
	}
	events, err := ufcstats.ExtractEvents(doc)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return report, err
	}

	for _, event := range events {
		_, err := s.qry.GetEventByURL(ctx, event.URL)
		if err == nil {
			break
		}
		if !errors.Is(err, sql.ErrNoRows) {
			return report, err
		}

		err = s.qry.CreateEvent(ctx, db.CreateEventParams{
			EventName:     event.Name,
			EventURL:      event.URL,
			EventDate:     parseEventDate(event.DateText),
			EventLocation: event.Location,
		})
		if isUniqueViolation(err) {
			continue
		}
		if err != nil {
			return report, err
		}
		slog.InfoContext(ctx, "new completed event", "name", event.Name)
		report.NewEvents++
	}
	return report, nil
}

// SyncCompletedFights reconciles the result tables of the most recent
// events against the stored fights: upcoming fights that appear in
// the results transition to completed, unseen results are inserted,
// and upcoming fights that vanished from a non-empty results page are
// cancellations and get removed along with their dependent rows.
func (s Service) SyncCompletedFights(ctx context.Context) (Report, error) {
	ctx, span := tracer.Start(ctx, "SyncCompletedFights")
	defer span.End()

	var report Report
	events, err := s.qry.ListRecentEvents(ctx, 10)
	if err != nil {
		return report, err
	}

	for _, event := range events {
		stored, err := s.qry.ListFightsForEvent(ctx, event.EventName)
		if err != nil {
			return report, err
		}
		if len(stored) > 0 && allCompleted(stored) {
			continue
		}

		doc, ok := s.getDocument(ctx, event.EventURL)
		if !ok {
			report.Failed++
			continue
		}
		rows, err := ufcstats.ExtractResultRows(doc)
		if err != nil {
			slog.WarnContext(ctx, "unparseable results page",
				"event", event.EventName, "err", err)
			report.Failed++
			continue
		}

		// both orderings of a pair resolve to the same stored
		// fight, the fixture and results pages disagree on order
		storedByBout := map[string]db.Fight{}
		for _, fight := range stored {
			for _, key := range textutil.BoutOrderings(fight.Bout) {
				storedByBout[key] = fight
			}
		}

		matched := map[int64]bool{}
		for _, row := range rows {
			fight, known := storedByBout[row.Bout]
			if known {
				matched[fight.ID] = true
				if fight.Status != "upcoming" {
					continue
				}
				err := s.qry.CompleteFight(ctx, db.CompleteFightParams{
					FightURL: nullString(row.DetailURL),
					ID:       fight.ID,
				})
				if err != nil {
					report.Failed++
					continue
				}
				slog.InfoContext(ctx, "fight completed",
					"event", event.EventName, "bout", fight.Bout)
				report.UpdatedFights++
				continue
			}

			err := s.qry.CreateFight(ctx, db.CreateFightParams{
				EventName: event.EventName,
				Bout:      row.Bout,
				FightURL:  nullString(row.DetailURL),
				Status:    "completed",
			})
			if isUniqueViolation(err) {
				continue
			}
			if err != nil {
				report.Failed++
				continue
			}
			report.NewFights++
		}

		// an empty results page means the event has not happened,
		// not that everything on it was cancelled
		if len(rows) == 0 {
			continue
		}
		for _, fight := range stored {
			if fight.Status != "upcoming" || matched[fight.ID] {
				continue
			}
			if err := s.deleteFightCascade(ctx, fight); err != nil {
				slog.WarnContext(ctx, "failed to remove cancelled fight",
					"event", event.EventName, "bout", fight.Bout, "err", err)
				report.Failed++
				continue
			}
			slog.InfoContext(ctx, "fight cancelled",
				"event", event.EventName, "bout", fight.Bout)
			report.DeletedFights++
		}
	}
	return report, nil
}

// a cancelled fight takes its dependent rows with it, atomically
func (s Service) deleteFightCascade(ctx context.Context, fight db.Fight) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()
	txqry := s.qry.WithTx(tx)

	err = txqry.DeleteRoundStatsForFight(ctx, db.DeleteRoundStatsForFightParams{
		EventName: fight.EventName,
		Bout:      fight.Bout,
	})
	if err != nil {
		return err
	}
	if fight.FightURL.Valid {
		if err := txqry.DeleteMetaByFightURL(ctx, fight.FightURL.String); err != nil {
			return err
		}
	}
	if err := txqry.DeleteFight(ctx, fight.ID); err != nil {
		return err
	}
	return tx.Commit()
}

// SyncFightMeta ingests the adjudication record of recently completed
// fights that lack one. Meta rows are written once and never
// updated; a determined winner is also written back onto the fight.
func (s Service) SyncFightMeta(ctx context.Context) (Report, error) {
	ctx, span := tracer.Start(ctx, "SyncFightMeta")
	defer span.End()

	var report Report
	fights, err := s.qry.ListRecentCompletedFights(ctx, 50)
	if err != nil {
		return report, err
	}

	for _, fight := range fights {
		if !fight.FightURL.Valid || fight.FightURL.String == "" {
			continue
		}
		_, err := s.qry.GetMetaByFightURL(ctx, fight.FightURL.String)
		if err == nil {
			continue
		}
		if !errors.Is(err, sql.ErrNoRows) {
			return report, err
		}

		doc, ok := s.getDocument(ctx, fight.FightURL.String)
		if !ok {
			report.Failed++
			continue
		}
		detail, err := ufcstats.ExtractFightDetail(doc, fight.FightURL.String)
		if err != nil {
			slog.WarnContext(ctx, "unparseable fight detail",
				"url", fight.FightURL.String, "err", err)
			report.Failed++
			continue
		}

		err = s.qry.CreateFightMeta(ctx, db.CreateFightMetaParams{
			EventName:   detail.EventName,
			Bout:        detail.Bout,
			Winner:      nullString(detail.Winner),
			Result:      detail.Result,
			WeightClass: detail.WeightClass,
			Method:      detail.Method,
			Round:       detail.Round,
			Time:        detail.Time,
			TimeFormat:  detail.TimeFormat,
			Referee:     detail.Referee,
			FightURL:    detail.FightURL,
		})
		if isUniqueViolation(err) {
			continue
		}
		if err != nil {
			report.Failed++
			continue
		}
		if detail.Winner != "" {
			err := s.qry.SetFightWinner(ctx, db.SetFightWinnerParams{
				Winner: nullString(detail.Winner),
				ID:     fight.ID,
			})
			if err != nil {
				report.Failed++
			}
		}
		report.NewMeta++
	}
	return report, nil
}

// SyncRoundStats fills per-round statistics for completed fights the
// fight_scraping_status view reports as missing or partial. A
// partial fight's rows are replaced wholesale inside one transaction
// rather than topped up, which keeps reruns convergent. An absent
// view disables the phase with a warning instead of failing the run.
func (s Service) SyncRoundStats(ctx context.Context) (Report, error) {
	ctx, span := tracer.Start(ctx, "SyncRoundStats")
	defer span.End()

	var report Report
	tasks, err := s.qry.ListFightsNeedingRoundStats(ctx)
	if err != nil {
		slog.WarnContext(ctx, "skipping round stats, status view unavailable", "err", err)
		return report, nil
	}

	for _, task := range tasks {
		doc, ok := s.getDocument(ctx, task.FightURL)
		if !ok {
			report.Failed++
			continue
		}
		bout := textutil.Clean(task.Bout)
		stats, err := ufcstats.ExtractRoundStats(doc, task.EventName, bout)
		if err != nil {
			slog.WarnContext(ctx, "unparseable round stats",
				"url", task.FightURL, "err", err)
			report.Failed++
			continue
		}
		if len(stats) == 0 {
			continue
		}

		if err := s.replaceRoundStats(ctx, task.EventName, bout, stats); err != nil {
			slog.WarnContext(ctx, "failed to store round stats",
				"url", task.FightURL, "err", err)
			report.Failed++
			continue
		}
		report.NewRoundRows += len(stats)
	}
	return report, nil
}

func (s Service) replaceRoundStats(ctx context.Context, eventName, bout string, stats []ufcstats.RoundStat) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()
	txqry := s.qry.WithTx(tx)

	err = txqry.DeleteRoundStatsForFight(ctx, db.DeleteRoundStatsForFightParams{
		EventName: eventName,
		Bout:      bout,
	})
	if err != nil {
		return err
	}
	for _, stat := range stats {
		if err := txqry.CreateRoundStat(ctx, roundStatParams(stat)); err != nil {
			return err
		}
	}
	return tx.Commit()
}

// SyncEventTimes enriches stored events with the exact start
// timestamp from the ESPN scoreboard, correlated by calendar date.
func (s Service) SyncEventTimes(ctx context.Context) (Report, error) {
	ctx, span := tracer.Start(ctx, "SyncEventTimes")
	defer span.End()

	var report Report
	times, err := espn.FetchScoreboard(ctx, s.espn, s.scoreboardURL)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return report, err
	}

	for _, et := range times {
		events, err := s.qry.ListEventsOnDate(ctx, et.Date)
		if err != nil {
			return report, err
		}
		for _, event := range events {
			start := et.StartTime.UTC().Format(time.RFC3339)
			if event.StartTime.Valid && event.StartTime.String == start {
				continue
			}
			err := s.qry.SetEventStartTime(ctx, db.SetEventStartTimeParams{
				StartTime: nullString(start),
				ID:        event.ID,
			})
			if err != nil {
				report.Failed++
				continue
			}
			slog.InfoContext(ctx, "event start time synced",
				"event", event.EventName, "start", et.StartTime)
			report.UpdatedTimes++
		}
	}
	return report, nil
}

func (s Service) getDocument(ctx context.Context, url string) (*goquery.Document, bool) {
	body, ok := s.getter.Get(ctx, url)
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

func allCompleted(fights []db.Fight) bool {
	for _, f := range fights {
		if f.Status != "completed" {
			return false
		}
	}
	return true
}

// the listing prints dates like "November 16, 2024"; anything else
// stores a null date rather than failing the insert
func parseEventDate(text string) sql.NullString {
	t, err := time.Parse("January 2, 2006", strings.TrimSpace(text))
	if err != nil {
		return sql.NullString{}
	}
	return nullString(t.Format("2006-01-02"))
}

func nullString(s string) sql.NullString {
	if s == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: s, Valid: true}
}

func isUniqueViolation(err error) bool {
	return err != nil && strings.Contains(err.Error(), "UNIQUE")
}

func roundStatParams(stat ufcstats.RoundStat) db.CreateRoundStatParams {
	return db.CreateRoundStatParams{
		EventName:   stat.EventName,
		Bout:        stat.Bout,
		FighterName: stat.FighterName,
		Round:       int64(stat.Round),

		Kd:                    int64(stat.Knockdowns),
		SigStrikesLanded:      int64(stat.SigStrikesLanded),
		SigStrikesAttempted:   int64(stat.SigStrikesAttempted),
		TotalStrikesLanded:    int64(stat.TotalStrikesLanded),
		TotalStrikesAttempted: int64(stat.TotalStrikesAttempted),
		TakedownsLanded:       int64(stat.TakedownsLanded),
		TakedownsAttempted:    int64(stat.TakedownsAttempted),
		SubAttempts:           int64(stat.SubAttempts),
		Reversals:             int64(stat.Reversals),
		ControlTime:           stat.ControlTime,
		ControlTimeSec:        int64(stat.ControlTimeSec),

		SigStrikesHeadLanded:        int64(stat.HeadLanded),
		SigStrikesHeadAttempted:     int64(stat.HeadAttempted),
		SigStrikesBodyLanded:        int64(stat.BodyLanded),
		SigStrikesBodyAttempted:     int64(stat.BodyAttempted),
		SigStrikesLegLanded:         int64(stat.LegLanded),
		SigStrikesLegAttempted:      int64(stat.LegAttempted),
		SigStrikesDistanceLanded:    int64(stat.DistanceLanded),
		SigStrikesDistanceAttempted: int64(stat.DistanceAttempted),
		SigStrikesClinchLanded:      int64(stat.ClinchLanded),
		SigStrikesClinchAttempted:   int64(stat.ClinchAttempted),
		SigStrikesGroundLanded:      int64(stat.GroundLanded),
		SigStrikesGroundAttempted:   int64(stat.GroundAttempted),
	}
}
