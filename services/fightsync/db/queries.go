package db

import (
	"context"
	"database/sql"
)

// DBTX is satisfied by *sql.DB, *sql.Conn and *sql.Tx.
type DBTX interface {
	ExecContext(context.Context, string, ...interface{}) (sql.Result, error)
	QueryContext(context.Context, string, ...interface{}) (*sql.Rows, error)
	QueryRowContext(context.Context, string, ...interface{}) *sql.Row
}

func New(db DBTX) *Queries {
	return &Queries{db: db}
}

type Queries struct {
	db DBTX
}

func (q *Queries) WithTx(tx *sql.Tx) *Queries {
	return &Queries{db: tx}
}

const getEventByURL = `
SELECT id, event_name, event_url, event_date, event_location, start_time
FROM ufc_events WHERE event_url = ?
`

func (q *Queries) GetEventByURL(ctx context.Context, eventURL string) (UfcEvent, error) {
	row := q.db.QueryRowContext(ctx, getEventByURL, eventURL)
	var e UfcEvent
	err := row.Scan(&e.ID, &e.EventName, &e.EventURL, &e.EventDate, &e.EventLocation, &e.StartTime)
	return e, err
}

const createEvent = `
INSERT INTO ufc_events (event_name, event_url, event_date, event_location)
VALUES (?, ?, ?, ?)
`

type CreateEventParams struct {
	EventName     string
	EventURL      string
	EventDate     sql.NullString
	EventLocation string
}

func (q *Queries) CreateEvent(ctx context.Context, arg CreateEventParams) error {
	_, err := q.db.ExecContext(ctx, createEvent,
		arg.EventName, arg.EventURL, arg.EventDate, arg.EventLocation)
	return err
}

const getNextEvent = `
SELECT id, event_name, event_url, event_date, event_location, start_time
FROM ufc_events
WHERE event_date >= ?
ORDER BY event_date ASC
LIMIT 1
`

// GetNextEvent returns the soonest event on or after the given
// "YYYY-MM-DD" date.
func (q *Queries) GetNextEvent(ctx context.Context, today string) (UfcEvent, error) {
	row := q.db.QueryRowContext(ctx, getNextEvent, today)
	var e UfcEvent
	err := row.Scan(&e.ID, &e.EventName, &e.EventURL, &e.EventDate, &e.EventLocation, &e.StartTime)
	return e, err
}

const listRecentEvents = `
SELECT id, event_name, event_url, event_date, event_location, start_time
FROM ufc_events
ORDER BY event_date DESC
LIMIT ?
`

func (q *Queries) ListRecentEvents(ctx context.Context, limit int64) ([]UfcEvent, error) {
	rows, err := q.db.QueryContext(ctx, listRecentEvents, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var events []UfcEvent
	for rows.Next() {
		var e UfcEvent
		if err := rows.Scan(&e.ID, &e.EventName, &e.EventURL, &e.EventDate, &e.EventLocation, &e.StartTime); err != nil {
			return nil, err
		}
		events = append(events, e)
	}
	return events, rows.Err()
}

const listEventsOnDate = `
SELECT id, event_name, event_url, event_date, event_location, start_time
FROM ufc_events WHERE event_date = ?
`

func (q *Queries) ListEventsOnDate(ctx context.Context, eventDate string) ([]UfcEvent, error) {
	rows, err := q.db.QueryContext(ctx, listEventsOnDate, eventDate)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var events []UfcEvent
	for rows.Next() {
		var e UfcEvent
		if err := rows.Scan(&e.ID, &e.EventName, &e.EventURL, &e.EventDate, &e.EventLocation, &e.StartTime); err != nil {
			return nil, err
		}
		events = append(events, e)
	}
	return events, rows.Err()
}

const setEventStartTime = `
UPDATE ufc_events SET start_time = ? WHERE id = ?
`

type SetEventStartTimeParams struct {
	StartTime sql.NullString
	ID        int64
}

func (q *Queries) SetEventStartTime(ctx context.Context, arg SetEventStartTimeParams) error {
	_, err := q.db.ExecContext(ctx, setEventStartTime, arg.StartTime, arg.ID)
	return err
}

const listFightsForEvent = `
SELECT id, event_name, bout, fight_url, status, winner
FROM fights WHERE event_name = ?
`

func (q *Queries) ListFightsForEvent(ctx context.Context, eventName string) ([]Fight, error) {
	rows, err := q.db.QueryContext(ctx, listFightsForEvent, eventName)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var fights []Fight
	for rows.Next() {
		var f Fight
		if err := rows.Scan(&f.ID, &f.EventName, &f.Bout, &f.FightURL, &f.Status, &f.Winner); err != nil {
			return nil, err
		}
		fights = append(fights, f)
	}
	return fights, rows.Err()
}

const countFightsForEvent = `
SELECT COUNT(*) FROM fights WHERE event_name = ?
`

func (q *Queries) CountFightsForEvent(ctx context.Context, eventName string) (int64, error) {
	var count int64
	err := q.db.QueryRowContext(ctx, countFightsForEvent, eventName).Scan(&count)
	return count, err
}

const createFight = `
INSERT INTO fights (event_name, bout, fight_url, status)
VALUES (?, ?, ?, ?)
`

type CreateFightParams struct {
	EventName string
	Bout      string
	FightURL  sql.NullString
	Status    string
}

func (q *Queries) CreateFight(ctx context.Context, arg CreateFightParams) error {
	_, err := q.db.ExecContext(ctx, createFight,
		arg.EventName, arg.Bout, arg.FightURL, arg.Status)
	return err
}

const completeFight = `
UPDATE fights SET status = 'completed', fight_url = ?
WHERE id = ? AND status = 'upcoming'
`

type CompleteFightParams struct {
	FightURL sql.NullString
	ID       int64
}

// CompleteFight transitions a fight to completed. The status guard
// makes the transition one way no matter how often it runs.
func (q *Queries) CompleteFight(ctx context.Context, arg CompleteFightParams) error {
	_, err := q.db.ExecContext(ctx, completeFight, arg.FightURL, arg.ID)
	return err
}

const setFightWinner = `
UPDATE fights SET winner = ? WHERE id = ?
`

type SetFightWinnerParams struct {
	Winner sql.NullString
	ID     int64
}

func (q *Queries) SetFightWinner(ctx context.Context, arg SetFightWinnerParams) error {
	_, err := q.db.ExecContext(ctx, setFightWinner, arg.Winner, arg.ID)
	return err
}

const deleteFight = `
DELETE FROM fights WHERE id = ?
`

func (q *Queries) DeleteFight(ctx context.Context, id int64) error {
	_, err := q.db.ExecContext(ctx, deleteFight, id)
	return err
}

const listRecentCompletedFights = `
SELECT id, event_name, bout, fight_url, status, winner
FROM fights
WHERE status = 'completed'
ORDER BY id DESC
LIMIT ?
`

func (q *Queries) ListRecentCompletedFights(ctx context.Context, limit int64) ([]Fight, error) {
	rows, err := q.db.QueryContext(ctx, listRecentCompletedFights, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var fights []Fight
	for rows.Next() {
		var f Fight
		if err := rows.Scan(&f.ID, &f.EventName, &f.Bout, &f.FightURL, &f.Status, &f.Winner); err != nil {
			return nil, err
		}
		fights = append(fights, f)
	}
	return fights, rows.Err()
}

const getMetaByFightURL = `
SELECT id, event_name, bout, winner, result, weight_class, method,
    round, time, time_format, referee, fight_url
FROM fight_meta_details WHERE fight_url = ?
`

func (q *Queries) GetMetaByFightURL(ctx context.Context, fightURL string) (FightMetaDetail, error) {
	row := q.db.QueryRowContext(ctx, getMetaByFightURL, fightURL)
	var m FightMetaDetail
	err := row.Scan(&m.ID, &m.EventName, &m.Bout, &m.Winner, &m.Result, &m.WeightClass,
		&m.Method, &m.Round, &m.Time, &m.TimeFormat, &m.Referee, &m.FightURL)
	return m, err
}

const createFightMeta = `
INSERT INTO fight_meta_details (event_name, bout, winner, result, weight_class,
    method, round, time, time_format, referee, fight_url)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
`

type CreateFightMetaParams struct {
	EventName   string
	Bout        string
	Winner      sql.NullString
	Result      string
	WeightClass string
	Method      string
	Round       string
	Time        string
	TimeFormat  string
	Referee     string
	FightURL    string
}

func (q *Queries) CreateFightMeta(ctx context.Context, arg CreateFightMetaParams) error {
	_, err := q.db.ExecContext(ctx, createFightMeta,
		arg.EventName, arg.Bout, arg.Winner, arg.Result, arg.WeightClass,
		arg.Method, arg.Round, arg.Time, arg.TimeFormat, arg.Referee, arg.FightURL)
	return err
}

const deleteMetaByFightURL = `
DELETE FROM fight_meta_details WHERE fight_url = ?
`

func (q *Queries) DeleteMetaByFightURL(ctx context.Context, fightURL string) error {
	_, err := q.db.ExecContext(ctx, deleteMetaByFightURL, fightURL)
	return err
}

const listFightsNeedingRoundStats = `
SELECT event_name, bout, fight_url, fight_status
FROM fight_scraping_status
WHERE fight_status IN ('missing', 'partial')
`

func (q *Queries) ListFightsNeedingRoundStats(ctx context.Context) ([]ScrapingStatus, error) {
	rows, err := q.db.QueryContext(ctx, listFightsNeedingRoundStats)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var tasks []ScrapingStatus
	for rows.Next() {
		var s ScrapingStatus
		if err := rows.Scan(&s.EventName, &s.Bout, &s.FightURL, &s.FightStatus); err != nil {
			return nil, err
		}
		tasks = append(tasks, s)
	}
	return tasks, rows.Err()
}

const deleteRoundStatsForFight = `
DELETE FROM round_fight_stats WHERE event_name = ? AND bout = ?
`

type DeleteRoundStatsForFightParams struct {
	EventName string
	Bout      string
}

func (q *Queries) DeleteRoundStatsForFight(ctx context.Context, arg DeleteRoundStatsForFightParams) error {
	_, err := q.db.ExecContext(ctx, deleteRoundStatsForFight, arg.EventName, arg.Bout)
	return err
}

const countRoundStatsForFight = `
SELECT COUNT(*) FROM round_fight_stats WHERE event_name = ? AND bout = ?
`

type CountRoundStatsForFightParams struct {
	EventName string
	Bout      string
}

func (q *Queries) CountRoundStatsForFight(ctx context.Context, arg CountRoundStatsForFightParams) (int64, error) {
	var count int64
	err := q.db.QueryRowContext(ctx, countRoundStatsForFight, arg.EventName, arg.Bout).Scan(&count)
	return count, err
}

const createRoundStat = `
INSERT INTO round_fight_stats (event_name, bout, fighter_name, round,
    kd, sig_strikes_landed, sig_strikes_attempted,
    total_strikes_landed, total_strikes_attempted,
    takedowns_landed, takedowns_attempted,
    sub_attempts, reversals, control_time, control_time_sec,
    sig_strikes_head_landed, sig_strikes_head_attempted,
    sig_strikes_body_landed, sig_strikes_body_attempted,
    sig_strikes_leg_landed, sig_strikes_leg_attempted,
    sig_strikes_distance_landed, sig_strikes_distance_attempted,
    sig_strikes_clinch_landed, sig_strikes_clinch_attempted,
    sig_strikes_ground_landed, sig_strikes_ground_attempted)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
`

type CreateRoundStatParams struct {
	EventName   string
	Bout        string
	FighterName string
	Round       int64

	Kd                    int64
	SigStrikesLanded      int64
	SigStrikesAttempted   int64
	TotalStrikesLanded    int64
	TotalStrikesAttempted int64
	TakedownsLanded       int64
	TakedownsAttempted    int64
	SubAttempts           int64
	Reversals             int64
	ControlTime           string
	ControlTimeSec        int64

	SigStrikesHeadLanded        int64
	SigStrikesHeadAttempted     int64
	SigStrikesBodyLanded        int64
	SigStrikesBodyAttempted     int64
	SigStrikesLegLanded         int64
	SigStrikesLegAttempted      int64
	SigStrikesDistanceLanded    int64
	SigStrikesDistanceAttempted int64
	SigStrikesClinchLanded      int64
	SigStrikesClinchAttempted   int64
	SigStrikesGroundLanded      int64
	SigStrikesGroundAttempted   int64
}

func (q *Queries) CreateRoundStat(ctx context.Context, arg CreateRoundStatParams) error {
	_, err := q.db.ExecContext(ctx, createRoundStat,
		arg.EventName, arg.Bout, arg.FighterName, arg.Round,
		arg.Kd, arg.SigStrikesLanded, arg.SigStrikesAttempted,
		arg.TotalStrikesLanded, arg.TotalStrikesAttempted,
		arg.TakedownsLanded, arg.TakedownsAttempted,
		arg.SubAttempts, arg.Reversals, arg.ControlTime, arg.ControlTimeSec,
		arg.SigStrikesHeadLanded, arg.SigStrikesHeadAttempted,
		arg.SigStrikesBodyLanded, arg.SigStrikesBodyAttempted,
		arg.SigStrikesLegLanded, arg.SigStrikesLegAttempted,
		arg.SigStrikesDistanceLanded, arg.SigStrikesDistanceAttempted,
		arg.SigStrikesClinchLanded, arg.SigStrikesClinchAttempted,
		arg.SigStrikesGroundLanded, arg.SigStrikesGroundAttempted)
	return err
}
