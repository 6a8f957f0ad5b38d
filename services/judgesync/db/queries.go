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

type JudgeScore struct {
	ID        int64
	EventName string
	Bout      string
	Date      string
	Judge     string
	Fighter   string
	Round     int64
	Score     int64
	Referee   string
}

const upsertJudgeScore = `
INSERT INTO judge_scores (event_name, bout, date, judge, fighter, round, score, referee)
VALUES (?, ?, ?, ?, ?, ?, ?, ?)
ON CONFLICT (bout, date, judge, fighter, round)
DO UPDATE SET score = excluded.score,
    referee = excluded.referee,
    event_name = excluded.event_name
`

type UpsertJudgeScoreParams struct {
	EventName string
	Bout      string
	Date      string
	Judge     string
	Fighter   string
	Round     int64
	Score     int64
	Referee   string
}

// UpsertJudgeScore writes a score row, replacing any previous row
// with the same natural key. Scores are immutable facts once
// published, so last write wins is safe.
func (q *Queries) UpsertJudgeScore(ctx context.Context, arg UpsertJudgeScoreParams) error {
	_, err := q.db.ExecContext(ctx, upsertJudgeScore,
		arg.EventName, arg.Bout, arg.Date, arg.Judge, arg.Fighter,
		arg.Round, arg.Score, arg.Referee)
	return err
}

const listBoutsForEvent = `
SELECT DISTINCT bout FROM judge_scores WHERE event_name = ?
`

func (q *Queries) ListBoutsForEvent(ctx context.Context, eventName string) ([]string, error) {
	rows, err := q.db.QueryContext(ctx, listBoutsForEvent, eventName)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var bouts []string
	for rows.Next() {
		var bout string
		if err := rows.Scan(&bout); err != nil {
			return nil, err
		}
		bouts = append(bouts, bout)
	}
	return bouts, rows.Err()
}

const listScoresForBout = `
SELECT id, event_name, bout, date, judge, fighter, round, score, referee
FROM judge_scores WHERE bout = ?
ORDER BY judge, round, fighter
`

func (q *Queries) ListScoresForBout(ctx context.Context, bout string) ([]JudgeScore, error) {
	rows, err := q.db.QueryContext(ctx, listScoresForBout, bout)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var scores []JudgeScore
	for rows.Next() {
		var s JudgeScore
		if err := rows.Scan(&s.ID, &s.EventName, &s.Bout, &s.Date, &s.Judge,
			&s.Fighter, &s.Round, &s.Score, &s.Referee); err != nil {
			return nil, err
		}
		scores = append(scores, s)
	}
	return scores, rows.Err()
}
