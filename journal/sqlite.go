package journal

import (
	"context"
	"database/sql"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

type SQLiteJournal struct {
	db *sql.DB
}

func NewSQLite(path string) (*SQLiteJournal, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, err
	}

	if _, err := db.Exec(Schema); err != nil {
		db.Close()
		return nil, err
	}

	return &SQLiteJournal{db: db}, nil
}

func (j *SQLiteJournal) RecordStep(s StepRecord) error {
	_, err := j.db.Exec(`
		INSERT INTO steps
		(step_id, time, ticker, action, requested, executed, price, account_before, account_after, holdings)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		s.StepID, s.Time.Format(time.RFC3339Nano), s.Ticker, s.Action,
		s.Requested, s.Executed, s.Price,
		s.AccountBefore, s.AccountAfter, s.Holdings,
	)
	return err
}

// ListSteps returns every recorded step in insertion order. Step IDs are
// ULIDs, so ordering by ID is chronological.
func (j *SQLiteJournal) ListSteps(ctx context.Context) ([]StepRecord, error) {
	rows, err := j.db.QueryContext(ctx, `
		SELECT step_id, time, ticker, action, requested, executed, price, account_before, account_after, holdings
		FROM steps ORDER BY step_id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []StepRecord
	for rows.Next() {
		var s StepRecord
		var ts string
		err := rows.Scan(&s.StepID, &ts, &s.Ticker, &s.Action,
			&s.Requested, &s.Executed, &s.Price,
			&s.AccountBefore, &s.AccountAfter, &s.Holdings)
		if err != nil {
			return nil, err
		}
		if t, perr := time.Parse(time.RFC3339Nano, ts); perr == nil {
			s.Time = t
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

func (j *SQLiteJournal) Close() error {
	return j.db.Close()
}
