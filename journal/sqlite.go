package journal

import (
	"database/sql"
	"fmt"

	_ "github.com/mattn/go-sqlite3"
)

type SQLite struct {
	db *sql.DB
}

func NewSQLite(path string) (*SQLite, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, err
	}

	if _, err := db.Exec(Schema); err != nil {
		db.Close()
		return nil, err
	}

	return &SQLite{db: db}, nil
}

func (j *SQLite) RecordRun(r RunRecord) error {
	_, err := j.db.Exec(`
		INSERT INTO runs
		(run_id, created, source, contracts, seed, rate, volatility, workers, repeats,
		 min_ns, mean_ns, median_ns, p95_ns, max_ns, mean_call, mean_put, parity_error)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		r.RunID, r.Created, r.Source, r.Contracts, int64(r.Seed), r.Rate, r.Volatility,
		r.Workers, r.Repeat,
		int64(r.Min), int64(r.Mean), int64(r.Median), int64(r.P95), int64(r.Max),
		r.MeanCall, r.MeanPut, r.ParityError,
	)
	return err
}

// RecordQuotes inserts all quotes in a single transaction.
func (j *SQLite) RecordQuotes(qs []QuoteRecord) error {
	if len(qs) == 0 {
		return nil
	}

	tx, err := j.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	stmt, err := tx.Prepare(`
		INSERT INTO quotes (run_id, idx, spot, strike, maturity, call, put)
		VALUES (?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for _, q := range qs {
		if _, err := stmt.Exec(q.RunID, q.Index, q.Spot, q.Strike, q.Maturity, q.Call, q.Put); err != nil {
			return fmt.Errorf("quote %s/%d: %w", q.RunID, q.Index, err)
		}
	}
	return tx.Commit()
}

func (j *SQLite) Close() error {
	return j.db.Close()
}
