package journal

import (
	"database/sql"
	"errors"
	"fmt"
	"time"
)

const runColumns = `run_id, created, source, contracts, seed, rate, volatility, workers, repeats,
	min_ns, mean_ns, median_ns, p95_ns, max_ns, mean_call, mean_put, parity_error`

type scanner interface {
	Scan(dest ...any) error
}

func scanRun(s scanner) (RunRecord, error) {
	var (
		rec                                RunRecord
		seed                               int64
		minNs, meanNs, medNs, p95Ns, maxNs int64
	)
	err := s.Scan(
		&rec.RunID,
		&rec.Created,
		&rec.Source,
		&rec.Contracts,
		&seed,
		&rec.Rate,
		&rec.Volatility,
		&rec.Workers,
		&rec.Repeat,
		&minNs, &meanNs, &medNs, &p95Ns, &maxNs,
		&rec.MeanCall,
		&rec.MeanPut,
		&rec.ParityError,
	)
	if err != nil {
		return RunRecord{}, err
	}
	rec.Seed = uint64(seed)
	rec.Min = time.Duration(minNs)
	rec.Mean = time.Duration(meanNs)
	rec.Median = time.Duration(medNs)
	rec.P95 = time.Duration(p95Ns)
	rec.Max = time.Duration(maxNs)
	return rec, nil
}

// GetRun returns a single run by ID.
func (j *SQLite) GetRun(runID string) (RunRecord, error) {
	row := j.db.QueryRow(`SELECT `+runColumns+` FROM runs WHERE run_id = ?`, runID)

	rec, err := scanRun(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return RunRecord{}, fmt.Errorf("run %q not found", runID)
		}
		return RunRecord{}, err
	}
	return rec, nil
}

// ListRuns returns the most recent runs first. limit <= 0 returns all runs.
func (j *SQLite) ListRuns(limit int) ([]RunRecord, error) {
	if limit <= 0 {
		limit = -1
	}
	rows, err := j.db.Query(`SELECT `+runColumns+` FROM runs ORDER BY run_id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []RunRecord
	for rows.Next() {
		rec, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// ListQuotes returns the quotes journaled for a run in index order.
func (j *SQLite) ListQuotes(runID string) ([]QuoteRecord, error) {
	rows, err := j.db.Query(`
		SELECT run_id, idx, spot, strike, maturity, call, put
		FROM quotes
		WHERE run_id = ?
		ORDER BY idx ASC`, runID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []QuoteRecord
	for rows.Next() {
		var q QuoteRecord
		if err := rows.Scan(&q.RunID, &q.Index, &q.Spot, &q.Strike, &q.Maturity, &q.Call, &q.Put); err != nil {
			return nil, err
		}
		out = append(out, q)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}
