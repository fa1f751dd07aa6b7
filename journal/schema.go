package journal

const Schema = `
CREATE TABLE IF NOT EXISTS runs (
	run_id TEXT PRIMARY KEY,
	created DATETIME NOT NULL,
	source TEXT NOT NULL,
	contracts INTEGER NOT NULL,
	seed INTEGER NOT NULL,
	rate REAL NOT NULL,
	volatility REAL NOT NULL,
	workers INTEGER NOT NULL,
	repeats INTEGER NOT NULL,
	min_ns INTEGER NOT NULL,
	mean_ns INTEGER NOT NULL,
	median_ns INTEGER NOT NULL,
	p95_ns INTEGER NOT NULL,
	max_ns INTEGER NOT NULL,
	mean_call REAL NOT NULL,
	mean_put REAL NOT NULL,
	parity_error REAL NOT NULL
);

CREATE TABLE IF NOT EXISTS quotes (
	run_id TEXT NOT NULL,
	idx INTEGER NOT NULL,
	spot REAL NOT NULL,
	strike REAL NOT NULL,
	maturity REAL NOT NULL,
	call REAL NOT NULL,
	put REAL NOT NULL,
	PRIMARY KEY (run_id, idx)
);

CREATE INDEX IF NOT EXISTS idx_runs_created ON runs(created);
`
