package journal

const Schema = `
CREATE TABLE IF NOT EXISTS signal_runs (
	run_id TEXT PRIMARY KEY,
	created DATETIME NOT NULL,
	strategy TEXT NOT NULL,
	pair TEXT NOT NULL,
	timeframe TEXT NOT NULL,
	dataset TEXT NOT NULL,
	config BLOB,
	start_time DATETIME,
	end_time DATETIME,
	row_count INTEGER NOT NULL,
	warmup_rows INTEGER NOT NULL,
	enter_long INTEGER NOT NULL,
	enter_short INTEGER NOT NULL,
	exit_long INTEGER NOT NULL,
	exit_short INTEGER NOT NULL
);

CREATE TABLE IF NOT EXISTS signal_rows (
	run_id TEXT NOT NULL REFERENCES signal_runs(run_id),
	time DATETIME NOT NULL,
	close REAL NOT NULL,
	volume REAL NOT NULL,
	ema9 REAL,
	ema21 REAL,
	macd REAL,
	macdsignal REAL,
	rsi REAL,
	adx REAL,
	bb_upperband REAL,
	bb_lowerband REAL,
	enter_long INTEGER NOT NULL,
	enter_short INTEGER NOT NULL,
	exit_long INTEGER NOT NULL,
	exit_short INTEGER NOT NULL,
	PRIMARY KEY (run_id, time)
);

CREATE INDEX IF NOT EXISTS idx_signal_runs_created ON signal_runs(created);
`
