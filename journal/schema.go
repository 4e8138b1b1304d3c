package journal

const Schema = `
CREATE TABLE IF NOT EXISTS runs (
	run_id TEXT PRIMARY KEY,
	created DATETIME NOT NULL,
	mode TEXT NOT NULL,
	seed INTEGER NOT NULL,
	sessions INTEGER NOT NULL,
	config TEXT NOT NULL,
	outcome TEXT NOT NULL,
	trade_count INTEGER NOT NULL,
	final_capital REAL NOT NULL,
	optimal_risk REAL,
	notes TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS trades (
	run_id TEXT NOT NULL,
	idx INTEGER NOT NULL,
	win INTEGER NOT NULL,
	pnl REAL NOT NULL,
	capital_after REAL NOT NULL,
	max_capital REAL NOT NULL,
	min_allowed_balance REAL,
	PRIMARY KEY (run_id, idx)
);

CREATE TABLE IF NOT EXISTS summaries (
	run_id TEXT NOT NULL,
	risk_amount REAL NOT NULL,
	sessions_run INTEGER NOT NULL,
	target_hits INTEGER NOT NULL,
	drawdown_hits INTEGER NOT NULL,
	exhausted_hits INTEGER NOT NULL,
	win_rate REAL NOT NULL,
	loss_rate REAL NOT NULL,
	exhausted_rate REAL NOT NULL,
	avg_trades_to_target REAL NOT NULL,
	avg_trades_to_drawdown REAL NOT NULL,
	avg_final_capital REAL NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_runs_created ON runs(created);
CREATE INDEX IF NOT EXISTS idx_summaries_run ON summaries(run_id, risk_amount);
`
