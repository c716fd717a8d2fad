package journal

const Schema = `
CREATE TABLE IF NOT EXISTS trades (
	trade_id TEXT PRIMARY KEY,
	run_id TEXT NOT NULL,
	symbol TEXT NOT NULL,
	timeframe TEXT NOT NULL,
	side TEXT NOT NULL,
	entry_price REAL NOT NULL,
	entry_time DATETIME NOT NULL,
	exit_price REAL NOT NULL,
	exit_time DATETIME NOT NULL,
	size REAL NOT NULL,
	leverage REAL NOT NULL,
	pnl REAL NOT NULL,
	balance_after REAL NOT NULL,
	return_pct REAL NOT NULL,
	reason TEXT NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_trades_run ON trades(run_id, exit_time);

CREATE TABLE IF NOT EXISTS runs (
	run_id TEXT PRIMARY KEY,
	created DATETIME NOT NULL,
	symbol TEXT NOT NULL,
	timeframe TEXT NOT NULL,
	strategy TEXT NOT NULL,
	dataset TEXT NOT NULL,
	policy TEXT NOT NULL,
	risk_per_trade REAL NOT NULL,
	max_leverage REAL NOT NULL,
	commission_rate REAL NOT NULL,
	min_risk_reward REAL NOT NULL,
	start_time DATETIME NOT NULL,
	end_time DATETIME NOT NULL,
	start_balance REAL NOT NULL,
	end_balance REAL NOT NULL,
	trades INTEGER NOT NULL,
	wins INTEGER NOT NULL,
	losses INTEGER NOT NULL,
	net_pl REAL NOT NULL,
	roi_pct REAL NOT NULL,
	win_rate REAL NOT NULL,
	profit_factor REAL NOT NULL,
	max_drawdown_pct REAL NOT NULL
);
`
