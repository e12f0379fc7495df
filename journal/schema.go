package journal

const Schema = `
CREATE TABLE IF NOT EXISTS steps (
	step_id        TEXT PRIMARY KEY,
	time           TEXT NOT NULL,
	ticker         TEXT NOT NULL,
	action         TEXT NOT NULL,
	requested      REAL NOT NULL,
	executed       REAL NOT NULL,
	price          REAL NOT NULL,
	account_before REAL NOT NULL,
	account_after  REAL NOT NULL,
	holdings       REAL NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_steps_time ON steps(time);
CREATE INDEX IF NOT EXISTS idx_steps_ticker ON steps(ticker);
`
