package database

// Schema returns the DDL for a named database, or an empty string for
// unknown names. Test helpers use it to build in-memory databases.
func Schema(name string) string {
	return schemas[name]
}

// schemas maps database names to their DDL. Every statement is idempotent;
// Migrate runs the whole block in one transaction at startup.
var schemas = map[string]string{
	"wealth": `
CREATE TABLE IF NOT EXISTS users (
    id            TEXT PRIMARY KEY,
    email         TEXT NOT NULL UNIQUE,
    password_hash TEXT NOT NULL,
    full_name     TEXT NOT NULL DEFAULT '',
    created_at    TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE TABLE IF NOT EXISTS assets (
    id                  TEXT PRIMARY KEY,
    user_id             TEXT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
    asset_type          TEXT NOT NULL,
    name                TEXT NOT NULL,
    purchase_value      REAL NOT NULL DEFAULT 0,
    current_value       REAL NOT NULL DEFAULT 0,
    purchase_date       TIMESTAMP NOT NULL,
    metadata            TEXT NOT NULL DEFAULT '{}',
    sip_amount          REAL NOT NULL DEFAULT 0,
    sip_start_date      TIMESTAMP,
    sip_step_up_percent REAL NOT NULL DEFAULT 0,
    sip_active          INTEGER NOT NULL DEFAULT 0,
    created_at          TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
    updated_at          TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE INDEX IF NOT EXISTS idx_assets_user ON assets(user_id);
CREATE INDEX IF NOT EXISTS idx_assets_user_type ON assets(user_id, asset_type);

CREATE TABLE IF NOT EXISTS milestones (
    id            TEXT PRIMARY KEY,
    user_id       TEXT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
    name          TEXT NOT NULL,
    target_amount REAL NOT NULL,
    target_date   TIMESTAMP,
    achieved      INTEGER NOT NULL DEFAULT 0,
    achieved_at   TIMESTAMP,
    created_at    TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE INDEX IF NOT EXISTS idx_milestones_user ON milestones(user_id);
`,

	"history": `
CREATE TABLE IF NOT EXISTS net_worth_snapshots (
    id               TEXT PRIMARY KEY,
    user_id          TEXT NOT NULL,
    snapshot_date    DATE NOT NULL,
    total_net_worth  REAL NOT NULL,
    total_investment REAL NOT NULL,
    total_gain_loss  REAL NOT NULL,
    allocation       BLOB,
    created_at       TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
    UNIQUE(user_id, snapshot_date)
);

CREATE INDEX IF NOT EXISTS idx_snapshots_user_date ON net_worth_snapshots(user_id, snapshot_date);
`,

	"cache": `
CREATE TABLE IF NOT EXISTS gold_price_cache (
    purity        TEXT PRIMARY KEY,
    rate_per_gram REAL NOT NULL,
    currency      TEXT NOT NULL DEFAULT 'INR',
    source        TEXT NOT NULL DEFAULT '',
    fetched_at    TIMESTAMP NOT NULL,
    expires_at    TIMESTAMP NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_gold_cache_expires ON gold_price_cache(expires_at);
`,
}
