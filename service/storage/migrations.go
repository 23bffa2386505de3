package storage

const schemaV1 = `
CREATE TABLE IF NOT EXISTS runs (
    run_id             INTEGER PRIMARY KEY AUTOINCREMENT,
    run_uuid           TEXT UNIQUE NOT NULL,
    account_id         TEXT NOT NULL,
    run_timestamp      DATETIME DEFAULT CURRENT_TIMESTAMP,
    run_duration       INTEGER,
    regions_scanned    INTEGER DEFAULT 0,
    regions_failed     INTEGER DEFAULT 0,
    failed_regions     TEXT,
    total_findings     INTEGER DEFAULT 0,
    total_monthly_cost TEXT NOT NULL DEFAULT '0',
    status             TEXT NOT NULL,
    cli_version        TEXT,
    created_at         DATETIME DEFAULT CURRENT_TIMESTAMP
);

CREATE INDEX IF NOT EXISTS idx_runs_account_timestamp
    ON runs(account_id, run_timestamp);

CREATE TABLE IF NOT EXISTS findings (
    finding_id      INTEGER PRIMARY KEY AUTOINCREMENT,
    account_id      TEXT NOT NULL,
    finding_hash    TEXT NOT NULL,
    kind            TEXT NOT NULL,
    region          TEXT NOT NULL,
    resource_id     TEXT NOT NULL,
    display_name    TEXT,
    details         TEXT,
    monthly_cost    TEXT NOT NULL,
    first_seen      DATETIME NOT NULL,
    last_seen       DATETIME NOT NULL,
    resolved_at     DATETIME,
    status          TEXT DEFAULT 'OPEN',
    UNIQUE(account_id, finding_hash)
);

CREATE INDEX IF NOT EXISTS idx_findings_status ON findings(status);
CREATE INDEX IF NOT EXISTS idx_findings_kind ON findings(kind);

CREATE TABLE IF NOT EXISTS run_findings (
    id             INTEGER PRIMARY KEY AUTOINCREMENT,
    run_id         INTEGER NOT NULL,
    finding_hash   TEXT NOT NULL,
    kind           TEXT NOT NULL,
    region         TEXT NOT NULL,
    resource_id    TEXT NOT NULL,
    display_name   TEXT,
    monthly_cost   TEXT NOT NULL,
    status         TEXT NOT NULL,
    created_at     DATETIME DEFAULT CURRENT_TIMESTAMP,
    FOREIGN KEY (run_id) REFERENCES runs(run_id) ON DELETE CASCADE
);

CREATE INDEX IF NOT EXISTS idx_run_findings_run ON run_findings(run_id);
CREATE INDEX IF NOT EXISTS idx_run_findings_hash ON run_findings(finding_hash);
`
