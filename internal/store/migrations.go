package store

// migration holds a single schema migration with its target version and SQL.
type migration struct {
	version int
	sql     string
}

// migrations is the ordered list of schema migrations.
// Each migration's version must be sequential starting from 1.
var migrations = []migration{
	{
		version: 1,
		sql: `
CREATE TABLE IF NOT EXISTS schema_version (
	version INTEGER NOT NULL
);

CREATE TABLE IF NOT EXISTS runs (
	id                TEXT PRIMARY KEY,
	input_folder      TEXT NOT NULL,
	output_folder     TEXT NOT NULL,
	total_files       INTEGER NOT NULL DEFAULT 0,
	successful        INTEGER NOT NULL DEFAULT 0,
	failed            INTEGER NOT NULL DEFAULT 0,
	cancelled         INTEGER NOT NULL DEFAULT 0 CHECK(cancelled IN (0, 1)),
	address_book_path TEXT NOT NULL DEFAULT '',
	report_path       TEXT NOT NULL DEFAULT '',
	created_at        DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE TABLE IF NOT EXISTS run_files (
	id          TEXT PRIMARY KEY,
	run_id      TEXT NOT NULL REFERENCES runs(id) ON DELETE CASCADE,
	source_file TEXT NOT NULL,
	output_path TEXT NOT NULL DEFAULT '',
	success     INTEGER NOT NULL DEFAULT 0 CHECK(success IN (0, 1)),
	error       TEXT NOT NULL DEFAULT ''
);

CREATE TABLE IF NOT EXISTS contacts (
	email      TEXT PRIMARY KEY,
	name       TEXT NOT NULL DEFAULT '',
	type       TEXT NOT NULL DEFAULT '',
	first_seen DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE INDEX IF NOT EXISTS idx_run_files_run_id ON run_files(run_id);
CREATE INDEX IF NOT EXISTS idx_runs_created_at ON runs(created_at);

INSERT INTO schema_version (version) VALUES (1);
`,
	},
}
