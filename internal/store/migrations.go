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

CREATE TABLE IF NOT EXISTS cached_projects (
	id         TEXT PRIMARY KEY,
	position   INTEGER NOT NULL,
	payload    TEXT NOT NULL,
	fetched_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE TABLE IF NOT EXISTS cached_tasks (
	id         TEXT PRIMARY KEY,
	position   INTEGER NOT NULL,
	payload    TEXT NOT NULL,
	fetched_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE INDEX IF NOT EXISTS idx_cached_projects_position ON cached_projects(position);
CREATE INDEX IF NOT EXISTS idx_cached_tasks_position ON cached_tasks(position);

INSERT INTO schema_version (version) VALUES (1);
`,
	},
}
