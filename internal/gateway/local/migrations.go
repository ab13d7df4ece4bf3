package local

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

CREATE TABLE IF NOT EXISTS user_profiles (
	id         TEXT PRIMARY KEY,
	full_name  TEXT,
	email      TEXT NOT NULL UNIQUE,
	is_admin   INTEGER NOT NULL DEFAULT 0,
	created_at DATETIME NOT NULL,
	updated_at DATETIME NOT NULL
);

CREATE TABLE IF NOT EXISTS projects (
	id               TEXT PRIMARY KEY,
	assigned_user_id TEXT NOT NULL REFERENCES user_profiles(id),
	title            TEXT NOT NULL,
	description      TEXT,
	is_completed     INTEGER NOT NULL DEFAULT 0,
	created_by_admin INTEGER NOT NULL DEFAULT 1,
	created_at       DATETIME NOT NULL,
	updated_at       DATETIME NOT NULL
);

CREATE TABLE IF NOT EXISTS session (
	id      INTEGER PRIMARY KEY CHECK (id = 1),
	user_id TEXT REFERENCES user_profiles(id)
);

CREATE INDEX IF NOT EXISTS idx_projects_assignee ON projects(assigned_user_id);
CREATE INDEX IF NOT EXISTS idx_projects_completed ON projects(is_completed);
CREATE INDEX IF NOT EXISTS idx_projects_created_at ON projects(created_at);

INSERT INTO schema_version (version) VALUES (1);
`,
	},
}
