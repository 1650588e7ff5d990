package sqlite

import "fmt"

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

CREATE TABLE IF NOT EXISTS ledgers (
	user_id    TEXT PRIMARY KEY,
	updated_at DATETIME NOT NULL
);

CREATE TABLE IF NOT EXISTS notification_events (
	user_id       TEXT NOT NULL,
	id            TEXT NOT NULL,
	kind          TEXT NOT NULL,
	ticket_id     TEXT,
	ticket_number INTEGER NOT NULL DEFAULT 0,
	title         TEXT NOT NULL,
	message       TEXT NOT NULL,
	is_read       INTEGER NOT NULL DEFAULT 0,
	created_at    DATETIME NOT NULL,
	position      INTEGER NOT NULL,
	PRIMARY KEY (user_id, id)
);

CREATE TABLE IF NOT EXISTS seen_tickets (
	user_id   TEXT NOT NULL,
	ticket_id TEXT NOT NULL,
	PRIMARY KEY (user_id, ticket_id)
);

CREATE TABLE IF NOT EXISTS seen_tasks (
	user_id TEXT NOT NULL,
	task_id TEXT NOT NULL,
	PRIMARY KEY (user_id, task_id)
);

CREATE INDEX IF NOT EXISTS idx_events_user ON notification_events(user_id, position);
`,
	},
}

// runMigrations checks the current schema version and applies any
// outstanding migrations in order.
func (s *LedgerStore) runMigrations() error {
	currentVersion := 0

	// Check if schema_version table exists.
	var tableCount int
	err := s.db.Get(
		&tableCount,
		"SELECT COUNT(*) FROM sqlite_master WHERE type='table' AND name='schema_version'",
	)
	if err != nil {
		return fmt.Errorf("checking schema_version table: %w", err)
	}

	if tableCount > 0 {
		err = s.db.Get(&currentVersion, "SELECT COALESCE(MAX(version), 0) FROM schema_version")
		if err != nil {
			return fmt.Errorf("reading schema version: %w", err)
		}
	}

	for _, m := range migrations {
		if m.version <= currentVersion {
			continue
		}
		if _, err := s.db.Exec(m.sql); err != nil {
			return fmt.Errorf("applying migration %d: %w", m.version, err)
		}
		if _, err := s.db.Exec("INSERT INTO schema_version (version) VALUES (?)", m.version); err != nil {
			return fmt.Errorf("recording migration %d: %w", m.version, err)
		}
	}

	return nil
}
