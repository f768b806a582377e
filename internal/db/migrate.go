package db

import (
	"database/sql"
	"fmt"
	"strings"
)

// Migrate runs all schema migrations. Statements are idempotent and re-run
// on every open.
func Migrate(db *sql.DB) error {
	for i, stmt := range migrations {
		if _, err := db.Exec(stmt); err != nil {
			// Tolerate "duplicate column name" errors from ALTER TABLE
			// since the migration system re-runs all statements.
			if strings.Contains(err.Error(), "duplicate column name") {
				continue
			}
			return fmt.Errorf("migration %d: %w", i, err)
		}
	}
	return nil
}

var migrations = []string{
	`CREATE TABLE IF NOT EXISTS projects (
		id          TEXT PRIMARY KEY,
		short_id    TEXT NOT NULL DEFAULT '',
		name        TEXT NOT NULL,
		description TEXT NOT NULL DEFAULT '',
		start_date  TEXT,
		end_date    TEXT,
		deadline    TEXT,
		status      TEXT NOT NULL DEFAULT 'planning'
		            CHECK(status IN ('planning','active','on_hold','completed','archived')),
		created_at  TEXT NOT NULL,
		updated_at  TEXT NOT NULL
	)`,

	`CREATE UNIQUE INDEX IF NOT EXISTS idx_projects_short_id ON projects(short_id) WHERE short_id != ''`,

	`CREATE TABLE IF NOT EXISTS features (
		id               TEXT PRIMARY KEY,
		project_id       TEXT NOT NULL REFERENCES projects(id) ON DELETE CASCADE,
		parent_id        TEXT REFERENCES features(id) ON DELETE CASCADE,
		title            TEXT NOT NULL,
		description      TEXT NOT NULL DEFAULT '',
		status           TEXT NOT NULL DEFAULT 'idea'
		                 CHECK(status IN ('idea','specification','development','testing','live')),
		priority         TEXT NOT NULL DEFAULT 'medium'
		                 CHECK(priority IN ('low','medium','high','critical')),
		order_index      INTEGER NOT NULL DEFAULT 0,
		start_date       TEXT,
		end_date         TEXT,
		due_date         TEXT,
		estimated_hours  INTEGER,
		actual_hours     INTEGER,
		completed_at     TEXT,
		created_at       TEXT NOT NULL,
		updated_at       TEXT NOT NULL
	)`,

	`CREATE INDEX IF NOT EXISTS idx_features_project ON features(project_id)`,
	`CREATE INDEX IF NOT EXISTS idx_features_parent ON features(parent_id)`,

	`CREATE TABLE IF NOT EXISTS feature_dependencies (
		feature_id    TEXT NOT NULL REFERENCES features(id) ON DELETE CASCADE,
		depends_on_id TEXT NOT NULL REFERENCES features(id) ON DELETE CASCADE,
		created_at    TEXT NOT NULL,
		PRIMARY KEY (feature_id, depends_on_id),
		CHECK(feature_id != depends_on_id)
	)`,

	`CREATE INDEX IF NOT EXISTS idx_feature_dependencies_depends_on ON feature_dependencies(depends_on_id)`,

	// Placement hints for rows imported without a parent link.
	`ALTER TABLE features ADD COLUMN legacy_level INTEGER NOT NULL DEFAULT 0`,
	`ALTER TABLE features ADD COLUMN legacy_sub_count INTEGER NOT NULL DEFAULT 0`,
}
