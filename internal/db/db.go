package db

import (
	"database/sql"
	"fmt"
	"net/url"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"
)

// connPragmas apply to every pooled connection. Foreign keys carry the
// cascade from a feature to its sub-features and dependency edges.
var connPragmas = []struct {
	name, value string
	what        string
}{
	{"journal_mode", "WAL", "setting WAL mode"},
	{"busy_timeout", "2000", "setting busy timeout"},
	{"foreign_keys", "ON", "enabling foreign keys"},
}

// dsn passes connPragmas to the driver so connections opened later by the
// pool get them too.
func dsn(path string) string {
	if path == ":memory:" {
		return path
	}
	q := url.Values{}
	for _, p := range connPragmas {
		q.Add("_pragma", p.name+"("+p.value+")")
	}
	return path + "?" + q.Encode()
}

// OpenDB opens the trackline database at path and migrates it. ":memory:"
// gives a private database pinned to a single connection so every query
// sees the same schema.
func OpenDB(path string) (*sql.DB, error) {
	if path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, fmt.Errorf("creating db directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", dsn(path))
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}
	if path == ":memory:" {
		db.SetMaxOpenConns(1)
	}

	for _, p := range connPragmas {
		if _, err := db.Exec("PRAGMA " + p.name + " = " + p.value); err != nil {
			db.Close()
			return nil, fmt.Errorf("%s: %w", p.what, err)
		}
	}

	if err := Migrate(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("running migrations: %w", err)
	}
	return db, nil
}
