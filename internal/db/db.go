package db

import (
	"database/sql"
	"fmt"
	"net/url"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"
)

const memoryPath = ":memory:"

var pragmas = [][2]string{
	{"journal_mode", "WAL"},
	{"foreign_keys", "1"},
	{"busy_timeout", "5000"},
}

// OpenDB opens the local taskflow store at path and brings its schema up
// to date. File stores carry their pragmas in the DSN so every pooled
// connection enforces foreign keys. ":memory:" opens a private store pinned
// to a single connection, since a new connection would see an empty database.
func OpenDB(path string) (*sql.DB, error) {
	dsn := path
	if path != memoryPath {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, fmt.Errorf("creating db directory: %w", err)
		}
		q := make(url.Values)
		for _, p := range pragmas {
			q.Add("_pragma", fmt.Sprintf("%s(%s)", p[0], p[1]))
		}
		dsn = path + "?" + q.Encode()
	}

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}
	if path == memoryPath {
		db.SetMaxOpenConns(1)
		for _, p := range pragmas {
			if _, err := db.Exec(fmt.Sprintf("PRAGMA %s = %s", p[0], p[1])); err != nil {
				db.Close()
				return nil, fmt.Errorf("applying pragma %s: %w", p[0], err)
			}
		}
	}

	if err := Migrate(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("running migrations: %w", err)
	}
	return db, nil
}
