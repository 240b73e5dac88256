package database

import (
	"database/sql"
	"fmt"
	"strings"

	_ "github.com/mattn/go-sqlite3"
)

// NewSQLiteDB opens a SQLite database. Use ":memory:" for an in-memory
// database; it is limited to one connection so every query sees the same data.
func NewSQLiteDB(path string) (*sql.DB, error) {
	dsn := path + "?_foreign_keys=on"
	if !strings.Contains(path, ":memory:") {
		dsn += "&_journal_mode=WAL&_busy_timeout=5000"
	}

	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	db.SetMaxOpenConns(1)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}
	return db, nil
}
