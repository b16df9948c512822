package database

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	"github.com/alimgiray/timetrack/pkg/logger"
	_ "github.com/mattn/go-sqlite3"
)

// Open opens (creating if needed) the SQLite store at path. The handle is
// limited to a single connection: the store has exactly one client and
// statements are issued sequentially.
func Open(path string) (*sql.DB, error) {
	if path == "" {
		return nil, fmt.Errorf("db path is required")
	}

	if path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, fmt.Errorf("create db directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite3", dsn(path))
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	if err = db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if err = optimizeDatabase(db, path); err != nil {
		db.Close()
		return nil, err
	}

	logger.WithField("path", path).Info("Database connected")

	return db, nil
}

func dsn(path string) string {
	if path == ":memory:" {
		return path
	}
	return "file:" + path + "?_journal_mode=WAL&_synchronous=NORMAL&_busy_timeout=30000"
}

// optimizeDatabase configures SQLite pragmas
func optimizeDatabase(db *sql.DB, path string) error {
	pragmas := []string{
		"PRAGMA synchronous=NORMAL",
		"PRAGMA temp_store=MEMORY",
		"PRAGMA busy_timeout=30000",
	}
	// WAL is meaningless for an in-memory store
	if path != ":memory:" {
		pragmas = append([]string{"PRAGMA journal_mode=WAL"}, pragmas...)
	}

	for _, pragma := range pragmas {
		if _, err := db.Exec(pragma); err != nil {
			return fmt.Errorf("%s: %w", pragma, err)
		}
	}

	return nil
}
