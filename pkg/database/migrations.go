package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/alimgiray/timetrack/pkg/logger"
	"github.com/sirupsen/logrus"
)

// Migration is one additive schema step. Statements must be safe to re-run:
// "duplicate column" and "already exists" failures are treated as success.
type Migration struct {
	Version    int
	Name       string
	Statements []string
}

// baseSchema creates the tables as the first release shipped them.
// timers.project_id has no FOREIGN KEY; timers outlive their project.
var baseSchema = []string{
	`CREATE TABLE IF NOT EXISTS projects (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		name TEXT NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS timers (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		project_id INTEGER,
		start_time TEXT,
		end_time TEXT,
		duration INTEGER,
		task_description TEXT
	)`,
	`CREATE TABLE IF NOT EXISTS schema_version (
		id INTEGER PRIMARY KEY CHECK (id = 1),
		version INTEGER NOT NULL
	)`,
}

// Migrations is the ordered list of steps bringing a store to the current schema
var Migrations = []Migration{
	{
		Version:    1,
		Name:       "add projects.is_billable",
		Statements: []string{`ALTER TABLE projects ADD COLUMN is_billable INTEGER NOT NULL DEFAULT 0`},
	},
	{
		Version:    2,
		Name:       "add projects.hourly_rate",
		Statements: []string{`ALTER TABLE projects ADD COLUMN hourly_rate REAL`},
	},
	{
		Version:    3,
		Name:       "add timers.amount_earned",
		Statements: []string{`ALTER TABLE timers ADD COLUMN amount_earned REAL`},
	},
	{
		Version: 4,
		Name:    "index timers by start_time and project_id",
		Statements: []string{
			`CREATE INDEX IF NOT EXISTS idx_timers_start_time ON timers(start_time)`,
			`CREATE INDEX IF NOT EXISTS idx_timers_project_id ON timers(project_id)`,
		},
	},
}

// CurrentVersion is the schema version a fully migrated store reports
func CurrentVersion() int {
	return Migrations[len(Migrations)-1].Version
}

// MigrationError aborts startup
type MigrationError struct {
	Version int
	Name    string
	Err     error
}

func (e *MigrationError) Error() string {
	if e.Version == 0 {
		return fmt.Sprintf("initialize schema: %v", e.Err)
	}
	return fmt.Sprintf("migration %d (%s): %v", e.Version, e.Name, e.Err)
}

func (e *MigrationError) Unwrap() error {
	return e.Err
}

type Migrator struct {
	db         *sql.DB
	migrations []Migration
}

func NewMigrator(db *sql.DB) *Migrator {
	return &Migrator{db: db, migrations: Migrations}
}

// NewMigratorWithSteps builds a migrator over a custom step list
func NewMigratorWithSteps(db *sql.DB, migrations []Migration) *Migrator {
	return &Migrator{db: db, migrations: migrations}
}

// Migrate creates missing tables, then applies every step above the stored
// version in order. It returns the version the store is at afterwards.
func (m *Migrator) Migrate(ctx context.Context) (int, error) {
	for _, stmt := range baseSchema {
		if _, err := m.db.ExecContext(ctx, stmt); err != nil {
			return 0, &MigrationError{Err: err}
		}
	}

	current, err := m.Version(ctx)
	if err != nil {
		return 0, &MigrationError{Err: err}
	}

	log := logger.WithField("stored_version", current)
	log.Debug("Checking schema version")

	for _, step := range m.migrations {
		if step.Version <= current {
			continue
		}
		if err := m.apply(ctx, step); err != nil {
			return current, err
		}
		current = step.Version
	}

	if target := m.target(); current > target {
		log.Warnf("Store schema version %d is newer than supported version %d", current, target)
	}

	return current, nil
}

// Version reads the stored schema version; an absent marker means 0
func (m *Migrator) Version(ctx context.Context) (int, error) {
	var version int
	err := m.db.QueryRowContext(ctx, `SELECT version FROM schema_version WHERE id = 1`).Scan(&version)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("read schema version: %w", err)
	}
	return version, nil
}

func (m *Migrator) apply(ctx context.Context, step Migration) error {
	tx, err := m.db.BeginTx(ctx, nil)
	if err != nil {
		return &MigrationError{Version: step.Version, Name: step.Name, Err: err}
	}
	defer tx.Rollback()

	for _, stmt := range step.Statements {
		if _, err := tx.ExecContext(ctx, stmt); err != nil {
			if !isIdempotentError(err) {
				return &MigrationError{Version: step.Version, Name: step.Name, Err: err}
			}
			logger.WithFields(logrus.Fields{
				"version": step.Version,
				"error":   err.Error(),
			}).Debug("Migration statement already applied")
		}
	}

	if _, err := tx.ExecContext(ctx,
		`INSERT INTO schema_version (id, version) VALUES (1, ?)
		 ON CONFLICT(id) DO UPDATE SET version = excluded.version`,
		step.Version,
	); err != nil {
		return &MigrationError{Version: step.Version, Name: step.Name, Err: err}
	}

	if err := tx.Commit(); err != nil {
		return &MigrationError{Version: step.Version, Name: step.Name, Err: err}
	}

	logger.WithFields(logrus.Fields{
		"version": step.Version,
		"name":    step.Name,
	}).Info("Applied migration")

	return nil
}

func (m *Migrator) target() int {
	if len(m.migrations) == 0 {
		return 0
	}
	return m.migrations[len(m.migrations)-1].Version
}

func isIdempotentError(err error) bool {
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "duplicate column name") || strings.Contains(msg, "already exists")
}
