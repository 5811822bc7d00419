package coursedb

import (
	"database/sql"
	"fmt"

	"github.com/iamchris0/hsedeadlinerbot/internal/appconf"
)

// initDB creates a new SQLite database with tables for stored courses and
// their parsed sheet content.
func initDB(config Config) (*sql.DB, error) {
	if config.Env == appconf.Test && config.DBPath != ":memory:" {
		return nil, fmt.Errorf("test environment requires an in-memory database, got %q", config.DBPath)
	}

	db, err := sql.Open("sqlite", config.DBPath)
	if err != nil {
		return nil, fmt.Errorf("error opening database: %w", err)
	}

	// PRAGMAs are per-connection, and an in-memory DSN is a separate
	// database per connection. One connection handles this workload fine.
	db.SetMaxOpenConns(1)

	// Enable foreign keys
	_, err = db.Exec("PRAGMA foreign_keys = ON;")
	if err != nil {
		return nil, fmt.Errorf("error enabling foreign keys: %w", err)
	}

	// Create tables within a transaction
	tx, err := db.Begin()
	if err != nil {
		return nil, fmt.Errorf("error starting transaction: %w", err)
	}

	if err := createTables(tx); err != nil {
		tx.Rollback() // nolint:errcheck
		return nil, err
	}

	_, err = tx.Exec(`
		CREATE INDEX IF NOT EXISTS idx_assignments_chat_due ON assignments(chat_id, due_date);
	`)
	if err != nil {
		tx.Rollback() // nolint:errcheck
		return nil, fmt.Errorf("error creating indexes: %w", err)
	}

	if err = tx.Commit(); err != nil {
		return nil, fmt.Errorf("error committing transaction: %w", err)
	}

	return db, nil
}

func createTables(tx *sql.Tx) error {
	if err := createCoursesTable(tx); err != nil {
		return err
	}
	if err := createWeightsTable(tx); err != nil {
		return err
	}
	if err := createAssignmentsTable(tx); err != nil {
		return err
	}
	return createInfoRowsTable(tx)
}

// createTable creates a table in the database
func createTable(tx *sql.Tx, tableName string, createStmt string) error {
	_, err := tx.Exec(createStmt)
	if err != nil {
		return fmt.Errorf("error creating table %s: %w", tableName, err)
	}
	return nil
}
