package db

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	_ "github.com/mattn/go-sqlite3"
)

// DB represents the database connection
type DB struct {
	*sql.DB
}

// New creates a new database connection
func New(dbPath string) (*DB, error) {
	// Ensure directory exists
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create directory: %w", err)
	}

	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &DB{DB: db}, nil
}

// Initialize creates the necessary tables if they don't exist
func (db *DB) Initialize() error {
	if err := db.createUsersTable(); err != nil {
		return err
	}
	if err := db.createMoneyLocationsTable(); err != nil {
		return err
	}
	if err := db.createGoalsTable(); err != nil {
		return err
	}
	if err := db.createFilesTable(); err != nil {
		return err
	}
	return nil
}

func (db *DB) createMoneyLocationsTable() error {
	query := `
	CREATE TABLE IF NOT EXISTS money_locations (
		money_location_id TEXT PRIMARY KEY,
		user_id TEXT NOT NULL,
		location_name TEXT NOT NULL,
		amount REAL NOT NULL DEFAULT 0,
		currency TEXT NOT NULL,
		account_type TEXT NOT NULL,
		last_checked TIMESTAMP,
		property_address TEXT,
		purchase_date TIMESTAMP,
		purchase_price REAL,
		notes TEXT,
		created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
	)
	`

	_, err := db.Exec(query)
	if err != nil {
		return fmt.Errorf("failed to create money_locations table: %w", err)
	}

	return nil
}

func (db *DB) createGoalsTable() error {
	query := `
	CREATE TABLE IF NOT EXISTS goals (
		goal_id TEXT PRIMARY KEY,
		user_id TEXT NOT NULL,
		name TEXT NOT NULL,
		target_amount REAL NOT NULL,
		current_amount REAL NOT NULL DEFAULT 0,
		deadline TIMESTAMP NOT NULL,
		category TEXT,
		currency TEXT,
		description TEXT,
		money_location_id TEXT,
		money_location_name TEXT,
		created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
		updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
	)
	`

	_, err := db.Exec(query)
	if err != nil {
		return fmt.Errorf("failed to create goals table: %w", err)
	}

	return nil
}
