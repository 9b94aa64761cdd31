package db

import (
	"database/sql"
	"fmt"

	"github.com/ysegev/wealth-tracker/pkg/models"
)

func (db *DB) createUsersTable() error {
	query := `
	CREATE TABLE IF NOT EXISTS users (
		user_id TEXT PRIMARY KEY,
		full_name TEXT NOT NULL,
		user_name TEXT NOT NULL UNIQUE,
		email TEXT NOT NULL UNIQUE,
		password_hash TEXT NOT NULL,
		created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
	)
	`

	_, err := db.Exec(query)
	if err != nil {
		return fmt.Errorf("failed to create users table: %w", err)
	}

	return nil
}

// CreateUser inserts a new user record
func (db *DB) CreateUser(user *models.User) error {
	query := `
	INSERT INTO users (user_id, full_name, user_name, email, password_hash, created_at)
	VALUES (?, ?, ?, ?, ?, ?)
	`

	_, err := db.Exec(query, user.ID, user.FullName, user.UserName, user.Email, user.PasswordHash, user.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to create user: %w", err)
	}

	return nil
}

// GetUserByUserName retrieves a user by their username, or nil if none exists
func (db *DB) GetUserByUserName(userName string) (*models.User, error) {
	query := `
	SELECT user_id, full_name, user_name, email, password_hash, created_at
	FROM users WHERE user_name = ?
	`

	return db.scanUser(db.QueryRow(query, userName))
}

// GetUserByEmail retrieves a user by their email address, or nil if none exists
func (db *DB) GetUserByEmail(email string) (*models.User, error) {
	query := `
	SELECT user_id, full_name, user_name, email, password_hash, created_at
	FROM users WHERE email = ?
	`

	return db.scanUser(db.QueryRow(query, email))
}

func (db *DB) scanUser(row *sql.Row) (*models.User, error) {
	var user models.User
	err := row.Scan(&user.ID, &user.FullName, &user.UserName, &user.Email, &user.PasswordHash, &user.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	return &user, nil
}
