package db

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/ysegev/wealth-tracker/pkg/models"
)

// SaveMoneyLocation inserts a new money location record
func (db *DB) SaveMoneyLocation(location *models.MoneyLocation) error {
	query := `
	INSERT INTO money_locations (
		money_location_id, user_id, location_name, amount, currency, account_type,
		last_checked, property_address, purchase_date, purchase_price, notes
	) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err := db.Exec(query,
		location.ID,
		location.UserID,
		location.Name,
		location.Amount,
		string(location.Currency),
		string(location.AccountType),
		location.LastChecked,
		location.PropertyAddress,
		nullableTime(location.PurchaseDate),
		location.PurchasePrice,
		location.Notes,
	)
	if err != nil {
		return fmt.Errorf("failed to save money location: %w", err)
	}

	return nil
}

// UpdateMoneyLocation updates an existing money location record
func (db *DB) UpdateMoneyLocation(location *models.MoneyLocation) error {
	query := `
	UPDATE money_locations SET
		location_name = ?, amount = ?, currency = ?, account_type = ?,
		last_checked = ?, property_address = ?, purchase_date = ?, purchase_price = ?, notes = ?
	WHERE money_location_id = ?
	`

	result, err := db.Exec(query,
		location.Name,
		location.Amount,
		string(location.Currency),
		string(location.AccountType),
		location.LastChecked,
		location.PropertyAddress,
		nullableTime(location.PurchaseDate),
		location.PurchasePrice,
		location.Notes,
		location.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update money location: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("no money location found with id: %s", location.ID)
	}

	return nil
}

// GetMoneyLocation retrieves a money location by its ID, or nil if none exists
func (db *DB) GetMoneyLocation(id string) (*models.MoneyLocation, error) {
	query := `
	SELECT money_location_id, user_id, location_name, amount, currency, account_type,
		last_checked, property_address, purchase_date, purchase_price, notes
	FROM money_locations WHERE money_location_id = ?
	`

	location, err := scanMoneyLocation(db.QueryRow(query, id))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get money location: %w", err)
	}

	return location, nil
}

// GetMoneyLocations retrieves all money locations for a user
func (db *DB) GetMoneyLocations(userID string) ([]models.MoneyLocation, error) {
	query := `
	SELECT money_location_id, user_id, location_name, amount, currency, account_type,
		last_checked, property_address, purchase_date, purchase_price, notes
	FROM money_locations WHERE user_id = ? ORDER BY location_name
	`

	rows, err := db.Query(query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query money locations: %w", err)
	}
	defer rows.Close()

	var locations []models.MoneyLocation
	for rows.Next() {
		location, err := scanMoneyLocation(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan money location: %w", err)
		}
		locations = append(locations, *location)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate money locations: %w", err)
	}

	return locations, nil
}

// RemoveMoneyLocation deletes a money location and any files attached to it
func (db *DB) RemoveMoneyLocation(id string) error {
	if _, err := db.Exec(`DELETE FROM files WHERE money_location_id = ?`, id); err != nil {
		return fmt.Errorf("failed to remove attached files: %w", err)
	}

	result, err := db.Exec(`DELETE FROM money_locations WHERE money_location_id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to remove money location: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("no money location found with id: %s", id)
	}

	return nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func nullableTime(t *time.Time) sql.NullTime {
	if t == nil {
		return sql.NullTime{}
	}
	return sql.NullTime{Time: *t, Valid: true}
}

func scanMoneyLocation(row rowScanner) (*models.MoneyLocation, error) {
	var (
		location     models.MoneyLocation
		currency     string
		accountType  string
		purchaseDate sql.NullTime
	)

	err := row.Scan(
		&location.ID,
		&location.UserID,
		&location.Name,
		&location.Amount,
		&currency,
		&accountType,
		&location.LastChecked,
		&location.PropertyAddress,
		&purchaseDate,
		&location.PurchasePrice,
		&location.Notes,
	)
	if err != nil {
		return nil, err
	}

	location.Currency = models.Currency(currency)
	location.AccountType = models.AccountType(accountType)
	if purchaseDate.Valid {
		t := purchaseDate.Time
		location.PurchaseDate = &t
	}

	return &location, nil
}
