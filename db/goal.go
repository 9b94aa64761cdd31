package db

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/ysegev/wealth-tracker/pkg/models"
)

// SaveGoal inserts a new goal record
func (db *DB) SaveGoal(goal *models.Goal) error {
	query := `
	INSERT INTO goals (
		goal_id, user_id, name, target_amount, current_amount, deadline,
		category, currency, description, money_location_id, money_location_name,
		created_at, updated_at
	) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err := db.Exec(query,
		goal.ID,
		goal.UserID,
		goal.Name,
		goal.TargetAmount,
		goal.CurrentAmount,
		goal.Deadline,
		goal.Category,
		string(goal.Currency),
		goal.Description,
		goal.MoneyLocationID,
		goal.MoneyLocationName,
		goal.CreatedAt,
		goal.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to save goal: %w", err)
	}

	return nil
}

// UpdateGoal updates an existing goal record
func (db *DB) UpdateGoal(goal *models.Goal) error {
	query := `
	UPDATE goals SET
		name = ?, target_amount = ?, current_amount = ?, deadline = ?,
		category = ?, currency = ?, description = ?, money_location_id = ?,
		money_location_name = ?, updated_at = ?
	WHERE goal_id = ?
	`

	result, err := db.Exec(query,
		goal.Name,
		goal.TargetAmount,
		goal.CurrentAmount,
		goal.Deadline,
		goal.Category,
		string(goal.Currency),
		goal.Description,
		goal.MoneyLocationID,
		goal.MoneyLocationName,
		goal.UpdatedAt,
		goal.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update goal: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("no goal found with id: %s", goal.ID)
	}

	return nil
}

// UpdateGoalProgress updates only the current amount and updated timestamp of a goal
func (db *DB) UpdateGoalProgress(ctx context.Context, goalID string, currentAmount float64, updatedAt time.Time) error {
	query := `UPDATE goals SET current_amount = ?, updated_at = ? WHERE goal_id = ?`

	result, err := db.ExecContext(ctx, query, currentAmount, updatedAt, goalID)
	if err != nil {
		return fmt.Errorf("failed to update goal progress: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("no goal found with id: %s", goalID)
	}

	return nil
}

// GetGoal retrieves a goal by its ID, or nil if none exists
func (db *DB) GetGoal(id string) (*models.Goal, error) {
	query := `
	SELECT goal_id, user_id, name, target_amount, current_amount, deadline,
		category, currency, description, money_location_id, money_location_name,
		created_at, updated_at
	FROM goals WHERE goal_id = ?
	`

	goal, err := scanGoal(db.QueryRow(query, id))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get goal: %w", err)
	}

	return goal, nil
}

// GetGoals retrieves all goals for a user
func (db *DB) GetGoals(userID string) ([]models.Goal, error) {
	query := `
	SELECT goal_id, user_id, name, target_amount, current_amount, deadline,
		category, currency, description, money_location_id, money_location_name,
		created_at, updated_at
	FROM goals WHERE user_id = ? ORDER BY deadline
	`

	rows, err := db.Query(query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query goals: %w", err)
	}
	defer rows.Close()

	var goals []models.Goal
	for rows.Next() {
		goal, err := scanGoal(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan goal: %w", err)
		}
		goals = append(goals, *goal)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate goals: %w", err)
	}

	return goals, nil
}

// RemoveGoal deletes a goal record
func (db *DB) RemoveGoal(id string) error {
	result, err := db.Exec(`DELETE FROM goals WHERE goal_id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to remove goal: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("no goal found with id: %s", id)
	}

	return nil
}

func scanGoal(row rowScanner) (*models.Goal, error) {
	var (
		goal     models.Goal
		currency string
	)

	err := row.Scan(
		&goal.ID,
		&goal.UserID,
		&goal.Name,
		&goal.TargetAmount,
		&goal.CurrentAmount,
		&goal.Deadline,
		&goal.Category,
		&currency,
		&goal.Description,
		&goal.MoneyLocationID,
		&goal.MoneyLocationName,
		&goal.CreatedAt,
		&goal.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	goal.Currency = models.Currency(currency)

	return &goal, nil
}
