package db

import (
	"context"
	"time"

	"github.com/ysegev/wealth-tracker/pkg/models"
	"github.com/ysegev/wealth-tracker/pkg/services"
)

// Store defines the operations the application needs from the database,
// allowing for mocking in tests
type Store interface {
	// Lifecycle
	Initialize() error
	Close() error

	// Users
	CreateUser(user *models.User) error
	GetUserByUserName(userName string) (*models.User, error)
	GetUserByEmail(email string) (*models.User, error)

	// Money locations
	GetMoneyLocations(userID string) ([]models.MoneyLocation, error)
	GetMoneyLocation(id string) (*models.MoneyLocation, error)
	SaveMoneyLocation(location *models.MoneyLocation) error
	UpdateMoneyLocation(location *models.MoneyLocation) error
	RemoveMoneyLocation(id string) error

	// Goals
	GetGoals(userID string) ([]models.Goal, error)
	GetGoal(id string) (*models.Goal, error)
	SaveGoal(goal *models.Goal) error
	UpdateGoal(goal *models.Goal) error
	UpdateGoalProgress(ctx context.Context, goalID string, currentAmount float64, updatedAt time.Time) error
	RemoveGoal(id string) error

	// Files
	SaveFile(file *models.FileAttachment) error
	GetFiles(userID, moneyLocationID string) ([]models.FileAttachment, error)
	GetFile(userID, fileID string) (*models.FileAttachment, error)
	RenameFile(userID, fileID, newName string) error
	RemoveFile(userID, fileID string) error
}

// Ensure implementations satisfy the interfaces
var _ Store = (*DB)(nil)
var _ Store = (*MockStore)(nil)
var _ services.GoalStore = (*DB)(nil)
