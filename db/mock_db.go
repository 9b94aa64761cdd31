package db

import (
	"context"
	"fmt"
	"time"

	"github.com/ysegev/wealth-tracker/pkg/models"
)

// MockStore is an in-memory implementation of Store for testing
type MockStore struct {
	Users          map[string]*models.User
	MoneyLocations map[string]*models.MoneyLocation
	Goals          map[string]*models.Goal
	Files          map[string]*models.FileAttachment

	// Error fields for testing error conditions
	InitializeError    error
	CloseError         error
	UserError          error
	MoneyLocationError error
	GoalError          error
	GoalProgressError  error
	FileError          error
}

// NewMockStore creates a new mock store for testing
func NewMockStore() *MockStore {
	return &MockStore{
		Users:          make(map[string]*models.User),
		MoneyLocations: make(map[string]*models.MoneyLocation),
		Goals:          make(map[string]*models.Goal),
		Files:          make(map[string]*models.FileAttachment),
	}
}

// Initialize is a no-op for the mock store
func (m *MockStore) Initialize() error {
	return m.InitializeError
}

// Close is a no-op for the mock store
func (m *MockStore) Close() error {
	return m.CloseError
}

// CreateUser stores a user
func (m *MockStore) CreateUser(user *models.User) error {
	if m.UserError != nil {
		return m.UserError
	}
	m.Users[user.ID] = user
	return nil
}

// GetUserByUserName returns the user with the given username, or nil
func (m *MockStore) GetUserByUserName(userName string) (*models.User, error) {
	if m.UserError != nil {
		return nil, m.UserError
	}
	for _, user := range m.Users {
		if user.UserName == userName {
			return user, nil
		}
	}
	return nil, nil
}

// GetUserByEmail returns the user with the given email, or nil
func (m *MockStore) GetUserByEmail(email string) (*models.User, error) {
	if m.UserError != nil {
		return nil, m.UserError
	}
	for _, user := range m.Users {
		if user.Email == email {
			return user, nil
		}
	}
	return nil, nil
}

// GetMoneyLocations returns all money locations for a user
func (m *MockStore) GetMoneyLocations(userID string) ([]models.MoneyLocation, error) {
	if m.MoneyLocationError != nil {
		return nil, m.MoneyLocationError
	}
	var locations []models.MoneyLocation
	for _, location := range m.MoneyLocations {
		if location.UserID == userID {
			locations = append(locations, *location)
		}
	}
	return locations, nil
}

// GetMoneyLocation returns the money location with the given ID, or nil
func (m *MockStore) GetMoneyLocation(id string) (*models.MoneyLocation, error) {
	if m.MoneyLocationError != nil {
		return nil, m.MoneyLocationError
	}
	location, ok := m.MoneyLocations[id]
	if !ok {
		return nil, nil
	}
	return location, nil
}

// SaveMoneyLocation stores a money location
func (m *MockStore) SaveMoneyLocation(location *models.MoneyLocation) error {
	if m.MoneyLocationError != nil {
		return m.MoneyLocationError
	}
	m.MoneyLocations[location.ID] = location
	return nil
}

// UpdateMoneyLocation updates a stored money location
func (m *MockStore) UpdateMoneyLocation(location *models.MoneyLocation) error {
	if m.MoneyLocationError != nil {
		return m.MoneyLocationError
	}
	if _, ok := m.MoneyLocations[location.ID]; !ok {
		return fmt.Errorf("no money location found with id: %s", location.ID)
	}
	m.MoneyLocations[location.ID] = location
	return nil
}

// RemoveMoneyLocation deletes a money location and its files
func (m *MockStore) RemoveMoneyLocation(id string) error {
	if m.MoneyLocationError != nil {
		return m.MoneyLocationError
	}
	if _, ok := m.MoneyLocations[id]; !ok {
		return fmt.Errorf("no money location found with id: %s", id)
	}
	delete(m.MoneyLocations, id)
	for fileID, file := range m.Files {
		if file.MoneyLocationID == id {
			delete(m.Files, fileID)
		}
	}
	return nil
}

// GetGoals returns all goals for a user
func (m *MockStore) GetGoals(userID string) ([]models.Goal, error) {
	if m.GoalError != nil {
		return nil, m.GoalError
	}
	var goals []models.Goal
	for _, goal := range m.Goals {
		if goal.UserID == userID {
			goals = append(goals, *goal)
		}
	}
	return goals, nil
}

// GetGoal returns the goal with the given ID, or nil
func (m *MockStore) GetGoal(id string) (*models.Goal, error) {
	if m.GoalError != nil {
		return nil, m.GoalError
	}
	goal, ok := m.Goals[id]
	if !ok {
		return nil, nil
	}
	return goal, nil
}

// SaveGoal stores a goal
func (m *MockStore) SaveGoal(goal *models.Goal) error {
	if m.GoalError != nil {
		return m.GoalError
	}
	m.Goals[goal.ID] = goal
	return nil
}

// UpdateGoal updates a stored goal
func (m *MockStore) UpdateGoal(goal *models.Goal) error {
	if m.GoalError != nil {
		return m.GoalError
	}
	if _, ok := m.Goals[goal.ID]; !ok {
		return fmt.Errorf("no goal found with id: %s", goal.ID)
	}
	m.Goals[goal.ID] = goal
	return nil
}

// UpdateGoalProgress updates the current amount of a stored goal
func (m *MockStore) UpdateGoalProgress(ctx context.Context, goalID string, currentAmount float64, updatedAt time.Time) error {
	if m.GoalProgressError != nil {
		return m.GoalProgressError
	}
	goal, ok := m.Goals[goalID]
	if !ok {
		return fmt.Errorf("no goal found with id: %s", goalID)
	}
	goal.CurrentAmount = currentAmount
	goal.UpdatedAt = updatedAt
	return nil
}

// RemoveGoal deletes a goal
func (m *MockStore) RemoveGoal(id string) error {
	if m.GoalError != nil {
		return m.GoalError
	}
	if _, ok := m.Goals[id]; !ok {
		return fmt.Errorf("no goal found with id: %s", id)
	}
	delete(m.Goals, id)
	return nil
}

// SaveFile stores a file attachment
func (m *MockStore) SaveFile(file *models.FileAttachment) error {
	if m.FileError != nil {
		return m.FileError
	}
	m.Files[file.FileID] = file
	return nil
}

// GetFiles returns file metadata for a money location
func (m *MockStore) GetFiles(userID, moneyLocationID string) ([]models.FileAttachment, error) {
	if m.FileError != nil {
		return nil, m.FileError
	}
	var files []models.FileAttachment
	for _, file := range m.Files {
		if file.UserID == userID && file.MoneyLocationID == moneyLocationID {
			meta := *file
			meta.Data = nil
			files = append(files, meta)
		}
	}
	return files, nil
}

// GetFile returns the file with the given ID, or nil
func (m *MockStore) GetFile(userID, fileID string) (*models.FileAttachment, error) {
	if m.FileError != nil {
		return nil, m.FileError
	}
	file, ok := m.Files[fileID]
	if !ok || file.UserID != userID {
		return nil, nil
	}
	return file, nil
}

// RenameFile updates the display name of a stored file
func (m *MockStore) RenameFile(userID, fileID, newName string) error {
	if m.FileError != nil {
		return m.FileError
	}
	file, ok := m.Files[fileID]
	if !ok || file.UserID != userID {
		return fmt.Errorf("no file found with id: %s", fileID)
	}
	file.FileName = newName
	return nil
}

// RemoveFile deletes a stored file
func (m *MockStore) RemoveFile(userID, fileID string) error {
	if m.FileError != nil {
		return m.FileError
	}
	file, ok := m.Files[fileID]
	if !ok || file.UserID != userID {
		return fmt.Errorf("no file found with id: %s", fileID)
	}
	delete(m.Files, fileID)
	return nil
}
