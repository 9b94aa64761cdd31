package db

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/ysegev/wealth-tracker/pkg/models"
)

func setupTestDB(t *testing.T) *DB {
	tempFile, err := os.CreateTemp("", "test-db-*.db")
	if err != nil {
		t.Fatalf("Failed to create temp file: %v", err)
	}
	tempFile.Close()
	t.Cleanup(func() {
		os.Remove(tempFile.Name())
	})

	db, err := New(tempFile.Name())
	if err != nil {
		t.Fatalf("Failed to create database: %v", err)
	}

	err = db.Initialize()
	if err != nil {
		t.Fatalf("Failed to initialize database: %v", err)
	}

	return db
}

func testMoneyLocation(userID string) *models.MoneyLocation {
	return &models.MoneyLocation{
		ID:          "loc-1",
		UserID:      userID,
		Name:        "Checking Account",
		Amount:      1500.25,
		Currency:    models.USD,
		AccountType: models.AccountBank,
		LastChecked: time.Now().UTC().Truncate(time.Second),
	}
}

func TestInitializeCreatesTables(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	// Verify tables exist by inserting directly
	_, err := db.Exec("INSERT INTO users (user_id, full_name, user_name, email, password_hash) VALUES (?, ?, ?, ?, ?)",
		"u1", "Test User", "testuser", "test@example.com", "hash")
	assert.NoError(t, err)

	_, err = db.Exec("INSERT INTO money_locations (money_location_id, user_id, location_name, amount, currency, account_type) VALUES (?, ?, ?, ?, ?, ?)",
		"loc-x", "u1", "Cash", 100.0, "USD", "cash")
	assert.NoError(t, err)
}

func TestSaveAndGetMoneyLocation(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	location := testMoneyLocation("u1")
	err := db.SaveMoneyLocation(location)
	assert.NoError(t, err)

	got, err := db.GetMoneyLocation("loc-1")
	assert.NoError(t, err)
	assert.NotNil(t, got)
	assert.Equal(t, "Checking Account", got.Name)
	assert.Equal(t, 1500.25, got.Amount)
	assert.Equal(t, models.USD, got.Currency)
	assert.Equal(t, models.AccountBank, got.AccountType)
	assert.Nil(t, got.PurchaseDate)
}

func TestGetMoneyLocationNotFound(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	got, err := db.GetMoneyLocation("missing")
	assert.NoError(t, err)
	assert.Nil(t, got)
}

func TestSaveMoneyLocationWithPropertyFields(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	purchased := time.Date(2019, 6, 1, 0, 0, 0, 0, time.UTC)
	location := testMoneyLocation("u1")
	location.ID = "loc-house"
	location.Name = "Family Home"
	location.AccountType = models.AccountRealEstate
	location.PropertyAddress = "12 Herzl St"
	location.PurchaseDate = &purchased
	location.PurchasePrice = 950000

	err := db.SaveMoneyLocation(location)
	assert.NoError(t, err)

	got, err := db.GetMoneyLocation("loc-house")
	assert.NoError(t, err)
	assert.NotNil(t, got)
	assert.Equal(t, "12 Herzl St", got.PropertyAddress)
	assert.NotNil(t, got.PurchaseDate)
	assert.True(t, purchased.Equal(*got.PurchaseDate))
	assert.Equal(t, 950000.0, got.PurchasePrice)
}

func TestUpdateMoneyLocation(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	location := testMoneyLocation("u1")
	err := db.SaveMoneyLocation(location)
	assert.NoError(t, err)

	location.Amount = 2000
	location.Name = "Renamed Account"
	err = db.UpdateMoneyLocation(location)
	assert.NoError(t, err)

	got, err := db.GetMoneyLocation("loc-1")
	assert.NoError(t, err)
	assert.Equal(t, 2000.0, got.Amount)
	assert.Equal(t, "Renamed Account", got.Name)
}

func TestUpdateMoneyLocationNotFound(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	location := testMoneyLocation("u1")
	location.ID = "missing"
	err := db.UpdateMoneyLocation(location)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "no money location found")
}

func TestGetMoneyLocationsFiltersByUser(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	first := testMoneyLocation("u1")
	second := testMoneyLocation("u2")
	second.ID = "loc-2"
	assert.NoError(t, db.SaveMoneyLocation(first))
	assert.NoError(t, db.SaveMoneyLocation(second))

	locations, err := db.GetMoneyLocations("u1")
	assert.NoError(t, err)
	assert.Len(t, locations, 1)
	assert.Equal(t, "loc-1", locations[0].ID)
}

func TestRemoveMoneyLocationCascadesFiles(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	location := testMoneyLocation("u1")
	assert.NoError(t, db.SaveMoneyLocation(location))

	file := &models.FileAttachment{
		FileID:          "f1",
		UserID:          "u1",
		MoneyLocationID: "loc-1",
		OriginalName:    "deed.pdf",
		FileName:        "deed.pdf",
		Size:            4,
		MimeType:        "application/pdf",
		Data:            []byte("data"),
		UploadedAt:      time.Now().UTC(),
	}
	assert.NoError(t, db.SaveFile(file))

	err := db.RemoveMoneyLocation("loc-1")
	assert.NoError(t, err)

	got, err := db.GetMoneyLocation("loc-1")
	assert.NoError(t, err)
	assert.Nil(t, got)

	gotFile, err := db.GetFile("u1", "f1")
	assert.NoError(t, err)
	assert.Nil(t, gotFile)
}

func TestRemoveMoneyLocationNotFound(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	err := db.RemoveMoneyLocation("missing")
	assert.Error(t, err)
}

func TestCreateAndGetUser(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	user := &models.User{
		ID:           "u1",
		FullName:     "Test User",
		UserName:     "testuser",
		Email:        "test@example.com",
		PasswordHash: "hashed",
		CreatedAt:    time.Now().UTC().Truncate(time.Second),
	}
	err := db.CreateUser(user)
	assert.NoError(t, err)

	byName, err := db.GetUserByUserName("testuser")
	assert.NoError(t, err)
	assert.NotNil(t, byName)
	assert.Equal(t, "u1", byName.ID)
	assert.Equal(t, "hashed", byName.PasswordHash)

	byEmail, err := db.GetUserByEmail("test@example.com")
	assert.NoError(t, err)
	assert.NotNil(t, byEmail)
	assert.Equal(t, "u1", byEmail.ID)
}

func TestGetUserNotFound(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	user, err := db.GetUserByUserName("nobody")
	assert.NoError(t, err)
	assert.Nil(t, user)
}

func TestCreateUserDuplicateUserName(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	user := &models.User{ID: "u1", FullName: "A", UserName: "dup", Email: "a@example.com", PasswordHash: "h", CreatedAt: time.Now()}
	assert.NoError(t, db.CreateUser(user))

	other := &models.User{ID: "u2", FullName: "B", UserName: "dup", Email: "b@example.com", PasswordHash: "h", CreatedAt: time.Now()}
	err := db.CreateUser(other)
	assert.Error(t, err)
}

func testGoal(userID string) *models.Goal {
	now := time.Now().UTC().Truncate(time.Second)
	return &models.Goal{
		ID:            "g1",
		UserID:        userID,
		Name:          "Emergency Fund",
		TargetAmount:  10000,
		CurrentAmount: 2500,
		Deadline:      now.AddDate(1, 0, 0),
		Category:      "savings",
		Currency:      models.USD,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
}

func TestSaveAndGetGoal(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	goal := testGoal("u1")
	err := db.SaveGoal(goal)
	assert.NoError(t, err)

	got, err := db.GetGoal("g1")
	assert.NoError(t, err)
	assert.NotNil(t, got)
	assert.Equal(t, "Emergency Fund", got.Name)
	assert.Equal(t, 10000.0, got.TargetAmount)
	assert.Equal(t, 2500.0, got.CurrentAmount)
	assert.Equal(t, models.USD, got.Currency)
}

func TestUpdateGoalProgress(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	goal := testGoal("u1")
	assert.NoError(t, db.SaveGoal(goal))

	updatedAt := time.Now().UTC().Truncate(time.Second)
	err := db.UpdateGoalProgress(context.Background(), "g1", 3200, updatedAt)
	assert.NoError(t, err)

	got, err := db.GetGoal("g1")
	assert.NoError(t, err)
	assert.Equal(t, 3200.0, got.CurrentAmount)
	assert.True(t, updatedAt.Equal(got.UpdatedAt))
}

func TestUpdateGoalProgressNotFound(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	err := db.UpdateGoalProgress(context.Background(), "missing", 100, time.Now())
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "no goal found")
}

func TestGetGoalsFiltersByUser(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	first := testGoal("u1")
	second := testGoal("u2")
	second.ID = "g2"
	assert.NoError(t, db.SaveGoal(first))
	assert.NoError(t, db.SaveGoal(second))

	goals, err := db.GetGoals("u1")
	assert.NoError(t, err)
	assert.Len(t, goals, 1)
	assert.Equal(t, "g1", goals[0].ID)
}

func TestRemoveGoal(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	goal := testGoal("u1")
	assert.NoError(t, db.SaveGoal(goal))

	assert.NoError(t, db.RemoveGoal("g1"))

	got, err := db.GetGoal("g1")
	assert.NoError(t, err)
	assert.Nil(t, got)

	err = db.RemoveGoal("g1")
	assert.Error(t, err)
}

func TestSaveAndGetFileRoundTrip(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	data := []byte("the quick brown fox jumps over the lazy dog")
	file := &models.FileAttachment{
		FileID:          "f1",
		UserID:          "u1",
		MoneyLocationID: "loc-1",
		OriginalName:    "statement.pdf",
		FileName:        "statement.pdf",
		Size:            int64(len(data)),
		MimeType:        "application/pdf",
		Data:            data,
		UploadedAt:      time.Now().UTC().Truncate(time.Second),
	}
	err := db.SaveFile(file)
	assert.NoError(t, err)

	got, err := db.GetFile("u1", "f1")
	assert.NoError(t, err)
	assert.NotNil(t, got)
	assert.Equal(t, data, got.Data)
	assert.Equal(t, "statement.pdf", got.OriginalName)
	assert.Equal(t, int64(len(data)), got.Size)

	// Stored blob should be compressed, not the raw bytes
	var stored []byte
	err = db.QueryRow("SELECT file_data FROM files WHERE file_id = ?", "f1").Scan(&stored)
	assert.NoError(t, err)
	assert.NotEqual(t, data, stored)
}

func TestGetFileWrongUser(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	file := &models.FileAttachment{
		FileID: "f1", UserID: "u1", MoneyLocationID: "loc-1",
		OriginalName: "a.txt", FileName: "a.txt", Size: 1,
		MimeType: "text/plain", Data: []byte("a"), UploadedAt: time.Now(),
	}
	assert.NoError(t, db.SaveFile(file))

	got, err := db.GetFile("u2", "f1")
	assert.NoError(t, err)
	assert.Nil(t, got)
}

func TestGetFilesOmitsData(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	file := &models.FileAttachment{
		FileID: "f1", UserID: "u1", MoneyLocationID: "loc-1",
		OriginalName: "a.txt", FileName: "a.txt", Size: 1,
		MimeType: "text/plain", Data: []byte("a"), UploadedAt: time.Now(),
	}
	assert.NoError(t, db.SaveFile(file))

	files, err := db.GetFiles("u1", "loc-1")
	assert.NoError(t, err)
	assert.Len(t, files, 1)
	assert.Nil(t, files[0].Data)
	assert.Equal(t, "a.txt", files[0].FileName)
}

func TestRenameFile(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	file := &models.FileAttachment{
		FileID: "f1", UserID: "u1", MoneyLocationID: "loc-1",
		OriginalName: "a.txt", FileName: "a.txt", Size: 1,
		MimeType: "text/plain", Data: []byte("a"), UploadedAt: time.Now(),
	}
	assert.NoError(t, db.SaveFile(file))

	err := db.RenameFile("u1", "f1", "renamed.txt")
	assert.NoError(t, err)

	got, err := db.GetFile("u1", "f1")
	assert.NoError(t, err)
	assert.Equal(t, "renamed.txt", got.FileName)
	assert.Equal(t, "a.txt", got.OriginalName)

	err = db.RenameFile("u2", "f1", "nope.txt")
	assert.Error(t, err)
}

func TestRemoveFile(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	file := &models.FileAttachment{
		FileID: "f1", UserID: "u1", MoneyLocationID: "loc-1",
		OriginalName: "a.txt", FileName: "a.txt", Size: 1,
		MimeType: "text/plain", Data: []byte("a"), UploadedAt: time.Now(),
	}
	assert.NoError(t, db.SaveFile(file))

	assert.NoError(t, db.RemoveFile("u1", "f1"))

	got, err := db.GetFile("u1", "f1")
	assert.NoError(t, err)
	assert.Nil(t, got)
}
