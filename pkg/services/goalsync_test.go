package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/ysegev/wealth-tracker/pkg/models"
)

// mockGoalStore is a hand-rolled GoalStore for tests.
type mockGoalStore struct {
	updates map[string]float64
	// errFor returns the error for a specific goal ID.
	errFor map[string]error
}

func newMockGoalStore() *mockGoalStore {
	return &mockGoalStore{
		updates: make(map[string]float64),
		errFor:  make(map[string]error),
	}
}

func (m *mockGoalStore) UpdateGoalProgress(ctx context.Context, goalID string, currentAmount float64, updatedAt time.Time) error {
	if err := m.errFor[goalID]; err != nil {
		return err
	}
	m.updates[goalID] = currentAmount
	return nil
}

func linkedGoal(id, locationID string, currentAmount float64, currency models.Currency) models.Goal {
	return models.Goal{
		ID:              id,
		UserID:          "user-1",
		Name:            "Goal " + id,
		TargetAmount:    1000,
		CurrentAmount:   currentAmount,
		Deadline:        time.Now().AddDate(1, 0, 0),
		Category:        "savings",
		Currency:        currency,
		MoneyLocationID: locationID,
	}
}

func TestSyncUpdatesLinkedGoal(t *testing.T) {
	store := newMockGoalStore()
	syncer := NewGoalSyncer(store, testConverter(map[string]float64{"USD": 1}))

	goals := []models.Goal{linkedGoal("g1", "m1", 50, models.USD)}
	locations := []models.MoneyLocation{testLocation("m1", 200, models.USD, models.AccountBank)}

	synced, err := syncer.Sync(context.Background(), goals, locations)
	if err != nil {
		t.Fatalf("Failed to sync: %v", err)
	}

	if synced[0].CurrentAmount != 200 {
		t.Errorf("Expected current amount 200, got %f", synced[0].CurrentAmount)
	}
	if store.updates["g1"] != 200 {
		t.Errorf("Expected persisted amount 200, got %f", store.updates["g1"])
	}
	if synced[0].UpdatedAt.IsZero() {
		t.Error("Expected updated_at to be bumped")
	}

	// The input slice stays untouched.
	if goals[0].CurrentAmount != 50 {
		t.Errorf("Expected input goal unchanged, got %f", goals[0].CurrentAmount)
	}
}

func TestSyncConvertsIntoGoalCurrency(t *testing.T) {
	store := newMockGoalStore()
	syncer := NewGoalSyncer(store, testConverter(map[string]float64{"USD": 1, "EUR": 0.85, "ILS": 3.4}))

	goals := []models.Goal{linkedGoal("g1", "m1", 0, models.ILS)}
	locations := []models.MoneyLocation{testLocation("m1", 85, models.EUR, models.AccountBank)}

	synced, err := syncer.Sync(context.Background(), goals, locations)
	if err != nil {
		t.Fatalf("Failed to sync: %v", err)
	}

	expected := 85 / 0.85 * 3.4 // 340 ILS
	if !closeEnough(synced[0].CurrentAmount, expected) {
		t.Errorf("Expected current amount %f, got %f", expected, synced[0].CurrentAmount)
	}
}

func TestSyncDefaultsGoalCurrencyToUSD(t *testing.T) {
	store := newMockGoalStore()
	syncer := NewGoalSyncer(store, testConverter(map[string]float64{"USD": 1, "EUR": 0.85}))

	goals := []models.Goal{linkedGoal("g1", "m1", 0, "")}
	locations := []models.MoneyLocation{testLocation("m1", 85, models.EUR, models.AccountBank)}

	synced, err := syncer.Sync(context.Background(), goals, locations)
	if err != nil {
		t.Fatalf("Failed to sync: %v", err)
	}

	if !closeEnough(synced[0].CurrentAmount, 100) {
		t.Errorf("Expected 100 USD, got %f", synced[0].CurrentAmount)
	}
}

func TestSyncSkipsUnlinkedGoals(t *testing.T) {
	store := newMockGoalStore()
	syncer := NewGoalSyncer(store, testConverter(map[string]float64{"USD": 1}))

	goals := []models.Goal{linkedGoal("g1", "", 50, models.USD)}
	locations := []models.MoneyLocation{testLocation("m1", 200, models.USD, models.AccountBank)}

	synced, err := syncer.Sync(context.Background(), goals, locations)
	if err != nil {
		t.Fatalf("Failed to sync: %v", err)
	}

	if synced[0].CurrentAmount != 50 {
		t.Errorf("Expected unlinked goal unchanged, got %f", synced[0].CurrentAmount)
	}
	if len(store.updates) != 0 {
		t.Errorf("Expected no persisted updates, got %d", len(store.updates))
	}
}

func TestSyncLeavesGoalWithMissingLocationUntouched(t *testing.T) {
	store := newMockGoalStore()
	syncer := NewGoalSyncer(store, testConverter(map[string]float64{"USD": 1}))

	goals := []models.Goal{linkedGoal("g1", "deleted-location", 50, models.USD)}
	locations := []models.MoneyLocation{testLocation("m1", 200, models.USD, models.AccountBank)}

	synced, err := syncer.Sync(context.Background(), goals, locations)
	if err != nil {
		t.Fatalf("Failed to sync: %v", err)
	}

	if synced[0].CurrentAmount != 50 {
		t.Errorf("Expected goal unchanged, got %f", synced[0].CurrentAmount)
	}
	if len(store.updates) != 0 {
		t.Errorf("Expected no persisted updates, got %d", len(store.updates))
	}
}

func TestSyncSkipsGoalsAlreadyInSync(t *testing.T) {
	store := newMockGoalStore()
	syncer := NewGoalSyncer(store, testConverter(map[string]float64{"USD": 1}))

	goals := []models.Goal{linkedGoal("g1", "m1", 200, models.USD)}
	locations := []models.MoneyLocation{testLocation("m1", 200, models.USD, models.AccountBank)}

	if _, err := syncer.Sync(context.Background(), goals, locations); err != nil {
		t.Fatalf("Failed to sync: %v", err)
	}
	if len(store.updates) != 0 {
		t.Errorf("Expected no update for an in-sync goal, got %d", len(store.updates))
	}
}

func TestSyncNoLocationsIsNoop(t *testing.T) {
	store := newMockGoalStore()
	syncer := NewGoalSyncer(store, testConverter(map[string]float64{"USD": 1}))

	goals := []models.Goal{linkedGoal("g1", "m1", 50, models.USD)}

	synced, err := syncer.Sync(context.Background(), goals, nil)
	if err != nil {
		t.Fatalf("Failed to sync: %v", err)
	}
	if synced[0].CurrentAmount != 50 {
		t.Errorf("Expected goal unchanged, got %f", synced[0].CurrentAmount)
	}
}

func TestSyncContinuesPastPersistenceFailure(t *testing.T) {
	store := newMockGoalStore()
	store.errFor["g1"] = errors.New("disk full")
	syncer := NewGoalSyncer(store, testConverter(map[string]float64{"USD": 1}))

	goals := []models.Goal{
		linkedGoal("g1", "m1", 50, models.USD),
		linkedGoal("g2", "m2", 10, models.USD),
	}
	locations := []models.MoneyLocation{
		testLocation("m1", 200, models.USD, models.AccountBank),
		testLocation("m2", 75, models.USD, models.AccountCash),
	}

	synced, err := syncer.Sync(context.Background(), goals, locations)
	if err != nil {
		t.Fatalf("Expected best-effort sync to succeed, got %v", err)
	}

	// g1 keeps its old value, g2 still gets updated.
	if synced[0].CurrentAmount != 50 {
		t.Errorf("Expected failed goal unchanged, got %f", synced[0].CurrentAmount)
	}
	if synced[1].CurrentAmount != 75 {
		t.Errorf("Expected second goal updated to 75, got %f", synced[1].CurrentAmount)
	}
	if store.updates["g2"] != 75 {
		t.Errorf("Expected persisted amount 75 for g2, got %f", store.updates["g2"])
	}
}

func TestSyncAbortsOnExpiredAuthentication(t *testing.T) {
	store := newMockGoalStore()
	store.errFor["g1"] = models.ErrAuthenticationExpired
	syncer := NewGoalSyncer(store, testConverter(map[string]float64{"USD": 1}))

	goals := []models.Goal{
		linkedGoal("g1", "m1", 50, models.USD),
		linkedGoal("g2", "m2", 10, models.USD),
	}
	locations := []models.MoneyLocation{
		testLocation("m1", 200, models.USD, models.AccountBank),
		testLocation("m2", 75, models.USD, models.AccountCash),
	}

	_, err := syncer.Sync(context.Background(), goals, locations)
	if !errors.Is(err, models.ErrAuthenticationExpired) {
		t.Fatalf("Expected ErrAuthenticationExpired, got %v", err)
	}

	// The loop aborted before reaching g2.
	if _, ok := store.updates["g2"]; ok {
		t.Error("Expected no further goals processed after an auth failure")
	}
}

func TestSyncSkipsGoalWithUnconvertibleCurrency(t *testing.T) {
	store := newMockGoalStore()
	syncer := NewGoalSyncer(store, testConverter(map[string]float64{"USD": 1}))

	goals := []models.Goal{
		linkedGoal("g1", "m1", 50, models.USD),
		linkedGoal("g2", "m2", 10, models.USD),
	}
	locations := []models.MoneyLocation{
		testLocation("m1", 200, "BTC", models.AccountBank),
		testLocation("m2", 75, models.USD, models.AccountCash),
	}

	synced, err := syncer.Sync(context.Background(), goals, locations)
	if err != nil {
		t.Fatalf("Failed to sync: %v", err)
	}

	if synced[0].CurrentAmount != 50 {
		t.Errorf("Expected unconvertible goal unchanged, got %f", synced[0].CurrentAmount)
	}
	if synced[1].CurrentAmount != 75 {
		t.Errorf("Expected second goal updated, got %f", synced[1].CurrentAmount)
	}
}
