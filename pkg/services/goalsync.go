package services

import (
	"context"
	"errors"
	"math"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/samber/lo"

	"github.com/ysegev/wealth-tracker/pkg/models"
)

// amountTolerance bounds the float drift tolerated before a goal counts as
// out of sync with its linked location.
const amountTolerance = 1e-9

// GoalStore persists goal progress updates on behalf of the synchronizer.
// The local database and the remote API client both implement it.
type GoalStore interface {
	UpdateGoalProgress(ctx context.Context, goalID string, currentAmount float64, updatedAt time.Time) error
}

// GoalSyncer reconciles goals against the money locations they track.
type GoalSyncer struct {
	store     GoalStore
	converter *Converter
	now       func() time.Time
}

// NewGoalSyncer creates a syncer persisting through the given store.
func NewGoalSyncer(store GoalStore, converter *Converter) *GoalSyncer {
	return &GoalSyncer{
		store:     store,
		converter: converter,
		now:       time.Now,
	}
}

// Sync recomputes the current amount of every goal linked to a money
// location, converting the location balance into the goal's own currency,
// and persists the goals that changed. Goals whose linked location is absent
// from the supplied list pass through untouched. A persistence failure for
// one goal does not stop the others; an expired credential aborts the whole
// pass. Goals are processed one at a time.
func (s *GoalSyncer) Sync(ctx context.Context, goals []models.Goal, locations []models.MoneyLocation) ([]models.Goal, error) {
	if len(locations) == 0 {
		return goals, nil
	}

	locationsByID := lo.SliceToMap(locations, func(l models.MoneyLocation) (string, models.MoneyLocation) {
		return l.ID, l
	})

	synced := make([]models.Goal, len(goals))
	copy(synced, goals)

	for i := range synced {
		goal := &synced[i]
		if !goal.Linked() {
			continue
		}

		location, ok := locationsByID[goal.MoneyLocationID]
		if !ok {
			// The linked location was deleted or not supplied; leave the
			// goal alone this cycle.
			continue
		}

		converted, err := s.converter.Convert(ctx, location.Amount, location.Currency, goal.EffectiveCurrency())
		if err != nil {
			log.Warn().Err(err).Str("goal", goal.ID).Msg("Skipping goal with unconvertible location balance")
			continue
		}

		if math.Abs(converted-goal.CurrentAmount) <= amountTolerance {
			continue
		}

		updatedAt := s.now()
		if err := s.store.UpdateGoalProgress(ctx, goal.ID, converted, updatedAt); err != nil {
			if errors.Is(err, models.ErrAuthenticationExpired) {
				return nil, err
			}
			log.Warn().Err(err).Str("goal", goal.ID).Msg("Failed to persist goal progress")
			continue
		}

		log.Info().Str("goal", goal.ID).Float64("current_amount", converted).Msg("Goal progress updated")
		goal.CurrentAmount = converted
		goal.UpdatedAt = updatedAt
	}

	return synced, nil
}
