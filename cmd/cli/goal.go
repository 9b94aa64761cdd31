package cli

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/ysegev/wealth-tracker/pkg/models"
	"github.com/ysegev/wealth-tracker/pkg/services"
)

func (r *replState) listGoals() {
	goals, err := r.db.GetGoals(r.userID)
	if err != nil {
		log.Error().Err(err).Msg("Error fetching goals")
		return
	}

	if len(goals) == 0 {
		fmt.Println("No goals found")
		return
	}

	fmt.Printf("Found %d goals:\n\n", len(goals))
	fmt.Printf("%-25s %18s %18s %8s %-12s %-20s\n", "Name", "Current", "Target", "Done", "Deadline", "Tracking")
	fmt.Println(strings.Repeat("-", 110))
	for _, goal := range goals {
		progress := 0.0
		if goal.TargetAmount > 0 {
			progress = goal.CurrentAmount / goal.TargetAmount * 100
		}

		tracking := "-"
		if goal.Linked() {
			tracking = goal.MoneyLocationName
		}

		currency := goal.EffectiveCurrency()
		fmt.Printf("%-25s %18s %18s %7.1f%% %-12s %-20s\n",
			goal.Name[:min(25, len(goal.Name))],
			displayAmount(goal.CurrentAmount, currency),
			displayAmount(goal.TargetAmount, currency),
			progress,
			goal.Deadline.Format("2006-01-02"),
			tracking[:min(20, len(tracking))])
	}
}

func (r *replState) addGoal(input string) {
	// Format: addgoal <name> <target> <currency> <deadline> [<category>]
	parts := strings.Fields(input)
	if strings.HasPrefix(input, "goal add") && len(parts) > 0 {
		// Accept "goal add ..." as an alias
		parts = parts[1:]
	}
	if len(parts) < 5 {
		fmt.Println("Invalid addgoal command format.")
		fmt.Println("Usage: addgoal <name> <target> <currency> <deadline> [<category>]")
		fmt.Println("Example: addgoal Emergency 10000 USD 2027-01-01 savings")
		return
	}

	name := strings.Trim(parts[1], "\"")

	target, err := strconv.ParseFloat(parts[2], 64)
	if err != nil {
		fmt.Printf("Invalid target amount: %s\n", parts[2])
		return
	}

	currency, err := models.ParseCurrency(parts[3])
	if err != nil {
		fmt.Println(err.Error())
		return
	}

	deadline, err := time.Parse("2006-01-02", parts[4])
	if err != nil {
		fmt.Printf("Invalid deadline, expected YYYY-MM-DD: %s\n", parts[4])
		return
	}

	category := "savings"
	if len(parts) >= 6 {
		category = parts[5]
	}

	now := time.Now().UTC()
	goal := &models.Goal{
		ID:           uuid.NewString(),
		UserID:       r.userID,
		Name:         name,
		TargetAmount: target,
		Deadline:     deadline,
		Category:     category,
		Currency:     currency,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := goal.Validate(now); err != nil {
		fmt.Println(err.Error())
		return
	}

	if err := r.db.SaveGoal(goal); err != nil {
		log.Error().Err(err).Msg("Error saving goal")
		return
	}

	log.Info().Str("goal", name).Msg("Goal added successfully")
}

func (r *replState) linkGoal(input string) {
	// Format: link <goal> <location>
	parts := strings.Fields(input)
	if len(parts) != 3 {
		fmt.Println("Invalid link command format.")
		fmt.Println("Usage: link <goal> <location>")
		fmt.Println("Example: link Emergency Savings")
		return
	}

	goalName := strings.Trim(parts[1], "\"")
	locationName := strings.Trim(parts[2], "\"")

	goals, err := r.db.GetGoals(r.userID)
	if err != nil {
		log.Error().Err(err).Msg("Error fetching goals")
		return
	}

	var goal *models.Goal
	for i := range goals {
		if strings.EqualFold(goals[i].Name, goalName) {
			goal = &goals[i]
			break
		}
	}
	if goal == nil {
		fmt.Printf("No goal named %q\n", goalName)
		return
	}

	location, err := r.findLocationByName(locationName)
	if err != nil {
		log.Error().Err(err).Msg("Error fetching money locations")
		return
	}
	if location == nil {
		fmt.Printf("No money location named %q\n", locationName)
		return
	}

	goal.MoneyLocationID = location.ID
	goal.MoneyLocationName = location.Name
	goal.UpdatedAt = time.Now().UTC()

	if err := r.db.UpdateGoal(goal); err != nil {
		log.Error().Err(err).Msg("Error updating goal")
		return
	}

	log.Info().Str("goal", goal.Name).Str("location", location.Name).Msg("Goal linked successfully")
	fmt.Println("Run 'sync' to pull the location balance into the goal.")
}

func (r *replState) syncGoals() {
	ctx := context.Background()

	if r.remote != nil {
		r.syncRemoteGoals(ctx)
		return
	}

	goals, err := r.db.GetGoals(r.userID)
	if err != nil {
		log.Error().Err(err).Msg("Error fetching goals")
		return
	}

	locations, err := r.db.GetMoneyLocations(r.userID)
	if err != nil {
		log.Error().Err(err).Msg("Error fetching money locations")
		return
	}

	if _, err := r.syncer.Sync(ctx, goals, locations); err != nil {
		log.Error().Err(err).Msg("Error syncing goals")
		return
	}

	linked := 0
	for _, goal := range goals {
		if goal.Linked() {
			linked++
		}
	}
	log.Info().Int("goals", len(goals)).Int("linked", linked).Msg("Goals synced")
}

func (r *replState) syncRemoteGoals(ctx context.Context) {
	goals, err := r.remote.GetGoals(ctx)
	if err != nil {
		if errors.Is(err, models.ErrAuthenticationExpired) {
			fmt.Println("Session expired. Run 'remote' again to reconnect.")
			r.remote = nil
			return
		}
		log.Error().Err(err).Msg("Error fetching goals from server")
		return
	}

	locations, err := r.remote.GetMoneyLocations(ctx)
	if err != nil {
		log.Error().Err(err).Msg("Error fetching money locations from server")
		return
	}

	syncer := services.NewGoalSyncer(r.remote, r.converter)
	if _, err := syncer.Sync(ctx, goals, locations); err != nil {
		if errors.Is(err, models.ErrAuthenticationExpired) {
			fmt.Println("Session expired. Run 'remote' again to reconnect.")
			r.remote = nil
			return
		}
		log.Error().Err(err).Msg("Error syncing goals against server")
		return
	}

	log.Info().Int("goals", len(goals)).Msg("Goals synced against server")
}
