package cli

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/Rhymond/go-money"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/ysegev/wealth-tracker/pkg/models"
	"github.com/ysegev/wealth-tracker/pkg/services"
	"github.com/ysegev/wealth-tracker/pkg/utils"
)

// displayAmount formats an amount in its currency, e.g. "$1,500.25"
func displayAmount(amount float64, currency models.Currency) string {
	return money.New(int64(math.Round(amount*100)), string(currency)).Display()
}

func (r *replState) listLocations() {
	locations, err := r.db.GetMoneyLocations(r.userID)
	if err != nil {
		log.Error().Err(err).Msg("Error fetching money locations")
		return
	}

	if len(locations) == 0 {
		fmt.Println("No money locations found")
		return
	}

	fmt.Printf("Found %d money locations:\n\n", len(locations))
	fmt.Printf("%-25s %18s %-10s %-18s %-12s\n", "Name", "Amount", "Currency", "Type", "Last Checked")
	fmt.Println(strings.Repeat("-", 90))
	for _, location := range locations {
		fmt.Printf("%-25s %18s %-10s %-18s %-12s\n",
			location.Name[:min(25, len(location.Name))],
			displayAmount(location.Amount, location.Currency),
			location.Currency,
			utils.Capitalize(location.AccountType.Label()),
			location.LastChecked.Format("2006-01-02"))
	}
}

func (r *replState) addLocation(input string) {
	// Format: add <name> <amount> <currency> <type> [<address>]
	parts := strings.Fields(input)
	if len(parts) < 5 {
		fmt.Println("Invalid add command format.")
		fmt.Println("Usage: add <name> <amount> <currency> <type> [<address>]")
		fmt.Println("Example: add Checking 1500.25 USD bank_account")
		return
	}

	name := strings.Trim(parts[1], "\"")

	amount, err := strconv.ParseFloat(parts[2], 64)
	if err != nil {
		fmt.Printf("Invalid amount: %s\n", parts[2])
		return
	}

	currency, err := models.ParseCurrency(parts[3])
	if err != nil {
		fmt.Println(err.Error())
		return
	}

	accountType, err := models.ParseAccountType(parts[4])
	if err != nil {
		fmt.Println(err.Error())
		fmt.Printf("Supported types: %v\n", models.AccountTypes())
		return
	}

	location := &models.MoneyLocation{
		ID:          uuid.NewString(),
		UserID:      r.userID,
		Name:        name,
		Amount:      amount,
		Currency:    currency,
		AccountType: accountType,
		LastChecked: time.Now().UTC(),
	}
	if len(parts) > 5 {
		location.PropertyAddress = strings.Trim(strings.Join(parts[5:], " "), "\"")
	}

	if err := location.Validate(); err != nil {
		fmt.Println(err.Error())
		return
	}

	if err := r.db.SaveMoneyLocation(location); err != nil {
		log.Error().Err(err).Msg("Error saving money location")
		return
	}

	log.Info().Str("location", name).Msg("Money location added successfully")
}

func (r *replState) removeLocation(input string) {
	// Format: remove <name>
	parts := strings.Fields(input)
	if len(parts) < 2 {
		fmt.Println("Invalid remove command format.")
		fmt.Println("Usage: remove <name>")
		return
	}

	name := strings.Trim(strings.Join(parts[1:], " "), "\"")

	location, err := r.findLocationByName(name)
	if err != nil {
		log.Error().Err(err).Msg("Error fetching money locations")
		return
	}
	if location == nil {
		fmt.Printf("No money location named %q\n", name)
		return
	}

	if err := r.db.RemoveMoneyLocation(location.ID); err != nil {
		log.Error().Err(err).Msg("Error removing money location")
		return
	}

	log.Info().Str("location", name).Msg("Money location removed successfully")
}

func (r *replState) findLocationByName(name string) (*models.MoneyLocation, error) {
	locations, err := r.db.GetMoneyLocations(r.userID)
	if err != nil {
		return nil, err
	}
	for i := range locations {
		if strings.EqualFold(locations[i].Name, name) {
			return &locations[i], nil
		}
	}
	return nil, nil
}

func (r *replState) showSummary(input string) {
	// Format: summary [<currency>]
	currency := models.USD
	parts := strings.Fields(input)
	if len(parts) > 1 {
		parsed, err := models.ParseCurrency(parts[1])
		if err != nil {
			fmt.Println(err.Error())
			return
		}
		currency = parsed
	}

	ctx := context.Background()

	var summary *services.WealthSummary
	if r.remote != nil {
		remoteSummary, err := r.remote.GetSummary(ctx, currency)
		if err != nil {
			if errors.Is(err, models.ErrAuthenticationExpired) {
				fmt.Println("Session expired. Run 'remote' again to reconnect.")
				r.remote = nil
				return
			}
			log.Error().Err(err).Msg("Error fetching summary from server")
			return
		}
		summary = remoteSummary
	} else {
		locations, err := r.db.GetMoneyLocations(r.userID)
		if err != nil {
			log.Error().Err(err).Msg("Error fetching money locations")
			return
		}

		summary, err = r.aggregator.Summarize(ctx, locations, currency)
		if err != nil {
			log.Error().Err(err).Msg("Error summarizing wealth")
			return
		}
	}

	fmt.Printf("Wealth summary in %s:\n\n", summary.Currency)
	fmt.Printf("  Available wealth:     %18s\n", displayAmount(summary.Available, summary.Currency))
	fmt.Printf("  Non-available wealth: %18s\n", displayAmount(summary.NonAvailable, summary.Currency))
	fmt.Println()

	if len(summary.Allocation) > 0 {
		fmt.Println("Asset allocation (USD):")
		fmt.Printf("  %-18s %18s %10s\n", "Type", "Amount", "Share")
		fmt.Println("  " + strings.Repeat("-", 48))
		for _, allocation := range summary.Allocation {
			fmt.Printf("  %-18s %18s %9.1f%%\n",
				utils.Capitalize(allocation.Type.Label()),
				displayAmount(allocation.Amount, models.USD),
				allocation.Percentage)
		}
		fmt.Println()
	}

	if !summary.UsingLiveRates {
		fmt.Println("Note: conversion used fallback rates, the rate endpoint is unreachable.")
	}
}

func (r *replState) showRates() {
	table := r.provider.Rates(context.Background())

	fmt.Println("Conversion rates (per 1 USD):")
	for _, currency := range models.SupportedCurrencies() {
		if rate, ok := table[currency]; ok {
			fmt.Printf("  %s: %.4f\n", currency, rate)
		}
	}

	if r.provider.UsingLiveRates() {
		fmt.Printf("Rates fetched at %s\n", r.provider.LastUpdated().Format(time.RFC1123))
	} else {
		fmt.Println("Using static fallback rates.")
	}
}
