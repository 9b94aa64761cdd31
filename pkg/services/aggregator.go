package services

import (
	"context"
	"fmt"
	"sort"

	"github.com/ysegev/wealth-tracker/pkg/models"
)

// AssetAllocation is the aggregate position held in a single account type.
// Amount is in USD regardless of the summary's display currency.
type AssetAllocation struct {
	Type       models.AccountType `json:"type"`
	Amount     float64            `json:"amount"`
	Percentage float64            `json:"percentage"`
}

// WealthSummary is the aggregate view over a user's money locations.
type WealthSummary struct {
	Currency       models.Currency   `json:"currency"`
	Available      float64           `json:"available_wealth"`
	NonAvailable   float64           `json:"non_available_wealth"`
	Allocation     []AssetAllocation `json:"asset_allocation"`
	UsingLiveRates bool              `json:"using_live_rates"`
}

// Aggregator buckets money locations into available and non-available wealth
// and computes the per-account-type allocation.
type Aggregator struct {
	converter *Converter
}

// NewAggregator creates an aggregator using the given converter.
func NewAggregator(converter *Converter) *Aggregator {
	return &Aggregator{converter: converter}
}

// Summarize converts every location into the target currency and sums by
// category. A location that cannot be converted fails the whole summary
// rather than being silently dropped or zeroed.
func (a *Aggregator) Summarize(ctx context.Context, locations []models.MoneyLocation, target models.Currency) (*WealthSummary, error) {
	target, err := models.ParseCurrency(string(target))
	if err != nil {
		return nil, err
	}

	summary := &WealthSummary{Currency: target}
	byType := make(map[models.AccountType]float64)

	for _, location := range locations {
		converted, err := a.converter.Convert(ctx, location.Amount, location.Currency, target)
		if err != nil {
			return nil, fmt.Errorf("failed to convert %q: %w", location.Name, err)
		}

		if location.AccountType.Available() {
			summary.Available += converted
		} else {
			summary.NonAvailable += converted
		}

		// Allocation is tracked in USD so percentages are comparable across
		// display currencies.
		usd, err := a.converter.Convert(ctx, location.Amount, location.Currency, models.USD)
		if err != nil {
			return nil, fmt.Errorf("failed to convert %q: %w", location.Name, err)
		}
		byType[location.AccountType] += usd
	}

	var total float64
	for _, amount := range byType {
		total += amount
	}

	for accountType, amount := range byType {
		percentage := 0.0
		if total > 0 {
			percentage = amount / total * 100
		}
		summary.Allocation = append(summary.Allocation, AssetAllocation{
			Type:       accountType,
			Amount:     amount,
			Percentage: percentage,
		})
	}

	// Map iteration order is random; keep the output stable.
	sort.Slice(summary.Allocation, func(i, j int) bool {
		return summary.Allocation[i].Type < summary.Allocation[j].Type
	})

	summary.UsingLiveRates = a.converter.provider.UsingLiveRates()

	return summary, nil
}
