package services

import (
	"context"

	"github.com/ysegev/wealth-tracker/pkg/models"
)

// Converter converts amounts between supported currencies using a two-hop
// path through USD.
type Converter struct {
	provider *RateProvider
}

// NewConverter creates a converter backed by the given rate provider.
func NewConverter(provider *RateProvider) *Converter {
	return &Converter{provider: provider}
}

// Convert converts amount between two currencies. Converting a currency to
// itself returns the amount untouched without consulting the rate table.
func (c *Converter) Convert(ctx context.Context, amount float64, from, to models.Currency) (float64, error) {
	if from == to {
		return amount, nil
	}
	if err := validateCurrencies(from, to); err != nil {
		return 0, err
	}

	table := c.provider.Rates(ctx)

	usd := amount
	if from != models.USD {
		usd = amount / rateOrDefault(table, from)
	}
	if to == models.USD {
		return usd, nil
	}
	return usd * rateOrDefault(table, to), nil
}

// Rate returns the scalar multiplier from one currency to another, using the
// same two-hop path as Convert.
func (c *Converter) Rate(ctx context.Context, from, to models.Currency) (float64, error) {
	return c.Convert(ctx, 1, from, to)
}

func validateCurrencies(codes ...models.Currency) error {
	for _, code := range codes {
		if _, err := models.ParseCurrency(string(code)); err != nil {
			return err
		}
	}
	return nil
}

// rateOrDefault returns the table rate for code, or 1 when the code is absent
// from the table.
func rateOrDefault(table map[models.Currency]float64, code models.Currency) float64 {
	if rate, ok := table[code]; ok && rate > 0 {
		return rate
	}
	return 1
}
