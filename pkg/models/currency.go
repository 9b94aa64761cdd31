package models

import (
	"fmt"
	"strings"
)

// Currency is one of the ISO currency codes the tracker supports.
type Currency string

const (
	USD Currency = "USD"
	EUR Currency = "EUR"
	GBP Currency = "GBP"
	ILS Currency = "ILS"
)

// SupportedCurrencies returns the closed set of currencies the tracker handles.
func SupportedCurrencies() []Currency {
	return []Currency{USD, EUR, GBP, ILS}
}

// ParseCurrency validates a currency code against the supported set.
func ParseCurrency(code string) (Currency, error) {
	c := Currency(strings.ToUpper(strings.TrimSpace(code)))
	switch c {
	case USD, EUR, GBP, ILS:
		return c, nil
	}
	return "", &UnsupportedCurrencyError{Code: code}
}

// UnsupportedCurrencyError reports a currency code outside the supported set.
type UnsupportedCurrencyError struct {
	Code string
}

func (e *UnsupportedCurrencyError) Error() string {
	supported := make([]string, 0, len(SupportedCurrencies()))
	for _, c := range SupportedCurrencies() {
		supported = append(supported, string(c))
	}
	return fmt.Sprintf("unsupported currency: %s. Supported currencies: %s",
		e.Code, strings.Join(supported, ", "))
}
