package services

import (
	"context"
	"errors"
	"math"
	"testing"

	"github.com/ysegev/wealth-tracker/pkg/models"
)

func closeEnough(a, b float64) bool {
	return math.Abs(a-b) < 1e-6
}

func testConverter(rates map[string]float64) *Converter {
	return NewConverter(NewRateProvider(&mockFetcher{rates: rates}))
}

func TestConvertIdentityIsExact(t *testing.T) {
	// The identity conversion must not touch the rate table at all.
	fetcher := &mockFetcher{err: errors.New("should not be called")}
	converter := NewConverter(NewRateProvider(fetcher))

	for _, c := range models.SupportedCurrencies() {
		got, err := converter.Convert(context.Background(), 123.456, c, c)
		if err != nil {
			t.Fatalf("Failed identity conversion for %s: %v", c, err)
		}
		if got != 123.456 {
			t.Errorf("Expected exact 123.456 for %s, got %v", c, got)
		}
	}

	if fetcher.calls != 0 {
		t.Errorf("Expected no rate fetches for identity conversions, got %d", fetcher.calls)
	}
}

func TestConvertEurToUsd(t *testing.T) {
	converter := testConverter(map[string]float64{"USD": 1, "EUR": 0.85})

	got, err := converter.Convert(context.Background(), 100, models.EUR, models.USD)
	if err != nil {
		t.Fatalf("Failed to convert: %v", err)
	}

	expected := 100 / 0.85 // ~117.65
	if !closeEnough(got, expected) {
		t.Errorf("Expected %f, got %f", expected, got)
	}
}

func TestConvertTwoHop(t *testing.T) {
	converter := testConverter(map[string]float64{"USD": 1, "EUR": 0.85, "ILS": 3.4})

	got, err := converter.Convert(context.Background(), 100, models.EUR, models.ILS)
	if err != nil {
		t.Fatalf("Failed to convert: %v", err)
	}

	expected := 100 / 0.85 * 3.4
	if !closeEnough(got, expected) {
		t.Errorf("Expected %f, got %f", expected, got)
	}
}

func TestConvertRoundTrip(t *testing.T) {
	converter := testConverter(map[string]float64{"USD": 1, "EUR": 0.85, "GBP": 0.73, "ILS": 3.4})

	pairs := []struct{ from, to models.Currency }{
		{models.USD, models.EUR},
		{models.EUR, models.GBP},
		{models.GBP, models.ILS},
		{models.ILS, models.USD},
	}

	for _, pair := range pairs {
		there, err := converter.Convert(context.Background(), 250.75, pair.from, pair.to)
		if err != nil {
			t.Fatalf("Failed to convert %s->%s: %v", pair.from, pair.to, err)
		}
		back, err := converter.Convert(context.Background(), there, pair.to, pair.from)
		if err != nil {
			t.Fatalf("Failed to convert %s->%s: %v", pair.to, pair.from, err)
		}
		if !closeEnough(back, 250.75) {
			t.Errorf("Round trip %s->%s->%s: expected 250.75, got %f", pair.from, pair.to, pair.from, back)
		}
	}
}

func TestConvertMissingRateDefaultsToOne(t *testing.T) {
	// GBP is absent from the table, so it is treated as 1:1 with USD.
	converter := testConverter(map[string]float64{"USD": 1, "EUR": 0.85})

	got, err := converter.Convert(context.Background(), 50, models.GBP, models.USD)
	if err != nil {
		t.Fatalf("Failed to convert: %v", err)
	}
	if !closeEnough(got, 50) {
		t.Errorf("Expected 50, got %f", got)
	}
}

func TestConvertUnsupportedCurrency(t *testing.T) {
	converter := testConverter(map[string]float64{"USD": 1})

	_, err := converter.Convert(context.Background(), 10, "CAD", models.USD)
	if err == nil {
		t.Fatal("Expected error for unsupported currency")
	}

	var unsupported *models.UnsupportedCurrencyError
	if !errors.As(err, &unsupported) {
		t.Fatalf("Expected *models.UnsupportedCurrencyError, got %T", err)
	}
	if unsupported.Code != "CAD" {
		t.Errorf("Expected offending code CAD, got %s", unsupported.Code)
	}
}

func TestRateMatchesConvert(t *testing.T) {
	converter := testConverter(map[string]float64{"USD": 1, "EUR": 0.85, "ILS": 3.4})

	rate, err := converter.Rate(context.Background(), models.EUR, models.ILS)
	if err != nil {
		t.Fatalf("Failed to get rate: %v", err)
	}

	converted, err := converter.Convert(context.Background(), 100, models.EUR, models.ILS)
	if err != nil {
		t.Fatalf("Failed to convert: %v", err)
	}

	if !closeEnough(rate*100, converted) {
		t.Errorf("Expected rate*amount (%f) to equal Convert result (%f)", rate*100, converted)
	}
}

func TestRateIdentityIsOne(t *testing.T) {
	converter := testConverter(map[string]float64{"USD": 1})

	rate, err := converter.Rate(context.Background(), models.GBP, models.GBP)
	if err != nil {
		t.Fatalf("Failed to get rate: %v", err)
	}
	if rate != 1 {
		t.Errorf("Expected identity rate 1, got %f", rate)
	}
}
