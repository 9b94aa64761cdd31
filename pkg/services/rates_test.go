package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/ysegev/wealth-tracker/pkg/models"
)

// mockFetcher is a hand-rolled rates.Fetcher for tests.
type mockFetcher struct {
	rates map[string]float64
	err   error
	calls int
}

func (m *mockFetcher) FetchRates(ctx context.Context) (map[string]float64, error) {
	m.calls++
	if m.err != nil {
		return nil, m.err
	}
	return m.rates, nil
}

func TestRatesLiveFetch(t *testing.T) {
	fetcher := &mockFetcher{
		rates: map[string]float64{"USD": 1, "EUR": 0.91, "GBP": 0.78, "ILS": 3.7},
	}
	provider := NewRateProvider(fetcher)

	table := provider.Rates(context.Background())
	if table[models.EUR] != 0.91 {
		t.Errorf("Expected EUR rate 0.91, got %f", table[models.EUR])
	}
	if !provider.UsingLiveRates() {
		t.Error("Expected provider to report live rates after a successful fetch")
	}
}

func TestRatesFallbackOnFetchFailure(t *testing.T) {
	fetcher := &mockFetcher{err: errors.New("connection refused")}
	provider := NewRateProvider(fetcher)

	table := provider.Rates(context.Background())
	if table[models.EUR] != FallbackRates[models.EUR] {
		t.Errorf("Expected fallback EUR rate %f, got %f", FallbackRates[models.EUR], table[models.EUR])
	}
	if provider.UsingLiveRates() {
		t.Error("Expected provider to report fallback rates after a failed fetch")
	}

	// Conversions against the fallback table are deterministic.
	converter := NewConverter(provider)
	got, err := converter.Convert(context.Background(), 100, models.EUR, models.USD)
	if err != nil {
		t.Fatalf("Failed to convert: %v", err)
	}
	expected := 100 / FallbackRates[models.EUR]
	if !closeEnough(got, expected) {
		t.Errorf("Expected %f, got %f", expected, got)
	}
}

func TestRatesNeverRefreshedReportsNotLive(t *testing.T) {
	provider := NewRateProvider(&mockFetcher{})
	if provider.UsingLiveRates() {
		t.Error("Expected a never-refreshed provider to report not live")
	}
}

func TestRatesCacheWithinTTL(t *testing.T) {
	fetcher := &mockFetcher{rates: map[string]float64{"USD": 1, "EUR": 0.9}}
	provider := NewRateProvider(fetcher)

	current := time.Now()
	provider.now = func() time.Time { return current }

	provider.Rates(context.Background())
	current = current.Add(30 * time.Minute)
	provider.Rates(context.Background())

	if fetcher.calls != 1 {
		t.Errorf("Expected 1 fetch within the TTL, got %d", fetcher.calls)
	}
}

func TestRatesRefreshAfterTTL(t *testing.T) {
	fetcher := &mockFetcher{rates: map[string]float64{"USD": 1, "EUR": 0.9}}
	provider := NewRateProvider(fetcher)

	current := time.Now()
	provider.now = func() time.Time { return current }

	provider.Rates(context.Background())
	current = current.Add(2 * time.Hour)
	provider.Rates(context.Background())

	if fetcher.calls != 2 {
		t.Errorf("Expected a second fetch after the TTL, got %d fetches", fetcher.calls)
	}
}

func TestRatesRecoversAfterFailedRefresh(t *testing.T) {
	fetcher := &mockFetcher{err: errors.New("timeout")}
	provider := NewRateProvider(fetcher)

	current := time.Now()
	provider.now = func() time.Time { return current }

	provider.Rates(context.Background())
	if provider.UsingLiveRates() {
		t.Fatal("Expected fallback after failed fetch")
	}

	// Endpoint comes back after the cache expires.
	fetcher.err = nil
	fetcher.rates = map[string]float64{"USD": 1, "EUR": 0.88}
	current = current.Add(2 * time.Hour)

	table := provider.Rates(context.Background())
	if table[models.EUR] != 0.88 {
		t.Errorf("Expected refreshed EUR rate 0.88, got %f", table[models.EUR])
	}
	if !provider.UsingLiveRates() {
		t.Error("Expected provider to report live rates after recovery")
	}
}
