package services

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/ysegev/wealth-tracker/pkg/http/rates"
	"github.com/ysegev/wealth-tracker/pkg/models"
)

// cacheTTL is how long a fetched rate table is served before a refresh.
const cacheTTL = time.Hour

// FallbackRates is the static table used whenever the live endpoint cannot be
// reached. Base is USD.
var FallbackRates = map[models.Currency]float64{
	models.USD: 1,
	models.EUR: 0.85,
	models.GBP: 0.73,
	models.ILS: 3.4,
}

// RateProvider caches exchange rates with a TTL and degrades to the static
// fallback table when a refresh fails. It never surfaces an error: callers
// always get a usable table. Callers hold and pass their own instance; there
// is no package-level provider.
type RateProvider struct {
	fetcher rates.Fetcher

	mu          sync.RWMutex
	rates       map[models.Currency]float64
	lastUpdated time.Time
	live        bool

	now func() time.Time
}

// NewRateProvider creates a provider around the given fetcher.
func NewRateProvider(fetcher rates.Fetcher) *RateProvider {
	return &RateProvider{
		fetcher: fetcher,
		now:     time.Now,
	}
}

// Rates returns the active rate table, refreshing it once when the cache has
// expired or has never been filled.
func (p *RateProvider) Rates(ctx context.Context) map[models.Currency]float64 {
	p.mu.RLock()
	if len(p.rates) > 0 && p.now().Sub(p.lastUpdated) < cacheTTL {
		defer p.mu.RUnlock()
		return p.rates
	}
	p.mu.RUnlock()

	return p.refresh(ctx)
}

// refresh performs a single fetch attempt, no retries. Two callers racing a
// stale cache both fetch the same upstream table, so the redundant fetch is
// harmless; the map swap itself stays behind the lock.
func (p *RateProvider) refresh(ctx context.Context) map[models.Currency]float64 {
	fetched, err := p.fetcher.FetchRates(ctx)

	p.mu.Lock()
	defer p.mu.Unlock()

	if err != nil {
		log.Warn().Err(err).Msg("Rate fetch failed, using fallback rates")
		p.rates = FallbackRates
		p.live = false
	} else {
		table := make(map[models.Currency]float64, len(fetched))
		for code, rate := range fetched {
			table[models.Currency(code)] = rate
		}
		p.rates = table
		p.live = true
	}
	p.lastUpdated = p.now()

	return p.rates
}

// UsingLiveRates reports whether the active table came from a successful
// refresh rather than the static fallback. A provider that has never
// refreshed reports false.
func (p *RateProvider) UsingLiveRates() bool {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.live
}

// LastUpdated returns when the active table was installed.
func (p *RateProvider) LastUpdated() time.Time {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.lastUpdated
}
