package services

import (
	"context"
	"strings"
	"sync"

	"github.com/shopspring/decimal"
	"github.com/triptally/fx_backend/internal/core/domain"
	portssvc "github.com/triptally/fx_backend/internal/core/ports/services"
	"github.com/triptally/fx_backend/internal/utils/fxcalc"
)

// fallbackWarning is recorded when the provider failed without a usable message.
const fallbackWarning = "fx_fetch_failed"

// FxResolverService resolves per-pair conversion rates. It never surfaces an
// error to callers: a provider outage degrades to a rate of 1 with a warning
// so the surrounding monetary operation can still complete.
type FxResolverService struct {
	provider portssvc.RateProvider
	cache    *RateCache
}

// NewFxResolverService creates a new FxResolverService.
func NewFxResolverService(provider portssvc.RateProvider, cache *RateCache) *FxResolverService {
	if cache == nil {
		cache = NewRateCache(DefaultRateCacheTTL)
	}
	return &FxResolverService{
		provider: provider,
		cache:    cache,
	}
}

// GetRate resolves a rate for the pair: identity for equal codes, then the
// in-memory cache, then a live fetch, then the fallback result.
func (s *FxResolverService) GetRate(ctx context.Context, from, to string) domain.FxRateResult {
	f := strings.ToUpper(from)
	t := strings.ToUpper(to)
	if f == t {
		return domain.FxRateResult{Rate: 1, Source: domain.RateSourceIdentity}
	}

	if rate, ok := s.cache.Get(f, t); ok {
		return domain.FxRateResult{Rate: rate, Source: domain.RateSourceCache}
	}

	rate, err := s.provider.FetchRate(ctx, f, t)
	if err == nil && !fxcalc.IsUsableRate(rate) {
		// A non-finite or non-positive rate is as useless as a failed fetch.
		return fallbackResult("invalid rate")
	}
	if err != nil {
		return fallbackResult(err.Error())
	}

	s.cache.Put(f, t, rate)
	return domain.FxRateResult{Rate: rate, Source: domain.RateSourceLive}
}

// ConvertAmount converts amount using the resolved rate. A rate of exactly 1
// (identity or fallback) passes the amount through untouched; a real
// conversion rounds to 2 decimal places.
func (s *FxResolverService) ConvertAmount(ctx context.Context, amount decimal.Decimal, from, to string) domain.Conversion {
	meta := s.GetRate(ctx, from, to)
	return domain.Conversion{Value: applyRate(amount, meta.Rate), Meta: meta}
}

// PrefetchRates warms the cache for the given pairs. Lookups run concurrently
// and individual failures are ignored; GetRate already absorbs them.
func (s *FxResolverService) PrefetchRates(ctx context.Context, pairs []domain.CurrencyPair) {
	var wg sync.WaitGroup
	for _, pair := range pairs {
		wg.Add(1)
		go func(p domain.CurrencyPair) {
			defer wg.Done()
			_ = s.GetRate(ctx, p.From, p.To)
		}(pair)
	}
	wg.Wait()
}

func applyRate(amount decimal.Decimal, rate float64) decimal.Decimal {
	if rate == 1 {
		return amount
	}
	return amount.Mul(decimal.NewFromFloat(rate)).Round(2)
}

func fallbackResult(warning string) domain.FxRateResult {
	if warning == "" {
		warning = fallbackWarning
	}
	return domain.FxRateResult{Rate: 1, Source: domain.RateSourceFallback, Warning: warning}
}
