package services

import (
	"context"

	"github.com/shopspring/decimal"
	"github.com/triptally/fx_backend/internal/core/domain"
)

// RateProvider abstracts the external FX rate API. Implementations perform
// pure fetch+parse with no caching and no fallback behaviour.
type RateProvider interface {
	// FetchRate fetches a single from->to rate.
	FetchRate(ctx context.Context, from, to string) (float64, error)

	// FetchQuotes fetches the provider's full quotes map for a base currency,
	// filtered to finite positive values. Keys are concatenated codes ("USDPLN").
	FetchQuotes(ctx context.Context, base string) (map[string]float64, error)

	// Name returns the provider's name for snapshot tagging and logging.
	Name() string
}

// FxResolverSvcFacade is the never-failing per-pair conversion entry point.
type FxResolverSvcFacade interface {
	// GetRate resolves a rate for the pair. It never fails: provider errors
	// degrade to a fallback result with rate 1 and a warning.
	GetRate(ctx context.Context, from, to string) domain.FxRateResult

	// ConvertAmount converts amount using GetRate, rounding to 2 decimal
	// places when an actual conversion occurred.
	ConvertAmount(ctx context.Context, amount decimal.Decimal, from, to string) domain.Conversion

	// PrefetchRates warms the cache for the given pairs concurrently,
	// best-effort; individual failures are ignored.
	PrefetchRates(ctx context.Context, pairs []domain.CurrencyPair)
}

// DailyConverterSvcFacade resolves rates through the persisted daily snapshot
// before falling back to per-pair live fetches.
type DailyConverterSvcFacade interface {
	// Resolve returns a pivoted rate for the pair, or an error satisfying
	// errors.Is(err, apperrors.ErrNotFound) when every tier is exhausted.
	Resolve(ctx context.Context, from, to string, preferredBases []string) (*domain.PivotedRate, error)

	// ConvertAmount converts snapshot-first, delegating to the resolver when
	// the snapshot tiers cannot serve the pair.
	ConvertAmount(ctx context.Context, amount decimal.Decimal, from, to string) domain.Conversion
}

// ServiceContainer holds the service facades handed to the HTTP layer.
type ServiceContainer struct {
	FxResolver     FxResolverSvcFacade
	DailyConverter DailyConverterSvcFacade
}
