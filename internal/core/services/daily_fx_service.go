package services

import (
	"context"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"github.com/triptally/fx_backend/internal/apperrors"
	"github.com/triptally/fx_backend/internal/core/domain"
	portsrepo "github.com/triptally/fx_backend/internal/core/ports/repositories"
	portssvc "github.com/triptally/fx_backend/internal/core/ports/services"
	"github.com/triptally/fx_backend/internal/utils/fxcalc"
)

const (
	// pivotBase is the currency every snapshot seeding runs against.
	pivotBase = "USD"

	sourceLiveSnapshot = "live-snapshot"
	sourceAutoSeedLegs = "auto-seed-legs"
)

// DailyFxService resolves rates against the persisted daily snapshot before
// resorting to per-pair live fetches. Every successful per-pair resolution is
// written back into the snapshot so later callers get the fast path.
type DailyFxService struct {
	snapshots portsrepo.FxSnapshotRepositoryFacade
	resolver  portssvc.FxResolverSvcFacade
	provider  portssvc.RateProvider
}

// NewDailyFxService creates a new DailyFxService.
func NewDailyFxService(
	snapshots portsrepo.FxSnapshotRepositoryFacade,
	resolver portssvc.FxResolverSvcFacade,
	provider portssvc.RateProvider,
) *DailyFxService {
	return &DailyFxService{
		snapshots: snapshots,
		resolver:  resolver,
		provider:  provider,
	}
}

// Resolve attempts, in order: pivot against an existing snapshot for each
// preferred base, a once-per-day full USD snapshot seed, and lazily seeding
// only the two USD legs the pair needs. When every tier is exhausted it
// returns an error satisfying errors.Is(err, apperrors.ErrNotFound); callers
// fall back to the per-pair resolver.
func (s *DailyFxService) Resolve(ctx context.Context, from, to string, preferredBases []string) (*domain.PivotedRate, error) {
	if len(preferredBases) == 0 {
		preferredBases = []string{pivotBase}
	}

	for _, base := range preferredBases {
		if pivoted := s.pivotAgainstToday(ctx, base, from, to); pivoted != nil {
			return pivoted, nil
		}
	}

	if s.seedFullDailyIfAbsent(ctx, pivotBase) {
		if pivoted := s.pivotAgainstToday(ctx, pivotBase, from, to); pivoted != nil {
			return pivoted, nil
		}
	}

	legs := s.ensureBaseLegs(ctx, []string{from, to})
	if len(legs) > 0 {
		// Store errors demote to "snapshot tier unavailable"; the legs are
		// cheaply re-derivable on the next call.
		_ = s.snapshots.UpsertQuotes(ctx, pivotBase, s.provider.Name(), legs, sourceAutoSeedLegs)
		if pivoted := s.pivotAgainstToday(ctx, pivotBase, from, to); pivoted != nil {
			return pivoted, nil
		}
	}

	return nil, apperrors.NewNotFoundError("no daily rate available for " + strings.ToUpper(from) + " to " + strings.ToUpper(to))
}

// ConvertAmount converts snapshot-first. When the snapshot tiers cannot serve
// the pair it delegates to the per-pair resolver, which never fails.
func (s *DailyFxService) ConvertAmount(ctx context.Context, amount decimal.Decimal, from, to string) domain.Conversion {
	pivoted, err := s.Resolve(ctx, from, to, nil)
	if err != nil {
		return s.resolver.ConvertAmount(ctx, amount, from, to)
	}
	meta := domain.FxRateResult{Rate: pivoted.Rate, Source: domain.RateSourceDailyCache}
	return domain.Conversion{Value: applyRate(amount, pivoted.Rate), Meta: meta}
}

// pivotAgainstToday loads today's snapshot for base and pivots the pair
// through it. It returns nil on any miss, including store outages.
func (s *DailyFxService) pivotAgainstToday(ctx context.Context, base, from, to string) *domain.PivotedRate {
	snapshot := s.todaySnapshot(ctx, base)
	if snapshot == nil {
		return nil
	}
	rate, ok := fxcalc.PivotRate(snapshot.Quotes, base, from, to)
	if !ok {
		return nil
	}
	return &domain.PivotedRate{Rate: rate, Base: strings.ToUpper(base)}
}

// todaySnapshot demotes every repository error to a plain miss so a store
// outage never bubbles past the orchestrator.
func (s *DailyFxService) todaySnapshot(ctx context.Context, base string) *domain.DailySnapshot {
	snapshot, err := s.snapshots.FindSnapshot(ctx, strings.ToUpper(base), TodayUTC(), s.provider.Name())
	if err != nil {
		return nil
	}
	return snapshot
}

// seedFullDailyIfAbsent performs the once-per-day full snapshot fetch for
// base. It reports whether a fresh row was written; an existing row for today
// makes it a no-op so the external fetch is amortized across callers.
func (s *DailyFxService) seedFullDailyIfAbsent(ctx context.Context, base string) bool {
	if s.todaySnapshot(ctx, base) != nil {
		return false
	}
	quotes, err := s.provider.FetchQuotes(ctx, base)
	if err != nil || len(quotes) == 0 {
		return false
	}
	if err := s.snapshots.UpsertQuotes(ctx, strings.ToUpper(base), s.provider.Name(), quotes, sourceLiveSnapshot); err != nil {
		return false
	}
	return true
}

// ensureBaseLegs resolves only the pivot-base legs the pair needs. Legs that
// resolved via fallback or carry a warning are rejected: only genuinely live
// rates are promoted into the shared snapshot.
func (s *DailyFxService) ensureBaseLegs(ctx context.Context, symbols []string) map[string]float64 {
	legs := make(map[string]float64)
	for _, symbol := range symbols {
		sym := strings.ToUpper(symbol)
		if sym == pivotBase {
			continue
		}
		result := s.resolver.GetRate(ctx, pivotBase, sym)
		if result.Source == domain.RateSourceFallback || result.Warning != "" {
			continue
		}
		if fxcalc.IsUsableRate(result.Rate) {
			legs[pivotBase+sym] = result.Rate
		}
	}
	return legs
}

// TodayUTC returns the current UTC day truncated to midnight, the natural
// expiry boundary for snapshot rows.
func TodayUTC() time.Time {
	return time.Now().UTC().Truncate(24 * time.Hour)
}
