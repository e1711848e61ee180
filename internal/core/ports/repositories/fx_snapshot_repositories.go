package repositories

import (
	"context"
	"time"

	"github.com/triptally/fx_backend/internal/core/domain"
)

// FxSnapshotReader defines read operations for daily FX snapshot rows
type FxSnapshotReader interface {
	// FindSnapshot retrieves the snapshot row for a base currency, UTC date and provider.
	// Returns apperrors.ErrNotFound (wrapped) when no row exists for that key.
	FindSnapshot(ctx context.Context, baseCurrency string, rateDate time.Time, provider string) (*domain.DailySnapshot, error)
}

// FxSnapshotWriter defines write operations for daily FX snapshot rows
type FxSnapshotWriter interface {
	// UpsertQuotes merges quotes into today's snapshot row for (base, provider),
	// creating the row if absent. Existing keys not present in quotes are preserved.
	UpsertQuotes(ctx context.Context, baseCurrency, provider string, quotes map[string]float64, sourceAPI string) error
}

// FxSnapshotRepositoryFacade combines all snapshot repository interfaces.
// This is a facade for clients that need access to all operations
type FxSnapshotRepositoryFacade interface {
	FxSnapshotReader
	FxSnapshotWriter
}
