package pgsql

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/triptally/fx_backend/internal/apperrors"
	"github.com/triptally/fx_backend/internal/core/domain"
)

// PgxFxSnapshotRepository implements ports.FxSnapshotRepositoryFacade using pgxpool.
// One row per (base_currency, rate_date, provider); quotes are a JSONB map of
// concatenated currency codes to rates.
type PgxFxSnapshotRepository struct {
	BaseRepository
}

// NewPgxFxSnapshotRepository creates a new PgxFxSnapshotRepository.
func NewPgxFxSnapshotRepository(db *pgxpool.Pool) *PgxFxSnapshotRepository {
	return &PgxFxSnapshotRepository{
		BaseRepository: BaseRepository{Pool: db},
	}
}

// FindSnapshot retrieves the snapshot row for a base currency, date and provider.
func (r *PgxFxSnapshotRepository) FindSnapshot(ctx context.Context, baseCurrency string, rateDate time.Time, provider string) (*domain.DailySnapshot, error) {
	query := `
		SELECT snapshot_id, base_currency, rate_date, provider, quotes, fetched_at, source_api
		FROM fx_daily_cache
		WHERE base_currency = $1 AND rate_date = $2 AND provider = $3;
	`

	var (
		snapshot  domain.DailySnapshot
		quotesRaw []byte
		sourceAPI *string
	)
	err := r.Pool.QueryRow(ctx, query, strings.ToUpper(baseCurrency), rateDate, provider).Scan(
		&snapshot.SnapshotID, &snapshot.BaseCurrency, &snapshot.RateDate,
		&snapshot.Provider, &quotesRaw, &snapshot.FetchedAt, &sourceAPI,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFoundError("fx snapshot not found for " + strings.ToUpper(baseCurrency))
		}
		return nil, apperrors.NewAppError(500, "failed to find fx snapshot", err)
	}

	if err := json.Unmarshal(quotesRaw, &snapshot.Quotes); err != nil {
		return nil, apperrors.NewAppError(500, "failed to decode fx snapshot quotes", err)
	}
	if sourceAPI != nil {
		snapshot.SourceAPI = *sourceAPI
	}
	return &snapshot, nil
}

// UpsertQuotes merges quotes into today's row for (base, provider), creating
// the row when absent. The merge is a shallow union: incoming keys win,
// existing keys absent from the payload are preserved.
func (r *PgxFxSnapshotRepository) UpsertQuotes(ctx context.Context, baseCurrency, provider string, quotes map[string]float64, sourceAPI string) error {
	upperBase := strings.ToUpper(baseCurrency)
	rateDate := todayUTC()
	now := time.Now().UTC()

	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}

	var (
		existingID  string
		existingRaw []byte
	)
	err = tx.QueryRow(ctx,
		`SELECT snapshot_id, quotes FROM fx_daily_cache
		WHERE base_currency = $1 AND rate_date = $2 AND provider = $3`,
		upperBase, rateDate, provider,
	).Scan(&existingID, &existingRaw)

	if err == nil && existingID != "" {
		var existing map[string]float64
		if jsonErr := json.Unmarshal(existingRaw, &existing); jsonErr != nil {
			_ = r.Rollback(ctx, tx)
			return apperrors.NewAppError(500, "failed to decode existing fx quotes", jsonErr)
		}
		mergedRaw, jsonErr := json.Marshal(mergeQuotes(existing, quotes))
		if jsonErr != nil {
			_ = r.Rollback(ctx, tx)
			return apperrors.NewAppError(500, "failed to encode merged fx quotes", jsonErr)
		}
		_, err = tx.Exec(ctx, `
			UPDATE fx_daily_cache
			SET quotes = $1, fetched_at = $2, source_api = $3
			WHERE snapshot_id = $4`,
			mergedRaw, now, nullableString(sourceAPI), existingID,
		)
	} else if errors.Is(err, pgx.ErrNoRows) {
		var quotesRaw []byte
		quotesRaw, err = json.Marshal(quotes)
		if err == nil {
			_, err = tx.Exec(ctx, `
				INSERT INTO fx_daily_cache (
					snapshot_id, base_currency, rate_date, provider, quotes, fetched_at, source_api
				) VALUES ($1, $2, $3, $4, $5, $6, $7)`,
				uuid.NewString(), upperBase, rateDate, provider, quotesRaw, now, nullableString(sourceAPI),
			)
		}
	}

	if err != nil {
		_ = r.Rollback(ctx, tx)
		return apperrors.NewAppError(500, "failed to upsert fx snapshot", err)
	}

	return r.Commit(ctx, tx)
}

// mergeQuotes unions incoming into existing; incoming keys win on conflict.
func mergeQuotes(existing, incoming map[string]float64) map[string]float64 {
	merged := make(map[string]float64, len(existing)+len(incoming))
	for key, rate := range existing {
		merged[key] = rate
	}
	for key, rate := range incoming {
		merged[key] = rate
	}
	return merged
}

func nullableString(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func todayUTC() time.Time {
	return time.Now().UTC().Truncate(24 * time.Hour)
}
