package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/hmori-dev/capsearch/internal/domain/repository"
	"github.com/hmori-dev/capsearch/internal/infrastructure/metrics"
)

// DBTX is an interface that abstracts pgxpool.Pool and pgx.Tx for testability.
type DBTX interface {
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// UsageRepository implements repository.UsageRepository using PostgreSQL.
// Both operations are single statements, so per-user atomicity comes from
// row-level locking without any explicit transaction.
type UsageRepository struct {
	db DBTX
}

// NewUsageRepository creates a new UsageRepository instance.
func NewUsageRepository(db DBTX) *UsageRepository {
	return &UsageRepository{db: db}
}

// Reserve normalizes the user's record for day and returns the count in
// effect. A record last reset on a prior day restarts at zero; the
// normalized state is persisted regardless of whether the caller ends up
// allowing the request.
func (r *UsageRepository) Reserve(ctx context.Context, userID, day string) (int, error) {
	const query = `
		INSERT INTO user_usage (user_id, search_count, last_reset)
		VALUES ($1, 0, $2)
		ON CONFLICT (user_id) DO UPDATE
		SET search_count = CASE
				WHEN user_usage.last_reset = EXCLUDED.last_reset THEN user_usage.search_count
				ELSE 0
			END,
			last_reset = EXCLUDED.last_reset
		RETURNING search_count
	`

	var count int
	if err := r.db.QueryRow(ctx, query, userID, day).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to reserve usage: %w", err)
	}

	metrics.QuotaChecksTotal.Inc()
	return count, nil
}

// Commit charges one search against the user's quota for day. The WHERE
// clause makes the increment conditional on a slot still being free, so the
// stored count can never pass max however many requests race.
func (r *UsageRepository) Commit(ctx context.Context, userID, day string, max int) error {
	const query = `
		UPDATE user_usage
		SET search_count = search_count + 1
		WHERE user_id = $1 AND last_reset = $2 AND search_count < $3
		RETURNING search_count
	`

	var count int
	err := r.db.QueryRow(ctx, query, userID, day, max).Scan(&count)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return repository.ErrQuotaExhausted
		}
		return fmt.Errorf("failed to commit usage: %w", err)
	}

	metrics.QuotaCommitsTotal.Inc()
	return nil
}

// Compile-time verification that UsageRepository implements repository.UsageRepository.
var _ repository.UsageRepository = (*UsageRepository)(nil)
