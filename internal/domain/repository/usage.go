package repository

import "context"

// UsageRepository defines the per-user daily quota ledger.
// Implementations should be provided by the infrastructure layer (e.g., PostgreSQL).
//
// Quota consumption is split into two phases: Reserve normalizes the record
// for the current day and reports the effective count so the caller can deny
// early, and Commit charges one search only after the lookup has fully
// succeeded. Failed upstream fetches or parse errors therefore never count
// against the daily limit.
type UsageRepository interface {
	// Reserve normalizes the user's record for day and returns the count in
	// effect. Counts from a prior day are discarded, not carried over. The
	// normalized record is persisted even when the caller goes on to deny
	// the request. Both steps happen in one atomic per-key operation.
	Reserve(ctx context.Context, userID, day string) (int, error)

	// Commit charges one search against the user's quota for day. The
	// increment is conditional on the stored count still being below max,
	// so commits for a user on a given day can never exceed max even under
	// concurrent requests. Returns ErrQuotaExhausted when no slot is left.
	Commit(ctx context.Context, userID, day string, max int) error
}
