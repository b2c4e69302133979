package postgres

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/user/og-image-service/internal/entity"
	"github.com/user/og-image-service/internal/repository"
)

const schema = `
CREATE TABLE IF NOT EXISTS failed_lookups (
	id               BIGSERIAL PRIMARY KEY,
	target_url       TEXT        NOT NULL UNIQUE,
	stage            TEXT        NOT NULL,
	failure_reason   TEXT        NOT NULL,
	http_status_code INTEGER     NOT NULL DEFAULT 0,
	last_attempt_at  TIMESTAMPTZ NOT NULL,
	attempt_count    INTEGER     NOT NULL DEFAULT 1
);
CREATE INDEX IF NOT EXISTS failed_lookups_last_attempt_at_idx ON failed_lookups (last_attempt_at DESC);
`

// FailedLookupRepoImpl provides a concrete implementation for the FailedLookupRepository interface using PostgreSQL.
type FailedLookupRepoImpl struct {
	db *pgxpool.Pool
}

var _ repository.FailedLookupRepository = (*FailedLookupRepoImpl)(nil)

// NewFailedLookupRepo creates a new instance of FailedLookupRepoImpl.
func NewFailedLookupRepo(db *pgxpool.Pool) *FailedLookupRepoImpl {
	return &FailedLookupRepoImpl{db: db}
}

// EnsureSchema creates the failed_lookups table and its index when missing.
func (r *FailedLookupRepoImpl) EnsureSchema(ctx context.Context) error {
	_, err := r.db.Exec(ctx, schema)
	return err
}

// SaveOrUpdate creates or updates the record for a target URL.
// It increments attempt_count on conflict.
func (r *FailedLookupRepoImpl) SaveOrUpdate(ctx context.Context, lookup *entity.FailedLookup) error {
	query := `
		INSERT INTO failed_lookups (target_url, stage, failure_reason, http_status_code, last_attempt_at, attempt_count)
		VALUES ($1, $2, $3, $4, $5, 1)
		ON CONFLICT (target_url) DO UPDATE SET
			stage = EXCLUDED.stage,
			failure_reason = EXCLUDED.failure_reason,
			http_status_code = EXCLUDED.http_status_code,
			last_attempt_at = EXCLUDED.last_attempt_at,
			attempt_count = failed_lookups.attempt_count + 1;
	`
	_, err := r.db.Exec(ctx, query,
		lookup.TargetURL,
		string(lookup.Stage),
		lookup.FailureReason,
		lookup.HTTPStatusCode,
		lookup.LastAttemptAt,
	)
	return err
}

// ListRecent retrieves the most recently attempted failures, newest first.
func (r *FailedLookupRepoImpl) ListRecent(ctx context.Context, limit int) ([]*entity.FailedLookup, error) {
	query := `
		SELECT id, target_url, stage, failure_reason, http_status_code, last_attempt_at, attempt_count
		FROM failed_lookups
		ORDER BY last_attempt_at DESC
		LIMIT $1;
	`
	rows, err := r.db.Query(ctx, query, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	lookups := make([]*entity.FailedLookup, 0, limit)
	for rows.Next() {
		var (
			fl    entity.FailedLookup
			stage string
		)
		if err := rows.Scan(
			&fl.ID,
			&fl.TargetURL,
			&stage,
			&fl.FailureReason,
			&fl.HTTPStatusCode,
			&fl.LastAttemptAt,
			&fl.AttemptCount,
		); err != nil {
			return nil, err
		}
		fl.Stage = entity.Stage(stage)
		lookups = append(lookups, &fl)
	}

	return lookups, rows.Err()
}

// Delete removes a target's record, typically after a successful lookup.
func (r *FailedLookupRepoImpl) Delete(ctx context.Context, targetURL string) error {
	query := `DELETE FROM failed_lookups WHERE target_url = $1;`
	_, err := r.db.Exec(ctx, query, targetURL)
	return err
}
