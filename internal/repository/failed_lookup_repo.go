package repository

//go:generate mockgen -source=failed_lookup_repo.go -destination=mocks/mock_failed_lookup_repo.go -package=mock_repository

import (
	"context"

	"github.com/user/og-image-service/internal/entity"
)

// FailedLookupRepository defines the interface for the ledger of lookups that fell back to the placeholder.
type FailedLookupRepository interface {
	// SaveOrUpdate creates or updates the record for a target URL, incrementing its attempt count.
	SaveOrUpdate(ctx context.Context, lookup *entity.FailedLookup) error
	// ListRecent returns the most recently attempted failures, newest first.
	ListRecent(ctx context.Context, limit int) ([]*entity.FailedLookup, error)
	// Delete removes a target's record, typically after a successful lookup.
	Delete(ctx context.Context, targetURL string) error
}
