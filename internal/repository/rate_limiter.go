package repository

//go:generate mockgen -source=rate_limiter.go -destination=mocks/mock_rate_limiter.go -package=mock_repository

import "context"

// RateLimiter bounds how often the service fetches from a single upstream host.
type RateLimiter interface {
	// Allow records one fetch against host and reports whether it is within the limit.
	Allow(ctx context.Context, host string) (bool, error)
}
