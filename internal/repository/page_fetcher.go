package repository

//go:generate mockgen -source=page_fetcher.go -destination=mocks/mock_page_fetcher.go -package=mock_repository

import (
	"context"
	"net/url"

	"github.com/user/og-image-service/internal/entity"
)

// PageFetcher defines the contract for retrieving the HTML of a target page.
type PageFetcher interface {
	// FetchPage downloads the page and returns its markup. Non-2xx responses are errors.
	FetchPage(ctx context.Context, target *url.URL) (*entity.PageDocument, error)
}
