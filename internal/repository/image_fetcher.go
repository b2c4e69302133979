package repository

//go:generate mockgen -source=image_fetcher.go -destination=mocks/mock_image_fetcher.go -package=mock_repository

import (
	"context"

	"github.com/user/og-image-service/internal/entity"
)

// ImageFetcher defines the contract for opening an upstream image.
type ImageFetcher interface {
	// FetchImage opens the image at imageURL. On success the caller must close the body.
	FetchImage(ctx context.Context, imageURL string) (*entity.ImageResource, error)
}
