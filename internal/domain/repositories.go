package domain

import "context"

// PhotoRepository provides access to the remote photo API
type PhotoRepository interface {
	// ListPhotos returns one page of the photo feed.
	// page is 1-based. An empty slice with a nil error means there are no more pages.
	ListPhotos(ctx context.Context, page, perPage int) ([]*Photo, error)

	// GetPhoto returns the full record for a single photo
	GetPhoto(ctx context.Context, id string) (*Photo, error)

	// FetchImage downloads the raw bytes behind an image URL
	FetchImage(ctx context.Context, url string) ([]byte, error)
}
