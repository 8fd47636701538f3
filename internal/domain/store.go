package domain

import "time"

// PhotoStore handles the local photo cache (memory + BoltDB).
// Pagination state is never stored here; only individual photo records.
type PhotoStore interface {
	GetPhoto(id string) (*Photo, bool)
	SavePhoto(photo *Photo) error

	// SeedPhoto stores a partial record without marking it fresh
	SeedPhoto(photo *Photo) error

	// IsFresh reports whether the cached record was saved less than maxAge ago
	IsFresh(id string, maxAge time.Duration) bool

	InvalidatePhoto(id string)
	InvalidateAll()

	Close() error
}
