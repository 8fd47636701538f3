package domain

import (
	"errors"
	"fmt"
)

// Sentinel errors for domain operations
var (
	// ErrPhotoNotFound indicates the requested photo does not exist
	ErrPhotoNotFound = errors.New("photo not found")

	// ErrAPIUnreachable indicates the photo API could not be reached
	ErrAPIUnreachable = errors.New("photo API is unreachable")

	// ErrUnauthorized indicates the access key was rejected
	ErrUnauthorized = errors.New("access key is invalid")

	// ErrRateLimited indicates the hourly request quota is used up
	ErrRateLimited = errors.New("rate limit exceeded")

	// ErrNotConfigured indicates no access key has been set
	ErrNotConfigured = errors.New("access key is not configured")
)

// FetchError is a recoverable failure to load a page or a photo.
// The request can be retried as-is; nothing has advanced.
type FetchError struct {
	Page   int // Page number requested, 0 for single-photo requests
	Status int // HTTP status, 0 when no response was received
	Err    error
}

func (e *FetchError) Error() string {
	var what string
	if e.Page > 0 {
		what = fmt.Sprintf("failed to fetch page %d", e.Page)
	} else {
		what = "failed to fetch photo"
	}
	if e.Status != 0 {
		what = fmt.Sprintf("%s (status %d)", what, e.Status)
	}
	if e.Err != nil {
		return what + ": " + e.Err.Error()
	}
	return what
}

func (e *FetchError) Unwrap() error { return e.Err }
