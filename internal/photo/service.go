package photo

import (
	"context"
	"log/slog"
	"time"

	"github.com/patrickmn/go-cache"
	"golang.org/x/sync/singleflight"

	"github.com/mmcdole/splash/internal/domain"
	"github.com/mmcdole/splash/internal/preview"
)

const (
	// DefaultMaxAge is how long a fetched photo is served from the store
	DefaultMaxAge = 24 * time.Hour

	imageTTL     = 30 * time.Minute
	imageCleanup = 1 * time.Hour
)

// Service orchestrates repository + store operations for single photos.
// It also serves as the page source for the gallery controller.
type Service struct {
	repo   domain.PhotoRepository
	store  domain.PhotoStore
	maxAge time.Duration
	logger *slog.Logger

	group  singleflight.Group
	images *cache.Cache // Downloaded preview bytes keyed by URL
}

// NewService creates a new photo service.
func NewService(repo domain.PhotoRepository, store domain.PhotoStore, maxAge time.Duration, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		repo:   repo,
		store:  store,
		maxAge: maxAge,
		logger: logger,
		images: cache.New(imageTTL, imageCleanup),
	}
}

// FetchPage loads one page of the photo feed and seeds the store with it
func (s *Service) FetchPage(ctx context.Context, page, perPage int) ([]*domain.Photo, error) {
	photos, err := s.repo.ListPhotos(ctx, page, perPage)
	if err != nil {
		return nil, err
	}
	s.Remember(photos)
	return photos, nil
}

// Remember stores list records so the detail view can render before the full record arrives
func (s *Service) Remember(photos []*domain.Photo) {
	for _, p := range photos {
		if err := s.store.SeedPhoto(p); err != nil {
			s.logger.Warn("failed to seed photo", "id", p.GetID(), "error", err)
		}
	}
}

// FetchPhoto returns the full record for a photo, from the store when fresh.
// Concurrent calls for the same ID share one request.
func (s *Service) FetchPhoto(ctx context.Context, id string) (*domain.Photo, error) {
	if s.store.IsFresh(id, s.maxAge) {
		if p, ok := s.store.GetPhoto(id); ok {
			s.logger.Debug("photo cache fresh", "id", id)
			return p, nil
		}
	}

	v, err, shared := s.group.Do(id, func() (any, error) {
		p, err := s.repo.GetPhoto(ctx, id)
		if err != nil {
			return nil, err
		}
		if err := s.store.SavePhoto(p); err != nil {
			s.logger.Error("failed to save photo", "id", id, "error", err)
		}
		return p, nil
	})
	if err != nil {
		s.logger.Error("failed to fetch photo", "id", id, "error", err)
		return nil, err
	}

	s.logger.Debug("fetched photo", "id", id, "shared", shared)
	return v.(*domain.Photo), nil
}

// FetchPreview downloads the photo's small rendition and renders it for the terminal
func (s *Service) FetchPreview(ctx context.Context, p *domain.Photo, cols, rows int) (string, error) {
	url := p.PreviewURL()

	var data []byte
	if v, ok := s.images.Get(url); ok {
		data = v.([]byte)
	} else {
		v, err, _ := s.group.Do("image:"+url, func() (any, error) {
			return s.repo.FetchImage(ctx, url)
		})
		if err != nil {
			s.logger.Error("failed to fetch preview", "id", p.ID, "error", err)
			return "", err
		}
		data = v.([]byte)
		s.images.SetDefault(url, data)
	}

	return preview.Render(data, cols, rows)
}

// Invalidate drops a photo from the store so the next fetch goes to the network
func (s *Service) Invalidate(id string) {
	s.store.InvalidatePhoto(id)
}
