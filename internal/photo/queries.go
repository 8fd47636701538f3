package photo

import "github.com/mmcdole/splash/internal/domain"

// Queries provides synchronous, cache-only reads.
type Queries struct {
	store domain.PhotoStore
}

// NewQueries creates a new Queries instance.
func NewQueries(store domain.PhotoStore) *Queries {
	return &Queries{store: store}
}

func (q *Queries) CachedPhoto(id string) (*domain.Photo, bool) {
	return q.store.GetPhoto(id)
}
