package store

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/patrickmn/go-cache"
	bolt "go.etcd.io/bbolt"

	"github.com/mmcdole/splash/internal/domain"
)

// Bucket names
var (
	bucketPhotos = []byte("photos")
	bucketMeta   = []byte("meta")

	allBuckets = [][]byte{bucketPhotos, bucketMeta}
)

const (
	dbFile = "splash.db"

	memoryTTL     = 30 * time.Minute
	memoryCleanup = 1 * time.Hour
)

// PhotoStore implements domain.PhotoStore using BoltDB behind an in-memory TTL cache.
type PhotoStore struct {
	db *bolt.DB

	// Hot-path reads; entries are promoted here from BoltDB on access
	mem *cache.Cache
}

// NewPhotoStore opens the store for one API endpoint.
// An empty baseCacheDir gives a memory-only store.
func NewPhotoStore(baseCacheDir, baseURL string) (*PhotoStore, error) {
	if baseCacheDir == "" {
		return &PhotoStore{mem: cache.New(cache.NoExpiration, 0)}, nil
	}

	dir := baseCacheDir
	if baseURL != "" {
		dir = filepath.Join(baseCacheDir, hashBaseURL(baseURL))
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, err
	}

	db, err := bolt.Open(filepath.Join(dir, dbFile), 0600, &bolt.Options{Timeout: 1 * time.Second})
	if err != nil {
		return nil, fmt.Errorf("failed to open bolt db: %w", err)
	}

	err = db.Update(func(tx *bolt.Tx) error {
		for _, bucket := range allBuckets {
			if _, err := tx.CreateBucketIfNotExists(bucket); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		db.Close()
		return nil, err
	}

	return &PhotoStore{db: db, mem: cache.New(memoryTTL, memoryCleanup)}, nil
}

func hashBaseURL(baseURL string) string {
	normalized := strings.TrimRight(strings.ToLower(baseURL), "/")
	hash := sha256.Sum256([]byte(normalized))
	return hex.EncodeToString(hash[:6])
}

// Persistent reports whether the store is backed by a file
func (s *PhotoStore) Persistent() bool {
	return s.db != nil
}

func (s *PhotoStore) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// === Generic helpers ===

func cacheKey(bucket []byte, key string) string {
	return string(bucket) + ":" + key
}

func (s *PhotoStore) load(bucket []byte, key string) []byte {
	ck := cacheKey(bucket, key)
	if v, ok := s.mem.Get(ck); ok {
		return v.([]byte)
	}

	if s.db == nil {
		return nil
	}

	var data []byte
	s.db.View(func(tx *bolt.Tx) error {
		b := tx.Bucket(bucket)
		if b == nil {
			return nil
		}
		if v := b.Get([]byte(key)); v != nil {
			data = make([]byte, len(v))
			copy(data, v)
		}
		return nil
	})

	if data != nil {
		s.mem.SetDefault(ck, data)
	}
	return data
}

func (s *PhotoStore) store(bucket []byte, key string, data []byte) error {
	s.mem.SetDefault(cacheKey(bucket, key), data)

	if s.db == nil {
		return nil
	}

	return s.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(bucket).Put([]byte(key), data)
	})
}

func (s *PhotoStore) delete(bucket []byte, key string) {
	s.mem.Delete(cacheKey(bucket, key))

	if s.db == nil {
		return
	}

	s.db.Update(func(tx *bolt.Tx) error {
		if b := tx.Bucket(bucket); b != nil {
			b.Delete([]byte(key))
		}
		return nil
	})
}

// === Photos ===

// GetPhoto returns a cached photo regardless of its age
func (s *PhotoStore) GetPhoto(id string) (*domain.Photo, bool) {
	data := s.load(bucketPhotos, id)
	if data == nil {
		return nil, false
	}
	var photo domain.Photo
	if err := json.Unmarshal(data, &photo); err != nil {
		return nil, false
	}
	return &photo, true
}

// SavePhoto stores a full photo record and stamps it as fetched now
func (s *PhotoStore) SavePhoto(photo *domain.Photo) error {
	if err := s.putPhoto(photo); err != nil {
		return err
	}
	stamp, err := time.Now().UTC().MarshalText()
	if err != nil {
		return err
	}
	return s.store(bucketMeta, photo.ID, stamp)
}

// SeedPhoto stores a list record without stamping it, so a detail fetch still happens.
// Existing entries are left alone.
func (s *PhotoStore) SeedPhoto(photo *domain.Photo) error {
	if photo != nil {
		if _, ok := s.GetPhoto(photo.ID); ok {
			return nil
		}
	}
	return s.putPhoto(photo)
}

func (s *PhotoStore) putPhoto(photo *domain.Photo) error {
	if photo == nil || photo.ID == "" {
		return fmt.Errorf("cannot store photo without ID")
	}
	data, err := json.Marshal(photo)
	if err != nil {
		return err
	}
	return s.store(bucketPhotos, photo.ID, data)
}

// IsFresh reports whether the photo was fetched less than maxAge ago
func (s *PhotoStore) IsFresh(id string, maxAge time.Duration) bool {
	if maxAge <= 0 {
		return false
	}
	data := s.load(bucketMeta, id)
	if data == nil {
		return false
	}
	var fetchedAt time.Time
	if err := fetchedAt.UnmarshalText(data); err != nil {
		return false
	}
	return time.Since(fetchedAt) < maxAge
}

func (s *PhotoStore) InvalidatePhoto(id string) {
	s.delete(bucketPhotos, id)
	s.delete(bucketMeta, id)
}

func (s *PhotoStore) InvalidateAll() {
	s.mem.Flush()

	if s.db == nil {
		return
	}

	s.db.Update(func(tx *bolt.Tx) error {
		for _, bucket := range allBuckets {
			if err := tx.DeleteBucket(bucket); err != nil && !errors.Is(err, bolt.ErrBucketNotFound) {
				return err
			}
			if _, err := tx.CreateBucket(bucket); err != nil {
				return err
			}
		}
		return nil
	})
}
