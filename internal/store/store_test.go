package store

import (
	"testing"
	"time"

	"github.com/mmcdole/splash/internal/domain"
)

func testPhoto(id string) *domain.Photo {
	return &domain.Photo{
		ID:             id,
		AltDescription: "a photo of " + id,
		Width:          400,
		Height:         300,
		User:           domain.User{Username: "jane", Name: "Jane"},
	}
}

func openStores(t *testing.T) map[string]*PhotoStore {
	t.Helper()
	disk, err := NewPhotoStore(t.TempDir(), "https://api.example.com")
	if err != nil {
		t.Fatalf("NewPhotoStore: %v", err)
	}
	t.Cleanup(func() { disk.Close() })

	mem, err := NewPhotoStore("", "")
	if err != nil {
		t.Fatalf("NewPhotoStore memory: %v", err)
	}
	return map[string]*PhotoStore{"bolt": disk, "memory": mem}
}

func TestPhotoStore_SaveAndGet(t *testing.T) {
	for name, s := range openStores(t) {
		t.Run(name, func(t *testing.T) {
			if _, ok := s.GetPhoto("a"); ok {
				t.Fatal("expected miss on empty store")
			}
			if err := s.SavePhoto(testPhoto("a")); err != nil {
				t.Fatalf("SavePhoto: %v", err)
			}

			got, ok := s.GetPhoto("a")
			if !ok {
				t.Fatal("expected hit after save")
			}
			if got.Title() != "a photo of a" || got.User.Name != "Jane" {
				t.Errorf("got %+v", got)
			}
			if !s.IsFresh("a", time.Hour) {
				t.Error("freshly saved photo should be fresh")
			}
			if s.IsFresh("a", 0) {
				t.Error("zero max age should never be fresh")
			}
		})
	}
}

func TestPhotoStore_SeedDoesNotMarkFresh(t *testing.T) {
	for name, s := range openStores(t) {
		t.Run(name, func(t *testing.T) {
			if err := s.SeedPhoto(testPhoto("a")); err != nil {
				t.Fatalf("SeedPhoto: %v", err)
			}
			if _, ok := s.GetPhoto("a"); !ok {
				t.Fatal("seeded photo not readable")
			}
			if s.IsFresh("a", time.Hour) {
				t.Error("seeded photo should not be fresh")
			}

			full := testPhoto("b")
			full.Description = "full record"
			if err := s.SavePhoto(full); err != nil {
				t.Fatalf("SavePhoto: %v", err)
			}
			if err := s.SeedPhoto(testPhoto("b")); err != nil {
				t.Fatalf("SeedPhoto: %v", err)
			}
			got, _ := s.GetPhoto("b")
			if got.Description != "full record" {
				t.Error("seed overwrote a full record")
			}

			if err := s.SeedPhoto(nil); err == nil {
				t.Error("expected error seeding nil photo")
			}
		})
	}
}

func TestPhotoStore_Invalidate(t *testing.T) {
	for name, s := range openStores(t) {
		t.Run(name, func(t *testing.T) {
			s.SavePhoto(testPhoto("a"))
			s.SavePhoto(testPhoto("b"))

			s.InvalidatePhoto("a")
			if _, ok := s.GetPhoto("a"); ok {
				t.Error("invalidated photo still cached")
			}
			if s.IsFresh("a", time.Hour) {
				t.Error("invalidated photo still fresh")
			}
			if _, ok := s.GetPhoto("b"); !ok {
				t.Error("unrelated photo was dropped")
			}

			s.InvalidateAll()
			if _, ok := s.GetPhoto("b"); ok {
				t.Error("photo survived InvalidateAll")
			}
		})
	}
}

func TestPhotoStore_PersistsAcrossReopen(t *testing.T) {
	dir := t.TempDir()
	const baseURL = "https://api.example.com/"

	s, err := NewPhotoStore(dir, baseURL)
	if err != nil {
		t.Fatalf("NewPhotoStore: %v", err)
	}
	if !s.Persistent() {
		t.Fatal("expected persistent store")
	}
	if err := s.SavePhoto(testPhoto("a")); err != nil {
		t.Fatalf("SavePhoto: %v", err)
	}
	s.Close()

	// Same endpoint modulo case and trailing slash maps to the same file
	reopened, err := NewPhotoStore(dir, "HTTPS://api.example.com")
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer reopened.Close()

	if _, ok := reopened.GetPhoto("a"); !ok {
		t.Fatal("photo not persisted")
	}
	if !reopened.IsFresh("a", time.Hour) {
		t.Error("fetch time not persisted")
	}

	other, err := NewPhotoStore(dir, "https://staging.example.com")
	if err != nil {
		t.Fatalf("open other endpoint: %v", err)
	}
	defer other.Close()
	if _, ok := other.GetPhoto("a"); ok {
		t.Error("stores for different endpoints share data")
	}
}

func TestPhotoStore_RejectsPhotoWithoutID(t *testing.T) {
	s, _ := NewPhotoStore("", "")
	if err := s.SavePhoto(&domain.Photo{}); err == nil {
		t.Error("expected error saving photo without ID")
	}
}
