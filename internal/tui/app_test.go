package tui

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"sync"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/mmcdole/splash/internal/browser"
	"github.com/mmcdole/splash/internal/domain"
	"github.com/mmcdole/splash/internal/gallery"
	"github.com/mmcdole/splash/internal/photo"
	"github.com/mmcdole/splash/internal/store"
)

var discard = slog.New(slog.DiscardHandler)

type stubRepo struct {
	mu    sync.Mutex
	pages map[int][]*domain.Photo
	err   error
}

func (r *stubRepo) ListPhotos(ctx context.Context, page, perPage int) ([]*domain.Photo, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return nil, r.err
	}
	return r.pages[page], nil
}

func (r *stubRepo) GetPhoto(ctx context.Context, id string) (*domain.Photo, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, page := range r.pages {
		for _, p := range page {
			if p.ID == id {
				return p, nil
			}
		}
	}
	return nil, domain.ErrPhotoNotFound
}

func (r *stubRepo) FetchImage(ctx context.Context, url string) ([]byte, error) {
	return nil, errors.New("no images in tests")
}

func photos(ids ...string) []*domain.Photo {
	out := make([]*domain.Photo, len(ids))
	for i, id := range ids {
		out[i] = &domain.Photo{ID: id, Description: "photo " + id, PageURL: "https://unsplash.com/photos/" + id}
	}
	return out
}

func newTestModel(t *testing.T, repo *stubRepo, startID string) Model {
	t.Helper()
	st, err := store.NewPhotoStore("", "")
	if err != nil {
		t.Fatalf("NewPhotoStore: %v", err)
	}
	svc := photo.NewService(repo, st, time.Hour, discard)
	feed := gallery.NewController[*domain.Photo](svc, 2, discard)

	m := NewModel(feed, svc, photo.NewQueries(st), browser.NewLauncher("", nil, discard), Options{
		PrefetchRows: 5,
		// Long enough that scroll positions are never evaluated during a test
		Debounce:     time.Hour,
		StartPhotoID: startID,
		Logger:       discard,
	})
	t.Cleanup(m.Trigger.Detach)

	updated, _ := m.Update(tea.WindowSizeMsg{Width: 100, Height: 30})
	return updated.(Model)
}

func send(t *testing.T, m Model, msg tea.Msg) (Model, tea.Cmd) {
	t.Helper()
	updated, cmd := m.Update(msg)
	return updated.(Model), cmd
}

func runeKey(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func TestModel_MountLoadFillsGrid(t *testing.T) {
	repo := &stubRepo{pages: map[int][]*domain.Photo{1: photos("a", "b")}}
	m := newTestModel(t, repo, "")

	if !m.Trigger.Attached() {
		t.Fatal("trigger should be attached in the gallery view")
	}

	m, _ = send(t, m, LoadNextPageCmd(m.Feed)())
	if m.Grid.Len() != 2 {
		t.Fatalf("grid holds %d photos, want 2", m.Grid.Len())
	}
	if got := m.Grid.Selected(); got == nil || got.ID != "a" {
		t.Errorf("selected = %v, want a", got)
	}

	// Page 2 is empty
	m, _ = send(t, m, LoadNextPageCmd(m.Feed)())
	if got := m.footerStatus(); !strings.Contains(got, "No more photos to load.") {
		t.Errorf("footer = %q, want end-of-feed message", got)
	}
}

func TestModel_FailureShowsRetry(t *testing.T) {
	repo := &stubRepo{err: errors.New("failed to fetch page 1 (status 500): boom")}
	m := newTestModel(t, repo, "")

	m, cmd := send(t, m, runeKey("r"))
	if cmd != nil {
		t.Error("retry without an error should do nothing")
	}

	m, _ = send(t, m, LoadNextPageCmd(m.Feed)())
	footer := m.footerStatus()
	if !strings.Contains(footer, "boom") || !strings.Contains(footer, "retry") {
		t.Errorf("footer = %q, want error and retry hint", footer)
	}

	repo.mu.Lock()
	repo.err = nil
	repo.pages = map[int][]*domain.Photo{1: photos("a")}
	repo.mu.Unlock()

	m, cmd = send(t, m, runeKey("r"))
	if cmd == nil {
		t.Fatal("retry after an error should load")
	}
	msg, ok := cmd().(PageLoadedMsg)
	if !ok {
		t.Fatalf("retry produced %T, want PageLoadedMsg", msg)
	}
	if msg.Result.Page != 1 || msg.Result.Outcome != gallery.OutcomeAppended {
		t.Errorf("retry result = %+v, want page 1 appended", msg.Result)
	}

	m, _ = send(t, m, msg)
	if m.Grid.Len() != 1 {
		t.Errorf("grid holds %d photos, want 1", m.Grid.Len())
	}
	if footer := m.footerStatus(); strings.Contains(footer, "boom") {
		t.Errorf("footer still shows the error: %q", footer)
	}
}

func TestModel_DetailDetachesTrigger(t *testing.T) {
	repo := &stubRepo{pages: map[int][]*domain.Photo{1: photos("a", "b")}}
	m := newTestModel(t, repo, "")
	m, _ = send(t, m, LoadNextPageCmd(m.Feed)())

	m, _ = send(t, m, runeKey("j"))
	m, cmd := send(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	if cmd == nil {
		t.Error("opening a photo should fetch it")
	}
	if m.Screen != ScreenDetail {
		t.Fatalf("view = %v, want detail", m.Screen)
	}
	if m.Detail.PhotoID() != "b" {
		t.Errorf("detail shows %q, want b", m.Detail.PhotoID())
	}
	if m.Trigger.Attached() {
		t.Error("trigger should be detached in the detail view")
	}

	m, cmd = send(t, m, tea.KeyMsg{Type: tea.KeyEsc})
	if m.Screen != ScreenGallery {
		t.Fatalf("view = %v, want gallery", m.Screen)
	}
	if !m.Trigger.Attached() {
		t.Error("trigger should be attached again")
	}
	if cmd != nil {
		t.Error("returning to a loaded gallery should not start a load")
	}
	if got := m.Grid.Selected(); got == nil || got.ID != "b" {
		t.Errorf("selected = %v, want b", got)
	}
}

func TestModel_StartInDetailLoadsGalleryOnReturn(t *testing.T) {
	repo := &stubRepo{pages: map[int][]*domain.Photo{1: photos("a", "b")}}
	m := newTestModel(t, repo, "b")

	if m.Screen != ScreenDetail {
		t.Fatalf("view = %v, want detail", m.Screen)
	}
	if m.Trigger.Attached() {
		t.Error("trigger should stay detached until the gallery is shown")
	}
	if m.Feed.Snapshot().Cursor != 1 {
		t.Error("gallery should not load while starting in the detail view")
	}

	m, cmd := send(t, m, tea.KeyMsg{Type: tea.KeyEsc})
	if cmd == nil {
		t.Fatal("returning to an empty gallery should load the first page")
	}
	msg, ok := cmd().(PageLoadedMsg)
	if !ok {
		t.Fatalf("got %T, want PageLoadedMsg", msg)
	}
	m, _ = send(t, m, msg)
	if m.Grid.Len() != 2 {
		t.Errorf("grid holds %d photos, want 2", m.Grid.Len())
	}
}

func TestModel_IgnoresStalePhotoMessages(t *testing.T) {
	repo := &stubRepo{}
	m := newTestModel(t, repo, "a")

	m, _ = send(t, m, PhotoLoadedMsg{Photo: &domain.Photo{ID: "other", Description: "stale"}})
	if m.Detail.Photo().Description == "stale" {
		t.Error("detail accepted a record for another photo")
	}

	m, _ = send(t, m, PhotoLoadedMsg{Photo: &domain.Photo{ID: "a", Description: "fresh"}})
	if m.Detail.Photo().Description != "fresh" {
		t.Errorf("description = %q, want fresh", m.Detail.Photo().Description)
	}

	m, _ = send(t, m, PreviewLoadedMsg{ID: "other", Preview: "pixels"})
	if m.Detail.HasPreview() {
		t.Error("detail accepted a preview for another photo")
	}
}

func TestChannelObserver_DoesNotBlock(t *testing.T) {
	ch := make(chan gallery.Result, 1)
	obs := NewChannelObserver(ch)

	done := make(chan struct{})
	go func() {
		obs.OnLoad(gallery.Result{Outcome: gallery.OutcomeAppended, Page: 1})
		obs.OnLoad(gallery.Result{Outcome: gallery.OutcomeAppended, Page: 2})
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("OnLoad blocked on a full channel")
	}
	if got := <-ch; got.Page != 1 {
		t.Errorf("page = %d, want 1", got.Page)
	}
}
