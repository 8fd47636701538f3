package components

import (
	"fmt"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/mmcdole/splash/internal/domain"
)

func gridPhotos(n int) []*domain.Photo {
	photos := make([]*domain.Photo, n)
	for i := range photos {
		photos[i] = &domain.Photo{
			ID:             fmt.Sprintf("p%d", i),
			AltDescription: fmt.Sprintf("photo %d", i),
			User:           domain.User{Name: "Ann"},
		}
	}
	return photos
}

func typeText(g PhotoGrid, s string) PhotoGrid {
	for _, r := range s {
		g, _ = g.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}})
	}
	return g
}

func TestPhotoGrid_ViewportTracksScroll(t *testing.T) {
	g := NewPhotoGrid()
	g.SetSize(80, 12)
	g.SetPhotos(gridPhotos(20))

	vp := g.Viewport()
	if vp.Offset != 0 || vp.Total != 20 || vp.Visible < 1 {
		t.Fatalf("initial viewport = %+v", vp)
	}

	g, _ = g.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("G")})
	vp = g.Viewport()
	if vp.Remaining() != 0 {
		t.Errorf("after End, remaining = %d, want 0 (%+v)", vp.Remaining(), vp)
	}
	if g.Selected().ID != "p19" {
		t.Errorf("selected = %s, want p19", g.Selected().ID)
	}
}

func TestPhotoGrid_AppendKeepsCursor(t *testing.T) {
	g := NewPhotoGrid()
	g.SetSize(80, 12)
	g.SetPhotos(gridPhotos(5))
	g.SetCursor(3)

	g.SetPhotos(gridPhotos(10))
	if g.Cursor() != 3 || g.Selected().ID != "p3" {
		t.Errorf("cursor = %d (%s), want 3 (p3)", g.Cursor(), g.Selected().ID)
	}
}

func TestPhotoGrid_Filter(t *testing.T) {
	g := NewPhotoGrid()
	g.SetSize(80, 12)
	g.SetPhotos(gridPhotos(12))

	g, _ = g.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("/")})
	if !g.IsFilterTyping() {
		t.Fatal("filter should be accepting input")
	}
	g = typeText(g, "photo 11")

	if got := g.Viewport().Total; got != 1 {
		t.Fatalf("filtered total = %d, want 1", got)
	}
	if g.Selected().ID != "p11" {
		t.Errorf("selected = %s, want p11", g.Selected().ID)
	}

	// Accept, then clear: the selection stays on the same photo
	g, _ = g.Update(tea.KeyMsg{Type: tea.KeyEnter})
	if g.IsFilterTyping() || !g.IsFiltering() {
		t.Fatal("enter should keep the filter but stop typing")
	}
	g, _ = g.Update(tea.KeyMsg{Type: tea.KeyEsc})
	if g.IsFiltering() {
		t.Fatal("esc should clear the filter")
	}
	if g.Viewport().Total != 12 {
		t.Errorf("total = %d, want 12", g.Viewport().Total)
	}
	if g.Selected().ID != "p11" {
		t.Errorf("selected = %s, want p11 after clearing", g.Selected().ID)
	}
}

func TestPhotoGrid_NoMatches(t *testing.T) {
	g := NewPhotoGrid()
	g.SetSize(80, 12)
	g.SetPhotos(gridPhotos(3))

	g, _ = g.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("/")})
	g = typeText(g, "zzz")

	if !g.IsEmpty() || g.Selected() != nil {
		t.Error("expected no visible photos")
	}
}
