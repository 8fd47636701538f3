package preview

import (
	"bytes"
	"errors"
	"image"
	"image/color"
	"image/png"
	"strings"
	"testing"

	"github.com/charmbracelet/lipgloss"
)

func encodePNG(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, color.RGBA{R: uint8(x * 10), G: uint8(y * 10), B: 128, A: 255})
		}
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("encode: %v", err)
	}
	return buf.Bytes()
}

func TestRender_FitsArea(t *testing.T) {
	tests := []struct {
		name      string
		imgW      int
		imgH      int
		cols      int
		rows      int
		wantCols  int
		wantLines int
	}{
		{"landscape limited by width", 200, 100, 20, 20, 20, 5},
		{"portrait limited by height", 100, 200, 40, 10, 10, 10},
		{"square", 50, 50, 10, 10, 10, 5},
		{"upscales small image", 4, 4, 8, 8, 8, 4},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := Render(encodePNG(t, tt.imgW, tt.imgH), tt.cols, tt.rows)
			if err != nil {
				t.Fatalf("Render: %v", err)
			}
			lines := strings.Split(out, "\n")
			if len(lines) != tt.wantLines {
				t.Errorf("lines = %d, want %d", len(lines), tt.wantLines)
			}
			for i, line := range lines {
				if w := lipgloss.Width(line); w != tt.wantCols {
					t.Fatalf("line %d width = %d, want %d", i, w, tt.wantCols)
				}
			}
		})
	}
}

func TestRender_Errors(t *testing.T) {
	if _, err := Render([]byte("not an image"), 10, 10); err == nil {
		t.Error("expected decode error")
	}
	if _, err := Render(encodePNG(t, 4, 4), 0, 10); !errors.Is(err, ErrTooSmall) {
		t.Errorf("err = %v, want ErrTooSmall", err)
	}
}

func TestPlaceholder(t *testing.T) {
	out := Placeholder("#60544D", 6, 3)
	lines := strings.Split(out, "\n")
	if len(lines) != 3 {
		t.Fatalf("lines = %d, want 3", len(lines))
	}
	for _, line := range lines {
		if w := lipgloss.Width(line); w != 6 {
			t.Errorf("width = %d, want 6", w)
		}
	}
	if Placeholder("#000000", 0, 3) != "" {
		t.Error("expected empty placeholder for zero width")
	}
}
