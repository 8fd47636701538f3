// Package preview renders images as terminal text using half-block cells.
package preview

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/color"
	_ "image/jpeg"
	_ "image/png"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"golang.org/x/image/draw"
	_ "golang.org/x/image/webp"
)

const halfBlock = "▀"

// ErrTooSmall is returned when the target area cannot hold a single cell
var ErrTooSmall = errors.New("preview area too small")

// Render decodes an image and renders it into at most cols x rows terminal cells.
// Each cell shows two vertically stacked pixels: the foreground paints the top
// half, the background the bottom half. Aspect ratio is preserved.
func Render(data []byte, cols, rows int) (string, error) {
	if cols < 1 || rows < 1 {
		return "", ErrTooSmall
	}

	src, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return "", fmt.Errorf("failed to decode image: %w", err)
	}

	w, h := fit(src.Bounds().Dx(), src.Bounds().Dy(), cols, rows*2)
	if w == 0 || h == 0 {
		return "", ErrTooSmall
	}

	dst := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.ApproxBiLinear.Scale(dst, dst.Bounds(), src, src.Bounds(), draw.Over, nil)

	return cells(dst), nil
}

// Placeholder renders a cols x rows block in a solid colour ("#RRGGBB").
// Used while the real image is loading.
func Placeholder(hex string, cols, rows int) string {
	if cols < 1 || rows < 1 {
		return ""
	}
	style := lipgloss.NewStyle().Background(lipgloss.Color(hex))
	line := style.Render(strings.Repeat(" ", cols))

	lines := make([]string, rows)
	for i := range lines {
		lines[i] = line
	}
	return strings.Join(lines, "\n")
}

// fit scales (w, h) down or up to the largest size inside (maxW, maxH)
func fit(w, h, maxW, maxH int) (int, int) {
	if w <= 0 || h <= 0 {
		return 0, 0
	}
	scaleW := float64(maxW) / float64(w)
	scaleH := float64(maxH) / float64(h)
	scale := min(scaleW, scaleH)

	fw := max(1, int(float64(w)*scale))
	fh := max(1, int(float64(h)*scale))
	return min(fw, maxW), min(fh, maxH)
}

func cells(img *image.RGBA) string {
	b := img.Bounds()
	var sb strings.Builder

	for y := b.Min.Y; y < b.Max.Y; y += 2 {
		if y > b.Min.Y {
			sb.WriteByte('\n')
		}
		for x := b.Min.X; x < b.Max.X; x++ {
			style := lipgloss.NewStyle().Foreground(hexColor(img.RGBAAt(x, y)))
			if y+1 < b.Max.Y {
				style = style.Background(hexColor(img.RGBAAt(x, y+1)))
			}
			sb.WriteString(style.Render(halfBlock))
		}
	}
	return sb.String()
}

func hexColor(c color.RGBA) lipgloss.Color {
	return lipgloss.Color(fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B))
}
