package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/charmbracelet/lipgloss"
	"golang.org/x/term"
	"gopkg.in/yaml.v3"

	"github.com/mmcdole/splash/internal/domain"
	"github.com/mmcdole/splash/internal/tui/styles"
)

// Output formats
const (
	formatText = "text"
	formatJSON = "json"
	formatYAML = "yaml"
)

// photoRecord is the scripting view of a photo
type photoRecord struct {
	ID          string    `json:"id" yaml:"id"`
	Title       string    `json:"title" yaml:"title"`
	Description string    `json:"description" yaml:"description"`
	Author      string    `json:"author" yaml:"author"`
	AuthorURL   string    `json:"author_url,omitempty" yaml:"author_url,omitempty"`
	Width       int       `json:"width" yaml:"width"`
	Height      int       `json:"height" yaml:"height"`
	Color       string    `json:"color,omitempty" yaml:"color,omitempty"`
	Likes       int       `json:"likes" yaml:"likes"`
	CreatedAt   time.Time `json:"created_at,omitzero" yaml:"created_at,omitempty"`
	URL         string    `json:"url,omitempty" yaml:"url,omitempty"`
	ImageURL    string    `json:"image_url,omitempty" yaml:"image_url,omitempty"`
}

func toRecord(p *domain.Photo) photoRecord {
	return photoRecord{
		ID:          p.ID,
		Title:       p.Title(),
		Description: p.Caption(),
		Author:      p.Author(),
		AuthorURL:   p.AuthorProfileURL(),
		Width:       p.Width,
		Height:      p.Height,
		Color:       p.Color,
		Likes:       p.Likes,
		CreatedAt:   p.CreatedAt,
		URL:         p.PageURL,
		ImageURL:    p.PreviewURL(),
	}
}

func checkFormat(format string) error {
	switch format {
	case formatText, formatJSON, formatYAML:
		return nil
	}
	return fmt.Errorf("unknown output format %q (want text, json or yaml)", format)
}

// encode writes v as JSON or YAML
func encode(w io.Writer, format string, v any) error {
	switch format {
	case formatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	case formatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(v); err != nil {
			return err
		}
		return enc.Close()
	}
	return checkFormat(format)
}

// isTerminal reports whether w is an interactive terminal
func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

func stdinIsTerminal() bool {
	return term.IsTerminal(int(os.Stdin.Fd()))
}

// writePhotoTable writes one photo per line, styled when w is a terminal
func writePhotoTable(w io.Writer, photos []*domain.Photo) error {
	styled := isTerminal(w)

	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	for _, p := range photos {
		id, title, author := p.ID, styles.Truncate(p.Title(), 50), p.Author()
		likes := fmt.Sprintf("%s %d", styles.HeartChar, p.Likes)
		if styled {
			id = styles.DimStyle.Render(id)
			author = styles.AccentStyle.Render(author)
			likes = styles.HeartStyle.Render(likes)
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", id, title, author, likes)
	}
	return tw.Flush()
}

// writePhotoDetail writes every field of one photo
func writePhotoDetail(w io.Writer, p *domain.Photo) error {
	styled := isTerminal(w)
	label := func(s string) string {
		if styled {
			return styles.DimStyle.Render(s)
		}
		return s
	}

	title := p.Title()
	if styled {
		title = styles.TitleStyle.Render(title)
	}

	var sb strings.Builder
	sb.WriteString(title + "\n\n")

	rows := [][2]string{
		{"ID", p.ID},
		{"Author", p.Author()},
		{"Profile", p.AuthorProfileURL()},
		{"Size", p.Dimensions()},
		{"Orientation", p.Orientation().String()},
		{"Likes", fmt.Sprint(p.Likes)},
		{"Color", p.Color},
		{"Page", p.PageURL},
		{"Image", p.PreviewURL()},
	}
	if !p.CreatedAt.IsZero() {
		rows = append(rows, [2]string{"Created", p.CreatedAt.Format("Jan 2, 2006")})
	}

	tw := tabwriter.NewWriter(&sb, 0, 4, 2, ' ', 0)
	for _, r := range rows {
		if r[1] == "" {
			continue
		}
		fmt.Fprintf(tw, "%s\t%s\n", label(r[0]), r[1])
	}
	tw.Flush()

	sb.WriteString("\n")
	if styled {
		sb.WriteString(lipgloss.NewStyle().Width(72).Render(p.Caption()))
	} else {
		sb.WriteString(p.Caption())
	}
	sb.WriteString("\n")

	_, err := io.WriteString(w, sb.String())
	return err
}
