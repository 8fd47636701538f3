package components

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/mmcdole/splash/internal/domain"
	"github.com/mmcdole/splash/internal/preview"
	"github.com/mmcdole/splash/internal/tui/styles"
)

// Layout constants for the detail view
const (
	DetailBorderHeight     = 2
	DetailScrollIndicators = 2
	DetailHeaderLines      = 2 // title + blank line

	// Share of the interior height given to the image preview
	PreviewHeightPercent = 60
)

// detailContent holds the three-zone layout content
type detailContent struct {
	header string // fixed top
	body   string // scrollable middle
	footer string // fixed bottom
}

// PhotoDetail displays one photo: preview, author, caption and links
type PhotoDetail struct {
	photo *domain.Photo

	loading    bool  // full record is being fetched
	err        error // full record failed to load
	preview    string
	previewErr error

	width      int
	height     int
	offset     int // scroll offset
	maxVisible int // max visible body lines

	keys PhotoDetailKeyMap
}

// NewPhotoDetail creates a new detail component
func NewPhotoDetail() PhotoDetail {
	return PhotoDetail{keys: DefaultPhotoDetailKeyMap()}
}

// Show resets the view for a photo. p may be nil while the record loads.
func (d *PhotoDetail) Show(id string, p *domain.Photo) {
	d.photo = p
	if p == nil {
		d.photo = &domain.Photo{ID: id}
	}
	d.loading = true
	d.err = nil
	d.preview = ""
	d.previewErr = nil
	d.offset = 0
}

// SetPhoto replaces the record with the fully fetched one
func (d *PhotoDetail) SetPhoto(p *domain.Photo) {
	d.photo = p
	d.loading = false
	d.err = nil
}

// SetError records a failure to fetch the full record
func (d *PhotoDetail) SetError(err error) {
	d.loading = false
	d.err = err
}

// SetPreview sets the rendered image
func (d *PhotoDetail) SetPreview(rendered string) {
	d.preview = rendered
	d.previewErr = nil
}

// SetPreviewError records a failure to fetch or render the image
func (d *PhotoDetail) SetPreviewError(err error) {
	d.previewErr = err
}

// Photo returns the photo being displayed
func (d PhotoDetail) Photo() *domain.Photo {
	return d.photo
}

// PhotoID returns the ID of the photo being displayed
func (d PhotoDetail) PhotoID() string {
	if d.photo == nil {
		return ""
	}
	return d.photo.ID
}

// HasPreview reports whether an image has been rendered
func (d PhotoDetail) HasPreview() bool {
	return d.preview != ""
}

// SetSize updates the component dimensions
func (d *PhotoDetail) SetSize(width, height int) {
	d.width = width
	d.height = height
	d.maxVisible = height - DetailBorderHeight - DetailScrollIndicators - DetailHeaderLines
	if d.maxVisible < 1 {
		d.maxVisible = 1
	}
}

// PreviewSize returns the cell area available for the image preview
func (d PhotoDetail) PreviewSize() (cols, rows int) {
	cols = d.width - BorderWidth - HorizontalPadding - ItemWidthMargin
	rows = (d.height - DetailBorderHeight) * PreviewHeightPercent / 100
	return max(cols, 0), max(rows, 0)
}

// Update handles scrolling
func (d PhotoDetail) Update(msg tea.Msg) (PhotoDetail, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch {
		case key.Matches(msg, d.keys.Down):
			d.scroll(1)
		case key.Matches(msg, d.keys.Up):
			d.scroll(-1)
		}
	case tea.MouseMsg:
		if msg.Action == tea.MouseActionPress {
			switch msg.Button {
			case tea.MouseButtonWheelDown:
				d.scroll(WheelStep)
			case tea.MouseButtonWheelUp:
				d.scroll(-WheelStep)
			}
		}
	}
	return d, nil
}

func (d *PhotoDetail) scroll(delta int) {
	lines := strings.Count(d.buildContent(d.contentWidth()).body, "\n") + 1
	d.offset = max(0, min(d.offset+delta, lines-d.maxVisible))
}

func (d PhotoDetail) contentWidth() int {
	return d.width - BorderWidth - HorizontalPadding - ItemWidthMargin
}

// View renders the component
func (d PhotoDetail) View() string {
	style := styles.ActiveBorder
	frameW, frameH := style.GetFrameSize()

	content := d.buildContent(d.contentWidth())

	bodyLines := strings.Split(content.body, "\n")
	end := min(d.offset+d.maxVisible, len(bodyLines))
	start := min(d.offset, end)

	up := " "
	if start > 0 {
		up = styles.DimStyle.Render("↑ more")
	}
	down := " "
	if end < len(bodyLines) {
		down = styles.DimStyle.Render("↓ more")
	}

	parts := []string{content.header, up, strings.Join(bodyLines[start:end], "\n"), down}
	if content.footer != "" {
		parts = append(parts, content.footer)
	}

	return style.
		Width(d.width-frameW).
		Height(d.height-frameH).
		Padding(0, 1).
		Render(strings.Join(parts, "\n"))
}

func (d PhotoDetail) buildContent(width int) detailContent {
	if d.photo == nil {
		return detailContent{header: styles.DimStyle.Render("No photo selected")}
	}
	p := d.photo

	// Header: title and badges
	title := styles.TitleStyle.Render(styles.Truncate(p.Title(), max(width-20, 10)))
	var badges []string
	if dims := p.Dimensions(); dims != "" {
		badges = append(badges, styles.DimBadgeStyle.Render(dims))
	}
	if o := p.Orientation(); o != domain.OrientationUnknown {
		badges = append(badges, styles.DimBadgeStyle.Render(o.String()))
	}
	header := title
	if len(badges) > 0 {
		header += "  " + strings.Join(badges, " ")
	}
	header += "\n"

	// Body
	var body []string
	body = append(body, d.renderPreview())
	body = append(body, "")

	if d.err != nil {
		body = append(body, styles.ErrorStyle.Render("Could not load photo: "+d.err.Error()))
		body = append(body, "")
	} else if d.loading && p.User.Username == "" {
		body = append(body, styles.DimStyle.Render("Loading photo..."))
		body = append(body, "")
	}

	if p.User.Username != "" || p.User.Name != "" {
		author := styles.AccentStyle.Render(p.Author())
		if p.User.Username != "" && p.User.Name != "" {
			author += styles.DimStyle.Render(" @" + p.User.Username)
		}
		body = append(body, "by "+author)
		body = append(body, "")
	}

	caption := lipgloss.NewStyle().Width(max(width, 10)).Foreground(styles.LightGray).Render(p.Caption())
	body = append(body, caption)
	body = append(body, "")

	var meta []string
	meta = append(meta, styles.HeartStyle.Render(fmt.Sprintf("%s %d", styles.HeartChar, p.Likes)))
	if !p.CreatedAt.IsZero() {
		meta = append(meta, styles.DimStyle.Render(p.CreatedAt.Format("Jan 2, 2006")))
	}
	if p.Color != "" {
		meta = append(meta, lipgloss.NewStyle().Foreground(lipgloss.Color(p.Color)).Render("■ "+p.Color))
	}
	body = append(body, strings.Join(meta, styles.DimStyle.Render("  ·  ")))

	if link := p.AuthorProfileURL(); link != "" {
		body = append(body, styles.DimStyle.Render("Author  ")+styles.LinkStyle.Render(link))
	}
	if p.PageURL != "" {
		body = append(body, styles.DimStyle.Render("Photo   ")+styles.LinkStyle.Render(p.PageURL))
	}

	return detailContent{
		header: header,
		body:   strings.Join(body, "\n"),
	}
}

func (d PhotoDetail) renderPreview() string {
	cols, rows := d.PreviewSize()
	switch {
	case d.preview != "":
		return d.preview
	case d.previewErr != nil:
		return styles.DimStyle.Render("Preview unavailable: " + d.previewErr.Error())
	case d.photo.Color != "" && cols > 0 && rows > 0:
		return preview.Placeholder(d.photo.Color, cols/2, rows)
	default:
		return styles.DimStyle.Render("Loading preview...")
	}
}
