package components

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/sahilm/fuzzy"

	"github.com/mmcdole/splash/internal/domain"
	"github.com/mmcdole/splash/internal/gallery"
	"github.com/mmcdole/splash/internal/tui/styles"
)

// Layout constants for the photo grid
const (
	// Border adds 1 char on each side (left+right for width, top+bottom for height)
	BorderWidth  = 2
	BorderHeight = 2

	// Padding inside the border (Padding(0,1) = 1 left + 1 right)
	HorizontalPadding = 2

	// Scroll indicators ("↑ more" and "↓ more") each take 1 line
	ScrollIndicatorLines = 2

	// Heading line at top of content area
	HeadingLines = 1

	// Extra safety margin for item width calculations
	ItemWidthMargin = 2

	// Rows moved per mouse wheel notch
	WheelStep = 3
)

// PhotoGrid is the scrolling photo list of the gallery view
type PhotoGrid struct {
	photos []*domain.Photo

	// Selection
	cursor     int
	offset     int
	maxVisible int

	// Dimensions
	width   int
	height  int
	focused bool

	heading string

	// Filter state
	filterActive bool
	filterInput  textinput.Model
	filterQuery  string
	filteredIdx  []int // indices into photos

	keys PhotoGridKeyMap
}

// NewPhotoGrid creates a new photo grid component
func NewPhotoGrid() PhotoGrid {
	ti := textinput.New()
	ti.Placeholder = "type to filter..."
	ti.Prompt = "/ "
	ti.PromptStyle = styles.FilterPromptStyle
	ti.TextStyle = styles.FilterStyle

	return PhotoGrid{
		filterInput: ti,
		focused:     true,
		keys:        DefaultPhotoGridKeyMap(),
	}
}

// SetPhotos replaces the displayed photos. The feed is append-only, so the
// cursor and scroll position are kept.
func (g *PhotoGrid) SetPhotos(photos []*domain.Photo) {
	g.photos = photos
	if g.filterActive && g.filterQuery != "" {
		g.refilter()
	}
	g.clampCursor()
}

// Len returns the number of photos held, ignoring the filter
func (g PhotoGrid) Len() int {
	return len(g.photos)
}

// SetSize updates the component dimensions
func (g *PhotoGrid) SetSize(width, height int) {
	g.width = width
	g.height = height
	g.recalcMaxVisible()
	g.ensureVisible()
}

// SetHeading sets the text on the first line of the grid
func (g *PhotoGrid) SetHeading(heading string) {
	g.heading = heading
}

// SetFocused sets the focus state
func (g *PhotoGrid) SetFocused(focused bool) {
	g.focused = focused
}

// recalcMaxVisible calculates maxVisible accounting for heading and filter bar
func (g *PhotoGrid) recalcMaxVisible() {
	interiorHeight := g.height - BorderHeight
	g.maxVisible = interiorHeight - ScrollIndicatorLines - HeadingLines
	if g.filterActive {
		g.maxVisible--
	}
	if g.maxVisible < 1 {
		g.maxVisible = 1
	}
}

// Viewport reports the visible window over the (filtered) list in rows
func (g PhotoGrid) Viewport() gallery.Viewport {
	return gallery.Viewport{
		Offset:  g.offset,
		Visible: g.maxVisible,
		Total:   g.itemCount(),
	}
}

// Cursor returns the current cursor position
func (g PhotoGrid) Cursor() int {
	return g.cursor
}

// SetCursor moves the cursor, clamped to the list
func (g *PhotoGrid) SetCursor(pos int) {
	g.cursor = pos
	g.clampCursor()
	g.ensureVisible()
}

// SelectID moves the cursor to the photo with id, if it is visible under the current filter
func (g *PhotoGrid) SelectID(id string) bool {
	for i := 0; i < g.itemCount(); i++ {
		if g.photos[g.mapIndex(i)].ID == id {
			g.SetCursor(i)
			return true
		}
	}
	return false
}

// Selected returns the photo under the cursor
func (g PhotoGrid) Selected() *domain.Photo {
	count := g.itemCount()
	if count == 0 || g.cursor >= count {
		return nil
	}
	return g.photos[g.mapIndex(g.cursor)]
}

// IsEmpty returns true if there are no photos to show
func (g PhotoGrid) IsEmpty() bool {
	return g.itemCount() == 0
}

func (g *PhotoGrid) clampCursor() {
	last := g.itemCount() - 1
	if last < 0 {
		g.cursor = 0
		g.offset = 0
		return
	}
	if g.cursor > last {
		g.cursor = last
	}
	if g.cursor < 0 {
		g.cursor = 0
	}
}

// ensureVisible ensures the cursor is visible
func (g *PhotoGrid) ensureVisible() {
	if g.cursor < g.offset {
		g.offset = g.cursor
	}
	if g.cursor >= g.offset+g.maxVisible {
		g.offset = g.cursor - g.maxVisible + 1
	}
	if g.offset < 0 {
		g.offset = 0
	}
}

// === Filter ===

// ToggleFilter activates the filter input
func (g *PhotoGrid) ToggleFilter() {
	g.filterActive = true
	g.filterInput.Focus()
	g.recalcMaxVisible()
}

// IsFiltering returns true if filter mode is active (showing filtered results)
func (g PhotoGrid) IsFiltering() bool {
	return g.filterActive
}

// IsFilterTyping returns true if filter is active AND input is focused (typing mode)
func (g PhotoGrid) IsFilterTyping() bool {
	return g.filterActive && g.filterInput.Focused()
}

// ClearFilter deactivates the filter and shows all photos
func (g *PhotoGrid) ClearFilter() {
	g.clearFilter()
}

func (g *PhotoGrid) clearFilter() {
	selected := g.Selected()

	g.filterActive = false
	g.filterQuery = ""
	g.filteredIdx = nil
	g.filterInput.SetValue("")
	g.filterInput.Blur()
	g.recalcMaxVisible()

	// Keep the selection on the same photo
	if selected != nil {
		g.SelectID(selected.ID)
	}
}

// applyFilter filters photos by the current query and resets the cursor
func (g *PhotoGrid) applyFilter() {
	g.filterQuery = g.filterInput.Value()
	g.refilter()
	g.cursor = 0
	g.offset = 0
}

// refilter recomputes matches for the current query without moving the cursor
func (g *PhotoGrid) refilter() {
	if g.filterQuery == "" {
		g.filteredIdx = nil
		return
	}

	matches := fuzzy.Find(strings.ToLower(g.filterQuery), g.searchTargets())

	g.filteredIdx = make([]int, len(matches))
	for i, match := range matches {
		g.filteredIdx[i] = match.Index
	}
}

// searchTargets returns lowercased "author title" strings, one per photo
func (g PhotoGrid) searchTargets() []string {
	targets := make([]string, len(g.photos))
	for i, p := range g.photos {
		targets[i] = strings.ToLower(p.Author() + " " + p.Title())
	}
	return targets
}

// itemCount returns the number of photos after filtering
func (g PhotoGrid) itemCount() int {
	if g.filteredIdx != nil {
		return len(g.filteredIdx)
	}
	return len(g.photos)
}

// mapIndex maps a cursor position to the actual index in photos
func (g PhotoGrid) mapIndex(i int) int {
	if g.filteredIdx != nil && i < len(g.filteredIdx) {
		return g.filteredIdx[i]
	}
	return i
}

// Init initializes the component
func (g PhotoGrid) Init() tea.Cmd {
	return nil
}

// Update handles key and mouse messages
func (g PhotoGrid) Update(msg tea.Msg) (PhotoGrid, tea.Cmd) {
	if !g.focused {
		return g, nil
	}

	// Typing into the filter
	if g.filterActive && g.filterInput.Focused() {
		if msg, ok := msg.(tea.KeyMsg); ok {
			switch {
			case key.Matches(msg, g.keys.Escape):
				g.clearFilter()
				return g, nil
			case key.Matches(msg, g.keys.Enter):
				g.filterInput.Blur()
				return g, nil
			case msg.String() == "backspace" && g.filterInput.Value() == "":
				g.clearFilter()
				return g, nil
			}
		}

		var cmd tea.Cmd
		g.filterInput, cmd = g.filterInput.Update(msg)
		g.applyFilter()
		return g, cmd
	}

	// Filter accepted, navigating the results
	if g.filterActive {
		if msg, ok := msg.(tea.KeyMsg); ok {
			switch {
			case key.Matches(msg, g.keys.Escape):
				g.clearFilter()
				return g, nil
			case key.Matches(msg, g.keys.Filter):
				g.filterInput.Focus()
				return g, nil
			}
		}
	} else if msg, ok := msg.(tea.KeyMsg); ok && key.Matches(msg, g.keys.Filter) {
		g.ToggleFilter()
		return g, textinput.Blink
	}

	count := g.itemCount()
	if count == 0 {
		return g, nil
	}

	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch {
		case key.Matches(msg, g.keys.Down):
			g.move(1)
		case key.Matches(msg, g.keys.Up):
			g.move(-1)
		case key.Matches(msg, g.keys.Home):
			g.cursor = 0
			g.offset = 0
		case key.Matches(msg, g.keys.End):
			g.cursor = count - 1
			g.ensureVisible()
		case key.Matches(msg, g.keys.HalfDown):
			g.move(max(1, g.maxVisible/2))
		case key.Matches(msg, g.keys.HalfUp):
			g.move(-max(1, g.maxVisible/2))
		case key.Matches(msg, g.keys.PageDown):
			g.move(g.maxVisible)
		case key.Matches(msg, g.keys.PageUp):
			g.move(-g.maxVisible)
		}

	case tea.MouseMsg:
		if msg.Action != tea.MouseActionPress {
			break
		}
		switch msg.Button {
		case tea.MouseButtonWheelDown:
			g.move(WheelStep)
		case tea.MouseButtonWheelUp:
			g.move(-WheelStep)
		}
	}

	return g, nil
}

// move shifts the cursor by delta rows, clamped to the list
func (g *PhotoGrid) move(delta int) {
	g.cursor += delta
	g.clampCursor()
	g.ensureVisible()
}

// View renders the component
func (g PhotoGrid) View() string {
	style := styles.InactiveBorder
	if g.focused {
		style = styles.ActiveBorder
	}

	frameW, frameH := style.GetFrameSize()

	return style.
		Width(g.width - frameW).
		Height(g.height - frameH).
		Render(g.renderList())
}

// renderList renders heading, scroll indicators, rows and the filter bar
func (g PhotoGrid) renderList() string {
	itemWidth := g.width - BorderWidth - HorizontalPadding - ItemWidthMargin

	headingLine := " "
	if g.heading != "" {
		headingLine = styles.AccentStyle.Render(styles.Truncate(g.heading, itemWidth))
	}

	count := g.itemCount()
	if count == 0 {
		emptyMsg := styles.DimStyle.Render("No photos yet")
		if g.filterActive && g.filterQuery != "" {
			emptyMsg = styles.DimStyle.Render("No matches")
		}
		content := headingLine + "\n" + " " + "\n" + emptyMsg + "\n" + " "
		if g.filterActive {
			content += "\n" + g.renderFilterBar()
		}
		return content
	}

	end := min(g.offset+g.maxVisible, count)

	lines := make([]string, 0, end-g.offset)
	for i := g.offset; i < end; i++ {
		lines = append(lines, g.renderPhotoRow(g.photos[g.mapIndex(i)], i == g.cursor, itemWidth))
	}

	// Scroll indicator lines are always reserved so the layout does not shift
	header := " "
	if g.offset > 0 {
		header = styles.DimStyle.Render("↑ more")
	}
	footer := " "
	if end < count {
		footer = styles.DimStyle.Render("↓ more")
	}

	content := headingLine + "\n" + header + "\n" + strings.Join(lines, "\n") + "\n" + footer

	if g.filterActive {
		content += "\n" + g.renderFilterBar()
	}

	return content
}

// renderPhotoRow renders one photo: colour swatch, title, author and likes
func (g PhotoGrid) renderPhotoRow(p *domain.Photo, selected bool, width int) string {
	swatch := styles.DimGray
	if p.Color != "" {
		swatch = lipgloss.Color(p.Color)
	}

	likes := fmt.Sprintf(" %s %d", styles.HeartChar, p.Likes)
	author := " by " + p.Author()
	titleWidth := width - lipgloss.Width(likes) - lipgloss.Width(author) - 4
	if titleWidth < 10 {
		// Narrow terminal: drop the author before the title
		author = ""
		titleWidth = width - lipgloss.Width(likes) - 4
	}
	title := styles.Truncate(p.Title(), titleWidth)

	dimGray := styles.DimGray
	pink := styles.Pink

	parts := []styles.RowPart{
		{Text: "■", Foreground: &swatch},
		{Text: " " + title, Foreground: nil},
		{Text: author, Foreground: &dimGray},
		{Text: likes, Foreground: &pink},
	}

	return styles.RenderListRow(parts, selected, width)
}

// renderFilterBar renders the filter input with a match count
func (g PhotoGrid) renderFilterBar() string {
	input := g.filterInput.View()

	countStr := ""
	if g.filterQuery != "" {
		countStr = styles.DimStyle.Render(fmt.Sprintf(" [%d/%d]", g.itemCount(), len(g.photos)))
	}

	return input + countStr
}
