package tui

import (
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/mmcdole/splash/internal/browser"
	"github.com/mmcdole/splash/internal/domain"
	"github.com/mmcdole/splash/internal/gallery"
	"github.com/mmcdole/splash/internal/photo"
	"github.com/mmcdole/splash/internal/tui/components"
	"github.com/mmcdole/splash/internal/tui/styles"
)

// Screen identifies the active route
type Screen int

const (
	ScreenGallery Screen = iota
	ScreenDetail
)

const (
	// Vertical layout: single footer line
	ChromeHeight = 1

	tickInterval = 100 * time.Millisecond

	// Results buffered between the scroll trigger and the update loop
	resultBuffer = 4
)

// Options configures the application model
type Options struct {
	PrefetchRows int           // rows from the bottom that start the next page
	Debounce     time.Duration // quiet period before a scroll position is evaluated
	StartPhotoID string        // open this photo instead of the gallery
	Logger       *slog.Logger
}

// Model is the main Bubble Tea model for the application
type Model struct {
	Screen Screen
	Ready  bool

	// Services
	Feed     *gallery.Controller[*domain.Photo]
	Trigger  *gallery.ScrollTrigger
	PhotoSvc *photo.Service
	Queries  *photo.Queries
	Launcher *browser.Launcher

	// UI Components
	Grid   components.PhotoGrid
	Detail components.PhotoDetail

	// Dimensions
	Width  int
	Height int

	// UI state
	StatusMsg    string
	StatusIsErr  bool
	SpinnerFrame int

	results    chan gallery.Result
	detach     func()
	previewFor string // photo ID whose preview has been requested
	keys       KeyMap
	logger     *slog.Logger
}

// NewModel creates a new application model
func NewModel(
	feed *gallery.Controller[*domain.Photo],
	photoSvc *photo.Service,
	queries *photo.Queries,
	launcher *browser.Launcher,
	opts Options,
) Model {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	results := make(chan gallery.Result, resultBuffer)
	trigger := gallery.NewScrollTrigger(feed, opts.PrefetchRows, opts.Debounce, NewChannelObserver(results), logger)

	m := Model{
		Screen:   ScreenGallery,
		Feed:     feed,
		Trigger:  trigger,
		PhotoSvc: photoSvc,
		Queries:  queries,
		Launcher: launcher,
		Grid:     components.NewPhotoGrid(),
		Detail:   components.NewPhotoDetail(),
		results:  results,
		keys:     DefaultKeyMap(),
		logger:   logger,
	}
	m.Grid.SetHeading("Photos")

	if opts.StartPhotoID != "" {
		m.Screen = ScreenDetail
		m.Grid.SetFocused(false)
		m.Detail.Show(opts.StartPhotoID, m.cachedPhoto(opts.StartPhotoID))
	} else {
		m.detach = trigger.Attach()
	}
	return m
}

// Init initializes the application
func (m Model) Init() tea.Cmd {
	cmds := []tea.Cmd{
		WaitForPageCmd(m.results),
		TickCmd(tickInterval),
	}
	switch m.Screen {
	case ScreenGallery:
		cmds = append(cmds, LoadNextPageCmd(m.Feed))
	case ScreenDetail:
		cmds = append(cmds, FetchPhotoCmd(m.PhotoSvc, m.Detail.PhotoID()))
	}
	return tea.Batch(cmds...)
}

// Shutdown stops the scroll trigger
func (m *Model) Shutdown() {
	if m.detach != nil {
		m.detach()
		m.detach = nil
	}
}

// Update handles all messages
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.Width = msg.Width
		m.Height = msg.Height
		m.Ready = true
		m.updateLayout()
		// A taller window may show the whole feed
		m.notifyTrigger()
		return m, m.maybeFetchPreview()

	case tea.KeyMsg:
		return m.handleKeyMsg(msg)

	case tea.MouseMsg:
		var cmd tea.Cmd
		switch m.Screen {
		case ScreenGallery:
			m.Grid, cmd = m.Grid.Update(msg)
			m.notifyTrigger()
		case ScreenDetail:
			m.Detail, cmd = m.Detail.Update(msg)
		}
		return m, cmd

	case TickMsg:
		m.SpinnerFrame++
		m.syncGrid()
		return m, TickCmd(tickInterval)

	case PageLoadedMsg:
		return m, m.handlePageLoaded(msg)

	case PhotoLoadedMsg:
		if msg.Photo == nil || msg.Photo.ID != m.Detail.PhotoID() {
			return m, nil
		}
		m.Detail.SetPhoto(msg.Photo)
		return m, m.maybeFetchPreview()

	case PhotoFailedMsg:
		if msg.ID != m.Detail.PhotoID() {
			return m, nil
		}
		m.logger.Error("photo fetch failed", "id", msg.ID, "error", msg.Err)
		m.Detail.SetError(msg.Err)
		return m, nil

	case PreviewLoadedMsg:
		if msg.ID != m.Detail.PhotoID() {
			return m, nil
		}
		if msg.Err != nil {
			m.logger.Warn("preview failed", "id", msg.ID, "error", msg.Err)
			m.Detail.SetPreviewError(msg.Err)
		} else {
			m.Detail.SetPreview(msg.Preview)
		}
		return m, nil

	case ErrMsg:
		m.logger.Error("command failed", "context", msg.Context, "error", msg.Err)
		m.StatusMsg = msg.Error()
		m.StatusIsErr = true
		return m, ClearStatusCmd(5 * time.Second)

	case StatusMsg:
		m.StatusMsg = msg.Message
		m.StatusIsErr = msg.IsError
		return m, ClearStatusCmd(3 * time.Second)

	case ClearStatusMsg:
		m.StatusMsg = ""
		m.StatusIsErr = false
		return m, nil
	}

	return m, nil
}

// handlePageLoaded refreshes the grid after a LoadNext call
func (m *Model) handlePageLoaded(msg PageLoadedMsg) tea.Cmd {
	var cmds []tea.Cmd
	if msg.FromTrigger {
		cmds = append(cmds, WaitForPageCmd(m.results))
	}

	result := msg.Result
	m.syncGrid()

	switch result.Outcome {
	case gallery.OutcomeAppended:
		m.logger.Debug("page appended", "page", result.Page, "added", result.Added)
		// The viewport may still be near the bottom; scrolling alone would not re-check it
		m.notifyTrigger()
	case gallery.OutcomeExhausted:
		m.logger.Info("feed exhausted", "page", result.Page, "total", m.Feed.Len())
	case gallery.OutcomeFailed:
		m.logger.Error("page load failed", "page", result.Page, "error", result.Err)
	}

	return tea.Batch(cmds...)
}

// syncGrid copies the controller's records into the grid when they changed
func (m *Model) syncGrid() {
	state := m.Feed.Snapshot()
	if len(state.Items) == m.Grid.Len() {
		return
	}
	m.Grid.SetPhotos(state.Items)
	m.Grid.SetHeading(fmt.Sprintf("Photos · %d loaded", len(state.Items)))
}

// notifyTrigger reports the grid's scroll position. Filtered views are skipped:
// a short filtered list would otherwise page through the whole feed.
func (m *Model) notifyTrigger() {
	if m.Screen != ScreenGallery || m.Grid.IsFiltering() {
		return
	}
	m.Trigger.Notify(m.Grid.Viewport())
}

func (m *Model) updateLayout() {
	contentHeight := m.Height - ChromeHeight
	m.Grid.SetSize(m.Width, contentHeight)
	m.Detail.SetSize(m.Width, contentHeight)
}

func (m Model) cachedPhoto(id string) *domain.Photo {
	if m.Queries == nil {
		return nil
	}
	if p, ok := m.Queries.CachedPhoto(id); ok {
		return p
	}
	return nil
}

// openDetail switches to the detail view for p
func (m *Model) openDetail(p *domain.Photo) tea.Cmd {
	if m.detach != nil {
		m.detach()
		m.detach = nil
	}

	shown := p
	if cached := m.cachedPhoto(p.ID); cached != nil {
		shown = cached
	}

	m.Screen = ScreenDetail
	m.Grid.SetFocused(false)
	m.Detail.Show(p.ID, shown)
	m.previewFor = ""

	return tea.Batch(
		FetchPhotoCmd(m.PhotoSvc, p.ID),
		m.maybeFetchPreview(),
	)
}

// closeDetail returns to the gallery and re-attaches the trigger
func (m *Model) closeDetail() tea.Cmd {
	m.Screen = ScreenGallery
	m.Grid.SetFocused(true)
	if m.detach == nil {
		m.detach = m.Trigger.Attach()
	}

	m.syncGrid()
	if id := m.Detail.PhotoID(); id != "" {
		m.Grid.SelectID(id)
	}

	// Started in the detail view: the gallery has never loaded
	if m.Feed.Len() == 0 {
		return LoadNextPageCmd(m.Feed)
	}
	m.notifyTrigger()
	return nil
}

// maybeFetchPreview requests the preview once the photo's image URL and the
// preview area are both known
func (m *Model) maybeFetchPreview() tea.Cmd {
	if m.Screen != ScreenDetail || m.PhotoSvc == nil {
		return nil
	}
	p := m.Detail.Photo()
	if p == nil || p.PreviewURL() == "" || m.previewFor == p.ID {
		return nil
	}
	cols, rows := m.Detail.PreviewSize()
	if cols <= 0 || rows <= 0 {
		return nil
	}
	m.previewFor = p.ID
	return FetchPreviewCmd(m.PhotoSvc, p, cols, rows)
}

// handleKeyMsg routes key presses to the active view
func (m Model) handleKeyMsg(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "ctrl+c" {
		m.Shutdown()
		return m, tea.Quit
	}

	switch m.Screen {
	case ScreenDetail:
		return m.handleDetailKey(msg)
	default:
		return m.handleGalleryKey(msg)
	}
}

func (m Model) handleGalleryKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	// Keys belong to the filter input while typing
	if m.Grid.IsFilterTyping() {
		var cmd tea.Cmd
		m.Grid, cmd = m.Grid.Update(msg)
		m.notifyTrigger()
		return m, cmd
	}

	switch {
	case key.Matches(msg, m.keys.Quit):
		m.Shutdown()
		return m, tea.Quit

	case key.Matches(msg, m.keys.Retry):
		if m.Feed.Snapshot().LastError == nil {
			return m, nil
		}
		return m, LoadNextPageCmd(m.Feed)

	case key.Matches(msg, m.keys.Open):
		if p := m.Grid.Selected(); p != nil {
			return m, m.openDetail(p)
		}
		return m, nil

	case key.Matches(msg, m.keys.OpenPage):
		if p := m.Grid.Selected(); p != nil && p.PageURL != "" {
			return m, OpenLinkCmd(m.Launcher, p.PageURL, "photo page")
		}
		return m, nil

	case key.Matches(msg, m.keys.OpenAuthor):
		if p := m.Grid.Selected(); p != nil && p.AuthorProfileURL() != "" {
			return m, OpenLinkCmd(m.Launcher, p.AuthorProfileURL(), "author profile")
		}
		return m, nil

	case key.Matches(msg, m.keys.CopyLink):
		if p := m.Grid.Selected(); p != nil && p.PageURL != "" {
			return m, CopyLinkCmd(m.Launcher, p.PageURL)
		}
		return m, nil
	}

	var cmd tea.Cmd
	m.Grid, cmd = m.Grid.Update(msg)
	m.notifyTrigger()
	return m, cmd
}

func (m Model) handleDetailKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	p := m.Detail.Photo()

	switch {
	case key.Matches(msg, m.keys.Quit):
		m.Shutdown()
		return m, tea.Quit

	case key.Matches(msg, m.keys.Back):
		return m, m.closeDetail()

	case key.Matches(msg, m.keys.Retry):
		id := m.Detail.PhotoID()
		if id == "" {
			return m, nil
		}
		// Drop the cached record so the retry goes to the network
		m.PhotoSvc.Invalidate(id)
		m.Detail.Show(id, p)
		m.previewFor = ""
		return m, tea.Batch(FetchPhotoCmd(m.PhotoSvc, id), m.maybeFetchPreview())

	case key.Matches(msg, m.keys.OpenPage):
		if p != nil && p.PageURL != "" {
			return m, OpenLinkCmd(m.Launcher, p.PageURL, "photo page")
		}
		return m, nil

	case key.Matches(msg, m.keys.OpenAuthor):
		if p != nil && p.AuthorProfileURL() != "" {
			return m, OpenLinkCmd(m.Launcher, p.AuthorProfileURL(), "author profile")
		}
		return m, nil

	case key.Matches(msg, m.keys.CopyLink):
		if p != nil && p.PageURL != "" {
			return m, CopyLinkCmd(m.Launcher, p.PageURL)
		}
		return m, nil
	}

	var cmd tea.Cmd
	m.Detail, cmd = m.Detail.Update(msg)
	return m, cmd
}

// View renders the application
func (m Model) View() string {
	if !m.Ready {
		return "Loading..."
	}

	var content string
	switch m.Screen {
	case ScreenDetail:
		content = m.Detail.View()
	default:
		content = m.Grid.View()
	}

	return lipgloss.JoinVertical(lipgloss.Left, content, m.renderFooter())
}

// renderFooter renders the feed status on the left and key hints on the right
func (m Model) renderFooter() string {
	left := m.footerStatus()

	var right string
	switch m.Screen {
	case ScreenDetail:
		right = styles.RenderHelp(
			helpPair(m.keys.Back),
			helpPair(m.keys.OpenPage),
			helpPair(m.keys.OpenAuthor),
			helpPair(m.keys.CopyLink),
			helpPair(m.keys.Quit),
		)
	default:
		right = styles.RenderHelp(
			helpPair(m.keys.Open),
			helpPair(m.keys.Filter),
			helpPair(m.keys.OpenPage),
			helpPair(m.keys.Quit),
		)
	}

	gap := m.Width - lipgloss.Width(left) - lipgloss.Width(right)
	if gap < 1 {
		// Not enough space - drop the hints
		return left
	}
	return left + strings.Repeat(" ", gap) + right
}

// footerStatus describes the feed: loading, a status message, the last error, or the end of the feed
func (m Model) footerStatus() string {
	state := m.Feed.Snapshot()

	switch {
	case state.IsLoading:
		return styles.Spinner(m.SpinnerFrame) + " " + styles.DimStyle.Render("Loading photos...")
	case m.StatusMsg != "":
		if m.StatusIsErr {
			return styles.ErrorStyle.Render(m.StatusMsg)
		}
		return styles.DimStyle.Render(m.StatusMsg)
	case state.LastError != nil:
		return styles.ErrorStyle.Render(state.LastError.Error()) +
			styles.DimStyle.Render(" · ") + styles.AccentStyle.Render("r") + styles.DimStyle.Render(" retry")
	case state.IsExhausted:
		return styles.DimStyle.Render("No more photos to load.")
	}
	return ""
}
