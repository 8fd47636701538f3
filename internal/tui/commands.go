package tui

import (
	"context"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/mmcdole/splash/internal/browser"
	"github.com/mmcdole/splash/internal/domain"
	"github.com/mmcdole/splash/internal/gallery"
	"github.com/mmcdole/splash/internal/photo"
)

// Command factories for async operations

// LoadNextPageCmd asks the controller for the next page. Used on mount and for retry;
// scroll-driven loads go through the trigger.
func LoadNextPageCmd(feed gallery.Loader) tea.Cmd {
	return func() tea.Msg {
		return PageLoadedMsg{Result: feed.LoadNext(context.Background())}
	}
}

// WaitForPageCmd waits for the next result the scroll trigger reports
func WaitForPageCmd(results <-chan gallery.Result) tea.Cmd {
	return func() tea.Msg {
		result, ok := <-results
		if !ok {
			return nil
		}
		return PageLoadedMsg{Result: result, FromTrigger: true}
	}
}

// FetchPhotoCmd loads the full record for the detail view
func FetchPhotoCmd(svc *photo.Service, id string) tea.Cmd {
	return func() tea.Msg {
		p, err := svc.FetchPhoto(context.Background(), id)
		if err != nil {
			return PhotoFailedMsg{ID: id, Err: err}
		}
		return PhotoLoadedMsg{Photo: p}
	}
}

// FetchPreviewCmd downloads and renders the preview image
func FetchPreviewCmd(svc *photo.Service, p *domain.Photo, cols, rows int) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		rendered, err := svc.FetchPreview(ctx, p, cols, rows)
		return PreviewLoadedMsg{ID: p.ID, Preview: rendered, Err: err}
	}
}

// OpenLinkCmd opens a link in the browser
func OpenLinkCmd(launcher *browser.Launcher, link, what string) tea.Cmd {
	return func() tea.Msg {
		if err := launcher.Open(link); err != nil {
			return ErrMsg{Err: err, Context: "opening " + what}
		}
		return StatusMsg{Message: "Opened " + what}
	}
}

// CopyLinkCmd copies a link to the clipboard
func CopyLinkCmd(launcher *browser.Launcher, link string) tea.Cmd {
	return func() tea.Msg {
		if err := launcher.Copy(link); err != nil {
			return ErrMsg{Err: err, Context: "copying link"}
		}
		return StatusMsg{Message: "Copied " + link}
	}
}

// TickCmd returns a command that sends a tick after a delay
func TickCmd(delay time.Duration) tea.Cmd {
	return tea.Tick(delay, func(t time.Time) tea.Msg {
		return TickMsg{}
	})
}

// ClearStatusCmd returns a command that clears status after a delay
func ClearStatusCmd(delay time.Duration) tea.Cmd {
	return tea.Tick(delay, func(t time.Time) tea.Msg {
		return ClearStatusMsg{}
	})
}
