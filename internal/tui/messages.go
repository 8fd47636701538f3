package tui

import (
	"github.com/mmcdole/splash/internal/domain"
	"github.com/mmcdole/splash/internal/gallery"
)

// Message types for the TUI

// ErrMsg represents an error
type ErrMsg struct {
	Err     error
	Context string
}

// Error implements the error interface
func (e ErrMsg) Error() string {
	if e.Context != "" {
		return e.Context + ": " + e.Err.Error()
	}
	return e.Err.Error()
}

// PageLoadedMsg reports a finished LoadNext call
type PageLoadedMsg struct {
	Result gallery.Result

	// FromTrigger is set when the load was started by scrolling and arrived
	// through the observer channel, which must then be listened to again
	FromTrigger bool
}

// PhotoLoadedMsg carries the full record for the detail view
type PhotoLoadedMsg struct {
	Photo *domain.Photo
}

// PhotoFailedMsg reports that the detail record could not be fetched
type PhotoFailedMsg struct {
	ID  string
	Err error
}

// PreviewLoadedMsg carries a rendered image preview
type PreviewLoadedMsg struct {
	ID      string
	Preview string
	Err     error
}

// StatusMsg shows a transient status line
type StatusMsg struct {
	Message string
	IsError bool
}

// ClearStatusMsg clears the status line
type ClearStatusMsg struct{}

// TickMsg advances the spinner
type TickMsg struct{}
