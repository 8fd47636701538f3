package tui

import "github.com/mmcdole/splash/internal/gallery"

// ChannelObserver adapts gallery.Observer to a channel for Bubble Tea.
type ChannelObserver struct {
	ch chan<- gallery.Result
}

// NewChannelObserver creates a new channel-based observer.
func NewChannelObserver(ch chan<- gallery.Result) *ChannelObserver {
	return &ChannelObserver{ch: ch}
}

// OnLoad sends the result to the channel (non-blocking if full).
// A dropped result is harmless: the next tick resyncs from the controller.
func (o *ChannelObserver) OnLoad(result gallery.Result) {
	select {
	case o.ch <- result:
	default:
	}
}
