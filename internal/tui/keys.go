package tui

import "github.com/charmbracelet/bubbles/key"

// KeyMap defines the application-level key bindings
type KeyMap struct {
	Quit       key.Binding
	Retry      key.Binding
	Open       key.Binding
	Back       key.Binding
	OpenPage   key.Binding
	OpenAuthor key.Binding
	CopyLink   key.Binding
	Filter     key.Binding
}

// DefaultKeyMap returns the default key bindings
func DefaultKeyMap() KeyMap {
	return KeyMap{
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
		Retry: key.NewBinding(
			key.WithKeys("r"),
			key.WithHelp("r", "retry"),
		),
		Open: key.NewBinding(
			key.WithKeys("enter", "l", "right"),
			key.WithHelp("enter", "open"),
		),
		Back: key.NewBinding(
			key.WithKeys("esc", "backspace", "h", "left"),
			key.WithHelp("esc", "back"),
		),
		OpenPage: key.NewBinding(
			key.WithKeys("o"),
			key.WithHelp("o", "open in browser"),
		),
		OpenAuthor: key.NewBinding(
			key.WithKeys("a"),
			key.WithHelp("a", "author"),
		),
		CopyLink: key.NewBinding(
			key.WithKeys("y"),
			key.WithHelp("y", "copy link"),
		),
		Filter: key.NewBinding(
			key.WithKeys("/"),
			key.WithHelp("/", "filter"),
		),
	}
}

// helpPair returns the help text of a binding for styles.RenderHelp
func helpPair(b key.Binding) [2]string {
	h := b.Help()
	return [2]string{h.Key, h.Desc}
}
