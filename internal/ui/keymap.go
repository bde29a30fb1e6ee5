package ui

import (
	"charm.land/bubbles/v2/key"

	"github.com/natmri/bilicli/internal/keys"
)

// KeyMap holds every binding of the main screen. It implements
// help.KeyMap for the footer.
type KeyMap struct {
	PrevTab    key.Binding
	NextTab    key.Binding
	ScrollUp   key.Binding
	ScrollDown key.Binding
	PageUp     key.Binding
	PageDown   key.Binding
	Top        key.Binding
	Bottom     key.Binding
	Compose    key.Binding
	Send       key.Binding
	Cancel     key.Binding
	Sidebar    key.Binding
	Quit       key.Binding
	Confirm    key.Binding
	Deny       key.Binding

	editing    bool
	confirming bool
}

// DefaultKeyMap returns the standard bindings.
func DefaultKeyMap() KeyMap {
	return KeyMap{
		PrevTab:    key.NewBinding(key.WithKeys(keys.Up), key.WithHelp("↑/↓", "tabs")),
		NextTab:    key.NewBinding(key.WithKeys(keys.Down, keys.Tab)),
		ScrollUp:   key.NewBinding(key.WithKeys("w"), key.WithHelp("w/s", "scroll")),
		ScrollDown: key.NewBinding(key.WithKeys("s")),
		PageUp:     key.NewBinding(key.WithKeys(keys.PgUp), key.WithHelp("pgup/dn", "page")),
		PageDown:   key.NewBinding(key.WithKeys(keys.PgDown)),
		Top:        key.NewBinding(key.WithKeys(keys.Home), key.WithHelp("home/end", "oldest/newest")),
		Bottom:     key.NewBinding(key.WithKeys(keys.End)),
		Compose:    key.NewBinding(key.WithKeys(keys.Enter), key.WithHelp("enter", "compose")),
		Send:       key.NewBinding(key.WithKeys(keys.Enter), key.WithHelp("enter", "send")),
		Cancel:     key.NewBinding(key.WithKeys(keys.Escape), key.WithHelp("esc", "cancel")),
		Sidebar:    key.NewBinding(key.WithKeys("b"), key.WithHelp("b", "sidebar")),
		Quit:       key.NewBinding(key.WithKeys("q", keys.CtrlC), key.WithHelp("q", "quit")),
		Confirm:    key.NewBinding(key.WithKeys("y", "Y"), key.WithHelp("y", "quit")),
		Deny:       key.NewBinding(key.WithKeys("n", "N", keys.Escape), key.WithHelp("n", "stay")),
	}
}

// SetContext selects which bindings the help shows.
func (k *KeyMap) SetContext(editing, confirming bool) {
	k.editing = editing
	k.confirming = confirming
}

// ShortHelp returns the bindings for the footer line.
func (k KeyMap) ShortHelp() []key.Binding {
	switch {
	case k.confirming:
		return []key.Binding{k.Confirm, k.Deny}
	case k.editing:
		return []key.Binding{k.Send, k.Cancel}
	default:
		return []key.Binding{k.PrevTab, k.ScrollUp, k.PageUp, k.Compose, k.Sidebar, k.Quit}
	}
}

// FullHelp returns every binding grouped by purpose.
func (k KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.PrevTab, k.ScrollUp, k.PageUp, k.Top},
		{k.Compose, k.Cancel, k.Sidebar},
		{k.Quit, k.Confirm, k.Deny},
	}
}
