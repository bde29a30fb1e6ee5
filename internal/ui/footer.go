package ui

import (
	"time"

	"charm.land/bubbles/v2/help"
	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"
)

// FlashType is the severity of a flash message
type FlashType int

const (
	FlashInfo FlashType = iota
	FlashSuccess
	FlashWarning
	FlashError
)

// FlashMessage is a transient footer message
type FlashMessage struct {
	Text      string
	Type      FlashType
	CreatedAt time.Time
	Duration  time.Duration
}

// IsExpired reports whether the message has been shown long enough
func (m *FlashMessage) IsExpired() bool {
	return time.Since(m.CreatedAt) > m.Duration
}

// FlashTickMsg asks the model to drop expired flashes
type FlashTickMsg time.Time

// FlashTick returns a command that fires a FlashTickMsg
func FlashTick() tea.Cmd {
	return tea.Tick(FlashTickInterval, func(t time.Time) tea.Msg {
		return FlashTickMsg(t)
	})
}

// Footer represents the bottom footer bar with keybindings
type Footer struct {
	width        int
	keys         KeyMap
	help         help.Model
	flashMessage *FlashMessage
}

// NewFooter creates a new footer
func NewFooter(km KeyMap) *Footer {
	h := help.New()
	h.ShortSeparator = "  |  "
	h.Styles.ShortKey = FooterKeyStyle
	h.Styles.ShortDesc = FooterDescStyle
	h.Styles.ShortSeparator = FooterSeparatorStyle
	return &Footer{keys: km, help: h}
}

// SetWidth sets the footer width
func (f *Footer) SetWidth(width int) {
	f.width = width
	f.help.SetWidth(max(0, width-2))
}

// SetContext updates which bindings are shown
func (f *Footer) SetContext(editing, confirming bool) {
	f.keys.SetContext(editing, confirming)
}

// SetFlash shows a message for DefaultFlashDuration
func (f *Footer) SetFlash(text string, flashType FlashType) {
	f.SetFlashWithDuration(text, flashType, DefaultFlashDuration)
}

// SetFlashWithDuration shows a message for the given duration
func (f *Footer) SetFlashWithDuration(text string, flashType FlashType, d time.Duration) {
	f.flashMessage = &FlashMessage{
		Text:      text,
		Type:      flashType,
		CreatedAt: time.Now(),
		Duration:  d,
	}
}

// ClearFlash removes the current flash message
func (f *Footer) ClearFlash() {
	f.flashMessage = nil
}

// HasFlash reports whether a flash message is shown
func (f *Footer) HasFlash() bool {
	return f.flashMessage != nil
}

// ClearIfExpired clears an expired flash and reports whether it did
func (f *Footer) ClearIfExpired() bool {
	if f.flashMessage != nil && f.flashMessage.IsExpired() {
		f.flashMessage = nil
		return true
	}
	return false
}

// View renders the footer
func (f *Footer) View() string {
	if f.flashMessage != nil {
		return FooterStyle.Width(f.width).Render(renderFlash(f.flashMessage))
	}
	return FooterStyle.Width(f.width).Render(f.help.View(f.keys))
}

func renderFlash(m *FlashMessage) string {
	var icon string
	var style lipgloss.Style
	switch m.Type {
	case FlashError:
		icon, style = "✕", StatusErrorStyle
	case FlashWarning:
		icon, style = "⚠", StatusWarningStyle
	case FlashSuccess:
		icon, style = "✓", StatusSuccessStyle
	default:
		icon, style = "ℹ", StatusInfoStyle
	}
	return style.Render(icon + " " + m.Text)
}
