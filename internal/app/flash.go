package app

import (
	tea "charm.land/bubbletea/v2"

	"github.com/natmri/bilicli/internal/ui"
)

// ShowFlash displays a flash message in the footer. The auto-dismiss timer
// is started only when no flash was showing; a running timer picks up the
// replacement.
func (m *Model) ShowFlash(text string, flashType ui.FlashType) tea.Cmd {
	active := m.footer.HasFlash()
	m.footer.SetFlash(text, flashType)
	if active {
		return nil
	}
	return ui.FlashTick()
}

// ShowFlashError displays an error flash message
func (m *Model) ShowFlashError(text string) tea.Cmd {
	return m.ShowFlash(text, ui.FlashError)
}

// ShowFlashSuccess displays a success flash message
func (m *Model) ShowFlashSuccess(text string) tea.Cmd {
	return m.ShowFlash(text, ui.FlashSuccess)
}
