package app

import (
	"strings"

	"charm.land/bubbles/v2/key"
	tea "charm.land/bubbletea/v2"

	"github.com/natmri/bilicli/internal/errors"
	"github.com/natmri/bilicli/internal/keys"
	"github.com/natmri/bilicli/internal/logger"
	"github.com/natmri/bilicli/internal/room"
	"github.com/natmri/bilicli/internal/ui"
)

// Update handles one message. Once the phase reaches Quit the program is
// told to exit, after the current message has been fully handled.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	cmd := m.update(msg)
	if m.state.Phase() == room.PhaseQuit {
		logger.WithComponent("app").Info("quitting", "inFlight", m.inFlight)
		return m, tea.Quit
	}
	return m, cmd
}

func (m *Model) update(msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.updateSizes()

	case frameMsg:
		m.refresh()
		return m.nextFrame()

	case ui.FlashTickMsg:
		if m.footer.ClearIfExpired() || !m.footer.HasFlash() {
			return nil
		}
		return ui.FlashTick()

	case tea.KeyPressMsg:
		return m.handleKeyPress(msg)

	case tea.PasteMsg:
		if m.editor.Editing() {
			m.editor.Push(msg.Content)
		}

	case tea.MouseWheelMsg:
		m.handleMouseWheel(msg)

	case SendResultMsg:
		return m.handleSendResult(msg)
	}
	return nil
}

func (m *Model) handleKeyPress(msg tea.KeyPressMsg) tea.Cmd {
	phase := m.state.Phase()
	if phase == room.PhaseConfirmingQuit {
		return m.handleConfirmQuitKeys(msg)
	}
	if m.editor.Editing() {
		return m.handleEditingKeys(msg)
	}

	tab := m.tabs.Active()
	switch {
	case key.Matches(msg, m.keys.Quit):
		m.state.RequestQuit()
		m.refresh()
	case key.Matches(msg, m.keys.PrevTab):
		m.tabs.Prev()
	case key.Matches(msg, m.keys.NextTab):
		m.tabs.Next()
	case key.Matches(msg, m.keys.ScrollUp):
		tab.ScrollUp(1)
	case key.Matches(msg, m.keys.ScrollDown):
		tab.ScrollDown(1)
	case key.Matches(msg, m.keys.PageUp):
		tab.ScrollUp(max(1, tab.Visible()))
	case key.Matches(msg, m.keys.PageDown):
		tab.ScrollDown(max(1, tab.Visible()))
	case key.Matches(msg, m.keys.Top):
		tab.ScrollUp(tab.Offset)
	case key.Matches(msg, m.keys.Bottom):
		tab.ScrollDown(tab.ContentLength())
	case key.Matches(msg, m.keys.Sidebar):
		m.state.ToggleSidebar()
		m.refresh()
	case key.Matches(msg, m.keys.Compose):
		return m.beginEditing(phase)
	}
	return nil
}

func (m *Model) handleConfirmQuitKeys(msg tea.KeyPressMsg) tea.Cmd {
	switch {
	case key.Matches(msg, m.keys.Confirm):
		m.state.ConfirmQuit()
	case key.Matches(msg, m.keys.Deny):
		m.state.CancelQuit()
	case key.Matches(msg, m.keys.Quit):
		m.state.RequestQuit()
	}
	m.refresh()
	return nil
}

func (m *Model) handleEditingKeys(msg tea.KeyPressMsg) tea.Cmd {
	switch msg.String() {
	case keys.Enter:
		return m.submit()
	case keys.Escape:
		m.editor.Cancel()
	case keys.Backspace:
		m.editor.Backspace()
	case keys.CtrlU:
		m.editor.Clear()
	case keys.CtrlC:
		m.editor.Cancel()
		m.state.RequestQuit()
		m.refresh()
	default:
		if msg.Text != "" {
			m.editor.Push(msg.Text)
		}
	}
	return nil
}

func (m *Model) beginEditing(phase room.Phase) tea.Cmd {
	if m.editor.Begin(m.state.HasCredential(), phase) {
		m.sendErr = ""
		return nil
	}
	if !m.state.HasCredential() {
		m.sendErr = errors.UserMessage(errors.NotAuthenticated())
		return m.ShowFlashError(m.sendErr)
	}
	return nil
}

// submit hands the editor text to the send pipeline.
func (m *Model) submit() tea.Cmd {
	text := m.editor.TakeAndClear()
	if strings.TrimSpace(text) == "" {
		return nil
	}
	m.inFlight++
	return m.sendDanmu(text)
}

func (m *Model) handleSendResult(msg SendResultMsg) tea.Cmd {
	m.inFlight = max(0, m.inFlight-1)
	log := logger.WithComponent("send").With("submission", msg.ID)
	if msg.Err != nil {
		log.Debug("send result shown", "error", msg.Err, "inFlight", m.inFlight)
		m.sendErr = errors.UserMessage(msg.Err)
		return m.ShowFlashError(m.sendErr)
	}
	log.Debug("send result shown", "inFlight", m.inFlight)
	m.sendErr = ""
	return m.ShowFlashSuccess("已发送: " + msg.Text)
}
