package app

import (
	tea "charm.land/bubbletea/v2"
)

// handleMouseWheel scrolls the active tab when the wheel turns over the
// feed. Wheel events over the sidebar are ignored.
func (m *Model) handleMouseWheel(msg tea.MouseWheelMsg) {
	mouse := msg.Mouse()
	if m.snap.Sidebar && mouse.X >= m.layout.FeedWidth {
		return
	}
	tab := m.tabs.Active()
	switch mouse.Button {
	case tea.MouseWheelUp:
		tab.ScrollUp(1)
	case tea.MouseWheelDown:
		tab.ScrollDown(1)
	}
}
