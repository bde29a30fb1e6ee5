package app

import (
	"context"
	"time"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/natmri/bilicli/internal/config"
	"github.com/natmri/bilicli/internal/logger"
	"github.com/natmri/bilicli/internal/room"
	"github.com/natmri/bilicli/internal/ui"
)

// frameMsg drives one redraw of the run loop.
type frameMsg time.Time

// Model is the main Bubble Tea model. It is the only reader of the room
// state on the UI side; producers write to the state from their own
// goroutines.
type Model struct {
	ctx    context.Context
	state  *room.State
	cfg    *config.Config
	sender Sender

	header  *ui.Header
	footer  *ui.Footer
	sidebar *ui.Sidebar
	tabs    *ui.TabSet
	editor  *ui.Editor
	keys    ui.KeyMap
	layout  ui.Layout

	snap     room.Snapshot
	width    int
	height   int
	frame    time.Duration
	sendErr  string // Last send failure, shown next to the input
	inFlight int    // Sends waiting for a result
}

// New creates the model. sender delivers composed danmu; ctx bounds every
// send started from the UI.
func New(ctx context.Context, state *room.State, cfg *config.Config, sender Sender) *Model {
	km := ui.DefaultKeyMap()
	m := &Model{
		ctx:     ctx,
		state:   state,
		cfg:     cfg,
		sender:  sender,
		header:  ui.NewHeader(),
		footer:  ui.NewFooter(km),
		sidebar: ui.NewSidebar(),
		tabs:    ui.NewTabSet(),
		editor:  ui.NewEditor(),
		keys:    km,
		frame:   cfg.FrameInterval(),
	}
	m.refresh()
	return m
}

// Init starts the frame timer.
func (m *Model) Init() tea.Cmd {
	logger.WithComponent("app").Info("run loop started", "roomID", m.state.RoomID(), "frame", m.frame)
	return m.nextFrame()
}

func (m *Model) nextFrame() tea.Cmd {
	return tea.Tick(m.frame, func(t time.Time) tea.Msg {
		return frameMsg(t)
	})
}

// refresh takes a new snapshot and brings the tabs up to date with it.
func (m *Model) refresh() {
	snap := m.state.Snapshot()
	sidebarChanged := snap.Sidebar != m.snap.Sidebar
	m.snap = snap
	if sidebarChanged {
		m.updateSizes()
	}
	m.tabs.Sync(snap.Events, snap.Seq)
	m.tabs.Follow()
	m.header.SetIdentity(snap.Identity)
	m.sidebar.SetSnapshot(snap)
}

func (m *Model) updateSizes() {
	if m.width == 0 || m.height == 0 {
		return
	}
	m.layout = ui.NewLayout(m.width, m.height, m.snap.Sidebar)
	m.layout.Log()

	m.header.SetWidth(m.layout.TerminalWidth)
	m.footer.SetWidth(m.layout.TerminalWidth)
	m.sidebar.SetSize(m.layout.SidebarWidth, m.layout.FeedHeight)
	m.tabs.Resize(m.layout.FeedHeight)
	m.tabs.Follow()
}

// View renders the app
func (m *Model) View() tea.View {
	var v tea.View
	v.AltScreen = true
	v.MouseMode = tea.MouseModeCellMotion
	v.WindowTitle = "bilicli"
	v.SetContent(m.render())
	return v
}

func (m *Model) render() string {
	if m.width == 0 || m.height == 0 {
		return "Loading..."
	}

	if m.snap.Phase == room.PhaseConfirmingQuit {
		return ui.RenderQuit(m.width, m.height)
	}

	m.footer.SetContext(m.editor.Editing(), false)

	feed := ui.RenderFeed(m.tabs, m.layout.FeedWidth, m.layout.FeedHeight)
	body := feed
	if m.snap.Sidebar {
		body = lipgloss.JoinHorizontal(lipgloss.Top, feed, m.sidebar.View())
	}

	return lipgloss.JoinVertical(
		lipgloss.Left,
		m.header.View(),
		ui.RenderTabBar(m.tabs, m.layout.TerminalWidth),
		body,
		m.editor.View(m.layout.InputWidth, m.sendErr),
		m.footer.View(),
	)
}
