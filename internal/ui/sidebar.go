package ui

import (
	"strconv"

	"github.com/charmbracelet/x/ansi"

	"github.com/natmri/bilicli/internal/room"
)

// Sidebar shows room counters, the live flag, the latest viewer action and
// any producer status.
type Sidebar struct {
	width  int
	height int
	snap   room.Snapshot
}

// NewSidebar creates a new sidebar
func NewSidebar() *Sidebar {
	return &Sidebar{}
}

// SetSize sets the sidebar dimensions, border included
func (s *Sidebar) SetSize(width, height int) {
	s.width = width
	s.height = height
}

// SetSnapshot sets the state to display
func (s *Sidebar) SetSnapshot(snap room.Snapshot) {
	s.snap = snap
}

// SidebarWidth returns the sidebar width for a terminal of the given width.
func SidebarWidth(total int) int {
	return min(total/2, max(MinSidebarWidth, total/SidebarWidthRatio))
}

// View renders the sidebar
func (s *Sidebar) View() string {
	inner := max(0, InnerWidth(s.width)-2)
	snap := s.snap

	live := SidebarOfflineStyle.Render("⚫ 未开播")
	if snap.Identity.Live {
		live = SidebarLiveStyle.Render("🔴 直播中")
	}
	login := SidebarOfflineStyle.Render("未登录")
	if snap.HasCredential {
		login = SidebarValueStyle.Render("已登录")
	}

	lines := []string{
		live,
		SidebarLabelStyle.Render("👀 观看 ") + SidebarValueStyle.Render(strconv.FormatInt(snap.Counters.Watchers, 10)),
		SidebarLabelStyle.Render("🔥 关注 ") + SidebarValueStyle.Render(strconv.FormatInt(snap.Counters.Attention, 10)),
		SidebarLabelStyle.Render("主播 UID ") + SidebarValueStyle.Render(strconv.FormatInt(snap.Identity.UID, 10)),
		SidebarLabelStyle.Render("账号 ") + login,
		"",
	}
	if snap.LastAction != nil {
		lines = append(lines, RenderEvent(*snap.LastAction, false))
	}
	if snap.Status != "" {
		lines = append(lines, StatusWarningStyle.Render(snap.Status))
	}
	for i, l := range lines {
		lines[i] = " " + ansi.Truncate(l, inner, "…")
	}
	return TitledPanel(" 直播间 ", lines, s.width, s.height, false)
}
