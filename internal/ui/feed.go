package ui

import (
	"strconv"

	"charm.land/lipgloss/v2"
	"github.com/charmbracelet/x/ansi"
)

// QuitPrompt is shown while a quit waits for confirmation.
const QuitPrompt = "Are you sure you want to quit?(Y/N)"

// RenderTabBar renders the tab titles with the selected one highlighted.
func RenderTabBar(ts *TabSet, width int) string {
	var parts []string
	for i, t := range ts.Tabs() {
		title := t.Title
		if n := len(t.Rows()); n > 0 {
			title += " " + strconv.Itoa(n)
		}
		if i == ts.Selected() {
			parts = append(parts, TabActiveStyle.Render(title))
		} else {
			parts = append(parts, TabStyle.Render(title))
		}
	}
	return ansi.Truncate(lipgloss.JoinHorizontal(lipgloss.Top, parts...), width, "")
}

// RenderFeed renders the active tab's visible rows inside a panel. The
// border title shows the scroll position when the user scrolled away.
func RenderFeed(ts *TabSet, width, height int) string {
	tab := ts.Active()
	lines := RenderRows(tab, max(0, InnerWidth(width)-2))
	for i, l := range lines {
		lines[i] = " " + l
	}
	title := " " + tab.Title + " "
	if !tab.AutoFollow {
		title += "[" + strconv.Itoa(tab.Offset) + "/" + strconv.Itoa(tab.ContentLength()) + "] "
	}
	return TitledPanel(title, lines, width, height, true)
}

// RenderQuit renders the quit confirmation centered in the screen.
func RenderQuit(width, height int) string {
	box := QuitBoxStyle.Render(QuitTextStyle.Render(QuitPrompt))
	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, box)
}
