package ui

import (
	"strings"

	"charm.land/lipgloss/v2"
	"github.com/charmbracelet/x/ansi"
)

// TitledPanel renders lines inside a rounded border with title embedded in
// the top edge. width and height include the border; extra lines are cut.
func TitledPanel(title string, lines []string, width, height int, focused bool) string {
	if width < BorderSize+1 || height < BorderSize {
		return ""
	}
	style, borderColor := PanelStyle, ColorBorder
	if focused {
		style, borderColor = PanelFocusedStyle, ColorBorderFocus
	}
	border := lipgloss.RoundedBorder()
	edge := lipgloss.NewStyle().Foreground(borderColor)

	inner := width - BorderSize
	title = ansi.Truncate(title, inner-1, "…")
	fill := max(0, inner-1-lipgloss.Width(title))
	top := edge.Render(border.TopLeft+border.Top) +
		PanelTitleStyle.Render(title) +
		edge.Render(strings.Repeat(border.Top, fill)+border.TopRight)

	if rows := InnerHeight(height); len(lines) > rows {
		lines = lines[:rows]
	}
	body := style.
		BorderTop(false).
		Width(width).
		Height(height - 1).
		Render(strings.Join(lines, "\n"))
	return top + "\n" + body
}
