package ui

import (
	"github.com/natmri/bilicli/internal/logger"
)

// Minimum terminal dimensions the layout is computed for
const (
	MinTerminalWidth  = 40
	MinTerminalHeight = 10
)

// Layout holds the panel sizes for one terminal size.
// All size calculations should go through this to avoid duplication.
type Layout struct {
	TerminalWidth  int
	TerminalHeight int

	FeedWidth    int
	FeedHeight   int
	SidebarWidth int
	InputWidth   int
}

// NewLayout calculates panel sizes. The sidebar takes its share of the
// width only when shown.
func NewLayout(width, height int, sidebar bool) Layout {
	width = max(width, MinTerminalWidth)
	height = max(height, MinTerminalHeight)

	l := Layout{
		TerminalWidth:  width,
		TerminalHeight: height,
		FeedHeight:     height - HeaderHeight - TabBarHeight - InputHeight - FooterHeight,
		FeedWidth:      width,
		InputWidth:     width,
	}
	if sidebar {
		l.SidebarWidth = SidebarWidth(width)
		l.FeedWidth = width - l.SidebarWidth
	}
	return l
}

// Log records the calculated sizes at debug level.
func (l Layout) Log() {
	logger.WithComponent("ui").Debug("layout updated",
		"width", l.TerminalWidth,
		"height", l.TerminalHeight,
		"feedWidth", l.FeedWidth,
		"feedHeight", l.FeedHeight,
		"sidebarWidth", l.SidebarWidth,
	)
}

// InnerWidth returns the usable width inside a panel with borders
func InnerWidth(panelWidth int) int {
	return max(0, panelWidth-BorderSize)
}

// InnerHeight returns the usable height inside a panel with borders
func InnerHeight(panelHeight int) int {
	return max(0, panelHeight-BorderSize)
}
