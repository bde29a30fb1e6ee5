// Package ui provides constants for layout calculations and configuration.
package ui

import "time"

// Layout constants for panel sizing
const (
	// HeaderHeight is the height of the header in lines
	HeaderHeight = 1

	// TabBarHeight is the height of the tab title row
	TabBarHeight = 1

	// FooterHeight is the height of the footer in lines
	FooterHeight = 1

	// BorderSize is the total border width (1 on each side)
	BorderSize = 2

	// InputHeight is the height of the danmu input box including its border
	InputHeight = 3

	// SidebarWidthRatio is the denominator for sidebar width (1/4 of total width)
	SidebarWidthRatio = 4

	// MinSidebarWidth keeps the sidebar readable on narrow terminals
	MinSidebarWidth = 24
)

// Flash messages
const (
	// DefaultFlashDuration is how long a flash stays in the footer
	DefaultFlashDuration = 3 * time.Second

	// FlashTickInterval is how often expired flashes are checked
	FlashTickInterval = time.Second
)
