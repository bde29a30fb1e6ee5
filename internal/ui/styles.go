package ui

import (
	"image/color"

	"charm.land/lipgloss/v2"
)

// Color palette - Bilibili pink + cyan
var (
	ColorPrimary     = lipgloss.Color("#FB7299") // Bilibili pink
	ColorSecondary   = lipgloss.Color("#23ADE5") // Bilibili blue
	ColorMuted       = lipgloss.Color("#666666") // Gray
	ColorBorder      = lipgloss.Color("#374151") // Dark gray
	ColorBorderFocus = lipgloss.Color("#FB7299") // Pink when focused
	ColorText        = lipgloss.Color("#F9FAFB") // Light text
	ColorTextMuted   = lipgloss.Color("#B0B8C4") // Muted text
	ColorTextInverse = lipgloss.Color("#1F2937") // Dark text for light backgrounds
	ColorLive        = lipgloss.Color("#22C55E") // Green while live
	ColorTag         = lipgloss.Color("#FDE047") // Light yellow category tags
	ColorPrice       = lipgloss.Color("#F472B6") // Light magenta prices
	ColorGuard       = lipgloss.Color("#4ADE80") // Guard purchase names
	ColorWarning     = lipgloss.Color("#F59E0B") // Amber for warnings
	ColorInfo        = lipgloss.Color("#06B6D4") // Cyan for info
	ColorError       = lipgloss.Color("#EF4444") // Red for errors
	ColorSuccess     = lipgloss.Color("#10B981") // Green for success
)

// guardColors colour user names by guard level, none first.
var guardColors = []color.Color{
	lipgloss.Color("#967E76"),
	lipgloss.Color("#FF7C28"),
	lipgloss.Color("#E17AFF"),
	lipgloss.Color("#00D1F1"),
}

// Header styles
var (
	HeaderStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(ColorText).
			Background(ColorPrimary).
			Padding(0, 1)

	HeaderRoomStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(ColorLive)

	HeaderAreaStyle = lipgloss.NewStyle().
			Foreground(ColorTextInverse)
)

// Footer styles
var (
	FooterStyle = lipgloss.NewStyle().
			Foreground(ColorTextMuted).
			Padding(0, 1)

	FooterKeyStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(ColorSecondary)

	FooterDescStyle = lipgloss.NewStyle().
			Foreground(ColorTextMuted)

	FooterSeparatorStyle = lipgloss.NewStyle().
				Foreground(ColorBorder)
)

// Panel styles
var (
	PanelStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(ColorBorder)

	PanelFocusedStyle = lipgloss.NewStyle().
				Border(lipgloss.RoundedBorder()).
				BorderForeground(ColorBorderFocus)

	PanelTitleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(ColorPrimary)
)

// Tab bar styles
var (
	TabStyle = lipgloss.NewStyle().
			Foreground(ColorTextMuted).
			Padding(0, 1)

	TabActiveStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(ColorTextInverse).
			Background(ColorPrimary).
			Padding(0, 1)
)

// Feed row styles
var (
	TimestampStyle = lipgloss.NewStyle().
			Foreground(ColorMuted)

	TagStyle = lipgloss.NewStyle().
			Foreground(ColorTag)

	UserNameStyle = lipgloss.NewStyle().
			Bold(true)

	PriceStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(ColorPrice)

	GuardNameStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(ColorGuard)
)

// Sidebar styles
var (
	SidebarLabelStyle = lipgloss.NewStyle().
				Foreground(ColorTextMuted)

	SidebarValueStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(ColorText)

	SidebarLiveStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(ColorLive)

	SidebarOfflineStyle = lipgloss.NewStyle().
				Foreground(ColorMuted)
)

// Editor styles
var (
	CursorStyle = lipgloss.NewStyle().
			Background(ColorText)

	EditorHintStyle = lipgloss.NewStyle().
			Foreground(ColorMuted).
			Italic(true)
)

// Status styles
var (
	StatusErrorStyle = lipgloss.NewStyle().
				Foreground(ColorError).
				Bold(true)

	StatusWarningStyle = lipgloss.NewStyle().
				Foreground(ColorWarning)

	StatusInfoStyle = lipgloss.NewStyle().
			Foreground(ColorInfo)

	StatusSuccessStyle = lipgloss.NewStyle().
				Foreground(ColorSuccess)
)

// Quit confirmation styles
var (
	QuitBoxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(ColorWarning).
			Padding(1, 4)

	QuitTextStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(ColorWarning)
)
