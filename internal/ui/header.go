package ui

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/x/ansi"
	"github.com/mattn/go-runewidth"

	"github.com/natmri/bilicli/internal/room"
)

// Header represents the top header bar
type Header struct {
	width    int
	identity room.Identity
	now      func() time.Time
}

// NewHeader creates a new header
func NewHeader() *Header {
	return &Header{now: time.Now}
}

// SetWidth sets the header width
func (h *Header) SetWidth(width int) {
	h.width = width
}

// SetIdentity sets the room shown in the header
func (h *Header) SetIdentity(id room.Identity) {
	h.identity = id
}

// View renders the header
func (h *Header) View() string {
	id := h.identity
	left := " bilicli  " + HeaderRoomStyle.Render(strconv.FormatInt(id.RoomID, 10))
	if id.AreaName != "" || id.ParentAreaName != "" {
		left += " " + HeaderAreaStyle.Render("("+id.AreaName+"·"+id.ParentAreaName+")")
	}
	if id.Title != "" {
		left += " " + id.Title
	}

	var right string
	if id.Live {
		right = "🔴"
		if !id.StartTime.IsZero() {
			right += " " + FormatDuration(h.now().Sub(id.StartTime)) + " (Start at " + id.StartTime.Format("15:04") + ")"
		}
	} else {
		right = "⚫ 未开播"
	}
	right += " "

	inner := max(0, h.width-2)
	rightWidth := runewidth.StringWidth(right)
	left = ansi.Truncate(left, max(0, inner-rightWidth-1), "…")
	padding := max(1, inner-ansi.StringWidth(left)-rightWidth)

	return HeaderStyle.Width(h.width).Render(left + strings.Repeat(" ", padding) + right)
}

// FormatDuration formats an elapsed live time as H:MM:SS, or M:SS under an
// hour. Negative durations count as zero.
func FormatDuration(d time.Duration) string {
	secs := max(0, int64(d/time.Second))
	hours, minutes, seconds := secs/3600, secs%3600/60, secs%60
	if hours > 0 {
		return fmt.Sprintf("%d:%02d:%02d", hours, minutes, seconds)
	}
	return fmt.Sprintf("%d:%02d", minutes, seconds)
}
