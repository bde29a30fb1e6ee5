package ui

import (
	"fmt"
	"image/color"
	"strconv"
	"strings"
	"time"

	"charm.land/lipgloss/v2"
	"github.com/charmbracelet/x/ansi"

	"github.com/natmri/bilicli/internal/room"
)

var emoticons = strings.NewReplacer(
	"[dog]", "🐶",
	"[手机]", "📱",
	"[花]", "🌹",
	"[吃瓜]", "🍉",
	"[比心]", "❤️",
)

// ReplaceEmoticons swaps the common text emoticons for emoji.
func ReplaceEmoticons(s string) string {
	return emoticons.Replace(s)
}

// actionText is what a viewer action reads like in the feed.
var actionText = map[string]string{
	room.ActionEnter:  "进入你的直播间",
	room.ActionFollow: "关注了你",
	room.ActionShare:  "分享了你的直播间",
	room.ActionLike:   "为你的直播间点赞",
}

// ActionText returns the feed text for a viewer action, empty when unknown.
func ActionText(action string) string {
	return actionText[action]
}

// FailureLine is the row shown for a record whose payload does not decode.
func FailureLine(c room.Category) string {
	return StatusErrorStyle.Render(fmt.Sprintf("[%s] 解析失败", c))
}

// RenderEvent renders one record as a single unwrapped line. withTag
// prefixes the category tag, used by the All tab.
func RenderEvent(ev room.Event, withTag bool) string {
	var (
		user room.User
		body string
	)
	switch ev.Category {
	case room.CategoryChat:
		p, err := room.Decode[room.ChatPayload](ev)
		if err != nil {
			return FailureLine(ev.Category)
		}
		user, body = p.User, ReplaceEmoticons(p.Content)
	case room.CategoryPaidChat:
		p, err := room.Decode[room.PaidChatPayload](ev)
		if err != nil {
			return FailureLine(ev.Category)
		}
		user = p.User
		body = PriceStyle.Render(fmt.Sprintf("(%d 元)", p.Price)) + " " + ReplaceEmoticons(p.Content)
	case room.CategoryGift:
		p, err := room.Decode[room.GiftPayload](ev)
		if err != nil {
			return FailureLine(ev.Category)
		}
		user = p.User
		body = fmt.Sprintf("赠送了%s * %d ", p.GiftName, p.Amount)
		if total := p.TotalYuan(); total > 0 {
			body += PriceStyle.Render(fmt.Sprintf("(%.1f 元)", total))
		}
		if p.Receiver != "" {
			body += " 给 " + p.Receiver
		}
	case room.CategoryMembership:
		p, err := room.Decode[room.MembershipPayload](ev)
		if err != nil {
			return FailureLine(ev.Category)
		}
		user = p.User
		body = "在你的直播间购买了" + GuardNameStyle.Render(p.GiftName) + " " + fmt.Sprintf("(%d 元)", p.Price/1000)
	case room.CategoryViewerAction:
		p, err := room.Decode[room.ViewerActionPayload](ev)
		if err != nil {
			return FailureLine(ev.Category)
		}
		user, body = p.User, ActionText(p.Action)
	default:
		return FailureLine(ev.Category)
	}

	var b strings.Builder
	b.WriteString(TimestampStyle.Render(time.UnixMilli(ev.Timestamp).Format("15:04:05")))
	if withTag {
		b.WriteString(TagStyle.Render(" [" + ev.Category.String() + "] "))
	} else {
		b.WriteString(" ")
	}
	b.WriteString(renderUser(user))
	b.WriteString(": ")
	b.WriteString(body)
	return b.String()
}

// renderUser renders the fan medal and the guard-coloured name.
func renderUser(u room.User) string {
	var b strings.Builder
	if u.Badge != nil {
		c := ColorMuted
		if u.Badge.SameRoom && u.Badge.Color != "" {
			c = lipgloss.Color(u.Badge.Color)
		}
		b.WriteString(lipgloss.NewStyle().Foreground(ColorText).Background(c).Render(" " + u.Badge.Name + " "))
		b.WriteString(lipgloss.NewStyle().Foreground(c).Background(ColorText).Render(" " + strconv.Itoa(u.Badge.Level) + " "))
		b.WriteString(" ")
	}
	b.WriteString(UserNameStyle.Foreground(GuardColor(u.GuardLevel)).Render(u.Name))
	return b.String()
}

// GuardColor maps a guard level to the colour of the user's name.
func GuardColor(level int) color.Color {
	if level < 0 {
		level = 0
	}
	return guardColors[level%len(guardColors)]
}

// RenderRows renders the visible window of a tab, one line per record,
// each cut to width.
func RenderRows(tab *TabView, width int) []string {
	withTag := tab.Filter == nil
	rows := tab.Window()
	lines := make([]string, 0, len(rows))
	for _, ev := range rows {
		lines = append(lines, ansi.Truncate(RenderEvent(ev, withTag), width, "…"))
	}
	return lines
}
