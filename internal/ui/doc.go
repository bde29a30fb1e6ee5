// Package ui provides the terminal components of bilicli.
//
// # Layout System
//
//	┌─────────────────────────────────────────────────────┐
//	│ Header (1 line): room, area, title, live time       │
//	│ Tab bar (1 line): 全部 弹幕 SC 礼物 上舰 进场        │
//	├───────────────────────────────────┬─────────────────┤
//	│                                   │                 │
//	│         Feed panel                │   Sidebar       │
//	│         (active tab)              │   (1/4 width)   │
//	│                                   │                 │
//	├───────────────────────────────────┴─────────────────┤
//	│ Input box (3 lines, " n / 40 " in the border)       │
//	│ Footer (1 line): key help or flash message          │
//	└─────────────────────────────────────────────────────┘
//
// # Components
//
// TabSet: the six tab views over the event log. Each tab filters by
// category, keeps its own offset and follows new rows until the user
// scrolls up. Sync is cheap when nothing was appended.
//
// Editor: the danmu composer with a 40 grapheme budget.
//
// RenderEvent: one line per record. A record that does not decode renders
// as "[tag] 解析失败" instead of breaking the panel.
//
// Header, Footer, Sidebar: chrome around the feed. The footer shows bubbles
// key help unless a flash message is active.
//
// Layout: all size calculations for a terminal size.
package ui
