package ui

import (
	"sort"

	"github.com/natmri/bilicli/internal/room"
)

// TabView is one filtered projection of the event log with its own scroll
// position.
type TabView struct {
	Title string
	// Filter selects a single category. Nil is the All tab, which shows
	// everything except viewer actions.
	Filter     *room.Category
	Offset     int
	AutoFollow bool

	rows    []room.Event
	visible int
}

func newTabView(title string, filter *room.Category) *TabView {
	return &TabView{Title: title, Filter: filter, AutoFollow: true}
}

// Accepts reports whether records of category c belong in this tab.
func (t *TabView) Accepts(c room.Category) bool {
	if t.Filter == nil {
		return c != room.CategoryViewerAction
	}
	return *t.Filter == c
}

// Rows returns the filtered records in append order.
func (t *TabView) Rows() []room.Event {
	return t.rows
}

// Visible returns the number of rows that fit in the panel.
func (t *TabView) Visible() int {
	return t.visible
}

// ContentLength is the largest valid offset.
func (t *TabView) ContentLength() int {
	return max(0, len(t.rows)-t.visible)
}

// Window returns the rows currently inside the viewport.
func (t *TabView) Window() []room.Event {
	end := min(len(t.rows), t.Offset+t.visible)
	if t.Offset >= end {
		return nil
	}
	return t.rows[t.Offset:end]
}

// ScrollUp moves n rows towards older records and stops following. At the
// top it does nothing.
func (t *TabView) ScrollUp(n int) {
	if next := max(0, t.Offset-n); next < t.Offset {
		t.Offset = next
		t.AutoFollow = false
	}
}

// ScrollDown moves n rows towards newer records. Reaching the bottom resumes
// following.
func (t *TabView) ScrollDown(n int) {
	if n <= 0 {
		return
	}
	t.Offset = min(t.ContentLength(), t.Offset+n)
	if t.Offset == t.ContentLength() {
		t.AutoFollow = true
	}
}

// Follow pins the viewport bottom to the newest row while following.
func (t *TabView) Follow() {
	if !t.AutoFollow {
		return
	}
	for t.Offset+t.visible < len(t.rows) {
		t.Offset++
	}
}

func (t *TabView) clamp() {
	t.Offset = min(max(t.Offset, 0), t.ContentLength())
}

// sync drops rows the log evicted and appends records newer than lastSeq.
func (t *TabView) sync(events []room.Event, lastSeq uint64) {
	drop := len(t.rows)
	if len(events) > 0 {
		first := events[0].Seq
		drop = sort.Search(len(t.rows), func(i int) bool { return t.rows[i].Seq >= first })
	}
	if drop > 0 {
		t.rows = t.rows[drop:]
		t.Offset -= drop
	}

	start := sort.Search(len(events), func(i int) bool { return events[i].Seq > lastSeq })
	for _, ev := range events[start:] {
		if t.Accepts(ev.Category) {
			t.rows = append(t.rows, ev)
		}
	}
	t.clamp()
}

// TabSet is the fixed, ordered set of tabs with exactly one selected.
type TabSet struct {
	tabs     []*TabView
	selected int
	seq      uint64
}

// NewTabSet creates the All tab followed by one tab per category.
func NewTabSet() *TabSet {
	ts := &TabSet{tabs: []*TabView{newTabView("全部", nil)}}
	for _, c := range room.Categories {
		ts.tabs = append(ts.tabs, newTabView(c.String(), &c))
	}
	return ts
}

// Tabs returns every tab in display order.
func (ts *TabSet) Tabs() []*TabView {
	return ts.tabs
}

// Selected returns the index of the active tab.
func (ts *TabSet) Selected() int {
	return ts.selected
}

// Active returns the selected tab.
func (ts *TabSet) Active() *TabView {
	return ts.tabs[ts.selected]
}

// Next selects the following tab, wrapping to the first.
func (ts *TabSet) Next() {
	ts.selected = (ts.selected + 1) % len(ts.tabs)
}

// Prev selects the previous tab, wrapping to the last.
func (ts *TabSet) Prev() {
	ts.selected = (ts.selected + len(ts.tabs) - 1) % len(ts.tabs)
}

// Sync brings every tab up to date with a snapshot of the event log.
// Nothing is re-filtered unless seq moved since the last call.
func (ts *TabSet) Sync(events []room.Event, seq uint64) {
	if seq == ts.seq {
		return
	}
	for _, t := range ts.tabs {
		t.sync(events, ts.seq)
	}
	ts.seq = seq
}

// Resize sets the panel height, borders included.
func (ts *TabSet) Resize(panelHeight int) {
	visible := InnerHeight(panelHeight)
	for _, t := range ts.tabs {
		t.visible = visible
		t.clamp()
	}
}

// Follow advances every following tab to its newest rows.
func (ts *TabSet) Follow() {
	for _, t := range ts.tabs {
		t.Follow()
	}
}
