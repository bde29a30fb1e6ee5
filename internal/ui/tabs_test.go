package ui

import (
	"testing"

	"github.com/natmri/bilicli/internal/room"
)

func appendPayloads(t *testing.T, st *room.State, payloads ...room.Payload) {
	t.Helper()
	for i, p := range payloads {
		ev, err := room.NewEvent(int64(1000+i), p)
		if err != nil {
			t.Fatalf("NewEvent() error = %v", err)
		}
		st.AppendEvent(ev)
	}
}

func chats(n int) []room.Payload {
	out := make([]room.Payload, n)
	for i := range out {
		out[i] = room.ChatPayload{User: room.User{Name: "u"}, Content: "hi"}
	}
	return out
}

// syncFrame runs what one frame of the run loop does to the tabs.
func syncFrame(ts *TabSet, st *room.State) {
	snap := st.Snapshot()
	ts.Sync(snap.Events, snap.Seq)
	ts.Follow()
}

func TestTabSet_Order(t *testing.T) {
	ts := NewTabSet()
	want := []string{"全部", "弹幕", "SC", "礼物", "上舰", "进场"}
	tabs := ts.Tabs()
	if len(tabs) != len(want) {
		t.Fatalf("got %d tabs, want %d", len(tabs), len(want))
	}
	for i, title := range want {
		if tabs[i].Title != title {
			t.Errorf("tab %d = %q, want %q", i, tabs[i].Title, title)
		}
	}
	if tabs[0].Filter != nil {
		t.Error("All tab should have no filter")
	}
}

func TestTabSet_AllExcludesViewerActions(t *testing.T) {
	st := room.New(1, "")
	appendPayloads(t, st,
		room.ChatPayload{Content: "a"},
		room.ViewerActionPayload{Action: room.ActionEnter},
		room.GiftPayload{GiftName: "g"},
		room.PaidChatPayload{Content: "sc"},
		room.ViewerActionPayload{Action: room.ActionLike},
		room.MembershipPayload{GiftName: "舰长"},
	)
	ts := NewTabSet()
	ts.Resize(20)
	syncFrame(ts, st)

	all := ts.Tabs()[0].Rows()
	want := []room.Category{room.CategoryChat, room.CategoryGift, room.CategoryPaidChat, room.CategoryMembership}
	if len(all) != len(want) {
		t.Fatalf("All tab has %d rows, want %d", len(all), len(want))
	}
	for i, c := range want {
		if all[i].Category != c {
			t.Errorf("row %d category = %v, want %v", i, all[i].Category, c)
		}
		if i > 0 && all[i].Seq <= all[i-1].Seq {
			t.Errorf("rows out of order: %d after %d", all[i].Seq, all[i-1].Seq)
		}
	}

	counts := map[string]int{"弹幕": 1, "SC": 1, "礼物": 1, "上舰": 1, "进场": 2}
	for _, tab := range ts.Tabs()[1:] {
		if got := len(tab.Rows()); got != counts[tab.Title] {
			t.Errorf("%s has %d rows, want %d", tab.Title, got, counts[tab.Title])
		}
		for _, ev := range tab.Rows() {
			if ev.Category != *tab.Filter {
				t.Errorf("%s contains %v", tab.Title, ev.Category)
			}
		}
	}
}

func TestTabSet_Cycle(t *testing.T) {
	ts := NewTabSet()
	n := len(ts.Tabs())

	for range n {
		ts.Next()
	}
	if ts.Selected() != 0 {
		t.Errorf("after %d Next() selected = %d, want 0", n, ts.Selected())
	}

	ts.Prev()
	if ts.Selected() != n-1 {
		t.Errorf("Prev() from first selected = %d, want %d", ts.Selected(), n-1)
	}
	ts.Next()
	if ts.Active() != ts.Tabs()[0] {
		t.Error("Next() from last should wrap to the first tab")
	}
}

func TestTabView_ScrollBounds(t *testing.T) {
	st := room.New(1, "")
	appendPayloads(t, st, chats(10)...)
	ts := NewTabSet()
	ts.Resize(5) // 3 visible rows
	syncFrame(ts, st)
	tab := ts.Active()

	if tab.ContentLength() != 7 {
		t.Fatalf("ContentLength() = %d, want 7", tab.ContentLength())
	}
	if tab.Offset != 7 {
		t.Fatalf("Offset = %d, want 7 after follow", tab.Offset)
	}

	tests := []struct {
		name       string
		op         func()
		wantOffset int
		wantFollow bool
	}{
		{"down at bottom is a no-op", func() { tab.ScrollDown(1) }, 7, true},
		{"up saturates at zero", func() { tab.ScrollUp(100) }, 0, false},
		{"up at zero is a no-op", func() { tab.ScrollUp(1) }, 0, false},
		{"down part way", func() { tab.ScrollDown(3) }, 3, false},
		{"down saturates and resumes follow", func() { tab.ScrollDown(100) }, 7, true},
	}
	for _, tt := range tests {
		tt.op()
		if tab.Offset != tt.wantOffset || tab.AutoFollow != tt.wantFollow {
			t.Errorf("%s: offset=%d follow=%v, want %d %v", tt.name, tab.Offset, tab.AutoFollow, tt.wantOffset, tt.wantFollow)
		}
		if tab.Offset < 0 || tab.Offset > tab.ContentLength() {
			t.Errorf("%s: offset %d outside [0, %d]", tt.name, tab.Offset, tab.ContentLength())
		}
	}
}

func TestTabSet_AutoFollowIsIdempotent(t *testing.T) {
	st := room.New(1, "")
	appendPayloads(t, st, chats(10)...)
	ts := NewTabSet()
	ts.Resize(5)
	syncFrame(ts, st)

	tab := ts.Active()
	if tab.Offset != 7 {
		t.Fatalf("Offset = %d, want 7", tab.Offset)
	}
	for range 3 {
		syncFrame(ts, st)
	}
	if tab.Offset != 7 {
		t.Errorf("re-rendering moved offset to %d", tab.Offset)
	}

	appendPayloads(t, st, chats(2)...)
	syncFrame(ts, st)
	if tab.Offset != 9 {
		t.Errorf("Offset = %d after 2 appends, want 9", tab.Offset)
	}
	window := tab.Window()
	if len(window) != 3 || window[2].Seq != 12 {
		t.Errorf("window does not end at the newest row: %+v", window)
	}
}

func TestTabSet_ScrollUpAtTopKeepsFollowing(t *testing.T) {
	st := room.New(1, "")
	appendPayloads(t, st, chats(2)...)
	ts := NewTabSet()
	ts.Resize(5) // 3 visible rows
	syncFrame(ts, st)

	tab := ts.Active()
	tab.ScrollUp(1)
	if tab.Offset != 0 || !tab.AutoFollow {
		t.Fatalf("after ScrollUp at top: offset=%d follow=%v, want 0 true", tab.Offset, tab.AutoFollow)
	}

	appendPayloads(t, st, chats(10)...)
	syncFrame(ts, st)
	if tab.Offset != tab.ContentLength() {
		t.Errorf("Offset = %d, want %d", tab.Offset, tab.ContentLength())
	}
	window := tab.Window()
	if len(window) != 3 || window[2].Seq != 12 {
		t.Errorf("window does not end at the newest row: %+v", window)
	}
}

func TestTabSet_ScrolledAwayStaysPut(t *testing.T) {
	st := room.New(1, "")
	appendPayloads(t, st, chats(10)...)
	ts := NewTabSet()
	ts.Resize(5)
	syncFrame(ts, st)

	tab := ts.Active()
	tab.ScrollUp(2)
	appendPayloads(t, st, chats(3)...)
	syncFrame(ts, st)

	if tab.Offset != 5 {
		t.Errorf("Offset = %d, want 5 while scrolled away", tab.Offset)
	}
	if tab.ContentLength() != 10 {
		t.Errorf("ContentLength() = %d, want 10", tab.ContentLength())
	}
}

func TestTabSet_SyncSkipsUnchangedSeq(t *testing.T) {
	st := room.New(1, "")
	appendPayloads(t, st, chats(4)...)
	ts := NewTabSet()
	ts.Resize(10)
	snap := st.Snapshot()
	ts.Sync(snap.Events, snap.Seq)

	ts.Sync(nil, snap.Seq)
	if got := len(ts.Active().Rows()); got != 4 {
		t.Errorf("rows = %d, want 4 when seq did not move", got)
	}
}

func TestTabSet_EvictionShiftsOffset(t *testing.T) {
	st := room.New(1, "", room.WithMaxEvents(5))
	appendPayloads(t, st, chats(5)...)
	ts := NewTabSet()
	ts.Resize(4) // 2 visible rows
	syncFrame(ts, st)

	tab := ts.Active()
	tab.ScrollUp(1)
	if tab.Offset != 2 {
		t.Fatalf("Offset = %d, want 2", tab.Offset)
	}
	before := tab.Window()

	appendPayloads(t, st, chats(1)...)
	syncFrame(ts, st)

	if got := len(tab.Rows()); got != 5 {
		t.Errorf("rows = %d, want 5 after eviction", got)
	}
	if tab.Rows()[0].Seq != 2 {
		t.Errorf("first row seq = %d, want 2", tab.Rows()[0].Seq)
	}
	if tab.Offset != 1 {
		t.Errorf("Offset = %d, want 1", tab.Offset)
	}
	after := tab.Window()
	if len(after) != len(before) || after[0].Seq != before[0].Seq {
		t.Errorf("window moved: before %d, after %d", before[0].Seq, after[0].Seq)
	}
}

func TestTabSet_ResizeClamps(t *testing.T) {
	st := room.New(1, "")
	appendPayloads(t, st, chats(6)...)
	ts := NewTabSet()
	ts.Resize(4)
	syncFrame(ts, st)
	if ts.Active().Offset != 4 {
		t.Fatalf("Offset = %d, want 4", ts.Active().Offset)
	}

	ts.Resize(20)
	if ts.Active().Offset != 0 || ts.Active().ContentLength() != 0 {
		t.Errorf("after growing: offset=%d length=%d", ts.Active().Offset, ts.Active().ContentLength())
	}
	if ts.Active().Visible() != 18 {
		t.Errorf("Visible() = %d, want 18", ts.Active().Visible())
	}
}
