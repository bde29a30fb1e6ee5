package ui

import (
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/x/ansi"

	"github.com/natmri/bilicli/internal/room"
)

func TestFormatDuration(t *testing.T) {
	tests := []struct {
		d    time.Duration
		want string
	}{
		{0, "0:00"},
		{65 * time.Second, "1:05"},
		{59*time.Minute + 59*time.Second, "59:59"},
		{time.Hour + 2*time.Minute + 5*time.Second, "1:02:05"},
		{26 * time.Hour, "26:00:00"},
		{-time.Minute, "0:00"},
	}

	for _, tt := range tests {
		if got := FormatDuration(tt.d); got != tt.want {
			t.Errorf("FormatDuration(%v) = %q, want %q", tt.d, got, tt.want)
		}
	}
}

func TestHeader_View(t *testing.T) {
	start := time.Date(2024, 1, 1, 10, 0, 0, 0, time.Local)
	h := NewHeader()
	h.now = func() time.Time { return start.Add(time.Hour) }
	h.SetWidth(100)

	h.SetIdentity(room.Identity{RoomID: 21452505, AreaName: "Games", ParentAreaName: "MOBA", Title: "Ranked"})
	offline := ansi.Strip(h.View())
	for _, want := range []string{"21452505", "(Games·MOBA)", "Ranked", "未开播"} {
		if !strings.Contains(offline, want) {
			t.Errorf("offline header %q missing %q", offline, want)
		}
	}

	h.SetIdentity(room.Identity{RoomID: 1, Title: "Ranked", Live: true, StartTime: start})
	live := ansi.Strip(h.View())
	for _, want := range []string{"1:00:00", "(Start at 10:00)"} {
		if !strings.Contains(live, want) {
			t.Errorf("live header %q missing %q", live, want)
		}
	}
	if w := ansi.StringWidth(h.View()); w != 100 {
		t.Errorf("header width = %d, want 100", w)
	}
}

func TestHeader_LiveWithoutStartTime(t *testing.T) {
	h := NewHeader()
	h.SetWidth(80)
	h.SetIdentity(room.Identity{RoomID: 1, Title: "Ranked", Live: true})

	got := ansi.Strip(h.View())
	if !strings.Contains(got, "🔴") {
		t.Errorf("header %q missing live marker", got)
	}
	if strings.Contains(got, ":") || strings.Contains(got, "Start at") {
		t.Errorf("header %q shows a duration without a start time", got)
	}
}

func TestHeader_LongTitleIsCut(t *testing.T) {
	h := NewHeader()
	h.SetWidth(50)
	h.SetIdentity(room.Identity{RoomID: 1, Title: strings.Repeat("标题", 40)})
	if w := ansi.StringWidth(h.View()); w != 50 {
		t.Errorf("header width = %d, want 50", w)
	}
	if !strings.Contains(ansi.Strip(h.View()), "未开播") {
		t.Error("live flag should survive truncation")
	}
}
