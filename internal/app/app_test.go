package app

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	tea "charm.land/bubbletea/v2"

	"github.com/natmri/bilicli/internal/errors"
	"github.com/natmri/bilicli/internal/logger"
	"github.com/natmri/bilicli/internal/room"
	"github.com/natmri/bilicli/internal/ui"
)

const testCookie = "SESSDATA=s; bili_jct=csrf; DedeUserID=7"

func appendChat(t *testing.T, s *room.State, name, content string) {
	t.Helper()
	ev, err := room.NewEvent(time.Now().UnixMilli(), room.ChatPayload{
		User:    room.User{UID: 1, Name: name},
		Content: content,
	})
	if err != nil {
		t.Fatalf("NewEvent() error = %v", err)
	}
	s.AppendEvent(ev)
}

func TestQuitFlow(t *testing.T) {
	tests := []struct {
		name     string
		keys     []string
		want     room.Phase
		wantQuit bool
	}{
		{"q asks", []string{"q"}, room.PhaseConfirmingQuit, false},
		{"q then n stays", []string{"q", "n"}, room.PhaseRunning, false},
		{"q then esc stays", []string{"q", "esc"}, room.PhaseRunning, false},
		{"q then y quits", []string{"q", "y"}, room.PhaseQuit, true},
		{"q then Y quits", []string{"q", "Y"}, room.PhaseQuit, true},
		{"q twice quits", []string{"q", "q"}, room.PhaseQuit, true},
		{"ctrl+c asks", []string{"ctrl+c"}, room.PhaseConfirmingQuit, false},
		{"y while running ignored", []string{"y"}, room.PhaseRunning, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			state := room.New(1, "")
			m := testModelWithSize(state, &fakeSender{}, 100, 30)

			var cmd tea.Cmd
			for _, k := range tt.keys {
				m, cmd = sendKey(m, k)
			}
			if got := state.Phase(); got != tt.want {
				t.Errorf("phase = %v, want %v", got, tt.want)
			}
			if got := isQuit(cmd); got != tt.wantQuit {
				t.Errorf("quit cmd = %v, want %v", got, tt.wantQuit)
			}
		})
	}
}

func TestQuitPromptView(t *testing.T) {
	m := testModelWithSize(room.New(1, ""), &fakeSender{}, 100, 30)
	m, _ = sendKey(m, "q")

	if got := m.render(); !strings.Contains(got, "Are you sure you want to quit?(Y/N)") {
		t.Errorf("view does not show quit prompt:\n%s", got)
	}
}

func TestCompose_RequiresCredential(t *testing.T) {
	sender := &fakeSender{}
	m := testModelWithSize(room.New(1, ""), sender, 100, 30)

	m, _ = sendKey(m, "enter")
	if m.editor.Editing() {
		t.Fatal("editor should refuse without a credential")
	}
	want := errors.UserMessage(errors.NotAuthenticated())
	if m.sendErr != want {
		t.Errorf("sendErr = %q, want %q", m.sendErr, want)
	}
	if !m.footer.HasFlash() {
		t.Error("expected an error flash")
	}
	if len(sender.Calls()) != 0 {
		t.Errorf("sender called %d times", len(sender.Calls()))
	}
}

func TestCompose_NotWhileConfirming(t *testing.T) {
	m := testModelWithSize(room.New(1, testCookie), &fakeSender{}, 100, 30)
	m, _ = sendKey(m, "q")
	m, _ = sendKey(m, "enter")
	if m.editor.Editing() {
		t.Error("editor opened while confirming quit")
	}
}

func TestCompose_SendsTypedText(t *testing.T) {
	sender := &fakeSender{}
	m := testModelWithSize(room.New(1, testCookie), sender, 100, 30)

	m, _ = sendKey(m, "enter")
	if !m.editor.Editing() {
		t.Fatal("editor should be editing")
	}
	m = typeText(m, "hi 你好")
	if got := m.editor.Value(); got != "hi 你好" {
		t.Fatalf("editor value = %q", got)
	}

	m, cmd := sendKey(m, "enter")
	if cmd == nil {
		t.Fatal("expected a send command")
	}
	if m.editor.Editing() || m.editor.Len() != 0 {
		t.Error("editor should be cleared and back in normal mode")
	}
	if m.inFlight != 1 {
		t.Errorf("inFlight = %d, want 1", m.inFlight)
	}

	msg, ok := cmd().(SendResultMsg)
	if !ok {
		t.Fatalf("cmd returned %T, want SendResultMsg", cmd())
	}
	if msg.Err != nil || msg.Text != "hi 你好" || msg.ID == "" {
		t.Errorf("result = %+v", msg)
	}
	if calls := sender.Calls(); len(calls) != 1 || calls[0] != "hi 你好" {
		t.Errorf("sender calls = %v", calls)
	}

	m.Update(msg)
	if m.inFlight != 0 {
		t.Errorf("inFlight = %d after result", m.inFlight)
	}
	if m.sendErr != "" {
		t.Errorf("sendErr = %q", m.sendErr)
	}
}

func TestCompose_BlankIsNotSent(t *testing.T) {
	m := testModelWithSize(room.New(1, testCookie), &fakeSender{}, 100, 30)
	m, _ = sendKey(m, "enter")
	m = typeText(m, "   ")
	_, cmd := sendKey(m, "enter")
	if cmd != nil {
		t.Error("blank text should not be sent")
	}
}

func TestCompose_SendFailureIsShown(t *testing.T) {
	m := testModelWithSize(room.New(1, testCookie), &fakeSender{}, 100, 30)
	m.inFlight = 1

	m.Update(SendResultMsg{ID: "x", Text: "hi", Err: errors.SendRejected("msg in 1s")})
	if m.sendErr != "msg in 1s" {
		t.Errorf("sendErr = %q", m.sendErr)
	}
	if !strings.Contains(m.render(), "msg in 1s") {
		t.Error("failure not rendered")
	}
}

func TestSendResult_LogsSubmissionID(t *testing.T) {
	logger.Reset()
	t.Cleanup(logger.Reset)
	path := filepath.Join(t.TempDir(), "app.log")
	if err := logger.Init(path); err != nil {
		t.Fatal(err)
	}
	logger.SetDebug(true)

	m := testModelWithSize(room.New(1, testCookie), &fakeSender{}, 100, 30)
	m.inFlight = 1
	m.Update(SendResultMsg{ID: "3f1c-submission", Text: "hi"})

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), "submission=3f1c-submission") {
		t.Errorf("result log does not carry the submission id:\n%s", data)
	}
}

func TestFlash_SingleTimer(t *testing.T) {
	m := testModelWithSize(room.New(1, testCookie), &fakeSender{}, 100, 30)

	if cmd := m.ShowFlashError("first"); cmd == nil {
		t.Fatal("first flash should start the timer")
	}
	if cmd := m.ShowFlashError("second"); cmd != nil {
		t.Error("a second flash should reuse the running timer")
	}

	// The running timer keeps ticking while the flash is live
	if _, cmd := m.Update(ui.FlashTickMsg(time.Now())); cmd == nil {
		t.Error("timer stopped while a flash is showing")
	}

	m.footer.SetFlashWithDuration("old", ui.FlashError, -time.Second)
	if _, cmd := m.Update(ui.FlashTickMsg(time.Now())); cmd != nil {
		t.Error("timer should stop once the flash expired")
	}
	if m.footer.HasFlash() {
		t.Error("expired flash not cleared")
	}
	if cmd := m.ShowFlashSuccess("again"); cmd == nil {
		t.Error("a flash after expiry should start a new timer")
	}
}

func TestJumpKeys(t *testing.T) {
	state := room.New(1, "")
	m := testModelWithSize(state, &fakeSender{}, 100, 20)
	for range 40 {
		appendChat(t, state, "u", "msg")
	}
	frame(m)
	tab := m.tabs.Active()
	bottom := tab.Offset

	m, _ = sendKey(m, "home")
	if tab.Offset != 0 || tab.AutoFollow {
		t.Errorf("after home: offset=%d follow=%v", tab.Offset, tab.AutoFollow)
	}
	m, _ = sendKey(m, "end")
	if tab.Offset != bottom || !tab.AutoFollow {
		t.Errorf("after end: offset=%d follow=%v, want %d true", tab.Offset, tab.AutoFollow, bottom)
	}

	m, _ = sendKey(m, "tab")
	if got := m.tabs.Selected(); got != 1 {
		t.Errorf("after tab = %d, want 1", got)
	}
}

func TestWheelUpWithShortFeedKeepsFollowing(t *testing.T) {
	state := room.New(1, "")
	m := testModelWithSize(state, &fakeSender{}, 100, 30)
	appendChat(t, state, "u", "first")
	frame(m)

	m.Update(tea.MouseWheelMsg{X: 1, Y: 5, Button: tea.MouseWheelUp})
	for range 60 {
		appendChat(t, state, "u", "msg")
	}
	frame(m)

	tab := m.tabs.Active()
	if tab.Offset != tab.ContentLength() {
		t.Errorf("offset = %d, want %d", tab.Offset, tab.ContentLength())
	}
}

func TestEditingKeys(t *testing.T) {
	m := testModelWithSize(room.New(1, testCookie), &fakeSender{}, 100, 30)
	m, _ = sendKey(m, "enter")
	m = typeText(m, "abc")

	m, _ = sendKey(m, "backspace")
	if got := m.editor.Value(); got != "ab" {
		t.Errorf("after backspace = %q", got)
	}
	m, _ = sendKey(m, "ctrl+u")
	if got := m.editor.Value(); got != "" || !m.editor.Editing() {
		t.Errorf("after ctrl+u = %q editing=%v", got, m.editor.Editing())
	}

	// q is text while editing
	m, _ = sendKey(m, "q")
	if m.state.Phase() != room.PhaseRunning || m.editor.Value() != "q" {
		t.Errorf("q while editing: phase=%v value=%q", m.state.Phase(), m.editor.Value())
	}

	m, _ = sendKey(m, "esc")
	if m.editor.Editing() || m.editor.Value() != "" {
		t.Error("esc should cancel editing")
	}
}

func TestPaste(t *testing.T) {
	m := testModelWithSize(room.New(1, testCookie), &fakeSender{}, 100, 30)

	m.Update(tea.PasteMsg{Content: "ignored"})
	if m.editor.Len() != 0 {
		t.Error("paste outside editing should be ignored")
	}

	m, _ = sendKey(m, "enter")
	m.Update(tea.PasteMsg{Content: "line1\nline2"})
	if got := m.editor.Value(); got != "line1line2" {
		t.Errorf("pasted value = %q", got)
	}
}

func TestFrame_SyncsTabs(t *testing.T) {
	state := room.New(1, "")
	m := testModelWithSize(state, &fakeSender{}, 100, 30)

	appendChat(t, state, "alice", "hello")
	appendChat(t, state, "bob", "world")

	if n := len(m.tabs.Active().Rows()); n != 0 {
		t.Fatalf("rows before frame = %d", n)
	}
	if cmd := frame(m); cmd == nil {
		t.Error("frame should schedule the next frame")
	}
	if n := len(m.tabs.Active().Rows()); n != 2 {
		t.Errorf("rows after frame = %d, want 2", n)
	}

	view := m.render()
	for _, want := range []string{"alice", "hello", "bob", "world"} {
		if !strings.Contains(view, want) {
			t.Errorf("view missing %q", want)
		}
	}
}

func TestFrame_FollowsNewest(t *testing.T) {
	state := room.New(1, "")
	m := testModelWithSize(state, &fakeSender{}, 100, 20)

	for range 50 {
		appendChat(t, state, "u", "msg")
	}
	frame(m)

	tab := m.tabs.Active()
	if tab.ContentLength() == 0 {
		t.Fatal("expected rows beyond the panel")
	}
	if tab.Offset != tab.ContentLength() {
		t.Errorf("offset = %d, want %d", tab.Offset, tab.ContentLength())
	}

	sendKey(m, "w")
	held := tab.Offset
	appendChat(t, state, "u", "more")
	frame(m)
	if tab.Offset != held {
		t.Errorf("scrolled-away tab moved: %d -> %d", held, tab.Offset)
	}
}

func TestTabKeys(t *testing.T) {
	m := testModelWithSize(room.New(1, ""), &fakeSender{}, 100, 30)
	n := len(m.tabs.Tabs())

	m, _ = sendKey(m, "down")
	if got := m.tabs.Selected(); got != 1 {
		t.Errorf("after down = %d, want 1", got)
	}
	m, _ = sendKey(m, "up")
	m, _ = sendKey(m, "up")
	if got := m.tabs.Selected(); got != n-1 {
		t.Errorf("after up twice = %d, want %d", got, n-1)
	}
}

func TestScrollKeys(t *testing.T) {
	state := room.New(1, "")
	m := testModelWithSize(state, &fakeSender{}, 100, 20)
	for range 40 {
		appendChat(t, state, "u", "msg")
	}
	frame(m)
	tab := m.tabs.Active()
	bottom := tab.Offset

	m, _ = sendKey(m, "w")
	if tab.Offset != bottom-1 || tab.AutoFollow {
		t.Errorf("after w: offset=%d follow=%v", tab.Offset, tab.AutoFollow)
	}
	m, _ = sendKey(m, "s")
	if tab.Offset != bottom || !tab.AutoFollow {
		t.Errorf("after s: offset=%d follow=%v", tab.Offset, tab.AutoFollow)
	}
	m, _ = sendKey(m, "s")
	if tab.Offset != bottom {
		t.Errorf("scrolled past the end: %d", tab.Offset)
	}
}

func TestMouseWheel(t *testing.T) {
	state := room.New(1, "")
	m := testModelWithSize(state, &fakeSender{}, 100, 20)
	for range 40 {
		appendChat(t, state, "u", "msg")
	}
	frame(m)
	tab := m.tabs.Active()
	bottom := tab.Offset

	m.Update(tea.MouseWheelMsg{X: 1, Y: 5, Button: tea.MouseWheelUp})
	if tab.Offset != bottom-1 {
		t.Errorf("wheel up: offset = %d, want %d", tab.Offset, bottom-1)
	}

	sendKey(m, "b")
	frame(m)
	m.Update(tea.MouseWheelMsg{X: 99, Y: 5, Button: tea.MouseWheelDown})
	if tab.Offset != bottom-1 {
		t.Errorf("wheel over sidebar scrolled feed: %d", tab.Offset)
	}
}

func TestSidebarToggle(t *testing.T) {
	state := room.New(1, "")
	m := testModelWithSize(state, &fakeSender{}, 120, 30)
	full := m.layout.FeedWidth

	m, _ = sendKey(m, "b")
	if !state.Snapshot().Sidebar {
		t.Fatal("sidebar not shown")
	}
	if m.layout.FeedWidth >= full {
		t.Errorf("feed width = %d, want less than %d", m.layout.FeedWidth, full)
	}
	if !strings.Contains(m.render(), "直播间") {
		t.Error("sidebar not rendered")
	}

	m, _ = sendKey(m, "b")
	if m.layout.FeedWidth != full {
		t.Errorf("feed width = %d after hiding, want %d", m.layout.FeedWidth, full)
	}
}

func TestView_Loading(t *testing.T) {
	m := testModel(room.New(1, ""), &fakeSender{})
	if got := m.render(); got != "Loading..." {
		t.Errorf("view = %q", got)
	}
}

func TestView_Header(t *testing.T) {
	state := room.New(1, "")
	state.UpdateIdentity(room.Info{RoomID: 1, Title: "Ranked", AreaName: "MOBA", ParentAreaName: "Games"})
	m := testModelWithSize(state, &fakeSender{}, 120, 30)
	frame(m)

	if !m.View().AltScreen {
		t.Error("expected alt screen")
	}
	view := m.render()
	for _, want := range []string{"bilicli", "Ranked", "未开播", "全部"} {
		if !strings.Contains(view, want) {
			t.Errorf("view missing %q", want)
		}
	}
}

func TestSend_NoCredential(t *testing.T) {
	sender := &fakeSender{}
	err := Send(context.Background(), sender, 1, "hi", "  ")
	if !errors.Is(err, errors.KindAuth) {
		t.Errorf("err = %v, want auth error", err)
	}
	if len(sender.Calls()) != 0 {
		t.Error("sender should not be called")
	}
}
