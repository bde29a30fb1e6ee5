package ui

import (
	"fmt"
	"strings"

	"github.com/rivo/uniseg"

	"github.com/natmri/bilicli/internal/room"
)

// MaxInputLength is the danmu length limit in grapheme clusters.
const MaxInputLength = 40

// EditorMode tells whether key presses go to the editor.
type EditorMode int

const (
	ModeNormal EditorMode = iota
	ModeEditing
)

// Editor is the single-line danmu composer.
type Editor struct {
	mode  EditorMode
	buf   strings.Builder
	count int
}

// NewEditor creates an empty editor in normal mode.
func NewEditor() *Editor {
	return &Editor{}
}

// Mode returns the current mode.
func (e *Editor) Mode() EditorMode {
	return e.mode
}

// Editing reports whether the editor captures input.
func (e *Editor) Editing() bool {
	return e.mode == ModeEditing
}

// Begin enters editing mode. It refuses without a credential or while a
// quit is pending.
func (e *Editor) Begin(hasCredential bool, phase room.Phase) bool {
	if !hasCredential || phase != room.PhaseRunning {
		return false
	}
	e.mode = ModeEditing
	return true
}

// Cancel leaves editing mode and discards the buffer.
func (e *Editor) Cancel() {
	e.mode = ModeNormal
	e.reset()
}

// Push appends text grapheme by grapheme until the budget is reached.
// It returns the number of clusters that were dropped.
func (e *Editor) Push(text string) int {
	dropped := 0
	state := -1
	var cluster string
	for len(text) > 0 {
		cluster, text, _, state = uniseg.FirstGraphemeClusterInString(text, state)
		if cluster == "\n" || cluster == "\r\n" || cluster == "\r" {
			continue
		}
		if e.count >= MaxInputLength {
			dropped++
			continue
		}
		e.buf.WriteString(cluster)
		e.count++
	}
	return dropped
}

// Backspace removes the last grapheme cluster.
func (e *Editor) Backspace() {
	s := e.buf.String()
	if s == "" {
		return
	}
	last := 0
	gr := uniseg.NewGraphemes(s)
	for gr.Next() {
		last, _ = gr.Positions()
	}
	e.buf.Reset()
	e.buf.WriteString(s[:last])
	e.count--
}

// TakeAndClear returns the buffer, empties it and leaves editing mode.
func (e *Editor) TakeAndClear() string {
	s := e.buf.String()
	e.reset()
	e.mode = ModeNormal
	return s
}

// Value returns the buffer without changing it.
func (e *Editor) Value() string {
	return e.buf.String()
}

// Len returns the buffer length in grapheme clusters.
func (e *Editor) Len() int {
	return e.count
}

// Clear empties the buffer and stays in the current mode.
func (e *Editor) Clear() {
	e.reset()
}

func (e *Editor) reset() {
	e.buf.Reset()
	e.count = 0
}

// Title is the " n / 40 " counter shown on the input border.
func (e *Editor) Title() string {
	return fmt.Sprintf(" %d / %d ", e.count, MaxInputLength)
}

// View renders the input box with the counter in its top border. errMsg
// is shown after the text when the last send failed.
func (e *Editor) View(width int, errMsg string) string {
	content := e.Value() + CursorStyle.Render(" ")
	if !e.Editing() {
		content = EditorHintStyle.Render("按 enter 发送弹幕")
	}
	if errMsg != "" {
		content += "  " + StatusErrorStyle.Render(errMsg)
	}
	return TitledPanel(e.Title(), []string{content}, width, InputHeight, e.Editing())
}
