package app

import (
	"context"
	"strings"
	"time"

	tea "charm.land/bubbletea/v2"
	"github.com/google/uuid"

	"github.com/natmri/bilicli/internal/errors"
	"github.com/natmri/bilicli/internal/logger"
)

// Sender delivers a danmu to a room. *api.Client implements it.
type Sender interface {
	SendDanmu(ctx context.Context, roomID int64, msg, cookie string) error
}

// SendResultMsg reports the outcome of one submission.
type SendResultMsg struct {
	ID   string
	Text string
	Err  error
}

// Send runs the send pipeline for one message. Without a credential it
// fails with NotAuthenticated and never calls the sender.
func Send(ctx context.Context, sender Sender, roomID int64, text, cookie string) error {
	if strings.TrimSpace(cookie) == "" {
		return errors.NotAuthenticated()
	}
	return sender.SendDanmu(ctx, roomID, text, cookie)
}

// sendDanmu returns a command that sends text on its own goroutine. The
// room and credential are read now so the command never touches the model.
func (m *Model) sendDanmu(text string) tea.Cmd {
	ctx, sender := m.ctx, m.sender
	roomID, cookie := m.state.RoomID(), m.state.Credential()
	id := uuid.NewString()

	return func() tea.Msg {
		log := logger.WithComponent("send").With("submission", id, "roomID", roomID)
		start := time.Now()
		log.Debug("sending danmu", "length", len(text))

		err := Send(ctx, sender, roomID, text, cookie)
		if err != nil {
			log.Warn("send failed", "error", err, "duration", time.Since(start))
		} else {
			log.Info("danmu sent", "duration", time.Since(start))
		}
		return SendResultMsg{ID: id, Text: text, Err: err}
	}
}
