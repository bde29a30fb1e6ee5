package app

import (
	"context"
	"fmt"
	"log/slog"
	"sync/atomic"

	"github.com/robfig/cron/v3"
	"golang.org/x/sync/errgroup"

	"github.com/natmri/bilicli/internal/api"
	"github.com/natmri/bilicli/internal/config"
	"github.com/natmri/bilicli/internal/errors"
	"github.com/natmri/bilicli/internal/live"
	"github.com/natmri/bilicli/internal/logger"
	"github.com/natmri/bilicli/internal/notification"
	"github.com/natmri/bilicli/internal/room"
)

// RoomAPI is what the producers need from the HTTP API. *api.Client
// implements it.
type RoomAPI interface {
	GetRoomInfo(ctx context.Context, roomID int64) (room.Info, error)
	live.DanmuInfoSource
}

// Producers owns every goroutine that writes to the room state: the
// initial identity fetch, the scheduled refreshes and the live feed.
type Producers struct {
	state    *room.State
	cfg      *config.Config
	api      RoomAPI
	endpoint string
	log      *slog.Logger

	fetchFailed atomic.Bool
}

// ProducerOption configures Producers.
type ProducerOption func(*Producers)

// WithFeedEndpoint makes the live feed dial url instead of discovering
// servers through the API.
func WithFeedEndpoint(url string) ProducerOption {
	return func(p *Producers) {
		p.endpoint = url
	}
}

// NewProducers creates the producers for state.
func NewProducers(state *room.State, cfg *config.Config, client RoomAPI, opts ...ProducerOption) *Producers {
	p := &Producers{
		state: state,
		cfg:   cfg,
		api:   client,
		log:   logger.WithComponent("producers").With("roomID", state.RoomID()),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Run fetches the room once, then keeps it refreshed and the live feed
// connected until ctx is cancelled. A panicking producer is logged and
// reported as a status instead of taking the others down.
func (p *Producers) Run(ctx context.Context) error {
	var ownerUID int64
	if info, err := p.Refresh(ctx); err == nil {
		ownerUID = info.UID
	}

	g, ctx := errgroup.WithContext(ctx)
	g.Go(p.guard("refresh", func() error { return p.runSchedule(ctx) }))
	g.Go(p.guard("live", func() error { return p.runFeed(ctx, ownerUID) }))
	return g.Wait()
}

// Refresh fetches the room info and replaces the identity with it. On
// failure the previous identity stays and the error becomes the status.
func (p *Producers) Refresh(ctx context.Context) (room.Info, error) {
	info, err := p.api.GetRoomInfo(ctx, p.state.RoomID())
	if err != nil {
		if ctx.Err() != nil {
			return info, err
		}
		p.log.Warn("room info fetch failed", "error", err)
		p.fetchFailed.Store(true)
		p.state.SetStatus("获取直播间信息失败: " + errors.UserMessage(err))
		return info, err
	}

	p.state.UpdateIdentity(info)
	if p.fetchFailed.Swap(false) {
		p.state.SetStatus("")
	}
	p.log.Debug("room info refreshed", "live", info.LiveStatus, "attention", info.Attention, "online", info.Online)
	return info, nil
}

func (p *Producers) runSchedule(ctx context.Context) error {
	c := cron.New()
	_, err := c.AddFunc(p.cfg.RefreshSchedule, func() {
		defer p.recoverPanic("refresh")
		p.Refresh(ctx)
	})
	if err != nil {
		return errors.ConfigInvalid(fmt.Sprintf("refresh_schedule %q: %v", p.cfg.RefreshSchedule, err))
	}
	c.Start()
	<-ctx.Done()
	<-c.Stop().Done()
	return nil
}

func (p *Producers) runFeed(ctx context.Context, ownerUID int64) error {
	cookie := p.state.Credential()
	buvid, _ := api.CookieValue(cookie, "buvid3")
	client := live.NewClient(live.Config{
		RoomID:         p.state.RoomID(),
		OwnerUID:       ownerUID,
		UID:            api.CookieUID(cookie),
		Buvid:          buvid,
		Cookie:         cookie,
		Endpoint:       p.endpoint,
		ReconnectDelay: p.cfg.ReconnectDelay,
	}, p.api, p.sink())
	return client.Run(ctx)
}

// sink is where the live feed writes. With notifications enabled paid
// events also pop up on the desktop.
func (p *Producers) sink() live.Sink {
	if !p.cfg.Notifications {
		return p.state
	}
	return &notifySink{State: p.state, log: p.log}
}

// guard wraps a producer so a panic ends only that producer.
func (p *Producers) guard(name string, fn func() error) func() error {
	return func() error {
		defer p.recoverPanic(name)
		return fn()
	}
}

func (p *Producers) recoverPanic(name string) {
	if r := recover(); r != nil {
		p.log.Error("producer panicked", "producer", name, "panic", r)
		p.state.SetStatus(fmt.Sprintf("%s 异常: %v", name, r))
	}
}

// notifySink forwards to the state and announces paid events.
type notifySink struct {
	*room.State
	log *slog.Logger
}

func (s *notifySink) AppendEvent(ev room.Event) uint64 {
	seq := s.State.AppendEvent(ev)
	if ev.Category == room.CategoryPaidChat || ev.Category == room.CategoryMembership {
		go func() {
			if _, err := notification.Announce(ev); err != nil {
				s.log.Warn("notification failed", "seq", seq, "error", err)
			}
		}()
	}
	return seq
}
