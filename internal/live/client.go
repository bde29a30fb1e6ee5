// Package live joins the danmu websocket feed of a room and turns its
// commands into room events, counter updates and live status changes.
package live

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/coder/websocket"
	"github.com/tidwall/gjson"
	"golang.org/x/sync/errgroup"

	"github.com/natmri/bilicli/internal/api"
	"github.com/natmri/bilicli/internal/errors"
	"github.com/natmri/bilicli/internal/logger"
)

const (
	// DefaultHeartbeatInterval is how often the server expects a heartbeat.
	DefaultHeartbeatInterval = 30 * time.Second
	// DefaultReconnectDelay is the pause between two connection attempts.
	DefaultReconnectDelay = 5 * time.Second

	fallbackHost   = "broadcastlv.chat.bilibili.com"
	heartbeatBody  = "[object Object]"
	maxMessageSize = 4 << 20
	userAgent      = "Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0 Safari/537.36"
)

// DanmuInfoSource discovers the feed token and servers of a room.
// *api.Client satisfies it.
type DanmuInfoSource interface {
	GetDanmuInfo(ctx context.Context, roomID int64, cookie string) (api.DanmuInfo, error)
}

// Config describes which room to join and how.
type Config struct {
	RoomID            int64
	OwnerUID          int64  // Streamer uid, marks fans of this room
	UID               int64  // Logged-in viewer, 0 joins as a guest
	Buvid             string // Browser id from the cookie, if any
	Cookie            string
	Endpoint          string // Overrides server discovery when set
	HeartbeatInterval time.Duration
	ReconnectDelay    time.Duration
}

// Client keeps one live feed connection open until its context ends.
type Client struct {
	cfg        Config
	source     DanmuInfoSource
	sink       Sink
	dispatcher *Dispatcher
	log        *slog.Logger

	mu           sync.Mutex
	disconnected bool
}

// NewClient creates a feed client writing into sink. source may be nil when
// cfg.Endpoint is set.
func NewClient(cfg Config, source DanmuInfoSource, sink Sink) *Client {
	if cfg.HeartbeatInterval <= 0 {
		cfg.HeartbeatInterval = DefaultHeartbeatInterval
	}
	if cfg.ReconnectDelay <= 0 {
		cfg.ReconnectDelay = DefaultReconnectDelay
	}
	log := logger.WithComponent("live").With("roomID", cfg.RoomID)
	return &Client{
		cfg:        cfg,
		source:     source,
		sink:       sink,
		dispatcher: NewDispatcher(sink, cfg.RoomID, cfg.OwnerUID, log),
		log:        log,
	}
}

// Run connects and reconnects until ctx is cancelled. It only returns nil;
// connection failures are reported through the sink status.
func (c *Client) Run(ctx context.Context) error {
	for {
		err := c.session(ctx)
		if ctx.Err() != nil {
			return nil
		}

		c.log.Warn("live feed disconnected", "error", err, "retryIn", c.cfg.ReconnectDelay)
		c.mu.Lock()
		c.disconnected = true
		c.mu.Unlock()
		c.sink.SetStatus("直播连接断开: " + errors.UserMessage(err))

		select {
		case <-ctx.Done():
			return nil
		case <-time.After(c.cfg.ReconnectDelay):
		}
	}
}

type authRequest struct {
	UID      int64  `json:"uid"`
	RoomID   int64  `json:"roomid"`
	ProtoVer int    `json:"protover"`
	Buvid    string `json:"buvid,omitempty"`
	Platform string `json:"platform"`
	Type     int    `json:"type"`
	Key      string `json:"key,omitempty"`
}

func (c *Client) session(ctx context.Context) error {
	token, urls := c.endpoints(ctx)

	conn, err := c.dial(ctx, urls)
	if err != nil {
		return err
	}
	defer conn.CloseNow()
	conn.SetReadLimit(maxMessageSize)

	auth, err := json.Marshal(authRequest{
		UID:      c.cfg.UID,
		RoomID:   c.cfg.RoomID,
		ProtoVer: int(ProtoZlib),
		Buvid:    c.cfg.Buvid,
		Platform: "web",
		Type:     2,
		Key:      token,
	})
	if err != nil {
		return errors.E(errors.Op("live.Auth"), errors.KindInvalid, err)
	}
	if err := conn.Write(ctx, websocket.MessageBinary, Encode(OpAuth, auth)); err != nil {
		return errors.E(errors.Op("live.Auth"), errors.KindNetwork, err)
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error { return c.heartbeat(gctx, conn) })
	g.Go(func() error { return c.read(gctx, conn) })
	return g.Wait()
}

// endpoints returns the auth token and the websocket URLs to try in order.
func (c *Client) endpoints(ctx context.Context) (string, []string) {
	var info api.DanmuInfo
	if c.source != nil {
		var err error
		info, err = c.source.GetDanmuInfo(ctx, c.cfg.RoomID, c.cfg.Cookie)
		if err != nil {
			c.log.Warn("danmu info unavailable, joining without token", "error", err)
		}
	}

	if c.cfg.Endpoint != "" {
		return info.Token, []string{c.cfg.Endpoint}
	}

	var urls []string
	for _, h := range info.HostList {
		if h.Host == "" {
			continue
		}
		port := h.WSSPort
		if port == 0 {
			port = 443
		}
		urls = append(urls, fmt.Sprintf("wss://%s:%d/sub", h.Host, port))
	}
	if len(urls) == 0 {
		urls = append(urls, "wss://"+fallbackHost+"/sub")
	}
	return info.Token, urls
}

func (c *Client) dial(ctx context.Context, urls []string) (*websocket.Conn, error) {
	header := http.Header{}
	header.Set("User-Agent", userAgent)
	if c.cfg.Cookie != "" {
		header.Set("Cookie", c.cfg.Cookie)
	}

	var lastErr error
	for _, u := range urls {
		conn, _, err := websocket.Dial(ctx, u, &websocket.DialOptions{HTTPHeader: header})
		if err == nil {
			c.log.Info("connected", "url", u)
			return conn, nil
		}
		lastErr = err
		c.log.Debug("dial failed", "url", u, "error", err)
		if ctx.Err() != nil {
			break
		}
	}
	return nil, errors.FeedConnectFailed(urls[len(urls)-1], lastErr)
}

func (c *Client) heartbeat(ctx context.Context, conn *websocket.Conn) error {
	ticker := time.NewTicker(c.cfg.HeartbeatInterval)
	defer ticker.Stop()

	packet := Encode(OpHeartbeat, []byte(heartbeatBody))
	for {
		if err := conn.Write(ctx, websocket.MessageBinary, packet); err != nil {
			return errors.E(errors.Op("live.Heartbeat"), errors.KindNetwork, err)
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}
	}
}

func (c *Client) read(ctx context.Context, conn *websocket.Conn) error {
	for {
		_, data, err := conn.Read(ctx)
		if err != nil {
			return errors.E(errors.Op("live.Read"), errors.KindNetwork, err)
		}

		packets, err := Decode(data)
		if err != nil {
			c.log.Warn("malformed frame", "error", err, "size", len(data))
		}
		for _, p := range packets {
			switch p.Op {
			case OpAuthReply:
				if code := gjson.GetBytes(p.Body, "code").Int(); code != 0 {
					return errors.E(errors.Op("live.Auth"), errors.KindAuth, fmt.Sprintf("auth rejected with code %d", code))
				}
				c.joined()
			case OpMessage:
				c.dispatcher.Dispatch(p.Body)
			}
		}
	}
}

func (c *Client) joined() {
	c.log.Info("joined room")
	c.mu.Lock()
	wasDown := c.disconnected
	c.disconnected = false
	c.mu.Unlock()
	if wasDown {
		c.sink.SetStatus("")
	}
}
