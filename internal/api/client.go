// Package api talks to the Bilibili live HTTP API: room info, danmu server
// discovery and sending danmu.
package api

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/natmri/bilicli/internal/errors"
	"github.com/natmri/bilicli/internal/logger"
	"github.com/natmri/bilicli/internal/room"
)

const (
	// DefaultBaseURL is the public live API.
	DefaultBaseURL = "https://api.live.bilibili.com"

	userAgent = "Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0 Safari/537.36"

	danmuColorWhite = "16777215"
	danmuFontSize   = "25"
	danmuModeScroll = "1"
)

// Client calls the live API.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the default HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.httpClient = hc
		}
	}
}

// NewClient creates a client for baseURL, or DefaultBaseURL when empty.
func NewClient(baseURL string, opts ...Option) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	c := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// BaseURL returns the API root the client talks to.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// envelope is the common response wrapper of the live API.
type envelope struct {
	Code    int             `json:"code"`
	Message string          `json:"message"`
	Msg     string          `json:"msg"`
	Data    json.RawMessage `json:"data"`
}

func (e envelope) text() string {
	if e.Message != "" {
		return e.Message
	}
	return e.Msg
}

// GetRoomInfo fetches the identity and counters of a room.
func (c *Client) GetRoomInfo(ctx context.Context, roomID int64) (room.Info, error) {
	var info room.Info

	q := url.Values{"room_id": {strconv.FormatInt(roomID, 10)}}
	env, err := c.get(ctx, "/room/v1/Room/get_info", q)
	if err != nil {
		return info, errors.RoomFetchFailed(roomID, err)
	}
	if env.Code != 0 {
		return info, errors.RoomNotFound(roomID, env.text())
	}
	if err := json.Unmarshal(env.Data, &info); err != nil {
		return info, errors.E(errors.Op("api.GetRoomInfo"), errors.KindDecode, err)
	}
	return info, nil
}

// DanmuHost is one danmu server endpoint.
type DanmuHost struct {
	Host    string `json:"host"`
	Port    int    `json:"port"`
	WSSPort int    `json:"wss_port"`
	WSPort  int    `json:"ws_port"`
}

// DanmuInfo is the token and server list needed to join a room's live feed.
type DanmuInfo struct {
	Token    string      `json:"token"`
	HostList []DanmuHost `json:"host_list"`
}

// GetDanmuInfo fetches the live feed token and servers for a room.
func (c *Client) GetDanmuInfo(ctx context.Context, roomID int64, cookie string) (DanmuInfo, error) {
	var info DanmuInfo

	q := url.Values{"id": {strconv.FormatInt(roomID, 10)}, "type": {"0"}}
	env, err := c.get(ctx, "/xlive/web-room/v1/index/getDanmuInfo", q, withCookie(cookie))
	if err != nil {
		return info, errors.E(errors.Op("api.GetDanmuInfo"), errors.KindNetwork, err)
	}
	if env.Code != 0 {
		return info, errors.E(errors.Op("api.GetDanmuInfo"), errors.KindNotFound, env.text())
	}
	if err := json.Unmarshal(env.Data, &info); err != nil {
		return info, errors.E(errors.Op("api.GetDanmuInfo"), errors.KindDecode, err)
	}
	return info, nil
}

// SendDanmu posts msg to the room using the logged-in cookie. Server-side
// rejections are returned with the server's message as the user text.
func (c *Client) SendDanmu(ctx context.Context, roomID int64, msg, cookie string) error {
	csrf, ok := CSRFToken(cookie)
	if !ok {
		return errors.CSRFTokenMissing()
	}

	form := url.Values{
		"csrf":       {csrf},
		"csrf_token": {csrf},
		"color":      {danmuColorWhite},
		"fontsize":   {danmuFontSize},
		"mode":       {danmuModeScroll},
		"msg":        {msg},
		"rnd":        {strconv.FormatInt(time.Now().Unix(), 10)},
		"roomid":     {strconv.FormatInt(roomID, 10)},
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/msg/send", strings.NewReader(form.Encode()))
	if err != nil {
		return errors.SendFailed(err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	withCookie(cookie)(req)

	env, status, body, err := c.do(req)
	if err != nil {
		return errors.SendFailed(err)
	}
	if status >= 400 {
		text := strings.TrimSpace(string(body))
		if text == "" {
			text = http.StatusText(status)
		}
		return errors.SendRejected(text)
	}
	if env.Code != 0 {
		return errors.SendRejected(env.text())
	}
	return nil
}

// CSRFToken extracts the bili_jct value from a cookie string.
func CSRFToken(cookie string) (string, bool) {
	return CookieValue(cookie, "bili_jct")
}

// CookieUID returns the logged-in uid (DedeUserID) of a cookie, 0 for guests.
func CookieUID(cookie string) int64 {
	v, ok := CookieValue(cookie, "DedeUserID")
	if !ok {
		return 0
	}
	uid, err := strconv.ParseInt(v, 10, 64)
	if err != nil {
		return 0
	}
	return uid
}

// CookieValue returns the non-empty value of the named cookie.
func CookieValue(cookie, name string) (string, bool) {
	for part := range strings.SplitSeq(cookie, ";") {
		k, v, found := strings.Cut(strings.TrimSpace(part), "=")
		if found && k == name && v != "" {
			return v, true
		}
	}
	return "", false
}

type requestOption func(*http.Request)

func withCookie(cookie string) requestOption {
	return func(req *http.Request) {
		if cookie != "" {
			req.Header.Set("Cookie", cookie)
		}
	}
}

func (c *Client) get(ctx context.Context, path string, q url.Values, opts ...requestOption) (envelope, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path+"?"+q.Encode(), http.NoBody)
	if err != nil {
		return envelope{}, fmt.Errorf("create request: %w", err)
	}
	for _, opt := range opts {
		opt(req)
	}

	env, status, body, err := c.do(req)
	if err != nil {
		return envelope{}, err
	}
	if status >= 400 {
		return envelope{}, fmt.Errorf("http error: %s (status %d)", strings.TrimSpace(string(body)), status)
	}
	return env, nil
}

func (c *Client) do(req *http.Request) (envelope, int, []byte, error) {
	log := logger.WithComponent("api")
	req.Header.Set("User-Agent", userAgent)

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		log.Warn("request failed", "method", req.Method, "path", req.URL.Path, "error", err)
		return envelope{}, 0, nil, fmt.Errorf("http request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return envelope{}, resp.StatusCode, nil, fmt.Errorf("read response: %w", err)
	}
	log.Debug("request done", "method", req.Method, "path", req.URL.Path,
		"status", resp.StatusCode, "duration", time.Since(start))

	if resp.StatusCode >= 400 {
		return envelope{}, resp.StatusCode, body, nil
	}

	var env envelope
	if err := json.Unmarshal(body, &env); err != nil {
		return envelope{}, resp.StatusCode, body, fmt.Errorf("unmarshal response: %w", err)
	}
	return env, resp.StatusCode, body, nil
}
