package live

import (
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/tidwall/gjson"

	"github.com/natmri/bilicli/internal/room"
)

// Sink receives everything the live feed produces. *room.State satisfies it.
type Sink interface {
	AppendEvent(ev room.Event) uint64
	UpdateCounter(kind room.CounterKind, value int64)
	SetLive(live bool)
	SetStatus(msg string)
}

// Commands handled by the dispatcher.
const (
	cmdDanmu         = "DANMU_MSG"
	cmdSuperChat     = "SUPER_CHAT_MESSAGE"
	cmdGift          = "SEND_GIFT"
	cmdGuardBuy      = "GUARD_BUY"
	cmdInteract      = "INTERACT_WORD"
	cmdLike          = "LIKE_INFO_V3_CLICK"
	cmdRoomRealTime  = "ROOM_REAL_TIME_MESSAGE_UPDATE"
	cmdWatchedChange = "WATCHED_CHANGE"
	cmdLive          = "LIVE"
	cmdPreparing     = "PREPARING"
)

// INTERACT_WORD msg_type values.
const (
	interactEnter         = 1
	interactFollow        = 2
	interactShare         = 3
	interactSpecialFollow = 4
)

// Dispatcher turns command JSON bodies into sink updates.
type Dispatcher struct {
	sink     Sink
	roomID   int64
	ownerUID int64
	now      func() time.Time
	log      *slog.Logger
}

// NewDispatcher creates a dispatcher for roomID. ownerUID is the streamer's
// uid; medals belonging to either mark the sender as a fan of this room.
func NewDispatcher(sink Sink, roomID, ownerUID int64, log *slog.Logger) *Dispatcher {
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}
	return &Dispatcher{sink: sink, roomID: roomID, ownerUID: ownerUID, now: time.Now, log: log}
}

// Dispatch handles one command body. Unknown commands are ignored.
func (d *Dispatcher) Dispatch(body []byte) {
	if !gjson.ValidBytes(body) {
		d.log.Warn("invalid command body", "size", len(body))
		return
	}
	msg := gjson.ParseBytes(body)
	cmd, _, _ := strings.Cut(msg.Get("cmd").String(), ":")

	switch cmd {
	case cmdDanmu:
		d.emit(d.danmu(msg))
	case cmdSuperChat:
		d.emit(d.superChat(msg.Get("data")))
	case cmdGift:
		d.emit(d.gift(msg.Get("data")))
	case cmdGuardBuy:
		d.emit(d.guardBuy(msg.Get("data")))
	case cmdInteract:
		data := msg.Get("data")
		action := interactAction(data.Get("msg_type").Int())
		if action == "" {
			return
		}
		d.emit(d.viewerAction(data, action))
	case cmdLike:
		d.emit(d.viewerAction(msg.Get("data"), room.ActionLike))
	case cmdRoomRealTime:
		if fans := msg.Get("data.fans"); fans.Exists() {
			d.sink.UpdateCounter(room.CounterAttention, fans.Int())
		}
	case cmdWatchedChange:
		if num := msg.Get("data.num"); num.Exists() {
			d.sink.UpdateCounter(room.CounterWatchers, num.Int())
		}
	case cmdLive:
		d.sink.SetLive(true)
	case cmdPreparing:
		d.sink.SetLive(false)
	default:
		d.log.Debug("ignored command", "cmd", cmd)
	}
}

func (d *Dispatcher) emit(ev room.Event, err error) {
	if err != nil {
		d.log.Warn("failed to build event", "error", err)
		return
	}
	d.sink.AppendEvent(ev)
}

func interactAction(msgType int64) string {
	switch msgType {
	case interactEnter:
		return room.ActionEnter
	case interactFollow, interactSpecialFollow:
		return room.ActionFollow
	case interactShare:
		return room.ActionShare
	default:
		return ""
	}
}

// timestamp converts a seconds or milliseconds field, falling back to now.
func (d *Dispatcher) timestamp(r gjson.Result) int64 {
	ts := r.Int()
	switch {
	case ts <= 0:
		return d.now().UnixMilli()
	case ts < 1e12:
		return ts * 1000
	default:
		return ts
	}
}

// danmu reads the positional info array of DANMU_MSG:
//
//	info[0][4] send time (ms)    info[1] text
//	info[2][0] uid info[2][1] name  info[3] medal  info[7] guard level
func (d *Dispatcher) danmu(msg gjson.Result) (room.Event, error) {
	info := msg.Get("info")
	user := room.User{
		UID:        info.Get("2.0").Int(),
		Name:       info.Get("2.1").String(),
		GuardLevel: int(info.Get("7").Int()),
	}
	if medal := info.Get("3"); medal.IsArray() && len(medal.Array()) > 4 {
		user.Badge = &room.Badge{
			Name:     medal.Get("1").String(),
			Level:    int(medal.Get("0").Int()),
			Color:    intColor(medal.Get("4").Int()),
			SameRoom: d.sameRoom(medal.Get("3").Int(), medal.Get("12").Int()),
		}
	}
	return room.NewEvent(d.timestamp(info.Get("0.4")), room.ChatPayload{
		User:    user,
		Content: info.Get("1").String(),
	})
}

func (d *Dispatcher) superChat(data gjson.Result) (room.Event, error) {
	user := room.User{
		UID:        data.Get("uid").Int(),
		Name:       data.Get("user_info.uname").String(),
		GuardLevel: int(data.Get("user_info.guard_level").Int()),
		Badge:      d.badge(data.Get("medal_info")),
	}
	return room.NewEvent(d.timestamp(data.Get("start_time")), room.PaidChatPayload{
		User:    user,
		Content: data.Get("message").String(),
		Price:   data.Get("price").Int(),
	})
}

func (d *Dispatcher) gift(data gjson.Result) (room.Event, error) {
	user := room.User{
		UID:        data.Get("uid").Int(),
		Name:       data.Get("uname").String(),
		GuardLevel: int(data.Get("guard_level").Int()),
		Badge:      d.badge(data.Get("medal_info")),
	}
	return room.NewEvent(d.timestamp(data.Get("timestamp")), room.GiftPayload{
		User:     user,
		GiftName: data.Get("giftName").String(),
		Amount:   data.Get("num").Int(),
		Price:    data.Get("price").Int(),
		CoinType: data.Get("coin_type").String(),
		Receiver: data.Get("receive_user_info.uname").String(),
	})
}

func (d *Dispatcher) guardBuy(data gjson.Result) (room.Event, error) {
	level := int(data.Get("guard_level").Int())
	return room.NewEvent(d.timestamp(data.Get("start_time")), room.MembershipPayload{
		User: room.User{
			UID:        data.Get("uid").Int(),
			Name:       data.Get("username").String(),
			GuardLevel: level,
		},
		GiftName:   data.Get("gift_name").String(),
		GuardLevel: level,
		Price:      data.Get("price").Int(),
	})
}

func (d *Dispatcher) viewerAction(data gjson.Result, action string) (room.Event, error) {
	user := room.User{
		UID:   data.Get("uid").Int(),
		Name:  data.Get("uname").String(),
		Badge: d.badge(data.Get("fans_medal")),
	}
	if user.Badge != nil {
		user.GuardLevel = int(data.Get("fans_medal.guard_level").Int())
	}
	return room.NewEvent(d.timestamp(data.Get("timestamp")), room.ViewerActionPayload{
		User:   user,
		Action: action,
	})
}

// badge reads the object-shaped medal used by every command except DANMU_MSG.
func (d *Dispatcher) badge(medal gjson.Result) *room.Badge {
	name := medal.Get("medal_name").String()
	if name == "" {
		return nil
	}
	color := medal.Get("medal_color")
	hex := color.String()
	if color.Type == gjson.Number {
		hex = intColor(color.Int())
	}
	return &room.Badge{
		Name:     name,
		Level:    int(medal.Get("medal_level").Int()),
		Color:    hex,
		SameRoom: d.sameRoom(medal.Get("anchor_roomid").Int(), medal.Get("target_id").Int()),
	}
}

func (d *Dispatcher) sameRoom(medalRoom, medalOwner int64) bool {
	if medalRoom != 0 && medalRoom == d.roomID {
		return true
	}
	return medalOwner != 0 && medalOwner == d.ownerUID
}

func intColor(c int64) string {
	if c <= 0 {
		return ""
	}
	return fmt.Sprintf("#%06X", c&0xFFFFFF)
}
