package room

// Guard levels carried by users and membership purchases.
const (
	GuardNone    = 0
	GuardGovern  = 1 // 总督
	GuardAdmiral = 2 // 提督
	GuardCaptain = 3 // 舰长
)

// Viewer actions carried by ViewerActionPayload.
const (
	ActionEnter  = "enter"
	ActionFollow = "follow"
	ActionShare  = "share"
	ActionLike   = "like"
)

// Badge is a viewer's fan medal.
type Badge struct {
	Name     string `json:"name"`
	Level    int    `json:"level"`
	Color    string `json:"color,omitempty"`     // "#RRGGBB"
	SameRoom bool   `json:"same_room,omitempty"` // Medal belongs to this room's streamer
}

// User identifies the sender of an event.
type User struct {
	UID        int64  `json:"uid"`
	Name       string `json:"uname"`
	GuardLevel int    `json:"guard_level,omitempty"`
	Badge      *Badge `json:"badge,omitempty"`
}

// ChatPayload is a danmu message.
type ChatPayload struct {
	User    User   `json:"user"`
	Content string `json:"content"`
}

func (ChatPayload) Category() Category { return CategoryChat }

// PaidChatPayload is a super chat. Price is in yuan.
type PaidChatPayload struct {
	User    User   `json:"user"`
	Content string `json:"content"`
	Price   int64  `json:"price"`
}

func (PaidChatPayload) Category() Category { return CategoryPaidChat }

// GiftPayload is a gift. Price is per unit, in gold coins (1000 = 1 yuan);
// silver gifts carry CoinType "silver" and are free.
type GiftPayload struct {
	User     User   `json:"user"`
	GiftName string `json:"gift_name"`
	Amount   int64  `json:"amount"`
	Price    int64  `json:"price"`
	CoinType string `json:"coin_type,omitempty"`
	Receiver string `json:"receiver,omitempty"`
}

func (GiftPayload) Category() Category { return CategoryGift }

// TotalYuan is the paid value of the gift.
func (g GiftPayload) TotalYuan() float64 {
	if g.CoinType == "silver" {
		return 0
	}
	return float64(g.Price*g.Amount) / 1000
}

// MembershipPayload is a guard purchase. Price is in gold coins.
type MembershipPayload struct {
	User       User   `json:"user"`
	GiftName   string `json:"gift_name"`
	GuardLevel int    `json:"guard_level"`
	Price      int64  `json:"price"`
}

func (MembershipPayload) Category() Category { return CategoryMembership }

// ViewerActionPayload is an enter/follow/share/like notice.
type ViewerActionPayload struct {
	User   User   `json:"user"`
	Action string `json:"action"`
}

func (ViewerActionPayload) Category() Category { return CategoryViewerAction }
