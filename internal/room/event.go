package room

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/natmri/bilicli/internal/errors"
)

// Category classifies an event in the live feed.
type Category int

const (
	CategoryChat Category = iota
	CategoryPaidChat
	CategoryGift
	CategoryMembership
	CategoryViewerAction
)

// Categories lists every category in display order.
var Categories = []Category{
	CategoryChat,
	CategoryPaidChat,
	CategoryGift,
	CategoryMembership,
	CategoryViewerAction,
}

// String returns the short tag shown next to events of this category.
func (c Category) String() string {
	switch c {
	case CategoryChat:
		return "弹幕"
	case CategoryPaidChat:
		return "SC"
	case CategoryGift:
		return "礼物"
	case CategoryMembership:
		return "上舰"
	case CategoryViewerAction:
		return "进场"
	default:
		return fmt.Sprintf("Category(%d)", int(c))
	}
}

// Event is one classified record of the live feed. Payload holds the
// serialized payload struct matching Category. Events are immutable once
// appended to a State.
type Event struct {
	Seq       uint64          // Assigned by State.AppendEvent, 1-based
	Category  Category        // Declares how Payload decodes
	Timestamp int64           // Unix milliseconds
	Payload   json.RawMessage // Serialized payload
}

// Payload is implemented by every typed event payload.
type Payload interface {
	Category() Category
}

// NewEvent serializes p into an event of p's category.
func NewEvent[T Payload](timestamp int64, p T) (Event, error) {
	data, err := json.Marshal(p)
	if err != nil {
		return Event{}, errors.E(errors.Op("room.NewEvent"), errors.KindInvalid, err)
	}
	return Event{Category: p.Category(), Timestamp: timestamp, Payload: data}, nil
}

// Decode deserializes the payload of ev as T. It fails when ev was declared
// with a different category or when the payload is not a valid T.
func Decode[T Payload](ev Event) (T, error) {
	var out T
	if ev.Category != out.Category() {
		return out, errors.PayloadDecodeFailed(ev.Category.String(),
			fmt.Errorf("payload type %T does not match category", out))
	}
	trimmed := bytes.TrimSpace(ev.Payload)
	if len(trimmed) == 0 || trimmed[0] != '{' {
		return out, errors.PayloadDecodeFailed(ev.Category.String(), fmt.Errorf("payload is not an object"))
	}
	if err := json.Unmarshal(trimmed, &out); err != nil {
		return out, errors.PayloadDecodeFailed(ev.Category.String(), err)
	}
	return out, nil
}
