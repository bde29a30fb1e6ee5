// Package room holds the shared state of one live room: its identity,
// counters, quit phase and the classified event log. Network producers write
// it concurrently while the render loop reads snapshots of it.
package room

import (
	"strings"
	"sync"
	"time"
)

// LiveTimeLayout is the format of the live_time field in room info.
const LiveTimeLayout = "2006-01-02 15:04:05"

// Info is the room info body returned by the live API.
type Info struct {
	RoomID         int64  `json:"room_id"`
	ShortID        int64  `json:"short_id"`
	UID            int64  `json:"uid"`
	AreaName       string `json:"area_name"`
	ParentAreaName string `json:"parent_area_name"`
	Title          string `json:"title"`
	LiveStatus     int    `json:"live_status"` // 0 offline, 1 live, 2 rotating replays
	Attention      int64  `json:"attention"`
	Online         int64  `json:"online"`
	LiveTime       string `json:"live_time"`
}

// Identity describes the room as last fetched.
type Identity struct {
	RoomID         int64
	ShortID        int64
	UID            int64
	AreaName       string
	ParentAreaName string
	Title          string
	Live           bool
	StartTime      time.Time // Zero when unknown
}

// CounterKind selects one of the room counters.
type CounterKind int

const (
	CounterAttention CounterKind = iota
	CounterWatchers
)

// Counters are the frequently pushed room numbers.
type Counters struct {
	Attention int64
	Watchers  int64
}

// Option configures a State.
type Option func(*State)

// WithMaxEvents caps the event log at n records, evicting the oldest.
// Zero or less keeps every record.
func WithMaxEvents(n int) Option {
	return func(s *State) {
		if n > 0 {
			s.maxEvents = n
		}
	}
}

// State is the single source of truth for one room. All methods are safe for
// concurrent use and hold the lock only long enough to update or copy.
type State struct {
	mu sync.Mutex

	identity    Identity
	counters    Counters
	credential  string
	phase       Phase
	sidebar     bool
	status      string
	statusAt    time.Time
	lastAction  *Event
	events      []Event
	seq         uint64
	maxEvents   int
	evictedRows uint64
}

// New creates the state for roomID. An empty credential disables sending.
func New(roomID int64, credential string, opts ...Option) *State {
	s := &State{
		identity:   Identity{RoomID: roomID},
		credential: strings.TrimSpace(credential),
		sidebar:    true,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// UpdateIdentity replaces the identity and both counters from a fresh fetch.
// An unparsable live_time leaves the start time zero; the rest still applies.
func (s *State) UpdateIdentity(info Info) {
	start, err := time.ParseInLocation(LiveTimeLayout, info.LiveTime, time.Local)
	if err != nil {
		start = time.Time{}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	roomID := info.RoomID
	if roomID == 0 {
		roomID = s.identity.RoomID
	}
	s.identity = Identity{
		RoomID:         roomID,
		ShortID:        info.ShortID,
		UID:            info.UID,
		AreaName:       info.AreaName,
		ParentAreaName: info.ParentAreaName,
		Title:          info.Title,
		Live:           info.LiveStatus == 1,
		StartTime:      start,
	}
	s.counters = Counters{Attention: info.Attention, Watchers: info.Online}
}

// UpdateCounter sets exactly one counter.
func (s *State) UpdateCounter(kind CounterKind, value int64) {
	s.mu.Lock()
	defer s.mu.Unlock()

	switch kind {
	case CounterAttention:
		s.counters.Attention = value
	case CounterWatchers:
		s.counters.Watchers = value
	}
}

// SetLive flips the live flag. Going live restarts the duration clock.
func (s *State) SetLive(live bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if live && !s.identity.Live {
		s.identity.StartTime = time.Now()
	}
	s.identity.Live = live
}

// AppendEvent assigns the next sequence number to ev and appends it.
func (s *State) AppendEvent(ev Event) uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.seq++
	ev.Seq = s.seq
	s.events = append(s.events, ev)
	if s.maxEvents > 0 && len(s.events) > s.maxEvents {
		drop := len(s.events) - s.maxEvents
		s.events = s.events[drop:]
		s.evictedRows += uint64(drop)
	}
	if ev.Category == CategoryViewerAction {
		last := ev
		s.lastAction = &last
	}
	return ev.Seq
}

// RequestQuit advances the quit state machine. Repeated calls reach Quit and
// stay there.
func (s *State) RequestQuit() Phase {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.phase = s.phase.next()
	return s.phase
}

// ConfirmQuit moves a pending quit to Quit.
func (s *State) ConfirmQuit() Phase {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.phase == PhaseConfirmingQuit {
		s.phase = PhaseQuit
	}
	return s.phase
}

// CancelQuit returns a pending quit to Running.
func (s *State) CancelQuit() Phase {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.phase == PhaseConfirmingQuit {
		s.phase = PhaseRunning
	}
	return s.phase
}

// Phase returns the current phase.
func (s *State) Phase() Phase {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.phase
}

// ToggleSidebar shows or hides the room sidebar.
func (s *State) ToggleSidebar() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sidebar = !s.sidebar
	return s.sidebar
}

// SetStatus records a transient status message. An empty message clears it.
func (s *State) SetStatus(msg string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.status = msg
	s.statusAt = time.Now()
}

// Credential returns the cookie used for sending.
func (s *State) Credential() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.credential
}

// HasCredential reports whether sending is possible at all.
func (s *State) HasCredential() bool {
	return s.Credential() != ""
}

// RoomID returns the room being watched.
func (s *State) RoomID() int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.identity.RoomID
}

// Snapshot is a consistent, read-only view of the state for one render pass.
type Snapshot struct {
	Identity      Identity
	Counters      Counters
	Phase         Phase
	Sidebar       bool
	HasCredential bool
	Status        string
	StatusAt      time.Time
	LastAction    *Event
	// Events shares storage with the state. Records are never mutated after
	// append and the slice capacity is clipped, so readers may keep it.
	Events []Event
	// Seq is the sequence number of the newest event, 0 when none arrived.
	Seq uint64
	// Evicted counts records dropped by the cap since the state was created.
	Evicted uint64
}

// Snapshot copies the state under the lock.
func (s *State) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	return Snapshot{
		Identity:      s.identity,
		Counters:      s.counters,
		Phase:         s.phase,
		Sidebar:       s.sidebar,
		HasCredential: s.credential != "",
		Status:        s.status,
		StatusAt:      s.statusAt,
		LastAction:    s.lastAction,
		Events:        s.events[:len(s.events):len(s.events)],
		Seq:           s.seq,
		Evicted:       s.evictedRows,
	}
}
