// Package hub tracks the live console sessions of a server.
package hub

import (
	"errors"
	"sort"
	"sync"
	"time"

	"pkt.systems/pslog"

	"pkt.systems/termframe/internal/metrics"
	"pkt.systems/termframe/internal/session"
)

// ErrDuplicateSession is returned when an id is registered twice.
var ErrDuplicateSession = errors.New("session already registered")

// Entry is a listing snapshot of one session.
type Entry struct {
	ID           string    `json:"id"`
	User         string    `json:"user,omitempty"`
	Remote       string    `json:"remote,omitempty"`
	Term         string    `json:"term"`
	Cols         int       `json:"cols"`
	Rows         int       `json:"rows"`
	CreatedAt    time.Time `json:"created_at"`
	LastActiveAt time.Time `json:"last_active_at"`
}

// MessageFunc receives broadcast messages. It runs inside a transaction of
// the receiving session.
type MessageFunc func(from, text string)

// Hub is the registry of connected sessions.
type Hub struct {
	mu      sync.Mutex
	members map[string]*member
	logger  pslog.Logger
}

type member struct {
	entry     Entry
	ctrl      *session.Controller
	onMessage MessageFunc
}

// New constructs a Hub.
func New(logger pslog.Logger) *Hub {
	if logger == nil {
		logger = pslog.LoggerFromEnv()
	}
	return &Hub{
		members: make(map[string]*member),
		logger:  logger.With("component", "hub"),
	}
}

// Register adds a session. term, cols and rows seed the listing until the
// terminal reports its own.
func (h *Hub) Register(ctrl *session.Controller, remote, term string, cols, rows int) error {
	now := time.Now().UTC()
	h.mu.Lock()
	defer h.mu.Unlock()
	id := ctrl.ID()
	if _, ok := h.members[id]; ok {
		return ErrDuplicateSession
	}
	h.members[id] = &member{
		ctrl: ctrl,
		entry: Entry{
			ID:           id,
			Remote:       remote,
			Term:         term,
			Cols:         cols,
			Rows:         rows,
			CreatedAt:    now,
			LastActiveAt: now,
		},
	}
	metrics.SessionStarted()
	h.logger.Debug("session registered", "session", id, "remote", remote)
	return nil
}

// Unregister removes a session.
func (h *Hub) Unregister(id string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, ok := h.members[id]; ok {
		delete(h.members, id)
		metrics.SessionEnded()
		h.logger.Debug("session unregistered", "session", id)
	}
}

// OnMessage sets the broadcast receiver of a session.
func (h *Hub) OnMessage(id string, fn MessageFunc) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if m, ok := h.members[id]; ok {
		m.onMessage = fn
	}
}

// Update edits the listing entry of a session.
func (h *Hub) Update(id string, fn func(*Entry)) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if m, ok := h.members[id]; ok {
		fn(&m.entry)
	}
}

// Touch records activity on a session.
func (h *Hub) Touch(id string) {
	now := time.Now().UTC()
	h.Update(id, func(e *Entry) { e.LastActiveAt = now })
}

// Get returns the entry of one session.
func (h *Hub) Get(id string) (Entry, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()
	m, ok := h.members[id]
	if !ok {
		return Entry{}, false
	}
	return m.entry, true
}

// List returns all sessions, oldest first.
func (h *Hub) List() []Entry {
	h.mu.Lock()
	out := make([]Entry, 0, len(h.members))
	for _, m := range h.members {
		out = append(out, m.entry)
	}
	h.mu.Unlock()
	sort.Slice(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].ID < out[j].ID
		}
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out
}

// Len returns the number of registered sessions.
func (h *Hub) Len() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.members)
}

func (h *Hub) snapshot() []*member {
	h.mu.Lock()
	defer h.mu.Unlock()
	out := make([]*member, 0, len(h.members))
	for _, m := range h.members {
		out = append(out, m)
	}
	return out
}

// Broadcast delivers a message to every session with a receiver and returns
// the number of deliveries. It runs a transaction on each session, so it
// must not be called from inside one.
func (h *Hub) Broadcast(from, text string) int {
	delivered := 0
	for _, m := range h.snapshot() {
		h.mu.Lock()
		fn := m.onMessage
		h.mu.Unlock()
		if fn == nil {
			continue
		}
		err := m.ctrl.Do(func() error {
			fn(from, text)
			return nil
		})
		if err != nil {
			if !errors.Is(err, session.ErrClosed) {
				h.logger.Debug("broadcast failed", "session", m.entry.ID, "err", err)
			}
			continue
		}
		delivered++
	}
	metrics.Delivered(delivered)
	return delivered
}

// CloseAll sends message to every session and ends it.
func (h *Hub) CloseAll(message string) {
	for _, m := range h.snapshot() {
		h.end(m.ctrl, message)
	}
}

// SignOut ends the sessions signed in as username with message and returns
// how many it ended.
func (h *Hub) SignOut(username, message string) int {
	ended := 0
	for _, m := range h.snapshot() {
		h.mu.Lock()
		user := m.entry.User
		h.mu.Unlock()
		if user == username && h.end(m.ctrl, message) {
			ended++
		}
	}
	if ended > 0 {
		h.logger.Info("signed out sessions", "user", username, "sessions", ended)
	}
	return ended
}

func (h *Hub) end(ctrl *session.Controller, message string) bool {
	err := ctrl.Do(func() error {
		ctrl.Goodbye(message)
		ctrl.Quit()
		return nil
	})
	if err != nil {
		if !errors.Is(err, session.ErrClosed) {
			h.logger.Debug("close failed", "session", ctrl.ID(), "err", err)
		}
		return false
	}
	return true
}
