// Package notify delivers user-facing status messages about transactions.
package notify

import (
	"sync"
	"time"
)

// Variant selects how a notification is rendered.
type Variant string

const (
	Default     Variant = "default"
	Destructive Variant = "destructive"
)

// Notification is one message shown to the user. Link, when set, points at
// the transaction in the ledger explorer.
type Notification struct {
	Seq         int64     `json:"seq"`
	Title       string    `json:"title"`
	Description string    `json:"description,omitempty"`
	Variant     Variant   `json:"variant"`
	Link        string    `json:"link,omitempty"`
	Time        time.Time `json:"time"`
}

// Notifier accepts notifications. Notify returns the stored copy with its
// sequence number and time filled in.
type Notifier interface {
	Notify(n Notification) Notification
}

// Hub keeps a bounded history of notifications and fans them out to live
// subscribers. A subscriber that does not keep up is dropped.
type Hub struct {
	mu      sync.Mutex
	nextSeq int64
	limit   int
	history []Notification
	subs    map[int]chan Notification
	nextSub int
	now     func() time.Time
}

var _ Notifier = (*Hub)(nil)

// NewHub creates a hub that remembers the last limit notifications.
func NewHub(limit int) *Hub {
	if limit < 1 {
		limit = 1
	}
	return &Hub{
		limit: limit,
		subs:  make(map[int]chan Notification),
		now:   func() time.Time { return time.Now().UTC() },
	}
}

func (h *Hub) Notify(n Notification) Notification {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.nextSeq++
	n.Seq = h.nextSeq
	n.Time = h.now()
	if n.Variant == "" {
		n.Variant = Default
	}
	h.history = append(h.history, n)
	if len(h.history) > h.limit {
		h.history = append([]Notification(nil), h.history[len(h.history)-h.limit:]...)
	}

	for id, ch := range h.subs {
		select {
		case ch <- n:
		default:
			close(ch)
			delete(h.subs, id)
		}
	}
	return n
}

// Since returns the remembered notifications with a sequence number above seq, oldest first.
func (h *Hub) Since(seq int64) []Notification {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.since(seq)
}

func (h *Hub) since(seq int64) []Notification {
	out := make([]Notification, 0)
	for _, n := range h.history {
		if n.Seq > seq {
			out = append(out, n)
		}
	}
	return out
}

// Subscribe returns the backlog after fromSeq and a channel of later
// notifications. cancel must be called to release the subscription.
func (h *Hub) Subscribe(fromSeq int64) (backlog []Notification, ch <-chan Notification, cancel func()) {
	h.mu.Lock()
	defer h.mu.Unlock()

	backlog = h.since(fromSeq)
	id := h.nextSub
	h.nextSub++
	c := make(chan Notification, 64)
	h.subs[id] = c

	cancel = func() {
		h.mu.Lock()
		defer h.mu.Unlock()
		if sub, ok := h.subs[id]; ok {
			close(sub)
			delete(h.subs, id)
		}
	}
	return backlog, c, cancel
}
