package realtime

import (
	"context"
	"encoding/json"
	"sync"
	"sync/atomic"

	"github.com/samber/lo"

	"rankboard/core"
)

type subscriber struct {
	ch    chan core.Event
	types map[core.EventType]struct{}
}

func (s subscriber) wants(t core.EventType) bool {
	if len(s.types) == 0 {
		return true
	}
	_, ok := s.types[t]
	return ok
}

// Hub fans out leaderboard events to subscriber channels. Slow subscribers
// miss events rather than block the publisher.
type Hub struct {
	mu      sync.RWMutex
	subs    map[int]subscriber
	next    int
	closed  bool
	dropped atomic.Int64
}

func NewHub() *Hub { return &Hub{subs: map[int]subscriber{}} }

// Subscribers reports the number of live subscriptions.
func (h *Hub) Subscribers() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.subs)
}

// Dropped reports how many deliveries were skipped on full buffers.
func (h *Hub) Dropped() int64 { return h.dropped.Load() }

// Subscribe registers a buffered channel. With no types the subscriber
// receives every event. On a closed hub the returned channel is already
// closed.
func (h *Hub) Subscribe(buffer int, types ...core.EventType) (int, <-chan core.Event) {
	h.mu.Lock()
	defer h.mu.Unlock()
	ch := make(chan core.Event, buffer)
	if h.closed {
		close(ch)
		return 0, ch
	}
	h.next++
	id := h.next
	sub := subscriber{ch: ch}
	if len(types) > 0 {
		sub.types = make(map[core.EventType]struct{}, len(types))
		for _, t := range types {
			sub.types[t] = struct{}{}
		}
	}
	h.subs[id] = sub
	return id, ch
}

func (h *Hub) Unsubscribe(id int) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if sub, ok := h.subs[id]; ok {
		delete(h.subs, id)
		close(sub.ch)
	}
}

// Close ends every subscription. Later broadcasts are ignored.
func (h *Hub) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		return
	}
	h.closed = true
	for id, sub := range h.subs {
		delete(h.subs, id)
		close(sub.ch)
	}
}

// Broadcast delivers ev to every interested subscriber without blocking.
func (h *Hub) Broadcast(_ context.Context, ev core.Event) {
	// Sends happen under the read lock so Unsubscribe cannot close a
	// channel mid-send; they never block, so the hold is short.
	h.mu.RLock()
	defer h.mu.RUnlock()
	for _, sub := range h.subs {
		if !sub.wants(ev.Type) {
			continue
		}
		select {
		case sub.ch <- ev:
		default:
			h.dropped.Add(1)
		}
	}
}

// MarshalJSON encodes an event for a text frame.
func MarshalJSON(ev core.Event) []byte {
	b, _ := json.Marshal(ev)
	return b
}

// ParseTypes maps event type names to known types, skipping unknown ones.
func ParseTypes(names []string) []core.EventType {
	return lo.Filter(core.EventTypes, func(t core.EventType, _ int) bool {
		return lo.Contains(names, string(t))
	})
}
