// Package feed fans change notifications out to the subscribers of a user.
package feed

import (
	"sync"

	"fitreport/internal/domain"
)

var _ domain.ChangeFeed = (*Hub)(nil)

// Hub is an in-process change feed. A notification carries no payload:
// subscribers re-read whatever they need.
type Hub struct {
	mu     sync.Mutex
	nextID int
	subs   map[string]map[int]chan struct{}
}

func NewHub() *Hub {
	return &Hub{subs: make(map[string]map[int]chan struct{})}
}

// Subscribe returns a channel signalled after every change for userID and a
// function that cancels the subscription. Signals coalesce: a slow reader
// sees at least one signal after the last change, never a backlog.
func (h *Hub) Subscribe(userID string) (<-chan struct{}, func()) {
	h.mu.Lock()
	defer h.mu.Unlock()

	id := h.nextID
	h.nextID++
	ch := make(chan struct{}, 1)
	if h.subs[userID] == nil {
		h.subs[userID] = make(map[int]chan struct{})
	}
	h.subs[userID][id] = ch

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			h.mu.Lock()
			defer h.mu.Unlock()
			delete(h.subs[userID], id)
			if len(h.subs[userID]) == 0 {
				delete(h.subs, userID)
			}
		})
	}
}

// Publish signals every subscriber of userID.
func (h *Hub) Publish(userID string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for _, ch := range h.subs[userID] {
		select {
		case ch <- struct{}{}:
		default:
		}
	}
}

// Broadcast signals every subscriber of every user.
func (h *Hub) Broadcast() {
	h.mu.Lock()
	defer h.mu.Unlock()
	for _, subs := range h.subs {
		for _, ch := range subs {
			select {
			case ch <- struct{}{}:
			default:
			}
		}
	}
}

// Subscribers returns the number of live subscriptions for userID.
func (h *Hub) Subscribers(userID string) int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.subs[userID])
}
