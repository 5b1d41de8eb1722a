package broadcast

import (
	"context"
	"sync"

	"github.com/google/uuid"
)

// DefaultBuffer is the per-subscriber queue length used when none is configured.
const DefaultBuffer = 64

// Subscription is one consumer of a board's events. Its channel is closed
// when the subscription leaves the hub for any reason.
type Subscription struct {
	BoardID uuid.UUID
	UserID  uuid.UUID

	ch chan Event
}

func (s *Subscription) Events() <-chan Event {
	return s.ch
}

// Hub keeps the local subscribers of every board. Subscribe, Unsubscribe and
// Publish serialize on one mutex, so a send never reaches a removed
// subscriber and a new subscriber never misses a later event.
type Hub struct {
	mu     sync.Mutex
	groups map[uuid.UUID]map[*Subscription]struct{}
	buffer int
}

func NewHub(buffer int) *Hub {
	if buffer <= 0 {
		buffer = DefaultBuffer
	}
	return &Hub{
		groups: make(map[uuid.UUID]map[*Subscription]struct{}),
		buffer: buffer,
	}
}

func (h *Hub) Subscribe(boardID, userID uuid.UUID) *Subscription {
	sub := &Subscription{
		BoardID: boardID,
		UserID:  userID,
		ch:      make(chan Event, h.buffer),
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	group, ok := h.groups[boardID]
	if !ok {
		group = make(map[*Subscription]struct{})
		h.groups[boardID] = group
	}
	group[sub] = struct{}{}
	return sub
}

// Unsubscribe is safe to call more than once.
func (h *Hub) Unsubscribe(sub *Subscription) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.removeLocked(sub)
}

func (h *Hub) removeLocked(sub *Subscription) {
	group, ok := h.groups[sub.BoardID]
	if !ok {
		return
	}
	if _, ok := group[sub]; !ok {
		return
	}
	delete(group, sub)
	close(sub.ch)
	if len(group) == 0 {
		delete(h.groups, sub.BoardID)
	}
}

// Publish delivers the event to the board's current subscribers without
// blocking. A subscriber whose queue is full is dropped.
func (h *Hub) Publish(_ context.Context, ev Event) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	for sub := range h.groups[ev.BoardID] {
		select {
		case sub.ch <- ev:
		default:
			h.removeLocked(sub)
		}
	}

	switch {
	case ev.Kind == KindBoardDeleted:
		for sub := range h.groups[ev.BoardID] {
			h.removeLocked(sub)
		}
	case ev.Revokes != nil:
		for sub := range h.groups[ev.BoardID] {
			if sub.UserID == *ev.Revokes {
				h.removeLocked(sub)
			}
		}
	}
	return nil
}

// Count returns the number of live subscriptions of the board.
func (h *Hub) Count(boardID uuid.UUID) int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.groups[boardID])
}
