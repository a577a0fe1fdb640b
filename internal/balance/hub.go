package balance

import (
	"sync"

	"github.com/mrusama7862/Tournament-app-Pakistan/internal/metrics"
)

// Update is one committed balance change as published by the database.
type Update struct {
	UserID       int   `json:"user_id"`
	BalanceCoins int64 `json:"balance"`
}

const subscriberBuffer = 16

// Hub fans balance updates out to per-user subscribers. Updates for a user
// are delivered in publish order; a subscriber that stops draining its channel
// loses updates instead of blocking the publisher.
type Hub struct {
	mu     sync.Mutex
	nextID int
	subs   map[int]map[int]chan Update
}

func NewHub() *Hub {
	return &Hub{subs: make(map[int]map[int]chan Update)}
}

// Subscribe registers interest in one user's balance. The returned cancel
// function must be called when the consumer goes away.
func (h *Hub) Subscribe(userID int) (<-chan Update, func()) {
	h.mu.Lock()
	defer h.mu.Unlock()

	id := h.nextID
	h.nextID++

	ch := make(chan Update, subscriberBuffer)
	if h.subs[userID] == nil {
		h.subs[userID] = make(map[int]chan Update)
	}
	h.subs[userID][id] = ch
	metrics.BalanceSubscribers.Inc()

	cancel := func() {
		h.mu.Lock()
		defer h.mu.Unlock()

		if chans, ok := h.subs[userID]; ok {
			if _, ok := chans[id]; ok {
				delete(chans, id)
				close(ch)
				metrics.BalanceSubscribers.Dec()
			}
			if len(chans) == 0 {
				delete(h.subs, userID)
			}
		}
	}

	return ch, cancel
}

// Publish delivers an update to every subscriber of the affected user.
// Never blocks: full subscriber channels are skipped.
func (h *Hub) Publish(update Update) {
	h.mu.Lock()
	defer h.mu.Unlock()

	for _, ch := range h.subs[update.UserID] {
		select {
		case ch <- update:
		default:
		}
	}
}

func (h *Hub) SubscriberCount(userID int) int {
	h.mu.Lock()
	defer h.mu.Unlock()

	return len(h.subs[userID])
}
