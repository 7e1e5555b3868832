// Package stream serves live frame traffic over WebSocket plus the
// operational HTTP surface: message catalog, session status, health, and
// Prometheus metrics.
package stream

import (
	"log/slog"
	"sync"

	"github.com/google/uuid"
)

// subscriberBuffer is the per-subscriber frame queue depth. A subscriber
// that falls further behind misses frames instead of stalling the sender.
const subscriberBuffer = 32

// Hub fans transmitted frames out to WebSocket subscribers. Publish never
// blocks on a slow consumer.
type Hub struct {
	mu     sync.RWMutex
	subs   map[uuid.UUID]chan []byte
	logger *slog.Logger
}

// NewHub returns an empty Hub.
func NewHub() *Hub {
	return &Hub{
		subs:   make(map[uuid.UUID]chan []byte),
		logger: slog.Default().With("component", "stream"),
	}
}

// Publish delivers frame to every subscriber whose buffer has room.
func (h *Hub) Publish(frame []byte) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	for _, ch := range h.subs {
		select {
		case ch <- frame:
		default:
			// Buffer full; this subscriber misses the frame.
		}
	}
}

// Subscribe registers a new subscriber and returns its id and frame
// channel.
func (h *Hub) Subscribe() (uuid.UUID, <-chan []byte) {
	id := uuid.New()
	ch := make(chan []byte, subscriberBuffer)

	h.mu.Lock()
	h.subs[id] = ch
	h.mu.Unlock()

	h.logger.Info("subscriber added", "id", id, "total", h.SubscriberCount())
	return id, ch
}

// Unsubscribe removes a subscriber and closes its channel.
func (h *Hub) Unsubscribe(id uuid.UUID) {
	h.mu.Lock()
	ch, ok := h.subs[id]
	if ok {
		delete(h.subs, id)
		close(ch)
	}
	h.mu.Unlock()

	if ok {
		h.logger.Info("subscriber removed", "id", id, "total", h.SubscriberCount())
	}
}

// SubscriberCount returns the number of attached subscribers.
func (h *Hub) SubscriberCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.subs)
}
