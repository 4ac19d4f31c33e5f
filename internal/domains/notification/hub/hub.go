package hub

import (
	"context"
	"restopos/internal/domains/notification/model"
	"sync"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

const subscriberBuffer = 32

// Subscriber is one connected event-stream client.
type Subscriber struct {
	ID     string
	Role   string
	Groups []string
	Events <-chan model.Envelope

	events chan model.Envelope
}

// Hub fans envelopes out to in-process subscribers by audience group.
type Hub struct {
	mu          sync.RWMutex
	subscribers map[string]*Subscriber
}

func New() *Hub {
	return &Hub{
		subscribers: make(map[string]*Subscriber),
	}
}

func (h *Hub) Name() string {
	return "hub"
}

// Subscribe registers a client for the groups its role belongs to.
func (h *Hub) Subscribe(role string) *Subscriber {
	events := make(chan model.Envelope, subscriberBuffer)

	sub := &Subscriber{
		ID:     uuid.NewString(),
		Role:   role,
		Groups: model.GroupsFor(role),
		Events: events,
		events: events,
	}

	h.mu.Lock()
	h.subscribers[sub.ID] = sub
	total := len(h.subscribers)
	h.mu.Unlock()

	log.Info().Str("subscriber_id", sub.ID).Str("role", role).Int("total_subscribers", total).Msg("new event subscriber")

	return sub
}

// Unsubscribe removes the subscriber and closes its channel.
func (h *Hub) Unsubscribe(id string) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if sub, ok := h.subscribers[id]; ok {
		close(sub.events)
		delete(h.subscribers, id)

		log.Info().Str("subscriber_id", id).Int("total_subscribers", len(h.subscribers)).Msg("event subscriber disconnected")
	}
}

// Send delivers without blocking; a subscriber whose buffer is full misses the event.
func (h *Hub) Send(_ context.Context, envelope model.Envelope) error {
	h.mu.RLock()
	defer h.mu.RUnlock()

	for id, sub := range h.subscribers {
		if !envelope.VisibleTo(sub.Groups) {
			continue
		}

		select {
		case sub.events <- envelope:
		default:
			log.Warn().Str("subscriber_id", id).Str("event", envelope.Event).Msg("subscriber buffer full, dropping event")
		}
	}

	return nil
}

func (h *Hub) Count() int {
	h.mu.RLock()
	defer h.mu.RUnlock()

	return len(h.subscribers)
}

// Close disconnects every subscriber.
func (h *Hub) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()

	for id, sub := range h.subscribers {
		close(sub.events)
		delete(h.subscribers, id)
	}
}
