// Package event provides the in-process notification hub behind the
// message-center feed. Services publish lifecycle events; subscribers
// receive them on buffered channels.
package event

import (
	"encoding/json"
	"sync"
)

// Topics published by the core services.
const (
	TopicOrders   = "orders"
	TopicPayments = "payments"
	TopicReturns  = "returns"
	TopicMembers  = "members"
	TopicInvoices = "invoices"
)

// Event is a single broadcast message.
type Event struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

type subscriber struct {
	ch chan Event
}

// Hub maintains the set of active subscribers per topic and fans events out
// to them. A subscriber whose buffer is full is dropped rather than blocking
// the publishing transition.
type Hub struct {
	mu    sync.RWMutex
	rooms map[string]map[*subscriber]bool
}

// NewHub creates a new Hub instance.
func NewHub() *Hub {
	return &Hub{rooms: make(map[string]map[*subscriber]bool)}
}

// Subscribe registers a listener on a topic. The returned cancel function
// unregisters it and closes the channel.
func (h *Hub) Subscribe(topic string, buffer int) (<-chan Event, func()) {
	if buffer <= 0 {
		buffer = 16
	}
	sub := &subscriber{ch: make(chan Event, buffer)}

	h.mu.Lock()
	if h.rooms[topic] == nil {
		h.rooms[topic] = make(map[*subscriber]bool)
	}
	h.rooms[topic][sub] = true
	h.mu.Unlock()

	cancel := func() {
		h.mu.Lock()
		defer h.mu.Unlock()
		if subs, ok := h.rooms[topic]; ok {
			if _, exists := subs[sub]; exists {
				delete(subs, sub)
				close(sub.ch)
				if len(subs) == 0 {
					delete(h.rooms, topic)
				}
			}
		}
	}
	return sub.ch, cancel
}

// Publish marshals the payload once and sends the event to every subscriber
// of the topic. Marshal failures drop the event.
func (h *Hub) Publish(topic, eventType string, payload any) {
	raw, err := json.Marshal(payload)
	if err != nil {
		return
	}
	e := Event{Type: eventType, Payload: raw}

	h.mu.Lock()
	defer h.mu.Unlock()
	for sub := range h.rooms[topic] {
		select {
		case sub.ch <- e:
		default:
			// Subscriber's buffer is full, close and unregister.
			close(sub.ch)
			delete(h.rooms[topic], sub)
			if len(h.rooms[topic]) == 0 {
				delete(h.rooms, topic)
			}
		}
	}
}
