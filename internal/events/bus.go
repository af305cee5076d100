package events

import (
	"sync"

	"github.com/rs/zerolog"
)

// Handler processes a published event. Handlers must not block; stream
// consumers forward into bounded channels and drop on overflow.
type Handler func(event *Event)

// Bus is the in-process publish/subscribe hub for system events.
type Bus struct {
	mu       sync.RWMutex
	handlers map[EventType]map[int]Handler
	nextID   int
	log      zerolog.Logger
}

// NewBus creates a new event bus
func NewBus(log zerolog.Logger) *Bus {
	return &Bus{
		handlers: make(map[EventType]map[int]Handler),
		log:      log.With().Str("service", "event_bus").Logger(),
	}
}

// Subscribe registers a handler for an event type and returns a
// subscription id for Unsubscribe.
func (b *Bus) Subscribe(eventType EventType, handler Handler) int {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.handlers[eventType] == nil {
		b.handlers[eventType] = make(map[int]Handler)
	}
	b.nextID++
	id := b.nextID
	b.handlers[eventType][id] = handler
	return id
}

// Unsubscribe removes a handler registration. Safe to call with an unknown id.
func (b *Bus) Unsubscribe(eventType EventType, id int) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if m := b.handlers[eventType]; m != nil {
		delete(m, id)
	}
}

// Publish delivers an event to all subscribers of its type. Delivery runs
// on the caller's goroutine over a snapshot of the handler set, so
// subscribing or unsubscribing from within a handler is safe.
func (b *Bus) Publish(event *Event) {
	b.mu.RLock()
	snapshot := make([]Handler, 0, len(b.handlers[event.Type]))
	for _, h := range b.handlers[event.Type] {
		snapshot = append(snapshot, h)
	}
	b.mu.RUnlock()

	for _, h := range snapshot {
		h(event)
	}
}

// SubscriberCount returns how many handlers are registered for a type.
func (b *Bus) SubscriberCount(eventType EventType) int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.handlers[eventType])
}
