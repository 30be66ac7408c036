package events

import (
	"sync"

	"github.com/DhavalSuthar-24/crickpro/internal/telemetry"
)

// Handler processes an event. Returning an error logs it but does not stop dispatch.
type Handler func(Event) error

// Bus is a synchronous in-process event bus.
// Subscribers are invoked in registration order on the publisher's goroutine,
// so handlers must not block; hand work to a goroutine or channel instead.
type Bus struct {
	mu       sync.RWMutex
	handlers map[EventType][]Handler
}

func NewBus() *Bus {
	return &Bus{
		handlers: make(map[EventType][]Handler),
	}
}

// Subscribe registers a handler for the given event types.
func (b *Bus) Subscribe(h Handler, types ...EventType) {
	b.mu.Lock()
	defer b.mu.Unlock()
	for _, t := range types {
		b.handlers[t] = append(b.handlers[t], h)
	}
}

// Publish dispatches an event to all registered handlers for its type.
func (b *Bus) Publish(e Event) {
	b.mu.RLock()
	handlers := b.handlers[e.Type]
	b.mu.RUnlock()

	telemetry.Metrics.EventsPublished.Inc()
	for _, h := range handlers {
		if err := h(e); err != nil {
			telemetry.Warnf("events: %s handler failed for user %d: %v", e.Type, e.UserID, err)
		}
	}
}
