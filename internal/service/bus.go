package service

import (
	"sync"

	"github.com/joeblew999/qgis2wegue/internal/wegue"
)

// Event reports what happened to one layer during an export.
type Event struct {
	Layer  string          // layer name
	Kind   wegue.LayerKind // classified kind
	Action string          // "added", "skipped", "failed"
	Detail string          // lid when added, error when failed
}

// EventBus is a simple fan-out pub/sub for export progress events.
type EventBus struct {
	mu   sync.RWMutex
	subs map[chan Event]struct{}
}

// NewEventBus creates a new event bus.
func NewEventBus() *EventBus {
	return &EventBus{subs: make(map[chan Event]struct{})}
}

// Publish sends an event to all subscribers (non-blocking).
func (b *EventBus) Publish(e Event) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	for ch := range b.subs {
		select {
		case ch <- e:
		default:
			// subscriber too slow, skip
		}
	}
}

// Subscribe returns a buffered channel that receives events.
func (b *EventBus) Subscribe() chan Event {
	return b.SubscribeSize(64)
}

// SubscribeSize returns a channel buffering up to size events. A subscriber
// that knows how many events are coming sizes the buffer to match so none
// are dropped.
func (b *EventBus) SubscribeSize(size int) chan Event {
	ch := make(chan Event, size)
	b.mu.Lock()
	b.subs[ch] = struct{}{}
	b.mu.Unlock()
	return ch
}

// Unsubscribe removes a subscriber and closes its channel.
func (b *EventBus) Unsubscribe(ch chan Event) {
	b.mu.Lock()
	delete(b.subs, ch)
	b.mu.Unlock()
	close(ch)
}
