// Package events is an explicit publish/subscribe channel for signals that
// cross component boundaries, such as a completed check-in or a toast.
package events

import (
	"fmt"
	"runtime/debug"
	"sync"
	"sync/atomic"

	"github.com/julianstephens/dayglow/internal/logger"
)

// Handler is a function that handles an event.
type Handler func(Event)

type subscription struct {
	id      uint64
	handler Handler
}

// Subscription identifies a registered handler.
type Subscription struct {
	eventType string
	id        uint64
}

// Bus is a synchronous pub-sub event bus. The zero value is not usable; call NewBus.
type Bus struct {
	mu            sync.RWMutex
	subscriptions map[string][]subscription // eventType -> subscriptions
	nextID        atomic.Uint64
}

// NewBus creates a new event bus.
func NewBus() *Bus {
	return &Bus{
		subscriptions: make(map[string][]subscription),
	}
}

// Subscribe registers a handler for a specific event type.
func (b *Bus) Subscribe(eventType string, handler Handler) Subscription {
	b.mu.Lock()
	defer b.mu.Unlock()

	id := b.nextID.Add(1)
	b.subscriptions[eventType] = append(b.subscriptions[eventType], subscription{id: id, handler: handler})
	return Subscription{eventType: eventType, id: id}
}

// SubscribeAll registers a handler called for every published event.
func (b *Bus) SubscribeAll(handler Handler) Subscription {
	return b.Subscribe(wildcard, handler)
}

// Unsubscribe removes a subscription. It reports whether the subscription was found.
func (b *Bus) Unsubscribe(s Subscription) bool {
	b.mu.Lock()
	defer b.mu.Unlock()

	subs := b.subscriptions[s.eventType]
	for i, sub := range subs {
		if sub.id == s.id {
			b.subscriptions[s.eventType] = append(subs[:i:i], subs[i+1:]...)
			return true
		}
	}
	return false
}

// Publish dispatches an event to handlers of its type, then to wildcard
// handlers, each group in registration order. A panicking handler is
// logged and skipped.
func (b *Bus) Publish(event Event) {
	b.mu.RLock()
	specific := append([]subscription(nil), b.subscriptions[event.EventType()]...)
	all := append([]subscription(nil), b.subscriptions[wildcard]...)
	b.mu.RUnlock()

	for _, sub := range specific {
		b.safeCall(sub.handler, event)
	}
	for _, sub := range all {
		b.safeCall(sub.handler, event)
	}
}

func (b *Bus) safeCall(handler Handler, event Event) {
	defer func() {
		if r := recover(); r != nil {
			logger.Error("Event handler panicked",
				"event", event.EventType(), "panic", fmt.Sprint(r), "stack", string(debug.Stack()))
		}
	}()
	handler(event)
}

// SubscriptionCount returns the total number of active subscriptions.
func (b *Bus) SubscriptionCount() int {
	b.mu.RLock()
	defer b.mu.RUnlock()

	count := 0
	for _, subs := range b.subscriptions {
		count += len(subs)
	}
	return count
}

// Trace logs every event at debug level. It stands in for product analytics.
func Trace(b *Bus) Subscription {
	return b.SubscribeAll(func(e Event) {
		logger.Debug("event", "type", e.EventType())
	})
}
