// Package hooks implements the runtime's typed observability event bus.
// Producers publish typed events (in this module, only the GraphAgent
// holds a Bus; Toolkit and ReAct publish nothing); subscribers (logging, streaming, memory persistence) fan
// out synchronously in registration order, stopping at the first
// subscriber error so a critical subscriber (e.g. memory persistence) can
// halt a publish.
package hooks

import (
	"context"
	"errors"
	"sync"
)

type (
	// Bus publishes runtime events to registered subscribers.
	Bus interface {
		// Publish delivers the event to every currently registered
		// subscriber, in registration order, stopping at the first error.
		Publish(ctx context.Context, event Event) error
		// Register adds a subscriber and returns a Subscription that can be
		// closed to unregister it.
		Register(sub Subscriber) (Subscription, error)
	}

	// Subscriber reacts to published events.
	Subscriber interface {
		HandleEvent(ctx context.Context, event Event) error
	}

	// SubscriberFunc adapts a function to the Subscriber interface.
	SubscriberFunc func(ctx context.Context, event Event) error

	// Subscription represents an active registration on a Bus.
	Subscription interface {
		// Close removes the subscriber from the bus. Idempotent.
		Close() error
	}

	bus struct {
		mu          sync.RWMutex
		subscribers []*entry
	}

	// entry pairs a subscription key with its subscriber; subscribers is
	// kept as an ordered slice (append on Register, splice-out on Close) so
	// Publish always walks subscribers in registration order.
	entry struct {
		sub *subscription
		fn  Subscriber
	}

	subscription struct {
		bus  *bus
		once sync.Once
	}
)

// HandleEvent implements Subscriber.
func (fn SubscriberFunc) HandleEvent(ctx context.Context, event Event) error { return fn(ctx, event) }

// NewBus constructs an in-memory, thread-safe event bus.
func NewBus() Bus {
	return &bus{}
}

// Publish delivers the event to every currently registered subscriber, in
// registration order. A snapshot of subscribers is taken before iteration
// so concurrent Register/Close calls do not affect the in-flight delivery.
func (b *bus) Publish(ctx context.Context, event Event) error {
	b.mu.RLock()
	subs := make([]Subscriber, len(b.subscribers))
	for i, e := range b.subscribers {
		subs[i] = e.fn
	}
	b.mu.RUnlock()
	for _, s := range subs {
		if err := s.HandleEvent(ctx, event); err != nil {
			return err
		}
	}
	return nil
}

// Register adds a subscriber to the bus, appending it to the end of the
// delivery order.
func (b *bus) Register(sub Subscriber) (Subscription, error) {
	if sub == nil {
		return nil, errors.New("hooks: subscriber is required")
	}
	s := &subscription{bus: b}
	b.mu.Lock()
	b.subscribers = append(b.subscribers, &entry{sub: s, fn: sub})
	b.mu.Unlock()
	return s, nil
}

// Close removes the subscription from its bus. Safe to call multiple times.
func (s *subscription) Close() error {
	s.once.Do(func() {
		s.bus.mu.Lock()
		for i, e := range s.bus.subscribers {
			if e.sub == s {
				s.bus.subscribers = append(s.bus.subscribers[:i:i], s.bus.subscribers[i+1:]...)
				break
			}
		}
		s.bus.mu.Unlock()
	})
	return nil
}
