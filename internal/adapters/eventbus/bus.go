// Package eventbus implements the in-process broadcast of build lifecycle events.
package eventbus

import (
	"context"
	"iter"
	"sync"

	"go.trai.ch/loom/internal/core/domain"
	"go.trai.ch/loom/internal/core/ports"
)

var _ ports.EventPublisher = (*Bus)(nil)

// Bus fans build events out to any number of subscribers.
// Publish never blocks: each subscription owns an unbounded queue.
type Bus struct {
	mu     sync.Mutex
	subs   map[*Subscription]struct{}
	closed bool
}

// New creates an empty bus.
func New() *Bus {
	return &Bus{subs: make(map[*Subscription]struct{})}
}

// Publish appends the event to every current subscription.
// Events published with no subscribers, or after Close, are dropped.
func (b *Bus) Publish(event domain.BuildEvent) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.closed {
		return
	}
	for s := range b.subs {
		s.push(event)
	}
}

// Subscribe registers a new subscription. It observes only events published
// after this call returns.
func (b *Bus) Subscribe() *Subscription {
	s := &Subscription{
		bus:    b,
		notify: make(chan struct{}, 1),
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	if b.closed {
		s.closed = true
		return s
	}
	b.subs[s] = struct{}{}
	return s
}

// Subscribers returns the number of live subscriptions.
func (b *Bus) Subscribers() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.subs)
}

// Close ends every subscription. Queued events remain readable.
func (b *Bus) Close() {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.closed {
		return
	}
	b.closed = true
	for s := range b.subs {
		s.close()
	}
	clear(b.subs)
}

func (b *Bus) remove(s *Subscription) {
	b.mu.Lock()
	defer b.mu.Unlock()
	delete(b.subs, s)
}

// Subscription is one consumer's receive handle.
type Subscription struct {
	bus *Bus

	mu     sync.Mutex
	queue  []domain.BuildEvent
	closed bool
	notify chan struct{}
}

func (s *Subscription) push(event domain.BuildEvent) {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	s.queue = append(s.queue, event)
	s.mu.Unlock()
	s.wake()
}

func (s *Subscription) close() {
	s.mu.Lock()
	s.closed = true
	s.mu.Unlock()
	s.wake()
}

func (s *Subscription) wake() {
	select {
	case s.notify <- struct{}{}:
	default:
	}
}

// Recv returns the next event in publish order. It blocks until an event is
// queued, the context ends, or the subscription is closed and drained, in
// which case it returns domain.ErrBusClosed.
func (s *Subscription) Recv(ctx context.Context) (domain.BuildEvent, error) {
	for {
		s.mu.Lock()
		if len(s.queue) > 0 {
			event := s.queue[0]
			s.queue[0] = domain.BuildEvent{}
			s.queue = s.queue[1:]
			s.mu.Unlock()
			return event, nil
		}
		closed := s.closed
		s.mu.Unlock()

		if closed {
			return domain.BuildEvent{}, domain.ErrBusClosed
		}

		select {
		case <-s.notify:
		case <-ctx.Done():
			return domain.BuildEvent{}, ctx.Err()
		}
	}
}

// Events yields events until ctx ends or the subscription closes.
func (s *Subscription) Events(ctx context.Context) iter.Seq[domain.BuildEvent] {
	return func(yield func(domain.BuildEvent) bool) {
		for {
			event, err := s.Recv(ctx)
			if err != nil {
				return
			}
			if !yield(event) {
				return
			}
		}
	}
}

// Close unregisters the subscription and discards anything still queued.
func (s *Subscription) Close() {
	s.bus.remove(s)

	s.mu.Lock()
	s.closed = true
	s.queue = nil
	s.mu.Unlock()
	s.wake()
}
