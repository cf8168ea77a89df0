// Package pubsub implements the in-process broadcast channel used to fan
// out catalog events to active subscription connections.
package pubsub

import (
	"context"
	"sync"
)

// Broadcaster is a single-topic broadcast bus. Every subscriber receives
// every event published after it subscribed; there is no replay. Publish
// enqueues synchronously and never blocks on slow subscribers: each
// subscriber owns an unbounded queue drained into its channel by a
// dedicated goroutine.
//
// A Broadcaster is constructed explicitly and injected where needed; it is
// not a package-level singleton.
type Broadcaster struct {
	mu   sync.Mutex
	subs map[*subscriber]struct{}
}

type subscriber struct {
	mu      sync.Mutex
	wake    chan struct{}
	queue   []any
	out     chan any
	done    <-chan struct{}
	stopped bool
}

func NewBroadcaster() *Broadcaster {
	return &Broadcaster{subs: make(map[*subscriber]struct{})}
}

// Publish delivers event to every current subscriber, in publish order per
// subscriber. Publishing with zero subscribers is a no-op.
func (b *Broadcaster) Publish(event any) {
	b.mu.Lock()
	defer b.mu.Unlock()

	for sub := range b.subs {
		sub.enqueue(event)
	}
}

// Subscribe registers a new subscriber scoped to ctx. The returned channel
// never closes on its own; it is closed when ctx is cancelled, after which
// no further events are delivered.
func (b *Broadcaster) Subscribe(ctx context.Context) <-chan any {
	sub := &subscriber{
		wake: make(chan struct{}, 1),
		out:  make(chan any),
		done: ctx.Done(),
	}

	b.mu.Lock()
	b.subs[sub] = struct{}{}
	b.mu.Unlock()

	go func() {
		defer func() {
			b.mu.Lock()
			delete(b.subs, sub)
			b.mu.Unlock()

			sub.mu.Lock()
			sub.stopped = true
			sub.queue = nil
			sub.mu.Unlock()

			close(sub.out)
		}()
		sub.drain()
	}()

	return sub.out
}

// Subscribers reports the current number of active subscribers.
func (b *Broadcaster) Subscribers() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.subs)
}

func (s *subscriber) enqueue(event any) {
	s.mu.Lock()
	if s.stopped {
		s.mu.Unlock()
		return
	}
	s.queue = append(s.queue, event)
	s.mu.Unlock()

	select {
	case s.wake <- struct{}{}:
	default:
	}
}

func (s *subscriber) next() (any, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.queue) == 0 {
		return nil, false
	}
	event := s.queue[0]
	s.queue = s.queue[1:]
	return event, true
}

func (s *subscriber) drain() {
	for {
		event, ok := s.next()
		if !ok {
			select {
			case <-s.wake:
				continue
			case <-s.done:
				return
			}
		}

		select {
		case s.out <- event:
		case <-s.done:
			return
		}
	}
}
