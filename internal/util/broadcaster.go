package util

import (
	"context"
	"sync"
)

// Broadcaster fans values out to any number of subscribers. Every subscriber
// channel holds at most one pending value: a slow reader skips intermediate
// values and always observes the most recent one. Values reach each subscriber
// in publish order.
type Broadcaster[T any] struct {
	mu     sync.Mutex
	nextID uint64
	subs   map[uint64]*subscriber[T]
}

type subscriber[T any] struct {
	ch   chan T
	done chan struct{}
}

// NewBroadcaster creates an empty broadcaster.
func NewBroadcaster[T any]() *Broadcaster[T] {
	return &Broadcaster[T]{subs: make(map[uint64]*subscriber[T])}
}

// Subscribe registers a subscriber that receives values published from now on.
// The channel is closed when ctx is done or CloseAll is called.
func (b *Broadcaster[T]) Subscribe(ctx context.Context) <-chan T {
	sub := &subscriber[T]{
		ch:   make(chan T, 1),
		done: make(chan struct{}),
	}

	b.mu.Lock()
	id := b.nextID
	b.nextID++
	b.subs[id] = sub
	b.mu.Unlock()

	go func() {
		select {
		case <-ctx.Done():
			b.remove(id)
		case <-sub.done:
		}
	}()

	return sub.ch
}

// Publish delivers v to every subscriber without blocking.
func (b *Broadcaster[T]) Publish(v T) {
	b.mu.Lock()
	defer b.mu.Unlock()

	for _, sub := range b.subs {
		deliverLatest(sub.ch, v)
	}
}

// CloseAll closes every current subscriber channel. The broadcaster stays usable.
func (b *Broadcaster[T]) CloseAll() {
	b.mu.Lock()
	defer b.mu.Unlock()

	for id, sub := range b.subs {
		delete(b.subs, id)
		close(sub.done)
		close(sub.ch)
	}
}

// Len returns the number of active subscribers.
func (b *Broadcaster[T]) Len() int {
	b.mu.Lock()
	defer b.mu.Unlock()

	return len(b.subs)
}

func (b *Broadcaster[T]) remove(id uint64) {
	b.mu.Lock()
	defer b.mu.Unlock()

	sub, ok := b.subs[id]
	if !ok {
		return
	}
	delete(b.subs, id)
	close(sub.done)
	close(sub.ch)
}

// deliverLatest replaces a pending value so the channel always holds the newest one.
// Callers hold b.mu, which makes the drain-then-send sequence atomic per channel.
func deliverLatest[T any](ch chan T, v T) {
	select {
	case ch <- v:
		return
	default:
	}

	select {
	case <-ch:
	default:
	}

	select {
	case ch <- v:
	default:
	}
}
