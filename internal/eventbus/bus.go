// Package eventbus is an in-process publish/subscribe bus. Telemetry events
// are published on it so that observers such as the metrics collector can
// follow submissions without sitting on the submission path.
package eventbus

import (
	"sync"
	"sync/atomic"
)

// DefaultBuffer is the subscriber channel capacity used by New.
const DefaultBuffer = 64

// Bus is a type-safe publish/subscribe bus for events of type T.
type Bus[T any] struct {
	mu      sync.RWMutex
	subs    []chan T
	closed  bool
	buffer  int
	dropped atomic.Uint64
}

// New creates a Bus with DefaultBuffer sized subscriptions.
func New[T any]() *Bus[T] { return NewWithBuffer[T](DefaultBuffer) }

// NewWithBuffer creates a Bus whose subscriber channels hold buffer events.
func NewWithBuffer[T any](buffer int) *Bus[T] {
	if buffer < 0 {
		buffer = 0
	}
	return &Bus[T]{buffer: buffer}
}

// Publish sends the event to all subscribers. Delivery is non-blocking; an
// event is dropped for a subscriber whose channel is full.
func (b *Bus[T]) Publish(e T) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	if b.closed {
		return
	}
	for _, ch := range b.subs {
		select {
		case ch <- e:
		default:
			b.dropped.Add(1)
		}
	}
}

// Dropped reports how many deliveries were skipped because a subscriber was full.
func (b *Bus[T]) Dropped() uint64 { return b.dropped.Load() }

// Subscribe registers a subscriber and returns its channel.
func (b *Bus[T]) Subscribe() <-chan T {
	ch := make(chan T, b.buffer)
	b.mu.Lock()
	if b.closed {
		close(ch)
	} else {
		b.subs = append(b.subs, ch)
	}
	b.mu.Unlock()
	return ch
}

// Unsubscribe removes the subscriber and closes its channel.
func (b *Bus[T]) Unsubscribe(sub <-chan T) {
	b.mu.Lock()
	defer b.mu.Unlock()
	for i, ch := range b.subs {
		if ch == sub {
			b.subs = append(b.subs[:i], b.subs[i+1:]...)
			if !b.closed {
				close(ch)
			}
			return
		}
	}
}

// Close closes the bus and all subscriber channels.
func (b *Bus[T]) Close() {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return
	}
	b.closed = true
	for _, ch := range b.subs {
		close(ch)
	}
	b.subs = nil
}
