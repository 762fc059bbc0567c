package store

import "sync"

// Holder keeps one value and notifies subscribers each time it is replaced.
type Holder[T any] struct {
	mu     sync.RWMutex
	val    T
	nextID uint64
	subs   []subscriber[T]
}

type subscriber[T any] struct {
	id uint64
	fn func(T)
}

// NewHolder returns a holder with an initial value.
func NewHolder[T any](initial T) *Holder[T] {
	return &Holder[T]{val: initial}
}

// Get returns the current value. Callers must not mutate it.
func (h *Holder[T]) Get() T {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.val
}

// Set replaces the value and calls every subscriber, in subscription order,
// with the new value.
func (h *Holder[T]) Set(v T) {
	h.mu.Lock()
	h.val = v
	subs := make([]subscriber[T], len(h.subs))
	copy(subs, h.subs)
	h.mu.Unlock()

	for _, s := range subs {
		s.fn(v)
	}
}

// Subscribe registers fn and calls it immediately with the current value.
// The returned function removes the subscription.
func (h *Holder[T]) Subscribe(fn func(T)) (unsubscribe func()) {
	h.mu.Lock()
	h.nextID++
	id := h.nextID
	h.subs = append(h.subs, subscriber[T]{id: id, fn: fn})
	cur := h.val
	h.mu.Unlock()

	fn(cur)

	var once sync.Once
	return func() {
		once.Do(func() {
			h.mu.Lock()
			defer h.mu.Unlock()
			for i, s := range h.subs {
				if s.id == id {
					h.subs = append(h.subs[:i:i], h.subs[i+1:]...)
					return
				}
			}
		})
	}
}

// Subscribers reports how many subscriptions are active.
func (h *Holder[T]) Subscribers() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.subs)
}
