// Package state provides an observable value holder shared between the
// providers and the code that renders their state.
package state

import "sync"

// Listener receives the previous and the new value after every Set.
type Listener[T any] func(old, new T)

// Store holds one value of type T and notifies listeners when it is replaced.
// Listeners run on the goroutine that called Set, after the lock is released,
// in the order they subscribed.
type Store[T any] struct {
	mu        sync.RWMutex
	value     T
	nextID    int
	listeners []subscription[T]
}

type subscription[T any] struct {
	id int
	fn Listener[T]
}

// New returns a store holding initial.
func New[T any](initial T) *Store[T] {
	return &Store[T]{value: initial}
}

// Get returns the current value.
func (s *Store[T]) Get() T {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.value
}

// Set replaces the value and notifies listeners.
func (s *Store[T]) Set(v T) {
	s.mu.Lock()
	old := s.value
	s.value = v
	listeners := make([]subscription[T], len(s.listeners))
	copy(listeners, s.listeners)
	s.mu.Unlock()

	for _, l := range listeners {
		l.fn(old, v)
	}
}

// Subscribe registers fn and returns a function that removes it. Calling the
// returned function more than once is harmless.
func (s *Store[T]) Subscribe(fn Listener[T]) (unsubscribe func()) {
	s.mu.Lock()
	id := s.nextID
	s.nextID++
	s.listeners = append(s.listeners, subscription[T]{id: id, fn: fn})
	s.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			s.mu.Lock()
			defer s.mu.Unlock()
			for i, l := range s.listeners {
				if l.id == id {
					s.listeners = append(s.listeners[:i:i], s.listeners[i+1:]...)
					return
				}
			}
		})
	}
}
