// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package signal provides observable values with synchronous change notification.
package signal

import "sync"

// Readable is the read-only view of an observable value.
type Readable[T any] interface {
	// Get returns the current value.
	Get() T

	// Subscribe registers fn to be called after every change. The returned
	// function removes the subscription; calling it twice is harmless.
	Subscribe(fn func(T)) (unsubscribe func())
}

// =============================================================================
// SIGNAL
// =============================================================================

// Signal is a mutable observable value. The zero value is not usable; use New.
type Signal[T any] struct {
	mu    sync.Mutex
	value T
	subs  subscribers[T]
}

// New creates a signal holding initial.
func New[T any](initial T) *Signal[T] {
	return &Signal[T]{value: initial}
}

// Get returns the current value.
func (s *Signal[T]) Get() T {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.value
}

// Set stores v and notifies subscribers.
func (s *Signal[T]) Set(v T) {
	s.mu.Lock()
	s.value = v
	s.mu.Unlock()
	s.subs.notify(v)
}

// Update replaces the value with fn(current) and notifies subscribers.
func (s *Signal[T]) Update(fn func(T) T) {
	s.mu.Lock()
	v := fn(s.value)
	s.value = v
	s.mu.Unlock()
	s.subs.notify(v)
}

// Subscribe registers fn to be called after every Set or Update.
func (s *Signal[T]) Subscribe(fn func(T)) func() {
	return s.subs.add(fn)
}

// Readonly returns the signal as a Readable.
func (s *Signal[T]) Readonly() Readable[T] {
	return s
}

// =============================================================================
// COMPUTED
// =============================================================================

// Source is anything a Computed can depend on. Signals and Computeds implement it.
type Source interface {
	subscribeAny(fn func()) func()
}

func (s *Signal[T]) subscribeAny(fn func()) func() {
	return s.Subscribe(func(T) { fn() })
}

// Computed is a derived value. It is recomputed eagerly when any source changes.
type Computed[T any] struct {
	mu      sync.Mutex
	compute func() T
	value   T
	subs    subscribers[T]
	stops   []func()
}

// NewComputed creates a derived value from compute, recomputed whenever one of
// the sources changes. Sources may be Signals or other Computeds.
func NewComputed[T any](compute func() T, sources ...Source) *Computed[T] {
	c := &Computed[T]{compute: compute, value: compute()}
	for _, src := range sources {
		c.stops = append(c.stops, src.subscribeAny(c.recompute))
	}
	return c
}

func (c *Computed[T]) recompute() {
	v := c.compute()
	c.mu.Lock()
	c.value = v
	c.mu.Unlock()
	c.subs.notify(v)
}

// Get returns the most recently computed value.
func (c *Computed[T]) Get() T {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.value
}

// Subscribe registers fn to be called after every recomputation.
func (c *Computed[T]) Subscribe(fn func(T)) func() {
	return c.subs.add(fn)
}

// Dispose detaches the computed value from its sources.
func (c *Computed[T]) Dispose() {
	c.mu.Lock()
	stops := c.stops
	c.stops = nil
	c.mu.Unlock()
	for _, stop := range stops {
		stop()
	}
}

func (c *Computed[T]) subscribeAny(fn func()) func() {
	return c.Subscribe(func(T) { fn() })
}

// =============================================================================
// SUBSCRIBER LIST
// =============================================================================

type subscription[T any] struct {
	id int
	fn func(T)
}

// subscribers keeps callbacks in registration order.
type subscribers[T any] struct {
	mu     sync.Mutex
	nextID int
	list   []subscription[T]
}

func (s *subscribers[T]) add(fn func(T)) func() {
	s.mu.Lock()
	s.nextID++
	id := s.nextID
	s.list = append(s.list, subscription[T]{id: id, fn: fn})
	s.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() { s.remove(id) })
	}
}

func (s *subscribers[T]) remove(id int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, sub := range s.list {
		if sub.id == id {
			s.list = append(s.list[:i:i], s.list[i+1:]...)
			return
		}
	}
}

// notify runs callbacks outside the lock so they may subscribe or read freely.
func (s *subscribers[T]) notify(v T) {
	s.mu.Lock()
	snapshot := make([]subscription[T], len(s.list))
	copy(snapshot, s.list)
	s.mu.Unlock()

	for _, sub := range snapshot {
		sub.fn(v)
	}
}
