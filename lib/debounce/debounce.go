// Copyright 2026 The Flight Inspirations Authors
// SPDX-License-Identifier: Apache-2.0

// Package debounce coalesces bursts of input per key into one trailing
// value delivered after a quiet period.
//
// The table UI uses one Debouncer keyed by cell coordinate for edits
// (300 ms) and one keyed by column for filters (500 ms). Each key owns
// at most one pending timer; a new [Debouncer.Trigger] for the same
// key stops the old timer and starts a new one with a higher
// generation. Different keys are independent and may be pending at the
// same time.
//
// Settling is split in two steps so that state is only mutated on the
// consumer's goroutine. The timer goroutine calls the deliver function
// with a [Settled] value; the consumer (the bubbletea Update loop)
// calls [Debouncer.Accept] before applying it. Accept returns false if
// the key was cancelled or re-triggered after the timer fired, which
// turns a late timer into a no-op without relying on timer Stop
// winning the race.
package debounce

import (
	"sync"
	"time"

	"github.com/maisjamil1/flight-inspirations/lib/clock"
)

// Settled is a value whose quiet period elapsed.
type Settled[K comparable, V any] struct {
	Key        K
	Value      V
	Generation uint64
}

// Debouncer delays values per key. Safe for concurrent use.
type Debouncer[K comparable, V any] struct {
	clock   clock.Clock
	delay   time.Duration
	deliver func(Settled[K, V])

	mu         sync.Mutex
	generation uint64
	pending    map[K]*pendingValue[V]
}

type pendingValue[V any] struct {
	value      V
	generation uint64
	timer      *clock.Timer
}

// New creates a Debouncer that calls deliver once per key after delay
// has passed without a new Trigger for that key. deliver runs on the
// clock's timer goroutine and must not block.
func New[K comparable, V any](clk clock.Clock, delay time.Duration, deliver func(Settled[K, V])) *Debouncer[K, V] {
	return &Debouncer[K, V]{
		clock:   clk,
		delay:   delay,
		deliver: deliver,
		pending: make(map[K]*pendingValue[V]),
	}
}

// Delay returns the quiet period.
func (debouncer *Debouncer[K, V]) Delay() time.Duration { return debouncer.delay }

// Trigger records value as the latest for key and restarts the key's
// quiet period. Returns the generation assigned to value.
func (debouncer *Debouncer[K, V]) Trigger(key K, value V) uint64 {
	debouncer.mu.Lock()
	if previous, exists := debouncer.pending[key]; exists && previous.timer != nil {
		previous.timer.Stop()
	}
	debouncer.generation++
	generation := debouncer.generation
	entry := &pendingValue[V]{value: value, generation: generation}
	debouncer.pending[key] = entry
	debouncer.mu.Unlock()

	// AfterFunc may run the callback synchronously on a fake clock
	// with a zero delay, so it is registered outside the lock.
	timer := debouncer.clock.AfterFunc(debouncer.delay, func() {
		debouncer.fire(key, generation)
	})

	debouncer.mu.Lock()
	if current, exists := debouncer.pending[key]; exists && current.generation == generation {
		current.timer = timer
	} else {
		// Superseded while the timer was being created.
		timer.Stop()
	}
	debouncer.mu.Unlock()
	return generation
}

// fire delivers the pending value for key if generation is still the
// latest. The entry stays pending until the consumer accepts it.
func (debouncer *Debouncer[K, V]) fire(key K, generation uint64) {
	debouncer.mu.Lock()
	entry, exists := debouncer.pending[key]
	if !exists || entry.generation != generation {
		debouncer.mu.Unlock()
		return
	}
	settled := Settled[K, V]{Key: key, Value: entry.value, Generation: generation}
	debouncer.mu.Unlock()

	debouncer.deliver(settled)
}

// Accept reports whether settled is still the latest value for its key
// and, if so, removes the key from the pending set. The consumer must
// drop settled when Accept returns false.
func (debouncer *Debouncer[K, V]) Accept(settled Settled[K, V]) bool {
	debouncer.mu.Lock()
	defer debouncer.mu.Unlock()
	entry, exists := debouncer.pending[settled.Key]
	if !exists || entry.generation != settled.Generation {
		return false
	}
	delete(debouncer.pending, settled.Key)
	return true
}

// Flush removes the pending value for key without waiting for its quiet
// period and returns it. The stopped timer, if it already fired, is
// rejected later by Accept.
func (debouncer *Debouncer[K, V]) Flush(key K) (V, bool) {
	debouncer.mu.Lock()
	defer debouncer.mu.Unlock()
	entry, exists := debouncer.pending[key]
	if !exists {
		var zero V
		return zero, false
	}
	if entry.timer != nil {
		entry.timer.Stop()
	}
	delete(debouncer.pending, key)
	return entry.value, true
}

// Cancel drops the pending value for key. Returns true if a value was
// pending.
func (debouncer *Debouncer[K, V]) Cancel(key K) bool {
	_, existed := debouncer.Flush(key)
	return existed
}

// Pending returns the latest undelivered value for key.
func (debouncer *Debouncer[K, V]) Pending(key K) (V, bool) {
	debouncer.mu.Lock()
	defer debouncer.mu.Unlock()
	entry, exists := debouncer.pending[key]
	if !exists {
		var zero V
		return zero, false
	}
	return entry.value, true
}

// Len returns the number of keys with a pending value.
func (debouncer *Debouncer[K, V]) Len() int {
	debouncer.mu.Lock()
	defer debouncer.mu.Unlock()
	return len(debouncer.pending)
}

// Stop cancels every pending value. Trailing values are dropped, not
// delivered.
func (debouncer *Debouncer[K, V]) Stop() {
	debouncer.mu.Lock()
	defer debouncer.mu.Unlock()
	for key, entry := range debouncer.pending {
		if entry.timer != nil {
			entry.timer.Stop()
		}
		delete(debouncer.pending, key)
	}
}
