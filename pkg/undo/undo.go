// Package undo holds at most one pending reversible action behind a
// cancellable timer. Opening a new action discards the previous one without
// running it.
package undo

import (
	"sync"
	"time"
)

// DefaultWindow is how long a completion can be undone.
const DefaultWindow = 6 * time.Second

// Slot is a single-slot undo holder. The zero value uses DefaultWindow.
type Slot[T any] struct {
	Window time.Duration
	// OnExpire, when set, is called with the value whose window elapsed. It
	// runs on the timer goroutine.
	OnExpire func(T)

	mu      sync.Mutex
	timer   *time.Timer
	value   T
	pending bool
	gen     uint64
}

// Open stores v as the pending action and starts its window, replacing any
// earlier pending action.
func (s *Slot[T]) Open(v T) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.stopLocked()

	s.gen++
	gen := s.gen
	s.value = v
	s.pending = true

	window := s.Window
	if window <= 0 {
		window = DefaultWindow
	}
	s.timer = time.AfterFunc(window, func() { s.expire(gen) })
}

// Take returns the pending action and clears the slot. ok is false when the
// window already elapsed or nothing was opened.
func (s *Slot[T]) Take() (T, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var zero T
	if !s.pending {
		return zero, false
	}
	v := s.value
	s.stopLocked()
	return v, true
}

// Peek returns the pending action without clearing it.
func (s *Slot[T]) Peek() (T, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.value, s.pending
}

// Cancel discards the pending action, if any.
func (s *Slot[T]) Cancel() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.stopLocked()
}

func (s *Slot[T]) expire(gen uint64) {
	s.mu.Lock()
	if gen != s.gen || !s.pending {
		s.mu.Unlock()
		return
	}
	v := s.value
	s.clearLocked()
	s.timer = nil
	onExpire := s.OnExpire
	s.mu.Unlock()

	if onExpire != nil {
		onExpire(v)
	}
}

func (s *Slot[T]) stopLocked() {
	if s.timer != nil {
		s.timer.Stop()
		s.timer = nil
	}
	s.clearLocked()
}

func (s *Slot[T]) clearLocked() {
	var zero T
	s.value = zero
	s.pending = false
}
