// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package reviews

import (
	"sync"
	"time"

	"github.com/danielhkuo/crocante/carousel"
)

// DefaultInterval is how long each review stays on screen
const DefaultInterval = 5 * time.Second

type realClock struct{}

func (realClock) AfterFunc(d time.Duration, f func()) carousel.Timer { return time.AfterFunc(d, f) }

// Rotator cycles through a list of reviews, showing one at a time. It holds
// at most one armed timer.
type Rotator struct {
	mu       sync.Mutex
	clock    carousel.Clock
	interval time.Duration
	count    int
	current  int
	running  bool

	timer carousel.Timer
	gen   uint64
}

type Option func(*Rotator)

func WithClock(c carousel.Clock) Option {
	return func(r *Rotator) { r.clock = c }
}

func WithInterval(d time.Duration) Option {
	return func(r *Rotator) {
		if d > 0 {
			r.interval = d
		}
	}
}

func NewRotator(count int, opts ...Option) *Rotator {
	r := &Rotator{
		clock:    realClock{},
		interval: DefaultInterval,
		count:    max(count, 0),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Start begins rotating from the current review. Calling it again while
// running re-arms the single timer instead of adding another.
func (r *Rotator) Start() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.running = true
	r.stopLocked()
	r.armLocked()
}

// Stop cancels rotation; the current review stays
func (r *Rotator) Stop() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.running = false
	r.stopLocked()
}

// Reset swaps in a new review count and goes back to the first review,
// keeping the running state.
func (r *Rotator) Reset(count int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.count = max(count, 0)
	r.current = 0
	r.stopLocked()
	if r.running {
		r.armLocked()
	}
}

// Current returns the index on screen, or false when there are no reviews
func (r *Rotator) Current() (int, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.count == 0 {
		return 0, false
	}
	return r.current, true
}

func (r *Rotator) Running() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.running
}

// A single review has nothing to rotate to, so no timer is armed for it.
func (r *Rotator) armLocked() {
	if r.count < 2 {
		return
	}
	r.gen++
	gen := r.gen
	r.timer = r.clock.AfterFunc(r.interval, func() { r.onTick(gen) })
}

func (r *Rotator) onTick(gen uint64) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if !r.running || r.gen != gen || r.timer == nil {
		return
	}
	r.timer = nil
	r.current = (r.current + 1) % r.count
	r.armLocked()
}

func (r *Rotator) stopLocked() {
	if r.timer != nil {
		r.timer.Stop()
		r.timer = nil
	}
	r.gen++
}
