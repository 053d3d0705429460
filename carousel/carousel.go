// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package carousel

import (
	"log/slog"
	"math"
	"sync"
	"time"
)

const (
	// DefaultInterval is the auto-advance period
	DefaultInterval = 8 * time.Second
	// DefaultResumeDelay is how long auto-advance stays paused after a
	// button press or swipe
	DefaultResumeDelay = 15 * time.Second
	// SwipeThreshold is the minimum horizontal travel, in pixels, of a swipe
	SwipeThreshold = 50.0
)

// View is the surface a carousel drives. Implementations must not call back
// into the Registry.
type View interface {
	SlideCount() int
	// HasControls reports whether both next and prev controls exist
	HasControls() bool
	// SetOffset moves the track so the slide at percent/100 is visible
	SetOffset(percent int)
}

// Locator finds the view for a carousel key
type Locator interface {
	Locate(key string) (View, bool)
}

type LocatorFunc func(key string) (View, bool)

func (f LocatorFunc) Locate(key string) (View, bool) { return f(key) }

type Timer interface {
	Stop() bool
}

// Clock schedules one-shot callbacks
type Clock interface {
	AfterFunc(d time.Duration, f func()) Timer
}

type realClock struct{}

func (realClock) AfterFunc(d time.Duration, f func()) Timer { return time.AfterFunc(d, f) }

type Direction int

const (
	Forward Direction = iota
	Backward
)

// State is a point-in-time snapshot of one carousel
type State struct {
	Key           string `json:"key"`
	Current       int    `json:"current"`
	Slides        int    `json:"slides"`
	AutoAdvance   bool   `json:"auto_advance"`
	Advancing     bool   `json:"advancing"`
	Locked        bool   `json:"locked"`
	Hovering      bool   `json:"hovering"`
	ResumePending bool   `json:"resume_pending"`
}

type instance struct {
	key         string
	view        View
	slides      int
	current     int
	autoAdvance bool
	locked      bool
	hovering    bool

	// at most one armed handle of each kind; generations let a callback
	// that lost the race with Stop recognise itself as stale
	advance    Timer
	advanceGen uint64
	resume     Timer
	resumeGen  uint64

	startX, endX float64
}

// Registry owns every carousel instance, keyed by container id.
type Registry struct {
	mu          sync.Mutex
	locator     Locator
	clock       Clock
	interval    time.Duration
	resumeDelay time.Duration
	carousels   map[string]*instance
	gen         uint64
}

type Option func(*Registry)

func WithClock(c Clock) Option {
	return func(r *Registry) { r.clock = c }
}

func WithInterval(d time.Duration) Option {
	return func(r *Registry) {
		if d > 0 {
			r.interval = d
		}
	}
}

func WithResumeDelay(d time.Duration) Option {
	return func(r *Registry) {
		if d > 0 {
			r.resumeDelay = d
		}
	}
}

func NewRegistry(locator Locator, opts ...Option) *Registry {
	r := &Registry{
		locator:     locator,
		clock:       realClock{},
		interval:    DefaultInterval,
		resumeDelay: DefaultResumeDelay,
		carousels:   make(map[string]*instance),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Init (re)builds the carousel for key from its current view. Any previous
// instance is torn down first, so repeated calls never stack timers. Returns
// false, after logging, when the view or its slides/controls are missing.
func (r *Registry) Init(key string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	if old, ok := r.carousels[key]; ok {
		r.stopTimersLocked(old)
		delete(r.carousels, key)
	}

	view, ok := r.locator.Locate(key)
	if !ok || view == nil {
		slog.Error("carousel not found", "key", key)
		return false
	}
	slides := view.SlideCount()
	if slides == 0 || !view.HasControls() {
		slog.Error("carousel is missing slides or controls", "key", key, "slides", slides)
		return false
	}

	c := &instance{key: key, view: view, slides: slides, autoAdvance: true}
	r.carousels[key] = c
	r.showLocked(c, 0)
	r.startLocked(c)

	slog.Info("carousel initialized", "key", key, "slides", slides)
	return true
}

// ShowSlide moves to index, clamped into range. Locked carousels stay put.
func (r *Registry) ShowSlide(key string, index int) bool {
	return r.with(key, func(c *instance) bool {
		if c.locked {
			return false
		}
		r.showLocked(c, index)
		return true
	})
}

// Next steps forward circularly
func (r *Registry) Next(key string) bool {
	return r.with(key, func(c *instance) bool { return r.stepLocked(c, 1) })
}

// Prev steps backward circularly
func (r *Registry) Prev(key string) bool {
	return r.with(key, func(c *instance) bool { return r.stepLocked(c, -1) })
}

// Click is a press on the next/prev control: it navigates, pauses
// auto-advance and schedules it to resume after the cool-down.
func (r *Registry) Click(key string, dir Direction) bool {
	return r.with(key, func(c *instance) bool {
		if c.locked {
			return false
		}
		r.interactLocked(c, dir)
		return true
	})
}

// PointerEnter pauses auto-advance while the pointer is over the carousel
func (r *Registry) PointerEnter(key string) bool {
	return r.with(key, func(c *instance) bool {
		c.hovering = true
		r.stopAdvanceLocked(c)
		return true
	})
}

// PointerLeave resumes auto-advance if it is still enabled and unlocked
func (r *Registry) PointerLeave(key string) bool {
	return r.with(key, func(c *instance) bool {
		c.hovering = false
		r.startLocked(c)
		return true
	})
}

func (r *Registry) TouchStart(key string, x float64) bool {
	return r.with(key, func(c *instance) bool {
		if c.locked {
			return false
		}
		c.startX = x
		c.endX = x
		return true
	})
}

func (r *Registry) TouchMove(key string, x float64) bool {
	return r.with(key, func(c *instance) bool {
		if c.locked {
			return false
		}
		c.endX = x
		return true
	})
}

// TouchEnd turns the recorded touch into a swipe when it travelled more than
// SwipeThreshold: leftward goes to the next slide, rightward to the previous.
func (r *Registry) TouchEnd(key string) bool {
	return r.with(key, func(c *instance) bool {
		if c.locked {
			return false
		}
		delta := c.startX - c.endX
		c.startX, c.endX = 0, 0
		if math.Abs(delta) <= SwipeThreshold {
			return false
		}
		if delta > 0 {
			r.interactLocked(c, Forward)
		} else {
			r.interactLocked(c, Backward)
		}
		return true
	})
}

// Lock freezes the carousel on its current slide
func (r *Registry) Lock(key string) bool {
	return r.LockAt(key, -1)
}

// LockAt freezes the carousel, first moving to index when it is in range.
// Only Init unlocks it.
func (r *Registry) LockAt(key string, index int) bool {
	return r.with(key, func(c *instance) bool {
		c.locked = true
		c.autoAdvance = false
		r.stopTimersLocked(c)
		if index >= 0 && index < c.slides {
			r.showLocked(c, index)
		}
		return true
	})
}

// ExternalStop turns auto-advance off but leaves navigation available
func (r *Registry) ExternalStop(key string) bool {
	return r.with(key, func(c *instance) bool {
		c.autoAdvance = false
		r.stopTimersLocked(c)
		return true
	})
}

func (r *Registry) State(key string) (State, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.carousels[key]
	if !ok {
		return State{Key: key}, false
	}
	return State{
		Key:           key,
		Current:       c.current,
		Slides:        c.slides,
		AutoAdvance:   c.autoAdvance,
		Advancing:     c.advance != nil,
		Locked:        c.locked,
		Hovering:      c.hovering,
		ResumePending: c.resume != nil,
	}, true
}

// Remove stops and forgets the carousel for key
func (r *Registry) Remove(key string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if c, ok := r.carousels[key]; ok {
		r.stopTimersLocked(c)
		delete(r.carousels, key)
	}
}

// Close stops every timer. The registry can still be re-initialised.
func (r *Registry) Close() {
	r.mu.Lock()
	defer r.mu.Unlock()
	for key, c := range r.carousels {
		r.stopTimersLocked(c)
		delete(r.carousels, key)
	}
}

func (r *Registry) with(key string, fn func(c *instance) bool) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.carousels[key]
	if !ok {
		return false
	}
	return fn(c)
}

func (r *Registry) showLocked(c *instance, index int) {
	if index < 0 {
		index = 0
	}
	if index >= c.slides {
		index = c.slides - 1
	}
	c.current = index
	c.view.SetOffset(index * 100)
}

func (r *Registry) stepLocked(c *instance, delta int) bool {
	if c.locked {
		return false
	}
	r.showLocked(c, ((c.current+delta)%c.slides+c.slides)%c.slides)
	return true
}

func (r *Registry) interactLocked(c *instance, dir Direction) {
	r.stopAdvanceLocked(c)
	if dir == Forward {
		r.stepLocked(c, 1)
	} else {
		r.stepLocked(c, -1)
	}

	r.stopResumeLocked(c)
	gen := r.nextGen()
	c.resumeGen = gen
	c.resume = r.clock.AfterFunc(r.resumeDelay, func() { r.onResume(c, gen) })
}

func (r *Registry) startLocked(c *instance) {
	if !c.autoAdvance || c.locked {
		return
	}
	r.stopAdvanceLocked(c)
	r.armAdvanceLocked(c)
}

func (r *Registry) armAdvanceLocked(c *instance) {
	gen := r.nextGen()
	c.advanceGen = gen
	c.advance = r.clock.AfterFunc(r.interval, func() { r.onAdvance(c, gen) })
}

func (r *Registry) onAdvance(c *instance, gen uint64) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.carousels[c.key] != c || c.advanceGen != gen || c.advance == nil {
		return
	}
	c.advance = nil
	if !c.autoAdvance || c.locked {
		return
	}
	r.stepLocked(c, 1)
	r.armAdvanceLocked(c)
}

func (r *Registry) onResume(c *instance, gen uint64) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.carousels[c.key] != c || c.resumeGen != gen || c.resume == nil {
		return
	}
	c.resume = nil
	if c.hovering {
		return
	}
	r.startLocked(c)
}

func (r *Registry) stopAdvanceLocked(c *instance) {
	if c.advance != nil {
		c.advance.Stop()
		c.advance = nil
	}
	c.advanceGen = 0
}

func (r *Registry) stopResumeLocked(c *instance) {
	if c.resume != nil {
		c.resume.Stop()
		c.resume = nil
	}
	c.resumeGen = 0
}

func (r *Registry) stopTimersLocked(c *instance) {
	r.stopAdvanceLocked(c)
	r.stopResumeLocked(c)
}

func (r *Registry) nextGen() uint64 {
	r.gen++
	return r.gen
}
