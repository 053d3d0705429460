// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package session

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/danielhkuo/crocante/carousel"
	"github.com/danielhkuo/crocante/cart"
	"github.com/danielhkuo/crocante/catalog"
	"github.com/danielhkuo/crocante/loyalty"
	"github.com/danielhkuo/crocante/prefs"
	"github.com/danielhkuo/crocante/reviews"
	"github.com/danielhkuo/crocante/storage"
)

const DefaultTTL = 2 * time.Hour

// Manager owns the live sessions. Session storage outlives the in-memory
// session, so an expired visitor with a valid token gets their wallet and
// theme back on the next request.
type Manager struct {
	mu       sync.Mutex
	sessions map[string]*Session

	store        storage.Store
	catalogs     *catalog.Store
	ttl          time.Duration
	carouselOpts []carousel.Option
	reviewOpts   []reviews.Option
	now          func() time.Time
}

type Option func(*Manager)

func WithTTL(d time.Duration) Option {
	return func(m *Manager) {
		if d > 0 {
			m.ttl = d
		}
	}
}

// WithCarouselOptions is applied to every session's carousel registry
func WithCarouselOptions(opts ...carousel.Option) Option {
	return func(m *Manager) { m.carouselOpts = append(m.carouselOpts, opts...) }
}

// WithReviewOptions is applied to every session's review rotator
func WithReviewOptions(opts ...reviews.Option) Option {
	return func(m *Manager) { m.reviewOpts = append(m.reviewOpts, opts...) }
}

func WithClock(now func() time.Time) Option {
	return func(m *Manager) { m.now = now }
}

func NewManager(store storage.Store, catalogs *catalog.Store, opts ...Option) *Manager {
	m := &Manager{
		sessions: make(map[string]*Session),
		store:    store,
		catalogs: catalogs,
		ttl:      DefaultTTL,
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Create starts a session under a fresh ID
func (m *Manager) Create(prefersDark bool) *Session {
	return m.Resume(uuid.NewString(), prefersDark)
}

// Get returns a live session and marks it as seen
func (m *Manager) Get(id string) (*Session, bool) {
	m.mu.Lock()
	s, ok := m.sessions[id]
	m.mu.Unlock()
	if !ok {
		return nil, false
	}
	s.touch(m.now())
	return s, true
}

// Resume returns the live session for id or rebuilds it from storage
func (m *Manager) Resume(id string, prefersDark bool) *Session {
	m.mu.Lock()
	defer m.mu.Unlock()

	if s, ok := m.sessions[id]; ok {
		s.touch(m.now())
		return s
	}

	s := m.build(id, prefersDark)
	m.sessions[id] = s
	slog.Info("session opened", "session_id", id, "sessions", len(m.sessions))
	return s
}

func (m *Manager) build(id string, prefersDark bool) *Session {
	store := storage.Prefixed(m.store, "sessions/"+id)
	c := m.catalogs.Current()

	s := &Session{
		ID:      id,
		catalog: c,
		cart:    cart.New(nil),
		wallet:  loyalty.Open(store),
		theme:   prefs.LoadTheme(store, prefersDark),
		views: map[string]*slideView{
			TypesCarousel:   {count: len(c.Tipos)},
			FlavorsCarousel: {},
		},
		flavor:   -1,
		lastSeen: m.now(),
	}
	s.carousels = carousel.NewRegistry(carousel.LocatorFunc(s.locate), m.carouselOpts...)
	s.carousels.Init(TypesCarousel)
	s.reviews = reviews.NewRotator(len(c.Avaliacoes), m.reviewOpts...)
	s.reviews.Start()
	return s
}

// Sweep closes sessions idle for longer than the TTL and reports how many
func (m *Manager) Sweep() int {
	cutoff := m.now().Add(-m.ttl)

	m.mu.Lock()
	var expired []*Session
	for id, s := range m.sessions {
		if s.idleSince().Before(cutoff) {
			expired = append(expired, s)
			delete(m.sessions, id)
		}
	}
	m.mu.Unlock()

	for _, s := range expired {
		s.Close()
	}
	if len(expired) > 0 {
		slog.Info("expired sessions swept", "count", len(expired))
	}
	return len(expired)
}

// Run sweeps every interval until ctx is done
func (m *Manager) Run(ctx context.Context, every time.Duration) error {
	ticker := time.NewTicker(every)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			m.Sweep()
		}
	}
}

// Reload pushes a new catalog to every live session
func (m *Manager) Reload(c *catalog.Catalog) {
	m.catalogs.Replace(c)
	for _, s := range m.snapshot() {
		s.Reload(c)
	}
	slog.Info("sessions refreshed with new catalog", "sessions", m.Len())
}

func (m *Manager) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.sessions)
}

// Close stops every live session's timers
func (m *Manager) Close() {
	for _, s := range m.snapshot() {
		s.Close()
	}
	m.mu.Lock()
	m.sessions = make(map[string]*Session)
	m.mu.Unlock()
}

func (m *Manager) snapshot() []*Session {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]*Session, 0, len(m.sessions))
	for _, s := range m.sessions {
		out = append(out, s)
	}
	return out
}
