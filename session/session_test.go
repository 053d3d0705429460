// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package session

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/danielhkuo/crocante/carousel"
	"github.com/danielhkuo/crocante/catalog"
	"github.com/danielhkuo/crocante/checkout"
	"github.com/danielhkuo/crocante/models"
	"github.com/danielhkuo/crocante/prefs"
	"github.com/danielhkuo/crocante/reviews"
	"github.com/danielhkuo/crocante/storage"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

// idleClock arms timers that never fire, so carousel state only moves on
// explicit calls
type idleClock struct{}

type idleTimer struct{}

func (idleTimer) Stop() bool { return true }

func (idleClock) AfterFunc(time.Duration, func()) carousel.Timer { return idleTimer{} }

type manualNow struct {
	mu sync.Mutex
	t  time.Time
}

func (n *manualNow) Now() time.Time {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.t
}

func (n *manualNow) Advance(d time.Duration) {
	n.mu.Lock()
	n.t = n.t.Add(d)
	n.mu.Unlock()
}

// tickClock keeps the most recently armed callback for the test to fire
type tickClock struct {
	mu   sync.Mutex
	next func()
}

func (c *tickClock) AfterFunc(_ time.Duration, f func()) carousel.Timer {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.next = f
	return idleTimer{}
}

func (c *tickClock) fire() {
	c.mu.Lock()
	f := c.next
	c.next = nil
	c.mu.Unlock()
	if f != nil {
		f()
	}
}

func newManager(t *testing.T, store storage.Store, opts ...Option) *Manager {
	t.Helper()
	opts = append([]Option{
		WithCarouselOptions(carousel.WithClock(idleClock{})),
		WithReviewOptions(reviews.WithClock(idleClock{})),
	}, opts...)
	m := NewManager(store, catalog.NewStore(catalog.Default()), opts...)
	t.Cleanup(m.Close)
	return m
}

func carouselState(t *testing.T, s *Session, key string) carousel.State {
	t.Helper()
	st, ok := s.Carousels().State(key)
	require.True(t, ok, "carousel %s not initialised", key)
	return st
}

func TestCreateInitialisesTypeCarousel(t *testing.T) {
	m := newManager(t, storage.NewMemoryStore())
	s := m.Create(false)

	st := carouselState(t, s, TypesCarousel)
	assert.Equal(t, len(catalog.Default().Tipos), st.Slides)
	assert.True(t, st.AutoAdvance)
	assert.Equal(t, 0, st.Current)

	_, ok := s.Carousels().State(FlavorsCarousel)
	assert.False(t, ok, "flavor carousel waits for a type")
	assert.True(t, s.HasCarousel(FlavorsCarousel))
	assert.False(t, s.HasCarousel("banner"))
	assert.Equal(t, prefs.Light, s.Theme().Current())
}

func TestSelectType(t *testing.T) {
	s := newManager(t, storage.NewMemoryStore()).Create(false)

	require.NoError(t, s.SelectType("enroladinho"))

	flavors := carouselState(t, s, FlavorsCarousel)
	assert.Equal(t, 2, flavors.Slides)
	assert.True(t, flavors.AutoAdvance)

	types := carouselState(t, s, TypesCarousel)
	assert.Equal(t, 1, types.Current)
	assert.False(t, types.AutoAdvance)
	assert.False(t, types.Locked)

	show := s.Showcase()
	assert.Equal(t, "enroladinho", show.Tipo)
	assert.Len(t, show.Sabores, 2)
	assert.Nil(t, show.Sabor)
}

func TestSelectTypeUnknown(t *testing.T) {
	s := newManager(t, storage.NewMemoryStore()).Create(false)
	err := s.SelectType("pastel")
	assert.ErrorIs(t, err, catalog.ErrUnknownType)
	assert.Empty(t, s.Showcase().Tipo)
}

func TestSelectFlavorLocksCarousel(t *testing.T) {
	s := newManager(t, storage.NewMemoryStore()).Create(false)

	_, err := s.SelectFlavor(0)
	assert.ErrorIs(t, err, ErrNoTypeSelected)

	require.NoError(t, s.SelectType("coxinha"))
	_, err = s.SelectFlavor(6)
	assert.ErrorIs(t, err, ErrInvalidFlavor)

	f, err := s.SelectFlavor(1)
	require.NoError(t, err)
	assert.Equal(t, "Costela", f.Nome)

	st := carouselState(t, s, FlavorsCarousel)
	assert.True(t, st.Locked)
	assert.Equal(t, 1, st.Current)
	assert.False(t, st.Advancing)

	// locked carousels ignore navigation
	s.Carousels().Next(FlavorsCarousel)
	assert.Equal(t, 1, carouselState(t, s, FlavorsCarousel).Current)
}

func TestAddSelection(t *testing.T) {
	s := newManager(t, storage.NewMemoryStore()).Create(false)

	_, err := s.AddSelection()
	assert.ErrorIs(t, err, ErrNoTypeSelected)

	require.NoError(t, s.SelectType("coxinha"))
	_, err = s.AddSelection()
	assert.ErrorIs(t, err, ErrInvalidFlavor)

	_, err = s.SelectFlavor(0)
	require.NoError(t, err)
	item, err := s.AddSelection()
	require.NoError(t, err)

	assert.Equal(t, "Coxinha de Frango", item.Name)
	assert.Equal(t, 7.5, item.Price)
	assert.Equal(t, 1, s.Cart().Len())
	assert.Equal(t, 7.5, s.Cart().Total())
}

func TestResetSelectionUnlocks(t *testing.T) {
	s := newManager(t, storage.NewMemoryStore()).Create(false)
	require.NoError(t, s.SelectType("coxinha"))
	_, err := s.SelectFlavor(3)
	require.NoError(t, err)

	s.ResetSelection()

	flavors := carouselState(t, s, FlavorsCarousel)
	assert.False(t, flavors.Locked)
	assert.Equal(t, 0, flavors.Current)
	types := carouselState(t, s, TypesCarousel)
	assert.True(t, types.AutoAdvance)
	assert.Empty(t, s.Showcase().Tipo)
}

type okDispatcher struct{ calls int }

func (d *okDispatcher) Dispatch(context.Context, models.Order) (checkout.Dispatched, error) {
	d.calls++
	return checkout.Dispatched{OrderID: "o-1"}, nil
}

func TestSessionCheckout(t *testing.T) {
	s := newManager(t, storage.NewMemoryStore()).Create(false)
	d := &okDispatcher{}
	svc := checkout.NewService(d)

	_, err := s.Checkout(context.Background(), svc, models.Delivery{})
	assert.ErrorIs(t, err, checkout.ErrEmptyCart)
	assert.Equal(t, 0, d.calls)

	require.NoError(t, s.Wallet().Register("Ana", "11999999999"))
	require.NoError(t, s.SelectType("empada"))
	_, err = s.SelectFlavor(1)
	require.NoError(t, err)
	_, err = s.AddSelection()
	require.NoError(t, err)

	receipt, err := s.Checkout(context.Background(), svc, models.Delivery{Mode: models.DeliveryPickup})
	require.NoError(t, err)
	assert.Equal(t, "o-1", receipt.OrderID)
	assert.Equal(t, 0, s.Cart().Len())
	assert.Empty(t, s.Showcase().Tipo)

	customer, _ := s.Wallet().Customer()
	last, ok := customer.LastOrder()
	require.True(t, ok)
	assert.Equal(t, "empada", last.Tipo)
}

func TestReloadDropsRemovedType(t *testing.T) {
	s := newManager(t, storage.NewMemoryStore()).Create(false)
	require.NoError(t, s.SelectType("torta"))

	small, err := catalog.Parse([]byte(`
tipos:
  - tipo: coxinha
    nome: Coxinha
    sabores:
      - {sabor: frango, nome: Frango, preco: 7.5}
produtos: []
`))
	require.NoError(t, err)

	s.Reload(small)
	assert.Equal(t, 1, carouselState(t, s, TypesCarousel).Slides)
	assert.Empty(t, s.Showcase().Tipo)
	_, ok := s.Carousels().State(FlavorsCarousel)
	assert.False(t, ok)
}

func TestReloadKeepsSurvivingType(t *testing.T) {
	m := newManager(t, storage.NewMemoryStore())
	s := m.Create(false)
	require.NoError(t, s.SelectType("coxinha"))

	bigger, err := catalog.Parse([]byte(`
tipos:
  - tipo: coxinha
    nome: Coxinha
    sabores:
      - {sabor: frango, nome: Frango, preco: 7.5}
      - {sabor: queijo, nome: Queijo, preco: 7.0}
produtos: []
`))
	require.NoError(t, err)

	m.Reload(bigger)
	assert.Same(t, bigger, s.Catalog())
	assert.Equal(t, "coxinha", s.Showcase().Tipo)
	assert.Equal(t, 2, carouselState(t, s, FlavorsCarousel).Slides)
}

func TestShowcaseRotatesReviews(t *testing.T) {
	clock := &tickClock{}
	m := newManager(t, storage.NewMemoryStore(), WithReviewOptions(reviews.WithClock(clock)))
	s := m.Create(false)

	show := s.Showcase()
	require.NotNil(t, show.Avaliacao)
	assert.Equal(t, 0, show.Avaliacao.Index)
	assert.Equal(t, "Mariana S.", show.Avaliacao.Review.Autor)
	assert.Equal(t, 5, show.Avaliacao.Estrelas.Full)

	clock.fire()
	show = s.Showcase()
	require.NotNil(t, show.Avaliacao)
	assert.Equal(t, 1, show.Avaliacao.Index)
	assert.True(t, show.Avaliacao.Estrelas.Half)

	bare, err := catalog.Parse([]byte("tipos:\n  - tipo: coxinha\n    nome: Coxinha\n"))
	require.NoError(t, err)
	s.Reload(bare)
	assert.Nil(t, s.Showcase().Avaliacao)

	s.Close()
	assert.False(t, s.Reviews().Running())
}

func TestResumeRestoresStorage(t *testing.T) {
	store := storage.NewMemoryStore()
	m := newManager(t, store)

	s := m.Create(false)
	require.NoError(t, s.Wallet().Register("Ana", "11999999999"))
	s.Wallet().AddPoints(55)
	_, err := s.Theme().Toggle()
	require.NoError(t, err)

	m.Close()
	assert.Equal(t, 0, m.Len())

	again := m.Resume(s.ID, false)
	assert.NotSame(t, s, again)
	customer, ok := again.Wallet().Customer()
	require.True(t, ok)
	assert.Equal(t, 5, customer.Pontos)
	assert.Equal(t, prefs.Dark, again.Theme().Current())
	assert.Equal(t, 0, again.Cart().Len())
}

func TestSessionsAreIsolated(t *testing.T) {
	m := newManager(t, storage.NewMemoryStore())
	a, b := m.Create(false), m.Create(true)
	require.NotEqual(t, a.ID, b.ID)

	require.NoError(t, a.Wallet().Register("Ana", "11999999999"))
	_, ok := b.Wallet().Customer()
	assert.False(t, ok)
	assert.Equal(t, prefs.Dark, b.Theme().Current())

	got, ok := m.Get(a.ID)
	require.True(t, ok)
	assert.Same(t, a, got)
	_, ok = m.Get("missing")
	assert.False(t, ok)
}

func TestSweepExpiresIdleSessions(t *testing.T) {
	now := &manualNow{t: time.Date(2025, 3, 14, 10, 0, 0, 0, time.UTC)}
	m := newManager(t, storage.NewMemoryStore(), WithTTL(time.Hour), WithClock(now.Now))

	idle := m.Create(false)
	busy := m.Create(false)

	now.Advance(45 * time.Minute)
	_, ok := m.Get(busy.ID)
	require.True(t, ok)
	assert.Equal(t, 0, m.Sweep())

	now.Advance(30 * time.Minute)
	assert.Equal(t, 1, m.Sweep())
	_, ok = m.Get(idle.ID)
	assert.False(t, ok)
	_, ok = m.Get(busy.ID)
	assert.True(t, ok)
	_, ok = idle.Carousels().State(TypesCarousel)
	assert.False(t, ok, "swept session timers are stopped")
}

func TestRunStopsWithContext(t *testing.T) {
	m := newManager(t, storage.NewMemoryStore())
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- m.Run(ctx, time.Millisecond) }()

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(time.Second):
		t.Fatal("Run did not return after cancel")
	}
}

func TestConcurrentSessionUse(t *testing.T) {
	m := newManager(t, storage.NewMemoryStore())
	s := m.Create(false)

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			tipo := "coxinha"
			if i%2 == 0 {
				tipo = "empada"
			}
			_ = s.SelectType(tipo)
			_, _ = s.SelectFlavor(0)
			_, _ = s.AddSelection()
			s.Carousels().Next(TypesCarousel)
			_ = s.Showcase()
		}(i)
	}
	wg.Wait()
	assert.LessOrEqual(t, s.Cart().Len(), 20)
}
