// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/danielhkuo/crocante/carousel"
	"github.com/danielhkuo/crocante/cart"
	"github.com/danielhkuo/crocante/catalog"
	"github.com/danielhkuo/crocante/checkout"
	"github.com/danielhkuo/crocante/loyalty"
	"github.com/danielhkuo/crocante/models"
	"github.com/danielhkuo/crocante/prefs"
	"github.com/danielhkuo/crocante/reviews"
)

// Carousel keys
const (
	TypesCarousel   = "tipos-salgado"
	FlavorsCarousel = "sabores"
)

var (
	ErrNoTypeSelected = errors.New("no type selected")
	ErrInvalidFlavor  = errors.New("invalid flavor")
	ErrNoFlavors      = errors.New("no flavors for type")
)

// slideView is the server-side stand-in for a carousel track
type slideView struct {
	mu     sync.Mutex
	count  int
	offset int
}

func (v *slideView) SlideCount() int {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.count
}

// HasControls is always true; the controls are the action endpoints
func (v *slideView) HasControls() bool { return true }

func (v *slideView) SetOffset(percent int) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.offset = percent
}

func (v *slideView) set(count int) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.count = count
	v.offset = 0
}

// Session is one visitor's page: cart, wallet, theme and the two carousels.
type Session struct {
	ID string

	mu        sync.Mutex
	catalog   *catalog.Catalog
	cart      *cart.Store
	wallet    *loyalty.Wallet
	theme     *prefs.Theme
	carousels *carousel.Registry
	reviews   *reviews.Rotator
	views     map[string]*slideView // fixed at construction
	tipo      string
	flavor    int
	lastSeen  time.Time
}

// Showcase is the JSON view of the product carousels and selection
type Showcase struct {
	Tipo      string                    `json:"tipo,omitempty"`
	Sabor     *catalog.Flavor           `json:"sabor,omitempty"`
	Tipos     []catalog.Type            `json:"tipos"`
	Sabores   []catalog.Flavor          `json:"sabores"`
	Carousels map[string]carousel.State `json:"carousels"`
	Avaliacao *reviews.Card             `json:"avaliacao,omitempty"`
}

func (s *Session) Cart() *cart.Store              { return s.cart }
func (s *Session) Wallet() *loyalty.Wallet        { return s.wallet }
func (s *Session) Theme() *prefs.Theme            { return s.theme }
func (s *Session) Carousels() *carousel.Registry { return s.carousels }
func (s *Session) Reviews() *reviews.Rotator      { return s.reviews }

func (s *Session) Catalog() *catalog.Catalog {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.catalog
}

// HasCarousel reports whether key names one of the page's carousels
func (s *Session) HasCarousel(key string) bool {
	_, ok := s.views[key]
	return ok
}

func (s *Session) locate(key string) (carousel.View, bool) {
	v, ok := s.views[key]
	if !ok {
		return nil, false
	}
	return v, true
}

// SelectType shows the flavors of tipo: the flavor carousel is rebuilt and
// re-initialised, and the type carousel stops auto-advancing on the choice.
func (s *Session) SelectType(tipo string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	flavors, err := s.catalog.Flavors(tipo)
	if err != nil {
		return err
	}
	if len(flavors) == 0 {
		return fmt.Errorf("%w: %s", ErrNoFlavors, tipo)
	}
	s.tipo = tipo
	s.flavor = -1
	s.views[FlavorsCarousel].set(len(flavors))
	s.carousels.Init(FlavorsCarousel)

	for i, t := range s.catalog.Tipos {
		if t.Tipo == tipo {
			s.carousels.ShowSlide(TypesCarousel, i)
			break
		}
	}
	s.carousels.ExternalStop(TypesCarousel)

	slog.Debug("type selected", "session_id", s.ID, "tipo", tipo)
	return nil
}

// SelectFlavor commits to a flavor of the selected type and locks the flavor
// carousel on it.
func (s *Session) SelectFlavor(index int) (catalog.Flavor, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.tipo == "" {
		return catalog.Flavor{}, ErrNoTypeSelected
	}
	t, _ := s.catalog.Type(s.tipo)
	if index < 0 || index >= len(t.Sabores) {
		return catalog.Flavor{}, fmt.Errorf("%w: %d", ErrInvalidFlavor, index)
	}
	s.flavor = index
	s.carousels.LockAt(FlavorsCarousel, index)
	return t.Sabores[index], nil
}

// AddSelection puts the selected flavor in the cart as "<Type> de <Flavor>"
func (s *Session) AddSelection() (cart.Item, error) {
	s.mu.Lock()
	if s.tipo == "" {
		s.mu.Unlock()
		return cart.Item{}, ErrNoTypeSelected
	}
	t, _ := s.catalog.Type(s.tipo)
	if s.flavor < 0 || s.flavor >= len(t.Sabores) {
		s.mu.Unlock()
		return cart.Item{}, ErrInvalidFlavor
	}
	f := t.Sabores[s.flavor]
	s.mu.Unlock()

	item := cart.Item{Name: t.ItemName(f), Price: f.Preco}
	if err := s.cart.AddItem(item.Name, item.Price); err != nil {
		return cart.Item{}, err
	}
	return item, nil
}

// ResetSelection clears the selection and restarts both carousels
func (s *Session) ResetSelection() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.resetLocked()
}

func (s *Session) resetLocked() {
	s.tipo = ""
	s.flavor = -1
	s.carousels.Init(TypesCarousel)
	if s.views[FlavorsCarousel].SlideCount() > 0 {
		s.carousels.Init(FlavorsCarousel)
	}
}

// Reload swaps the catalog and rebuilds the carousels from it. A selected
// type that no longer exists is dropped. Review rotation restarts at the
// first review.
func (s *Session) Reload(c *catalog.Catalog) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.catalog = c
	s.reviews.Reset(len(c.Avaliacoes))
	s.views[TypesCarousel].set(len(c.Tipos))
	s.carousels.Init(TypesCarousel)

	s.flavor = -1
	if s.tipo == "" {
		return
	}
	flavors, err := c.Flavors(s.tipo)
	if err != nil {
		slog.Info("selected type removed from catalog", "session_id", s.ID, "tipo", s.tipo)
		s.tipo = ""
		s.views[FlavorsCarousel].set(0)
		s.carousels.Remove(FlavorsCarousel)
		return
	}
	s.views[FlavorsCarousel].set(len(flavors))
	s.carousels.Init(FlavorsCarousel)
}

// Checkout runs the checkout service on this session's cart and wallet and,
// on success, resets the product selection.
func (s *Session) Checkout(ctx context.Context, svc *checkout.Service, d models.Delivery) (checkout.Receipt, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	receipt, err := svc.Checkout(ctx, s.cart, s.wallet, d)
	if err != nil {
		return checkout.Receipt{}, err
	}
	s.resetLocked()
	return receipt, nil
}

func (s *Session) Showcase() Showcase {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := Showcase{
		Tipo:      s.tipo,
		Tipos:     s.catalog.Types(),
		Sabores:   []catalog.Flavor{},
		Carousels: make(map[string]carousel.State, len(s.views)),
	}
	if s.tipo != "" {
		if flavors, err := s.catalog.Flavors(s.tipo); err == nil {
			out.Sabores = flavors
			if s.flavor >= 0 && s.flavor < len(flavors) {
				f := flavors[s.flavor]
				out.Sabor = &f
			}
		}
	}
	for key := range s.views {
		out.Carousels[key], _ = s.carousels.State(key)
	}
	if i, ok := s.reviews.Current(); ok && i < len(s.catalog.Avaliacoes) {
		r := s.catalog.Avaliacoes[i]
		out.Avaliacao = &reviews.Card{Index: i, Review: r, Estrelas: reviews.Stars(r.Nota)}
	}
	return out
}

func (s *Session) touch(now time.Time) {
	s.mu.Lock()
	s.lastSeen = now
	s.mu.Unlock()
}

func (s *Session) idleSince() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastSeen
}

// Close stops the session's carousel and review timers
func (s *Session) Close() {
	s.carousels.Close()
	s.reviews.Stop()
}
