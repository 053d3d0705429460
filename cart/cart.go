// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package cart

import (
	"errors"
	"fmt"
	"log/slog"
	"math"
	"strconv"
	"strings"
	"sync"

	"github.com/dustin/go-humanize"
)

var ErrInvalidPrice = errors.New("invalid price")

// Item is one line in the cart. Repeated adds of the same product are
// separate items.
type Item struct {
	Name  string  `json:"name"`
	Price float64 `json:"price"`
}

// View is the full rendered state of the cart
type View struct {
	Items      []Item  `json:"items"`
	Count      int     `json:"count"`
	Total      float64 `json:"total"`
	TotalLabel string  `json:"total_label"`
}

// Renderer receives a fresh View after every mutation
type Renderer interface {
	Render(View)
}

// RendererFunc adapts a function to Renderer
type RendererFunc func(View)

func (f RendererFunc) Render(v View) { f(v) }

type Store struct {
	mu       sync.Mutex
	items    []Item
	renderer Renderer
}

// New creates an empty cart. renderer may be nil.
func New(renderer Renderer) *Store {
	return &Store{renderer: renderer}
}

// MaxPrice is the largest accepted line item price, in reais
const MaxPrice = 1e6

// ValidatePrice rejects NaN, infinities, negative prices and anything above
// MaxPrice
func ValidatePrice(price float64) error {
	if math.IsNaN(price) || math.IsInf(price, 0) || price < 0 || price > MaxPrice {
		return fmt.Errorf("%w: %v", ErrInvalidPrice, price)
	}
	return nil
}

// ParsePrice parses a raw price such as "7.50" or "7,50"
func ParsePrice(raw string) (float64, error) {
	s := strings.TrimSpace(raw)
	s = strings.TrimPrefix(s, "R$")
	s = strings.ReplaceAll(strings.TrimSpace(s), ",", ".")
	price, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrInvalidPrice, raw)
	}
	if err := ValidatePrice(price); err != nil {
		return 0, err
	}
	return price, nil
}

// AddItem appends a line item. Invalid prices are logged and rejected
// without touching the cart.
func (s *Store) AddItem(name string, price float64) error {
	if err := ValidatePrice(price); err != nil {
		slog.Error("cart item rejected", "name", name, "error", err)
		return err
	}

	s.mu.Lock()
	s.items = append(s.items, Item{Name: name, Price: price})
	view := s.viewLocked()
	s.mu.Unlock()

	s.render(view)
	return nil
}

// RemoveItem removes the item at index. Out of range indexes are a no-op.
func (s *Store) RemoveItem(index int) bool {
	s.mu.Lock()
	if index < 0 || index >= len(s.items) {
		s.mu.Unlock()
		return false
	}
	s.items = append(s.items[:index], s.items[index+1:]...)
	view := s.viewLocked()
	s.mu.Unlock()

	s.render(view)
	return true
}

// Clear empties the cart, used after a successful checkout
func (s *Store) Clear() {
	s.mu.Lock()
	s.items = nil
	view := s.viewLocked()
	s.mu.Unlock()

	s.render(view)
}

// Settle removes one line for each of the given items, typically the
// snapshot an order was built from. Lines added after the snapshot stay.
func (s *Store) Settle(items []Item) {
	s.mu.Lock()
	for _, it := range items {
		for i, have := range s.items {
			if have == it {
				s.items = append(s.items[:i], s.items[i+1:]...)
				break
			}
		}
	}
	view := s.viewLocked()
	s.mu.Unlock()

	s.render(view)
}

// Total is recomputed from the items on every call
func (s *Store) Total() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return Sum(s.items)
}

func (s *Store) Items() []Item {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Item(nil), s.items...)
}

func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.items)
}

// View returns the current rendered state without notifying the renderer
func (s *Store) View() View {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.viewLocked()
}

// Render pushes the full current state to the renderer
func (s *Store) Render() {
	s.render(s.View())
}

func (s *Store) viewLocked() View {
	total := Sum(s.items)
	return View{
		Items:      append([]Item{}, s.items...),
		Count:      len(s.items),
		Total:      total,
		TotalLabel: FormatBRL(total),
	}
}

func (s *Store) render(v View) {
	if s.renderer != nil {
		s.renderer.Render(v)
	}
}

// Sum totals items rounded to cents
func Sum(items []Item) float64 {
	var total float64
	for _, it := range items {
		total += it.Price
	}
	return RoundCents(total)
}

// RoundCents rounds to two decimal places
func RoundCents(v float64) float64 {
	return math.Round(v*100) / 100
}

// FormatBRL formats an amount as Brazilian reais, e.g. "R$ 1.234,50"
func FormatBRL(v float64) string {
	return "R$ " + humanize.FormatFloat("#.###,##", v)
}
