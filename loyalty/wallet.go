// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package loyalty

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"strings"
	"sync"
	"time"

	"github.com/danielhkuo/crocante/storage"
)

// StorageKey is where the customer record lives in the wallet's store
const StorageKey = "cliente"

// PointsPerReal is how many reais buy one point
const PointsPerReal = 10

// MaxAward caps the points a single purchase can earn
const MaxAward = math.MaxInt32

var (
	ErrMissingFields      = errors.New("name and phone are required")
	ErrNotRegistered      = errors.New("no customer registered")
	ErrInvalidReward      = errors.New("reward has no valid points")
	ErrInsufficientPoints = errors.New("insufficient points")
)

// HistoryEntry is one completed purchase
type HistoryEntry struct {
	ID    int64   `json:"id"`
	Tipo  string  `json:"tipo,omitempty"`
	Valor float64 `json:"valor"`
	Data  string  `json:"data"`
}

type Customer struct {
	Nome             string         `json:"nome"`
	Telefone         string         `json:"telefone"`
	Pontos           int            `json:"pontos"`
	HistoricoPedidos []HistoryEntry `json:"historicoPedidos"`
}

// LastOrder returns the most recent history entry
func (c Customer) LastOrder() (HistoryEntry, bool) {
	if len(c.HistoricoPedidos) == 0 {
		return HistoryEntry{}, false
	}
	return c.HistoricoPedidos[len(c.HistoricoPedidos)-1], true
}

// Renderer is notified with the current record after each mutation
type Renderer interface {
	Render(Customer)
}

type RendererFunc func(Customer)

func (f RendererFunc) Render(c Customer) { f(c) }

// Wallet holds at most one customer, persisted as a single record.
type Wallet struct {
	mu       sync.Mutex
	store    storage.Store
	renderer Renderer
	customer *Customer
	now      func() time.Time
}

type Option func(*Wallet)

// WithRenderer sets the display that is refreshed on every mutation
func WithRenderer(r Renderer) Option {
	return func(w *Wallet) { w.renderer = r }
}

// WithClock overrides time.Now for history IDs and dates
func WithClock(now func() time.Time) Option {
	return func(w *Wallet) { w.now = now }
}

// Open loads any persisted customer from store. Unreadable state is logged
// and treated as no customer.
func Open(store storage.Store, opts ...Option) *Wallet {
	w := &Wallet{store: store, now: time.Now}
	for _, opt := range opts {
		opt(w)
	}

	raw, ok, err := store.Get(StorageKey)
	switch {
	case err != nil:
		slog.Error("failed to load loyalty customer", "error", err)
	case ok:
		var c Customer
		if err := json.Unmarshal(raw, &c); err != nil {
			slog.Error("stored loyalty customer is corrupt", "error", err)
		} else {
			w.customer = &c
		}
	}

	if w.customer != nil {
		w.render(w.customer.clone())
	}
	return w
}

// Register replaces any current customer with a fresh zero-point record
func (w *Wallet) Register(name, phone string) error {
	name = strings.TrimSpace(name)
	phone = strings.TrimSpace(phone)
	if name == "" || phone == "" {
		return ErrMissingFields
	}

	w.mu.Lock()
	c := &Customer{Nome: name, Telefone: phone, HistoricoPedidos: []HistoryEntry{}}
	if err := w.persistLocked(c); err != nil {
		w.mu.Unlock()
		return err
	}
	w.customer = c
	snapshot := c.clone()
	w.mu.Unlock()

	slog.Info("loyalty customer registered", "nome", name)
	w.render(snapshot)
	return nil
}

// AddPoints awards floor(total/10) points and records the purchase.
// It is a no-op without a registered customer.
func (w *Wallet) AddPoints(total float64) int {
	return w.AddPurchase(total, "")
}

// AddPurchase is AddPoints with the order type kept in the history entry
func (w *Wallet) AddPurchase(total float64, tipo string) int {
	w.mu.Lock()
	if w.customer == nil {
		w.mu.Unlock()
		return 0
	}

	earned := PointsFor(total)
	if math.IsNaN(total) || math.IsInf(total, 0) || total < 0 {
		total = 0
	}

	updated := w.customer.clone()
	if updated.Pontos > math.MaxInt-earned {
		updated.Pontos = math.MaxInt
	} else {
		updated.Pontos += earned
	}
	now := w.now()
	updated.HistoricoPedidos = append(updated.HistoricoPedidos, HistoryEntry{
		ID:    now.UnixMilli(),
		Tipo:  tipo,
		Valor: total,
		Data:  now.Format("02/01/2006"),
	})

	if err := w.persistLocked(&updated); err != nil {
		w.mu.Unlock()
		slog.Error("failed to persist loyalty points", "error", err)
		return 0
	}
	w.customer = &updated
	w.mu.Unlock()

	if earned > 0 {
		slog.Info("loyalty points added", "points", earned, "total_points", updated.Pontos)
	}
	w.render(updated)
	return earned
}

// Redeem spends points on a reward. Nothing changes on failure.
func (w *Wallet) Redeem(points int) error {
	if points <= 0 {
		return ErrInvalidReward
	}

	w.mu.Lock()
	if w.customer == nil {
		w.mu.Unlock()
		return ErrNotRegistered
	}
	if w.customer.Pontos < points {
		have := w.customer.Pontos
		w.mu.Unlock()
		return fmt.Errorf("%w: need %d, have %d", ErrInsufficientPoints, points, have)
	}

	updated := w.customer.clone()
	updated.Pontos -= points
	if err := w.persistLocked(&updated); err != nil {
		w.mu.Unlock()
		return err
	}
	w.customer = &updated
	w.mu.Unlock()

	w.render(updated)
	return nil
}

// Customer returns a copy of the current record
func (w *Wallet) Customer() (Customer, bool) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.customer == nil {
		return Customer{}, false
	}
	return w.customer.clone(), true
}

// PointsFor converts a purchase total into points
func PointsFor(total float64) int {
	if math.IsNaN(total) || math.IsInf(total, 0) || total <= 0 {
		return 0
	}
	points := math.Floor(total / PointsPerReal)
	if points >= MaxAward {
		return MaxAward
	}
	return int(points)
}

func (w *Wallet) persistLocked(c *Customer) error {
	raw, err := json.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to encode customer: %w", err)
	}
	if err := w.store.Set(StorageKey, raw); err != nil {
		return fmt.Errorf("failed to save customer: %w", err)
	}
	return nil
}

func (w *Wallet) render(c Customer) {
	if w.renderer != nil {
		w.renderer.Render(c)
	}
}

func (c *Customer) clone() Customer {
	out := *c
	out.HistoricoPedidos = append([]HistoryEntry{}, c.HistoricoPedidos...)
	return out
}
