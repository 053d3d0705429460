// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package checkout

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/danielhkuo/crocante/cart"
	"github.com/danielhkuo/crocante/loyalty"
	"github.com/danielhkuo/crocante/models"
)

var (
	ErrEmptyCart         = errors.New("empty cart")
	ErrIncompleteAddress = errors.New("incomplete delivery address")
	ErrDispatchFailed    = errors.New("order dispatch failed")
)

// Cart is the part of cart.Store checkout needs
type Cart interface {
	Items() []cart.Item
	Settle(items []cart.Item)
}

// Wallet is the part of loyalty.Wallet checkout needs
type Wallet interface {
	Customer() (loyalty.Customer, bool)
	AddPurchase(total float64, tipo string) int
}

// Dispatched is what a dispatcher reports back about a sent order
type Dispatched struct {
	OrderID string
	Code    string
	Link    string
}

// Dispatcher sends an order somewhere: the database, a remote order API, or a
// messaging deep link.
type Dispatcher interface {
	Dispatch(ctx context.Context, order models.Order) (Dispatched, error)
}

type Receipt struct {
	OrderID      string  `json:"order_id,omitempty"`
	Code         string  `json:"code,omitempty"`
	Link         string  `json:"link,omitempty"`
	Total        float64 `json:"total"`
	PointsEarned int     `json:"points_earned"`
	Message      string  `json:"message"`
}

type Service struct {
	dispatcher Dispatcher
	now        func() time.Time
}

func NewService(d Dispatcher) *Service {
	return &Service{dispatcher: d, now: time.Now}
}

// Checkout validates, dispatches and then settles: points are awarded and the
// cart cleared only after a successful dispatch. The wallet may be nil.
func (s *Service) Checkout(ctx context.Context, c Cart, w Wallet, d models.Delivery) (Receipt, error) {
	items := c.Items()
	if len(items) == 0 {
		return Receipt{}, ErrEmptyCart
	}
	if err := ValidateDelivery(d); err != nil {
		return Receipt{}, err
	}

	// items and total come from one snapshot; the cart may change during
	// dispatch
	total := cart.Sum(items)
	order := models.Order{
		Items: make([]models.LineItem, len(items)),
		Total: total,
		Date:  s.now().Format("02/01/2006"),
	}
	for i, it := range items {
		order.Items[i] = models.LineItem{Name: it.Name, Price: it.Price}
	}
	if d.Mode == models.DeliveryHome {
		dd := d
		order.Delivery = &dd
	}
	if w != nil {
		if customer, ok := w.Customer(); ok {
			order.Cliente = &models.OrderCustomer{Nome: customer.Nome, Telefone: customer.Telefone}
		}
	}

	sent, err := s.dispatcher.Dispatch(ctx, order)
	if err != nil {
		slog.Error("order dispatch failed", "items", len(items), "total", total, "error", err)
		return Receipt{}, fmt.Errorf("%w: %w", ErrDispatchFailed, err)
	}

	earned := 0
	if w != nil {
		earned = w.AddPurchase(total, OrderType(items))
	}
	c.Settle(items)

	slog.Info("checkout completed", "order_id", sent.OrderID, "total", total, "points", earned)
	return Receipt{
		OrderID:      sent.OrderID,
		Code:         sent.Code,
		Link:         sent.Link,
		Total:        total,
		PointsEarned: earned,
		Message:      "Pedido finalizado com sucesso! Valor total: " + cart.FormatBRL(total),
	}, nil
}

// ValidateDelivery requires CEP, street and number for home delivery
func ValidateDelivery(d models.Delivery) error {
	switch d.Mode {
	case "", models.DeliveryPickup:
		return nil
	case models.DeliveryHome:
		if strings.TrimSpace(d.CEP) == "" || strings.TrimSpace(d.Rua) == "" || strings.TrimSpace(d.Numero) == "" {
			return ErrIncompleteAddress
		}
		return nil
	default:
		return fmt.Errorf("%w: unknown mode %q", ErrIncompleteAddress, d.Mode)
	}
}

// OrderType is the lowercased first word of the first item, e.g. "coxinha"
// for "Coxinha de Frango"
func OrderType(items []cart.Item) string {
	if len(items) == 0 {
		return ""
	}
	fields := strings.Fields(items[0].Name)
	if len(fields) == 0 {
		return ""
	}
	return strings.ToLower(fields[0])
}

// UserMessage is the text shown to the visitor for a checkout error
func UserMessage(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrEmptyCart):
		return "Seu carrinho está vazio."
	case errors.Is(err, ErrIncompleteAddress):
		return "Por favor, preencha o endereço completo para entrega."
	case errors.Is(err, ErrDispatchFailed):
		return "Ocorreu um erro de rede. Tente novamente mais tarde."
	default:
		return "Não foi possível finalizar o pedido."
	}
}
