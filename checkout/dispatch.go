// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package checkout

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/danielhkuo/crocante/auth"
	"github.com/danielhkuo/crocante/cart"
	"github.com/danielhkuo/crocante/models"
)

// OrderSaver persists orders; db.OrderRepo implements it
type OrderSaver interface {
	SaveOrder(ctx context.Context, o models.Order) error
}

// StoreDispatcher writes orders straight to the order repository
type StoreDispatcher struct {
	saver OrderSaver
	salt  string
	now   func() time.Time
}

func NewStoreDispatcher(saver OrderSaver, salt string) *StoreDispatcher {
	return &StoreDispatcher{saver: saver, salt: salt, now: time.Now}
}

// Place assigns the order an ID, code and creation time and saves it
func (d *StoreDispatcher) Place(ctx context.Context, o models.Order) (models.Order, error) {
	o.ID = uuid.NewString()
	o.Code = auth.OrderCode(o.ID, d.salt)
	o.CriadoEm = d.now()
	if o.Items == nil {
		o.Items = []models.LineItem{}
	}
	if err := d.saver.SaveOrder(ctx, o); err != nil {
		return models.Order{}, err
	}
	return o, nil
}

func (d *StoreDispatcher) Dispatch(ctx context.Context, o models.Order) (Dispatched, error) {
	placed, err := d.Place(ctx, o)
	if err != nil {
		return Dispatched{}, err
	}
	return Dispatched{OrderID: placed.ID, Code: placed.Code}, nil
}

// APIDispatcher posts orders to a remote POST /api/pedidos endpoint
type APIDispatcher struct {
	BaseURL    string
	HTTPClient *http.Client
}

func NewAPIDispatcher(baseURL string) *APIDispatcher {
	return &APIDispatcher{
		BaseURL:    strings.TrimRight(baseURL, "/"),
		HTTPClient: &http.Client{Timeout: 10 * time.Second},
	}
}

func (d *APIDispatcher) Dispatch(ctx context.Context, o models.Order) (Dispatched, error) {
	body, err := json.Marshal(models.CreateOrderRequest{
		Items:    o.Items,
		Total:    o.Total,
		Date:     o.Date,
		Delivery: o.Delivery,
	})
	if err != nil {
		return Dispatched{}, fmt.Errorf("failed to encode order: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, d.BaseURL+"/api/pedidos", bytes.NewReader(body))
	if err != nil {
		return Dispatched{}, fmt.Errorf("failed to build order request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := d.HTTPClient.Do(req)
	if err != nil {
		return Dispatched{}, fmt.Errorf("failed to post order: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusCreated && resp.StatusCode != http.StatusOK {
		return Dispatched{}, fmt.Errorf("order API returned status %d", resp.StatusCode)
	}

	var created models.Order
	if err := json.NewDecoder(resp.Body).Decode(&created); err != nil {
		return Dispatched{}, fmt.Errorf("failed to decode order response: %w", err)
	}
	if created.ID == "" {
		return Dispatched{}, fmt.Errorf("order API response has no id")
	}
	return Dispatched{OrderID: created.ID, Code: created.Code}, nil
}

// WhatsAppDispatcher formats the order as a message for the store's phone
// and returns the wa.me deep link; nothing leaves the server.
type WhatsAppDispatcher struct {
	phone string
}

func NewWhatsAppDispatcher(phone string) *WhatsAppDispatcher {
	digits := strings.Map(func(r rune) rune {
		if r >= '0' && r <= '9' {
			return r
		}
		return -1
	}, phone)
	return &WhatsAppDispatcher{phone: digits}
}

func (d *WhatsAppDispatcher) Dispatch(_ context.Context, o models.Order) (Dispatched, error) {
	if d.phone == "" {
		return Dispatched{}, fmt.Errorf("no whatsapp destination configured")
	}
	return Dispatched{
		OrderID: uuid.NewString(),
		Link:    d.Link(o),
	}, nil
}

// Link builds https://wa.me/<phone>?text=<message>
func (d *WhatsAppDispatcher) Link(o models.Order) string {
	text := strings.ReplaceAll(url.QueryEscape(Message(o)), "+", "%20")
	return "https://wa.me/" + d.phone + "?text=" + text
}

// Message renders an order as plain text
func Message(o models.Order) string {
	var b strings.Builder
	b.WriteString("Olá! Gostaria de fazer um pedido:\n")
	for _, it := range o.Items {
		fmt.Fprintf(&b, "- %s: %s\n", it.Name, cart.FormatBRL(it.Price))
	}
	fmt.Fprintf(&b, "Total: %s\n", cart.FormatBRL(o.Total))

	if o.Delivery != nil && o.Delivery.Mode == models.DeliveryHome {
		d := o.Delivery
		fmt.Fprintf(&b, "Entrega: %s, %s", d.Rua, d.Numero)
		if d.Complemento != "" {
			fmt.Fprintf(&b, " (%s)", d.Complemento)
		}
		if d.Bairro != "" {
			fmt.Fprintf(&b, " - %s", d.Bairro)
		}
		if d.Cidade != "" {
			fmt.Fprintf(&b, ", %s/%s", d.Cidade, d.Estado)
		}
		fmt.Fprintf(&b, " - CEP %s\n", d.CEP)
	} else {
		b.WriteString("Retirada no local\n")
	}

	if o.Cliente != nil {
		fmt.Fprintf(&b, "Cliente: %s (%s)\n", o.Cliente.Nome, o.Cliente.Telefone)
	}
	return b.String()
}
