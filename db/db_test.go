// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package db

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/danielhkuo/crocante/models"
)

func openTestDB(t *testing.T) *sql.DB {
	t.Helper()
	conn, err := Open("sqlite", ":memory:")
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	t.Cleanup(func() { conn.Close() })
	return conn
}

func TestOpenUnsupportedDriver(t *testing.T) {
	_, err := Open("mysql", "whatever")
	if !errors.Is(err, ErrUnsupportedDriver) {
		t.Errorf("Open() error = %v, want %v", err, ErrUnsupportedDriver)
	}
}

func TestCreateSchemaIsIdempotent(t *testing.T) {
	conn := openTestDB(t)
	if err := CreateSchema(conn); err != nil {
		t.Fatalf("second CreateSchema() error = %v", err)
	}
}

func TestOrderRepoRoundTrip(t *testing.T) {
	conn := openTestDB(t)
	repo := NewOrderRepo(conn)
	ctx := context.Background()

	created := time.Date(2025, 3, 14, 15, 9, 26, 535000000, time.UTC)
	order := models.Order{
		ID:    "order-1",
		Code:  "abc123",
		Items: []models.LineItem{{Name: "Coxinha de Frango", Price: 7.5}, {Name: "Refrigerante", Price: 5}},
		Total: 12.5,
		Date:  "14/03/2025",
		Delivery: &models.Delivery{
			Mode: models.DeliveryHome, CEP: "01001000", Rua: "Praça da Sé", Numero: "1",
		},
		Cliente:   &models.OrderCustomer{Nome: "Ana", Telefone: "11999999999"},
		ClienteID: "c1",
		CriadoEm:  created,
	}

	if err := repo.SaveOrder(ctx, order); err != nil {
		t.Fatalf("SaveOrder() error = %v", err)
	}

	got, err := repo.GetOrder(ctx, "order-1")
	if err != nil {
		t.Fatalf("GetOrder() error = %v", err)
	}
	if diff := cmp.Diff(order, got); diff != "" {
		t.Errorf("GetOrder() mismatch (-want +got):\n%s", diff)
	}
}

func TestOrderRepoPickupHasNoDelivery(t *testing.T) {
	conn := openTestDB(t)
	repo := NewOrderRepo(conn)
	ctx := context.Background()

	order := models.Order{ID: "o", Code: "c", Items: []models.LineItem{{Name: "Empada", Price: 6}}, Total: 6, CriadoEm: time.Now()}
	if err := repo.SaveOrder(ctx, order); err != nil {
		t.Fatalf("SaveOrder() error = %v", err)
	}
	got, err := repo.GetOrder(ctx, "o")
	if err != nil {
		t.Fatalf("GetOrder() error = %v", err)
	}
	if got.Delivery != nil || got.Cliente != nil || got.ClienteID != "" {
		t.Errorf("expected empty optional fields, got %+v", got)
	}
}

func TestOrderRepoNotFound(t *testing.T) {
	repo := NewOrderRepo(openTestDB(t))
	_, err := repo.GetOrder(context.Background(), "missing")
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("GetOrder() error = %v, want %v", err, ErrNotFound)
	}
}

func TestOrderRepoDuplicateCode(t *testing.T) {
	repo := NewOrderRepo(openTestDB(t))
	ctx := context.Background()

	o := models.Order{ID: "a", Code: "same", Items: []models.LineItem{}, CriadoEm: time.Now()}
	if err := repo.SaveOrder(ctx, o); err != nil {
		t.Fatal(err)
	}
	o.ID = "b"
	if err := repo.SaveOrder(ctx, o); err == nil {
		t.Error("expected unique violation on code")
	}
}

func TestListOrdersNewestFirst(t *testing.T) {
	repo := NewOrderRepo(openTestDB(t))
	ctx := context.Background()
	base := time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)

	for i, id := range []string{"first", "second", "third"} {
		o := models.Order{ID: id, Code: id, Items: []models.LineItem{}, CriadoEm: base.Add(time.Duration(i) * time.Second)}
		if err := repo.SaveOrder(ctx, o); err != nil {
			t.Fatal(err)
		}
	}

	orders, err := repo.ListOrders(ctx, 2)
	if err != nil {
		t.Fatalf("ListOrders() error = %v", err)
	}
	var ids []string
	for _, o := range orders {
		ids = append(ids, o.ID)
	}
	if diff := cmp.Diff([]string{"third", "second"}, ids); diff != "" {
		t.Errorf("ListOrders() order mismatch (-want +got):\n%s", diff)
	}
}

func TestLoyaltyRegister(t *testing.T) {
	repo := NewLoyaltyRepo(openTestDB(t))
	ctx := context.Background()

	c, err := repo.Register(ctx, " Ana ", "11999999999")
	if err != nil {
		t.Fatalf("Register() error = %v", err)
	}
	if c.ID == "" || c.Nome != "Ana" || c.Pontos != 0 {
		t.Errorf("Register() = %+v", c)
	}

	if _, err := repo.Register(ctx, "", "1"); !errors.Is(err, ErrMissingFields) {
		t.Errorf("Register() error = %v, want %v", err, ErrMissingFields)
	}

	got, err := repo.GetCustomer(ctx, c.ID)
	if err != nil {
		t.Fatalf("GetCustomer() error = %v", err)
	}
	if got.Nome != "Ana" {
		t.Errorf("GetCustomer() nome = %q", got.Nome)
	}
}

func TestLoyaltyFirstCustomer(t *testing.T) {
	repo := NewLoyaltyRepo(openTestDB(t))
	ctx := context.Background()

	if _, err := repo.FirstCustomer(ctx); !errors.Is(err, ErrNotFound) {
		t.Errorf("FirstCustomer() on empty table error = %v, want %v", err, ErrNotFound)
	}

	clock := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	repo.now = func() time.Time { clock = clock.Add(time.Second); return clock }

	first, _ := repo.Register(ctx, "Ana", "1")
	repo.Register(ctx, "Bia", "2")

	got, err := repo.FirstCustomer(ctx)
	if err != nil {
		t.Fatalf("FirstCustomer() error = %v", err)
	}
	if got.ID != first.ID {
		t.Errorf("FirstCustomer() = %s, want %s", got.ID, first.ID)
	}
}

func TestLoyaltyPointsMovements(t *testing.T) {
	repo := NewLoyaltyRepo(openTestDB(t))
	ctx := context.Background()
	c, _ := repo.Register(ctx, "Ana", "11999999999")

	after, err := repo.AddPoints(ctx, c.ID, 12, "Pedido abc")
	if err != nil {
		t.Fatalf("AddPoints() error = %v", err)
	}
	if after.Pontos != 12 {
		t.Errorf("AddPoints() pontos = %d, want 12", after.Pontos)
	}

	if _, err := repo.Redeem(ctx, c.ID, 50); !errors.Is(err, ErrInsufficientPoints) {
		t.Errorf("Redeem() error = %v, want %v", err, ErrInsufficientPoints)
	}
	unchanged, _ := repo.GetCustomer(ctx, c.ID)
	if unchanged.Pontos != 12 {
		t.Errorf("failed Redeem() changed balance to %d", unchanged.Pontos)
	}

	after, err = repo.Redeem(ctx, c.ID, 10)
	if err != nil {
		t.Fatalf("Redeem() error = %v", err)
	}
	if after.Pontos != 2 {
		t.Errorf("Redeem() pontos = %d, want 2", after.Pontos)
	}

	txs, err := repo.Transactions(ctx, c.ID)
	if err != nil {
		t.Fatalf("Transactions() error = %v", err)
	}
	if len(txs) != 2 {
		t.Fatalf("Transactions() len = %d, want 2", len(txs))
	}
	if txs[1].Descricao != RedeemDescription || txs[1].Pontos != -10 {
		t.Errorf("redeem transaction = %+v", txs[1])
	}
}

func TestLoyaltyMovementErrors(t *testing.T) {
	repo := NewLoyaltyRepo(openTestDB(t))
	ctx := context.Background()

	if _, err := repo.Redeem(ctx, "nobody", 5); !errors.Is(err, ErrNotFound) {
		t.Errorf("Redeem() unknown customer error = %v, want %v", err, ErrNotFound)
	}
	if _, err := repo.Redeem(ctx, "nobody", 0); !errors.Is(err, ErrInvalidPoints) {
		t.Errorf("Redeem(0) error = %v, want %v", err, ErrInvalidPoints)
	}
	if _, err := repo.AddPoints(ctx, "nobody", -1, "x"); !errors.Is(err, ErrInvalidPoints) {
		t.Errorf("AddPoints(-1) error = %v, want %v", err, ErrInvalidPoints)
	}
}
