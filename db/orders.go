// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package db

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/danielhkuo/crocante/models"
)

type OrderRepo struct {
	db *sql.DB
}

func NewOrderRepo(db *sql.DB) *OrderRepo {
	return &OrderRepo{db: db}
}

// SaveOrder inserts a fully-formed order (ID, code and timestamp set)
func (r *OrderRepo) SaveOrder(ctx context.Context, o models.Order) error {
	itemsJSON, err := json.Marshal(o.Items)
	if err != nil {
		return fmt.Errorf("failed to marshal items: %w", err)
	}
	deliveryJSON, err := marshalNullable(o.Delivery)
	if err != nil {
		return fmt.Errorf("failed to marshal delivery: %w", err)
	}
	clienteJSON, err := marshalNullable(o.Cliente)
	if err != nil {
		return fmt.Errorf("failed to marshal customer: %w", err)
	}

	_, err = r.db.ExecContext(ctx, `
		INSERT INTO pedido (id, code, items_json, total, order_date, delivery_json, cliente_json, cliente_id, criado_em)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`, o.ID, o.Code, string(itemsJSON), o.Total, o.Date, deliveryJSON, clienteJSON, nullString(o.ClienteID), formatTime(o.CriadoEm))
	if err != nil {
		return fmt.Errorf("failed to insert order: %w", err)
	}
	return nil
}

func (r *OrderRepo) GetOrder(ctx context.Context, id string) (models.Order, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT id, code, items_json, total, order_date, delivery_json, cliente_json, cliente_id, criado_em
		FROM pedido WHERE id = $1
	`, id)
	o, err := scanOrder(row)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Order{}, ErrNotFound
	}
	return o, err
}

// ListOrders returns the newest orders first
func (r *OrderRepo) ListOrders(ctx context.Context, limit int) ([]models.Order, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, code, items_json, total, order_date, delivery_json, cliente_json, cliente_id, criado_em
		FROM pedido ORDER BY criado_em DESC LIMIT $1
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query orders: %w", err)
	}
	defer rows.Close()

	orders := []models.Order{}
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, err
		}
		orders = append(orders, o)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate orders: %w", err)
	}
	return orders, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanOrder(s scanner) (models.Order, error) {
	var (
		o                         models.Order
		itemsJSON, criadoEm       string
		deliveryJSON, clienteJSON sql.NullString
		clienteID                 sql.NullString
	)
	err := s.Scan(&o.ID, &o.Code, &itemsJSON, &o.Total, &o.Date, &deliveryJSON, &clienteJSON, &clienteID, &criadoEm)
	if errors.Is(err, sql.ErrNoRows) {
		return o, err
	}
	if err != nil {
		return o, fmt.Errorf("failed to scan order: %w", err)
	}

	if err := json.Unmarshal([]byte(itemsJSON), &o.Items); err != nil {
		return o, fmt.Errorf("failed to unmarshal items: %w", err)
	}
	if deliveryJSON.Valid {
		o.Delivery = &models.Delivery{}
		if err := json.Unmarshal([]byte(deliveryJSON.String), o.Delivery); err != nil {
			return o, fmt.Errorf("failed to unmarshal delivery: %w", err)
		}
	}
	if clienteJSON.Valid {
		o.Cliente = &models.OrderCustomer{}
		if err := json.Unmarshal([]byte(clienteJSON.String), o.Cliente); err != nil {
			return o, fmt.Errorf("failed to unmarshal customer: %w", err)
		}
	}
	o.ClienteID = clienteID.String
	o.CriadoEm = parseTime(criadoEm)
	return o, nil
}

func marshalNullable[T any](v *T) (sql.NullString, error) {
	if v == nil {
		return sql.NullString{}, nil
	}
	b, err := json.Marshal(v)
	if err != nil {
		return sql.NullString{}, err
	}
	return sql.NullString{String: string(b), Valid: true}, nil
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
