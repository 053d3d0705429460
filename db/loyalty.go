// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/danielhkuo/crocante/auth"
	"github.com/danielhkuo/crocante/models"
)

var (
	ErrMissingFields      = errors.New("nome and telefone are required")
	ErrInvalidPoints      = errors.New("points must be positive")
	ErrInsufficientPoints = errors.New("insufficient points")
)

const RedeemDescription = "Resgate de recompensa"

type LoyaltyRepo struct {
	db  *sql.DB
	now func() time.Time
}

func NewLoyaltyRepo(db *sql.DB) *LoyaltyRepo {
	return &LoyaltyRepo{db: db, now: time.Now}
}

func (r *LoyaltyRepo) Register(ctx context.Context, nome, telefone string) (models.Customer, error) {
	nome, telefone = strings.TrimSpace(nome), strings.TrimSpace(telefone)
	if nome == "" || telefone == "" {
		return models.Customer{}, ErrMissingFields
	}

	id, err := auth.GenerateID(8)
	if err != nil {
		return models.Customer{}, err
	}
	c := models.Customer{ID: id, Nome: nome, Telefone: telefone, CriadoEm: r.now()}

	_, err = r.db.ExecContext(ctx, `
		INSERT INTO cliente (id, nome, telefone, pontos, criado_em)
		VALUES ($1, $2, $3, 0, $4)
	`, c.ID, c.Nome, c.Telefone, formatTime(c.CriadoEm))
	if err != nil {
		return models.Customer{}, fmt.Errorf("failed to insert customer: %w", err)
	}
	return c, nil
}

func (r *LoyaltyRepo) GetCustomer(ctx context.Context, id string) (models.Customer, error) {
	return r.queryCustomer(ctx, r.db, `
		SELECT id, nome, telefone, pontos, criado_em FROM cliente WHERE id = $1
	`, id)
}

// FirstCustomer is the oldest registration
func (r *LoyaltyRepo) FirstCustomer(ctx context.Context) (models.Customer, error) {
	return r.queryCustomer(ctx, r.db, `
		SELECT id, nome, telefone, pontos, criado_em FROM cliente ORDER BY criado_em ASC, id ASC LIMIT 1
	`)
}

type querier interface {
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

func (r *LoyaltyRepo) queryCustomer(ctx context.Context, q querier, query string, args ...any) (models.Customer, error) {
	var c models.Customer
	var criadoEm string
	err := q.QueryRowContext(ctx, query, args...).Scan(&c.ID, &c.Nome, &c.Telefone, &c.Pontos, &criadoEm)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Customer{}, ErrNotFound
	}
	if err != nil {
		return models.Customer{}, fmt.Errorf("failed to query customer: %w", err)
	}
	c.CriadoEm = parseTime(criadoEm)
	return c, nil
}

// Transactions lists a customer's points movements, oldest first
func (r *LoyaltyRepo) Transactions(ctx context.Context, clienteID string) ([]models.Transaction, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT cliente_id, descricao, pontos, criado_em
		FROM transacao WHERE cliente_id = $1 ORDER BY criado_em ASC
	`, clienteID)
	if err != nil {
		return nil, fmt.Errorf("failed to query transactions: %w", err)
	}
	defer rows.Close()

	txs := []models.Transaction{}
	for rows.Next() {
		var t models.Transaction
		var criadoEm string
		if err := rows.Scan(&t.ClienteID, &t.Descricao, &t.Pontos, &criadoEm); err != nil {
			return nil, fmt.Errorf("failed to scan transaction: %w", err)
		}
		t.CriadoEm = parseTime(criadoEm)
		txs = append(txs, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate transactions: %w", err)
	}
	return txs, nil
}

// AddPoints credits points and records the movement
func (r *LoyaltyRepo) AddPoints(ctx context.Context, clienteID string, pontos int, descricao string) (models.Customer, error) {
	if pontos <= 0 {
		return models.Customer{}, ErrInvalidPoints
	}
	return r.move(ctx, clienteID, pontos, descricao)
}

// Redeem debits points; a short balance returns ErrInsufficientPoints and
// changes nothing.
func (r *LoyaltyRepo) Redeem(ctx context.Context, clienteID string, pontos int) (models.Customer, error) {
	if pontos <= 0 {
		return models.Customer{}, ErrInvalidPoints
	}
	return r.move(ctx, clienteID, -pontos, RedeemDescription)
}

func (r *LoyaltyRepo) move(ctx context.Context, clienteID string, delta int, descricao string) (models.Customer, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return models.Customer{}, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx, `
		UPDATE cliente SET pontos = pontos + $1 WHERE id = $2 AND pontos + $1 >= 0
	`, delta, clienteID)
	if err != nil {
		return models.Customer{}, fmt.Errorf("failed to update points: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return models.Customer{}, fmt.Errorf("failed to update points: %w", err)
	}
	if n == 0 {
		// either the customer is missing or the balance is short
		if _, err := r.queryCustomer(ctx, tx, `SELECT id, nome, telefone, pontos, criado_em FROM cliente WHERE id = $1`, clienteID); err != nil {
			return models.Customer{}, err
		}
		return models.Customer{}, ErrInsufficientPoints
	}

	_, err = tx.ExecContext(ctx, `
		INSERT INTO transacao (id, cliente_id, descricao, pontos, criado_em)
		VALUES ($1, $2, $3, $4, $5)
	`, uuid.NewString(), clienteID, descricao, delta, formatTime(r.now()))
	if err != nil {
		return models.Customer{}, fmt.Errorf("failed to insert transaction: %w", err)
	}

	c, err := r.queryCustomer(ctx, tx, `SELECT id, nome, telefone, pontos, criado_em FROM cliente WHERE id = $1`, clienteID)
	if err != nil {
		return models.Customer{}, err
	}
	if err := tx.Commit(); err != nil {
		return models.Customer{}, fmt.Errorf("failed to commit points: %w", err)
	}
	return c, nil
}
