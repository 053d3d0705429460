// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package db

import (
	"database/sql"
	"fmt"
)

// CreateSchema creates all tables needed for the application.
// Safe to call multiple times - uses IF NOT EXISTS.
func CreateSchema(db *sql.DB) error {
	_, err := db.Exec(schema)
	if err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}

	return nil
}

// Timestamps are RFC 3339 text so the same schema runs on sqlite and postgres.
const schema = `
-- Orders
CREATE TABLE IF NOT EXISTS pedido (
    id TEXT PRIMARY KEY,
    code TEXT NOT NULL UNIQUE,
    items_json TEXT NOT NULL,
    total REAL NOT NULL CHECK (total >= 0),
    order_date TEXT NOT NULL,
    delivery_json TEXT,
    cliente_json TEXT,
    cliente_id TEXT,
    criado_em TEXT NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_pedido_criado_em ON pedido(criado_em);

-- Loyalty customers
CREATE TABLE IF NOT EXISTS cliente (
    id TEXT PRIMARY KEY,
    nome TEXT NOT NULL,
    telefone TEXT NOT NULL,
    pontos INTEGER NOT NULL DEFAULT 0 CHECK (pontos >= 0),
    criado_em TEXT NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_cliente_criado_em ON cliente(criado_em);

-- Points movements
CREATE TABLE IF NOT EXISTS transacao (
    id TEXT PRIMARY KEY,
    cliente_id TEXT NOT NULL REFERENCES cliente(id) ON DELETE CASCADE,
    descricao TEXT NOT NULL,
    pontos INTEGER NOT NULL,
    criado_em TEXT NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_transacao_cliente_id ON transacao(cliente_id);
`
