// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package db handles the connection, schema and repositories for orders and
loyalty customers.

# Connecting

Open picks the driver from the configured type, pings and creates the schema:

	conn, err := db.Open("sqlite", "file:crocante.db")
	conn, err := db.Open("postgres", "postgres://...")

sqlite runs on modernc.org/sqlite with a single open connection, which also
keeps ":memory:" databases usable from tests. Postgres runs on lib/pq.

Safe to call multiple times - uses IF NOT EXISTS for all tables and indexes.

# Tables

  - pedido: Registered orders (items and delivery stored as JSON text)
  - cliente: Loyalty customers and their point balance
  - transacao: Point movements per customer

# Relationships

	cliente 1──* transacao

Timestamps are stored as fixed-width UTC text so they sort the same on both
drivers.

# Repositories

OrderRepo saves, fetches and lists orders. LoyaltyRepo registers customers,
adds points and redeems them inside a transaction; a redemption larger than
the balance returns ErrInsufficientPoints and changes nothing.
*/
package db
