// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package main provides the entry point for the Crocante storefront API.

Crocante sells savory snacks (coxinhas, empadas and friends). The server keeps
one session per visitor with a cart, a loyalty wallet, a theme preference and
two showcase carousels, and registers orders in a database or forwards them
to an order API or WhatsApp.

# Starting the Server

	SESSION_SALT=... go run .

Or with flags:

	go run . -p 3318 -t postgres -d "postgres://..." --salt dev-salt

A .env file in the working directory is loaded first when present.

# Configuration

Required settings:

  - SESSION_SALT (--salt): Secret for session token HMAC

Optional settings:

  - PORT (-p): Server port (default: 3318)
  - DATABASE_TYPE (-t): sqlite or postgres (default: sqlite)
  - DATABASE_URL (-d): Connection string (default: file:crocante.db)
  - CATALOG_PATH (--catalog): Menu YAML, watched for changes (default: built-in)
  - DATA_DIR (--data): Visitor storage directory (default: data)
  - CHECKOUT_MODE (--checkout): store, api or whatsapp (default: store)
  - ORDER_API_URL (--order-api): Required for api checkout
  - WHATSAPP_PHONE (--whatsapp): Required for whatsapp checkout
  - CEP_BASE_URL (--cep-url): ViaCEP base URL
  - CAROUSEL_INTERVAL, CAROUSEL_RESUME_DELAY, REVIEW_INTERVAL, SESSION_TTL: durations

# Architecture

  - handlers: HTTP request handlers (orders, loyalty, catalog, session API)
  - router: Route definitions using Go 1.22+ routing
  - middleware: CORS, logging, JSON helpers
  - session: Per-visitor state and the idle sweeper
  - carousel: Auto-advancing slide controllers
  - cart, loyalty, prefs: Session components
  - catalog: Menu model and hot reload
  - checkout: Order assembly and dispatch
  - cep: Postal code lookup
  - storage: Key/value persistence for visitor state
  - db: Orders and loyalty customers
  - auth: Session tokens and hashing
  - cliparse: Configuration parsing

The HTTP server, the catalog watcher and the session sweeper run in one
errgroup and stop together on SIGINT or SIGTERM.
*/
package main
