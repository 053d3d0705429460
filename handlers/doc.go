// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package handlers contains HTTP request handlers for the Crocante storefront API.

# Handler Types

Database-backed handlers take *sql.DB and Config, like every handler here
used to:

  - OrderHandler: order intake and lookup (POST/GET /api/pedidos)
  - LoyaltyHandler: server-side loyalty program (/api/fidelidade/...)

Session-backed handlers resolve the visitor's page from the X-Session-ID
header and take the session.Manager:

  - SessionHandler: hands out signed session tokens
  - CartHandler: cart view, items and checkout
  - WalletHandler: the loyalty wallet kept in session storage, suggestions
  - ShowcaseHandler: carousel actions and type/flavor selection
  - ThemeHandler: light/dark preference

CatalogHandler and AddressHandler wrap the catalog store and the ViaCEP
client.

# Sessions

	POST /api/sessoes → {"session_id": "...", "token": "<id>.<hmac>"}

The token is also returned in the X-Session-ID response header. A valid token
for a session that has expired is resumed from storage, so the wallet and
theme survive; the cart does not.

# Error Responses

All errors are JSON:

	{"error": "Bad Request", "message": "Pontos insuficientes"}

Messages shown to shoppers are in Portuguese.
*/
package handlers
