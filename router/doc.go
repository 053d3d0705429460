// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package router defines HTTP routes for the Crocante storefront API.

# Route Registration

NewRouter creates a configured http.ServeMux with all endpoints:

	mux := router.NewRouter(db, cfg, router.Services{
		Catalogs: catalogs,
		Sessions: manager,
		CEP:      cep.NewClient(cfg.CEPBaseURL),
		Checkout: checkout.NewService(dispatcher),
	})

# Endpoints

Health:

	GET /health

Orders and loyalty (database backed):

	POST /api/pedidos                 - Register an order
	GET  /api/pedidos                 - Recent orders (?limit=)
	GET  /api/pedidos/{id}            - Fetch one order
	POST /api/fidelidade/cadastrar    - Register a loyalty customer
	GET  /api/fidelidade/saldo        - Balance and history (X-Customer-ID)
	POST /api/fidelidade/resgatar     - Redeem points

Menu (public):

	GET /api/catalogo/tipos                - Snack types
	GET /api/catalogo/tipos/{tipo}/sabores - Flavors of a type
	GET /api/catalogo/produtos             - Suggestion products
	GET /api/avaliacoes                    - Customer reviews with star rows
	GET /api/cep/{cep}                     - Address lookup

Visitor session (X-Session-ID, issued by POST /api/sessoes):

	GET    /api/carrinho                       - Cart view
	POST   /api/carrinho/itens                 - Add an item
	DELETE /api/carrinho/itens/{index}         - Remove an item
	POST   /api/carrinho/finalizar             - Checkout
	POST   /api/carteira/cadastrar             - Register the session wallet
	GET    /api/carteira                       - Wallet
	POST   /api/carteira/resgatar              - Redeem wallet points
	GET    /api/sugestoes                      - Suggestions
	GET    /api/vitrine                        - Carousels and selection
	POST   /api/vitrine/tipo                   - Select a type
	POST   /api/vitrine/sabor                  - Select a flavor
	POST   /api/vitrine/{carousel}/{action}    - Drive a carousel
	GET    /api/tema                           - Current theme
	POST   /api/tema/alternar                  - Toggle theme
*/
package router
