// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package router

import (
	"database/sql"
	"net/http"

	"github.com/danielhkuo/crocante/catalog"
	"github.com/danielhkuo/crocante/cep"
	"github.com/danielhkuo/crocante/checkout"
	"github.com/danielhkuo/crocante/cliparse"
	"github.com/danielhkuo/crocante/handlers"
	"github.com/danielhkuo/crocante/middleware"
	"github.com/danielhkuo/crocante/session"
)

// Services are the long-lived components shared by the handlers
type Services struct {
	Catalogs *catalog.Store
	Sessions *session.Manager
	CEP      *cep.Client
	Checkout *checkout.Service
}

func NewRouter(db *sql.DB, cfg cliparse.Config, svc Services) *http.ServeMux {
	mux := http.NewServeMux()

	// Initialize handlers
	orderHandler := handlers.NewOrderHandler(db, cfg)
	loyaltyHandler := handlers.NewLoyaltyHandler(db, cfg)
	catalogHandler := handlers.NewCatalogHandler(svc.Catalogs)
	addressHandler := handlers.NewAddressHandler(svc.CEP)
	sessionHandler := handlers.NewSessionHandler(svc.Sessions, cfg)
	cartHandler := handlers.NewCartHandler(svc.Sessions, cfg, svc.Checkout)
	walletHandler := handlers.NewWalletHandler(svc.Sessions, cfg)
	showcaseHandler := handlers.NewShowcaseHandler(svc.Sessions, cfg)
	themeHandler := handlers.NewThemeHandler(svc.Sessions, cfg)

	// Health check
	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})

	// Order endpoint
	mux.HandleFunc("POST /api/pedidos", middleware.WithLogging(orderHandler.CreateOrder))
	mux.HandleFunc("GET /api/pedidos", middleware.WithLogging(orderHandler.ListOrders))
	mux.HandleFunc("GET /api/pedidos/{id}", middleware.WithLogging(orderHandler.GetOrder))

	// Loyalty endpoints
	mux.HandleFunc("POST /api/fidelidade/cadastrar", middleware.WithLogging(loyaltyHandler.Register))
	mux.HandleFunc("GET /api/fidelidade/saldo", middleware.WithLogging(loyaltyHandler.Balance))
	mux.HandleFunc("POST /api/fidelidade/resgatar", middleware.WithLogging(loyaltyHandler.Redeem))

	// Menu and address lookup (public)
	mux.HandleFunc("GET /api/catalogo/tipos", middleware.WithLogging(catalogHandler.ListTypes))
	mux.HandleFunc("GET /api/catalogo/tipos/{tipo}/sabores", middleware.WithLogging(catalogHandler.ListFlavors))
	mux.HandleFunc("GET /api/catalogo/produtos", middleware.WithLogging(catalogHandler.ListProducts))
	mux.HandleFunc("GET /api/avaliacoes", middleware.WithLogging(catalogHandler.ListReviews))
	mux.HandleFunc("GET /api/cep/{cep}", middleware.WithLogging(addressHandler.Lookup))

	// Visitor sessions (X-Session-ID)
	mux.HandleFunc("POST /api/sessoes", middleware.WithLogging(sessionHandler.Create))

	mux.HandleFunc("GET /api/carrinho", middleware.WithLogging(cartHandler.GetCart))
	mux.HandleFunc("POST /api/carrinho/itens", middleware.WithLogging(cartHandler.AddItem))
	mux.HandleFunc("DELETE /api/carrinho/itens/{index}", middleware.WithLogging(cartHandler.RemoveItem))
	mux.HandleFunc("POST /api/carrinho/finalizar", middleware.WithLogging(cartHandler.Checkout))

	mux.HandleFunc("POST /api/carteira/cadastrar", middleware.WithLogging(walletHandler.Register))
	mux.HandleFunc("GET /api/carteira", middleware.WithLogging(walletHandler.Get))
	mux.HandleFunc("POST /api/carteira/resgatar", middleware.WithLogging(walletHandler.Redeem))
	mux.HandleFunc("GET /api/sugestoes", middleware.WithLogging(walletHandler.Suggestions))

	mux.HandleFunc("GET /api/vitrine", middleware.WithLogging(showcaseHandler.Get))
	mux.HandleFunc("POST /api/vitrine/tipo", middleware.WithLogging(showcaseHandler.SelectType))
	mux.HandleFunc("POST /api/vitrine/sabor", middleware.WithLogging(showcaseHandler.SelectFlavor))
	mux.HandleFunc("POST /api/vitrine/{carousel}/{action}", middleware.WithLogging(showcaseHandler.Action))

	mux.HandleFunc("GET /api/tema", middleware.WithLogging(themeHandler.Get))
	mux.HandleFunc("POST /api/tema/alternar", middleware.WithLogging(themeHandler.Toggle))

	// Root endpoint
	mux.HandleFunc("GET /", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("crocante API v1"))
	})

	return mux
}
