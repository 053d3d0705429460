// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"database/sql"
	"errors"
	"log/slog"
	"net/http"

	"github.com/danielhkuo/crocante/auth"
	"github.com/danielhkuo/crocante/cliparse"
	"github.com/danielhkuo/crocante/db"
	"github.com/danielhkuo/crocante/middleware"
	"github.com/danielhkuo/crocante/models"
)

// LoyaltyHandler serves the server-side loyalty program
type LoyaltyHandler struct {
	cfg  cliparse.Config
	repo *db.LoyaltyRepo
}

func NewLoyaltyHandler(conn *sql.DB, cfg cliparse.Config) *LoyaltyHandler {
	return &LoyaltyHandler{cfg: cfg, repo: db.NewLoyaltyRepo(conn)}
}

// Register handles POST /api/fidelidade/cadastrar
func (h *LoyaltyHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req models.RegisterCustomerRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	customer, err := h.repo.Register(r.Context(), req.Nome, req.Telefone)
	if errors.Is(err, db.ErrMissingFields) {
		middleware.ErrorResponse(w, http.StatusBadRequest, "nome and telefone are required")
		return
	}
	if err != nil {
		slog.Error("failed to register customer", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Erro ao cadastrar cliente")
		return
	}

	slog.Info("customer registered", "cliente_id", customer.ID, "phone_hash", auth.HashPhone(customer.Telefone, h.cfg.SessionSalt))

	middleware.JSONResponse(w, http.StatusCreated, customer)
}

// Balance handles GET /api/fidelidade/saldo
func (h *LoyaltyHandler) Balance(w http.ResponseWriter, r *http.Request) {
	customer, ok := h.customer(w, r)
	if !ok {
		return
	}

	history, err := h.repo.Transactions(r.Context(), customer.ID)
	if err != nil {
		slog.Error("failed to load transactions", "cliente_id", customer.ID, "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	middleware.JSONResponse(w, http.StatusOK, models.BalanceResponse{
		Pontos:    customer.Pontos,
		Historico: history,
	})
}

// Redeem handles POST /api/fidelidade/resgatar
func (h *LoyaltyHandler) Redeem(w http.ResponseWriter, r *http.Request) {
	var req models.RedeemRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	customer, ok := h.customer(w, r)
	if !ok {
		return
	}

	updated, err := h.repo.Redeem(r.Context(), customer.ID, req.Pontos)
	switch {
	case errors.Is(err, db.ErrInsufficientPoints):
		middleware.ErrorResponse(w, http.StatusBadRequest, "Pontos insuficientes")
		return
	case errors.Is(err, db.ErrInvalidPoints):
		middleware.ErrorResponse(w, http.StatusBadRequest, "pontos must be positive")
		return
	case err != nil:
		slog.Error("failed to redeem points", "cliente_id", customer.ID, "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	slog.Info("points redeemed", "cliente_id", customer.ID, "pontos", req.Pontos, "saldo", updated.Pontos)

	middleware.JSONResponse(w, http.StatusOK, models.RedeemResponse{Sucesso: true, Pontos: updated.Pontos})
}

// customer resolves X-Customer-ID, falling back to the first registered
// customer when the header is absent
func (h *LoyaltyHandler) customer(w http.ResponseWriter, r *http.Request) (models.Customer, bool) {
	var (
		customer models.Customer
		err      error
	)
	if id := r.Header.Get(middleware.CustomerHeader); id != "" {
		customer, err = h.repo.GetCustomer(r.Context(), id)
	} else {
		customer, err = h.repo.FirstCustomer(r.Context())
	}

	if errors.Is(err, db.ErrNotFound) {
		middleware.ErrorResponse(w, http.StatusNotFound, "Cliente não encontrado")
		return models.Customer{}, false
	}
	if err != nil {
		slog.Error("failed to load customer", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return models.Customer{}, false
	}
	return customer, true
}
