// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/danielhkuo/crocante/catalog"
	"github.com/danielhkuo/crocante/cliparse"
	"github.com/danielhkuo/crocante/loyalty"
	"github.com/danielhkuo/crocante/middleware"
	"github.com/danielhkuo/crocante/models"
	"github.com/danielhkuo/crocante/session"
)

// WalletHandler serves the loyalty wallet kept in the visitor's own storage
type WalletHandler struct {
	sessions sessions
}

func NewWalletHandler(manager *session.Manager, cfg cliparse.Config) *WalletHandler {
	return &WalletHandler{sessions: sessions{manager: manager, salt: cfg.SessionSalt}}
}

// Register handles POST /api/carteira/cadastrar
func (h *WalletHandler) Register(w http.ResponseWriter, r *http.Request) {
	sess, ok := h.sessions.resolve(w, r)
	if !ok {
		return
	}

	var req models.RegisterCustomerRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	err := sess.Wallet().Register(req.Nome, req.Telefone)
	if errors.Is(err, loyalty.ErrMissingFields) {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Preencha nome e telefone.")
		return
	}
	if err != nil {
		slog.Error("failed to save wallet", "session_id", sess.ID, "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Erro ao cadastrar cliente")
		return
	}

	customer, _ := sess.Wallet().Customer()
	middleware.JSONResponse(w, http.StatusCreated, customer)
}

// Get handles GET /api/carteira
func (h *WalletHandler) Get(w http.ResponseWriter, r *http.Request) {
	sess, ok := h.sessions.resolve(w, r)
	if !ok {
		return
	}

	customer, ok := sess.Wallet().Customer()
	if !ok {
		middleware.ErrorResponse(w, http.StatusNotFound, "Nenhum cliente cadastrado")
		return
	}
	middleware.JSONResponse(w, http.StatusOK, customer)
}

// Redeem handles POST /api/carteira/resgatar
func (h *WalletHandler) Redeem(w http.ResponseWriter, r *http.Request) {
	sess, ok := h.sessions.resolve(w, r)
	if !ok {
		return
	}

	var req models.RedeemRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	err := sess.Wallet().Redeem(req.Pontos)
	switch {
	case errors.Is(err, loyalty.ErrNotRegistered):
		middleware.ErrorResponse(w, http.StatusNotFound, "Nenhum cliente cadastrado")
		return
	case errors.Is(err, loyalty.ErrInvalidReward):
		middleware.ErrorResponse(w, http.StatusBadRequest, "pontos must be positive")
		return
	case errors.Is(err, loyalty.ErrInsufficientPoints):
		middleware.ErrorResponse(w, http.StatusBadRequest, "Pontos insuficientes")
		return
	case err != nil:
		slog.Error("failed to save wallet", "session_id", sess.ID, "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Erro ao resgatar pontos")
		return
	}

	customer, _ := sess.Wallet().Customer()
	middleware.JSONResponse(w, http.StatusOK, models.RedeemResponse{Sucesso: true, Pontos: customer.Pontos})
}

// Suggestions handles GET /api/sugestoes
func (h *WalletHandler) Suggestions(w http.ResponseWriter, r *http.Request) {
	sess, ok := h.sessions.resolve(w, r)
	if !ok {
		return
	}

	customer, registered := sess.Wallet().Customer()
	suggestions := sess.Catalog().Suggest(customer, registered)
	if suggestions == nil {
		suggestions = []catalog.Suggestion{}
	}
	middleware.JSONResponse(w, http.StatusOK, suggestions)
}
