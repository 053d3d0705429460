// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/danielhkuo/crocante/cart"
	"github.com/danielhkuo/crocante/checkout"
	"github.com/danielhkuo/crocante/cliparse"
	"github.com/danielhkuo/crocante/middleware"
	"github.com/danielhkuo/crocante/models"
	"github.com/danielhkuo/crocante/session"
)

type CartHandler struct {
	sessions sessions
	checkout *checkout.Service
}

func NewCartHandler(manager *session.Manager, cfg cliparse.Config, svc *checkout.Service) *CartHandler {
	return &CartHandler{
		sessions: sessions{manager: manager, salt: cfg.SessionSalt},
		checkout: svc,
	}
}

// GetCart handles GET /api/carrinho
func (h *CartHandler) GetCart(w http.ResponseWriter, r *http.Request) {
	sess, ok := h.sessions.resolve(w, r)
	if !ok {
		return
	}
	middleware.JSONResponse(w, http.StatusOK, sess.Cart().View())
}

// AddItem handles POST /api/carrinho/itens
func (h *CartHandler) AddItem(w http.ResponseWriter, r *http.Request) {
	sess, ok := h.sessions.resolve(w, r)
	if !ok {
		return
	}

	var req models.AddItemRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}
	if strings.TrimSpace(req.Name) == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "name is required")
		return
	}

	price, err := parseItemPrice(req.Price)
	if err == nil {
		err = sess.Cart().AddItem(req.Name, price)
	}
	if err != nil {
		slog.Warn("rejected cart item", "session_id", sess.ID, "name", req.Name, "error", err)
		middleware.ErrorResponse(w, http.StatusBadRequest, "Preço inválido")
		return
	}

	middleware.JSONResponse(w, http.StatusCreated, sess.Cart().View())
}

// parseItemPrice accepts a JSON number or the raw data-price string
func parseItemPrice(raw json.RawMessage) (float64, error) {
	if len(raw) == 0 {
		return 0, cart.ErrInvalidPrice
	}
	if raw[0] == '"' {
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return 0, cart.ErrInvalidPrice
		}
		return cart.ParsePrice(s)
	}
	var v float64
	if err := json.Unmarshal(raw, &v); err != nil {
		return 0, cart.ErrInvalidPrice
	}
	return v, cart.ValidatePrice(v)
}

// RemoveItem handles DELETE /api/carrinho/itens/{index}
func (h *CartHandler) RemoveItem(w http.ResponseWriter, r *http.Request) {
	sess, ok := h.sessions.resolve(w, r)
	if !ok {
		return
	}

	index, err := strconv.Atoi(r.PathValue("index"))
	if err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "index must be an integer")
		return
	}
	if !sess.Cart().RemoveItem(index) {
		middleware.ErrorResponse(w, http.StatusNotFound, "Item não encontrado")
		return
	}

	middleware.JSONResponse(w, http.StatusOK, sess.Cart().View())
}

// Checkout handles POST /api/carrinho/finalizar
func (h *CartHandler) Checkout(w http.ResponseWriter, r *http.Request) {
	sess, ok := h.sessions.resolve(w, r)
	if !ok {
		return
	}

	var req models.CheckoutRequest
	if r.ContentLength != 0 {
		if err := middleware.ParseJSONBody(r, &req); err != nil {
			middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
			return
		}
	}

	receipt, err := sess.Checkout(r.Context(), h.checkout, req.Delivery)
	switch {
	case errors.Is(err, checkout.ErrEmptyCart), errors.Is(err, checkout.ErrIncompleteAddress):
		middleware.ErrorResponse(w, http.StatusBadRequest, checkout.UserMessage(err))
		return
	case errors.Is(err, checkout.ErrDispatchFailed):
		middleware.ErrorResponse(w, http.StatusBadGateway, checkout.UserMessage(err))
		return
	case err != nil:
		slog.Error("checkout failed", "session_id", sess.ID, "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, checkout.UserMessage(err))
		return
	}

	middleware.JSONResponse(w, http.StatusCreated, receipt)
}
