// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/danielhkuo/crocante/cep"
	"github.com/danielhkuo/crocante/middleware"
)

// AddressHandler proxies postal-code lookups so the page can fill in the
// delivery form
type AddressHandler struct {
	client *cep.Client
}

func NewAddressHandler(client *cep.Client) *AddressHandler {
	return &AddressHandler{client: client}
}

// Lookup handles GET /api/cep/{cep}
func (h *AddressHandler) Lookup(w http.ResponseWriter, r *http.Request) {
	addr, err := h.client.Lookup(r.Context(), r.PathValue("cep"))
	switch {
	case errors.Is(err, cep.ErrInvalidCEP):
		middleware.ErrorResponse(w, http.StatusBadRequest, cep.ErrInvalidCEP.Error())
		return
	case errors.Is(err, cep.ErrNotFound):
		middleware.ErrorResponse(w, http.StatusNotFound, cep.ErrNotFound.Error())
		return
	case err != nil:
		slog.Error("cep lookup failed", "error", err)
		middleware.ErrorResponse(w, http.StatusBadGateway, cep.ErrLookupFailed.Error())
		return
	}

	middleware.JSONResponse(w, http.StatusOK, addr)
}
