// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"errors"
	"net/http"

	"github.com/danielhkuo/crocante/catalog"
	"github.com/danielhkuo/crocante/middleware"
	"github.com/danielhkuo/crocante/reviews"
)

type CatalogHandler struct {
	catalogs *catalog.Store
}

func NewCatalogHandler(catalogs *catalog.Store) *CatalogHandler {
	return &CatalogHandler{catalogs: catalogs}
}

// ListTypes handles GET /api/catalogo/tipos
func (h *CatalogHandler) ListTypes(w http.ResponseWriter, r *http.Request) {
	middleware.JSONResponse(w, http.StatusOK, h.catalogs.Current().Types())
}

// ListFlavors handles GET /api/catalogo/tipos/{tipo}/sabores
func (h *CatalogHandler) ListFlavors(w http.ResponseWriter, r *http.Request) {
	flavors, err := h.catalogs.Current().Flavors(r.PathValue("tipo"))
	if errors.Is(err, catalog.ErrUnknownType) {
		middleware.ErrorResponse(w, http.StatusNotFound, "Tipo não encontrado")
		return
	}
	middleware.JSONResponse(w, http.StatusOK, flavors)
}

// ListProducts handles GET /api/catalogo/produtos
func (h *CatalogHandler) ListProducts(w http.ResponseWriter, r *http.Request) {
	middleware.JSONResponse(w, http.StatusOK, h.catalogs.Current().Products())
}

// ListReviews handles GET /api/avaliacoes, returning every review with its
// star row in rotation order
func (h *CatalogHandler) ListReviews(w http.ResponseWriter, r *http.Request) {
	middleware.JSONResponse(w, http.StatusOK, reviews.Cards(h.catalogs.Current().Reviews()))
}
