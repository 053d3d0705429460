// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/danielhkuo/crocante/carousel"
	"github.com/danielhkuo/crocante/catalog"
	"github.com/danielhkuo/crocante/cliparse"
	"github.com/danielhkuo/crocante/middleware"
	"github.com/danielhkuo/crocante/models"
	"github.com/danielhkuo/crocante/session"
)

// CarouselActionResponse reports whether an action took effect and the
// carousel state after it
type CarouselActionResponse struct {
	Applied bool           `json:"applied"`
	State   carousel.State `json:"state"`
}

// ShowcaseHandler drives the product carousels and the type/flavor selection
type ShowcaseHandler struct {
	sessions sessions
}

func NewShowcaseHandler(manager *session.Manager, cfg cliparse.Config) *ShowcaseHandler {
	return &ShowcaseHandler{sessions: sessions{manager: manager, salt: cfg.SessionSalt}}
}

// Get handles GET /api/vitrine
func (h *ShowcaseHandler) Get(w http.ResponseWriter, r *http.Request) {
	sess, ok := h.sessions.resolve(w, r)
	if !ok {
		return
	}
	middleware.JSONResponse(w, http.StatusOK, sess.Showcase())
}

// Action handles POST /api/vitrine/{carousel}/{action}
func (h *ShowcaseHandler) Action(w http.ResponseWriter, r *http.Request) {
	sess, ok := h.sessions.resolve(w, r)
	if !ok {
		return
	}

	key := r.PathValue("carousel")
	if !sess.HasCarousel(key) {
		middleware.ErrorResponse(w, http.StatusNotFound, "Carrossel não encontrado")
		return
	}

	var req models.CarouselActionRequest
	if r.ContentLength != 0 {
		if err := middleware.ParseJSONBody(r, &req); err != nil {
			middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
			return
		}
	}

	reg := sess.Carousels()
	var applied bool
	switch action := r.PathValue("action"); action {
	case "next":
		applied = reg.Click(key, carousel.Forward)
	case "prev":
		applied = reg.Click(key, carousel.Backward)
	case "enter":
		applied = reg.PointerEnter(key)
	case "leave":
		applied = reg.PointerLeave(key)
	case "touchstart":
		applied = reg.TouchStart(key, req.X)
	case "touchmove":
		applied = reg.TouchMove(key, req.X)
	case "touchend":
		applied = reg.TouchEnd(key)
	case "lock":
		index := -1
		if req.Index != nil {
			index = *req.Index
		}
		applied = reg.LockAt(key, index)
	case "stop":
		applied = reg.ExternalStop(key)
	default:
		middleware.ErrorResponse(w, http.StatusBadRequest, "unknown action: "+action)
		return
	}

	state, _ := reg.State(key)
	middleware.JSONResponse(w, http.StatusOK, CarouselActionResponse{Applied: applied, State: state})
}

// SelectType handles POST /api/vitrine/tipo
func (h *ShowcaseHandler) SelectType(w http.ResponseWriter, r *http.Request) {
	sess, ok := h.sessions.resolve(w, r)
	if !ok {
		return
	}

	var req models.SelectTypeRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	err := sess.SelectType(req.Tipo)
	switch {
	case errors.Is(err, catalog.ErrUnknownType):
		middleware.ErrorResponse(w, http.StatusNotFound, "Tipo não encontrado")
		return
	case errors.Is(err, session.ErrNoFlavors):
		middleware.ErrorResponse(w, http.StatusConflict, "Nenhum sabor disponível")
		return
	case err != nil:
		slog.Error("failed to select type", "session_id", sess.ID, "tipo", req.Tipo, "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Erro ao selecionar tipo")
		return
	}

	middleware.JSONResponse(w, http.StatusOK, sess.Showcase())
}

// SelectFlavor handles POST /api/vitrine/sabor
func (h *ShowcaseHandler) SelectFlavor(w http.ResponseWriter, r *http.Request) {
	sess, ok := h.sessions.resolve(w, r)
	if !ok {
		return
	}

	var req models.SelectFlavorRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	_, err := sess.SelectFlavor(req.Index)
	switch {
	case errors.Is(err, session.ErrNoTypeSelected):
		middleware.ErrorResponse(w, http.StatusConflict, "Selecione um tipo primeiro")
		return
	case errors.Is(err, session.ErrInvalidFlavor):
		middleware.ErrorResponse(w, http.StatusBadRequest, "Sabor inválido")
		return
	case err != nil:
		slog.Error("failed to select flavor", "session_id", sess.ID, "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Erro ao selecionar sabor")
		return
	}

	if req.AddToCart {
		if _, err := sess.AddSelection(); err != nil {
			slog.Warn("selected flavor not added to cart", "session_id", sess.ID, "error", err)
			middleware.ErrorResponse(w, http.StatusConflict, "Não foi possível adicionar ao carrinho")
			return
		}
	}

	middleware.JSONResponse(w, http.StatusOK, sess.Showcase())
}
