// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"log/slog"
	"net/http"

	"github.com/danielhkuo/crocante/cliparse"
	"github.com/danielhkuo/crocante/middleware"
	"github.com/danielhkuo/crocante/models"
	"github.com/danielhkuo/crocante/session"
)

type ThemeHandler struct {
	sessions sessions
}

func NewThemeHandler(manager *session.Manager, cfg cliparse.Config) *ThemeHandler {
	return &ThemeHandler{sessions: sessions{manager: manager, salt: cfg.SessionSalt}}
}

// Get handles GET /api/tema
func (h *ThemeHandler) Get(w http.ResponseWriter, r *http.Request) {
	sess, ok := h.sessions.resolve(w, r)
	if !ok {
		return
	}
	middleware.JSONResponse(w, http.StatusOK, models.ThemeResponse{Theme: sess.Theme().Current()})
}

// Toggle handles POST /api/tema/alternar
func (h *ThemeHandler) Toggle(w http.ResponseWriter, r *http.Request) {
	sess, ok := h.sessions.resolve(w, r)
	if !ok {
		return
	}

	theme, err := sess.Theme().Toggle()
	if err != nil {
		slog.Error("failed to save theme", "session_id", sess.ID, "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Erro ao salvar tema")
		return
	}
	middleware.JSONResponse(w, http.StatusOK, models.ThemeResponse{Theme: theme})
}
