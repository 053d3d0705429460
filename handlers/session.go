// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"log/slog"
	"net/http"

	"github.com/danielhkuo/crocante/auth"
	"github.com/danielhkuo/crocante/cliparse"
	"github.com/danielhkuo/crocante/middleware"
	"github.com/danielhkuo/crocante/models"
	"github.com/danielhkuo/crocante/session"
)

// prefersDarkHeader is the client hint carrying the system color scheme
const prefersDarkHeader = "Sec-CH-Prefers-Color-Scheme"

func prefersDark(r *http.Request) bool {
	return r.Header.Get(prefersDarkHeader) == "dark"
}

// sessions resolves the X-Session-ID token on a request to a live session
type sessions struct {
	manager *session.Manager
	salt    string
}

func (s sessions) resolve(w http.ResponseWriter, r *http.Request) (*session.Session, bool) {
	token := r.Header.Get(middleware.SessionHeader)
	if token == "" {
		middleware.ErrorResponse(w, http.StatusUnauthorized, "X-Session-ID is required")
		return nil, false
	}

	id, err := auth.ValidateSessionToken(token, s.salt)
	if err != nil {
		middleware.ErrorResponse(w, http.StatusUnauthorized, "Invalid session token")
		return nil, false
	}

	if sess, ok := s.manager.Get(id); ok {
		return sess, true
	}
	// expired or from before a restart; wallet and theme come back from storage
	slog.Info("resuming session", "session_id", id)
	return s.manager.Resume(id, prefersDark(r)), true
}

type SessionHandler struct {
	sessions sessions
}

func NewSessionHandler(manager *session.Manager, cfg cliparse.Config) *SessionHandler {
	return &SessionHandler{sessions: sessions{manager: manager, salt: cfg.SessionSalt}}
}

// Create handles POST /api/sessoes
func (h *SessionHandler) Create(w http.ResponseWriter, r *http.Request) {
	sess := h.sessions.manager.Create(prefersDark(r))
	token := auth.SignSession(sess.ID, h.sessions.salt)

	w.Header().Set(middleware.SessionHeader, token)
	middleware.JSONResponse(w, http.StatusCreated, models.CreateSessionResponse{
		SessionID: sess.ID,
		Token:     token,
	})
}
