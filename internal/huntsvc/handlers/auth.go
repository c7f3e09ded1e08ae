package handlers

import (
	"net/http"
	"strings"
	"time"

	"github.com/avvvet/bonushunt-services/internal/huntsvc/service"
)

type loginResponse struct {
	SessionToken string `json:"sessionToken"`
	ExpiresAt    string `json:"expiresAt"`
}

func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var in service.LoginInput
	if err := h.decode(r, &in); err != nil {
		h.writeError(w, r, err)
		return
	}

	session, err := h.svc.Sessions.Login(r.Context(), in.AdminKey)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	h.ok(w, "logged in", loginResponse{
		SessionToken: session.SessionToken,
		ExpiresAt:    session.ExpiresAt.UTC().Format(time.RFC3339),
	})
}

// Check only runs behind RequireAdmin, so reaching it means the token is live.
func (h *Handler) Check(w http.ResponseWriter, r *http.Request) {
	h.ok(w, "session valid", map[string]bool{"valid": true})
}

// RequireAdmin rejects requests without a live admin session bearer token.
func (h *Handler) RequireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := h.svc.Sessions.Check(r.Context(), bearerToken(r)); err != nil {
			h.writeError(w, r, err)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func bearerToken(r *http.Request) string {
	header := r.Header.Get("Authorization")
	if len(header) > 7 && strings.EqualFold(header[:7], "bearer ") {
		return strings.TrimSpace(header[7:])
	}
	return ""
}
