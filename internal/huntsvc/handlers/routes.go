package handlers

import (
	"net/http"
	"time"

	"github.com/go-chi/chi"
	"github.com/go-chi/jwtauth"
	log "github.com/sirupsen/logrus"
)

type access int

const (
	public access = iota
	admin         // mounted under /api/admin behind RequireAdmin
	both          // mounted publicly and under /api/admin
)

type route struct {
	method  string
	path    string
	access  access
	handler http.HandlerFunc
}

// routes is the API surface under /api. Operations reachable both publicly
// and as admin are declared once with access both.
func (h *Handler) routes() []route {
	return []route{
		{http.MethodPost, "/admin/login", public, h.Login},
		{http.MethodGet, "/check", admin, h.Check},

		{http.MethodGet, "/hunts", public, h.ListHunts},
		{http.MethodGet, "/hunts/{id}", public, h.GetHunt},
		{http.MethodGet, "/hunts/{id}/bonuses", public, h.ListBonuses},
		{http.MethodGet, "/hunts/{id}/stats", public, h.HuntStats},
		{http.MethodGet, "/stats", public, h.GlobalStats},
		{http.MethodPost, "/hunts", admin, h.CreateHunt},
		{http.MethodPut, "/hunts/{id}", admin, h.UpdateHunt},
		{http.MethodDelete, "/hunts/{id}", admin, h.DeleteHunt},
		{http.MethodPost, "/hunts/{id}/start-playing", both, h.StartPlaying},

		{http.MethodPost, "/bonuses", admin, h.CreateBonus},
		{http.MethodPut, "/bonuses/{id}", both, h.UpdateBonus},
		{http.MethodDelete, "/bonuses/{id}", admin, h.DeleteBonus},
		{http.MethodPost, "/bonuses/{id}/payout", both, h.SubmitPayout},

		{http.MethodGet, "/public/hunts/{token}", public, h.PublicHunt},
		{http.MethodGet, "/latest-hunt", public, h.LatestHunt},
		{http.MethodGet, "/latest-hunt/public-link", public, h.LatestPublicLink},
		{http.MethodGet, "/obs-overlay/{huntId}", admin, h.HuntOverlay},

		{http.MethodGet, "/slots/search", public, h.SearchSlots},
		{http.MethodGet, "/slots/{name}", public, h.GetSlot},
		{http.MethodPost, "/slots/import", admin, h.ImportSlots},

		{http.MethodGet, "/meta/{key}", admin, h.GetMeta},
		{http.MethodPut, "/meta/{key}", admin, h.SetMeta},
	}
}

func (h *Handler) SetRoutes(r chi.Router) {
	table := h.routes()

	r.Route("/api", func(r chi.Router) {
		for _, rt := range table {
			if rt.access == public || rt.access == both {
				r.Method(rt.method, rt.path, rt.handler)
			}
		}

		r.Group(func(r chi.Router) {
			r.Use(h.RequireAdmin)
			for _, rt := range table {
				if rt.access == admin || rt.access == both {
					r.Method(rt.method, "/admin"+rt.path, rt.handler)
				}
			}
		})
	})

	r.Get("/obs-overlay/latest", h.LatestOverlay)

	r.Route("/v1", func(r chi.Router) {

		// Secure routes
		r.Group(func(r chi.Router) {
			r.Use(jwtauth.Verifier(h.tokenAuth))
			r.Use(jwtauth.Authenticator)

			r.Get("/health", h.HealthHandler)
		})
	})
}

// InitAuth sets up the service JWT used by internal callers of /v1.
func (h *Handler) InitAuth(secret string) {
	if secret == "" {
		log.Warn("JWT_SECRET_KEY is empty, /v1 routes accept tokens signed with an empty key")
	}
	h.tokenAuth = jwtauth.New("HS256", []byte(secret), nil)

	tokenString, err := h.ServiceToken(7 * 24 * time.Hour)
	if err != nil {
		log.Errorf("failed to issue debug service token: %s", err)
		return
	}

	log.Debugf("service JWT for testing: %s", tokenString)
}

// ServiceToken issues a short-lived JWT accepted by the /v1 routes.
func (h *Handler) ServiceToken(ttl time.Duration) (string, error) {
	_, tokenString, err := h.tokenAuth.Encode(map[string]interface{}{
		"service_id": "huntsvc",
		"exp":        time.Now().Add(ttl).Unix(),
	})
	return tokenString, err
}
