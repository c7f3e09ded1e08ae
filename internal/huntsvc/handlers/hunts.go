package handlers

import (
	"net/http"

	"github.com/avvvet/bonushunt-services/internal/huntsvc/service"
	"github.com/go-chi/chi"
)

func (h *Handler) ListHunts(w http.ResponseWriter, r *http.Request) {
	hunts, err := h.svc.Hunts.ListHunts(r.Context())
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.ok(w, "hunts", hunts)
}

func (h *Handler) GetHunt(w http.ResponseWriter, r *http.Request) {
	view, err := h.svc.Hunts.GetHuntView(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.ok(w, "hunt", view)
}

func (h *Handler) ListBonuses(w http.ResponseWriter, r *http.Request) {
	bonuses, err := h.svc.Bonuses.ListBonuses(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.ok(w, "bonuses", bonuses)
}

func (h *Handler) HuntStats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.svc.Hunts.HuntStats(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.ok(w, "hunt stats", stats)
}

func (h *Handler) GlobalStats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.svc.Hunts.GlobalStats(r.Context())
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.ok(w, "stats", stats)
}

func (h *Handler) CreateHunt(w http.ResponseWriter, r *http.Request) {
	var in service.CreateHuntInput
	if err := h.decode(r, &in); err != nil {
		h.writeError(w, r, err)
		return
	}

	hunt, err := h.svc.Hunts.CreateHunt(r.Context(), in)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.created(w, "hunt created", hunt)
}

func (h *Handler) UpdateHunt(w http.ResponseWriter, r *http.Request) {
	var in service.UpdateHuntInput
	if err := h.decode(r, &in); err != nil {
		h.writeError(w, r, err)
		return
	}

	hunt, err := h.svc.Hunts.UpdateHunt(r.Context(), chi.URLParam(r, "id"), in)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.ok(w, "hunt updated", hunt)
}

func (h *Handler) DeleteHunt(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := h.svc.Hunts.DeleteHunt(r.Context(), id); err != nil {
		h.writeError(w, r, err)
		return
	}
	h.ok(w, "hunt deleted", map[string]string{"id": id})
}

func (h *Handler) StartPlaying(w http.ResponseWriter, r *http.Request) {
	hunt, err := h.svc.Hunts.StartPlaying(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.ok(w, "hunt started", hunt)
}

func (h *Handler) PublicHunt(w http.ResponseWriter, r *http.Request) {
	view, err := h.svc.Hunts.GetPublicHunt(r.Context(), chi.URLParam(r, "token"))
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.ok(w, "hunt", view)
}

func (h *Handler) LatestHunt(w http.ResponseWriter, r *http.Request) {
	hunt, err := h.svc.Hunts.LatestHunt(r.Context())
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.ok(w, "latest hunt", hunt)
}

func (h *Handler) LatestPublicLink(w http.ResponseWriter, r *http.Request) {
	links, err := h.svc.Hunts.LatestPublicLinks(r.Context(), h.publicBase(r))
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.ok(w, "public links", links)
}

// publicBase prefers the configured base URL and falls back to the request host.
func (h *Handler) publicBase(r *http.Request) string {
	if h.baseURL != "" {
		return h.baseURL
	}
	scheme := "http"
	if r.TLS != nil || r.Header.Get("X-Forwarded-Proto") == "https" {
		scheme = "https"
	}
	return scheme + "://" + r.Host
}

func (h *Handler) LatestOverlay(w http.ResponseWriter, r *http.Request) {
	ov, err := h.svc.Hunts.LatestOverlay(r.Context())
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.ok(w, "overlay", ov)
}

func (h *Handler) HuntOverlay(w http.ResponseWriter, r *http.Request) {
	ov, err := h.svc.Hunts.Overlay(r.Context(), chi.URLParam(r, "huntId"))
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.ok(w, "overlay", ov)
}
