package handlers

import (
	"net/http"

	"github.com/avvvet/bonushunt-services/internal/huntsvc/service"
	"github.com/go-chi/chi"
)

func (h *Handler) CreateBonus(w http.ResponseWriter, r *http.Request) {
	var in service.CreateBonusInput
	if err := h.decode(r, &in); err != nil {
		h.writeError(w, r, err)
		return
	}

	bonus, err := h.svc.Bonuses.CreateBonus(r.Context(), in)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.created(w, "bonus created", bonus)
}

func (h *Handler) UpdateBonus(w http.ResponseWriter, r *http.Request) {
	var in service.UpdateBonusInput
	if err := h.decode(r, &in); err != nil {
		h.writeError(w, r, err)
		return
	}

	bonus, err := h.svc.Bonuses.UpdateBonus(r.Context(), chi.URLParam(r, "id"), in)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.ok(w, "bonus updated", bonus)
}

func (h *Handler) DeleteBonus(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := h.svc.Bonuses.DeleteBonus(r.Context(), id); err != nil {
		h.writeError(w, r, err)
		return
	}
	h.ok(w, "bonus deleted", map[string]string{"id": id})
}

func (h *Handler) SubmitPayout(w http.ResponseWriter, r *http.Request) {
	var in service.PayoutInput
	if err := h.decode(r, &in); err != nil {
		h.writeError(w, r, err)
		return
	}

	bonus, err := h.svc.Bonuses.SubmitPayout(r.Context(), chi.URLParam(r, "id"), *in.WinAmount)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.ok(w, "payout recorded", bonus)
}
