package handlers

import (
	"net/http"
	"net/url"

	"github.com/avvvet/bonushunt-services/internal/huntsvc/service"
	"github.com/go-chi/chi"
)

func (h *Handler) SearchSlots(w http.ResponseWriter, r *http.Request) {
	slots, err := h.svc.Slots.Search(r.Context(), r.URL.Query().Get("q"))
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.ok(w, "slots", slots)
}

func (h *Handler) GetSlot(w http.ResponseWriter, r *http.Request) {
	name, err := url.PathUnescape(chi.URLParam(r, "name"))
	if err != nil {
		h.writeError(w, r, &service.ValidationError{Field: "name", Msg: "bad escaping"})
		return
	}

	slot, err := h.svc.Slots.GetByName(r.Context(), name)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.ok(w, "slot", slot)
}

func (h *Handler) ImportSlots(w http.ResponseWriter, r *http.Request) {
	var in service.ImportSlotsInput
	if err := h.decode(r, &in); err != nil {
		h.writeError(w, r, err)
		return
	}

	n, err := h.svc.Slots.Import(r.Context(), in)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.ok(w, "slots imported", map[string]int{"imported": n})
}

func (h *Handler) GetMeta(w http.ResponseWriter, r *http.Request) {
	meta, err := h.svc.Meta.Get(r.Context(), chi.URLParam(r, "key"))
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.ok(w, "meta", meta)
}

func (h *Handler) SetMeta(w http.ResponseWriter, r *http.Request) {
	var in service.SetMetaInput
	if err := h.decode(r, &in); err != nil {
		h.writeError(w, r, err)
		return
	}

	meta, err := h.svc.Meta.Set(r.Context(), chi.URLParam(r, "key"), in.Value)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.ok(w, "meta saved", meta)
}
