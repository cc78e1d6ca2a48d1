package handlers

import (
	"net/http"
)

func noStore(w http.ResponseWriter) {
	w.Header().Set("Cache-Control", "no-store")
}

func (h *Handler) HandleLandingConfig(w http.ResponseWriter, r *http.Request) {
	noStore(w)
	body, status := h.coach.Landing(r.Context())
	h.writeJSONStatus(w, status, body)
}

func (h *Handler) HandleSearchConfig(w http.ResponseWriter, r *http.Request) {
	noStore(w)
	body, status := h.coach.Search(r.Context())
	h.writeJSONStatus(w, status, body)
}

func (h *Handler) HandleDetailsConfig(w http.ResponseWriter, r *http.Request) {
	noStore(w)
	body, status := h.coach.Details(r.Context())
	h.writeJSONStatus(w, status, body)
}

// HandleShopConfig returns the landing, search and details configs in one
// response.
func (h *Handler) HandleShopConfig(w http.ResponseWriter, r *http.Request) {
	noStore(w)
	cfg, status := h.coach.All(r.Context())
	h.writeJSONStatus(w, status, cfg)
}
