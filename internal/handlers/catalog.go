package handlers

import (
	"context"
	"net/http"
	"strings"

	"github.com/adventurebag/shop/internal/catalog"
	"github.com/adventurebag/shop/internal/coach"
)

// SearchResponse is the body of GET /api/search.
type SearchResponse struct {
	Items        []catalog.Item `json:"items"`
	Total        int            `json:"total"`
	VisibleCount int            `json:"visibleCount"`
	Facets       catalog.Facets `json:"facets"`
}

func (h *Handler) HandleCatalog(w http.ResponseWriter, r *http.Request) {
	items, ok := h.items(w, r)
	if !ok {
		return
	}
	h.writeJSON(w, catalog.Response{Items: items})
}

func (h *Handler) HandleFallbackCatalog(w http.ResponseWriter, r *http.Request) {
	items, err := h.fallback.Items(r.Context())
	if err != nil {
		h.log(r).Error("Failed to build fallback catalog", "err", err)
		h.writeError(w, r, "Catalog unavailable", http.StatusServiceUnavailable)
		return
	}
	h.writeJSON(w, catalog.Response{Items: items})
}

// HandleSearch filters the catalog. Facets are computed over the whole
// catalog so the filter panel does not shrink as filters are applied.
func (h *Handler) HandleSearch(w http.ResponseWriter, r *http.Request) {
	items, ok := h.items(w, r)
	if !ok {
		return
	}

	query := r.URL.Query()
	q := catalog.Query{
		Text:      query.Get("q"),
		Audience:  multiValue(query["audience"]),
		Purpose:   multiValue(query["purpose"]),
		Material:  multiValue(query["material"]),
		PriceBand: multiValue(query["priceBand"]),
	}

	matched := catalog.Filter(items, q)
	visible := h.visibleCount(r)
	shown := matched
	if len(shown) > visible {
		shown = shown[:visible]
	}

	h.log(r).Debug("Search", "q", q.Text, "matched", len(matched), "visible", visible)
	h.writeJSON(w, SearchResponse{
		Items:        shown,
		Total:        len(matched),
		VisibleCount: visible,
		Facets:       catalog.BuildFacets(items),
	})
}

func (h *Handler) visibleCount(r *http.Request) int {
	if h.coach == nil {
		return coach.DefaultSearchConfig().VisibleCount
	}
	ctx, cancel := context.WithTimeout(r.Context(), h.coachTimeout)
	defer cancel()
	return h.coach.SearchConfig(ctx).VisibleCount
}

// multiValue accepts both repeated parameters and comma-separated lists.
func multiValue(values []string) []string {
	var out []string
	for _, v := range values {
		for _, part := range strings.Split(v, ",") {
			if part = strings.TrimSpace(part); part != "" {
				out = append(out, part)
			}
		}
	}
	return out
}

func (h *Handler) HandleItem(w http.ResponseWriter, r *http.Request) {
	ref := r.PathValue("sku")

	items, ok := h.items(w, r)
	if !ok {
		return
	}

	item, found := catalog.Find(items, ref)
	if !found {
		h.writeError(w, r, "Item not found", http.StatusNotFound)
		return
	}

	var views catalog.ViewResolver
	if h.images != nil {
		views = h.images
	}
	h.writeJSON(w, catalog.Describe(items, item, views, h.options))
}
