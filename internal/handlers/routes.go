package handlers

import (
	"log/slog"
	"net/http"
	"strings"
)

// Routes registers every endpoint on a new mux. metrics may be nil.
func (h *Handler) Routes(metrics http.Handler) http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /api/catalog", h.HandleCatalog)
	mux.HandleFunc("GET /api/catalog/fallback", h.HandleFallbackCatalog)
	mux.HandleFunc("GET /api/search", h.HandleSearch)
	mux.HandleFunc("GET /api/items/{sku}", h.HandleItem)

	if h.images != nil {
		mux.HandleFunc("GET /api/thumbs/{file}", h.HandleThumb)
		// A CDN prefix is served elsewhere.
		if strings.HasPrefix(h.images.URLPrefix, "/") {
			mux.HandleFunc("GET "+h.images.URLPrefix+"/{file}", h.HandleImage)
		}
	}

	if h.coach != nil {
		mux.HandleFunc("GET /api/landing-config", h.HandleLandingConfig)
		mux.HandleFunc("GET /api/search-config", h.HandleSearchConfig)
		mux.HandleFunc("GET /api/details-config", h.HandleDetailsConfig)
		mux.HandleFunc("GET /api/shop-config", h.HandleShopConfig)
	}

	mux.HandleFunc("GET /api/experiments/problems", h.HandleExperimentProblems)
	mux.HandleFunc("/api/experiments", h.HandleExperiments)
	mux.HandleFunc("/api/experiments/{id}", h.HandleExperimentDetail)
	mux.HandleFunc("POST /api/experiments/{id}/{action}", h.HandleExperimentAction)

	if metrics != nil {
		mux.Handle("GET /metrics", metrics)
	}
	mux.HandleFunc("/healthcheck", func(w http.ResponseWriter, r *http.Request) {
		if _, err := w.Write([]byte("OK")); err != nil {
			slog.Error("Unable to write healthcheck", "err", err)
		}
	})

	return WithRequestID(mux)
}
