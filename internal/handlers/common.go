package handlers

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/adventurebag/shop/internal/catalog"
	"github.com/adventurebag/shop/internal/coach"
	"github.com/adventurebag/shop/internal/experiment"
	"github.com/adventurebag/shop/internal/images"
)

// Deps are the collaborators the HTTP layer is built on.
type Deps struct {
	Catalog     catalog.Source
	Fallback    catalog.Source
	Images      *images.Dir
	Coach       *coach.Service
	Experiments *experiment.Store
	Options     catalog.Options
	Logger      *slog.Logger

	// CoachTimeout bounds the Coach lookup made while serving a search.
	// Zero means DefaultCoachTimeout.
	CoachTimeout time.Duration
}

// DefaultCoachTimeout is how long a search waits for its Coach config
// before using the defaults.
const DefaultCoachTimeout = 2 * time.Second

type Handler struct {
	catalog     catalog.Source
	fallback    catalog.Source
	images      *images.Dir
	coach       *coach.Service
	experiments *experiment.Store
	options     catalog.Options
	logger      *slog.Logger

	coachTimeout time.Duration
}

func New(d Deps) *Handler {
	logger := d.Logger
	if logger == nil {
		logger = slog.Default()
	}
	experiments := d.Experiments
	if experiments == nil {
		experiments = experiment.NewStore()
	}
	coachTimeout := d.CoachTimeout
	if coachTimeout <= 0 {
		coachTimeout = DefaultCoachTimeout
	}
	return &Handler{
		catalog:     d.Catalog,
		fallback:    d.Fallback,
		images:      d.Images,
		coach:       d.Coach,
		experiments: experiments,
		options:     d.Options,
		logger:      logger,

		coachTimeout: coachTimeout,
	}
}

type requestIDKey struct{}

// RequestIDHeader carries the request id in both directions.
const RequestIDHeader = "X-Request-ID"

// WithRequestID tags every request with an id, reusing the caller's
// X-Request-ID when present.
func WithRequestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get(RequestIDHeader)
		if id == "" {
			id = uuid.NewString()
		}
		w.Header().Set(RequestIDHeader, id)
		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), requestIDKey{}, id)))
	})
}

// RequestID returns the id attached by WithRequestID, if any.
func RequestID(ctx context.Context) string {
	id, _ := ctx.Value(requestIDKey{}).(string)
	return id
}

func (h *Handler) log(r *http.Request) *slog.Logger {
	if id := RequestID(r.Context()); id != "" {
		return h.logger.With("request_id", id)
	}
	return h.logger
}

// Response helpers
func (h *Handler) writeJSON(w http.ResponseWriter, data any) {
	h.writeJSONStatus(w, http.StatusOK, data)
}

func (h *Handler) writeJSONStatus(w http.ResponseWriter, status int, data any) {
	body, err := json.Marshal(data)
	if err != nil {
		h.logger.Error("Unable to encode JSON response", "err", err)
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if _, err := w.Write(append(body, '\n')); err != nil {
		h.logger.Debug("Unable to write JSON response", "err", err)
	}
}

func (h *Handler) writeError(w http.ResponseWriter, r *http.Request, message string, code int) {
	if code >= http.StatusInternalServerError {
		h.log(r).Error(message, "path", r.URL.Path)
	} else {
		h.log(r).Debug(message, "path", r.URL.Path, "status", code)
	}
	http.Error(w, message, code)
}

// items loads the catalog for a request, replying with 503 on failure.
func (h *Handler) items(w http.ResponseWriter, r *http.Request) ([]catalog.Item, bool) {
	items, err := h.catalog.Items(r.Context())
	if err != nil {
		h.log(r).Error("Failed to build catalog", "err", err)
		h.writeError(w, r, "Catalog unavailable", http.StatusServiceUnavailable)
		return nil, false
	}
	return items, true
}
