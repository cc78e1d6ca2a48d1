package coach

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"golang.org/x/sync/errgroup"
)

const fallbackNote = "Falling back to defaults; Coach unreachable."

// Outcomes reported to an Observer.
const (
	OutcomeOK       = "ok"
	OutcomeFallback = "fallback"
	OutcomeError    = "error"
)

// Observer is told how each Coach lookup ended.
type Observer interface {
	ObserveCoach(page, outcome string)
}

// ErrorResponse is the body returned when a page cannot be served at all.
type ErrorResponse struct {
	OK    bool   `json:"ok"`
	Error string `json:"error"`
	Hint  string `json:"hint,omitempty"`
}

// LandingResponse wraps the landing config exactly as Coach returned it.
type LandingResponse struct {
	OK     bool `json:"ok"`
	Config any  `json:"config"`
}

// SearchResponse is the merged search config, flagged when it is the
// built-in default because Coach could not be read.
type SearchResponse struct {
	OK *bool `json:"ok,omitempty"`
	SearchConfig
	Note  string `json:"note,omitempty"`
	Error string `json:"error,omitempty"`
}

// DetailsResponse is the merged details config, flagged like SearchResponse.
type DetailsResponse struct {
	OK *bool `json:"ok,omitempty"`
	DetailsConfig
	Note  string `json:"note,omitempty"`
	Error string `json:"error,omitempty"`
}

// ShopConfig bundles all three pages.
type ShopConfig struct {
	Landing any `json:"landing"`
	Search  any `json:"search"`
	Details any `json:"details"`
}

// Service turns Coach documents into page configurations.
type Service struct {
	client   *Client
	logger   *slog.Logger
	observer Observer
}

// NewService creates a Coach service. observer may be nil.
func NewService(client *Client, observer Observer, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{client: client, logger: logger, observer: observer}
}

func (s *Service) observe(page, outcome string) {
	if s.observer != nil {
		s.observer.ObserveCoach(page, outcome)
	}
}

func notConfigured() (any, int) {
	return ErrorResponse{OK: false, Error: "Missing COACH_BASE_URL"}, http.StatusInternalServerError
}

// Landing proxies the landing config. Unlike search and details there is
// no built-in landing config here, so failures are reported as 502.
func (s *Service) Landing(ctx context.Context) (any, int) {
	if !s.client.Configured() {
		s.observe(PageLanding, OutcomeError)
		return notConfigured()
	}

	data, err := s.client.PageConfig(ctx, PageLanding)
	if err != nil {
		s.logger.Warn("Landing config unavailable", "err", err)
		s.observe(PageLanding, OutcomeError)

		var statusErr *StatusError
		switch {
		case errors.As(err, &statusErr):
			return ErrorResponse{OK: false, Error: statusErr.Error(), Hint: preview(statusErr.Preview, 120)}, http.StatusBadGateway
		case errors.Is(err, ErrInvalidJSON):
			return ErrorResponse{OK: false, Error: "Invalid JSON from Coach"}, http.StatusBadGateway
		default:
			return ErrorResponse{OK: false, Error: "Failed to reach Coach"}, http.StatusBadGateway
		}
	}

	s.observe(PageLanding, OutcomeOK)
	return LandingResponse{OK: true, Config: data}, http.StatusOK
}

// Search returns the merged search config, or the defaults when Coach fails.
func (s *Service) Search(ctx context.Context) (any, int) {
	if !s.client.Configured() {
		s.observe(PageSearch, OutcomeError)
		return notConfigured()
	}

	data, err := s.client.PageConfig(ctx, PageSearch)
	if err != nil {
		s.logger.Warn("Search config unavailable, using defaults", "err", err)
		s.observe(PageSearch, OutcomeFallback)
		ok := true
		return SearchResponse{OK: &ok, SearchConfig: DefaultSearchConfig(), Note: fallbackNote, Error: err.Error()}, http.StatusOK
	}

	s.observe(PageSearch, OutcomeOK)
	return SearchResponse{SearchConfig: MergeSearchConfig(data)}, http.StatusOK
}

// Details returns the merged details config, or the defaults when Coach
// fails.
func (s *Service) Details(ctx context.Context) (any, int) {
	if !s.client.Configured() {
		s.observe(PageDetails, OutcomeError)
		return notConfigured()
	}

	data, err := s.client.PageConfig(ctx, PageDetails)
	if err != nil {
		s.logger.Warn("Details config unavailable, using defaults", "err", err)
		s.observe(PageDetails, OutcomeFallback)
		ok := true
		return DetailsResponse{OK: &ok, DetailsConfig: DefaultDetailsConfig(), Note: fallbackNote, Error: err.Error()}, http.StatusOK
	}

	s.observe(PageDetails, OutcomeOK)
	return DetailsResponse{DetailsConfig: MergeDetailsConfig(data)}, http.StatusOK
}

// SearchConfig returns just the effective search configuration, defaults
// included, for server-side use.
func (s *Service) SearchConfig(ctx context.Context) SearchConfig {
	body, _ := s.Search(ctx)
	if resp, ok := body.(SearchResponse); ok {
		return resp.SearchConfig
	}
	return DefaultSearchConfig()
}

// All fetches the three pages concurrently. Each page degrades on its own,
// so the bundle is always returned.
func (s *Service) All(ctx context.Context) (ShopConfig, int) {
	if !s.client.Configured() {
		body, status := notConfigured()
		return ShopConfig{Landing: body, Search: body, Details: body}, status
	}

	var cfg ShopConfig
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		cfg.Landing, _ = s.Landing(gctx)
		return nil
	})
	g.Go(func() error {
		cfg.Search, _ = s.Search(gctx)
		return nil
	})
	g.Go(func() error {
		cfg.Details, _ = s.Details(gctx)
		return nil
	})
	_ = g.Wait()

	return cfg, http.StatusOK
}
