package catalog

import (
	"context"
	"errors"
	"log/slog"

	"github.com/adventurebag/shop/internal/metadata"
)

// Build modes reported to an Observer.
const (
	ModePrimary  = "primary"
	ModeFallback = "fallback"
	ModeUpstream = "upstream"
)

// ErrEmptyCatalog is returned by a Source that produced no items.
var ErrEmptyCatalog = errors.New("catalog is empty")

// Source produces the catalog for one request.
type Source interface {
	Items(ctx context.Context) ([]Item, error)
}

// Observer receives the outcome of every build, e.g. for metrics.
type Observer interface {
	ObserveBuild(mode string, items int, report Report)
}

// LocalSource assembles the catalog from a metadata provider and the image
// directory on every call.
type LocalSource struct {
	Metadata metadata.Provider
	Images   ImageLister
	Options  Options
	Observer Observer
}

// Items implements Source. It never returns an error.
func (s *LocalSource) Items(ctx context.Context) ([]Item, error) {
	items, report := Assemble(s.Metadata.Current(), s.Images, s.Options)
	if s.Observer != nil {
		s.Observer.ObserveBuild(ModePrimary, len(items), report)
	}
	return items, nil
}

// FallbackSource serves the metadata-only catalog.
type FallbackSource struct {
	Metadata metadata.Provider
	Options  Options
	Observer Observer
}

// Items implements Source. It never returns an error.
func (s *FallbackSource) Items(ctx context.Context) ([]Item, error) {
	items, report := Fallback(s.Metadata.Current(), s.Options)
	if s.Observer != nil {
		s.Observer.ObserveBuild(ModeFallback, len(items), report)
	}
	return items, nil
}

type fallbackSource struct {
	primary  Source
	fallback Source
	logger   *slog.Logger
}

// WithFallback returns a Source that serves primary, switching to fallback
// whenever primary fails or comes back empty. The returned Source only
// errors if fallback does.
func WithFallback(primary, fallback Source, logger *slog.Logger) Source {
	if logger == nil {
		logger = slog.Default()
	}
	return &fallbackSource{primary: primary, fallback: fallback, logger: logger}
}

func (s *fallbackSource) Items(ctx context.Context) ([]Item, error) {
	items, err := s.primary.Items(ctx)
	if err == nil && len(items) == 0 {
		err = ErrEmptyCatalog
	}
	if err == nil {
		return items, nil
	}

	s.logger.Warn("Primary catalog unavailable, serving fallback catalog", "err", err)
	return s.fallback.Items(ctx)
}
