package catalog

import (
	"log/slog"
	"path"
	"strings"

	"github.com/adventurebag/shop/internal/metadata"
)

// DefaultImageURLPrefix is the public path images are served under.
const DefaultImageURLPrefix = "/backpacks"

// ImageLister lists the file names of the variation image directory.
type ImageLister interface {
	List() ([]string, error)
}

// ListerFunc adapts a function to ImageLister.
type ListerFunc func() ([]string, error)

func (f ListerFunc) List() ([]string, error) { return f() }

// Options tunes how variation records are synthesized.
type Options struct {
	// ImageURLPrefix is prepended to scanned file names.
	ImageURLPrefix string
	Logger         *slog.Logger
}

func (o Options) imageURL(file string) string {
	prefix := o.ImageURLPrefix
	if prefix == "" {
		prefix = DefaultImageURLPrefix
	}
	return strings.TrimSuffix(prefix, "/") + "/" + file
}

func (o Options) logger() *slog.Logger {
	if o.Logger == nil {
		return slog.Default()
	}
	return o.Logger
}

type variation struct {
	id     string
	file   string
	baseID string
	name   string
	label  string
	attrs  metadata.Attributes
}

// Assemble builds the catalog from the metadata store and the image files
// listed by images. A nil lister, or one that fails, contributes no inferred
// variations; Assemble never fails.
//
// Base products come first in store order. Variations follow in the order
// their de-duplication key was first seen, inferred ones inserted before
// explicit ones so that authored metadata replaces scanned defaults.
func Assemble(store *metadata.Store, images ImageLister, opts Options) ([]Item, Report) {
	var report Report

	bases := store.Bases()
	baseByID := make(map[string]metadata.Record, len(bases))
	for _, b := range bases {
		baseByID[b.ID] = b
	}

	merged := NewOrderedMap[variation]()

	for _, v := range inferVariations(images, baseByID, opts, &report) {
		if merged.Set(v.key(), v) {
			report.Replaced++
		}
	}
	// Var_01_1.jpg sorts before Var_01_1.png, so the first file with a
	// given stem is the one an explicit record can claim.
	inferred := make(map[string]string)
	for _, v := range merged.Values() {
		k := strings.ToLower(stem(v.file))
		if _, ok := inferred[k]; !ok {
			inferred[k] = str(v.attrs.ImageURL)
		}
	}
	for _, v := range explicitVariations(store, baseByID, inferred) {
		if merged.Set(v.key(), v) {
			report.Replaced++
		}
	}

	items := make([]Item, 0, len(bases)+merged.Len())
	next := 1

	for _, b := range bases {
		sku := FormatSKU(next)
		items = append(items, Item{
			ID:          next,
			SKU:         sku,
			Name:        "AdventureBag " + sku,
			Subtitle:    str(b.Model),
			IsBase:      true,
			BaseID:      b.ID,
			ImageURL:    str(b.ImageURL),
			Price:       num(b.Price),
			Audience:    str(b.Audience),
			Purpose:     str(b.Purpose),
			Material:    str(b.Material),
			Color:       str(b.Color),
			PriceBand:   str(b.PriceBand),
			Description: str(b.Description),
		})
		next++
	}
	report.Bases = len(bases)

	for _, v := range merged.Values() {
		base, ok := baseByID[v.baseID]
		if !ok {
			report.Unresolved++
			continue
		}
		sku := FormatSKU(next)
		items = append(items, Item{
			ID:          next,
			SKU:         sku,
			Name:        "AdventureBag " + sku,
			Subtitle:    firstNonEmpty(v.name, str(v.attrs.Model), v.label, str(base.Model)),
			IsBase:      false,
			BaseID:      v.baseID,
			ImageURL:    str(v.attrs.ImageURL),
			Price:       num(coalesce(v.attrs.Price, base.Price)),
			Audience:    str(coalesce(v.attrs.Audience, base.Audience)),
			Purpose:     str(coalesce(v.attrs.Purpose, base.Purpose)),
			Material:    str(coalesce(v.attrs.Material, base.Material)),
			Color:       str(coalesce(v.attrs.Color, base.Color)),
			PriceBand:   str(coalesce(v.attrs.PriceBand, base.PriceBand)),
			Description: str(coalesce(v.attrs.Description, base.Description)),
		})
		report.Variations++
		next++
	}

	opts.logger().Debug("Catalog assembled",
		"items", len(items),
		"bases", report.Bases,
		"variations", report.Variations,
		"files_scanned", report.FilesScanned,
		"files_ignored", report.FilesIgnored,
		"scan_failed", report.ScanFailed,
		"skipped", report.Skipped(),
		"replaced", report.Replaced)

	return items, report
}

// Fallback builds the catalog from metadata alone, without touching the
// filesystem. Numbering and inheritance match Assemble.
func Fallback(store *metadata.Store, opts Options) ([]Item, Report) {
	return Assemble(store, nil, opts)
}

func inferVariations(images ImageLister, baseByID map[string]metadata.Record, opts Options, report *Report) []variation {
	if images == nil {
		return nil
	}

	files, err := images.List()
	if err != nil {
		opts.logger().Debug("Image directory unavailable, skipping inferred variations", "err", err)
		report.ScanFailed = true
		return nil
	}
	report.FilesScanned = len(files)

	var vars []variation
	for _, file := range files {
		baseID, ok := InferBaseID(file)
		if !ok {
			report.FilesIgnored++
			continue
		}
		base, ok := baseByID[baseID]
		if !ok {
			report.UnknownBase++
			continue
		}

		attrs := base.Attributes
		imageURL := opts.imageURL(file)
		attrs.ImageURL = &imageURL

		vars = append(vars, variation{
			id:     "Var_" + baseID + "_" + file,
			file:   file,
			baseID: baseID,
			label:  VariationLabel(file, baseID),
			attrs:  attrs,
		})
	}
	return vars
}

// explicitVariations resolves the base of every authored variation. A record
// without an imageUrl whose id names a scanned image (Var_01_1 and
// Var_01_1.jpg) takes over that image, so it replaces the inferred entry.
// Only records with a known base claim an image.
func explicitVariations(store *metadata.Store, baseByID map[string]metadata.Record, inferred map[string]string) []variation {
	records := store.Variations()
	vars := make([]variation, 0, len(records))
	for _, r := range records {
		baseID := r.BaseID
		if baseID == "" {
			baseID = baseIDFromVariationID(r.ID)
		}
		attrs := r.Attributes
		if _, known := baseByID[baseID]; known && attrs.ImageURL == nil {
			if url, ok := inferred[strings.ToLower(r.ID)]; ok {
				attrs.ImageURL = &url
			}
		}
		vars = append(vars, variation{
			id:     r.ID,
			baseID: baseID,
			name:   str(r.Name),
			attrs:  attrs,
		})
	}
	return vars
}

func (v variation) key() string {
	if s := str(v.attrs.ImageURL); s != "" {
		return s
	}
	return v.id
}

// coalesce returns the override when it was authored, the base value
// otherwise. Zero values such as a price of 0 count as authored.
func coalesce[T any](override, base *T) *T {
	if override != nil {
		return override
	}
	return base
}

func stem(file string) string {
	return strings.TrimSuffix(file, path.Ext(file))
}

func str(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func num(f *float64) float64 {
	if f == nil {
		return 0
	}
	return *f
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if v != "" {
			return v
		}
	}
	return ""
}
