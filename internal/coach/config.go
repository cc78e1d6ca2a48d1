package coach

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"
)

// FilterConfig controls one facet group on the search page.
type FilterConfig struct {
	Label   string `json:"label"`
	Enabled bool   `json:"enabled"`
}

// FilterKeys lists the search facets in display order.
var FilterKeys = []string{"audience", "purpose", "material", "priceBand"}

const (
	minVisibleCount = 1
	maxVisibleCount = 30
)

// SearchConfig is the merged search page configuration.
type SearchConfig struct {
	PageTitle    string                  `json:"pageTitle"`
	PageSubtitle string                  `json:"pageSubtitle"`
	VisibleCount int                     `json:"visibleCount"`
	FiltersTitle string                  `json:"filtersTitle"`
	Filters      map[string]FilterConfig `json:"filters"`
}

// DefaultSearchConfig returns the built-in search page configuration.
func DefaultSearchConfig() SearchConfig {
	return SearchConfig{
		PageTitle:    "Search",
		PageSubtitle: "Browse backpacks. Filters work on metadata (audience, purpose, material, price band).",
		VisibleCount: 24,
		FiltersTitle: "Filters",
		Filters: map[string]FilterConfig{
			"audience":  {Label: "Audience", Enabled: true},
			"purpose":   {Label: "Purpose", Enabled: true},
			"material":  {Label: "Material", Enabled: true},
			"priceBand": {Label: "Price", Enabled: true},
		},
	}
}

// MergeSearchConfig overlays the Coach document on the defaults. Top-level
// strings replace defaults when present. visibleCount is clamped to 1..30.
// Each known filter keeps its default label when Coach sends an empty one,
// and enabled is coerced to a boolean.
func MergeSearchConfig(data any) SearchConfig {
	cfg := DefaultSearchConfig()
	doc, _ := data.(map[string]any)

	if v, ok := doc["pageTitle"].(string); ok {
		cfg.PageTitle = v
	}
	if v, ok := doc["pageSubtitle"].(string); ok {
		cfg.PageSubtitle = v
	}
	if v, ok := doc["filtersTitle"].(string); ok {
		cfg.FiltersTitle = v
	}

	count := float64(cfg.VisibleCount)
	if raw, ok := doc["visibleCount"]; ok {
		count = toNumber(raw)
	}
	cfg.VisibleCount = int(math.Trunc(clamp(count, minVisibleCount, maxVisibleCount)))

	filters, _ := doc["filters"].(map[string]any)
	for _, key := range FilterKeys {
		def := cfg.Filters[key]
		override, _ := filters[key].(map[string]any)

		merged := def
		if raw, ok := override["enabled"]; ok {
			merged.Enabled = truthy(raw)
		}
		if raw, ok := override["label"]; ok && truthy(raw) {
			merged.Label = toString(raw)
		}
		cfg.Filters[key] = merged
	}

	return cfg
}

// DetailsConfig is the merged details page configuration.
type DetailsConfig struct {
	CTACaption    string `json:"ctaCaption"`
	CTAHelperText string `json:"ctaHelperText"`
	ImageTipText  string `json:"imageTipText"`
}

// DefaultDetailsConfig returns the built-in details page configuration.
func DefaultDetailsConfig() DetailsConfig {
	return DetailsConfig{
		CTACaption:    "Add to cart",
		CTAHelperText: "Prototype checkout. No payment, no shipping, no account required.",
		ImageTipText:  "Tip: click thumbnails to switch · click the big image to open full size",
	}
}

// MergeDetailsConfig overlays the Coach document on the defaults; empty or
// missing values keep the default text.
func MergeDetailsConfig(data any) DetailsConfig {
	cfg := DefaultDetailsConfig()
	doc, _ := data.(map[string]any)

	if raw := doc["ctaCaption"]; truthy(raw) {
		cfg.CTACaption = toString(raw)
	}
	if raw := doc["ctaHelperText"]; truthy(raw) {
		cfg.CTAHelperText = toString(raw)
	}
	if raw := doc["imageTipText"]; truthy(raw) {
		cfg.ImageTipText = toString(raw)
	}
	return cfg
}

func clamp(v, lo, hi float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return lo
	}
	return math.Max(lo, math.Min(hi, v))
}

// truthy follows JSON-value truthiness: false, 0, "", and null are false.
func truthy(v any) bool {
	switch t := v.(type) {
	case nil:
		return false
	case bool:
		return t
	case float64:
		return t != 0 && !math.IsNaN(t)
	case string:
		return t != ""
	default:
		return true
	}
}

// toNumber converts a decoded JSON value to a number; values with no
// numeric reading become NaN.
func toNumber(v any) float64 {
	switch t := v.(type) {
	case nil:
		return 0
	case bool:
		if t {
			return 1
		}
		return 0
	case float64:
		return t
	case string:
		s := strings.TrimSpace(t)
		if s == "" {
			return 0
		}
		f, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return math.NaN()
		}
		return f
	default:
		return math.NaN()
	}
}

func toString(v any) string {
	switch t := v.(type) {
	case string:
		return t
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(t)
	default:
		b, err := json.Marshal(t)
		if err != nil {
			return ""
		}
		return string(b)
	}
}
