package catalog

import (
	"sort"
	"strconv"
	"strings"
)

// Query selects catalog items. Empty filter lists match everything.
type Query struct {
	Text      string
	Audience  []string
	Purpose   []string
	Material  []string
	PriceBand []string
}

// Facets lists the distinct filter values present in a catalog.
type Facets struct {
	Audience  []string `json:"audience"`
	Purpose   []string `json:"purpose"`
	Material  []string `json:"material"`
	PriceBand []string `json:"priceBand"`
}

// Filter returns the items matching q, preserving catalog order.
func Filter(items []Item, q Query) []Item {
	text := strings.ToLower(strings.TrimSpace(q.Text))

	out := make([]Item, 0, len(items))
	for _, it := range items {
		if text != "" && !strings.Contains(haystack(it), text) {
			continue
		}
		if !oneOf(q.Audience, it.Audience) ||
			!oneOf(q.Purpose, it.Purpose) ||
			!oneOf(q.Material, it.Material) ||
			!oneOf(q.PriceBand, it.PriceBand) {
			continue
		}
		out = append(out, it)
	}
	return out
}

func haystack(it Item) string {
	return strings.ToLower(strings.Join([]string{it.Name, it.Description, it.Color, it.Material, it.Purpose}, " "))
}

func oneOf(allowed []string, v string) bool {
	if len(allowed) == 0 {
		return true
	}
	for _, a := range allowed {
		if a == v {
			return true
		}
	}
	return false
}

// BuildFacets collects distinct non-empty values in first-seen order. Price
// bands are ordered by their lower bound instead.
func BuildFacets(items []Item) Facets {
	f := Facets{
		Audience:  unique(items, func(it Item) string { return it.Audience }),
		Purpose:   unique(items, func(it Item) string { return it.Purpose }),
		Material:  unique(items, func(it Item) string { return it.Material }),
		PriceBand: unique(items, func(it Item) string { return it.PriceBand }),
	}
	SortPriceBands(f.PriceBand)
	return f
}

func unique(items []Item, field func(Item) string) []string {
	seen := make(map[string]bool)
	out := []string{}
	for _, it := range items {
		v := field(it)
		if v == "" || seen[v] {
			continue
		}
		seen[v] = true
		out = append(out, v)
	}
	return out
}

// SortPriceBands orders labels such as "€0–€29", "€30–€49", "€120+" by their
// lower bound. Labels without a number sort last, in their original order.
func SortPriceBands(bands []string) {
	sort.SliceStable(bands, func(i, j int) bool {
		return priceBandMin(bands[i]) < priceBandMin(bands[j])
	})
}

func priceBandMin(band string) float64 {
	cleaned := strings.TrimSpace(strings.ReplaceAll(band, "€", ""))
	if strings.Contains(cleaned, "+") {
		cleaned = strings.ReplaceAll(cleaned, "+", "")
	} else if i := strings.IndexAny(cleaned, "–-"); i >= 0 {
		cleaned = cleaned[:i]
	}
	v, err := strconv.ParseFloat(strings.TrimSpace(cleaned), 64)
	if err != nil {
		return 1 << 53
	}
	return v
}
