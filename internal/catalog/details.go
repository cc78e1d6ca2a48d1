package catalog

import (
	"fmt"
	"strconv"
	"strings"
)

// GalleryView is one of the conventional extra shots of a base model,
// stored as <baseId>_<view>.(png|jpg).
type GalleryView struct {
	Key string
	Alt string
}

// GalleryViews lists the extra shots shown on the details page, in order.
var GalleryViews = []GalleryView{
	{Key: "side", Alt: "side view"},
	{Key: "back", Alt: "back view"},
	{Key: "detail_zipper", Alt: "zipper detail"},
	{Key: "detail_handle", Alt: "handle detail"},
}

// ViewResolver maps a base id to the public URLs of the gallery views that
// exist for it, keyed by view.
type ViewResolver interface {
	ResolveViews(baseID string, views []string) map[string]string
}

type GalleryImage struct {
	Key string `json:"key"`
	URL string `json:"url,omitempty"`
	Alt string `json:"alt"`
}

// Details is everything the details page needs for one item.
type Details struct {
	Item       Item           `json:"item"`
	DisplaySKU string         `json:"displaySku"`
	Hero       string         `json:"hero,omitempty"`
	Gallery    []GalleryImage `json:"gallery"`
	Siblings   []Item         `json:"siblings"`
}

// Find looks an item up by SKU ("007") or numeric id ("7").
func Find(items []Item, ref string) (Item, bool) {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return Item{}, false
	}
	for _, it := range items {
		if it.SKU == ref {
			return it, true
		}
	}
	if id, err := strconv.Atoi(ref); err == nil {
		for _, it := range items {
			if it.ID == id {
				return it, true
			}
		}
	}
	return Item{}, false
}

// Describe assembles the details view of it. views may be nil, in which
// case only the hero image is listed.
func Describe(items []Item, it Item, views ViewResolver, opts Options) Details {
	d := Details{
		Item:       it,
		DisplaySKU: fmt.Sprintf("AB-%06d", it.ID),
		Siblings:   []Item{},
	}

	baseID := it.BaseID
	d.Hero = it.ImageURL
	if d.Hero == "" && baseID != "" {
		d.Hero = opts.imageURL(baseID + ".jpg")
	}

	if d.Hero != "" {
		d.Gallery = append(d.Gallery, GalleryImage{Key: "hero", URL: d.Hero, Alt: it.Name + " hero"})
	} else {
		d.Gallery = append(d.Gallery, GalleryImage{Key: "placeholder", Alt: it.Name})
	}

	if baseID != "" && views != nil {
		keys := make([]string, len(GalleryViews))
		for i, v := range GalleryViews {
			keys[i] = v.Key
		}
		found := views.ResolveViews(baseID, keys)
		for _, v := range GalleryViews {
			if url, ok := found[v.Key]; ok {
				d.Gallery = append(d.Gallery, GalleryImage{Key: v.Key, URL: url, Alt: it.Name + " " + v.Alt})
			}
		}
	}

	for _, other := range items {
		if other.BaseID == baseID && other.ID != it.ID {
			d.Siblings = append(d.Siblings, other)
		}
	}
	return d
}
