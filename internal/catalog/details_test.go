package catalog

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

type fakeViews map[string]map[string]string

func (f fakeViews) ResolveViews(baseID string, views []string) map[string]string {
	return f[baseID]
}

func detailItems() []Item {
	return []Item{
		{ID: 1, SKU: "001", Name: "AdventureBag 001", IsBase: true, BaseID: "Base_01", ImageURL: "/backpacks/Base_01.jpg"},
		{ID: 2, SKU: "002", Name: "AdventureBag 002", IsBase: true, BaseID: "Base_02"},
		{ID: 3, SKU: "003", Name: "AdventureBag 003", BaseID: "Base_01", ImageURL: "/backpacks/Var_01_1.jpg"},
		{ID: 4, SKU: "004", Name: "AdventureBag 004", BaseID: "Base_01"},
	}
}

func TestFind(t *testing.T) {
	tests := []struct {
		ref    string
		wantID int
		ok     bool
	}{
		{"003", 3, true},
		{"3", 3, true},
		{" 004 ", 4, true},
		{"9", 0, false},
		{"", 0, false},
		{"abc", 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.ref, func(t *testing.T) {
			it, ok := Find(detailItems(), tt.ref)
			if ok != tt.ok || it.ID != tt.wantID {
				t.Errorf("Find(%q) = %d, %v; want %d, %v", tt.ref, it.ID, ok, tt.wantID, tt.ok)
			}
		})
	}
}

func TestDescribe(t *testing.T) {
	items := detailItems()
	views := fakeViews{
		"Base_01": {
			"side":          "/backpacks/Base_01_side.png",
			"detail_handle": "/backpacks/Base_01_detail_handle.jpg",
		},
	}

	d := Describe(items, items[2], views, Options{})

	if d.DisplaySKU != "AB-000003" {
		t.Errorf("DisplaySKU = %q, want AB-000003", d.DisplaySKU)
	}
	if d.Hero != "/backpacks/Var_01_1.jpg" {
		t.Errorf("Hero = %q, want the variation image", d.Hero)
	}

	wantGallery := []GalleryImage{
		{Key: "hero", URL: "/backpacks/Var_01_1.jpg", Alt: "AdventureBag 003 hero"},
		{Key: "side", URL: "/backpacks/Base_01_side.png", Alt: "AdventureBag 003 side view"},
		{Key: "detail_handle", URL: "/backpacks/Base_01_detail_handle.jpg", Alt: "AdventureBag 003 handle detail"},
	}
	if diff := cmp.Diff(wantGallery, d.Gallery); diff != "" {
		t.Errorf("Gallery mismatch (-want +got):\n%s", diff)
	}

	if diff := cmp.Diff([]int{1, 4}, ids(d.Siblings)); diff != "" {
		t.Errorf("Siblings mismatch (-want +got):\n%s", diff)
	}
}

func TestDescribeHeroFallsBackToBaseImage(t *testing.T) {
	items := detailItems()

	d := Describe(items, items[3], nil, Options{ImageURLPrefix: "/img"})

	if d.Hero != "/img/Base_01.jpg" {
		t.Errorf("Hero = %q, want /img/Base_01.jpg", d.Hero)
	}
	if len(d.Gallery) != 1 || d.Gallery[0].Key != "hero" {
		t.Errorf("Expected only the hero without a resolver, got %+v", d.Gallery)
	}
}

func TestDescribeWithoutAnyImage(t *testing.T) {
	it := Item{ID: 7, SKU: "007", Name: "AdventureBag 007"}

	d := Describe([]Item{it}, it, fakeViews{}, Options{})

	if d.Hero != "" {
		t.Errorf("Hero = %q, want empty", d.Hero)
	}
	if len(d.Gallery) != 1 || d.Gallery[0].Key != "placeholder" {
		t.Errorf("Expected a placeholder, got %+v", d.Gallery)
	}
	if d.Siblings == nil || len(d.Siblings) != 0 {
		t.Errorf("Expected empty siblings, got %#v", d.Siblings)
	}
}
