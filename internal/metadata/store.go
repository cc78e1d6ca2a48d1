package metadata

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"gopkg.in/yaml.v3"
)

// Store is the ordered, read-only list of product records. Order matters:
// base items are emitted in store order.
type Store struct {
	Records []Record `yaml:"backpacks"`
}

// NewStore wraps records in a Store.
func NewStore(records ...Record) *Store {
	return &Store{Records: records}
}

// Bases returns base products in store order.
func (s *Store) Bases() []Record {
	if s == nil {
		return nil
	}
	var bases []Record
	for _, r := range s.Records {
		if r.IsBaseProduct() {
			bases = append(bases, r)
		}
	}
	return bases
}

// Variations returns explicit variations in store order.
func (s *Store) Variations() []Record {
	if s == nil {
		return nil
	}
	var vars []Record
	for _, r := range s.Records {
		if r.IsExplicitVariation() {
			vars = append(vars, r)
		}
	}
	return vars
}

// Parse decodes a YAML metadata document.
func Parse(data []byte) (*Store, error) {
	var store Store
	if len(bytes.TrimSpace(data)) == 0 {
		return &store, nil
	}

	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&store); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("failed to parse metadata: %w", err)
	}
	return &store, nil
}

// Load reads a YAML metadata file from disk.
func Load(path string) (*Store, error) {
	slog.Debug("Loading metadata", "path", path)

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read metadata file: %w", err)
	}

	store, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	slog.Debug("Metadata loaded", "path", path, "records", len(store.Records),
		"bases", len(store.Bases()), "variations", len(store.Variations()))
	return store, nil
}
