package export

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/parquet-go/parquet-go"
	"gopkg.in/yaml.v3"

	"github.com/adventurebag/shop/internal/catalog"
)

// Supported output formats.
const (
	FormatJSON    = "json"
	FormatYAML    = "yaml"
	FormatParquet = "parquet"
)

// Row is the flat Parquet record for one catalog item.
type Row struct {
	ID          int64   `parquet:"id"`
	SKU         string  `parquet:"sku"`
	Name        string  `parquet:"name"`
	Subtitle    string  `parquet:"subtitle"`
	IsBase      bool    `parquet:"is_base"`
	BaseID      string  `parquet:"base_id"`
	ImageURL    string  `parquet:"image_url"`
	Price       float64 `parquet:"price"`
	Audience    string  `parquet:"audience"`
	Purpose     string  `parquet:"purpose"`
	Material    string  `parquet:"material"`
	Color       string  `parquet:"color"`
	PriceBand   string  `parquet:"price_band"`
	Description string  `parquet:"description"`
}

// Rows converts catalog items to Parquet rows.
func Rows(items []catalog.Item) []Row {
	rows := make([]Row, 0, len(items))
	for _, it := range items {
		rows = append(rows, Row{
			ID:          int64(it.ID),
			SKU:         it.SKU,
			Name:        it.Name,
			Subtitle:    it.Subtitle,
			IsBase:      it.IsBase,
			BaseID:      it.BaseID,
			ImageURL:    it.ImageURL,
			Price:       it.Price,
			Audience:    it.Audience,
			Purpose:     it.Purpose,
			Material:    it.Material,
			Color:       it.Color,
			PriceBand:   it.PriceBand,
			Description: it.Description,
		})
	}
	return rows
}

// FormatFromPath guesses the format from a file extension.
func FormatFromPath(path string) string {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML
	case ".parquet":
		return FormatParquet
	default:
		return FormatJSON
	}
}

// Write encodes the catalog to w as JSON or YAML ({items: [...]}).
func Write(w io.Writer, items []catalog.Item, format string) error {
	resp := catalog.Response{Items: items}
	switch format {
	case FormatJSON, "":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		if err := enc.Encode(resp); err != nil {
			return fmt.Errorf("failed to encode JSON: %w", err)
		}
	case FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(resp); err != nil {
			return fmt.Errorf("failed to encode YAML: %w", err)
		}
		if err := enc.Close(); err != nil {
			return fmt.Errorf("failed to encode YAML: %w", err)
		}
	case FormatParquet:
		if err := parquet.Write(w, Rows(items)); err != nil {
			return fmt.Errorf("failed to write parquet: %w", err)
		}
	default:
		return fmt.Errorf("unsupported format: %s (supported: json, yaml, parquet)", format)
	}
	return nil
}

// WriteFile writes the catalog to path, creating parent directories.
func WriteFile(path string, items []catalog.Item, format string) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create output directory: %w", err)
		}
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}

	if err := Write(f, items, format); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("failed to close output file: %w", err)
	}
	return nil
}

// ReadParquet loads rows written by WriteFile.
func ReadParquet(path string) ([]Row, error) {
	rows, err := parquet.ReadFile[Row](path)
	if err != nil {
		return nil, fmt.Errorf("failed to read parquet: %w", err)
	}
	return rows, nil
}
