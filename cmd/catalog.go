package cmd

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/adventurebag/shop/internal/catalog"
	"github.com/adventurebag/shop/internal/config"
	"github.com/adventurebag/shop/internal/export"
	"github.com/adventurebag/shop/internal/images"
	"github.com/adventurebag/shop/internal/metadata"
)

func newCatalogCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "catalog",
		Short: "Build, export and check the catalog offline",
		Long: `Catalog tools that run the same assembly as the web service without
starting it: print the catalog, export it for analysis, or report how
many variations were inferred, replaced or dropped.`,
	}

	cmd.AddCommand(newCatalogBuildCmd())
	cmd.AddCommand(newCatalogExportCmd())
	cmd.AddCommand(newCatalogCheckCmd())

	return cmd
}

func newCatalogBuildCmd() *cobra.Command {
	var (
		fallback bool
		format   string
		output   string
	)

	cmd := &cobra.Command{
		Use:   "build",
		Short: "Print the assembled catalog",
		Example: `  # Full catalog as JSON
  adventurebag catalog build

  # Metadata-only catalog as YAML
  adventurebag catalog build --fallback --format yaml

  # Catalog from another instance, falling back to local metadata
  adventurebag catalog build --upstream https://shop.example.com`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}

			items, err := buildItems(cmd.Context(), cfg, fallback)
			if err != nil {
				return err
			}

			if output != "" {
				if !cmd.Flags().Changed("format") {
					format = export.FormatFromPath(output)
				}
				if err := export.WriteFile(output, items, format); err != nil {
					return err
				}
				slog.Info("Catalog written", "output", output, "items", len(items), "format", format)
				return nil
			}
			return export.Write(cmd.OutOrStdout(), items, format)
		},
	}

	cmd.Flags().BoolVar(&fallback, "fallback", false, "Build the metadata-only catalog")
	cmd.Flags().String("upstream", "", "Base URL of a primary catalog service")
	cmd.Flags().StringVar(&format, "format", export.FormatJSON, "Output format (json, yaml)")
	cmd.Flags().StringVarP(&output, "output", "o", "", "Write to file instead of stdout")

	return cmd
}

func newCatalogExportCmd() *cobra.Command {
	var (
		fallback bool
		output   string
	)

	cmd := &cobra.Command{
		Use:     "export",
		Short:   "Export the catalog as a Parquet file",
		Example: `  adventurebag catalog export --output catalog.parquet`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}

			items, err := buildItems(cmd.Context(), cfg, fallback)
			if err != nil {
				return err
			}

			if err := export.WriteFile(output, items, export.FormatParquet); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Exported %d items to %s\n", len(items), output)
			return nil
		},
	}

	cmd.Flags().BoolVar(&fallback, "fallback", false, "Export the metadata-only catalog")
	cmd.Flags().StringVarP(&output, "output", "o", "catalog.parquet", "Output Parquet file")

	return cmd
}

func newCatalogCheckCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "check",
		Short: "Report how the catalog assembles",
		Long: `Loads the metadata file and the image folder, assembles the catalog and
prints a summary: bases, variations, image files scanned and ignored, and
variations replaced or dropped. Fails if the metadata file cannot be read.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}

			store, err := metadata.Load(cfg.MetadataPath)
			if err != nil {
				return err
			}

			dir := images.NewDir(cfg.ImagesDir, cfg.ImageURLPrefix)
			items, report := catalog.Assemble(store, dir, catalog.Options{ImageURLPrefix: dir.URLPrefix})
			printReport(cmd.OutOrStdout(), cfg, len(items), report)
			return nil
		},
	}

	return cmd
}

// buildItems runs the local or metadata-only assembly, or reads the
// upstream catalog with the metadata-only catalog as its fallback.
func buildItems(ctx context.Context, cfg config.Config, fallbackOnly bool) ([]catalog.Item, error) {
	store, err := metadata.Load(cfg.MetadataPath)
	if err != nil {
		return nil, err
	}

	provider := metadata.Static(store)
	dir := images.NewDir(cfg.ImagesDir, cfg.ImageURLPrefix)
	opts := catalog.Options{ImageURLPrefix: dir.URLPrefix}

	fallback := &catalog.FallbackSource{Metadata: provider, Options: opts}
	var source catalog.Source = &catalog.LocalSource{Metadata: provider, Images: dir, Options: opts}
	switch {
	case fallbackOnly:
		source = fallback
	case cfg.UpstreamURL != "":
		source = catalog.WithFallback(catalog.NewClient(cfg.UpstreamURL), fallback, slog.Default())
	}

	items, err := source.Items(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to build catalog: %w", err)
	}
	return items, nil
}

func printReport(w io.Writer, cfg config.Config, items int, r catalog.Report) {
	fmt.Fprintf(w, "Metadata:            %s\n", cfg.MetadataPath)
	fmt.Fprintf(w, "Images:              %s\n", cfg.ImagesDir)
	fmt.Fprintf(w, "Items:               %d\n", items)
	fmt.Fprintf(w, "  Bases:             %d\n", r.Bases)
	fmt.Fprintf(w, "  Variations:        %d\n", r.Variations)
	fmt.Fprintf(w, "Files scanned:       %d\n", r.FilesScanned)
	fmt.Fprintf(w, "Files ignored:       %d\n", r.FilesIgnored)
	fmt.Fprintf(w, "Replaced:            %d\n", r.Replaced)
	fmt.Fprintf(w, "Skipped (no base):   %d\n", r.UnknownBase)
	fmt.Fprintf(w, "Skipped (no baseId): %d\n", r.Unresolved)
	if r.ScanFailed {
		fmt.Fprintf(w, "\nWarning: image directory could not be read; no variations were inferred.\n")
		if _, err := os.Stat(cfg.ImagesDir); err != nil {
			fmt.Fprintf(w, "  %v\n", err)
		}
	}
}
