package cmd

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/adventurebag/shop/internal/config"
)

func NewRootCmd() *cobra.Command {
	var logLevel string

	cmd := &cobra.Command{
		Use:   "adventurebag",
		Short: "AdventureBag catalog service",
		Long: `AdventureBag assembles the shop catalog from the backpack metadata file and
the product image folder, and serves it together with search, details,
thumbnails and the Coach-driven page configuration.

Settings are read from the environment (and a .env file); flags override them.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			// Load .env file if present (ignore errors)
			_ = godotenv.Load()

			if !cmd.Flags().Changed("log-level") {
				logLevel = config.Load().LogLevel
			}
			level, err := config.ParseLevel(logLevel)
			if err != nil {
				return err
			}
			slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))
			return nil
		},
	}

	cmd.PersistentFlags().StringVar(&logLevel, "log-level", "info", "Log level (debug, info, warn, error)")
	cmd.PersistentFlags().String("metadata", config.DefaultMetadataPath, "Path to the backpack metadata YAML file")
	cmd.PersistentFlags().String("images", config.DefaultImagesDir, "Directory holding the product images")

	// Add subcommands
	cmd.AddCommand(newServeCmd())
	cmd.AddCommand(newCatalogCmd())

	return cmd
}

// loadConfig reads the environment and applies any flags set on cmd.
func loadConfig(cmd *cobra.Command) (config.Config, error) {
	cfg := config.Load()
	flags := cmd.Flags()

	overrides := []struct {
		name   string
		target *string
	}{
		{"metadata", &cfg.MetadataPath},
		{"images", &cfg.ImagesDir},
		{"port", &cfg.Port},
		{"upstream", &cfg.UpstreamURL},
	}
	for _, o := range overrides {
		if flags.Lookup(o.name) == nil || !flags.Changed(o.name) {
			continue
		}
		v, err := flags.GetString(o.name)
		if err != nil {
			return cfg, fmt.Errorf("failed to read --%s: %w", o.name, err)
		}
		*o.target = v
	}

	if flags.Lookup("watch") != nil && flags.Changed("watch") {
		watch, err := flags.GetBool("watch")
		if err != nil {
			return cfg, fmt.Errorf("failed to read --watch: %w", err)
		}
		cfg.WatchMetadata = watch
	}

	return cfg, nil
}
