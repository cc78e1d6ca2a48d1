package config

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
)

// Config is the service configuration, read from the environment (and a
// .env file loaded by the root command).
type Config struct {
	Port           string
	MetadataPath   string
	ImagesDir      string
	ImageURLPrefix string
	CoachBaseURL   string
	UpstreamURL    string
	WatchMetadata  bool
	LogLevel       string
}

const (
	DefaultPort           = "8888"
	DefaultMetadataPath   = "data/backpacks.yaml"
	DefaultImagesDir      = "public/backpacks"
	DefaultImageURLPrefix = "/backpacks"
)

// Load builds a Config from environment variables, applying defaults.
func Load() Config {
	return Config{
		Port:           getenv("PORT", DefaultPort),
		MetadataPath:   getenv("METADATA_PATH", DefaultMetadataPath),
		ImagesDir:      getenv("IMAGES_DIR", DefaultImagesDir),
		ImageURLPrefix: getenv("IMAGE_URL_PREFIX", DefaultImageURLPrefix),
		CoachBaseURL:   strings.TrimSpace(os.Getenv("COACH_BASE_URL")),
		UpstreamURL:    strings.TrimSpace(os.Getenv("CATALOG_UPSTREAM_URL")),
		WatchMetadata:  getbool("WATCH_METADATA"),
		LogLevel:       getenv("LOG_LEVEL", "info"),
	}
}

// Addr returns the listen address for Port, which may or may not carry a
// leading colon.
func (c Config) Addr() string {
	return ":" + strings.TrimPrefix(c.Port, ":")
}

// ParseLevel maps a level name to a slog.Level.
func ParseLevel(name string) (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(strings.TrimSpace(name))); err != nil {
		return slog.LevelInfo, fmt.Errorf("invalid log level %q: %w", name, err)
	}
	return level, nil
}

func getenv(key, def string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return def
}

func getbool(key string) bool {
	v, err := strconv.ParseBool(strings.TrimSpace(os.Getenv(key)))
	return err == nil && v
}
