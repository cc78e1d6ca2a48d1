package config

import (
	"log/slog"
	"testing"
)

func TestLoadDefaults(t *testing.T) {
	for _, key := range []string{"PORT", "METADATA_PATH", "IMAGES_DIR", "IMAGE_URL_PREFIX", "COACH_BASE_URL", "CATALOG_UPSTREAM_URL", "WATCH_METADATA", "LOG_LEVEL"} {
		t.Setenv(key, "")
	}

	cfg := Load()

	want := Config{
		Port:           DefaultPort,
		MetadataPath:   DefaultMetadataPath,
		ImagesDir:      DefaultImagesDir,
		ImageURLPrefix: DefaultImageURLPrefix,
		LogLevel:       "info",
	}
	if cfg != want {
		t.Errorf("Load() = %+v, want %+v", cfg, want)
	}
}

func TestLoadFromEnvironment(t *testing.T) {
	t.Setenv("PORT", "3000")
	t.Setenv("METADATA_PATH", "/etc/shop/backpacks.yaml")
	t.Setenv("IMAGES_DIR", "/srv/images")
	t.Setenv("IMAGE_URL_PREFIX", "https://cdn.example.com/bags")
	t.Setenv("COACH_BASE_URL", " https://coach.example.com ")
	t.Setenv("CATALOG_UPSTREAM_URL", "https://shop.example.com")
	t.Setenv("WATCH_METADATA", "true")
	t.Setenv("LOG_LEVEL", "debug")

	cfg := Load()

	if cfg.Port != "3000" || cfg.MetadataPath != "/etc/shop/backpacks.yaml" || cfg.ImagesDir != "/srv/images" {
		t.Errorf("Unexpected paths: %+v", cfg)
	}
	if cfg.CoachBaseURL != "https://coach.example.com" {
		t.Errorf("Expected trimmed Coach URL, got %q", cfg.CoachBaseURL)
	}
	if !cfg.WatchMetadata {
		t.Error("Expected WatchMetadata to be true")
	}
	if cfg.Addr() != ":3000" {
		t.Errorf("Addr() = %q, want :3000", cfg.Addr())
	}
}

func TestGetbool(t *testing.T) {
	tests := map[string]bool{"1": true, "true": true, "TRUE": true, "0": false, "no": false, "": false}
	for v, want := range tests {
		t.Setenv("WATCH_METADATA", v)
		if got := getbool("WATCH_METADATA"); got != want {
			t.Errorf("getbool(%q) = %v, want %v", v, got, want)
		}
	}
}

func TestAddr(t *testing.T) {
	for port, want := range map[string]string{"8888": ":8888", ":9000": ":9000"} {
		if got := (Config{Port: port}).Addr(); got != want {
			t.Errorf("Addr() for %q = %q, want %q", port, got, want)
		}
	}
}

func TestParseLevel(t *testing.T) {
	tests := map[string]slog.Level{
		"debug": slog.LevelDebug,
		"INFO":  slog.LevelInfo,
		"warn":  slog.LevelWarn,
		"error": slog.LevelError,
	}
	for name, want := range tests {
		got, err := ParseLevel(name)
		if err != nil || got != want {
			t.Errorf("ParseLevel(%q) = %v, %v; want %v", name, got, err, want)
		}
	}

	if _, err := ParseLevel("loud"); err == nil {
		t.Error("Expected an error for an unknown level")
	}
}
