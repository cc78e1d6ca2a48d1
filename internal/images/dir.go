package images

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path"
	"path/filepath"
	"regexp"
	"sort"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
)

// ErrInvalidName is returned for image names that are not plain image
// files inside the directory.
var ErrInvalidName = errors.New("invalid image name")

// safeBaseID guards the glob pattern built from a base id.
var safeBaseID = regexp.MustCompile(`^[A-Za-z0-9_-]+$`)

// Dir is the public image folder backing the catalog. File names in it are
// part of the content-author contract (Var_NN_K.jpg, Base_NN_side.png, ...).
type Dir struct {
	Path      string
	URLPrefix string
}

// NewDir creates a new image directory handle
func NewDir(dirPath, urlPrefix string) *Dir {
	if urlPrefix == "" {
		urlPrefix = "/backpacks"
	}
	return &Dir{
		Path:      dirPath,
		URLPrefix: strings.TrimSuffix(urlPrefix, "/"),
	}
}

// List returns the names of the regular files in the directory, sorted.
// A missing directory is reported as an error; callers decide whether
// that matters.
func (d *Dir) List() ([]string, error) {
	entries, err := os.ReadDir(d.Path)
	if err != nil {
		return nil, fmt.Errorf("failed to read image directory: %w", err)
	}

	names := make([]string, 0, len(entries))
	for _, e := range entries {
		if e.Type().IsRegular() {
			names = append(names, e.Name())
		}
	}
	sort.Strings(names)
	return names, nil
}

// URL returns the public URL of a file in the directory.
func (d *Dir) URL(name string) string {
	return d.URLPrefix + "/" + name
}

// ResolveViews finds <baseID>_<view>.png or .jpg for every view, preferring
// png when both exist. Views with no file are left out of the result.
func (d *Dir) ResolveViews(baseID string, views []string) map[string]string {
	found := make(map[string]string)
	if !safeBaseID.MatchString(baseID) || len(views) == 0 {
		return found
	}

	pattern := fmt.Sprintf("%s_{%s}.{png,jpg}", baseID, strings.Join(views, ","))
	matches, err := doublestar.Glob(os.DirFS(d.Path), pattern)
	if err != nil {
		slog.Debug("Gallery glob failed", "base_id", baseID, "pattern", pattern, "err", err)
		return found
	}

	present := make(map[string]bool, len(matches))
	for _, m := range matches {
		present[path.Base(m)] = true
	}

	for _, view := range views {
		for _, ext := range []string{".png", ".jpg"} {
			name := baseID + "_" + view + ext
			if present[name] {
				found[view] = d.URL(name)
				break
			}
		}
	}
	return found
}

// Open validates name and returns the on-disk path of an image in the
// directory. Names containing path separators are rejected.
func (d *Dir) Open(name string) (string, error) {
	if name == "" || strings.ContainsAny(name, `/\`) || strings.Contains(name, "..") {
		return "", fmt.Errorf("%w: %q", ErrInvalidName, name)
	}
	switch strings.ToLower(path.Ext(name)) {
	case ".png", ".jpg", ".jpeg":
	default:
		return "", fmt.Errorf("%w: unsupported type %q", ErrInvalidName, name)
	}

	full := filepath.Join(d.Path, name)
	info, err := os.Stat(full)
	if err != nil {
		return "", fmt.Errorf("failed to stat image: %w", err)
	}
	if !info.Mode().IsRegular() {
		return "", fmt.Errorf("%w: not a file %q", ErrInvalidName, name)
	}
	return full, nil
}
