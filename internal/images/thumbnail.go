package images

import (
	"bytes"
	"fmt"
	"log/slog"

	"github.com/disintegration/imaging"
)

const (
	SizeThumb  = "thumb"
	SizeMedium = "medium"

	qualityThumb  = 60
	qualityMedium = 75

	maxSizeThumb  = 300
	maxSizeMedium = 800
)

// Thumbnail decodes the named image and re-encodes it as a JPEG whose
// longest side is at most the limit for size. Images already within the
// limit keep their dimensions. Unknown sizes fall back to medium.
func (d *Dir) Thumbnail(name, size string) ([]byte, error) {
	full, err := d.Open(name)
	if err != nil {
		return nil, err
	}

	img, err := imaging.Open(full, imaging.AutoOrientation(true))
	if err != nil {
		return nil, fmt.Errorf("failed to decode image: %w", err)
	}

	maxDim, quality := maxSizeMedium, qualityMedium
	switch size {
	case SizeThumb:
		maxDim, quality = maxSizeThumb, qualityThumb
	case SizeMedium, "":
	default:
		slog.Debug("Unknown thumbnail size, defaulting to medium", "size", size)
	}

	bounds := img.Bounds()
	resized := imaging.Fit(img, maxDim, maxDim, imaging.Lanczos)

	var buf bytes.Buffer
	if err := imaging.Encode(&buf, resized, imaging.JPEG, imaging.JPEGQuality(quality)); err != nil {
		return nil, fmt.Errorf("failed to encode to JPEG: %w", err)
	}

	slog.Debug("Thumbnail rendered",
		"name", name,
		"size", size,
		"from", fmt.Sprintf("%dx%d", bounds.Dx(), bounds.Dy()),
		"to", fmt.Sprintf("%dx%d", resized.Bounds().Dx(), resized.Bounds().Dy()),
		"bytes", buf.Len())
	return buf.Bytes(), nil
}
