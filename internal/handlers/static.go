package handlers

import (
	"errors"
	"io/fs"
	"net/http"
	"strconv"

	"github.com/adventurebag/shop/internal/images"
)

// HandleImage serves an original image from the image directory.
func (h *Handler) HandleImage(w http.ResponseWriter, r *http.Request) {
	name := r.PathValue("file")

	fullPath, err := h.images.Open(name)
	if err != nil {
		h.writeImageError(w, r, err)
		return
	}

	w.Header().Set("Cache-Control", "public, max-age=3600")
	http.ServeFile(w, r, fullPath)
}

// HandleThumb serves a downscaled JPEG of an image (?size=thumb|medium).
func (h *Handler) HandleThumb(w http.ResponseWriter, r *http.Request) {
	name := r.PathValue("file")
	size := r.URL.Query().Get("size")

	data, err := h.images.Thumbnail(name, size)
	if err != nil {
		h.writeImageError(w, r, err)
		return
	}

	w.Header().Set("Content-Type", "image/jpeg")
	w.Header().Set("Content-Length", strconv.Itoa(len(data)))
	w.Header().Set("Cache-Control", "public, max-age=86400")
	if _, err := w.Write(data); err != nil {
		h.log(r).Debug("Unable to write thumbnail", "file", name, "err", err)
	}
}

func (h *Handler) writeImageError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, images.ErrInvalidName):
		h.writeError(w, r, "Invalid file path", http.StatusBadRequest)
	case errors.Is(err, fs.ErrNotExist):
		h.writeError(w, r, "Image not found", http.StatusNotFound)
	default:
		h.log(r).Error("Failed to serve image", "err", err)
		h.writeError(w, r, "Failed to process image", http.StatusInternalServerError)
	}
}
