package api

import (
	"errors"
	"io"
	"io/fs"
	"log/slog"
	"mime"
	"net/http"
	"path/filepath"

	"github.com/PpairNode/LibStock/internal/imaging"
	"github.com/PpairNode/LibStock/internal/media"
)

// maxUploadSize caps image uploads at 16 MiB.
const maxUploadSize = 16 << 20

// MediaHandler handles image upload and retrieval.
type MediaHandler struct {
	Blobs *media.Store
}

// Upload handles POST /api/media. The image arrives as the multipart form
// field "image", is validated and downscaled if oversized, and is stored
// under a random filename that the client then attaches to an item.
func (h *MediaHandler) Upload(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxUploadSize)
	if err := r.ParseMultipartForm(maxUploadSize); err != nil {
		jsonError(w, http.StatusBadRequest, "invalid multipart form")
		return
	}

	file, header, err := r.FormFile("image")
	if err != nil {
		jsonError(w, http.StatusBadRequest, "missing image file")
		return
	}
	defer file.Close()

	name, err := media.NewFilename(header.Filename)
	if err != nil {
		jsonError(w, http.StatusBadRequest, "unsupported image extension")
		return
	}

	data, err := io.ReadAll(file)
	if err != nil {
		jsonError(w, http.StatusInternalServerError, "failed to read upload")
		return
	}

	processed, err := imaging.Process(data)
	if err != nil {
		jsonError(w, http.StatusBadRequest, "invalid image data")
		return
	}

	if err := h.Blobs.Save(name, processed); err != nil {
		slog.Error("failed to store image", "name", name, "error", err)
		jsonError(w, http.StatusInternalServerError, "failed to store image")
		return
	}

	jsonResponse(w, http.StatusCreated, map[string]string{"image_path": name})
}

// Serve handles GET /api/media/{filename}.
func (h *MediaHandler) Serve(w http.ResponseWriter, r *http.Request) {
	name := r.PathValue("filename")

	data, err := h.Blobs.Read(name)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) || errors.Is(err, media.ErrInvalidName) {
			jsonError(w, http.StatusNotFound, "image not found")
			return
		}
		jsonError(w, http.StatusInternalServerError, "failed to read image")
		return
	}

	contentType := mime.TypeByExtension(filepath.Ext(name))
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	w.Header().Set("Content-Type", contentType)
	w.WriteHeader(http.StatusOK)
	w.Write(data)
}
