package api

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/PpairNode/LibStock/internal/access"
	"github.com/PpairNode/LibStock/internal/export"
	"github.com/PpairNode/LibStock/internal/media"
)

// ExportHandler handles container export, export preview and import.
type ExportHandler struct {
	DB    *sql.DB
	Blobs *media.Store
}

type exportRequest struct {
	ContainerIDs  []string `json:"container_ids"`
	IncludeImages *bool    `json:"include_images"`
}

// Export handles POST /api/export/containers. The response is a downloadable JSON
// document covering the requested containers.
func (h *ExportHandler) Export(w http.ResponseWriter, r *http.Request) {
	identity, _ := GetIdentity(r.Context())

	var req exportRequest
	if err := decodeJSON(r, &req); err != nil {
		jsonError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if len(req.ContainerIDs) == 0 {
		jsonError(w, http.StatusBadRequest, "no containers selected")
		return
	}

	includeImages := true
	if req.IncludeImages != nil {
		includeImages = *req.IncludeImages
	}

	doc, err := export.Export(r.Context(), h.DB, h.Blobs, req.ContainerIDs, identity, includeImages)
	if err != nil {
		if errors.Is(err, access.ErrDenied) {
			jsonError(w, http.StatusForbidden, "access denied")
			return
		}
		slog.Error("export failed", "error", err)
		jsonError(w, http.StatusInternalServerError, "export failed")
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Content-Disposition",
		fmt.Sprintf("attachment; filename=%q", export.Filename(time.Now())))
	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(doc); err != nil {
		slog.Error("failed to write export document", "error", err)
	}
}

// Preview handles POST /api/export/preview. Containers the requester cannot
// access are omitted from the response rather than failing the call.
func (h *ExportHandler) Preview(w http.ResponseWriter, r *http.Request) {
	identity, _ := GetIdentity(r.Context())

	var req exportRequest
	if err := decodeJSON(r, &req); err != nil {
		jsonError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if len(req.ContainerIDs) == 0 {
		jsonError(w, http.StatusBadRequest, "no containers selected")
		return
	}

	previews, err := export.Preview(r.Context(), h.DB, h.Blobs, req.ContainerIDs, identity)
	if err != nil {
		slog.Error("export preview failed", "error", err)
		jsonError(w, http.StatusInternalServerError, "preview failed")
		return
	}
	if previews == nil {
		previews = []export.ContainerPreview{}
	}

	jsonResponse(w, http.StatusOK, map[string]any{"containers": previews})
}

// Import handles POST /api/import/containers. The export document arrives as the
// multipart field "file" with the conflict strategy in "conflict_strategy".
func (h *ExportHandler) Import(w http.ResponseWriter, r *http.Request) {
	identity, _ := GetIdentity(r.Context())

	r.Body = http.MaxBytesReader(w, r.Body, maxImportSize)
	if err := r.ParseMultipartForm(maxImportSize); err != nil {
		jsonError(w, http.StatusBadRequest, "invalid multipart form")
		return
	}

	strategy, err := export.ParseStrategy(r.FormValue("conflict_strategy"))
	if err != nil {
		jsonError(w, http.StatusBadRequest, "unknown conflict strategy")
		return
	}

	file, _, err := r.FormFile("file")
	if err != nil {
		jsonError(w, http.StatusBadRequest, "missing import file")
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		jsonError(w, http.StatusInternalServerError, "failed to read import file")
		return
	}

	imported, err := export.Import(r.Context(), h.DB, h.Blobs, data, identity, strategy)
	if err != nil {
		switch {
		case errors.Is(err, export.ErrInvalidDocument):
			jsonError(w, http.StatusBadRequest, "invalid export document")
		case errors.Is(err, export.ErrUnsupportedVersion):
			jsonError(w, http.StatusBadRequest, "unsupported export version")
		default:
			slog.Error("import failed", "error", err)
			jsonError(w, http.StatusInternalServerError, "import failed")
		}
		return
	}
	if imported == nil {
		imported = []export.ImportedContainer{}
	}

	jsonResponse(w, http.StatusCreated, map[string]any{"containers": imported})
}

// maxImportSize caps import documents at 256 MiB, which leaves generous room
// for base64-inlined images.
const maxImportSize = 256 << 20
