package api

import (
	"database/sql"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/PpairNode/LibStock/internal/access"
	"github.com/PpairNode/LibStock/internal/media"
	"github.com/PpairNode/LibStock/internal/model"
	"github.com/PpairNode/LibStock/internal/store"
)

// ItemsHandler handles item CRUD endpoints within an authorized container.
type ItemsHandler struct {
	DB    *sql.DB
	Blobs *media.Store
}

// itemRequest mirrors the item form fields. Value and number are typed any so
// both JSON numbers and numeric strings are accepted.
type itemRequest struct {
	Owner       string   `json:"owner"`
	Name        string   `json:"name"`
	Category    string   `json:"category"`
	Serie       string   `json:"serie"`
	Description string   `json:"description"`
	Value       any      `json:"value"`
	DateCreated string   `json:"date_created"`
	Location    string   `json:"location"`
	Tags        []string `json:"tags"`
	ImagePath   string   `json:"image_path"`
	Comment     string   `json:"comment"`
	Condition   string   `json:"condition"`
	Number      any      `json:"number"`
	Edition     string   `json:"edition"`
}

// List handles GET /api/containers/{id}/items.
func (h *ItemsHandler) List(w http.ResponseWriter, r *http.Request) {
	identity, _ := GetIdentity(r.Context())

	container, err := access.Authorize(r.Context(), h.DB, r.PathValue("id"), identity)
	if err != nil {
		writeAccessError(w, err)
		return
	}

	items, err := store.ListItems(r.Context(), h.DB, container.ID)
	if err != nil {
		jsonError(w, http.StatusInternalServerError, "failed to list items")
		return
	}
	if items == nil {
		items = []model.Item{}
	}
	jsonResponse(w, http.StatusOK, items)
}

// Get handles GET /api/containers/{id}/items/{itemID}.
func (h *ItemsHandler) Get(w http.ResponseWriter, r *http.Request) {
	identity, _ := GetIdentity(r.Context())

	container, err := access.Authorize(r.Context(), h.DB, r.PathValue("id"), identity)
	if err != nil {
		writeAccessError(w, err)
		return
	}

	itemID, err := strconv.ParseInt(r.PathValue("itemID"), 10, 64)
	if err != nil {
		jsonError(w, http.StatusBadRequest, "invalid item id")
		return
	}

	item, err := store.GetItem(r.Context(), h.DB, container.ID, itemID)
	if err != nil {
		jsonError(w, http.StatusInternalServerError, "internal error")
		return
	}
	if item == nil {
		jsonError(w, http.StatusNotFound, "item not found")
		return
	}

	jsonResponse(w, http.StatusOK, item)
}

// Create handles POST /api/containers/{id}/items.
func (h *ItemsHandler) Create(w http.ResponseWriter, r *http.Request) {
	identity, _ := GetIdentity(r.Context())

	container, err := access.Authorize(r.Context(), h.DB, r.PathValue("id"), identity)
	if err != nil {
		writeAccessError(w, err)
		return
	}

	var req itemRequest
	if err := decodeJSON(r, &req); err != nil {
		jsonError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	req.Name = strings.TrimSpace(req.Name)
	req.Owner = strings.TrimSpace(req.Owner)
	if req.Owner == "" || req.Name == "" || req.Category == "" {
		jsonError(w, http.StatusBadRequest, "owner, name and category are required")
		return
	}
	if msg := validateItemFields(req.Name, map[string]string{
		"description": req.Description,
		"comment":     req.Comment,
	}, req.Tags); msg != "" {
		jsonError(w, http.StatusBadRequest, msg)
		return
	}

	category, err := store.GetCategoryByName(r.Context(), h.DB, container.ID, req.Category)
	if err != nil {
		jsonError(w, http.StatusInternalServerError, "internal error")
		return
	}
	if category == nil {
		jsonError(w, http.StatusNotFound, "category not found")
		return
	}

	imagePath := req.ImagePath
	if imagePath == "" {
		imagePath = media.NoImage
	}
	number := safeInt(req.Number, 1)
	if number <= 0 {
		number = 1
	}

	item := &model.Item{
		ContainerID: container.ID,
		CategoryID:  category.ID,
		Owner:       req.Owner,
		Name:        req.Name,
		Serie:       req.Serie,
		Description: req.Description,
		Value:       safeFloat(req.Value, 0),
		DateCreated: req.DateCreated,
		DateAdded:   time.Now().UTC(),
		Location:    req.Location,
		Creator:     identity.Username,
		Tags:        req.Tags,
		ImagePath:   imagePath,
		Comment:     req.Comment,
		Condition:   req.Condition,
		Number:      number,
		Edition:     req.Edition,
	}

	created, err := store.CreateItem(r.Context(), h.DB, item)
	if err != nil {
		jsonError(w, http.StatusInternalServerError, "failed to create item")
		return
	}

	jsonResponse(w, http.StatusCreated, created)
}

// Update handles PUT /api/containers/{id}/items/{itemID}. The creation
// timestamp and creator are never modified.
func (h *ItemsHandler) Update(w http.ResponseWriter, r *http.Request) {
	identity, _ := GetIdentity(r.Context())

	container, err := access.Authorize(r.Context(), h.DB, r.PathValue("id"), identity)
	if err != nil {
		writeAccessError(w, err)
		return
	}

	itemID, err := strconv.ParseInt(r.PathValue("itemID"), 10, 64)
	if err != nil {
		jsonError(w, http.StatusBadRequest, "invalid item id")
		return
	}

	existing, err := store.GetItem(r.Context(), h.DB, container.ID, itemID)
	if err != nil {
		jsonError(w, http.StatusInternalServerError, "internal error")
		return
	}
	if existing == nil {
		jsonError(w, http.StatusNotFound, "item not found")
		return
	}

	var req itemRequest
	if err := decodeJSON(r, &req); err != nil {
		jsonError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	req.Name = strings.TrimSpace(req.Name)
	req.Owner = strings.TrimSpace(req.Owner)
	if req.Owner == "" || req.Name == "" || req.Category == "" {
		jsonError(w, http.StatusBadRequest, "owner, name and category are required")
		return
	}
	if msg := validateItemFields(req.Name, map[string]string{
		"description": req.Description,
		"comment":     req.Comment,
	}, req.Tags); msg != "" {
		jsonError(w, http.StatusBadRequest, msg)
		return
	}

	category, err := store.GetCategoryByName(r.Context(), h.DB, container.ID, req.Category)
	if err != nil {
		jsonError(w, http.StatusInternalServerError, "internal error")
		return
	}
	if category == nil {
		jsonError(w, http.StatusNotFound, "category not found")
		return
	}

	imagePath := req.ImagePath
	if imagePath == "" {
		imagePath = media.NoImage
	}
	number := safeInt(req.Number, 1)
	if number <= 0 {
		number = 1
	}

	item := &model.Item{
		ID:          itemID,
		ContainerID: container.ID,
		CategoryID:  category.ID,
		Owner:       req.Owner,
		Name:        req.Name,
		Serie:       req.Serie,
		Description: req.Description,
		Value:       safeFloat(req.Value, 0),
		DateCreated: req.DateCreated,
		Location:    req.Location,
		Tags:        req.Tags,
		ImagePath:   imagePath,
		Comment:     req.Comment,
		Condition:   req.Condition,
		Number:      number,
		Edition:     req.Edition,
	}

	updated, err := store.UpdateItem(r.Context(), h.DB, item)
	if err != nil {
		jsonError(w, http.StatusInternalServerError, "failed to update item")
		return
	}
	if !updated {
		jsonError(w, http.StatusNotFound, "item not found")
		return
	}

	// The stored image file is orphaned when the path changes away from it.
	if existing.ImagePath != imagePath && existing.ImagePath != media.NoImage {
		if err := h.Blobs.Delete(existing.ImagePath); err != nil {
			slog.Warn("failed to remove replaced image", "path", existing.ImagePath, "error", err)
		}
	}

	jsonResponse(w, http.StatusOK, map[string]string{"message": "item updated"})
}

// Delete handles DELETE /api/containers/{id}/items/{itemID}. The item's image
// file is removed best-effort.
func (h *ItemsHandler) Delete(w http.ResponseWriter, r *http.Request) {
	identity, _ := GetIdentity(r.Context())

	container, err := access.Authorize(r.Context(), h.DB, r.PathValue("id"), identity)
	if err != nil {
		writeAccessError(w, err)
		return
	}

	itemID, err := strconv.ParseInt(r.PathValue("itemID"), 10, 64)
	if err != nil {
		jsonError(w, http.StatusBadRequest, "invalid item id")
		return
	}

	deleted, err := store.DeleteItem(r.Context(), h.DB, container.ID, itemID)
	if err != nil {
		jsonError(w, http.StatusInternalServerError, "failed to delete item")
		return
	}
	if deleted == nil {
		jsonError(w, http.StatusNotFound, "item not found")
		return
	}

	if deleted.ImagePath != "" && deleted.ImagePath != media.NoImage {
		if err := h.Blobs.Delete(deleted.ImagePath); err != nil {
			slog.Warn("failed to remove item image", "path", deleted.ImagePath, "error", err)
		}
	}

	jsonResponse(w, http.StatusOK, map[string]string{"message": "item deleted"})
}
