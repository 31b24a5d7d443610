package api

import (
	"database/sql"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/PpairNode/LibStock/internal/access"
	"github.com/PpairNode/LibStock/internal/model"
	"github.com/PpairNode/LibStock/internal/store"
)

// CategoriesHandler handles category CRUD endpoints, always scoped to an
// authorized container.
type CategoriesHandler struct {
	DB *sql.DB
}

type categoryRequest struct {
	Name string `json:"name"`
}

// List handles GET /api/containers/{id}/categories.
func (h *CategoriesHandler) List(w http.ResponseWriter, r *http.Request) {
	identity, _ := GetIdentity(r.Context())

	container, err := access.Authorize(r.Context(), h.DB, r.PathValue("id"), identity)
	if err != nil {
		writeAccessError(w, err)
		return
	}

	categories, err := store.ListCategories(r.Context(), h.DB, container.ID)
	if err != nil {
		jsonError(w, http.StatusInternalServerError, "failed to list categories")
		return
	}
	if categories == nil {
		categories = []model.Category{}
	}
	jsonResponse(w, http.StatusOK, categories)
}

// Create handles POST /api/containers/{id}/categories.
func (h *CategoriesHandler) Create(w http.ResponseWriter, r *http.Request) {
	identity, _ := GetIdentity(r.Context())

	container, err := access.Authorize(r.Context(), h.DB, r.PathValue("id"), identity)
	if err != nil {
		writeAccessError(w, err)
		return
	}

	var req categoryRequest
	if err := decodeJSON(r, &req); err != nil {
		jsonError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	name := strings.TrimSpace(req.Name)
	if name == "" || len(name) > model.MaxNameLen {
		jsonError(w, http.StatusBadRequest,
			fmt.Sprintf("invalid category name length (%d characters maximum)", model.MaxNameLen))
		return
	}

	existing, err := store.GetCategoryByName(r.Context(), h.DB, container.ID, name)
	if err != nil {
		jsonError(w, http.StatusInternalServerError, "internal error")
		return
	}
	if existing != nil {
		jsonError(w, http.StatusConflict, "category already exists")
		return
	}

	category, err := store.CreateCategory(r.Context(), h.DB, container.ID, name)
	if err != nil {
		jsonError(w, http.StatusInternalServerError, "failed to create category")
		return
	}

	jsonResponse(w, http.StatusCreated, category)
}

// Update handles PUT /api/containers/{id}/categories/{categoryID}.
func (h *CategoriesHandler) Update(w http.ResponseWriter, r *http.Request) {
	identity, _ := GetIdentity(r.Context())

	container, err := access.Authorize(r.Context(), h.DB, r.PathValue("id"), identity)
	if err != nil {
		writeAccessError(w, err)
		return
	}

	categoryID, err := strconv.ParseInt(r.PathValue("categoryID"), 10, 64)
	if err != nil {
		jsonError(w, http.StatusBadRequest, "invalid category id")
		return
	}

	var req categoryRequest
	if err := decodeJSON(r, &req); err != nil {
		jsonError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	name := strings.TrimSpace(req.Name)
	if name == "" || len(name) > model.MaxNameLen {
		jsonError(w, http.StatusBadRequest,
			fmt.Sprintf("invalid category name length (%d characters maximum)", model.MaxNameLen))
		return
	}

	existing, err := store.GetCategoryByName(r.Context(), h.DB, container.ID, name)
	if err != nil {
		jsonError(w, http.StatusInternalServerError, "internal error")
		return
	}
	if existing != nil && existing.ID != categoryID {
		jsonError(w, http.StatusConflict, "category already exists")
		return
	}

	updated, err := store.UpdateCategoryName(r.Context(), h.DB, container.ID, categoryID, name)
	if err != nil {
		jsonError(w, http.StatusInternalServerError, "failed to update category")
		return
	}
	if !updated {
		jsonError(w, http.StatusNotFound, "category not found")
		return
	}

	jsonResponse(w, http.StatusOK, map[string]string{"message": "category updated"})
}

// Delete handles DELETE /api/containers/{id}/categories/{categoryID}.
// Cascades to all items in the category; items in other categories are
// untouched.
func (h *CategoriesHandler) Delete(w http.ResponseWriter, r *http.Request) {
	identity, _ := GetIdentity(r.Context())

	container, err := access.Authorize(r.Context(), h.DB, r.PathValue("id"), identity)
	if err != nil {
		writeAccessError(w, err)
		return
	}

	categoryID, err := strconv.ParseInt(r.PathValue("categoryID"), 10, 64)
	if err != nil {
		jsonError(w, http.StatusBadRequest, "invalid category id")
		return
	}

	deleted, err := store.DeleteCategory(r.Context(), h.DB, container.ID, categoryID)
	if err != nil {
		jsonError(w, http.StatusInternalServerError, "failed to delete category")
		return
	}
	if !deleted {
		jsonError(w, http.StatusNotFound, "category not found")
		return
	}

	jsonResponse(w, http.StatusOK, map[string]string{"message": "category deleted"})
}
