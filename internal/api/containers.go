package api

import (
	"database/sql"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/PpairNode/LibStock/internal/access"
	"github.com/PpairNode/LibStock/internal/model"
	"github.com/PpairNode/LibStock/internal/store"
)

// ContainersHandler handles container CRUD endpoints.
type ContainersHandler struct {
	DB *sql.DB
}

type containerRequest struct {
	Name string `json:"name"`
}

// List handles GET /api/containers.
func (h *ContainersHandler) List(w http.ResponseWriter, r *http.Request) {
	identity, _ := GetIdentity(r.Context())

	containers, err := store.ListContainersForUser(r.Context(), h.DB, identity.ID)
	if err != nil {
		jsonError(w, http.StatusInternalServerError, "failed to list containers")
		return
	}
	if containers == nil {
		containers = []model.Container{}
	}
	jsonResponse(w, http.StatusOK, containers)
}

// Create handles POST /api/containers.
func (h *ContainersHandler) Create(w http.ResponseWriter, r *http.Request) {
	identity, _ := GetIdentity(r.Context())

	var req containerRequest
	if err := decodeJSON(r, &req); err != nil {
		jsonError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	name := strings.TrimSpace(req.Name)
	if name == "" || len(name) > model.MaxNameLen {
		jsonError(w, http.StatusBadRequest,
			fmt.Sprintf("invalid container name length (%d characters maximum)", model.MaxNameLen))
		return
	}

	existing, err := store.GetContainerByName(r.Context(), h.DB, identity.ID, name)
	if err != nil {
		jsonError(w, http.StatusInternalServerError, "internal error")
		return
	}
	if existing != nil {
		jsonError(w, http.StatusConflict, "container already exists")
		return
	}

	container, err := store.CreateContainer(r.Context(), h.DB, name, identity.ID)
	if err != nil {
		jsonError(w, http.StatusInternalServerError, "failed to create container")
		return
	}

	jsonResponse(w, http.StatusCreated, container)
}

// Get handles GET /api/containers/{id}.
func (h *ContainersHandler) Get(w http.ResponseWriter, r *http.Request) {
	identity, _ := GetIdentity(r.Context())

	container, err := access.Authorize(r.Context(), h.DB, r.PathValue("id"), identity)
	if err != nil {
		writeAccessError(w, err)
		return
	}
	jsonResponse(w, http.StatusOK, container)
}

// Update handles PUT /api/containers/{id} (rename).
func (h *ContainersHandler) Update(w http.ResponseWriter, r *http.Request) {
	identity, _ := GetIdentity(r.Context())

	container, err := access.Authorize(r.Context(), h.DB, r.PathValue("id"), identity)
	if err != nil {
		writeAccessError(w, err)
		return
	}

	var req containerRequest
	if err := decodeJSON(r, &req); err != nil {
		jsonError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	name := strings.TrimSpace(req.Name)
	if name == "" || len(name) > model.MaxNameLen {
		jsonError(w, http.StatusBadRequest,
			fmt.Sprintf("invalid container name length (%d characters maximum)", model.MaxNameLen))
		return
	}

	if name != container.Name {
		existing, err := store.GetContainerByName(r.Context(), h.DB, container.AdminID, name)
		if err != nil {
			jsonError(w, http.StatusInternalServerError, "internal error")
			return
		}
		if existing != nil {
			jsonError(w, http.StatusConflict, "container already exists")
			return
		}
	}

	if err := store.UpdateContainerName(r.Context(), h.DB, container.ID, name); err != nil {
		jsonError(w, http.StatusInternalServerError, "failed to update container")
		return
	}

	updated, _ := store.GetContainer(r.Context(), h.DB, container.ID)
	jsonResponse(w, http.StatusOK, updated)
}

// Delete handles DELETE /api/containers/{id}. Cascades to all categories and
// items owned by the container.
func (h *ContainersHandler) Delete(w http.ResponseWriter, r *http.Request) {
	identity, _ := GetIdentity(r.Context())

	container, err := access.Authorize(r.Context(), h.DB, r.PathValue("id"), identity)
	if err != nil {
		writeAccessError(w, err)
		return
	}

	if err := store.DeleteContainer(r.Context(), h.DB, container.ID); err != nil {
		jsonError(w, http.StatusInternalServerError, "failed to delete container")
		return
	}

	jsonResponse(w, http.StatusOK, map[string]string{"message": "container deleted"})
}

// writeAccessError maps gate errors to HTTP responses: denial is 403, any
// other failure is an internal error.
func writeAccessError(w http.ResponseWriter, err error) {
	if errors.Is(err, access.ErrDenied) {
		jsonError(w, http.StatusForbidden, "unauthorized access to this container")
		return
	}
	jsonError(w, http.StatusInternalServerError, "internal error")
}
