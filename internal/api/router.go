package api

import (
	"database/sql"
	"net/http"

	"github.com/PpairNode/LibStock/internal/media"
)

// NewRouter creates the API router with all endpoints registered.
func NewRouter(db *sql.DB, blobs *media.Store, jwtSecret string) http.Handler {
	mux := http.NewServeMux()

	authHandler := &AuthHandler{DB: db, JWTSecret: jwtSecret}
	containersHandler := &ContainersHandler{DB: db}
	categoriesHandler := &CategoriesHandler{DB: db}
	itemsHandler := &ItemsHandler{DB: db, Blobs: blobs}
	mediaHandler := &MediaHandler{Blobs: blobs}
	exportHandler := &ExportHandler{DB: db, Blobs: blobs}

	authMW := AuthMiddleware(jwtSecret, db)

	// Public: login and image retrieval.
	mux.HandleFunc("POST /api/auth/login", authHandler.Login)
	mux.HandleFunc("GET /api/media/{filename}", mediaHandler.Serve)

	// Authenticated routes.
	mux.Handle("POST /api/auth/logout", authMW(http.HandlerFunc(authHandler.Logout)))
	mux.Handle("GET /api/auth/me", authMW(http.HandlerFunc(authHandler.Me)))
	mux.Handle("PUT /api/auth/password", authMW(http.HandlerFunc(authHandler.ChangePassword)))

	// Containers.
	mux.Handle("GET /api/containers", authMW(http.HandlerFunc(containersHandler.List)))
	mux.Handle("POST /api/containers", authMW(http.HandlerFunc(containersHandler.Create)))
	mux.Handle("GET /api/containers/{id}", authMW(http.HandlerFunc(containersHandler.Get)))
	mux.Handle("PUT /api/containers/{id}", authMW(http.HandlerFunc(containersHandler.Update)))
	mux.Handle("DELETE /api/containers/{id}", authMW(http.HandlerFunc(containersHandler.Delete)))

	// Categories, scoped to a container.
	mux.Handle("GET /api/containers/{id}/categories", authMW(http.HandlerFunc(categoriesHandler.List)))
	mux.Handle("POST /api/containers/{id}/categories", authMW(http.HandlerFunc(categoriesHandler.Create)))
	mux.Handle("PUT /api/containers/{id}/categories/{categoryID}", authMW(http.HandlerFunc(categoriesHandler.Update)))
	mux.Handle("DELETE /api/containers/{id}/categories/{categoryID}", authMW(http.HandlerFunc(categoriesHandler.Delete)))

	// Items, scoped to a container.
	mux.Handle("GET /api/containers/{id}/items", authMW(http.HandlerFunc(itemsHandler.List)))
	mux.Handle("POST /api/containers/{id}/items", authMW(http.HandlerFunc(itemsHandler.Create)))
	mux.Handle("GET /api/containers/{id}/items/{itemID}", authMW(http.HandlerFunc(itemsHandler.Get)))
	mux.Handle("PUT /api/containers/{id}/items/{itemID}", authMW(http.HandlerFunc(itemsHandler.Update)))
	mux.Handle("DELETE /api/containers/{id}/items/{itemID}", authMW(http.HandlerFunc(itemsHandler.Delete)))

	// Media upload.
	mux.Handle("POST /api/media", authMW(http.HandlerFunc(mediaHandler.Upload)))

	// Export and import.
	mux.Handle("POST /api/export/containers", authMW(http.HandlerFunc(exportHandler.Export)))
	mux.Handle("POST /api/export/preview", authMW(http.HandlerFunc(exportHandler.Preview)))
	mux.Handle("POST /api/import/containers", authMW(http.HandlerFunc(exportHandler.Import)))

	// Prometheus metrics.
	mux.Handle("GET /metrics", MetricsHandler())

	return LoggingMiddleware(MetricsMiddleware(mux))
}
