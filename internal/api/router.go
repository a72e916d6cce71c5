package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/starford/vedacontent/internal/contentservice"
	"github.com/starford/vedacontent/internal/models"
)

// NewRouter creates a chi router with all API routes mounted.
// authEnabled controls whether Bearer token auth is enforced.
// sseHandler, if non-nil, is mounted at GET /events inside the auth group.
// mediaRoot, if non-empty, is served read-only at GET /media/{filename}.
func NewRouter(svc *contentservice.Service, authEnabled bool, token string, sseHandler http.Handler, mediaRoot string) chi.Router {
	h := NewHandler(svc)

	r := chi.NewRouter()
	r.Use(AuthMiddleware(authEnabled, token))

	// Collections.
	r.Get("/stories", h.ListItems(models.Stories))
	r.Get("/stories/{slug}", h.GetItem(models.Stories))
	r.Get("/datasets", h.ListItems(models.Datasets))
	r.Get("/datasets/{slug}", h.GetItem(models.Datasets))
	r.Get("/datasets-list", h.DatasetsList)

	// Catalog queries.
	r.Get("/search", h.Search)
	r.Get("/taxonomies", h.Taxonomies)

	if mediaRoot != "" {
		r.Get("/media/{filename}", NewMediaHandler(mediaRoot).ServeFile)
	}

	// SSE endpoint (protected by same auth middleware).
	if sseHandler != nil {
		r.Get("/events", sseHandler.ServeHTTP)
	}

	return r
}
