package api

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/starford/vedacontent/internal/apperr"
	"github.com/starford/vedacontent/internal/catalog"
	"github.com/starford/vedacontent/internal/contentservice"
	"github.com/starford/vedacontent/internal/models"
)

// Handler holds API route handlers.
type Handler struct {
	svc *contentservice.Service
}

// NewHandler creates a new Handler.
func NewHandler(svc *contentservice.Service) *Handler {
	return &Handler{svc: svc}
}

func queryBool(r *http.Request, key string) bool {
	switch strings.ToLower(r.URL.Query().Get(key)) {
	case "1", "true", "yes":
		return true
	default:
		return false
	}
}

// writeError maps sentinel errors to status codes and logs everything else.
func writeError(w http.ResponseWriter, err error, op string, attrs ...any) {
	if errors.Is(err, apperr.ErrNotFound) {
		writeJSON(w, http.StatusNotFound, errorBody("not found"))
		return
	}
	slog.Error(op+" failed", append(attrs, slog.String("error", err.Error()))...)
	writeJSON(w, http.StatusInternalServerError, errorBody("internal error"))
}

// ListItems handles GET /api/{collection}.
//
// Without filters every file is re-read and processed; ?full=1 includes bodies.
// With ?taxonomy= and/or ?value= the catalog answers with summaries instead.
//
//	@Summary		List stories or datasets
//	@Tags			content
//	@Produce		json
//	@Param			full		query		bool	false	"Include bodies"
//	@Param			taxonomy	query		string	false	"Taxonomy name filter"
//	@Param			value		query		string	false	"Taxonomy value id filter"
//	@Param			limit		query		int		false	"Page size (filtered lists)"
//	@Param			offset		query		int		false	"Page offset (filtered lists)"
//	@Success		200			{object}	ItemListResponse
//	@Security		BearerAuth
//	@Router			/stories [get]
//	@Router			/datasets [get]
func (h *Handler) ListItems(c models.Collection) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		if q.Get("taxonomy") != "" || q.Get("value") != "" {
			limit, _ := strconv.Atoi(q.Get("limit"))
			offset, _ := strconv.Atoi(q.Get("offset"))
			items, total, err := h.svc.Filter(r.Context(), c, catalog.Filter{
				Taxonomy: q.Get("taxonomy"),
				Value:    q.Get("value"),
				Limit:    limit,
				Offset:   offset,
			})
			if err != nil {
				writeError(w, err, "filter items", slog.String("collection", string(c)))
				return
			}
			writeJSON(w, http.StatusOK, FilteredListResponse{Items: items, Total: total})
			return
		}

		items, err := h.svc.List(r.Context(), c, queryBool(r, "full"))
		if err != nil {
			writeError(w, err, "list items", slog.String("collection", string(c)))
			return
		}
		writeJSON(w, http.StatusOK, ItemListResponse{Items: items, Total: len(items)})
	}
}

// GetItem handles GET /api/{collection}/{slug}.
//
//	@Summary		Get a single story or dataset with its body
//	@Tags			content
//	@Produce		json
//	@Param			slug	path		string	true	"File stem"
//	@Success		200		{object}	Item
//	@Failure		404		{object}	errResponse
//	@Security		BearerAuth
//	@Router			/stories/{slug} [get]
//	@Router			/datasets/{slug} [get]
func (h *Handler) GetItem(c models.Collection) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		slug := chi.URLParam(r, "slug")
		item, err := h.svc.Get(r.Context(), c, slug)
		if err != nil {
			writeError(w, err, "get item", slog.String("collection", string(c)), slog.String("slug", slug))
			return
		}
		writeJSON(w, http.StatusOK, item)
	}
}

// DatasetsList handles GET /api/datasets-list.
//
//	@Summary		Flattened dataset list view
//	@Tags			content
//	@Produce		json
//	@Param			full	query		bool	false	"Include bodies"
//	@Success		200		{object}	DatasetsListResponse
//	@Security		BearerAuth
//	@Router			/datasets-list [get]
func (h *Handler) DatasetsList(w http.ResponseWriter, r *http.Request) {
	list, err := h.svc.DatasetsList(r.Context(), queryBool(r, "full"))
	if err != nil {
		writeError(w, err, "datasets list")
		return
	}
	writeJSON(w, http.StatusOK, DatasetsListResponse{Datasets: list})
}

// Search handles GET /api/search.
//
//	@Summary		Full-text search across stories and datasets
//	@Tags			search
//	@Produce		json
//	@Param			q		query		string	true	"Search query"
//	@Param			limit	query		int		false	"Max results"
//	@Success		200		{object}	SearchResponse
//	@Failure		400		{object}	errResponse
//	@Security		BearerAuth
//	@Router			/search [get]
func (h *Handler) Search(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query().Get("q")
	if q == "" {
		writeJSON(w, http.StatusBadRequest, errorBody("query parameter 'q' is required"))
		return
	}
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	results, err := h.svc.Search(r.Context(), q, limit)
	if err != nil {
		writeError(w, err, "search", slog.String("query", q))
		return
	}
	writeJSON(w, http.StatusOK, SearchResponse{Results: results})
}

// Taxonomies handles GET /api/taxonomies.
//
//	@Summary		Taxonomy values with usage counts
//	@Tags			search
//	@Produce		json
//	@Param			collection	query		string	false	"stories or datasets"
//	@Success		200			{object}	TaxonomiesResponse
//	@Failure		404			{object}	errResponse
//	@Security		BearerAuth
//	@Router			/taxonomies [get]
func (h *Handler) Taxonomies(w http.ResponseWriter, r *http.Request) {
	c := models.Collection(r.URL.Query().Get("collection"))
	values, err := h.svc.Taxonomies(r.Context(), c)
	if err != nil {
		writeError(w, err, "taxonomies", slog.String("collection", string(c)))
		return
	}
	writeJSON(w, http.StatusOK, TaxonomiesResponse{Taxonomies: values})
}
