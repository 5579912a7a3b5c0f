package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/BradenHooton/portfolio/internal/content"
	"github.com/BradenHooton/portfolio/internal/models"
	pkghttp "github.com/BradenHooton/portfolio/pkg/http"
	"github.com/go-chi/chi/v5"
)

// ContentStore defines the read side of the content loader
type ContentStore interface {
	List(collection, tag string) []content.Entry
	Get(collection, slug string) (content.Entry, error)
}

// ContentHandler serves blog posts and resources
type ContentHandler struct {
	store ContentStore
}

// NewContentHandler creates a new ContentHandler
func NewContentHandler(store ContentStore) *ContentHandler {
	return &ContentHandler{
		store: store,
	}
}

// ListEntriesResponse represents a collection listing
type ListEntriesResponse struct {
	Entries []content.Entry `json:"entries"`
	Total   int             `json:"total"`
}

// RegisterRoutes registers the content routes with the chi router
func (h *ContentHandler) RegisterRoutes(router chi.Router) {
	router.Get("/blog", h.List(content.CollectionBlog))                 // GET /blog?tag=
	router.Get("/blog/{slug}", h.Get(content.CollectionBlog))           // GET /blog/{slug}
	router.Get("/resources", h.List(content.CollectionResources))       // GET /resources?tag=
	router.Get("/resources/{slug}", h.Get(content.CollectionResources)) // GET /resources/{slug}
}

// List returns a handler listing a collection, newest first, with an
// optional ?tag= filter
func (h *ContentHandler) List(collection string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		tag := strings.TrimSpace(r.URL.Query().Get("tag"))
		entries := h.store.List(collection, tag)

		pkghttp.WriteJSON(w, http.StatusOK, ListEntriesResponse{
			Entries: entries,
			Total:   len(entries),
		})
	}
}

// Get returns a handler serving one entry by slug
func (h *ContentHandler) Get(collection string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		slug := chi.URLParam(r, "slug")
		if slug == "" {
			pkghttp.WriteBadRequest(w, "Slug is required")
			return
		}

		entry, err := h.store.Get(collection, slug)
		if err != nil {
			if errors.Is(err, models.ErrNotFound) {
				pkghttp.WriteNotFound(w, "Content not found")
				return
			}
			pkghttp.WriteInternalError(w, msgUnexpectedFailure)
			return
		}

		pkghttp.WriteJSON(w, http.StatusOK, entry)
	}
}
