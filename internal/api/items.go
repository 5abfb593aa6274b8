package api

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/erazemk/portfolio/internal/catalog"
	"github.com/erazemk/portfolio/internal/model"
)

// ItemsHandler serves catalog items.
type ItemsHandler struct {
	Catalog *catalog.Service
}

// List handles GET /api/items.
func (h *ItemsHandler) List(w http.ResponseWriter, r *http.Request) {
	items, err := h.Catalog.ListItems(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	if items == nil {
		items = []model.Item{}
	}
	jsonResponse(w, http.StatusOK, items)
}

// Get handles GET /api/items/{id}.
func (h *ItemsHandler) Get(w http.ResponseWriter, r *http.Request) {
	item, err := h.Catalog.GetItem(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	jsonResponse(w, http.StatusOK, item)
}

// Delete handles DELETE /api/items/{id}. Unknown ids succeed.
func (h *ItemsHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := h.Catalog.DeleteItem(r.Context(), id); err != nil {
		writeError(w, r, err)
		return
	}
	slog.Info("item deleted", "user", GetClaims(r.Context()).Username, "item", id, "via", "api")
	w.WriteHeader(http.StatusNoContent)
}
