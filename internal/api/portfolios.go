package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/erazemk/portfolio/internal/catalog"
	"github.com/erazemk/portfolio/internal/model"
)

// PortfoliosHandler serves portfolios.
type PortfoliosHandler struct {
	Catalog *catalog.Service
}

type overviewResponse struct {
	Portfolios []model.Portfolio `json:"portfolios"`
	Items      []model.Item      `json:"items"`
}

// List handles GET /api/portfolios. Like the HTML view it returns every
// portfolio together with every item.
func (h *PortfoliosHandler) List(w http.ResponseWriter, r *http.Request) {
	overview, err := h.Catalog.ListPortfolios(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	resp := overviewResponse{Portfolios: overview.Portfolios, Items: overview.Items}
	if resp.Portfolios == nil {
		resp.Portfolios = []model.Portfolio{}
	}
	if resp.Items == nil {
		resp.Items = []model.Item{}
	}
	jsonResponse(w, http.StatusOK, resp)
}

// Get handles GET /api/portfolios/{city}.
func (h *PortfoliosHandler) Get(w http.ResponseWriter, r *http.Request) {
	p, err := h.Catalog.GetPortfolio(r.Context(), chi.URLParam(r, "city"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	jsonResponse(w, http.StatusOK, p)
}
