package web

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/erazemk/portfolio/internal/errhttp"
)

// PortfolioCreateSubmit handles POST /admin/portfolios.
func (s *Server) PortfolioCreateSubmit(w http.ResponseWriter, r *http.Request) {
	claims := GetWebClaims(r.Context())
	p, err := s.App.Catalog.CreatePortfolio(r.Context(), r.FormValue("city"))
	if err != nil {
		s.portfoliosError(w, r, err)
		return
	}

	slog.Info("portfolio created", "user", claims.Username, "city", p.City)
	http.Redirect(w, r, "/portfolios?ok=portfolio-created", http.StatusSeeOther)
}

// PortfolioAttachSubmit handles POST /admin/portfolios/{city}/items.
func (s *Server) PortfolioAttachSubmit(w http.ResponseWriter, r *http.Request) {
	claims := GetWebClaims(r.Context())
	city := chi.URLParam(r, "city")
	itemID := r.FormValue("item")

	if err := s.App.Catalog.AttachItem(r.Context(), city, itemID); err != nil {
		s.portfoliosError(w, r, err)
		return
	}

	slog.Info("item attached", "user", claims.Username, "city", city, "item", itemID)
	http.Redirect(w, r, "/portfolios?ok=attached", http.StatusSeeOther)
}

// PortfolioDetachSubmit handles POST /admin/portfolios/{city}/items/{id}/remove.
func (s *Server) PortfolioDetachSubmit(w http.ResponseWriter, r *http.Request) {
	claims := GetWebClaims(r.Context())
	city := chi.URLParam(r, "city")
	itemID := chi.URLParam(r, "id")

	if err := s.App.Catalog.DetachItem(r.Context(), city, itemID); err != nil {
		s.portfoliosError(w, r, err)
		return
	}

	slog.Info("item detached", "user", claims.Username, "city", city, "item", itemID)
	http.Redirect(w, r, "/portfolios?ok=detached", http.StatusSeeOther)
}

// PortfolioDeleteSubmit handles POST /admin/portfolios/{city}/delete.
func (s *Server) PortfolioDeleteSubmit(w http.ResponseWriter, r *http.Request) {
	claims := GetWebClaims(r.Context())
	city := chi.URLParam(r, "city")

	if err := s.App.Catalog.DeletePortfolio(r.Context(), city); err != nil {
		s.portfoliosError(w, r, err)
		return
	}

	slog.Info("portfolio deleted", "user", claims.Username, "city", city)
	http.Redirect(w, r, "/portfolios?ok=portfolio-deleted", http.StatusSeeOther)
}

func (s *Server) portfoliosError(w http.ResponseWriter, r *http.Request, err error) {
	status, _, _ := errhttp.Classify(err)
	s.renderPortfolios(w, r, status, failure(r, err))
}
