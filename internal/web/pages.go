package web

import (
	"errors"
	"net/http"

	"github.com/erazemk/portfolio/internal/model"
)

// LandingCity is the portfolio shown on the landing page after login.
const LandingCity = "Islamabad"

var notices = map[string]string{
	"added":             "Item added.",
	"updated":           "Item updated.",
	"deleted":           "Item deleted.",
	"portfolio-created": "Portfolio created.",
	"portfolio-deleted": "Portfolio deleted.",
	"attached":          "Item added to portfolio.",
	"detached":          "Item removed from portfolio.",
}

// notice maps the ok query parameter of a post-redirect-get to its message.
func notice(r *http.Request) string {
	return notices[r.URL.Query().Get("ok")]
}

// IndexPage handles GET /.
func (s *Server) IndexPage(w http.ResponseWriter, r *http.Request) {
	s.Templates.Render(w, "index.html", &PageData{Title: "City portfolios", User: GetWebClaims(r.Context())})
}

// IslamabadPage handles GET /islamabad. The page renders without a
// portfolio until one is created for the city.
func (s *Server) IslamabadPage(w http.ResponseWriter, r *http.Request) {
	p, err := s.App.Catalog.GetPortfolio(r.Context(), LandingCity)
	if err != nil && !errors.Is(err, model.ErrNotFound) {
		s.renderError(w, r, err)
		return
	}

	s.Templates.Render(w, "islamabad.html", &struct {
		PageData
		City      string
		Portfolio *model.Portfolio
	}{
		PageData:  PageData{Title: LandingCity, User: GetWebClaims(r.Context())},
		City:      LandingCity,
		Portfolio: p,
	})
}

// PortfoliosPage handles GET /portfolios.
func (s *Server) PortfoliosPage(w http.ResponseWriter, r *http.Request) {
	s.renderPortfolios(w, r, http.StatusOK, PageData{Success: notice(r)})
}

func (s *Server) renderPortfolios(w http.ResponseWriter, r *http.Request, status int, pd PageData) {
	overview, err := s.App.Catalog.ListPortfolios(r.Context())
	if err != nil {
		s.renderError(w, r, err)
		return
	}

	pd.Title = "Portfolios"
	pd.User = GetWebClaims(r.Context())
	s.Templates.RenderStatus(w, status, "portfolios.html", &struct {
		PageData
		Admin      bool
		Portfolios []model.Portfolio
		Items      []model.Item
	}{
		PageData:   pd,
		Admin:      pd.User != nil && pd.User.IsAdmin(),
		Portfolios: overview.Portfolios,
		Items:      overview.Items,
	})
}

// AdminPanelPage handles GET /admin_panel.
func (s *Server) AdminPanelPage(w http.ResponseWriter, r *http.Request) {
	s.renderAdminPanel(w, r, http.StatusOK, PageData{Success: notice(r)})
}

func (s *Server) renderAdminPanel(w http.ResponseWriter, r *http.Request, status int, pd PageData) {
	items, err := s.App.Catalog.ListItems(r.Context())
	if err != nil {
		s.renderError(w, r, err)
		return
	}

	pd.Title = "Admin panel"
	pd.User = GetWebClaims(r.Context())
	s.Templates.RenderStatus(w, status, "admin_panel.html", &struct {
		PageData
		Items []model.Item
	}{
		PageData: pd,
		Items:    items,
	})
}
