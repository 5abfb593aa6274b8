package web

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/erazemk/portfolio/internal/app"
	webembed "github.com/erazemk/portfolio/web"
)

// NewRouter creates the web page router with all page routes registered.
func NewRouter(a *app.App) (http.Handler, error) {
	templates, err := LoadTemplates()
	if err != nil {
		return nil, err
	}

	s := &Server{App: a, Templates: templates}

	r := chi.NewRouter()
	r.Use(s.SessionMiddleware)

	// Static assets and, for the disk backend, uploaded pictures.
	r.Handle("/static/*", http.StripPrefix("/static/", http.FileServer(http.FS(webembed.StaticFS()))))
	if a.UploadDir != "" {
		r.Handle(app.UploadsURLPrefix+"/*", http.StripPrefix(app.UploadsURLPrefix+"/", uploadsHandler(a.UploadDir)))
	}

	// Public views.
	r.Get("/", s.IndexPage)
	r.Get("/login", s.LoginPage)
	r.Post("/login", s.LoginSubmit)
	r.Get("/signup", s.SignupPage)
	r.Post("/signup", s.SignupSubmit)
	r.Get("/islamabad", s.IslamabadPage)
	r.Get("/portfolios", s.PortfoliosPage)
	r.Get("/admin", s.AdminPage)
	r.Post("/admin/login", s.AdminLoginSubmit)
	r.Post("/logout", s.Logout)

	// Admin only.
	r.Group(func(r chi.Router) {
		r.Use(s.RequireAdmin)

		r.Get("/admin_panel", s.AdminPanelPage)

		r.Post("/admin/add-item", s.AddItemSubmit)
		r.Post("/admin/edit-item/{id}", s.EditItemSubmit)
		r.Post("/admin/delete-item/{id}", s.DeleteItemSubmit)

		r.Post("/admin/portfolios", s.PortfolioCreateSubmit)
		r.Post("/admin/portfolios/{city}/items", s.PortfolioAttachSubmit)
		r.Post("/admin/portfolios/{city}/items/{id}/remove", s.PortfolioDetachSubmit)
		r.Post("/admin/portfolios/{city}/delete", s.PortfolioDeleteSubmit)
	})

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		s.renderError(w, r, errNotFoundPage)
	})

	return r, nil
}

// uploadsHandler serves stored pictures without directory listings.
func uploadsHandler(dir string) http.Handler {
	files := http.FileServer(http.Dir(dir))
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "" || r.URL.Path[len(r.URL.Path)-1] == '/' {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("X-Content-Type-Options", "nosniff")
		w.Header().Set("Cache-Control", "public, max-age=3600")
		files.ServeHTTP(w, r)
	})
}
