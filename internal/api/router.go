package api

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"

	"github.com/erazemk/portfolio/internal/app"
	"github.com/erazemk/portfolio/internal/errhttp"
)

// NewRouter creates the API router with all endpoints registered. It is
// mounted under /api.
func NewRouter(a *app.App) http.Handler {
	authHandler := &AuthHandler{Auth: a.Auth}
	itemsHandler := &ItemsHandler{Catalog: a.Catalog}
	portfoliosHandler := &PortfoliosHandler{Catalog: a.Catalog}

	r := chi.NewRouter()
	r.Use(CORSMiddleware(a.Config.Web.CORSAllowedOrigins))

	r.Post("/auth/login", authHandler.Login)

	r.Group(func(r chi.Router) {
		r.Use(AuthMiddleware(a.Auth))

		r.Post("/auth/logout", authHandler.Logout)

		r.Get("/portfolios", portfoliosHandler.List)
		r.Get("/portfolios/{city}", portfoliosHandler.Get)
		r.Get("/items", itemsHandler.List)
		r.Get("/items/{id}", itemsHandler.Get)

		r.With(RequireAdmin).Delete("/items/{id}", itemsHandler.Delete)
	})

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		jsonError(w, http.StatusNotFound, errhttp.CodeNotFound, "no such endpoint")
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		jsonError(w, http.StatusMethodNotAllowed, errhttp.CodeInvalidInput, "method not allowed")
	})

	return r
}

// CORSMiddleware returns a CORS handler restricted to a comma-separated
// list of origins. "*" allows all origins.
func CORSMiddleware(allowedOrigins string) func(http.Handler) http.Handler {
	return cors.Handler(cors.Options{
		AllowedOrigins:   parseOrigins(allowedOrigins),
		AllowedMethods:   []string{"GET", "POST", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Request-Id"},
		ExposedHeaders:   []string{"X-Request-Id"},
		AllowCredentials: false,
		MaxAge:           300,
	})
}

func parseOrigins(s string) []string {
	var out []string
	for _, p := range strings.Split(s, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	if len(out) == 0 {
		return []string{"*"}
	}
	return out
}
