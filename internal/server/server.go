// Package server assembles the HTTP stack: the shared middleware chain,
// the HTML pages, the JSON API and the operational endpoints.
package server

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/httprate"
	"github.com/unrolled/secure"

	"github.com/erazemk/portfolio/internal/api"
	"github.com/erazemk/portfolio/internal/app"
	"github.com/erazemk/portfolio/internal/web"
)

// HandlerTimeout bounds how long a single handler may run.
const HandlerTimeout = 30 * time.Second

// NewRouter returns the root handler.
//
// Middleware order (outermost first): recoverer, request id, logger,
// metrics, real ip, rate limit, body limit, timeout, security headers.
func NewRouter(a *app.App) (http.Handler, error) {
	pages, err := web.NewRouter(a)
	if err != nil {
		return nil, err
	}

	cfg := a.Config.Web
	sec := secure.New(secure.Options{
		STSSeconds:            63072000,
		STSIncludeSubdomains:  true,
		FrameDeny:             true,
		ContentTypeNosniff:    true,
		BrowserXssFilter:      true,
		ReferrerPolicy:        "strict-origin-when-cross-origin",
		ContentSecurityPolicy: "default-src 'self'; img-src 'self' https: data:; form-action 'self'",
		PermissionsPolicy:     "geolocation=(), microphone=(), camera=(), usb=(), magnetometer=(), gyroscope=()",
		IsDevelopment:         cfg.Development,
	})

	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer,
		middleware.RequestID,
		RequestLogger,
		a.Metrics.Middleware,
		middleware.RealIP,
		httprate.LimitByIP(cfg.RateLimitPerMinute, time.Minute),
		RequestBodyLimit(cfg.MaxUploadMB<<20),
		middleware.Timeout(HandlerTimeout),
		sec.Handler,
	)

	r.Get("/healthz", HealthHandler(a.Store))
	r.Handle("/metrics", a.Metrics.Handler())
	r.Mount("/api", api.NewRouter(a))
	r.Mount("/", pages)

	return r, nil
}

// New returns an *http.Server with the configured timeouts.
func New(a *app.App, handler http.Handler) *http.Server {
	cfg := a.Config.Web
	return &http.Server{
		Addr:              cfg.Addr,
		Handler:           handler,
		ReadTimeout:       cfg.ReadTimeout,
		ReadHeaderTimeout: 10 * time.Second,
		WriteTimeout:      cfg.WriteTimeout,
		IdleTimeout:       cfg.IdleTimeout,
		MaxHeaderBytes:    1 << 20,
	}
}
