package web

import (
	"fmt"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5/middleware"

	"github.com/erazemk/portfolio/internal/errhttp"
	"github.com/erazemk/portfolio/internal/model"
)

var errNotFoundPage = fmt.Errorf("page %w", model.ErrNotFound)

// failure classifies err and logs it. Server-side failures are logged at
// error level with the underlying error; client errors only at info.
func failure(r *http.Request, err error) PageData {
	status, code, msg := errhttp.Classify(err)
	attrs := []any{"method", r.Method, "path", r.URL.Path, "status", status, "request_id", middleware.GetReqID(r.Context())}
	if status >= http.StatusInternalServerError {
		slog.Error("request failed", append(attrs, "error", err)...)
	} else {
		slog.Info("request rejected", append(attrs, "reason", err.Error())...)
	}
	return PageData{
		Title: http.StatusText(status),
		User:  GetWebClaims(r.Context()),
		Error: msg,
		Code:  code,
	}
}

// renderError renders the error page for err.
func (s *Server) renderError(w http.ResponseWriter, r *http.Request, err error) {
	status, _, _ := errhttp.Classify(err)
	data := failure(r, err)
	s.Templates.RenderStatus(w, status, "error.html", &data)
}

// renderForm re-renders a form page carrying the failure.
func (s *Server) renderForm(w http.ResponseWriter, r *http.Request, page, title string, err error) {
	status, _, _ := errhttp.Classify(err)
	data := failure(r, err)
	data.Title = title
	s.Templates.RenderStatus(w, status, page, &data)
}
