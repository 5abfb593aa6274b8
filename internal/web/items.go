package web

import (
	"errors"
	"fmt"
	"log/slog"
	"mime/multipart"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/erazemk/portfolio/internal/catalog"
	"github.com/erazemk/portfolio/internal/errhttp"
	"github.com/erazemk/portfolio/internal/model"
)

// multipartMemory is how much of a multipart body is kept in memory before
// spilling to temporary files.
const multipartMemory = 8 << 20

// AddItemSubmit handles POST /admin/add-item.
func (s *Server) AddItemSubmit(w http.ResponseWriter, r *http.Request) {
	claims := GetWebClaims(r.Context())
	if err := parseMultipart(r); err != nil {
		s.adminPanelError(w, r, err)
		return
	}

	in := catalog.AddItemInput{
		ItemID:      r.FormValue("itemId"),
		Name:        r.FormValue("name"),
		Description: r.FormValue("description"),
		Locale:      r.FormValue("locale"),
	}

	var pic *catalog.Picture
	file, header, err := r.FormFile("picture")
	if err == nil {
		defer file.Close()
		pic = &catalog.Picture{Field: "picture", Filename: header.Filename, Content: file}
	}

	item, err := s.App.Catalog.AddItem(r.Context(), in, pic)
	if err != nil {
		s.adminPanelError(w, r, err)
		return
	}

	slog.Info("item created", "user", claims.Username, "item", item.ID, "item_id", item.ItemID)
	http.Redirect(w, r, "/admin_panel?ok=added", http.StatusSeeOther)
}

// EditItemSubmit handles POST /admin/edit-item/{id}.
func (s *Server) EditItemSubmit(w http.ResponseWriter, r *http.Request) {
	claims := GetWebClaims(r.Context())
	id := chi.URLParam(r, "id")
	if err := parseMultipart(r); err != nil {
		s.adminPanelError(w, r, err)
		return
	}

	var headers []*multipart.FileHeader
	if r.MultipartForm != nil {
		headers = r.MultipartForm.File["pictures"]
	}
	if len(headers) > catalog.MaxEditPictures {
		s.adminPanelError(w, r, fmt.Errorf("%w: at most %d pictures allowed", model.ErrInvalidInput, catalog.MaxEditPictures))
		return
	}

	pics := make([]catalog.Picture, 0, len(headers))
	for _, h := range headers {
		f, err := h.Open()
		if err != nil {
			s.adminPanelError(w, r, fmt.Errorf("opening upload %s: %w", h.Filename, err))
			return
		}
		defer f.Close()
		pics = append(pics, catalog.Picture{Field: "pictures", Filename: h.Filename, Content: f})
	}

	item, err := s.App.Catalog.EditItem(r.Context(), id, catalog.EditItemInput{
		Names:        r.FormValue("names"),
		Descriptions: r.FormValue("descriptions"),
		Pictures:     pics,
	})
	if err != nil {
		s.adminPanelError(w, r, err)
		return
	}

	slog.Info("item updated", "user", claims.Username, "item", item.ID, "pictures", len(item.Pictures))
	http.Redirect(w, r, "/admin_panel?ok=updated", http.StatusSeeOther)
}

// DeleteItemSubmit handles POST /admin/delete-item/{id}.
func (s *Server) DeleteItemSubmit(w http.ResponseWriter, r *http.Request) {
	claims := GetWebClaims(r.Context())
	id := chi.URLParam(r, "id")

	if err := s.App.Catalog.DeleteItem(r.Context(), id); err != nil {
		s.adminPanelError(w, r, err)
		return
	}

	slog.Info("item deleted", "user", claims.Username, "item", id)
	http.Redirect(w, r, "/admin_panel?ok=deleted", http.StatusSeeOther)
}

// adminPanelError re-renders the admin panel carrying the failure.
func (s *Server) adminPanelError(w http.ResponseWriter, r *http.Request, err error) {
	status, _, _ := errhttp.Classify(err)
	s.renderAdminPanel(w, r, status, failure(r, err))
}

// parseMultipart parses a multipart body. Plain form posts are accepted so
// the handlers can report the missing file themselves.
func parseMultipart(r *http.Request) error {
	err := r.ParseMultipartForm(multipartMemory)
	if err == nil || errors.Is(err, http.ErrNotMultipart) {
		return nil
	}
	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		return err
	}
	return fmt.Errorf("%w: malformed upload: %v", model.ErrInvalidInput, err)
}
