// Package catalog implements item and portfolio administration.
package catalog

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/erazemk/portfolio/internal/imaging"
	"github.com/erazemk/portfolio/internal/metrics"
	"github.com/erazemk/portfolio/internal/model"
	"github.com/erazemk/portfolio/internal/store"
	"github.com/erazemk/portfolio/internal/upload"
	"github.com/erazemk/portfolio/internal/validate"
)

// MaxEditPictures is the most pictures an edit may upload.
const MaxEditPictures = 5

// Service orchestrates item and portfolio changes.
type Service struct {
	Items      store.Items
	Portfolios store.Portfolios
	Uploads    upload.Store
	Metrics    *metrics.Metrics
	Now        func() time.Time
}

// New returns a service using the wall clock.
func New(items store.Items, portfolios store.Portfolios, uploads upload.Store, m *metrics.Metrics) *Service {
	return &Service{
		Items:      items,
		Portfolios: portfolios,
		Uploads:    uploads,
		Metrics:    m,
		Now:        func() time.Time { return time.Now().UTC() },
	}
}

// Picture is an uploaded picture before processing.
type Picture struct {
	Field    string
	Filename string
	Content  io.Reader
}

// Overview is everything the public portfolio page shows.
type Overview struct {
	Portfolios []model.Portfolio
	Items      []model.Item
}

// ListPortfolios returns all portfolios and all items.
func (s *Service) ListPortfolios(ctx context.Context) (*Overview, error) {
	portfolios, err := s.Portfolios.ListPortfolios(ctx)
	if err != nil {
		return nil, err
	}
	items, err := s.Items.ListItems(ctx)
	if err != nil {
		return nil, err
	}
	return &Overview{Portfolios: portfolios, Items: items}, nil
}

// ListItems returns every item for the admin panel.
func (s *Service) ListItems(ctx context.Context) ([]model.Item, error) {
	return s.Items.ListItems(ctx)
}

// GetItem returns one item or model.ErrNotFound.
func (s *Service) GetItem(ctx context.Context, id string) (*model.Item, error) {
	item, err := s.Items.GetItem(ctx, id)
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, fmt.Errorf("item %s: %w", id, model.ErrNotFound)
	}
	return item, nil
}

// AddItemInput is the add-item form.
type AddItemInput struct {
	ItemID      string `form:"itemId" validate:"required,max=128"`
	Name        string `form:"name" validate:"required,max=256"`
	Description string `form:"description" validate:"required,max=4096"`
	Locale      string `form:"locale" validate:"max=16"`
}

// AddItem creates an item with a single picture and a single localized
// name and description.
func (s *Service) AddItem(ctx context.Context, in AddItemInput, pic *Picture) (item *model.Item, err error) {
	defer func() { s.Metrics.Observe("add_item", err) }()

	if pic == nil {
		return nil, fmt.Errorf("%w: No file uploaded", model.ErrInvalidInput)
	}
	in.ItemID = strings.TrimSpace(in.ItemID)
	in.Name = strings.TrimSpace(in.Name)
	in.Description = strings.TrimSpace(in.Description)
	in.Locale = strings.TrimSpace(in.Locale)
	if err := validate.Struct(&in); err != nil {
		return nil, err
	}

	refs, err := s.savePictures(ctx, []Picture{*pic})
	if err != nil {
		return nil, err
	}

	now := s.Now()
	item = &model.Item{
		ItemID:       in.ItemID,
		Pictures:     refs,
		Names:        []model.LocalizedName{{Locale: in.Locale, Name: in.Name}},
		Descriptions: []model.LocalizedDescription{{Locale: in.Locale, Description: in.Description}},
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.Items.CreateItem(ctx, item); err != nil {
		s.removePictures(ctx, refs)
		return nil, err
	}
	return item, nil
}

// EditItemInput is the edit-item form. Names and Descriptions are JSON
// arrays of locale pairs.
type EditItemInput struct {
	Names        string
	Descriptions string
	Pictures     []Picture
}

// EditItem replaces an item's pictures and localized text. Input is fully
// validated and the item resolved before any picture is stored, so a
// rejected edit leaves no trace. Replaced pictures stay on storage for the
// same reason DeleteItem keeps them.
func (s *Service) EditItem(ctx context.Context, id string, in EditItemInput) (item *model.Item, err error) {
	defer func() { s.Metrics.Observe("edit_item", err) }()

	if len(in.Pictures) > MaxEditPictures {
		return nil, fmt.Errorf("%w: at most %d pictures allowed", model.ErrInvalidInput, MaxEditPictures)
	}
	names, err := ParseNames(in.Names)
	if err != nil {
		return nil, err
	}
	descriptions, err := ParseDescriptions(in.Descriptions)
	if err != nil {
		return nil, err
	}

	item, err = s.GetItem(ctx, id)
	if err != nil {
		return nil, err
	}

	refs, err := s.savePictures(ctx, in.Pictures)
	if err != nil {
		return nil, err
	}

	item.Pictures = refs
	item.Names = names
	item.Descriptions = descriptions
	item.UpdatedAt = s.Now()
	if err := s.Items.UpdateItem(ctx, item); err != nil {
		s.removePictures(ctx, refs)
		return nil, err
	}

	return item, nil
}

// DeleteItem removes an item. Deleting an unknown item succeeds. Stored
// pictures are kept since portfolio snapshots may still reference them.
func (s *Service) DeleteItem(ctx context.Context, id string) (err error) {
	defer func() { s.Metrics.Observe("delete_item", err) }()
	return s.Items.DeleteItem(ctx, id)
}

// ParseNames strictly decodes a JSON array of {locale, name} pairs.
func ParseNames(raw string) ([]model.LocalizedName, error) {
	var names []model.LocalizedName
	if err := decodeStrict(raw, &names); err != nil {
		return nil, fmt.Errorf("%w: names: %v", model.ErrInvalidInput, err)
	}
	return names, nil
}

// ParseDescriptions strictly decodes a JSON array of {locale, description}
// pairs.
func ParseDescriptions(raw string) ([]model.LocalizedDescription, error) {
	var descriptions []model.LocalizedDescription
	if err := decodeStrict(raw, &descriptions); err != nil {
		return nil, fmt.Errorf("%w: descriptions: %v", model.ErrInvalidInput, err)
	}
	return descriptions, nil
}

// decodeStrict rejects unknown fields, trailing data and null.
func decodeStrict(raw string, v any) error {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return errors.New("empty value")
	}
	if raw == "null" {
		return errors.New("expected an array")
	}

	dec := json.NewDecoder(strings.NewReader(raw))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return err
	}
	if dec.More() {
		return errors.New("unexpected data after array")
	}
	return nil
}

// savePictures processes and stores pictures in order. On failure the
// pictures already stored are removed.
func (s *Service) savePictures(ctx context.Context, pics []Picture) ([]string, error) {
	refs := make([]string, 0, len(pics))
	for _, pic := range pics {
		processed, err := imaging.Process(pic.Content)
		if err != nil {
			s.removePictures(ctx, refs)
			return nil, fmt.Errorf("processing %s: %w", pic.Filename, err)
		}

		ref, err := s.Uploads.Save(ctx, upload.File{
			Field:       pic.Field,
			Filename:    pic.Filename,
			ContentType: processed.MIME,
			Data:        processed.Data,
		})
		if err != nil {
			s.removePictures(ctx, refs)
			return nil, fmt.Errorf("storing %s: %w", pic.Filename, err)
		}
		refs = append(refs, ref)
	}
	return refs, nil
}

// removePictures deletes stored pictures, logging failures.
func (s *Service) removePictures(ctx context.Context, refs []string) {
	for _, ref := range refs {
		if err := s.Uploads.Delete(ctx, ref); err != nil {
			slog.Warn("failed to remove picture", "ref", ref, "error", err)
		}
	}
}
