package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/erazemk/portfolio/internal/model"
	"github.com/google/uuid"
)

const itemColumns = `id, item_id, pictures, names, descriptions, created_at, updated_at`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanItem(row rowScanner) (*model.Item, error) {
	item := &model.Item{}
	var pictures, names, descriptions string
	if err := row.Scan(&item.ID, &item.ItemID, &pictures, &names, &descriptions, &item.CreatedAt, &item.UpdatedAt); err != nil {
		return nil, err
	}
	if err := decodeJSON(pictures, &item.Pictures); err != nil {
		return nil, err
	}
	if err := decodeJSON(names, &item.Names); err != nil {
		return nil, err
	}
	if err := decodeJSON(descriptions, &item.Descriptions); err != nil {
		return nil, err
	}
	return item, nil
}

func itemColumnsJSON(item *model.Item) (pictures, names, descriptions string, err error) {
	if pictures, err = encodeJSON(nonNil(item.Pictures)); err != nil {
		return
	}
	if names, err = encodeJSON(nonNil(item.Names)); err != nil {
		return
	}
	descriptions, err = encodeJSON(nonNil(item.Descriptions))
	return
}

func nonNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}

// CreateItem inserts a new item, assigning an ID and timestamps when unset.
func (s *Store) CreateItem(ctx context.Context, item *model.Item) error {
	if item.ID == "" {
		item.ID = uuid.NewString()
	}
	if item.CreatedAt.IsZero() {
		item.CreatedAt = time.Now().UTC()
	}
	if item.UpdatedAt.IsZero() {
		item.UpdatedAt = item.CreatedAt
	}

	pictures, names, descriptions, err := itemColumnsJSON(item)
	if err != nil {
		return fmt.Errorf("creating item: %w", err)
	}

	_, err = s.DB.ExecContext(ctx,
		`INSERT INTO items (`+itemColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?)`,
		item.ID, item.ItemID, pictures, names, descriptions, item.CreatedAt.UTC(), item.UpdatedAt.UTC(),
	)
	if err != nil {
		return fmt.Errorf("creating item: %w", conflict(err))
	}
	return nil
}

// GetItem returns an item by ID.
func (s *Store) GetItem(ctx context.Context, id string) (*model.Item, error) {
	item, err := scanItem(s.DB.QueryRowContext(ctx,
		`SELECT `+itemColumns+` FROM items WHERE id = ?`, id,
	))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("getting item: %w", err)
	}
	return item, nil
}

// ListItems returns all items in creation order.
func (s *Store) ListItems(ctx context.Context) ([]model.Item, error) {
	rows, err := s.DB.QueryContext(ctx,
		`SELECT `+itemColumns+` FROM items ORDER BY created_at, id`,
	)
	if err != nil {
		return nil, fmt.Errorf("listing items: %w", err)
	}
	defer rows.Close()

	var items []model.Item
	for rows.Next() {
		item, err := scanItem(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning item: %w", err)
		}
		items = append(items, *item)
	}
	return items, rows.Err()
}

// UpdateItem replaces an item's pictures and localized text.
func (s *Store) UpdateItem(ctx context.Context, item *model.Item) error {
	pictures, names, descriptions, err := itemColumnsJSON(item)
	if err != nil {
		return fmt.Errorf("updating item: %w", err)
	}

	result, err := s.DB.ExecContext(ctx,
		`UPDATE items SET item_id = ?, pictures = ?, names = ?, descriptions = ?, updated_at = ?
		 WHERE id = ?`,
		item.ItemID, pictures, names, descriptions, item.UpdatedAt.UTC(), item.ID,
	)
	if err != nil {
		return fmt.Errorf("updating item: %w", err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("updating item: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("updating item %s: %w", item.ID, model.ErrNotFound)
	}
	return nil
}

// DeleteItem removes an item.
func (s *Store) DeleteItem(ctx context.Context, id string) error {
	_, err := s.DB.ExecContext(ctx, `DELETE FROM items WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("deleting item: %w", err)
	}
	return nil
}
