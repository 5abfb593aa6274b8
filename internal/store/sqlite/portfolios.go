package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/erazemk/portfolio/internal/model"
	"github.com/google/uuid"
)

const portfolioColumns = `id, city, items, created_at, updated_at`

func scanPortfolio(row rowScanner) (*model.Portfolio, error) {
	p := &model.Portfolio{}
	var items string
	if err := row.Scan(&p.ID, &p.City, &items, &p.CreatedAt, &p.UpdatedAt); err != nil {
		return nil, err
	}
	if err := decodeJSON(items, &p.Items); err != nil {
		return nil, err
	}
	return p, nil
}

// CreatePortfolio creates a portfolio for a city.
func (s *Store) CreatePortfolio(ctx context.Context, p *model.Portfolio) error {
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	if p.CreatedAt.IsZero() {
		p.CreatedAt = time.Now().UTC()
	}
	if p.UpdatedAt.IsZero() {
		p.UpdatedAt = p.CreatedAt
	}

	items, err := encodeJSON(nonNil(p.Items))
	if err != nil {
		return fmt.Errorf("creating portfolio: %w", err)
	}

	_, err = s.DB.ExecContext(ctx,
		`INSERT INTO portfolios (`+portfolioColumns+`) VALUES (?, ?, ?, ?, ?)`,
		p.ID, p.City, items, p.CreatedAt.UTC(), p.UpdatedAt.UTC(),
	)
	if err != nil {
		return fmt.Errorf("creating portfolio: %w", conflict(err))
	}
	return nil
}

// GetPortfolio returns the portfolio for a city.
func (s *Store) GetPortfolio(ctx context.Context, city string) (*model.Portfolio, error) {
	p, err := scanPortfolio(s.DB.QueryRowContext(ctx,
		`SELECT `+portfolioColumns+` FROM portfolios WHERE city = ?`, city,
	))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("getting portfolio: %w", err)
	}
	return p, nil
}

// ListPortfolios returns all portfolios ordered by city.
func (s *Store) ListPortfolios(ctx context.Context) ([]model.Portfolio, error) {
	rows, err := s.DB.QueryContext(ctx,
		`SELECT `+portfolioColumns+` FROM portfolios ORDER BY city`,
	)
	if err != nil {
		return nil, fmt.Errorf("listing portfolios: %w", err)
	}
	defer rows.Close()

	var portfolios []model.Portfolio
	for rows.Next() {
		p, err := scanPortfolio(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning portfolio: %w", err)
		}
		portfolios = append(portfolios, *p)
	}
	return portfolios, rows.Err()
}

// SetPortfolioItems replaces the embedded item snapshots of a portfolio.
func (s *Store) SetPortfolioItems(ctx context.Context, city string, items []model.Item, updatedAt time.Time) error {
	encoded, err := encodeJSON(nonNil(items))
	if err != nil {
		return fmt.Errorf("updating portfolio items: %w", err)
	}

	result, err := s.DB.ExecContext(ctx,
		`UPDATE portfolios SET items = ?, updated_at = ? WHERE city = ?`,
		encoded, updatedAt.UTC(), city,
	)
	if err != nil {
		return fmt.Errorf("updating portfolio items: %w", err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("updating portfolio items: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("updating portfolio %q: %w", city, model.ErrNotFound)
	}
	return nil
}

// DeletePortfolio removes a portfolio and its snapshots.
func (s *Store) DeletePortfolio(ctx context.Context, city string) error {
	result, err := s.DB.ExecContext(ctx, `DELETE FROM portfolios WHERE city = ?`, city)
	if err != nil {
		return fmt.Errorf("deleting portfolio: %w", err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("deleting portfolio: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("deleting portfolio %q: %w", city, model.ErrNotFound)
	}
	return nil
}
