package catalog

import (
	"context"
	"fmt"
	"strings"

	"github.com/erazemk/portfolio/internal/model"
)

// MaxCityLength bounds portfolio city names.
const MaxCityLength = 100

// GetPortfolio returns the portfolio for a city or model.ErrNotFound.
func (s *Service) GetPortfolio(ctx context.Context, city string) (*model.Portfolio, error) {
	p, err := s.Portfolios.GetPortfolio(ctx, strings.TrimSpace(city))
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, fmt.Errorf("portfolio %q: %w", city, model.ErrNotFound)
	}
	return p, nil
}

// CreatePortfolio creates an empty portfolio. Cities are unique.
func (s *Service) CreatePortfolio(ctx context.Context, city string) (p *model.Portfolio, err error) {
	defer func() { s.Metrics.Observe("create_portfolio", err) }()

	city = strings.TrimSpace(city)
	if city == "" || len(city) > MaxCityLength {
		return nil, fmt.Errorf("%w: city is required (max %d characters)", model.ErrInvalidInput, MaxCityLength)
	}

	now := s.Now()
	p = &model.Portfolio{City: city, Items: []model.Item{}, CreatedAt: now, UpdatedAt: now}
	if err := s.Portfolios.CreatePortfolio(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

// AttachItem copies the current state of an item into a portfolio.
// Attaching an item that is already embedded refreshes its snapshot.
func (s *Service) AttachItem(ctx context.Context, city, itemID string) (err error) {
	defer func() { s.Metrics.Observe("attach_item", err) }()

	p, err := s.GetPortfolio(ctx, city)
	if err != nil {
		return err
	}
	item, err := s.GetItem(ctx, itemID)
	if err != nil {
		return err
	}

	items := make([]model.Item, 0, len(p.Items)+1)
	replaced := false
	for _, it := range p.Items {
		if it.ID == item.ID {
			items = append(items, *item)
			replaced = true
			continue
		}
		items = append(items, it)
	}
	if !replaced {
		items = append(items, *item)
	}
	return s.Portfolios.SetPortfolioItems(ctx, p.City, items, s.Now())
}

// DetachItem removes an embedded snapshot from a portfolio.
func (s *Service) DetachItem(ctx context.Context, city, itemID string) (err error) {
	defer func() { s.Metrics.Observe("detach_item", err) }()

	p, err := s.GetPortfolio(ctx, city)
	if err != nil {
		return err
	}
	if !p.HasItem(itemID) {
		return fmt.Errorf("item %s in portfolio %q: %w", itemID, p.City, model.ErrNotFound)
	}

	items := make([]model.Item, 0, len(p.Items))
	for _, it := range p.Items {
		if it.ID != itemID {
			items = append(items, it)
		}
	}
	return s.Portfolios.SetPortfolioItems(ctx, p.City, items, s.Now())
}

// DeletePortfolio removes a portfolio. Items in the catalog are not touched.
func (s *Service) DeletePortfolio(ctx context.Context, city string) (err error) {
	defer func() { s.Metrics.Observe("delete_portfolio", err) }()
	return s.Portfolios.DeletePortfolio(ctx, strings.TrimSpace(city))
}
