package mongostore

import (
	"context"
	"fmt"
	"time"

	"github.com/erazemk/portfolio/internal/model"
	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/options"
)

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
	if p.Items == nil {
		p.Items = []model.Item{}
	}

	if _, err := s.db.Collection(collPortfolios).InsertOne(ctx, p); err != nil {
		return fmt.Errorf("creating portfolio: %w", conflict(err))
	}
	return nil
}

// GetPortfolio returns the portfolio for a city.
func (s *Store) GetPortfolio(ctx context.Context, city string) (*model.Portfolio, error) {
	var p model.Portfolio
	found, err := s.findOne(ctx, collPortfolios, bson.M{"city": city}, &p)
	if err != nil {
		return nil, fmt.Errorf("getting portfolio: %w", err)
	}
	if !found {
		return nil, nil
	}
	return &p, nil
}

// ListPortfolios returns all portfolios ordered by city.
func (s *Store) ListPortfolios(ctx context.Context) ([]model.Portfolio, error) {
	opts := options.Find().SetSort(bson.D{{Key: "city", Value: 1}})
	cur, err := s.db.Collection(collPortfolios).Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, fmt.Errorf("listing portfolios: %w", err)
	}

	var portfolios []model.Portfolio
	if err := cur.All(ctx, &portfolios); err != nil {
		return nil, fmt.Errorf("decoding portfolios: %w", err)
	}
	return portfolios, nil
}

// SetPortfolioItems replaces the embedded item snapshots of a portfolio.
func (s *Store) SetPortfolioItems(ctx context.Context, city string, items []model.Item, updatedAt time.Time) error {
	if items == nil {
		items = []model.Item{}
	}
	res, err := s.db.Collection(collPortfolios).UpdateOne(ctx,
		bson.M{"city": city},
		bson.M{"$set": bson.M{"items": items, "updatedAt": updatedAt}},
	)
	if err != nil {
		return fmt.Errorf("updating portfolio items: %w", err)
	}
	if res.MatchedCount == 0 {
		return fmt.Errorf("updating portfolio %q: %w", city, model.ErrNotFound)
	}
	return nil
}

// DeletePortfolio removes a portfolio and its snapshots.
func (s *Store) DeletePortfolio(ctx context.Context, city string) error {
	res, err := s.db.Collection(collPortfolios).DeleteOne(ctx, bson.M{"city": city})
	if err != nil {
		return fmt.Errorf("deleting portfolio: %w", err)
	}
	if res.DeletedCount == 0 {
		return fmt.Errorf("deleting portfolio %q: %w", city, model.ErrNotFound)
	}
	return nil
}
