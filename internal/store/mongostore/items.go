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

	if _, err := s.db.Collection(collItems).InsertOne(ctx, item); err != nil {
		return fmt.Errorf("creating item: %w", conflict(err))
	}
	return nil
}

// GetItem returns an item by ID.
func (s *Store) GetItem(ctx context.Context, id string) (*model.Item, error) {
	var item model.Item
	found, err := s.findOne(ctx, collItems, bson.M{"_id": id}, &item)
	if err != nil {
		return nil, fmt.Errorf("getting item: %w", err)
	}
	if !found {
		return nil, nil
	}
	return &item, nil
}

// ListItems returns all items in creation order.
func (s *Store) ListItems(ctx context.Context) ([]model.Item, error) {
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: 1}, {Key: "_id", Value: 1}})
	cur, err := s.db.Collection(collItems).Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, fmt.Errorf("listing items: %w", err)
	}

	var items []model.Item
	if err := cur.All(ctx, &items); err != nil {
		return nil, fmt.Errorf("decoding items: %w", err)
	}
	return items, nil
}

// UpdateItem replaces an item's pictures and localized text.
func (s *Store) UpdateItem(ctx context.Context, item *model.Item) error {
	res, err := s.db.Collection(collItems).UpdateOne(ctx,
		bson.M{"_id": item.ID},
		bson.M{"$set": bson.M{
			"itemId":       item.ItemID,
			"pictures":     item.Pictures,
			"names":        item.Names,
			"descriptions": item.Descriptions,
			"updatedAt":    item.UpdatedAt,
		}},
	)
	if err != nil {
		return fmt.Errorf("updating item: %w", err)
	}
	if res.MatchedCount == 0 {
		return fmt.Errorf("updating item %s: %w", item.ID, model.ErrNotFound)
	}
	return nil
}

// DeleteItem removes an item.
func (s *Store) DeleteItem(ctx context.Context, id string) error {
	if _, err := s.db.Collection(collItems).DeleteOne(ctx, bson.M{"_id": id}); err != nil {
		return fmt.Errorf("deleting item: %w", err)
	}
	return nil
}
