package model

import "time"

// Portfolio groups item snapshots under a city. Items are copies and are
// not kept in sync with the item collection.
type Portfolio struct {
	ID        string    `json:"id" bson:"_id"`
	City      string    `json:"city" bson:"city"`
	Items     []Item    `json:"items" bson:"items"`
	CreatedAt time.Time `json:"created_at" bson:"createdAt"`
	UpdatedAt time.Time `json:"updated_at" bson:"updatedAt"`
}

// HasItem reports whether an item snapshot with the given ID is embedded.
func (p Portfolio) HasItem(id string) bool {
	for _, it := range p.Items {
		if it.ID == id {
			return true
		}
	}
	return false
}
