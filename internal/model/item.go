package model

import "time"

// LocalizedName is a name in a single locale.
type LocalizedName struct {
	Locale string `json:"locale" bson:"locale"`
	Name   string `json:"name" bson:"name"`
}

// LocalizedDescription is a description in a single locale.
type LocalizedDescription struct {
	Locale      string `json:"locale" bson:"locale"`
	Description string `json:"description" bson:"description"`
}

// Item is a catalog entry. ItemID is supplied by the admin and is not
// unique; ID is assigned by the store.
type Item struct {
	ID           string                 `json:"id" bson:"_id"`
	ItemID       string                 `json:"item_id" bson:"itemId"`
	Pictures     []string               `json:"pictures" bson:"pictures"`
	Names        []LocalizedName        `json:"names" bson:"names"`
	Descriptions []LocalizedDescription `json:"descriptions" bson:"descriptions"`
	CreatedAt    time.Time              `json:"created_at" bson:"createdAt"`
	UpdatedAt    time.Time              `json:"updated_at" bson:"updatedAt"`
}

// Name returns the name for locale, falling back to the first entry.
func (i Item) Name(locale string) string {
	for _, n := range i.Names {
		if n.Locale == locale {
			return n.Name
		}
	}
	if len(i.Names) > 0 {
		return i.Names[0].Name
	}
	return ""
}

// Description returns the description for locale, falling back to the first entry.
func (i Item) Description(locale string) string {
	for _, d := range i.Descriptions {
		if d.Locale == locale {
			return d.Description
		}
	}
	if len(i.Descriptions) > 0 {
		return i.Descriptions[0].Description
	}
	return ""
}
