package models

import (
	"time"
)

// Category groups events. Names are unique by convention only; nothing
// client-side enforces it.
type Category struct {
	ID          string    `bson:"id,omitempty" json:"id"`
	Name        string    `bson:"name" json:"name"`
	Description string    `bson:"description,omitempty" json:"description,omitempty"`
	CreatedAt   time.Time `bson:"createdAt,omitempty" json:"createdAt"`
	UpdatedAt   time.Time `bson:"updatedAt,omitempty" json:"updatedAt"`
}

// Ref returns the denormalized reference stored inside events.
func (c *Category) Ref() CategoryRef {
	return CategoryRef{ID: c.ID, Name: c.Name}
}
