package models

import (
	"time"
)

// User is an organizer account in the "users" collection.
type User struct {
	ID           string    `bson:"id,omitempty" json:"id"`
	Name         string    `bson:"name" json:"name"`
	Email        string    `bson:"email" json:"email"`
	PasswordHash string    `bson:"passwordHash" json:"-"`
	CreatedAt    time.Time `bson:"createdAt,omitempty" json:"createdAt"`
	UpdatedAt    time.Time `bson:"updatedAt,omitempty" json:"updatedAt"`
}
