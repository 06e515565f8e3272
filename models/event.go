package models

import (
	"time"
)

// DefaultImageURL is the placeholder banner used when an event has no
// uploaded image. It is never deleted during cleanup.
const DefaultImageURL = "/images/mb-events-banner-default.png"

// Event modalities.
const (
	ModalityPresencial = "Presencial"
	ModalityOnline     = "Online"
)

// CategoryRef is a weak reference into the categories collection. The name is
// denormalized at selection time and may go stale if the category is renamed.
type CategoryRef struct {
	ID   string `bson:"id" json:"id"`
	Name string `bson:"name" json:"name"`
}

// Event is an event document as stored in the "events" collection. Field
// names match the documents written by the dashboard (camelCase).
//
// Date holds the absolute event instant; Time redundantly stores the same
// moment formatted as "HH:MM" for display. Price and AvailableTickets are
// canonical strings: price uses "." as decimal separator, tickets is a plain
// non-negative integer.
type Event struct {
	ID               string        `bson:"id,omitempty" json:"id"`
	Title            string        `bson:"title" json:"title"`
	Description      string        `bson:"description" json:"description"`
	Date             time.Time     `bson:"date" json:"date"`
	Time             string        `bson:"time" json:"time"`
	Location         string        `bson:"location" json:"location"`
	Modality         string        `bson:"modality" json:"modality"` // Presencial, Online
	IsHighlighted    bool          `bson:"isHighlighted" json:"isHighlighted"`
	Price            string        `bson:"price" json:"price"`
	AvailableTickets string        `bson:"availableTickets" json:"availableTickets"`
	Categories       []CategoryRef `bson:"categories" json:"categories"`
	ImageURL         string        `bson:"imageUrl" json:"imageUrl"`
	Attendees        int           `bson:"attendees" json:"attendees"`
	CreatedBy        string        `bson:"createdBy,omitempty" json:"createdBy,omitempty"`
	CreatedAt        time.Time     `bson:"createdAt,omitempty" json:"createdAt"`
	UpdatedAt        time.Time     `bson:"updatedAt,omitempty" json:"updatedAt"`
}

// HasUploadedImage reports whether the event carries a real uploaded banner
// rather than the shared placeholder.
func (e *Event) HasUploadedImage() bool {
	return e.ImageURL != "" && e.ImageURL != DefaultImageURL
}
