package store

import (
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/mbevents/dashboard-go/models"
)

// DecodeEvent coerces a loose event document into the domain model. Missing
// or mistyped fields collapse to zero values; older documents that stored the
// date as a plain string keep it in the Time display field only.
func DecodeEvent(doc bson.M) models.Event {
	return models.Event{
		ID:               docID(doc),
		Title:            asString(doc["title"]),
		Description:      asString(doc["description"]),
		Date:             asTime(doc["date"]),
		Time:             asString(doc["time"]),
		Location:         asString(doc["location"]),
		Modality:         asString(doc["modality"]),
		IsHighlighted:    asBool(doc["isHighlighted"]),
		Price:            asString(doc["price"]),
		AvailableTickets: asString(doc["availableTickets"]),
		Categories:       asCategoryRefs(doc["categories"]),
		ImageURL:         asString(doc["imageUrl"]),
		Attendees:        asInt(doc["attendees"]),
		CreatedBy:        asString(doc["createdBy"]),
		CreatedAt:        asTime(doc["createdAt"]),
		UpdatedAt:        asTime(doc["updatedAt"]),
	}
}

// DecodeCategory coerces a loose category document into the domain model.
func DecodeCategory(doc bson.M) models.Category {
	return models.Category{
		ID:          docID(doc),
		Name:        asString(doc["name"]),
		Description: asString(doc["description"]),
		CreatedAt:   asTime(doc["createdAt"]),
		UpdatedAt:   asTime(doc["updatedAt"]),
	}
}

// docID prefers the canonical _id over the denormalized "id" field.
func docID(doc bson.M) string {
	if oid, ok := doc["_id"].(primitive.ObjectID); ok {
		return oid.Hex()
	}
	return asString(doc["id"])
}

func asString(v any) string {
	s, _ := v.(string)
	return s
}

func asBool(v any) bool {
	b, _ := v.(bool)
	return b
}

func asInt(v any) int {
	switch n := v.(type) {
	case int:
		return n
	case int32:
		return int(n)
	case int64:
		return int(n)
	case float64:
		return int(n)
	}
	return 0
}

func asTime(v any) time.Time {
	switch t := v.(type) {
	case primitive.DateTime:
		return t.Time()
	case time.Time:
		return t
	}
	return time.Time{}
}

func asCategoryRefs(v any) []models.CategoryRef {
	items, ok := v.(primitive.A)
	if !ok {
		return nil
	}
	refs := make([]models.CategoryRef, 0, len(items))
	for _, item := range items {
		var m bson.M
		switch doc := item.(type) {
		case bson.M:
			m = doc
		case bson.D:
			m = doc.Map()
		default:
			continue
		}
		refs = append(refs, models.CategoryRef{
			ID:   asString(m["id"]),
			Name: asString(m["name"]),
		})
	}
	return refs
}
