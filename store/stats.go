package store

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"

	"github.com/mbevents/dashboard-go/models"
)

// Stats backs the dashboard home cards.
type Stats struct {
	TotalEvents       int `bson:"totalEvents" json:"totalEvents"`
	TotalCategories   int `bson:"-" json:"totalCategories"`
	TotalAttendees    int `bson:"totalAttendees" json:"totalAttendees"`
	HighlightedEvents int `bson:"highlightedEvents" json:"highlightedEvents"`
	OnlineEvents      int `bson:"onlineEvents" json:"onlineEvents"`
}

// Stats aggregates event totals and the category count.
func (m *Mongo) Stats(ctx context.Context) (Stats, error) {
	pipeline := []bson.M{{
		"$group": bson.M{
			"_id":            nil,
			"totalEvents":    bson.M{"$sum": 1},
			"totalAttendees": bson.M{"$sum": "$attendees"},
			"highlightedEvents": bson.M{"$sum": bson.M{
				"$cond": bson.A{"$isHighlighted", 1, 0},
			}},
			"onlineEvents": bson.M{"$sum": bson.M{
				"$cond": bson.A{bson.M{"$eq": bson.A{"$modality", models.ModalityOnline}}, 1, 0},
			}},
		},
	}}

	cursor, err := m.db.Collection(EventsCollection).Aggregate(ctx, pipeline)
	if err != nil {
		return Stats{}, mapMongoErr("stats", err)
	}
	var rows []Stats
	if err := cursor.All(ctx, &rows); err != nil {
		return Stats{}, mapMongoErr("stats", err)
	}
	var stats Stats
	if len(rows) > 0 {
		stats = rows[0]
	}

	count, err := m.db.Collection(CategoriesCollection).CountDocuments(ctx, bson.M{})
	if err != nil {
		return Stats{}, mapMongoErr("stats", err)
	}
	stats.TotalCategories = int(count)
	return stats, nil
}
