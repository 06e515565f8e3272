// Package store mediates between the dashboard and its MongoDB collections.
// Documents cross this boundary as loose maps and are coerced into the typed
// domain model here; nothing above the store sees an unchecked shape.
package store

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/mbevents/dashboard-go/models"
)

// Collection names.
const (
	EventsCollection     = "events"
	CategoriesCollection = "categories"
	UsersCollection      = "users"
)

// SortDirection orders query results.
type SortDirection int

const (
	Ascending  SortDirection = 1
	Descending SortDirection = -1
)

// Mongo is the document store. createdAt/updatedAt are stamped here on every
// write, never by callers.
type Mongo struct {
	db *mongo.Database
}

func NewMongo(client *mongo.Client, dbName string) *Mongo {
	return &Mongo{db: client.Database(dbName)}
}

// Create inserts fields as a new document and returns its generated id. The
// id is also written back into the document's "id" field, as the dashboard
// has always stored it.
func (m *Mongo) Create(ctx context.Context, collection string, fields map[string]any) (string, error) {
	doc := bson.M{}
	for k, v := range fields {
		doc[k] = v
	}
	now := time.Now().UTC()
	doc["createdAt"] = now
	doc["updatedAt"] = now

	col := m.db.Collection(collection)
	res, err := col.InsertOne(ctx, doc)
	if err != nil {
		return "", mapMongoErr("create "+collection, err)
	}
	oid, ok := res.InsertedID.(primitive.ObjectID)
	if !ok {
		return "", models.NewPersistenceError(models.KindUnknown, "create "+collection, errors.New("unexpected inserted id type"))
	}
	id := oid.Hex()
	if _, err := col.UpdateOne(ctx, bson.M{"_id": oid}, bson.M{"$set": bson.M{"id": id}}); err != nil {
		return "", mapMongoErr("create "+collection, err)
	}
	return id, nil
}

// Update applies fields to an existing document and bumps updatedAt.
func (m *Mongo) Update(ctx context.Context, collection, id string, fields map[string]any) error {
	set := bson.M{}
	for k, v := range fields {
		set[k] = v
	}
	set["updatedAt"] = time.Now().UTC()

	res, err := m.db.Collection(collection).UpdateOne(ctx, idFilter(id), bson.M{"$set": set})
	if err != nil {
		return mapMongoErr("update "+collection, err)
	}
	if res.MatchedCount == 0 {
		return models.NewPersistenceError(models.KindNotFound, "update "+collection, mongo.ErrNoDocuments)
	}
	return nil
}

// Delete removes a document by id.
func (m *Mongo) Delete(ctx context.Context, collection, id string) error {
	res, err := m.db.Collection(collection).DeleteOne(ctx, idFilter(id))
	if err != nil {
		return mapMongoErr("delete "+collection, err)
	}
	if res.DeletedCount == 0 {
		return models.NewPersistenceError(models.KindNotFound, "delete "+collection, mongo.ErrNoDocuments)
	}
	return nil
}

func idFilter(id string) bson.M {
	if oid, err := primitive.ObjectIDFromHex(id); err == nil {
		return bson.M{"_id": oid}
	}
	return bson.M{"id": id}
}

// FindEvents returns all events ordered by orderKey.
func (m *Mongo) FindEvents(ctx context.Context, orderKey string, dir SortDirection) ([]models.Event, error) {
	docs, err := m.findAll(ctx, EventsCollection, orderKey, dir)
	if err != nil {
		return nil, err
	}
	events := make([]models.Event, 0, len(docs))
	for _, doc := range docs {
		events = append(events, DecodeEvent(doc))
	}
	return events, nil
}

// FindCategories returns all categories ordered by orderKey.
func (m *Mongo) FindCategories(ctx context.Context, orderKey string, dir SortDirection) ([]models.Category, error) {
	docs, err := m.findAll(ctx, CategoriesCollection, orderKey, dir)
	if err != nil {
		return nil, err
	}
	categories := make([]models.Category, 0, len(docs))
	for _, doc := range docs {
		categories = append(categories, DecodeCategory(doc))
	}
	return categories, nil
}

func (m *Mongo) findAll(ctx context.Context, collection, orderKey string, dir SortDirection) ([]bson.M, error) {
	opts := options.Find().SetSort(bson.D{{Key: orderKey, Value: int(dir)}})
	cursor, err := m.db.Collection(collection).Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, mapMongoErr("list "+collection, err)
	}
	var docs []bson.M
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, mapMongoErr("list "+collection, err)
	}
	return docs, nil
}

// GetEvent fetches a single event by id.
func (m *Mongo) GetEvent(ctx context.Context, id string) (models.Event, error) {
	var doc bson.M
	err := m.db.Collection(EventsCollection).FindOne(ctx, idFilter(id)).Decode(&doc)
	if err != nil {
		return models.Event{}, mapMongoErr("get event", err)
	}
	return DecodeEvent(doc), nil
}

// GetCategory fetches a single category by id.
func (m *Mongo) GetCategory(ctx context.Context, id string) (models.Category, error) {
	var doc bson.M
	err := m.db.Collection(CategoriesCollection).FindOne(ctx, idFilter(id)).Decode(&doc)
	if err != nil {
		return models.Category{}, mapMongoErr("get category", err)
	}
	return DecodeCategory(doc), nil
}

// FindUserByEmail fetches an organizer account by email.
func (m *Mongo) FindUserByEmail(ctx context.Context, email string) (models.User, error) {
	var user models.User
	err := m.db.Collection(UsersCollection).FindOne(ctx, bson.M{"email": email}).Decode(&user)
	if err != nil {
		return models.User{}, mapMongoErr("get user", err)
	}
	return user, nil
}

// mapMongoErr classifies driver errors into the PersistenceError taxonomy.
func mapMongoErr(op string, err error) error {
	if err == nil {
		return nil
	}
	switch {
	case errors.Is(err, mongo.ErrNoDocuments):
		return models.NewPersistenceError(models.KindNotFound, op, err)
	case errors.Is(err, context.DeadlineExceeded), mongo.IsTimeout(err):
		return models.NewPersistenceError(models.KindNetworkUnavailable, op, err)
	}
	var ce mongo.CommandError
	if errors.As(err, &ce) {
		switch {
		case ce.HasErrorLabel("NetworkError"):
			return models.NewPersistenceError(models.KindNetworkUnavailable, op, err)
		case ce.Code == 13: // Unauthorized
			return models.NewPersistenceError(models.KindPermissionDenied, op, err)
		}
	}
	return models.NewPersistenceError(models.KindUnknown, op, err)
}
