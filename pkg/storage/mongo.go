package storage

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Mongo defaults.
const (
	DefaultDatabase   = "diagramkit"
	DefaultCollection = "diagrams"
)

// MongoStore keeps diagrams in a MongoDB collection, one document per
// diagram keyed by _id.
type MongoStore struct {
	client *mongo.Client
	coll   *mongo.Collection
}

// NewMongoStore connects to uri and ensures the created_at index. An
// empty database selects DefaultDatabase.
func NewMongoStore(ctx context.Context, uri, database string) (*MongoStore, error) {
	if database == "" {
		database = DefaultDatabase
	}
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("mongo connect: %w", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(ctx)
		return nil, fmt.Errorf("mongo ping: %w", err)
	}
	s := &MongoStore{
		client: client,
		coll:   client.Database(database).Collection(DefaultCollection),
	}
	_, err = s.coll.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "created_at", Value: -1}},
	})
	if err != nil {
		_ = client.Disconnect(ctx)
		return nil, fmt.Errorf("mongo index: %w", err)
	}
	return s, nil
}

// Save implements Store.
func (s *MongoStore) Save(ctx context.Context, d *Diagram) error {
	now := time.Now().UTC().Truncate(time.Millisecond)
	if d.ID != "" && d.CreatedAt.IsZero() {
		var old Diagram
		err := s.coll.FindOne(ctx, bson.D{{Key: "_id", Value: d.ID}},
			options.FindOne().SetProjection(bson.D{{Key: "created_at", Value: 1}})).Decode(&old)
		if err == nil {
			d.CreatedAt = old.CreatedAt
		} else if !errors.Is(err, mongo.ErrNoDocuments) {
			return fmt.Errorf("mongo find %s: %w", d.ID, err)
		}
	}
	prepare(d, now)
	_, err := s.coll.ReplaceOne(ctx, bson.D{{Key: "_id", Value: d.ID}}, d, options.Replace().SetUpsert(true))
	if err != nil {
		return fmt.Errorf("mongo save %s: %w", d.ID, err)
	}
	return nil
}

// Get implements Store.
func (s *MongoStore) Get(ctx context.Context, id string) (*Diagram, error) {
	var d Diagram
	err := s.coll.FindOne(ctx, bson.D{{Key: "_id", Value: id}}).Decode(&d)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, notFound(id)
	}
	if err != nil {
		return nil, fmt.Errorf("mongo get %s: %w", id, err)
	}
	return &d, nil
}

// List implements Store.
func (s *MongoStore) List(ctx context.Context, limit int) ([]*Diagram, error) {
	opts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}, {Key: "_id", Value: 1}}).
		SetLimit(int64(listLimit(limit)))
	cur, err := s.coll.Find(ctx, bson.D{}, opts)
	if err != nil {
		return nil, fmt.Errorf("mongo list: %w", err)
	}
	var out []*Diagram
	if err := cur.All(ctx, &out); err != nil {
		return nil, fmt.Errorf("mongo list: %w", err)
	}
	return out, nil
}

// Delete implements Store.
func (s *MongoStore) Delete(ctx context.Context, id string) error {
	res, err := s.coll.DeleteOne(ctx, bson.D{{Key: "_id", Value: id}})
	if err != nil {
		return fmt.Errorf("mongo delete %s: %w", id, err)
	}
	if res.DeletedCount == 0 {
		return notFound(id)
	}
	return nil
}

// Close implements Store.
func (s *MongoStore) Close(ctx context.Context) error {
	return s.client.Disconnect(ctx)
}

var _ Store = (*MongoStore)(nil)
