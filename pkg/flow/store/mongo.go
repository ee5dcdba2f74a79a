package store

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/storyflow/storyflow/pkg/errors"
	"github.com/storyflow/storyflow/pkg/flow"
	"github.com/storyflow/storyflow/pkg/observability"
)

// MongoStore persists flows in a MongoDB collection, one document per flow
// keyed by the flow id. It is the backend for multi-user server deployments.
type MongoStore struct {
	client     *mongo.Client
	collection *mongo.Collection
}

// MongoConfig configures the MongoDB connection.
type MongoConfig struct {
	URI        string
	Database   string
	Collection string
}

// NewMongoStore connects to MongoDB and verifies the connection with a ping.
func NewMongoStore(ctx context.Context, cfg MongoConfig) (*MongoStore, error) {
	if cfg.Database == "" {
		cfg.Database = "storyflow"
	}
	if cfg.Collection == "" {
		cfg.Collection = "flows"
	}

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.URI))
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeStore, err, "connect to mongodb")
	}
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(ctx)
		return nil, errors.Wrap(errors.ErrCodeStore, err, "ping mongodb")
	}

	return &MongoStore{
		client:     client,
		collection: client.Database(cfg.Database).Collection(cfg.Collection),
	}, nil
}

// Name identifies the backend.
func (s *MongoStore) Name() string { return "mongo" }

// Load reads a flow document by id.
func (s *MongoStore) Load(ctx context.Context, id string) (*flow.Flow, error) {
	start := time.Now()
	f, err := s.load(ctx, id)
	observability.Store().OnLoad(ctx, s.Name(), id, time.Since(start), err)
	return f, err
}

func (s *MongoStore) load(ctx context.Context, id string) (*flow.Flow, error) {
	var f flow.Flow
	err := s.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&f)
	if err == mongo.ErrNoDocuments {
		return nil, errors.New(errors.ErrCodeFlowNotFound, "flow %s not found", id)
	}
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeStore, err, "load flow %s", id)
	}
	return &f, nil
}

// Save validates and upserts a flow document.
func (s *MongoStore) Save(ctx context.Context, f *flow.Flow) error {
	start := time.Now()
	err := s.save(ctx, f)
	observability.Store().OnSave(ctx, s.Name(), f.ID, time.Since(start), err)
	return err
}

func (s *MongoStore) save(ctx context.Context, f *flow.Flow) error {
	if err := errors.ValidateFlowID(f.ID); err != nil {
		return err
	}
	if err := flow.Validate(f); err != nil {
		return err
	}
	_, err := s.collection.ReplaceOne(ctx, bson.M{"_id": f.ID}, f,
		options.Replace().SetUpsert(true))
	if err != nil {
		return errors.Wrap(errors.ErrCodeStore, err, "save flow %s", f.ID)
	}
	return nil
}

// Delete removes a flow document.
func (s *MongoStore) Delete(ctx context.Context, id string) error {
	res, err := s.collection.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return errors.Wrap(errors.ErrCodeStore, err, "delete flow %s", id)
	}
	if res.DeletedCount == 0 {
		return errors.New(errors.ErrCodeFlowNotFound, "flow %s not found", id)
	}
	return nil
}

// List returns summaries for every flow in the collection, sorted by id.
// Node and edge counts are computed server-side so full documents never
// leave the database.
func (s *MongoStore) List(ctx context.Context) ([]Summary, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$project", Value: bson.M{
			"name": 1,
			"modules": bson.M{"$size": bson.M{"$filter": bson.M{
				"input": "$nodes",
				"as":    "n",
				"cond":  bson.M{"$ne": bson.A{"$$n.kind", "outputSlot"}},
			}}},
			"edges": bson.M{"$size": "$edges"},
		}}},
		{{Key: "$sort", Value: bson.M{"_id": 1}}},
	}

	cur, err := s.collection.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeStore, err, "list flows")
	}
	defer cur.Close(ctx)

	var out []Summary
	if err := cur.All(ctx, &out); err != nil {
		return nil, errors.Wrap(errors.ErrCodeStore, err, "decode flow listing")
	}
	return out, nil
}

// Close disconnects from MongoDB.
func (s *MongoStore) Close(ctx context.Context) error {
	return s.client.Disconnect(ctx)
}

var _ Store = (*MongoStore)(nil)
