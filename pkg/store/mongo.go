package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/matzehuels/boxlayout/pkg/graph"
)

// Defaults for MongoConfig.
const (
	DefaultDatabase   = "boxlayout"
	DefaultCollection = "snapshots"
	defaultTimeout    = 10 * time.Second
)

// MongoConfig configures a Mongo store.
type MongoConfig struct {
	URI        string
	Database   string
	Collection string
}

// Mongo stores snapshots as documents whose _id is the snapshot id.
type Mongo struct {
	client *mongo.Client
	coll   *mongo.Collection
}

// NewMongo connects to MongoDB and pings the primary.
func NewMongo(ctx context.Context, cfg MongoConfig) (*Mongo, error) {
	if cfg.URI == "" {
		return nil, errors.New("mongo uri is required")
	}
	if cfg.Database == "" {
		cfg.Database = DefaultDatabase
	}
	if cfg.Collection == "" {
		cfg.Collection = DefaultCollection
	}

	opts := options.Client().ApplyURI(cfg.URI).SetServerSelectionTimeout(defaultTimeout)
	client, err := mongo.Connect(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("connect mongo: %w", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(ctx)
		return nil, fmt.Errorf("ping mongo: %w", err)
	}
	return &Mongo{
		client: client,
		coll:   client.Database(cfg.Database).Collection(cfg.Collection),
	}, nil
}

// Save implements Store.
func (m *Mongo) Save(ctx context.Context, snap graph.Snapshot) (graph.Snapshot, error) {
	snap = stamp(snap)
	if _, err := m.coll.InsertOne(ctx, snap); err != nil {
		return graph.Snapshot{}, fmt.Errorf("insert snapshot: %w", err)
	}
	return snap, nil
}

// Get implements Store.
func (m *Mongo) Get(ctx context.Context, id string) (graph.Snapshot, error) {
	var snap graph.Snapshot
	err := m.coll.FindOne(ctx, bson.M{"_id": id}).Decode(&snap)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return graph.Snapshot{}, ErrNotFound
	}
	if err != nil {
		return graph.Snapshot{}, fmt.Errorf("find snapshot %s: %w", id, err)
	}
	return snap, nil
}

// Delete implements Store.
func (m *Mongo) Delete(ctx context.Context, id string) error {
	res, err := m.coll.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("delete snapshot %s: %w", id, err)
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// Close implements Store.
func (m *Mongo) Close(ctx context.Context) error {
	return m.client.Disconnect(ctx)
}

var _ Store = (*Mongo)(nil)
