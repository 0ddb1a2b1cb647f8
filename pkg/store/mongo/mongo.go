// Package mongo provides a MongoDB-backed snapshot store for serve mode.
package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/daygrid/daygrid/pkg/store"
)

const (
	defaultDatabase  = "daygrid"
	collectionName   = "snapshots"
	connectTimeout   = 10 * time.Second
	defaultOpTimeout = 5 * time.Second
)

// Config holds MongoDB connection settings.
type Config struct {
	// URI is the MongoDB connection string.
	URI string

	// Database is the database name. Defaults to "daygrid".
	Database string
}

// Store is a MongoDB-backed snapshot store.
type Store struct {
	client *mongo.Client
	coll   *mongo.Collection
}

// NewStore connects to MongoDB and prepares the snapshot collection. An
// index on (date, created_at) backs the List query.
func NewStore(ctx context.Context, cfg Config) (*Store, error) {
	if cfg.URI == "" {
		return nil, errors.New("mongo: URI is required")
	}
	if cfg.Database == "" {
		cfg.Database = defaultDatabase
	}

	connectCtx, cancel := context.WithTimeout(ctx, connectTimeout)
	defer cancel()

	client, err := mongo.Connect(connectCtx, options.Client().ApplyURI(cfg.URI))
	if err != nil {
		return nil, fmt.Errorf("mongo connect: %w", err)
	}
	if err := client.Ping(connectCtx, nil); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("mongo ping: %w", err)
	}

	coll := client.Database(cfg.Database).Collection(collectionName)
	indexes := coll.Indexes()
	_, err = indexes.CreateOne(connectCtx, mongo.IndexModel{
		Keys: bson.D{{Key: "date", Value: 1}, {Key: "created_at", Value: -1}},
	})
	if err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("mongo create index: %w", err)
	}

	return &Store{client: client, coll: coll}, nil
}

// Publish stores a snapshot.
func (s *Store) Publish(ctx context.Context, snap store.Snapshot) error {
	ctx, cancel := context.WithTimeout(ctx, defaultOpTimeout)
	defer cancel()

	_, err := s.coll.InsertOne(ctx, snap)
	if mongo.IsDuplicateKeyError(err) {
		return fmt.Errorf("snapshot %s already published", snap.ID)
	}
	if err != nil {
		return fmt.Errorf("mongo insert: %w", err)
	}
	return nil
}

// Get retrieves a snapshot by ID.
func (s *Store) Get(ctx context.Context, id string) (store.Snapshot, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultOpTimeout)
	defer cancel()

	var snap store.Snapshot
	err := s.coll.FindOne(ctx, bson.M{"_id": id}).Decode(&snap)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return store.Snapshot{}, store.ErrNotFound
	}
	if err != nil {
		return store.Snapshot{}, fmt.Errorf("mongo find: %w", err)
	}
	return snap, nil
}

// List returns snapshots for a date, newest first.
func (s *Store) List(ctx context.Context, date string) ([]store.Snapshot, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultOpTimeout)
	defer cancel()

	filter := bson.M{}
	if date != "" {
		filter["date"] = date
	}
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})

	cursor, err := s.coll.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("mongo find: %w", err)
	}
	defer cursor.Close(ctx)

	var out []store.Snapshot
	if err := cursor.All(ctx, &out); err != nil {
		return nil, fmt.Errorf("mongo decode: %w", err)
	}
	return out, nil
}

// Delete removes a snapshot.
func (s *Store) Delete(ctx context.Context, id string) error {
	ctx, cancel := context.WithTimeout(ctx, defaultOpTimeout)
	defer cancel()

	if _, err := s.coll.DeleteOne(ctx, bson.M{"_id": id}); err != nil {
		return fmt.Errorf("mongo delete: %w", err)
	}
	return nil
}

// Close disconnects from MongoDB.
func (s *Store) Close(ctx context.Context) error {
	return s.client.Disconnect(ctx)
}

// Ensure Store implements store.Store.
var _ store.Store = (*Store)(nil)
