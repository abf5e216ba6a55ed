package store

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/fasowatch/mediascan/internal/types"
)

// MongoStore persists snapshots in MongoDB, one collection for articles
// and one for the media roster.
type MongoStore struct {
	client   *mongo.Client
	articles *mongo.Collection
	medias   *mongo.Collection
	logger   *slog.Logger
}

// OpenMongoStore connects and pings the server.
func OpenMongoStore(uri, database string, logger *slog.Logger) (*MongoStore, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("mongodb connect: %w", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		return nil, fmt.Errorf("mongodb ping: %w", err)
	}

	db := client.Database(database)
	return &MongoStore{
		client:   client,
		articles: db.Collection("articles"),
		medias:   db.Collection("medias"),
		logger:   logger.With("component", "mongo_store"),
	}, nil
}

func (s *MongoStore) Name() string { return "mongodb" }

func (s *MongoStore) Save(ctx context.Context, snap *types.Snapshot) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	if _, err := s.articles.DeleteMany(ctx, bson.D{}); err != nil {
		return &types.StoreError{Backend: s.Name(), Err: fmt.Errorf("clear articles: %w", err)}
	}
	if _, err := s.medias.DeleteMany(ctx, bson.D{}); err != nil {
		return &types.StoreError{Backend: s.Name(), Err: fmt.Errorf("clear medias: %w", err)}
	}

	if len(snap.Articles) > 0 {
		docs := make([]any, len(snap.Articles))
		for i := range snap.Articles {
			docs[i] = snap.Articles[i]
		}
		if _, err := s.articles.InsertMany(ctx, docs); err != nil {
			return &types.StoreError{Backend: s.Name(), Err: fmt.Errorf("insert articles: %w", err)}
		}
	}
	if len(snap.Medias) > 0 {
		docs := make([]any, len(snap.Medias))
		for i := range snap.Medias {
			docs[i] = snap.Medias[i]
		}
		if _, err := s.medias.InsertMany(ctx, docs); err != nil {
			return &types.StoreError{Backend: s.Name(), Err: fmt.Errorf("insert medias: %w", err)}
		}
	}

	s.logger.Info("snapshot stored in mongodb",
		"articles", len(snap.Articles), "medias", len(snap.Medias))
	return nil
}

func (s *MongoStore) Load(ctx context.Context) (*types.Snapshot, error) {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	snap := &types.Snapshot{}

	cur, err := s.articles.Find(ctx, bson.D{})
	if err != nil {
		return nil, &types.StoreError{Backend: s.Name(), Err: fmt.Errorf("find articles: %w", err)}
	}
	if err := cur.All(ctx, &snap.Articles); err != nil {
		return nil, &types.StoreError{Backend: s.Name(), Err: fmt.Errorf("decode articles: %w", err)}
	}

	mcur, err := s.medias.Find(ctx, bson.D{})
	if err != nil {
		return nil, &types.StoreError{Backend: s.Name(), Err: fmt.Errorf("find medias: %w", err)}
	}
	if err := mcur.All(ctx, &snap.Medias); err != nil {
		return nil, &types.StoreError{Backend: s.Name(), Err: fmt.Errorf("decode medias: %w", err)}
	}

	if len(snap.Articles) == 0 && len(snap.Medias) == 0 {
		return nil, types.ErrSnapshotNotFound
	}
	return snap, nil
}

func (s *MongoStore) Close() error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return s.client.Disconnect(ctx)
}
