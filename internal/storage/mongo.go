package storage

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/h0ck3ystyx/recrafter/internal/config"
	"github.com/h0ck3ystyx/recrafter/internal/types"
)

const (
	mongoConnectTimeout = 10 * time.Second
	mongoWriteTimeout   = 30 * time.Second
)

// MongoSink publishes crawl metadata to a MongoDB collection alongside the
// file store. Page HTML and asset bodies stay on disk; Mongo gets the
// queryable records.
type MongoSink struct {
	client     *mongo.Client
	collection *mongo.Collection
	logger     *slog.Logger
}

// NewMongoSink connects to the configured MongoDB deployment and verifies
// it with a ping.
func NewMongoSink(cfg config.StorageConfig, logger *slog.Logger) (*MongoSink, error) {
	ctx, cancel := context.WithTimeout(context.Background(), mongoConnectTimeout)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.MongoURI))
	if err != nil {
		return nil, fmt.Errorf("mongodb connect: %w", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		return nil, fmt.Errorf("mongodb ping: %w", err)
	}

	database := cfg.MongoDatabase
	if database == "" {
		database = "recrafter"
	}
	collection := cfg.MongoCollection
	if collection == "" {
		collection = "crawls"
	}

	return &MongoSink{
		client:     client,
		collection: client.Database(database).Collection(collection),
		logger:     logger.With("component", "mongo_sink"),
	}, nil
}

// crawlDocument is the persisted shape of one crawl run.
type crawlDocument struct {
	SiteMap  *SiteMapRecord `bson:"site_map"`
	Summary  *CrawlSummary  `bson:"summary"`
	StoredAt time.Time      `bson:"stored_at"`
}

// Publish inserts one document per crawl run: the sitemap record plus the
// run summary.
func (s *MongoSink) Publish(ctx context.Context, result *types.CrawlResult) error {
	writeCtx, cancel := context.WithTimeout(ctx, mongoWriteTimeout)
	defer cancel()

	doc := crawlDocument{
		SiteMap:  NewSiteMapRecord(result.SiteMap),
		Summary:  NewCrawlSummary(result),
		StoredAt: time.Now(),
	}
	if _, err := s.collection.InsertOne(writeCtx, doc); err != nil {
		return fmt.Errorf("mongodb insert: %w", err)
	}

	s.logger.Info("crawl published to mongodb",
		"base_url", result.SiteMap.BaseURL,
		"pages", len(result.SiteMap.Pages),
	)
	return nil
}

// Close disconnects from MongoDB.
func (s *MongoSink) Close() error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return s.client.Disconnect(ctx)
}
