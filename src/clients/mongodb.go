package clients

import (
	"context"
	"errors"
	"fmt"
	"time"

	"pctracer-svc/src/internal/config"

	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type MongoDB struct {
	Client   *mongo.Client
	Database *mongo.Database
	timeout  time.Duration
}

func NewMongoDB(cfg *config.Database) (*MongoDB, error) {
	timeout := time.Duration(cfg.Timeout) * time.Second
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	log.WithField("database", cfg.DbName).Info("Connecting to MongoDB...")

	client, err := mongo.Connect(ctx, options.Client().
		ApplyURI(cfg.Url).
		SetConnectTimeout(timeout).
		SetServerSelectionTimeout(timeout))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to mongodb: %w", err)
	}

	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("failed to ping mongodb: %w", err)
	}

	log.Infof("Connected to MongoDB database %s", cfg.DbName)

	return &MongoDB{
		Client:   client,
		Database: client.Database(cfg.DbName),
		timeout:  timeout,
	}, nil
}

// Index conflicts reported by createIndexes when an index with the same name or
// keys already exists with other options.
const (
	indexOptionsConflict  = 85
	indexKeySpecsConflict = 86
)

type collectionIndexes struct {
	collection string
	models     []mongo.IndexModel
}

// EnsureIndexes creates the unique indexes the directory collections rely on.
// An index already built with other options is kept as it is and logged.
func (m *MongoDB) EnsureIndexes(ctx context.Context, collections *config.Collections) error {
	unique := func(field string, sparse bool) mongo.IndexModel {
		return mongo.IndexModel{
			Keys:    bson.D{{Key: field, Value: 1}},
			Options: options.Index().SetUnique(true).SetSparse(sparse),
		}
	}

	indexes := []collectionIndexes{
		{collection: collections.Admins, models: []mongo.IndexModel{unique("name", false), unique("email", false)}},
		// reconciled users carry no email, so the email index must skip them
		{collection: collections.Users, models: []mongo.IndexModel{unique("name", false), unique("email", true)}},
		{collection: collections.Sessions, models: []mongo.IndexModel{unique("session_id", false)}},
		{collection: collections.Activities, models: []mongo.IndexModel{
			{Keys: bson.D{{Key: "user", Value: 1}, {Key: "start_time", Value: 1}}},
			{Keys: bson.D{{Key: "end_time", Value: 1}}},
		}},
	}

	for _, entry := range indexes {
		view := m.Database.Collection(entry.collection).Indexes()
		for _, model := range entry.models {
			name, err := view.CreateOne(ctx, model)
			if isIndexConflict(err) {
				log.WithError(err).WithField("collection", entry.collection).
					Warn("Existing index differs from the expected one, keeping it")
				continue
			}
			if err != nil {
				return fmt.Errorf("failed to create indexes on %s: %w", entry.collection, err)
			}
			log.WithFields(logrus.Fields{
				"collection": entry.collection,
				"index":      name,
			}).Debug("Index ensured")
		}
	}

	return nil
}

func isIndexConflict(err error) bool {
	var serverErr mongo.ServerError
	if !errors.As(err, &serverErr) {
		return false
	}
	return serverErr.HasErrorCode(indexOptionsConflict) || serverErr.HasErrorCode(indexKeySpecsConflict)
}

func (m *MongoDB) Close() error {
	ctx, cancel := context.WithTimeout(context.Background(), m.timeout)
	defer cancel()

	if err := m.Client.Disconnect(ctx); err != nil {
		log.WithError(err).Error("Failed to disconnect from MongoDB")
		return err
	}

	log.Info("MongoDB connection closed")
	return nil
}
