package activity

import (
	"context"
	"fmt"

	"pctracer-svc/src/clients"
	"pctracer-svc/src/internal/metrics"
	"pctracer-svc/src/internal/models"

	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type Repository interface {
	Find(ctx context.Context, query Query) ([]Record, error)
	ActiveUsersSince(ctx context.Context, threshold Timestamp) ([]string, error)
	Count(ctx context.Context) (int64, error)
	TotalDuration(ctx context.Context) (float64, error)
}

// Query selects activity records. An empty User matches every user.
type Query struct {
	User        string
	SortByStart bool
}

func (q Query) filter() bson.M {
	filter := bson.M{}
	if q.User != "" {
		filter["user"] = q.User
	}
	return filter
}

type activityRepository struct {
	collection *mongo.Collection
	metrics    *metrics.Metrics
}

func NewActivityRepository(mongoClient *clients.MongoDB, collectionName string, m *metrics.Metrics) Repository {
	return &activityRepository{
		collection: mongoClient.Database.Collection(collectionName),
		metrics:    m,
	}
}

func (r *activityRepository) Find(ctx context.Context, query Query) ([]Record, error) {
	opts := options.Find()
	if query.SortByStart {
		// the agent's fixed-width layout sorts chronologically as a string
		opts.SetSort(bson.D{{Key: "start_time", Value: 1}})
	}

	cursor, err := r.collection.Find(ctx, query.filter(), opts)
	if err != nil {
		logrus.WithError(err).WithField("user", query.User).Error("Failed to find activity records")
		return nil, fmt.Errorf("%w: %v", models.ErrDatabaseQuery, err)
	}
	defer cursor.Close(ctx)

	records := make([]Record, 0)
	rejected := 0
	for cursor.Next(ctx) {
		var record Record
		if err := cursor.Decode(&record); err != nil {
			rejected++
			logrus.WithError(err).WithField("id", cursor.Current.Lookup("_id").String()).
				Warn("Skipping undecodable activity record")
			continue
		}
		if err := record.Validate(); err != nil {
			rejected++
			logrus.WithError(err).WithField("id", record.ID.Hex()).Warn("Skipping invalid activity record")
			continue
		}
		records = append(records, record)
	}

	if err := cursor.Err(); err != nil {
		logrus.WithError(err).Error("Cursor error")
		return nil, fmt.Errorf("%w: %v", models.ErrDatabaseQuery, err)
	}

	r.metrics.AddRejected(rejected)

	logrus.WithFields(logrus.Fields{
		"user":     query.User,
		"count":    len(records),
		"rejected": rejected,
	}).Debug("Retrieved activity records")

	return records, nil
}

func (r *activityRepository) ActiveUsersSince(ctx context.Context, threshold Timestamp) ([]string, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: bson.M{"end_time": bson.M{"$gte": threshold.String()}}}},
		{{Key: "$group", Value: bson.M{"_id": "$user"}}},
		{{Key: "$sort", Value: bson.M{"_id": 1}}},
	}

	cursor, err := r.collection.Aggregate(ctx, pipeline)
	if err != nil {
		logrus.WithError(err).Error("Failed to aggregate active users")
		return nil, fmt.Errorf("%w: %v", models.ErrDatabaseQuery, err)
	}
	defer cursor.Close(ctx)

	var rows []struct {
		Name string `bson:"_id"`
	}
	if err := cursor.All(ctx, &rows); err != nil {
		logrus.WithError(err).Error("Failed to decode active users")
		return nil, fmt.Errorf("%w: %v", models.ErrDatabaseQuery, err)
	}

	names := make([]string, 0, len(rows))
	for _, row := range rows {
		if row.Name != "" {
			names = append(names, row.Name)
		}
	}

	logrus.WithFields(logrus.Fields{
		"threshold": threshold.String(),
		"count":     len(names),
	}).Debug("Active users aggregated")

	return names, nil
}

func (r *activityRepository) Count(ctx context.Context) (int64, error) {
	count, err := r.collection.EstimatedDocumentCount(ctx)
	if err != nil {
		logrus.WithError(err).Error("Failed to count activity records")
		return 0, fmt.Errorf("%w: %v", models.ErrDatabaseQuery, err)
	}
	return count, nil
}

func (r *activityRepository) TotalDuration(ctx context.Context) (float64, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$group", Value: bson.M{"_id": nil, "total": bson.M{"$sum": "$duration_seconds"}}}},
	}

	cursor, err := r.collection.Aggregate(ctx, pipeline)
	if err != nil {
		logrus.WithError(err).Error("Failed to aggregate total duration")
		return 0, fmt.Errorf("%w: %v", models.ErrDatabaseQuery, err)
	}
	defer cursor.Close(ctx)

	var rows []struct {
		Total float64 `bson:"total"`
	}
	if err := cursor.All(ctx, &rows); err != nil {
		return 0, fmt.Errorf("%w: %v", models.ErrDatabaseQuery, err)
	}
	if len(rows) == 0 {
		return 0, nil
	}
	return rows[0].Total, nil
}
