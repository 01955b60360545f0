package user

import (
	"context"
	"fmt"

	"pctracer-svc/src/clients"
	"pctracer-svc/src/internal/models"

	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type Repository interface {
	ListNames(ctx context.Context) ([]NameView, error)
	List(ctx context.Context) ([]Summary, error)
	UpsertNames(ctx context.Context, names []string) (int64, error)
	DeleteByID(ctx context.Context, id primitive.ObjectID) error
	Count(ctx context.Context) (int64, error)
}

type userRepository struct {
	collection *mongo.Collection
}

func NewUserRepository(mongoClient *clients.MongoDB, collectionName string) Repository {
	return &userRepository{
		collection: mongoClient.Database.Collection(collectionName),
	}
}

func (r *userRepository) ListNames(ctx context.Context) ([]NameView, error) {
	opts := options.Find().SetProjection(bson.M{"name": 1, "_id": 0})

	names := make([]NameView, 0)
	if err := r.findAll(ctx, opts, &names); err != nil {
		return nil, err
	}
	return names, nil
}

func (r *userRepository) List(ctx context.Context) ([]Summary, error) {
	opts := options.Find().SetProjection(bson.M{"name": 1, "_id": 1})

	users := make([]Summary, 0)
	if err := r.findAll(ctx, opts, &users); err != nil {
		return nil, err
	}
	return users, nil
}

func (r *userRepository) findAll(ctx context.Context, opts *options.FindOptions, out any) error {
	cursor, err := r.collection.Find(ctx, bson.M{}, opts)
	if err != nil {
		logrus.WithError(err).Error("Failed to find users")
		return fmt.Errorf("%w: %v", models.ErrDatabaseQuery, err)
	}
	defer cursor.Close(ctx)

	if err := cursor.All(ctx, out); err != nil {
		logrus.WithError(err).Error("Failed to decode users")
		return fmt.Errorf("%w: %v", models.ErrDatabaseQuery, err)
	}
	return nil
}

// UpsertNames inserts every name that is not registered yet. Existing users are
// left untouched, so concurrent or repeated calls converge on the same set.
func (r *userRepository) UpsertNames(ctx context.Context, names []string) (int64, error) {
	if len(names) == 0 {
		return 0, nil
	}

	writes := make([]mongo.WriteModel, 0, len(names))
	for _, name := range names {
		writes = append(writes, mongo.NewUpdateOneModel().
			SetFilter(bson.M{"name": name}).
			SetUpdate(bson.M{"$setOnInsert": bson.M{"name": name}}).
			SetUpsert(true))
	}

	result, err := r.collection.BulkWrite(ctx, writes, options.BulkWrite().SetOrdered(false))
	if err != nil {
		// a concurrent reconciliation may win the race for the same name
		if mongo.IsDuplicateKeyError(err) {
			logrus.WithError(err).Debug("Concurrent upsert already registered user")
			return 0, nil
		}
		logrus.WithError(err).Error("Failed to upsert users")
		return 0, fmt.Errorf("%w: %v", models.ErrDatabaseUpdate, err)
	}

	logrus.WithFields(logrus.Fields{
		"requested": len(names),
		"inserted":  result.UpsertedCount,
	}).Debug("Users upserted")

	return result.UpsertedCount, nil
}

func (r *userRepository) DeleteByID(ctx context.Context, id primitive.ObjectID) error {
	result, err := r.collection.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		logrus.WithError(err).WithField("user_id", id.Hex()).Error("Failed to delete user")
		return fmt.Errorf("%w: %v", models.ErrDatabaseDelete, err)
	}
	if result.DeletedCount == 0 {
		return models.ErrUserNotFound
	}
	return nil
}

func (r *userRepository) Count(ctx context.Context) (int64, error) {
	count, err := r.collection.CountDocuments(ctx, bson.M{})
	if err != nil {
		logrus.WithError(err).Error("Failed to count users")
		return 0, fmt.Errorf("%w: %v", models.ErrDatabaseQuery, err)
	}
	return count, nil
}
