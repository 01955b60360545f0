package admin

import (
	"context"
	"errors"
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
	List(ctx context.Context) ([]Summary, error)
	FindByEmail(ctx context.Context, email string) (*Admin, error)
	Create(ctx context.Context, admin *Admin) error
	DeleteByID(ctx context.Context, id primitive.ObjectID) error
	UpdatePassword(ctx context.Context, id primitive.ObjectID, hash string) error
	Count(ctx context.Context) (int64, error)
}

type adminRepository struct {
	collection *mongo.Collection
}

func NewAdminRepository(mongoClient *clients.MongoDB, collectionName string) Repository {
	return &adminRepository{
		collection: mongoClient.Database.Collection(collectionName),
	}
}

func (r *adminRepository) List(ctx context.Context) ([]Summary, error) {
	opts := options.Find().SetProjection(bson.M{"name": 1, "email": 1})

	cursor, err := r.collection.Find(ctx, bson.M{}, opts)
	if err != nil {
		logrus.WithError(err).Error("Failed to find admins")
		return nil, fmt.Errorf("%w: %v", models.ErrDatabaseQuery, err)
	}
	defer cursor.Close(ctx)

	admins := make([]Summary, 0)
	if err := cursor.All(ctx, &admins); err != nil {
		logrus.WithError(err).Error("Failed to decode admins")
		return nil, fmt.Errorf("%w: %v", models.ErrDatabaseQuery, err)
	}
	return admins, nil
}

func (r *adminRepository) FindByEmail(ctx context.Context, email string) (*Admin, error) {
	var admin Admin
	err := r.collection.FindOne(ctx, bson.M{"email": email}).Decode(&admin)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, models.ErrAdminNotFound
		}
		logrus.WithError(err).WithField("email", email).Error("Failed to find admin")
		return nil, fmt.Errorf("%w: %v", models.ErrDatabaseQuery, err)
	}
	return &admin, nil
}

func (r *adminRepository) Create(ctx context.Context, admin *Admin) error {
	result, err := r.collection.InsertOne(ctx, admin)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return fmt.Errorf("%w: admin with this email or name already exists", models.ErrDuplicateRecord)
		}
		logrus.WithError(err).WithField("email", admin.Email).Error("Failed to insert admin")
		return fmt.Errorf("%w: %v", models.ErrDatabaseInsert, err)
	}

	if id, ok := result.InsertedID.(primitive.ObjectID); ok {
		admin.ID = id
	}
	return nil
}

func (r *adminRepository) DeleteByID(ctx context.Context, id primitive.ObjectID) error {
	result, err := r.collection.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		logrus.WithError(err).WithField("admin_id", id.Hex()).Error("Failed to delete admin")
		return fmt.Errorf("%w: %v", models.ErrDatabaseDelete, err)
	}
	if result.DeletedCount == 0 {
		return models.ErrAdminNotFound
	}
	return nil
}

func (r *adminRepository) UpdatePassword(ctx context.Context, id primitive.ObjectID, hash string) error {
	result, err := r.collection.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": bson.M{"password": hash}})
	if err != nil {
		logrus.WithError(err).WithField("admin_id", id.Hex()).Error("Failed to update admin password")
		return fmt.Errorf("%w: %v", models.ErrDatabaseUpdate, err)
	}
	if result.MatchedCount == 0 {
		return models.ErrAdminNotFound
	}
	return nil
}

func (r *adminRepository) Count(ctx context.Context) (int64, error) {
	count, err := r.collection.CountDocuments(ctx, bson.M{})
	if err != nil {
		logrus.WithError(err).Error("Failed to count admins")
		return 0, fmt.Errorf("%w: %v", models.ErrDatabaseQuery, err)
	}
	return count, nil
}
