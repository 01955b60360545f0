package session

import (
	"context"
	"errors"
	"fmt"
	"time"

	"pctracer-svc/src/clients"
	"pctracer-svc/src/internal/models"

	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

type repository struct {
	collection *mongo.Collection
}

type Repository interface {
	Create(ctx context.Context, session *models.Session) error
	GetByID(ctx context.Context, sessionID string) (*models.Session, error)
	UpdateActivity(ctx context.Context, sessionID string, at time.Time) error
	Deactivate(ctx context.Context, sessionID string, at time.Time) error
}

func NewSessionRepository(db *clients.MongoDB, collectionName string) Repository {
	collection := db.Database.Collection(collectionName)
	return &repository{collection: collection}
}

func (r *repository) Create(ctx context.Context, session *models.Session) error {
	if _, err := r.collection.InsertOne(ctx, session); err != nil {
		logrus.WithError(err).WithField("session_id", session.SessionID).Error("Failed to create session")
		return fmt.Errorf("%w: %v", models.ErrSessionCreating, err)
	}
	return nil
}

func (r *repository) GetByID(ctx context.Context, sessionID string) (*models.Session, error) {
	var session models.Session
	filter := bson.M{"session_id": sessionID}

	err := r.collection.FindOne(ctx, filter).Decode(&session)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, models.ErrSessionNotFound
		}
		logrus.WithError(err).WithField("session_id", sessionID).Error("Failed to get session")
		return nil, models.ErrDatabaseQuery
	}

	return &session, nil
}

func (r *repository) UpdateActivity(ctx context.Context, sessionID string, at time.Time) error {
	filter := bson.M{
		"session_id": sessionID,
		"is_active":  true,
	}

	update := bson.M{
		"$set": bson.M{
			"last_active_at": at,
		},
	}

	_, err := r.collection.UpdateOne(ctx, filter, update)
	if err != nil {
		logrus.WithError(err).WithField("session_id", sessionID).Error("Failed to update session activity")
		return models.ErrSessionUpdating
	}

	return nil
}

func (r *repository) Deactivate(ctx context.Context, sessionID string, at time.Time) error {
	filter := bson.M{"session_id": sessionID}
	update := bson.M{
		"$set": bson.M{
			"is_active": false,
			"logout_at": at,
		},
	}

	_, err := r.collection.UpdateOne(ctx, filter, update)
	if err != nil {
		logrus.WithError(err).WithField("session_id", sessionID).Error("Failed to deactivate session")
		return models.ErrSessionUpdating
	}

	return nil
}
