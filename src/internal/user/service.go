package user

import (
	"context"
	"fmt"
	"time"

	"pctracer-svc/src/internal/activity"
	"pctracer-svc/src/internal/metrics"
	"pctracer-svc/src/internal/models"

	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ActivitySource reports which users produced activity recently.
type ActivitySource interface {
	ActiveUsersSince(ctx context.Context, threshold activity.Timestamp) ([]string, error)
}

type Service interface {
	ListNames(ctx context.Context) ([]NameView, error)
	ListExisting(ctx context.Context) ([]Summary, error)
	ReconcileActive(ctx context.Context, days int) ([]Summary, error)
	Delete(ctx context.Context, id string) error
}

type userService struct {
	userRepository Repository
	activities     ActivitySource
	location       *time.Location
	metrics        *metrics.Metrics
	now            func() time.Time
}

func NewUserService(userRepository Repository, activities ActivitySource, location *time.Location, m *metrics.Metrics) Service {
	return &userService{
		userRepository: userRepository,
		activities:     activities,
		location:       location,
		metrics:        m,
		now:            time.Now,
	}
}

func (s *userService) ListNames(ctx context.Context) ([]NameView, error) {
	return s.userRepository.ListNames(ctx)
}

func (s *userService) ListExisting(ctx context.Context) ([]Summary, error) {
	return s.userRepository.List(ctx)
}

// ReconcileActive registers every user with activity ending within the last days
// and returns the directory as it stands afterwards.
func (s *userService) ReconcileActive(ctx context.Context, days int) ([]Summary, error) {
	if days < 0 {
		return nil, fmt.Errorf("%w: days must not be negative", models.ErrInvalidParams)
	}

	threshold := activity.NewTimestamp(s.now().In(s.location).AddDate(0, 0, -days))

	names, err := s.activities.ActiveUsersSince(ctx, threshold)
	if err != nil {
		logrus.WithError(err).Error("Failed to find active users")
		return nil, err
	}

	inserted, err := s.userRepository.UpsertNames(ctx, names)
	if err != nil {
		return nil, err
	}
	s.metrics.AddReconciled(int(inserted))

	logrus.WithFields(logrus.Fields{
		"days":      days,
		"threshold": threshold.String(),
		"active":    len(names),
		"inserted":  inserted,
	}).Info("Active users reconciled")

	return s.userRepository.List(ctx)
}

func (s *userService) Delete(ctx context.Context, id string) error {
	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return fmt.Errorf("%w: %q is not a valid user id", models.ErrInvalidID, id)
	}

	if err := s.userRepository.DeleteByID(ctx, objectID); err != nil {
		return err
	}

	logrus.WithField("user_id", id).Info("User deleted")
	return nil
}
