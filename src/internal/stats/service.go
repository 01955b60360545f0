package stats

import (
	"context"

	"pctracer-svc/src/internal/models"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
)

type Counter interface {
	Count(ctx context.Context) (int64, error)
}

type ActivityCounter interface {
	Counter
	TotalDuration(ctx context.Context) (float64, error)
}

// Cache stores the last computed summary; cache.Service satisfies it.
type Cache interface {
	GetStats(ctx context.Context) (*models.Stats, error)
	SaveStats(ctx context.Context, stats *models.Stats) error
}

type Service interface {
	Summary(ctx context.Context) (*models.Stats, error)
}

type statsService struct {
	admins     Counter
	users      Counter
	activities ActivityCounter
	cache      Cache
}

func NewStatsService(admins, users Counter, activities ActivityCounter, cache Cache) Service {
	return &statsService{
		admins:     admins,
		users:      users,
		activities: activities,
		cache:      cache,
	}
}

// Summary serves the cached summary when present and recomputes it otherwise.
// Cache failures only cost a recomputation.
func (s *statsService) Summary(ctx context.Context) (*models.Stats, error) {
	cached, err := s.cache.GetStats(ctx)
	if err != nil {
		logrus.WithError(err).Warn("Stats cache unavailable, computing summary")
	}
	if cached != nil {
		return cached, nil
	}

	summary, err := s.compute(ctx)
	if err != nil {
		return nil, err
	}

	if err := s.cache.SaveStats(ctx, summary); err != nil {
		logrus.WithError(err).Warn("Failed to cache stats")
	}
	return summary, nil
}

func (s *statsService) compute(ctx context.Context) (*models.Stats, error) {
	var summary models.Stats
	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() (err error) {
		summary.Admins, err = s.admins.Count(ctx)
		return err
	})
	g.Go(func() (err error) {
		summary.Users, err = s.users.Count(ctx)
		return err
	})
	g.Go(func() (err error) {
		summary.Records, err = s.activities.Count(ctx)
		return err
	})
	g.Go(func() (err error) {
		summary.TotalSeconds, err = s.activities.TotalDuration(ctx)
		return err
	})

	if err := g.Wait(); err != nil {
		logrus.WithError(err).Error("Failed to compute stats")
		return nil, err
	}

	logrus.WithFields(logrus.Fields{
		"admins":  summary.Admins,
		"users":   summary.Users,
		"records": summary.Records,
	}).Debug("Stats computed")
	return &summary, nil
}
