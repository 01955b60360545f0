package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"pctracer-svc/src/internal/config"
	"pctracer-svc/src/internal/models"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
)

const sessionKeyPattern = "session:%s"

type Service interface {
	GetSession(ctx context.Context, sessionID string) (*models.Session, error)
	CacheSession(ctx context.Context, session *models.Session) error
	UpdateSessionActivity(ctx context.Context, sessionID string) error
	DeleteSession(ctx context.Context, sessionID string) error
	SaveStats(ctx context.Context, stats *models.Stats) error
	GetStats(ctx context.Context) (*models.Stats, error)
}

type cacheService struct {
	client *redis.Client
	cfg    *config.CacheConfig
	now    func() time.Time
}

func NewCacheService(client *redis.Client, cfg *config.Configuration) Service {
	return &cacheService{
		client: client,
		cfg:    &cfg.Cache,
		now:    time.Now,
	}
}

func SessionKey(sessionID string) string {
	return fmt.Sprintf(sessionKeyPattern, sessionID)
}

// GetSession returns nil without error when the session is not cached.
func (c *cacheService) GetSession(ctx context.Context, sessionID string) (*models.Session, error) {
	key := SessionKey(sessionID)
	logrus.WithField("key", key).Debug("Getting session from cache")

	data, err := c.client.Get(ctx, key).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			logrus.WithField("key", key).Debug("Session not found in cache")
			return nil, nil
		}
		logrus.WithError(err).WithField("key", key).Error("Failed to get session from cache")
		return nil, models.ErrRedisGet
	}

	var session models.Session
	if err := json.Unmarshal([]byte(data), &session); err != nil {
		logrus.WithError(err).WithField("key", key).Error("Failed to unmarshal session from cache")
		return nil, models.ErrRedisGet
	}

	return &session, nil
}

func (c *cacheService) UpdateSessionActivity(ctx context.Context, sessionID string) error {
	session, err := c.GetSession(ctx, sessionID)
	if err != nil || session == nil {
		return err
	}

	session.LastActiveAt = c.now()
	return c.CacheSession(ctx, session)
}

func (c *cacheService) CacheSession(ctx context.Context, session *models.Session) error {
	key := SessionKey(session.SessionID)

	expiration := SessionExpiration(session, c.now(), time.Duration(c.cfg.SessionExpirationMinutes)*time.Minute)
	if expiration <= 0 {
		logrus.WithField("session_id", session.SessionID).Warn("Session already expired, not caching")
		return nil
	}

	data, err := json.Marshal(session)
	if err != nil {
		logrus.WithError(err).WithField("session_id", session.SessionID).Error("Failed to marshal session for cache")
		return models.ErrRedisSet
	}

	if err := c.client.Set(ctx, key, data, expiration).Err(); err != nil {
		logrus.WithError(err).WithField("session_id", session.SessionID).Error("Failed to cache session")
		return models.ErrRedisSet
	}

	logrus.WithField("session_id", session.SessionID).Debug("Session cached successfully")
	return nil
}

func (c *cacheService) DeleteSession(ctx context.Context, sessionID string) error {
	if err := c.client.Del(ctx, SessionKey(sessionID)).Err(); err != nil {
		logrus.WithError(err).WithField("session_id", sessionID).Error("Failed to delete session from cache")
		return models.ErrRedisDelete
	}
	return nil
}

// SessionExpiration is the sliding TTL counted from the last activity, capped by
// the absolute session expiry.
func SessionExpiration(session *models.Session, now time.Time, sliding time.Duration) time.Duration {
	expiration := session.LastActiveAt.Add(sliding).Sub(now)
	if untilExpiry := session.ExpiresAt.Sub(now); untilExpiry < expiration {
		expiration = untilExpiry
	}
	return expiration
}

func (c *cacheService) SaveStats(ctx context.Context, stats *models.Stats) error {
	data, err := json.Marshal(stats)
	if err != nil {
		logrus.WithError(err).Error("Failed to marshal stats for cache")
		return models.ErrRedisSet
	}

	expiration := time.Duration(c.cfg.StatsExpirationMinutes) * time.Minute
	if err := c.client.Set(ctx, c.cfg.StatsKey, data, expiration).Err(); err != nil {
		logrus.WithError(err).Error("Failed to cache stats")
		return models.ErrRedisSet
	}
	return nil
}

// GetStats returns nil without error on a cache miss.
func (c *cacheService) GetStats(ctx context.Context) (*models.Stats, error) {
	data, err := c.client.Get(ctx, c.cfg.StatsKey).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			logrus.Debug("Stats not found in cache")
			return nil, nil
		}
		logrus.WithError(err).Error("Failed to get stats from cache")
		return nil, models.ErrRedisGet
	}

	var stats models.Stats
	if err := json.Unmarshal([]byte(data), &stats); err != nil {
		logrus.WithError(err).Error("Failed to unmarshal stats from cache")
		return nil, models.ErrRedisGet
	}

	logrus.Debug("Stats retrieved from cache successfully")
	return &stats, nil
}
