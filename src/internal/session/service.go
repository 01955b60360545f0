package session

import (
	"context"
	"errors"
	"time"

	"pctracer-svc/src/internal/cache"
	"pctracer-svc/src/internal/models"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

type Service interface {
	Create(ctx context.Context, userID, userName string) (*models.Session, string, error)
	Validate(ctx context.Context, token string) (*models.Session, error)
	Destroy(ctx context.Context, token string) error
}

type sessionService struct {
	repository   Repository
	cacheService cache.Service
	secret       string
	ttl          time.Duration
	now          func() time.Time
}

func NewSessionService(repository Repository, cacheService cache.Service, secret string, ttl time.Duration) Service {
	return &sessionService{
		repository:   repository,
		cacheService: cacheService,
		secret:       secret,
		ttl:          ttl,
		now:          time.Now,
	}
}

// Create persists a new session and returns the signed cookie value for it.
func (s *sessionService) Create(ctx context.Context, userID, userName string) (*models.Session, string, error) {
	now := s.now()
	session := &models.Session{
		SessionID:    uuid.NewString(),
		UserID:       userID,
		UserName:     userName,
		IsActive:     true,
		CreatedAt:    now,
		ExpiresAt:    now.Add(s.ttl),
		LastActiveAt: now,
	}

	token, err := SignToken(s.secret, session)
	if err != nil {
		return nil, "", err
	}

	if err := s.repository.Create(ctx, session); err != nil {
		return nil, "", err
	}

	if err := s.cacheService.CacheSession(ctx, session); err != nil {
		logrus.WithError(err).WithField("session_id", session.SessionID).Warn("Session not cached, falling back to database")
	}

	logrus.WithFields(logrus.Fields{
		"session_id": session.SessionID,
		"user_id":    userID,
	}).Info("Session created")

	return session, token, nil
}

// Validate checks the cookie, then the session in Redis first and MongoDB as fallback.
func (s *sessionService) Validate(ctx context.Context, token string) (*models.Session, error) {
	if token == "" {
		return nil, models.ErrSessionNotFound
	}

	claims, err := ParseToken(s.secret, token)
	if err != nil {
		return nil, err
	}

	now := s.now()

	session, err := s.cacheService.GetSession(ctx, claims.SessionID)
	if err != nil {
		logrus.WithError(err).WithField("session_id", claims.SessionID).Warn("Session cache unavailable")
	}
	if session != nil && session.UserID == claims.UserID && session.Valid(now) {
		if err := s.cacheService.UpdateSessionActivity(ctx, session.SessionID); err != nil {
			logrus.WithError(err).WithField("session_id", session.SessionID).Warn("Failed to refresh cached session")
		}
		_ = s.repository.UpdateActivity(ctx, session.SessionID, now)
		return session, nil
	}

	session, err = s.repository.GetByID(ctx, claims.SessionID)
	if err != nil {
		return nil, err
	}

	if session.UserID != claims.UserID {
		logrus.WithField("session_id", claims.SessionID).Warn("Session does not belong to token subject")
		return nil, models.ErrSessionInvalid
	}

	if !session.IsActive || session.LogoutAt != nil {
		logrus.WithField("session_id", claims.SessionID).Debug("Session is not active")
		return nil, models.ErrSessionInactive
	}

	if !now.Before(session.ExpiresAt) {
		logrus.WithField("session_id", claims.SessionID).Debug("Session has expired")
		return nil, models.ErrSessionExpired
	}

	session.LastActiveAt = now
	_ = s.repository.UpdateActivity(ctx, session.SessionID, now)
	if err := s.cacheService.CacheSession(ctx, session); err != nil {
		logrus.WithError(err).WithField("session_id", session.SessionID).Warn("Failed to cache session")
	}

	logrus.WithField("session_id", session.SessionID).Debug("Session validated from MongoDB")
	return session, nil
}

// Destroy ends the session behind token. Unknown or tampered tokens are ignored.
func (s *sessionService) Destroy(ctx context.Context, token string) error {
	claims, err := ParseToken(s.secret, token)
	if err != nil {
		if errors.Is(err, models.ErrSessionExpired) || errors.Is(err, models.ErrSessionInvalid) {
			return nil
		}
		return err
	}

	if err := s.repository.Deactivate(ctx, claims.SessionID, s.now()); err != nil {
		return err
	}

	if err := s.cacheService.DeleteSession(ctx, claims.SessionID); err != nil {
		logrus.WithError(err).WithField("session_id", claims.SessionID).Warn("Failed to evict session from cache")
	}

	logrus.WithFields(logrus.Fields{
		"session_id": claims.SessionID,
		"user_id":    claims.UserID,
	}).Info("Session destroyed")
	return nil
}
