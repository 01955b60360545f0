package middleware

import (
	"context"
	"net/http"
	"time"

	"pctracer-svc/src/internal/models"
	"pctracer-svc/src/internal/response"
	"pctracer-svc/src/internal/session"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// AuthMiddleware gates routes behind the session cookie.
type AuthMiddleware struct {
	sessionService session.Service
	cookieName     string
	timeout        time.Duration
}

func NewAuthMiddleware(sessionService session.Service, cookieName string, timeout time.Duration) *AuthMiddleware {
	return &AuthMiddleware{
		sessionService: sessionService,
		cookieName:     cookieName,
		timeout:        timeout,
	}
}

// RequireLogin redirects anonymous visitors of HTML pages to /login.
func (m *AuthMiddleware) RequireLogin() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !m.authenticate(c) {
			c.Redirect(http.StatusFound, "/login")
			c.Abort()
			return
		}
		c.Next()
	}
}

// RequireSession answers 401 for API calls without a valid session.
func (m *AuthMiddleware) RequireSession() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !m.authenticate(c) {
			c.JSON(http.StatusUnauthorized, gin.H{
				"error": "login required",
			})
			c.Abort()
			return
		}
		c.Next()
	}
}

func (m *AuthMiddleware) authenticate(c *gin.Context) bool {
	token, err := c.Cookie(m.cookieName)
	if err != nil || token == "" {
		logrus.WithField("path", c.Request.URL.Path).Debug("No session cookie")
		return false
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), m.timeout)
	defer cancel()

	s, err := m.sessionService.Validate(ctx, token)
	if err != nil {
		if response.Status(err) == http.StatusUnauthorized {
			logrus.WithError(err).WithField("path", c.Request.URL.Path).Debug("Session rejected")
		} else {
			logrus.WithError(err).WithField("path", c.Request.URL.Path).Error("Session validation failed")
		}
		return false
	}

	c.Set("user_id", s.UserID)
	c.Set("user_name", s.UserName)
	c.Set("session_id", s.SessionID)
	return true
}

// CurrentSession reports the session attached by the guards, if any.
func CurrentSession(c *gin.Context) (*models.Session, bool) {
	id := c.GetString("session_id")
	if id == "" {
		return nil, false
	}
	return &models.Session{
		SessionID: id,
		UserID:    c.GetString("user_id"),
		UserName:  c.GetString("user_name"),
	}, true
}
