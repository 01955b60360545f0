package auth

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"pctracer-svc/src/internal/admin"
	"pctracer-svc/src/internal/audit"
	"pctracer-svc/src/internal/config"
	"pctracer-svc/src/internal/metrics"
	"pctracer-svc/src/internal/models"
	"pctracer-svc/src/internal/session"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

const (
	msgUserNotFound  = "user not found"
	msgWrongPassword = "wrong password"
	msgServerError   = "server error"
)

// Authenticator checks admin credentials; admin.Service satisfies it.
type Authenticator interface {
	Authenticate(ctx context.Context, email, password string) (*admin.Admin, error)
}

type Handler interface {
	LoginPage(c *gin.Context)
	Login(c *gin.Context)
	Logout(c *gin.Context)
}

type handler struct {
	config    *config.Configuration
	admins    Authenticator
	sessions  session.Service
	publisher audit.Publisher
	metrics   *metrics.Metrics
}

type loginRequest struct {
	Email    string `form:"email" json:"email"`
	Password string `form:"password" json:"password"`
}

type loginPage struct {
	Title    string
	UserName string
	Error    string
	Email    string
}

func NewHandler(cfg *config.Configuration, admins Authenticator, sessions session.Service, publisher audit.Publisher, m *metrics.Metrics) Handler {
	return &handler{
		config:    cfg,
		admins:    admins,
		sessions:  sessions,
		publisher: publisher,
		metrics:   m,
	}
}

func (h *handler) LoginPage(c *gin.Context) {
	c.HTML(http.StatusOK, "login.html", loginPage{Title: "Login"})
}

// Login accepts a form post from the login page or a JSON body from API clients.
// Both get the session cookie; the page is redirected to / while JSON callers
// receive {"success":true}.
func (h *handler) Login(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), time.Duration(h.config.App.Timeout)*time.Second)
	defer cancel()

	var req loginRequest
	if err := c.ShouldBind(&req); err != nil {
		h.fail(c, http.StatusBadRequest, req.Email, "email and password are required")
		return
	}
	req.Email = strings.TrimSpace(req.Email)

	a, err := h.admins.Authenticate(ctx, req.Email, req.Password)
	if err != nil {
		h.rejectLogin(c, req.Email, err)
		return
	}

	s, token, err := h.sessions.Create(ctx, a.ID.Hex(), a.Name)
	if err != nil {
		logrus.WithError(err).WithField("email", req.Email).Error("Failed to create session")
		h.metrics.ObserveLogin(metrics.LoginError)
		h.fail(c, http.StatusInternalServerError, req.Email, msgServerError)
		return
	}

	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(h.config.Security.CookieName, token, int(time.Until(s.ExpiresAt).Seconds()), "/", "", h.config.Security.SecureCookie, true)

	h.metrics.ObserveLogin(metrics.LoginSuccess)
	h.publisher.Publish(models.AuditMessage{
		Action:    models.ActionLoginSucceeded,
		ActorID:   a.ID.Hex(),
		ActorName: a.Name,
		IPAddress: c.ClientIP(),
		UserAgent: c.Request.UserAgent(),
	})

	logrus.WithFields(logrus.Fields{
		"admin_id":   a.ID.Hex(),
		"session_id": s.SessionID,
	}).Info("Admin logged in")

	if wantsJSON(c) {
		c.JSON(http.StatusOK, gin.H{"success": true})
		return
	}
	c.Redirect(http.StatusFound, "/")
}

func (h *handler) rejectLogin(c *gin.Context, email string, err error) {
	var result, msg string
	status := http.StatusUnauthorized

	switch {
	case errors.Is(err, models.ErrAdminNotFound):
		result, msg = metrics.LoginUnknownEmail, msgUserNotFound
	case errors.Is(err, models.ErrWrongPassword):
		result, msg = metrics.LoginWrongPassword, msgWrongPassword
	default:
		logrus.WithError(err).WithField("email", email).Error("Login failed")
		result, msg, status = metrics.LoginError, msgServerError, http.StatusInternalServerError
	}

	h.metrics.ObserveLogin(result)
	h.publisher.Publish(models.AuditMessage{
		Action:    models.ActionLoginFailed,
		IPAddress: c.ClientIP(),
		UserAgent: c.Request.UserAgent(),
		Metadata:  map[string]string{"email": email, "reason": result},
	})

	logrus.WithFields(logrus.Fields{
		"email":  email,
		"reason": result,
	}).Warn("Login rejected")

	h.fail(c, status, email, msg)
}

func (h *handler) fail(c *gin.Context, status int, email, msg string) {
	if wantsJSON(c) {
		c.JSON(status, gin.H{"error": msg})
		return
	}
	c.HTML(status, "login.html", loginPage{Title: "Login", Error: msg, Email: email})
}

func (h *handler) Logout(c *gin.Context) {
	token, _ := c.Cookie(h.config.Security.CookieName)
	if token != "" {
		ctx, cancel := context.WithTimeout(c.Request.Context(), time.Duration(h.config.App.Timeout)*time.Second)
		defer cancel()

		if err := h.sessions.Destroy(ctx, token); err != nil {
			logrus.WithError(err).Error("Failed to destroy session")
		}
	}

	h.publisher.Publish(audit.FromRequest(c, models.ActionLogout, "", nil))

	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(h.config.Security.CookieName, "", -1, "/", "", h.config.Security.SecureCookie, true)
	c.Redirect(http.StatusFound, "/login")
}

func wantsJSON(c *gin.Context) bool {
	return c.ContentType() == gin.MIMEJSON
}
