package auth

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"pctracer-svc/src/internal/admin"
	"pctracer-svc/src/internal/audit"
	"pctracer-svc/src/internal/config"
	"pctracer-svc/src/internal/metrics"
	"pctracer-svc/src/internal/middleware"
	"pctracer-svc/src/internal/models"
	"pctracer-svc/src/internal/web"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

const cookieName = "pctracer_session"

var adminID = primitive.NewObjectID()

type fakeAuthenticator struct{}

func (fakeAuthenticator) Authenticate(_ context.Context, email, password string) (*admin.Admin, error) {
	if email != "admin@admin" {
		return nil, models.ErrAdminNotFound
	}
	if password != "admin" {
		return nil, models.ErrWrongPassword
	}
	return &admin.Admin{ID: adminID, Name: "Admin", Email: email}, nil
}

type mockSessionService struct {
	mock.Mock
}

func (m *mockSessionService) Create(ctx context.Context, userID, userName string) (*models.Session, string, error) {
	args := m.Called(ctx, userID, userName)
	s, _ := args.Get(0).(*models.Session)
	return s, args.String(1), args.Error(2)
}

func (m *mockSessionService) Validate(ctx context.Context, token string) (*models.Session, error) {
	args := m.Called(ctx, token)
	s, _ := args.Get(0).(*models.Session)
	return s, args.Error(1)
}

func (m *mockSessionService) Destroy(ctx context.Context, token string) error {
	return m.Called(ctx, token).Error(0)
}

func setupRouter(sessions *mockSessionService, m *metrics.Metrics) *gin.Engine {
	gin.SetMode(gin.TestMode)

	cfg := &config.Configuration{
		App:      config.Application{Timeout: 5},
		Security: config.SecuritySettings{CookieName: cookieName},
	}
	h := NewHandler(cfg, fakeAuthenticator{}, sessions, audit.NoopPublisher{}, m)
	guard := middleware.NewAuthMiddleware(sessions, cookieName, time.Second)

	router := gin.New()
	web.Install(router)
	router.GET("/login", h.LoginPage)
	router.POST("/user/login", h.Login)
	router.GET("/logout", h.Logout)
	router.GET("/", guard.RequireLogin(), func(c *gin.Context) {
		c.String(http.StatusOK, "home")
	})
	return router
}

func postForm(router *gin.Engine, email, password string) *httptest.ResponseRecorder {
	form := url.Values{"email": {email}, "password": {password}}
	req := httptest.NewRequest(http.MethodPost, "/user/login", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestLogin_WrongPasswordKeepsVisitorOut(t *testing.T) {
	sessions := &mockSessionService{}
	m := metrics.New(prometheus.NewRegistry())
	router := setupRouter(sessions, m)

	w := postForm(router, "admin@admin", "nope")

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "wrong password")
	assert.Empty(t, w.Result().Cookies())
	assert.Equal(t, 1.0, testutil.ToFloat64(m.LoginAttempts.WithLabelValues(metrics.LoginWrongPassword)))

	home := httptest.NewRecorder()
	router.ServeHTTP(home, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusFound, home.Code)
	assert.Equal(t, "/login", home.Header().Get("Location"))

	sessions.AssertNotCalled(t, "Create", mock.Anything, mock.Anything, mock.Anything)
}

func TestLogin_UnknownEmail(t *testing.T) {
	router := setupRouter(&mockSessionService{}, nil)

	w := postForm(router, "ghost@x", "admin")

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "user not found")
	assert.Contains(t, w.Body.String(), `value="ghost@x"`)
}

func TestLogin_Success(t *testing.T) {
	session := &models.Session{SessionID: "sid", UserID: adminID.Hex(), UserName: "Admin", ExpiresAt: time.Now().Add(time.Hour)}
	sessions := &mockSessionService{}
	sessions.On("Create", mock.Anything, adminID.Hex(), "Admin").Return(session, "signed-token", nil)
	sessions.On("Validate", mock.Anything, "signed-token").Return(session, nil)
	router := setupRouter(sessions, nil)

	w := postForm(router, "admin@admin", "admin")

	require.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "/", w.Header().Get("Location"))
	cookies := w.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, cookieName, cookies[0].Name)
	assert.Equal(t, "signed-token", cookies[0].Value)
	assert.True(t, cookies[0].HttpOnly)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(cookies[0])
	home := httptest.NewRecorder()
	router.ServeHTTP(home, req)
	assert.Equal(t, http.StatusOK, home.Code)
}

func TestLogin_JSON(t *testing.T) {
	session := &models.Session{SessionID: "sid", ExpiresAt: time.Now().Add(time.Hour)}
	sessions := &mockSessionService{}
	sessions.On("Create", mock.Anything, adminID.Hex(), "Admin").Return(session, "signed-token", nil)
	router := setupRouter(sessions, nil)

	req := httptest.NewRequest(http.MethodPost, "/user/login", strings.NewReader(`{"email":"admin@admin","password":"admin"}`))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"success":true}`, w.Body.String())

	req = httptest.NewRequest(http.MethodPost, "/user/login", strings.NewReader(`{"email":"admin@admin","password":"x"}`))
	req.Header.Set("Content-Type", "application/json")
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.JSONEq(t, `{"error":"wrong password"}`, w.Body.String())
}

func TestLogout(t *testing.T) {
	sessions := &mockSessionService{}
	withDeadline := mock.MatchedBy(func(ctx context.Context) bool {
		_, ok := ctx.Deadline()
		return ok
	})
	sessions.On("Destroy", withDeadline, "signed-token").Return(nil)
	router := setupRouter(sessions, nil)

	req := httptest.NewRequest(http.MethodGet, "/logout", nil)
	req.AddCookie(&http.Cookie{Name: cookieName, Value: "signed-token"})
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "/login", w.Header().Get("Location"))
	cookies := w.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Empty(t, cookies[0].Value)
	sessions.AssertExpectations(t)
}

func TestLoginPage(t *testing.T) {
	router := setupRouter(&mockSessionService{}, nil)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/login", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `action="/user/login"`)
}
