package admin

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"pctracer-svc/src/internal/audit"
	"pctracer-svc/src/internal/config"
	"pctracer-svc/src/internal/models"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type mockPublisher struct {
	mock.Mock
}

func (m *mockPublisher) Publish(msg models.AuditMessage) {
	m.Called(msg.Action, msg.TargetID)
}

func setupRouter(repo Repository, publisher audit.Publisher) *gin.Engine {
	gin.SetMode(gin.TestMode)

	cfg := &config.Configuration{App: config.Application{Timeout: 5}}
	h := NewHandler(cfg, newTestService(repo), publisher)

	router := gin.New()
	router.GET("/api/admins", h.GetAdmins)
	router.POST("/api/admins", h.CreateAdmin)
	router.DELETE("/api/admins/:id", h.DeleteAdmin)
	router.PATCH("/api/admins/:id/password", h.UpdatePassword)
	return router
}

func send(router *gin.Engine, method, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestHandler_CreateAndList(t *testing.T) {
	repo := &memoryRepository{}
	publisher := &mockPublisher{}
	publisher.On("Publish", models.ActionAdminCreated, mock.Anything).Once()
	router := setupRouter(repo, publisher)

	w := send(router, http.MethodPost, "/api/admins", `{"name":"A","email":"a@x","password":"1234"}`)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"success":true}`, w.Body.String())

	w = send(router, http.MethodPost, "/api/admins", `{"name":"B","email":"a@x","password":"1234"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "already exists")

	w = send(router, http.MethodGet, "/api/admins", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"email":"a@x"`)
	assert.NotContains(t, w.Body.String(), "password")

	publisher.AssertExpectations(t)
}

func TestHandler_CreateMissingFields(t *testing.T) {
	router := setupRouter(&memoryRepository{}, audit.NoopPublisher{})

	w := send(router, http.MethodPost, "/api/admins", `{"name":"A"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "error")
}

func TestHandler_DeleteAdmin(t *testing.T) {
	existing := Admin{ID: primitive.NewObjectID(), Name: "A", Email: "a@x"}
	repo := &memoryRepository{admins: []Admin{existing}}
	router := setupRouter(repo, audit.NoopPublisher{})

	assert.Equal(t, http.StatusBadRequest, send(router, http.MethodDelete, "/api/admins/xyz", "").Code)
	assert.Equal(t, http.StatusNotFound, send(router, http.MethodDelete, "/api/admins/"+primitive.NewObjectID().Hex(), "").Code)
	assert.Len(t, repo.admins, 1)

	w := send(router, http.MethodDelete, "/api/admins/"+existing.ID.Hex(), "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, repo.admins)
}

func TestHandler_UpdatePassword(t *testing.T) {
	existing := Admin{ID: primitive.NewObjectID(), Name: "A", Email: "a@x", Password: "old"}
	repo := &memoryRepository{admins: []Admin{existing}}
	router := setupRouter(repo, audit.NoopPublisher{})
	path := "/api/admins/" + existing.ID.Hex() + "/password"

	w := send(router, http.MethodPatch, path, `{"password":"123"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = send(router, http.MethodPatch, "/api/admins/"+primitive.NewObjectID().Hex()+"/password", `{"password":"1234"}`)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = send(router, http.MethodPatch, path, `{"password":"1234"}`)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.NotEqual(t, "old", repo.admins[0].Password)
}

func TestHandler_PasswordTooLong(t *testing.T) {
	existing := Admin{ID: primitive.NewObjectID(), Name: "A", Email: "a@x", Password: "old"}
	repo := &memoryRepository{admins: []Admin{existing}}
	router := setupRouter(repo, audit.NoopPublisher{})
	long := strings.Repeat("x", 73)

	w := send(router, http.MethodPatch, "/api/admins/"+existing.ID.Hex()+"/password", `{"password":"`+long+`"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "72 bytes")

	w = send(router, http.MethodPost, "/api/admins", `{"name":"B","email":"b@x","password":"`+long+`"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Len(t, repo.admins, 1)
}
