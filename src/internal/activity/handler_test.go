package activity

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"pctracer-svc/src/internal/config"
	"pctracer-svc/src/internal/models"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeRepository struct {
	records []Record
	err     error
	queries []Query
}

func (f *fakeRepository) Find(_ context.Context, query Query) ([]Record, error) {
	f.queries = append(f.queries, query)
	if f.err != nil {
		return nil, f.err
	}
	result := make([]Record, 0)
	for _, r := range f.records {
		if query.User == "" || r.User == query.User {
			result = append(result, r)
		}
	}
	return result, nil
}

func (f *fakeRepository) ActiveUsersSince(context.Context, Timestamp) ([]string, error) {
	return nil, nil
}

func (f *fakeRepository) Count(context.Context) (int64, error) {
	return int64(len(f.records)), nil
}

func (f *fakeRepository) TotalDuration(context.Context) (float64, error) {
	return 0, nil
}

func setupRouter(repo Repository) *gin.Engine {
	gin.SetMode(gin.TestMode)

	cfg := &config.Configuration{App: config.Application{Timeout: 5}}
	h := NewHandler(cfg, NewActivityService(repo))

	router := gin.New()
	router.GET("/times", h.GetTimes)
	router.GET("/api/chart/pie-app-time", h.PieAppTime)
	router.GET("/api/chart/bar-app-usage", h.BarAppUsage)
	router.GET("/api/chart/timeline-activity", h.TimelineActivity)
	router.GET("/api/chart/donut-idle-ratio", h.DonutIdleRatio)
	router.GET("/api/chart/sankey-app-flow", h.SankeyAppFlow)
	router.GET("/api/chart/heatmap-hourly-activity", h.HeatmapHourlyActivity)
	router.GET("/api/chart/calendar-heatmap", h.CalendarHeatmap)
	router.GET("/api/chart/stackedbar-user-app", h.StackedBarUserApp)
	return router
}

func get(t *testing.T, router *gin.Engine, path string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func scenarioRepo(t *testing.T) *fakeRepository {
	records := wordExcelScenario(t)
	records = append(records, record(t, "b", "Inbox - Outlook", "2024-01-02 09:00:00", 30))
	return &fakeRepository{records: records}
}

func TestHandler_PieAppTime_FiltersByUser(t *testing.T) {
	repo := scenarioRepo(t)
	w := get(t, setupRouter(repo), "/api/chart/pie-app-time?user=a")

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `[{"_id":"Word","total":120},{"_id":"Excel","total":60}]`, w.Body.String())
	assert.Equal(t, "a", repo.queries[0].User)
}

func TestHandler_SankeyAppFlow(t *testing.T) {
	w := get(t, setupRouter(scenarioRepo(t)), "/api/chart/sankey-app-flow?user=a")

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `[{"from":"Word","to":"Excel","count":1}]`, w.Body.String())
}

func TestHandler_TimelineUsesOrderedQuery(t *testing.T) {
	repo := scenarioRepo(t)
	w := get(t, setupRouter(repo), "/api/chart/timeline-activity?user=b")

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `[{"window":"Inbox - Outlook","start_time":"2024-01-02 09:00:00","end_time":"2024-01-02 09:00:00"}]`, w.Body.String())
	assert.True(t, repo.queries[0].SortByStart)
}

func TestHandler_Times_ReturnsWireFormat(t *testing.T) {
	w := get(t, setupRouter(scenarioRepo(t)), "/times?user=b")

	assert.Equal(t, http.StatusOK, w.Code)
	var rows []map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &rows))
	require.Len(t, rows, 1)
	assert.Equal(t, "2024-01-02 09:00:00", rows[0]["start_time"])
	assert.Equal(t, 30.0, rows[0]["duration_seconds"])
}

func TestHandler_EmptyResultIsArray(t *testing.T) {
	w := get(t, setupRouter(&fakeRepository{}), "/api/chart/donut-idle-ratio?user=nobody")

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `[]`, w.Body.String())
}

func TestHandler_HeatmapAndCalendar(t *testing.T) {
	router := setupRouter(scenarioRepo(t))

	w := get(t, router, "/api/chart/heatmap-hourly-activity?user=a")
	assert.JSONEq(t, `[{"_id":{"hour":10,"day":2},"total":180}]`, w.Body.String())

	w = get(t, router, "/api/chart/calendar-heatmap")
	assert.JSONEq(t, `[{"_id":"2024-01-01","total":180},{"_id":"2024-01-02","total":30}]`, w.Body.String())
}

func TestHandler_StackedBar(t *testing.T) {
	w := get(t, setupRouter(scenarioRepo(t)), "/api/chart/stackedbar-user-app")

	assert.JSONEq(t, `[
		{"_id":{"user":"a","app":"Word"},"total":120},
		{"_id":{"user":"a","app":"Excel"},"total":60},
		{"_id":{"user":"b","app":"Outlook"},"total":30}
	]`, w.Body.String())
}

func TestHandler_RepositoryFailure(t *testing.T) {
	repo := &fakeRepository{err: errors.Join(models.ErrDatabaseQuery, errors.New("socket closed"))}
	w := get(t, setupRouter(repo), "/api/chart/bar-app-usage")

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.JSONEq(t, `{"error":"internal server error"}`, w.Body.String())
}
