package activity

import (
	"context"
	"net/http"
	"time"

	"pctracer-svc/src/internal/config"
	"pctracer-svc/src/internal/response"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

type Handler interface {
	GetTimes(c *gin.Context)
	PieAppTime(c *gin.Context)
	BarAppUsage(c *gin.Context)
	TimelineActivity(c *gin.Context)
	AreaAppFlow(c *gin.Context)
	HeatmapHourlyActivity(c *gin.Context)
	DonutIdleRatio(c *gin.Context)
	CalendarHeatmap(c *gin.Context)
	SankeyAppFlow(c *gin.Context)
	StackedBarUserApp(c *gin.Context)
	LineDailySession(c *gin.Context)
}

type handler struct {
	config  *config.Configuration
	service Service
}

func NewHandler(cfg *config.Configuration, service Service) Handler {
	return &handler{
		config:  cfg,
		service: service,
	}
}

// serve runs fetch with the optional ?user= filter and writes its result as JSON.
func serve[T any](h *handler, c *gin.Context, fetch func(ctx context.Context, user string) (T, error)) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), time.Duration(h.config.App.Timeout)*time.Second)
	defer cancel()

	user := c.Query("user")
	logrus.WithFields(logrus.Fields{
		"route": c.GetString("route_name"),
		"user":  user,
	}).Debug("Activity request received")

	data, err := fetch(ctx, user)
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, data)
}

func (h *handler) GetTimes(c *gin.Context) {
	serve(h, c, h.service.List)
}

func (h *handler) PieAppTime(c *gin.Context) {
	serve(h, c, h.service.AppTotals)
}

func (h *handler) BarAppUsage(c *gin.Context) {
	serve(h, c, h.service.AppUsage)
}

func (h *handler) TimelineActivity(c *gin.Context) {
	serve(h, c, h.service.Timeline)
}

func (h *handler) AreaAppFlow(c *gin.Context) {
	serve(h, c, h.service.AppFlow)
}

func (h *handler) HeatmapHourlyActivity(c *gin.Context) {
	serve(h, c, h.service.HourlyHeatmap)
}

func (h *handler) DonutIdleRatio(c *gin.Context) {
	serve(h, c, h.service.IdleRatio)
}

func (h *handler) CalendarHeatmap(c *gin.Context) {
	serve(h, c, h.service.CalendarHeatmap)
}

func (h *handler) SankeyAppFlow(c *gin.Context) {
	serve(h, c, h.service.Sankey)
}

func (h *handler) StackedBarUserApp(c *gin.Context) {
	serve(h, c, h.service.UserAppUsage)
}

func (h *handler) LineDailySession(c *gin.Context) {
	serve(h, c, h.service.DailySessions)
}
