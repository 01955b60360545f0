package stats

import (
	"context"
	"net/http"
	"time"

	"pctracer-svc/src/internal/config"
	"pctracer-svc/src/internal/response"

	"github.com/gin-gonic/gin"
)

type Handler interface {
	GetStats(c *gin.Context)
}

type handler struct {
	config  *config.Configuration
	service Service
}

func NewHandler(cfg *config.Configuration, service Service) Handler {
	return &handler{config: cfg, service: service}
}

func (h *handler) GetStats(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), time.Duration(h.config.App.Timeout)*time.Second)
	defer cancel()

	summary, err := h.service.Summary(ctx)
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, summary)
}
