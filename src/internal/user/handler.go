package user

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"pctracer-svc/src/internal/audit"
	"pctracer-svc/src/internal/config"
	"pctracer-svc/src/internal/models"
	"pctracer-svc/src/internal/response"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

type Handler interface {
	GetUsers(c *gin.Context)
	GetExistingUsers(c *gin.Context)
	GetActiveUsers(c *gin.Context)
	DeleteUser(c *gin.Context)
}

type handler struct {
	config    *config.Configuration
	service   Service
	publisher audit.Publisher
}

func NewHandler(cfg *config.Configuration, service Service, publisher audit.Publisher) Handler {
	return &handler{
		config:    cfg,
		service:   service,
		publisher: publisher,
	}
}

func (h *handler) requestContext(c *gin.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(c.Request.Context(), time.Duration(h.config.App.Timeout)*time.Second)
}

func (h *handler) GetUsers(c *gin.Context) {
	ctx, cancel := h.requestContext(c)
	defer cancel()

	users, err := h.service.ListNames(ctx)
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, users)
}

func (h *handler) GetExistingUsers(c *gin.Context) {
	ctx, cancel := h.requestContext(c)
	defer cancel()

	users, err := h.service.ListExisting(ctx)
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, users)
}

func (h *handler) GetActiveUsers(c *gin.Context) {
	ctx, cancel := h.requestContext(c)
	defer cancel()

	days, err := strconv.Atoi(c.Query("days"))
	if err != nil {
		logrus.WithField("days", c.Query("days")).Warn("Invalid days parameter")
		response.Error(c, fmt.Errorf("%w: days must be a whole number", models.ErrInvalidParams))
		return
	}

	users, err := h.service.ReconcileActive(ctx, days)
	if err != nil {
		response.Error(c, err)
		return
	}

	h.publisher.Publish(audit.FromRequest(c, models.ActionUsersReconciled, "", map[string]string{
		"days": strconv.Itoa(days),
	}))

	c.JSON(http.StatusOK, users)
}

func (h *handler) DeleteUser(c *gin.Context) {
	ctx, cancel := h.requestContext(c)
	defer cancel()

	id := c.Param("id")
	if err := h.service.Delete(ctx, id); err != nil {
		response.Error(c, err)
		return
	}

	h.publisher.Publish(audit.FromRequest(c, models.ActionUserDeleted, id, nil))
	response.Success(c)
}
