package admin

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"pctracer-svc/src/internal/audit"
	"pctracer-svc/src/internal/config"
	"pctracer-svc/src/internal/models"
	"pctracer-svc/src/internal/response"

	"github.com/gin-gonic/gin"
)

type Handler interface {
	GetAdmins(c *gin.Context)
	CreateAdmin(c *gin.Context)
	DeleteAdmin(c *gin.Context)
	UpdatePassword(c *gin.Context)
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

func (h *handler) GetAdmins(c *gin.Context) {
	ctx, cancel := h.requestContext(c)
	defer cancel()

	admins, err := h.service.List(ctx)
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, admins)
}

func (h *handler) CreateAdmin(c *gin.Context) {
	ctx, cancel := h.requestContext(c)
	defer cancel()

	var req CreateRequest
	if err := c.ShouldBind(&req); err != nil {
		response.Error(c, fmt.Errorf("%w: %v", models.ErrInvalidParams, err))
		return
	}

	admin, err := h.service.Create(ctx, req)
	if err != nil {
		response.Error(c, err)
		return
	}

	h.publisher.Publish(audit.FromRequest(c, models.ActionAdminCreated, admin.ID.Hex(), map[string]string{
		"email": admin.Email,
	}))
	response.Success(c)
}

func (h *handler) DeleteAdmin(c *gin.Context) {
	ctx, cancel := h.requestContext(c)
	defer cancel()

	id := c.Param("id")
	if err := h.service.Delete(ctx, id); err != nil {
		response.Error(c, err)
		return
	}

	h.publisher.Publish(audit.FromRequest(c, models.ActionAdminDeleted, id, nil))
	response.Success(c)
}

func (h *handler) UpdatePassword(c *gin.Context) {
	ctx, cancel := h.requestContext(c)
	defer cancel()

	var req PasswordRequest
	if err := c.ShouldBind(&req); err != nil {
		response.Error(c, fmt.Errorf("%w: %v", models.ErrInvalidParams, err))
		return
	}

	id := c.Param("id")
	if err := h.service.UpdatePassword(ctx, id, req.Password); err != nil {
		response.Error(c, err)
		return
	}

	h.publisher.Publish(audit.FromRequest(c, models.ActionAdminPassword, id, nil))
	response.Success(c)
}
