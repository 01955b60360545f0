package response

import (
	"errors"
	"net/http"

	"pctracer-svc/src/internal/models"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

const internalErrorMessage = "internal server error"

// Status maps a service error onto the HTTP status it is reported with.
func Status(err error) int {
	switch {
	case errors.Is(err, models.ErrInvalidParams),
		errors.Is(err, models.ErrInvalidID),
		errors.Is(err, models.ErrDuplicateRecord):
		return http.StatusBadRequest
	case errors.Is(err, models.ErrAdminNotFound),
		errors.Is(err, models.ErrUserNotFound):
		return http.StatusNotFound
	case errors.Is(err, models.ErrSessionNotFound),
		errors.Is(err, models.ErrSessionExpired),
		errors.Is(err, models.ErrSessionInactive),
		errors.Is(err, models.ErrSessionInvalid):
		return http.StatusUnauthorized
	default:
		return http.StatusInternalServerError
	}
}

// Error writes {"error": ...}. Messages of 5xx errors are never echoed.
func Error(c *gin.Context, err error) {
	status := Status(err)

	fields := logrus.Fields{
		"status": status,
		"route":  c.GetString("route_name"),
	}
	if status >= http.StatusInternalServerError {
		logrus.WithError(err).WithFields(fields).Error("Request failed")
		c.JSON(status, gin.H{"error": internalErrorMessage})
		return
	}

	logrus.WithError(err).WithFields(fields).Warn("Request rejected")
	c.JSON(status, gin.H{"error": err.Error()})
}

func Success(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"success": true})
}
