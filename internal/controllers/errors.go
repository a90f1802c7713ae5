package controllers

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"rail_announcer/internal/announcement"
	"rail_announcer/internal/placeholder"
	"rail_announcer/internal/services"
	"rail_announcer/internal/store"
)

// respondError maps domain errors onto status codes and writes {"error": ...}.
func respondError(c *gin.Context, op string, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, store.ErrNotFound):
		status = http.StatusNotFound
	case errors.Is(err, store.ErrDuplicate), errors.Is(err, services.ErrNoTranslations):
		status = http.StatusConflict
	case errors.Is(err, placeholder.ErrMalformedTemplate),
		errors.Is(err, services.ErrInvalidTemplates),
		errors.Is(err, announcement.ErrUnknownLanguage):
		status = http.StatusBadRequest
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		status = http.StatusServiceUnavailable
	}

	entry := logrus.WithError(err).WithFields(logrus.Fields{
		"op":         op,
		"status":     status,
		"request_id": c.GetString("request_id"),
	})
	if status >= http.StatusInternalServerError {
		entry.Error("Request failed")
	} else {
		entry.Warn("Request rejected")
	}
	c.JSON(status, gin.H{"error": err.Error()})
}

// routeID parses the :id path parameter.
func routeID(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid route ID"})
		return 0, false
	}
	return uint(id), true
}
