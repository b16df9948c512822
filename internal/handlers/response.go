package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/alimgiray/timetrack/internal/middleware"
	"github.com/alimgiray/timetrack/internal/models"
	"github.com/alimgiray/timetrack/pkg/logger"
	"github.com/gin-gonic/gin"
)

// respondError maps validation failures to 400 and everything else to 500
func respondError(c *gin.Context, err error) {
	var validationErr *models.ValidationError
	if errors.As(err, &validationErr) {
		c.JSON(http.StatusBadRequest, gin.H{"error": validationErr.Message})
		return
	}

	logger.WithField("request_id", middleware.GetRequestID(c)).
		WithError(err).
		Error("Request failed")
	c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
}

func respondNotFound(c *gin.Context, what string) {
	c.JSON(http.StatusNotFound, gin.H{"error": what + " not found"})
}

func badRequest(c *gin.Context, message string) {
	c.JSON(http.StatusBadRequest, gin.H{"error": message})
}

// idParam reads the ":id" path segment
func idParam(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		badRequest(c, "Invalid id")
		return 0, false
	}
	return id, true
}

// filterQuery reads project_id, start_date and end_date
func filterQuery(c *gin.Context) (models.TimerFilter, bool) {
	filter := models.TimerFilter{
		StartDate: c.Query("start_date"),
		EndDate:   c.Query("end_date"),
	}

	if raw := c.Query("project_id"); raw != "" {
		projectID, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			badRequest(c, "Invalid project_id")
			return filter, false
		}
		filter.ProjectID = &projectID
	}

	return filter, true
}

// intQuery returns fallback for an absent value
func intQuery(c *gin.Context, key string, fallback int) (int, bool) {
	raw := c.Query(key)
	if raw == "" {
		return fallback, true
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		badRequest(c, "Invalid "+key)
		return 0, false
	}
	return value, true
}
