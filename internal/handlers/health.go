package handlers

import (
	"database/sql"
	"net/http"
	"time"

	"github.com/alimgiray/timetrack/pkg/database"
	"github.com/gin-gonic/gin"
)

type HealthHandler struct {
	db *sql.DB
}

func NewHealthHandler(db *sql.DB) *HealthHandler {
	return &HealthHandler{db: db}
}

// HealthCheck reports whether the store is reachable and its schema version
func (h *HealthHandler) HealthCheck(c *gin.Context) {
	ctx := c.Request.Context()

	if err := h.db.PingContext(ctx); err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"status": "unavailable",
			"error":  err.Error(),
		})
		return
	}

	version, err := database.NewMigrator(h.db).Version(ctx)
	if err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"status": "unavailable",
			"error":  err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status":         "ok",
		"schema_version": version,
		"timestamp":      time.Now().UTC().Format(time.RFC3339),
	})
}
