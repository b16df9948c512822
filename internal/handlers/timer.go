package handlers

import (
	"net/http"

	"github.com/alimgiray/timetrack/internal/services"
	"github.com/gin-gonic/gin"
)

type TimerHandler struct {
	timerService *services.TimerService
}

func NewTimerHandler(timerService *services.TimerService) *TimerHandler {
	return &TimerHandler{timerService: timerService}
}

type updateTimerRequest struct {
	StartTime string `json:"start_time"`
	EndTime   string `json:"end_time"`
}

// SaveTimer stores a finished timer
func (h *TimerHandler) SaveTimer(c *gin.Context) {
	var input services.SaveTimerInput
	if err := c.ShouldBindJSON(&input); err != nil {
		badRequest(c, "Invalid request body")
		return
	}

	id, err := h.timerService.SaveTimer(c.Request.Context(), input)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"id": id})
}

// GetTimer returns one timer with its project details
func (h *TimerHandler) GetTimer(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}

	timer, err := h.timerService.GetTimer(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	if timer == nil {
		respondNotFound(c, "Timer")
		return
	}

	c.JSON(http.StatusOK, timer)
}

// ListTimers returns one page of timers, most recent first
func (h *TimerHandler) ListTimers(c *gin.Context) {
	filter, ok := filterQuery(c)
	if !ok {
		return
	}
	page, ok := intQuery(c, "page", 1)
	if !ok {
		return
	}
	pageSize, ok := intQuery(c, "page_size", 0)
	if !ok {
		return
	}

	result, err := h.timerService.ListTimers(c.Request.Context(), page, pageSize, filter)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// UpdateTimer moves a timer's start and end
func (h *TimerHandler) UpdateTimer(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}

	var req updateTimerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Invalid request body")
		return
	}

	timer, err := h.timerService.UpdateTimer(c.Request.Context(), id, req.StartTime, req.EndTime)
	if err != nil {
		respondError(c, err)
		return
	}
	if timer == nil {
		respondNotFound(c, "Timer")
		return
	}

	c.JSON(http.StatusOK, timer)
}

// DeleteTimer removes a timer and echoes its id
func (h *TimerHandler) DeleteTimer(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}

	if err := h.timerService.DeleteTimer(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"id": id})
}
