package handlers

import (
	"net/http"

	"github.com/alimgiray/timetrack/internal/services"
	"github.com/gin-gonic/gin"
)

type ProjectHandler struct {
	projectService *services.ProjectService
}

func NewProjectHandler(projectService *services.ProjectService) *ProjectHandler {
	return &ProjectHandler{projectService: projectService}
}

type projectRequest struct {
	Name       string   `json:"name"`
	IsBillable bool     `json:"is_billable"`
	HourlyRate *float64 `json:"hourly_rate"`
}

// CreateProject handles project creation
func (h *ProjectHandler) CreateProject(c *gin.Context) {
	var req projectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Invalid request body")
		return
	}

	project, err := h.projectService.CreateProject(c.Request.Context(), req.Name, req.IsBillable, req.HourlyRate)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, project)
}

// GetProject returns one project
func (h *ProjectHandler) GetProject(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}

	project, err := h.projectService.GetProject(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	if project == nil {
		respondNotFound(c, "Project")
		return
	}

	c.JSON(http.StatusOK, project)
}

// ListProjects returns every project in creation order
func (h *ProjectHandler) ListProjects(c *gin.Context) {
	projects, err := h.projectService.ListProjects(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, projects)
}

// UpdateProject replaces a project's name and billing settings
func (h *ProjectHandler) UpdateProject(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}

	var req projectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Invalid request body")
		return
	}

	project, err := h.projectService.UpdateProject(c.Request.Context(), id, req.Name, req.IsBillable, req.HourlyRate)
	if err != nil {
		respondError(c, err)
		return
	}
	if project == nil {
		respondNotFound(c, "Project")
		return
	}

	c.JSON(http.StatusOK, project)
}

// DeleteProject removes a project. Its timers are kept.
func (h *ProjectHandler) DeleteProject(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}

	if err := h.projectService.DeleteProject(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}
