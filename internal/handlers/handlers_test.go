package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"mime"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"github.com/alimgiray/timetrack/internal/repositories"
	"github.com/alimgiray/timetrack/internal/services"
	"github.com/alimgiray/timetrack/pkg/database"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, err := database.Open(filepath.Join(t.TempDir(), "timers.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	_, err = database.NewMigrator(db).Migrate(context.Background())
	require.NoError(t, err)

	projectRepo := repositories.NewProjectRepository(db)
	timerRepo := repositories.NewTimerRepository(db)
	projectService := services.NewProjectService(projectRepo)
	timerService := services.NewTimerService(timerRepo, projectRepo, 15)
	exportService := services.NewExportService(timerService, projectService)

	return NewRouter(&Handlers{
		Project:  NewProjectHandler(projectService),
		Timer:    NewTimerHandler(timerService),
		Export:   NewExportHandler(exportService),
		Health:   NewHealthHandler(db),
		NotFound: NewNotFoundHandler(),
	})
}

func do(t *testing.T, router *gin.Engine, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(data)
	} else {
		reader = bytes.NewReader(nil)
	}

	req, err := http.NewRequest(method, path, reader)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder, v interface{}) {
	t.Helper()
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), v))
}

type projectBody struct {
	ID         int64    `json:"id"`
	Name       string   `json:"name"`
	IsBillable bool     `json:"is_billable"`
	HourlyRate *float64 `json:"hourly_rate"`
}

type timerBody struct {
	ID           int64    `json:"id"`
	ProjectID    *int64   `json:"project_id"`
	StartTime    string   `json:"start_time"`
	EndTime      string   `json:"end_time"`
	Duration     int64    `json:"duration"`
	AmountEarned *float64 `json:"amount_earned"`
	ProjectName  *string  `json:"project_name"`
}

func TestProjectEndpoints(t *testing.T) {
	router := newTestRouter(t)

	w := do(t, router, "POST", "/api/projects", gin.H{"name": "Acme", "is_billable": true, "hourly_rate": 50})
	require.Equal(t, http.StatusCreated, w.Code)
	var created projectBody
	decode(t, w, &created)
	assert.Equal(t, "Acme", created.Name)

	w = do(t, router, "GET", "/api/projects", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var list []projectBody
	decode(t, w, &list)
	require.Len(t, list, 1)
	assert.Equal(t, created.ID, list[0].ID)

	w = do(t, router, "PUT", "/api/projects/1", gin.H{"name": "Acme Corp", "is_billable": false})
	require.Equal(t, http.StatusOK, w.Code)
	var updated projectBody
	decode(t, w, &updated)
	assert.Equal(t, "Acme Corp", updated.Name)
	assert.False(t, updated.IsBillable)

	w = do(t, router, "PUT", "/api/projects/99", gin.H{"name": "Ghost"})
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = do(t, router, "POST", "/api/projects", gin.H{"name": ""})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "Project name is required")

	w = do(t, router, "DELETE", "/api/projects/1", nil)
	assert.Equal(t, http.StatusNoContent, w.Code)

	w = do(t, router, "GET", "/api/projects/1", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = do(t, router, "GET", "/api/projects/abc", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestTimerEndpoints(t *testing.T) {
	router := newTestRouter(t)

	w := do(t, router, "POST", "/api/projects", gin.H{"name": "Acme", "is_billable": true, "hourly_rate": 50})
	require.Equal(t, http.StatusCreated, w.Code)
	var project projectBody
	decode(t, w, &project)

	w = do(t, router, "POST", "/api/timers", gin.H{
		"project_id":       project.ID,
		"start_time":       "2024-01-01T09:00:00.000Z",
		"end_time":         "2024-01-01T10:00:00.000Z",
		"duration":         3600,
		"task_description": "Kickoff",
		"amount_earned":    50,
	})
	require.Equal(t, http.StatusCreated, w.Code)
	var saved struct {
		ID int64 `json:"id"`
	}
	decode(t, w, &saved)
	assert.Positive(t, saved.ID)

	w = do(t, router, "GET", "/api/timers/1", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var timer timerBody
	decode(t, w, &timer)
	require.NotNil(t, timer.ProjectName)
	assert.Equal(t, "Acme", *timer.ProjectName)
	assert.Equal(t, 50.0, *timer.AmountEarned)

	w = do(t, router, "PUT", "/api/timers/1", gin.H{"start_time": "2024-01-01T00:00:00Z", "end_time": "2024-01-01T00:00:08Z"})
	require.Equal(t, http.StatusOK, w.Code)
	decode(t, w, &timer)
	assert.Equal(t, int64(8), timer.Duration)

	w = do(t, router, "PUT", "/api/timers/1", gin.H{"start_time": "2024-01-01T00:00:10Z", "end_time": "2024-01-01T00:00:00Z"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "End time must be after start time")

	w = do(t, router, "GET", "/api/timers?page=1&page_size=10&project_id=1", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var page struct {
		Rows       []timerBody `json:"rows"`
		Page       int         `json:"page"`
		PageSize   int         `json:"page_size"`
		Total      int         `json:"total"`
		TotalPages int         `json:"total_pages"`
	}
	decode(t, w, &page)
	assert.Len(t, page.Rows, 1)
	assert.Equal(t, 1, page.Total)
	assert.Equal(t, 10, page.PageSize)
	assert.Equal(t, 1, page.TotalPages)

	w = do(t, router, "GET", "/api/timers?start_date=2024-13-01", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = do(t, router, "GET", "/api/timers?page=two", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = do(t, router, "DELETE", "/api/timers/1", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"id":1}`, w.Body.String())

	w = do(t, router, "GET", "/api/timers/1", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestSaveTimerRejectsBadBody(t *testing.T) {
	router := newTestRouter(t)

	w := do(t, router, "POST", "/api/timers", gin.H{"start_time": "2024-01-01T10:00:00Z", "end_time": "2024-01-01T09:00:00Z"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	req, _ := http.NewRequest("POST", "/api/timers", strings.NewReader("{"))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestExportEndpoint(t *testing.T) {
	router := newTestRouter(t)

	w := do(t, router, "POST", "/api/timers", gin.H{
		"start_time":       "2024-03-15T14:30:00.000Z",
		"end_time":         "2024-03-15T15:30:00.000Z",
		"duration":         3600,
		"task_description": "Task 1",
	})
	require.Equal(t, http.StatusCreated, w.Code)

	w = do(t, router, "GET", "/api/timers/export", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "1", w.Header().Get(RecordCountHeader))
	assert.Contains(t, w.Header().Get("Content-Disposition"), "attachment; filename=all_projects_timers_")
	assert.True(t, strings.HasPrefix(w.Header().Get("Content-Type"), "text/csv"))
	assert.Contains(t, w.Body.String(), ",Task 1,15/03/2024,14:30:00,15/03/2024,15:30:00,1:00,,\n")

	w = do(t, router, "GET", "/api/timers/export?format=xlsx", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Header().Get("Content-Disposition"), ".xlsx")

	w = do(t, router, "GET", "/api/timers/export?format=pdf", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestExportEscapesFileName(t *testing.T) {
	router := newTestRouter(t)

	w := do(t, router, "POST", "/api/projects", gin.H{"name": "Café/Ops"})
	require.Equal(t, http.StatusCreated, w.Code)
	var project projectBody
	decode(t, w, &project)

	w = do(t, router, "GET", fmt.Sprintf("/api/timers/export?project_id=%d", project.ID), nil)
	require.Equal(t, http.StatusOK, w.Code)

	disposition := w.Header().Get("Content-Disposition")
	assert.True(t, strings.HasPrefix(disposition, "attachment; filename*=utf-8''Caf%C3%A9%2FOps_timers_"), disposition)

	mediaType, params, err := mime.ParseMediaType(disposition)
	require.NoError(t, err)
	assert.Equal(t, "attachment", mediaType)
	assert.True(t, strings.HasPrefix(params["filename"], "Café/Ops_timers_"))
}

func TestHealthMetricsAndNotFound(t *testing.T) {
	router := newTestRouter(t)

	w := do(t, router, "GET", "/health", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var health map[string]interface{}
	decode(t, w, &health)
	assert.Equal(t, "ok", health["status"])
	assert.Equal(t, float64(database.CurrentVersion()), health["schema_version"])

	do(t, router, "GET", "/api/projects", nil)
	w = do(t, router, "GET", "/metrics", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "timetrack_http_request_duration_seconds")

	w = do(t, router, "GET", "/nowhere", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Contains(t, w.Body.String(), "Route not found")
}
