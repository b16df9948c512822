package handlers

import (
	"mime"
	"net/http"
	"strconv"

	"github.com/alimgiray/timetrack/internal/services"
	"github.com/gin-gonic/gin"
)

const RecordCountHeader = "X-Record-Count"

type ExportHandler struct {
	exportService *services.ExportService
}

func NewExportHandler(exportService *services.ExportService) *ExportHandler {
	return &ExportHandler{exportService: exportService}
}

// ExportTimers streams the filtered timers as a downloadable file
func (h *ExportHandler) ExportTimers(c *gin.Context) {
	filter, ok := filterQuery(c)
	if !ok {
		return
	}

	format, err := services.ParseExportFormat(c.Query("format"))
	if err != nil {
		respondError(c, err)
		return
	}

	result, err := h.exportService.Export(c.Request.Context(), filter, format)
	if err != nil {
		respondError(c, err)
		return
	}

	c.Header("Content-Disposition", mime.FormatMediaType("attachment", map[string]string{"filename": result.FileName}))
	c.Header(RecordCountHeader, strconv.Itoa(result.RecordCount))
	c.Data(http.StatusOK, result.ContentType, result.Content)
}
