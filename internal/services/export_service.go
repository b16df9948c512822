package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/alimgiray/timetrack/internal/export"
	"github.com/alimgiray/timetrack/internal/models"
	"github.com/alimgiray/timetrack/pkg/logger"
	"github.com/alimgiray/timetrack/pkg/metrics"
	"github.com/sirupsen/logrus"
)

type ExportFormat string

const (
	ExportFormatCSV  ExportFormat = "csv"
	ExportFormatXLSX ExportFormat = "xlsx"
)

var ErrUnknownExportFormat = &models.ValidationError{Field: "format", Message: "Export format must be csv or xlsx"}

// ParseExportFormat defaults to CSV for an empty value
func ParseExportFormat(value string) (ExportFormat, error) {
	switch ExportFormat(strings.ToLower(strings.TrimSpace(value))) {
	case "", ExportFormatCSV:
		return ExportFormatCSV, nil
	case ExportFormatXLSX:
		return ExportFormatXLSX, nil
	default:
		return "", ErrUnknownExportFormat
	}
}

func (f ExportFormat) ContentType() string {
	if f == ExportFormatXLSX {
		return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	}
	return "text/csv; charset=utf-8"
}

// ExportResult is a rendered export plus its suggested file name
type ExportResult struct {
	FileName    string
	ContentType string
	Content     []byte
	RecordCount int
}

type ExportService struct {
	timerService   *TimerService
	projectService *ProjectService
	now            func() time.Time
}

func NewExportService(timerService *TimerService, projectService *ProjectService) *ExportService {
	return &ExportService{
		timerService:   timerService,
		projectService: projectService,
		now:            time.Now,
	}
}

// Export renders every timer matching filter. The file name carries the
// project's name when the filter names an existing project, and project_<id>
// when the project has been deleted.
func (s *ExportService) Export(ctx context.Context, filter models.TimerFilter, format ExportFormat) (*ExportResult, error) {
	timers, err := s.timerService.ListTimersForExport(ctx, filter)
	if err != nil {
		return nil, err
	}

	projectName := ""
	if filter.ProjectID != nil {
		project, err := s.projectService.GetProject(ctx, *filter.ProjectID)
		if err != nil {
			return nil, err
		}
		if project != nil {
			projectName = project.Name
		} else {
			projectName = fmt.Sprintf("project_%d", *filter.ProjectID)
		}
	}

	var content []byte
	switch format {
	case ExportFormatXLSX:
		if content, err = export.GenerateWorkbook(timers); err != nil {
			return nil, err
		}
	default:
		format = ExportFormatCSV
		content = []byte(export.GenerateDelimitedText(timers))
	}

	result := &ExportResult{
		FileName:    export.FileName(projectName, string(format), s.now()),
		ContentType: format.ContentType(),
		Content:     content,
		RecordCount: len(timers),
	}

	metrics.IncrementExports(string(format))
	logger.WithFields(logrus.Fields{
		"format":  format,
		"records": result.RecordCount,
		"file":    result.FileName,
	}).Info("Timers exported")

	return result, nil
}
