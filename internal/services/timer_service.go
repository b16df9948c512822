package services

import (
	"context"

	"github.com/alimgiray/timetrack/internal/billing"
	"github.com/alimgiray/timetrack/internal/models"
	"github.com/alimgiray/timetrack/internal/repositories"
	"github.com/alimgiray/timetrack/pkg/logger"
	"github.com/alimgiray/timetrack/pkg/metrics"
	"github.com/sirupsen/logrus"
)

const MaxPageSize = 100

// SaveTimerInput is a finished timer as reported by the live timer. Duration
// is taken as given; AmountEarned is computed from the project rate when nil.
type SaveTimerInput struct {
	ProjectID       *int64   `json:"project_id"`
	StartTime       string   `json:"start_time"`
	EndTime         string   `json:"end_time"`
	Duration        int64    `json:"duration"`
	TaskDescription string   `json:"task_description"`
	AmountEarned    *float64 `json:"amount_earned"`
}

type TimerService struct {
	timerRepo       *repositories.TimerRepository
	projectRepo     *repositories.ProjectRepository
	defaultPageSize int
}

func NewTimerService(timerRepo *repositories.TimerRepository, projectRepo *repositories.ProjectRepository, defaultPageSize int) *TimerService {
	if defaultPageSize <= 0 {
		defaultPageSize = 15
	}
	return &TimerService{
		timerRepo:       timerRepo,
		projectRepo:     projectRepo,
		defaultPageSize: defaultPageSize,
	}
}

// SaveTimer stores a finished timer and returns its id
func (s *TimerService) SaveTimer(ctx context.Context, input SaveTimerInput) (int64, error) {
	start, end, err := billing.ParseInterval(input.StartTime, input.EndTime)
	if err != nil {
		return 0, err
	}

	timer := &models.Timer{
		ProjectID:       input.ProjectID,
		StartTime:       start,
		EndTime:         end,
		Duration:        input.Duration,
		TaskDescription: input.TaskDescription,
		AmountEarned:    input.AmountEarned,
	}
	if err := timer.Validate(); err != nil {
		return 0, err
	}

	if timer.AmountEarned == nil && timer.ProjectID != nil {
		project, err := s.projectRepo.GetByID(ctx, *timer.ProjectID)
		if err != nil {
			return 0, err
		}
		timer.AmountEarned = billing.ComputeAmount(timer.Duration, project.BillingRate())
	}

	if err := s.timerRepo.Create(ctx, timer); err != nil {
		return 0, err
	}
	metrics.IncrementTimersRecorded()

	logger.WithFields(logrus.Fields{
		"timer_id": timer.ID,
		"duration": timer.Duration,
	}).Info("Timer saved")

	return timer.ID, nil
}

// GetTimer returns a timer joined with its project, nil when it does not exist
func (s *TimerService) GetTimer(ctx context.Context, id int64) (*models.Timer, error) {
	return s.timerRepo.GetByID(ctx, id)
}

// UpdateTimer moves a timer's bounds and recomputes its duration. The stored
// amount_earned is left as it was computed at creation.
func (s *TimerService) UpdateTimer(ctx context.Context, id int64, startTime, endTime string) (*models.Timer, error) {
	start, end, err := billing.ParseInterval(startTime, endTime)
	if err != nil {
		return nil, err
	}
	duration := billing.DurationBetween(start, end)

	updated, err := s.timerRepo.UpdateInterval(ctx, id, start, end, duration)
	if err != nil {
		return nil, err
	}
	if updated == nil {
		logger.WithField("timer_id", id).Warn("Update of unknown timer")
		return nil, nil
	}

	logger.WithFields(logrus.Fields{
		"timer_id": id,
		"duration": duration,
	}).Info("Timer updated")

	return updated, nil
}

// DeleteTimer removes a timer; unknown ids are ignored
func (s *TimerService) DeleteTimer(ctx context.Context, id int64) error {
	if err := s.timerRepo.Delete(ctx, id); err != nil {
		return err
	}
	logger.WithField("timer_id", id).Info("Timer deleted")
	return nil
}

// ListTimers returns the requested page together with the totals the caller
// needs to paginate. page is clamped into [1, TotalPages].
func (s *TimerService) ListTimers(ctx context.Context, page, pageSize int, filter models.TimerFilter) (*models.TimerPage, error) {
	if err := filter.Validate(); err != nil {
		return nil, err
	}

	if pageSize <= 0 {
		pageSize = s.defaultPageSize
	}
	if pageSize > MaxPageSize {
		pageSize = MaxPageSize
	}

	total, err := s.timerRepo.Count(ctx, filter)
	if err != nil {
		return nil, err
	}

	totalPages := TotalPages(total, pageSize)
	if page < 1 {
		page = 1
	}
	if page > totalPages {
		page = totalPages
	}

	rows, err := s.timerRepo.List(ctx, filter, page, pageSize)
	if err != nil {
		return nil, err
	}

	return &models.TimerPage{
		Rows:       rows,
		Page:       page,
		PageSize:   pageSize,
		Total:      total,
		TotalPages: totalPages,
	}, nil
}

// CountTimers counts timers matching filter
func (s *TimerService) CountTimers(ctx context.Context, filter models.TimerFilter) (int, error) {
	if err := filter.Validate(); err != nil {
		return 0, err
	}
	return s.timerRepo.Count(ctx, filter)
}

// ListTimersForExport returns every timer matching filter in list order
func (s *TimerService) ListTimersForExport(ctx context.Context, filter models.TimerFilter) ([]*models.Timer, error) {
	if err := filter.Validate(); err != nil {
		return nil, err
	}
	return s.timerRepo.ListForExport(ctx, filter)
}

// TotalPages is ceil(total / pageSize), at least 1
func TotalPages(total, pageSize int) int {
	if total <= 0 || pageSize <= 0 {
		return 1
	}
	return (total + pageSize - 1) / pageSize
}
