package services

import (
	"context"
	"strings"

	"github.com/alimgiray/timetrack/internal/models"
	"github.com/alimgiray/timetrack/internal/repositories"
	"github.com/alimgiray/timetrack/pkg/logger"
	"github.com/sirupsen/logrus"
)

type ProjectService struct {
	projectRepo *repositories.ProjectRepository
}

func NewProjectService(projectRepo *repositories.ProjectRepository) *ProjectService {
	return &ProjectService{
		projectRepo: projectRepo,
	}
}

// CreateProject creates a new project
func (s *ProjectService) CreateProject(ctx context.Context, name string, isBillable bool, hourlyRate *float64) (*models.Project, error) {
	project := &models.Project{
		Name:       strings.TrimSpace(name),
		IsBillable: isBillable,
		HourlyRate: hourlyRate,
	}
	if err := project.Validate(); err != nil {
		return nil, err
	}

	if err := s.projectRepo.Create(ctx, project); err != nil {
		return nil, err
	}

	logger.WithFields(logrus.Fields{
		"project_id":  project.ID,
		"is_billable": project.IsBillable,
	}).Info("Project created")

	return project, nil
}

// GetProject retrieves a project, nil when it does not exist
func (s *ProjectService) GetProject(ctx context.Context, id int64) (*models.Project, error) {
	return s.projectRepo.GetByID(ctx, id)
}

// ListProjects returns every project in insertion order
func (s *ProjectService) ListProjects(ctx context.Context) ([]*models.Project, error) {
	return s.projectRepo.GetAll(ctx)
}

// UpdateProject replaces name and billing settings and returns the stored
// row. A nil project with a nil error means the id does not exist.
func (s *ProjectService) UpdateProject(ctx context.Context, id int64, name string, isBillable bool, hourlyRate *float64) (*models.Project, error) {
	project := &models.Project{
		ID:         id,
		Name:       strings.TrimSpace(name),
		IsBillable: isBillable,
		HourlyRate: hourlyRate,
	}
	if err := project.Validate(); err != nil {
		return nil, err
	}

	updated, err := s.projectRepo.Update(ctx, project)
	if err != nil {
		return nil, err
	}

	if updated == nil {
		logger.WithField("project_id", id).Warn("Update of unknown project")
		return nil, nil
	}

	logger.WithField("project_id", id).Info("Project updated")
	return updated, nil
}

// DeleteProject removes a project; its timers keep their project_id
func (s *ProjectService) DeleteProject(ctx context.Context, id int64) error {
	if err := s.projectRepo.Delete(ctx, id); err != nil {
		return err
	}
	logger.WithField("project_id", id).Info("Project deleted")
	return nil
}
