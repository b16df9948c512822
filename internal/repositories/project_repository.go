package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/alimgiray/timetrack/internal/models"
	"github.com/alimgiray/timetrack/pkg/metrics"
)

type ProjectRepository struct {
	db *sql.DB
}

func NewProjectRepository(db *sql.DB) *ProjectRepository {
	return &ProjectRepository{
		db: db,
	}
}

// Create inserts a project and sets its generated ID
func (r *ProjectRepository) Create(ctx context.Context, project *models.Project) error {
	defer metrics.ObserveQuery("create", "projects", time.Now())

	query := `
		INSERT INTO projects (name, is_billable, hourly_rate)
		VALUES (?, ?, ?)
	`

	result, err := r.db.ExecContext(ctx, query,
		project.Name,
		project.IsBillable,
		nullFloat(project.HourlyRate),
	)
	if err != nil {
		return fmt.Errorf("error creating project: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("error reading project id: %w", err)
	}
	project.ID = id

	return nil
}

// GetByID retrieves a project, nil when it does not exist
func (r *ProjectRepository) GetByID(ctx context.Context, id int64) (*models.Project, error) {
	defer metrics.ObserveQuery("get", "projects", time.Now())

	query := `
		SELECT id, name, is_billable, hourly_rate
		FROM projects
		WHERE id = ?
	`

	project, err := scanProject(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("error getting project: %w", err)
	}

	return project, nil
}

// GetAll retrieves every project in insertion order
func (r *ProjectRepository) GetAll(ctx context.Context) ([]*models.Project, error) {
	defer metrics.ObserveQuery("list", "projects", time.Now())

	query := `
		SELECT id, name, is_billable, hourly_rate
		FROM projects
		ORDER BY id ASC
	`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("error listing projects: %w", err)
	}
	defer rows.Close()

	projects := []*models.Project{}
	for rows.Next() {
		project, err := scanProject(rows)
		if err != nil {
			return nil, fmt.Errorf("error scanning project: %w", err)
		}
		projects = append(projects, project)
	}

	return projects, rows.Err()
}

// Update writes name and billing fields and returns the re-read row, nil when
// the project does not exist
func (r *ProjectRepository) Update(ctx context.Context, project *models.Project) (*models.Project, error) {
	defer metrics.ObserveQuery("update", "projects", time.Now())

	query := `
		UPDATE projects
		SET name = ?, is_billable = ?, hourly_rate = ?
		WHERE id = ?
	`

	result, err := r.db.ExecContext(ctx, query,
		project.Name,
		project.IsBillable,
		nullFloat(project.HourlyRate),
		project.ID,
	)
	if err != nil {
		return nil, fmt.Errorf("error updating project: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return nil, fmt.Errorf("error getting rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return nil, nil
	}

	return r.GetByID(ctx, project.ID)
}

// Delete removes a project. Timers referencing it are left untouched and a
// missing id is not an error.
func (r *ProjectRepository) Delete(ctx context.Context, id int64) error {
	defer metrics.ObserveQuery("delete", "projects", time.Now())

	if _, err := r.db.ExecContext(ctx, `DELETE FROM projects WHERE id = ?`, id); err != nil {
		return fmt.Errorf("error deleting project: %w", err)
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanProject(row rowScanner) (*models.Project, error) {
	project := &models.Project{}
	var rate sql.NullFloat64

	if err := row.Scan(&project.ID, &project.Name, &project.IsBillable, &rate); err != nil {
		return nil, err
	}
	project.HourlyRate = floatPtr(rate)

	return project, nil
}

func nullFloat(value *float64) sql.NullFloat64 {
	if value == nil {
		return sql.NullFloat64{}
	}
	return sql.NullFloat64{Float64: *value, Valid: true}
}

func floatPtr(value sql.NullFloat64) *float64 {
	if !value.Valid {
		return nil
	}
	v := value.Float64
	return &v
}
