package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/alimgiray/timetrack/internal/billing"
	"github.com/alimgiray/timetrack/internal/models"
	"github.com/alimgiray/timetrack/pkg/metrics"
)

const timerColumns = `
	t.id, t.project_id, t.start_time, t.end_time, t.duration, t.task_description, t.amount_earned,
	p.name, p.is_billable, p.hourly_rate
	FROM timers t
	LEFT JOIN projects p ON p.id = t.project_id
`

// Most recent first; id breaks ties between equal start times
const timerOrder = ` ORDER BY t.start_time DESC, t.id DESC`

type TimerRepository struct {
	db *sql.DB
}

func NewTimerRepository(db *sql.DB) *TimerRepository {
	return &TimerRepository{db: db}
}

// Create inserts a timer as given and sets its generated ID
func (r *TimerRepository) Create(ctx context.Context, timer *models.Timer) error {
	defer metrics.ObserveQuery("create", "timers", time.Now())

	query := `
		INSERT INTO timers (project_id, start_time, end_time, duration, task_description, amount_earned)
		VALUES (?, ?, ?, ?, ?, ?)
	`

	result, err := r.db.ExecContext(ctx, query,
		nullInt(timer.ProjectID),
		billing.FormatTimestamp(timer.StartTime),
		billing.FormatTimestamp(timer.EndTime),
		timer.Duration,
		nullString(timer.TaskDescription),
		nullFloat(timer.AmountEarned),
	)
	if err != nil {
		return fmt.Errorf("error creating timer: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("error reading timer id: %w", err)
	}
	timer.ID = id

	return nil
}

// GetByID retrieves a timer joined with its project, nil when it does not exist
func (r *TimerRepository) GetByID(ctx context.Context, id int64) (*models.Timer, error) {
	defer metrics.ObserveQuery("get", "timers", time.Now())

	timer, err := scanTimer(r.db.QueryRowContext(ctx, `SELECT `+timerColumns+` WHERE t.id = ?`, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("error getting timer: %w", err)
	}
	return timer, nil
}

// UpdateInterval stores new bounds and duration and returns the re-read row,
// nil when the timer does not exist. amount_earned is not touched.
func (r *TimerRepository) UpdateInterval(ctx context.Context, id int64, start, end time.Time, duration int64) (*models.Timer, error) {
	defer metrics.ObserveQuery("update", "timers", time.Now())

	query := `
		UPDATE timers
		SET start_time = ?, end_time = ?, duration = ?
		WHERE id = ?
	`

	result, err := r.db.ExecContext(ctx, query,
		billing.FormatTimestamp(start),
		billing.FormatTimestamp(end),
		duration,
		id,
	)
	if err != nil {
		return nil, fmt.Errorf("error updating timer: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return nil, fmt.Errorf("error getting rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return nil, nil
	}

	return r.GetByID(ctx, id)
}

// Delete removes a timer; a missing id is not an error
func (r *TimerRepository) Delete(ctx context.Context, id int64) error {
	defer metrics.ObserveQuery("delete", "timers", time.Now())

	if _, err := r.db.ExecContext(ctx, `DELETE FROM timers WHERE id = ?`, id); err != nil {
		return fmt.Errorf("error deleting timer: %w", err)
	}
	return nil
}

// List returns one page (1-indexed) of timers matching filter
func (r *TimerRepository) List(ctx context.Context, filter models.TimerFilter, page, pageSize int) ([]*models.Timer, error) {
	defer metrics.ObserveQuery("list", "timers", time.Now())

	if page < 1 {
		page = 1
	}
	where, args := filterClause(filter)
	args = append(args, pageSize, (page-1)*pageSize)

	return r.query(ctx, `SELECT `+timerColumns+where+timerOrder+` LIMIT ? OFFSET ?`, args...)
}

// Count returns how many timers match filter
func (r *TimerRepository) Count(ctx context.Context, filter models.TimerFilter) (int, error) {
	defer metrics.ObserveQuery("count", "timers", time.Now())

	where, args := filterClause(filter)

	var total int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM timers t`+where, args...).Scan(&total); err != nil {
		return 0, fmt.Errorf("error counting timers: %w", err)
	}
	return total, nil
}

// ListForExport returns every timer matching filter, unpaged, in list order
func (r *TimerRepository) ListForExport(ctx context.Context, filter models.TimerFilter) ([]*models.Timer, error) {
	defer metrics.ObserveQuery("export", "timers", time.Now())

	where, args := filterClause(filter)
	return r.query(ctx, `SELECT `+timerColumns+where+timerOrder, args...)
}

func (r *TimerRepository) query(ctx context.Context, query string, args ...interface{}) ([]*models.Timer, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("error listing timers: %w", err)
	}
	defer rows.Close()

	timers := []*models.Timer{}
	for rows.Next() {
		timer, err := scanTimer(rows)
		if err != nil {
			return nil, fmt.Errorf("error scanning timer: %w", err)
		}
		timers = append(timers, timer)
	}

	return timers, rows.Err()
}

// filterClause builds the WHERE clause shared by list, count and export.
// Stored timestamps are UTC ISO-8601, so the first 10 characters are the date.
func filterClause(filter models.TimerFilter) (string, []interface{}) {
	var conditions []string
	var args []interface{}

	if filter.ProjectID != nil {
		conditions = append(conditions, "t.project_id = ?")
		args = append(args, *filter.ProjectID)
	}
	if filter.StartDate != "" {
		conditions = append(conditions, "substr(t.start_time, 1, 10) >= ?")
		args = append(args, filter.StartDate)
	}
	if filter.EndDate != "" {
		conditions = append(conditions, "substr(t.start_time, 1, 10) <= ?")
		args = append(args, filter.EndDate)
	}

	if len(conditions) == 0 {
		return "", args
	}
	return " WHERE " + strings.Join(conditions, " AND "), args
}

func scanTimer(row rowScanner) (*models.Timer, error) {
	timer := &models.Timer{}
	var (
		projectID   sql.NullInt64
		startTime   sql.NullString
		endTime     sql.NullString
		duration    sql.NullInt64
		description sql.NullString
		amount      sql.NullFloat64
		projectName sql.NullString
		isBillable  sql.NullBool
		hourlyRate  sql.NullFloat64
	)

	err := row.Scan(
		&timer.ID,
		&projectID,
		&startTime,
		&endTime,
		&duration,
		&description,
		&amount,
		&projectName,
		&isBillable,
		&hourlyRate,
	)
	if err != nil {
		return nil, err
	}

	if projectID.Valid {
		id := projectID.Int64
		timer.ProjectID = &id
	}
	if startTime.Valid {
		if timer.StartTime, err = billing.ParseTimestamp(startTime.String); err != nil {
			return nil, fmt.Errorf("timer %d start_time: %w", timer.ID, err)
		}
	}
	if endTime.Valid {
		if timer.EndTime, err = billing.ParseTimestamp(endTime.String); err != nil {
			return nil, fmt.Errorf("timer %d end_time: %w", timer.ID, err)
		}
	}
	timer.Duration = duration.Int64
	timer.TaskDescription = description.String
	timer.AmountEarned = floatPtr(amount)
	if projectName.Valid {
		name := projectName.String
		timer.ProjectName = &name
	}
	timer.IsBillable = isBillable.Valid && isBillable.Bool
	timer.HourlyRate = floatPtr(hourlyRate)

	return timer, nil
}

func nullInt(value *int64) sql.NullInt64 {
	if value == nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: *value, Valid: true}
}

func nullString(value string) sql.NullString {
	if value == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: value, Valid: true}
}
