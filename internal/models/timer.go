package models

import "time"

// Timer is one recorded interval of work. ProjectName, IsBillable and
// HourlyRate come from a left join on projects and are empty for unassigned
// timers or timers whose project was deleted.
type Timer struct {
	ID              int64     `json:"id"`
	ProjectID       *int64    `json:"project_id"`
	StartTime       time.Time `json:"start_time"`
	EndTime         time.Time `json:"end_time"`
	Duration        int64     `json:"duration"`
	TaskDescription string    `json:"task_description"`
	AmountEarned    *float64  `json:"amount_earned"`

	ProjectName *string  `json:"project_name"`
	IsBillable  bool     `json:"is_billable"`
	HourlyRate  *float64 `json:"hourly_rate"`
}

// Validate checks a timer before it is written
func (t *Timer) Validate() error {
	if t.StartTime.IsZero() {
		return ErrInvalidStartTime
	}
	if t.EndTime.IsZero() {
		return ErrInvalidEndTime
	}
	if t.EndTime.Before(t.StartTime) {
		return ErrEndBeforeStart
	}
	if t.Duration < 0 {
		return ErrNegativeDuration
	}
	if t.AmountEarned != nil && *t.AmountEarned < 0 {
		return ErrInvalidAmount
	}
	return nil
}

// TimerPage is one page of a filtered timer listing
type TimerPage struct {
	Rows       []*Timer `json:"rows"`
	Page       int      `json:"page"`
	PageSize   int      `json:"page_size"`
	Total      int      `json:"total"`
	TotalPages int      `json:"total_pages"`
}
