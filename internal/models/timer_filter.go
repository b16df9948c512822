package models

import "time"

const DateLayout = "2006-01-02"

// TimerFilter narrows timer listings, counts and exports. Dates are
// inclusive bounds on the date portion of start_time (UTC).
type TimerFilter struct {
	ProjectID *int64
	StartDate string
	EndDate   string
}

func (f TimerFilter) Validate() error {
	var start, end time.Time
	var err error

	if f.StartDate != "" {
		if start, err = time.Parse(DateLayout, f.StartDate); err != nil {
			return ErrInvalidDate
		}
	}
	if f.EndDate != "" {
		if end, err = time.Parse(DateLayout, f.EndDate); err != nil {
			return ErrInvalidDate
		}
	}
	if f.StartDate != "" && f.EndDate != "" && start.After(end) {
		return ErrInvalidDateRange
	}
	return nil
}
