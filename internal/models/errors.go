package models

// Common errors
var (
	ErrProjectNameRequired = &ValidationError{Field: "name", Message: "Project name is required"}
	ErrInvalidHourlyRate   = &ValidationError{Field: "hourly_rate", Message: "Hourly rate must not be negative"}
	ErrInvalidStartTime    = &ValidationError{Field: "start_time", Message: "Invalid start time"}
	ErrInvalidEndTime      = &ValidationError{Field: "end_time", Message: "Invalid end time"}
	ErrEndBeforeStart      = &ValidationError{Field: "end_time", Message: "End time must be after start time"}
	ErrNegativeDuration    = &ValidationError{Field: "duration", Message: "Duration must not be negative"}
	ErrInvalidAmount       = &ValidationError{Field: "amount_earned", Message: "Amount earned must not be negative"}
	ErrInvalidDate         = &ValidationError{Field: "date", Message: "Dates must use the YYYY-MM-DD format"}
	ErrInvalidDateRange    = &ValidationError{Field: "start_date", Message: "Start date must not be after end date"}
)

// ValidationError is returned for input rejected before it reaches the store
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}
