// Package billing derives timer durations and earnings.
package billing

import (
	"strings"
	"time"

	"github.com/alimgiray/timetrack/internal/models"
	"github.com/shopspring/decimal"
)

// TimestampLayout is the storage form of every timestamp: ISO-8601 UTC with
// millisecond precision, so that lexical order equals chronological order.
const TimestampLayout = "2006-01-02T15:04:05.000Z"

var secondsPerHour = decimal.NewFromInt(3600)

// ParseTimestamp accepts RFC 3339 timestamps (any offset) and returns them in
// UTC, truncated to the millisecond precision of TimestampLayout
func ParseTimestamp(value string) (time.Time, error) {
	t, err := time.Parse(time.RFC3339Nano, strings.TrimSpace(value))
	if err != nil {
		return time.Time{}, err
	}
	return t.UTC().Truncate(time.Millisecond), nil
}

// FormatTimestamp renders t in the storage form
func FormatTimestamp(t time.Time) string {
	return t.UTC().Format(TimestampLayout)
}

// ParseInterval parses both ends of an interval and rejects end < start
func ParseInterval(start, end string) (time.Time, time.Time, error) {
	startTime, err := ParseTimestamp(start)
	if err != nil {
		return time.Time{}, time.Time{}, models.ErrInvalidStartTime
	}
	endTime, err := ParseTimestamp(end)
	if err != nil {
		return time.Time{}, time.Time{}, models.ErrInvalidEndTime
	}
	if endTime.Before(startTime) {
		return time.Time{}, time.Time{}, models.ErrEndBeforeStart
	}
	return startTime, endTime, nil
}

// ComputeDuration returns the whole seconds elapsed between two timestamps
func ComputeDuration(start, end string) (int64, error) {
	startTime, endTime, err := ParseInterval(start, end)
	if err != nil {
		return 0, err
	}
	return DurationBetween(startTime, endTime), nil
}

// DurationBetween is floor((end - start) / 1s) for end >= start
func DurationBetween(start, end time.Time) int64 {
	return int64(end.Sub(start) / time.Second)
}

// ComputeAmount returns duration in hours times the rate, rounded half away
// from zero to cents. A nil rate yields nil.
func ComputeAmount(durationSeconds int64, hourlyRate *float64) *float64 {
	if hourlyRate == nil {
		return nil
	}
	amount, _ := decimal.NewFromInt(durationSeconds).
		Mul(decimal.NewFromFloat(*hourlyRate)).
		Div(secondsPerHour).
		Round(2).
		Float64()
	return &amount
}

// RoundCurrency rounds to 2 decimals, halves away from zero
func RoundCurrency(value float64) float64 {
	rounded, _ := decimal.NewFromFloat(value).Round(2).Float64()
	return rounded
}
