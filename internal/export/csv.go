// Package export renders timer records as delimited text and workbooks.
package export

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/alimgiray/timetrack/internal/models"
)

// Header is the column order shared by every export format
var Header = []string{
	"Project",
	"Description",
	"Start Date",
	"Start Time",
	"End Date",
	"End Time",
	"Duration",
	"Hourly Rate",
	"Amount Earned",
}

// EscapeField quotes a value containing a comma, double quote, CR or LF and
// doubles any embedded quotes
func EscapeField(value string) string {
	if strings.ContainsAny(value, ",\"\n\r") {
		return `"` + strings.ReplaceAll(value, `"`, `""`) + `"`
	}
	return value
}

// FormatDateOnly renders the UTC date as DD/MM/YYYY
func FormatDateOnly(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format("02/01/2006")
}

// FormatTimeOnly renders the UTC wall clock as HH:MM:SS
func FormatTimeOnly(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format("15:04:05")
}

// FormatDurationLabel renders seconds as H:MM (hours unpadded)
func FormatDurationLabel(seconds int64) string {
	if seconds <= 0 {
		return "0:00"
	}
	return fmt.Sprintf("%d:%02d", seconds/3600, (seconds%3600)/60)
}

// FormatClock renders seconds as HH:MM:SS, the live timer display format
func FormatClock(seconds int64) string {
	if seconds < 0 {
		seconds = 0
	}
	return fmt.Sprintf("%02d:%02d:%02d", seconds/3600, (seconds%3600)/60, seconds%60)
}

func formatMoney(value *float64) string {
	if value == nil {
		return ""
	}
	return "$" + strconv.FormatFloat(*value, 'f', 2, 64)
}

// Row returns the export fields of one timer, unescaped
func Row(timer *models.Timer) []string {
	projectName := ""
	if timer.ProjectName != nil {
		projectName = *timer.ProjectName
	}

	var rate *float64
	if timer.IsBillable {
		rate = timer.HourlyRate
	}

	return []string{
		projectName,
		timer.TaskDescription,
		FormatDateOnly(timer.StartTime),
		FormatTimeOnly(timer.StartTime),
		FormatDateOnly(timer.EndTime),
		FormatTimeOnly(timer.EndTime),
		FormatDurationLabel(timer.Duration),
		formatMoney(rate),
		formatMoney(timer.AmountEarned),
	}
}

// GenerateDelimitedText renders the header and one line per timer, every line
// terminated by a single "\n"
func GenerateDelimitedText(timers []*models.Timer) string {
	var b strings.Builder
	writeLine(&b, Header)
	for _, timer := range timers {
		writeLine(&b, Row(timer))
	}
	return b.String()
}

func writeLine(b *strings.Builder, fields []string) {
	for i, field := range fields {
		if i > 0 {
			b.WriteByte(',')
		}
		b.WriteString(EscapeField(field))
	}
	b.WriteByte('\n')
}

// GenerateFileName builds {project|all_projects}_timers_{YYYY-MM-DD}_{HH-MM-SS}.csv
func GenerateFileName(projectName string, now time.Time) string {
	return FileName(projectName, "csv", now)
}

// FileName is GenerateFileName with a caller-chosen extension
func FileName(projectName, extension string, now time.Time) string {
	if projectName == "" {
		projectName = "all_projects"
	}
	name := fmt.Sprintf("%s_timers_%s_%s.%s",
		projectName,
		now.Format("2006-01-02"),
		now.Format("15:04:05"),
		extension,
	)
	return strings.ReplaceAll(name, ":", "-")
}
