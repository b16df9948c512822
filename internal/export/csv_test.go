package export

import (
	"encoding/csv"
	"regexp"
	"strings"
	"testing"
	"time"

	"github.com/alimgiray/timetrack/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustTime(t *testing.T, value string) time.Time {
	t.Helper()
	parsed, err := time.Parse(time.RFC3339, value)
	require.NoError(t, err)
	return parsed
}

func strPtr(s string) *string { return &s }
func floatPtr(f float64) *float64 { return &f }

func TestEscapeField(t *testing.T) {
	testCases := []struct {
		input string
		want  string
	}{
		{"simple", "simple"},
		{"", ""},
		{"text with, comma", `"text with, comma"`},
		{`text with "quotes"`, `"text with ""quotes"""`},
		{"text\nwith\nnewlines", "\"text\nwith\nnewlines\""},
		{"carriage\rreturn", "\"carriage\rreturn\""},
	}

	for _, tc := range testCases {
		t.Run(tc.input, func(t *testing.T) {
			assert.Equal(t, tc.want, EscapeField(tc.input))
		})
	}
}

func TestDateAndTimeFormatting(t *testing.T) {
	ts := mustTime(t, "2024-03-15T14:30:45Z")
	assert.Equal(t, "15/03/2024", FormatDateOnly(ts))
	assert.Equal(t, "14:30:45", FormatTimeOnly(ts))

	// Rendered in UTC whatever the input location
	shifted := ts.In(time.FixedZone("UTC+10", 10*3600))
	assert.Equal(t, "15/03/2024", FormatDateOnly(shifted))
	assert.Equal(t, "14:30:45", FormatTimeOnly(shifted))

	assert.Empty(t, FormatDateOnly(time.Time{}))
	assert.Empty(t, FormatTimeOnly(time.Time{}))
}

func TestFormatDurationLabel(t *testing.T) {
	assert.Equal(t, "0:00", FormatDurationLabel(0))
	assert.Equal(t, "0:00", FormatDurationLabel(-5))
	assert.Equal(t, "0:01", FormatDurationLabel(60))
	assert.Equal(t, "1:00", FormatDurationLabel(3600))
	assert.Equal(t, "1:01", FormatDurationLabel(3665))
	assert.Equal(t, "27:46", FormatDurationLabel(100000))
}

func TestFormatClock(t *testing.T) {
	assert.Equal(t, "00:00:00", FormatClock(0))
	assert.Equal(t, "00:00:08", FormatClock(8))
	assert.Equal(t, "01:01:05", FormatClock(3665))
	assert.Equal(t, "100:00:00", FormatClock(360000))
}

func sampleTimers(t *testing.T) []*models.Timer {
	return []*models.Timer{
		{
			ProjectName:     strPtr("Test Project"),
			TaskDescription: "Task 1",
			StartTime:       mustTime(t, "2024-03-15T14:30:00Z"),
			EndTime:         mustTime(t, "2024-03-15T15:30:00Z"),
			Duration:        3600,
			IsBillable:      true,
			HourlyRate:      floatPtr(50),
			AmountEarned:    floatPtr(50),
		},
		{
			ProjectName:     strPtr("Another Project"),
			TaskDescription: "Task with, comma",
			StartTime:       mustTime(t, "2024-03-15T16:00:00Z"),
			EndTime:         mustTime(t, "2024-03-15T16:30:00Z"),
			Duration:        1800,
		},
	}
}

func TestGenerateDelimitedText(t *testing.T) {
	text := GenerateDelimitedText(sampleTimers(t))
	lines := strings.Split(text, "\n")

	require.Len(t, lines, 4)
	assert.Equal(t, "Project,Description,Start Date,Start Time,End Date,End Time,Duration,Hourly Rate,Amount Earned", lines[0])
	assert.Equal(t, "Test Project,Task 1,15/03/2024,14:30:00,15/03/2024,15:30:00,1:00,$50.00,$50.00", lines[1])
	assert.Equal(t, `Another Project,"Task with, comma",15/03/2024,16:00:00,15/03/2024,16:30:00,0:30,,`, lines[2])
	assert.Equal(t, "", lines[3])
}

func TestGenerateDelimitedTextEmpty(t *testing.T) {
	text := GenerateDelimitedText(nil)
	assert.Equal(t, strings.Join(Header, ",")+"\n", text)
}

func TestGenerateDelimitedTextHidesRateOfNonBillableProject(t *testing.T) {
	timer := sampleTimers(t)[0]
	timer.IsBillable = false
	timer.AmountEarned = nil

	lines := strings.Split(GenerateDelimitedText([]*models.Timer{timer}), "\n")
	assert.True(t, strings.HasSuffix(lines[1], ",1:00,,"))
}

func TestGenerateDelimitedTextRoundTrip(t *testing.T) {
	timers := []*models.Timer{
		{
			ProjectName:     strPtr(`Client "A", Inc.`),
			TaskDescription: "line one\nline two, with comma\nand \"quotes\"",
			StartTime:       mustTime(t, "2024-01-02T03:04:05Z"),
			EndTime:         mustTime(t, "2024-01-02T05:04:05Z"),
			Duration:        7200,
		},
		{
			TaskDescription: `"`,
			StartTime:       mustTime(t, "2024-01-03T00:00:00Z"),
			EndTime:         mustTime(t, "2024-01-03T00:00:59Z"),
			Duration:        59,
		},
	}

	records, err := csv.NewReader(strings.NewReader(GenerateDelimitedText(timers))).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 3)

	assert.Equal(t, Header, records[0])
	assert.Equal(t, Row(timers[0]), records[1])
	assert.Equal(t, Row(timers[1]), records[2])
	assert.Equal(t, `Client "A", Inc.`, records[1][0])
	assert.Equal(t, "line one\nline two, with comma\nand \"quotes\"", records[1][1])
	assert.Equal(t, "", records[2][0])
}

func TestGenerateFileName(t *testing.T) {
	now := time.Date(2024, 3, 15, 9, 5, 7, 0, time.UTC)

	assert.Equal(t, "Test Project_timers_2024-03-15_09-05-07.csv", GenerateFileName("Test Project", now))
	assert.Equal(t, "all_projects_timers_2024-03-15_09-05-07.csv", GenerateFileName("", now))
	assert.Equal(t, "all_projects_timers_2024-03-15_09-05-07.xlsx", FileName("", "xlsx", now))

	pattern := regexp.MustCompile(`^Acme_timers_\d{4}-\d{2}-\d{2}_\d{2}-\d{2}-\d{2}\.csv$`)
	assert.Regexp(t, pattern, GenerateFileName("Acme", time.Now()))
	assert.NotContains(t, GenerateFileName("a:b", now), ":")
}
