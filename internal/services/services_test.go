package services

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/alimgiray/timetrack/internal/repositories"
	"github.com/alimgiray/timetrack/pkg/database"
	"github.com/stretchr/testify/require"
)

type testServices struct {
	projects *ProjectService
	timers   *TimerService
	exports  *ExportService
}

func newTestServices(t *testing.T) *testServices {
	t.Helper()
	db, err := database.Open(filepath.Join(t.TempDir(), "timers.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	_, err = database.NewMigrator(db).Migrate(context.Background())
	require.NoError(t, err)

	projectRepo := repositories.NewProjectRepository(db)
	timerRepo := repositories.NewTimerRepository(db)

	projects := NewProjectService(projectRepo)
	timers := NewTimerService(timerRepo, projectRepo, 15)
	return &testServices{
		projects: projects,
		timers:   timers,
		exports:  NewExportService(timers, projects),
	}
}

func float(v float64) *float64 { return &v }
