package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/alimgiray/timetrack/internal/handlers"
	"github.com/alimgiray/timetrack/internal/repositories"
	"github.com/alimgiray/timetrack/internal/services"
	"github.com/alimgiray/timetrack/pkg/config"
	"github.com/alimgiray/timetrack/pkg/database"
	"github.com/alimgiray/timetrack/pkg/logger"
	"github.com/gin-gonic/gin"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logger.Init(cfg.Log.Level, cfg.Log.Format)
	gin.SetMode(cfg.Server.Mode)

	// Initialize database
	db, err := database.Open(cfg.Database.Path)
	if err != nil {
		logger.Fatalf("Failed to open database: %v", err)
	}
	defer db.Close()

	version, err := database.NewMigrator(db).Migrate(context.Background())
	if err != nil {
		logger.Fatalf("Failed to migrate database: %v", err)
	}
	logger.WithField("schema_version", version).Info("Schema ready")

	// Initialize dependencies
	projectRepo := repositories.NewProjectRepository(db)
	timerRepo := repositories.NewTimerRepository(db)
	projectService := services.NewProjectService(projectRepo)
	timerService := services.NewTimerService(timerRepo, projectRepo, cfg.Timers.PageSize)
	exportService := services.NewExportService(timerService, projectService)

	router := handlers.NewRouter(&handlers.Handlers{
		Project:  handlers.NewProjectHandler(projectService),
		Timer:    handlers.NewTimerHandler(timerService),
		Export:   handlers.NewExportHandler(exportService),
		Health:   handlers.NewHealthHandler(db),
		NotFound: handlers.NewNotFoundHandler(),
	})

	// Setup server
	server := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
	}

	// Graceful shutdown
	go func() {
		logger.Infof("Server starting on %s", server.Addr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatalf("Server failed to start: %v", err)
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Infof("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		logger.WithError(err).Error("Server forced to shut down")
	}

	logger.Infof("Server stopped")
}
