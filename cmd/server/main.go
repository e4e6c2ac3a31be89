// @title           Bitacora Backend API
// @version         1.0.0
// @description     Backend API for a personal portfolio: projects, class-log entries, media galleries and plan documents, with uploads to object storage.

// @host      localhost:8080
// @BasePath  /api/v1

// @securityDefinitions.apikey Bearer
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and the session token.

package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"bitacora-backend/internal/assets"
	"bitacora-backend/internal/config"
	"bitacora-backend/internal/database"
	"bitacora-backend/internal/handlers"
	"bitacora-backend/internal/logger"
	"bitacora-backend/internal/server"
	"bitacora-backend/internal/services"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	appLog, err := logger.New(cfg.Environment)
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer appLog.Sync()

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	store, err := openStore(ctx, cfg, appLog)
	if err != nil {
		appLog.Fatal("Failed to open store", "error", err)
	}
	defer store.Close()

	uploader, closeUploader, err := openUploader(ctx, cfg)
	if err != nil {
		appLog.Fatal("Failed to initialize asset storage", "backend", cfg.StorageBackend, "error", err)
	}
	defer closeUploader()

	orchestrator := services.NewOrchestrator(store, uploader, appLog)
	authService := services.NewAuthService(store, cfg.JWTSecret, cfg.SessionTTL, appLog)

	if cfg.AdminPassword != "" {
		created, err := authService.SeedAdmin(ctx, cfg.AdminPassword)
		if err != nil {
			appLog.Fatal("Failed to seed admin user", "error", err)
		}
		appLog.Info("Admin user checked", "created", created)
	} else {
		appLog.Warn("ADMIN_PASSWORD not set; admin user will not be seeded")
	}

	router := server.NewRouter(server.RouterConfig{
		Log:              appLog,
		AllowedOrigins:   cfg.AllowedOrigins,
		Sessions:         authService,
		HealthHandler:    handlers.NewHealthHandler(store),
		AuthHandler:      handlers.NewAuthHandler(authService, appLog),
		ProjectsHandler:  handlers.NewProjectsHandler(orchestrator, cfg.MaxUploadBytes, appLog),
		ClassLogsHandler: handlers.NewClassLogsHandler(orchestrator, appLog),
		MediaHandler:     handlers.NewMediaHandler(orchestrator, cfg.MaxUploadBytes, appLog),
		PlansHandler:     handlers.NewPlansHandler(orchestrator, cfg.MaxUploadBytes, appLog),
	})

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			appLog.Error("Shutdown failed", "error", err)
		}
	}()

	appLog.Info("Server starting", "port", cfg.Port, "environment", cfg.Environment)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		appLog.Fatal("Failed to start server", "error", err)
	}
	appLog.Info("Server stopped")
}

// openStore connects to Postgres and runs migrations. Without DATABASE_URL
// outside production it falls back to an in-memory store that is lost on
// restart.
func openStore(ctx context.Context, cfg *config.Config, appLog *logger.Logger) (database.Store, error) {
	if cfg.DatabaseURL == "" {
		appLog.Warn("DATABASE_URL not set; using in-memory store, data will not survive a restart")
		return database.NewMemoryStore(), nil
	}

	store, err := database.NewPostgresStore(ctx, cfg.DatabaseURL, database.PoolOptions{
		MaxOpenConns:    cfg.DBMaxOpenConns,
		MaxIdleConns:    cfg.DBMaxIdleConns,
		ConnMaxLifetime: cfg.DBConnMaxLifetime,
	})
	if err != nil {
		return nil, err
	}

	if err := database.NewMigrator(store.DB(), appLog).Run(ctx); err != nil {
		store.Close()
		return nil, err
	}
	appLog.Info("Migrations completed successfully")
	return store, nil
}

func openUploader(ctx context.Context, cfg *config.Config) (assets.Uploader, func(), error) {
	switch cfg.StorageBackend {
	case config.StorageBackendGCS:
		u, err := assets.NewGCSUploader(ctx, cfg.GCSBucket, cfg.GCSCredentialsFile, cfg.GCSPublicBaseURL)
		if err != nil {
			return nil, nil, err
		}
		return u, func() { _ = u.Close() }, nil
	default:
		u, err := assets.NewSupabaseUploader(cfg.SupabaseURL, cfg.SupabaseServiceKey, cfg.SupabaseStorageBucket)
		if err != nil {
			return nil, nil, err
		}
		return u, func() {}, nil
	}
}
