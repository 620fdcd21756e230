package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"kelurahan/complaints-api/internal/config"
	"kelurahan/complaints-api/internal/database"
	"kelurahan/complaints-api/internal/handlers"
	"kelurahan/complaints-api/internal/health"
	"kelurahan/complaints-api/internal/logger"
	"kelurahan/complaints-api/internal/repository"
	"kelurahan/complaints-api/internal/services"
	"kelurahan/complaints-api/internal/upload"
	"kelurahan/complaints-api/internal/validator"

	_ "kelurahan/complaints-api/internal/docs" // Import swagger docs
)

// shutdownTimeout bounds the graceful drain on interrupt.
const shutdownTimeout = 10 * time.Second

// @title           Citizen Complaints API
// @version         1.0
// @description     Citizen-complaint tracking API: users submit complaints with attachments, administrators triage and resolve them, and every status change is audit-logged.

// @host      localhost:3000
// @BasePath  /

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.

func main() {
	logger.Init(os.Getenv("ENV"))
	defer logger.Sync()

	if err := run(); err != nil {
		// Storage initialization failure is fatal: exit non-zero rather
		// than serve traffic in a partially-ready state.
		logger.Get().Fatalf("Fatal error: %v", err)
	}
}

func run() error {
	log := logger.Get()

	appConfig, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	validator.Register()

	state := health.NewState()
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Startup is strictly ordered: each store must finish initializing
	// before the API starts answering on endpoints that depend on it.
	mysqlDB, err := database.NewMySQL(appConfig)
	if err != nil {
		return fmt.Errorf("failed to connect to mysql: %w", err)
	}
	defer func() {
		if err := mysqlDB.Close(); err != nil {
			log.Warnf("mysql close error: %v", err)
		}
	}()

	if err := mysqlDB.Migrate(); err != nil {
		return fmt.Errorf("failed to run identity migrations: %w", err)
	}
	state.MarkMySQLReady()
	log.Info("MySQL ready")

	mongoDB, err := database.NewMongo(ctx, appConfig)
	if err != nil {
		return fmt.Errorf("failed to connect to mongodb: %w", err)
	}
	defer func() {
		closeCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := mongoDB.Close(closeCtx); err != nil {
			log.Warnf("mongodb close error: %v", err)
		}
	}()

	if err := repository.EnsureIndexes(ctx, mongoDB.Database()); err != nil {
		return fmt.Errorf("failed to ensure mongodb indexes: %w", err)
	}
	state.MarkMongoReady()
	log.Info("MongoDB ready")

	diskStore, err := upload.NewDiskStore(appConfig.UploadDir)
	if err != nil {
		return fmt.Errorf("failed to prepare upload directory: %w", err)
	}

	userService := services.NewUserService(mysqlDB.DB())
	complaintService := services.NewComplaintService(
		repository.NewMongoComplaintRepository(mongoDB.Database()),
		repository.NewMongoLogRepository(mongoDB.Database()),
		repository.NewMongoAttachmentRepository(mongoDB.Database()),
		diskStore,
		nil, // all transitions permitted
	)

	router := handlers.NewRouter(handlers.RouterDeps{
		State:            state,
		UserService:      userService,
		ComplaintService: complaintService,
		UploadDir:        diskStore.Dir(),
	})

	server := &http.Server{
		Addr:    ":" + appConfig.Port,
		Handler: router,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Infof("Starting complaints API on port %s", appConfig.Port)
		log.Infof("Health: http://localhost:%s/health", appConfig.Port)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("server error: %w", err)
	case <-ctx.Done():
	}

	log.Info("Shutting down gracefully...")
	state.BeginShutdown()

	drainCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := server.Shutdown(drainCtx); err != nil {
		log.Warnf("shutdown drain error: %v", err)
	}

	log.Info("Connections closed")
	return nil
}
