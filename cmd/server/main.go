package main

import (
	"coachdesk/coach-admin/internal/api"
	"coachdesk/coach-admin/internal/config"
	"coachdesk/coach-admin/internal/repository/mongo"
	"coachdesk/coach-admin/internal/service"
	"coachdesk/coach-admin/internal/storage"
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
)

func main() {
	log.Println("Starting Coach Admin Server...")

	// --- Configuration ---
	cfg, err := config.LoadConfig(".")
	if err != nil {
		log.Fatalf("FATAL: Could not load config: %v", err)
	}
	log.Println("Configuration loaded.")

	// --- Database Connection ---
	dbClient, err := mongo.ConnectDB(cfg.Database.URI)
	if err != nil {
		log.Fatalf("FATAL: Could not connect to MongoDB: %v", err)
	}
	defer func() {
		log.Println("Disconnecting MongoDB...")
		if err := mongo.DisconnectDB(dbClient); err != nil {
			log.Printf("ERROR: Failed to disconnect MongoDB: %v", err)
		}
	}()
	appDB := dbClient.Database(cfg.Database.Name)
	log.Println("Database connection established.")

	// --- Ensure Indexes ---
	log.Println("Ensuring database indexes...")
	go func() { // Run index creation in the background
		ctx, cancel := context.WithTimeout(context.Background(), 1*time.Minute)
		defer cancel()
		mongo.EnsureIndexes(ctx, appDB)
		log.Println("Index creation process completed.")
	}()

	// --- Initialize Archive Storage ---
	var archive storage.ArchiveStore
	if cfg.Archive.Enabled {
		log.Println("Initializing archive store...")
		archive, err = storage.NewS3Archive(cfg.Archive)
		if err != nil {
			log.Fatalf("FATAL: Failed to initialize S3 archive: %v", err)
		}
	} else {
		log.Println("Archive store disabled; destructive operations will not snapshot.")
	}

	// --- Initialize Repositories ---
	log.Println("Initializing repositories...")
	userRepo := mongo.NewMongoUserRepository(appDB)
	clientRepo := mongo.NewMongoClientRepository(appDB)
	programRepo := mongo.NewMongoProgramRepository(appDB)
	workoutRepo := mongo.NewMongoWorkoutRepository(appDB)
	eventRepo := mongo.NewMongoEventRepository(appDB)
	periodConfigRepo := mongo.NewMongoPeriodConfigRepository(appDB)
	categoryRepo := mongo.NewMongoCategoryRepository(appDB)
	templateRepo := mongo.NewMongoWeekTemplateRepository(appDB)
	movementRepo := mongo.NewMongoMovementRepository(appDB)
	workoutTemplateRepo := mongo.NewMongoWorkoutTemplateRepository(appDB)
	oplogRepo := mongo.NewMongoOperationLogRepository(appDB)

	// --- Initialize Services ---
	log.Println("Initializing services...")
	authService := service.NewAuthService(userRepo, cfg.JWT.Secret, cfg.JWT.Expiration)
	clientService := service.NewClientService(clientRepo)
	catalogService := service.NewCatalogService(periodConfigRepo, categoryRepo, templateRepo, movementRepo, workoutTemplateRepo)
	reconService := service.NewReconciliationService(
		programRepo, eventRepo, workoutRepo, templateRepo, categoryRepo, clientRepo, oplogRepo, archive,
	)
	calendarService := service.NewCalendarService(eventRepo, workoutRepo, programRepo, clientRepo, workoutTemplateRepo)

	// --- Resume Interrupted Operations ---
	// Destructive sequences record intent before running; replay whatever a
	// previous process left unfinished before taking traffic.
	resumeCtx, resumeCancel := context.WithTimeout(context.Background(), 2*time.Minute)
	if err := reconService.ResumePendingOperations(resumeCtx); err != nil {
		log.Printf("ERROR: Failed to resume pending operations: %v", err)
	}
	resumeCancel()

	// --- Initialize Gin Engine ---
	// gin.SetMode(gin.ReleaseMode) // Uncomment for production
	router := gin.Default() // Includes Logger and Recovery middleware

	// --- Setup Routes ---
	log.Println("Setting up API routes...")
	api.SetupRoutes(router, cfg.JWT.Secret, authService, clientService, catalogService, reconService, calendarService, archive)

	// --- Start HTTP Server ---
	server := &http.Server{
		Addr:         cfg.Server.Address,
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	log.Printf("Server starting on %s", cfg.Server.Address)

	// --- Graceful Shutdown ---
	go func() {
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("FATAL: ListenAndServe Error: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down server...")

	// In-flight requests get 5 seconds to finish.
	ctxShutdown, cancelShutdown := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancelShutdown()

	if err := server.Shutdown(ctxShutdown); err != nil {
		log.Fatalf("FATAL: Server forced to shutdown: %v", err)
	}

	log.Println("Server exiting.")
}
