package main

import (
	"alcyxob/traindoc/internal/api"
	"alcyxob/traindoc/internal/capability"
	"alcyxob/traindoc/internal/config"
	"alcyxob/traindoc/internal/enhance"
	"alcyxob/traindoc/internal/extractor"
	"alcyxob/traindoc/internal/integrity"
	"alcyxob/traindoc/internal/repository/mongo"
	"alcyxob/traindoc/internal/service"
	"alcyxob/traindoc/internal/storage"
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
	log.Println("Starting TrainDoc Server...")

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
	go func() { // Run index creation concurrently/in background
		ctx, cancel := context.WithTimeout(context.Background(), 1*time.Minute)
		defer cancel()
		mongo.EnsureUserIndexes(ctx, appDB.Collection("users"))
		mongo.EnsureDocumentIndexes(ctx, appDB.Collection("documents"))
		mongo.EnsureTrainingPlanIndexes(ctx, appDB.Collection("training_plans"))
		log.Println("Index creation process completed.")
	}()

	// --- Initialize Storage ---
	log.Printf("Initializing %q storage backend...", cfg.Storage.Backend)
	var backend storage.Backend
	switch cfg.Storage.Backend {
	case "filesystem":
		backend, err = storage.NewFilesystemBackend(cfg.Storage.BaseDir)
		if err != nil {
			log.Fatalf("FATAL: Failed to initialize filesystem storage: %v", err)
		}
	case "s3":
		backend, err = storage.NewS3Backend(cfg.S3)
		if err != nil {
			log.Fatalf("FATAL: Failed to initialize S3 storage: %v", err)
		}
	default:
		backend = storage.NewMemoryBackend()
	}

	// --- Initialize Capabilities and Extraction ---
	caps := capability.New(extractor.LedongthucDecoder{}, cfg.Limits.MaxFileSizeBytes)
	ex := extractor.New(caps)

	// --- Initialize Repositories ---
	log.Println("Initializing repositories...")
	userRepo := mongo.NewMongoUserRepository(appDB)
	documentRepo := mongo.NewMongoDocumentRepository(appDB)
	trainingPlanRepo := mongo.NewMongoTrainingPlanRepository(appDB)

	// --- Initialize Services ---
	log.Println("Initializing services...")
	checker := integrity.NewChecker(backend, documentRepo, caps, ex)
	repairer := integrity.NewRepairer(documentRepo, backend, checker)
	gateway := enhance.NewGateway(cfg.Enhancement)
	if gateway.IsConfigured() {
		log.Println("Enhancement gateway enabled.")
	}

	authService := service.NewAuthService(userRepo, cfg.JWT.Secret, cfg.JWT.Expiration)
	documentService := service.NewDocumentService(documentRepo, backend, caps, checker, repairer)
	processingService := service.NewProcessingService(
		documentRepo, trainingPlanRepo, userRepo, backend, ex, gateway,
		cfg.Enhancement.BatchSize, cfg.Enhancement.BatchDelay,
	)

	// --- Initialize Gin Engine ---
	// gin.SetMode(gin.ReleaseMode) // Uncomment for production
	router := gin.Default() // Includes Logger and Recovery middleware

	// --- Setup Routes ---
	log.Println("Setting up API routes...")
	api.SetupRoutes(router, cfg.JWT.Secret, authService, documentService, processingService)

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

	// Wait for interrupt signal to gracefully shut down the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down server...")

	// The context is used to inform the server it has 5 seconds to finish
	// the requests it is currently handling
	ctxShutdown, cancelShutdown := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancelShutdown()

	if err := server.Shutdown(ctxShutdown); err != nil {
		log.Fatalf("FATAL: Server forced to shutdown: %v", err)
	}

	log.Println("Server exiting.")
}
