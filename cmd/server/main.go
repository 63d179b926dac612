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

	"github.com/kemurphy3/ignite-fitness-sub004/internal/api"
	"github.com/kemurphy3/ignite-fitness-sub004/internal/config"
	"github.com/kemurphy3/ignite-fitness-sub004/internal/guardrail"
	"github.com/kemurphy3/ignite-fitness-sub004/internal/repository"
	"github.com/kemurphy3/ignite-fitness-sub004/internal/repository/mongo"
	"github.com/kemurphy3/ignite-fitness-sub004/internal/service"
	"github.com/kemurphy3/ignite-fitness-sub004/internal/storage"

	"github.com/gin-gonic/gin"
)

func main() {
	log.Println("Starting Workout Substitution Server...")

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
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 1*time.Minute)
		defer cancel()
		mongo.EnsureTemplateIndexes(ctx, appDB.Collection("workout_templates"))
		log.Println("Index creation process completed.")
	}()

	// --- Initialize Catalog ---
	catalog := mongo.NewMongoTemplateCatalog(appDB)

	// --- Optional Catalog Import ---
	if cfg.S3.BucketName != "" {
		log.Println("Importing workout templates from S3 catalog...")
		source, err := storage.NewS3TemplateSource(cfg.S3)
		if err != nil {
			log.Fatalf("FATAL: Failed to initialize S3 template source: %v", err)
		}
		if err := importCatalog(source, catalog); err != nil {
			log.Printf("ERROR: Catalog import failed, continuing with existing catalog: %v", err)
		}
	}

	// --- Initialize Guardrail Manager ---
	var guardrails guardrail.Manager
	if cfg.Guardrail.Endpoint != "" {
		guardrails = guardrail.NewHTTPManager(cfg.Guardrail.Endpoint, cfg.Guardrail.Timeout)
		log.Printf("Guardrail policy engine configured at %s (fail_open=%v)", cfg.Guardrail.Endpoint, cfg.Guardrail.FailOpen)
	} else {
		log.Println("WARN: No guardrail endpoint configured; candidates will carry an 'unavailable' warning.")
	}

	// --- Initialize Services ---
	substitutionService := service.NewSubstitutionService(catalog, guardrails, service.Options{
		MaxSuggestions:           cfg.Engine.MaxSuggestions,
		DefaultAvailableTime:     cfg.Engine.DefaultAvailableTime,
		FailOpenOnGuardrailError: cfg.Guardrail.FailOpen,
	})

	// --- Initialize Gin Engine ---
	router := gin.Default() // Includes Logger and Recovery middleware

	// --- Setup Routes ---
	api.SetupRoutes(router, cfg.JWT.Secret, substitutionService)

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

	ctxShutdown, cancelShutdown := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancelShutdown()

	if err := server.Shutdown(ctxShutdown); err != nil {
		log.Fatalf("FATAL: Server forced to shutdown: %v", err)
	}

	log.Println("Server exiting.")
}

// importCatalog fetches the template seed from the source and upserts each
// entry into the catalog.
func importCatalog(source storage.TemplateSource, catalog repository.WorkoutCatalog) error {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	templates, err := source.FetchTemplates(ctx)
	if err != nil {
		return err
	}

	imported := 0
	for i := range templates {
		if err := catalog.Upsert(ctx, &templates[i]); err != nil {
			log.Printf("WARN: Failed to import template %q: %v", templates[i].TemplateID, err)
			continue
		}
		imported++
	}
	log.Printf("Imported %d of %d workout templates.", imported, len(templates))
	return nil
}
