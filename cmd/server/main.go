package main

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/pressly/goose/v3"

	_ "github.com/jackc/pgx/v5/stdlib"

	"contacts-service/internal/api"
	"contacts-service/internal/config"
	"contacts-service/internal/events"
	"contacts-service/internal/jwt"
	"contacts-service/internal/logging"
	"contacts-service/internal/repository"
	"contacts-service/internal/s3"
	"contacts-service/internal/service"
	"contacts-service/internal/tracing"
	_ "contacts-service/migrations"
)

func main() {
	cfg := config.Load()

	logging.SetupGlobalHandler(cfg.ServiceName, cfg.IsProduction())

	if len(os.Args) > 1 {
		switch os.Args[1] {
		case "migrate":
			handleMigrations(cfg)
			return
		case "token":
			handleToken(cfg, os.Args[2:])
			return
		}
	}

	shutdownTracer, err := tracing.InitTracerProvider(cfg.ServiceName, cfg.OtelEndpoint)
	if err != nil {
		log.Fatalf("Failed to initialize OpenTelemetry: %v", err)
	}
	defer func() {
		if err := shutdownTracer(context.Background()); err != nil {
			log.Printf("Error shutting down tracer provider: %v", err)
		}
	}()

	if cfg.JWTSecret == "" {
		log.Println("WARNING: SUPABASE_JWT_SECRET is not set, authenticated routes will answer 500")
	}

	db := connectDB(cfg)
	defer db.Close()

	fileStore, err := s3.NewFileStore(context.Background(), cfg.Storage)
	if err != nil {
		log.Fatalf("Failed to initialize S3 file store: %v", err)
	}
	log.Printf("Successfully initialized S3 file store for bucket %s.", fileStore.BucketName)

	eventPublisher := newPublisher(cfg)
	defer eventPublisher.Close()

	contactRepo := repository.NewPostgresContactRepository(db)

	contactService := service.NewContactService(contactRepo, eventPublisher)
	uploadService := service.NewUploadService(fileStore, eventPublisher)

	contactHandler := api.NewContactHandler(contactService)
	uploadHandler := api.NewUploadHandler(uploadService)

	verifier := jwt.NewVerifier(cfg.JWTSecret, cfg.JWTAudience)

	app := api.NewApp(cfg)
	api.SetupRoutes(app, cfg, verifier, contactHandler, uploadHandler)

	go func() {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
		<-quit

		log.Println("Shutting down server...")
		if err := app.ShutdownWithTimeout(10 * time.Second); err != nil {
			log.Printf("Error during server shutdown: %v", err)
		}
	}()

	log.Printf("Listening %s on port %s (%s)", cfg.ServiceName, cfg.Port, cfg.Env)
	if err := app.Listen(":" + cfg.Port); err != nil {
		log.Printf("Server stopped: %v", err)
	}
}

func connectDB(cfg *config.Config) *sqlx.DB {
	db, err := sqlx.Connect("pgx", cfg.Database.URL())
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	log.Println("Successfully connected to the database.")
	return db
}

func newPublisher(cfg *config.Config) events.EventPublisher {
	if cfg.NatsURL == "" {
		log.Println("NATS_URL not set, contact events are not published.")
		return events.NoopPublisher{}
	}

	publisher, err := events.NewNatsPublisher(cfg.NatsURL)
	if err != nil {
		log.Printf("WARNING: Failed to connect to NATS, contact events are not published: %v", err)
		return events.NoopPublisher{}
	}
	log.Println("Successfully connected to NATS.")
	return publisher
}

func handleMigrations(cfg *config.Config) {
	fmt.Println("Running database migrations...")

	db, err := sql.Open("pgx", cfg.Database.URL())
	if err != nil {
		log.Fatalf("failed to connect to database for migration: %v", err)
	}
	defer db.Close()

	if err := goose.SetDialect("postgres"); err != nil {
		log.Fatalf("failed to set goose dialect: %v", err)
	}

	if err := goose.Up(db, "migrations"); err != nil {
		log.Fatalf("goose: failed to run migrations: %v", err)
	}

	fmt.Println("Migrations applied successfully!")
}

// handleToken prints a one hour access token for local testing.
func handleToken(cfg *config.Config, args []string) {
	if len(args) < 1 {
		log.Fatal("usage: server token <user-uuid> [email]")
	}
	if cfg.JWTSecret == "" {
		log.Fatal("SUPABASE_JWT_SECRET is not set")
	}

	userID, err := uuid.Parse(args[0])
	if err != nil {
		log.Fatalf("invalid user id %q: %v", args[0], err)
	}

	identity := jwt.Identity{ID: userID}
	if len(args) > 1 {
		identity.Email = args[1]
	}

	token, err := jwt.Sign(cfg.JWTSecret, identity, time.Hour)
	if err != nil {
		log.Fatalf("failed to sign token: %v", err)
	}

	fmt.Println(token)
}
