package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/jmoiron/sqlx"

	_ "github.com/jackc/pgx/v5/stdlib"

	"contacts-service/internal/logging"
	"contacts-service/internal/config"
	"contacts-service/internal/events"
	"contacts-service/internal/repository"
	"contacts-service/internal/s3"
	"contacts-service/internal/worker"
)

const queueGroup = "photo-cleanup"

func main() {
	cfg := config.Load()
	cfg.ServiceName = "contacts-photo-cleanup"

	logging.SetupGlobalHandler(cfg.ServiceName, cfg.IsProduction())

	if cfg.NatsURL == "" {
		log.Fatal("NATS_URL environment variable is not set")
	}

	db, err := sqlx.Connect("pgx", cfg.Database.URL())
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	fileStore, err := s3.NewFileStore(context.Background(), cfg.Storage)
	if err != nil {
		log.Fatalf("Failed to initialize S3 file store: %v", err)
	}

	cleaner := worker.NewPhotoCleaner(fileStore, repository.NewPostgresContactRepository(db))

	subscriber, err := events.NewSubscriber(cfg.NatsURL, cfg.ServiceName)
	if err != nil {
		log.Fatalf("Failed to connect to NATS: %v", err)
	}
	defer subscriber.Close()

	if _, err := subscriber.SubscribeContactDeleted(queueGroup, cleaner.HandleContactDeleted); err != nil {
		log.Fatalf("Failed to subscribe to contact events: %v", err)
	}

	log.Println("Photo cleanup worker started, waiting for events...")

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down photo cleanup worker...")
}
