package main

import (
	"context"
	"courier-delivery-service/internal/adapters/repositories"
	"courier-delivery-service/internal/config"
	"courier-delivery-service/internal/platform/db"
	"courier-delivery-service/internal/platform/logging"
	"database/sql"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/joho/godotenv"
)

func main() {
	if err := godotenv.Load(); err != nil {
		slog.Info("No .env file found (using environment variables)")
	}

	schemaOnly := flag.Bool("schema-only", false, "create tables without loading seed data")
	flag.Parse()

	logger := logging.New(logging.Config{Level: config.Get("LOG_LEVEL", "info"), ServiceName: "dbtool"})

	databaseURL := config.Get("DATABASE_URL", "")
	if databaseURL == "" {
		logger.Error("DATABASE_URL is required")
		os.Exit(1)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	sqlDB, err := db.Open(ctx, databaseURL, db.DefaultPool)
	if err != nil {
		logger.Error("open database", "err", err)
		os.Exit(1)
	}
	defer sqlDB.Close()

	seedPath := config.Get("SEED_PATH", "data/seeds/reference.json")
	if *schemaOnly {
		seedPath = ""
	}
	if err := initAndSeed(ctx, logger, sqlDB, seedPath); err != nil {
		logger.Error("dbtool failed", "err", err)
		os.Exit(1)
	}
}

func initAndSeed(ctx context.Context, logger *slog.Logger, sqlDB *sql.DB, seedPath string) error {
	logger.Info("initializing database schema")
	if err := repositories.InitSchema(ctx, sqlDB); err != nil {
		return fmt.Errorf("schema initialization failed: %w", err)
	}
	logger.Info("schema ready")

	if seedPath == "" {
		return nil
	}

	logger.Info("seeding database", "seed", seedPath)
	data, err := repositories.LoadSeed(seedPath)
	if err != nil {
		return fmt.Errorf("seeding failed: %w", err)
	}
	if err := repositories.SeedPostgres(ctx, sqlDB, data); err != nil {
		return fmt.Errorf("seeding failed: %w", err)
	}
	logger.Info("seeding complete",
		"users", len(data.Users), "vehicles", len(data.Vehicles), "products", len(data.Products))
	return nil
}
