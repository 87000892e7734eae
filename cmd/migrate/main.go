package main

import (
	"context"
	"log"

	"academic-management-api/config"
	"academic-management-api/models"
	"academic-management-api/services"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("invalid configuration: %v", err)
	}
	logFile, logger := config.InitLogging(cfg.Log.Level)
	if logFile != nil {
		defer logFile.Close()
	}
	defer logger.Sync()

	config.InitDB()

	if err := config.DB.AutoMigrate(models.All()...); err != nil {
		logger.Fatal("migration failed", zap.Error(err))
	}
	seed, err := services.EnsureSeedData(context.Background(), config.DB)
	if err != nil {
		logger.Fatal("seeding failed", zap.Error(err))
	}

	logger.Info("database ready",
		zap.Int("tables", len(models.All())),
		zap.String("default_country", seed.DefaultCountry.Code))
}
