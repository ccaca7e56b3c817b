package main

import (
	"log/slog"
	"os"
	"time"

	"github.com/jobhelper/backend/repository"
	"github.com/jobhelper/backend/services"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func main() {
	// Setup structured logging with JSON format
	log := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(log)

	// Load configuration
	config := services.LoadConfig()

	server := services.NewServer(config)

	// Initialize database connection
	if config.Database.URL != "" {
		db, err := gorm.Open(postgres.Open(config.Database.URL), &gorm.Config{
			Logger: logger.Default.LogMode(gormLogLevel(config.Database.LogLevel)),
		})
		if err != nil {
			slog.Error("Failed to connect to database", "error", err)
			os.Exit(1)
		}

		sqlDB, err := db.DB()
		if err != nil {
			slog.Error("Failed to get database handle", "error", err)
			os.Exit(1)
		}
		sqlDB.SetMaxIdleConns(config.Database.MaxIdleConns)
		sqlDB.SetMaxOpenConns(config.Database.MaxOpenConns)
		sqlDB.SetConnMaxLifetime(time.Hour)

		repo := repository.NewGORMRepository(db)
		if err := repo.AutoMigrate(); err != nil {
			slog.Error("Failed to run migrations", "error", err)
			os.Exit(1)
		}
		slog.Info("Connected to database")

		convRepo := repository.NewConversationRepository(db)
		server.SetDatabase(repo, convRepo, db)

		if config.Database.Seed {
			seeder := services.NewDatabaseSeeder(repo)
			if err := seeder.SeedDatabase(); err != nil {
				slog.Error("Failed to seed database", "error", err)
			}
		}
	} else {
		slog.Warn("Database URL not configured, running without database")
	}

	if err := server.InitializeServices(); err != nil {
		slog.Error("Failed to initialize services", "error", err)
		os.Exit(1)
	}

	server.Start()
}

func gormLogLevel(level string) logger.LogLevel {
	switch level {
	case "info":
		return logger.Info
	case "warn":
		return logger.Warn
	case "error":
		return logger.Error
	default:
		return logger.Silent
	}
}
