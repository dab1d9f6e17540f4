package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/delhiaqi/backend/internal/aqi"
	"github.com/delhiaqi/backend/internal/config"
	"github.com/delhiaqi/backend/internal/delivery/http"
	"github.com/delhiaqi/backend/internal/healthrisk"
	"github.com/delhiaqi/backend/internal/model"
	"github.com/delhiaqi/backend/internal/repository/postgres"
	"github.com/delhiaqi/backend/internal/repository/sqlite"
	"github.com/delhiaqi/backend/internal/service"
)

func main() {
	// Configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}
	if cfg.OpenWeatherAPIKey == "" {
		log.Println("Warning: OPENWEATHER_API_KEY is not set, predictions will fail")
	}

	// Models are loaded once and shared read-only by all requests
	regressor, err := model.LoadRegressor(cfg.AQIModelPath)
	if err != nil {
		log.Fatalf("Could not load AQI model: %v", err)
	}
	estimator, err := aqi.NewEstimator(regressor)
	if err != nil {
		log.Fatalf("Invalid AQI model: %v", err)
	}
	log.Printf("Loaded AQI model from %s", cfg.AQIModelPath)

	ensemble, err := healthrisk.Load(cfg.HealthRiskModelPath)
	if err != nil {
		log.Printf("Warning: %v", err)
		log.Println("Running without health risk predictions")
		ensemble = nil
	} else {
		log.Printf("Loaded health risk model with %d symptoms", len(ensemble.Symptoms()))
	}

	// Dependency Injection: Repositories
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	repo := openRepository(ctx, cfg)
	cancel()
	defer repo.Close()

	// Dependency Injection: Services
	telemetrySvc := service.NewTelemetryService(
		cfg.OpenWeatherAPIKey,
		cfg.OpenWeatherBaseURL,
		cfg.Latitude,
		cfg.Longitude,
		cfg.TelemetryTimeout,
	)
	predictionSvc := service.NewPredictionService(telemetrySvc, estimator, ensemble, service.WithRepository(repo))

	// Fiber App
	app := fiber.New(fiber.Config{
		AppName:      "Delhi AQI Predictor API v1.0",
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
		ErrorHandler: http.ErrorHandler,
	})

	// Middleware
	app.Use(recover.New())
	app.Use(logger.New(logger.Config{
		Format: "[${time}] ${status} - ${method} ${path} (${latency})\n",
	}))
	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowMethods: "GET,POST,OPTIONS",
		AllowHeaders: "Origin,Content-Type,Accept",
	}))

	// Routes
	http.SetupRoutes(app, predictionSvc)

	// Graceful shutdown
	go func() {
		log.Printf("Server starting on :%s", cfg.Port)
		if err := app.Listen(":" + cfg.Port); err != nil {
			log.Fatalf("Server error: %v", err)
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down server...")
	if err := app.ShutdownWithTimeout(5 * time.Second); err != nil {
		log.Printf("Server forced to shutdown: %v", err)
	}
	predictionSvc.WaitBackground()
	log.Println("Server exited gracefully")
}

// openRepository picks PostgreSQL, then SQLite, then the in-memory mock
func openRepository(ctx context.Context, cfg config.Config) service.PredictionRepository {
	if cfg.DatabaseURL != "" {
		pool, err := pgxpool.New(ctx, cfg.DatabaseURL)
		if err == nil {
			err = pool.Ping(ctx)
		}
		if err != nil {
			log.Printf("Warning: Could not connect to database: %v", err)
			if pool != nil {
				pool.Close()
			}
		} else {
			repo := postgres.NewPostgresRepository(pool)
			if err := repo.EnsureSchema(ctx); err != nil {
				log.Printf("Warning: Could not create schema: %v", err)
				repo.Close()
			} else {
				log.Println("Connected to PostgreSQL")
				return repo
			}
		}
	}

	if cfg.SQLitePath != "" {
		repo, err := sqlite.Open(ctx, cfg.SQLitePath)
		if err != nil {
			log.Printf("Warning: Could not open SQLite database: %v", err)
		} else {
			log.Printf("Logging predictions to SQLite at %s", cfg.SQLitePath)
			return repo
		}
	}

	log.Println("Logging predictions in memory only")
	return postgres.NewMockRepository()
}
