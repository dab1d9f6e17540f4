package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"github.com/delhiaqi/backend/internal/domain"
	"github.com/delhiaqi/backend/pkg/utils"
)

const (
	defaultTelemetryTimeout = 10 * time.Second
	defaultAQIModelPath     = "models/aqi_model.json"
	defaultHealthModelPath  = "models/health_risk_model.json"

	// MaxLocationOffsetKm bounds how far DELHI_LAT/DELHI_LON may move from the city centre;
	// the models are trained on Delhi readings only.
	MaxLocationOffsetKm = 50.0
)

// Config holds runtime configuration for the server and CLI
type Config struct {
	OpenWeatherAPIKey  string
	OpenWeatherBaseURL string
	Latitude           float64
	Longitude          float64
	TelemetryTimeout   time.Duration

	AQIModelPath        string
	HealthRiskModelPath string

	DatabaseURL string
	SQLitePath  string

	Port string
	Env  string
}

// Load reads configuration from environment variables, optionally seeded from .env files.
// .env.local takes precedence over .env; neither is required.
func Load() (Config, error) {
	localErr := godotenv.Load(".env.local")
	if err := godotenv.Load(); err != nil && localErr != nil {
		log.Println("No .env file found, using system environment")
	}

	cfg := Config{
		OpenWeatherAPIKey:   strings.TrimSpace(os.Getenv("OPENWEATHER_API_KEY")),
		OpenWeatherBaseURL:  getEnv("OPENWEATHER_BASE_URL", ""),
		AQIModelPath:        getEnv("AQI_MODEL_PATH", defaultAQIModelPath),
		HealthRiskModelPath: getEnv("HEALTH_RISK_MODEL_PATH", defaultHealthModelPath),
		DatabaseURL:         getEnv("DATABASE_URL", ""),
		SQLitePath:          getEnv("SQLITE_PATH", ""),
		Port:                getEnv("PORT", "5000"),
		Env:                 getEnv("GO_ENV", "development"),
	}

	var err error
	if cfg.Latitude, err = getEnvFloat("DELHI_LAT", domain.DelhiCenterLat); err != nil {
		return cfg, err
	}
	if cfg.Longitude, err = getEnvFloat("DELHI_LON", domain.DelhiCenterLon); err != nil {
		return cfg, err
	}

	if d := utils.DistanceKm(domain.DelhiCenterLat, domain.DelhiCenterLon, cfg.Latitude, cfg.Longitude); d > MaxLocationOffsetKm {
		return cfg, fmt.Errorf("location (%.4f, %.4f) is %.0f km outside Delhi", cfg.Latitude, cfg.Longitude, d)
	}

	cfg.TelemetryTimeout = defaultTelemetryTimeout
	if v := strings.TrimSpace(os.Getenv("TELEMETRY_TIMEOUT")); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return cfg, fmt.Errorf("invalid TELEMETRY_TIMEOUT: %w", err)
		}
		cfg.TelemetryTimeout = d
	}

	return cfg, nil
}

func getEnv(key, defaultValue string) string {
	if value := strings.TrimSpace(os.Getenv(key)); value != "" {
		return value
	}
	return defaultValue
}

func getEnvFloat(key string, defaultValue float64) (float64, error) {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return defaultValue, nil
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return f, nil
}
