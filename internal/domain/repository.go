package domain

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Prediction is the full output of one pipeline run
type Prediction struct {
	ID              uuid.UUID                 `json:"id"`
	Profile         UserProfile               `json:"profile"`
	Observation     Observation               `json:"observation"`
	AQI             float64                   `json:"aqi"`
	AQICategory     int                       `json:"aqi_category"`
	Band            string                    `json:"band"`
	HealthRisks     map[string]RiskAssessment `json:"health_risks,omitempty"`
	HealthRiskNote  string                    `json:"health_risk_note,omitempty"`
	Recommendations string                    `json:"recommendations"`
	Timestamp       time.Time                 `json:"timestamp"`
}

// PredictionLog is the persisted summary of a prediction.
// Only coarse request attributes are stored; concern score and health flags are not.
type PredictionLog struct {
	ID              uuid.UUID `json:"id"`
	Age             int       `json:"age"`
	GenderEnc       int       `json:"gender_enc"`
	ParentEnc       int       `json:"parent_enc"`
	PM25            float64   `json:"pm25"`
	PM10            float64   `json:"pm10"`
	Temperature     float64   `json:"temperature"`
	Humidity        float64   `json:"humidity"`
	AQI             float64   `json:"aqi"`
	AQICategory     int       `json:"aqi_category"`
	Band            string    `json:"band"`
	HealthRiskModel bool      `json:"health_risk_model"`
	CreatedAt       time.Time `json:"created_at"`
}

// NewPredictionLog summarises a prediction for storage
func NewPredictionLog(p Prediction) PredictionLog {
	entry := PredictionLog{
		ID:              p.ID,
		Age:             p.Profile.Age,
		GenderEnc:       p.Profile.GenderEnc,
		ParentEnc:       p.Profile.ParentEnc,
		AQI:             p.AQI,
		AQICategory:     p.AQICategory,
		Band:            p.Band,
		HealthRiskModel: p.HealthRiskNote == "",
		CreatedAt:       p.Timestamp,
	}
	if p.Observation.Pollutants != nil {
		entry.PM25 = p.Observation.Pollutants.PM25
		entry.PM10 = p.Observation.Pollutants.PM10
	}
	if p.Observation.Weather != nil {
		entry.Temperature = p.Observation.Weather.Temperature
		entry.Humidity = p.Observation.Weather.Humidity
	}
	return entry
}

// PredictionRepository defines the interface for prediction log persistence
type PredictionRepository interface {
	// SavePrediction persists a prediction summary
	SavePrediction(ctx context.Context, log PredictionLog) error

	// GetPredictionHistory retrieves summaries created within [from, to], newest first
	GetPredictionHistory(ctx context.Context, from, to time.Time) ([]PredictionLog, error)

	// Health checks storage connectivity
	Health(ctx context.Context) error

	// Close releases the underlying connection
	Close()
}
