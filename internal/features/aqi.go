// Package features builds the fixed-order numeric vectors consumed by the trained models.
// Field order is a contract with the artifacts: reordering silently corrupts predictions.
package features

import (
	"math"

	"github.com/delhiaqi/backend/internal/domain"
)

// AQIVectorLen is the width of the AQI regressor input
const AQIVectorLen = 13

// AQIVector is the AQI regressor input in training order
type AQIVector [AQIVectorLen]float64

// AQIFeatureNames lists the AQI vector fields in order
var AQIFeatureNames = [AQIVectorLen]string{
	"pm25", "pm10", "o3", "no2", "so2", "co",
	"temp", "humidity", "wind_speed", "precipitation",
	"month", "day", "is_festive",
}

// Precipitation is never supplied by the gateway and is always fed as zero
const Precipitation = 0.0

// BuildAQI assembles the AQI vector from an observation and its temporal context.
// The first missing reading is reported as a *domain.MissingFeatureError.
func BuildAQI(obs domain.Observation, tc domain.TemporalContext) (AQIVector, error) {
	if obs.Pollutants == nil {
		return AQIVector{}, &domain.MissingFeatureError{Field: "pollutants"}
	}
	if obs.Weather == nil {
		return AQIVector{}, &domain.MissingFeatureError{Field: "weather"}
	}

	p, w := obs.Pollutants, obs.Weather
	v := AQIVector{
		p.PM25, p.PM10, p.O3, p.NO2, p.SO2, p.CO,
		w.Temperature, w.Humidity, w.WindSpeed,
		Precipitation,
		float64(tc.Month), float64(tc.Day), float64(tc.IsFestive),
	}

	for i, x := range v {
		if math.IsNaN(x) {
			return AQIVector{}, &domain.MissingFeatureError{Field: AQIFeatureNames[i]}
		}
	}

	return v, nil
}

// Slice returns the vector as a fresh slice for predictors
func (v AQIVector) Slice() []float64 {
	out := make([]float64, len(v))
	copy(out, v[:])
	return out
}
