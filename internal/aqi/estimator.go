// Package aqi estimates the air quality index from an AQI feature vector and
// buckets it into the ordinal category consumed by the health risk ensemble.
package aqi

import (
	"fmt"
	"math"

	"github.com/delhiaqi/backend/internal/features"
	"github.com/delhiaqi/backend/internal/model"
)

// Estimator wraps a loaded AQI regressor
type Estimator struct {
	regressor model.Regressor
}

// NewEstimator rejects regressors that were not trained on the AQI vector width
func NewEstimator(r model.Regressor) (*Estimator, error) {
	if r == nil {
		return nil, fmt.Errorf("aqi: regressor is nil")
	}
	if n := r.NumFeatures(); n != features.AQIVectorLen {
		return nil, fmt.Errorf("aqi: regressor expects %d features, vector has %d", n, features.AQIVectorLen)
	}
	return &Estimator{regressor: r}, nil
}

// Estimate returns the predicted AQI. No retries.
func (e *Estimator) Estimate(v features.AQIVector) (float64, error) {
	y, err := e.regressor.Predict(v.Slice())
	if err != nil {
		return 0, fmt.Errorf("aqi: estimate failed: %w", err)
	}
	if math.IsNaN(y) || math.IsInf(y, 0) {
		return 0, fmt.Errorf("aqi: regressor returned non-finite value %v", y)
	}
	return y, nil
}
