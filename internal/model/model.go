// Package model defines the predictor capabilities the pipeline depends on and
// decodes pre-trained artifacts into implementations of them.
package model

import (
	"fmt"
	"math"
)

// Regressor maps a fixed-width feature vector to a scalar
type Regressor interface {
	Predict(x []float64) (float64, error)
	NumFeatures() int
}

// Classifier maps a fixed-width feature vector to [P(negative), P(positive)]
type Classifier interface {
	PredictProba(x []float64) ([2]float64, error)
	NumFeatures() int
}

func checkWidth(x []float64, n int) error {
	if len(x) != n {
		return fmt.Errorf("model: expected %d features, got %d", n, len(x))
	}
	return nil
}

func sigmoid(z float64) float64 {
	return 1 / (1 + math.Exp(-z))
}

func binary(p float64) [2]float64 {
	return [2]float64{1 - p, p}
}
