package model

import (
	"encoding/json"
	"fmt"
)

// Artifact kinds understood by the store
const (
	KindLinearRegression    = "linear_regression"
	KindRandomForest        = "random_forest_regressor"
	KindLogisticRegression  = "logistic_regression"
	KindGradientBoostedTree = "gradient_boosted_classifier"
)

// Artifact is the JSON form of one exported model
type Artifact struct {
	Kind         string    `json:"type"`
	NumFeatures  int       `json:"n_features,omitempty"`
	Intercept    float64   `json:"intercept,omitempty"`
	Coefficients []float64 `json:"coefficients,omitempty"`
	BaseMargin   float64   `json:"base_margin,omitempty"`
	Trees        []Tree    `json:"trees,omitempty"`
}

// EnsembleArtifact is the JSON form of the per-symptom classifier package
type EnsembleArtifact struct {
	FeatureNames []string            `json:"feature_names"`
	Models       map[string]Artifact `json:"models"`
}

// Regressor builds the regressor described by the artifact
func (a Artifact) Regressor() (Regressor, error) {
	switch a.Kind {
	case KindLinearRegression:
		return NewLinearRegression(a.Intercept, a.Coefficients)
	case KindRandomForest:
		return NewRandomForestRegressor(a.Trees, a.NumFeatures)
	default:
		return nil, fmt.Errorf("model: %q is not a regressor kind", a.Kind)
	}
}

// Classifier builds the classifier described by the artifact
func (a Artifact) Classifier() (Classifier, error) {
	switch a.Kind {
	case KindLogisticRegression:
		return NewLogisticRegression(a.Intercept, a.Coefficients)
	case KindGradientBoostedTree:
		return NewGradientBoostedClassifier(a.BaseMargin, a.Trees, a.NumFeatures)
	default:
		return nil, fmt.Errorf("model: %q is not a classifier kind", a.Kind)
	}
}

// DecodeRegressor parses a single regressor artifact
func DecodeRegressor(data []byte) (Regressor, error) {
	var a Artifact
	if err := json.Unmarshal(data, &a); err != nil {
		return nil, fmt.Errorf("model: failed to decode artifact: %w", err)
	}
	return a.Regressor()
}

// DecodeEnsemble parses a classifier package into its feature names and per-symptom classifiers
func DecodeEnsemble(data []byte) ([]string, map[string]Classifier, error) {
	var ea EnsembleArtifact
	if err := json.Unmarshal(data, &ea); err != nil {
		return nil, nil, fmt.Errorf("model: failed to decode ensemble: %w", err)
	}
	if len(ea.Models) == 0 {
		return nil, nil, fmt.Errorf("model: ensemble has no models")
	}

	classifiers := make(map[string]Classifier, len(ea.Models))
	for name, a := range ea.Models {
		c, err := a.Classifier()
		if err != nil {
			return nil, nil, fmt.Errorf("model: symptom %q: %w", name, err)
		}
		classifiers[name] = c
	}
	return ea.FeatureNames, classifiers, nil
}
