package model

import (
	"math"
	"os"
	"path/filepath"
	"testing"
)

// stump splits on feature 0 at 10: left leaf 1, right leaf 3
func stump() Tree {
	return Tree{Nodes: []Node{
		{Feature: 0, Threshold: 10, Left: 1, Right: 2},
		{Left: -1, Right: -1, Value: 1},
		{Left: -1, Right: -1, Value: 3},
	}}
}

func TestLinearRegressionPredict(t *testing.T) {
	m, err := NewLinearRegression(1, []float64{2, -1})
	if err != nil {
		t.Fatalf("NewLinearRegression: %v", err)
	}
	got, err := m.Predict([]float64{3, 4})
	if err != nil {
		t.Fatalf("Predict: %v", err)
	}
	if got != 3 {
		t.Errorf("Predict = %v, want 3", got)
	}
	if _, err := m.Predict([]float64{1}); err == nil {
		t.Error("expected width error")
	}
}

func TestLogisticRegressionProbabilities(t *testing.T) {
	m, err := NewLogisticRegression(0, []float64{1})
	if err != nil {
		t.Fatalf("NewLogisticRegression: %v", err)
	}
	p, err := m.PredictProba([]float64{0})
	if err != nil {
		t.Fatalf("PredictProba: %v", err)
	}
	if p[1] != 0.5 || p[0] != 0.5 {
		t.Errorf("PredictProba(0) = %v, want [0.5 0.5]", p)
	}
	p, _ = m.PredictProba([]float64{100})
	if p[1] < 0.99 || math.Abs(p[0]+p[1]-1) > 1e-12 {
		t.Errorf("PredictProba(100) = %v", p)
	}
}

func TestRandomForestSplitIsInclusive(t *testing.T) {
	m, err := NewRandomForestRegressor([]Tree{stump(), stump()}, 1)
	if err != nil {
		t.Fatalf("NewRandomForestRegressor: %v", err)
	}
	tests := []struct {
		x    float64
		want float64
	}{
		{9, 1},
		{10, 1},
		{10.5, 3},
	}
	for _, tt := range tests {
		got, err := m.Predict([]float64{tt.x})
		if err != nil {
			t.Fatalf("Predict(%v): %v", tt.x, err)
		}
		if got != tt.want {
			t.Errorf("Predict(%v) = %v, want %v", tt.x, got, tt.want)
		}
	}
}

func TestBoostedSplitIsStrict(t *testing.T) {
	m, err := NewGradientBoostedClassifier(0, []Tree{stump()}, 1)
	if err != nil {
		t.Fatalf("NewGradientBoostedClassifier: %v", err)
	}
	p, _ := m.PredictProba([]float64{10})
	if want := sigmoid(3); math.Abs(p[1]-want) > 1e-12 {
		t.Errorf("PredictProba(10)[1] = %v, want %v", p[1], want)
	}
	p, _ = m.PredictProba([]float64{9.99})
	if want := sigmoid(1); math.Abs(p[1]-want) > 1e-12 {
		t.Errorf("PredictProba(9.99)[1] = %v, want %v", p[1], want)
	}
}

func TestTreeValidation(t *testing.T) {
	tests := []struct {
		name string
		tree Tree
	}{
		{"empty", Tree{}},
		{"self loop", Tree{Nodes: []Node{{Feature: 0, Left: 0, Right: 0}}}},
		{"child out of range", Tree{Nodes: []Node{{Feature: 0, Left: 1, Right: 5}, {Left: -1}}}},
		{"feature out of range", Tree{Nodes: []Node{{Feature: 3, Left: 1, Right: 2}, {Left: -1}, {Left: -1}}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := NewRandomForestRegressor([]Tree{tt.tree}, 1); err == nil {
				t.Error("expected validation error")
			}
		})
	}
}

func TestDecodeRegressorKinds(t *testing.T) {
	lin := `{"type":"linear_regression","intercept":2,"coefficients":[1,1]}`
	r, err := DecodeRegressor([]byte(lin))
	if err != nil {
		t.Fatalf("DecodeRegressor: %v", err)
	}
	if r.NumFeatures() != 2 {
		t.Errorf("NumFeatures = %d, want 2", r.NumFeatures())
	}

	if _, err := DecodeRegressor([]byte(`{"type":"logistic_regression","coefficients":[1]}`)); err == nil {
		t.Error("classifier kind accepted as regressor")
	}
	if _, err := DecodeRegressor([]byte(`not json`)); err == nil {
		t.Error("expected decode error")
	}
}

func TestLoadEnsembleFromDisk(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "health_risk_model.json")
	body := `{
		"feature_names": ["age","aqi_category","gender_enc","income_enc","parent_enc","concern_level"],
		"models": {
			"cough": {"type":"logistic_regression","intercept":-1,"coefficients":[0,0.5,0,0,0,0]},
			"headache": {"type":"gradient_boosted_classifier","n_features":6,"base_margin":0,
				"trees":[{"nodes":[{"feature":1,"threshold":2.5,"left":1,"right":2},{"left":-1,"value":-0.5},{"left":-1,"value":0.5}]}]}
		}
	}`
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	names, classifiers, err := LoadEnsemble(path)
	if err != nil {
		t.Fatalf("LoadEnsemble: %v", err)
	}
	if len(names) != 6 {
		t.Errorf("feature names = %v", names)
	}
	if len(classifiers) != 2 {
		t.Fatalf("classifiers = %d, want 2", len(classifiers))
	}
	p, err := classifiers["headache"].PredictProba([]float64{30, 3, 1, 2, 0, 5})
	if err != nil {
		t.Fatalf("PredictProba: %v", err)
	}
	if want := sigmoid(0.5); math.Abs(p[1]-want) > 1e-12 {
		t.Errorf("headache p = %v, want %v", p[1], want)
	}

	if _, _, err := LoadEnsemble(filepath.Join(dir, "missing.json")); err == nil {
		t.Error("expected error for missing file")
	}
}
