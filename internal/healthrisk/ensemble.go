// Package healthrisk scores per-symptom risk with independently trained binary classifiers.
package healthrisk

import (
	"fmt"
	"math"
	"sort"

	"github.com/delhiaqi/backend/internal/domain"
	"github.com/delhiaqi/backend/internal/features"
	"github.com/delhiaqi/backend/internal/model"
	"github.com/delhiaqi/backend/pkg/utils"
)

// ModelName identifies the ensemble in ModelUnavailableError
const ModelName = "health risk"

// Cut points between risk tiers
const (
	ModerateThreshold = 0.33
	HighThreshold     = 0.67
)

// Ensemble maps symptom names to classifiers sharing one feature ordering. Read-only after construction.
type Ensemble struct {
	featureNames []string
	classifiers  map[string]model.Classifier
	symptoms     []string
}

// NewEnsemble checks the artifact's feature ordering against the health risk vector
func NewEnsemble(featureNames []string, classifiers map[string]model.Classifier) (*Ensemble, error) {
	if len(featureNames) != features.HealthRiskVectorLen {
		return nil, fmt.Errorf("healthrisk: ensemble declares %d features, want %d", len(featureNames), features.HealthRiskVectorLen)
	}
	for i, name := range featureNames {
		if name != features.HealthRiskFeatureNames[i] {
			return nil, fmt.Errorf("healthrisk: feature %d is %q, want %q", i, name, features.HealthRiskFeatureNames[i])
		}
	}
	if len(classifiers) == 0 {
		return nil, fmt.Errorf("healthrisk: ensemble has no classifiers")
	}

	symptoms := make([]string, 0, len(classifiers))
	owned := make(map[string]model.Classifier, len(classifiers))
	for name, c := range classifiers {
		if c == nil {
			return nil, fmt.Errorf("healthrisk: classifier for %q is nil", name)
		}
		if c.NumFeatures() != features.HealthRiskVectorLen {
			return nil, fmt.Errorf("healthrisk: classifier for %q expects %d features", name, c.NumFeatures())
		}
		owned[name] = c
		symptoms = append(symptoms, name)
	}
	sort.Strings(symptoms)

	return &Ensemble{
		featureNames: append([]string(nil), featureNames...),
		classifiers:  owned,
		symptoms:     symptoms,
	}, nil
}

// Load reads and validates an ensemble artifact. Every failure is a *domain.ModelUnavailableError.
func Load(path string) (*Ensemble, error) {
	names, classifiers, err := model.LoadEnsemble(path)
	if err != nil {
		return nil, &domain.ModelUnavailableError{Model: ModelName, Err: err}
	}
	e, err := NewEnsemble(names, classifiers)
	if err != nil {
		return nil, &domain.ModelUnavailableError{Model: ModelName, Err: err}
	}
	return e, nil
}

// Symptoms returns the symptom names in sorted order
func (e *Ensemble) Symptoms() []string {
	return append([]string(nil), e.symptoms...)
}

// FeatureNames returns the training feature ordering
func (e *Ensemble) FeatureNames() []string {
	return append([]string(nil), e.featureNames...)
}

// LevelFor maps a probability onto its risk tier
func LevelFor(p float64) domain.RiskLevel {
	switch {
	case p < ModerateThreshold:
		return domain.RiskLow
	case p < HighThreshold:
		return domain.RiskModerate
	default:
		return domain.RiskHigh
	}
}

// Assess scores each symptom independently. A nil ensemble yields *domain.ModelUnavailableError,
// which callers treat as "omit health risks" rather than a request failure.
func Assess(v features.HealthRiskVector, e *Ensemble) (map[string]domain.RiskAssessment, error) {
	if e == nil {
		return nil, &domain.ModelUnavailableError{Model: ModelName}
	}

	x := v.Slice()
	out := make(map[string]domain.RiskAssessment, len(e.symptoms))
	for _, name := range e.symptoms {
		proba, err := e.classifiers[name].PredictProba(x)
		if err != nil {
			return nil, &domain.ModelUnavailableError{Model: ModelName, Err: fmt.Errorf("symptom %q: %w", name, err)}
		}
		if math.IsNaN(proba[1]) {
			return nil, &domain.ModelUnavailableError{Model: ModelName, Err: fmt.Errorf("symptom %q: probability is NaN", name)}
		}
		p := utils.Clamp(proba[1], 0, 1)
		out[name] = domain.RiskAssessment{
			Probability: p,
			RiskLevel:   LevelFor(p),
		}
	}
	return out, nil
}
