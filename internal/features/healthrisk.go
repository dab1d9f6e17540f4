package features

import "github.com/delhiaqi/backend/internal/domain"

// HealthRiskVectorLen is the width of the symptom classifier input
const HealthRiskVectorLen = 6

// HealthRiskVector is the symptom classifier input in training order
type HealthRiskVector [HealthRiskVectorLen]float64

// HealthRiskFeatureNames lists the health risk vector fields in order.
// Ensemble artifacts must declare exactly this list.
var HealthRiskFeatureNames = [HealthRiskVectorLen]string{
	"age", "aqi_category", "gender_enc", "income_enc", "parent_enc", "concern_level",
}

// Defaults for the fields the serving path does not collect.
// Approximations of the training distribution (middle income, moderate concern),
// not verified against the artifact.
const (
	DefaultIncomeEnc    = 2
	DefaultConcernLevel = 5
)

// HealthRiskOverrides optionally replaces the defaulted fields
type HealthRiskOverrides struct {
	IncomeEnc    *int
	ConcernLevel *int
}

// BuildHealthRisk assembles the classifier input from a profile and an AQI category (1-4)
func BuildHealthRisk(p domain.UserProfile, category int, o HealthRiskOverrides) HealthRiskVector {
	income := DefaultIncomeEnc
	if o.IncomeEnc != nil {
		income = *o.IncomeEnc
	}
	concern := DefaultConcernLevel
	if o.ConcernLevel != nil {
		concern = *o.ConcernLevel
	}

	return HealthRiskVector{
		float64(p.Age),
		float64(category),
		float64(p.GenderEnc),
		float64(income),
		float64(p.ParentEnc),
		float64(concern),
	}
}

// Slice returns the vector as a fresh slice for predictors
func (v HealthRiskVector) Slice() []float64 {
	out := make([]float64, len(v))
	copy(out, v[:])
	return out
}
