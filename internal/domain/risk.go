package domain

// RiskLevel is the discrete tier derived from a classifier probability
type RiskLevel string

const (
	RiskLow      RiskLevel = "LOW"
	RiskModerate RiskLevel = "MODERATE"
	RiskHigh     RiskLevel = "HIGH"
)

// Symptom names used as ensemble keys
const (
	SymptomRespiratoryDifficulties = "respiratory_difficulties"
	SymptomCough                   = "cough"
	SymptomHeadache                = "headache"
	SymptomMissedSchoolOrWork      = "missed_school_or_work"
)

// RiskAssessment is the per-symptom output of the health risk ensemble
type RiskAssessment struct {
	Probability float64   `json:"probability"`
	RiskLevel   RiskLevel `json:"risk_level"`
}
