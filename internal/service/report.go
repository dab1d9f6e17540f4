package service

import (
	"fmt"
	"sort"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/delhiaqi/backend/internal/domain"
)

// SymptomDisplayName turns "missed_school_or_work" into "Missed School Or Work"
func SymptomDisplayName(symptom string) string {
	return cases.Title(language.English).String(strings.ReplaceAll(symptom, "_", " "))
}

// RiskMarker is the terminal marker for a risk tier
func RiskMarker(level domain.RiskLevel) string {
	switch level {
	case domain.RiskHigh:
		return "[!!!]"
	case domain.RiskModerate:
		return "[!!]"
	default:
		return "[!]"
	}
}

// RenderReport formats a prediction as plain text for terminals
func RenderReport(p domain.Prediction) string {
	var sb strings.Builder

	if pr := p.Observation.Pollutants; pr != nil {
		fmt.Fprintf(&sb, "PM2.5      : %.2f\n", pr.PM25)
		fmt.Fprintf(&sb, "PM10       : %.2f\n", pr.PM10)
		fmt.Fprintf(&sb, "NO2        : %.2f\n", pr.NO2)
		fmt.Fprintf(&sb, "SO2        : %.2f\n", pr.SO2)
		fmt.Fprintf(&sb, "CO         : %.2f\n", pr.CO)
		fmt.Fprintf(&sb, "O3         : %.2f\n", pr.O3)
	}
	if w := p.Observation.Weather; w != nil {
		fmt.Fprintf(&sb, "Temperature: %.1f\n", w.Temperature)
		fmt.Fprintf(&sb, "Humidity   : %.0f\n", w.Humidity)
		fmt.Fprintf(&sb, "Pressure   : %.0f\n", w.Pressure)
		fmt.Fprintf(&sb, "Wind Speed : %.1f\n", w.WindSpeed)
	}

	fmt.Fprintf(&sb, "\nPredicted AQI: %d\n\n", int(p.AQI))

	if p.HealthRiskNote != "" {
		fmt.Fprintf(&sb, "[%s]\n", p.HealthRiskNote)
	} else if len(p.HealthRisks) > 0 {
		sb.WriteString("--- Health Risk Assessment ---\n")
		for _, name := range sortedSymptoms(p.HealthRisks) {
			ra := p.HealthRisks[name]
			fmt.Fprintf(&sb, "%s: %s %s (%.0f%%)\n", SymptomDisplayName(name), RiskMarker(ra.RiskLevel), ra.RiskLevel, ra.Probability*100)
		}
	}

	sb.WriteString(p.Recommendations)
	sb.WriteString("\n")
	return sb.String()
}

// sortedSymptoms lists known symptoms first in their canonical order, then any extras
func sortedSymptoms(risks map[string]domain.RiskAssessment) []string {
	order := []string{
		domain.SymptomRespiratoryDifficulties,
		domain.SymptomCough,
		domain.SymptomHeadache,
		domain.SymptomMissedSchoolOrWork,
	}
	seen := make(map[string]bool, len(order))
	out := make([]string, 0, len(risks))
	for _, name := range order {
		if _, ok := risks[name]; ok {
			out = append(out, name)
			seen[name] = true
		}
	}
	var extras []string
	for name := range risks {
		if !seen[name] {
			extras = append(extras, name)
		}
	}
	sort.Strings(extras)
	return append(out, extras...)
}
