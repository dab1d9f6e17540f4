package recommend

import (
	"fmt"
	"strings"
)

// ConcernLevel is the binary classification of a 0-10 concern score
type ConcernLevel string

const (
	ConcernHigh ConcernLevel = "High"
	ConcernLow  ConcernLevel = "Low"
)

// ConcernThreshold is the score above which concern is High
const ConcernThreshold = 5

// SeniorConcernAge is the age from which the concern block adds older-adult guidance
const SeniorConcernAge = 55

type options struct {
	concernScore *int
	respiratory  *bool
	parent       bool
	privacy      bool
}

// Option customises Recommend
type Option func(*options)

// WithConcernScore adds the concern block and the mismatch check
func WithConcernScore(score int) Option {
	return func(o *options) { o.concernScore = &score }
}

// WithRespiratoryIssue records whether the user has respiratory difficulties
func WithRespiratoryIssue(has bool) Option {
	return func(o *options) { o.respiratory = &has }
}

// WithParent adds family guidance to a high concern block
func WithParent(parent bool) Option {
	return func(o *options) { o.parent = parent }
}

// WithPrivacyMode hides personal lines inside the concern block
func WithPrivacyMode(on bool) Option {
	return func(o *options) { o.privacy = on }
}

// ClassifyConcern maps a score to High (>5) or Low
func ClassifyConcern(score int) ConcernLevel {
	if score > ConcernThreshold {
		return ConcernHigh
	}
	return ConcernLow
}

func concernBlock(score, age int, o options) []string {
	level := ClassifyConcern(score)
	hasRespiratory := o.respiratory != nil && *o.respiratory

	lines := []string{
		fmt.Sprintf("--- Report for Concern Score: %d/10 (%s) ---", score, strings.ToUpper(string(level))),
	}

	if level == ConcernHigh {
		lines = append(lines,
			"STATUS: HIGH CONCERN LEVEL",
			"General Actions:",
			"- The perceived pollution risk is high. Assume poor air quality.",
			"- Wear a mask (N95) if heading out.",
		)
		if o.privacy {
			return append(lines, "(Specific health recommendations hidden - Privacy Mode ON)")
		}
		if hasRespiratory {
			lines = append(lines, "HEALTH: You have respiratory issues. High concern levels imply you should stay indoors.")
		}
		if o.parent {
			lines = append(lines, "FAMILY: Prevent children from playing outside until concern levels drop.")
		}
		if age >= SeniorConcernAge {
			lines = append(lines, "SENIOR: High concern warrants strict indoor stay for older adults.")
		}
		return lines
	}

	lines = append(lines,
		"STATUS: LOW CONCERN LEVEL",
		"- Perceived pollution risk is low.",
		"- Standard outdoor activities are likely safe.",
	)
	if !o.privacy && hasRespiratory {
		lines = append(lines, "NOTE: Even with low concern, keep your inhaler nearby just in case.")
	}
	return lines
}
