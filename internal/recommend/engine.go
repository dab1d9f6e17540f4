// Package recommend turns a predicted AQI and a few user attributes into ordered advice text.
package recommend

import (
	"fmt"
	"strings"
)

// Band is one of the six EPA-style AQI bands used for advice.
// It is independent of aqi.Category, which feeds the classifiers.
type Band string

const (
	BandGood                  Band = "Good"
	BandModerate              Band = "Moderate"
	BandUnhealthyForSensitive Band = "Unhealthy for Sensitive Groups"
	BandUnhealthy             Band = "Unhealthy"
	BandVeryUnhealthy         Band = "Very Unhealthy"
	BandHazardous             Band = "Hazardous"
)

// PrecautionThreshold is the AQI above which universal precautions are added
const PrecautionThreshold = 150

var bandAdvice = map[Band]string{
	BandGood:                  "Air quality is good. Normal activities OK.",
	BandModerate:              "Unusually sensitive people should reduce prolonged outdoor exertion.",
	BandUnhealthyForSensitive: "Sensitive groups should reduce outdoor exertion.",
	BandUnhealthy:             "Everyone should reduce prolonged outdoor exertion.",
	BandVeryUnhealthy:         "Everyone should avoid prolonged outdoor exertion.",
	BandHazardous:             "STAY INDOORS! Health warning of emergency conditions.",
}

// Advisory lines
const (
	ChildrenAdvisory = "CHILDREN: Avoid outdoor activities, stay in well-ventilated indoor spaces."
	TeensAdvisory    = "TEENS: No outdoor sports or heavy exercise."
	SeniorsAdvisory  = "SENIORS: Stay indoors, use air purifier if available."

	MaskPrecaution   = "Wear N95 or KN95 mask if you must go outside."
	SealedPrecaution = "Keep windows closed, use air purifier indoors."

	UnderestimatedRiskWarning = "WARNING: Air quality is actually UNHEALTHY, but your concern is low. You should take this seriously and follow the recommendations above!"
	OverestimatedRiskNote     = "Good news: Air quality is better than you think! Your concern is high, but today's air is moderate. You can relax a bit."
)

// BlockKind labels a section of the report
type BlockKind string

const (
	BlockBand        BlockKind = "band"
	BlockAge         BlockKind = "age"
	BlockPrecautions BlockKind = "precautions"
	BlockConcern     BlockKind = "concern"
	BlockMismatch    BlockKind = "mismatch"
	BlockRespiratory BlockKind = "respiratory"
)

// Block is a group of advice lines emitted by one rule
type Block struct {
	Kind  BlockKind
	Lines []string
}

// Report is the ordered advice for one request
type Report struct {
	Band   Band
	AQI    float64
	Blocks []Block
}

// BandFor classifies an AQI value; each upper bound is inclusive
func BandFor(aqi float64) Band {
	switch {
	case aqi <= 50:
		return BandGood
	case aqi <= 100:
		return BandModerate
	case aqi <= 150:
		return BandUnhealthyForSensitive
	case aqi <= 200:
		return BandUnhealthy
	case aqi <= 300:
		return BandVeryUnhealthy
	default:
		return BandHazardous
	}
}

// AgeAdvisory returns the single advisory for an age, or "" when none applies
func AgeAdvisory(age int) string {
	switch {
	case age < 12:
		return ChildrenAdvisory
	case age < 18:
		return TeensAdvisory
	case age >= 60:
		return SeniorsAdvisory
	default:
		return ""
	}
}

// Recommend runs the rules in fixed order: band, age, precautions, concern, respiratory.
// Nothing is reordered or deduplicated.
func Recommend(age int, aqi float64, opts ...Option) Report {
	o := options{}
	for _, opt := range opts {
		opt(&o)
	}

	band := BandFor(aqi)
	r := Report{Band: band, AQI: aqi}
	r.add(BlockBand, bandAdvice[band])

	if line := AgeAdvisory(age); line != "" {
		r.add(BlockAge, line)
	}

	if aqi > PrecautionThreshold {
		r.add(BlockPrecautions, MaskPrecaution, SealedPrecaution)
	}

	if o.concernScore != nil {
		score := *o.concernScore
		r.add(BlockConcern, concernBlock(score, age, o)...)
		if line := mismatchLine(score, aqi); line != "" {
			r.add(BlockMismatch, line)
		}
	}

	if o.respiratory != nil && *o.respiratory {
		r.add(BlockRespiratory,
			"RESPIRATORY HEALTH ALERT:",
			"- Keep your inhaler with you at all times",
			"- Avoid outdoor exercise completely",
			"- Use air purifier indoors if available",
		)
	}

	return r
}

func (r *Report) add(kind BlockKind, lines ...string) {
	r.Blocks = append(r.Blocks, Block{Kind: kind, Lines: lines})
}

// mismatchLine flags a concern score far from the measured risk
func mismatchLine(score int, aqi float64) string {
	switch {
	case score < 4 && aqi > 200:
		return UnderestimatedRiskWarning
	case score > 7 && aqi < 100:
		return OverestimatedRiskNote
	default:
		return ""
	}
}

// Text renders the report with a category header; the band and age lines share the first paragraph
func (r Report) Text() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "\nAQI Category: %s (AQI: %d)\n\n", r.Band, int(r.AQI))

	for i, b := range r.Blocks {
		if i > 0 {
			switch b.Kind {
			case BlockAge, BlockPrecautions:
				sb.WriteString("\n")
			default:
				sb.WriteString("\n\n")
			}
		}
		sb.WriteString(strings.Join(b.Lines, "\n"))
	}
	return sb.String()
}
