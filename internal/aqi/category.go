package aqi

// Category is the 1-4 ordinal bucket used as a classifier feature.
// It is deliberately not the EPA six-band scale used for advice.
type Category int

const (
	CategoryLow      Category = 1
	CategoryElevated Category = 2
	CategoryHigh     Category = 3
	CategorySevere   Category = 4
)

// Categorize buckets an AQI value; each upper bound belongs to the lower band
func Categorize(aqi float64) Category {
	switch {
	case aqi <= 100:
		return CategoryLow
	case aqi <= 200:
		return CategoryElevated
	case aqi <= 300:
		return CategoryHigh
	default:
		return CategorySevere
	}
}
