package domain

import "time"

// PollutantReading holds pollutant concentrations in µg/m³
type PollutantReading struct {
	PM25 float64 `json:"PM25"`
	PM10 float64 `json:"PM10"`
	NO2  float64 `json:"NO2"`
	SO2  float64 `json:"SO2"`
	CO   float64 `json:"CO"`
	O3   float64 `json:"O3"`
}

// WeatherReading holds surface weather conditions
type WeatherReading struct {
	Temperature float64 `json:"temp"`
	Humidity    float64 `json:"humidity"`
	Pressure    float64 `json:"pressure"`
	WindSpeed   float64 `json:"wind_speed"`
}

// Observation pairs one pollutant and one weather reading fetched for the same request.
// A nil half means the reading is missing.
type Observation struct {
	Pollutants *PollutantReading `json:"pollutants"`
	Weather    *WeatherReading   `json:"weather"`
	FetchedAt  time.Time         `json:"fetched_at"`
}

// TemporalContext is the calendar part of the AQI feature vector
type TemporalContext struct {
	Month     int
	Day       int
	IsFestive int
}

// DelhiLocation is India Standard Time; India observes no daylight saving
var DelhiLocation = time.FixedZone("IST", 5*3600+30*60)

// NewTemporalContext derives the context from wall-clock time in Delhi,
// whatever the host timezone. IsFestive is always 0: there is no festival calendar source.
func NewTemporalContext(now time.Time) TemporalContext {
	now = now.In(DelhiLocation)
	return TemporalContext{
		Month:     int(now.Month()),
		Day:       now.Day(),
		IsFestive: 0,
	}
}

// Delhi coordinates used for telemetry lookups
const (
	DelhiCenterLat = 28.7041
	DelhiCenterLon = 77.1025
)
