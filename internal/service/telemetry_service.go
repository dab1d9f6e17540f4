package service

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/delhiaqi/backend/internal/domain"
)

// DefaultOpenWeatherBaseURL is the public OpenWeatherMap API root
const DefaultOpenWeatherBaseURL = "https://api.openweathermap.org"

// TelemetryService fetches pollutant and weather readings from OpenWeatherMap
type TelemetryService struct {
	apiKey     string
	baseURL    string
	lat, lon   float64
	httpClient *http.Client
	now        func() time.Time
}

// NewTelemetryService creates a new telemetry service for a fixed location
func NewTelemetryService(apiKey, baseURL string, lat, lon float64, timeout time.Duration) *TelemetryService {
	if baseURL == "" {
		baseURL = DefaultOpenWeatherBaseURL
	}
	return &TelemetryService{
		apiKey:  apiKey,
		baseURL: strings.TrimRight(baseURL, "/"),
		lat:     lat,
		lon:     lon,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		now: time.Now,
	}
}

// airPollutionResponse is the subset of /data/2.5/air_pollution we read
type airPollutionResponse struct {
	List *[]struct {
		Components struct {
			PM25 *float64 `json:"pm2_5"`
			PM10 *float64 `json:"pm10"`
			NO2  *float64 `json:"no2"`
			SO2  *float64 `json:"so2"`
			CO   *float64 `json:"co"`
			O3   *float64 `json:"o3"`
		} `json:"components"`
	} `json:"list"`
	Message string `json:"message"`
}

// currentWeatherResponse is the subset of /data/2.5/weather we read
type currentWeatherResponse struct {
	Main *struct {
		Temp     *float64 `json:"temp"`
		Humidity *float64 `json:"humidity"`
		Pressure *float64 `json:"pressure"`
	} `json:"main"`
	Wind *struct {
		Speed *float64 `json:"speed"`
	} `json:"wind"`
	Message string `json:"message"`
}

// Fetch retrieves both readings concurrently. Either failure fails the whole observation.
func (s *TelemetryService) Fetch(ctx context.Context) (domain.Observation, error) {
	if s.apiKey == "" {
		return domain.Observation{}, &domain.TelemetryUnavailableError{
			Source: "config",
			Reason: "OPENWEATHER_API_KEY not set in environment variables",
		}
	}

	var (
		pollutants *domain.PollutantReading
		weather    *domain.WeatherReading
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		p, err := s.fetchPollutants(gctx)
		pollutants = p
		return err
	})
	g.Go(func() error {
		w, err := s.fetchWeather(gctx)
		weather = w
		return err
	})
	if err := g.Wait(); err != nil {
		return domain.Observation{}, err
	}

	return domain.Observation{
		Pollutants: pollutants,
		Weather:    weather,
		FetchedAt:  s.now(),
	}, nil
}

func (s *TelemetryService) fetchPollutants(ctx context.Context) (*domain.PollutantReading, error) {
	url := fmt.Sprintf("%s/data/2.5/air_pollution?lat=%.4f&lon=%.4f&appid=%s", s.baseURL, s.lat, s.lon, s.apiKey)

	var resp airPollutionResponse
	if err := s.getJSON(ctx, "air_pollution", url, &resp); err != nil {
		return nil, err
	}

	if resp.List == nil || len(*resp.List) == 0 {
		return nil, apiError("air_pollution", "response has no list", resp.Message)
	}

	c := (*resp.List)[0].Components
	fields := []struct {
		name string
		v    *float64
	}{
		{"pm2_5", c.PM25}, {"pm10", c.PM10}, {"no2", c.NO2},
		{"so2", c.SO2}, {"co", c.CO}, {"o3", c.O3},
	}
	for _, f := range fields {
		if f.v == nil {
			return nil, apiError("air_pollution", "missing component "+f.name, "")
		}
	}

	return &domain.PollutantReading{
		PM25: *c.PM25,
		PM10: *c.PM10,
		NO2:  *c.NO2,
		SO2:  *c.SO2,
		CO:   *c.CO,
		O3:   *c.O3,
	}, nil
}

func (s *TelemetryService) fetchWeather(ctx context.Context) (*domain.WeatherReading, error) {
	url := fmt.Sprintf("%s/data/2.5/weather?lat=%.4f&lon=%.4f&appid=%s&units=metric", s.baseURL, s.lat, s.lon, s.apiKey)

	var resp currentWeatherResponse
	if err := s.getJSON(ctx, "weather", url, &resp); err != nil {
		return nil, err
	}

	if resp.Main == nil {
		return nil, apiError("weather", "response has no main", resp.Message)
	}
	if resp.Wind == nil {
		return nil, apiError("weather", "response has no wind", resp.Message)
	}

	m := resp.Main
	fields := []struct {
		name string
		v    *float64
	}{
		{"main.temp", m.Temp}, {"main.humidity", m.Humidity},
		{"main.pressure", m.Pressure}, {"wind.speed", resp.Wind.Speed},
	}
	for _, f := range fields {
		if f.v == nil {
			return nil, apiError("weather", "missing field "+f.name, "")
		}
	}

	return &domain.WeatherReading{
		Temperature: *m.Temp,
		Humidity:    *m.Humidity,
		Pressure:    *m.Pressure,
		WindSpeed:   *resp.Wind.Speed,
	}, nil
}

// getJSON decodes a 2xx body into out. Error bodies carry an OpenWeather message that is surfaced instead.
func (s *TelemetryService) getJSON(ctx context.Context, source, url string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return &domain.TelemetryUnavailableError{Source: source, Reason: "failed to create request", Err: err}
	}

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return &domain.TelemetryUnavailableError{Source: source, Reason: "request failed", Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		var body struct {
			Message string `json:"message"`
		}
		_ = json.NewDecoder(resp.Body).Decode(&body)
		return apiError(source, fmt.Sprintf("unexpected status %d", resp.StatusCode), body.Message)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return &domain.TelemetryUnavailableError{Source: source, Reason: "failed to decode response", Err: err}
	}
	return nil
}

func apiError(source, reason, message string) error {
	if message != "" {
		reason = fmt.Sprintf("%s: API Error: %s", reason, message)
	}
	return &domain.TelemetryUnavailableError{Source: source, Reason: reason}
}
