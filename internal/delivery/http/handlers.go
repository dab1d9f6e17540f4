package http

import (
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/delhiaqi/backend/internal/domain"
	"github.com/delhiaqi/backend/internal/service"
	"github.com/delhiaqi/backend/pkg/utils"
)

// Handler contains all HTTP handlers
type Handler struct {
	predictionSvc *service.PredictionService
}

// NewHandler creates a new handler
func NewHandler(predictionSvc *service.PredictionService) *Handler {
	return &Handler{predictionSvc: predictionSvc}
}

// PredictRequest is the body of POST /predict
type PredictRequest struct {
	Age                 *int  `json:"age"`
	GenderEnc           *int  `json:"gender_enc"`
	ParentEnc           *int  `json:"parent_enc"`
	ConcernScore        *int  `json:"concern_score,omitempty"`
	HasRespiratoryIssue *bool `json:"has_respiratory_issue,omitempty"`
}

// PollutantsResponse carries readings rounded to 2 decimals
type PollutantsResponse struct {
	PM25 float64 `json:"PM25"`
	PM10 float64 `json:"PM10"`
	NO2  float64 `json:"NO2"`
	SO2  float64 `json:"SO2"`
	CO   float64 `json:"CO"`
	O3   float64 `json:"O3"`
}

// WeatherResponse carries weather readings rounded for display
type WeatherResponse struct {
	Temp      float64 `json:"temp"`
	Humidity  float64 `json:"humidity"`
	Pressure  float64 `json:"pressure"`
	WindSpeed float64 `json:"wind_speed"`
}

// PredictResponse is the body returned by POST /predict
type PredictResponse struct {
	ID              string                           `json:"id"`
	AQI             int                              `json:"aqi"`
	AQICategory     int                              `json:"aqi_category"`
	Band            string                           `json:"band"`
	Pollutants      PollutantsResponse               `json:"pollutants"`
	Weather         WeatherResponse                  `json:"weather"`
	HealthRisks     map[string]domain.RiskAssessment `json:"health_risks"`
	HealthRiskNote  string                           `json:"health_risk_note,omitempty"`
	Recommendations string                           `json:"recommendations"`
}

// HealthCheck returns service health status
func (h *Handler) HealthCheck(c *fiber.Ctx) error {
	database := "ok"
	if err := h.predictionSvc.RepositoryHealth(c.UserContext()); err != nil {
		database = "unavailable"
		if errors.Is(err, service.ErrNoRepository) {
			database = "disabled"
		}
	}

	return c.JSON(fiber.Map{
		"status":              "ok",
		"message":             "Delhi AQI Predictor API is running",
		"health_model_loaded": h.predictionSvc.HealthModelLoaded(),
		"database":            database,
	})
}

// Predict runs the full pipeline for one user profile
func (h *Handler) Predict(c *fiber.Ctx) error {
	var req PredictRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
	}

	profile, err := req.profile()
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	}

	pred, err := h.predictionSvc.Predict(c.UserContext(), profile)
	if err != nil {
		var ve *domain.ValidationError
		if errors.As(err, &ve) {
			return fiber.NewError(fiber.StatusBadRequest, ve.Error())
		}
		return fiber.NewError(fiber.StatusInternalServerError, err.Error())
	}

	return c.JSON(newPredictResponse(pred))
}

// GetPredictionHistory returns logged predictions within a time range
func (h *Handler) GetPredictionHistory(c *fiber.Ctx) error {
	hours := c.QueryInt("hours", 24)
	if hours < 1 || hours > 720 { // max 30 days
		hours = 24
	}

	to := time.Now()
	from := to.Add(-time.Duration(hours) * time.Hour)

	data, err := h.predictionSvc.History(c.UserContext(), from, to)
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "Failed to fetch prediction history")
	}
	if data == nil {
		data = []domain.PredictionLog{}
	}

	return c.JSON(fiber.Map{
		"success": true,
		"data":    data,
		"count":   len(data),
	})
}

// profile checks presence of the required fields; ranges are checked by the service
func (r PredictRequest) profile() (domain.UserProfile, error) {
	if r.Age == nil {
		return domain.UserProfile{}, &domain.ValidationError{Field: "age", Reason: "Invalid age. Must be between 1 and 120"}
	}
	if r.GenderEnc == nil {
		return domain.UserProfile{}, &domain.ValidationError{Field: "gender_enc", Reason: "Invalid gender. Must be 0 (Female), 1 (Male), or 2 (Other)"}
	}
	if r.ParentEnc == nil {
		return domain.UserProfile{}, &domain.ValidationError{Field: "parent_enc", Reason: "Invalid parent status. Must be 0 (No) or 1 (Yes)"}
	}
	return domain.UserProfile{
		Age:                 *r.Age,
		GenderEnc:           *r.GenderEnc,
		ParentEnc:           *r.ParentEnc,
		ConcernScore:        r.ConcernScore,
		HasRespiratoryIssue: r.HasRespiratoryIssue,
	}, nil
}

func newPredictResponse(p domain.Prediction) PredictResponse {
	resp := PredictResponse{
		ID:              p.ID.String(),
		AQI:             int(p.AQI),
		AQICategory:     p.AQICategory,
		Band:            p.Band,
		HealthRisks:     p.HealthRisks,
		HealthRiskNote:  p.HealthRiskNote,
		Recommendations: p.Recommendations,
	}
	if resp.HealthRisks == nil {
		resp.HealthRisks = map[string]domain.RiskAssessment{}
	}
	if pr := p.Observation.Pollutants; pr != nil {
		resp.Pollutants = PollutantsResponse{
			PM25: utils.RoundTo(pr.PM25, 2),
			PM10: utils.RoundTo(pr.PM10, 2),
			NO2:  utils.RoundTo(pr.NO2, 2),
			SO2:  utils.RoundTo(pr.SO2, 2),
			CO:   utils.RoundTo(pr.CO, 2),
			O3:   utils.RoundTo(pr.O3, 2),
		}
	}
	if w := p.Observation.Weather; w != nil {
		resp.Weather = WeatherResponse{
			Temp:      utils.RoundTo(w.Temperature, 1),
			Humidity:  w.Humidity,
			Pressure:  w.Pressure,
			WindSpeed: utils.RoundTo(w.WindSpeed, 1),
		}
	}
	return resp
}

// ErrorHandler renders every error as {"error": message}
func ErrorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	message := "Internal Server Error"

	if e, ok := err.(*fiber.Error); ok {
		code = e.Code
		message = e.Message
	}

	return c.Status(code).JSON(fiber.Map{
		"error": message,
	})
}
