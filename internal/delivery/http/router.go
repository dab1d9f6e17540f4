package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/delhiaqi/backend/internal/service"
)

// SetupRoutes configures all HTTP routes
func SetupRoutes(app *fiber.App, predictionSvc *service.PredictionService) {
	handler := NewHandler(predictionSvc)

	// Health check
	app.Get("/health", handler.HealthCheck)

	// Unversioned route kept for existing frontends
	app.Post("/predict", handler.Predict)

	// API v1 routes
	api := app.Group("/api/v1")
	{
		api.Post("/predict", handler.Predict)
		api.Get("/predictions", handler.GetPredictionHistory)
	}
}
