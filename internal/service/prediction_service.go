package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/delhiaqi/backend/internal/aqi"
	"github.com/delhiaqi/backend/internal/domain"
	"github.com/delhiaqi/backend/internal/features"
	"github.com/delhiaqi/backend/internal/healthrisk"
	"github.com/delhiaqi/backend/internal/recommend"
)

// TelemetrySource supplies one observation per request
type TelemetrySource interface {
	Fetch(ctx context.Context) (domain.Observation, error)
}

// PredictionService runs the prediction and recommendation pipeline.
// Models are injected at construction and only read afterwards.
type PredictionService struct {
	telemetry TelemetrySource
	estimator *aqi.Estimator
	ensemble  *healthrisk.Ensemble
	repo      PredictionRepository
	now       func() time.Time
	privacy   bool

	wgBg sync.WaitGroup // tracks background goroutines for graceful shutdown
}

// Option customises a PredictionService
type Option func(*PredictionService)

// WithClock overrides the wall clock used for the temporal features
func WithClock(now func() time.Time) Option {
	return func(s *PredictionService) { s.now = now }
}

// WithRepository enables asynchronous prediction logging
func WithRepository(repo PredictionRepository) Option {
	return func(s *PredictionService) { s.repo = repo }
}

// WithPrivacyMode hides personal details from the concern advice
func WithPrivacyMode(on bool) Option {
	return func(s *PredictionService) { s.privacy = on }
}

// NewPredictionService creates a new prediction service. A nil ensemble disables health risks.
func NewPredictionService(
	telemetry TelemetrySource,
	estimator *aqi.Estimator,
	ensemble *healthrisk.Ensemble,
	opts ...Option,
) *PredictionService {
	s := &PredictionService{
		telemetry: telemetry,
		estimator: estimator,
		ensemble:  ensemble,
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// HealthModelLoaded reports whether health risks will be produced
func (s *PredictionService) HealthModelLoaded() bool {
	return s.ensemble != nil
}

// WaitBackground blocks until all background save goroutines complete.
// Call during graceful shutdown to avoid dropped writes.
func (s *PredictionService) WaitBackground() {
	s.wgBg.Wait()
}

// Predict validates the profile, fetches telemetry, estimates AQI, scores health risks
// and builds recommendations. Health risks are omitted, not fatal, when the ensemble is unavailable.
func (s *PredictionService) Predict(ctx context.Context, profile domain.UserProfile) (domain.Prediction, error) {
	if err := profile.Validate(); err != nil {
		return domain.Prediction{}, err
	}

	obs, err := s.telemetry.Fetch(ctx)
	if err != nil {
		var tue *domain.TelemetryUnavailableError
		if !errors.As(err, &tue) {
			err = &domain.TelemetryUnavailableError{Source: "gateway", Reason: "fetch failed", Err: err}
		}
		return domain.Prediction{}, err
	}

	return s.PredictFromObservation(profile, obs)
}

// PredictFromObservation runs the pipeline on an already fetched observation
func (s *PredictionService) PredictFromObservation(profile domain.UserProfile, obs domain.Observation) (domain.Prediction, error) {
	if err := profile.Validate(); err != nil {
		return domain.Prediction{}, err
	}

	now := s.now()
	vec, err := features.BuildAQI(obs, domain.NewTemporalContext(now))
	if err != nil {
		return domain.Prediction{}, err
	}

	value, err := s.estimator.Estimate(vec)
	if err != nil {
		return domain.Prediction{}, fmt.Errorf("prediction: %w", err)
	}
	category := aqi.Categorize(value)

	pred := domain.Prediction{
		ID:          uuid.New(),
		Profile:     profile,
		Observation: obs,
		AQI:         value,
		AQICategory: int(category),
		Timestamp:   now,
	}

	hv := features.BuildHealthRisk(profile, int(category), features.HealthRiskOverrides{})
	risks, err := healthrisk.Assess(hv, s.ensemble)
	var mue *domain.ModelUnavailableError
	switch {
	case err == nil:
		pred.HealthRisks = risks
	case errors.As(err, &mue):
		pred.HealthRiskNote = healthRiskNote(mue)
		log.Printf("Health risks omitted: %v", err)
	default:
		return domain.Prediction{}, fmt.Errorf("prediction: %w", err)
	}

	report := recommend.Recommend(profile.Age, value, s.recommendOptions(profile)...)
	pred.Band = string(report.Band)
	pred.Recommendations = report.Text()

	s.persist(pred)

	return pred, nil
}

// ErrNoRepository is returned by RepositoryHealth when prediction logging is disabled
var ErrNoRepository = errors.New("prediction: no repository configured")

// RepositoryHealth checks the prediction log store
func (s *PredictionService) RepositoryHealth(ctx context.Context) error {
	if s.repo == nil {
		return ErrNoRepository
	}
	return s.repo.Health(ctx)
}

// History returns logged predictions within a time range
func (s *PredictionService) History(ctx context.Context, from, to time.Time) ([]domain.PredictionLog, error) {
	if s.repo == nil {
		return nil, nil
	}
	return s.repo.GetPredictionHistory(ctx, from, to)
}

func (s *PredictionService) persist(pred domain.Prediction) {
	if s.repo == nil {
		return
	}
	entry := domain.NewPredictionLog(pred)

	s.wgBg.Add(1)
	go func() {
		defer s.wgBg.Done()
		bgCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := s.repo.SavePrediction(bgCtx, entry); err != nil {
			log.Printf("Failed to save prediction log: %v", err)
		}
	}()
}

func (s *PredictionService) recommendOptions(p domain.UserProfile) []recommend.Option {
	opts := []recommend.Option{
		recommend.WithParent(p.IsParent()),
		recommend.WithPrivacyMode(s.privacy),
	}
	if p.ConcernScore != nil {
		opts = append(opts, recommend.WithConcernScore(*p.ConcernScore))
	}
	if p.HasRespiratoryIssue != nil {
		opts = append(opts, recommend.WithRespiratoryIssue(*p.HasRespiratoryIssue))
	}
	return opts
}

func healthRiskNote(err *domain.ModelUnavailableError) string {
	if err.Err == nil {
		return "Health risk model unavailable"
	}
	return fmt.Sprintf("Health risk model unavailable: %v", err.Err)
}
