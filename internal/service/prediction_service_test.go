package service

import (
	"context"
	"errors"
	"math"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/delhiaqi/backend/internal/aqi"
	"github.com/delhiaqi/backend/internal/domain"
	"github.com/delhiaqi/backend/internal/features"
	"github.com/delhiaqi/backend/internal/healthrisk"
	"github.com/delhiaqi/backend/internal/model"
	"github.com/delhiaqi/backend/internal/recommend"
)

type stubTelemetry struct {
	obs   domain.Observation
	err   error
	calls int
}

func (s *stubTelemetry) Fetch(ctx context.Context) (domain.Observation, error) {
	s.calls++
	return s.obs, s.err
}

// recordingClassifier returns a fixed probability and remembers its last input
type recordingClassifier struct {
	mu   sync.Mutex
	p    float64
	last []float64
}

func (c *recordingClassifier) NumFeatures() int { return features.HealthRiskVectorLen }

func (c *recordingClassifier) PredictProba(x []float64) ([2]float64, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.last = append([]float64(nil), x...)
	return [2]float64{1 - c.p, c.p}, nil
}

type memoryRepo struct {
	mu        sync.Mutex
	logs      []domain.PredictionLog
	healthErr error
}

func (r *memoryRepo) SavePrediction(ctx context.Context, entry domain.PredictionLog) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.logs = append(r.logs, entry)
	return nil
}

func (r *memoryRepo) GetPredictionHistory(ctx context.Context, from, to time.Time) ([]domain.PredictionLog, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]domain.PredictionLog(nil), r.logs...), nil
}

func (r *memoryRepo) Health(ctx context.Context) error { return r.healthErr }

func (r *memoryRepo) Close() {}

func delhiObservation() domain.Observation {
	return domain.Observation{
		Pollutants: &domain.PollutantReading{PM25: 182.3, PM10: 241.7, NO2: 41.5, SO2: 15.1, CO: 1201.6, O3: 12.9},
		Weather:    &domain.WeatherReading{Temperature: 18.4, Humidity: 72, Pressure: 1015, WindSpeed: 2.1},
	}
}

// constantEstimator always predicts value
func constantEstimator(t *testing.T, value float64) *aqi.Estimator {
	t.Helper()
	r, err := model.NewLinearRegression(value, make([]float64, features.AQIVectorLen))
	if err != nil {
		t.Fatalf("NewLinearRegression: %v", err)
	}
	est, err := aqi.NewEstimator(r)
	if err != nil {
		t.Fatalf("NewEstimator: %v", err)
	}
	return est
}

func testEnsemble(t *testing.T, c model.Classifier) *healthrisk.Ensemble {
	t.Helper()
	e, err := healthrisk.NewEnsemble(features.HealthRiskFeatureNames[:], map[string]model.Classifier{
		domain.SymptomRespiratoryDifficulties: c,
		domain.SymptomCough:                   c,
		domain.SymptomHeadache:                c,
		domain.SymptomMissedSchoolOrWork:      c,
	})
	if err != nil {
		t.Fatalf("NewEnsemble: %v", err)
	}
	return e
}

func fixedClock() time.Time {
	return time.Date(2025, time.November, 4, 9, 0, 0, 0, time.UTC)
}

func intPtr(v int) *int { return &v }

func TestPredictAdultVeryUnhealthy(t *testing.T) {
	clf := &recordingClassifier{p: 0.7}
	svc := NewPredictionService(
		&stubTelemetry{obs: delhiObservation()},
		constantEstimator(t, 250),
		testEnsemble(t, clf),
		WithClock(fixedClock),
	)

	pred, err := svc.Predict(context.Background(), domain.UserProfile{Age: 35, GenderEnc: 1, ParentEnc: 1})
	if err != nil {
		t.Fatalf("Predict: %v", err)
	}

	if pred.AQICategory != 3 {
		t.Errorf("AQICategory = %d, want 3", pred.AQICategory)
	}
	wantVec := []float64{35, 3, 1, 2, 1, 5}
	for i, v := range wantVec {
		if clf.last[i] != v {
			t.Fatalf("classifier input = %v, want %v", clf.last, wantVec)
		}
	}
	if len(pred.HealthRisks) != 4 {
		t.Errorf("health risks = %d, want 4", len(pred.HealthRisks))
	}
	if pred.HealthRisks[domain.SymptomCough].RiskLevel != domain.RiskHigh {
		t.Errorf("cough = %+v", pred.HealthRisks[domain.SymptomCough])
	}

	for _, want := range []string{"Very Unhealthy", recommend.MaskPrecaution, recommend.SealedPrecaution} {
		if !strings.Contains(pred.Recommendations, want) {
			t.Errorf("recommendations missing %q", want)
		}
	}
	for _, adv := range []string{recommend.ChildrenAdvisory, recommend.TeensAdvisory, recommend.SeniorsAdvisory} {
		if strings.Contains(pred.Recommendations, adv) {
			t.Errorf("unexpected age advisory %q", adv)
		}
	}
}

func TestPredictChildGoodAir(t *testing.T) {
	svc := NewPredictionService(
		&stubTelemetry{obs: delhiObservation()},
		constantEstimator(t, 45),
		testEnsemble(t, &recordingClassifier{p: 0.1}),
		WithClock(fixedClock),
	)

	pred, err := svc.Predict(context.Background(), domain.UserProfile{Age: 8, GenderEnc: 0, ParentEnc: 0})
	if err != nil {
		t.Fatalf("Predict: %v", err)
	}
	if pred.Band != string(recommend.BandGood) {
		t.Errorf("Band = %q", pred.Band)
	}
	text := pred.Recommendations
	if !strings.Contains(text, recommend.ChildrenAdvisory) {
		t.Error("missing children advisory")
	}
	if strings.Contains(text, recommend.MaskPrecaution) {
		t.Error("unexpected precautions")
	}
	if strings.Contains(text, recommend.UnderestimatedRiskWarning) || strings.Contains(text, recommend.OverestimatedRiskNote) {
		t.Error("unexpected mismatch line")
	}
}

func TestPredictWithoutEnsemble(t *testing.T) {
	svc := NewPredictionService(
		&stubTelemetry{obs: delhiObservation()},
		constantEstimator(t, 180),
		nil,
		WithClock(fixedClock),
	)

	pred, err := svc.Predict(context.Background(), domain.UserProfile{Age: 40, GenderEnc: 2, ParentEnc: 0})
	if err != nil {
		t.Fatalf("Predict: %v", err)
	}
	if len(pred.HealthRisks) != 0 {
		t.Errorf("health risks = %v, want none", pred.HealthRisks)
	}
	if pred.HealthRiskNote == "" {
		t.Error("missing health risk note")
	}
	if pred.AQI != 180 || pred.Recommendations == "" {
		t.Errorf("AQI/recommendations missing: %+v", pred)
	}
	if svc.HealthModelLoaded() {
		t.Error("HealthModelLoaded = true")
	}
}

func TestPredictConcernMismatch(t *testing.T) {
	svc := NewPredictionService(&stubTelemetry{obs: delhiObservation()}, constantEstimator(t, 250), nil)
	pred, err := svc.Predict(context.Background(), domain.UserProfile{Age: 30, GenderEnc: 1, ParentEnc: 0, ConcernScore: intPtr(2)})
	if err != nil {
		t.Fatalf("Predict: %v", err)
	}
	if !strings.Contains(pred.Recommendations, recommend.UnderestimatedRiskWarning) {
		t.Errorf("missing mismatch warning:\n%s", pred.Recommendations)
	}
}

func TestPredictPrivacyMode(t *testing.T) {
	profile := domain.UserProfile{Age: 62, GenderEnc: 0, ParentEnc: 1, ConcernScore: intPtr(9)}

	open := NewPredictionService(&stubTelemetry{obs: delhiObservation()}, constantEstimator(t, 180), nil)
	private := NewPredictionService(&stubTelemetry{obs: delhiObservation()}, constantEstimator(t, 180), nil, WithPrivacyMode(true))

	a, err := open.Predict(context.Background(), profile)
	if err != nil {
		t.Fatalf("Predict: %v", err)
	}
	b, err := private.Predict(context.Background(), profile)
	if err != nil {
		t.Fatalf("Predict: %v", err)
	}
	if strings.Contains(a.Recommendations, "Privacy Mode ON") {
		t.Errorf("privacy line without privacy mode:\n%s", a.Recommendations)
	}
	if !strings.Contains(b.Recommendations, "Privacy Mode ON") {
		t.Errorf("privacy mode not applied:\n%s", b.Recommendations)
	}
}

func TestPredictValidationSkipsTelemetry(t *testing.T) {
	tel := &stubTelemetry{obs: delhiObservation()}
	svc := NewPredictionService(tel, constantEstimator(t, 100), nil)

	tests := []domain.UserProfile{
		{Age: 0, GenderEnc: 1, ParentEnc: 1},
		{Age: 121, GenderEnc: 1, ParentEnc: 1},
		{Age: 30, GenderEnc: 3, ParentEnc: 1},
		{Age: 30, GenderEnc: 1, ParentEnc: 2},
		{Age: 30, GenderEnc: 1, ParentEnc: 1, ConcernScore: intPtr(11)},
	}
	for _, p := range tests {
		_, err := svc.Predict(context.Background(), p)
		var ve *domain.ValidationError
		if !errors.As(err, &ve) {
			t.Errorf("profile %+v: err = %v, want ValidationError", p, err)
		}
	}
	if tel.calls != 0 {
		t.Errorf("telemetry called %d times", tel.calls)
	}
}

func TestPredictTelemetryFailure(t *testing.T) {
	svc := NewPredictionService(&stubTelemetry{err: errors.New("connection refused")}, constantEstimator(t, 100), nil)
	_, err := svc.Predict(context.Background(), domain.UserProfile{Age: 30, GenderEnc: 1, ParentEnc: 1})
	var tue *domain.TelemetryUnavailableError
	if !errors.As(err, &tue) {
		t.Fatalf("err = %v, want TelemetryUnavailableError", err)
	}
}

func TestPredictIncompleteObservation(t *testing.T) {
	obs := delhiObservation()
	obs.Weather = nil
	svc := NewPredictionService(&stubTelemetry{obs: obs}, constantEstimator(t, 100), nil)
	_, err := svc.Predict(context.Background(), domain.UserProfile{Age: 30, GenderEnc: 1, ParentEnc: 1})
	var mfe *domain.MissingFeatureError
	if !errors.As(err, &mfe) || mfe.Field != "weather" {
		t.Fatalf("err = %v, want MissingFeatureError(weather)", err)
	}
}

func TestPredictPersistsLog(t *testing.T) {
	repo := &memoryRepo{}
	svc := NewPredictionService(
		&stubTelemetry{obs: delhiObservation()},
		constantEstimator(t, 320),
		nil,
		WithClock(fixedClock),
		WithRepository(repo),
	)

	pred, err := svc.Predict(context.Background(), domain.UserProfile{Age: 66, GenderEnc: 0, ParentEnc: 1})
	if err != nil {
		t.Fatalf("Predict: %v", err)
	}
	svc.WaitBackground()

	logs, _ := svc.History(context.Background(), fixedClock().Add(-time.Hour), fixedClock())
	if len(logs) != 1 {
		t.Fatalf("logs = %d, want 1", len(logs))
	}
	got := logs[0]
	if got.ID != pred.ID || got.AQICategory != 4 || got.Band != string(recommend.BandHazardous) || got.HealthRiskModel {
		t.Errorf("log = %+v", got)
	}
	if got.PM25 != 182.3 || !got.CreatedAt.Equal(fixedClock()) {
		t.Errorf("log readings = %+v", got)
	}
}

func TestPredictRejectsNonFiniteAQI(t *testing.T) {
	svc := NewPredictionService(&stubTelemetry{obs: delhiObservation()}, constantEstimator(t, math.NaN()), nil)
	pred, err := svc.Predict(context.Background(), domain.UserProfile{Age: 30, GenderEnc: 1, ParentEnc: 0})
	if err == nil {
		t.Fatalf("Predict = %+v, want error", pred)
	}
	if pred.Band != "" || pred.Recommendations != "" {
		t.Errorf("advice produced for non-finite AQI: %+v", pred)
	}
}

func TestRepositoryHealth(t *testing.T) {
	est := constantEstimator(t, 100)

	if err := NewPredictionService(&stubTelemetry{}, est, nil).RepositoryHealth(context.Background()); !errors.Is(err, ErrNoRepository) {
		t.Errorf("no repository: err = %v, want ErrNoRepository", err)
	}

	healthy := NewPredictionService(&stubTelemetry{}, est, nil, WithRepository(&memoryRepo{}))
	if err := healthy.RepositoryHealth(context.Background()); err != nil {
		t.Errorf("healthy repository: err = %v", err)
	}

	down := errors.New("connection reset")
	broken := NewPredictionService(&stubTelemetry{}, est, nil, WithRepository(&memoryRepo{healthErr: down}))
	if err := broken.RepositoryHealth(context.Background()); !errors.Is(err, down) {
		t.Errorf("broken repository: err = %v, want %v", err, down)
	}
}
