package postgres

import (
	"context"
	"sync"
	"time"

	"github.com/delhiaqi/backend/internal/domain"
)

// mockCapacity bounds the in-memory history
const mockCapacity = 100

// MockRepository implements domain.PredictionRepository in memory for testing/demo mode
type MockRepository struct {
	mu   sync.Mutex
	logs []domain.PredictionLog
}

// NewMockRepository creates a new mock repository
func NewMockRepository() *MockRepository {
	return &MockRepository{}
}

// SavePrediction keeps the most recent entries in memory
func (r *MockRepository) SavePrediction(ctx context.Context, entry domain.PredictionLog) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.logs = append(r.logs, entry)
	if len(r.logs) > mockCapacity {
		r.logs = r.logs[len(r.logs)-mockCapacity:]
	}
	return nil
}

// GetPredictionHistory returns stored entries within the range, newest first
func (r *MockRepository) GetPredictionHistory(ctx context.Context, from, to time.Time) ([]domain.PredictionLog, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var results []domain.PredictionLog
	for i := len(r.logs) - 1; i >= 0; i-- {
		l := r.logs[i]
		if l.CreatedAt.Before(from) || l.CreatedAt.After(to) {
			continue
		}
		results = append(results, l)
	}
	return results, nil
}

// Health always returns nil in mock mode
func (r *MockRepository) Health(ctx context.Context) error {
	return nil
}

// Close is a no-op in mock mode
func (r *MockRepository) Close() {}
