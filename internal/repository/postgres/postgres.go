package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/delhiaqi/backend/internal/domain"
)

const schema = `
	CREATE TABLE IF NOT EXISTS prediction_logs (
		id                UUID PRIMARY KEY,
		age               INTEGER NOT NULL,
		gender_enc        SMALLINT NOT NULL,
		parent_enc        SMALLINT NOT NULL,
		pm25              DOUBLE PRECISION NOT NULL,
		pm10              DOUBLE PRECISION NOT NULL,
		temperature       DOUBLE PRECISION NOT NULL,
		humidity          DOUBLE PRECISION NOT NULL,
		aqi               DOUBLE PRECISION NOT NULL,
		aqi_category      SMALLINT NOT NULL,
		band              TEXT NOT NULL,
		health_risk_model BOOLEAN NOT NULL,
		created_at        TIMESTAMPTZ NOT NULL
	);
	CREATE INDEX IF NOT EXISTS prediction_logs_created_at_idx ON prediction_logs (created_at DESC);
`

// PostgresRepository implements domain.PredictionRepository
type PostgresRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresRepository creates a new PostgreSQL repository
func NewPostgresRepository(pool *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{pool: pool}
}

// EnsureSchema creates the prediction_logs table if it does not exist
func (r *PostgresRepository) EnsureSchema(ctx context.Context) error {
	if _, err := r.pool.Exec(ctx, schema); err != nil {
		return fmt.Errorf("postgres: failed to ensure schema: %w", err)
	}
	return nil
}

// SavePrediction persists a prediction summary to PostgreSQL
func (r *PostgresRepository) SavePrediction(ctx context.Context, entry domain.PredictionLog) error {
	query := `
		INSERT INTO prediction_logs (
			id, age, gender_enc, parent_enc, pm25, pm10, temperature, humidity,
			aqi, aqi_category, band, health_risk_model, created_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
	`

	_, err := r.pool.Exec(ctx, query,
		entry.ID, entry.Age, entry.GenderEnc, entry.ParentEnc, entry.PM25, entry.PM10,
		entry.Temperature, entry.Humidity, entry.AQI, entry.AQICategory, entry.Band,
		entry.HealthRiskModel, entry.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("postgres: failed to save prediction log: %w", err)
	}

	return nil
}

// GetPredictionHistory retrieves prediction summaries from PostgreSQL
func (r *PostgresRepository) GetPredictionHistory(ctx context.Context, from, to time.Time) ([]domain.PredictionLog, error) {
	query := `
		SELECT id, age, gender_enc, parent_enc, pm25, pm10, temperature, humidity,
			   aqi, aqi_category, band, health_risk_model, created_at
		FROM prediction_logs
		WHERE created_at BETWEEN $1 AND $2
		ORDER BY created_at DESC
		LIMIT 100
	`

	rows, err := r.pool.Query(ctx, query, from, to)
	if err != nil {
		return nil, fmt.Errorf("postgres: failed to query prediction logs: %w", err)
	}
	defer rows.Close()

	var results []domain.PredictionLog
	for rows.Next() {
		var l domain.PredictionLog
		err := rows.Scan(
			&l.ID, &l.Age, &l.GenderEnc, &l.ParentEnc, &l.PM25, &l.PM10, &l.Temperature, &l.Humidity,
			&l.AQI, &l.AQICategory, &l.Band, &l.HealthRiskModel, &l.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("postgres: failed to scan prediction row: %w", err)
		}
		results = append(results, l)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("postgres: failed to iterate prediction rows: %w", err)
	}

	return results, nil
}

// Health checks database connectivity
func (r *PostgresRepository) Health(ctx context.Context) error {
	if err := r.pool.Ping(ctx); err != nil {
		return fmt.Errorf("postgres: health check failed: %w", err)
	}
	return nil
}

// Close releases the pool
func (r *PostgresRepository) Close() {
	r.pool.Close()
}
