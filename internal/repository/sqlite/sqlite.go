// Package sqlite stores prediction logs in a local SQLite file for single-node deployments.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/delhiaqi/backend/internal/domain"

	_ "modernc.org/sqlite"
)

const schema = `
	CREATE TABLE IF NOT EXISTS prediction_logs (
		id                TEXT PRIMARY KEY,
		age               INTEGER NOT NULL,
		gender_enc        INTEGER NOT NULL,
		parent_enc        INTEGER NOT NULL,
		pm25              REAL NOT NULL,
		pm10              REAL NOT NULL,
		temperature       REAL NOT NULL,
		humidity          REAL NOT NULL,
		aqi               REAL NOT NULL,
		aqi_category      INTEGER NOT NULL,
		band              TEXT NOT NULL,
		health_risk_model INTEGER NOT NULL,
		created_at        TEXT NOT NULL
	);
	CREATE INDEX IF NOT EXISTS prediction_logs_created_at_idx ON prediction_logs (created_at);
`

// Repository implements domain.PredictionRepository on SQLite
type Repository struct {
	db *sql.DB
}

// Open connects to the database file and creates the schema
func Open(ctx context.Context, dbPath string) (*Repository, error) {
	db, err := sql.Open("sqlite", dbPath+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("sqlite: failed to open database: %w", err)
	}

	// SQLite only supports one writer at a time
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(time.Hour)

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("sqlite: failed to ping database: %w", err)
	}

	if _, err := db.ExecContext(ctx, schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("sqlite: failed to ensure schema: %w", err)
	}

	return &Repository{db: db}, nil
}

// SavePrediction persists a prediction summary
func (r *Repository) SavePrediction(ctx context.Context, entry domain.PredictionLog) error {
	query := `
		INSERT INTO prediction_logs (
			id, age, gender_enc, parent_enc, pm25, pm10, temperature, humidity,
			aqi, aqi_category, band, health_risk_model, created_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err := r.db.ExecContext(ctx, query,
		entry.ID.String(), entry.Age, entry.GenderEnc, entry.ParentEnc, entry.PM25, entry.PM10,
		entry.Temperature, entry.Humidity, entry.AQI, entry.AQICategory, entry.Band,
		entry.HealthRiskModel, formatTime(entry.CreatedAt),
	)
	if err != nil {
		return fmt.Errorf("sqlite: failed to save prediction log: %w", err)
	}
	return nil
}

// GetPredictionHistory retrieves prediction summaries, newest first.
// Timestamps are stored as fixed-width UTC strings, so string comparison orders them.
func (r *Repository) GetPredictionHistory(ctx context.Context, from, to time.Time) ([]domain.PredictionLog, error) {
	query := `
		SELECT id, age, gender_enc, parent_enc, pm25, pm10, temperature, humidity,
			   aqi, aqi_category, band, health_risk_model, created_at
		FROM prediction_logs
		WHERE created_at BETWEEN ? AND ?
		ORDER BY created_at DESC
		LIMIT 100
	`

	rows, err := r.db.QueryContext(ctx, query, formatTime(from), formatTime(to))
	if err != nil {
		return nil, fmt.Errorf("sqlite: failed to query prediction logs: %w", err)
	}
	defer rows.Close()

	var results []domain.PredictionLog
	for rows.Next() {
		var (
			l         domain.PredictionLog
			id        string
			createdAt string
		)
		err := rows.Scan(
			&id, &l.Age, &l.GenderEnc, &l.ParentEnc, &l.PM25, &l.PM10, &l.Temperature, &l.Humidity,
			&l.AQI, &l.AQICategory, &l.Band, &l.HealthRiskModel, &createdAt,
		)
		if err != nil {
			return nil, fmt.Errorf("sqlite: failed to scan prediction row: %w", err)
		}
		if l.ID, err = uuid.Parse(id); err != nil {
			return nil, fmt.Errorf("sqlite: invalid prediction id %q: %w", id, err)
		}
		if l.CreatedAt, err = time.Parse(timeLayout, createdAt); err != nil {
			return nil, fmt.Errorf("sqlite: invalid created_at %q: %w", createdAt, err)
		}
		results = append(results, l)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("sqlite: failed to iterate prediction rows: %w", err)
	}

	return results, nil
}

// Health checks database connectivity
func (r *Repository) Health(ctx context.Context) error {
	if err := r.db.PingContext(ctx); err != nil {
		return fmt.Errorf("sqlite: health check failed: %w", err)
	}
	return nil
}

// Close closes the database connection
func (r *Repository) Close() {
	r.db.Close()
}

// timeLayout is fixed width so lexical order matches chronological order
const timeLayout = "2006-01-02T15:04:05.000000000Z07:00"

func formatTime(t time.Time) string {
	return t.UTC().Format(timeLayout)
}
