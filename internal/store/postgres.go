package store

import (
	"context"
	_ "embed"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/FJ-cyberzilla/Phone-Investigation-System/internal/models"
)

// schemaSQL is embedded so the service can self-bootstrap its database schema.
//
//go:embed schema.sql
var schemaSQL string

// PostgresStore is the production persistence layer for telemetry events.
type PostgresStore struct {
	pool *pgxpool.Pool
}

// NewPostgresStore creates a connection pool and fails fast if DB is unreachable.
func NewPostgresStore(dbURL string) (*PostgresStore, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	pool, err := pgxpool.New(ctx, dbURL)
	if err != nil {
		return nil, err
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, err
	}

	return &PostgresStore{pool: pool}, nil
}

// EnsureSchema applies schema.sql. Safe to run multiple times.
func (p *PostgresStore) EnsureSchema() error {
	_, err := p.pool.Exec(context.Background(), schemaSQL)
	return err
}

// Ping is used by the readiness endpoint to validate DB connectivity.
func (p *PostgresStore) Ping(ctx context.Context) error {
	return p.pool.Ping(ctx)
}

// Close shuts down the connection pool.
func (p *PostgresStore) Close() {
	p.pool.Close()
}

// nullable maps the empty string to SQL NULL.
func nullable(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

// nullableInt maps 0 (unknown) to SQL NULL.
func nullableInt(n int) *int {
	if n == 0 {
		return nil
	}
	return &n
}

// InsertRequestEvent appends one investigation request event.
func (p *PostgresStore) InsertRequestEvent(ctx context.Context, ev models.RequestEvent) error {
	_, err := p.pool.Exec(ctx, `
		INSERT INTO investigation_requests(id, phone_number, module, success, response_time, user_id, ts)
		VALUES ($1,$2,$3,$4,$5,$6,$7)
	`, ev.ID, ev.PhoneNumber, ev.Module, ev.Success, ev.ResponseTime, nullable(ev.UserID), ev.Timestamp)
	return err
}

// InsertAPIUsageEvent appends one third-party API call event.
func (p *PostgresStore) InsertAPIUsageEvent(ctx context.Context, ev models.APIUsageEvent) error {
	_, err := p.pool.Exec(ctx, `
		INSERT INTO api_usage(id, api_name, endpoint, success, response_time, status_code, error_message, cost, phone_number, user_id, ts)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11)
	`, ev.ID, ev.APIName, ev.Endpoint, ev.Success, ev.ResponseTime,
		nullableInt(ev.StatusCode), nullable(ev.ErrorMessage), ev.Cost,
		nullable(ev.PhoneNumber), nullable(ev.UserID), ev.Timestamp)
	return err
}

// RequestEventsSince returns all request events with ts >= since.
func (p *PostgresStore) RequestEventsSince(ctx context.Context, since time.Time) ([]models.RequestEvent, error) {
	rows, err := p.pool.Query(ctx, `
		SELECT id, phone_number, module, success, response_time, user_id, ts
		FROM investigation_requests
		WHERE ts >= $1
		ORDER BY ts
	`, since)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var events []models.RequestEvent
	for rows.Next() {
		var ev models.RequestEvent
		var userID *string
		if err := rows.Scan(&ev.ID, &ev.PhoneNumber, &ev.Module, &ev.Success, &ev.ResponseTime, &userID, &ev.Timestamp); err != nil {
			return nil, err
		}
		if userID != nil {
			ev.UserID = *userID
		}
		ev.Timestamp = ev.Timestamp.UTC()
		events = append(events, ev)
	}
	return events, rows.Err()
}

// APIUsageEventsSince returns all API usage events with ts >= since.
func (p *PostgresStore) APIUsageEventsSince(ctx context.Context, since time.Time) ([]models.APIUsageEvent, error) {
	rows, err := p.pool.Query(ctx, `
		SELECT id, api_name, endpoint, success, response_time, status_code, error_message, cost, phone_number, user_id, ts
		FROM api_usage
		WHERE ts >= $1
		ORDER BY ts
	`, since)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var events []models.APIUsageEvent
	for rows.Next() {
		var ev models.APIUsageEvent
		var statusCode *int
		var errorMessage, phoneNumber, userID *string
		if err := rows.Scan(&ev.ID, &ev.APIName, &ev.Endpoint, &ev.Success, &ev.ResponseTime,
			&statusCode, &errorMessage, &ev.Cost, &phoneNumber, &userID, &ev.Timestamp); err != nil {
			return nil, err
		}
		if statusCode != nil {
			ev.StatusCode = *statusCode
		}
		if errorMessage != nil {
			ev.ErrorMessage = *errorMessage
		}
		if phoneNumber != nil {
			ev.PhoneNumber = *phoneNumber
		}
		if userID != nil {
			ev.UserID = *userID
		}
		ev.Timestamp = ev.Timestamp.UTC()
		events = append(events, ev)
	}
	return events, rows.Err()
}

// APIUsageStatsSince aggregates api_usage per api_name over the window.
func (p *PostgresStore) APIUsageStatsSince(ctx context.Context, since time.Time) ([]models.APIUsageStat, error) {
	rows, err := p.pool.Query(ctx, `
		SELECT api_name,
		       COUNT(*),
		       COUNT(*) FILTER (WHERE success),
		       COUNT(*) FILTER (WHERE NOT success),
		       COALESCE(AVG(response_time), 0),
		       COALESCE(SUM(cost), 0)
		FROM api_usage
		WHERE ts >= $1
		GROUP BY api_name
		ORDER BY api_name
	`, since)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var stats []models.APIUsageStat
	for rows.Next() {
		var s models.APIUsageStat
		if err := rows.Scan(&s.APIName, &s.TotalCalls, &s.SuccessfulCalls, &s.FailedCalls, &s.AvgResponseTime, &s.TotalCost); err != nil {
			return nil, err
		}
		if s.TotalCalls > 0 {
			s.SuccessRate = float64(s.SuccessfulCalls) / float64(s.TotalCalls) * 100
		}
		stats = append(stats, s)
	}
	return stats, rows.Err()
}
