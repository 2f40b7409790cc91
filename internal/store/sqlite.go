package store

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/FJ-cyberzilla/Phone-Investigation-System/internal/models"
)

// sqliteSchema mirrors schema.sql in SQLite dialect. ts is declared
// TIMESTAMP so the driver round-trips time.Time values.
const sqliteSchema = `
CREATE TABLE IF NOT EXISTS investigation_requests (
    id            TEXT PRIMARY KEY,
    phone_number  TEXT NOT NULL,
    module        TEXT NOT NULL,
    success       BOOLEAN NOT NULL DEFAULT 1,
    response_time REAL NOT NULL DEFAULT 0,
    user_id       TEXT,
    ts            TIMESTAMP NOT NULL
);
CREATE INDEX IF NOT EXISTS ix_investigation_requests_ts ON investigation_requests (ts);
CREATE INDEX IF NOT EXISTS ix_investigation_requests_phone_number ON investigation_requests (phone_number);

CREATE TABLE IF NOT EXISTS api_usage (
    id            TEXT PRIMARY KEY,
    api_name      TEXT NOT NULL,
    endpoint      TEXT NOT NULL,
    success       BOOLEAN NOT NULL DEFAULT 1,
    response_time REAL NOT NULL DEFAULT 0,
    status_code   INTEGER,
    error_message TEXT,
    cost          REAL NOT NULL DEFAULT 0,
    phone_number  TEXT,
    user_id       TEXT,
    ts            TIMESTAMP NOT NULL
);
CREATE INDEX IF NOT EXISTS ix_api_usage_api_name ON api_usage (api_name);
CREATE INDEX IF NOT EXISTS ix_api_usage_ts ON api_usage (ts);
`

// SQLiteStore is the local-dev fallback used when no DB_URL is configured.
type SQLiteStore struct {
	db   *sql.DB
	path string
}

// NewSQLiteStore opens (creating if needed) the database file and applies
// the schema. Pass ":memory:" for an in-memory database.
func NewSQLiteStore(path string) (*SQLiteStore, error) {
	dsn := path
	if path != ":memory:" {
		if dir := filepath.Dir(path); dir != "." {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return nil, fmt.Errorf("create db directory: %w", err)
			}
		}
		dsn += "?_journal_mode=WAL&_busy_timeout=5000"
	}

	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	// Single connection: SQLite allows one writer, and an in-memory
	// database exists per connection.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	s := &SQLiteStore{db: db, path: path}
	if _, err := db.Exec(sqliteSchema); err != nil {
		db.Close()
		return nil, fmt.Errorf("init schema: %w", err)
	}
	return s, nil
}

// Path returns the database file path.
func (s *SQLiteStore) Path() string {
	return s.path
}

// Ping validates connectivity for the readiness endpoint.
func (s *SQLiteStore) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// Close closes the database.
func (s *SQLiteStore) Close() {
	_ = s.db.Close()
}

// InsertRequestEvent appends one investigation request event.
func (s *SQLiteStore) InsertRequestEvent(ctx context.Context, ev models.RequestEvent) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO investigation_requests(id, phone_number, module, success, response_time, user_id, ts)
		VALUES (?,?,?,?,?,?,?)
	`, ev.ID, ev.PhoneNumber, ev.Module, ev.Success, ev.ResponseTime, nullable(ev.UserID), ev.Timestamp)
	if err != nil {
		return fmt.Errorf("insert request event: %w", err)
	}
	return nil
}

// InsertAPIUsageEvent appends one third-party API call event.
func (s *SQLiteStore) InsertAPIUsageEvent(ctx context.Context, ev models.APIUsageEvent) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO api_usage(id, api_name, endpoint, success, response_time, status_code, error_message, cost, phone_number, user_id, ts)
		VALUES (?,?,?,?,?,?,?,?,?,?,?)
	`, ev.ID, ev.APIName, ev.Endpoint, ev.Success, ev.ResponseTime,
		nullableInt(ev.StatusCode), nullable(ev.ErrorMessage), ev.Cost,
		nullable(ev.PhoneNumber), nullable(ev.UserID), ev.Timestamp)
	if err != nil {
		return fmt.Errorf("insert api usage event: %w", err)
	}
	return nil
}

// RequestEventsSince returns all request events with ts >= since.
func (s *SQLiteStore) RequestEventsSince(ctx context.Context, since time.Time) ([]models.RequestEvent, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, phone_number, module, success, response_time, user_id, ts
		FROM investigation_requests
		WHERE ts >= ?
		ORDER BY ts
	`, since)
	if err != nil {
		return nil, fmt.Errorf("query request events: %w", err)
	}
	defer rows.Close()

	var events []models.RequestEvent
	for rows.Next() {
		var ev models.RequestEvent
		var userID sql.NullString
		if err := rows.Scan(&ev.ID, &ev.PhoneNumber, &ev.Module, &ev.Success, &ev.ResponseTime, &userID, &ev.Timestamp); err != nil {
			return nil, fmt.Errorf("scan request event: %w", err)
		}
		ev.UserID = userID.String
		ev.Timestamp = ev.Timestamp.UTC()
		events = append(events, ev)
	}
	return events, rows.Err()
}

// APIUsageEventsSince returns all API usage events with ts >= since.
func (s *SQLiteStore) APIUsageEventsSince(ctx context.Context, since time.Time) ([]models.APIUsageEvent, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, api_name, endpoint, success, response_time, status_code, error_message, cost, phone_number, user_id, ts
		FROM api_usage
		WHERE ts >= ?
		ORDER BY ts
	`, since)
	if err != nil {
		return nil, fmt.Errorf("query api usage events: %w", err)
	}
	defer rows.Close()

	var events []models.APIUsageEvent
	for rows.Next() {
		var ev models.APIUsageEvent
		var statusCode sql.NullInt64
		var errorMessage, phoneNumber, userID sql.NullString
		if err := rows.Scan(&ev.ID, &ev.APIName, &ev.Endpoint, &ev.Success, &ev.ResponseTime,
			&statusCode, &errorMessage, &ev.Cost, &phoneNumber, &userID, &ev.Timestamp); err != nil {
			return nil, fmt.Errorf("scan api usage event: %w", err)
		}
		ev.StatusCode = int(statusCode.Int64)
		ev.ErrorMessage = errorMessage.String
		ev.PhoneNumber = phoneNumber.String
		ev.UserID = userID.String
		ev.Timestamp = ev.Timestamp.UTC()
		events = append(events, ev)
	}
	return events, rows.Err()
}

// APIUsageStatsSince aggregates api_usage per api_name over the window.
func (s *SQLiteStore) APIUsageStatsSince(ctx context.Context, since time.Time) ([]models.APIUsageStat, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT api_name,
		       COUNT(*),
		       SUM(CASE WHEN success THEN 1 ELSE 0 END),
		       SUM(CASE WHEN success THEN 0 ELSE 1 END),
		       COALESCE(AVG(response_time), 0),
		       COALESCE(SUM(cost), 0)
		FROM api_usage
		WHERE ts >= ?
		GROUP BY api_name
		ORDER BY api_name
	`, since)
	if err != nil {
		return nil, fmt.Errorf("query api usage stats: %w", err)
	}
	defer rows.Close()

	var stats []models.APIUsageStat
	for rows.Next() {
		var st models.APIUsageStat
		if err := rows.Scan(&st.APIName, &st.TotalCalls, &st.SuccessfulCalls, &st.FailedCalls, &st.AvgResponseTime, &st.TotalCost); err != nil {
			return nil, fmt.Errorf("scan api usage stat: %w", err)
		}
		if st.TotalCalls > 0 {
			st.SuccessRate = float64(st.SuccessfulCalls) / float64(st.TotalCalls) * 100
		}
		stats = append(stats, st)
	}
	return stats, rows.Err()
}
