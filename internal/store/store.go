// Package store defines the durable event store and its Postgres and
// SQLite implementations.
package store

import (
	"context"
	"time"

	"github.com/FJ-cyberzilla/Phone-Investigation-System/internal/models"
)

// Store is the append-only persistence layer for telemetry events.
//
// Writes commit one immutable row; there is no update or delete path.
// The *Since queries return every row with timestamp >= since.
type Store interface {
	InsertRequestEvent(ctx context.Context, ev models.RequestEvent) error
	InsertAPIUsageEvent(ctx context.Context, ev models.APIUsageEvent) error

	RequestEventsSince(ctx context.Context, since time.Time) ([]models.RequestEvent, error)
	APIUsageEventsSince(ctx context.Context, since time.Time) ([]models.APIUsageEvent, error)

	// APIUsageStatsSince aggregates api_usage rows per api_name over the
	// window, ordered by api_name.
	APIUsageStatsSince(ctx context.Context, since time.Time) ([]models.APIUsageStat, error)

	// Ping is used by the readiness endpoint to validate connectivity.
	Ping(ctx context.Context) error

	Close()
}
