// Package telemetry records investigation request and third-party API call
// events and computes rolling-window summary statistics.
//
// The recorder is a best-effort sink: a storage failure on the write path
// is logged to the diagnostic log and swallowed, so instrumented request
// handling never fails because of telemetry.
package telemetry

import (
	"context"
	"log"
	"time"

	"github.com/google/uuid"

	"github.com/FJ-cyberzilla/Phone-Investigation-System/internal/models"
	"github.com/FJ-cyberzilla/Phone-Investigation-System/internal/store"
)

// DefaultWindowHours is the stats window used when the caller passes
// hours <= 0.
const DefaultWindowHours = 24

// Clock supplies the recorder's notion of now, injectable for
// deterministic window tests.
type Clock interface {
	Now() time.Time
}

type realClock struct{}

func (realClock) Now() time.Time { return time.Now() }

// Recorder appends telemetry events to the store and aggregates them on
// demand. All methods are safe for concurrent use; the recorder holds no
// state of its own, the store is the single source of truth.
type Recorder struct {
	store store.Store
	clock Clock
	log   *log.Logger
}

// NewRecorder wires a recorder to its store. A nil logger falls back to
// the process default logger.
func NewRecorder(st store.Store, logger *log.Logger) *Recorder {
	if logger == nil {
		logger = log.Default()
	}
	return &Recorder{store: st, clock: realClock{}, log: logger}
}

// RecordRequest persists an investigation request event. The event's ID
// and Timestamp are assigned here; whatever the caller set is replaced.
//
// Fire-and-forget: a failed write is logged and dropped, never surfaced.
func (r *Recorder) RecordRequest(ctx context.Context, ev models.RequestEvent) {
	ev.ID = uuid.New().String()
	ev.Timestamp = r.clock.Now().UTC()

	if err := r.store.InsertRequestEvent(ctx, ev); err != nil {
		r.log.Printf("telemetry: dropping request event (module=%s): %v", ev.Module, err)
	}
}

// RecordAPIUsage persists a third-party API call event under the same
// fire-and-forget contract as RecordRequest.
func (r *Recorder) RecordAPIUsage(ctx context.Context, ev models.APIUsageEvent) {
	ev.ID = uuid.New().String()
	ev.Timestamp = r.clock.Now().UTC()

	if err := r.store.InsertAPIUsageEvent(ctx, ev); err != nil {
		r.log.Printf("telemetry: dropping api usage event (api=%s): %v", ev.APIName, err)
	}
}

// GetStats aggregates all events with timestamp >= now-hours into a
// summary: request count, successful request count, mean response time
// (0 for an empty window) and per-API call counts.
//
// GetStats never fails: on a storage error it logs and returns the zero
// Stats with a non-nil empty APIUsage map.
func (r *Recorder) GetStats(ctx context.Context, hours int) models.Stats {
	stats := models.Stats{APIUsage: map[string]int64{}}
	since := r.windowStart(hours)

	requests, err := r.store.RequestEventsSince(ctx, since)
	if err != nil {
		r.log.Printf("telemetry: stats query failed: %v", err)
		return stats
	}
	calls, err := r.store.APIUsageEventsSince(ctx, since)
	if err != nil {
		r.log.Printf("telemetry: stats query failed: %v", err)
		return stats
	}

	stats.TotalRequests = int64(len(requests))
	var totalTime float64
	for _, ev := range requests {
		if ev.Success {
			stats.SuccessfulRequests++
		}
		totalTime += ev.ResponseTime
	}
	if len(requests) > 0 {
		stats.AverageResponseTime = totalTime / float64(len(requests))
	}

	for _, ev := range calls {
		stats.APIUsage[ev.APIName]++
	}

	return stats
}

// APIUsageBreakdown returns the per-API aggregate (call counts, success
// rate, mean latency, total cost) over the trailing window. Same
// never-fail contract as GetStats; an empty slice is returned on error.
func (r *Recorder) APIUsageBreakdown(ctx context.Context, hours int) []models.APIUsageStat {
	rows, err := r.store.APIUsageStatsSince(ctx, r.windowStart(hours))
	if err != nil {
		r.log.Printf("telemetry: api usage breakdown query failed: %v", err)
		return []models.APIUsageStat{}
	}
	if rows == nil {
		rows = []models.APIUsageStat{}
	}
	return rows
}

func (r *Recorder) windowStart(hours int) time.Time {
	if hours <= 0 {
		hours = DefaultWindowHours
	}
	return r.clock.Now().UTC().Add(-time.Duration(hours) * time.Hour)
}
