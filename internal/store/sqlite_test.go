package store

import (
	"context"
	"testing"
	"time"

	"github.com/FJ-cyberzilla/Phone-Investigation-System/internal/models"
)

func newTestStore(t *testing.T) *SQLiteStore {
	t.Helper()
	st, err := NewSQLiteStore(":memory:")
	if err != nil {
		t.Fatalf("open sqlite store: %v", err)
	}
	t.Cleanup(st.Close)
	return st
}

// Whole-second UTC timestamps keep time round-trips through the driver exact.
func testBase() time.Time {
	return time.Now().UTC().Truncate(time.Second)
}

func TestSQLiteRequestEventsRoundTrip(t *testing.T) {
	st := newTestStore(t)
	ctx := context.Background()
	now := testBase()

	events := []models.RequestEvent{
		{ID: "r1", PhoneNumber: "+14155550100", Module: "phone_info", Success: true, ResponseTime: 120, UserID: "u1", Timestamp: now.Add(-30 * time.Minute)},
		{ID: "r2", PhoneNumber: "+14155550101", Module: "spam_risk", Success: false, ResponseTime: 300, Timestamp: now.Add(-90 * time.Minute)},
	}
	for _, ev := range events {
		if err := st.InsertRequestEvent(ctx, ev); err != nil {
			t.Fatalf("insert %s: %v", ev.ID, err)
		}
	}

	// Two-hour window sees both rows.
	got, err := st.RequestEventsSince(ctx, now.Add(-2*time.Hour))
	if err != nil {
		t.Fatalf("query: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 events, got %d", len(got))
	}
	// Ordered by ts ascending, so r2 comes first.
	if got[0].ID != "r2" || got[1].ID != "r1" {
		t.Fatalf("wrong order: %s, %s", got[0].ID, got[1].ID)
	}
	if got[1].PhoneNumber != "+14155550100" || got[1].Module != "phone_info" || !got[1].Success {
		t.Fatalf("r1 fields wrong: %+v", got[1])
	}
	if got[1].ResponseTime != 120 || got[1].UserID != "u1" {
		t.Fatalf("r1 fields wrong: %+v", got[1])
	}
	// NULL user_id scans as empty string.
	if got[0].UserID != "" {
		t.Fatalf("r2 user_id = %q, want empty", got[0].UserID)
	}
}

func TestSQLiteWindowFiltering(t *testing.T) {
	st := newTestStore(t)
	ctx := context.Background()
	now := testBase()
	cutoff := now.Add(-time.Hour)

	for _, ev := range []models.RequestEvent{
		{ID: "boundary", Module: "m", PhoneNumber: "p", Timestamp: cutoff},
		{ID: "before", Module: "m", PhoneNumber: "p", Timestamp: cutoff.Add(-time.Second)},
		{ID: "after", Module: "m", PhoneNumber: "p", Timestamp: cutoff.Add(time.Second)},
	} {
		if err := st.InsertRequestEvent(ctx, ev); err != nil {
			t.Fatalf("insert %s: %v", ev.ID, err)
		}
	}

	got, err := st.RequestEventsSince(ctx, cutoff)
	if err != nil {
		t.Fatalf("query: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected boundary + after, got %d rows", len(got))
	}
	if got[0].ID != "boundary" || got[1].ID != "after" {
		t.Fatalf("wrong rows: %s, %s", got[0].ID, got[1].ID)
	}
}

func TestSQLiteAPIUsageEventsRoundTrip(t *testing.T) {
	st := newTestStore(t)
	ctx := context.Background()
	now := testBase()

	ev := models.APIUsageEvent{
		ID: "a1", APIName: "numverify", Endpoint: "/validate",
		Success: false, ResponseTime: 250, StatusCode: 429,
		ErrorMessage: "rate limited", Cost: 0.003,
		PhoneNumber: "+14155550100", UserID: "u1",
		Timestamp: now.Add(-time.Minute),
	}
	if err := st.InsertAPIUsageEvent(ctx, ev); err != nil {
		t.Fatalf("insert: %v", err)
	}

	got, err := st.APIUsageEventsSince(ctx, now.Add(-time.Hour))
	if err != nil {
		t.Fatalf("query: %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("expected 1 event, got %d", len(got))
	}
	g := got[0]
	if g.APIName != ev.APIName || g.Endpoint != ev.Endpoint || g.Success != ev.Success {
		t.Fatalf("fields wrong: %+v", g)
	}
	if g.StatusCode != 429 || g.ErrorMessage != "rate limited" || g.Cost != 0.003 {
		t.Fatalf("optional fields wrong: %+v", g)
	}
	if g.PhoneNumber != ev.PhoneNumber || g.UserID != ev.UserID {
		t.Fatalf("attribution fields wrong: %+v", g)
	}
}

func TestSQLiteAPIUsageStats(t *testing.T) {
	st := newTestStore(t)
	ctx := context.Background()
	now := testBase()

	calls := []models.APIUsageEvent{
		{ID: "a1", APIName: "numverify", Endpoint: "/validate", Success: true, ResponseTime: 100, Cost: 0.25, Timestamp: now.Add(-10 * time.Minute)},
		{ID: "a2", APIName: "numverify", Endpoint: "/validate", Success: false, ResponseTime: 300, Cost: 0.25, Timestamp: now.Add(-20 * time.Minute)},
		{ID: "a3", APIName: "shodan", Endpoint: "/host", Success: true, ResponseTime: 80, Cost: 0.5, Timestamp: now.Add(-30 * time.Minute)},
		// Outside the one-hour window, must not appear.
		{ID: "a4", APIName: "hunter", Endpoint: "/email", Success: true, ResponseTime: 10, Timestamp: now.Add(-2 * time.Hour)},
	}
	for _, ev := range calls {
		if err := st.InsertAPIUsageEvent(ctx, ev); err != nil {
			t.Fatalf("insert %s: %v", ev.ID, err)
		}
	}

	stats, err := st.APIUsageStatsSince(ctx, now.Add(-time.Hour))
	if err != nil {
		t.Fatalf("query: %v", err)
	}
	if len(stats) != 2 {
		t.Fatalf("expected 2 rows, got %d: %+v", len(stats), stats)
	}

	nv := stats[0]
	if nv.APIName != "numverify" {
		t.Fatalf("rows not ordered by api_name: %+v", stats)
	}
	if nv.TotalCalls != 2 || nv.SuccessfulCalls != 1 || nv.FailedCalls != 1 {
		t.Fatalf("numverify counts wrong: %+v", nv)
	}
	if nv.SuccessRate != 50 || nv.AvgResponseTime != 200 || nv.TotalCost != 0.5 {
		t.Fatalf("numverify aggregates wrong: %+v", nv)
	}

	sh := stats[1]
	if sh.APIName != "shodan" || sh.TotalCalls != 1 || sh.SuccessRate != 100 {
		t.Fatalf("shodan row wrong: %+v", sh)
	}
}
