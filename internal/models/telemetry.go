package models

import "time"

// RequestEvent records one investigation request against a module.
//
// Events are append-only: once written they are never updated or deleted.
// ID and Timestamp are assigned by the recorder at write time.
type RequestEvent struct {
	ID           string    `json:"id"`
	PhoneNumber  string    `json:"phone_number"`
	Module       string    `json:"module"`
	Success      bool      `json:"success"`
	ResponseTime float64   `json:"response_time"` // milliseconds
	UserID       string    `json:"user_id,omitempty"`
	Timestamp    time.Time `json:"timestamp"` // UTC
}

// APIUsageEvent records one call to a third-party API, including the
// optional billing and diagnostic fields used by the usage breakdown.
// Same append-only lifecycle as RequestEvent.
type APIUsageEvent struct {
	ID           string    `json:"id"`
	APIName      string    `json:"api_name"`
	Endpoint     string    `json:"endpoint"`
	Success      bool      `json:"success"`
	ResponseTime float64   `json:"response_time"` // milliseconds
	StatusCode   int       `json:"status_code,omitempty"` // 0 when unknown
	ErrorMessage string    `json:"error_message,omitempty"`
	Cost         float64   `json:"cost,omitempty"` // USD
	PhoneNumber  string    `json:"phone_number,omitempty"`
	UserID       string    `json:"user_id,omitempty"`
	Timestamp    time.Time `json:"timestamp"` // UTC
}

// Stats is the rolling-window summary served by GET /stats.
// APIUsage maps each api_name seen in the window to its call count.
type Stats struct {
	TotalRequests       int64            `json:"total_requests"`
	SuccessfulRequests  int64            `json:"successful_requests"`
	AverageResponseTime float64          `json:"average_response_time"`
	APIUsage            map[string]int64 `json:"api_usage"`
}

// APIUsageStat is one per-API row of GET /stats/api-usage.
type APIUsageStat struct {
	APIName         string  `json:"api_name"`
	TotalCalls      int64   `json:"total_calls"`
	SuccessfulCalls int64   `json:"successful_calls"`
	FailedCalls     int64   `json:"failed_calls"`
	SuccessRate     float64 `json:"success_rate"` // percent
	AvgResponseTime float64 `json:"avg_response_time"`
	TotalCost       float64 `json:"total_cost"`
}

// RecordRequestPayload is the POST /telemetry/requests body.
// success defaults to true when omitted; user_id falls back to the
// authenticated caller.
type RecordRequestPayload struct {
	PhoneNumber  string  `json:"phone_number"`
	Module       string  `json:"module"`
	Success      *bool   `json:"success,omitempty"`
	ResponseTime float64 `json:"response_time,omitempty"`
	UserID       string  `json:"user_id,omitempty"`
}

// RecordAPIUsagePayload is the POST /telemetry/api-usage body.
type RecordAPIUsagePayload struct {
	APIName      string  `json:"api_name"`
	Endpoint     string  `json:"endpoint"`
	Success      *bool   `json:"success,omitempty"`
	ResponseTime float64 `json:"response_time,omitempty"`
	StatusCode   int     `json:"status_code,omitempty"`
	ErrorMessage string  `json:"error_message,omitempty"`
	Cost         float64 `json:"cost,omitempty"`
	PhoneNumber  string  `json:"phone_number,omitempty"`
}
