package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/FJ-cyberzilla/Phone-Investigation-System/internal/auth"
	"github.com/FJ-cyberzilla/Phone-Investigation-System/internal/models"
	"github.com/FJ-cyberzilla/Phone-Investigation-System/internal/telemetry"
)

// RegisterTelemetryRoutes registers the ingestion-path endpoints.
//
// POST /telemetry/requests
// POST /telemetry/api-usage
// - Require X-API-Key (user context)
// - Fire-and-forget: respond 202 once the payload is accepted; a storage
//   failure behind the recorder is never surfaced to the caller
// - 400 only for malformed payloads (a caller bug, not a storage failure)
func RegisterTelemetryRoutes(r gin.IRoutes, rec *telemetry.Recorder) {
	r.POST("/telemetry/requests", func(c *gin.Context) {
		userID := auth.UserID(c)
		if userID == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			return
		}

		var req models.RecordRequestPayload
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid JSON payload"})
			return
		}
		if req.PhoneNumber == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "phone_number required"})
			return
		}
		if req.Module == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "module required"})
			return
		}

		// Omitted success defaults to true; omitted user_id falls back
		// to the authenticated caller.
		success := true
		if req.Success != nil {
			success = *req.Success
		}
		eventUserID := req.UserID
		if eventUserID == "" {
			eventUserID = userID
		}

		rec.RecordRequest(c.Request.Context(), models.RequestEvent{
			PhoneNumber:  req.PhoneNumber,
			Module:       req.Module,
			Success:      success,
			ResponseTime: req.ResponseTime,
			UserID:       eventUserID,
		})

		c.JSON(http.StatusAccepted, gin.H{"status": "accepted"})
	})

	r.POST("/telemetry/api-usage", func(c *gin.Context) {
		userID := auth.UserID(c)
		if userID == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			return
		}

		var req models.RecordAPIUsagePayload
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid JSON payload"})
			return
		}
		if req.APIName == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "api_name required"})
			return
		}
		if req.Endpoint == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "endpoint required"})
			return
		}

		success := true
		if req.Success != nil {
			success = *req.Success
		}

		rec.RecordAPIUsage(c.Request.Context(), models.APIUsageEvent{
			APIName:      req.APIName,
			Endpoint:     req.Endpoint,
			Success:      success,
			ResponseTime: req.ResponseTime,
			StatusCode:   req.StatusCode,
			ErrorMessage: req.ErrorMessage,
			Cost:         req.Cost,
			PhoneNumber:  req.PhoneNumber,
			UserID:       userID,
		})

		c.JSON(http.StatusAccepted, gin.H{"status": "accepted"})
	})
}
