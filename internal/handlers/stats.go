package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/FJ-cyberzilla/Phone-Investigation-System/internal/auth"
	"github.com/FJ-cyberzilla/Phone-Investigation-System/internal/telemetry"
)

// RegisterStatsRoutes registers the serving-path endpoints.
//
// GET /stats?hours=24
// GET /stats/api-usage?hours=24
// - Require X-API-Key (user context)
// - Aggregate over the trailing window [now-hours, now]
func RegisterStatsRoutes(r gin.IRoutes, rec *telemetry.Recorder) {
	r.GET("/stats", func(c *gin.Context) {
		if auth.UserID(c) == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			return
		}

		hours, ok := windowHours(c)
		if !ok {
			return
		}

		c.JSON(http.StatusOK, rec.GetStats(c.Request.Context(), hours))
	})

	r.GET("/stats/api-usage", func(c *gin.Context) {
		if auth.UserID(c) == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			return
		}

		hours, ok := windowHours(c)
		if !ok {
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"period_hours": hours,
			"stats":        rec.APIUsageBreakdown(c.Request.Context(), hours),
		})
	})
}

// windowHours parses the hours query parameter, defaulting to 24.
// Writes the 400 response itself when the value is not a positive integer.
func windowHours(c *gin.Context) (int, bool) {
	raw := c.DefaultQuery("hours", strconv.Itoa(telemetry.DefaultWindowHours))
	hours, err := strconv.Atoi(raw)
	if err != nil || hours <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "hours must be a positive integer"})
		return 0, false
	}
	return hours, true
}
