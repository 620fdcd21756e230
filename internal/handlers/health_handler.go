package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"kelurahan/complaints-api/internal/health"
)

// HealthHandler reports process and store health.
type HealthHandler struct {
	state *health.State
}

// NewHealthHandler creates a new HealthHandler.
func NewHealthHandler(state *health.State) *HealthHandler {
	return &HealthHandler{state: state}
}

func connState(ready bool) string {
	if ready {
		return "connected"
	}
	return "disconnected"
}

// Health reports store connectivity and uptime. Served without auth and
// outside the readiness gate so it answers during startup too.
// @Summary     Health check
// @Tags        health
// @Produce     json
// @Success     200 {object} map[string]interface{} "Health report"
// @Router      /health [get]
func (h *HealthHandler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":    "ok",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
		"databases": gin.H{
			"mysql":   connState(h.state.MySQLReady()),
			"mongodb": connState(h.state.MongoReady()),
		},
		"uptime": h.state.Uptime().Seconds(),
	})
}
