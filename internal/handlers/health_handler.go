package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

// Pinger reports whether a backing dependency is reachable.
type Pinger interface {
	Ping() error
}

// HealthHandler handles liveness and readiness probes.
type HealthHandler struct {
	db      Pinger
	started time.Time
}

// NewHealthHandler creates a new HealthHandler.
func NewHealthHandler(db Pinger) *HealthHandler {
	return &HealthHandler{db: db, started: time.Now()}
}

// Health reports overall service health including the database connection.
// @Summary     Health check
// @Description Report API and database health plus process uptime
// @Tags        health
// @Produce     json
// @Success     200 {object} map[string]interface{} "All services healthy"
// @Failure     503 {object} map[string]interface{} "Database unreachable"
// @Router      /health/health [get]
func (h *HealthHandler) Health(c *gin.Context) {
	status := "ok"
	dbStatus := "up"
	code := http.StatusOK

	if err := h.db.Ping(); err != nil {
		status = "degraded"
		dbStatus = "down"
		code = http.StatusServiceUnavailable
	}

	c.JSON(code, gin.H{
		"status":    status,
		"timestamp": time.Now().UTC().Format(time.RFC3339),
		"uptime":    time.Since(h.started).Round(time.Second).String(),
		"services": gin.H{
			"api":      "up",
			"database": dbStatus,
		},
	})
}

// Ping is a minimal liveness probe that never touches the database.
// @Summary     Ping
// @Description Liveness probe
// @Tags        health
// @Produce     json
// @Success     200 {object} map[string]string "Pong"
// @Router      /health/ping [get]
func (h *HealthHandler) Ping(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"message":   "pong",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}
