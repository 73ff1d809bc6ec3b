package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	health "gitlab.com/homesense1/hmt.telemetry_server/src/production/HMT.ApiService/health"
	broadcast "gitlab.com/homesense1/hmt.telemetry_server/src/production/HMT.Broadcast"
	logger "gitlab.com/homesense1/hmt.telemetry_server/src/production/HMT.Logger"
)

// HealthController handles liveness and readiness requests
type HealthController struct {
	healthChecker *health.HealthChecker
	hub           *broadcast.Hub
	logger        *logger.Logger
}

// NewHealthController creates a new health controller. healthChecker may
// be nil when the in-memory storage driver is active.
func NewHealthController(healthChecker *health.HealthChecker, hub *broadcast.Hub, logger *logger.Logger) *HealthController {
	return &HealthController{
		healthChecker: healthChecker,
		hub:           hub,
		logger:        logger,
	}
}

// RegisterRoutes registers the health routes with Gin
func (c *HealthController) RegisterRoutes(router *gin.Engine) {
	router.GET("/health/live", c.HealthLive)
	router.GET("/health/ready", c.HealthReady)
}

func (c *HealthController) HealthLive(ctx *gin.Context) {
	ctx.JSON(http.StatusOK, gin.H{
		"status": "ok",
	})
}

func (c *HealthController) HealthReady(ctx *gin.Context) {
	dbOK := true
	if c.healthChecker != nil {
		if err := c.healthChecker.CheckDatabaseHealth(ctx.Request.Context()); err != nil {
			dbOK = false
		}
	}

	status := http.StatusOK
	state := "ready"
	if !dbOK {
		status = http.StatusServiceUnavailable
		state = "degraded"
	}

	ctx.JSON(status, gin.H{
		"status":  state,
		"db":      dbOK,
		"viewers": c.hub.ViewerCount(),
		"dropped": c.hub.Dropped(),
	})
}
