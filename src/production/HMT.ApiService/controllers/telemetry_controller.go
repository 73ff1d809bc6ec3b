package controllers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	query "gitlab.com/homesense1/hmt.telemetry_server/src/production/HMT.ApiService/implementation/query"
	"gitlab.com/homesense1/hmt.telemetry_server/src/production/HMT.ApiService/middleware"
	logger "gitlab.com/homesense1/hmt.telemetry_server/src/production/HMT.Logger"
	hmtmodels "gitlab.com/homesense1/hmt.telemetry_server/src/production/HMT.Models"
)

// TelemetryController serves the dashboard's read endpoints
type TelemetryController struct {
	queryService        *query.Service
	defaultHistoryHours int
	logger              *logger.Logger
	authMiddleware      *middleware.AuthMiddleware
}

// NewTelemetryController creates a new telemetry controller
func NewTelemetryController(queryService *query.Service, defaultHistoryHours int, logger *logger.Logger, authMiddleware *middleware.AuthMiddleware) *TelemetryController {
	return &TelemetryController{
		queryService:        queryService,
		defaultHistoryHours: defaultHistoryHours,
		logger:              logger,
		authMiddleware:      authMiddleware,
	}
}

// RegisterRoutes registers the telemetry routes with Gin
func (c *TelemetryController) RegisterRoutes(router *gin.Engine) {
	api := router.Group("/api", c.authMiddleware.Authenticate())
	{
		api.GET("/current_data", c.GetCurrentData)
		api.GET("/historical_data", c.GetHistoricalData)
		api.GET("/suggestions", c.GetSuggestions)
	}
}

// GetCurrentData returns the most recent reading. An empty object is
// returned before the first sample lands.
func (c *TelemetryController) GetCurrentData(ctx *gin.Context) {
	reading, err := c.queryService.CurrentReading(ctx.Request.Context())
	if err != nil {
		c.logger.ErrorWithError(err, "Failed to load current reading")
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "storage unavailable"})
		return
	}

	if reading == nil {
		ctx.JSON(http.StatusOK, gin.H{})
		return
	}

	ctx.JSON(http.StatusOK, reading)
}

// GetHistoricalData returns readings from the last ?hours= hours, oldest
// first.
func (c *TelemetryController) GetHistoricalData(ctx *gin.Context) {
	hours := c.defaultHistoryHours
	if hoursStr := ctx.Query("hours"); hoursStr != "" {
		parsed, err := strconv.Atoi(hoursStr)
		if err != nil {
			ctx.JSON(http.StatusBadRequest, gin.H{"error": "hours must be an integer"})
			return
		}
		hours = parsed
	}

	readings, err := c.queryService.History(ctx.Request.Context(), hours)
	if err != nil {
		if errors.Is(err, hmtmodels.ErrInvalidArgument) {
			ctx.JSON(http.StatusBadRequest, gin.H{"error": "hours must be positive"})
			return
		}
		c.logger.ErrorWithError(err, "Failed to load historical readings")
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "storage unavailable"})
		return
	}

	if readings == nil {
		readings = []hmtmodels.Reading{}
	}

	ctx.JSON(http.StatusOK, readings)
}

// GetSuggestions returns recent advisories, highest priority first.
func (c *TelemetryController) GetSuggestions(ctx *gin.Context) {
	advisories, err := c.queryService.RecentAdvisories(ctx.Request.Context())
	if err != nil {
		c.logger.ErrorWithError(err, "Failed to load advisories")
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "storage unavailable"})
		return
	}

	if advisories == nil {
		advisories = []hmtmodels.Advisory{}
	}

	ctx.JSON(http.StatusOK, advisories)
}
