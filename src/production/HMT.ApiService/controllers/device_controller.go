package controllers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"gitlab.com/homesense1/hmt.telemetry_server/src/production/HMT.ApiService/middleware"
	logger "gitlab.com/homesense1/hmt.telemetry_server/src/production/HMT.Logger"
	hmtmodels "gitlab.com/homesense1/hmt.telemetry_server/src/production/HMT.Models"
	interfaces "gitlab.com/homesense1/hmt.telemetry_server/src/production/HMT.Repository/Interfaces"
)

// DeviceController handles device listing and toggling
type DeviceController struct {
	deviceRepo     interfaces.DeviceRepository
	logger         *logger.Logger
	authMiddleware *middleware.AuthMiddleware
}

// NewDeviceController creates a new device controller
func NewDeviceController(deviceRepo interfaces.DeviceRepository, logger *logger.Logger, authMiddleware *middleware.AuthMiddleware) *DeviceController {
	return &DeviceController{
		deviceRepo:     deviceRepo,
		logger:         logger,
		authMiddleware: authMiddleware,
	}
}

// RegisterRoutes registers the device routes with Gin
func (c *DeviceController) RegisterRoutes(router *gin.Engine) {
	api := router.Group("/api", c.authMiddleware.Authenticate())
	{
		api.GET("/devices", c.ListDevices)
		api.POST("/device/:device_id/toggle", c.ToggleDevice)
	}
}

// ListDevices returns every registered device
func (c *DeviceController) ListDevices(ctx *gin.Context) {
	devices, err := c.deviceRepo.List(ctx.Request.Context())
	if err != nil {
		c.logger.ErrorWithError(err, "Failed to list devices")
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "storage unavailable"})
		return
	}

	if devices == nil {
		devices = []hmtmodels.Device{}
	}

	ctx.JSON(http.StatusOK, devices)
}

// ToggleDevice flips a device between on and off and reports the new status
func (c *DeviceController) ToggleDevice(ctx *gin.Context) {
	idStr := ctx.Param("device_id")
	id, err := strconv.ParseInt(idStr, 10, 64)
	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "invalid device_id"})
		return
	}

	status, err := c.deviceRepo.Toggle(ctx.Request.Context(), id)
	if err != nil {
		if errors.Is(err, hmtmodels.ErrNotFound) {
			ctx.JSON(http.StatusNotFound, gin.H{"error": "device not found"})
			return
		}
		c.logger.ErrorWithError(err, "Failed to toggle device")
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "storage unavailable"})
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"status": status})
}
