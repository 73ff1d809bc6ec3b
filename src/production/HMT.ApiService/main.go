package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"gitlab.com/homesense1/hmt.telemetry_server/src/production/HMT.ApiService/controllers"
	health "gitlab.com/homesense1/hmt.telemetry_server/src/production/HMT.ApiService/health"
	broadcast "gitlab.com/homesense1/hmt.telemetry_server/src/production/HMT.Broadcast"
	config "gitlab.com/homesense1/hmt.telemetry_server/src/production/HMT.Config"
	container "gitlab.com/homesense1/hmt.telemetry_server/src/production/HMT.Container"
	mqtingestor "gitlab.com/homesense1/hmt.telemetry_server/src/production/HMT.Ingestor"
	hmtmodels "gitlab.com/homesense1/hmt.telemetry_server/src/production/HMT.Models"
	interfaces "gitlab.com/homesense1/hmt.telemetry_server/src/production/HMT.Repository/Interfaces"
	implementation "gitlab.com/homesense1/hmt.telemetry_server/src/production/HMT.Repository/Implementation"
	sampler "gitlab.com/homesense1/hmt.telemetry_server/src/production/HMT.Sampler"
	scheduler "gitlab.com/homesense1/hmt.telemetry_server/src/production/HMT.Scheduler"

	authService "gitlab.com/homesense1/hmt.telemetry_server/src/production/HMT.ApiService/implementation/auth"
	jwt "gitlab.com/homesense1/hmt.telemetry_server/src/production/HMT.ApiService/implementation/jwt"
	query "gitlab.com/homesense1/hmt.telemetry_server/src/production/HMT.ApiService/implementation/query"
	authMiddleware "gitlab.com/homesense1/hmt.telemetry_server/src/production/HMT.ApiService/middleware"
	api_models "gitlab.com/homesense1/hmt.telemetry_server/src/production/HMT.Models/api"
)

func main() {
	// Initialize dependency injection container
	ctr, err := container.NewContainer()
	if err != nil {
		panic(fmt.Sprintf("Failed to initialize container: %v", err))
	}
	defer ctr.Shutdown(context.Background())

	logger := ctr.GetLogger()
	logger.Info("Starting Telemetry Service")

	cfg := ctr.GetConfig()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	// Select the storage driver
	var (
		telemetryRepo interfaces.TelemetryRepository
		deviceRepo    interfaces.DeviceRepository
		userRepo      interfaces.UserRepository
		healthChecker *health.HealthChecker
	)

	switch cfg.Database.Driver {
	case config.StorageDriverPostgres:
		if err := ctr.InitializeDatabase(ctx); err != nil {
			logger.FatalWithError(err, "Failed to initialize database")
		}

		db, err := ctr.GetDatabase()
		if err != nil {
			logger.FatalWithError(err, "Failed to get database connection")
		}

		telemetryRepo = implementation.NewPostgresTelemetryRepository(db)
		deviceRepo = implementation.NewPostgresDeviceRepository(db)
		userRepo = implementation.NewPostgresUserRepository(db)

		healthChecker, err = ctr.GetHealthChecker()
		if err != nil {
			logger.FatalWithError(err, "Failed to get health checker")
		}
	case config.StorageDriverMemory:
		logger.Info("Using in-memory storage driver")
		telemetryRepo = implementation.NewMemoryTelemetryRepository()
		deviceRepo = implementation.NewMemoryDeviceRepository()
		userRepo = implementation.NewMemoryUserRepository()
	}

	// Seed the device registry
	if err := deviceRepo.Seed(ctx, hmtmodels.SeedDevices()); err != nil {
		logger.FatalWithError(err, "Failed to seed devices")
	}

	// Auth wiring
	jwtConfig := api_models.Config{
		SecretKey:            cfg.Auth.JWTSecretKey,
		AccessTokenDuration:  cfg.Auth.AccessTokenDuration,
		RefreshTokenDuration: cfg.Auth.RefreshTokenDuration,
		Issuer:               cfg.Auth.JWTIssuer,
	}
	jwtService := jwt.NewService(jwtConfig)

	middlewareInstance := authMiddleware.NewAuthMiddleware(jwtService, authMiddleware.DefaultConfig())
	authServiceInstance := authService.NewAuthService(userRepo, jwtService)

	userInitializer := authService.NewUserInitializerService(
		userRepo,
		logger,
		authService.AdminConfig{
			Username: cfg.Auth.Admin.Username,
			Password: cfg.Auth.Admin.Password,
		},
	)
	if err := userInitializer.InitializeAdminUser(ctx); err != nil {
		logger.FatalWithError(err, "Failed to initialize dashboard user")
	}

	// Broadcast hub
	hub := broadcast.NewHub(cfg.Telemetry.ViewerBufferSize, logger)

	// Telemetry pipeline: sampler (or MQTT ingestor) feeding the scheduler
	loop := scheduler.New(sampler.New(), telemetryRepo, hub, cfg.Telemetry.TickInterval, logger)

	var ingestor *mqtingestor.Ingestor
	if cfg.Telemetry.Source == config.TelemetrySourceMQTT {
		ingestor = mqtingestor.New(cfg, logger)
		if err := ingestor.Start(); err != nil {
			logger.FatalWithError(err, "Failed to start MQTT ingestor")
		}
		loop = loop.WithReadings(ingestor.Readings())
	}

	// Optional Mongo archive
	mongoClient, err := ctr.GetMongoClient()
	if err != nil {
		logger.ErrorWithError(err, "Mongo archive unavailable, continuing without it")
	} else if mongoClient != nil {
		coll := health.ArchiveCollection(mongoClient, cfg)
		loop = loop.WithArchive(implementation.NewMongoSampleArchive(coll))
		logger.Info("Mongo sample archive enabled")
	}

	// Run the scheduler loop
	loopCtx, stopLoop := context.WithCancel(context.Background())
	loopDone := make(chan struct{})
	go func() {
		defer close(loopDone)
		loop.Run(loopCtx)
	}()

	// Read-side query service
	queryService := query.NewService(telemetryRepo, cfg.Telemetry.AdvisoryWindow, cfg.Telemetry.AdvisoryLimit)

	// HTTP wiring
	router := gin.New()
	router.Use(gin.Logger())
	router.Use(gin.Recovery())

	corsConfig := cors.Config{
		AllowOrigins:     cfg.CORS.AllowedOrigins,
		AllowMethods:     cfg.CORS.AllowedMethods,
		AllowHeaders:     cfg.CORS.AllowedHeaders,
		ExposeHeaders:    cfg.CORS.ExposedHeaders,
		AllowCredentials: cfg.CORS.AllowCredentials,
		MaxAge:           time.Duration(cfg.CORS.MaxAge) * time.Second,
	}
	router.Use(cors.New(corsConfig))

	authController := controllers.NewAuthController(authServiceInstance)
	telemetryController := controllers.NewTelemetryController(queryService, cfg.Telemetry.DefaultHistoryHours, logger, middlewareInstance)
	deviceController := controllers.NewDeviceController(deviceRepo, logger, middlewareInstance)
	streamController := controllers.NewStreamController(hub, logger)
	healthController := controllers.NewHealthController(healthChecker, hub, logger)

	authController.RegisterRoutes(router, middlewareInstance)
	telemetryController.RegisterRoutes(router)
	deviceController.RegisterRoutes(router)
	streamController.RegisterRoutes(router)
	healthController.RegisterRoutes(router)

	port := cfg.Server.Port

	srv := &http.Server{
		Addr:         ":" + port,
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	go func() {
		logger.Info("HTTP server starting on port " + port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.FatalWithError(err, "Failed to start HTTP server")
		}
	}()

	logger.Info("Telemetry service running... press Ctrl+C to stop")

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	<-sig

	logger.Info("Shutting down...")

	// Stop producing before tearing down consumers
	stopLoop()
	<-loopDone

	if ingestor != nil {
		ingestor.Stop()
	}

	hub.Close()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.ErrorWithError(err, "Server forced to shutdown")
	}
}
