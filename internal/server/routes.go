package server

import (
	"github.com/nulzo/model-capability-api/cmd"
	"github.com/nulzo/model-capability-api/internal/server/middleware"
	v1 "github.com/nulzo/model-capability-api/internal/server/v1"
)

func (s *Server) SetupRoutes() {
	// 1. Global Middleware
	s.router.Use(middleware.CORS())
	s.router.Use(middleware.ErrorHandler(s.logger))

	if s.config.Tracing.Enabled {
		s.router.Use(middleware.Tracing(s.config.Tracing.ServiceName))
	}

	rl := middleware.NewRateLimiter(s.config.RateLimit.RequestsPerSecond, s.config.RateLimit.Burst, s.logger)
	s.router.Use(rl.Middleware())

	// 2. Health Checks (Public)
	healthHandler := v1.NewHealthHandler(s.service, cmd.AppVersion)
	s.router.GET("/health", healthHandler.Health)
	s.router.GET("/ready", healthHandler.Ready)

	// 3. API V1 Group
	api := s.router.Group("/v1")
	api.Use(middleware.Auth(s.repo, s.config.Server.APIKeys)) // Require API Key for everything below
	{
		modelHandler := v1.NewModelHandler(s.service)
		api.GET("/models", modelHandler.ListModels)
		api.GET("/models/:name", modelHandler.GetModel)
		api.GET("/models/:name/validate", modelHandler.ValidateModel)
		api.GET("/models/:name/verify", modelHandler.VerifyModel)

		generationHandler := v1.NewGenerationHandler(s.service)
		api.POST("/generate", generationHandler.Generate)

		// Audit endpoints need a database behind them
		if s.auditSvc != nil {
			auditHandler := v1.NewAuditHandler(s.auditSvc)
			api.GET("/audit/recent", auditHandler.Recent)
			api.GET("/audit/stats", auditHandler.Stats)
		}
	}
}
