package server

import (
	"net/http"

	ginzap "github.com/gin-contrib/zap"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/nulzo/model-capability-api/internal/audit"
	"github.com/nulzo/model-capability-api/internal/config"
	"github.com/nulzo/model-capability-api/internal/gateway"
	"github.com/nulzo/model-capability-api/internal/server/middleware"
	"github.com/nulzo/model-capability-api/internal/server/validator"
	"github.com/nulzo/model-capability-api/internal/store"
)

type Server struct {
	router   *gin.Engine
	config   *config.Config
	logger   *zap.Logger
	service  gateway.Service
	auditSvc audit.Service
	repo     store.Repository
}

// New builds the HTTP surface over the gateway. The repo may be nil, in
// which case API keys come from config only.
func New(cfg *config.Config, logger *zap.Logger, service gateway.Service, auditSvc audit.Service, repo store.Repository) *Server {

	if cfg.Server.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	validator.InitValidator()

	engine := gin.New()

	engine.Use(ginzap.RecoveryWithZap(logger, true))
	engine.Use(middleware.Logger(logger))

	s := &Server{
		router:   engine,
		service:  service,
		auditSvc: auditSvc,
		repo:     repo,
		logger:   logger,
		config:   cfg,
	}

	s.SetupRoutes()
	return s
}

func (s *Server) Handler() http.Handler {
	return s.router
}
