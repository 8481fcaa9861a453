// Package v1 provides HTTP API version 1.
package v1

import (
	"github.com/gin-gonic/gin"

	"edumaster/internal/infrastructure/http/v1/handlers"
	"edumaster/internal/infrastructure/http/v1/middleware"
	"edumaster/pkg/logger"
)

// RouterConfig holds router dependencies.
type RouterConfig struct {
	// DB is pinged by the readiness probe
	DB handlers.Pinger

	// Logger for request logging
	Logger *logger.Logger

	// Allocator issues identifiers without persisting a record
	Allocator handlers.IDAllocator

	// Passwords generates initial passwords, identity.GeneratePassword when nil
	Passwords func() string

	// Enrollment creates person records, routes are skipped when nil
	Enrollment handlers.Enroller

	// Audit serves issuance history, routes are skipped when nil
	Audit handlers.AuditReader

	// AllocatorMode is reported by the readiness probe
	AllocatorMode string
}

// NewRouter creates and configures the Gin router.
func NewRouter(cfg RouterConfig) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	if cfg.Logger == nil {
		cfg.Logger = logger.Default()
	}

	router := gin.New()

	// Global middleware (order matters!)
	router.Use(middleware.Recovery())
	router.Use(middleware.Trace())
	router.Use(middleware.Logger(cfg.Logger))
	router.Use(middleware.ErrorHandler())

	healthHandler := handlers.NewHealthHandler(cfg.DB, cfg.AllocatorMode)
	health := router.Group("/health")
	{
		health.GET("/live", healthHandler.Live)
		health.GET("/ready", healthHandler.Ready)
	}

	base := handlers.NewBaseHandler()
	v1 := router.Group("/api/v1")
	{
		registerIdentityRoutes(v1, base, cfg)
		registerEnrollmentRoutes(v1, base, cfg)
		registerAuditRoutes(v1, base, cfg)
	}

	return router
}

func registerIdentityRoutes(rg *gin.RouterGroup, base *handlers.BaseHandler, cfg RouterConfig) {
	if cfg.Allocator == nil {
		return
	}
	h := handlers.NewIdentityHandler(base, cfg.Allocator, cfg.Passwords)

	ids := rg.Group("/ids")
	ids.POST("/students", h.AllocateStudentID)
	ids.POST("/employees", h.AllocateEmployeeID)

	rg.POST("/passwords", h.GeneratePassword)
}

func registerEnrollmentRoutes(rg *gin.RouterGroup, base *handlers.BaseHandler, cfg RouterConfig) {
	if cfg.Enrollment == nil {
		return
	}
	h := handlers.NewEnrollmentHandler(base, cfg.Enrollment)

	rg.POST("/students", h.EnrollStudent)
	rg.POST("/employees", h.OnboardEmployee)
}

func registerAuditRoutes(rg *gin.RouterGroup, base *handlers.BaseHandler, cfg RouterConfig) {
	if cfg.Audit == nil {
		return
	}
	h := handlers.NewAuditHandler(base, cfg.Audit)

	rg.GET("/audit/:entity/:id", h.History)
}
