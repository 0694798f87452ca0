package router

import (
	"github.com/gin-gonic/gin"

	"foodrec/internal/config"
	"foodrec/internal/handler"
	"foodrec/internal/middleware"
)

// Setup configures the Gin engine with all routes and middleware.
func Setup(
	cfg *config.Config,
	reconcileH *handler.ReconcileHandler,
	batchH *handler.BatchHandler,
	healthH *handler.HealthHandler,
) *gin.Engine {
	r := gin.New()

	// Global middleware
	r.Use(middleware.Recovery())
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger())
	r.Use(middleware.CORS(cfg.CORS.AllowedOrigins))

	// Health checks
	r.GET("/healthz", healthH.Liveness)
	r.GET("/readyz", healthH.Readiness)

	// Reconciliation protocol surface
	r.GET("/reconcile", reconcileH.Manifest)
	r.POST("/reconcile", reconcileH.Reconcile)

	// Internal batch surface
	v1 := r.Group("/api/v1")
	v1.POST("/batch", batchH.Run)
	v1.GET("/exports/:id", batchH.Download)

	return r
}
