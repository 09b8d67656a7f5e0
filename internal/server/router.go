package server

import (
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/podsweep/podsweep-backend/internal/handlers"
)

type RouterConfig struct {
	SegmentHandler *handlers.SegmentHandler
	JobsHandler    *handlers.JobsHandler
	PricingHandler *handlers.PricingHandler
	Middleware     []gin.HandlerFunc
	AllowOrigins   []string
}

func NewRouter(cfg RouterConfig) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	for _, mw := range cfg.Middleware {
		router.Use(mw)
	}

	origins := cfg.AllowOrigins
	if len(origins) == 0 {
		origins = []string{"http://localhost:3000", "http://localhost:5173"}
	}
	router.Use(cors.New(cors.Config{
		AllowOrigins:     origins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "PATCH", "OPTIONS"},
		AllowHeaders:     []string{"Authorization", "Content-Type", "X-Requested-With"},
		AllowCredentials: true,
	}))

	router.GET("/healthcheck", handlers.HealthCheck)

	api := router.Group("/api")
	{
		api.GET("/posts/:guid/identified-segments", cfg.SegmentHandler.GetIdentifiedSegments)
		api.POST("/posts/:guid/approve-segments", cfg.SegmentHandler.ApproveSegments)
		api.POST("/posts/:guid/override-segments", cfg.SegmentHandler.OverrideSegments)
		api.GET("/posts/:guid/removal-ranges", cfg.SegmentHandler.GetRemovalRanges)
		api.GET("/jobs/:id", cfg.JobsHandler.GetJobByID)
		api.GET("/config/model-pricing", cfg.PricingHandler.GetModelPricing)
	}

	return router
}
