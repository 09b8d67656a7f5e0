package app

import (
	"github.com/gin-gonic/gin"

	"github.com/podsweep/podsweep-backend/internal/server"
)

func wireRouter(cfg Config, handlers Handlers, middleware Middleware) *gin.Engine {
	return server.NewRouter(server.RouterConfig{
		SegmentHandler: handlers.Segment,
		JobsHandler:    handlers.Jobs,
		PricingHandler: handlers.Pricing,
		Middleware:     []gin.HandlerFunc{middleware.RequestLogger},
		AllowOrigins:   cfg.AllowOrigins,
	})
}
