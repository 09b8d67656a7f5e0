package app

import (
	"github.com/gin-gonic/gin"

	"github.com/podsweep/podsweep-backend/internal/logger"
	"github.com/podsweep/podsweep-backend/internal/middleware"
)

type Middleware struct {
	RequestLogger gin.HandlerFunc
}

func wireMiddleware(log *logger.Logger) Middleware {
	log.Info("Wiring middleware...")
	return Middleware{
		RequestLogger: middleware.RequestLogger(log),
	}
}
