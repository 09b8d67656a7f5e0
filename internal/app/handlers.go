package app

import (
	"github.com/podsweep/podsweep-backend/internal/handlers"
	"github.com/podsweep/podsweep-backend/internal/logger"
)

type Handlers struct {
	Segment *handlers.SegmentHandler
	Jobs    *handlers.JobsHandler
	Pricing *handlers.PricingHandler
}

func wireHandlers(log *logger.Logger, services Services) Handlers {
	log.Info("Wiring handlers...")
	return Handlers{
		Segment: handlers.NewSegmentHandler(log, services.Segment, services.Job),
		Jobs:    handlers.NewJobsHandler(services.Job),
		Pricing: handlers.NewPricingHandler(services.Pricing),
	}
}
