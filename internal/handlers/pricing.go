package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/podsweep/podsweep-backend/internal/services"
)

type PricingHandler struct {
	pricing services.PricingService
}

func NewPricingHandler(pricing services.PricingService) *PricingHandler {
	return &PricingHandler{pricing: pricing}
}

// GET /api/config/model-pricing
func (h *PricingHandler) GetModelPricing(c *gin.Context) {
	RespondOK(c, gin.H{"models": h.pricing.List()})
}
