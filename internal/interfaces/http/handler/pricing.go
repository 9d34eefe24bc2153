package handler

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	pricingapp "github.com/pricecraft/backend/internal/application/pricing"
	"github.com/pricecraft/backend/internal/infrastructure/telemetry"
)

// PricingHandler exposes the stateless price quote endpoint
type PricingHandler struct {
	BaseHandler
	quoteService *pricingapp.QuoteService
	metrics      *telemetry.BusinessMetrics
}

// NewPricingHandler creates a PricingHandler. Metrics may be nil when
// telemetry is disabled.
func NewPricingHandler(quoteService *pricingapp.QuoteService, metrics *telemetry.BusinessMetrics, logger *zap.Logger) *PricingHandler {
	return &PricingHandler{
		BaseHandler:  NewBaseHandler(logger),
		quoteService: quoteService,
		metrics:      metrics,
	}
}

// RegisterRoutes registers the pricing endpoints on the given group
func (h *PricingHandler) RegisterRoutes(rg *gin.RouterGroup) {
	pricing := rg.Group("/pricing")
	{
		pricing.POST("/quote", h.Quote)
	}
}

// Quote computes a selling price breakdown from cost components.
// Blank or malformed numeric fields are treated as zero.
// @Summary Compute a price quote
// @Tags pricing
// @Accept json
// @Produce json
// @Param request body pricingapp.QuoteRequest true "Cost components"
// @Success 200 {object} dto.Response
// @Router /api/v1/pricing/quote [post]
func (h *PricingHandler) Quote(c *gin.Context) {
	var req pricingapp.QuoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	result := h.quoteService.Quote(req)

	if h.metrics != nil {
		h.metrics.RecordQuote(c.Request.Context(), result.ProfitMargin)
	}

	h.Success(c, result)
}
