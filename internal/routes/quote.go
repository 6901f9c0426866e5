package routes

import (
	"github.com/gin-gonic/gin"

	"swapdesk/internal/handlers"
	"swapdesk/internal/middleware"
)

// SetupQuoteRoutes sets up all routes related to quoting
func SetupQuoteRoutes(r *gin.Engine, h *handlers.QuoteHandler) {
	quote := r.Group("/quote")
	quote.Use(middleware.SubmitLimiter(middleware.SubmitLimiterConfig{
		RequestsPerSecond: 5,
		Burst:             10,
	}))
	{
		quote.POST("", h.CreateQuote)
	}
}
