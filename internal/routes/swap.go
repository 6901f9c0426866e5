package routes

import (
	"github.com/gin-gonic/gin"

	"swapdesk/internal/handlers"
	"swapdesk/internal/middleware"
)

// SetupSwapRoutes sets up all routes related to swap submission and status
func SetupSwapRoutes(r *gin.Engine, h *handlers.SwapHandler) {
	swap := r.Group("/swap")
	{
		swap.GET("/:id", h.GetSwap)
		swap.GET("/:id/status", h.GetSwapStatus)
		swap.POST("/:id/sync", h.SyncSwapStatus)
	}

	submit := r.Group("/swap")
	submit.Use(middleware.SubmitLimiter(middleware.SubmitLimiterConfig{
		RequestsPerSecond: 2,
		Burst:             5,
	}))
	{
		submit.POST("", h.SubmitSwap)
	}
}
