package routes

import (
	"github.com/gin-gonic/gin"

	"swapdesk/internal/handlers"
)

// SetupChartRoutes sets up all routes related to price charts
func SetupChartRoutes(r *gin.Engine, h *handlers.ChartHandler) {
	chart := r.Group("/chart")
	{
		chart.GET("/:mint", h.GetChart)
	}
}
