package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"swapdesk/internal/handlers/business"
	"swapdesk/internal/pricing"
)

// ChartHandler serves gap-filled price charts.
type ChartHandler struct {
	charts *business.ChartService
}

func NewChartHandler(charts *business.ChartService) *ChartHandler {
	return &ChartHandler{charts: charts}
}

// GetChart returns the chart for /chart/:mint?granularity=...&tz=... .
// tz defaults to UTC; granularity defaults to day. An empty points array
// means the granularity is not offered for this asset's age.
func (h *ChartHandler) GetChart(c *gin.Context) {
	mint := c.Param("mint")
	if mint == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "mint is required"})
		return
	}

	granularity, ok := pricing.ParseGranularity(c.DefaultQuery("granularity", "day"))
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "unknown granularity"})
		return
	}

	loc := time.UTC
	if tz := c.Query("tz"); tz != "" {
		parsed, err := time.LoadLocation(tz)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "unknown timezone"})
			return
		}
		loc = parsed
	}

	token, err := tokenByMint(mint)
	if err != nil {
		respondError(c, err)
		return
	}

	points, err := h.charts.BuildChart(c.Request.Context(), token, granularity, loc)
	if err != nil {
		respondError(c, err)
		return
	}
	if points == nil {
		points = []pricing.ChartPoint{}
	}

	c.JSON(http.StatusOK, gin.H{
		"mint":        mint,
		"granularity": string(granularity),
		"points":      points,
	})
}
