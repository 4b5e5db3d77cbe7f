package controllers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"options-trader/services"
)

// MarketController handles trading-calendar endpoints
type MarketController struct {
	calendar *services.MarketCalendar
}

// NewMarketController creates a new market controller
func NewMarketController(calendar *services.MarketCalendar) *MarketController {
	return &MarketController{
		calendar: calendar,
	}
}

// HandleMarketStatus reports whether the market is open right now
// GET /api/v1/market/status
func (mc *MarketController) HandleMarketStatus(c *gin.Context) {
	open := mc.calendar.IsMarketOpen()

	resp := gin.H{"open": open}
	if !open {
		resp["reason"] = mc.calendar.ClosedReason()
	}

	c.JSON(http.StatusOK, resp)
}

// HandleSuggestExpiries suggests trading-day expiries near a requested DTE
// GET /api/v1/market/expiries?dte=30
func (mc *MarketController) HandleSuggestExpiries(c *gin.Context) {
	dte, err := strconv.Atoi(c.Query("dte"))
	if err != nil || dte < 0 {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "dte must be a non-negative integer",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"requested_dte": dte,
		"suggestions":   mc.calendar.SuggestNearbyExpiries(dte),
	})
}
