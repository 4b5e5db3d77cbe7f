package controllers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"options-trader/services"
)

// HoldingController handles the legacy single-position endpoints
type HoldingController struct {
	holdingService *services.HoldingService
	parser         *services.ContractParser
}

// NewHoldingController creates a new holding controller
func NewHoldingController(holdingService *services.HoldingService, parser *services.ContractParser) *HoldingController {
	return &HoldingController{
		holdingService: holdingService,
		parser:         parser,
	}
}

// AddHoldingRequest records a bought contract in compact notation
type AddHoldingRequest struct {
	UserID string `json:"user_id" binding:"required"`
	// Compact order, e.g. "NVDA 150c 30d".
	Order    string  `json:"order" binding:"required"`
	BuyPrice float64 `json:"buy_price" binding:"required,gt=0"`
}

// HandleAddHolding adds a holding from compact notation
// POST /api/v1/holdings
func (hc *HoldingController) HandleAddHolding(c *gin.Context) {
	var req AddHoldingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request",
			"details": err.Error(),
		})
		return
	}

	parsed, err := hc.parser.Parse(req.Order)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Failed to parse order",
			"details": err.Error(),
		})
		return
	}

	holding, err := hc.holdingService.AddHolding(req.UserID, parsed.Ticker, parsed.OptionType, parsed.Strike, parsed.Days, req.BuyPrice)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "Failed to add holding",
			"details": err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Holding added successfully",
		"holding": holding,
	})
}

// HandleListHoldings lists a user's holdings
// GET /api/v1/holdings?user_id=...
func (hc *HoldingController) HandleListHoldings(c *gin.Context) {
	userID := c.Query("user_id")
	if userID == "" {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "user_id required",
		})
		return
	}

	holdings, err := hc.holdingService.GetHoldings(userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "Failed to list holdings",
			"details": err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"count":    len(holdings),
		"holdings": holdings,
	})
}

// HandleRemoveHolding removes one holding by id
// DELETE /api/v1/holdings/:id
func (hc *HoldingController) HandleRemoveHolding(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "invalid holding id",
		})
		return
	}

	if err := hc.holdingService.RemoveHolding(uint(id)); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "Failed to remove holding",
			"details": err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Holding removed successfully",
	})
}

// HandleRemoveByTicker removes all of a user's holdings for a ticker
// DELETE /api/v1/holdings?user_id=...&ticker=...
func (hc *HoldingController) HandleRemoveByTicker(c *gin.Context) {
	userID := c.Query("user_id")
	ticker := c.Query("ticker")
	if userID == "" || ticker == "" {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "user_id and ticker required",
		})
		return
	}

	removed, err := hc.holdingService.RemoveAllByTicker(userID, ticker)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "Failed to remove holdings",
			"details": err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Holdings removed successfully",
		"removed": removed,
	})
}
