package controllers

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"options-trader/models"
	"options-trader/services"
)

// StrategyController handles strategy lifecycle endpoints
type StrategyController struct {
	strategyService *services.StrategyService
	builder         *services.StrategyBuilder
	parser          *services.ContractParser
	calendar        *services.MarketCalendar
}

// NewStrategyController creates a new strategy controller
func NewStrategyController(
	strategyService *services.StrategyService,
	builder *services.StrategyBuilder,
	parser *services.ContractParser,
	calendar *services.MarketCalendar,
) *StrategyController {
	return &StrategyController{
		strategyService: strategyService,
		builder:         builder,
		parser:          parser,
		calendar:        calendar,
	}
}

// OpenStrategyRequest is the request body for opening a strategy
type OpenStrategyRequest struct {
	UserID       string              `json:"user_id" binding:"required"`
	Ticker       string              `json:"ticker" binding:"required"`
	StrategyType models.StrategyType `json:"strategy_type" binding:"required"`
	// Strike tokens in template order, same format as the compact
	// notation's strike part: "150", "150c", "200p".
	Strikes []string `json:"strikes" binding:"required"`
	// Days to expiration. Zero is a same-day expiry.
	DTE        int      `json:"dte" binding:"min=0"`
	EntryPrice float64  `json:"entry_price"`
	NetCost    *float64 `json:"net_cost,omitempty"`
}

// HandleOpenStrategy opens a strategy from strike tokens
// POST /api/v1/strategies
func (sc *StrategyController) HandleOpenStrategy(c *gin.Context) {
	var req OpenStrategyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request",
			"details": err.Error(),
		})
		return
	}

	expiration := time.Now().AddDate(0, 0, req.DTE)
	if !sc.calendar.IsTradingDay(expiration) {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":       "Requested expiry is not a trading day",
			"suggestions": sc.calendar.SuggestNearbyExpiries(req.DTE),
		})
		return
	}

	legs, err := sc.builder.BuildLegs(req.StrategyType, req.Strikes, expiration, req.EntryPrice)
	if err != nil {
		status := http.StatusBadRequest
		var countErr *models.InvalidStrikeCountError
		var formatErr *models.FormatError
		if !errors.As(err, &countErr) && !errors.As(err, &formatErr) {
			status = http.StatusInternalServerError
		}
		c.JSON(status, gin.H{
			"error":   "Failed to build legs",
			"details": err.Error(),
		})
		return
	}

	strategy, err := sc.strategyService.OpenStrategy(req.UserID, req.StrategyType, req.Ticker, legs, req.NetCost)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "Failed to open strategy",
			"details": err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":  "Strategy opened successfully",
		"strategy": strategy,
	})
}

// HandleListStrategies lists a user's open strategies
// GET /api/v1/strategies?user_id=...
func (sc *StrategyController) HandleListStrategies(c *gin.Context) {
	userID := c.Query("user_id")
	if userID == "" {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "user_id required",
		})
		return
	}

	strategies, err := sc.strategyService.GetOpenStrategies(userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "Failed to list strategies",
			"details": err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"count":      len(strategies),
		"strategies": strategies,
	})
}

// HandleCloseStrategy marks a strategy CLOSED
// POST /api/v1/strategies/:id/close
func (sc *StrategyController) HandleCloseStrategy(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "invalid strategy id",
		})
		return
	}

	if err := sc.strategyService.CloseStrategy(uint(id)); err != nil {
		c.JSON(http.StatusNotFound, gin.H{
			"error":   "Failed to close strategy",
			"details": err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Strategy closed successfully",
	})
}

// HandleParseContract parses compact notation without side effects
// POST /api/v1/contracts/parse
func (sc *StrategyController) HandleParseContract(c *gin.Context) {
	var req struct {
		Order string `json:"order" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request",
			"details": err.Error(),
		})
		return
	}

	parsed, err := sc.parser.Parse(req.Order)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Failed to parse order",
			"details": err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, parsed)
}
