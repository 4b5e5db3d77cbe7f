package controllers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"options-trader/services"
)

// PortfolioController handles live valuation endpoints
type PortfolioController struct {
	portfolioService *services.PortfolioService
}

// NewPortfolioController creates a new portfolio controller
func NewPortfolioController(portfolioService *services.PortfolioService) *PortfolioController {
	return &PortfolioController{
		portfolioService: portfolioService,
	}
}

// HandleGetPortfolio values a user's holdings and open strategies
// GET /api/v1/portfolio?user_id=...&volatility=0.35
func (pc *PortfolioController) HandleGetPortfolio(c *gin.Context) {
	userID := c.Query("user_id")
	if userID == "" {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "user_id required",
		})
		return
	}

	// Zero selects the engine default.
	volatility := 0.0
	if v := c.Query("volatility"); v != "" {
		parsed, err := strconv.ParseFloat(v, 64)
		if err != nil || parsed <= 0 {
			c.JSON(http.StatusBadRequest, gin.H{
				"error": "volatility must be a positive number",
			})
			return
		}
		volatility = parsed
	}

	positions, err := pc.portfolioService.AnalyzeHoldings(c.Request.Context(), userID, volatility)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "Failed to analyze holdings",
			"details": err.Error(),
		})
		return
	}

	strategies, err := pc.portfolioService.AnalyzeStrategies(c.Request.Context(), userID, volatility)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "Failed to analyze strategies",
			"details": err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"positions":  positions,
		"strategies": strategies,
	})
}
