package main

import (
	"os"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"

	"options-trader/controllers"
	"options-trader/database"
	"options-trader/services"
)

func main() {
	logger := logrus.New()
	logger.SetFormatter(&logrus.TextFormatter{
		FullTimestamp: true,
	})

	if err := godotenv.Load(); err != nil {
		logger.Warn("No .env file found, using environment variables")
	}

	dbPath := getEnv("DB_PATH", "data/options-trader.db")
	storage, err := database.NewLocalStorage(dbPath)
	if err != nil {
		logger.WithError(err).Fatal("Failed to initialize storage")
	}
	defer storage.Close()

	marketData := services.NewAlpacaMarketDataService(
		os.Getenv("ALPACA_API_KEY"),
		os.Getenv("ALPACA_SECRET_KEY"),
	)

	pricing := services.NewBlackScholesService()
	calendar := services.NewMarketCalendar()
	parser := services.NewContractParser()
	builder := services.NewStrategyBuilder()
	strategyService := services.NewStrategyService(storage)
	holdingService := services.NewHoldingService(storage)
	portfolioService := services.NewPortfolioService(marketData, storage, storage, pricing)

	strategyController := controllers.NewStrategyController(strategyService, builder, parser, calendar)
	holdingController := controllers.NewHoldingController(holdingService, parser)
	portfolioController := controllers.NewPortfolioController(portfolioService)
	marketController := controllers.NewMarketController(calendar)

	router := gin.Default()
	api := router.Group("/api/v1")
	{
		api.POST("/strategies", strategyController.HandleOpenStrategy)
		api.GET("/strategies", strategyController.HandleListStrategies)
		api.POST("/strategies/:id/close", strategyController.HandleCloseStrategy)
		api.POST("/contracts/parse", strategyController.HandleParseContract)

		api.POST("/holdings", holdingController.HandleAddHolding)
		api.GET("/holdings", holdingController.HandleListHoldings)
		api.DELETE("/holdings/:id", holdingController.HandleRemoveHolding)
		api.DELETE("/holdings", holdingController.HandleRemoveByTicker)

		api.GET("/portfolio", portfolioController.HandleGetPortfolio)

		api.GET("/market/status", marketController.HandleMarketStatus)
		api.GET("/market/expiries", marketController.HandleSuggestExpiries)
	}

	port := getEnv("PORT", "8080")
	logger.WithField("port", port).Info("Starting options-trader API")
	if err := router.Run(":" + port); err != nil {
		logger.WithError(err).Fatal("Server exited")
	}
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
