package services

import (
	"context"

	"github.com/alpacahq/alpaca-trade-api-go/v3/marketdata"
	"github.com/sirupsen/logrus"

	"options-trader/models"
)

// AlpacaMarketDataService fetches live underlying prices from Alpaca's
// market data API. It performs no retries; callers decide how to react to
// an unavailable ticker.
type AlpacaMarketDataService struct {
	client *marketdata.Client
	logger *logrus.Logger
}

// NewAlpacaMarketDataService creates a new Alpaca market data service
func NewAlpacaMarketDataService(apiKey, secretKey string) *AlpacaMarketDataService {
	logger := logrus.New()
	logger.SetFormatter(&logrus.TextFormatter{
		FullTimestamp: true,
	})

	client := marketdata.NewClient(marketdata.ClientOpts{
		APIKey:    apiKey,
		APISecret: secretKey,
	})

	return &AlpacaMarketDataService{
		client: client,
		logger: logger,
	}
}

// GetPrice returns the latest trade price for a ticker. A fetch failure or
// non-positive price comes back as MarketDataUnavailableError.
func (s *AlpacaMarketDataService) GetPrice(ctx context.Context, ticker string) (float64, error) {
	trade, err := s.client.GetLatestTrade(ticker, marketdata.GetLatestTradeRequest{})
	if err != nil {
		s.logger.WithError(err).WithField("ticker", ticker).Warn("Failed to fetch latest trade")
		return 0, &models.MarketDataUnavailableError{Ticker: ticker, Err: err}
	}

	if trade.Price <= 0 {
		return 0, &models.MarketDataUnavailableError{Ticker: ticker}
	}

	s.logger.WithFields(logrus.Fields{
		"ticker": ticker,
		"price":  trade.Price,
	}).Debug("Fetched latest trade")

	return trade.Price, nil
}
