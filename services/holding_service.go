package services

import (
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"options-trader/interfaces"
	"options-trader/models"
)

// HoldingService manages the legacy single-position holdings that back the
// flat portfolio view
type HoldingService struct {
	store  interfaces.HoldingStore
	logger *logrus.Logger
}

// NewHoldingService creates a new holding service
func NewHoldingService(store interfaces.HoldingStore) *HoldingService {
	logger := logrus.New()
	logger.SetFormatter(&logrus.TextFormatter{
		FullTimestamp: true,
	})

	return &HoldingService{
		store:  store,
		logger: logger,
	}
}

// AddHolding records a new holding. The expiration is daysToExpiry calendar
// days from now.
func (hs *HoldingService) AddHolding(userID, ticker string, optionType models.OptionType, strike float64, daysToExpiry int, buyPrice float64) (*models.Holding, error) {
	holding := &models.Holding{
		UserID:      userID,
		Ticker:      strings.ToUpper(ticker),
		OptionType:  optionType,
		StrikePrice: strike,
		Expiration:  time.Now().AddDate(0, 0, daysToExpiry),
		BuyPrice:    buyPrice,
	}

	saved, err := hs.store.SaveHolding(holding)
	if err != nil {
		return nil, err
	}

	hs.logger.WithFields(logrus.Fields{
		"user":   userID,
		"ticker": holding.Ticker,
		"strike": strike,
		"type":   optionType,
	}).Info("Added holding")

	return saved, nil
}

// GetHoldings lists all holdings for a user
func (hs *HoldingService) GetHoldings(userID string) ([]models.Holding, error) {
	return hs.store.GetHoldings(userID)
}

// GetHoldingByID fetches one holding
func (hs *HoldingService) GetHoldingByID(id uint) (*models.Holding, error) {
	return hs.store.GetHoldingByID(id)
}

// RemoveHolding deletes one holding by id
func (hs *HoldingService) RemoveHolding(id uint) error {
	return hs.store.RemoveHolding(id)
}

// RemoveAllByTicker deletes every holding a user has for a ticker and
// returns how many were removed
func (hs *HoldingService) RemoveAllByTicker(userID, ticker string) (int64, error) {
	return hs.store.RemoveHoldingsByTicker(userID, strings.ToUpper(ticker))
}
