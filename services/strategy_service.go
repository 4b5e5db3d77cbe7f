package services

import (
	"time"

	"github.com/sirupsen/logrus"

	"options-trader/interfaces"
	"options-trader/models"
)

// StrategyService opens, lists and closes multi-leg strategies. Creation is
// atomic: the strategy and all its legs are persisted in one operation.
type StrategyService struct {
	store  interfaces.StrategyStore
	logger *logrus.Logger
}

// NewStrategyService creates a new strategy service
func NewStrategyService(store interfaces.StrategyStore) *StrategyService {
	logger := logrus.New()
	logger.SetFormatter(&logrus.TextFormatter{
		FullTimestamp: true,
	})

	return &StrategyService{
		store:  store,
		logger: logger,
	}
}

// OpenStrategy creates and saves a new strategy with its legs
func (ss *StrategyService) OpenStrategy(userID string, strategyType models.StrategyType, ticker string, legs []models.Leg, netCost *float64) (*models.Strategy, error) {
	strategy := &models.Strategy{
		UserID:       userID,
		Ticker:       ticker,
		StrategyType: strategyType,
		Status:       models.StatusOpen,
		OpenedAt:     time.Now(),
		NetCost:      netCost,
		Legs:         legs,
	}

	if err := strategy.Validate(); err != nil {
		return nil, err
	}

	saved, err := ss.store.SaveStrategyWithLegs(strategy)
	if err != nil {
		return nil, err
	}

	ss.logger.WithFields(logrus.Fields{
		"user":     userID,
		"ticker":   ticker,
		"strategy": strategyType,
		"legs":     len(legs),
	}).Info("Opened strategy")

	return saved, nil
}

// GetOpenStrategies returns all open strategies for a user, legs included
func (ss *StrategyService) GetOpenStrategies(userID string) ([]models.Strategy, error) {
	return ss.store.FindOpenStrategies(userID)
}

// CloseStrategy marks a strategy CLOSED. The transition is terminal and
// never touches the legs.
func (ss *StrategyService) CloseStrategy(id uint) error {
	if err := ss.store.CloseStrategy(id); err != nil {
		return err
	}
	ss.logger.WithField("strategy_id", id).Info("Closed strategy")
	return nil
}
