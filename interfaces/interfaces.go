package interfaces

import (
	"context"

	"options-trader/models"
)

// MarketDataProvider defines the interface for fetching live underlying
// prices. A zero or negative price is treated as "unavailable" by callers,
// the same as an error.
type MarketDataProvider interface {
	GetPrice(ctx context.Context, ticker string) (float64, error)
}

// StrategyStore defines the persistence interface for strategies.
// SaveStrategyWithLegs must be atomic: a strategy is never observable
// without its legs, or legs without their strategy.
type StrategyStore interface {
	SaveStrategyWithLegs(strategy *models.Strategy) (*models.Strategy, error)
	FindOpenStrategies(userID string) ([]models.Strategy, error)
	CloseStrategy(id uint) error
}

// HoldingStore defines the persistence interface for legacy single-leg
// holdings.
type HoldingStore interface {
	SaveHolding(holding *models.Holding) (*models.Holding, error)
	GetHoldings(userID string) ([]models.Holding, error)
	GetHoldingByID(id uint) (*models.Holding, error)
	RemoveHolding(id uint) error
	RemoveHoldingsByTicker(userID, ticker string) (int64, error)
}
