package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"options-trader/models"
)

type fakeMarketData struct {
	prices map[string]float64
}

func (f *fakeMarketData) GetPrice(ctx context.Context, ticker string) (float64, error) {
	if price, ok := f.prices[ticker]; ok {
		return price, nil
	}
	return 0, &models.MarketDataUnavailableError{Ticker: ticker}
}

type fakeStore struct {
	holdings   []models.Holding
	strategies []models.Strategy
}

func (f *fakeStore) SaveStrategyWithLegs(s *models.Strategy) (*models.Strategy, error) {
	f.strategies = append(f.strategies, *s)
	return s, nil
}

func (f *fakeStore) FindOpenStrategies(userID string) ([]models.Strategy, error) {
	return f.strategies, nil
}

func (f *fakeStore) CloseStrategy(id uint) error { return nil }

func (f *fakeStore) SaveHolding(h *models.Holding) (*models.Holding, error) {
	f.holdings = append(f.holdings, *h)
	return h, nil
}

func (f *fakeStore) GetHoldings(userID string) ([]models.Holding, error) {
	return f.holdings, nil
}

func (f *fakeStore) GetHoldingByID(id uint) (*models.Holding, error) { return nil, nil }
func (f *fakeStore) RemoveHolding(id uint) error                     { return nil }
func (f *fakeStore) RemoveHoldingsByTicker(userID, ticker string) (int64, error) {
	return 0, nil
}

func TestGroupHoldings(t *testing.T) {
	exp := time.Now().AddDate(0, 0, 30)

	t.Run("same key positions are dollar-cost averaged", func(t *testing.T) {
		groups := GroupHoldings([]models.Holding{
			{Ticker: "NVDA", OptionType: models.OptionCall, StrikePrice: 150, BuyPrice: 2.00, Expiration: exp},
			{Ticker: "NVDA", OptionType: models.OptionCall, StrikePrice: 150, BuyPrice: 3.00, Expiration: exp},
		})

		require.Len(t, groups, 1)
		assert.Equal(t, 2, groups[0].Contracts)
		assert.Equal(t, 2.50, groups[0].AvgEntryPrice)
	})

	t.Run("kind and strike split groups", func(t *testing.T) {
		groups := GroupHoldings([]models.Holding{
			{Ticker: "NVDA", OptionType: models.OptionCall, StrikePrice: 150, BuyPrice: 2.00, Expiration: exp},
			{Ticker: "NVDA", OptionType: models.OptionPut, StrikePrice: 150, BuyPrice: 2.00, Expiration: exp},
			{Ticker: "NVDA", OptionType: models.OptionCall, StrikePrice: 155, BuyPrice: 2.00, Expiration: exp},
		})

		assert.Len(t, groups, 3)
	})

	t.Run("groups keep first-appearance order", func(t *testing.T) {
		groups := GroupHoldings([]models.Holding{
			{Ticker: "TSLA", OptionType: models.OptionCall, StrikePrice: 400, BuyPrice: 5.00, Expiration: exp},
			{Ticker: "AAPL", OptionType: models.OptionCall, StrikePrice: 200, BuyPrice: 1.00, Expiration: exp},
			{Ticker: "TSLA", OptionType: models.OptionCall, StrikePrice: 400, BuyPrice: 6.00, Expiration: exp},
		})

		require.Len(t, groups, 2)
		assert.Equal(t, "TSLA", groups[0].Ticker)
		assert.Equal(t, "AAPL", groups[1].Ticker)
	})
}

func TestAnalyzeHoldings(t *testing.T) {
	exp := time.Now().AddDate(0, 0, 30)

	store := &fakeStore{holdings: []models.Holding{
		{Ticker: "NVDA", OptionType: models.OptionCall, StrikePrice: 150, BuyPrice: 2.00, Expiration: exp},
		{Ticker: "NVDA", OptionType: models.OptionCall, StrikePrice: 150, BuyPrice: 3.00, Expiration: exp},
		{Ticker: "FAIL", OptionType: models.OptionPut, StrikePrice: 50, BuyPrice: 1.00, Expiration: exp},
	}}
	market := &fakeMarketData{prices: map[string]float64{"NVDA": 160}}

	ps := NewPortfolioService(market, store, store, NewBlackScholesService())

	reports, err := ps.AnalyzeHoldings(context.Background(), "user1", 0)
	require.NoError(t, err)
	require.Len(t, reports, 2)

	t.Run("priced group reports fair value and pnl", func(t *testing.T) {
		nvda := reports[0]
		require.True(t, nvda.Analyzable)
		assert.Equal(t, 160.0, nvda.UnderlyingPrice)
		assert.Equal(t, 2.50, nvda.AvgEntryPrice)
		assert.Greater(t, nvda.FairValue, 10.0) // at least intrinsic
		assert.InDelta(t, nvda.FairValue-2.50, nvda.PnL, 0.01)
		assert.InDelta(t, nvda.PnL/2.50*100, nvda.PnLPercent, 0.5)
	})

	t.Run("unfetchable ticker is marked, siblings unaffected", func(t *testing.T) {
		fail := reports[1]
		assert.False(t, fail.Analyzable)
		assert.Equal(t, couldNotAnalyze, fail.Note)
		assert.Equal(t, 1.00, fail.AvgEntryPrice)
	})
}

func TestAnalyzeStrategies(t *testing.T) {
	exp := time.Now().AddDate(0, 0, 45)
	netCost := 2.50

	store := &fakeStore{strategies: []models.Strategy{
		{
			UserID: "user1", Ticker: "NVDA", StrategyType: models.StrategyVertical,
			Status: models.StatusOpen, NetCost: &netCost,
			Legs: []models.Leg{
				{OptionType: models.OptionCall, StrikePrice: 150, Expiration: exp, Quantity: 1},
				{OptionType: models.OptionCall, StrikePrice: 160, Expiration: exp, Quantity: -1},
			},
		},
		{
			UserID: "user1", Ticker: "NVDA", StrategyType: models.StrategySingle,
			Status: models.StatusOpen,
			Legs: []models.Leg{
				{OptionType: models.OptionPut, StrikePrice: 140, Expiration: exp, EntryPrice: 1.80, Quantity: 1},
			},
		},
		{
			UserID: "user1", Ticker: "DOWN", StrategyType: models.StrategySingle,
			Status: models.StatusOpen,
			Legs: []models.Leg{
				{OptionType: models.OptionCall, StrikePrice: 10, Expiration: exp, EntryPrice: 0.50, Quantity: 1},
			},
		},
	}}
	market := &fakeMarketData{prices: map[string]float64{"NVDA": 155}}

	ps := NewPortfolioService(market, store, store, NewBlackScholesService())

	reports, err := ps.AnalyzeStrategies(context.Background(), "user1", 0)
	require.NoError(t, err)
	require.Len(t, reports, 3)

	t.Run("multi-leg pnl is measured against net cost only", func(t *testing.T) {
		vertical := reports[0]
		require.True(t, vertical.Analyzable)
		require.NotNil(t, vertical.NetCost)
		assert.InDelta(t, vertical.FairValue-2.50, vertical.PnL, 0.01)
		// Long 150 / short 160 call spread is worth between 0 and 10.
		assert.Greater(t, vertical.FairValue, 0.0)
		assert.Less(t, vertical.FairValue, 10.0)
	})

	t.Run("single-leg pnl is measured against the leg entry price", func(t *testing.T) {
		single := reports[1]
		require.True(t, single.Analyzable)
		assert.InDelta(t, single.FairValue-1.80, single.PnL, 0.01)
	})

	t.Run("failed ticker is isolated", func(t *testing.T) {
		down := reports[2]
		assert.False(t, down.Analyzable)
		assert.Equal(t, couldNotAnalyze, down.Note)
	})
}
