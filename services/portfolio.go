package services

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"options-trader/interfaces"
	"options-trader/models"
)

const couldNotAnalyze = "could not analyze"

// HoldingGroup is a set of legacy holdings sharing (ticker, strike, kind),
// shown as one dollar-cost-averaged position
type HoldingGroup struct {
	Ticker        string            `json:"ticker"`
	StrikePrice   float64           `json:"strike_price"`
	OptionType    models.OptionType `json:"option_type"`
	Contracts     int               `json:"contracts"`
	AvgEntryPrice float64           `json:"avg_entry_price"`
	Expiration    time.Time         `json:"expiration"`
}

// PositionReport is a valued holding group. When the underlying price could
// not be fetched, Analyzable is false and only the cost-basis fields are set.
type PositionReport struct {
	HoldingGroup
	UnderlyingPrice float64 `json:"underlying_price,omitempty"`
	FairValue       float64 `json:"fair_value,omitempty"`
	PnL             float64 `json:"pnl,omitempty"`
	PnLPercent      float64 `json:"pnl_percent,omitempty"`
	Analyzable      bool    `json:"analyzable"`
	Note            string  `json:"note,omitempty"`
}

// StrategyReport is a valued open strategy. Multi-leg strategies with a net
// cost report aggregate P&L only; their per-leg entry prices are zero by
// construction and carry no economics.
type StrategyReport struct {
	StrategyID   uint                `json:"strategy_id"`
	Ticker       string              `json:"ticker"`
	StrategyType models.StrategyType `json:"strategy_type"`
	OpenedAt     time.Time           `json:"opened_at"`
	NetCost      *float64            `json:"net_cost,omitempty"`
	Legs         []models.Leg        `json:"legs"`

	UnderlyingPrice float64 `json:"underlying_price,omitempty"`
	FairValue       float64 `json:"fair_value,omitempty"`
	PnL             float64 `json:"pnl,omitempty"`
	PnLPercent      float64 `json:"pnl_percent,omitempty"`
	Analyzable      bool    `json:"analyzable"`
	Note            string  `json:"note,omitempty"`
}

// PortfolioService aggregates holdings and strategies into live valuation
// reports, driving the pricing model with fetched underlying prices
type PortfolioService struct {
	marketData interfaces.MarketDataProvider
	strategies interfaces.StrategyStore
	holdings   interfaces.HoldingStore
	pricing    *BlackScholesService
	logger     *logrus.Logger
}

// NewPortfolioService creates a new portfolio service
func NewPortfolioService(
	marketData interfaces.MarketDataProvider,
	strategies interfaces.StrategyStore,
	holdings interfaces.HoldingStore,
	pricing *BlackScholesService,
) *PortfolioService {
	logger := logrus.New()
	logger.SetFormatter(&logrus.TextFormatter{
		FullTimestamp: true,
	})

	return &PortfolioService{
		marketData: marketData,
		strategies: strategies,
		holdings:   holdings,
		pricing:    pricing,
		logger:     logger,
	}
}

// GroupHoldings buckets holdings by (ticker, strike, kind). The group's
// cost basis is the simple mean of entry prices and the count is the number
// of contracts in the group. Groups keep first-appearance order.
func GroupHoldings(holdings []models.Holding) []HoldingGroup {
	type key struct {
		ticker     string
		strike     float64
		optionType models.OptionType
	}

	index := make(map[key]int)
	groups := []HoldingGroup{}
	sums := []float64{}

	for _, h := range holdings {
		k := key{h.Ticker, h.StrikePrice, h.OptionType}
		i, ok := index[k]
		if !ok {
			i = len(groups)
			index[k] = i
			groups = append(groups, HoldingGroup{
				Ticker:      h.Ticker,
				StrikePrice: h.StrikePrice,
				OptionType:  h.OptionType,
				Expiration:  h.Expiration,
			})
			sums = append(sums, 0)
		}
		groups[i].Contracts++
		sums[i] += h.BuyPrice
	}

	for i := range groups {
		groups[i].AvgEntryPrice = roundCents(sums[i] / float64(groups[i].Contracts))
	}
	return groups
}

// AnalyzeHoldings values a user's grouped holdings. volatility <= 0 selects
// the default. One fetch per distinct ticker, run concurrently; a failed
// ticker is reported inline and does not abort the rest.
func (ps *PortfolioService) AnalyzeHoldings(ctx context.Context, userID string, volatility float64) ([]PositionReport, error) {
	holdings, err := ps.holdings.GetHoldings(userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load holdings: %w", err)
	}

	groups := GroupHoldings(holdings)

	tickers := make([]string, 0, len(groups))
	seen := map[string]bool{}
	for _, g := range groups {
		if !seen[g.Ticker] {
			seen[g.Ticker] = true
			tickers = append(tickers, g.Ticker)
		}
	}
	prices := ps.fetchPrices(ctx, tickers)

	if volatility <= 0 {
		volatility = DefaultVolatility
	}

	reports := make([]PositionReport, 0, len(groups))
	for _, g := range groups {
		report := PositionReport{HoldingGroup: g}

		spot, ok := prices[g.Ticker]
		if !ok {
			report.Note = couldNotAnalyze
			reports = append(reports, report)
			continue
		}

		years := yearsToExpiry(g.Expiration)
		fair, err := ps.pricing.Price(spot, g.StrikePrice, years, volatility, RiskFreeRate, g.OptionType)
		if err != nil {
			ps.logger.WithError(err).WithField("ticker", g.Ticker).Warn("Pricing failed for holding group")
			report.Note = couldNotAnalyze
			reports = append(reports, report)
			continue
		}

		report.Analyzable = true
		report.UnderlyingPrice = spot
		report.FairValue = fair
		report.PnL = roundCents(fair - g.AvgEntryPrice)
		if g.AvgEntryPrice != 0 {
			report.PnLPercent = roundCents(report.PnL / g.AvgEntryPrice * 100)
		}
		reports = append(reports, report)
	}

	return reports, nil
}

// AnalyzeStrategies values a user's open strategies. Multi-leg strategies
// with a net cost are valued against that aggregate figure; single-leg
// strategies against the leg's entry price.
func (ps *PortfolioService) AnalyzeStrategies(ctx context.Context, userID string, volatility float64) ([]StrategyReport, error) {
	strategies, err := ps.strategies.FindOpenStrategies(userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load strategies: %w", err)
	}

	tickers := make([]string, 0, len(strategies))
	seen := map[string]bool{}
	for _, s := range strategies {
		if !seen[s.Ticker] {
			seen[s.Ticker] = true
			tickers = append(tickers, s.Ticker)
		}
	}
	prices := ps.fetchPrices(ctx, tickers)

	if volatility <= 0 {
		volatility = DefaultVolatility
	}

	reports := make([]StrategyReport, 0, len(strategies))
	for _, s := range strategies {
		report := StrategyReport{
			StrategyID:   s.ID,
			Ticker:       s.Ticker,
			StrategyType: s.StrategyType,
			OpenedAt:     s.OpenedAt,
			NetCost:      s.NetCost,
			Legs:         s.Legs,
		}

		spot, ok := prices[s.Ticker]
		if !ok {
			report.Note = couldNotAnalyze
			reports = append(reports, report)
			continue
		}

		fair, err := ps.strategyFairValue(spot, s.Legs, volatility)
		if err != nil {
			ps.logger.WithError(err).WithFields(logrus.Fields{
				"ticker":      s.Ticker,
				"strategy_id": s.ID,
			}).Warn("Pricing failed for strategy")
			report.Note = couldNotAnalyze
			reports = append(reports, report)
			continue
		}

		report.Analyzable = true
		report.UnderlyingPrice = spot
		report.FairValue = fair

		costBasis, ok := strategyCostBasis(&s)
		if ok {
			report.PnL = roundCents(fair - costBasis)
			if costBasis != 0 {
				report.PnLPercent = roundCents(report.PnL / costBasis * 100)
			}
		}

		reports = append(reports, report)
	}

	return reports, nil
}

// strategyFairValue sums quantity-weighted leg fair values
func (ps *PortfolioService) strategyFairValue(spot float64, legs []models.Leg, volatility float64) (float64, error) {
	total := 0.0
	for _, leg := range legs {
		fair, err := ps.pricing.Price(spot, leg.StrikePrice, yearsToExpiry(leg.Expiration), volatility, RiskFreeRate, leg.OptionType)
		if err != nil {
			return 0, err
		}
		total += float64(leg.Quantity) * fair
	}
	return roundCents(total), nil
}

// strategyCostBasis picks the figure a strategy's P&L is measured against:
// the net cost for multi-leg strategies, the leg entry price for single-leg
// ones. False means there is nothing to measure against.
func strategyCostBasis(s *models.Strategy) (float64, bool) {
	if len(s.Legs) > 1 {
		if s.NetCost == nil {
			return 0, false
		}
		return *s.NetCost, true
	}
	if len(s.Legs) == 1 {
		return s.Legs[0].EntryPrice, true
	}
	return 0, false
}

// fetchPrices fetches underlying prices for distinct tickers concurrently.
// Failures and non-positive sentinels are logged and simply absent from the
// result; they never cancel sibling fetches.
func (ps *PortfolioService) fetchPrices(ctx context.Context, tickers []string) map[string]float64 {
	prices := make(map[string]float64, len(tickers))

	var mu sync.Mutex
	var wg sync.WaitGroup
	for _, ticker := range tickers {
		wg.Add(1)
		go func(ticker string) {
			defer wg.Done()
			price, err := ps.marketData.GetPrice(ctx, ticker)
			if err != nil || price <= 0 {
				ps.logger.WithError(err).WithField("ticker", ticker).Warn("Price unavailable")
				return
			}
			mu.Lock()
			prices[ticker] = price
			mu.Unlock()
		}(ticker)
	}
	wg.Wait()

	return prices
}

// yearsToExpiry converts the calendar-day distance from now to expiration
// into years. Expired contracts count as zero, not negative.
func yearsToExpiry(expiration time.Time) float64 {
	now := time.Now()
	days := midnight(expiration).Sub(midnight(now)).Hours() / 24
	if days < 0 {
		days = 0
	}
	return days / 365.0
}

func midnight(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
