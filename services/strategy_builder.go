package services

import (
	"fmt"
	"strings"
	"time"

	"options-trader/models"
)

// StrategyBuilder turns a strategy template plus strike tokens into fully
// specified legs. Pure and stateless, safe for concurrent use.
type StrategyBuilder struct{}

// NewStrategyBuilder creates a new builder
func NewStrategyBuilder() *StrategyBuilder {
	return &StrategyBuilder{}
}

// requiredStrikeCount is how many strike tokens each template takes. Note
// FLY takes 2 strikes (outer wings) but produces 3 legs.
func requiredStrikeCount(st models.StrategyType) (int, bool) {
	switch st {
	case models.StrategySingle:
		return 1, true
	case models.StrategyVertical:
		return 2, true
	case models.StrategyFly:
		return 2, true
	case models.StrategyStraddle:
		return 1, true
	case models.StrategyIronCondor:
		return 4, true
	default:
		return 0, false
	}
}

// BuildLegs produces the ordered legs for a strategy template. Strike
// tokens use the same format as the compact notation's strike part
// ("150", "150c", "200p") and are consumed in the order supplied.
//
// entryPrice is recorded on the leg for SINGLE only; legs of multi-leg
// templates carry entryPrice 0 and the aggregate debit/credit is tracked
// on the parent strategy's net cost.
func (b *StrategyBuilder) BuildLegs(strategyType models.StrategyType, strikeTokens []string, expiration time.Time, entryPrice float64) ([]models.Leg, error) {
	required, ok := requiredStrikeCount(strategyType)
	if !ok {
		return nil, fmt.Errorf("no leg template for strategy type %q", strategyType)
	}
	if len(strikeTokens) != required {
		return nil, &models.InvalidStrikeCountError{
			StrategyType: strategyType,
			Required:     required,
			Got:          len(strikeTokens),
		}
	}

	strikes := make([]float64, len(strikeTokens))
	kinds := make([]models.OptionType, len(strikeTokens))
	for i, token := range strikeTokens {
		strike, kind, err := parseStrikeToken(strings.ToUpper(token))
		if err != nil {
			return nil, err
		}
		strikes[i] = strike
		kinds[i] = kind
	}

	switch strategyType {
	case models.StrategySingle:
		return []models.Leg{
			{OptionType: kinds[0], StrikePrice: strikes[0], Expiration: expiration, EntryPrice: entryPrice, Quantity: 1},
		}, nil

	case models.StrategyVertical:
		// Long the first strike, short the second, same kind.
		return []models.Leg{
			{OptionType: kinds[0], StrikePrice: strikes[0], Expiration: expiration, Quantity: 1},
			{OptionType: kinds[0], StrikePrice: strikes[1], Expiration: expiration, Quantity: -1},
		}, nil

	case models.StrategyFly:
		// Wings long, body short twice at the midpoint strike.
		middle := (strikes[0] + strikes[1]) / 2
		return []models.Leg{
			{OptionType: kinds[0], StrikePrice: strikes[0], Expiration: expiration, Quantity: 1},
			{OptionType: kinds[0], StrikePrice: middle, Expiration: expiration, Quantity: -2},
			{OptionType: kinds[0], StrikePrice: strikes[1], Expiration: expiration, Quantity: 1},
		}, nil

	case models.StrategyStraddle:
		// Long call and long put at the same strike.
		return []models.Leg{
			{OptionType: models.OptionCall, StrikePrice: strikes[0], Expiration: expiration, Quantity: 1},
			{OptionType: models.OptionPut, StrikePrice: strikes[0], Expiration: expiration, Quantity: 1},
		}, nil

	case models.StrategyIronCondor:
		// Strikes ascending: put buy < put sell < call sell < call buy.
		return []models.Leg{
			{OptionType: models.OptionPut, StrikePrice: strikes[0], Expiration: expiration, Quantity: 1},
			{OptionType: models.OptionPut, StrikePrice: strikes[1], Expiration: expiration, Quantity: -1},
			{OptionType: models.OptionCall, StrikePrice: strikes[2], Expiration: expiration, Quantity: -1},
			{OptionType: models.OptionCall, StrikePrice: strikes[3], Expiration: expiration, Quantity: 1},
		}, nil
	}

	return nil, fmt.Errorf("no leg template for strategy type %q", strategyType)
}
