package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"options-trader/models"
)

func TestBuildLegs(t *testing.T) {
	b := NewStrategyBuilder()
	expiry := time.Date(2025, time.June, 20, 0, 0, 0, 0, time.UTC)

	t.Run("single carries the entry price", func(t *testing.T) {
		legs, err := b.BuildLegs(models.StrategySingle, []string{"150c"}, expiry, 3.25)
		require.NoError(t, err)
		require.Len(t, legs, 1)

		assert.Equal(t, models.OptionCall, legs[0].OptionType)
		assert.Equal(t, 150.0, legs[0].StrikePrice)
		assert.Equal(t, 3.25, legs[0].EntryPrice)
		assert.Equal(t, 1, legs[0].Quantity)
		assert.Equal(t, expiry, legs[0].Expiration)
	})

	t.Run("vertical longs the low strike and shorts the high", func(t *testing.T) {
		legs, err := b.BuildLegs(models.StrategyVertical, []string{"100p", "110p"}, expiry, 0)
		require.NoError(t, err)
		require.Len(t, legs, 2)

		assert.Equal(t, 100.0, legs[0].StrikePrice)
		assert.Equal(t, 1, legs[0].Quantity)
		assert.Equal(t, 110.0, legs[1].StrikePrice)
		assert.Equal(t, -1, legs[1].Quantity)
		for _, leg := range legs {
			assert.Equal(t, models.OptionPut, leg.OptionType)
			assert.Equal(t, 0.0, leg.EntryPrice)
		}
	})

	t.Run("fly synthesizes the short body at the midpoint", func(t *testing.T) {
		legs, err := b.BuildLegs(models.StrategyFly, []string{"100", "120"}, expiry, 0)
		require.NoError(t, err)
		require.Len(t, legs, 3)

		assert.Equal(t, 100.0, legs[0].StrikePrice)
		assert.Equal(t, 1, legs[0].Quantity)
		assert.Equal(t, 110.0, legs[1].StrikePrice)
		assert.Equal(t, -2, legs[1].Quantity)
		assert.Equal(t, 120.0, legs[2].StrikePrice)
		assert.Equal(t, 1, legs[2].Quantity)
		for _, leg := range legs {
			assert.Equal(t, models.OptionCall, leg.OptionType)
		}
	})

	t.Run("straddle pairs a long call and long put at one strike", func(t *testing.T) {
		legs, err := b.BuildLegs(models.StrategyStraddle, []string{"250"}, expiry, 0)
		require.NoError(t, err)
		require.Len(t, legs, 2)

		assert.Equal(t, models.OptionCall, legs[0].OptionType)
		assert.Equal(t, models.OptionPut, legs[1].OptionType)
		for _, leg := range legs {
			assert.Equal(t, 250.0, leg.StrikePrice)
			assert.Equal(t, 1, leg.Quantity)
		}
	})

	t.Run("iron condor preserves strike order with signs +1 -1 -1 +1", func(t *testing.T) {
		legs, err := b.BuildLegs(models.StrategyIronCondor, []string{"100", "110", "130", "140"}, expiry, 0)
		require.NoError(t, err)
		require.Len(t, legs, 4)

		wantStrikes := []float64{100, 110, 130, 140}
		wantQty := []int{1, -1, -1, 1}
		wantTypes := []models.OptionType{models.OptionPut, models.OptionPut, models.OptionCall, models.OptionCall}
		for i, leg := range legs {
			assert.Equal(t, wantStrikes[i], leg.StrikePrice)
			assert.Equal(t, wantQty[i], leg.Quantity)
			assert.Equal(t, wantTypes[i], leg.OptionType)
		}
	})

	t.Run("strike count mismatch fails before building legs", func(t *testing.T) {
		legs, err := b.BuildLegs(models.StrategyIronCondor, []string{"100"}, expiry, 0)
		require.Error(t, err)
		assert.Nil(t, legs)

		var countErr *models.InvalidStrikeCountError
		require.ErrorAs(t, err, &countErr)
		assert.Equal(t, models.StrategyIronCondor, countErr.StrategyType)
		assert.Equal(t, 4, countErr.Required)
		assert.Equal(t, 1, countErr.Got)
	})

	t.Run("bad strike token fails with a format error", func(t *testing.T) {
		_, err := b.BuildLegs(models.StrategyVertical, []string{"100", "high"}, expiry, 0)
		require.Error(t, err)

		var formatErr *models.FormatError
		assert.ErrorAs(t, err, &formatErr)
	})

	t.Run("custom has no template", func(t *testing.T) {
		_, err := b.BuildLegs(models.StrategyCustom, []string{"100"}, expiry, 0)
		assert.Error(t, err)
	})
}

func TestStrategyValidate(t *testing.T) {
	t.Run("leg count must match the template", func(t *testing.T) {
		s := &models.Strategy{
			StrategyType: models.StrategyFly,
			Legs:         make([]models.Leg, 2),
		}
		err := s.Validate()
		require.Error(t, err)

		var countErr *models.InvalidStrikeCountError
		require.ErrorAs(t, err, &countErr)
		assert.Equal(t, 3, countErr.Required)
	})

	t.Run("custom is unconstrained", func(t *testing.T) {
		s := &models.Strategy{
			StrategyType: models.StrategyCustom,
			Legs:         make([]models.Leg, 7),
		}
		assert.NoError(t, s.Validate())
	})
}
