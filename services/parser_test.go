package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"options-trader/models"
)

func TestParse(t *testing.T) {
	p := NewContractParser()

	t.Run("call with explicit suffix", func(t *testing.T) {
		parsed, err := p.Parse("NVDA 150c 30d")
		require.NoError(t, err)
		assert.Equal(t, "NVDA", parsed.Ticker)
		assert.Equal(t, 150.0, parsed.Strike)
		assert.Equal(t, models.OptionCall, parsed.OptionType)
		assert.Equal(t, 30, parsed.Days)
	})

	t.Run("put without day suffix", func(t *testing.T) {
		parsed, err := p.Parse("AAPL 200p 45")
		require.NoError(t, err)
		assert.Equal(t, "AAPL", parsed.Ticker)
		assert.Equal(t, 200.0, parsed.Strike)
		assert.Equal(t, models.OptionPut, parsed.OptionType)
		assert.Equal(t, 45, parsed.Days)
	})

	t.Run("bare strike defaults to call", func(t *testing.T) {
		parsed, err := p.Parse("tsla 420.5 7d")
		require.NoError(t, err)
		assert.Equal(t, "TSLA", parsed.Ticker)
		assert.Equal(t, 420.5, parsed.Strike)
		assert.Equal(t, models.OptionCall, parsed.OptionType)
		assert.Equal(t, 7, parsed.Days)
	})

	t.Run("too few tokens", func(t *testing.T) {
		_, err := p.Parse("BAD")
		require.Error(t, err)

		var formatErr *models.FormatError
		assert.ErrorAs(t, err, &formatErr)
	})

	t.Run("non-numeric strike", func(t *testing.T) {
		_, err := p.Parse("NVDA abc 30d")
		require.Error(t, err)

		var formatErr *models.FormatError
		require.ErrorAs(t, err, &formatErr)
		assert.Equal(t, "ABC", formatErr.Token)
	})

	t.Run("non-numeric days", func(t *testing.T) {
		_, err := p.Parse("NVDA 150c soon")
		require.Error(t, err)

		var formatErr *models.FormatError
		require.ErrorAs(t, err, &formatErr)
		assert.Equal(t, "SOON", formatErr.Token)
	})

	t.Run("extra tokens are ignored", func(t *testing.T) {
		parsed, err := p.Parse("NVDA 150c 30d extra")
		require.NoError(t, err)
		assert.Equal(t, 30, parsed.Days)
	})
}
