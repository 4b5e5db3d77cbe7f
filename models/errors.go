package models

import "fmt"

// FormatError reports malformed compact notation. Token holds the part of
// the input that failed to parse so the caller can echo it back.
type FormatError struct {
	Token  string
	Reason string
}

func (e *FormatError) Error() string {
	if e.Token == "" {
		return fmt.Sprintf("invalid format: %s", e.Reason)
	}
	return fmt.Sprintf("invalid format: %s (token %q)", e.Reason, e.Token)
}

// InvalidStrikeCountError reports a strike/leg count that does not match the
// requested strategy template.
type InvalidStrikeCountError struct {
	StrategyType StrategyType
	Required     int
	Got          int
}

func (e *InvalidStrikeCountError) Error() string {
	return fmt.Sprintf("%s requires %d strikes, got %d", e.StrategyType, e.Required, e.Got)
}

// InvalidInputError reports an out-of-domain numeric input to the pricing
// model, such as a non-positive volatility.
type InvalidInputError struct {
	Field string
	Value float64
}

func (e *InvalidInputError) Error() string {
	return fmt.Sprintf("invalid pricing input: %s=%v", e.Field, e.Value)
}

// MarketDataUnavailableError marks a price fetch that failed or returned a
// non-positive sentinel. Non-fatal: valuation of other tickers continues.
type MarketDataUnavailableError struct {
	Ticker string
	Err    error
}

func (e *MarketDataUnavailableError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("market data unavailable for %s: %v", e.Ticker, e.Err)
	}
	return fmt.Sprintf("market data unavailable for %s", e.Ticker)
}

func (e *MarketDataUnavailableError) Unwrap() error {
	return e.Err
}
