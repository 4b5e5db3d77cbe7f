package models

import (
	"time"

	"gorm.io/gorm"
)

// OptionType is the contract kind, "call" or "put"
type OptionType string

const (
	OptionCall OptionType = "call"
	OptionPut  OptionType = "put"
)

// StrategyType identifies the multi-leg template a strategy was opened with
type StrategyType string

const (
	StrategySingle     StrategyType = "SINGLE"
	StrategyVertical   StrategyType = "VERTICAL"
	StrategyFly        StrategyType = "FLY"
	StrategyStraddle   StrategyType = "STRADDLE"
	StrategyIronCondor StrategyType = "IRON_CONDOR"
	StrategyCustom     StrategyType = "CUSTOM"
)

// StrategyStatus tracks the strategy lifecycle. CLOSED is terminal.
type StrategyStatus string

const (
	StatusOpen   StrategyStatus = "OPEN"
	StatusClosed StrategyStatus = "CLOSED"
)

// RequiredLegCount returns how many legs a strategy of the given type must
// hold. The second return is false for CUSTOM, which is unconstrained.
func RequiredLegCount(st StrategyType) (int, bool) {
	switch st {
	case StrategySingle:
		return 1, true
	case StrategyVertical:
		return 2, true
	case StrategyStraddle:
		return 2, true
	case StrategyFly:
		return 3, true
	case StrategyIronCondor:
		return 4, true
	default:
		return 0, false
	}
}

// Strategy is the owning aggregate for one or more option legs opened
// together. Legs are created and disposed of with the strategy, never
// individually.
type Strategy struct {
	gorm.Model
	UserID       string         `gorm:"index" json:"user_id"`
	Ticker       string         `gorm:"index" json:"ticker"`
	StrategyType StrategyType   `json:"strategy_type"`
	Status       StrategyStatus `gorm:"index" json:"status"`
	OpenedAt     time.Time      `json:"opened_at"`
	// Net debit (positive) or credit (negative) for the whole strategy.
	// Nil for single-leg strategies, which carry economics on the leg.
	NetCost *float64 `json:"net_cost,omitempty"`
	// Ordered legs, insertion order = template order.
	Legs []Leg `gorm:"foreignKey:StrategyID;constraint:OnDelete:CASCADE" json:"legs"`
}

// Leg is a single options contract within a strategy
type Leg struct {
	gorm.Model
	StrategyID  uint       `gorm:"index" json:"strategy_id"`
	OptionType  OptionType `json:"option_type"`
	StrikePrice float64    `json:"strike_price"`
	Expiration  time.Time  `json:"expiration"`
	// Price paid (long) or received (short) per contract. Zero for legs of
	// multi-leg templates, whose economics live on Strategy.NetCost.
	EntryPrice float64 `json:"entry_price"`
	// Positive = long, negative = short, magnitude = contract count.
	Quantity int `json:"quantity"`
}

// Holding is the legacy single-position record kept per user, grouped by
// (ticker, strike, kind) for the flat portfolio view
type Holding struct {
	gorm.Model
	UserID      string     `gorm:"index" json:"user_id"`
	Ticker      string     `gorm:"index" json:"ticker"`
	OptionType  OptionType `json:"option_type"`
	StrikePrice float64    `json:"strike_price"`
	Expiration  time.Time  `json:"expiration"`
	BuyPrice    float64    `json:"buy_price"`
}

// ExpiryOption pairs a days-to-expiration count with its calendar date.
// Derived on demand, never persisted.
type ExpiryOption struct {
	DTE  int       `json:"dte"`
	Date time.Time `json:"date"`
}

// Validate checks the leg-count invariant for the strategy's type
func (s *Strategy) Validate() error {
	required, constrained := RequiredLegCount(s.StrategyType)
	if constrained && len(s.Legs) != required {
		return &InvalidStrikeCountError{
			StrategyType: s.StrategyType,
			Required:     required,
			Got:          len(s.Legs),
		}
	}
	return nil
}

// TableName overrides for cleaner table names
func (Strategy) TableName() string {
	return "strategies"
}

func (Leg) TableName() string {
	return "legs"
}

func (Holding) TableName() string {
	return "holdings"
}
