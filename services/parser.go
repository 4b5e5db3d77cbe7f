package services

import (
	"strconv"
	"strings"

	"options-trader/models"
)

// ParsedContract is the structured form of a compact option order like
// "NVDA 150c 30d"
type ParsedContract struct {
	Ticker     string            `json:"ticker"`
	Strike     float64           `json:"strike"`
	OptionType models.OptionType `json:"option_type"`
	Days       int               `json:"days"`
}

// ContractParser parses the compact notation "TICKER STRIKE[c|p] DAYS[d]".
// Pure and stateless, safe for concurrent use.
type ContractParser struct{}

// NewContractParser creates a new parser
func NewContractParser() *ContractParser {
	return &ContractParser{}
}

// Parse parses a compact order string, e.g. "NVDA 150c 30d" or
// "AAPL 200p 45". Matching is case-insensitive; the option kind defaults
// to call when the strike carries no suffix.
func (p *ContractParser) Parse(query string) (*ParsedContract, error) {
	parts := strings.Fields(strings.ToUpper(query))
	if len(parts) < 3 {
		return nil, &models.FormatError{
			Token:  query,
			Reason: "expected <TICKER> <STRIKE><c/p> <DAYS>d",
		}
	}

	result := &ParsedContract{Ticker: parts[0]}

	strike, optionType, err := parseStrikeToken(parts[1])
	if err != nil {
		return nil, err
	}
	result.Strike = strike
	result.OptionType = optionType

	daysPart := strings.TrimSuffix(parts[2], "D")
	days, err := strconv.Atoi(daysPart)
	if err != nil {
		return nil, &models.FormatError{Token: parts[2], Reason: "days must be a whole number"}
	}
	result.Days = days

	return result, nil
}

// parseStrikeToken parses a strike with an optional kind suffix, e.g.
// "150C", "200P" or "150" (defaults to call). The token must already be
// uppercased. Shared with the strategy builder, whose strike lists use the
// same token format.
func parseStrikeToken(token string) (float64, models.OptionType, error) {
	optionType := models.OptionCall
	numeric := token

	if strings.HasSuffix(token, "C") {
		numeric = strings.TrimSuffix(token, "C")
	} else if strings.HasSuffix(token, "P") {
		optionType = models.OptionPut
		numeric = strings.TrimSuffix(token, "P")
	}

	strike, err := strconv.ParseFloat(numeric, 64)
	if err != nil {
		return 0, "", &models.FormatError{Token: token, Reason: "strike must be a number"}
	}
	return strike, optionType, nil
}
