package models

import (
	"fmt"
	"strings"
)

// OptionType represents the type of option contract
type OptionType string

const (
	// OptionTypeCall represents a call option contract
	OptionTypeCall OptionType = "call"
	// OptionTypePut represents a put option contract
	OptionTypePut OptionType = "put"
)

// Contract is a single row of an options chain: one tradable contract for an
// underlying, expiry and strike. The scanner only ever reads it.
type Contract struct {
	Symbol string     `csv:"symbol" json:"symbol"`
	Expiry string     `csv:"expiry" json:"expiry"`
	DTE    int        `csv:"dte" json:"dte"`
	Strike float64    `csv:"strike" json:"strike"`
	Type   OptionType `csv:"type" json:"type"`
	Bid    float64    `csv:"bid" json:"bid"`
	Ask    float64    `csv:"ask" json:"ask"`
	Mid    float64    `csv:"mid" json:"mid"`
	Delta  float64    `csv:"delta" json:"delta"`
	IV     float64    `csv:"iv" json:"iv"`
}

// IsCall reports whether the contract is a call option.
func (c *Contract) IsCall() bool {
	return c.Type == OptionTypeCall
}

// Normalize uppercases the symbol and lowercases the option type in place.
func (c *Contract) Normalize() {
	c.Symbol = strings.ToUpper(c.Symbol)
	c.Type = OptionType(strings.ToLower(string(c.Type)))
}

// CheckType returns an error if the option type is neither call nor put.
// Unknown types indicate a malformed chain and are rejected outright rather
// than dropped row-by-row.
func (c *Contract) CheckType() error {
	if c.Type != OptionTypeCall && c.Type != OptionTypePut {
		return fmt.Errorf("invalid option type %q for %s strike %.2f", c.Type, c.Symbol, c.Strike)
	}
	return nil
}

// Validate checks market-data integrity for a single row. Rows failing
// validation are dropped by the loader, not propagated as errors.
func (c *Contract) Validate() error {
	if c.Strike <= 0 {
		return fmt.Errorf("strike must be positive, got %.4f", c.Strike)
	}
	if c.Bid < 0 || c.Ask < 0 {
		return fmt.Errorf("negative price: bid=%.4f ask=%.4f", c.Bid, c.Ask)
	}
	if c.Bid > c.Ask {
		return fmt.Errorf("bid %.4f exceeds ask %.4f", c.Bid, c.Ask)
	}
	if c.DTE < 0 {
		return fmt.Errorf("dte must be >= 0, got %d", c.DTE)
	}
	switch c.Type {
	case OptionTypeCall:
		if c.Delta < 0 || c.Delta > 1 {
			return fmt.Errorf("call delta %.4f outside [0,1]", c.Delta)
		}
	case OptionTypePut:
		if c.Delta < -1 || c.Delta > 0 {
			return fmt.Errorf("put delta %.4f outside [-1,0]", c.Delta)
		}
	}
	if c.IV <= 0 {
		return fmt.Errorf("iv must be positive, got %.4f", c.IV)
	}
	return nil
}
