package models

import (
	"testing"
)

func validCall() Contract {
	return Contract{
		Symbol: "SPY",
		Expiry: "2025-01-17",
		DTE:    5,
		Strike: 450,
		Type:   OptionTypeCall,
		Bid:    3.00,
		Ask:    3.50,
		Mid:    3.25,
		Delta:  0.30,
		IV:     0.22,
	}
}

func TestContract_IsCall(t *testing.T) {
	c := validCall()
	if !c.IsCall() {
		t.Error("call contract should report IsCall")
	}

	c.Type = OptionTypePut
	c.Delta = -0.30
	if c.IsCall() {
		t.Error("put contract should not report IsCall")
	}
}

func TestContract_Normalize(t *testing.T) {
	c := Contract{Symbol: "spy", Type: OptionType("CALL")}
	c.Normalize()

	if c.Symbol != "SPY" {
		t.Errorf("symbol = %q, want SPY", c.Symbol)
	}
	if c.Type != OptionTypeCall {
		t.Errorf("type = %q, want call", c.Type)
	}
}

func TestContract_CheckType(t *testing.T) {
	c := validCall()
	if err := c.CheckType(); err != nil {
		t.Errorf("call type rejected: %v", err)
	}

	c.Type = OptionTypePut
	if err := c.CheckType(); err != nil {
		t.Errorf("put type rejected: %v", err)
	}

	c.Type = OptionType("straddle")
	if err := c.CheckType(); err == nil {
		t.Error("unknown option type accepted")
	}
}

func TestContract_Validate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Contract)
		wantErr bool
	}{
		{"valid call", func(c *Contract) {}, false},
		{"valid put", func(c *Contract) {
			c.Type = OptionTypePut
			c.Delta = -0.30
		}, false},
		{"zero strike", func(c *Contract) { c.Strike = 0 }, true},
		{"negative strike", func(c *Contract) { c.Strike = -450 }, true},
		{"negative bid", func(c *Contract) { c.Bid = -0.05 }, true},
		{"negative ask", func(c *Contract) { c.Ask = -0.05 }, true},
		{"crossed market", func(c *Contract) {
			c.Bid = 3.60
			c.Ask = 3.50
		}, true},
		{"bid equals ask", func(c *Contract) {
			c.Bid = 3.50
			c.Ask = 3.50
		}, false},
		{"negative dte", func(c *Contract) { c.DTE = -1 }, true},
		{"zero dte", func(c *Contract) { c.DTE = 0 }, false},
		{"call delta above one", func(c *Contract) { c.Delta = 1.2 }, true},
		{"call delta negative", func(c *Contract) { c.Delta = -0.30 }, true},
		{"call delta boundary", func(c *Contract) { c.Delta = 1.0 }, false},
		{"put delta positive", func(c *Contract) {
			c.Type = OptionTypePut
			c.Delta = 0.30
		}, true},
		{"put delta below minus one", func(c *Contract) {
			c.Type = OptionTypePut
			c.Delta = -1.2
		}, true},
		{"zero iv", func(c *Contract) { c.IV = 0 }, true},
		{"negative iv", func(c *Contract) { c.IV = -0.1 }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := validCall()
			tt.mutate(&c)
			err := c.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}
