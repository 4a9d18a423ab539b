package models

// BWBPosition is a fully self-contained snapshot of one eligible broken wing
// butterfly: buy 1 call at K1, sell 2 calls at K2, buy 1 call at K3 with
// K1 < K2 < K3 and unequal wing widths. All derived fields are rounded at
// construction time and never mutated afterwards; positions carry no
// reference back to the chain they came from.
type BWBPosition struct {
	Ticker    string  `json:"ticker"`
	Expiry    string  `json:"expiry"`
	DTE       int     `json:"dte"`
	K1        float64 `json:"k1"`
	K2        float64 `json:"k2"`
	K3        float64 `json:"k3"`
	WingLeft  float64 `json:"wing_left"`
	WingRight float64 `json:"wing_right"`
	Credit    float64 `json:"credit"`
	MaxProfit float64 `json:"max_profit"`
	MaxLoss   float64 `json:"max_loss"`
	Score     float64 `json:"score"`
}
