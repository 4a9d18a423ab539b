package chain

import (
	"math"
	"math/rand"
	"time"

	"github.com/openquant/bwb-scanner/internal/models"
	"github.com/openquant/bwb-scanner/internal/util"
)

// Generator produces a synthetic but realistic options chain for demos and
// tests. Pricing uses a simplified moneyness model, not a real pricing
// engine. Generation is reproducible: the same seed and inputs yield an
// identical chain on every call.
type Generator struct {
	Ticker string
	Seed   int64
	// Base anchors expiry dates; zero value means time.Now at generation.
	Base time.Time
}

// NewGenerator creates a generator for the given ticker and seed.
func NewGenerator(ticker string, seed int64) *Generator {
	return &Generator{Ticker: ticker, Seed: seed}
}

// Chain generates calls and puts for each DTE across a strike ladder spanning
// 80% to 120% of spot. numStrikes is a target; duplicates from rounding to
// whole-dollar strikes are collapsed.
func (g *Generator) Chain(spot float64, dtes []int, numStrikes int) []models.Contract {
	rng := rand.New(rand.NewSource(g.Seed)) // #nosec G404 -- reproducibility is the point

	base := g.Base
	if base.IsZero() {
		base = time.Now()
	}

	strikes := strikeLadder(spot, numStrikes)

	rows := make([]models.Contract, 0, len(strikes)*len(dtes)*2)
	for _, dte := range dtes {
		expiry := base.AddDate(0, 0, dte).Format("2006-01-02")
		for _, strike := range strikes {
			for _, typ := range []models.OptionType{models.OptionTypeCall, models.OptionTypePut} {
				delta := syntheticDelta(strike, spot, typ, dte)
				iv := syntheticIV(rng, strike, spot, dte)
				bid, ask, mid := syntheticPrice(strike, spot, typ, dte, iv)

				rows = append(rows, models.Contract{
					Symbol: g.Ticker,
					Expiry: expiry,
					DTE:    dte,
					Strike: strike,
					Type:   typ,
					Bid:    bid,
					Ask:    ask,
					Mid:    mid,
					Delta:  delta,
					IV:     iv,
				})
			}
		}
	}
	return rows
}

// strikeLadder spaces whole-dollar strikes evenly from 80% to 120% of spot.
func strikeLadder(spot float64, numStrikes int) []float64 {
	if numStrikes < 2 {
		numStrikes = 2
	}
	lo := spot * 0.80
	hi := spot * 1.20
	step := (hi - lo) / float64(numStrikes-1)

	strikes := make([]float64, 0, numStrikes)
	var last float64
	for i := 0; i < numStrikes; i++ {
		s := math.Round(lo + step*float64(i))
		if len(strikes) > 0 && s == last {
			continue
		}
		strikes = append(strikes, s)
		last = s
	}
	return strikes
}

// syntheticDelta approximates delta from moneyness with mild time decay,
// clamped away from 0 and 1.
func syntheticDelta(strike, spot float64, typ models.OptionType, dte int) float64 {
	moneyness := (spot - strike) / spot
	timeFactor := math.Sqrt(float64(dte) / 365.0)

	var delta float64
	if typ == models.OptionTypeCall {
		delta = (0.5 + moneyness*2.0) * (1 - 0.3*timeFactor)
		delta = clamp(delta, 0.01, 0.99)
	} else {
		delta = (-0.5 + moneyness*2.0) * (1 - 0.3*timeFactor)
		delta = clamp(delta, -0.99, -0.01)
	}
	return util.Round4(delta)
}

// syntheticIV builds a volatility smile with a term-structure bump and a
// small seeded noise component.
func syntheticIV(rng *rand.Rand, strike, spot float64, dte int) float64 {
	const baseIV = 0.20
	moneyness := math.Abs(strike-spot) / spot
	smile := 1.0 + moneyness*0.5
	term := 1.0 + 0.05/math.Max(1, math.Sqrt(float64(dte)/30.0))

	iv := baseIV*smile*term + rng.NormFloat64()*0.01
	return util.Round4(clamp(iv, 0.05, 1.5))
}

// syntheticPrice prices the option as intrinsic value plus an IV-scaled time
// value, with a spread that widens for cheap contracts.
func syntheticPrice(strike, spot float64, typ models.OptionType, dte int, iv float64) (bid, ask, mid float64) {
	var intrinsic float64
	if typ == models.OptionTypeCall {
		intrinsic = math.Max(0, spot-strike)
	} else {
		intrinsic = math.Max(0, strike-spot)
	}

	timeValue := iv * spot * math.Sqrt(float64(dte)/365.0) * 0.4
	moneyness := math.Abs(strike-spot) / spot
	if moneyness > 0.1 {
		timeValue *= 1 - moneyness
	}

	midPrice := intrinsic + timeValue

	spreadPct := 0.02
	if midPrice <= 1.0 {
		spreadPct = 0.05
	}
	spread := math.Max(0.01, midPrice*spreadPct)

	bid = util.Round2(math.Max(0.01, midPrice-spread/2))
	ask = util.Round2(midPrice + spread/2)
	mid = util.Round2(midPrice)
	return bid, ask, mid
}

func clamp(x, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, x))
}
