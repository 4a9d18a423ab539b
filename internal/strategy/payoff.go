package strategy

import "math"

// ContractMultiplier is the number of shares per standard option contract.
const ContractMultiplier = 100.0

// Credit returns the net premium per share for opening the spread: the trader
// buys the K1 and K3 legs at the ask and sells two K2 legs at the bid.
// Positive means a credit is received, negative means the position opens for
// a debit.
func Credit(askK1, bidK2, askK3 float64) float64 {
	return 2*bidK2 - askK1 - askK3
}

// MaxProfit returns the peak dollar profit of the spread, reached when the
// underlying settles exactly at K2: the long K1 leg is worth the left wing
// width and the remaining legs expire worthless.
func MaxProfit(credit, wingLeft float64) float64 {
	return (credit + wingLeft) * ContractMultiplier
}

// MaxLoss returns the worst-case dollar loss, realized for all settlements at
// or above K3 when the right wing is wider than the left. When the left wing
// is the larger one the structure cannot lose above K3 and the loss floors at
// zero. A debit-only loss below K1 is not modeled here.
func MaxLoss(wingLeft, wingRight, credit float64) float64 {
	return math.Max(0, (wingRight-wingLeft-credit)*ContractMultiplier)
}

// Score returns the reward-to-risk ratio expressed as a percentage. A
// risk-free-above-K3 position (zero max loss) scores 100; otherwise the score
// is maxProfit/maxLoss*100, unbounded above.
func Score(maxProfit, maxLoss float64) float64 {
	if maxLoss == 0 {
		return 100.0
	}
	return (maxProfit / maxLoss) * 100.0
}
